// Package validation holds one typed validator per request payload. The
// struct tags on the payloads do the checking; each validator owns the
// messages reported back to the client.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/model"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Let numeric tags (gte, gt) apply to money fields, at the scale the
	// database stores: 0.001 is checked as the 0.00 it would become.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Round(model.MoneyScale).Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validator checks a single payload type.
type Validator[T any] interface {
	Validate(dto T) error
}

// Messages maps "Field.tag" to the message reported when that check fails.
type Messages map[string]string

// Struct validates T through its struct tags.
type Struct[T any] struct {
	messages Messages
}

// NewStruct builds a validator for T with the given messages.
func NewStruct[T any](messages Messages) Struct[T] {
	return Struct[T]{messages: messages}
}

// Validate returns a ValidationFailed error describing the first failed
// check, or nil.
func (s Struct[T]) Validate(dto T) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.Wrap(apperror.KindUnexpected, "validation setup failed", err)
	}
	fe := fieldErrs[0]
	if msg, ok := s.messages[fe.StructField()+"."+fe.Tag()]; ok {
		return apperror.Validation("%s", msg)
	}
	return apperror.Validation("%s is invalid (%s)", lowerFirst(fe.StructField()), fe.Tag())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

var (
	Login = NewStruct[model.LoginRequest](Messages{
		"Username.required": "Username cannot be empty",
		"Password.required": "Password cannot be empty",
	})

	Register = NewStruct[model.RegisterRequest](Messages{
		"Username.required": "Username cannot be empty",
		"Username.min":      "Username must have at least 3 characters",
		"Username.max":      "Username cannot be longer than 50 characters",
		"Username.alphanum": "Username can contain only letters and digits",
		"Password.required": "Password cannot be empty",
		"Password.min":      "Password must have at least 8 characters",
		"Password.max":      "Password cannot be longer than 72 characters",
		"Email.required":    "Email cannot be empty",
		"Email.email":       "Email has wrong format",
		"Email.max":         "Email cannot be longer than 100 characters",
	})

	Token = NewStruct[model.TokenRequest](Messages{
		"Token.required": "Token cannot be empty",
	})

	Email = NewStruct[model.EmailRequest](Messages{
		"Email.required": "Email cannot be empty",
		"Email.email":    "Email has wrong format",
	})

	NewPassword = NewStruct[model.NewPasswordRequest](Messages{
		"Token.required":    "Token cannot be empty",
		"Password.required": "Password cannot be empty",
		"Password.min":      "Password must have at least 8 characters",
		"Password.max":      "Password cannot be longer than 72 characters",
	})

	ChangePassword = NewStruct[model.ChangePasswordRequest](Messages{
		"OldPassword.required": "Old password cannot be empty",
		"NewPassword.required": "New password cannot be empty",
		"NewPassword.min":      "Password must have at least 8 characters",
		"NewPassword.max":      "Password cannot be longer than 72 characters",
		"NewPassword.nefield":  "New password must differ from the old one",
	})

	Role = NewStruct[model.RoleRequest](Messages{
		"Role.required": "Role cannot be empty",
		"Role.oneof":    "Role must be one of WORKER, LEADER, ADMIN",
	})

	Client = NewStruct[model.ClientRequest](Messages{
		"Name.required":    "Name cannot be empty",
		"Name.max":         "Name cannot be longer than 50 characters",
		"Surname.required": "Surname cannot be empty",
		"Surname.max":      "Surname cannot be longer than 50 characters",
		"Age.gte":          "Age must be at least 18",
		"Age.lte":          "Age cannot be greater than 150",
		"Cash.gte":         "Cash cannot be negative",
	})

	Product = NewStruct[model.ProductRequest](Messages{
		"Name.required":     "Name cannot be empty",
		"Name.max":          "Name cannot be longer than 100 characters",
		"Category.required": "Category cannot be empty",
		"Category.max":      "Category cannot be longer than 50 characters",
		"Price.gt":          "Price must be greater than 0",
	})

	Order = NewStruct[model.OrderRequest](Messages{
		"ClientID.required":  "Client id cannot be empty",
		"ProductID.required": "Product id cannot be empty",
	})
)

// Category checks the category filter of the statistics queries.
func Category(category string) error {
	if strings.TrimSpace(category) == "" {
		return apperror.Validation("Category cannot be empty")
	}
	return nil
}

// IDs checks a batch of identifiers.
func IDs(ids []uint64) error {
	if len(ids) == 0 {
		return apperror.Validation("Ids cannot be empty")
	}
	for _, id := range ids {
		if id == 0 {
			return apperror.Validation("Id must be positive, got %d", id)
		}
	}
	return nil
}

var _ Validator[model.ClientRequest] = Client
