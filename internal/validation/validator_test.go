package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/model"
)

func TestRegisterMessages(t *testing.T) {
	cases := []struct {
		name string
		req  model.RegisterRequest
		want string
	}{
		{"empty username", model.RegisterRequest{Password: "password1", Email: "a@b.co"}, "Username cannot be empty"},
		{"short username", model.RegisterRequest{Username: "ab", Password: "password1", Email: "a@b.co"}, "Username must have at least 3 characters"},
		{"symbols", model.RegisterRequest{Username: "ab-c", Password: "password1", Email: "a@b.co"}, "Username can contain only letters and digits"},
		{"short password", model.RegisterRequest{Username: "alice", Password: "short", Email: "a@b.co"}, "Password must have at least 8 characters"},
		{"bad email", model.RegisterRequest{Username: "alice", Password: "password1", Email: "nope"}, "Email has wrong format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Register.Validate(tc.req)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, tc.want, apperror.Message(err))
		})
	}

	assert.NoError(t, Register.Validate(model.RegisterRequest{Username: "alice", Password: "password1", Email: "a@b.co"}))
}

func TestClientMoneyTags(t *testing.T) {
	ok := model.ClientRequest{Name: "Ann", Surname: "Lee", Age: 30, Cash: decimal.Zero}
	assert.NoError(t, Client.Validate(ok))

	neg := ok
	neg.Cash = decimal.NewFromFloat(-0.01)
	assert.Equal(t, "Cash cannot be negative", apperror.Message(Client.Validate(neg)))

	young := ok
	young.Age = 17
	assert.Equal(t, "Age must be at least 18", apperror.Message(Client.Validate(young)))
}

func TestProductPrice(t *testing.T) {
	p := model.ProductRequest{Name: "ball", Category: "toys", Price: decimal.Zero}
	assert.Equal(t, "Price must be greater than 0", apperror.Message(Product.Validate(p)))

	p.Price = decimal.RequireFromString("0.01")
	assert.NoError(t, Product.Validate(p))

	// Sub-cent prices would be stored as 0.00.
	for _, price := range []string{"0.001", "0.004"} {
		p.Price = decimal.RequireFromString(price)
		assert.Equal(t, "Price must be greater than 0", apperror.Message(Product.Validate(p)), price)
	}
}

func TestChangePasswordMustDiffer(t *testing.T) {
	err := ChangePassword.Validate(model.ChangePasswordRequest{OldPassword: "password1", NewPassword: "password1"})
	assert.Equal(t, "New password must differ from the old one", apperror.Message(err))
}

func TestRoleOneOf(t *testing.T) {
	assert.NoError(t, Role.Validate(model.RoleRequest{Role: "LEADER"}))
	assert.Equal(t, "Role must be one of WORKER, LEADER, ADMIN", apperror.Message(Role.Validate(model.RoleRequest{Role: "boss"})))
}

func TestFallbackMessage(t *testing.T) {
	err := Client.Validate(model.ClientRequest{Name: "Ann", Surname: "Lee", Age: 200})
	assert.Equal(t, "Age cannot be greater than 150", apperror.Message(err))

	err = NewStruct[model.TokenRequest](nil).Validate(model.TokenRequest{})
	assert.Equal(t, "token is invalid (required)", apperror.Message(err))
}

func TestCategoryAndIDs(t *testing.T) {
	assert.ErrorIs(t, Category("  "), apperror.ErrValidation)
	assert.NoError(t, Category("toys"))

	assert.Equal(t, "Ids cannot be empty", apperror.Message(IDs(nil)))
	assert.Equal(t, "Id must be positive, got 0", apperror.Message(IDs([]uint64{3, 0})))
	assert.NoError(t, IDs([]uint64{1, 2}))
}
