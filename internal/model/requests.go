package model

import "github.com/shopspring/decimal"

// Request payloads. Validation tags are read by package validation.

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token; emptiness is checked by the token
// service.
type RefreshRequest struct {
	Token string `json:"token"`
}

// RegisterRequest is the body of POST /users/login/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Email    string `json:"email" validate:"required,email,max=100"`
}

// TokenRequest carries an e-mailed activation token.
type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// EmailRequest names the account for resend-activation and lost-password.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewPasswordRequest sets a password from a lost-password token.
type NewPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ChangePasswordRequest changes the caller's own password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72,nefield=OldPassword"`
}

// RoleRequest is the admin role change.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=WORKER LEADER ADMIN"`
}

// ClientRequest creates a client. Cash is rounded to MoneyScale.
type ClientRequest struct {
	Name    string          `json:"name" validate:"required,max=50"`
	Surname string          `json:"surname" validate:"required,max=50"`
	Age     int             `json:"age" validate:"gte=18,lte=150"`
	Cash    decimal.Decimal `json:"cash" validate:"gte=0"`
}

// ProductRequest creates a product. Price is rounded to MoneyScale.
type ProductRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Category string          `json:"category" validate:"required,max=50"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
}

// OrderRequest links an existing client to an existing product.
type OrderRequest struct {
	ClientID  uint64 `json:"clientId" validate:"required"`
	ProductID uint64 `json:"productId" validate:"required"`
}
