package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/middleware"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/service"
)

// UserHandler serves the account flows under /users.
type UserHandler struct {
	Users *service.UserService
}

// NewUserHandler wires the account endpoints to users.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// emailSentResponse tells the caller whether the e-mail left the relay.
type emailSentResponse struct {
	EmailSent bool `json:"emailSent"`
}

// Register handles POST /users/login/register. It answers 201 with the new
// user id even when the activation e-mail could not be sent.
func (h *UserHandler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Users.Register(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// Activate handles POST /users/login/activate with the e-mailed token. An
// expired token yields {"id": null}.
func (h *UserHandler) Activate(c echo.Context) error {
	var req model.TokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Users.Activate(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// ResendActivation handles POST /users/login/token and mails a fresh activation link
// when the account is still inactive.
func (h *UserHandler) ResendActivation(c echo.Context) error {
	var req model.EmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	sent, err := h.Users.ResendActivation(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emailSentResponse{EmailSent: sent})
}

// LostPassword: POST /users/login/password.
func (h *UserHandler) LostPassword(c echo.Context) error {
	var req model.EmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	sent, err := h.Users.RequestPasswordReset(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emailSentResponse{EmailSent: sent})
}

// ResetPassword: PATCH /users/login/password.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req model.NewPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Users.ResetPassword(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// ChangePassword: PATCH /users/password, for the authenticated caller.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return apperror.New(apperror.KindAuthentication, middleware.MsgAuthenticationRequired)
	}
	var req model.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.ChangePassword(ctx, p.UserID, req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /users/:id (admins only).
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// ChangeRole handles PATCH /users/:id/role (admins only).
func (h *UserHandler) ChangeRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.RoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.ChangeRole(ctx, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// ChangeEmail handles PATCH /users/:id/email (admins only).
func (h *UserHandler) ChangeEmail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.EmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.ChangeEmail(ctx, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /users/:id and drops any pending token with the user.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
