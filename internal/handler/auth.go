package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/service"
)

const (
	AccessTokenCookie  = "AccessToken"
	RefreshTokenCookie = "RefreshToken"
)

// AuthHandler serves login and token refresh.
type AuthHandler struct {
	Auth         *service.AuthService
	Tokens       *service.TokenService
	CookieMaxAge int // seconds
}

// NewAuthHandler builds the login handler; cookieMaxAge is in seconds.
func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService, cookieMaxAge int) *AuthHandler {
	return &AuthHandler{Auth: auth, Tokens: tokens, CookieMaxAge: cookieMaxAge}
}

// Login: verify credentials, then return the pair in the body and as
// same-site cookies.
func (h *AuthHandler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req)
	if err != nil {
		return err
	}
	c.SetCookie(h.cookie(AccessTokenCookie, pair.AccessToken))
	c.SetCookie(h.cookie(RefreshTokenCookie, pair.RefreshToken))
	return c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req model.RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	pair, err := h.Tokens.RefreshTokenPair(ctx, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   h.CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
