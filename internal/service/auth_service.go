package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/logger"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/utils"
	"github.com/iliyamo/shop-backend/internal/validation"
)

var (
	errBadCredentials = apperror.New(apperror.KindAuthentication, "Bad credentials")
	errUserDisabled   = apperror.New(apperror.KindAuthentication, "User is disabled")
)

// AuthService verifies credentials and hands out token pairs.
type AuthService struct {
	users  UserFinder
	tokens *TokenService
}

func NewAuthService(users UserFinder, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login checks the account state before the password, so a disabled
// account reports "User is disabled" whatever password was sent.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (TokenPair, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validation.Login.Validate(req); err != nil {
		return TokenPair{}, err
	}
	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return TokenPair{}, errBadCredentials
		}
		return TokenPair{}, err
	}
	if !u.Enabled {
		return TokenPair{}, errUserDisabled
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		logger.Warn("login rejected", zap.String("username", u.Username))
		return TokenPair{}, errBadCredentials
	}
	pair, err := s.tokens.GenerateTokenPair(ctx, u.Username)
	if err != nil {
		return TokenPair{}, err
	}
	logger.Info("login", zap.Uint64("user_id", u.ID), zap.String("role", string(u.Role)))
	return pair, nil
}
