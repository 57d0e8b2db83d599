package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/logger"
	"github.com/iliyamo/shop-backend/internal/mail"
	"github.com/iliyamo/shop-backend/internal/metrics"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/utils"
	"github.com/iliyamo/shop-backend/internal/validation"
)

// UserConfig configures password hashing and the mailed verification links.
type UserConfig struct {
	BcryptCost      int
	VerificationTTL time.Duration
	BaseURL         string
}

// RegisterResult reports the new user and whether the activation mail went
// out. A failed mail never undoes the registration.
type RegisterResult struct {
	ID        uint64 `json:"id"`
	EmailSent bool   `json:"emailSent"`
}

// IDResult is returned by activation and password reset. ID is nil when the
// token had expired; the token is deleted in that case.
type IDResult struct {
	ID *uint64 `json:"id"`
}

// UserService implements registration, activation and account changes.
// Every read-then-write runs inside one transaction.
type UserService struct {
	tx       Transactor
	users    UserStore
	mailer   mail.Sender
	cfg      UserConfig
	now      func() time.Time
	newToken func() string
}

func NewUserService(tx Transactor, users UserStore, mailer mail.Sender, cfg UserConfig) *UserService {
	return &UserService{
		tx:       tx,
		users:    users,
		mailer:   mailer,
		cfg:      cfg,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (RegisterResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Register.Validate(req); err != nil {
		return RegisterResult{}, err
	}
	hash, err := utils.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return RegisterResult{}, err
	}

	var (
		u     model.User
		token model.VerificationToken
	)
	err = s.tx(ctx, func(st Stores) error {
		if err := absent(st.Users.FindByUsername(ctx, req.Username)); err != nil {
			if errors.Is(err, apperror.ErrConflict) {
				return apperror.Conflict("User with username %s already exists", req.Username)
			}
			return err
		}
		if err := absent(st.Users.FindByEmail(ctx, req.Email)); err != nil {
			if errors.Is(err, apperror.ErrConflict) {
				return apperror.Conflict("User with email %s already exists", req.Email)
			}
			return err
		}
		u = model.User{Username: req.Username, PasswordHash: hash, Email: req.Email, Role: model.RoleWorker}
		if err := st.Users.Create(ctx, &u); err != nil {
			return err
		}
		token, err = s.issueVerificationToken(ctx, st, u.ID)
		return err
	})
	if err != nil {
		return RegisterResult{}, err
	}
	logger.Info("user registered", zap.Uint64("user_id", u.ID))

	subject, body := mail.ActivationMessage(s.cfg.BaseURL, token.Token)
	return RegisterResult{ID: u.ID, EmailSent: s.send(ctx, u.Email, subject, body)}, nil
}

func (s *UserService) Activate(ctx context.Context, req model.TokenRequest) (IDResult, error) {
	if err := validation.Token.Validate(req); err != nil {
		return IDResult{}, err
	}
	var out IDResult
	err := s.tx(ctx, func(st Stores) error {
		t, err := st.Tokens.FindByToken(ctx, req.Token)
		if err != nil {
			return err
		}
		u, err := st.Users.FindByID(ctx, t.UserID)
		if err != nil {
			return err
		}
		if u.Enabled {
			return apperror.Conflict("User is already activated")
		}
		if t.Expired(s.now()) {
			logger.Info("activation token expired", zap.Uint64("user_id", u.ID))
			return st.Tokens.Delete(ctx, t.ID)
		}
		u.Enabled = true
		if err := st.Users.Update(ctx, u); err != nil {
			return err
		}
		out.ID = &u.ID
		return st.Tokens.Delete(ctx, t.ID)
	})
	if err != nil {
		return IDResult{}, err
	}
	return out, nil
}

// ResendActivation issues a fresh activation token for an account that is
// not enabled yet.
func (s *UserService) ResendActivation(ctx context.Context, req model.EmailRequest) (bool, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Email.Validate(req); err != nil {
		return false, err
	}
	var token model.VerificationToken
	err := s.tx(ctx, func(st Stores) error {
		u, err := st.Users.FindByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if u.Enabled {
			return apperror.Conflict("User is already activated")
		}
		token, err = s.issueVerificationToken(ctx, st, u.ID)
		return err
	})
	if err != nil {
		return false, err
	}
	subject, body := mail.ActivationMessage(s.cfg.BaseURL, token.Token)
	return s.send(ctx, req.Email, subject, body), nil
}

// RequestPasswordReset e-mails a token that PATCH /users/login/password
// accepts.
func (s *UserService) RequestPasswordReset(ctx context.Context, req model.EmailRequest) (bool, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Email.Validate(req); err != nil {
		return false, err
	}
	var token model.VerificationToken
	err := s.tx(ctx, func(st Stores) error {
		u, err := st.Users.FindByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		token, err = s.issueVerificationToken(ctx, st, u.ID)
		return err
	})
	if err != nil {
		return false, err
	}
	subject, body := mail.PasswordResetMessage(s.cfg.BaseURL, token.Token)
	return s.send(ctx, req.Email, subject, body), nil
}

func (s *UserService) ResetPassword(ctx context.Context, req model.NewPasswordRequest) (IDResult, error) {
	if err := validation.NewPassword.Validate(req); err != nil {
		return IDResult{}, err
	}
	hash, err := utils.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return IDResult{}, err
	}
	var out IDResult
	err = s.tx(ctx, func(st Stores) error {
		t, err := st.Tokens.FindByToken(ctx, req.Token)
		if err != nil {
			return err
		}
		if t.Expired(s.now()) {
			logger.Info("password token expired", zap.Uint64("user_id", t.UserID))
			return st.Tokens.Delete(ctx, t.ID)
		}
		u, err := st.Users.FindByID(ctx, t.UserID)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
		if err := st.Users.Update(ctx, u); err != nil {
			return err
		}
		out.ID = &u.ID
		return st.Tokens.Delete(ctx, t.ID)
	})
	if err != nil {
		return IDResult{}, err
	}
	return out, nil
}

// ChangePassword is the authenticated password change of the caller.
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, req model.ChangePasswordRequest) error {
	if err := validation.ChangePassword.Validate(req); err != nil {
		return err
	}
	return s.tx(ctx, func(st Stores) error {
		u, err := st.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
			return apperror.New(apperror.KindAuthentication, "Old password is incorrect")
		}
		u.PasswordHash, err = utils.HashPassword(req.NewPassword, s.cfg.BcryptCost)
		if err != nil {
			return err
		}
		return st.Users.Update(ctx, u)
	})
}

func (s *UserService) ChangeRole(ctx context.Context, id uint64, req model.RoleRequest) (model.UserView, error) {
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if err := validation.Role.Validate(req); err != nil {
		return model.UserView{}, err
	}
	role, _ := model.ParseRole(req.Role)
	var u model.User
	err := s.tx(ctx, func(st Stores) error {
		var err error
		if u, err = st.Users.FindByID(ctx, id); err != nil {
			return err
		}
		u.Role = role
		return st.Users.Update(ctx, u)
	})
	if err != nil {
		return model.UserView{}, err
	}
	logger.Info("user role changed", zap.Uint64("user_id", id), zap.String("role", string(role)))
	return u.View(), nil
}

func (s *UserService) ChangeEmail(ctx context.Context, id uint64, req model.EmailRequest) (model.UserView, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Email.Validate(req); err != nil {
		return model.UserView{}, err
	}
	var u model.User
	err := s.tx(ctx, func(st Stores) error {
		other, err := st.Users.FindByEmail(ctx, req.Email)
		switch {
		case err == nil && other.ID != id:
			return apperror.Conflict("User with email %s already exists", req.Email)
		case err != nil && !errors.Is(err, apperror.ErrNotFound):
			return err
		}
		if u, err = st.Users.FindByID(ctx, id); err != nil {
			return err
		}
		u.Email = req.Email
		return st.Users.Update(ctx, u)
	})
	if err != nil {
		return model.UserView{}, err
	}
	return u.View(), nil
}

func (s *UserService) Get(ctx context.Context, id uint64) (model.UserView, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.UserView{}, err
	}
	return u.View(), nil
}

// Delete removes the user together with a pending verification token.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	return s.tx(ctx, func(st Stores) error {
		if _, err := st.Users.FindByID(ctx, id); err != nil {
			return err
		}
		t, err := st.Tokens.FindByUserID(ctx, id)
		switch {
		case err == nil:
			if err := st.Tokens.Delete(ctx, t.ID); err != nil {
				return err
			}
		case !errors.Is(err, apperror.ErrNotFound):
			return err
		}
		return st.Users.Delete(ctx, id)
	})
}

// issueVerificationToken creates a token for userID. A live token already
// owned by the user is a Conflict; an expired one is deleted first.
func (s *UserService) issueVerificationToken(ctx context.Context, st Stores, userID uint64) (model.VerificationToken, error) {
	now := s.now()
	prev, err := st.Tokens.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		if !prev.Expired(now) {
			return model.VerificationToken{}, apperror.Conflict("Token already exists")
		}
		if err := st.Tokens.Delete(ctx, prev.ID); err != nil {
			return model.VerificationToken{}, err
		}
	case !errors.Is(err, apperror.ErrNotFound):
		return model.VerificationToken{}, err
	}
	t := model.VerificationToken{Token: s.newToken(), ExpiresAt: now.Add(s.cfg.VerificationTTL), UserID: userID}
	if err := st.Tokens.Create(ctx, &t); err != nil {
		return model.VerificationToken{}, err
	}
	return t, nil
}

func (s *UserService) send(ctx context.Context, to, subject, body string) bool {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		logger.Error("mail failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		metrics.RecordMail(false)
		return false
	}
	metrics.RecordMail(true)
	return true
}

// absent turns a successful lookup into ErrConflict and NotFound into nil.
func absent(_ model.User, err error) error {
	switch {
	case err == nil:
		return apperror.ErrConflict
	case errors.Is(err, apperror.ErrNotFound):
		return nil
	default:
		return err
	}
}
