package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/utils"
)

// AccessExpiryClaim is the refresh-token claim holding the paired access
// token's expiry in epoch milliseconds.
const AccessExpiryClaim = "access_exp"

// UserFinder is the part of the user store the token service reads.
type UserFinder interface {
	FindByID(ctx context.Context, id uint64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// TokenConfig holds token lifetimes and the Authorization header prefix.
type TokenConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Prefix     string // e.g. "Bearer "
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Principal is the authenticated caller bound to a request.
type Principal struct {
	UserID   uint64
	Username string
	Role     model.Role
}

// TokenService issues, refreshes and parses the JWT pairs used for authentication.
type TokenService struct {
	codec *utils.TokenCodec
	users UserFinder
	cfg   TokenConfig
	now   func() time.Time
}

func NewTokenService(codec *utils.TokenCodec, users UserFinder, cfg TokenConfig) *TokenService {
	return &TokenService{codec: codec, users: users, cfg: cfg, now: time.Now}
}

// WithClock replaces the service clock. The codec keeps its own.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// GenerateTokenPair issues an access token and a refresh token for an
// authenticated username. The refresh token remembers the access expiry.
func (s *TokenService) GenerateTokenPair(ctx context.Context, username string) (TokenPair, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return TokenPair{}, apperror.New(apperror.KindAuthentication, "user not found: "+username)
		}
		return TokenPair{}, err
	}
	now := s.now()
	return s.issuePair(u.ID, now.Add(s.cfg.AccessTTL), now.Add(s.cfg.RefreshTTL))
}

// ParseAccessToken resolves an Authorization header value to a principal.
// The value must carry the configured prefix and an access token; a refresh
// token is refused even when its signature and expiry are valid.
func (s *TokenService) ParseAccessToken(ctx context.Context, header string) (Principal, error) {
	if s.cfg.Prefix == "" || !strings.HasPrefix(header, s.cfg.Prefix) {
		return Principal{}, apperror.New(apperror.KindMalformedHeader, "authorization header must start with "+strings.TrimSpace(s.cfg.Prefix))
	}
	claims, err := s.codec.Verify(strings.TrimPrefix(header, s.cfg.Prefix))
	if err != nil {
		return Principal{}, err
	}
	// Only refresh tokens carry the access expiry.
	if _, ok := claims.Extra[AccessExpiryClaim]; ok {
		return Principal{}, apperror.New(apperror.KindAuthentication, "refresh token cannot be used as an access token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, apperror.Wrap(apperror.KindTokenMalformed, "token subject is not a user id", err)
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return Principal{}, apperror.New(apperror.KindAuthorization, "user not found: "+claims.Subject)
		}
		return Principal{}, err
	}
	return Principal{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// RefreshTokenPair issues a new pair from a refresh token. The refresh token
// is verified first; then the embedded access expiry must not have passed.
// The new access expiry is now plus the stored millisecond value, and the
// refresh token keeps its original expiry.
func (s *TokenService) RefreshTokenPair(ctx context.Context, req *model.RefreshRequest) (TokenPair, error) {
	if req == nil || strings.TrimSpace(req.Token) == "" {
		return TokenPair{}, apperror.Validation("Refresh token cannot be empty")
	}
	claims, err := s.codec.Verify(req.Token) // signature and expiry first
	if err != nil {
		return TokenPair{}, err
	}
	accessExp, err := millisClaim(claims.Extra[AccessExpiryClaim])
	if err != nil {
		return TokenPair{}, err
	}
	now := s.now()
	if accessExp < now.UnixMilli() { // the paired access token has lapsed
		return TokenPair{}, apperror.ErrStaleRefresh
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return TokenPair{}, apperror.Wrap(apperror.KindTokenMalformed, "token subject is not a user id", err)
	}
	return s.issuePair(id, time.UnixMilli(addMillis(now.UnixMilli(), accessExp)), claims.ExpiresAt)
}

// addMillis adds two epoch-millisecond values, saturating at the int64
// bounds instead of wrapping.
func addMillis(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

func (s *TokenService) issuePair(userID uint64, accessExp, refreshExp time.Time) (TokenPair, error) {
	sub := strconv.FormatUint(userID, 10)
	access, err := s.codec.Issue(sub, accessExp, nil)
	if err != nil {
		return TokenPair{}, err
	}
	// The refresh token records when its access token stops working.
	refresh, err := s.codec.Issue(sub, refreshExp, map[string]any{AccessExpiryClaim: accessExp.UnixMilli()})
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func millisClaim(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		ms, err := n.Int64()
		if err == nil {
			return ms, nil
		}
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	}
	return 0, apperror.New(apperror.KindTokenMalformed, "refresh token has no access expiry")
}
