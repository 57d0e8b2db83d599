package utils // package utils provides the token codec and password hashing helpers

import (
	"errors"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/shop-backend/internal/apperror"
)

// Claims is the decoded content of a token. Registered claims are kept at
// second precision, as JWT NumericDate values are encoded.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any // non-registered claims; numbers decode as json.Number
}

// TokenCodec signs and verifies HS256 tokens with a key fixed at
// construction.
type TokenCodec struct {
	key []byte
	now func() time.Time
}

// NewTokenCodec copies secret, so later changes to the caller's slice do
// not affect issued or verified tokens.
func NewTokenCodec(secret []byte) *TokenCodec {
	return &TokenCodec{key: append([]byte(nil), secret...), now: time.Now}
}

// WithClock returns a codec sharing the key but reading time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	return &TokenCodec{key: c.key, now: now}
}

var registered = map[string]bool{"sub": true, "iat": true, "exp": true, "nbf": true, "iss": true, "aud": true, "jti": true}

// Issue signs a token for subject expiring at expiresAt. Extra claims are
// copied next to the registered ones; they cannot override sub, iat or exp.
//
// exp and iat are NumericDates and lose their sub-second part: the token
// expires at expiresAt truncated to the second, so a lifetime shorter than
// one second may yield a token that is already expired when issued.
func (c *TokenCodec) Issue(subject string, expiresAt time.Time, extra map[string]any) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range extra {
		if !registered[k] {
			claims[k] = v
		}
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(c.now())
	claims["exp"] = jwt.NewNumericDate(expiresAt)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.key)
	if err != nil {
		return "", apperror.Wrap(apperror.KindUnexpected, "sign token", err)
	}
	return signed, nil
}

// Verify checks the signature first and then the expiry. It fails with
// SignatureInvalid, TokenExpired or TokenMalformed. There is no leeway:
// a token is expired as soon as its exp lies before now.
func (c *TokenCodec) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		jwt.WithJSONNumber(),
	)
	mc := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(raw, mc, func(*jwt.Token) (any, error) { return c.key, nil }); err != nil {
		return Claims{}, codecError(err)
	}

	out := Claims{Extra: map[string]any{}}
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, apperror.Wrap(apperror.KindTokenMalformed, "token has no subject", err)
	}
	out.Subject = sub
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	maps.Copy(out.Extra, mc)
	for k := range registered {
		delete(out.Extra, k)
	}
	return out, nil
}

func codecError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperror.Wrap(apperror.KindSignature, "JWT signature does not match", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperror.Wrap(apperror.KindTokenExpired, "JWT expired", err)
	default:
		return apperror.Wrap(apperror.KindTokenMalformed, "JWT is malformed", err)
	}
}
