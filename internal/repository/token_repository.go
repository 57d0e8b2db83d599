package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/database"
	"github.com/iliyamo/shop-backend/internal/model"
)

// VerificationTokenRepo persists activation and lost-password tokens.
// user_id is unique: a user has at most one stored token.
type VerificationTokenRepo struct{ db database.DBTX }

// NewVerificationTokenRepo binds the repository to a pool or a transaction.
func NewVerificationTokenRepo(db database.DBTX) *VerificationTokenRepo {
	return &VerificationTokenRepo{db: db}
}

func scanToken(row *sql.Row) (model.VerificationToken, error) {
	var t model.VerificationToken
	if err := row.Scan(&t.ID, &t.Token, &t.ExpiresAt, &t.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.VerificationToken{}, ErrTokenNotFound
		}
		return model.VerificationToken{}, err
	}
	return t, nil
}

// FindByToken looks a token up by its e-mailed value.
func (r *VerificationTokenRepo) FindByToken(ctx context.Context, token string) (model.VerificationToken, error) {
	return scanToken(r.db.QueryRowContext(ctx,
		"SELECT id, token, expiry_date, user_id FROM verification_tokens WHERE token=? LIMIT 1", token))
}

// FindByUserID returns the token stored for a user, expired or not.
func (r *VerificationTokenRepo) FindByUserID(ctx context.Context, userID uint64) (model.VerificationToken, error) {
	return scanToken(r.db.QueryRowContext(ctx,
		"SELECT id, token, expiry_date, user_id FROM verification_tokens WHERE user_id=? LIMIT 1", userID))
}

// Create inserts t and fills in its ID.
func (r *VerificationTokenRepo) Create(ctx context.Context, t *model.VerificationToken) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO verification_tokens (token, expiry_date, user_id) VALUES (?,?,?)",
		t.Token, t.ExpiresAt.UTC(), t.UserID)
	if err != nil {
		if isDuplicate(err) {
			return apperror.Conflict("token already exists")
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Delete removes one token by id.
func (r *VerificationTokenRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM verification_tokens WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrTokenNotFound)
}
