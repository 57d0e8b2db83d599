package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/database"
	"github.com/iliyamo/shop-backend/internal/model"
)

const userColumns = "id, username, password_hash, email, enabled, role"

// UserRepo reads and writes the users table. E-mail addresses are stored
// trimmed and lower-cased.
type UserRepo struct{ db database.DBTX }

// NewUserRepo binds the repository to a pool or a transaction.
func NewUserRepo(db database.DBTX) *UserRepo { return &UserRepo{db: db} }

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Enabled, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}

// FindByID returns ErrUserNotFound when no user has id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// FindByUsername matches the trimmed username exactly.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
}

// FindByEmail matches the normalized (trimmed, lower-cased) address.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// Create inserts u and fills in its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, email, enabled, role) VALUES (?,?,?,?,?)",
		u.Username, u.PasswordHash, u.Email, u.Enabled, string(u.Role))
	if err != nil {
		if isDuplicate(err) {
			return apperror.Conflict("user with this username or email already exists")
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// Update writes every mutable column of u.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET username=?, password_hash=?, email=?, enabled=?, role=? WHERE id=?",
		u.Username, u.PasswordHash, normalizeEmail(u.Email), u.Enabled, string(u.Role), u.ID)
	if err != nil {
		if isDuplicate(err) {
			return apperror.Conflict("user with this username or email already exists")
		}
		return err
	}
	return requireAffected(res, ErrUserNotFound)
}

// Delete removes the user row; ErrUserNotFound when it does not exist.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrUserNotFound)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// requireAffected turns a statement that matched no rows into notFound.
// The DSN sets clientFoundRows, so an UPDATE writing identical values still
// counts its row.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
