package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/model"
)

var userCols = []string{"id", "username", "password_hash", "email", "enabled", "role"}

func TestUserFindByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE username=? LIMIT 1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(7, "alice", "hash", "alice@example.com", true, "LEADER"))

	u, err := repo.FindByUsername(context.Background(), "  alice ")
	require.NoError(t, err)
	assert.Equal(t, model.User{
		ID: 7, Username: "alice", PasswordHash: "hash", Email: "alice@example.com", Enabled: true, Role: model.RoleLeader,
	}, u)
}

func TestUserFindByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=?")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUserFindByEmailNormalizes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "bob", "h", "bob@example.com", false, "WORKER"))

	u, err := repo.FindByEmail(context.Background(), " Bob@Example.COM ")
	require.NoError(t, err)
	assert.False(t, u.Enabled)
}

func TestUserCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, password_hash, email, enabled, role) VALUES (?,?,?,?,?)")).
		WithArgs("carol", "h", "carol@example.com", false, "WORKER").
		WillReturnResult(sqlmock.NewResult(11, 1))

	u := model.User{Username: "carol", PasswordHash: "h", Email: "Carol@Example.com", Role: model.RoleWorker}
	require.NoError(t, repo.Create(context.Background(), &u))
	assert.Equal(t, uint64(11), u.ID)
	assert.Equal(t, "carol@example.com", u.Email)
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"})

	u := model.User{Username: "carol", Email: "carol@example.com", Role: model.RoleWorker}
	err := repo.Create(context.Background(), &u)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Zero(t, u.ID)
}

func TestUserUpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
		WithArgs("dave", "h", "dave@example.com", true, "ADMIN", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), model.User{
		ID: 99, Username: "dave", PasswordHash: "h", Email: "dave@example.com", Enabled: true, Role: model.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 5))
}
