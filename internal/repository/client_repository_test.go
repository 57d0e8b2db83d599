package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/model"
)

func TestClientFindAllByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients c WHERE c.id IN (?,?,?) ORDER BY c.id")).
		WithArgs(1, 2, 9).
		WillReturnRows(sqlmock.NewRows(clientCols).
			AddRow(1, "Ann", "Lee", 30, "12.50").
			AddRow(2, "Ben", "Kim", 41, "0.00"))

	got, err := repo.FindAllByIDs(context.Background(), []uint64{1, 2, 9})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ann", got[0].Name)
	assert.True(t, got[0].Cash.Equal(decimal.RequireFromString("12.5")))
}

func TestClientFindAllByIDsEmpty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewClientRepo(db)

	got, err := repo.FindAllByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClientFindByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients c WHERE c.id=?")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(clientCols))

	_, err := repo.FindByID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO clients (name, surname, age, cash) VALUES (?,?,?,?)")).
		WithArgs("Ann", "Lee", 30, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))

	c := model.Client{Name: "Ann", Surname: "Lee", Age: 30, Cash: decimal.NewFromInt(100)}
	require.NoError(t, repo.Create(context.Background(), &c))
	assert.Equal(t, uint64(3), c.ID)
}

func TestClientDeleteReferenced(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients WHERE id=?")).
		WithArgs(3).
		WillReturnError(&mysql.MySQLError{Number: mysqlRowIsReferenced})

	err := repo.Delete(context.Background(), 3)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, "client 3 still has orders", apperror.Message(err))
}

func TestClientDeleteAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients WHERE id IN (?,?)")).
		WithArgs(3, 4).
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, repo.DeleteAll(context.Background(), []uint64{3, 4}))
}
