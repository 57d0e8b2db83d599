package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/database"
	"github.com/iliyamo/shop-backend/internal/model"
)

const clientColumns = "c.id, c.name, c.surname, c.age, c.cash"

// ClientRepo reads and writes the clients table.
type ClientRepo struct{ db database.DBTX }

// NewClientRepo binds the repository to a pool or a transaction.
func NewClientRepo(db database.DBTX) *ClientRepo { return &ClientRepo{db: db} }

// FindByID returns ErrClientNotFound when no client has id.
func (r *ClientRepo) FindByID(ctx context.Context, id uint64) (model.Client, error) {
	var c model.Client
	err := r.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients c WHERE c.id=?", id).
		Scan(&c.ID, &c.Name, &c.Surname, &c.Age, &c.Cash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Client{}, ErrClientNotFound
	}
	return c, err
}

// FindAllByIDs returns the clients that exist among ids, ordered by id.
func (r *ClientRepo) FindAllByIDs(ctx context.Context, ids []uint64) ([]model.Client, error) {
	out := []model.Client{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients c WHERE c.id IN ("+placeholders(len(ids))+") ORDER BY c.id",
		idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Surname, &c.Age, &c.Cash); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ExistsByNameAndSurname backs the unique (name, surname) rule.
func (r *ClientRepo) ExistsByNameAndSurname(ctx context.Context, name, surname string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM clients WHERE name=? AND surname=?", name, surname).Scan(&n)
	return n > 0, err
}

// Create inserts c and fills in its ID.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO clients (name, surname, age, cash) VALUES (?,?,?,?)",
		c.Name, c.Surname, c.Age, c.Cash)
	if err != nil {
		if isDuplicate(err) {
			return apperror.Conflict("client %s %s already exists", c.Name, c.Surname)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Delete removes one client. A client that still has orders is a Conflict.
func (r *ClientRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id=?", id)
	if err != nil {
		if isReferenced(err) {
			return apperror.Conflict("client %d still has orders", id)
		}
		return err
	}
	return requireAffected(res, ErrClientNotFound)
}

// DeleteAll removes the clients with the given ids in one statement.
func (r *ClientRepo) DeleteAll(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM clients WHERE id IN ("+placeholders(len(ids))+")", idArgs(ids)...)
	if isReferenced(err) {
		return apperror.Conflict("some of the clients still have orders")
	}
	return err
}
