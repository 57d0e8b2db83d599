package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/database"
	"github.com/iliyamo/shop-backend/internal/model"
)

const productColumns = "p.id, p.name, p.category, p.price"

// ProductRepo reads and writes the products table.
type ProductRepo struct{ db database.DBTX }

// NewProductRepo binds the repository to a pool or a transaction.
func NewProductRepo(db database.DBTX) *ProductRepo { return &ProductRepo{db: db} }

// FindByID returns ErrProductNotFound when no product has id.
func (r *ProductRepo) FindByID(ctx context.Context, id uint64) (model.Product, error) {
	var p model.Product
	err := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products p WHERE p.id=?", id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrProductNotFound
	}
	return p, err
}

// FindAllByIDs returns the products that exist among ids, ordered by id.
func (r *ProductRepo) FindAllByIDs(ctx context.Context, ids []uint64) ([]model.Product, error) {
	out := []model.Product{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products p WHERE p.id IN ("+placeholders(len(ids))+") ORDER BY p.id",
		idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ExistsByNameAndCategory backs the unique (name, category) rule.
func (r *ProductRepo) ExistsByNameAndCategory(ctx context.Context, name, category string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE name=? AND category=?", name, category).Scan(&n)
	return n > 0, err
}

// Create inserts p and fills in its ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (name, category, price) VALUES (?,?,?)",
		p.Name, p.Category, p.Price)
	if err != nil {
		if isDuplicate(err) {
			return apperror.Conflict("product %s in category %s already exists", p.Name, p.Category)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Delete removes one product. A product that still has orders is a Conflict.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		if isReferenced(err) {
			return apperror.Conflict("product %d still has orders", id)
		}
		return err
	}
	return requireAffected(res, ErrProductNotFound)
}

// DeleteAll removes the products with the given ids in one statement.
func (r *ProductRepo) DeleteAll(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM products WHERE id IN ("+placeholders(len(ids))+")", idArgs(ids)...)
	if isReferenced(err) {
		return apperror.Conflict("some of the products still have orders")
	}
	return err
}
