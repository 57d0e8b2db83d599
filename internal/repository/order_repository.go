package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/shop-backend/internal/database"
	"github.com/iliyamo/shop-backend/internal/model"
)

// Orders are always read together with their client and product.
const orderSelect = `SELECT o.id, ` + clientColumns + `, ` + productColumns + `
		FROM orders o
		JOIN clients c  ON c.id = o.client_id
		JOIN products p ON p.id = o.product_id`

// OrderRepo reads and writes the orders table. Reads join clients and
// products so an order always comes back with both ends.
type OrderRepo struct{ db database.DBTX }

// NewOrderRepo binds the repository to a pool or a transaction.
func NewOrderRepo(db database.DBTX) *OrderRepo { return &OrderRepo{db: db} }

func scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID,
		&o.Client.ID, &o.Client.Name, &o.Client.Surname, &o.Client.Age, &o.Client.Cash,
		&o.Product.ID, &o.Product.Name, &o.Product.Category, &o.Product.Price)
	o.ClientID, o.ProductID = o.Client.ID, o.Product.ID
	return o, err
}

// FindByID returns ErrOrderNotFound when no order has id.
func (r *OrderRepo) FindByID(ctx context.Context, id uint64) (model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+" WHERE o.id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrOrderNotFound
	}
	return o, err
}

// FindAllByIDs returns the orders that exist among ids, ordered by id.
func (r *OrderRepo) FindAllByIDs(ctx context.Context, ids []uint64) ([]model.Order, error) {
	out := []model.Order{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx,
		orderSelect+" WHERE o.id IN ("+placeholders(len(ids))+") ORDER BY o.id", idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Create inserts the link between o.ClientID and o.ProductID and fills in
// the order ID.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO orders (client_id, product_id) VALUES (?,?)", o.ClientID, o.ProductID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// Delete removes one order; ErrOrderNotFound when it does not exist.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrOrderNotFound)
}

// DeleteAll removes the orders with the given ids in one statement.
func (r *OrderRepo) DeleteAll(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM orders WHERE id IN ("+placeholders(len(ids))+")", idArgs(ids)...)
	return err
}
