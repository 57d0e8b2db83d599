package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/shop-backend/internal/database"
	"github.com/iliyamo/shop-backend/internal/model"
)

// StatisticsRepo runs the read-only aggregation queries behind /shop. The
// queries only group and sum; selecting the winners of each group is left
// to package statistics.
type StatisticsRepo struct{ db database.DBTX }

// NewStatisticsRepo binds the repository to a pool.
func NewStatisticsRepo(db database.DBTX) *StatisticsRepo { return &StatisticsRepo{db: db} }

const orderJoins = `
		FROM orders o
		JOIN clients c  ON c.id = o.client_id
		JOIN products p ON p.id = o.product_id`

const clientGroup = "c.id, c.name, c.surname, c.age, c.cash"

const (
	qClientSpending = `SELECT ` + clientColumns + `, SUM(p.price) AS total` + orderJoins + `
		GROUP BY ` + clientGroup + `
		ORDER BY total DESC, c.id`

	qClientSpendingInCategory = `SELECT ` + clientColumns + `, SUM(p.price) AS total` + orderJoins + `
		WHERE p.category = ?
		GROUP BY ` + clientGroup + `
		ORDER BY total DESC, c.id`

	qAgeCategoryCounts = `SELECT c.age, p.category, COUNT(*) AS cnt` + orderJoins + `
		GROUP BY c.age, p.category
		ORDER BY c.age, cnt DESC, p.category`

	qAgeProductCounts = `SELECT c.age, ` + productColumns + `, COUNT(*) AS cnt` + orderJoins + `
		GROUP BY c.age, p.id, p.name, p.category, p.price
		ORDER BY c.age, cnt DESC, p.id`

	qCategoryClientCounts = `SELECT p.category, ` + clientColumns + `, COUNT(*) AS cnt` + orderJoins + `
		GROUP BY p.category, ` + clientGroup + `
		ORDER BY p.category, cnt DESC, c.id`

	qClientBalances = `SELECT ` + clientColumns + `, SUM(p.price) AS spent` + orderJoins + `
		GROUP BY ` + clientGroup + `
		ORDER BY c.id`

	// One row per cheapest and one per most expensive product of every
	// category; the unused side of each row is NULL.
	qCategoryPrices = `
		WITH s AS (
			SELECT category, MIN(price) AS min_price, MAX(price) AS max_price, AVG(price) AS avg_price
			FROM products
			GROUP BY category
		)
		SELECT p.category, p.id, p.name, p.price, NULL, NULL, NULL, s.avg_price
		FROM products p JOIN s ON s.category = p.category AND p.price = s.min_price
		UNION ALL
		SELECT p.category, NULL, NULL, NULL, p.id, p.name, p.price, s.avg_price
		FROM products p JOIN s ON s.category = p.category AND p.price = s.max_price
		ORDER BY 1`
)

// ClientSpending sums the price of every order per client.
func (r *StatisticsRepo) ClientSpending(ctx context.Context) ([]model.ClientSpending, error) {
	return r.spending(ctx, qClientSpending)
}

// ClientSpendingInCategory is ClientSpending restricted to one category.
func (r *StatisticsRepo) ClientSpendingInCategory(ctx context.Context, category string) ([]model.ClientSpending, error) {
	return r.spending(ctx, qClientSpendingInCategory, category)
}

func (r *StatisticsRepo) spending(ctx context.Context, q string, args ...any) ([]model.ClientSpending, error) {
	return collect(ctx, r.db, q, args, func(rows *sql.Rows) (model.ClientSpending, error) {
		var s model.ClientSpending
		c := &s.Client
		err := rows.Scan(&c.ID, &c.Name, &c.Surname, &c.Age, &c.Cash, &s.Total)
		return s, err
	})
}

// AgeCategoryCounts counts orders per (client age, product category).
func (r *StatisticsRepo) AgeCategoryCounts(ctx context.Context) ([]model.AgeCategoryCount, error) {
	return collect(ctx, r.db, qAgeCategoryCounts, nil, func(rows *sql.Rows) (model.AgeCategoryCount, error) {
		var a model.AgeCategoryCount
		err := rows.Scan(&a.Age, &a.Category, &a.Count)
		return a, err
	})
}

// AgeProductCounts counts orders per (client age, product).
func (r *StatisticsRepo) AgeProductCounts(ctx context.Context) ([]model.AgeProductCount, error) {
	return collect(ctx, r.db, qAgeProductCounts, nil, func(rows *sql.Rows) (model.AgeProductCount, error) {
		var a model.AgeProductCount
		p := &a.Product
		err := rows.Scan(&a.Age, &p.ID, &p.Name, &p.Category, &p.Price, &a.Count)
		return a, err
	})
}

// CategoryClientCounts counts orders per (product category, client).
func (r *StatisticsRepo) CategoryClientCounts(ctx context.Context) ([]model.CategoryClientCount, error) {
	return collect(ctx, r.db, qCategoryClientCounts, nil, func(rows *sql.Rows) (model.CategoryClientCount, error) {
		var a model.CategoryClientCount
		c := &a.Client
		err := rows.Scan(&a.Category, &c.ID, &c.Name, &c.Surname, &c.Age, &c.Cash, &a.Count)
		return a, err
	})
}

// ClientBalances returns each ordering client with the sum they spent.
func (r *StatisticsRepo) ClientBalances(ctx context.Context) ([]model.ClientBalance, error) {
	return collect(ctx, r.db, qClientBalances, nil, func(rows *sql.Rows) (model.ClientBalance, error) {
		var b model.ClientBalance
		c := &b.Client
		err := rows.Scan(&c.ID, &c.Name, &c.Surname, &c.Age, &c.Cash, &b.Spent)
		return b, err
	})
}

// CategoryPriceRows returns the raw min/max/avg price rows per category.
func (r *StatisticsRepo) CategoryPriceRows(ctx context.Context) ([]model.CategoryPriceRow, error) {
	return collect(ctx, r.db, qCategoryPrices, nil, func(rows *sql.Rows) (model.CategoryPriceRow, error) {
		var (
			row                model.CategoryPriceRow
			minID, maxID       sql.NullInt64
			minName, maxName   sql.NullString
			minPrice, maxPrice decimal.NullDecimal
		)
		if err := rows.Scan(&row.Category, &minID, &minName, &minPrice, &maxID, &maxName, &maxPrice, &row.AvgPrice); err != nil {
			return row, err
		}
		if minID.Valid {
			row.Min = &model.ProductPrice{ID: uint64(minID.Int64), Name: minName.String, Price: minPrice.Decimal}
		}
		if maxID.Valid {
			row.Max = &model.ProductPrice{ID: uint64(maxID.Int64), Name: maxName.String, Price: maxPrice.Decimal}
		}
		return row, nil
	})
}

func collect[T any](ctx context.Context, db database.DBTX, q string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
