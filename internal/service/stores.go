// Package service holds the business operations. It depends on storage
// through the small interfaces below; main wires the MySQL repositories in.
package service

import (
	"context"

	"github.com/iliyamo/shop-backend/internal/model"
)

// UserStore is the user/credential store.
type UserStore interface {
	FindByID(ctx context.Context, id uint64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id uint64) error
}

type VerificationTokenStore interface {
	FindByToken(ctx context.Context, token string) (model.VerificationToken, error)
	FindByUserID(ctx context.Context, userID uint64) (model.VerificationToken, error)
	Create(ctx context.Context, t *model.VerificationToken) error
	Delete(ctx context.Context, id uint64) error
}

// Stores are the repositories bound to one transaction.
type Stores struct {
	Users  UserStore
	Tokens VerificationTokenStore
}

// Transactor runs fn inside one transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
type Transactor func(ctx context.Context, fn func(Stores) error) error

// Store is the generic read/delete side shared by clients, products and
// orders.
type Store[E any] interface {
	FindByID(ctx context.Context, id uint64) (E, error)
	FindAllByIDs(ctx context.Context, ids []uint64) ([]E, error)
	Delete(ctx context.Context, id uint64) error
	DeleteAll(ctx context.Context, ids []uint64) error
}

// ClientStore adds the name-and-surname uniqueness lookup to the generic store.
type ClientStore interface {
	Store[model.Client]
	ExistsByNameAndSurname(ctx context.Context, name, surname string) (bool, error)
	Create(ctx context.Context, c *model.Client) error
}

type ProductStore interface {
	Store[model.Product]
	ExistsByNameAndCategory(ctx context.Context, name, category string) (bool, error)
	Create(ctx context.Context, p *model.Product) error
}

type OrderStore interface {
	Store[model.Order]
	Create(ctx context.Context, o *model.Order) error
}

// StatisticsStore runs the grouped aggregation queries.
type StatisticsStore interface {
	ClientSpending(ctx context.Context) ([]model.ClientSpending, error)
	ClientSpendingInCategory(ctx context.Context, category string) ([]model.ClientSpending, error)
	AgeCategoryCounts(ctx context.Context) ([]model.AgeCategoryCount, error)
	AgeProductCounts(ctx context.Context) ([]model.AgeProductCount, error)
	CategoryClientCounts(ctx context.Context) ([]model.CategoryClientCount, error)
	ClientBalances(ctx context.Context) ([]model.ClientBalance, error)
	CategoryPriceRows(ctx context.Context) ([]model.CategoryPriceRow, error)
}
