package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/model"
)

type memClients struct {
	*memStore[model.Client]
}

func (m memClients) ExistsByNameAndSurname(_ context.Context, name, surname string) (bool, error) {
	for _, c := range m.items {
		if c.Name == name && c.Surname == surname {
			return true, nil
		}
	}
	return false, nil
}

func (m memClients) Create(_ context.Context, c *model.Client) error {
	c.ID = uint64(len(m.items) + 1)
	m.items[c.ID] = *c
	return nil
}

type memOrders struct {
	*memStore[model.Order]
}

func (m memOrders) Create(_ context.Context, o *model.Order) error {
	o.ID = uint64(len(m.items) + 1)
	m.items[o.ID] = *o
	return nil
}

func seededProducts() *memStore[model.Product] {
	return &memStore[model.Product]{items: map[uint64]model.Product{
		1: {ID: 1, Name: "ball", Category: "toys", Price: money("10")},
		2: {ID: 2, Name: "kite", Category: "toys", Price: money("20")},
	}}
}

func TestCRUDFindMany(t *testing.T) {
	crud := NewCRUD("products", Store[model.Product](seededProducts()),
		func(p model.Product) uint64 { return p.ID },
		func(p model.Product) string { return p.Name })
	ctx := context.Background()

	got, err := crud.FindMany(ctx, []uint64{2, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"ball", "kite"}, got)

	_, err = crud.FindMany(ctx, []uint64{1, 7, 9})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "products not found: [7 9]", apperror.Message(err))

	_, err = crud.FindMany(ctx, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCRUDRemoveManyIsAllOrNothing(t *testing.T) {
	store := seededProducts()
	crud := NewCRUD("products", Store[model.Product](store),
		func(p model.Product) uint64 { return p.ID },
		func(p model.Product) model.Product { return p })
	ctx := context.Background()

	err := crud.RemoveMany(ctx, []uint64{1, 3})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Len(t, store.items, 2)

	require.NoError(t, crud.RemoveMany(ctx, []uint64{1, 2}))
	assert.Empty(t, store.items)

	assert.ErrorIs(t, crud.Remove(ctx, 1), apperror.ErrNotFound)
}

func TestClientCreate(t *testing.T) {
	svc := NewClientService(memClients{&memStore[model.Client]{items: map[uint64]model.Client{}}})
	ctx := context.Background()

	c, err := svc.Create(ctx, model.ClientRequest{Name: " Ann ", Surname: "Lee", Age: 30, Cash: money("100")})
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)

	_, err = svc.Create(ctx, model.ClientRequest{Name: "Ann", Surname: "Lee", Age: 40, Cash: money("1")})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Create(ctx, model.ClientRequest{Name: "Kid", Surname: "Lee", Age: 12, Cash: money("1")})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Age must be at least 18", apperror.Message(err))

	_, err = svc.Create(ctx, model.ClientRequest{Name: "Neg", Surname: "Lee", Age: 20, Cash: money("-1")})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	got, err := svc.Find(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	fine, err := svc.Create(ctx, model.ClientRequest{Name: "Cy", Surname: "Lee", Age: 20, Cash: money("12.345")})
	require.NoError(t, err)
	assert.Equal(t, "12.35", fine.Cash.StringFixed(2))
	assert.Equal(t, int32(-2), fine.Cash.Exponent())
}

func TestOrderCreateRequiresBothEnds(t *testing.T) {
	clients := &memStore[model.Client]{items: map[uint64]model.Client{
		1: {ID: 1, Name: "Ann", Surname: "Lee", Age: 30, Cash: money("100")},
	}}
	orders := memOrders{&memStore[model.Order]{items: map[uint64]model.Order{}}}
	svc := NewOrderService(orders, clients, seededProducts())
	ctx := context.Background()

	_, err := svc.Create(ctx, model.OrderRequest{ClientID: 1, ProductID: 9})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.Create(ctx, model.OrderRequest{ClientID: 9, ProductID: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, orders.items)

	v, err := svc.Create(ctx, model.OrderRequest{ClientID: 1, ProductID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Ann", v.Client.Name)
	assert.Equal(t, "kite", v.Product.Name)
	assert.Len(t, orders.items, 1)
}
