package service

import (
	"context"
	"slices"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/validation"
)

// CRUD implements find/findMany/remove/removeMany once for any entity E
// exposed to callers as D.
type CRUD[E, D any] struct {
	store   Store[E]
	convert func(E) D
	idOf    func(E) uint64
	name    string
}

func NewCRUD[E, D any](name string, store Store[E], idOf func(E) uint64, convert func(E) D) CRUD[E, D] {
	return CRUD[E, D]{store: store, convert: convert, idOf: idOf, name: name}
}

func (c CRUD[E, D]) Find(ctx context.Context, id uint64) (D, error) {
	var zero D
	e, err := c.store.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	return c.convert(e), nil
}

// FindMany fails with NotFound naming the missing ids when any id is absent.
func (c CRUD[E, D]) FindMany(ctx context.Context, ids []uint64) ([]D, error) {
	found, err := c.findAll(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]D, 0, len(found))
	for _, e := range found {
		out = append(out, c.convert(e))
	}
	return out, nil
}

func (c CRUD[E, D]) Remove(ctx context.Context, id uint64) error {
	if _, err := c.store.FindByID(ctx, id); err != nil {
		return err
	}
	return c.store.Delete(ctx, id)
}

// RemoveMany deletes nothing unless every id exists.
func (c CRUD[E, D]) RemoveMany(ctx context.Context, ids []uint64) error {
	if _, err := c.findAll(ctx, ids); err != nil {
		return err
	}
	return c.store.DeleteAll(ctx, unique(ids))
}

func (c CRUD[E, D]) findAll(ctx context.Context, ids []uint64) ([]E, error) {
	if err := validation.IDs(ids); err != nil {
		return nil, err
	}
	want := unique(ids)
	found, err := c.store.FindAllByIDs(ctx, want)
	if err != nil {
		return nil, err
	}
	if len(found) == len(want) {
		return found, nil
	}
	have := make(map[uint64]bool, len(found))
	for _, e := range found {
		have[c.idOf(e)] = true
	}
	var missing []uint64
	for _, id := range want {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return nil, apperror.NotFound("%s not found: %v", c.name, missing)
}

func unique(ids []uint64) []uint64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

