package queries

import (
	"context"

	"github.com/google/uuid"
)

type CartReadStore interface {
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*CartView, error)
}

type CartQueries interface {
	// GetCartWithTotals returns the owner's active cart; an owner with no
	// active cart gets an empty view rather than an error.
	GetCartWithTotals(ctx context.Context, ownerID uuid.UUID) (*CartView, error)
}

type cartQueriesImpl struct {
	store CartReadStore
}

func NewCartQueries(store CartReadStore) CartQueries {
	return &cartQueriesImpl{store: store}
}

func (q *cartQueriesImpl) GetCartWithTotals(ctx context.Context, ownerID uuid.UUID) (*CartView, error) {
	return q.store.FindActiveByOwner(ctx, ownerID)
}
