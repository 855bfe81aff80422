package queries

import (
	"context"

	"storefront-api/internal/infra"
	"storefront-api/internal/pkg/errs"

	"github.com/google/uuid"
)

type OrderReadStore interface {
	FindByNo(ctx context.Context, orderNo string) (*OrderView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*OrderListItem, error)
}

type OrderQueries interface {
	// GetForOwnerByNo is ownership-scoped: an order that exists but belongs
	// to someone else is indistinguishable from one that does not exist.
	GetForOwnerByNo(ctx context.Context, userID uuid.UUID, orderNo string) (*OrderView, error)
	// GetByIDSystem bypasses the ownership check for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) GetForOwnerByNo(ctx context.Context, userID uuid.UUID, orderNo string) (*OrderView, error) {
	view, err := q.store.FindByNo(ctx, orderNo)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if view.UserID != userID {
		return nil, errs.ErrNotFound
	}
	return view, nil
}

func (q *orderQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *orderQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*OrderListItem, error) {
	return q.store.ListByUser(ctx, userID)
}
