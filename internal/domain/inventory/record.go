package inventory

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrOutOfStock       = errors.New("insufficient available stock")
	ErrNegativeReserved = errors.New("reserved counter would go negative")
	ErrNegativeStock    = errors.New("stock counter would go negative")
)

// Record holds the per-product counters. Invariant: stock - reserved >= 0.
// Available is the only figure ever shown to a buyer.
type Record struct {
	productID uuid.UUID
	stock     int32
	reserved  int32
}

func ReconstructRecord(productID uuid.UUID, stock, reserved int32) *Record {
	return &Record{
		productID: productID,
		stock:     stock,
		reserved:  reserved,
	}
}

func (r *Record) Available() int32 {
	return r.stock - r.reserved
}

// Reserve places a temporary hold. The caller must have the row locked so
// the check-and-increment is serialized per product.
func (r *Record) Reserve(qty int32) error {
	if r.Available() < qty {
		return ErrOutOfStock
	}
	r.reserved += qty
	return nil
}

// Release drops a hold. Returns ErrNegativeReserved if the counter would
// underflow; the caller clamps and logs rather than persisting a negative.
func (r *Record) Release(qty int32) error {
	if r.reserved < qty {
		r.reserved = 0
		return ErrNegativeReserved
	}
	r.reserved -= qty
	return nil
}

// Commit converts a hold into a permanent stock decrement. The only
// operation that consumes inventory.
func (r *Record) Commit(qty int32) error {
	if r.stock < qty || r.reserved < qty {
		return ErrNegativeStock
	}
	r.stock -= qty
	r.reserved -= qty
	return nil
}

// Restock returns committed units to the pool (order canceled before
// payment).
func (r *Record) Restock(qty int32) {
	r.stock += qty
}

func (r *Record) ProductID() uuid.UUID { return r.productID }
func (r *Record) Stock() int32         { return r.stock }
func (r *Record) Reserved() int32      { return r.reserved }
