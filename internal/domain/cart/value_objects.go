package cart

import "errors"

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type Quantity struct {
	value int32
}

func NewQuantity(value int32) (Quantity, error) {
	if value < 1 {
		return Quantity{}, ErrInvalidQuantity
	}
	return Quantity{value: value}, nil
}

func (q Quantity) Value() int32 {
	return q.value
}

func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value + other.value}
}
