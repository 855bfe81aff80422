package order

import "errors"

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub floors at zero; order totals never go negative however large the
// discount resolves to.
func (m Money) Sub(other Money) Money {
	remaining := m.cents - other.cents
	if remaining < 0 {
		remaining = 0
	}
	return Money{cents: remaining}
}

type ShippingAddress struct {
	value string
}

func NewShippingAddress(value string) (ShippingAddress, error) {
	if value == "" {
		return ShippingAddress{}, errors.New("shipping address is required")
	}
	return ShippingAddress{value: value}, nil
}

func (a ShippingAddress) String() string {
	return a.value
}
