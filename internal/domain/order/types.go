package order

import "errors"

var ErrInvalidTransition = errors.New("invalid order status transition")

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFulfilled Status = "fulfilled"
	StatusCanceled  Status = "canceled"
	StatusRefunded  Status = "refunded"
)

// allowedNext is the whole transition table. Fulfilled, canceled and
// refunded are terminal.
var allowedNext = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCanceled},
	StatusPaid:      {StatusFulfilled, StatusRefunded},
	StatusFulfilled: {},
	StatusCanceled:  {},
	StatusRefunded:  {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := allowedNext[s]
	return ok
}

func (s Status) IsTerminal() bool {
	next, ok := allowedNext[s]
	return ok && len(next) == 0
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedNext[s] {
		if next == target {
			return true
		}
	}
	return false
}
