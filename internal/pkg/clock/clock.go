package clock

import "time"

// Clock abstracts time.Now so order numbers and timestamps are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

// MockClock reports a fixed instant until advanced.
type MockClock struct {
	current time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

func (c *MockClock) Now() time.Time {
	return c.current
}

func (c *MockClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
