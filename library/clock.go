package library

import "time"

// Clock supplies the current instant to every catalog operation. Each
// operation samples it exactly once, so tests can pin "now" and assert exact
// interval boundaries.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock { return &RealClock{} }

func (c *RealClock) Now() time.Time { return time.Now() }

// MockClock is a fixed, manually advanced clock for tests.
type MockClock struct {
	current time.Time
}

func NewMockClock(t time.Time) *MockClock { return &MockClock{current: t} }

func (c *MockClock) Now() time.Time { return c.current }

func (c *MockClock) Set(t time.Time) { c.current = t }

func (c *MockClock) Advance(d time.Duration) { c.current = c.current.Add(d) }
