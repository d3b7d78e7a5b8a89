package clock

import "time"

// Clock abstracts the trusted timestamp source. The engine reads time exactly
// once per operation; tests substitute a fixed clock to drive due-date logic.
type Clock interface {
	Now() time.Time
}

// System reads the host wall clock in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed is a settable clock for tests.
type Fixed struct {
	t time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{t: t.UTC()} }

func (f *Fixed) Now() time.Time { return f.t }

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.t = f.t.Add(d) }

// Set pins the fixed clock to t.
func (f *Fixed) Set(t time.Time) { f.t = t.UTC() }
