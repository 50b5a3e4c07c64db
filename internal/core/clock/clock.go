// Package clock provides an injectable time source so lifecycle and payroll
// transitions can be tested deterministically.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Advance moves it forward.
type Fixed struct {
	t time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t.UTC()}
}

func (f *Fixed) Now() time.Time {
	return f.t
}

func (f *Fixed) Advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func (f *Fixed) Set(t time.Time) {
	f.t = t.UTC()
}
