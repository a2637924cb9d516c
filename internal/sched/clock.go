// Package sched abstracts timer scheduling so agent loops can run against a
// virtual clock in tests.
package sched

import "time"

// Timer fires once on its channel. Stop prevents an unfired timer from ever
// firing.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// Clock creates timers and tells time.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// RealClock delegates to the time package.
type RealClock struct{}

func NewRealClock() RealClock { return RealClock{} }

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTimer(d time.Duration) Timer {
	return realTimer{time.NewTimer(d)}
}

type realTimer struct{ t *time.Timer }

func (r realTimer) C() <-chan time.Time { return r.t.C }
func (r realTimer) Stop() bool          { return r.t.Stop() }
