package vtest

import (
	"time"

	"github.com/vango-dev/arbor/pkg/scheduler"
)

// UnitDeadline is a Deadline that lets a slice process a fixed number of
// units. The scheduler consults its deadline once before every unit, so
// each call to TimeRemaining grants at most one unit.
type UnitDeadline struct {
	Units int // Units the slice may process; zero means the slice is spent
	used  int
}

// TimeRemaining reports an hour for the first Units calls, and zero
// afterwards.
func (d *UnitDeadline) TimeRemaining() time.Duration {
	d.used++
	if d.used > d.Units {
		return 0
	}
	return time.Hour
}

// Used returns how many times TimeRemaining was called.
func (d *UnitDeadline) Used() int {
	return d.used
}

// ManualIdle is an IdleHost whose callbacks run only when the test asks.
type ManualIdle struct {
	queue    []func(scheduler.Deadline)
	requests int
}

// NewManualIdle creates an empty manual idle host.
func NewManualIdle() *ManualIdle {
	return &ManualIdle{}
}

// RequestIdle implements scheduler.IdleHost.
func (m *ManualIdle) RequestIdle(cb func(scheduler.Deadline)) {
	m.queue = append(m.queue, cb)
	m.requests++
}

// Pending returns the number of queued callbacks.
func (m *ManualIdle) Pending() int {
	return len(m.queue)
}

// Requests returns how many callbacks were requested in total.
func (m *ManualIdle) Requests() int {
	return m.requests
}

// Step runs the oldest queued callback with a deadline of units units.
// It reports whether a callback ran.
func (m *ManualIdle) Step(units int) bool {
	if len(m.queue) == 0 {
		return false
	}
	cb := m.queue[0]
	m.queue = m.queue[1:]
	cb(&UnitDeadline{Units: units})
	return true
}

// Drain runs callbacks until none are queued and returns how many ran.
// With units of zero a pending pass never finishes, so Drain(0) does not
// return while one is queued.
func (m *ManualIdle) Drain(units int) int {
	n := 0
	for m.Step(units) {
		n++
	}
	return n
}
