package scheduler

import "errors"

var (
	// ErrPassSuperseded is reported for a pass that was abandoned because
	// Render was called again before it committed.
	ErrPassSuperseded = errors.New("scheduler: pass superseded")

	// ErrBudgetTooSmall means a slice budget does not exceed the yield
	// threshold, so no slice could ever process a unit.
	ErrBudgetTooSmall = errors.New("scheduler: slice budget not above min remaining")
)
