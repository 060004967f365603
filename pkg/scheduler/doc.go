// Package scheduler drives render passes of package fiber cooperatively.
//
// A Scheduler owns one render target: the last committed generation, the
// pending pass and its deletion list. Render starts a pass and returns at
// once. The pass is expanded one unit at a time inside idle callbacks
// obtained from an IdleHost; between units the scheduler checks the
// callback's Deadline and yields when the remaining time drops to
// MinRemaining. When no unit is left the pass is committed in one
// uninterrupted step.
//
// # States
//
//	Idle -> Expanding -> (yield / resume)* -> Committing -> Idle
//
// Calling Render while a pass is Expanding replaces the pending pass. The
// replaced pass is abandoned and reported with ErrPassSuperseded.
//
// # Idle hosts
//
// Loop is the production IdleHost: a single goroutine that runs dispatched
// functions first and idle callbacks when nothing else is queued. All calls
// into a Scheduler must happen on that goroutine, normally via Loop.Dispatch:
//
//	loop := scheduler.NewLoop()
//	s := scheduler.New(host, loop, scheduler.WithResultHandler(report))
//	go loop.Run(ctx)
//	loop.Dispatch(func() { s.Render(app(), container) })
//
// Tests use vtest.ManualIdle, which runs callbacks on demand with deadlines
// that allow a fixed number of units.
package scheduler
