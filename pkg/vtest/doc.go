// Package vtest provides test doubles for driving render passes
// deterministically.
//
// # Manual idle host
//
// ManualIdle implements scheduler.IdleHost without any goroutine. Tests
// decide when callbacks run and how many units each slice may process:
//
//	idle := vtest.NewManualIdle()
//	s := scheduler.New(host, idle)
//	s.Render(desc, container)
//	idle.Step(2) // one slice, two units
//	idle.Drain(1) // finish one unit per slice
//
// # Recording host
//
// Recorder wraps a memdom.Document, logs every host primitive as a short
// string and can fail a chosen operation:
//
//	rec := vtest.NewRecorder()
//	rec.FailOn("append ul>li", errors.New("boom"))
//
// # Assertions
//
//	vtest.ExpectHTML(t, container, "<ul><li>a</li></ul>")
//	vtest.ExpectContains(t, container, "Buy milk")
package vtest
