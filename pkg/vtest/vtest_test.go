package vtest_test

import (
	"errors"
	"testing"

	"github.com/vango-dev/arbor/pkg/fiber"
	"github.com/vango-dev/arbor/pkg/scheduler"
	"github.com/vango-dev/arbor/pkg/vtest"
)

func TestUnitDeadline(t *testing.T) {
	d := &vtest.UnitDeadline{Units: 3}
	var remaining []bool
	for i := 0; i < 4; i++ {
		remaining = append(remaining, d.TimeRemaining() > 0)
	}
	want := []bool{true, true, true, false}
	for i := range want {
		if remaining[i] != want[i] {
			t.Errorf("call %d: remaining = %v, want %v", i, remaining[i], want[i])
		}
	}
	if d.Used() != 4 {
		t.Errorf("Used() = %d", d.Used())
	}

	spent := &vtest.UnitDeadline{}
	if spent.TimeRemaining() != 0 {
		t.Error("a zero deadline grants no unit")
	}
}

func TestManualIdle(t *testing.T) {
	idle := vtest.NewManualIdle()
	if idle.Step(1) {
		t.Fatal("Step on empty queue should report false")
	}

	var got []int
	idle.RequestIdle(func(d scheduler.Deadline) {
		got = append(got, 1)
		idle.RequestIdle(func(scheduler.Deadline) { got = append(got, 3) })
	})
	idle.RequestIdle(func(scheduler.Deadline) { got = append(got, 2) })

	if idle.Pending() != 2 {
		t.Fatalf("Pending() = %d", idle.Pending())
	}
	if n := idle.Drain(1); n != 3 {
		t.Errorf("Drain ran %d callbacks, want 3", n)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("order = %v", got)
	}
	if idle.Requests() != 3 {
		t.Errorf("Requests() = %d", idle.Requests())
	}
}

func TestRecorder(t *testing.T) {
	rec := vtest.NewRecorder()
	root := rec.Container("body")

	h, err := rec.CreateNode("p", fiber.Props{"class": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.AppendChild(root, h); err != nil {
		t.Fatal(err)
	}
	rec.SetProperty(h, "class", "y")

	vtest.ExpectOps(t, rec, "create p", "append body>p", "set p.class=y")
	vtest.ExpectHTML(t, root, `<p class="y"></p>`)
	vtest.ExpectContains(t, root, "<p")
	vtest.ExpectNotContains(t, root, "x")

	boom := errors.New("boom")
	rec.FailOn("remove", boom)
	if err := rec.RemoveChild(root, h); !errors.Is(err, boom) {
		t.Errorf("err = %v, want injected failure", err)
	}
	if err := rec.RemoveChild(root, h); err != nil {
		t.Errorf("failure should fire once: %v", err)
	}
	if rec.Count("remove") != 1 {
		t.Errorf("Count(remove) = %d", rec.Count("remove"))
	}
}
