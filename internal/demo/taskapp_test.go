package demo

import (
	"testing"

	"github.com/vango-dev/arbor/pkg/memdom"
	"github.com/vango-dev/arbor/pkg/scheduler"
	"github.com/vango-dev/arbor/pkg/vtest"
)

type fixture struct {
	app       *TaskApp
	rec       *vtest.Recorder
	idle      *vtest.ManualIdle
	container *memdom.Node
	s         *scheduler.Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{rec: vtest.NewRecorder(), idle: vtest.NewManualIdle()}
	f.container = f.rec.Container("body")
	f.s = scheduler.New(f.rec, f.idle, scheduler.WithResultHandler(func(r scheduler.Result) {
		if r.Err != nil {
			t.Errorf("pass failed: %v", r.Err)
		}
	}))
	f.app = NewTaskApp(func() { f.s.Render(f.app.Element(), f.container) })
	f.s.Render(f.app.Element(), f.container)
	f.idle.Drain(5)
	return f
}

func (f *fixture) fire(t *testing.T, match func(*memdom.Node) bool, event, value string) {
	t.Helper()
	n := f.container.Find(match)
	if n == nil {
		t.Fatalf("no node matches for %s", event)
	}
	if f.rec.Doc.Dispatch(n, event, value) == 0 {
		t.Fatalf("no %s listener", event)
	}
	f.idle.Drain(5)
}

func TestTaskAppInitialRender(t *testing.T) {
	f := newFixture(t)
	vtest.ExpectHTML(t, f.container,
		`<div><h1>Task Management</h1><p>You have 0 tasks:</p><ul></ul>`+
			`<input data-on-change="true"><button data-on-click="true">Add one</button></div>`)
}

func TestTaskAppAddAndDelete(t *testing.T) {
	f := newFixture(t)

	f.fire(t, memdom.ByTag("input"), "change", "milk")
	f.fire(t, memdom.ByTag("input"), "change", "eggs")
	vtest.ExpectContains(t, f.container, "You have 2 tasks:")
	vtest.ExpectContains(t, f.container, `<ul><li data-on-click="true">milk</li><li data-on-click="true">eggs</li></ul>`)

	f.rec.Reset()
	f.fire(t, memdom.ByTag("li"), "click", "")

	if got := f.app.Tasks(); len(got) != 1 || got[0] != "eggs" {
		t.Fatalf("tasks = %v", got)
	}
	vtest.ExpectContains(t, f.container, `<ul><li data-on-click="true">eggs</li></ul>`)
	vtest.ExpectContains(t, f.container, "You have 1 tasks:")
	// Position-based: the first item is updated in place, the last removed.
	if f.rec.Count("remove ul>li") != 1 || f.rec.Count("create") != 0 {
		t.Errorf("ops = %v", f.rec.Ops())
	}
}

func TestTaskAppBumpReplacesListeners(t *testing.T) {
	f := newFixture(t)
	f.rec.Reset()

	f.fire(t, memdom.ByTag("button"), "click", "")
	if f.app.Count() != 1 || len(f.app.Tasks()) != 0 {
		t.Fatalf("count=%d tasks=%v", f.app.Count(), f.app.Tasks())
	}
	vtest.ExpectContains(t, f.container, "You have 1 tasks:")

	// Every render binds fresh handlers; each is detached before its
	// successor is attached.
	if f.rec.Count("unlisten") != 2 || f.rec.Count("listen") != 2 {
		t.Errorf("ops = %v", f.rec.Ops())
	}
	btn := f.container.Find(memdom.ByTag("button"))
	if btn.Listeners("click") != 1 {
		t.Errorf("button has %d click listeners", btn.Listeners("click"))
	}
}

func TestTaskAppIgnoresEmptyInput(t *testing.T) {
	f := newFixture(t)
	n := f.container.Find(memdom.ByTag("input"))
	f.rec.Doc.Dispatch(n, "change", "")
	if f.idle.Pending() != 0 || len(f.app.Tasks()) != 0 {
		t.Error("empty input should not re-render")
	}
}

func TestTaskAppDeleteOutOfRange(t *testing.T) {
	app := NewTaskApp(nil)
	app.Add("a")
	app.Delete(5)
	app.Delete(-1)
	if len(app.Tasks()) != 1 || app.Count() != 1 {
		t.Errorf("tasks=%v count=%d", app.Tasks(), app.Count())
	}
}
