// Package demo contains the task list application used by the CLI and
// the integration tests.
package demo

import (
	"github.com/vango-dev/arbor/pkg/el"
	"github.com/vango-dev/arbor/pkg/fiber"
)

// TaskApp is a small task list: a counter, a list of tasks that are
// deleted when clicked, an input whose change event adds a task and a
// button that only bumps the counter.
//
// Components are plain functions of props, so the state lives here and
// every handler calls the invalidate callback, which is expected to render
// the app again from the root.
type TaskApp struct {
	count int
	tasks []string

	invalidate func()
	component  *fiber.Component
}

// NewTaskApp creates the app. invalidate may be nil.
func NewTaskApp(invalidate func()) *TaskApp {
	a := &TaskApp{invalidate: invalidate}
	a.component = fiber.NewComponent("TaskApp", a.render)
	return a
}

// Element returns the root description of the app.
func (a *TaskApp) Element() *fiber.Element {
	return el.Component(a.component, nil)
}

// Count returns the counter value.
func (a *TaskApp) Count() int { return a.count }

// Tasks returns a copy of the task titles.
func (a *TaskApp) Tasks() []string {
	return append([]string(nil), a.tasks...)
}

// Add appends a task and bumps the counter.
func (a *TaskApp) Add(title string) {
	a.tasks = append(a.tasks, title)
	a.count++
	a.changed()
}

// Delete removes the task at index i and decrements the counter.
func (a *TaskApp) Delete(i int) {
	if i < 0 || i >= len(a.tasks) {
		return
	}
	a.tasks = append(a.tasks[:i:i], a.tasks[i+1:]...)
	a.count--
	a.changed()
}

// Bump increments the counter without adding a task.
func (a *TaskApp) Bump() {
	a.count++
	a.changed()
}

func (a *TaskApp) changed() {
	if a.invalidate != nil {
		a.invalidate()
	}
}

func (a *TaskApp) render(fiber.Props) *fiber.Element {
	return el.Div(
		el.H1("Task Management"),
		el.P(el.Textf("You have %d tasks:", a.count)),
		el.Ul(el.MapIndex(a.tasks, func(i int, task string) *fiber.Element {
			return el.Li(el.OnClick(func(fiber.Event) { a.Delete(i) }), task)
		})),
		el.Input(el.Value(""), el.OnChange(func(e fiber.Event) {
			if e.Value != "" {
				a.Add(e.Value)
			}
		})),
		el.Button(el.OnClick(func(fiber.Event) { a.Bump() }), "Add one"),
	)
}
