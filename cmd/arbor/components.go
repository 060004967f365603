package main

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/arbor/internal/demo"
	"github.com/vango-dev/arbor/internal/treefile"
	"github.com/vango-dev/arbor/pkg/el"
	"github.com/vango-dev/arbor/pkg/fiber"
)

// newDecoder returns a description decoder with the built-in components
// and actions registered.
//
//	TaskApp             the task list demo, with no tasks
//	List {items: [...]} an unordered list with one item per entry
//	log                 action that logs the event it receives
func newDecoder(logger *slog.Logger) *treefile.Decoder {
	d := treefile.NewDecoder()

	app := demo.NewTaskApp(nil)
	d.Register("TaskApp", fiber.NewComponent("TaskApp", func(fiber.Props) *fiber.Element {
		return app.Element()
	}))

	d.Register("List", fiber.NewComponent("List", func(p fiber.Props) *fiber.Element {
		items, _ := p["items"].([]any)
		return el.Ul(el.Map(items, func(item any) *fiber.Element {
			return el.Li(fmt.Sprint(item))
		}))
	}))

	d.Action("log", fiber.Handler(func(e fiber.Event) {
		logger.Info("event", "type", e.Type, "value", e.Value)
	}))
	return d
}
