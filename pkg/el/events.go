package el

import (
	"github.com/vango-dev/arbor/pkg/fiber"
)

// Event binds a listener under an event prop key such as "onClick".
type Event struct {
	Key     string
	Handler *fiber.EventHandler
}

// On binds an existing handler to the named event. Passing the same
// handler on every render keeps the host listener attached.
func On(name string, h *fiber.EventHandler) Event {
	return Event{Key: "on" + name, Handler: h}
}

func event(name string, fn func(fiber.Event)) Event {
	if fn == nil {
		return Event{}
	}
	return On(name, fiber.Handler(fn))
}

// Mouse events
func OnClick(fn func(fiber.Event)) Event      { return event("Click", fn) }
func OnDblClick(fn func(fiber.Event)) Event   { return event("DblClick", fn) }
func OnMouseOver(fn func(fiber.Event)) Event  { return event("MouseOver", fn) }
func OnMouseOut(fn func(fiber.Event)) Event   { return event("MouseOut", fn) }
func OnMouseDown(fn func(fiber.Event)) Event  { return event("MouseDown", fn) }
func OnMouseUp(fn func(fiber.Event)) Event    { return event("MouseUp", fn) }

// Keyboard events
func OnKeyDown(fn func(fiber.Event)) Event { return event("KeyDown", fn) }
func OnKeyUp(fn func(fiber.Event)) Event   { return event("KeyUp", fn) }

// Form events
func OnInput(fn func(fiber.Event)) Event  { return event("Input", fn) }
func OnChange(fn func(fiber.Event)) Event { return event("Change", fn) }
func OnSubmit(fn func(fiber.Event)) Event { return event("Submit", fn) }
func OnFocus(fn func(fiber.Event)) Event  { return event("Focus", fn) }
func OnBlur(fn func(fiber.Event)) Event   { return event("Blur", fn) }
