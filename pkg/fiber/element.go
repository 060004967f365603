package fiber

import (
	"sort"
	"strings"
)

// ChildrenKey is the reserved prop holding child descriptions.
const ChildrenKey = "children"

// Element describes one node of the desired tree.
type Element struct {
	Kind  Kind
	Props Props
}

// Props holds attributes, listeners and the reserved children sequence.
type Props map[string]any

// Children returns the child descriptions stored under ChildrenKey.
// ok is false if the value is present but is not a []*Element.
func (p Props) Children() (children []*Element, ok bool) {
	v, exists := p[ChildrenKey]
	if !exists || v == nil {
		return nil, true
	}
	children, ok = v.([]*Element)
	return children, ok
}

// Keys returns the prop keys in sorted order, excluding ChildrenKey.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		if k == ChildrenKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attrs returns the ordinary attributes: everything except children and listeners.
func (p Props) Attrs() Props {
	attrs := make(Props, len(p))
	for k, v := range p {
		if k == ChildrenKey || IsEventKey(k) {
			continue
		}
		attrs[k] = v
	}
	return attrs
}

// IsEventKey reports whether a prop key binds a listener.
// The "on" prefix is matched case-insensitively.
func IsEventKey(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// EventName returns the host event name bound by an event key:
// the key without its prefix, lower-cased ("onClick" -> "click").
func EventName(key string) string {
	return strings.ToLower(key[2:])
}

// Event is delivered to listeners by the host.
type Event struct {
	Type   string // Event name, e.g. "click"
	Target Handle // Host node the listener is attached to
	Value  string // Input value for form events, if any
}

// EventHandler wraps a listener function. Handlers are compared by pointer,
// so reusing the same *EventHandler across renders keeps the listener attached.
type EventHandler struct {
	Fn func(Event)
}

// Handler wraps fn in a new EventHandler.
func Handler(fn func(Event)) *EventHandler {
	return &EventHandler{Fn: fn}
}

// Invoke calls the handler function, if any.
func (h *EventHandler) Invoke(e Event) {
	if h != nil && h.Fn != nil {
		h.Fn(e)
	}
}

// Text returns a text element with the given content.
func Text(content string) *Element {
	return &Element{Kind: HostType(TextTag), Props: Props{NodeValue: content}}
}

// Host returns a host element.
func Host(tag string, props Props, children ...*Element) *Element {
	if props == nil {
		props = make(Props, 1)
	}
	if len(children) > 0 {
		props[ChildrenKey] = children
	}
	return &Element{Kind: HostType(tag), Props: props}
}

// Render returns an element rendered by component c.
func Render(c *Component, props Props) *Element {
	if props == nil {
		props = Props{}
	}
	return &Element{Kind: ComponentType(c), Props: props}
}
