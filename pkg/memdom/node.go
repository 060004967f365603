package memdom

import (
	"sort"
	"strings"

	"github.com/vango-dev/arbor/pkg/fiber"
	"github.com/vango-dev/arbor/pkg/render"
)

// Node is one node of a Document.
type Node struct {
	ID       int
	Tag      string
	Attrs    map[string]string
	Parent   *Node
	Children []*Node

	listeners map[string][]*fiber.EventHandler
	doc       *Document
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == fiber.TextTag
}

// Value returns the content of a text node.
func (n *Node) Value() string {
	return n.Attrs[fiber.NodeValue]
}

// Listeners returns how many listeners are attached for event.
func (n *Node) Listeners(event string) int {
	return len(n.listeners[event])
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Value()
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Find returns the first node in n's subtree, n included, matching fn.
func (n *Node) Find(fn func(*Node) bool) *Node {
	if fn(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(fn); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in n's subtree matching fn, in document order.
func (n *Node) FindAll(fn func(*Node) bool) []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(x *Node) {
		if fn(x) {
			out = append(out, x)
		}
		for _, c := range x.Children {
			visit(c)
		}
	}
	visit(n)
	return out
}

// ByTag matches element nodes with the given tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool { return n.Tag == tag }
}

// ByAttr matches nodes whose attribute key equals value.
func ByAttr(key, value string) func(*Node) bool {
	return func(n *Node) bool {
		v, ok := n.Attrs[key]
		return ok && v == value
	}
}

// OuterHTML serializes n and its subtree.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.Children {
		c.writeHTML(&b)
	}
	return b.String()
}

func (n *Node) writeHTML(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(render.EscapeHTML(n.Value()))
		return
	}

	attrs := make(map[string]any, len(n.Attrs))
	for k, v := range n.Attrs {
		if render.IsBooleanAttr(k) && (v == "true" || v == "false") {
			attrs[k] = v == "true"
			continue
		}
		attrs[k] = v
	}
	events := make([]string, 0, len(n.listeners))
	for ev, ls := range n.listeners {
		if len(ls) > 0 {
			events = append(events, ev)
		}
	}
	sort.Strings(events)

	render.WriteStartTag(b, n.Tag, attrs, events)
	if render.IsVoidElement(n.Tag) {
		return
	}
	for _, c := range n.Children {
		c.writeHTML(b)
	}
	render.WriteEndTag(b, n.Tag)
}

func (n *Node) index(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}
