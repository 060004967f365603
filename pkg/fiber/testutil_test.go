package fiber

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// fakeNode is a host node of fakeHost.
type fakeNode struct {
	id        int
	tag       string
	attrs     map[string]any
	listeners map[string][]*EventHandler
	parent    *fakeNode
	children  []*fakeNode
}

// fakeHost is a minimal HostAdapter recording every primitive it executes.
type fakeHost struct {
	nextID int
	ops    []string
	failOn string // Fail the first op whose log line starts with this prefix
}

func newFakeHost() *fakeHost {
	return &fakeHost{}
}

func (h *fakeHost) container() *fakeNode {
	h.nextID++
	return &fakeNode{id: h.nextID, tag: "container", attrs: map[string]any{}, listeners: map[string][]*EventHandler{}}
}

func (h *fakeHost) record(op string) error {
	if h.failOn != "" && strings.HasPrefix(op, h.failOn) {
		h.failOn = ""
		return errors.New("injected failure: " + op)
	}
	h.ops = append(h.ops, op)
	return nil
}

func (h *fakeHost) reset() {
	h.ops = nil
}

func (h *fakeHost) CreateNode(tag string, attrs Props) (Handle, error) {
	if err := h.record("create " + tag); err != nil {
		return nil, err
	}
	h.nextID++
	n := &fakeNode{id: h.nextID, tag: tag, attrs: map[string]any{}, listeners: map[string][]*EventHandler{}}
	for k, v := range attrs {
		n.attrs[k] = v
	}
	return n, nil
}

func (h *fakeHost) AppendChild(parent, child Handle) error {
	p, c := parent.(*fakeNode), child.(*fakeNode)
	if err := h.record(fmt.Sprintf("append %s>%s", p.tag, c.tag)); err != nil {
		return err
	}
	c.parent = p
	p.children = append(p.children, c)
	return nil
}

func (h *fakeHost) RemoveChild(parent, child Handle) error {
	p, c := parent.(*fakeNode), child.(*fakeNode)
	if err := h.record(fmt.Sprintf("remove %s>%s", p.tag, c.tag)); err != nil {
		return err
	}
	for i, existing := range p.children {
		if existing == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			c.parent = nil
			return nil
		}
	}
	return fmt.Errorf("%s is not a child of %s", c.tag, p.tag)
}

func (h *fakeHost) SetProperty(handle Handle, key string, value any) error {
	n := handle.(*fakeNode)
	if err := h.record(fmt.Sprintf("set %s.%s=%v", n.tag, key, value)); err != nil {
		return err
	}
	n.attrs[key] = value
	return nil
}

func (h *fakeHost) UnsetProperty(handle Handle, key string) error {
	n := handle.(*fakeNode)
	if err := h.record(fmt.Sprintf("unset %s.%s", n.tag, key)); err != nil {
		return err
	}
	delete(n.attrs, key)
	return nil
}

func (h *fakeHost) AddListener(handle Handle, event string, l *EventHandler) error {
	n := handle.(*fakeNode)
	if err := h.record(fmt.Sprintf("listen %s.%s", n.tag, event)); err != nil {
		return err
	}
	n.listeners[event] = append(n.listeners[event], l)
	return nil
}

func (h *fakeHost) RemoveListener(handle Handle, event string, l *EventHandler) error {
	n := handle.(*fakeNode)
	if err := h.record(fmt.Sprintf("unlisten %s.%s", n.tag, event)); err != nil {
		return err
	}
	ls := n.listeners[event]
	for i, existing := range ls {
		if existing == l {
			n.listeners[event] = append(ls[:i], ls[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("listener for %s not attached to %s", event, n.tag)
}

// fire invokes every listener for event on n and returns how many ran.
func (n *fakeNode) fire(event string) int {
	ls := append([]*EventHandler(nil), n.listeners[event]...)
	for _, l := range ls {
		l.Invoke(Event{Type: event, Target: n})
	}
	return len(ls)
}

// markup serializes the host subtree, e.g. `<ul><li class="a">x</li></ul>`.
func (n *fakeNode) markup() string {
	if n.tag == TextTag {
		return fmt.Sprint(n.attrs[NodeValue])
	}
	var b strings.Builder
	b.WriteString("<" + n.tag)
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, fmt.Sprint(n.attrs[k]))
	}
	b.WriteString(">")
	for _, c := range n.children {
		b.WriteString(c.markup())
	}
	b.WriteString("</" + n.tag + ">")
	return b.String()
}

// innerMarkup serializes the children of n.
func (n *fakeNode) innerMarkup() string {
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.markup())
	}
	return b.String()
}

// runPass performs a whole render pass synchronously and commits it.
// It returns the pending work and the error of whichever phase failed.
func runPass(host HostAdapter, container Handle, current *Node, desc *Element) (*Work, error) {
	w := NewWork(host, NewRoot(desc, container, current))
	for next := w.Root; next != nil; {
		var err error
		next, err = w.PerformUnit(next)
		if err != nil {
			return w, err
		}
	}
	return w, w.Commit()
}

// expand performs every unit of a pass without committing.
func expand(host HostAdapter, container Handle, current *Node, desc *Element) (*Work, error) {
	w := NewWork(host, NewRoot(desc, container, current))
	for next := w.Root; next != nil; {
		var err error
		next, err = w.PerformUnit(next)
		if err != nil {
			return w, err
		}
	}
	return w, nil
}

func h(tag string, props Props, children ...*Element) *Element {
	return Host(tag, props, children...)
}

func list(items ...string) *Element {
	children := make([]*Element, len(items))
	for i, it := range items {
		children[i] = h("li", nil, Text(it))
	}
	return h("ul", nil, children...)
}
