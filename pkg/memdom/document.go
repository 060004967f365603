package memdom

import (
	"errors"
	"fmt"

	"github.com/vango-dev/arbor/pkg/fiber"
)

// Sentinel errors returned by Document.
var (
	// ErrForeignHandle is returned for a handle not created by this Document.
	ErrForeignHandle = errors.New("memdom: foreign handle")

	// ErrNotChild is returned by RemoveChild when the child is not attached
	// to the given parent.
	ErrNotChild = errors.New("memdom: node is not a child of parent")

	// ErrNoListener is returned by RemoveListener for an unknown listener.
	ErrNoListener = errors.New("memdom: listener not attached")

	// ErrTextChildren is returned when appending to a text node.
	ErrTextChildren = errors.New("memdom: text nodes cannot have children")

	// ErrCycle is returned when appending a node under its own descendant.
	ErrCycle = errors.New("memdom: append would create a cycle")
)

// Document owns a set of nodes and implements fiber.HostAdapter.
type Document struct {
	nextID int
	nodes  map[int]*Node
}

// New creates an empty document.
func New() *Document {
	return &Document{nodes: make(map[int]*Node)}
}

// CreateElement creates a detached element, typically a render container.
func (d *Document) CreateElement(tag string) *Node {
	d.nextID++
	n := &Node{
		ID:        d.nextID,
		Tag:       tag,
		Attrs:     make(map[string]string),
		listeners: make(map[string][]*fiber.EventHandler),
		doc:       d,
	}
	d.nodes[n.ID] = n
	return n
}

// NodeByID returns the node with the given ID, or nil.
func (d *Document) NodeByID(id int) *Node {
	return d.nodes[id]
}

// Len returns the number of nodes ever created and not released.
func (d *Document) Len() int {
	return len(d.nodes)
}

func (d *Document) node(h fiber.Handle) (*Node, error) {
	n, ok := h.(*Node)
	if !ok || n == nil || n.doc != d {
		return nil, fmt.Errorf("%w: %T", ErrForeignHandle, h)
	}
	return n, nil
}

// CreateNode implements fiber.HostAdapter.
func (d *Document) CreateNode(tag string, attrs fiber.Props) (fiber.Handle, error) {
	n := d.CreateElement(tag)
	if tag == fiber.TextTag {
		n.Attrs[fiber.NodeValue] = fiber.PropString(attrs[fiber.NodeValue])
		return n, nil
	}
	for k, v := range attrs {
		if k == fiber.ChildrenKey || fiber.IsEventKey(k) {
			continue
		}
		n.Attrs[k] = fiber.PropString(v)
	}
	return n, nil
}

// AppendChild implements fiber.HostAdapter. A child that is already
// attached elsewhere is moved.
func (d *Document) AppendChild(parent, child fiber.Handle) error {
	p, err := d.node(parent)
	if err != nil {
		return err
	}
	c, err := d.node(child)
	if err != nil {
		return err
	}
	if p.IsText() {
		return ErrTextChildren
	}
	for a := p; a != nil; a = a.Parent {
		if a == c {
			return ErrCycle
		}
	}
	if c.Parent != nil {
		c.Parent.detach(c)
	}
	c.Parent = p
	p.Children = append(p.Children, c)
	return nil
}

// RemoveChild implements fiber.HostAdapter. The removed subtree is
// released from the document's ID index.
func (d *Document) RemoveChild(parent, child fiber.Handle) error {
	p, err := d.node(parent)
	if err != nil {
		return err
	}
	c, err := d.node(child)
	if err != nil {
		return err
	}
	if c.Parent != p || p.index(c) < 0 {
		return fmt.Errorf("%w: %s#%d under %s#%d", ErrNotChild, c.Tag, c.ID, p.Tag, p.ID)
	}
	p.detach(c)
	d.release(c)
	return nil
}

// Release implements fiber.Releaser. A detached node and its subtree leave
// the ID index; an attached node is left alone.
func (d *Document) Release(h fiber.Handle) error {
	n, err := d.node(h)
	if err != nil {
		return err
	}
	if n.Parent != nil {
		return nil
	}
	d.release(n)
	return nil
}

// SetProperty implements fiber.HostAdapter.
func (d *Document) SetProperty(h fiber.Handle, key string, value any) error {
	n, err := d.node(h)
	if err != nil {
		return err
	}
	n.Attrs[key] = fiber.PropString(value)
	return nil
}

// UnsetProperty implements fiber.HostAdapter.
func (d *Document) UnsetProperty(h fiber.Handle, key string) error {
	n, err := d.node(h)
	if err != nil {
		return err
	}
	delete(n.Attrs, key)
	return nil
}

// AddListener implements fiber.HostAdapter.
func (d *Document) AddListener(h fiber.Handle, event string, l *fiber.EventHandler) error {
	n, err := d.node(h)
	if err != nil {
		return err
	}
	n.listeners[event] = append(n.listeners[event], l)
	return nil
}

// RemoveListener implements fiber.HostAdapter.
func (d *Document) RemoveListener(h fiber.Handle, event string, l *fiber.EventHandler) error {
	n, err := d.node(h)
	if err != nil {
		return err
	}
	ls := n.listeners[event]
	for i, existing := range ls {
		if existing == l {
			n.listeners[event] = append(ls[:i:i], ls[i+1:]...)
			if len(n.listeners[event]) == 0 {
				delete(n.listeners, event)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s on %s#%d", ErrNoListener, event, n.Tag, n.ID)
}

// Dispatch delivers an event of type event to target and then to each
// ancestor in turn. It returns the number of listeners invoked.
// Listeners attached or removed during dispatch take effect for the
// next event.
func (d *Document) Dispatch(target *Node, event, value string) int {
	count := 0
	for n := target; n != nil; n = n.Parent {
		ls := append([]*fiber.EventHandler(nil), n.listeners[event]...)
		for _, l := range ls {
			l.Invoke(fiber.Event{Type: event, Target: target, Value: value})
			count++
		}
	}
	return count
}

func (n *Node) detach(c *Node) {
	if i := n.index(c); i >= 0 {
		n.Children = append(n.Children[:i], n.Children[i+1:]...)
	}
	c.Parent = nil
}

func (d *Document) release(n *Node) {
	delete(d.nodes, n.ID)
	for _, c := range n.Children {
		d.release(c)
	}
}
