package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	arborerrors "github.com/vango-dev/arbor/internal/errors"
	"github.com/vango-dev/arbor/pkg/fiber"
	"github.com/vango-dev/arbor/pkg/protocol"
)

// Sentinel errors returned by Adapter and Replica.
var (
	// ErrUnknownHandle is returned for a handle or remote ID that does not
	// name a live node.
	ErrUnknownHandle = errors.New("remote: unknown handle")

	// ErrNotChild is returned by RemoveChild when the child is not attached
	// to the given parent.
	ErrNotChild = errors.New("remote: node is not a child of parent")

	// ErrNoListener is returned by RemoveListener for an unknown listener.
	ErrNoListener = errors.New("remote: listener not attached")
)

// Node is the render-side handle of a replica node.
type Node struct {
	ID  uint64
	Tag string

	parent    *Node
	children  []*Node
	listeners map[string][]*fiber.EventHandler
}

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) detach(c *Node) {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			break
		}
	}
	c.parent = nil
}

// Adapter is a fiber.HostAdapter and fiber.Flusher whose host tree is a
// Replica on the other end of conn.
//
// Host operations and Flush must be called from one goroutine, normally
// the scheduler loop. Serve runs on its own goroutine and hands events to
// that loop through its dispatch function.
type Adapter struct {
	ep     *endpoint
	config Config
	logger *slog.Logger

	nextID  uint64
	nodes   map[uint64]*Node
	pending []protocol.Mutation
	seq     uint64
}

// New creates an adapter writing to conn.
func New(conn Conn, opts ...Option) *Adapter {
	cfg := newConfig(opts)
	conn.SetReadLimit(cfg.MaxMessageSize)
	return &Adapter{
		ep:     &endpoint{conn: conn, timeout: cfg.WriteTimeout},
		config: cfg,
		logger: cfg.Logger.With("component", "remote.adapter"),
		nodes:  make(map[uint64]*Node),
	}
}

// Container creates a detached node that the replica treats as a root.
// Pass it to Scheduler.Render as the render container.
func (a *Adapter) Container(tag string) *Node {
	n := a.newNode(tag)
	a.queue(protocol.Mutation{Op: protocol.OpCreate, Node: n.ID, Tag: tag})
	a.queue(protocol.Mutation{Op: protocol.OpMount, Node: n.ID})
	return n
}

// NodeByID returns the live node with the given ID, or nil.
func (a *Adapter) NodeByID(id uint64) *Node {
	return a.nodes[id]
}

// Len returns the number of live nodes.
func (a *Adapter) Len() int {
	return len(a.nodes)
}

// Queued returns the number of mutations waiting for the next Flush.
func (a *Adapter) Queued() int {
	return len(a.pending)
}

// Seq returns the sequence number of the last batch sent.
func (a *Adapter) Seq() uint64 {
	return a.seq
}

// BytesSent returns the number of frame bytes written so far.
func (a *Adapter) BytesSent() uint64 {
	return a.ep.bytesSent()
}

func (a *Adapter) newNode(tag string) *Node {
	a.nextID++
	n := &Node{ID: a.nextID, Tag: tag, listeners: make(map[string][]*fiber.EventHandler)}
	a.nodes[n.ID] = n
	return n
}

func (a *Adapter) queue(m protocol.Mutation) {
	a.pending = append(a.pending, m)
}

func (a *Adapter) node(h fiber.Handle) (*Node, error) {
	n, ok := h.(*Node)
	if !ok || n == nil || a.nodes[n.ID] != n {
		return nil, unknownHandle(fmt.Sprintf("%T", h))
	}
	return n, nil
}

func unknownHandle(detail string) error {
	return arborerrors.New("A041").WithDetail(detail).Wrap(ErrUnknownHandle)
}

// CreateNode implements fiber.HostAdapter.
func (a *Adapter) CreateNode(tag string, attrs fiber.Props) (fiber.Handle, error) {
	n := a.newNode(tag)
	wire := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if k == fiber.ChildrenKey || fiber.IsEventKey(k) {
			continue
		}
		wire[k] = v
	}
	a.queue(protocol.Mutation{Op: protocol.OpCreate, Node: n.ID, Tag: tag, Attrs: wire})
	return n, nil
}

// AppendChild implements fiber.HostAdapter. A child attached elsewhere is
// moved.
func (a *Adapter) AppendChild(parent, child fiber.Handle) error {
	p, err := a.node(parent)
	if err != nil {
		return err
	}
	c, err := a.node(child)
	if err != nil {
		return err
	}
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = p
	p.children = append(p.children, c)
	a.queue(protocol.Mutation{Op: protocol.OpAppend, Parent: p.ID, Node: c.ID})
	return nil
}

// RemoveChild implements fiber.HostAdapter. The removed subtree is released
// on both ends.
func (a *Adapter) RemoveChild(parent, child fiber.Handle) error {
	p, err := a.node(parent)
	if err != nil {
		return err
	}
	c, err := a.node(child)
	if err != nil {
		return err
	}
	if c.parent != p {
		return fmt.Errorf("%w: %s#%d under %s#%d", ErrNotChild, c.Tag, c.ID, p.Tag, p.ID)
	}
	p.detach(c)
	a.release(c)
	a.queue(protocol.Mutation{Op: protocol.OpRemove, Parent: p.ID, Node: c.ID})
	return nil
}

func (a *Adapter) release(n *Node) {
	delete(a.nodes, n.ID)
	for _, c := range n.children {
		a.release(c)
	}
}

// Release implements fiber.Releaser. An attached node is left alone. A
// detached node is dropped; if its creation has not been sent yet, its
// queued mutations are discarded, otherwise the replica is told to drop it.
func (a *Adapter) Release(h fiber.Handle) error {
	n, err := a.node(h)
	if err != nil {
		return err
	}
	if n.parent != nil {
		return nil
	}
	a.release(n)

	if !a.unqueue(n.ID) {
		a.queue(protocol.Mutation{Op: protocol.OpRelease, Node: n.ID})
	}
	return nil
}

// unqueue drops the pending mutations of a node created since the last
// batch. It reports false if the node's creation was already sent.
func (a *Adapter) unqueue(id uint64) bool {
	created := false
	for _, m := range a.pending {
		if m.Op == protocol.OpCreate && m.Node == id {
			created = true
			break
		}
	}
	if !created {
		return false
	}
	kept := a.pending[:0]
	for _, m := range a.pending {
		if m.Node != id {
			kept = append(kept, m)
		}
	}
	a.pending = kept
	return true
}

// SetProperty implements fiber.HostAdapter.
func (a *Adapter) SetProperty(h fiber.Handle, key string, value any) error {
	n, err := a.node(h)
	if err != nil {
		return err
	}
	a.queue(protocol.Mutation{Op: protocol.OpSet, Node: n.ID, Key: key, Value: value})
	return nil
}

// UnsetProperty implements fiber.HostAdapter.
func (a *Adapter) UnsetProperty(h fiber.Handle, key string) error {
	n, err := a.node(h)
	if err != nil {
		return err
	}
	a.queue(protocol.Mutation{Op: protocol.OpUnset, Node: n.ID, Key: key})
	return nil
}

// AddListener implements fiber.HostAdapter.
func (a *Adapter) AddListener(h fiber.Handle, event string, l *fiber.EventHandler) error {
	n, err := a.node(h)
	if err != nil {
		return err
	}
	n.listeners[event] = append(n.listeners[event], l)
	a.queue(protocol.Mutation{Op: protocol.OpListen, Node: n.ID, Key: event})
	return nil
}

// RemoveListener implements fiber.HostAdapter.
func (a *Adapter) RemoveListener(h fiber.Handle, event string, l *fiber.EventHandler) error {
	n, err := a.node(h)
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
			a.queue(protocol.Mutation{Op: protocol.OpUnlisten, Node: n.ID, Key: event})
			return nil
		}
	}
	return fmt.Errorf("%w: %s on %s#%d", ErrNoListener, event, n.Tag, n.ID)
}

// Flush implements fiber.Flusher: it sends the queued mutations as one
// batch. The first batch is flagged so a reconnecting replica starts over.
func (a *Adapter) Flush() error {
	if len(a.pending) == 0 {
		return nil
	}
	b := &protocol.Batch{Seq: a.seq + 1, Ops: a.pending}
	f := protocol.NewFrame(protocol.FrameBatch, protocol.EncodeBatch(b))
	if b.Seq == 1 {
		f.Flags |= protocol.FlagReset
	}
	if err := a.ep.send(f); err != nil {
		return fmt.Errorf("remote: send batch %d: %w", b.Seq, err)
	}
	a.seq = b.Seq
	a.pending = nil
	a.logger.Debug("sent batch", "seq", b.Seq, "ops", len(b.Ops))
	return nil
}

// Serve reads event frames until the connection closes or ctx is done.
// Each event is handed to dispatch, which must run the function on the
// goroutine that owns the adapter.
func (a *Adapter) Serve(ctx context.Context, dispatch func(func())) error {
	stop := context.AfterFunc(ctx, func() { a.Close() })
	defer stop()

	for {
		_, msg, err := a.ep.conn.ReadMessage()
		if err != nil {
			if expectedClose(err, a.ep.isClosed()) {
				return nil
			}
			return err
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			a.logger.Error("frame decode error", "error", err)
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			ev, err := protocol.DecodeEvent(frame.Payload)
			if err != nil {
				a.logger.Error("event decode error", "error", err)
				continue
			}
			dispatch(func() { a.Fire(ev) })
		case protocol.FrameError:
			a.logger.Warn("replica error", "message", string(frame.Payload))
		default:
			a.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// Fire invokes the listeners for ev and returns how many ran. Events for
// nodes that were removed after the replica sent them are dropped.
func (a *Adapter) Fire(ev *protocol.Event) int {
	n, ok := a.nodes[ev.Node]
	if !ok {
		err := unknownHandle(fmt.Sprintf("event %s for node %d", ev.Type, ev.Node))
		a.logger.Warn("dropped event", "error", err)
		return 0
	}
	ls := append([]*fiber.EventHandler(nil), n.listeners[ev.Type]...)
	for _, l := range ls {
		l.Invoke(fiber.Event{Type: ev.Type, Target: n, Value: ev.Value})
	}
	return len(ls)
}

// Close closes the connection. Serve returns nil afterwards.
func (a *Adapter) Close() error {
	return a.ep.close()
}

var (
	_ fiber.HostAdapter = (*Adapter)(nil)
	_ fiber.Flusher     = (*Adapter)(nil)
	_ fiber.Releaser    = (*Adapter)(nil)
)
