package remote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/vango-dev/arbor/pkg/fiber"
	"github.com/vango-dev/arbor/pkg/memdom"
	"github.com/vango-dev/arbor/pkg/protocol"
)

// forward is the replica's single listener for one (node, event) pair.
type forward struct {
	handler *fiber.EventHandler
	refs    int
}

// Replica mirrors an Adapter's host tree into a memdom.Document.
type Replica struct {
	ep     *endpoint
	logger *slog.Logger

	mu       sync.Mutex
	doc      *memdom.Document
	nodes    map[uint64]*memdom.Node
	ids      map[*memdom.Node]uint64
	forwards map[uint64]map[string]*forward
	roots    []*memdom.Node
	seq      uint64
}

// NewReplica creates a replica reading batches from conn.
func NewReplica(conn Conn, opts ...Option) *Replica {
	cfg := newConfig(opts)
	conn.SetReadLimit(cfg.MaxMessageSize)
	r := &Replica{
		ep:     &endpoint{conn: conn, timeout: cfg.WriteTimeout},
		logger: cfg.Logger.With("component", "remote.replica"),
	}
	r.reset()
	return r
}

func (r *Replica) reset() {
	r.doc = memdom.New()
	r.nodes = make(map[uint64]*memdom.Node)
	r.ids = make(map[*memdom.Node]uint64)
	r.forwards = make(map[uint64]map[string]*forward)
	r.roots = nil
	r.seq = 0
}

// Run applies batch frames until the connection closes or ctx is done.
// onBatch, if not nil, is called after each batch is applied.
func (r *Replica) Run(ctx context.Context, onBatch func(*protocol.Batch)) error {
	stop := context.AfterFunc(ctx, func() { r.Close() })
	defer stop()

	for {
		_, msg, err := r.ep.conn.ReadMessage()
		if err != nil {
			if expectedClose(err, r.ep.isClosed()) {
				return nil
			}
			return err
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			return err
		}
		switch frame.Type {
		case protocol.FrameBatch:
			b, err := protocol.DecodeBatch(frame.Payload)
			if err != nil {
				return err
			}
			if err := r.Apply(b, frame.Flags.Has(protocol.FlagReset)); err != nil {
				r.ep.send(protocol.NewFrame(protocol.FrameError, []byte(err.Error())))
				return err
			}
			if onBatch != nil {
				onBatch(b)
			}
		case protocol.FrameError:
			r.logger.Warn("adapter error", "message", string(frame.Payload))
		default:
			r.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// Apply applies b to the replica tree. With reset, the tree is dropped
// first. Apply stops at the first mutation that fails.
func (r *Replica) Apply(b *protocol.Batch, reset bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reset {
		r.reset()
	} else if b.Seq != r.seq+1 {
		r.logger.Warn("batch sequence gap", "expected", r.seq+1, "got", b.Seq)
	}
	for _, m := range b.Ops {
		if err := r.apply(m); err != nil {
			return fmt.Errorf("remote: apply %s: %w", m, err)
		}
	}
	r.seq = b.Seq
	return nil
}

func (r *Replica) lookup(id uint64) (*memdom.Node, error) {
	n, ok := r.nodes[id]
	if !ok {
		return nil, unknownHandle(fmt.Sprintf("replica node %d", id))
	}
	return n, nil
}

func (r *Replica) apply(m protocol.Mutation) error {
	if m.Op == protocol.OpCreate {
		if _, exists := r.nodes[m.Node]; exists {
			return fmt.Errorf("node %d already exists", m.Node)
		}
		h, err := r.doc.CreateNode(m.Tag, fiber.Props(m.Attrs))
		if err != nil {
			return err
		}
		n := h.(*memdom.Node)
		r.nodes[m.Node] = n
		r.ids[n] = m.Node
		return nil
	}

	n, err := r.lookup(m.Node)
	if err != nil {
		return err
	}
	switch m.Op {
	case protocol.OpMount:
		r.roots = append(r.roots, n)
		return nil
	case protocol.OpAppend:
		p, err := r.lookup(m.Parent)
		if err != nil {
			return err
		}
		return r.doc.AppendChild(p, n)
	case protocol.OpRemove:
		p, err := r.lookup(m.Parent)
		if err != nil {
			return err
		}
		r.forget(n)
		return r.doc.RemoveChild(p, n)
	case protocol.OpSet:
		return r.doc.SetProperty(n, m.Key, m.Value)
	case protocol.OpUnset:
		return r.doc.UnsetProperty(n, m.Key)
	case protocol.OpListen:
		return r.listen(m.Node, n, m.Key)
	case protocol.OpUnlisten:
		return r.unlisten(m.Node, n, m.Key)
	case protocol.OpRelease:
		if n.Parent != nil {
			return fmt.Errorf("node %d is attached", m.Node)
		}
		r.forget(n)
		return r.doc.Release(n)
	default:
		return fmt.Errorf("unsupported op %s", m.Op)
	}
}

// forget drops the remote IDs of a subtree about to be removed.
func (r *Replica) forget(n *memdom.Node) {
	if id, ok := r.ids[n]; ok {
		delete(r.ids, n)
		delete(r.nodes, id)
		delete(r.forwards, id)
	}
	for _, c := range n.Children {
		r.forget(c)
	}
}

func (r *Replica) listen(id uint64, n *memdom.Node, event string) error {
	byEvent := r.forwards[id]
	if byEvent == nil {
		byEvent = make(map[string]*forward)
		r.forwards[id] = byEvent
	}
	if f := byEvent[event]; f != nil {
		f.refs++
		return nil
	}
	f := &forward{refs: 1, handler: fiber.Handler(func(e fiber.Event) {
		r.send(&protocol.Event{Node: id, Type: e.Type, Value: e.Value})
	})}
	byEvent[event] = f
	return r.doc.AddListener(n, event, f.handler)
}

func (r *Replica) unlisten(id uint64, n *memdom.Node, event string) error {
	f := r.forwards[id][event]
	if f == nil {
		return fmt.Errorf("%w: %s on node %d", ErrNoListener, event, id)
	}
	f.refs--
	if f.refs > 0 {
		return nil
	}
	delete(r.forwards[id], event)
	return r.doc.RemoveListener(n, event, f.handler)
}

func (r *Replica) send(ev *protocol.Event) {
	if err := r.ep.send(protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(ev))); err != nil {
		r.logger.Error("send event", "node", ev.Node, "type", ev.Type, "error", err)
	}
}

// Fire raises event on target, bubbling through its ancestors like
// memdom.Document.Dispatch. Forwarded listeners send the event to the
// adapter. It returns the number of listeners that ran.
func (r *Replica) Fire(target *memdom.Node, event, value string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Dispatch(target, event, value)
}

// Find returns the first node under the replica roots matching fn.
func (r *Replica) Find(fn func(*memdom.Node) bool) *memdom.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, root := range r.roots {
		if n := root.Find(fn); n != nil {
			return n
		}
	}
	return nil
}

// HTML returns the markup of every root's children, in mount order.
func (r *Replica) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	for _, root := range r.roots {
		b.WriteString(root.InnerHTML())
	}
	return b.String()
}

// Seq returns the sequence number of the last applied batch.
func (r *Replica) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Len returns the number of live replica nodes.
func (r *Replica) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}

// Close closes the connection. Run returns nil afterwards.
func (r *Replica) Close() error {
	return r.ep.close()
}
