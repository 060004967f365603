package fiber

// Stats counts what a render pass did.
type Stats struct {
	Units      int // Nodes expanded by PerformUnit
	Placements int // Nodes tagged Placement
	Updates    int // Nodes tagged Update
	Deletions  int // Old nodes queued for deletion
	HostOps    int // Host primitives invoked during commit
}

// Work is one render pass: the pending tree under construction and the
// deletions accumulated while reconciling it.
type Work struct {
	Root      *Node
	Deletions []*Node

	host  HostAdapter
	stats Stats
}

// NewWork starts a pass that expands root against host.
func NewWork(host HostAdapter, root *Node) *Work {
	return &Work{Root: root, host: host}
}

// Stats returns the counters accumulated so far.
func (w *Work) Stats() Stats {
	return w.stats
}

// PerformUnit expands n and returns the next node to process, or nil when
// the pending tree is complete. A component node is rendered; a host node
// is materialized (detached) if it has no handle yet. Either way its child
// descriptions are reconciled against the previous generation.
func (w *Work) PerformUnit(n *Node) (*Node, error) {
	var children []*Element

	switch n.Kind.Tag {
	case KindComponent:
		if !n.Kind.Valid() {
			return nil, malformed("A001", n, "component has no render function")
		}
		out, err := renderComponent(n)
		if err != nil {
			return nil, err
		}
		if out != nil {
			children = []*Element{out}
		}

	case KindHost:
		if !n.Kind.Valid() {
			return nil, malformed("A001", n, "empty host tag")
		}
		if err := checkListeners(n); err != nil {
			return nil, err
		}
		var ok bool
		children, ok = n.Props.Children()
		if !ok {
			return nil, malformed("A002", n, "children is %T", n.Props[ChildrenKey])
		}
		if n.Kind.Host == TextTag && len(children) > 0 {
			return nil, malformed("A002", n, "text node has %d children", len(children))
		}
		if n.Handle == nil {
			if err := w.materialize(n); err != nil {
				return nil, err
			}
		}

	default:
		return nil, malformed("A001", n, "kind tag %d", n.Kind.Tag)
	}

	if err := w.reconcileChildren(n, children); err != nil {
		return nil, err
	}
	w.stats.Units++
	return NextUnit(n), nil
}

// renderComponent calls the component's render function, converting a
// panic into an error.
func renderComponent(n *Node) (out *Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, componentFailure(n, r)
		}
	}()
	return n.Kind.Comp.Render(n.Props), nil
}

// materialize creates the detached host node for n and binds its listeners.
// It never attaches the node to a parent.
func (w *Work) materialize(n *Node) error {
	attrs := n.Props.Attrs()
	if n.Kind.Host == TextTag {
		attrs = Props{NodeValue: n.Props[NodeValue]}
	}
	h, err := w.host.CreateNode(n.Kind.Host, attrs)
	if err != nil {
		return hostFailure("A010", "create", n, err)
	}
	n.Handle = h

	if n.Kind.Host == TextTag {
		return nil
	}
	for _, key := range n.Props.Keys() {
		if !IsEventKey(key) {
			continue
		}
		l, _ := n.Props[key].(*EventHandler)
		if l == nil {
			continue
		}
		if err := w.host.AddListener(h, EventName(key), l); err != nil {
			return hostFailure("A010", "listen "+EventName(key)+" on", n, err)
		}
	}
	return nil
}

// checkListeners verifies every event prop of n holds an *EventHandler.
func checkListeners(n *Node) error {
	for key, v := range n.Props {
		if !IsEventKey(key) || v == nil {
			continue
		}
		if _, ok := v.(*EventHandler); !ok {
			return malformed("A004", n, "%s is %T", key, v)
		}
	}
	return nil
}
