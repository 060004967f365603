package fiber

// HostAdapter is the primitive operation set of the external host tree.
// Implementations are driven from a single goroutine.
type HostAdapter interface {
	// CreateNode returns a detached host node for tag with attrs applied.
	// For TextTag only attrs[NodeValue] is meaningful.
	CreateNode(tag string, attrs Props) (Handle, error)

	// AppendChild attaches child as the last child of parent.
	AppendChild(parent, child Handle) error

	// RemoveChild detaches child from parent. It fails if child is not
	// attached to parent.
	RemoveChild(parent, child Handle) error

	// SetProperty applies an ordinary attribute.
	SetProperty(h Handle, key string, value any) error

	// UnsetProperty clears an ordinary attribute.
	UnsetProperty(h Handle, key string) error

	// AddListener attaches l for the named event.
	AddListener(h Handle, event string, l *EventHandler) error

	// RemoveListener detaches l from the named event.
	RemoveListener(h Handle, event string, l *EventHandler) error
}

// Releaser is implemented by hosts that index the nodes they create.
// Release is called for each node materialized by a pass that never
// committed. A node that is attached to a parent must be left alone.
type Releaser interface {
	Release(h Handle) error
}

// Flusher is implemented by hosts that buffer mutations. Flush is called
// once after every successful commit.
type Flusher interface {
	Flush() error
}
