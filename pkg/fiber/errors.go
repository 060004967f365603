package fiber

import (
	"errors"
	"fmt"

	arborerrors "github.com/vango-dev/arbor/internal/errors"
)

// Sentinel errors for failed render passes.
var (
	// ErrMalformedDescription is returned when a description has no valid
	// kind, a children prop that is not []*Element, or a non-handler event prop.
	ErrMalformedDescription = errors.New("fiber: malformed description")

	// ErrComponentFailure is returned when a component function panics.
	ErrComponentFailure = errors.New("fiber: component failed")

	// ErrHostAdapter is returned when a host primitive fails.
	ErrHostAdapter = errors.New("fiber: host adapter failure")
)

// malformed builds a MalformedDescription error for node n.
func malformed(code string, n *Node, format string, args ...any) error {
	return arborerrors.New(code).
		WithDetailf("%s: %s", describe(n), fmt.Sprintf(format, args...)).
		Wrap(ErrMalformedDescription)
}

// hostFailure builds a HostAdapterFailure error for op on node n.
func hostFailure(code, op string, n *Node, err error) error {
	return arborerrors.New(code).
		WithDetailf("%s %s", op, describe(n)).
		Wrap(fmt.Errorf("%w: %w", ErrHostAdapter, err))
}

// componentFailure builds a ComponentFailure error from a recovered panic.
func componentFailure(n *Node, recovered any) error {
	return arborerrors.New("A003").
		WithDetailf("%s panicked: %v", describe(n), recovered).
		Wrap(ErrComponentFailure)
}

// describe names a node and its position for error details, e.g. "<li> in <ul>".
func describe(n *Node) string {
	if n == nil {
		return "nil node"
	}
	if n.Parent == nil || n.Parent.Kind.Host == RootTag {
		return n.Kind.String()
	}
	return n.Kind.String() + " in " + n.Parent.Kind.String()
}
