package fiber

// EffectTag is the mutation class decided for a pending node.
type EffectTag uint8

const (
	EffectNone EffectTag = iota // No host mutation (pending root)
	Placement                   // Attach a new host node
	Update                      // Diff props on a reused host node
	Deletion                    // Remove the host subtree
)

// String returns the string representation of the EffectTag.
func (t EffectTag) String() string {
	switch t {
	case EffectNone:
		return "None"
	case Placement:
		return "Placement"
	case Update:
		return "Update"
	case Deletion:
		return "Deletion"
	default:
		return "Unknown"
	}
}

// Handle is an opaque reference into the host tree. Handles must be
// comparable values (pointers or integer IDs) because containers are
// compared to decide whether a previous generation can be reused.
type Handle any

// Node is one tree position in one generation.
type Node struct {
	Kind  Kind
	Props Props

	Parent  *Node // Owning node; nil for a root
	Child   *Node // First child
	Sibling *Node // Next sibling

	// Handle is nil until the host node is materialized and always nil
	// for component nodes.
	Handle Handle

	// Alternate is the node at the same position in the previous
	// generation. Only pending nodes follow it.
	Alternate *Node

	Effect EffectTag
}

// NewRoot builds the pending root for rendering desc into container.
// alternate is the root of the previous generation, or nil.
// A nil desc renders an empty tree.
func NewRoot(desc *Element, container Handle, alternate *Node) *Node {
	var children []*Element
	if desc != nil {
		children = []*Element{desc}
	}
	return &Node{
		Kind:      HostType(RootTag),
		Props:     Props{ChildrenKey: children},
		Handle:    container,
		Alternate: alternate,
	}
}

// NextUnit returns the node to process after n: its first child, or else
// the sibling of the nearest node on the path back to the root that has
// one. It returns nil when the whole tree has been visited.
func NextUnit(n *Node) *Node {
	if n.Child != nil {
		return n.Child
	}
	for next := n; next != nil; next = next.Parent {
		if next.Sibling != nil {
			return next.Sibling
		}
	}
	return nil
}

// Children returns n's children in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.Child; c != nil; c = c.Sibling {
		out = append(out, c)
	}
	return out
}

// HostParent returns the handle of the nearest ancestor that owns one.
func (n *Node) HostParent() Handle {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Handle != nil {
			return p.Handle
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first in processing order.
// Returning false from fn stops the walk.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	for cur := n; ; {
		if !fn(cur) {
			return
		}
		if cur.Child != nil {
			cur = cur.Child
			continue
		}
		for cur != n && cur.Sibling == nil {
			cur = cur.Parent
		}
		if cur == n {
			return
		}
		cur = cur.Sibling
	}
}
