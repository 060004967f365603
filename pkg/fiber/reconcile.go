package fiber

// reconcileChildren builds the pending child chain of parent from the new
// child descriptions, matching them by position against the children of
// parent.Alternate.
//
// A new child whose kind equals the old child at the same index becomes an
// Update that reuses the old host handle. Any other new child becomes a
// Placement with no handle and no alternate; the old child it displaces is
// not deleted. Old children beyond the end of the new list are tagged
// Deletion and queued on w.Deletions.
func (w *Work) reconcileChildren(parent *Node, elements []*Element) error {
	var old *Node
	if parent.Alternate != nil {
		old = parent.Alternate.Child
	}

	parent.Child = nil
	var prev *Node
	for i, el := range elements {
		if el == nil {
			return malformed("A002", parent, "child %d is nil", i)
		}
		if !el.Kind.Valid() {
			return malformed("A001", parent, "child %d has %s kind", i, el.Kind)
		}

		props := el.Props
		if props == nil {
			props = Props{}
		}

		var n *Node
		if old != nil && old.Kind.Equal(el.Kind) {
			n = &Node{
				Kind:      el.Kind,
				Props:     props,
				Parent:    parent,
				Handle:    old.Handle,
				Alternate: old,
				Effect:    Update,
			}
			w.stats.Updates++
		} else {
			n = &Node{
				Kind:   el.Kind,
				Props:  props,
				Parent: parent,
				Effect: Placement,
			}
			w.stats.Placements++
		}

		if old != nil {
			old = old.Sibling
		}

		if prev == nil {
			parent.Child = n
		} else {
			prev.Sibling = n
		}
		prev = n
	}

	for ; old != nil; old = old.Sibling {
		old.Effect = Deletion
		w.Deletions = append(w.Deletions, old)
		w.stats.Deletions++
	}
	return nil
}
