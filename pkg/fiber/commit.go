package fiber

import "errors"

// Commit applies the pass to the host tree: deletions first, then a
// depth-first walk of the pending tree that attaches placements and diffs
// updated props. A parent is always handled before its children.
//
// Commit runs to completion or stops at the first host failure; it is not
// retried, and after a failure the host tree may be partially mutated.
// On success it drops the Alternate links of the new tree, so the
// previous generation becomes unreachable.
func (w *Work) Commit() error {
	for _, n := range w.Deletions {
		if err := w.commitDeletion(n, n.HostParent()); err != nil {
			return err
		}
	}
	for c := w.Root.Child; c != nil; c = c.Sibling {
		if err := w.commitWork(c); err != nil {
			return err
		}
	}
	w.Root.Alternate = nil
	return nil
}

// commitWork applies n's effect, then recurses into its children.
func (w *Work) commitWork(n *Node) error {
	switch n.Effect {
	case Placement:
		if n.Handle != nil {
			parent := n.HostParent()
			w.stats.HostOps++
			if err := w.host.AppendChild(parent, n.Handle); err != nil {
				return hostFailure("A011", "append", n, err)
			}
		}
	case Update:
		if n.Handle != nil && n.Alternate != nil {
			applied, err := applyProps(w.host, n.Handle, DiffProps(n.Alternate.Props, n.Props))
			w.stats.HostOps += applied
			if err != nil {
				return hostFailure("A011", "update", n, err)
			}
		}
	case Deletion:
		// Already removed from the host before the walk.
	}
	n.Alternate = nil

	for c := n.Child; c != nil; c = c.Sibling {
		if err := w.commitWork(c); err != nil {
			return err
		}
	}
	return nil
}

// commitDeletion removes n's host subtree from hostParent. A node without a
// handle is a component; its host-bearing descendants are removed instead.
func (w *Work) commitDeletion(n *Node, hostParent Handle) error {
	if n.Handle != nil {
		w.stats.HostOps++
		if err := w.host.RemoveChild(hostParent, n.Handle); err != nil {
			return hostFailure("A011", "remove", n, err)
		}
		return nil
	}
	for c := n.Child; c != nil; c = c.Sibling {
		if err := w.commitDeletion(c, hostParent); err != nil {
			return err
		}
	}
	return nil
}

// Release returns the handles of the pass's placements to the host when it
// implements Releaser. It is meant for a pass that will not commit, or
// whose commit failed, and reports how many handles were handed back.
func (w *Work) Release() (int, error) {
	r, ok := w.host.(Releaser)
	if !ok {
		return 0, nil
	}
	released := 0
	var errs []error
	var walk func(n *Node)
	walk = func(n *Node) {
		for ; n != nil; n = n.Sibling {
			if n.Effect == Placement && n.Handle != nil {
				if err := r.Release(n.Handle); err != nil {
					errs = append(errs, err)
				} else {
					released++
				}
			}
			walk(n.Child)
		}
	}
	walk(w.Root.Child)
	return released, errors.Join(errs...)
}
