// Package fiber implements the tree model, unit processor, reconciler and
// committer of the arbor rendering engine.
//
// A render pass expands a pending tree of *Node values one unit at a time.
// Each node links to its first child, its next sibling and its parent, so
// the pending tree can grow node by node across scheduling quanta without
// pre-sizing any collection. Pending nodes that occupy a position which also
// existed in the previous generation point back at it through Alternate.
//
// # Pass Lifecycle
//
//	root := fiber.NewRoot(desc, container, current)
//	work := fiber.NewWork(host, root)
//	for next := root; next != nil; {
//	    next, err = work.PerformUnit(next)
//	}
//	err = work.Commit()
//
// PerformUnit never touches the attached host tree; it only materializes
// detached host nodes. Commit applies deletions first and then walks the
// pending tree depth-first, attaching placements and diffing updated props.
//
// # Reconciliation
//
// Children are matched by position, not by key. A child whose kind matches
// the previous child at the same index is an Update that reuses the host
// handle; anything else is a Placement. Previous children past the end of
// the new list are collected for deletion.
//
// # Events
//
// Props whose key starts with "on" bind listeners. Their values must be
// *EventHandler so handler identity survives across renders; the event name
// is the key without the prefix, lower-cased.
package fiber
