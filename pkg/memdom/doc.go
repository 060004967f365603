// Package memdom is an in-memory host tree implementing fiber.HostAdapter.
//
// It behaves like a minimal DOM: nodes have a tag, string attributes, an
// ordered child list and per-event listener lists. RemoveChild fails when
// the child is not attached to the given parent, and events dispatched to
// a node bubble up through its ancestors.
//
//	doc := memdom.New()
//	root := doc.CreateElement("body")
//	s := scheduler.New(doc, loop)
//	s.Render(app, root)
//	...
//	fmt.Println(root.InnerHTML())
//
// A Document is not safe for concurrent use.
package memdom
