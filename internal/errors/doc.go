// Package errors provides structured, coded errors for arbor.
//
// Every failure the engine reports upward is an *ArborError carrying:
//   - a registered code (e.g. "A001") with a category and short message
//   - an optional detail, suggestion and source location
//   - the underlying sentinel error, so errors.Is keeps working
//
// # Error Categories
//
//   - description: malformed render-tree descriptions
//   - component: component functions that panicked
//   - host: host adapter primitives that failed
//   - scheduler: render pass lifecycle (superseded passes)
//   - config: configuration and description file problems
//   - protocol: wire protocol problems on remote hosts
//
// # Usage
//
//	err := errors.New("A001").
//	    WithDetail("child 2 of <ul> has no kind").
//	    Wrap(fiber.ErrMalformedDescription)
//
//	fmt.Fprint(os.Stderr, err.Format())
package errors
