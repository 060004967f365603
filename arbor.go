// Package arbor renders trees of elements into a host tree incrementally.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/arbor"
//
// Usage:
//
//	doc := memdom.New()
//	body := doc.CreateElement("body")
//
//	engine := arbor.New(doc, arbor.WithResultHandler(func(r arbor.Result) {
//	    fmt.Println(body.InnerHTML())
//	}))
//	go engine.Run(ctx)
//	engine.Render(el.Div(el.H1("Hello")), body)
//
// Rendering happens in units processed from idle slices of the engine's
// loop; the host tree is only touched in the commit at the end of a pass.
package arbor

import (
	"context"

	"github.com/vango-dev/arbor/pkg/fiber"
	"github.com/vango-dev/arbor/pkg/scheduler"
)

// =============================================================================
// Descriptions (re-export from pkg/fiber)
// =============================================================================

// Element describes one node of the desired tree.
type Element = fiber.Element

// Props holds attributes, event handlers and children of an element.
type Props = fiber.Props

// Component is a named render function.
type Component = fiber.Component

// Event is delivered to listeners by the host.
type Event = fiber.Event

// EventHandler wraps a listener function with a comparable identity.
type EventHandler = fiber.EventHandler

// Text returns a text element.
var Text = fiber.Text

// Host returns a host element.
var Host = fiber.Host

// Render returns an element rendered by a component.
var Render = fiber.Render

// NewComponent creates a component from a render function.
var NewComponent = fiber.NewComponent

// Handler wraps a function in a new EventHandler.
var Handler = fiber.Handler

// =============================================================================
// Host side (re-export from pkg/fiber)
// =============================================================================

// Handle is an opaque reference to a host node.
type Handle = fiber.Handle

// HostAdapter is the set of primitives the engine mutates the host with.
type HostAdapter = fiber.HostAdapter

// Flusher is implemented by hosts that buffer mutations until a commit ends.
type Flusher = fiber.Flusher

// Releaser is implemented by hosts that drop nodes of passes that never
// committed.
type Releaser = fiber.Releaser

// Node is a node of the committed render tree.
type Node = fiber.Node

// =============================================================================
// Scheduling (re-export from pkg/scheduler)
// =============================================================================

// Result is the outcome of one render pass.
type Result = scheduler.Result

// Option configures the scheduler of an Engine.
type Option = scheduler.Option

// WithMinRemaining sets the slice time below which a pass yields.
var WithMinRemaining = scheduler.WithMinRemaining

// WithLogger sets the scheduler logger.
var WithLogger = scheduler.WithLogger

// WithMetrics attaches Prometheus metrics.
var WithMetrics = scheduler.WithMetrics

// WithResultHandler receives the result of every pass.
var WithResultHandler = scheduler.WithResultHandler

// IsSuperseded reports whether a pass was replaced by a newer render.
var IsSuperseded = scheduler.IsSuperseded

// =============================================================================
// Errors
// =============================================================================

var (
	ErrMalformedDescription = fiber.ErrMalformedDescription
	ErrComponentFailure     = fiber.ErrComponentFailure
	ErrHostAdapter          = fiber.ErrHostAdapter
	ErrPassSuperseded       = scheduler.ErrPassSuperseded
)

// =============================================================================
// Engine
// =============================================================================

// Engine is a Scheduler driven by its own Loop.
type Engine struct {
	Loop      *scheduler.Loop
	Scheduler *scheduler.Scheduler
}

// New creates an engine rendering into host with a default loop.
func New(host HostAdapter, opts ...Option) *Engine {
	return NewWithLoop(host, scheduler.NewLoop(), opts...)
}

// NewWithLoop creates an engine on an existing loop.
func NewWithLoop(host HostAdapter, loop *scheduler.Loop, opts ...Option) *Engine {
	return &Engine{
		Loop:      loop,
		Scheduler: scheduler.New(host, loop, opts...),
	}
}

// Run runs the loop until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	e.Loop.Run(ctx)
}

// Render requests a render of desc into container. It is safe to call from
// any goroutine; the pass starts on the loop.
func (e *Engine) Render(desc *Element, container Handle) {
	e.Loop.Dispatch(func() { e.Scheduler.Render(desc, container) })
}

// Dispatch runs fn on the loop, ahead of pending render work. Event
// handlers that mutate state should run this way.
func (e *Engine) Dispatch(fn func()) {
	e.Loop.Dispatch(fn)
}
