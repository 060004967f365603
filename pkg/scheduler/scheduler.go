package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	arborerrors "github.com/vango-dev/arbor/internal/errors"
	"github.com/vango-dev/arbor/pkg/fiber"
)

// Result is the outcome of one render pass.
type Result struct {
	PassID   uuid.UUID
	Err      error       // Nil if the pass committed
	Root     *fiber.Node // Committed root, nil unless Err is nil
	Units    int         // Units processed before the pass ended
	Slices   int         // Idle slices consumed
	Stats    fiber.Stats
	Duration time.Duration // From Render to the end of the pass
}

// pass is the bookkeeping of the pending render pass.
type pass struct {
	id      uuid.UUID
	work    *fiber.Work
	next    *fiber.Node
	started time.Time
	slices  int
	span    trace.Span
}

// request is a Render call deferred until the running commit finishes.
type request struct {
	desc      *fiber.Element
	container fiber.Handle
}

// Scheduler renders descriptions into one host tree incrementally.
//
// A Scheduler is not safe for concurrent use. Render, and the idle
// callbacks it requests, must all run on one goroutine.
type Scheduler struct {
	host   fiber.HostAdapter
	idle   IdleHost
	config Config
	logger *slog.Logger

	state     State
	current   *fiber.Node
	pending   *pass
	requested bool     // An idle callback is outstanding
	deferred  *request // Render received while Committing
}

// New creates a scheduler that mutates host and runs on idle.
func New(host fiber.HostAdapter, idle IdleHost, opts ...Option) *Scheduler {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.normalize()
	logger := config.Logger.With("component", "scheduler")

	if b, ok := idle.(interface{ SliceBudget() time.Duration }); ok {
		if err := ValidateBudget(b.SliceBudget(), config.MinRemaining); err != nil {
			config.MinRemaining = b.SliceBudget() / 2
			logger.Warn("yield threshold lowered to half the slice budget",
				"slice_budget", b.SliceBudget(),
				"min_remaining", config.MinRemaining,
				"error", err)
		}
	}

	return &Scheduler{
		host:   host,
		idle:   idle,
		config: config,
		logger: logger,
	}
}

// Render starts a pass rendering desc into container and returns
// immediately. A nil desc renders an empty tree.
//
// The previous generation is reconciled against only when it was rendered
// into the same container. If a pass is still expanding it is abandoned in
// favor of this one.
func (s *Scheduler) Render(desc *fiber.Element, container fiber.Handle) {
	switch s.state {
	case Committing:
		s.deferred = &request{desc: desc, container: container}
		return
	case Expanding:
		s.abandon()
	}

	var alternate *fiber.Node
	if s.current != nil && s.current.Handle == container {
		alternate = s.current
	}

	root := fiber.NewRoot(desc, container, alternate)
	p := &pass{
		id:      uuid.New(),
		work:    fiber.NewWork(s.host, root),
		next:    root,
		started: time.Now(),
	}
	_, p.span = s.config.Tracer.Start(context.Background(), "arbor.render",
		trace.WithAttributes(
			attribute.String("arbor.pass_id", p.id.String()),
			attribute.Bool("arbor.reconcile", alternate != nil),
		),
	)

	s.pending = p
	s.state = Expanding
	s.config.Metrics.passStarted()
	s.logger.Debug("render pass started", "pass", p.id, "reconcile", alternate != nil)

	s.requestSlice()
}

// State returns the current phase.
func (s *Scheduler) State() State {
	return s.state
}

// Current returns the root of the last committed generation, or nil.
func (s *Scheduler) Current() *fiber.Node {
	return s.current
}

// Pending returns the work of the pass being expanded, or nil.
func (s *Scheduler) Pending() *fiber.Work {
	if s.pending == nil {
		return nil
	}
	return s.pending.work
}

// Reset drops the committed generation so the next Render starts from
// scratch. Any pending pass is abandoned. The host tree is not touched.
func (s *Scheduler) Reset() {
	if s.state == Expanding {
		s.abandon()
	}
	s.current = nil
	s.deferred = nil
}

func (s *Scheduler) requestSlice() {
	if s.requested {
		return
	}
	s.requested = true
	s.idle.RequestIdle(s.workLoop)
}

// workLoop processes units while the pass has one left and the deadline
// reports more than MinRemaining. A slice that starts spent processes
// nothing and requests another.
func (s *Scheduler) workLoop(d Deadline) {
	s.requested = false
	p := s.pending
	if p == nil {
		return
	}
	p.slices++

	units := 0
	for p.next != nil && d.TimeRemaining() > s.config.MinRemaining {
		next, err := p.work.PerformUnit(p.next)
		if err != nil {
			s.config.Metrics.slice(units)
			s.fail(p, err)
			return
		}
		p.next = next
		units++
	}
	s.config.Metrics.slice(units)

	if p.next != nil {
		s.logger.Debug("render pass yielded", "pass", p.id, "units", units, "slice", p.slices)
		p.span.AddEvent("yield", trace.WithAttributes(attribute.Int("arbor.units", units)))
		s.requestSlice()
		return
	}
	s.commit(p)
}

// commit applies the completed pass in one step.
func (s *Scheduler) commit(p *pass) {
	s.state = Committing
	start := time.Now()

	err := p.work.Commit()
	if err == nil {
		if f, ok := s.host.(fiber.Flusher); ok {
			if ferr := f.Flush(); ferr != nil {
				err = arborerrors.New("A011").
					WithDetail("flush").
					Wrap(fmt.Errorf("%w: %w", fiber.ErrHostAdapter, ferr))
			}
		}
	}
	s.config.Metrics.commitDone(time.Since(start))
	if err != nil {
		s.fail(p, err)
		return
	}

	s.current = p.work.Root
	s.pending = nil
	s.state = Idle

	res := s.result(p, nil)
	res.Root = s.current
	s.config.Metrics.passDone(OutcomeCommitted, res.Stats, res.Duration)

	p.span.SetAttributes(
		attribute.Int("arbor.units", res.Stats.Units),
		attribute.Int("arbor.slices", res.Slices),
		attribute.Int("arbor.host_ops", res.Stats.HostOps),
	)
	p.span.SetStatus(codes.Ok, "")
	p.span.End()

	s.logger.Info("render pass committed",
		"pass", p.id,
		"units", res.Stats.Units,
		"slices", res.Slices,
		"placements", res.Stats.Placements,
		"updates", res.Stats.Updates,
		"deletions", res.Stats.Deletions,
		"host_ops", res.Stats.HostOps,
		"duration", res.Duration)

	s.report(res)
	s.runDeferred()
}

// fail ends p with err. The committed generation is left as it was.
func (s *Scheduler) fail(p *pass, err error) {
	s.pending = nil
	s.state = Idle
	s.release(p)

	res := s.result(p, err)
	s.config.Metrics.passDone(OutcomeFailed, res.Stats, res.Duration)

	p.span.RecordError(err)
	p.span.SetStatus(codes.Error, err.Error())
	p.span.End()

	s.logger.Error("render pass failed",
		"pass", p.id,
		"code", arborerrors.CodeOf(err),
		"error", err)

	s.report(res)
	s.runDeferred()
}

// abandon drops the pending pass. Nothing it expanded reaches the host
// tree, and the nodes it materialized are released.
func (s *Scheduler) abandon() {
	p := s.pending
	s.pending = nil
	s.state = Idle
	if p == nil {
		return
	}

	s.release(p)

	err := arborerrors.New("A020").
		WithDetailf("pass %s after %d units", p.id, p.work.Stats().Units).
		Wrap(ErrPassSuperseded)
	res := s.result(p, err)
	s.config.Metrics.passDone(OutcomeAbandoned, res.Stats, res.Duration)

	p.span.SetStatus(codes.Error, "superseded")
	p.span.End()

	s.logger.Warn("render pass abandoned", "pass", p.id, "units", res.Units)
	s.report(res)
}

// release hands the detached nodes of a pass that did not commit back to
// the host.
func (s *Scheduler) release(p *pass) {
	n, err := p.work.Release()
	if err != nil {
		s.logger.Warn("releasing host nodes failed", "pass", p.id, "error", err)
	}
	if n > 0 {
		s.logger.Debug("released host nodes", "pass", p.id, "nodes", n)
	}
}

func (s *Scheduler) runDeferred() {
	if r := s.deferred; r != nil {
		s.deferred = nil
		s.Render(r.desc, r.container)
	}
}

func (s *Scheduler) result(p *pass, err error) Result {
	stats := p.work.Stats()
	return Result{
		PassID:   p.id,
		Err:      err,
		Units:    stats.Units,
		Slices:   p.slices,
		Stats:    stats,
		Duration: time.Since(p.started),
	}
}

func (s *Scheduler) report(res Result) {
	if s.config.OnResult != nil {
		s.config.OnResult(res)
	}
}

// IsSuperseded reports whether err marks an abandoned pass.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrPassSuperseded)
}
