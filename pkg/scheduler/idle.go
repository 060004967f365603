package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Deadline reports how much of the current idle slice is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// IdleHost runs callbacks when the environment is otherwise idle.
// Each callback receives a fresh Deadline.
type IdleHost interface {
	RequestIdle(cb func(Deadline))
}

// timeDeadline is a Deadline ending at a fixed instant.
type timeDeadline struct {
	end time.Time
	now func() time.Time
}

func (d timeDeadline) TimeRemaining() time.Duration {
	if left := d.end.Sub(d.now()); left > 0 {
		return left
	}
	return 0
}

// LoopConfig configures a Loop.
type LoopConfig struct {
	// SliceBudget is the time granted to each idle callback.
	// Default: 5ms.
	SliceBudget time.Duration

	// QueueSize is the capacity of the dispatch queue.
	// Default: 256.
	QueueSize int

	// Logger receives panics recovered from callbacks.
	// Default: slog.Default().
	Logger *slog.Logger

	// Now returns the current time. Default: time.Now.
	Now func() time.Time
}

// DefaultLoopConfig returns a LoopConfig with sensible defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		SliceBudget: 5 * time.Millisecond,
		QueueSize:   256,
		Logger:      slog.Default(),
		Now:         time.Now,
	}
}

// LoopOption configures a Loop.
type LoopOption func(*LoopConfig)

// WithSliceBudget sets the time granted to each idle callback.
func WithSliceBudget(d time.Duration) LoopOption {
	return func(c *LoopConfig) {
		c.SliceBudget = d
	}
}

// WithQueueSize sets the dispatch queue capacity.
func WithQueueSize(n int) LoopOption {
	return func(c *LoopConfig) {
		c.QueueSize = n
	}
}

// WithLoopLogger sets the loop logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(c *LoopConfig) {
		c.Logger = logger
	}
}

// WithClock sets the time source used for deadlines.
func WithClock(now func() time.Time) LoopOption {
	return func(c *LoopConfig) {
		c.Now = now
	}
}

// Loop is a single-goroutine event loop implementing IdleHost.
//
// Dispatched functions always run before idle callbacks, so render requests
// and event handlers are never starved by a long pass. Idle callbacks run
// one at a time in request order, each with a deadline of SliceBudget.
type Loop struct {
	config     LoopConfig
	logger     *slog.Logger
	dispatchCh chan func()
	wake       chan struct{}
	done       chan struct{}

	mu   sync.Mutex
	idle []func(Deadline)
}

// NewLoop creates a loop. It does nothing until Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	config := DefaultLoopConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.SliceBudget <= 0 {
		config.SliceBudget = DefaultLoopConfig().SliceBudget
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultLoopConfig().QueueSize
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Loop{
		config:     config,
		logger:     config.Logger.With("component", "loop"),
		dispatchCh: make(chan func(), config.QueueSize),
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// SliceBudget returns the time granted to each idle callback.
func (l *Loop) SliceBudget() time.Duration {
	return l.config.SliceBudget
}

// Dispatch queues fn to run on the loop goroutine. It blocks while the
// queue is full and discards fn once the loop has stopped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.dispatchCh <- fn:
	case <-l.done:
		// Loop is stopping, discard
	}
}

// RequestIdle schedules cb to run once the dispatch queue is empty.
// It is safe to call from any goroutine, including from inside a callback.
func (l *Loop) RequestIdle(cb func(Deadline)) {
	l.mu.Lock()
	l.idle = append(l.idle, cb)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run executes dispatched functions and idle callbacks until ctx is done.
// It must be called exactly once.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.dispatchCh:
			l.execute(fn)
			continue
		default:
		}

		if cb := l.popIdle(); cb != nil {
			d := timeDeadline{end: l.config.Now().Add(l.config.SliceBudget), now: l.config.Now}
			l.execute(func() { cb(d) })
			continue
		}

		select {
		case <-ctx.Done():
			return
		case fn := <-l.dispatchCh:
			l.execute(fn)
		case <-l.wake:
		}
	}
}

func (l *Loop) popIdle() func(Deadline) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.idle) == 0 {
		return nil
	}
	cb := l.idle[0]
	l.idle[0] = nil
	l.idle = l.idle[1:]
	return cb
}

// execute runs fn, recovering and logging any panic.
func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
