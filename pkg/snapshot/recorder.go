package snapshot

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/vango-dev/arbor/pkg/render"
	"github.com/vango-dev/arbor/pkg/scheduler"
)

// Config configures a Recorder.
type Config struct {
	// QueueSize is the number of snapshots waiting for upload before new
	// ones are dropped.
	QueueSize int

	// Timeout bounds each Sink.Put call.
	Timeout time.Duration

	// Pretty indents the stored markup.
	Pretty bool

	Logger *slog.Logger
	Now    func() time.Time
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		QueueSize: 16,
		Timeout:   30 * time.Second,
		Logger:    slog.Default(),
		Now:       time.Now,
	}
}

// Option configures a Recorder.
type Option func(*Config)

// WithQueueSize sets the upload queue length.
func WithQueueSize(n int) Option {
	return func(c *Config) {
		c.QueueSize = n
	}
}

// WithTimeout sets the per-upload timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithPretty enables indented markup.
func WithPretty(pretty bool) Option {
	return func(c *Config) {
		c.Pretty = pretty
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithClock sets the time source used for object keys.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// Recorder turns committed render passes into stored snapshots.
type Recorder struct {
	sink     Sink
	config   Config
	renderer *render.Renderer
	logger   *slog.Logger
	queue    chan Object

	stored  atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewRecorder creates a recorder writing to sink.
func NewRecorder(sink Sink, opts ...Option) *Recorder {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Recorder{
		sink:     sink,
		config:   cfg,
		renderer: render.NewRenderer(render.RendererConfig{Pretty: cfg.Pretty}),
		logger:   cfg.Logger.With("component", "snapshot"),
		queue:    make(chan Object, cfg.QueueSize),
	}
}

// Snapshot serializes the committed tree of res. It must run before the
// next pass commits, so call it from the result handler.
func (r *Recorder) Snapshot(res scheduler.Result) (Object, error) {
	html, err := r.renderer.RenderToString(res.Root)
	if err != nil {
		return Object{}, err
	}
	taken := r.config.Now().UTC()
	return Object{
		Key:  taken.Format("20060102T150405Z") + "-" + res.PassID.String() + ".html",
		Body: []byte(html),
		Metadata: map[string]string{
			"pass-id":    res.PassID.String(),
			"units":      strconv.Itoa(res.Units),
			"slices":     strconv.Itoa(res.Slices),
			"placements": strconv.Itoa(res.Stats.Placements),
			"updates":    strconv.Itoa(res.Stats.Updates),
			"deletions":  strconv.Itoa(res.Stats.Deletions),
			"duration":   res.Duration.String(),
		},
	}, nil
}

// Capture queues a snapshot of res for upload. Failed passes are ignored,
// and snapshots are dropped while the queue is full.
// Its signature matches scheduler.WithResultHandler.
func (r *Recorder) Capture(res scheduler.Result) {
	if res.Err != nil || res.Root == nil {
		return
	}
	obj, err := r.Snapshot(res)
	if err != nil {
		r.logger.Error("snapshot render failed", "pass", res.PassID, "error", err)
		return
	}
	select {
	case r.queue <- obj:
	default:
		r.dropped.Add(1)
		r.logger.Warn("snapshot queue full, dropping", "pass", res.PassID)
	}
}

// Run uploads queued snapshots until ctx is done, then stores whatever is
// still queued before returning.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case obj := <-r.queue:
			r.put(ctx, obj)
		case <-ctx.Done():
			for {
				select {
				case obj := <-r.queue:
					r.put(context.WithoutCancel(ctx), obj)
				default:
					return nil
				}
			}
		}
	}
}

func (r *Recorder) put(ctx context.Context, obj Object) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()
	if err := r.sink.Put(ctx, obj); err != nil {
		r.failed.Add(1)
		r.logger.Error("snapshot upload failed", "key", obj.Key, "error", err)
		return
	}
	r.stored.Add(1)
	r.logger.Debug("snapshot stored", "key", obj.Key, "bytes", len(obj.Body))
}

// Stored returns the number of snapshots written to the sink.
func (r *Recorder) Stored() uint64 { return r.stored.Load() }

// Dropped returns the number of snapshots discarded because the queue was
// full.
func (r *Recorder) Dropped() uint64 { return r.dropped.Load() }

// Failed returns the number of uploads the sink rejected.
func (r *Recorder) Failed() uint64 { return r.failed.Load() }
