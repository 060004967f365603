package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/arbor/internal/config"
	"github.com/vango-dev/arbor/internal/demo"
	"github.com/vango-dev/arbor/pkg/remote"
	"github.com/vango-dev/arbor/pkg/scheduler"
	"github.com/vango-dev/arbor/pkg/snapshot"
)

func serveCmd(g *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task demo to websocket replicas",
		Long: `Start an HTTP server that renders the task demo for every websocket
connection on /ws. Each connection gets its own idle loop and scheduler;
mutation batches are streamed to the replica after every commit and the
replica's events are dispatched back onto the loop.

Endpoints:
  /ws              websocket sessions (see arbor mirror)
  /healthz         liveness probe
  /metrics         Prometheus metrics (serve.metricsPath)
  /snapshots       committed trees, when no S3 bucket is configured

Examples:
  arbor serve
  arbor serve --addr=0.0.0.0:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			s := newServer(cfg, slog.Default())
			success(cmd.OutOrStdout(), "listening on http://%s", cfg.Serve.Addr)
			return s.run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}

// server is the state shared by all sessions of arbor serve.
type server struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *scheduler.Metrics
	sessions prometheus.Gauge
	upgrader websocket.Upgrader

	recorder *snapshot.Recorder
	memory   *snapshot.MemorySink // Nil when snapshots go to S3

	// baseCtx outlives individual requests; sessions end when it is done.
	baseCtx context.Context
}

func newServer(cfg *config.Config, logger *slog.Logger) *server {
	registry := prometheus.NewRegistry()
	s := &server{
		cfg:      cfg,
		logger:   logger.With("component", "serve"),
		registry: registry,
		metrics:  scheduler.NewMetrics(scheduler.WithRegistry(registry)),
		sessions: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Namespace: "arbor",
			Subsystem: "serve",
			Name:      "sessions",
			Help:      "Number of connected websocket sessions",
		}),
		baseCtx: context.Background(),
	}

	var sink snapshot.Sink
	if cfg.Snapshot.Enabled() {
		client := snapshot.NewS3Client(snapshot.ClientOptions{
			Region:   cfg.Snapshot.Region,
			Endpoint: cfg.Snapshot.Endpoint,
		})
		sink = snapshot.NewS3Sink(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix)
	} else {
		s.memory = snapshot.NewMemorySink()
		sink = s.memory
	}
	s.recorder = snapshot.NewRecorder(sink, snapshot.WithLogger(logger))
	return s
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	r.Handle(s.cfg.Serve.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWebSocket)

	if s.memory != nil {
		r.Get("/snapshots", s.handleSnapshotList)
		r.Get("/snapshots/{key}", s.handleSnapshot)
	}
	return r
}

// run serves HTTP and uploads snapshots until ctx is done.
func (s *server) run(ctx context.Context) error {
	s.baseCtx = ctx
	httpServer := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return s.recorder.Run(ctx)
	})
	grp.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return grp.Wait()
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	s.serveSession(s.baseCtx, conn)
}

// serveSession renders the task demo into conn until either side closes.
func (s *server) serveSession(ctx context.Context, conn remote.Conn) {
	id := uuid.New()
	logger := s.logger.With("session", id.String())

	s.sessions.Inc()
	defer s.sessions.Dec()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	adapter := remote.New(conn, remote.WithLogger(logger))
	defer adapter.Close()
	loop := scheduler.NewLoop(
		scheduler.WithSliceBudget(s.cfg.Scheduler.SliceBudgetDuration()),
		scheduler.WithLoopLogger(logger),
	)
	sched := scheduler.New(adapter, loop,
		scheduler.WithMinRemaining(s.cfg.Scheduler.MinRemainingDuration()),
		scheduler.WithLogger(logger),
		scheduler.WithMetrics(s.metrics),
		scheduler.WithResultHandler(s.recorder.Capture),
	)
	container := adapter.Container("main")

	var app *demo.TaskApp
	app = demo.NewTaskApp(func() { sched.Render(app.Element(), container) })

	go loop.Run(ctx)
	loop.Dispatch(func() { sched.Render(app.Element(), container) })

	logger.Info("session started")
	if err := adapter.Serve(ctx, loop.Dispatch); err != nil {
		logger.Warn("session ended", "error", err)
		return
	}
	logger.Info("session ended")
}

func (s *server) handleSnapshotList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, key := range s.memory.Keys() {
		fmt.Fprintln(w, key)
	}
}

func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	obj, err := s.memory.Get(chi.URLParam(r, "key"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(obj.Body)
}
