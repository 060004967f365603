package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	arborerrors "github.com/vango-dev/arbor/internal/errors"
	"github.com/vango-dev/arbor/pkg/memdom"
	"github.com/vango-dev/arbor/pkg/scheduler"
)

func watchCmd(g *globalOptions) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-render a description file whenever it changes",
		Long: `Render a description file, then render it again on every change.

Each pass reconciles against the previous one, so only the changed parts
of the host tree are touched. A change that arrives while a pass is still
expanding replaces that pass.

Examples:
  arbor watch tree.yaml
  arbor watch tree.yaml --slice=100us`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if err := applySchedulerFlags(cmd, cfg, &opts); err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return runWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().DurationVar(&opts.slice, "slice", 0, "Idle slice budget (default from config)")
	cmd.Flags().DurationVar(&opts.minRemaining, "min-remaining", 0, "Yield when less than this remains in a slice (default from config)")

	return cmd
}

func runWatch(ctx context.Context, stdout, stderr io.Writer, path string, opts renderOptions) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	logger := slog.Default().With("component", "watch")
	dec := newDecoder(logger)

	doc := memdom.New()
	container := doc.CreateElement("body")
	loop := scheduler.NewLoop(scheduler.WithSliceBudget(opts.slice), scheduler.WithLoopLogger(logger))
	sched := scheduler.New(doc, loop,
		scheduler.WithMinRemaining(opts.minRemaining),
		scheduler.WithLogger(logger),
		scheduler.WithResultHandler(func(res scheduler.Result) {
			switch {
			case scheduler.IsSuperseded(res.Err):
				warn(stderr, "pass %s superseded after %d units", res.PassID, res.Units)
			case res.Err != nil:
				arborerrors.Fprint(stderr, res.Err)
			default:
				success(stdout, "pass %s: %d units in %d slices, %s",
					res.PassID, res.Units, res.Slices, res.Duration.Round(time.Microsecond))
				fmt.Fprintln(stdout, container.InnerHTML())
			}
		}),
	)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Editors often replace files instead of writing them, so watch the
	// directory and filter by name.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	rerender := func() {
		desc, err := dec.DecodeFile(abs)
		if err != nil {
			arborerrors.Fprint(stderr, err)
			return
		}
		loop.Dispatch(func() { sched.Render(desc, container) })
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		loop.Run(ctx)
		return nil
	})
	grp.Go(func() error {
		info(stdout, "watching %s", abs)
		rerender()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					logger.Debug("file changed", "op", ev.Op.String())
					rerender()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return fmt.Errorf("watch %s: %w", abs, err)
			}
		}
	})
	return grp.Wait()
}
