package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vango-dev/arbor/internal/config"
	arborerrors "github.com/vango-dev/arbor/internal/errors"
	"github.com/vango-dev/arbor/pkg/fiber"
	"github.com/vango-dev/arbor/pkg/memdom"
	"github.com/vango-dev/arbor/pkg/render"
	"github.com/vango-dev/arbor/pkg/scheduler"
)

type renderOptions struct {
	stats        bool
	pretty       bool
	slice        time.Duration
	minRemaining time.Duration
}

func renderCmd(g *globalOptions) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a description file and print the markup",
		Long: `Render a YAML or JSON description file into an in-memory host tree
and print the resulting markup.

The pass runs on the idle loop exactly as an interactive render does, so
--slice and --min-remaining change how many slices it takes.

Examples:
  arbor render tree.yaml
  arbor render tree.yaml --stats --slice=200us`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if err := applySchedulerFlags(cmd, cfg, &opts); err != nil {
				return err
			}

			desc, err := newDecoder(slog.Default()).DecodeFile(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return runRender(ctx, cmd.OutOrStdout(), desc, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print pass statistics")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the markup")
	cmd.Flags().DurationVar(&opts.slice, "slice", 0, "Idle slice budget (default from config)")
	cmd.Flags().DurationVar(&opts.minRemaining, "min-remaining", 0, "Yield when less than this remains in a slice (default from config)")

	return cmd
}

// applySchedulerFlags fills unset duration flags from the configuration
// and rejects a slice that could never run a unit.
func applySchedulerFlags(cmd *cobra.Command, cfg *config.Config, opts *renderOptions) error {
	if !cmd.Flags().Changed("slice") {
		opts.slice = cfg.Scheduler.SliceBudgetDuration()
	}
	if !cmd.Flags().Changed("min-remaining") {
		opts.minRemaining = cfg.Scheduler.MinRemainingDuration()
	}
	if err := scheduler.ValidateBudget(opts.slice, opts.minRemaining); err != nil {
		return arborerrors.New("A030").
			WithDetailf("--slice %s must be larger than --min-remaining %s", opts.slice, opts.minRemaining).
			WithSuggestion("Raise --slice or lower --min-remaining").
			Wrap(err)
	}
	return nil
}

// renderOutcome is what the result handler hands back to the caller.
type renderOutcome struct {
	res  scheduler.Result
	html string
}

// runRender renders desc once on a fresh loop and writes the markup to w.
func runRender(ctx context.Context, w io.Writer, desc *fiber.Element, opts renderOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	doc := memdom.New()
	container := doc.CreateElement("body")
	loop := scheduler.NewLoop(scheduler.WithSliceBudget(opts.slice))
	renderer := render.NewRenderer(render.RendererConfig{Pretty: opts.pretty})

	done := make(chan renderOutcome, 1)
	sched := scheduler.New(doc, loop,
		scheduler.WithMinRemaining(opts.minRemaining),
		scheduler.WithResultHandler(func(res scheduler.Result) {
			out := renderOutcome{res: res}
			if res.Err == nil {
				if opts.pretty {
					out.html, out.res.Err = renderer.RenderToString(res.Root)
				} else {
					out.html = container.InnerHTML()
				}
			}
			done <- out
		}),
	)

	go loop.Run(ctx)
	loop.Dispatch(func() { sched.Render(desc, container) })

	var out renderOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if out.res.Err != nil {
		return out.res.Err
	}

	fmt.Fprintln(w, out.html)
	if opts.stats {
		printStats(w, out.res, len(out.html))
	}
	return nil
}

// printStats writes a table of pass statistics.
func printStats(w io.Writer, res scheduler.Result, markupBytes int) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"stat", "value"})
	tbl.AppendRows([]table.Row{
		{"pass", res.PassID.String()},
		{"units", humanize.Comma(int64(res.Units))},
		{"slices", humanize.Comma(int64(res.Slices))},
		{"placements", humanize.Comma(int64(res.Stats.Placements))},
		{"updates", humanize.Comma(int64(res.Stats.Updates))},
		{"deletions", humanize.Comma(int64(res.Stats.Deletions))},
		{"host ops", humanize.Comma(int64(res.Stats.HostOps))},
		{"markup", humanize.Bytes(uint64(markupBytes))},
		{"duration", res.Duration.Round(time.Microsecond).String()},
	})
	tbl.Render()
}
