package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/arbor/internal/config"
	arborerrors "github.com/vango-dev/arbor/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		arborerrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "Incremental render tree reconciliation",
		Long: `Arbor renders trees of elements into a host tree incrementally.

Rendering is split into small units of work processed in idle slices,
and the host tree is mutated in one synchronous commit at the end of
each pass. Commands:

  • render   render a description file once and print the markup
  • watch    re-render a description file whenever it changes
  • serve    serve the task demo to websocket replicas
  • mirror   connect to a server as a replica`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file or directory (default: arbor.yaml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(
		renderCmd(g),
		watchCmd(g),
		serveCmd(g),
		mirrorCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration and installs the configured logger as the
// slog default.
func (g *globalOptions) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch fi, statErr := os.Stat(g.configPath); {
	case g.configPath == "":
		cfg, err = config.Load(".")
	case statErr == nil && fi.IsDir():
		cfg, err = config.Load(g.configPath)
	default:
		cfg, err = config.LoadFile(g.configPath)
	}
	if err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	logger, err := cfg.Log.Logger(os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return cfg, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
