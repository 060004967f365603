package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/vango-dev/arbor/pkg/protocol"
	"github.com/vango-dev/arbor/pkg/remote"
)

func mirrorCmd(g *globalOptions) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "mirror URL",
		Short: "Connect to arbor serve as a replica",
		Long: `Connect to the websocket endpoint of arbor serve, apply every mutation
batch to a local host tree and print the mirrored markup after each one.

Examples:
  arbor mirror ws://localhost:8080/ws
  arbor mirror localhost:8080 --once`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := g.load(); err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return runMirror(ctx, cmd.OutOrStdout(), args[0], once)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Exit after the first batch")

	return cmd
}

// websocketURL accepts a full ws:// or http:// URL or a bare host:port and
// returns the websocket endpoint.
func websocketURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

func runMirror(ctx context.Context, w io.Writer, raw string, once bool) error {
	target, err := websocketURL(raw)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", target, err)
	}

	replica := remote.NewReplica(conn, remote.WithLogger(slog.Default()))
	defer replica.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	info(w, "mirroring %s", target)
	return replica.Run(ctx, func(b *protocol.Batch) {
		success(w, "batch %d: %d ops", b.Seq, len(b.Ops))
		fmt.Fprintln(w, replica.HTML())
		if once {
			cancel()
		}
	})
}
