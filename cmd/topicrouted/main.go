// Command topicrouted is a reference host demonstrating router.Tree
// embedded in a real network server, the way spec.md envisions the core
// being used. It is a demo, not a production broker: see
// internal/host's package doc for the toy wire protocol it speaks.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gonzalop/topicrouter/internal/host"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr              string
		logLevel          string
		drainInterval     time.Duration
		triggeredCapacity int
	)

	cmd := &cobra.Command{
		Use:   "topicrouted",
		Short: "Reference host for the topic-routing engine",
		Long: "topicrouted accepts newline-framed SUB/UNSUB/PUB connections and\n" +
			"fans out published messages through the router package's topic trie,\n" +
			"draining on a fixed interval instead of after every publish.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: parseLevel(logLevel),
			}))

			h, err := host.New(host.Options{
				Logger:            logger,
				DrainInterval:     drainInterval,
				TriggeredCapacity: triggeredCapacity,
			})
			if err != nil {
				return fmt.Errorf("construct host: %w", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return h.Serve(ctx, addr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", "127.0.0.1:9191", "TCP listen address")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.DurationVar(&drainInterval, "drain-interval", 50*time.Millisecond, "how often the tree is drained")
	flags.IntVar(&triggeredCapacity, "triggered-capacity", 64, "max distinct triggered topics per drain cycle")

	return cmd
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
