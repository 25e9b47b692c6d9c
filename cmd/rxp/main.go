// Package main is the entry point for the rxp CLI.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "rxp",
		Short:        "rxp: regular expressions built step by step, with undo and replay",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
		},
	}
	root.PersistentFlags().String("config", "", "path to rxp.toml (default: search upward from the working directory)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		initCmd(),
		newCmd(),
		addCmd(),
		undoCmd(),
		editCmd(),
		renameCmd(),
		closeCmd(),
		listCmd(),
		showCmd(),
		logCmd(),
		statusCmd(),
		buildCmd(),
		opsCmd(),
		matchCmd(),
		compactCmd(),
		exportCmd(),
		importCmd(),
		tuiCmd(),
	)

	return root
}

// newLogger returns a text logger writing to w: debug level when verbose,
// warnings only otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
