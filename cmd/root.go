// Package cmd wires ruloc's Cobra command tree; every RunE stays thin,
// parsing flags and delegating straight to the internal packages.
package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute assembles the root command and runs it. version is injected
// by main, so release builds can stamp it via -ldflags.
func Execute(version string) error {
	rootCmd := newRootCmd(version)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ruloc",
		Short: "Line and test-region metrics for Rust source trees",
		Long: "ruloc classifies every physical line of Rust source into blank, comment,\n" +
			"rustdoc, or code, partitions it into production or test context, and\n" +
			"aggregates per-file and repository-wide totals.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newCountCmd())
	rootCmd.AddCommand(newDebugCmd())

	return rootCmd
}
