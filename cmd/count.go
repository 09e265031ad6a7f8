package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ruloc/internal/accumulate"
	"ruloc/internal/config"
	"ruloc/internal/report"
	"ruloc/internal/scanner"
)

// newCountCmd builds the `ruloc count` command: the CLI surface for
// C6-C7, mutually exclusive file/dir input, text (default) or JSON
// output, per spec §6.
func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count [path]",
		Short: "Analyze a Rust file or directory and report line metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCount,
	}

	cmd.Flags().String("file", "", "path to a single .rs file to analyze")
	cmd.Flags().String("dir", "", "directory to recurse for .rs files")
	cmd.Flags().Bool("json", false, "emit JSON instead of the text report")
	cmd.Flags().String("out", "", "write the JSON report to this path instead of stdout")
	cmd.Flags().String("max-file-size", "", "skip files larger than this (e.g. 3.5KB, 10MB, 1.1GB)")
	cmd.Flags().Int("workers", 0, "worker pool size (default: GOMAXPROCS)")
	cmd.Flags().Bool("verbose", false, "enable verbose logging")
	cmd.Flags().Bool("no-color", false, "disable ANSI color in output")
	cmd.Flags().Bool("spill", false, "force the spill-to-disk accumulator regardless of tree size")

	return cmd
}

// resolvePositional maps a single positional path argument onto
// whichever of --file/--dir applies, so `ruloc count ./src` works
// without forcing the caller to pick the right flag.
func resolvePositional(cmd *cobra.Command, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		_ = cmd.Flags().Set("file", path)
		return
	}
	_ = cmd.Flags().Set("dir", path)
}

func runCount(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		resolvePositional(cmd, args[0])
	}

	opts, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	configureLogging(opts.Verbose)
	color.NoColor = opts.NoColor

	target := opts.FilePath
	if target == "" {
		target = opts.DirPath
	}

	scanOpts := scanner.Options{MaxFileSize: opts.MaxFileSize}
	if opts.Spill {
		scanOpts.NewAccumulator = func() (accumulate.Accumulator, error) {
			return accumulate.NewSpillAccumulator("")
		}
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		scanOpts.Progress = func(done int) {
			fmt.Fprintf(os.Stderr, "\ranalyzed %d files", done)
		}
	}

	svc := scanner.NewService(opts.Workers)
	result, err := svc.ScanPath(cmd.Context(), target, scanOpts)
	if err != nil {
		if errors.Is(err, scanner.ErrNoRustFiles) {
			fmt.Fprintf(cmd.ErrOrStderr(), "no Rust files found in %s\n", target)
			return nil
		}
		return err
	}
	if scanOpts.Progress != nil {
		fmt.Fprintln(os.Stderr)
	}

	for _, skipped := range result.Skipped {
		slog.Warn("skipped file", "path", skipped.Path, "reason", skipped.Reason, "detail", skipped.Detail)
	}

	if opts.JSON {
		if opts.OutPath != "" {
			if err := report.WriteJSONFile(opts.OutPath, result.Report); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "JSON report written to %s\n", opts.OutPath)
			return nil
		}
		return report.PrintJSON(cmd.OutOrStdout(), result.Report)
	}

	return report.PrintText(cmd.OutOrStdout(), result.Report)
}

func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
