package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ruloc/internal/config"
	"ruloc/internal/lineindex"
	"ruloc/internal/report"
	"ruloc/internal/rustlex"
	"ruloc/internal/testregion"
)

// newDebugCmd builds `ruloc debug <file>`, the CLI surface for C8: a
// per-line PBL/PCO/.../TDC annotated dump of a single file.
func newDebugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug <file>",
		Short: "Print a per-line classification dump of a single file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDebug,
	}

	cmd.Flags().Bool("no-color", false, "disable ANSI color")
	cmd.Flags().String("max-file-size", "", "skip if the file exceeds this size")

	return cmd
}

func runDebug(cmd *cobra.Command, args []string) error {
	path := args[0]

	noColor, _ := cmd.Flags().GetBool("no-color")
	color.NoColor = noColor

	maxSizeFlag, _ := cmd.Flags().GetString("max-file-size")
	maxSize, err := config.ParseByteSize(maxSizeFlag)
	if err != nil {
		return fmt.Errorf("max-file-size: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if maxSize > 0 && info.Size() > maxSize {
		return fmt.Errorf("%s exceeds max size (%d bytes)", path, info.Size())
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	idx := lineindex.New(src)
	lineCount := idx.LineCount()
	categories := rustlex.Classify(src, lineCount)

	regions, err := testregion.Detect(cmd.Context(), src, idx)
	if err != nil {
		return err
	}
	contexts := testregion.Partition(regions, lineCount)

	return report.WriteDebug(cmd.OutOrStdout(), src, idx, categories, contexts)
}
