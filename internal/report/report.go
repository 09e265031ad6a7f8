// Package report serializes a Report as text or JSON, following the
// table/JSON/file-export shape of the teacher's report.go, and
// implements C8 (Debug Emitter). The Report itself is assembled from
// the accumulator by the scanner package (C7).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ruloc/internal/model"
)

// PrintText renders a Report as the human-readable Summary:/Files:
// layout from spec §6: two-space indentation per level, section
// headings Total:/Production:/Test:, and the five metric labels.
func PrintText(w io.Writer, report model.Report) error {
	b := &textBuilder{w: w}

	b.line(0, "Summary:")
	b.line(1, "Files: %d", report.Summary.Files)
	b.stats(1, "Total", report.Summary.Total)
	b.stats(1, "Production", report.Summary.Production)
	b.stats(1, "Test", report.Summary.Test)

	b.line(0, "Files:")
	for _, f := range report.Files {
		b.line(1, "%s:", f.Path)
		b.stats(2, "Total", f.Total)
		b.stats(2, "Production", f.Production)
		b.stats(2, "Test", f.Test)
	}

	return b.err
}

type textBuilder struct {
	w   io.Writer
	err error
}

func (b *textBuilder) line(depth int, format string, args ...any) {
	if b.err != nil {
		return
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	_, b.err = fmt.Fprintf(b.w, indent+format+"\n", args...)
}

func (b *textBuilder) stats(depth int, heading string, s model.LineStats) {
	b.line(depth, "%s:", heading)
	b.line(depth+1, "All lines: %d", s.All)
	b.line(depth+1, "Blank lines: %d", s.Blank)
	b.line(depth+1, "Comment lines: %d", s.Comment)
	b.line(depth+1, "Rustdoc lines: %d", s.Rustdoc)
	b.line(depth+1, "Code lines: %d", s.Code)
}

// PrintJSON writes report to w using the stable kebab-case schema
// defined by the LineStats/FileStats/Summary/Report json tags.
func PrintJSON(w io.Writer, report model.Report) error {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal json: %w", err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("report: write json: %w", err)
	}
	return nil
}

// WriteJSONFile writes report as JSON to path, creating parent
// directories as needed.
func WriteJSONFile(path string, report model.Report) error {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal json: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("report: write output file: %w", err)
	}
	return nil
}
