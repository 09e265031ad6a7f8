// Package analyzer composes the line index, line classifier, and
// test-region detector into a single per-file pass, following the
// size-check -> read -> tokenize -> classify -> partition shape of
// ruloc's original analyze_file.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"ruloc/internal/lineindex"
	"ruloc/internal/model"
	"ruloc/internal/rustlex"
	"ruloc/internal/testregion"
)

// ErrTooLarge is returned (wrapped with the path) when a file exceeds
// the configured maximum size.
var ErrTooLarge = errors.New("analyzer: file exceeds maximum size")

// ErrDecode is returned (wrapped with the path) when a file is not
// valid UTF-8.
var ErrDecode = errors.New("analyzer: file is not valid UTF-8")

// Options controls a single file analysis.
type Options struct {
	// MaxFileSize is the size limit in bytes; a larger file is not read
	// at all. Zero means unbounded.
	MaxFileSize int64
}

// Analyze reads path, classifies every line, partitions it into
// production/test context, and returns the resulting FileStats.
//
// A file over MaxFileSize is reported via ErrTooLarge rather than
// analyzed; callers that want to skip-and-continue should treat this
// (and ErrDecode) as recoverable, per the file analyzer's contract.
func Analyze(ctx context.Context, path string, opts Options) (model.FileStats, error) {
	stats := model.FileStats{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return stats, fmt.Errorf("analyzer: stat %s: %w", path, err)
	}
	if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
		return stats, fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, info.Size())
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("analyzer: read %s: %w", path, err)
	}
	if !utf8.Valid(src) {
		return stats, fmt.Errorf("%w: %s", ErrDecode, path)
	}

	return analyzeBytes(ctx, path, src)
}

func analyzeBytes(ctx context.Context, path string, src []byte) (model.FileStats, error) {
	stats := model.FileStats{Path: path}

	idx := lineindex.New(src)
	lineCount := idx.LineCount()
	if lineCount == 0 {
		return stats, nil
	}

	categories := rustlex.Classify(src, lineCount)

	regions, err := testregion.Detect(ctx, src, idx)
	if err != nil {
		// Parse errors never fail the analyzer: fall back to treating
		// every line as Production (spec §4.2/§4.3 tolerate malformed
		// input; this is the Go-side equivalent of "parse tolerant").
		regions = nil
	}
	contexts := testregion.Partition(regions, lineCount)

	for i := 0; i < lineCount; i++ {
		stats.Total.AddCategory(categories[i])
		if contexts[i] == model.Test {
			stats.Test.AddCategory(categories[i])
		} else {
			stats.Production.AddCategory(categories[i])
		}
	}

	return stats, nil
}
