// Package accumulate implements C5: two interchangeable ways of
// combining per-file statistics into a running Summary while retaining
// per-file detail for the final report, mirroring ruloc's
// StatsAccumulator/InMemoryAccumulator/FileBackedAccumulator split.
package accumulate

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"ruloc/internal/model"
)

// ErrSpillIO marks a durability failure in the spill-backed accumulator;
// per §4.5 it is fatal to the run rather than a per-file skip.
var ErrSpillIO = errors.New("accumulate: spill I/O error")

// Accumulator is the capability set C5 requires: add a file's stats,
// read the running summary, iterate every file added so far, and flush
// any buffered state.
type Accumulator interface {
	AddFile(file model.FileStats) error
	Summary() model.Summary
	IterFiles() (iter FileIterator, err error)
	Flush() error
	Close() error
}

// FileIterator yields FileStats one at a time. Next returns
// (stats, true, nil) for each record, (zero, false, nil) at the end,
// and (zero, false, err) on a read failure.
type FileIterator interface {
	Next() (model.FileStats, bool, error)
}

// MemoryAccumulator keeps every FileStats in memory, in insertion order.
type MemoryAccumulator struct {
	files   []model.FileStats
	summary model.Summary
}

// NewMemoryAccumulator returns an empty in-memory accumulator.
func NewMemoryAccumulator() *MemoryAccumulator {
	return &MemoryAccumulator{}
}

func (m *MemoryAccumulator) AddFile(file model.FileStats) error {
	m.files = append(m.files, file)
	m.summary.AddFile(file)
	return nil
}

func (m *MemoryAccumulator) Summary() model.Summary { return m.summary }

func (m *MemoryAccumulator) IterFiles() (FileIterator, error) {
	return &sliceIterator{files: m.files}, nil
}

func (m *MemoryAccumulator) Flush() error { return nil }
func (m *MemoryAccumulator) Close() error { return nil }

type sliceIterator struct {
	files []model.FileStats
	pos   int
}

func (it *sliceIterator) Next() (model.FileStats, bool, error) {
	if it.pos >= len(it.files) {
		return model.FileStats{}, false, nil
	}
	f := it.files[it.pos]
	it.pos++
	return f, true, nil
}

// SpillAccumulator appends one JSON object per line to a temporary
// file, bounding memory across arbitrarily large trees. The temp file
// is created by NewSpillAccumulator and removed by Close.
type SpillAccumulator struct {
	file    *os.File
	writer  *bufio.Writer
	summary model.Summary
	failed  bool
}

// NewSpillAccumulator creates a temp file in dir (os.TempDir() if dir
// is empty) to back the accumulator.
func NewSpillAccumulator(dir string) (*SpillAccumulator, error) {
	f, err := os.CreateTemp(dir, "ruloc-spill-*.jsonl")
	if err != nil {
		return nil, fmt.Errorf("accumulate: create spill file: %w", err)
	}
	return &SpillAccumulator{
		file:   f,
		writer: bufio.NewWriterSize(f, 8*1024*1024),
	}, nil
}

func (s *SpillAccumulator) AddFile(file model.FileStats) error {
	if s.failed {
		return ErrSpillIO
	}
	enc, err := json.Marshal(file)
	if err != nil {
		s.failed = true
		return fmt.Errorf("%w: encode %s: %v", ErrSpillIO, file.Path, err)
	}
	if _, err := s.writer.Write(enc); err != nil {
		s.failed = true
		return fmt.Errorf("%w: %v", ErrSpillIO, err)
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		s.failed = true
		return fmt.Errorf("%w: %v", ErrSpillIO, err)
	}
	s.summary.AddFile(file)
	return nil
}

func (s *SpillAccumulator) Summary() model.Summary { return s.summary }

// Flush ensures every buffered record has reached the temp file.
func (s *SpillAccumulator) Flush() error {
	if err := s.writer.Flush(); err != nil {
		s.failed = true
		return fmt.Errorf("%w: %v", ErrSpillIO, err)
	}
	return nil
}

// IterFiles flushes pending writes, then reopens the spill file for a
// fresh read pass, yielding records in append order.
func (s *SpillAccumulator) IterFiles() (FileIterator, error) {
	if s.failed {
		return nil, ErrSpillIO
	}
	if err := s.Flush(); err != nil {
		return nil, err
	}
	r, err := os.Open(s.file.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: reopen spill file: %v", ErrSpillIO, err)
	}
	return &spillIterator{file: r, scanner: bufio.NewScanner(r)}, nil
}

// Close removes the backing temp file. Safe to call after IterFiles.
func (s *SpillAccumulator) Close() error {
	name := s.file.Name()
	closeErr := s.file.Close()
	removeErr := os.Remove(name)
	if closeErr != nil {
		return closeErr
	}
	return removeErr
}

type spillIterator struct {
	file    *os.File
	scanner *bufio.Scanner
}

func (it *spillIterator) Next() (model.FileStats, bool, error) {
	if !it.scanner.Scan() {
		if err := it.scanner.Err(); err != nil {
			return model.FileStats{}, false, fmt.Errorf("%w: %v", ErrSpillIO, err)
		}
		it.file.Close()
		return model.FileStats{}, false, nil
	}
	var f model.FileStats
	if err := json.Unmarshal(it.scanner.Bytes(), &f); err != nil {
		return model.FileStats{}, false, fmt.Errorf("%w: decode record: %v", ErrSpillIO, err)
	}
	return f, true, nil
}
