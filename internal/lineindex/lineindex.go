// Package lineindex maps byte offsets in source text to 1-based line
// numbers and back, using a prefix array of newline offsets so lookups
// run in O(log n).
package lineindex

import (
	"errors"
	"sort"
)

// ErrInvalidOffset is returned when a byte offset past end of file is
// queried.
var ErrInvalidOffset = errors.New("lineindex: offset past end of file")

// Index is an immutable line index over a fixed source text.
//
// Lines are delimited by '\n'; a '\r' immediately preceding '\n' is
// consumed as part of the terminator. The final line, if unterminated,
// still counts. An empty source has zero lines.
type Index struct {
	size        int
	lineStarts  []int // byte offset where each line begins
	lineEndsRaw []int // byte offset one past the last content byte (before terminator)
}

// New builds an Index over src.
func New(src []byte) *Index {
	idx := &Index{size: len(src)}
	if len(src) == 0 {
		return idx
	}

	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] != '\n' {
			continue
		}
		end := i
		if end > start && src[end-1] == '\r' {
			end--
		}
		idx.lineStarts = append(idx.lineStarts, start)
		idx.lineEndsRaw = append(idx.lineEndsRaw, end)
		start = i + 1
	}

	if start < len(src) {
		idx.lineStarts = append(idx.lineStarts, start)
		idx.lineEndsRaw = append(idx.lineEndsRaw, len(src))
	}

	return idx
}

// LineCount returns the number of physical lines.
func (idx *Index) LineCount() int {
	return len(idx.lineStarts)
}

// LineOf returns the 1-based line number containing byteOffset.
func (idx *Index) LineOf(byteOffset int) (int, error) {
	if byteOffset < 0 || byteOffset > idx.size {
		return 0, ErrInvalidOffset
	}
	if len(idx.lineStarts) == 0 {
		return 0, ErrInvalidOffset
	}

	// Last line with lineStarts[i] <= byteOffset.
	i := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > byteOffset
	})
	if i == 0 {
		return 0, ErrInvalidOffset
	}
	return i, nil
}

// RangeOf returns the [start, end) byte range of the given 1-based line,
// excluding its terminator.
func (idx *Index) RangeOf(lineNumber int) (start, end int, err error) {
	if lineNumber < 1 || lineNumber > len(idx.lineStarts) {
		return 0, 0, ErrInvalidOffset
	}
	return idx.lineStarts[lineNumber-1], idx.lineEndsRaw[lineNumber-1], nil
}
