package lineindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyFileHasZeroLines(t *testing.T) {
	idx := New(nil)
	require.Equal(t, 0, idx.LineCount())
}

func TestUnterminatedFinalLineCounts(t *testing.T) {
	idx := New([]byte("a\nb"))
	require.Equal(t, 2, idx.LineCount())
}

func TestCRLFTerminatorExcludedFromRange(t *testing.T) {
	idx := New([]byte("ab\r\ncd\r\n"))
	require.Equal(t, 2, idx.LineCount())

	start, end, err := idx.RangeOf(1)
	require.NoError(t, err)
	require.Equal(t, 0, start)
	require.Equal(t, 2, end) // excludes \r\n

	start, end, err = idx.RangeOf(2)
	require.NoError(t, err)
	require.Equal(t, 4, start)
	require.Equal(t, 6, end)
}

func TestLineOfFindsContainingLine(t *testing.T) {
	idx := New([]byte("one\ntwo\nthree"))
	line, err := idx.LineOf(0)
	require.NoError(t, err)
	require.Equal(t, 1, line)

	line, err = idx.LineOf(4)
	require.NoError(t, err)
	require.Equal(t, 2, line)

	line, err = idx.LineOf(9)
	require.NoError(t, err)
	require.Equal(t, 3, line)
}

func TestLineOfPastEndIsInvalid(t *testing.T) {
	idx := New([]byte("abc"))
	_, err := idx.LineOf(100)
	require.ErrorIs(t, err, ErrInvalidOffset)
}

func TestLineOfOnEmptyFileIsInvalid(t *testing.T) {
	idx := New(nil)
	_, err := idx.LineOf(0)
	require.ErrorIs(t, err, ErrInvalidOffset)
}

func TestRangeOfOutOfBoundsLine(t *testing.T) {
	idx := New([]byte("a\n"))
	_, _, err := idx.RangeOf(5)
	require.ErrorIs(t, err, ErrInvalidOffset)

	_, _, err = idx.RangeOf(0)
	require.ErrorIs(t, err, ErrInvalidOffset)
}
