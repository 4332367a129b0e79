// Package position tracks byte ranges and line/column coordinates inside a
// module source, so that tokens and diagnostics can carry both an absolute
// byte range and a human-readable location.
package position

import "strings"

// Point is a one-based line/column coordinate.
type Point struct {
	Line int
	Col  int
}

// Range is an absolute, half-open byte range [Start, End) into a module's
// source text.
type Range struct {
	Start int
	End   int
}

// Shift returns r translated by delta bytes. Used when a nested tokenizer
// layer's locally-computed range needs to be expressed in the coordinate
// space of its parent.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// Index is a precomputed table of line-start byte offsets for one module's
// source, letting any absolute byte offset be converted to a line/column
// pair without rescanning the source.
type Index struct {
	source string
	starts []int // starts[i] = byte offset of the first byte of line i+1 (1-based lines)
}

// NewIndex builds a line-start index for source.
func NewIndex(source string) *Index {
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{source: source, starts: starts}
}

// PointFor converts an absolute byte offset into a 1-based line/column.
// Column is counted in bytes, not runes, matching the offsets used
// throughout this module's Range values.
func (ix *Index) PointFor(offset int) Point {
	if offset < 0 {
		offset = 0
	}
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(ix.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo + 1
	col := offset - ix.starts[lo] + 1
	return Point{Line: line, Col: col}
}

// LinePos is the derived (start, end) line/column pair for a Range.
type LinePos struct {
	Start Point
	End   Point
}

// LinePosFor converts an absolute byte Range into a LinePos.
func (ix *Index) LinePosFor(r Range) LinePos {
	return LinePos{Start: ix.PointFor(r.Start), End: ix.PointFor(r.End)}
}

// LineCount returns the number of lines tracked by the index.
func (ix *Index) LineCount() int {
	return len(ix.starts)
}

// SplitLines splits source into lines along with each line's starting byte
// offset, without stripping the trailing newline from the returned text
// (callers that need the bare text should TrimRight the result themselves).
func SplitLines(source string) []struct {
	Text   string
	Offset int
} {
	var out []struct {
		Text   string
		Offset int
	}
	offset := 0
	for {
		idx := strings.IndexByte(source[offset:], '\n')
		if idx < 0 {
			out = append(out, struct {
				Text   string
				Offset int
			}{Text: source[offset:], Offset: offset})
			break
		}
		out = append(out, struct {
			Text   string
			Offset int
		}{Text: source[offset : offset+idx], Offset: offset})
		offset += idx + 1
	}
	return out
}
