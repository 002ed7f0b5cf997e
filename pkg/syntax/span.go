package syntax

import (
	"cmp"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, Start+Length) over the original text.
type Span struct {
	Start  int
	Length int
}

// NoSpan marks nodes that have no position in the original text.
var NoSpan = Span{Start: -1}

// SpanOf returns the span between two offsets.
func SpanOf(start, end int) Span {
	return Span{Start: start, Length: end - start}
}

// End returns the exclusive end offset.
func (s Span) End() int {
	return s.Start + s.Length
}

// IsValid reports whether the span refers to the original text.
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.Length >= 0
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.IsValid() && other.IsValid() && other.Start >= s.Start && other.End() <= s.End()
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.IsValid() && other.IsValid() && s.Start < other.End() && other.Start < s.End()
}

// Text slices src by the span. Invalid or out-of-range spans yield "".
func (s Span) Text(src string) string {
	if !s.IsValid() || s.End() > len(src) {
		return ""
	}

	return src[s.Start:s.End()]
}

func (s Span) String() string {
	if !s.IsValid() {
		return "[-]"
	}

	return fmt.Sprintf("[%d..%d)", s.Start, s.End())
}

// Compare orders spans by start then length.
func (s Span) Compare(other Span) int {
	if c := cmp.Compare(s.Start, other.Start); c != 0 {
		return c
	}

	return cmp.Compare(s.Length, other.Length)
}

// Position is a 1-based line and column. Columns count runes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// PositionOf locates offset in src. Offsets past the end clamp to it.
func PositionOf(src string, offset int) Position {
	offset = max(0, min(offset, len(src)))
	head := src[:offset]
	lineStart := strings.LastIndexByte(head, '\n') + 1

	return Position{
		Line:   strings.Count(head, "\n") + 1,
		Column: utf8.RuneCountInString(head[lineStart:]) + 1,
	}
}
