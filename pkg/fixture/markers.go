package fixture

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Marker delimiters.
const (
	OpenMarker  = "[|"
	CloseMarker = "|]"
)

// ErrUnbalancedMarker is returned for a stray or unclosed marker.
var ErrUnbalancedMarker = errors.New("unbalanced fixture marker")

// ParseMarkers strips every [| and |] from src. It returns the clean text
// and the span each pair enclosed, ordered by opening marker, with offsets
// into the clean text. Pairs nest: |] closes the innermost open pair, so
// [|[|x|]|] expects two diagnostics at x.
func ParseMarkers(src string) (string, []syntax.Span, error) {
	var (
		sb    strings.Builder
		spans []syntax.Span
		open  []int
	)

	sb.Grow(len(src))

	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], OpenMarker):
			open = append(open, len(spans))
			spans = append(spans, syntax.SpanOf(sb.Len(), sb.Len()))
			i += len(OpenMarker)
		case strings.HasPrefix(src[i:], CloseMarker):
			if len(open) == 0 {
				return "", nil, fmt.Errorf("%w: %s without %s at offset %d", ErrUnbalancedMarker, CloseMarker, OpenMarker, i)
			}

			idx := open[len(open)-1]
			open = open[:len(open)-1]
			spans[idx] = syntax.SpanOf(spans[idx].Start, sb.Len())
			i += len(CloseMarker)
		default:
			sb.WriteByte(src[i])
			i++
		}
	}

	if len(open) > 0 {
		return "", nil, fmt.Errorf("%w: %d unclosed %s", ErrUnbalancedMarker, len(open), OpenMarker)
	}

	return sb.String(), spans, nil
}

// Mark inserts markers around each span of text. Duplicate and nested spans
// are marked as nested pairs; invalid spans and spans crossing an enclosing
// one are skipped.
func Mark(text string, spans []syntax.Span) string {
	ordered := slices.Clone(spans)
	slices.SortStableFunc(ordered, func(a, b syntax.Span) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}

		return cmp.Compare(b.Length, a.Length)
	})

	var (
		sb   strings.Builder
		ends []int
		last int
	)

	closeTo := func(end int) {
		sb.WriteString(text[last:end])
		sb.WriteString(CloseMarker)
		last = end
		ends = ends[:len(ends)-1]
	}

	for _, s := range ordered {
		if !s.IsValid() || s.End() > len(text) {
			continue
		}

		for len(ends) > 0 && ends[len(ends)-1] <= s.Start {
			closeTo(ends[len(ends)-1])
		}

		if len(ends) > 0 && s.End() > ends[len(ends)-1] {
			continue
		}

		sb.WriteString(text[last:s.Start])
		sb.WriteString(OpenMarker)
		last = s.Start
		ends = append(ends, s.End())
	}

	for len(ends) > 0 {
		closeTo(ends[len(ends)-1])
	}

	sb.WriteString(text[last:])

	return sb.String()
}
