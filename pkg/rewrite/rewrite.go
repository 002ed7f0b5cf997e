// Package rewrite turns a match into replacement syntax while moving trivia
// from the replaced tokens onto the tokens that survive.
package rewrite

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/codefix/pkg/match"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Sentinel errors for rewriting.
var (
	ErrTargetNotFound = errors.New("rewrite target not found in tree")
	ErrDuplicateToken = errors.New("replacement reuses an original token twice")
	ErrEmptyRewrite   = errors.New("synthesizer produced no replacement")
)

// Synthesizer builds the canonical replacement for a match from its
// captured original sub-nodes. It only decides shape; Replace moves trivia.
type Synthesizer func(m match.Match) (*syntax.Node, error)

// Replace finalizes a synthesized replacement for target:
//
//   - the outer leading and trailing trivia of target move to the first and
//     last token of the replacement;
//   - comments owned by tokens of target that the replacement drops move to
//     the nearest surviving token in document order: the trailing trivia of
//     the previous surviving token, otherwise the leading trivia of the next
//     one, otherwise the end of the replacement. A line comment keeps the end
//     of line that terminates it and then prefers the next surviving token,
//     so it stays on its own line;
//   - surviving tokens keep their interior trivia.
//
// Whitespace owned by dropped tokens is discarded with them.
func Replace(target, replacement *syntax.Node) (*syntax.Node, error) {
	if replacement == nil {
		return nil, ErrEmptyRewrite
	}

	old := target.Tokens()
	tokens := replacement.Tokens()

	if len(tokens) == 0 {
		return nil, ErrEmptyRewrite
	}

	kept := make(map[*syntax.Node]bool, len(tokens))

	for _, t := range tokens {
		if kept[t] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateToken, t.TokenText())
		}

		kept[t] = true
	}

	var first, last *syntax.Node
	if len(old) > 0 {
		first, last = old[0], old[len(old)-1]
	}

	// Interior trivia per surviving original token; outer trivia is excluded.
	interior := make(map[*syntax.Node]*pair)

	for _, t := range old {
		if !kept[t] {
			continue
		}

		p := &pair{leading: t.LeadingTrivia(), trailing: t.TrailingTrivia()}
		if t == first {
			p.leading = nil
		}

		if t == last {
			p.trailing = nil
		}

		interior[t] = p
	}

	var orphans syntax.TriviaList

	for i, t := range old {
		if kept[t] {
			continue
		}

		moved := droppedTrivia(t, first, last)
		if moved == nil {
			continue
		}

		prev, next := nearestKept(old, i, -1, kept), nearestKept(old, i, 1, kept)
		if endsWithBreak(moved) && next != nil {
			prev = nil
		}

		switch {
		case prev != nil:
			p := interior[prev]
			p.trailing = appendTrivia(p.trailing, moved)
		case next != nil:
			p := interior[next]
			p.leading = prependTrivia(moved, p.leading)
		default:
			orphans = joinTrivia(orphans, moved)
		}
	}

	// The target's own trailing trivia already ends the line.
	if endsWithBreak(orphans) && hasBreak(target.TrailingTrivia()) {
		orphans = orphans[: len(orphans)-1 : len(orphans)-1]
	}

	head, tail := tokens[0], tokens[len(tokens)-1]
	repl := make(map[*syntax.Node]*syntax.Node)

	for _, t := range tokens {
		lead, trail := t.LeadingTrivia(), t.TrailingTrivia()
		if p, ok := interior[t]; ok {
			lead, trail = p.leading, p.trailing
		}

		if t == head {
			lead = target.LeadingTrivia().Concat(lead)
		}

		if t == tail {
			trail = appendTrivia(trail, orphans).Concat(target.TrailingTrivia())
		}

		if !slices.Equal(lead, t.LeadingTrivia()) || !slices.Equal(trail, t.TrailingTrivia()) {
			repl[t] = t.WithTokenTrivia(lead, trail)
		}
	}

	return syntax.ReplaceTokens(replacement, repl), nil
}

// Splice returns a new root with target swapped for replacement.
func Splice(root, target, replacement *syntax.Node) (*syntax.Node, error) {
	out, ok := syntax.ReplaceNode(root, target, replacement)
	if !ok {
		return nil, fmt.Errorf("%w: %s at %s", ErrTargetNotFound, target.Kind(), target.Span())
	}

	return out, nil
}

type pair struct {
	leading  syntax.TriviaList
	trailing syntax.TriviaList
}

// droppedTrivia returns the comment-bearing interior trivia of a dropped
// token, trimmed of surrounding whitespace except the end of line that
// terminates a final line comment.
func droppedTrivia(t, first, last *syntax.Node) syntax.TriviaList {
	var lead, trail syntax.TriviaList
	if t != first {
		lead = trimComments(t.LeadingTrivia())
	}

	if t != last {
		trail = trimComments(t.TrailingTrivia())
	}

	return joinTrivia(lead, trail)
}

func trimComments(l syntax.TriviaList) syntax.TriviaList {
	trimmed := l.Trim()
	if len(trimmed) == 0 || trimmed[len(trimmed)-1].Kind != syntax.TriviaLineComment {
		return trimmed
	}

	end := len(l)
	for l[end-1].IsSpace() {
		end--
	}

	eol := syntax.Trivia{Kind: syntax.TriviaEndOfLine, Text: "\n"}

	for _, piece := range l[end:] {
		if piece.Kind == syntax.TriviaEndOfLine {
			eol = piece

			break
		}
	}

	return trimmed.Concat(syntax.TriviaList{eol})
}

func endsWithBreak(l syntax.TriviaList) bool {
	return len(l) > 0 && l[len(l)-1].Kind == syntax.TriviaEndOfLine
}

func hasBreak(l syntax.TriviaList) bool {
	for _, piece := range l {
		if piece.Kind == syntax.TriviaEndOfLine {
			return true
		}
	}

	return false
}

// joinTrivia concatenates a and b with a space between them unless either
// side already provides whitespace.
func joinTrivia(a, b syntax.TriviaList) syntax.TriviaList {
	switch {
	case len(a) == 0:
		return b
	case len(b) == 0:
		return a
	case a.EndsWithSpace() || b.StartsWithSpace():
		return a.Concat(b)
	default:
		return a.Concat(syntax.Space, b)
	}
}

func nearestKept(tokens []*syntax.Node, from, step int, kept map[*syntax.Node]bool) *syntax.Node {
	for i := from + step; i >= 0 && i < len(tokens); i += step {
		if kept[tokens[i]] {
			return tokens[i]
		}
	}

	return nil
}

// appendTrivia adds moved after list, separated by a space. A list that
// ends in whitespace still does afterwards, since builders pad operators
// based on it.
func appendTrivia(list, moved syntax.TriviaList) syntax.TriviaList {
	if len(moved) == 0 {
		return list
	}

	switch {
	case !list.EndsWithSpace():
		return list.Concat(syntax.Space, moved)
	case moved.EndsWithSpace():
		return list.Concat(moved)
	default:
		return list.Concat(moved, syntax.Space)
	}
}

// prependTrivia adds moved before list, separated by a space.
func prependTrivia(moved, list syntax.TriviaList) syntax.TriviaList {
	if len(list) == 0 && !moved.EndsWithSpace() {
		return moved.Concat(syntax.Space)
	}

	return joinTrivia(moved, list)
}
