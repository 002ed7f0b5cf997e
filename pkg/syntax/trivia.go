package syntax

import "strings"

// TriviaKind classifies a piece of non-semantic text.
type TriviaKind uint8

// Trivia kinds.
const (
	TriviaWhitespace TriviaKind = iota
	TriviaEndOfLine
	TriviaLineComment
	TriviaBlockComment
	// TriviaSkipped holds text the front end could not attribute to a token.
	TriviaSkipped
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaWhitespace:
		return "Whitespace"
	case TriviaEndOfLine:
		return "EndOfLine"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaSkipped:
		return "Skipped"
	}

	return "Trivia(?)"
}

// Trivia is a single whitespace, end-of-line or comment piece owned by a token.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// IsSpace reports whether the piece is whitespace or an end of line.
func (t Trivia) IsSpace() bool {
	return t.Kind == TriviaWhitespace || t.Kind == TriviaEndOfLine
}

// TriviaList is an ordered run of trivia pieces.
type TriviaList []Trivia

// Space is a single-space trivia list.
var Space = TriviaList{{Kind: TriviaWhitespace, Text: " "}}

// String concatenates the pieces.
func (l TriviaList) String() string {
	if len(l) == 1 {
		return l[0].Text
	}

	var sb strings.Builder
	for _, t := range l {
		sb.WriteString(t.Text)
	}

	return sb.String()
}

// HasComment reports whether any piece is not whitespace.
func (l TriviaList) HasComment() bool {
	for _, t := range l {
		if !t.IsSpace() {
			return true
		}
	}

	return false
}

// EndsWithSpace reports whether the last piece is whitespace or an end of line.
func (l TriviaList) EndsWithSpace() bool {
	return len(l) > 0 && l[len(l)-1].IsSpace()
}

// StartsWithSpace reports whether the first piece is whitespace or an end of line.
func (l TriviaList) StartsWithSpace() bool {
	return len(l) > 0 && l[0].IsSpace()
}

// Trim drops leading and trailing whitespace pieces, keeping interior ones.
// A list with no comment trims to nil.
func (l TriviaList) Trim() TriviaList {
	lo, hi := 0, len(l)
	for lo < hi && l[lo].IsSpace() {
		lo++
	}

	for hi > lo && l[hi-1].IsSpace() {
		hi--
	}

	if lo == hi {
		return nil
	}

	return l[lo:hi:hi]
}

// Concat returns a fresh list holding l followed by others.
func (l TriviaList) Concat(others ...TriviaList) TriviaList {
	n := len(l)
	for _, o := range others {
		n += len(o)
	}

	if n == 0 {
		return nil
	}

	out := make(TriviaList, 0, n)
	out = append(out, l...)

	for _, o := range others {
		out = append(out, o...)
	}

	return out
}

// LexTrivia splits the text between two tokens into pieces.
// Concatenating the result always reproduces s.
func LexTrivia(s string) TriviaList {
	var out TriviaList

	for i := 0; i < len(s); {
		j, kind := scanTrivia(s, i)
		out = append(out, Trivia{Kind: kind, Text: s[i:j]})
		i = j
	}

	return out
}

func scanTrivia(s string, i int) (int, TriviaKind) {
	switch c := s[i]; {
	case c == ' ' || c == '\t' || c == '\f' || c == '\v':
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\f' || s[j] == '\v') {
			j++
		}

		return j, TriviaWhitespace
	case c == '\r' && i+1 < len(s) && s[i+1] == '\n':
		return i + 2, TriviaEndOfLine
	case c == '\n' || c == '\r':
		return i + 1, TriviaEndOfLine
	case strings.HasPrefix(s[i:], "//"):
		j := i + 2
		for j < len(s) && s[j] != '\n' && s[j] != '\r' {
			j++
		}

		return j, TriviaLineComment
	case strings.HasPrefix(s[i:], "/*"):
		end := strings.Index(s[i+2:], "*/")
		if end < 0 {
			return len(s), TriviaBlockComment
		}

		return i + 2 + end + 2, TriviaBlockComment
	default:
		j := i + 1
		for j < len(s) && !isTriviaStart(s, j) {
			j++
		}

		return j, TriviaSkipped
	}
}

func isTriviaStart(s string, i int) bool {
	switch s[i] {
	case ' ', '\t', '\f', '\v', '\r', '\n':
		return true
	case '/':
		return strings.HasPrefix(s[i:], "//") || strings.HasPrefix(s[i:], "/*")
	}

	return false
}

// SplitGap divides the trivia between two tokens: pieces up to and including
// the first end of line trail the earlier token, the rest lead the later one.
func SplitGap(gap TriviaList) (trailing, leading TriviaList) {
	for i, t := range gap {
		if t.Kind == TriviaEndOfLine {
			return gap[: i+1 : i+1], gap[i+1:]
		}
	}

	return gap, nil
}
