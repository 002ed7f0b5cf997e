package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

func TestLexTrivia_Pieces(t *testing.T) {
	t.Parallel()

	got := syntax.LexTrivia(" \t/*a*/\r\n  // line\n#")

	want := syntax.TriviaList{
		{Kind: syntax.TriviaWhitespace, Text: " \t"},
		{Kind: syntax.TriviaBlockComment, Text: "/*a*/"},
		{Kind: syntax.TriviaEndOfLine, Text: "\r\n"},
		{Kind: syntax.TriviaWhitespace, Text: "  "},
		{Kind: syntax.TriviaLineComment, Text: "// line"},
		{Kind: syntax.TriviaEndOfLine, Text: "\n"},
		{Kind: syntax.TriviaSkipped, Text: "#"},
	}
	assert.Equal(t, want, got)
}

func TestLexTrivia_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		" ",
		"\n\n",
		"/* unterminated",
		"/**/ /* x */",
		"// a\r\n// b",
		"@@ junk / here",
	}

	for _, in := range inputs {
		assert.Equal(t, in, syntax.LexTrivia(in).String(), "input %q", in)
	}
}

func TestSplitGap(t *testing.T) {
	t.Parallel()

	gap := syntax.LexTrivia(" /*t*/\n    // next\n    ")
	trailing, leading := syntax.SplitGap(gap)

	assert.Equal(t, " /*t*/\n", trailing.String())
	assert.Equal(t, "    // next\n    ", leading.String())

	trailing, leading = syntax.SplitGap(syntax.LexTrivia("  "))
	assert.Equal(t, "  ", trailing.String())
	assert.Empty(t, leading)
}

func TestTriviaList_Trim(t *testing.T) {
	t.Parallel()

	l := syntax.LexTrivia("  /*a*/ /*b*/\n ")
	trimmed := l.Trim()

	require.Len(t, trimmed, 3)
	assert.Equal(t, "/*a*/ /*b*/", trimmed.String())
	assert.True(t, trimmed.HasComment())

	assert.Nil(t, syntax.LexTrivia(" \n\t").Trim())
	assert.False(t, syntax.LexTrivia(" \n\t").HasComment())
}

func TestTriviaList_Concat(t *testing.T) {
	t.Parallel()

	a := syntax.LexTrivia(" ")
	b := syntax.LexTrivia("/*x*/")

	got := a.Concat(b, nil, a)
	assert.Equal(t, " /*x*/ ", got.String())
	assert.True(t, got.EndsWithSpace())
	assert.True(t, got.StartsWithSpace())

	assert.Nil(t, syntax.TriviaList(nil).Concat(nil))
}
