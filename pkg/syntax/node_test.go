package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// tok builds a positioned token from a gap-free layout: lead + text + trail
// starting at offset *at, advancing *at past it.
func tok(at *int, lead, text, trail string) *syntax.Node {
	*at += len(lead)
	n := syntax.NewSourceToken("", text, *at, syntax.LexTrivia(lead), syntax.LexTrivia(trail))
	*at += len(text) + len(trail)

	return n
}

// sample builds the tree for "x = /*c*/ a & b ;\n".
func sample() (root, binary, a *syntax.Node) {
	at := 0
	x := syntax.NewNode(syntax.KindIdentifier, syntax.Child{Node: tok(&at, "", "x", " ")})
	eq := tok(&at, "", "=", " ")
	a = syntax.NewNode(syntax.KindIdentifier, syntax.Child{Node: tok(&at, "/*c*/ ", "a", " ")})
	amp := tok(&at, "", "&", " ")
	b := syntax.NewNode(syntax.KindIdentifier, syntax.Child{Node: tok(&at, "", "b", " ")})
	semi := tok(&at, "", ";", "\n")

	binary = syntax.NewNode(syntax.KindBinary,
		syntax.Child{Field: syntax.FieldLeft, Node: a},
		syntax.Child{Field: syntax.FieldOperator, Node: amp},
		syntax.Child{Field: syntax.FieldRight, Node: b},
	)
	assign := syntax.NewNode(syntax.KindAssignment,
		syntax.Child{Field: syntax.FieldLeft, Node: x},
		syntax.Child{Node: eq},
		syntax.Child{Field: syntax.FieldRight, Node: binary},
	)
	root = syntax.NewNode(syntax.KindExpressionStatement,
		syntax.Child{Field: syntax.FieldExpression, Node: assign},
		syntax.Child{Node: semi},
	)

	return root, binary, a
}

const sampleText = "x = /*c*/ a & b ;\n"

func TestNode_RenderAndSpans(t *testing.T) {
	t.Parallel()

	root, binary, a := sample()

	assert.Equal(t, sampleText, root.String())
	assert.Equal(t, "a & b", binary.Text())
	assert.Equal(t, syntax.SpanOf(10, 15), binary.Span())
	assert.Equal(t, "a & b", binary.Span().Text(sampleText))
	assert.Equal(t, syntax.SpanOf(4, 16), binary.FullSpan())
	assert.Equal(t, "/*c*/ ", a.LeadingTrivia().String())
	assert.Equal(t, " ", binary.TrailingTrivia().String())
	assert.Len(t, root.Tokens(), 6)
}

func TestNode_FieldsAndChildren(t *testing.T) {
	t.Parallel()

	_, binary, a := sample()

	assert.Same(t, a, binary.Field(syntax.FieldLeft))
	assert.Equal(t, "&", binary.Field(syntax.FieldOperator).TokenText())
	assert.Nil(t, binary.Field("missing"))
	assert.Len(t, binary.ChildrenOf(syntax.KindIdentifier), 2)
	assert.NotNil(t, binary.TokenChild("&"))
	assert.Nil(t, binary.TokenChild("|"))
}

func TestNode_WithTriviaKeepsOriginal(t *testing.T) {
	t.Parallel()

	_, binary, _ := sample()

	stripped := binary.WithoutTrivia()
	assert.Equal(t, "a & b", stripped.String())
	assert.Equal(t, "/*c*/ a & b ", binary.String())
	assert.Same(t, binary.Field(syntax.FieldOperator), stripped.Field(syntax.FieldOperator))
}

func TestReplaceNode_SharesUntouchedSubtrees(t *testing.T) {
	t.Parallel()

	root, binary, a := sample()

	repl := syntax.Identifier("y")
	newRoot, ok := syntax.ReplaceNode(root, a, repl)
	require.True(t, ok)

	assert.Equal(t, "x = y& b ;\n", newRoot.String())
	assert.Equal(t, sampleText, root.String())

	assign := newRoot.Field(syntax.FieldExpression)
	assert.Same(t, root.Field(syntax.FieldExpression).Field(syntax.FieldLeft), assign.Field(syntax.FieldLeft))
	assert.NotSame(t, binary, assign.Field(syntax.FieldRight))

	_, ok = syntax.ReplaceNode(root, syntax.Identifier("z"), repl)
	assert.False(t, ok)
}

func TestNode_SynthesizedHasNoSpan(t *testing.T) {
	t.Parallel()

	n := syntax.Binary(syntax.Identifier("a"), "|", syntax.Identifier("b"))
	assert.False(t, n.Span().IsValid())
	assert.Equal(t, syntax.NoSpan, n.FullSpan())
	assert.Equal(t, -1, n.Pos())
}

func TestKind_Names(t *testing.T) {
	t.Parallel()

	for k := syntax.KindInvalid + 1; k < syntax.KindCount; k++ {
		name := k.String()
		require.NotEmpty(t, name, "kind %d has no name", k)

		back, ok := syntax.ParseKind(name)
		require.True(t, ok, name)
		assert.Equal(t, k, back)
	}

	assert.Equal(t, "Kind(?)", syntax.KindCount.String())
	assert.False(t, syntax.KindInvalid.Valid())
	assert.True(t, syntax.KindInvocation.IsExpression())
	assert.False(t, syntax.KindBlock.IsExpression())
}

func TestSpan_Relations(t *testing.T) {
	t.Parallel()

	outer := syntax.SpanOf(2, 10)
	inner := syntax.SpanOf(4, 6)

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.True(t, outer.Overlaps(inner))
	assert.False(t, syntax.SpanOf(0, 2).Overlaps(outer))
	assert.Equal(t, -1, inner.Compare(syntax.SpanOf(5, 6)))
	assert.Equal(t, 1, outer.Compare(syntax.SpanOf(2, 3)))
	assert.Equal(t, "[2..10)", outer.String())
	assert.Equal(t, "[-]", syntax.NoSpan.String())
}

func TestPositionOf(t *testing.T) {
	t.Parallel()

	src := "ab\ncé d\n"

	tests := []struct {
		offset int
		want   string
	}{
		{0, "1:1"},
		{2, "1:3"},
		{3, "2:1"},
		{6, "2:3"},
		{7, "2:4"},
		{len(src), "3:1"},
		{100, "3:1"},
		{-4, "1:1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, syntax.PositionOf(src, tt.offset).String(), "offset %d", tt.offset)
	}
}
