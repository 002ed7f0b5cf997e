package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefix/pkg/match"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

func call(receiver *syntax.Node, method string, args ...*syntax.Node) *syntax.Node {
	list := []syntax.Child{{Node: syntax.Token("(")}}

	for i, a := range args {
		if i > 0 {
			list = append(list, syntax.Child{Node: syntax.NewToken(",", nil, syntax.Space)})
		}

		list = append(list, syntax.Child{Node: syntax.NewNode(syntax.KindArgument,
			syntax.Child{Field: syntax.FieldExpression, Node: a})})
	}

	list = append(list, syntax.Child{Node: syntax.Token(")")})

	return syntax.NewNode(syntax.KindInvocation,
		syntax.Child{Field: syntax.FieldFunction, Node: syntax.MemberAccess(receiver, method)},
		syntax.Child{Field: syntax.FieldArguments, Node: syntax.NewNode(syntax.KindArgumentList, list...)},
	)
}

var hasFlagShape = match.Kind(syntax.KindInvocation,
	match.Field(syntax.FieldFunction, match.Kind(syntax.KindMemberAccess,
		match.Field(syntax.FieldExpression, match.Capture("receiver", match.Any())),
		match.Field(syntax.FieldName, match.Text("HasFlag")),
	)),
	match.Field(syntax.FieldArguments, match.Kind(syntax.KindArgumentList,
		match.Only(syntax.KindArgument, match.Kind(syntax.KindArgument,
			match.Field(syntax.FieldExpression, match.Capture("flag", match.Any())),
		)),
	)),
)

func TestPattern_ShapeAndCaptures(t *testing.T) {
	t.Parallel()

	recv := syntax.Identifier("options")
	flag := syntax.Identifier("X")
	n := call(recv, "HasFlag", flag)

	caps := make(match.Captures)
	require.True(t, hasFlagShape.Match(n, caps))
	assert.Same(t, recv, caps["receiver"])
	assert.Same(t, flag, caps["flag"])

	assert.False(t, hasFlagShape.Match(call(recv, "HasFlags", flag), make(match.Captures)))
	assert.False(t, hasFlagShape.Match(call(recv, "HasFlag"), make(match.Captures)))
	assert.False(t, hasFlagShape.Match(call(recv, "HasFlag", flag, flag), make(match.Captures)))
	assert.False(t, hasFlagShape.Match(recv, make(match.Captures)))
}

func TestOneOf_DiscardsFailedCaptures(t *testing.T) {
	t.Parallel()

	p := match.OneOf(
		match.Kind(syntax.KindBinary,
			match.Field(syntax.FieldLeft, match.Capture("left", match.Any())),
			match.Field(syntax.FieldOperator, match.Text("&")),
		),
		match.Kind(syntax.KindBinary,
			match.Field(syntax.FieldRight, match.Capture("right", match.Any())),
		),
	)

	n := syntax.Binary(syntax.Identifier("a"), "|", syntax.Identifier("b"))
	caps := make(match.Captures)

	require.True(t, p.Match(n, caps))
	assert.NotContains(t, caps, "left")
	assert.Equal(t, "b", caps["right"].Text())
}

func TestNotAndUnparen(t *testing.T) {
	t.Parallel()

	inner := syntax.Identifier("a")
	wrapped := syntax.Paren(syntax.Paren(inner))

	caps := make(match.Captures)
	require.True(t, match.Unparen(match.Capture("x", match.Kind(syntax.KindIdentifier))).Match(wrapped, caps))
	assert.Same(t, inner, caps["x"])
	assert.Same(t, inner, match.StripParens(wrapped))

	notLiteral := match.Not(match.Capture("lit", match.Kind(syntax.KindLiteral)))
	caps = make(match.Captures)
	assert.True(t, notLiteral.Match(inner, caps))
	assert.False(t, notLiteral.Match(syntax.Literal("1"), caps))
	assert.Empty(t, caps)
}

func TestTokenConstraints(t *testing.T) {
	t.Parallel()

	using := syntax.NewNode(syntax.KindUsingStatement,
		syntax.Child{Node: syntax.Token("using")},
		syntax.Child{Node: syntax.Token("(")},
		syntax.Child{Node: syntax.Token(")")},
	)
	awaited := syntax.NewNode(syntax.KindUsingStatement,
		syntax.Child{Node: syntax.Token("await")},
		syntax.Child{Node: syntax.Token("using")},
	)

	p := match.Kind(syntax.KindUsingStatement, match.NoToken("await"), match.CaptureToken("kw", "using"))

	caps := make(match.Captures)
	require.True(t, p.Match(using, caps))
	assert.Equal(t, "using", caps["kw"].TokenText())
	assert.False(t, p.Match(awaited, make(match.Captures)))
	assert.True(t, match.Kind(syntax.KindUsingStatement, match.HasToken("await")).Match(awaited, nil))
}
