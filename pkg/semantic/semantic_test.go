package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/semantic/semantictest"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

func TestNull_ResolvesNothing(t *testing.T) {
	t.Parallel()

	var p semantic.Provider = semantic.Null{}

	n := syntax.Identifier("x")
	assert.Nil(t, p.Resolve(n))
	assert.Nil(t, p.ResolveType(n))
	assert.False(t, p.ImplementsInterface(nil, semantic.InterfaceAsyncDispose))
	assert.False(t, p.IsWellKnownMember(nil, semantic.MemberEnumHasFlag))
	assert.False(t, p.IsWellKnownType(nil, semantic.TypeEnum))
	assert.False(t, p.IsEnum(nil))
}

func TestSameType(t *testing.T) {
	t.Parallel()

	a := semantictest.NewType("A")
	b := semantictest.NewType("A")

	assert.True(t, semantic.SameType(a, a))
	assert.False(t, semantic.SameType(a, b), "distinct symbols with one name differ")
	assert.False(t, semantic.SameType(nil, a))
	assert.False(t, semantic.SameType(nil, nil))
}
