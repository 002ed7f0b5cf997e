package rules_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefix/pkg/engine"
	"github.com/Sumatoshi-tech/codefix/pkg/fixture"
	"github.com/Sumatoshi-tech/codefix/pkg/frontend/csharp"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/rules"
)

func registry(t *testing.T) *rule.Registry {
	t.Helper()

	reg := rule.NewRegistry()
	require.NoError(t, rules.Register(reg))

	return reg
}

func verifier(t *testing.T, id string) fixture.Verifier {
	t.Helper()

	return fixture.Verifier{
		Registry: registry(t),
		RuleID:   id,
		Parse:    csharp.ParseTree,
		Facts:    csharp.Facts,
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	reg := registry(t)
	assert.Equal(t, []string{rules.IDConvertHasFlag, rules.IDAwaitUsing}, reg.SupportedIdentities())

	d, ok := reg.Lookup(rules.IDConvertHasFlag)
	require.True(t, ok)
	assert.True(t, d.Fixable())

	d, ok = reg.Lookup(rules.IDAwaitUsing)
	require.True(t, ok)
	assert.False(t, d.Fixable())

	require.NoError(t, rules.Register(rule.NewRegistry()))
	require.ErrorIs(t, rules.Register(reg), rule.ErrRegistryFrozen)

	_, ok = rule.Default.Lookup(rules.IDAwaitUsing)
	assert.True(t, ok)
}

func TestDefaultIdentities_ConcurrentFirstAccess(t *testing.T) {
	t.Parallel()

	var (
		wg  sync.WaitGroup
		got [16][]string
	)

	for i := range got {
		wg.Add(1)

		go func() {
			defer wg.Done()

			got[i] = rule.Default.SupportedIdentities()
		}()
	}

	wg.Wait()

	for i := range got {
		assert.Contains(t, got[i], rules.IDConvertHasFlag)
		assert.Equal(t, got[0], got[i])
	}
}

func TestAwaitUsing_NoFix(t *testing.T) {
	t.Parallel()

	diags := verifier(t, rules.IDAwaitUsing).VerifyDiagnostic(t, awaitUsingBefore)
	require.Len(t, diags, 1)
	assert.Equal(t, "Resource implements IAsyncDisposable; use 'await using'", diags[0].Message)

	a := engine.New(registry(t))
	_, err := a.Fix(diags[0])
	require.ErrorIs(t, err, engine.ErrNoFix)
}

func TestFixtureArchives(t *testing.T) {
	t.Parallel()

	fixture.RunArchives(t, "testdata", verifier(t, ""))
}

func TestHasFlag_CancelledPassReportsNothing(t *testing.T) {
	t.Parallel()

	file, model, err := csharp.Load(context.Background(), hasFlagAfter)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	diags, err := engine.New(registry(t)).Analyze(ctx, file.Root, model)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, diags)
}
