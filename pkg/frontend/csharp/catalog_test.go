package csharp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefix/pkg/frontend/csharp"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c, err := csharp.DefaultCatalog()
	require.NoError(t, err)

	again, err := csharp.DefaultCatalog()
	require.NoError(t, err)
	assert.Same(t, c, again)

	enum := c.Lookup("System.Enum")
	require.NotNil(t, enum)
	assert.True(t, enum.Abstract())
	assert.Equal(t, "System.Enum.HasFlag", enum.Member("HasFlag").Name())

	opts := c.Lookup("System.StringSplitOptions")
	require.NotNil(t, opts)
	assert.Equal(t, csharp.TypeEnum, opts.Kind())
	assert.Same(t, enum, opts.Base())
	assert.True(t, opts.Member("None").Static())
	assert.Same(t, enum.Member("HasFlag"), opts.Member("HasFlag"))

	fs := c.Lookup("System.IO.FileStream")
	require.NotNil(t, fs)
	assert.True(t, fs.Implements("System.IAsyncDisposable"))
	assert.False(t, c.Lookup("System.IO.StreamReader").Implements("System.IAsyncDisposable"))

	assert.Equal(t, "System.Boolean", c.Keyword("bool").Name())
	assert.Nil(t, c.Keyword("decimal"))
	assert.Contains(t, c.Names(), "System.IO.Stream")
}

func TestLoadCatalog_Rejects(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"not yaml":       "types: [",
		"missing kind":   "types:\n  - name: A.B\n",
		"bad kind":       "types:\n  - name: A.B\n    kind: record\n",
		"unqualified":    "types:\n  - name: B\n    kind: class\n",
		"unknown field":  "types:\n  - name: A.B\n    kind: class\n    sealed: true\n",
		"unknown base":   "types:\n  - name: A.B\n    kind: class\n    base: A.Missing\n",
		"unknown member": "types:\n  - name: A.B\n    kind: class\n    members:\n      - {name: X, kind: method, type: A.Missing}\n",
		"duplicate":      "types:\n  - name: A.B\n    kind: class\n  - name: A.B\n    kind: struct\n",
		"enum sans base": "types:\n  - name: A.E\n    kind: enum\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := csharp.LoadCatalog([]byte(data))
			require.ErrorIs(t, err, csharp.ErrCatalog)
		})
	}
}

func TestLoadCatalog_Minimal(t *testing.T) {
	t.Parallel()

	c, err := csharp.LoadCatalog([]byte("types:\n  - name: A.I\n    kind: interface\n  - name: A.B\n    kind: class\n    interfaces: [A.I]\n"))
	require.NoError(t, err)
	assert.True(t, c.Lookup("A.B").Implements("A.I"))
	assert.Nil(t, c.Lookup("A.C"))
}
