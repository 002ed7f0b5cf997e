package rules_test

import (
	"testing"

	"github.com/Sumatoshi-tech/codefix/pkg/rules"
)

const awaitUsingBefore = `
using System.IO;

class C
{
    void M()
    {
        [|using|] (Stream fs = new FileStream(null, FileMode.Open)) {
        }
    }
}
`

func TestAwaitUsing_Diagnostic(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"stream": awaitUsingBefore,
		"implicit type": `
using System.IO;

class C
{
    void M()
    {
        [|using|] (var ms = new MemoryStream()) { }
    }
}
`,
		"derived from async disposable": `
using System;

class AsyncBase : IAsyncDisposable { }

class Derived : AsyncBase { }

class C
{
    void M(Derived d)
    {
        [|using|] (Derived x = d) { }
    }
}
`,
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			verifier(t, rules.IDAwaitUsing).VerifyDiagnostic(t, src)
		})
	}
}

func TestAwaitUsing_NoDiagnostic(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"already awaited": `
using System.IO;

class C
{
    async void M()
    {
        await using (Stream fs = new FileStream(null, FileMode.Open)) { }
    }
}
`,
		"sync only disposable": `
using System.IO;

class C
{
    void M()
    {
        using (StreamReader r = new StreamReader(null)) { }
    }
}
`,
		"expression resource": `
using System.IO;

class C
{
    void M(Stream s)
    {
        using (s) { }
    }
}
`,
		"unresolved type": `
class C
{
    void M()
    {
        using (Widget w = null) { }
    }
}
`,
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			verifier(t, rules.IDAwaitUsing).VerifyNoDiagnostic(t, src)
		})
	}
}
