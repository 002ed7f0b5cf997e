package rules_test

import (
	"strings"
	"testing"

	"github.com/Sumatoshi-tech/codefix/pkg/rules"
)

// hasFlagSource wraps a statement in a method that declares options.
func hasFlagSource(stmt string) string {
	return `
using System;

class C
{
    void M()
    {
        var options = StringSplitOptions.None;

        ` + stmt + `
    }
}
`
}

var hasFlagAfter = hasFlagSource(`if ((options & StringSplitOptions.RemoveEmptyEntries) != 0) { }`)

func TestHasFlag_Fixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before string
		after  string
	}{
		{
			name:   "direct",
			before: `if ([|options.HasFlag(StringSplitOptions.RemoveEmptyEntries)|]) { }`,
			after:  `if ((options & StringSplitOptions.RemoveEmptyEntries) != 0) { }`,
		},
		{
			name:   "parenthesized argument",
			before: `if ([|options.HasFlag(StringSplitOptions.None | StringSplitOptions.RemoveEmptyEntries)|]) { }`,
			after:  `if ((options & (StringSplitOptions.None | StringSplitOptions.RemoveEmptyEntries)) != 0) { }`,
		},
		{
			name:   "negated",
			before: `if (![|options.HasFlag(StringSplitOptions.RemoveEmptyEntries)|]) { }`,
			after:  `if ((options & StringSplitOptions.RemoveEmptyEntries) == 0) { }`,
		},
		{
			name:   "equals true",
			before: `if ([|options.HasFlag(StringSplitOptions.RemoveEmptyEntries)|] == true) { }`,
			after:  `if ((options & StringSplitOptions.RemoveEmptyEntries) != 0) { }`,
		},
		{
			name:   "equals false",
			before: `if ([|options.HasFlag(StringSplitOptions.RemoveEmptyEntries)|] == false) { }`,
			after:  `if ((options & StringSplitOptions.RemoveEmptyEntries) == 0) { }`,
		},
		{
			name:   "trivia and member access",
			before: `if ( /*lt*/ [|options.HasFlag(StringSplitOptions.RemoveEmptyEntries /*tt*/ )|].Equals(true)) { }`,
			after:  `if ( /*lt*/ ((options & StringSplitOptions.RemoveEmptyEntries /*tt*/ ) != 0).Equals(true)) { }`,
		},
		{
			name:   "assignment",
			before: `var b = [|options.HasFlag(StringSplitOptions.TrimEntries)|];`,
			after:  `var b = (options & StringSplitOptions.TrimEntries) != 0;`,
		},
		{
			name:   "double negation",
			before: `if (!(![|options.HasFlag(StringSplitOptions.TrimEntries)|])) { }`,
			after:  `if ((options & StringSplitOptions.TrimEntries) != 0) { }`,
		},
		{
			name:   "operand of logical and",
			before: `if ([|options.HasFlag(StringSplitOptions.TrimEntries)|] && true) { }`,
			after:  `if ((options & StringSplitOptions.TrimEntries) != 0 && true) { }`,
		},
		{
			name:   "line comment inside the call",
			before: "if ([|options.HasFlag( // why\n            StringSplitOptions.RemoveEmptyEntries)|]) { }",
			after:  "if ((options & // why\n            StringSplitOptions.RemoveEmptyEntries) != 0) { }",
		},
		{
			name:   "line comment after the receiver",
			before: "if ([|options // why\n            .HasFlag(StringSplitOptions.RemoveEmptyEntries)|]) { }",
			after:  "if ((options // why\n& StringSplitOptions.RemoveEmptyEntries) != 0) { }",
		},
		{
			name:   "call split over lines",
			before: "if ([|options\n            .HasFlag(\n" + strings.Repeat(" ", 16) + "StringSplitOptions.RemoveEmptyEntries)|]) { }",
			after:  "if ((options\n& " + strings.Repeat(" ", 16) + "StringSplitOptions.RemoveEmptyEntries) != 0) { }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verifier(t, rules.IDConvertHasFlag).VerifyFix(t, hasFlagSource(tt.before), hasFlagSource(tt.after))
		})
	}
}

func TestHasFlag_NoDiagnostic(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"system enum": `
using System;

class C
{
    void M()
    {
        var @enum = default(Enum);
        var options = StringSplitOptions.None;

        if (options.HasFlag(@enum)) { }

        if (@enum.HasFlag(options)) { }
    }
}
`,
		"conditional access": `
using System;

class C
{
    StringSplitOptions P { get; }

    void M()
    {
        C c = null;

        if (c?.P.HasFlag(StringSplitOptions.RemoveEmptyEntries) == true) { }
    }
}
`,
		"different enum types": hasFlagSource(`if (options.HasFlag(System.IO.FileMode.Open)) { }`),
		"user method":          "class F { bool HasFlag(F f) => true; void M(F a) { if (a.HasFlag(a)) { } } }",
		"unresolved receiver":  hasFlagSource(`if (unknown.HasFlag(StringSplitOptions.None)) { }`),
		"already bitwise":      hasFlagAfter,
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			verifier(t, rules.IDConvertHasFlag).VerifyNoDiagnostic(t, src)
		})
	}
}

func TestHasFlag_SourceEnum(t *testing.T) {
	t.Parallel()

	verifier(t, rules.IDConvertHasFlag).VerifyFix(t, `
using System;

enum Color { Red = 1, Green = 2 }

class C
{
    bool M(Color c) => [|c.HasFlag(Color.Red)|];
}
`, `
using System;

enum Color { Red = 1, Green = 2 }

class C
{
    bool M(Color c) => (c & Color.Red) != 0;
}
`)
}
