package rules

import (
	"fmt"

	"github.com/Sumatoshi-tech/codefix/pkg/match"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// ConvertHasFlag reports recv.HasFlag(flag) on a concrete enum whose
// argument has the same enum type, and rewrites it to (recv & flag) != 0.
// A negation or comparison with a boolean literal consuming the call is
// folded into the comparison operator. Calls inside a ?. chain are skipped
// because their result is a nullable bool.
func ConvertHasFlag() rule.Descriptor {
	return rule.Descriptor{
		ID:       IDConvertHasFlag,
		Title:    "Convert 'HasFlag' call to bitwise operation",
		Category: categoryPerf,
		Severity: rule.SeverityInfo,
		Triggers: []syntax.Kind{syntax.KindInvocation},
		Matcher: match.Spec{
			Shape: match.Capture(captureCall, match.Kind(syntax.KindInvocation,
				match.Field(syntax.FieldFunction, match.Kind(syntax.KindMemberAccess,
					match.Field(syntax.FieldExpression, match.Capture(captureReceiver, match.Any())),
					match.Field(syntax.FieldName, match.Text(hasFlagMethodName)),
				)),
				match.Field(syntax.FieldArguments, match.Kind(syntax.KindArgumentList,
					match.Only(syntax.KindArgument, match.Kind(syntax.KindArgument,
						match.Field(syntax.FieldExpression, match.Capture(captureFlag, match.Any())),
					)),
				)),
			)),
			Guard: func(c syntax.Cursor, _ match.Captures) bool {
				return !match.InConditionalAccess(c)
			},
			Semantic: match.All(
				match.IsWellKnownMember(captureCall, semantic.MemberEnumHasFlag),
				match.IsConcreteEnum(captureReceiver),
				match.SameType(captureReceiver, captureFlag),
			),
			BooleanTarget: true,
		},
		Synthesizer: hasFlagToBitwise,
	}
}

func hasFlagToBitwise(m match.Match) (*syntax.Node, error) {
	recv, flag := m.Capture(captureReceiver), m.Capture(captureFlag)
	if recv == nil || flag == nil {
		return nil, fmt.Errorf("%s: %w", IDConvertHasFlag, errMissingCapture)
	}

	op := "!="
	if m.Negated {
		op = "=="
	}

	expr := syntax.Binary(syntax.Binary(recv, "&", flag), op, syntax.Literal("0"))

	return syntax.Parenthesize(expr, m.Parent, m.Field), nil
}
