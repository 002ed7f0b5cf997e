// Package rules holds the bundled idiom rules. Importing it registers
// every rule into rule.Default.
package rules

import (
	"errors"

	"github.com/Sumatoshi-tech/codefix/pkg/rule"
)

// Rule ids.
const (
	IDConvertHasFlag = "RCS1096"
	IDAwaitUsing     = "RCS1249"
)

const (
	categoryPerf  = "Performance"
	categoryUsage = "Usage"
)

// Capture names.
const (
	captureCall     = "call"
	captureReceiver = "receiver"
	captureFlag     = "flag"
	captureKeyword  = "keyword"
	captureDecl     = "declaration"
)

const (
	keywordAwait      = "await"
	keywordUsing      = "using"
	hasFlagMethodName = "HasFlag"
)

var errMissingCapture = errors.New("match lacks a required capture")

// Descriptors returns every bundled rule in registration order.
func Descriptors() []rule.Descriptor {
	return []rule.Descriptor{
		ConvertHasFlag(),
		AwaitUsing(),
	}
}

// Register adds every bundled rule to r.
func Register(r *rule.Registry) error {
	for _, d := range Descriptors() {
		if err := r.Register(d); err != nil {
			return err
		}
	}

	return nil
}

func init() {
	for _, d := range Descriptors() {
		rule.MustRegister(d)
	}
}
