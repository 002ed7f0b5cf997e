// Package textutil provides text utilities shared by the fixture verifier
// and the codefix CLI: binary sniffing and line diffs.
package textutil

import (
	"bytes"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// sniffLength is how much of a file IsBinary inspects.
const sniffLength = 8000

// IsBinary reports whether data holds a NUL byte early on. Source files
// never do; images and compiled assemblies almost always do.
func IsBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), sniffLength)], 0) >= 0
}

// LineDiff renders a line-oriented diff from want to got. Removed lines are
// prefixed with "-", added lines with "+" and unchanged lines with a space.
// Identical inputs yield "".
func LineDiff(want, got string) string {
	if want == got {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder

	for _, d := range diffs {
		prefix := " "

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range splitLines(d.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)

			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n\\ no newline at end\n")
			}
		}
	}

	return sb.String()
}

// splitLines splits s after every newline, keeping the terminators.
func splitLines(s string) []string {
	var out []string

	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)

			break
		}

		out = append(out, s[:i+1])
		s = s[i+1:]
	}

	return out
}

// Visible makes whitespace differences readable in a one-line message.
func Visible(s string) string {
	return strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`).Replace(s)
}
