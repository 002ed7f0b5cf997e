package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// ErrArchive is returned for a malformed fixture archive.
var ErrArchive = errors.New("invalid fixture archive")

// Archive file stems. The extension is free, e.g. before.cs.
const (
	beforeStem = "before"
	afterStem  = "after"
)

// Case is one fixture read from a txtar archive. The archive comment holds
// the rule id; before holds the marked source and the optional after holds
// the expected fix.
type Case struct {
	Name     string
	RuleID   string
	Before   string
	After    string
	HasAfter bool
}

// LoadArchive reads a fixture archive.
func LoadArchive(path string) (Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Case{}, fmt.Errorf("read fixture archive: %w", err)
	}

	return ParseArchive(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), data)
}

// ParseArchive decodes archive data.
func ParseArchive(name string, data []byte) (Case, error) {
	ar := txtar.Parse(data)
	c := Case{Name: name}

	for line := range strings.SplitSeq(string(ar.Comment), "\n") {
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			c.RuleID = line

			break
		}
	}

	if c.RuleID == "" {
		return Case{}, fmt.Errorf("%w: %s: comment names no rule id", ErrArchive, name)
	}

	var hasBefore bool

	for _, f := range ar.Files {
		switch strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) {
		case beforeStem:
			c.Before, hasBefore = string(f.Data), true
		case afterStem:
			c.After, c.HasAfter = string(f.Data), true
		default:
			return Case{}, fmt.Errorf("%w: %s: unexpected file %q", ErrArchive, name, f.Name)
		}
	}

	if !hasBefore {
		return Case{}, fmt.Errorf("%w: %s: no %s file", ErrArchive, name, beforeStem)
	}

	return c, nil
}

// LoadArchives reads every *.txtar file of dir in name order.
func LoadArchives(dir string) ([]Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	if err != nil {
		return nil, fmt.Errorf("list fixture archives: %w", err)
	}

	sort.Strings(paths)

	cases := make([]Case, 0, len(paths))

	for _, p := range paths {
		c, loadErr := LoadArchive(p)
		if loadErr != nil {
			return nil, loadErr
		}

		cases = append(cases, c)
	}

	return cases, nil
}

// Verify runs the check c calls for: a fix when it has an after file, a
// diagnostic when before is marked, otherwise silence. base supplies the
// registry and front end; its RuleID is replaced by the case's.
func (c Case) Verify(t TestingT, base Verifier) {
	t.Helper()

	v := base
	v.RuleID = c.RuleID

	switch {
	case c.HasAfter:
		v.VerifyFix(t, c.Before, c.After)
	case strings.Contains(c.Before, OpenMarker):
		v.VerifyDiagnostic(t, c.Before)
	default:
		v.VerifyNoDiagnostic(t, c.Before)
	}
}

// RunArchives verifies every archive of dir as a parallel subtest.
func RunArchives(t *testing.T, dir string, base Verifier) {
	t.Helper()

	cases, err := LoadArchives(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(cases) == 0 {
		t.Fatalf("no fixture archives in %s", dir)
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()

			c.Verify(t, base)
		})
	}
}
