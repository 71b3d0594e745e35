// Package golden compares stage output against a stored expected file.
package golden

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Missing fills the shorter side when the line counts differ.
const Missing = "<missing>"

// Diff is one differing line, numbered from 1.
type Diff struct {
	Line     int
	Expected string
	Actual   string
}

// Report is the outcome of a comparison.
type Report struct {
	Expected string
	Actual   string
	Diffs    []Diff
}

// Pass reports whether both sides matched.
func (r *Report) Pass() bool { return len(r.Diffs) == 0 }

// Compare matches expected against actual line by line after trimming
// surrounding whitespace from each side and normalizing line endings.
func Compare(expected, actual string) *Report {
	r := &Report{Expected: expected, Actual: actual}
	exp := lines(expected)
	act := lines(actual)
	n := max(len(exp), len(act))
	for i := range n {
		e, a := Missing, Missing
		if i < len(exp) {
			e = exp[i]
		}
		if i < len(act) {
			a = act[i]
		}
		if e != a {
			r.Diffs = append(r.Diffs, Diff{Line: i + 1, Expected: e, Actual: a})
		}
	}
	return r
}

func lines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimSpace(s), "\n")
}

// CompareFile reads the expected output from path.
func CompareFile(path, actual string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("expected output file not found at %q: %w", path, err)
	}
	return Compare(string(data), actual), nil
}

// Styler decorates the PASS and FAIL tags; nil leaves them plain.
type Styler func(pass bool, tag string) string

// Write prints the verdict and, on failure, both outputs and every
// differing line.
func (r *Report) Write(w io.Writer, style Styler) error {
	tag := func(pass bool, s string) string {
		if style == nil {
			return s
		}
		return style(pass, s)
	}
	if r.Pass() {
		_, err := fmt.Fprintf(w, "%s Output matches expected!\n", tag(true, "[PASS]"))
		return err
	}
	rule := strings.Repeat("-", 40)
	var b strings.Builder
	fmt.Fprintf(&b, "%s Output differs from expected:\n", tag(false, "[FAIL]"))
	fmt.Fprintf(&b, "\nExpected:\n%s\n%s\n", rule, r.Expected)
	fmt.Fprintf(&b, "\nActual:\n%s\n%s\n", rule, r.Actual)
	fmt.Fprintf(&b, "\nDifferences:\n%s\n", rule)
	for _, d := range r.Diffs {
		fmt.Fprintf(&b, "Line %d:\n  Expected: %s\n  Actual:   %s\n", d.Line, d.Expected, d.Actual)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
