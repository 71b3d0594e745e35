package golden

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     []Diff
	}{
		{"Identical", "a\nb\n", "a\nb", nil},
		{"Surrounding Whitespace", "\n  a\nb  \n\n", "a\nb", nil},
		{"CRLF", "a\r\nb\r\n", "a\nb\n", nil},
		{"Changed Line", "a\nb\nc", "a\nx\nc", []Diff{{2, "b", "x"}}},
		{"Actual Shorter", "a\nb\nc", "a", []Diff{{2, "b", Missing}, {3, "c", Missing}}},
		{"Actual Longer", "a", "a\nb", []Diff{{2, Missing, "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compare(tt.expected, tt.actual)
			if !reflect.DeepEqual(r.Diffs, tt.want) {
				t.Errorf("diffs = %+v, want %+v", r.Diffs, tt.want)
			}
			if r.Pass() != (tt.want == nil) {
				t.Errorf("Pass() = %v", r.Pass())
			}
		})
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Compare("a", "a").Write(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[PASS] Output matches expected!\n" {
		t.Errorf("pass output = %q", buf.String())
	}

	buf.Reset()
	style := func(pass bool, tag string) string {
		if pass {
			return "+" + tag
		}
		return "!" + tag
	}
	if err := Compare("a\nb", "a\nc").Write(&buf, style); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"![FAIL] Output differs from expected:",
		"Line 2:\n  Expected: b\n  Actual:   c\n",
		"\nExpected:\n" + strings.Repeat("-", 40) + "\na\nb\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestCompareFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := CompareFile(path, "x")
	if err != nil || !r.Pass() {
		t.Errorf("CompareFile = %+v, %v", r, err)
	}
	if _, err := CompareFile(filepath.Join(t.TempDir(), "none.txt"), "x"); err == nil {
		t.Error("expected error for missing file")
	}
}
