package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const hello = `program Hello;
var x: integer;
begin
  x := 1
end.
`

// workspace creates tests/input/<name> under a fresh working directory and
// returns the relative source path.
func workspace(t *testing.T, name, src string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join("tests", "input", name)
	writeFile(t, path, src)
	return path
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestLex(t *testing.T) {
	src := workspace(t, "hello.pas", hello)
	out, _, err := execute(t, "lex", src)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 14 || lines[0] != "KEYWORD(program)" || lines[13] != "DOT(.)" {
		t.Errorf("lex output:\n%s", out)
	}
}

func TestSeveralFilesKeepArgumentOrder(t *testing.T) {
	first := workspace(t, "a.pas", "program A; begin end.")
	var files []string
	for _, name := range []string{"b", "c", "d", "e"} {
		path := filepath.Join("tests", "input", name+".pas")
		writeFile(t, path, "program "+strings.ToUpper(name)+"; begin end.")
		files = append(files, path)
	}
	bad := filepath.Join("tests", "input", "bad.pas")
	writeFile(t, bad, "program P; begin x := 1 end.")

	out, stderr, err := execute(t, append([]string{"analyze", first, bad}, files...)...)
	if !errors.Is(err, errReported) {
		t.Errorf("err = %v", err)
	}
	if !strings.HasPrefix(stderr, "[UndeclaredIdentifier] ") {
		t.Errorf("stderr = %q", stderr)
	}
	last := -1
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		i := strings.Index(out, "\n46     "+name+" ")
		if i <= last {
			t.Fatalf("program %s out of order:\n%s", name, out)
		}
		last = i
	}
	if n := strings.Count(out, "[SUCCESS]"); n != 5 {
		t.Errorf("%d successes, want 5", n)
	}
}

func TestParse(t *testing.T) {
	src := workspace(t, "hello.pas", hello)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Text", nil, "<program>\n├── <program-header>\n│   ├── KEYWORD(program)\n"},
		{"JSON", []string{"--format", "json"}, `"label": "program-header"`},
		{"YAML", []string{"-f", "yaml"}, "label: program-header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"parse", src}, tt.args...)...)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output lacks %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	src := workspace(t, "hello.pas", hello)
	want, _, err := execute(t, "lex", src)
	if err != nil {
		t.Fatal(err)
	}
	expected := filepath.Join("tests", "expected", "hello.txt")

	writeFile(t, expected, want)
	out, _, err := execute(t, "lex", "--check", src)
	if err != nil || !strings.Contains(out, "[PASS] Output matches expected!") {
		t.Errorf("passing check: %v\n%s", err, out)
	}

	writeFile(t, expected, strings.Replace(want, "IDENTIFIER(Hello)", "IDENTIFIER(World)", 1))
	out, _, err = execute(t, "lex", "--check", src)
	if !errors.Is(err, errReported) {
		t.Errorf("failing check returned %v", err)
	}
	for _, s := range []string{"[FAIL] Output differs from expected:", "Line 2:", "  Expected: IDENTIFIER(World)", "  Actual:   IDENTIFIER(Hello)"} {
		if !strings.Contains(out, s) {
			t.Errorf("output lacks %q:\n%s", s, out)
		}
	}

	os.Remove(expected)
	_, stderr, err := execute(t, "lex", "--check", src)
	if err == nil || !strings.Contains(stderr, "expected output file not found") {
		t.Errorf("missing expected file: %v, %q", err, stderr)
	}
}

func TestOutput(t *testing.T) {
	src := workspace(t, "hello.pas", hello)
	tests := []struct {
		name string
		args []string
		file string
		want string
	}{
		{"Default Path", []string{"analyze", "--output", src}, filepath.Join("tests", "output", "hello.symtab"), "SYMBOL TABLE"},
		{"Default JSON Path", []string{"analyze", "--output", "--format", "json", src}, filepath.Join("tests", "output", "hello.json"), `"btab"`},
		{"Explicit Path", []string{"parse", "--output=out/tree.txt", src}, filepath.Join("out", "tree.txt"), "<program>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "Output saved to: "+tt.file) {
				t.Errorf("output = %q", out)
			}
			data, err := os.ReadFile(tt.file)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("%s lacks %q:\n%s", tt.file, tt.want, data)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	src := workspace(t, "hello.pas", hello)
	out, _, err := execute(t, "analyze", "--decorated", src)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Decorated AST:",
		"ProgramNode(name: 'Hello')",
		"47     x",
		"[SUCCESS] Semantic analysis completed without errors.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Decorated AST:") > strings.Index(out, "SYMBOL TABLE") {
		t.Error("decorated AST printed after the tables")
	}
}

func TestCompileErrorsAreReported(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
		col  int
	}{
		{"Lexical", "program P; begin x := @ end.", "[LexicalError] ", 23},
		{"Syntax", "program P begin end.", "[SyntaxError] ", 11},
		{"Semantic", "program P; begin y := 1 end.", "[UndeclaredIdentifier] ", 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := workspace(t, "bad.pas", tt.src)
			out, stderr, err := execute(t, "analyze", src)
			if !errors.Is(err, errReported) {
				t.Errorf("err = %v", err)
			}
			if !strings.HasPrefix(stderr, tt.want) || !strings.Contains(stderr, " at "+src+":1:") {
				t.Errorf("stderr = %q", stderr)
			}
			snippet := "\n> 1 | " + tt.src + "\n    | " + strings.Repeat(" ", tt.col-1) + "^\n"
			if !strings.HasSuffix(stderr, snippet) {
				t.Errorf("stderr lacks source context %q:\n%s", snippet, stderr)
			}
			if strings.Contains(out, "[SUCCESS]") {
				t.Errorf("stdout = %q", out)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	src := workspace(t, "halo.pas", "program P; variabel x: integer; mulai x := 1 selesai.")
	writeFile(t, "pascals.yaml", "vocabulary: id\noutput_dir: build\n")

	out, _, err := execute(t, "lex", "--output", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, filepath.Join("build", "halo.txt")) {
		t.Errorf("output = %q", out)
	}

	// the flag overrides the config
	_, stderr, err := execute(t, "--vocab", "english", "analyze", src)
	if err == nil || !strings.Contains(stderr, "[SyntaxError]") {
		t.Errorf("english register accepted Indonesian source: %v %q", err, stderr)
	}

	if _, _, err := execute(t, "--vocab", "latin", "lex", src); err == nil {
		t.Error("unknown register accepted")
	}
	if _, _, err := execute(t, "--config", "missing.toml", "lex", src); err == nil {
		t.Error("missing config accepted")
	}
}

func TestVocab(t *testing.T) {
	workspace(t, "unused.pas", "")
	out, _, err := execute(t, "vocab")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "* english") || !strings.Contains(out, "  indonesian") {
		t.Errorf("vocab output:\n%s", out)
	}

	out, _, err = execute(t, "vocab", "indonesian")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"indonesian\n", "begin        mulai\n", "var          variabel\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	if _, _, err := execute(t, "vocab", "latin"); err == nil {
		t.Error("unknown register accepted")
	}
}

// syncBuffer is a bytes.Buffer safe for the watch goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch(t *testing.T) {
	src := workspace(t, "hello.pas", hello)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"lex", "--watch", src})
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for !strings.Contains(out.String(), want) {
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for %q:\n%s", want, out.String())
			}
			time.Sleep(20 * time.Millisecond)
		}
	}
	waitFor("Watching for changes.")

	writeFile(t, src, strings.Replace(hello, "Hello", "Again", 1))
	waitFor("Changed: " + src)
	waitFor("IDENTIFIER(Again)")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
