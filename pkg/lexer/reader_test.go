package lexer

import "testing"

func TestReader(t *testing.T) {
	r := NewReader("r.pas", "ab\nc")
	if r.Current() != 'a' || r.Peek(1) != 'b' || r.Peek(2) != '\n' || r.Peek(9) != 0 {
		t.Fatalf("unexpected lookahead")
	}
	start := r.Pos()
	if err := r.Expect('a'); err != nil {
		t.Fatal(err)
	}
	if err := r.Expect('x'); err == nil {
		t.Error("Expect(x) succeeded on 'b'")
	}
	r.Advance()
	r.Advance()
	if p := r.Pos(); p.Line != 2 || p.Column != 1 || r.Current() != 'c' {
		t.Errorf("after newline at %v, current %q", p, r.Current())
	}
	if got := r.Text(start, r.Pos()); got != "ab\n" {
		t.Errorf("Text = %q", got)
	}
	r.Advance()
	if !r.EOF() || r.Current() != 0 {
		t.Error("expected EOF")
	}
	r.Seek(start)
	if r.Current() != 'a' {
		t.Error("Seek did not rewind")
	}
}
