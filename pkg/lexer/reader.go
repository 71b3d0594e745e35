package lexer

import (
	"pascals/pkg/diag"
	"pascals/pkg/source"
)

// Reader is a positioned rune cursor over a source buffer.
type Reader struct {
	src []rune
	pos source.Position
}

// NewReader returns a Reader positioned at the first rune of text.
func NewReader(filename, text string) *Reader {
	return &Reader{src: []rune(text), pos: source.Start(filename)}
}

// Current returns the rune under the cursor, or 0 at end of input.
func (r *Reader) Current() rune {
	return r.Peek(0)
}

// Peek returns the rune n positions after the cursor without consuming it,
// or 0 past the end of input.
func (r *Reader) Peek(n int) rune {
	i := r.pos.Index + n
	if i < 0 || i >= len(r.src) {
		return 0
	}
	return r.src[i]
}

// Advance consumes one rune. It is a no-op at end of input.
func (r *Reader) Advance() {
	if r.EOF() {
		return
	}
	r.pos = r.pos.Advance(r.src[r.pos.Index])
}

// EOF reports whether every rune has been consumed.
func (r *Reader) EOF() bool { return r.pos.Index >= len(r.src) }

// Pos returns the position of the rune under the cursor.
func (r *Reader) Pos() source.Position { return r.pos }

// Seek moves the cursor back to a position previously returned by Pos.
func (r *Reader) Seek(p source.Position) { r.pos = p }

// Text returns the source runes between two positions.
func (r *Reader) Text(from, to source.Position) string {
	return string(r.src[from.Index:to.Index])
}

// Expect consumes ch or fails with a LexicalError at the cursor.
func (r *Reader) Expect(ch rune) error {
	if r.EOF() {
		return diag.Errorf(diag.LexicalError, r.pos, "expected %q, got end of input", ch)
	}
	if got := r.Current(); got != ch {
		return diag.Errorf(diag.LexicalError, r.pos, "expected %q, got %q", ch, got)
	}
	r.Advance()
	return nil
}
