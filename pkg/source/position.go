// Package source holds source-text positions shared by every compiler stage.
package source

import "fmt"

// Position locates a single rune in a source file.
// Index is the 0-based rune offset; Line and Column are 1-based.
type Position struct {
	Index    int
	Line     int
	Column   int
	Filename string
}

// Start returns the position of the first rune of filename.
func Start(filename string) Position {
	return Position{Index: 0, Line: 1, Column: 1, Filename: filename}
}

// Advance returns the position that follows r.
func (p Position) Advance(r rune) Position {
	if r == '\n' {
		return Position{Index: p.Index + 1, Line: p.Line + 1, Column: 1, Filename: p.Filename}
	}
	return Position{Index: p.Index + 1, Line: p.Line, Column: p.Column + 1, Filename: p.Filename}
}

// IsValid reports whether p was produced by a reader (line numbers start at 1).
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	name := p.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Column)
}
