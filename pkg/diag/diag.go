// Package diag defines the error taxonomy shared by the lexer, parser and
// semantic analyzer. Every error carries a kind, a message and the source
// position it refers to, and renders as
//
//	[Kind] message at file:line:col
package diag

import (
	"errors"
	"fmt"

	"pascals/pkg/source"
)

// Kind classifies a compiler error.
type Kind int

const (
	LexicalError Kind = iota + 1
	SyntaxError
	UndeclaredIdentifier
	Redeclaration
	TypeMismatch
	ArityMismatch
	NotAddressable
	InvalidFieldAccess
	InvalidIndex
)

var kindNames = [...]string{
	LexicalError:         "LexicalError",
	SyntaxError:          "SyntaxError",
	UndeclaredIdentifier: "UndeclaredIdentifier",
	Redeclaration:        "Redeclaration",
	TypeMismatch:         "TypeMismatch",
	ArityMismatch:        "ArityMismatch",
	NotAddressable:       "NotAddressable",
	InvalidFieldAccess:   "InvalidFieldAccess",
	InvalidIndex:         "InvalidIndex",
}

func (k Kind) String() string {
	if int(k) > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsSemantic reports whether k is raised by the semantic analyzer.
func (k Kind) IsSemantic() bool { return k >= UndeclaredIdentifier && k <= InvalidIndex }

// Error is a positioned compiler error.
type Error struct {
	Kind Kind
	Msg  string
	Pos  source.Position
}

// Errorf builds an *Error of the given kind at pos.
func Errorf(kind Kind, pos source.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s at %s", e.Kind, e.Msg, e.Pos)
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
