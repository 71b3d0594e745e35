// Package token defines the lexical units exchanged between the lexer and the
// parser.
//
// A Token has a coarse Kind (what the dumps print) and, for keywords and
// operators, a normalized Sym that is independent of the keyword vocabulary
// the source was written in. The parser dispatches on Kind and Sym only.
package token

import (
	"fmt"

	"pascals/pkg/source"
)

// Kind identifies the category of a lexed token.
type Kind int

const (
	EOF Kind = iota // sentinel: end of input

	// Words and literals
	KEYWORD    // program, begin, if, integer, ...
	IDENTIFIER // user or builtin name
	NUMBER     // 42, 3.14
	STRING     // 'hello'
	CHAR       // 'a'

	// Operators
	ARITHMETIC_OPERATOR // + - * / div mod
	RELATIONAL_OPERATOR // = <> < <= > >=
	LOGICAL_OPERATOR    // and or not
	ASSIGN              // :=

	// Punctuation
	SEMICOLON // ;
	COMMA     // ,
	COLON     // :
	DOT       // .
	RANGE     // ..
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
)

var kindNames = [...]string{
	EOF:                 "EOF",
	KEYWORD:             "KEYWORD",
	IDENTIFIER:          "IDENTIFIER",
	NUMBER:              "NUMBER",
	STRING:              "STRING",
	CHAR:                "CHAR",
	ARITHMETIC_OPERATOR: "ARITHMETIC_OPERATOR",
	RELATIONAL_OPERATOR: "RELATIONAL_OPERATOR",
	LOGICAL_OPERATOR:    "LOGICAL_OPERATOR",
	ASSIGN:              "ASSIGN",
	SEMICOLON:           "SEMICOLON",
	COMMA:               "COMMA",
	COLON:               "COLON",
	DOT:                 "DOT",
	RANGE:               "RANGE",
	LPAREN:              "LPAREN",
	RPAREN:              "RPAREN",
	LBRACKET:            "LBRACKET",
	RBRACKET:            "RBRACKET",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Kind   Kind
	Sym    Sym    // normalized keyword/operator identity, None otherwise
	Lexeme string // the exact source text that was matched
	Pos    source.Position
}

// Is reports whether t carries the normalized symbol s.
func (t Token) Is(s Sym) bool { return s != None && t.Sym == s }

// IsReal reports whether a NUMBER token holds a fixed-point real literal.
func (t Token) IsReal() bool {
	if t.Kind != NUMBER {
		return false
	}
	for _, r := range t.Lexeme {
		if r == '.' {
			return true
		}
	}
	return false
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
}
