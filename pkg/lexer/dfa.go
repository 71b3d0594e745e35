package lexer

import (
	"unicode"

	"pascals/pkg/token"
)

// charClass partitions the input alphabet for the transition table.
type charClass uint8

const (
	cOther charClass = iota
	cLetter
	cDigit
	cSpace
	cNewline
	cQuote
	cDot
	cColon
	cLess
	cGreater
	cEquals
	cArith // + - /
	cStar
	cLBrace
	cRBrace
	cLParen
	cRParen
	cLBracket
	cRBracket
	cSemicolon
	cComma
	numClasses
)

func classify(r rune) charClass {
	switch r {
	case '\n':
		return cNewline
	case '\'':
		return cQuote
	case '.':
		return cDot
	case ':':
		return cColon
	case '<':
		return cLess
	case '>':
		return cGreater
	case '=':
		return cEquals
	case '+', '-', '/':
		return cArith
	case '*':
		return cStar
	case '{':
		return cLBrace
	case '}':
		return cRBrace
	case '(':
		return cLParen
	case ')':
		return cRParen
	case '[':
		return cLBracket
	case ']':
		return cRBracket
	case ';':
		return cSemicolon
	case ',':
		return cComma
	}
	switch {
	case r == '_' || unicode.IsLetter(r):
		return cLetter
	case r >= '0' && r <= '9':
		return cDigit
	case unicode.IsSpace(r):
		return cSpace
	}
	return cOther
}

// state is a DFA state. sDead (the zero value) means "no transition".
type state uint8

const (
	sDead state = iota
	sStart
	sIdent
	sNumber
	sNumberDot // digits followed by '.', waiting for a fraction digit
	sReal
	sSpace
	sStrBody // inside a quoted literal
	sStrEnd  // closing quote seen; a second quote re-enters the body
	sBraceBody
	sBraceEnd
	sLParen
	sParenBody
	sParenStar // '*' seen inside (* ... *), ')' would close
	sParenEnd
	sColon
	sAssign
	sLess
	sLessEq
	sNotEq
	sGreater
	sGreaterEq
	sEquals
	sArith
	sStar
	sDot
	sRange
	sRParen
	sLBracket
	sRBracket
	sSemicolon
	sComma
	numStates
)

// acceptance describes what an accepting state produces.
type acceptance struct {
	ok   bool
	skip bool // whitespace or comment
	kind token.Kind
}

var (
	transitions [numStates][numClasses]state
	accepting   [numStates]acceptance
)

func init() {
	on := func(from state, c charClass, to state) { transitions[from][c] = to }
	all := func(from state, to state) {
		for c := charClass(0); c < numClasses; c++ {
			transitions[from][c] = to
		}
	}
	accept := func(s state, k token.Kind) { accepting[s] = acceptance{ok: true, kind: k} }
	skip := func(s state) { accepting[s] = acceptance{ok: true, skip: true} }

	// identifiers and keywords
	on(sStart, cLetter, sIdent)
	on(sIdent, cLetter, sIdent)
	on(sIdent, cDigit, sIdent)
	accept(sIdent, token.IDENTIFIER)

	// numbers: digits ['.' digits]
	on(sStart, cDigit, sNumber)
	on(sNumber, cDigit, sNumber)
	on(sNumber, cDot, sNumberDot)
	on(sNumberDot, cDigit, sReal)
	on(sReal, cDigit, sReal)
	accept(sNumber, token.NUMBER)
	accept(sReal, token.NUMBER)

	// whitespace
	on(sStart, cSpace, sSpace)
	on(sStart, cNewline, sSpace)
	on(sSpace, cSpace, sSpace)
	on(sSpace, cNewline, sSpace)
	skip(sSpace)

	// quoted literals; '' inside the body is an escaped quote
	on(sStart, cQuote, sStrBody)
	all(sStrBody, sStrBody)
	on(sStrBody, cNewline, sDead)
	on(sStrBody, cQuote, sStrEnd)
	on(sStrEnd, cQuote, sStrBody)
	accept(sStrEnd, token.STRING)

	// { ... }
	on(sStart, cLBrace, sBraceBody)
	all(sBraceBody, sBraceBody)
	on(sBraceBody, cRBrace, sBraceEnd)
	skip(sBraceEnd)

	// ( or (* ... *)
	on(sStart, cLParen, sLParen)
	accept(sLParen, token.LPAREN)
	on(sLParen, cStar, sParenBody)
	all(sParenBody, sParenBody)
	on(sParenBody, cStar, sParenStar)
	all(sParenStar, sParenBody)
	on(sParenStar, cStar, sParenStar)
	on(sParenStar, cRParen, sParenEnd)
	skip(sParenEnd)

	// : and :=
	on(sStart, cColon, sColon)
	on(sColon, cEquals, sAssign)
	accept(sColon, token.COLON)
	accept(sAssign, token.ASSIGN)

	// relational operators
	on(sStart, cLess, sLess)
	on(sLess, cEquals, sLessEq)
	on(sLess, cGreater, sNotEq)
	on(sStart, cGreater, sGreater)
	on(sGreater, cEquals, sGreaterEq)
	on(sStart, cEquals, sEquals)
	for _, s := range []state{sLess, sLessEq, sNotEq, sGreater, sGreaterEq, sEquals} {
		accept(s, token.RELATIONAL_OPERATOR)
	}

	// arithmetic symbols
	on(sStart, cArith, sArith)
	on(sStart, cStar, sStar)
	accept(sArith, token.ARITHMETIC_OPERATOR)
	accept(sStar, token.ARITHMETIC_OPERATOR)

	// . and ..
	on(sStart, cDot, sDot)
	on(sDot, cDot, sRange)
	accept(sDot, token.DOT)
	accept(sRange, token.RANGE)

	// single-character punctuation
	on(sStart, cRParen, sRParen)
	on(sStart, cLBracket, sLBracket)
	on(sStart, cRBracket, sRBracket)
	on(sStart, cSemicolon, sSemicolon)
	on(sStart, cComma, sComma)
	accept(sRParen, token.RPAREN)
	accept(sLBracket, token.LBRACKET)
	accept(sRBracket, token.RBRACKET)
	accept(sSemicolon, token.SEMICOLON)
	accept(sComma, token.COMMA)
}

// step returns the successor of s on r, or sDead.
func step(s state, r rune) state {
	return transitions[s][classify(r)]
}

// unterminated reports whether stopping in s means a literal or comment was
// left open.
func unterminated(s state) (what string, open bool) {
	switch s {
	case sStrBody:
		return "string literal", true
	case sBraceBody:
		return "comment", true
	case sParenBody, sParenStar:
		return "comment", true
	}
	return "", false
}

var operatorSyms = map[string]token.Sym{
	"+":  token.Plus,
	"-":  token.Minus,
	"*":  token.Star,
	"/":  token.Slash,
	"=":  token.Eq,
	"<>": token.Neq,
	"<":  token.Lt,
	"<=": token.Le,
	">":  token.Gt,
	">=": token.Ge,
}
