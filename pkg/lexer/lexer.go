// Package lexer turns Pascal-S source text into tokens.
//
// Recognition is driven by a table-based DFA over character classes with
// maximal munch. Identifiers are classified against a keyword vocabulary
// (see Vocabulary), so the same grammar can be written in any registered
// keyword register.
package lexer

import (
	"strings"

	"pascals/pkg/diag"
	"pascals/pkg/token"
)

// Lexer tokenizes source text using one keyword vocabulary.
// A Lexer holds no per-input state and may be reused.
type Lexer struct {
	vocab    *Vocabulary
	filename string
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFilename sets the file name recorded in token positions.
func WithFilename(name string) Option {
	return func(l *Lexer) { l.filename = name }
}

// New returns a Lexer for vocabulary v; a nil v selects the default register.
func New(v *Vocabulary, opts ...Option) *Lexer {
	if v == nil {
		v = MustLookup(DefaultVocabulary)
	}
	l := &Lexer{vocab: v}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Vocabulary returns the register the lexer classifies words with.
func (l *Lexer) Vocabulary() *Vocabulary { return l.vocab }

// Tokenize is shorthand for New(nil, WithFilename(filename)).Tokenize(src).
func Tokenize(filename, src string) ([]token.Token, error) {
	return New(nil, WithFilename(filename)).Tokenize(src)
}

// Tokenize scans src and returns all significant tokens followed by a single
// EOF token. Whitespace and comments are consumed but not returned.
// It stops at the first lexical error.
func (l *Lexer) Tokenize(src string) ([]token.Token, error) {
	s := scanner{r: NewReader(l.filename, src), vocab: l.vocab}
	var tokens []token.Token
	for {
		tok, skip, err := s.next()
		if err != nil {
			return tokens, err
		}
		if skip {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

type scanner struct {
	r     *Reader
	vocab *Vocabulary
}

// next runs the DFA from the cursor and returns the longest accepted lexeme.
// skip is true for whitespace and comments.
func (s *scanner) next() (tok token.Token, skip bool, err error) {
	start := s.r.Pos()
	if s.r.EOF() {
		return token.Token{Kind: token.EOF, Pos: start}, false, nil
	}

	st := sStart
	last := sDead
	lastEnd := start
	for !s.r.EOF() {
		nxt := step(st, s.r.Current())
		if nxt == sDead {
			break
		}
		st = nxt
		s.r.Advance()
		if accepting[st].ok {
			last, lastEnd = st, s.r.Pos()
		}
	}

	if what, open := unterminated(st); open {
		return tok, false, diag.Errorf(diag.LexicalError, start, "unterminated %s", what)
	}
	if last == sDead {
		return tok, false, diag.Errorf(diag.LexicalError, start, "unexpected character %q", s.r.Current())
	}

	s.r.Seek(lastEnd)
	acc := accepting[last]
	if acc.skip {
		return tok, true, nil
	}

	tok = token.Token{Kind: acc.kind, Lexeme: s.r.Text(start, lastEnd), Pos: start}
	switch acc.kind {
	case token.IDENTIFIER:
		s.classifyWord(&tok)
	case token.STRING:
		if len([]rune(Unquote(tok.Lexeme))) == 1 {
			tok.Kind = token.CHAR
		}
	case token.ARITHMETIC_OPERATOR, token.RELATIONAL_OPERATOR:
		tok.Sym = operatorSyms[tok.Lexeme]
	}
	return tok, false, nil
}

// classifyWord looks an identifier up in the vocabulary, first trying to
// extend it into a hyphenated word such as "turun-ke".
func (s *scanner) classifyWord(tok *token.Token) {
	if s.r.Current() == '-' && s.vocab.hyphenHead(tok.Lexeme) {
		n := 1
		for c := classify(s.r.Peek(n)); c == cLetter || c == cDigit; c = classify(s.r.Peek(n)) {
			n++
		}
		if n > 1 {
			var b strings.Builder
			b.WriteString(tok.Lexeme)
			for i := 0; i < n; i++ {
				b.WriteRune(s.r.Peek(i))
			}
			if _, ok := s.vocab.Match(b.String()); ok {
				tok.Lexeme = b.String()
				for i := 0; i < n; i++ {
					s.r.Advance()
				}
			}
		}
	}
	if sym, ok := s.vocab.Match(tok.Lexeme); ok {
		tok.Kind = sym.Kind()
		tok.Sym = sym
	}
}

// Unquote returns the value of a quoted literal lexeme, collapsing doubled
// quotes.
func Unquote(lexeme string) string {
	if len(lexeme) >= 2 && lexeme[0] == '\'' && lexeme[len(lexeme)-1] == '\'' {
		lexeme = lexeme[1 : len(lexeme)-1]
	}
	return strings.ReplaceAll(lexeme, "''", "'")
}
