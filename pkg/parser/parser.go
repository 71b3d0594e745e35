// Package parser builds a labeled parse tree from a token stream by recursive
// descent.
//
// Grammar (Pascal-S subset):
//
//	program          = "program" IDENT ";" block "."
//	block            = declaration-part compound-statement
//	declaration-part = { const-section | type-section | var-section
//	                   | procedure-declaration | function-declaration }
//	const-section    = "const" IDENT "=" constant ";" { IDENT "=" constant ";" }
//	type-section     = "type" IDENT "=" type ";" { IDENT "=" type ";" }
//	var-section      = "var" identifier-list ":" type ";" { identifier-list ":" type ";" }
//	type             = IDENT | type-name | subrange
//	                 | "array" "[" subrange "]" "of" type
//	                 | "record" field-declaration { ";" field-declaration } [";"] "end"
//	subrange         = constant ".." constant
//	procedure-decl   = "procedure" IDENT [formal-parameter-list] ";" block ";"
//	function-decl    = "function" IDENT [formal-parameter-list] ":" type ";" block ";"
//	formal-parameter-list = "(" parameter-group { ";" parameter-group } ")"
//	parameter-group  = ["var"] identifier-list ":" type
//	statement        = [ assignment | call | compound | if | while | for | repeat ]
//	expression       = and-expr { "or" and-expr }
//	and-expr         = relation { "and" relation }
//	relation         = additive [ relop additive ]
//	additive         = term { ("+" | "-") term }
//	term             = unary { ("*" | "/" | "div" | "mod") unary }
//	unary            = ("not" | "-" | "+") unary | primary
//	primary          = literal | variable | call | "(" expression ")"
//
// The parser dispatches on token kinds and normalized symbols only, so every
// keyword register parses identically. It stops at the first syntax error.
package parser

import (
	"fmt"

	"pascals/pkg/diag"
	"pascals/pkg/source"
	"pascals/pkg/token"
)

// Parser consumes the token slice produced by the lexer.
type Parser struct {
	tokens []token.Token
	pos    int
	spell  func(token.Sym) string
}

// Option configures a Parser.
type Option func(*Parser)

// WithSpelling makes error messages name keywords the way the source's
// register spells them.
func WithSpelling(spell func(token.Sym) string) Option {
	return func(p *Parser) {
		if spell != nil {
			p.spell = spell
		}
	}
}

// New returns a parser over tokens.
func New(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens, spell: token.Sym.String}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a whole program.
func Parse(tokens []token.Token, opts ...Option) (*Node, error) {
	return New(tokens, opts...).ParseProgram()
}

// peek returns the current token without consuming it.
func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
// Past the end it returns an EOF token placed after the last real token.
func (p *Parser) peekAt(offset int) token.Token {
	if i := p.pos + offset; i < len(p.tokens) {
		return p.tokens[i]
	}
	var pos source.Position
	if n := len(p.tokens); n > 0 {
		pos = p.tokens[n-1].Pos
	}
	return token.Token{Kind: token.EOF, Pos: pos}
}

// advance consumes and returns the current token.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) at(s token.Sym) bool { return p.peek().Is(s) }

func (p *Parser) atKind(k token.Kind) bool { return p.peek().Kind == k }

// errorf reports a syntax error at the current token.
func (p *Parser) errorf(expected string) error {
	tok := p.peek()
	found := "end of input"
	if tok.Kind != token.EOF {
		found = tok.String()
	}
	return diag.Errorf(diag.SyntaxError, tok.Pos, "expected %s, found %s", expected, found)
}

// expect consumes a token of kind k or fails.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.atKind(k) {
		return token.Token{}, p.errorf(describeKind(k))
	}
	return p.advance(), nil
}

// expectSym consumes a keyword or operator carrying s or fails.
func (p *Parser) expectSym(s token.Sym) (token.Token, error) {
	if !p.at(s) {
		return token.Token{}, p.errorf(fmt.Sprintf("'%s'", p.spell(s)))
	}
	return p.advance(), nil
}

func describeKind(k token.Kind) string {
	switch k {
	case token.IDENTIFIER:
		return "identifier"
	case token.SEMICOLON:
		return "';'"
	case token.COLON:
		return "':'"
	case token.COMMA:
		return "','"
	case token.DOT:
		return "'.'"
	case token.RANGE:
		return "'..'"
	case token.ASSIGN:
		return "':='"
	case token.LPAREN:
		return "'('"
	case token.RPAREN:
		return "')'"
	case token.LBRACKET:
		return "'['"
	case token.RBRACKET:
		return "']'"
	case token.EOF:
		return "end of input"
	}
	return k.String()
}

// seq runs steps in order, stopping at the first error.
func seq(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// take returns a step that consumes a token of kind k into n.
func (p *Parser) take(n *Node, k token.Kind) func() error {
	return func() error {
		tok, err := p.expect(k)
		if err == nil {
			n.leaf(tok)
		}
		return err
	}
}

// takeSym returns a step that consumes a token carrying s into n.
func (p *Parser) takeSym(n *Node, s token.Sym) func() error {
	return func() error {
		tok, err := p.expectSym(s)
		if err == nil {
			n.leaf(tok)
		}
		return err
	}
}

// sub returns a step that parses a child node into n.
func (p *Parser) sub(n *Node, parse func() (Child, error)) func() error {
	return func() error {
		c, err := parse()
		if err == nil {
			n.add(c)
		}
		return err
	}
}

func nodeFn(parse func() (*Node, error)) func() (Child, error) {
	return func() (Child, error) {
		n, err := parse()
		if err != nil {
			return nil, err
		}
		return n, nil
	}
}

// ParseProgram parses the entry production and requires the input to end
// after the final dot.
func (p *Parser) ParseProgram() (*Node, error) {
	n := newNode(LabelProgram, p.peek().Pos)
	err := seq(
		p.sub(n, nodeFn(p.parseProgramHeader)),
		p.sub(n, nodeFn(p.parseBlock)),
		p.take(n, token.DOT),
	)
	if err != nil {
		return nil, err
	}
	if !p.atKind(token.EOF) {
		return nil, p.errorf("end of input")
	}
	return n, nil
}

func (p *Parser) parseProgramHeader() (*Node, error) {
	n := newNode(LabelProgramHeader, p.peek().Pos)
	err := seq(
		p.takeSym(n, token.Program),
		p.take(n, token.IDENTIFIER),
		p.take(n, token.SEMICOLON),
	)
	return n, err
}

func (p *Parser) parseBlock() (*Node, error) {
	n := newNode(LabelBlock, p.peek().Pos)
	err := seq(
		p.sub(n, nodeFn(p.parseDeclarationPart)),
		p.sub(n, nodeFn(p.parseCompound)),
	)
	return n, err
}

func (p *Parser) parseDeclarationPart() (*Node, error) {
	n := newNode(LabelDeclarationPart, p.peek().Pos)
	for {
		var parse func() (*Node, error)
		switch {
		case p.at(token.Const):
			parse = p.parseConstSection
		case p.at(token.Type):
			parse = p.parseTypeSection
		case p.at(token.Var):
			parse = p.parseVarSection
		case p.at(token.Procedure):
			parse = p.parseProcedure
		case p.at(token.Function):
			parse = p.parseFunction
		default:
			return n, nil
		}
		c, err := parse()
		if err != nil {
			return nil, err
		}
		n.add(c)
	}
}

// parseSection parses a keyword followed by one or more declarations, each
// beginning with an identifier.
func (p *Parser) parseSection(label string, kw token.Sym, decl func() (*Node, error)) (*Node, error) {
	n := newNode(label, p.peek().Pos)
	n.leaf(p.advance())
	if !p.atKind(token.IDENTIFIER) {
		return nil, p.errorf(fmt.Sprintf("identifier after '%s'", p.spell(kw)))
	}
	for p.atKind(token.IDENTIFIER) {
		d, err := decl()
		if err != nil {
			return nil, err
		}
		n.add(d)
	}
	return n, nil
}

func (p *Parser) parseConstSection() (*Node, error) {
	return p.parseSection(LabelConstSection, token.Const, func() (*Node, error) {
		n := newNode(LabelConstDecl, p.peek().Pos)
		err := seq(
			p.take(n, token.IDENTIFIER),
			p.takeSym(n, token.Eq),
			p.sub(n, nodeFn(p.parseConstant)),
			p.take(n, token.SEMICOLON),
		)
		return n, err
	})
}

func (p *Parser) parseTypeSection() (*Node, error) {
	return p.parseSection(LabelTypeSection, token.Type, func() (*Node, error) {
		n := newNode(LabelTypeDecl, p.peek().Pos)
		err := seq(
			p.take(n, token.IDENTIFIER),
			p.takeSym(n, token.Eq),
			p.sub(n, nodeFn(p.parseType)),
			p.take(n, token.SEMICOLON),
		)
		return n, err
	})
}

func (p *Parser) parseVarSection() (*Node, error) {
	return p.parseSection(LabelVarSection, token.Var, func() (*Node, error) {
		n := newNode(LabelVarDecl, p.peek().Pos)
		err := seq(
			p.sub(n, nodeFn(p.parseIdentList)),
			p.take(n, token.COLON),
			p.sub(n, nodeFn(p.parseType)),
			p.take(n, token.SEMICOLON),
		)
		return n, err
	})
}

func (p *Parser) parseIdentList() (*Node, error) {
	n := newNode(LabelIdentList, p.peek().Pos)
	if err := p.take(n, token.IDENTIFIER)(); err != nil {
		return nil, err
	}
	for p.atKind(token.COMMA) {
		n.leaf(p.advance())
		if err := p.take(n, token.IDENTIFIER)(); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// parseConstant parses a literal constant or a constant identifier, with an
// optional sign on numbers and identifiers.
func (p *Parser) parseConstant() (*Node, error) {
	n := newNode(LabelConstant, p.peek().Pos)
	signed := false
	if p.at(token.Plus) || p.at(token.Minus) {
		n.leaf(p.advance())
		signed = true
	}
	tok := p.peek()
	switch {
	case tok.Kind == token.NUMBER, tok.Kind == token.IDENTIFIER:
	case !signed && (tok.Kind == token.STRING || tok.Kind == token.CHAR || tok.Is(token.True) || tok.Is(token.False)):
	default:
		return nil, p.errorf("constant")
	}
	n.leaf(p.advance())
	return n, nil
}

func (p *Parser) startsConstant() bool {
	switch p.peek().Kind {
	case token.NUMBER, token.CHAR:
		return true
	}
	return p.at(token.Plus) || p.at(token.Minus)
}

func (p *Parser) parseType() (*Node, error) {
	n := newNode(LabelType, p.peek().Pos)
	tok := p.peek()
	switch {
	case tok.Is(token.Array):
		return n, p.sub(n, nodeFn(p.parseArrayType))()
	case tok.Is(token.Record):
		return n, p.sub(n, nodeFn(p.parseRecordType))()
	case tok.Kind == token.IDENTIFIER && p.peekAt(1).Kind == token.RANGE, p.startsConstant():
		return n, p.sub(n, nodeFn(p.parseSubrange))()
	case tok.Kind == token.IDENTIFIER, tok.Sym.IsTypeName():
		n.leaf(p.advance())
		return n, nil
	}
	return nil, p.errorf("type")
}

func (p *Parser) parseSubrange() (*Node, error) {
	n := newNode(LabelSubrange, p.peek().Pos)
	err := seq(
		p.sub(n, nodeFn(p.parseConstant)),
		p.take(n, token.RANGE),
		p.sub(n, nodeFn(p.parseConstant)),
	)
	return n, err
}

func (p *Parser) parseArrayType() (*Node, error) {
	n := newNode(LabelArrayType, p.peek().Pos)
	err := seq(
		p.takeSym(n, token.Array),
		p.take(n, token.LBRACKET),
		p.sub(n, nodeFn(p.parseSubrange)),
		p.take(n, token.RBRACKET),
		p.takeSym(n, token.Of),
		p.sub(n, nodeFn(p.parseType)),
	)
	return n, err
}

func (p *Parser) parseRecordType() (*Node, error) {
	n := newNode(LabelRecordType, p.peek().Pos)
	n.leaf(p.advance())
	field := func() error {
		f := newNode(LabelFieldDecl, p.peek().Pos)
		err := seq(
			p.sub(f, nodeFn(p.parseIdentList)),
			p.take(f, token.COLON),
			p.sub(f, nodeFn(p.parseType)),
		)
		if err == nil {
			n.add(f)
		}
		return err
	}
	if err := field(); err != nil {
		return nil, err
	}
	for p.atKind(token.SEMICOLON) {
		n.leaf(p.advance())
		if p.at(token.End) {
			break
		}
		if err := field(); err != nil {
			return nil, err
		}
	}
	return n, p.takeSym(n, token.End)()
}

func (p *Parser) parseProcedure() (*Node, error) {
	n := newNode(LabelProcedureDecl, p.peek().Pos)
	n.leaf(p.advance())
	err := seq(
		p.take(n, token.IDENTIFIER),
		p.optionalParams(n),
		p.take(n, token.SEMICOLON),
		p.sub(n, nodeFn(p.parseBlock)),
		p.take(n, token.SEMICOLON),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseFunction() (*Node, error) {
	n := newNode(LabelFunctionDecl, p.peek().Pos)
	n.leaf(p.advance())
	err := seq(
		p.take(n, token.IDENTIFIER),
		p.optionalParams(n),
		p.take(n, token.COLON),
		p.sub(n, nodeFn(p.parseType)),
		p.take(n, token.SEMICOLON),
		p.sub(n, nodeFn(p.parseBlock)),
		p.take(n, token.SEMICOLON),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) optionalParams(n *Node) func() error {
	return func() error {
		if !p.atKind(token.LPAREN) {
			return nil
		}
		return p.sub(n, nodeFn(p.parseFormalParams))()
	}
}

func (p *Parser) parseFormalParams() (*Node, error) {
	n := newNode(LabelFormalParams, p.peek().Pos)
	n.leaf(p.advance())
	group := func() error {
		g := newNode(LabelParamGroup, p.peek().Pos)
		if p.at(token.Var) {
			g.leaf(p.advance())
		}
		err := seq(
			p.sub(g, nodeFn(p.parseIdentList)),
			p.take(g, token.COLON),
			p.sub(g, nodeFn(p.parseType)),
		)
		if err == nil {
			n.add(g)
		}
		return err
	}
	if err := group(); err != nil {
		return nil, err
	}
	for p.atKind(token.SEMICOLON) {
		n.leaf(p.advance())
		if err := group(); err != nil {
			return nil, err
		}
	}
	return n, p.take(n, token.RPAREN)()
}
