package parser

import (
	"pascals/pkg/token"
)

func (p *Parser) parseCompound() (*Node, error) {
	n := newNode(LabelCompound, p.peek().Pos)
	err := seq(
		p.takeSym(n, token.Begin),
		p.sub(n, nodeFn(p.parseStatementList)),
		p.takeSym(n, token.End),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseStatementList() (*Node, error) {
	n := newNode(LabelStatementList, p.peek().Pos)
	st, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	n.add(st)
	for p.atKind(token.SEMICOLON) {
		n.leaf(p.advance())
		if st, err = p.parseStatement(); err != nil {
			return nil, err
		}
		n.add(st)
	}
	return n, nil
}

// parseStatement parses one statement. Any token that cannot start a
// statement yields an empty statement and is left for the caller.
func (p *Parser) parseStatement() (*Node, error) {
	tok := p.peek()
	switch {
	case tok.Is(token.Begin):
		return p.parseCompound()
	case tok.Is(token.If):
		return p.parseIf()
	case tok.Is(token.While):
		return p.parseWhile()
	case tok.Is(token.For):
		return p.parseFor()
	case tok.Is(token.Repeat):
		return p.parseRepeat()
	case tok.Kind == token.IDENTIFIER:
		switch p.peekAt(1).Kind {
		case token.ASSIGN, token.LBRACKET, token.DOT:
			return p.parseAssignment()
		}
		return p.parseCall()
	}
	return newNode(LabelEmpty, tok.Pos), nil
}

func (p *Parser) parseAssignment() (*Node, error) {
	n := newNode(LabelAssign, p.peek().Pos)
	err := seq(
		p.sub(n, nodeFn(p.parseVariable)),
		p.take(n, token.ASSIGN),
		p.sub(n, p.parseExpression),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseIf() (*Node, error) {
	n := newNode(LabelIf, p.peek().Pos)
	err := seq(
		p.takeSym(n, token.If),
		p.sub(n, p.parseExpression),
		p.takeSym(n, token.Then),
		p.sub(n, nodeFn(p.parseStatement)),
	)
	if err != nil {
		return nil, err
	}
	// The innermost if claims the else.
	if p.at(token.Else) {
		n.leaf(p.advance())
		if err := p.sub(n, nodeFn(p.parseStatement))(); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *Parser) parseWhile() (*Node, error) {
	n := newNode(LabelWhile, p.peek().Pos)
	err := seq(
		p.takeSym(n, token.While),
		p.sub(n, p.parseExpression),
		p.takeSym(n, token.Do),
		p.sub(n, nodeFn(p.parseStatement)),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseFor() (*Node, error) {
	n := newNode(LabelFor, p.peek().Pos)
	direction := func() error {
		if p.at(token.To) || p.at(token.Downto) {
			n.leaf(p.advance())
			return nil
		}
		return p.errorf("'" + p.spell(token.To) + "' or '" + p.spell(token.Downto) + "'")
	}
	err := seq(
		p.takeSym(n, token.For),
		p.take(n, token.IDENTIFIER),
		p.take(n, token.ASSIGN),
		p.sub(n, p.parseExpression),
		direction,
		p.sub(n, p.parseExpression),
		p.takeSym(n, token.Do),
		p.sub(n, nodeFn(p.parseStatement)),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseRepeat() (*Node, error) {
	n := newNode(LabelRepeat, p.peek().Pos)
	err := seq(
		p.takeSym(n, token.Repeat),
		p.sub(n, nodeFn(p.parseStatementList)),
		p.takeSym(n, token.Until),
		p.sub(n, p.parseExpression),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// parseCall parses a procedure or function call with an optional argument
// list.
func (p *Parser) parseCall() (*Node, error) {
	n := newNode(LabelCall, p.peek().Pos)
	n.leaf(p.advance())
	if !p.atKind(token.LPAREN) {
		return n, nil
	}
	n.leaf(p.advance())
	if !p.atKind(token.RPAREN) {
		if err := p.sub(n, nodeFn(p.parseArgs))(); err != nil {
			return nil, err
		}
	}
	if err := p.take(n, token.RPAREN)(); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseArgs() (*Node, error) {
	n := newNode(LabelArgs, p.peek().Pos)
	if err := p.sub(n, p.parseExpression)(); err != nil {
		return nil, err
	}
	for p.atKind(token.COMMA) {
		n.leaf(p.advance())
		if err := p.sub(n, p.parseExpression)(); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// parseVariable parses an identifier followed by any number of index and
// field selectors, e.g. a[i].name[2].
func (p *Parser) parseVariable() (*Node, error) {
	n := newNode(LabelVariable, p.peek().Pos)
	if err := p.take(n, token.IDENTIFIER)(); err != nil {
		return nil, err
	}
	for {
		var err error
		switch {
		case p.atKind(token.LBRACKET):
			n.leaf(p.advance())
			err = seq(
				p.sub(n, p.parseExpression),
				p.take(n, token.RBRACKET),
			)
		case p.atKind(token.DOT) && p.peekAt(1).Kind == token.IDENTIFIER:
			n.leaf(p.advance())
			err = p.take(n, token.IDENTIFIER)()
		default:
			return n, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
