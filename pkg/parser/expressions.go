package parser

import (
	"pascals/pkg/token"
)

// Binary operators produce an expression node [left, operator, right]; a
// level with a single operand returns the operand unchanged, so the tree only
// grows where an operator actually appears.

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Child, error) {
	return p.parseOr()
}

// binary parses a left-associative chain of operand separated by operators
// that satisfy match.
func (p *Parser) binary(operand func() (Child, error), match func(token.Token) bool) (Child, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for match(p.peek()) {
		n := newNode(LabelExpression, left.Pos())
		n.add(left).leaf(p.advance())
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = n.add(right)
	}
	return left, nil
}

// parseOr handles or
func (p *Parser) parseOr() (Child, error) {
	return p.binary(p.parseAnd, func(t token.Token) bool { return t.Is(token.Or) })
}

// parseAnd handles and
func (p *Parser) parseAnd() (Child, error) {
	return p.binary(p.parseRelation, func(t token.Token) bool { return t.Is(token.And) })
}

// parseRelation handles a single, non-associative comparison.
func (p *Parser) parseRelation() (Child, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if !p.atKind(token.RELATIONAL_OPERATOR) {
		return left, nil
	}
	n := newNode(LabelExpression, left.Pos())
	n.add(left).leaf(p.advance())
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return n.add(right), nil
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (Child, error) {
	return p.binary(p.parseTerm, func(t token.Token) bool {
		return t.Is(token.Plus) || t.Is(token.Minus)
	})
}

// parseTerm handles * / div mod
func (p *Parser) parseTerm() (Child, error) {
	return p.binary(p.parseUnary, func(t token.Token) bool {
		return t.Is(token.Star) || t.Is(token.Slash) || t.Is(token.Div) || t.Is(token.Mod)
	})
}

// parseUnary handles prefix not, - and +
func (p *Parser) parseUnary() (Child, error) {
	if p.at(token.Not) || p.at(token.Minus) || p.at(token.Plus) {
		n := newNode(LabelUnary, p.peek().Pos)
		n.leaf(p.advance())
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return n.add(operand), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Child, error) {
	tok := p.peek()
	switch {
	case tok.Kind == token.NUMBER, tok.Kind == token.STRING, tok.Kind == token.CHAR,
		tok.Is(token.True), tok.Is(token.False):
		return Leaf{p.advance()}, nil

	case tok.Kind == token.IDENTIFIER:
		if p.peekAt(1).Kind == token.LPAREN {
			return p.parseCall()
		}
		return p.parseVariable()

	case tok.Kind == token.LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.errorf("expression")
}
