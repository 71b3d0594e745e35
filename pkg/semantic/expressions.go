package semantic

import (
	"strings"

	"pascals/pkg/diag"
	"pascals/pkg/parser"
	"pascals/pkg/token"
)

func (a *analyzer) expr(c parser.Child) (Expr, error) {
	switch c := c.(type) {
	case parser.Leaf:
		if c.Kind == token.NUMBER {
			return a.number(c.Token)
		}
		return a.literal(c.Token), nil
	case *parser.Node:
		switch c.Label {
		case parser.LabelExpression:
			return a.binary(c)
		case parser.LabelUnary:
			return a.unary(c)
		case parser.LabelVariable:
			return a.variable(c)
		case parser.LabelCall:
			return a.callExpr(c)
		}
		return nil, diag.Errorf(diag.SyntaxError, c.Pos(), "unexpected %s in expression", c.Label)
	}
	return nil, diag.Errorf(diag.SyntaxError, c.Pos(), "unexpected token in expression")
}

// binary: [left, operator, right]
func (a *analyzer) binary(n *parser.Node) (Expr, error) {
	left, err := a.expr(n.Children[0])
	if err != nil {
		return nil, err
	}
	op, _ := n.Token(1)
	right, err := a.expr(n.Children[2])
	if err != nil {
		return nil, err
	}
	lt, rt := left.decor().Type, right.decor().Type
	t := binaryType(op.Sym, lt, rt)
	if t == nil {
		return nil, diag.Errorf(diag.TypeMismatch, op.Pos, "operator %s not defined for %s and %s", op.Lexeme, lt, rt)
	}
	return &BinaryOp{Decor: Decor{Pos: n.Pos(), Type: t}, Op: op.Sym, Left: left, Right: right}, nil
}

// binaryType returns the result type of l op r, or nil when the operator does
// not apply. Integer division with / stays integer.
func binaryType(op token.Sym, l, r *Type) *Type {
	switch op {
	case token.Plus, token.Minus, token.Star, token.Slash:
		if !l.IsNumeric() || !r.IsNumeric() {
			return nil
		}
		if l.is(TyReal) || r.is(TyReal) {
			return Real
		}
		return Integer
	case token.Div, token.Mod:
		if l.is(TyInteger) && r.is(TyInteger) {
			return Integer
		}
	case token.And, token.Or:
		if l.is(TyBoolean) && r.is(TyBoolean) {
			return Boolean
		}
	case token.Eq, token.Neq, token.Lt, token.Le, token.Gt, token.Ge:
		if (l.IsNumeric() && r.IsNumeric()) || (l.IsTextual() && r.IsTextual()) {
			return Boolean
		}
	}
	return nil
}

// unary: [operator, operand]
func (a *analyzer) unary(n *parser.Node) (Expr, error) {
	op, _ := n.Token(0)
	operand, err := a.expr(n.Children[1])
	if err != nil {
		return nil, err
	}
	t := operand.decor().Type
	switch {
	case op.Is(token.Not) && t.is(TyBoolean):
	case !op.Is(token.Not) && t.IsNumeric():
		t = t.Underlying()
	default:
		return nil, diag.Errorf(diag.TypeMismatch, op.Pos, "operator %s not defined for %s", op.Lexeme, t)
	}
	return &UnaryOp{Decor: Decor{Pos: n.Pos(), Type: t}, Op: op.Sym, Operand: operand}, nil
}

// variable resolves an identifier with its selectors. A parameterless
// function named without parentheses is a call.
func (a *analyzer) variable(n *parser.Node) (Expr, error) {
	name, _ := n.Token(0)
	i, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	ent := a.entry(i)
	var e Expr
	switch ent.Kind {
	case ObjVariable, ObjConstant:
		e = &VarAccess{Decor: Decor{Pos: name.Pos, Type: ent.Type, Sym: i, Level: ent.Level}, Name: name.Lexeme}
	case ObjFunction:
		if len(n.Children) > 1 {
			return nil, diag.Errorf(diag.TypeMismatch, name.Pos, "cannot select from function %s", name.Lexeme)
		}
		return a.finishCall(i, name, n)
	default:
		return nil, diag.Errorf(diag.TypeMismatch, name.Pos, "%s %s used as a value", strings.ToLower(ent.Kind.String()), name.Lexeme)
	}

	root := Decor{Sym: i, Level: ent.Level}
	for k := 1; k < len(n.Children); k++ {
		sel, _ := n.Token(k)
		base := e.decor().Type
		switch sel.Kind {
		case token.LBRACKET:
			index, err := a.expr(n.Children[k+1])
			if err != nil {
				return nil, err
			}
			k += 2
			if !base.is(TyArray) {
				return nil, diag.Errorf(diag.TypeMismatch, sel.Pos, "cannot index %s of type %s", describe(e), base)
			}
			if !index.decor().Type.is(TyInteger) {
				return nil, a.errorf(diag.InvalidIndex, index, "array index must be integer, got %s", index.decor().Type)
			}
			e = &ArrayIndex{
				Decor: Decor{Pos: sel.Pos, Type: base.Underlying().Elem, Sym: root.Sym, Level: root.Level},
				Base:  e,
				Index: index,
			}
		case token.DOT:
			field, _ := n.Token(k + 1)
			k++
			if !base.is(TyRecord) {
				return nil, diag.Errorf(diag.InvalidFieldAccess, field.Pos, "%s of type %s has no fields", describe(e), base)
			}
			f, ok := base.Underlying().Field(field.Lexeme)
			if !ok {
				return nil, diag.Errorf(diag.InvalidFieldAccess, field.Pos, "%s has no field %s", base, field.Lexeme)
			}
			e = &FieldAccess{
				Decor:  Decor{Pos: field.Pos, Type: f.Type, Sym: root.Sym, Level: root.Level},
				Base:   e,
				Field:  f.Name,
				Offset: f.Offset,
			}
		}
	}
	return e, nil
}

// callExpr: [IDENT, (, parameter-list?, )]
func (a *analyzer) callExpr(n *parser.Node) (Expr, error) {
	name, _ := n.Token(0)
	i, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	if ent := a.entry(i); ent.Kind != ObjFunction {
		return nil, diag.Errorf(diag.TypeMismatch, name.Pos, "%s is a %s, not a function", name.Lexeme, strings.ToLower(ent.Kind.String()))
	}
	return a.finishCall(i, name, n)
}

func (a *analyzer) finishCall(sym int, name token.Token, n *parser.Node) (Expr, error) {
	args, t, err := a.call(sym, n)
	if err != nil {
		return nil, err
	}
	ent := a.entry(sym)
	return &Call{
		Decor: Decor{Pos: name.Pos, Type: t, Sym: sym, Level: ent.Level},
		Name:  name.Lexeme,
		Args:  args,
	}, nil
}

// addressable reports whether e denotes storage: a variable, or an element
// or field of one.
func (a *analyzer) addressable(e Expr) bool {
	switch e := e.(type) {
	case *VarAccess:
		return a.entry(e.Sym).Kind == ObjVariable
	case *ArrayIndex:
		return a.addressable(e.Base)
	case *FieldAccess:
		return a.addressable(e.Base)
	}
	return false
}
