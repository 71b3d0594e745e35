package semantic

import (
	"strings"

	"pascals/pkg/diag"
	"pascals/pkg/parser"
	"pascals/pkg/token"
)

func (a *analyzer) compound(n *parser.Node) (*CompoundStmt, error) {
	stmts, err := a.statementList(n.Find(parser.LabelStatementList))
	if err != nil {
		return nil, err
	}
	return &CompoundStmt{Decor: Decor{Pos: n.Pos(), Type: Void}, Stmts: stmts}, nil
}

func (a *analyzer) statementList(n *parser.Node) ([]Stmt, error) {
	var out []Stmt
	for _, c := range n.Children {
		sn, ok := c.(*parser.Node)
		if !ok {
			continue
		}
		s, err := a.statement(sn)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (a *analyzer) statement(n *parser.Node) (Stmt, error) {
	switch n.Label {
	case parser.LabelCompound:
		return a.compound(n)
	case parser.LabelEmpty:
		return &EmptyStmt{Decor: Decor{Pos: n.Pos(), Type: Void}}, nil
	case parser.LabelAssign:
		return a.assign(n)
	case parser.LabelIf:
		return a.ifStmt(n)
	case parser.LabelWhile:
		return a.whileStmt(n)
	case parser.LabelFor:
		return a.forStmt(n)
	case parser.LabelRepeat:
		return a.repeatStmt(n)
	case parser.LabelCall:
		return a.callStmt(n)
	}
	return nil, diag.Errorf(diag.SyntaxError, n.Pos(), "unexpected %s in statement position", n.Label)
}

// assign: [variable, :=, expression]
func (a *analyzer) assign(n *parser.Node) (Stmt, error) {
	target, err := a.target(n.Node(0))
	if err != nil {
		return nil, err
	}
	value, err := a.expr(n.Children[2])
	if err != nil {
		return nil, err
	}
	tt, vt := target.decor().Type, value.decor().Type
	if !Assignable(tt, vt) {
		return nil, diag.Errorf(diag.TypeMismatch, n.Pos(), "cannot assign %s to %s of type %s", vt, describe(target), tt)
	}
	return &Assign{Decor: Decor{Pos: n.Pos(), Type: Void}, Target: target, Value: value}, nil
}

// target resolves the left side of an assignment. Besides variables, a
// function's name may be assigned inside that function to set its result.
func (a *analyzer) target(n *parser.Node) (Expr, error) {
	name, _ := n.Token(0)
	i, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	ent := a.entry(i)
	switch ent.Kind {
	case ObjVariable:
		return a.variable(n)
	case ObjFunction:
		if len(n.Children) == 1 && a.inFunction(i) {
			return &VarAccess{Decor: Decor{Pos: name.Pos, Type: ent.Type, Sym: i, Level: ent.Level}, Name: name.Lexeme}, nil
		}
		return nil, diag.Errorf(diag.NotAddressable, name.Pos, "cannot assign to function %s outside its body", name.Lexeme)
	}
	return nil, diag.Errorf(diag.NotAddressable, name.Pos, "cannot assign to %s %s", strings.ToLower(ent.Kind.String()), name.Lexeme)
}

func (a *analyzer) inFunction(sym int) bool {
	for _, f := range a.routines {
		if f == sym {
			return true
		}
	}
	return false
}

// condition analyzes an expression that must be boolean.
func (a *analyzer) condition(c parser.Child, what string) (Expr, error) {
	e, err := a.expr(c)
	if err != nil {
		return nil, err
	}
	if t := e.decor().Type; !t.is(TyBoolean) {
		return nil, a.errorf(diag.TypeMismatch, e, "%s condition must be boolean, got %s", what, t)
	}
	return e, nil
}

// ifStmt: [if, expression, then, statement, (else, statement)?]
func (a *analyzer) ifStmt(n *parser.Node) (Stmt, error) {
	cond, err := a.condition(n.Children[1], "if")
	if err != nil {
		return nil, err
	}
	then, err := a.statement(n.Node(3))
	if err != nil {
		return nil, err
	}
	s := &IfStmt{Decor: Decor{Pos: n.Pos(), Type: Void}, Cond: cond, Then: then}
	if n.HasSym(token.Else) {
		if s.Else, err = a.statement(n.Node(5)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// whileStmt: [while, expression, do, statement]
func (a *analyzer) whileStmt(n *parser.Node) (Stmt, error) {
	cond, err := a.condition(n.Children[1], "while")
	if err != nil {
		return nil, err
	}
	body, err := a.statement(n.Node(3))
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Decor: Decor{Pos: n.Pos(), Type: Void}, Cond: cond, Body: body}, nil
}

// forStmt: [for, IDENT, :=, expression, to|downto, expression, do, statement]
func (a *analyzer) forStmt(n *parser.Node) (Stmt, error) {
	name, _ := n.Token(1)
	i, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	ent := a.entry(i)
	if ent.Kind != ObjVariable {
		return nil, diag.Errorf(diag.NotAddressable, name.Pos, "for control %s is not a variable", name.Lexeme)
	}
	if !ent.Type.IsOrdinal() {
		return nil, diag.Errorf(diag.TypeMismatch, name.Pos, "for control variable %s must be ordinal, got %s", name.Lexeme, ent.Type)
	}
	v := &VarAccess{Decor: Decor{Pos: name.Pos, Type: ent.Type, Sym: i, Level: ent.Level}, Name: name.Lexeme}

	var bounds [2]Expr
	for k, c := range []parser.Child{n.Children[3], n.Children[5]} {
		e, err := a.expr(c)
		if err != nil {
			return nil, err
		}
		if !Assignable(ent.Type, e.decor().Type) {
			return nil, a.errorf(diag.TypeMismatch, e, "for bound of type %s does not match control variable of type %s", e.decor().Type, ent.Type)
		}
		bounds[k] = e
	}
	body, err := a.statement(n.Node(7))
	if err != nil {
		return nil, err
	}
	return &ForStmt{
		Decor: Decor{Pos: n.Pos(), Type: Void, Sym: i, Level: ent.Level},
		Var:   v,
		From:  bounds[0],
		To:    bounds[1],
		Down:  n.HasSym(token.Downto),
		Body:  body,
	}, nil
}

// repeatStmt: [repeat, statement-list, until, expression]
func (a *analyzer) repeatStmt(n *parser.Node) (Stmt, error) {
	body, err := a.statementList(n.Node(1))
	if err != nil {
		return nil, err
	}
	cond, err := a.condition(n.Children[3], "until")
	if err != nil {
		return nil, err
	}
	return &RepeatStmt{Decor: Decor{Pos: n.Pos(), Type: Void}, Body: body, Cond: cond}, nil
}

func (a *analyzer) callStmt(n *parser.Node) (Stmt, error) {
	name, _ := n.Token(0)
	i, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	ent := a.entry(i)
	if ent.Kind != ObjProcedure {
		return nil, diag.Errorf(diag.TypeMismatch, name.Pos, "%s is a %s, not a procedure", name.Lexeme, strings.ToLower(ent.Kind.String()))
	}
	args, _, err := a.call(i, n)
	if err != nil {
		return nil, err
	}
	return &CallStmt{
		Decor: Decor{Pos: n.Pos(), Type: Void, Sym: i, Level: ent.Level},
		Name:  name.Lexeme,
		Args:  args,
	}, nil
}

// call analyzes the arguments of a call node against the routine entry sym
// and returns them with the call's result type.
func (a *analyzer) call(sym int, n *parser.Node) ([]Expr, *Type, error) {
	var args []Expr
	if list := n.Find(parser.LabelArgs); list != nil {
		for _, c := range list.Children {
			if l, ok := c.(parser.Leaf); ok && l.Kind == token.COMMA {
				continue
			}
			e, err := a.expr(c)
			if err != nil {
				return nil, nil, err
			}
			args = append(args, e)
		}
	}

	ent := a.entry(sym)
	if id, ok := a.builtins[sym]; ok {
		t, err := a.checkBuiltinCall(id, ent.Name, n.Pos(), args)
		return args, t, err
	}

	formals := a.syms.Params(a.blocks, ent.Ref)
	if len(args) != len(formals) {
		return nil, nil, diag.Errorf(diag.ArityMismatch, n.Pos(), "%s expects %d argument(s), got %d", ent.Name, len(formals), len(args))
	}
	for k, f := range formals {
		arg, at := args[k], args[k].decor().Type
		if !f.Normal {
			if !a.addressable(arg) {
				return nil, nil, a.errorf(diag.NotAddressable, arg, "argument %d of %s must be a variable for var parameter %s", k+1, ent.Name, f.Name)
			}
			if !Identical(f.Type, at) {
				return nil, nil, a.errorf(diag.TypeMismatch, arg, "argument %d of %s has type %s, var parameter %s needs %s", k+1, ent.Name, at, f.Name, f.Type)
			}
			continue
		}
		if !Assignable(f.Type, at) {
			return nil, nil, a.errorf(diag.TypeMismatch, arg, "argument %d of %s has type %s, parameter %s needs %s", k+1, ent.Name, at, f.Name, f.Type)
		}
	}
	return args, ent.Type, nil
}

// describe names an assignment target for messages.
func describe(e Expr) string {
	switch e := e.(type) {
	case *VarAccess:
		return e.Name
	case *ArrayIndex:
		return describe(e.Base) + "[...]"
	case *FieldAccess:
		return describe(e.Base) + "." + e.Field
	}
	return "expression"
}
