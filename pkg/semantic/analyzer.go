// Package semantic decorates a parse tree with types and symbol references.
//
// Analysis is a single top-down walk. Each program, procedure and function
// body opens a block one level deeper than its parent; declarations are
// appended to the symbol table and chained per block, and every identifier is
// resolved by walking the chains outward to the builtins at level 0. The
// first violation stops the walk.
package semantic

import (
	"fmt"
	"strconv"
	"strings"

	"pascals/pkg/diag"
	"pascals/pkg/lexer"
	"pascals/pkg/parser"
	"pascals/pkg/token"
)

// activationHeader is the number of storage units reserved at the start of
// every routine's activation area before its parameters.
const activationHeader = 3

// Option configures Analyze.
type Option func(*analyzer)

// WithSpelling names the builtin boolean constants and reserved-word entries
// the way the source's keyword register spells them. The default is the
// English register.
func WithSpelling(spell func(token.Sym) string) Option {
	return func(a *analyzer) {
		if spell != nil {
			a.spell = spell
		}
	}
}

type analyzer struct {
	syms     *SymbolTable
	blocks   *BlockTable
	scope    *scopes
	spell    func(token.Sym) string
	builtins map[int]builtin

	trueSym, falseSym int
	routines          []int // functions whose bodies are open, innermost last
}

// Analyze checks a program parse tree and returns its decorated AST together
// with the symbol and block tables.
func Analyze(tree *parser.Node, opts ...Option) (*Program, *SymbolTable, *BlockTable, error) {
	if tree == nil || tree.Label != parser.LabelProgram {
		return nil, nil, nil, fmt.Errorf("analyze: expected a %s parse tree", parser.LabelProgram)
	}
	syms, blocks := newSymbolTable(), newBlockTable()
	a := &analyzer{
		syms:   syms,
		blocks: blocks,
		scope:  &scopes{syms: syms, blocks: blocks},
		spell:  lexer.MustLookup(lexer.DefaultVocabulary).Spelling,
	}
	for _, opt := range opts {
		opt(a)
	}
	prog, err := a.program(tree)
	if err != nil {
		return nil, nil, nil, err
	}
	return prog, syms, blocks, nil
}

func (a *analyzer) errorf(kind diag.Kind, n Node, format string, args ...any) error {
	return diag.Errorf(kind, n.decor().Pos, format, args...)
}

func (a *analyzer) entry(i int) *SymbolEntry { return a.syms.at(i) }

// resolve looks name up through every open scope.
func (a *analyzer) resolve(tok token.Token) (int, error) {
	if i := a.scope.lookup(tok.Lexeme); i != 0 {
		return i, nil
	}
	return 0, diag.Errorf(diag.UndeclaredIdentifier, tok.Pos, "undeclared identifier %s", tok.Lexeme)
}

// declare enters a new entry for tok in the innermost block after checking
// that the name is not already taken at this level.
func (a *analyzer) declare(tok token.Token, e SymbolEntry, size int) (int, error) {
	if prev := a.scope.declared(tok.Lexeme); prev != 0 {
		return 0, diag.Errorf(diag.Redeclaration, tok.Pos, "%s already declared as %s at level %d",
			tok.Lexeme, strings.ToLower(a.entry(prev).Kind.String()), a.scope.Level())
	}
	e.Name = tok.Lexeme
	e.Normal = e.Normal || e.Kind != ObjVariable
	return a.scope.enter(e, size), nil
}

func (a *analyzer) program(tree *parser.Node) (*Program, error) {
	name, _ := tree.Node(0).Token(1)

	global := a.scope.push(0)
	a.seed()
	sym := a.scope.enter(SymbolEntry{Name: name.Lexeme, Kind: ObjProgram, Type: Void, Ref: global, Normal: true}, 0)

	body, err := a.block(tree.Node(1), global)
	if err != nil {
		return nil, err
	}
	a.scope.pop()
	return &Program{
		Decor: Decor{Pos: tree.Pos(), Type: Void, Sym: sym, Level: 0, Block: global},
		Name:  name.Lexeme,
		Body:  body,
	}, nil
}

func (a *analyzer) block(n *parser.Node, index int) (*Block, error) {
	b := &Block{Decor: Decor{Pos: n.Pos(), Type: Void, Block: index}}
	for _, c := range n.Node(0).Children {
		section := c.(*parser.Node)
		var (
			decls []Decl
			err   error
		)
		switch section.Label {
		case parser.LabelConstSection:
			decls, err = a.constSection(section)
		case parser.LabelTypeSection:
			decls, err = a.typeSection(section)
		case parser.LabelVarSection:
			decls, err = a.varSection(section)
		case parser.LabelProcedureDecl, parser.LabelFunctionDecl:
			var d Decl
			d, err = a.routine(section)
			decls = []Decl{d}
		default:
			err = diag.Errorf(diag.SyntaxError, section.Pos(), "unexpected %s in declaration part", section.Label)
		}
		if err != nil {
			return nil, err
		}
		b.Decls = append(b.Decls, decls...)
	}
	body, err := a.compound(n.Node(1))
	if err != nil {
		return nil, err
	}
	b.Body = body
	return b, nil
}

func (a *analyzer) constSection(n *parser.Node) ([]Decl, error) {
	var out []Decl
	for _, d := range n.All(parser.LabelConstDecl) {
		name, _ := d.Token(0)
		value, ord, err := a.constant(d.Node(2))
		if err != nil {
			return nil, err
		}
		t := value.decor().Type
		sym, err := a.declare(name, SymbolEntry{Kind: ObjConstant, Type: t, Addr: ord}, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, &ConstDecl{
			Decor: Decor{Pos: d.Pos(), Type: t, Sym: sym, Level: a.scope.Level()},
			Name:  name.Lexeme,
			Value: value,
		})
	}
	return out, nil
}

// constant evaluates a constant node and returns its literal expression and
// ordinal value (0 for reals and strings).
func (a *analyzer) constant(n *parser.Node) (Expr, int, error) {
	sign, signed := n.Token(0)
	if signed && sign.Kind != token.ARITHMETIC_OPERATOR {
		signed = false
	}
	tok, _ := n.Token(len(n.Children) - 1)

	var (
		e   Expr
		ord int
	)
	switch {
	case tok.Kind == token.NUMBER:
		lit, err := a.number(tok)
		if err != nil {
			return nil, 0, err
		}
		e = lit
		if !tok.IsReal() {
			ord, _ = strconv.Atoi(tok.Lexeme)
		}
	case tok.Kind == token.IDENTIFIER:
		i, err := a.resolve(tok)
		if err != nil {
			return nil, 0, err
		}
		ent := a.entry(i)
		if ent.Kind != ObjConstant {
			return nil, 0, diag.Errorf(diag.TypeMismatch, tok.Pos, "%s is not a constant", tok.Lexeme)
		}
		e = &VarAccess{Decor: Decor{Pos: tok.Pos, Type: ent.Type, Sym: i, Level: ent.Level}, Name: tok.Lexeme}
		ord = ent.Addr
	default:
		e = a.literal(tok)
		if c, ok := e.(*CharLit); ok {
			ord = int(c.Value)
		}
		if b, ok := e.(*BoolLit); ok && b.Value {
			ord = 1
		}
	}

	if signed {
		t := e.decor().Type
		if !t.IsNumeric() {
			return nil, 0, diag.Errorf(diag.TypeMismatch, sign.Pos, "sign applied to %s constant", t)
		}
		e = &UnaryOp{Decor: Decor{Pos: sign.Pos, Type: t.Underlying()}, Op: sign.Sym, Operand: e}
		if sign.Is(token.Minus) {
			ord = -ord
		}
	}
	return e, ord, nil
}

func (a *analyzer) typeSection(n *parser.Node) ([]Decl, error) {
	var out []Decl
	for _, d := range n.All(parser.LabelTypeDecl) {
		name, _ := d.Token(0)
		t, err := a.typ(d.Node(2))
		if err != nil {
			return nil, err
		}
		if t.Name == "" && (t.Kind == TyArray || t.Kind == TyRecord || t.Kind == TySubrange) {
			t.Name = name.Lexeme
		}
		sym, err := a.declare(name, SymbolEntry{Kind: ObjType, Type: t}, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, &TypeDecl{
			Decor: Decor{Pos: d.Pos(), Type: t, Sym: sym, Level: a.scope.Level()},
			Name:  name.Lexeme,
		})
	}
	return out, nil
}

// typ resolves a type node.
func (a *analyzer) typ(n *parser.Node) (*Type, error) {
	if tok, ok := n.Token(0); ok {
		if tok.Sym.IsTypeName() {
			for _, p := range primitiveTypes {
				if p.sym == tok.Sym {
					return p.typ, nil
				}
			}
		}
		i, err := a.resolve(tok)
		if err != nil {
			return nil, err
		}
		if ent := a.entry(i); ent.Kind != ObjType {
			return nil, diag.Errorf(diag.TypeMismatch, tok.Pos, "%s is not a type", tok.Lexeme)
		}
		return a.entry(i).Type, nil
	}

	c := n.Node(0)
	switch c.Label {
	case parser.LabelSubrange:
		return a.subrange(c)
	case parser.LabelArrayType:
		index, err := a.subrange(c.Node(2))
		if err != nil {
			return nil, err
		}
		if !index.is(TyInteger) {
			return nil, diag.Errorf(diag.InvalidIndex, c.Node(2).Pos(), "array index range must be integer, got %s", index.Base)
		}
		elem, err := a.typ(c.Node(5))
		if err != nil {
			return nil, err
		}
		return &Type{Kind: TyArray, Base: index, Low: index.Low, High: index.High, Elem: elem}, nil
	case parser.LabelRecordType:
		return a.record(c)
	}
	return nil, diag.Errorf(diag.SyntaxError, c.Pos(), "unexpected %s in type", c.Label)
}

func (a *analyzer) subrange(n *parser.Node) (*Type, error) {
	low, lo, err := a.constant(n.Node(0))
	if err != nil {
		return nil, err
	}
	high, hi, err := a.constant(n.Node(2))
	if err != nil {
		return nil, err
	}
	lt, ht := low.decor().Type, high.decor().Type
	if !lt.IsOrdinal() || !Identical(lt, ht) {
		return nil, diag.Errorf(diag.TypeMismatch, n.Pos(), "subrange bounds must be of the same ordinal type, got %s and %s", lt, ht)
	}
	if lo > hi {
		return nil, diag.Errorf(diag.InvalidIndex, n.Pos(), "empty subrange %d..%d", lo, hi)
	}
	return &Type{Kind: TySubrange, Base: lt.Underlying(), Low: lo, High: hi}, nil
}

func (a *analyzer) record(n *parser.Node) (*Type, error) {
	t := &Type{Kind: TyRecord}
	offset := 0
	for _, fd := range n.All(parser.LabelFieldDecl) {
		ft, err := a.typ(fd.Node(2))
		if err != nil {
			return nil, err
		}
		for _, name := range fd.Node(0).Leaves(token.IDENTIFIER) {
			if _, dup := t.Field(name.Lexeme); dup {
				return nil, diag.Errorf(diag.Redeclaration, name.Pos, "duplicate field %s", name.Lexeme)
			}
			t.Fields = append(t.Fields, Field{Name: name.Lexeme, Type: ft, Offset: offset})
			offset += ft.Size()
		}
	}
	return t, nil
}

func (a *analyzer) varSection(n *parser.Node) ([]Decl, error) {
	var out []Decl
	for _, d := range n.All(parser.LabelVarDecl) {
		t, err := a.typ(d.Node(2))
		if err != nil {
			return nil, err
		}
		for _, name := range d.Node(0).Leaves(token.IDENTIFIER) {
			sym, err := a.declare(name, SymbolEntry{Kind: ObjVariable, Type: t, Normal: true}, t.Size())
			if err != nil {
				return nil, err
			}
			out = append(out, &VarDecl{
				Decor: Decor{Pos: name.Pos, Type: t, Sym: sym, Level: a.scope.Level()},
				Name:  name.Lexeme,
			})
		}
	}
	return out, nil
}

// routine analyzes a procedure or function declaration. The routine's entry
// goes into the enclosing block; its parameters, locals and body live in a
// new block one level deeper.
func (a *analyzer) routine(n *parser.Node) (Decl, error) {
	name, _ := n.Token(1)
	isFunc := n.Label == parser.LabelFunctionDecl

	kind, result := ObjProcedure, Void
	if isFunc {
		kind = ObjFunction
		t, err := a.typ(n.Find(parser.LabelType))
		if err != nil {
			return nil, err
		}
		result = t
	}
	sym, err := a.declare(name, SymbolEntry{Kind: kind, Type: result}, 0)
	if err != nil {
		return nil, err
	}
	level := a.scope.Level()

	b := a.scope.push(activationHeader)
	a.entry(sym).Ref = b

	params, err := a.params(n.Find(parser.LabelFormalParams))
	if err != nil {
		return nil, err
	}
	blk := a.blocks.at(b)
	if len(params) > 0 {
		blk.LPar = blk.Last
	}
	blk.PSize = a.scope.dx[a.scope.Level()]

	if isFunc {
		a.routines = append(a.routines, sym)
	}
	body, err := a.block(n.Find(parser.LabelBlock), b)
	if err != nil {
		return nil, err
	}
	if isFunc {
		a.routines = a.routines[:len(a.routines)-1]
	}
	a.scope.pop()

	decor := Decor{Pos: n.Pos(), Type: result, Sym: sym, Level: level, Block: b}
	if isFunc {
		return &FuncDecl{Decor: decor, Name: name.Lexeme, Params: params, Body: body}, nil
	}
	return &ProcDecl{Decor: decor, Name: name.Lexeme, Params: params, Body: body}, nil
}

// params enters formal parameters into the innermost block. A var parameter
// occupies a single unit holding the address of its actual.
func (a *analyzer) params(n *parser.Node) ([]*VarDecl, error) {
	if n == nil {
		return nil, nil
	}
	var out []*VarDecl
	for _, g := range n.All(parser.LabelParamGroup) {
		byRef := g.HasSym(token.Var)
		t, err := a.typ(g.Find(parser.LabelType))
		if err != nil {
			return nil, err
		}
		size := t.Size()
		if byRef {
			size = 1
		}
		for _, name := range g.Find(parser.LabelIdentList).Leaves(token.IDENTIFIER) {
			sym, err := a.declare(name, SymbolEntry{Kind: ObjVariable, Type: t, Normal: !byRef}, size)
			if err != nil {
				return nil, err
			}
			out = append(out, &VarDecl{
				Decor: Decor{Pos: name.Pos, Type: t, Sym: sym, Level: a.scope.Level()},
				Name:  name.Lexeme,
				Param: true,
				ByRef: byRef,
			})
		}
	}
	return out, nil
}

func (a *analyzer) number(tok token.Token) (*NumberLit, error) {
	lit := &NumberLit{Decor: Decor{Pos: tok.Pos, Type: Integer}, Text: tok.Lexeme}
	if tok.IsReal() {
		lit.Type = Real
		return lit, nil
	}
	if _, err := strconv.Atoi(tok.Lexeme); err != nil {
		return nil, diag.Errorf(diag.TypeMismatch, tok.Pos, "integer constant %s out of range", tok.Lexeme)
	}
	return lit, nil
}

// literal builds a string, char or boolean literal node.
func (a *analyzer) literal(tok token.Token) Expr {
	pos := tok.Pos
	switch {
	case tok.Kind == token.CHAR:
		r := []rune(lexer.Unquote(tok.Lexeme))
		return &CharLit{Decor: Decor{Pos: pos, Type: Char}, Value: r[0]}
	case tok.Is(token.True):
		return &BoolLit{Decor: Decor{Pos: pos, Type: Boolean, Sym: a.trueSym}, Value: true}
	case tok.Is(token.False):
		return &BoolLit{Decor: Decor{Pos: pos, Type: Boolean, Sym: a.falseSym}, Value: false}
	}
	return &StringLit{Decor: Decor{Pos: pos, Type: String}, Value: lexer.Unquote(tok.Lexeme)}
}
