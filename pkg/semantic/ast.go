package semantic

import (
	"pascals/pkg/source"
	"pascals/pkg/token"
)

// Decor holds the attributes the analyzer attaches to every node.
type Decor struct {
	Pos   source.Position
	Type  *Type // resolved type; void for statements
	Sym   int   // symbol table index of the referenced or declared entry, 0 if none
	Level int   // scope level of Sym's entry
	Block int   // block table index for program and routine nodes, 0 otherwise
}

func (d *Decor) decor() *Decor { return d }

// Node is implemented by every decorated AST node.
type Node interface {
	decor() *Decor
}

// Attrs returns the decoration of n.
func Attrs(n Node) *Decor { return n.decor() }

// Decl is a declaration node.
type Decl interface {
	Node
	decl()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

type (
	// Program is the root of the decorated AST.
	Program struct {
		Decor
		Name string
		Body *Block
	}

	// Block groups the declarations and body of a program or routine.
	Block struct {
		Decor
		Decls []Decl
		Body  *CompoundStmt
	}
)

type (
	ConstDecl struct {
		Decor
		Name  string
		Value Expr
	}

	TypeDecl struct {
		Decor
		Name string
	}

	// VarDecl declares one variable, or one parameter when Param is set.
	VarDecl struct {
		Decor
		Name  string
		Param bool
		ByRef bool
	}

	ProcDecl struct {
		Decor
		Name   string
		Params []*VarDecl
		Body   *Block
	}

	// FuncDecl carries the result type in Decor.Type.
	FuncDecl struct {
		Decor
		Name   string
		Params []*VarDecl
		Body   *Block
	}
)

type (
	CompoundStmt struct {
		Decor
		Stmts []Stmt
	}

	EmptyStmt struct {
		Decor
	}

	Assign struct {
		Decor
		Target Expr
		Value  Expr
	}

	IfStmt struct {
		Decor
		Cond Expr
		Then Stmt
		Else Stmt // nil without an else branch
	}

	WhileStmt struct {
		Decor
		Cond Expr
		Body Stmt
	}

	// ForStmt decorates Sym with the control variable.
	ForStmt struct {
		Decor
		Var      *VarAccess
		From, To Expr
		Down     bool
		Body     Stmt
	}

	RepeatStmt struct {
		Decor
		Body []Stmt
		Cond Expr
	}

	// CallStmt invokes a procedure.
	CallStmt struct {
		Decor
		Name string
		Args []Expr
	}
)

type (
	BinaryOp struct {
		Decor
		Op          token.Sym
		Left, Right Expr
	}

	UnaryOp struct {
		Decor
		Op      token.Sym
		Operand Expr
	}

	// VarAccess names a variable, constant, or function result.
	VarAccess struct {
		Decor
		Name string
	}

	// ArrayIndex selects an element. Sym refers to the root variable.
	ArrayIndex struct {
		Decor
		Base  Expr
		Index Expr
	}

	// FieldAccess selects a record field. Sym refers to the root variable.
	FieldAccess struct {
		Decor
		Base   Expr
		Field  string
		Offset int
	}

	NumberLit struct {
		Decor
		Text string
	}

	StringLit struct {
		Decor
		Value string
	}

	CharLit struct {
		Decor
		Value rune
	}

	// BoolLit decorates Sym with the builtin true or false constant.
	BoolLit struct {
		Decor
		Value bool
	}

	// Call invokes a function inside an expression.
	Call struct {
		Decor
		Name string
		Args []Expr
	}
)

func (*ConstDecl) decl() {}
func (*TypeDecl) decl()  {}
func (*VarDecl) decl()   {}
func (*ProcDecl) decl()  {}
func (*FuncDecl) decl()  {}

func (*CompoundStmt) stmt() {}
func (*EmptyStmt) stmt()    {}
func (*Assign) stmt()       {}
func (*IfStmt) stmt()       {}
func (*WhileStmt) stmt()    {}
func (*ForStmt) stmt()      {}
func (*RepeatStmt) stmt()   {}
func (*CallStmt) stmt()     {}

func (*BinaryOp) expr()    {}
func (*UnaryOp) expr()     {}
func (*VarAccess) expr()   {}
func (*ArrayIndex) expr()  {}
func (*FieldAccess) expr() {}
func (*NumberLit) expr()   {}
func (*StringLit) expr()   {}
func (*CharLit) expr()     {}
func (*BoolLit) expr()     {}
func (*Call) expr()        {}

// Children returns the direct sub-nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *Program:
		add(n.Body)
	case *Block:
		for _, d := range n.Decls {
			add(d)
		}
		add(n.Body)
	case *ConstDecl:
		add(n.Value)
	case *TypeDecl, *VarDecl, *EmptyStmt, *VarAccess, *NumberLit, *StringLit, *CharLit, *BoolLit:
	case *ProcDecl:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *FuncDecl:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *CompoundStmt:
		for _, s := range n.Stmts {
			add(s)
		}
	case *Assign:
		add(n.Target)
		add(n.Value)
	case *IfStmt:
		add(n.Cond)
		add(n.Then)
		if n.Else != nil {
			add(n.Else)
		}
	case *WhileStmt:
		add(n.Cond)
		add(n.Body)
	case *ForStmt:
		add(n.Var)
		add(n.From)
		add(n.To)
		add(n.Body)
	case *RepeatStmt:
		for _, s := range n.Body {
			add(s)
		}
		add(n.Cond)
	case *CallStmt:
		for _, a := range n.Args {
			add(a)
		}
	case *BinaryOp:
		add(n.Left)
		add(n.Right)
	case *UnaryOp:
		add(n.Operand)
	case *ArrayIndex:
		add(n.Base)
		add(n.Index)
	case *FieldAccess:
		add(n.Base)
	case *Call:
		for _, a := range n.Args {
			add(a)
		}
	}
	return out
}

// Inspect visits n and its descendants depth-first, stopping at subtrees for
// which fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
