package render

import (
	"fmt"
	"strconv"
	"strings"

	"pascals/pkg/semantic"
)

// DecoratedAST renders a decorated AST with each node's attributes:
//
//	Assign → type:void
//	├─ Variable('x') → tab_index:47, type:integer, lev:0
//	└─ Number(1) → type:integer
func DecoratedAST(prog *semantic.Program) string {
	return draw(astItem(prog), astBranches)
}

func astItem(n semantic.Node) *item {
	it := &item{label: astLabel(n) + astAttrs(n)}
	switch n := n.(type) {
	case *semantic.Block:
		if len(n.Decls) > 0 {
			decls := &item{label: "Declarations"}
			for _, d := range n.Decls {
				decls.add(astItem(d))
			}
			it.add(decls)
		}
		it.add(astItem(n.Body))
		return it
	case *semantic.ForStmt:
		// the control variable is carried by the for node's own attributes
		it.add(astItem(n.From), astItem(n.To), astItem(n.Body))
		return it
	}
	for _, c := range semantic.Children(n) {
		it.add(astItem(c))
	}
	return it
}

func astLabel(n semantic.Node) string {
	switch n := n.(type) {
	case *semantic.Program:
		return fmt.Sprintf("ProgramNode(name: '%s')", n.Name)
	case *semantic.Block:
		return "Block"
	case *semantic.ConstDecl:
		return fmt.Sprintf("ConstDecl('%s')", n.Name)
	case *semantic.TypeDecl:
		return fmt.Sprintf("TypeDecl('%s')", n.Name)
	case *semantic.VarDecl:
		switch {
		case n.ByRef:
			return fmt.Sprintf("Param(var '%s')", n.Name)
		case n.Param:
			return fmt.Sprintf("Param('%s')", n.Name)
		}
		return fmt.Sprintf("VarDecl('%s')", n.Name)
	case *semantic.ProcDecl:
		return fmt.Sprintf("ProcDecl('%s')", n.Name)
	case *semantic.FuncDecl:
		return fmt.Sprintf("FuncDecl('%s')", n.Name)
	case *semantic.CompoundStmt:
		return "CompoundStmt"
	case *semantic.EmptyStmt:
		return "EmptyStmt"
	case *semantic.Assign:
		return "Assign"
	case *semantic.IfStmt:
		return "IfStmt"
	case *semantic.WhileStmt:
		return "WhileStmt"
	case *semantic.ForStmt:
		dir := "to"
		if n.Down {
			dir = "downto"
		}
		return fmt.Sprintf("ForStmt('%s' %s)", n.Var.Name, dir)
	case *semantic.RepeatStmt:
		return "RepeatStmt"
	case *semantic.CallStmt:
		return fmt.Sprintf("ProcCall('%s')", n.Name)
	case *semantic.Call:
		return fmt.Sprintf("FuncCall('%s')", n.Name)
	case *semantic.BinaryOp:
		return fmt.Sprintf("BinOp '%s'", n.Op)
	case *semantic.UnaryOp:
		return fmt.Sprintf("UnaryOp '%s'", n.Op)
	case *semantic.VarAccess:
		return fmt.Sprintf("Variable('%s')", n.Name)
	case *semantic.ArrayIndex:
		return "ArrayIndex"
	case *semantic.FieldAccess:
		return fmt.Sprintf("FieldAccess('.%s')", n.Field)
	case *semantic.NumberLit:
		return fmt.Sprintf("Number(%s)", n.Text)
	case *semantic.StringLit:
		return fmt.Sprintf("String('%s')", strings.ReplaceAll(n.Value, "'", "''"))
	case *semantic.CharLit:
		if n.Value == '\'' {
			return "Char('''')"
		}
		return fmt.Sprintf("Char('%c')", n.Value)
	case *semantic.BoolLit:
		return "Boolean(" + strconv.FormatBool(n.Value) + ")"
	}
	return fmt.Sprintf("%T", n)
}

func astAttrs(n semantic.Node) string {
	d := semantic.Attrs(n)
	var parts []string
	if d.Sym != 0 {
		parts = append(parts, fmt.Sprintf("tab_index:%d", d.Sym))
	}
	if d.Block != 0 {
		parts = append(parts, fmt.Sprintf("block_index:%d", d.Block))
	}
	if d.Type != nil {
		parts = append(parts, "type:"+d.Type.String())
	}
	if d.Sym != 0 {
		parts = append(parts, fmt.Sprintf("lev:%d", d.Level))
	}
	if len(parts) == 0 {
		return ""
	}
	return " → " + strings.Join(parts, ", ")
}
