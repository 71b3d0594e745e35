package semantic

import (
	"errors"
	"fmt"
)

// Validate checks that a decorated AST is fully resolved against syms: every
// expression has a type other than unresolved, every symbol reference names
// a real entry at the recorded level, and program and routine nodes point at
// existing blocks. It returns all violations joined.
func Validate(prog *Program, syms *SymbolTable, blocks *BlockTable) error {
	var errs []error
	fail := func(n Node, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%T at %s: %s", n, n.decor().Pos, fmt.Sprintf(format, args...)))
	}
	Inspect(prog, func(n Node) bool {
		d := n.decor()
		if d.Type == nil {
			fail(n, "missing type")
		} else if _, isExpr := n.(Expr); isExpr && d.Type.Kind == TyUnresolved {
			fail(n, "unresolved type")
		}

		switch n.(type) {
		case *VarAccess, *ArrayIndex, *FieldAccess, *Call, *CallStmt, *ForStmt, *BoolLit,
			*ConstDecl, *TypeDecl, *VarDecl, *ProcDecl, *FuncDecl, *Program:
			e, ok := syms.Entry(d.Sym)
			if !ok {
				fail(n, "symbol %d out of range", d.Sym)
				break
			}
			if e.Level != d.Level {
				fail(n, "level %d does not match entry %s at level %d", d.Level, e.Name, e.Level)
			}
		}

		switch n.(type) {
		case *Program, *ProcDecl, *FuncDecl, *Block:
			if _, ok := blocks.Block(d.Block); !ok {
				fail(n, "block %d out of range", d.Block)
			}
		}
		return true
	})
	return errors.Join(errs...)
}
