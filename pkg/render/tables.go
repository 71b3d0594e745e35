package render

import (
	"fmt"
	"strings"

	"pascals/pkg/semantic"
)

// table accumulates a titled, fixed-width block of rows.
type table struct {
	sb    strings.Builder
	width int
}

func (t *table) title(name string) {
	if t.sb.Len() > 0 {
		t.sb.WriteByte('\n')
	}
	rule := strings.Repeat("=", t.width)
	fmt.Fprintf(&t.sb, "%s\n%s\n%s\n", rule, name, rule)
}

func (t *table) header(format string, cols ...any) {
	t.row(format, cols...)
	t.sb.WriteString(strings.Repeat("-", t.width))
	t.sb.WriteByte('\n')
}

func (t *table) row(format string, args ...any) {
	t.sb.WriteString(strings.TrimRight(fmt.Sprintf(format, args...), " "))
	t.sb.WriteByte('\n')
}

const (
	symbolRow = "%-6v %-20v %-12v %-15v %-6v %-6v %-6v %-6v"
	arrayRow  = "%-6v %-12v %-20v %-8v %-8v %-8v %-8v"
	blockRow  = "%-6v %-8v %-8v %-8v %-8v"
)

// Tables renders the symbol table, the array types it references and the
// block table as fixed-width columns.
func Tables(syms *semantic.SymbolTable, blocks *semantic.BlockTable) string {
	t := &table{width: 80}
	writeSymbols(t, syms)
	if arrays := ArrayTypes(syms); len(arrays) > 0 {
		t.width = 88
		t.title("ARRAY TABLE (atab)")
		t.header(arrayRow, "Index", "IdxType", "ElemType", "Low", "High", "ElemSz", "Size")
		for i, a := range arrays {
			t.row(arrayRow, i+1, a.Base.Underlying(), a.Elem, a.Low, a.High, a.Elem.Size(), a.Size())
		}
		t.width = 80
	}
	writeBlocks(t, blocks)
	return t.sb.String()
}

// SymbolTable renders only the symbol table.
func SymbolTable(syms *semantic.SymbolTable) string {
	t := &table{width: 80}
	writeSymbols(t, syms)
	return t.sb.String()
}

// BlockTable renders only the block table.
func BlockTable(blocks *semantic.BlockTable) string {
	t := &table{width: 80}
	writeBlocks(t, blocks)
	return t.sb.String()
}

func writeSymbols(t *table, syms *semantic.SymbolTable) {
	t.title("SYMBOL TABLE (tab)")
	t.header(symbolRow, "Index", "Name", "Kind", "Type", "Level", "Addr", "Ref", "Link")
	for _, e := range syms.Entries() {
		t.row(symbolRow, e.Index, e.Name, e.Kind, e.Type, e.Level, e.Addr, e.Ref, e.Link)
	}
}

func writeBlocks(t *table, blocks *semantic.BlockTable) {
	t.title("BLOCK TABLE (btab)")
	t.header(blockRow, "Index", "Last", "LPar", "PSize", "VSize")
	for _, b := range blocks.Blocks() {
		t.row(blockRow, b.Index, b.Last, b.LPar, b.PSize, b.VSize)
	}
}

// ArrayTypes returns every distinct array type reachable from the symbol
// table, outer arrays before their element arrays, in entry order.
func ArrayTypes(syms *semantic.SymbolTable) []*semantic.Type {
	var out []*semantic.Type
	seen := make(map[*semantic.Type]bool)
	var visit func(*semantic.Type)
	visit = func(t *semantic.Type) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true
		switch t.Kind {
		case semantic.TyArray:
			out = append(out, t)
			visit(t.Elem)
		case semantic.TyRecord:
			for _, f := range t.Fields {
				visit(f.Type)
			}
		}
	}
	for _, e := range syms.Entries() {
		visit(e.Type)
	}
	return out
}
