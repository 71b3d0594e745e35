package semantic

import "fmt"

// ObjKind classifies symbol table entries.
type ObjKind int

const (
	ObjConstant ObjKind = iota + 1
	ObjVariable
	ObjType
	ObjProcedure
	ObjFunction
	ObjProgram
)

var objKindNames = [...]string{
	ObjConstant:  "CONSTANT",
	ObjVariable:  "VARIABLE",
	ObjType:      "TYPE",
	ObjProcedure: "PROCEDURE",
	ObjFunction:  "FUNCTION",
	ObjProgram:   "PROGRAM",
}

func (k ObjKind) String() string {
	if int(k) > 0 && int(k) < len(objKindNames) {
		return objKindNames[k]
	}
	return fmt.Sprintf("ObjKind(%d)", int(k))
}

// SymbolEntry is one row of the symbol table.
//
// Addr is the storage offset of a variable within its block's activation
// area, or the ordinal value of a constant. Ref is the block index of a
// procedure, function or program. Link is the index of the previous entry
// declared in the same block, 0 at the end of the chain. Normal is false for
// var (by-reference) parameters.
type SymbolEntry struct {
	Index  int
	Name   string
	Kind   ObjKind
	Type   *Type
	Level  int
	Addr   int
	Ref    int
	Link   int
	Normal bool
}

// SymbolTable is an append-only arena of entries. Index 0 is a sentinel so
// that a zero Link terminates every chain.
type SymbolTable struct {
	entries []SymbolEntry
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make([]SymbolEntry, 1, 64)}
}

// Len returns the number of real entries.
func (t *SymbolTable) Len() int { return len(t.entries) - 1 }

// Entry returns the entry at index i (1-based).
func (t *SymbolTable) Entry(i int) (SymbolEntry, bool) {
	if i <= 0 || i >= len(t.entries) {
		return SymbolEntry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of all real entries in index order.
func (t *SymbolTable) Entries() []SymbolEntry {
	return append([]SymbolEntry(nil), t.entries[1:]...)
}

func (t *SymbolTable) at(i int) *SymbolEntry { return &t.entries[i] }

func (t *SymbolTable) append(e SymbolEntry) int {
	e.Index = len(t.entries)
	t.entries = append(t.entries, e)
	return e.Index
}

// BlockEntry is one row of the block table. Last is the most recent entry
// declared in the block, LPar the last parameter, PSize the activation
// header plus parameter area and VSize the whole activation area.
type BlockEntry struct {
	Index int
	Last  int
	LPar  int
	PSize int
	VSize int
}

// BlockTable is an append-only arena of blocks with a sentinel at index 0.
// Block 1 is the global scope.
type BlockTable struct {
	blocks []BlockEntry
}

func newBlockTable() *BlockTable {
	return &BlockTable{blocks: make([]BlockEntry, 1, 16)}
}

// Len returns the number of real blocks.
func (t *BlockTable) Len() int { return len(t.blocks) - 1 }

// Block returns the block at index i (1-based).
func (t *BlockTable) Block(i int) (BlockEntry, bool) {
	if i <= 0 || i >= len(t.blocks) {
		return BlockEntry{}, false
	}
	return t.blocks[i], true
}

// Blocks returns a copy of all real blocks in index order.
func (t *BlockTable) Blocks() []BlockEntry {
	return append([]BlockEntry(nil), t.blocks[1:]...)
}

func (t *BlockTable) at(i int) *BlockEntry { return &t.blocks[i] }

func (t *BlockTable) open() int {
	i := len(t.blocks)
	t.blocks = append(t.blocks, BlockEntry{Index: i})
	return i
}

// Params returns the parameter entries of the routine owning block b, in
// declaration order.
func (t *SymbolTable) Params(blocks *BlockTable, b int) []SymbolEntry {
	blk, ok := blocks.Block(b)
	if !ok {
		return nil
	}
	var out []SymbolEntry
	for i := blk.LPar; i != 0; i = t.entries[i].Link {
		out = append(out, t.entries[i])
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// scopes tracks the display: the block index open at each static level.
type scopes struct {
	syms    *SymbolTable
	blocks  *BlockTable
	display []int
	dx      []int // next free address per level
}

// Level is the static nesting level of the innermost open scope.
func (s *scopes) Level() int { return len(s.display) - 1 }

func (s *scopes) current() *BlockEntry { return s.blocks.at(s.display[s.Level()]) }

// push opens a new block one level deeper; its addresses start at base.
func (s *scopes) push(base int) int {
	b := s.blocks.open()
	s.display = append(s.display, b)
	s.dx = append(s.dx, base)
	return b
}

// pop closes the innermost block and records its activation size.
func (s *scopes) pop() {
	s.current().VSize = s.dx[s.Level()]
	s.display = s.display[:len(s.display)-1]
	s.dx = s.dx[:len(s.dx)-1]
}

// declared finds name among the entries of the innermost block only.
func (s *scopes) declared(name string) int {
	for i := s.current().Last; i != 0; i = s.syms.entries[i].Link {
		if s.syms.entries[i].Name == name {
			return i
		}
	}
	return 0
}

// lookup resolves name through the innermost block and then each enclosing
// level down to the builtins at level 0. It returns 0 when name is unknown.
func (s *scopes) lookup(name string) int {
	for lev := s.Level(); lev >= 0; lev-- {
		for i := s.blocks.at(s.display[lev]).Last; i != 0; i = s.syms.entries[i].Link {
			if s.syms.entries[i].Name == name {
				return i
			}
		}
	}
	return 0
}

// enter appends an entry to the innermost block and links it into the
// block's chain. Variables get the next free address, advanced by size.
func (s *scopes) enter(e SymbolEntry, size int) int {
	blk := s.current()
	e.Level = s.Level()
	e.Link = blk.Last
	if e.Kind == ObjVariable {
		e.Addr = s.dx[e.Level]
		s.dx[e.Level] += size
	}
	i := s.syms.append(e)
	blk.Last = i
	return i
}
