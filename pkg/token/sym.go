package token

import "fmt"

// Sym is the vocabulary-independent identity of a keyword or operator.
// Keyword vocabularies map their spellings onto these values.
type Sym int

const (
	None Sym = iota

	Program
	Const
	Type
	Var
	Procedure
	Function
	Begin
	End
	If
	Then
	Else
	While
	Do
	For
	To
	Downto
	Repeat
	Until
	Array
	Of
	Record
	True
	False

	// Primitive type names
	Integer
	Real
	Boolean
	Char
	String

	// Word operators
	Div
	Mod
	And
	Or
	Not

	// Symbolic operators
	Plus
	Minus
	Star
	Slash
	Eq
	Neq
	Lt
	Le
	Gt
	Ge

	numSyms
)

// symNames doubles as the symbol vocabulary used by the keyword tables.
var symNames = [...]string{
	None:      "none",
	Program:   "program",
	Const:     "const",
	Type:      "type",
	Var:       "var",
	Procedure: "procedure",
	Function:  "function",
	Begin:     "begin",
	End:       "end",
	If:        "if",
	Then:      "then",
	Else:      "else",
	While:     "while",
	Do:        "do",
	For:       "for",
	To:        "to",
	Downto:    "downto",
	Repeat:    "repeat",
	Until:     "until",
	Array:     "array",
	Of:        "of",
	Record:    "record",
	True:      "true",
	False:     "false",
	Integer:   "integer",
	Real:      "real",
	Boolean:   "boolean",
	Char:      "char",
	String:    "string",
	Div:       "div",
	Mod:       "mod",
	And:       "and",
	Or:        "or",
	Not:       "not",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Eq:        "=",
	Neq:       "<>",
	Lt:        "<",
	Le:        "<=",
	Gt:        ">",
	Ge:        ">=",
}

var _ = [1]struct{}{}[len(symNames)-int(numSyms)]

func (s Sym) String() string {
	if s >= 0 && s < numSyms {
		return symNames[s]
	}
	return fmt.Sprintf("Sym(%d)", int(s))
}

// SymByName resolves a canonical symbol name such as "downto" or "div".
func SymByName(name string) (Sym, bool) {
	for s := None + 1; s < numSyms; s++ {
		if symNames[s] == name {
			return s, true
		}
	}
	return None, false
}

// Kind returns the token kind that a word or operator with symbol s lexes to.
func (s Sym) Kind() Kind {
	switch s {
	case Div, Mod, Plus, Minus, Star, Slash:
		return ARITHMETIC_OPERATOR
	case And, Or, Not:
		return LOGICAL_OPERATOR
	case Eq, Neq, Lt, Le, Gt, Ge:
		return RELATIONAL_OPERATOR
	case None:
		return IDENTIFIER
	default:
		return KEYWORD
	}
}

// IsTypeName reports whether s names a primitive type.
func (s Sym) IsTypeName() bool { return s >= Integer && s <= String }

// IsWord reports whether s is spelled with letters and therefore belongs in a
// keyword vocabulary.
func (s Sym) IsWord() bool { return s > None && s <= Not }

// Reserved lists, in symbol-table seeding order, the words entered as
// reserved pseudo-entries at level 0.
var Reserved = []Sym{
	And, Or, Not, Div, Mod,
	Program, Var, Const, Type, Procedure, Function,
	Begin, End, If, Then, Else, While, Do, For, To, Downto, Array,
}
