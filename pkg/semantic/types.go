package semantic

import (
	"fmt"
	"strconv"
)

// TypeKind discriminates type descriptors.
type TypeKind int

const (
	TyUnresolved TypeKind = iota
	TyInteger
	TyReal
	TyBoolean
	TyChar
	TyString
	TyVoid
	TySubrange
	TyArray
	TyRecord
)

var typeKindNames = [...]string{
	TyUnresolved: "unresolved",
	TyInteger:    "integer",
	TyReal:       "real",
	TyBoolean:    "boolean",
	TyChar:       "char",
	TyString:     "string",
	TyVoid:       "void",
	TySubrange:   "subrange",
	TyArray:      "array",
	TyRecord:     "record",
}

func (k TypeKind) String() string {
	if int(k) >= 0 && int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", int(k))
}

// Type describes a Pascal-S type. Primitive types are shared singletons;
// composite types are allocated once per declaration, and record types are
// compared by identity.
type Type struct {
	Kind TypeKind
	Name string // declared name, "" for anonymous types

	// Subrange: Base with inclusive ordinal bounds Low..High.
	// Array: index bounds Low..High.
	Base      *Type
	Low, High int

	Elem   *Type   // array element type
	Fields []Field // record fields in declaration order
}

// Field is a record component. Offset counts storage units from the start
// of the record.
type Field struct {
	Name   string
	Type   *Type
	Offset int
}

var (
	Unresolved = &Type{Kind: TyUnresolved}
	Integer    = &Type{Kind: TyInteger}
	Real       = &Type{Kind: TyReal}
	Boolean    = &Type{Kind: TyBoolean}
	Char       = &Type{Kind: TyChar}
	String     = &Type{Kind: TyString}
	Void       = &Type{Kind: TyVoid}
)

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TySubrange:
		return t.Base.ordinalString(t.Low) + ".." + t.Base.ordinalString(t.High)
	case TyArray:
		return fmt.Sprintf("array[%d..%d] of %s", t.Low, t.High, t.Elem)
	case TyRecord:
		if t.Name != "" {
			return "record " + t.Name
		}
		return "record"
	}
	return t.Kind.String()
}

func (t *Type) ordinalString(v int) string {
	switch t.Kind {
	case TyChar:
		return strconv.QuoteRune(rune(v))
	case TyBoolean:
		return strconv.FormatBool(v != 0)
	}
	return strconv.Itoa(v)
}

// Underlying strips subranges down to their ordinal base.
func (t *Type) Underlying() *Type {
	for t != nil && t.Kind == TySubrange {
		t = t.Base
	}
	return t
}

func (t *Type) is(k TypeKind) bool {
	u := t.Underlying()
	return u != nil && u.Kind == k
}

// IsNumeric reports whether t is integer or real.
func (t *Type) IsNumeric() bool { return t.is(TyInteger) || t.is(TyReal) }

// IsOrdinal reports whether t is integer, char or boolean (or a subrange of
// one).
func (t *Type) IsOrdinal() bool { return t.is(TyInteger) || t.is(TyChar) || t.is(TyBoolean) }

// IsTextual reports whether t is char or string.
func (t *Type) IsTextual() bool { return t.is(TyChar) || t.is(TyString) }

// IsSimple reports whether t is a primitive value type.
func (t *Type) IsSimple() bool {
	u := t.Underlying()
	if u == nil {
		return false
	}
	switch u.Kind {
	case TyInteger, TyReal, TyBoolean, TyChar, TyString:
		return true
	}
	return false
}

// Size is the number of storage units a value of t occupies.
func (t *Type) Size() int {
	switch t.Kind {
	case TyArray:
		return (t.High - t.Low + 1) * t.Elem.Size()
	case TyRecord:
		n := 0
		for _, f := range t.Fields {
			n += f.Type.Size()
		}
		return n
	case TyVoid, TyUnresolved:
		return 0
	}
	return 1
}

// Field returns the record field called name.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Identical reports whether a and b denote the same type. Subranges are
// identical to their base; arrays match on bounds and element type; records
// only match themselves.
func Identical(a, b *Type) bool {
	a, b = a.Underlying(), b.Underlying()
	if a == nil || b == nil || a.Kind == TyUnresolved || b.Kind == TyUnresolved {
		return false
	}
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TyArray:
		return a.Low == b.Low && a.High == b.High && Identical(a.Elem, b.Elem)
	case TyRecord:
		return false
	}
	return true
}

// Assignable reports whether a value of type src may be stored in dst:
// identical types, integer widened to real, or char widened to string.
func Assignable(dst, src *Type) bool {
	if Identical(dst, src) {
		return true
	}
	return (dst.is(TyReal) && src.is(TyInteger)) || (dst.is(TyString) && src.is(TyChar))
}
