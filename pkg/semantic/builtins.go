package semantic

import (
	"pascals/pkg/diag"
	"pascals/pkg/source"
	"pascals/pkg/token"
)

// builtin identifies a standard procedure or function.
type builtin int

const (
	biNone builtin = iota
	biWrite
	biWriteln
	biRead
	biReadln
	biAbs
	biSqr
	biSqrt
	biSin
	biCos
	biExp
	biLn
	biOdd
	biOrd
	biChr
	biSucc
	biPred
)

type routineDef struct {
	name string
	kind ObjKind
	typ  *Type
	id   builtin
}

// standardRoutines are entered after the reserved words, in this order.
var standardRoutines = []routineDef{
	{"write", ObjProcedure, Void, biWrite},
	{"writeln", ObjProcedure, Void, biWriteln},
	{"read", ObjProcedure, Void, biRead},
	{"readln", ObjProcedure, Void, biReadln},
	{"abs", ObjFunction, Integer, biAbs},
	{"sqr", ObjFunction, Integer, biSqr},
	{"sqrt", ObjFunction, Real, biSqrt},
	{"sin", ObjFunction, Real, biSin},
	{"cos", ObjFunction, Real, biCos},
	{"exp", ObjFunction, Real, biExp},
	{"ln", ObjFunction, Real, biLn},
	{"odd", ObjFunction, Boolean, biOdd},
	{"ord", ObjFunction, Integer, biOrd},
	{"chr", ObjFunction, Char, biChr},
	{"succ", ObjFunction, Integer, biSucc},
	{"pred", ObjFunction, Integer, biPred},
}

var primitiveTypes = []struct {
	sym token.Sym
	typ *Type
}{
	{token.Integer, Integer},
	{token.Real, Real},
	{token.Boolean, Boolean},
	{token.Char, Char},
	{token.String, String},
}

// seed enters the level-0 builtins into the global block: the boolean
// constants, the primitive type names, one pseudo-entry per reserved word and
// the standard routines.
func (a *analyzer) seed() {
	a.falseSym = a.scope.enter(SymbolEntry{Name: a.spell(token.False), Kind: ObjConstant, Type: Boolean, Addr: 0, Normal: true}, 0)
	a.trueSym = a.scope.enter(SymbolEntry{Name: a.spell(token.True), Kind: ObjConstant, Type: Boolean, Addr: 1, Normal: true}, 0)
	for _, p := range primitiveTypes {
		a.scope.enter(SymbolEntry{Name: p.sym.String(), Kind: ObjType, Type: p.typ, Normal: true}, 0)
	}
	for _, s := range token.Reserved {
		a.scope.enter(SymbolEntry{Name: a.spell(s), Kind: ObjProcedure, Type: Void, Normal: true}, 0)
	}
	a.builtins = make(map[int]builtin, len(standardRoutines))
	for _, r := range standardRoutines {
		i := a.scope.enter(SymbolEntry{Name: r.name, Kind: r.kind, Type: r.typ, Normal: true}, 0)
		a.builtins[i] = r.id
	}
}

type unarySig struct {
	want    string
	accepts func(*Type) bool
	result  func(*Type) *Type
}

func sameType(t *Type) *Type { return t.Underlying() }

func always(r *Type) func(*Type) *Type { return func(*Type) *Type { return r } }

func isInteger(t *Type) bool { return t.is(TyInteger) }

// unarySigs types the one-argument standard functions.
var unarySigs = map[builtin]unarySig{
	biAbs:  {"numeric", (*Type).IsNumeric, sameType},
	biSqr:  {"numeric", (*Type).IsNumeric, sameType},
	biSqrt: {"numeric", (*Type).IsNumeric, always(Real)},
	biSin:  {"numeric", (*Type).IsNumeric, always(Real)},
	biCos:  {"numeric", (*Type).IsNumeric, always(Real)},
	biExp:  {"numeric", (*Type).IsNumeric, always(Real)},
	biLn:   {"numeric", (*Type).IsNumeric, always(Real)},
	biOdd:  {"integer", isInteger, always(Boolean)},
	biOrd:  {"ordinal", (*Type).IsOrdinal, always(Integer)},
	biChr:  {"integer", isInteger, always(Char)},
	biSucc: {"ordinal", (*Type).IsOrdinal, sameType},
	biPred: {"ordinal", (*Type).IsOrdinal, sameType},
}

// checkBuiltinCall types a call to a standard routine and returns the
// result type. write and read take any number of arguments.
func (a *analyzer) checkBuiltinCall(id builtin, name string, pos source.Position, args []Expr) (*Type, error) {
	switch id {
	case biWrite, biWriteln:
		for _, arg := range args {
			if t := arg.decor().Type; !t.IsSimple() {
				return nil, a.errorf(diag.TypeMismatch, arg, "cannot write a value of type %s", t)
			}
		}
		return Void, nil
	case biRead, biReadln:
		for _, arg := range args {
			if !a.addressable(arg) {
				return nil, a.errorf(diag.NotAddressable, arg, "argument of %s must be a variable", name)
			}
			if t := arg.decor().Type; !t.IsSimple() || t.is(TyBoolean) {
				return nil, a.errorf(diag.TypeMismatch, arg, "cannot read a value of type %s", t)
			}
		}
		return Void, nil
	}

	sig := unarySigs[id]
	if len(args) != 1 {
		return nil, diag.Errorf(diag.ArityMismatch, pos, "%s expects 1 argument, got %d", name, len(args))
	}
	t := args[0].decor().Type
	if !sig.accepts(t) {
		return nil, a.errorf(diag.TypeMismatch, args[0], "%s expects a %s argument, got %s", name, sig.want, t)
	}
	return sig.result(t), nil
}
