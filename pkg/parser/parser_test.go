package parser

import (
	"strings"
	"testing"

	"pascals/pkg/diag"
	"pascals/pkg/lexer"
	"pascals/pkg/token"
)

// sexpr renders a subtree as (label child ...) with leaves as lexemes. A
// bare variable prints as its name.
func sexpr(c Child) string {
	switch c := c.(type) {
	case Leaf:
		return c.Lexeme
	case *Node:
		if c.Label == LabelVariable && len(c.Children) == 1 {
			return sexpr(c.Children[0])
		}
		parts := []string{c.Label}
		for _, ch := range c.Children {
			parts = append(parts, sexpr(ch))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "?"
}

// shape renders a subtree as labels and leaf kinds only.
func shape(c Child) string {
	switch c := c.(type) {
	case Leaf:
		return c.Kind.String()
	case *Node:
		parts := []string{c.Label}
		for _, ch := range c.Children {
			parts = append(parts, shape(ch))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "?"
}

func parseSource(t *testing.T, vocab, src string) *Node {
	t.Helper()
	toks, err := lexer.New(lexer.MustLookup(vocab)).Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	tree, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return tree
}

// body returns the statement list of the program's main compound statement.
func body(tree *Node) *Node {
	return tree.Find(LabelBlock).Find(LabelCompound).Find(LabelStatementList)
}

func TestParseMinimalProgram(t *testing.T) {
	tree := parseSource(t, "english", "program P; var x: integer; begin x := 1 end.")
	want := "(program (program-header program P ;) " +
		"(block (declaration-part (var-section var (var-declaration (identifier-list x) : (type integer) ;))) " +
		"(compound-statement begin (statement-list (assignment-statement x := 1)) end)) .)"
	if got := sexpr(tree); got != want {
		t.Errorf("\ngot:  %s\nwant: %s", got, want)
	}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Multiplication Binds Tighter", "a + b * c", "(expression a + (expression b * c))"},
		{"Left Associative", "a - b - c", "(expression (expression a - b) - c)"},
		{"And Binds Tighter Than Or", "a or b and c", "(expression a or (expression b and c))"},
		{"Relational Below Additive", "a + 1 < b * 2", "(expression (expression a + 1) < (expression b * 2))"},
		{"Relational Below And", "a < b and c", "(expression (expression a < b) and c)"},
		{"Unary Not", "not a = b", "(expression (unary-expression not a) = b)"},
		{"Unary Minus Nested", "- - x", "(unary-expression - (unary-expression - x))"},
		{"Parentheses", "(a + b) * c", "(expression (expression a + b) * c)"},
		{"Word Operators", "a div b mod c", "(expression (expression a div b) mod c)"},
		{"Function Call", "f(x, 2)", "(procedure/function-call f ( (parameter-list x , 2) ))"},
		{"Empty Argument List", "f()", "(procedure/function-call f ( ))"},
		{"Selectors", "a[i + 1].name", "(variable a [ (expression i + 1) ] . name)"},
		{"Literals", "'s' = 'str'", "(expression 's' = 'str')"},
		{"Boolean Literal", "true or false", "(expression true or false)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseSource(t, "english", "program P; begin x := "+tt.input+" end.")
			assign := body(tree).Node(0)
			if assign.Label != LabelAssign {
				t.Fatalf("statement is %s", assign.Label)
			}
			if got := sexpr(assign.Children[2]); got != tt.want {
				t.Errorf("\ngot:  %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"Dangling Else Binds Inner",
			"if a then if b then x := 1 else x := 2",
			"(if-statement if a then (if-statement if b then (assignment-statement x := 1) else (assignment-statement x := 2)))",
		},
		{
			"While",
			"while i < 10 do i := i + 1",
			"(while-statement while (expression i < 10) do (assignment-statement i := (expression i + 1)))",
		},
		{
			"For Downto",
			"for i := 10 downto 1 do writeln(i)",
			"(for-statement for i := 10 downto 1 do (procedure/function-call writeln ( (parameter-list i) )))",
		},
		{
			"Repeat",
			"repeat i := i - 1; until i = 0",
			"(repeat-statement repeat (statement-list (assignment-statement i := (expression i - 1)) ; (empty-statement)) until (expression i = 0))",
		},
		{
			"Call Without Arguments",
			"tick",
			"(procedure/function-call tick)",
		},
		{
			"Nested Compound",
			"begin end",
			"(compound-statement begin (statement-list (empty-statement)) end)",
		},
		{
			"Field Assignment",
			"p.age := 25",
			"(assignment-statement (variable p . age) := 25)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseSource(t, "english", "program P; begin "+tt.input+" end.")
			if got := sexpr(body(tree).Children[0]); got != tt.want {
				t.Errorf("\ngot:  %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestDeclarations(t *testing.T) {
	src := `program Decls;
const
  Max = 10;
  Neg = -3;
  Greeting = 'hi';
type
  Index = 1..Max;
  Vec = array[1..Max] of real;
  Person = record name: string; age, height: integer; end;
var
  v: Vec;
  p: Person;
procedure Swap(var a, b: integer; c: real);
var t: integer;
begin t := a; a := b; b := t end;
function Twice(n: integer): integer;
begin Twice := n * 2 end;
begin end.`
	tree := parseSource(t, "english", src)
	decls := tree.Find(LabelBlock).Find(LabelDeclarationPart)

	var labels []string
	for _, c := range decls.Children {
		labels = append(labels, c.(*Node).Label)
	}
	wantLabels := []string{LabelConstSection, LabelTypeSection, LabelVarSection, LabelProcedureDecl, LabelFunctionDecl}
	if strings.Join(labels, ",") != strings.Join(wantLabels, ",") {
		t.Fatalf("declaration labels = %v, want %v", labels, wantLabels)
	}

	consts := decls.Node(0).All(LabelConstDecl)
	if got := sexpr(consts[1]); got != "(const-declaration Neg = (constant - 3) ;)" {
		t.Errorf("signed constant: %s", got)
	}

	types := decls.Node(1).All(LabelTypeDecl)
	checks := []string{
		"(type-declaration Index = (type (subrange-type (constant 1) .. (constant Max))) ;)",
		"(type-declaration Vec = (type (array-type array [ (subrange-type (constant 1) .. (constant Max)) ] of (type real))) ;)",
		"(type-declaration Person = (type (record-type record (field-declaration (identifier-list name) : (type string)) ; " +
			"(field-declaration (identifier-list age , height) : (type integer)) ; end)) ;)",
	}
	for i, want := range checks {
		if got := sexpr(types[i]); got != want {
			t.Errorf("type %d\ngot:  %s\nwant: %s", i, got, want)
		}
	}

	params := decls.Node(3).Find(LabelFormalParams)
	groups := params.All(LabelParamGroup)
	if len(groups) != 2 {
		t.Fatalf("got %d parameter groups", len(groups))
	}
	if !groups[0].HasSym(token.Var) || groups[1].HasSym(token.Var) {
		t.Error("var marker on the wrong parameter group")
	}
	if ids := groups[0].Find(LabelIdentList).Leaves(token.IDENTIFIER); len(ids) != 2 {
		t.Errorf("first group has %d names", len(ids))
	}

	fn := decls.Node(4)
	if ret := fn.Find(LabelType); ret == nil || sexpr(ret) != "(type integer)" {
		t.Errorf("function return type = %v", ret)
	}
	if fn.Find(LabelBlock) == nil {
		t.Error("function has no block")
	}
}

func TestVocabularyEquivalence(t *testing.T) {
	en := `program P;
var i, s: integer;
begin
  s := 0;
  for i := 10 downto 1 do
    if i mod 2 = 0 then s := s + i else s := s - 1;
  while not (s > 100) and true do s := s * 2
end.`
	id := `program P;
variabel i, s: integer;
mulai
  s := 0;
  untuk i := 10 turun-ke 1 lakukan
    jika i mod 2 = 0 maka s := s + i selain-itu s := s - 1;
  selama tidak (s > 100) dan benar lakukan s := s * 2
selesai.`
	a := shape(parseSource(t, "english", en))
	b := shape(parseSource(t, "indonesian", id))
	if a != b {
		t.Errorf("trees differ\nenglish:    %s\nindonesian: %s", a, b)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
		line    int
		col     int
	}{
		{"Missing Program", "begin end.", "expected 'program', found KEYWORD(begin)", 1, 1},
		{"Missing Semicolon", "program P var x: integer; begin end.", "expected ';', found KEYWORD(var)", 1, 11},
		{"Missing Then", "program P; begin if x x := 1 end.", "expected 'then', found IDENTIFIER(x)", 1, 23},
		{"Missing Dot", "program P; begin end", "expected '.', found end of input", 1, 21},
		{"Trailing Tokens", "program P; begin end. x", "expected end of input, found IDENTIFIER(x)", 1, 23},
		{"Bad Expression", "program P; begin x := * 2 end.", "expected expression, found ARITHMETIC_OPERATOR(*)", 1, 23},
		{"Unclosed Paren", "program P; begin x := (1 + 2 end.", "expected ')', found KEYWORD(end)", 1, 30},
		{"Bad Type", "program P; var x: 'ab'; begin end.", "expected type, found STRING('ab')", 1, 19},
		{"Empty Var Section", "program P; var begin end.", "expected identifier after 'var', found KEYWORD(begin)", 1, 16},
		{"Missing End", "program P; begin x := 1 x := 2 end.", "expected 'end', found IDENTIFIER(x)", 1, 25},
		{"For Direction", "program P; begin for i := 1 until 2 do end.", "expected 'to' or 'downto', found KEYWORD(until)", 1, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lexer.Tokenize("e.pas", tt.input)
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			_, err = Parse(toks)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			de, ok := err.(*diag.Error)
			if !ok || de.Kind != diag.SyntaxError {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
			if de.Msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", de.Msg, tt.wantMsg)
			}
			if de.Pos.Line != tt.line || de.Pos.Column != tt.col {
				t.Errorf("position = %d:%d, want %d:%d", de.Pos.Line, de.Pos.Column, tt.line, tt.col)
			}
		})
	}
}

func TestErrorUsesRegisterSpelling(t *testing.T) {
	v := lexer.MustLookup("indonesian")
	toks, err := lexer.New(v).Tokenize("program P; mulai jika x x := 1 selesai.")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Parse(toks, WithSpelling(v.Spelling))
	if err == nil || !strings.Contains(err.Error(), "expected 'maka'") {
		t.Errorf("error = %v, want mention of 'maka'", err)
	}
}

func TestNodePositions(t *testing.T) {
	tree := parseSource(t, "english", "program P;\nbegin\n  x := a + b\nend.")
	assign := body(tree).Node(0)
	if p := assign.Pos(); p.Line != 3 || p.Column != 3 {
		t.Errorf("assignment at %d:%d, want 3:3", p.Line, p.Column)
	}
	if p := assign.Children[2].Pos(); p.Line != 3 || p.Column != 8 {
		t.Errorf("expression at %d:%d, want 3:8", p.Line, p.Column)
	}
}

func TestWalk(t *testing.T) {
	tree := parseSource(t, "english", "program P; begin x := 1 end.")
	leaves, maxDepth := 0, 0
	Walk(tree, func(c Child, depth int) {
		if _, ok := c.(Leaf); ok {
			leaves++
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	})
	if leaves != 9 {
		t.Errorf("got %d leaves, want 9", leaves)
	}
	if maxDepth != 6 {
		t.Errorf("max depth = %d, want 6", maxDepth)
	}
}
