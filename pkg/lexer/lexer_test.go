package lexer

import (
	"reflect"
	"testing"

	"pascals/pkg/diag"
	"pascals/pkg/token"
)

// lexeme pairs a kind with its source text; positions are checked separately.
type lexeme struct {
	Kind token.Kind
	Text string
}

func lex(t *testing.T, vocab, src string) []lexeme {
	t.Helper()
	toks, err := New(MustLookup(vocab)).Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", src, err)
	}
	out := make([]lexeme, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		out = append(out, lexeme{tok.Kind, tok.Lexeme})
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []lexeme
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []lexeme{},
		},
		{
			name:  "Punctuation",
			input: "; , : . .. ( ) [ ]",
			expected: []lexeme{
				{token.SEMICOLON, ";"},
				{token.COMMA, ","},
				{token.COLON, ":"},
				{token.DOT, "."},
				{token.RANGE, ".."},
				{token.LPAREN, "("},
				{token.RPAREN, ")"},
				{token.LBRACKET, "["},
				{token.RBRACKET, "]"},
			},
		},
		{
			name:  "Two Character Operators",
			input: ":= <= <> >= < > =",
			expected: []lexeme{
				{token.ASSIGN, ":="},
				{token.RELATIONAL_OPERATOR, "<="},
				{token.RELATIONAL_OPERATOR, "<>"},
				{token.RELATIONAL_OPERATOR, ">="},
				{token.RELATIONAL_OPERATOR, "<"},
				{token.RELATIONAL_OPERATOR, ">"},
				{token.RELATIONAL_OPERATOR, "="},
			},
		},
		{
			name:  "Word Operators",
			input: "a div b mod c and d or not e",
			expected: []lexeme{
				{token.IDENTIFIER, "a"},
				{token.ARITHMETIC_OPERATOR, "div"},
				{token.IDENTIFIER, "b"},
				{token.ARITHMETIC_OPERATOR, "mod"},
				{token.IDENTIFIER, "c"},
				{token.LOGICAL_OPERATOR, "and"},
				{token.IDENTIFIER, "d"},
				{token.LOGICAL_OPERATOR, "or"},
				{token.LOGICAL_OPERATOR, "not"},
				{token.IDENTIFIER, "e"},
			},
		},
		{
			name:  "Numbers",
			input: "42 3.14 7",
			expected: []lexeme{
				{token.NUMBER, "42"},
				{token.NUMBER, "3.14"},
				{token.NUMBER, "7"},
			},
		},
		{
			name:  "Range After Integer",
			input: "1..10",
			expected: []lexeme{
				{token.NUMBER, "1"},
				{token.RANGE, ".."},
				{token.NUMBER, "10"},
			},
		},
		{
			name:  "Dot After Final Digit",
			input: "x := 1.",
			expected: []lexeme{
				{token.IDENTIFIER, "x"},
				{token.ASSIGN, ":="},
				{token.NUMBER, "1"},
				{token.DOT, "."},
			},
		},
		{
			name:  "Strings And Chars",
			input: "'hello' 'a' 'it''s' '''' ''",
			expected: []lexeme{
				{token.STRING, "'hello'"},
				{token.CHAR, "'a'"},
				{token.STRING, "'it''s'"},
				{token.CHAR, "''''"},
				{token.STRING, "''"},
			},
		},
		{
			name:  "Comments",
			input: "a { brace } b (* paren * star *) c (**) d",
			expected: []lexeme{
				{token.IDENTIFIER, "a"},
				{token.IDENTIFIER, "b"},
				{token.IDENTIFIER, "c"},
				{token.IDENTIFIER, "d"},
			},
		},
		{
			name:  "Keywords Are Case Insensitive",
			input: "BEGIN End Integer",
			expected: []lexeme{
				{token.KEYWORD, "BEGIN"},
				{token.KEYWORD, "End"},
				{token.KEYWORD, "Integer"},
			},
		},
		{
			name:  "Identifiers With Digits And Underscores",
			input: "x1 _tmp total_2",
			expected: []lexeme{
				{token.IDENTIFIER, "x1"},
				{token.IDENTIFIER, "_tmp"},
				{token.IDENTIFIER, "total_2"},
			},
		},
		{
			name:  "Minus Is Not Merged Into Numbers",
			input: "x-1",
			expected: []lexeme{
				{token.IDENTIFIER, "x"},
				{token.ARITHMETIC_OPERATOR, "-"},
				{token.NUMBER, "1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lex(t, "english", tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("\ngot:  %v\nwant: %v", got, tt.expected)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		col   int
	}{
		{"Unexpected Character", "x := @", 1, 6},
		{"Stray Closing Brace", "}", 1, 1},
		{"Unterminated String At Newline", "s := 'abc\n'", 1, 6},
		{"Unterminated String At EOF", "'it''s", 1, 1},
		{"Unterminated Brace Comment", "a { never closed", 1, 3},
		{"Unterminated Paren Comment", "a\n(* * )", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize("t.pas", tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			de, ok := err.(*diag.Error)
			if !ok {
				t.Fatalf("expected *diag.Error, got %T", err)
			}
			if de.Kind != diag.LexicalError {
				t.Errorf("kind = %s, want LexicalError", de.Kind)
			}
			if de.Pos.Line != tt.line || de.Pos.Column != tt.col {
				t.Errorf("position = %d:%d, want %d:%d", de.Pos.Line, de.Pos.Column, tt.line, tt.col)
			}
		})
	}
}

func TestPositions(t *testing.T) {
	src := "program P;\n{ c }\n  x := 10"
	toks, err := Tokenize("p.pas", src)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	type at struct{ line, col, index int }
	want := []at{
		{1, 1, 0},   // program
		{1, 9, 8},   // P
		{1, 10, 9},  // ;
		{3, 3, 19},  // x
		{3, 5, 21},  // :=
		{3, 8, 24},  // 10
		{3, 10, 26}, // EOF
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Pos.Line != want[i].line || tok.Pos.Column != want[i].col || tok.Pos.Index != want[i].index {
			t.Errorf("token %d %v at %d:%d (index %d), want %d:%d (index %d)",
				i, tok, tok.Pos.Line, tok.Pos.Column, tok.Pos.Index, want[i].line, want[i].col, want[i].index)
		}
		if tok.Pos.Filename != "p.pas" {
			t.Errorf("token %d filename = %q", i, tok.Pos.Filename)
		}
	}
}

func TestScenarioTokenKinds(t *testing.T) {
	src := "program P; var x: integer; begin x := 1 end."
	toks, err := Tokenize("", src)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	var got []token.Kind
	for _, tok := range toks {
		if tok.Kind != token.EOF {
			got = append(got, tok.Kind)
		}
	}
	want := []token.Kind{
		token.KEYWORD, token.IDENTIFIER, token.SEMICOLON,
		token.KEYWORD, token.IDENTIFIER, token.COLON, token.KEYWORD, token.SEMICOLON,
		token.KEYWORD, token.IDENTIFIER, token.ASSIGN, token.NUMBER, token.KEYWORD, token.DOT,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("\ngot:  %v\nwant: %v", got, want)
	}
}

func TestSymbolsAreNormalized(t *testing.T) {
	en, err := New(MustLookup("english")).Tokenize("if a <> b then x := y div 2 else z := not w")
	if err != nil {
		t.Fatal(err)
	}
	id, err := New(MustLookup("indonesian")).Tokenize("jika a <> b maka x := y bagi 2 selain-itu z := tidak w")
	if err != nil {
		t.Fatal(err)
	}
	if len(en) != len(id) {
		t.Fatalf("token counts differ: %d vs %d", len(en), len(id))
	}
	for i := range en {
		if en[i].Kind != id[i].Kind || en[i].Sym != id[i].Sym {
			t.Errorf("token %d: english %v/%v, indonesian %v/%v", i, en[i], en[i].Sym, id[i], id[i].Sym)
		}
	}
}

func TestHyphenatedWords(t *testing.T) {
	got := lex(t, "indonesian", "untuk i := 10 turun-ke 1 lakukan selain - itu selain-lain")
	want := []lexeme{
		{token.KEYWORD, "untuk"},
		{token.IDENTIFIER, "i"},
		{token.ASSIGN, ":="},
		{token.NUMBER, "10"},
		{token.KEYWORD, "turun-ke"},
		{token.NUMBER, "1"},
		{token.KEYWORD, "lakukan"},
		{token.IDENTIFIER, "selain"},
		{token.ARITHMETIC_OPERATOR, "-"},
		{token.IDENTIFIER, "itu"},
		{token.IDENTIFIER, "selain"},
		{token.ARITHMETIC_OPERATOR, "-"},
		{token.IDENTIFIER, "lain"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("\ngot:  %v\nwant: %v", got, want)
	}
}

func TestRegisterWordsAreIdentifiersElsewhere(t *testing.T) {
	got := lex(t, "english", "mulai selesai")
	want := []lexeme{{token.IDENTIFIER, "mulai"}, {token.IDENTIFIER, "selesai"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDeterministic(t *testing.T) {
	src := "program P; var a: array[1..3] of real; begin a[1] := 2.5 end."
	first, err := Tokenize("d.pas", src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Tokenize("d.pas", src)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("tokenizing twice gave different results")
	}
}

func TestUnquote(t *testing.T) {
	tests := map[string]string{
		"'abc'":   "abc",
		"'it''s'": "it's",
		"''''":    "'",
		"''":      "",
	}
	for in, want := range tests {
		if got := Unquote(in); got != want {
			t.Errorf("Unquote(%q) = %q, want %q", in, got, want)
		}
	}
}
