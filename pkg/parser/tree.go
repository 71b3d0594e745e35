package parser

import (
	"pascals/pkg/source"
	"pascals/pkg/token"
)

// Parse tree labels. They name grammar non-terminals and are what the tree
// renderer prints between angle brackets.
const (
	LabelProgram         = "program"
	LabelProgramHeader   = "program-header"
	LabelBlock           = "block"
	LabelDeclarationPart = "declaration-part"
	LabelConstSection    = "const-section"
	LabelConstDecl       = "const-declaration"
	LabelTypeSection     = "type-section"
	LabelTypeDecl        = "type-declaration"
	LabelVarSection      = "var-section"
	LabelVarDecl         = "var-declaration"
	LabelProcedureDecl   = "procedure-declaration"
	LabelFunctionDecl    = "function-declaration"
	LabelFormalParams    = "formal-parameter-list"
	LabelParamGroup      = "parameter-group"
	LabelIdentList       = "identifier-list"
	LabelConstant        = "constant"
	LabelType            = "type"
	LabelSubrange        = "subrange-type"
	LabelArrayType       = "array-type"
	LabelRecordType      = "record-type"
	LabelFieldDecl       = "field-declaration"
	LabelCompound        = "compound-statement"
	LabelStatementList   = "statement-list"
	LabelEmpty           = "empty-statement"
	LabelAssign          = "assignment-statement"
	LabelIf              = "if-statement"
	LabelWhile           = "while-statement"
	LabelFor             = "for-statement"
	LabelRepeat          = "repeat-statement"
	LabelCall            = "procedure/function-call"
	LabelArgs            = "parameter-list"
	LabelExpression      = "expression"
	LabelUnary           = "unary-expression"
	LabelVariable        = "variable"
)

// Child is an element of a parse tree node: either a *Node or a Leaf.
type Child interface {
	Pos() source.Position
	isChild()
}

// Leaf is a terminal: the token the parser consumed.
type Leaf struct {
	token.Token
}

func (l Leaf) Pos() source.Position { return l.Token.Pos }
func (Leaf) isChild()               {}

// Node is a non-terminal of the parse tree.
type Node struct {
	Label    string
	Children []Child
	pos      source.Position
}

func (*Node) isChild() {}

// Pos is the position of the first token under n, or of the token that
// followed an empty production.
func (n *Node) Pos() source.Position { return n.pos }

func newNode(label string, pos source.Position) *Node {
	return &Node{Label: label, pos: pos}
}

func (n *Node) add(c Child) *Node {
	n.Children = append(n.Children, c)
	return n
}

func (n *Node) leaf(t token.Token) *Node {
	return n.add(Leaf{t})
}

// Node returns the i-th child as a node, or nil when it is a leaf or out of
// range.
func (n *Node) Node(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	c, _ := n.Children[i].(*Node)
	return c
}

// Token returns the i-th child's token and whether it is a leaf.
func (n *Node) Token(i int) (token.Token, bool) {
	if i < 0 || i >= len(n.Children) {
		return token.Token{}, false
	}
	l, ok := n.Children[i].(Leaf)
	return l.Token, ok
}

// Find returns the first direct child node with the given label.
func (n *Node) Find(label string) *Node {
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok && cn.Label == label {
			return cn
		}
	}
	return nil
}

// All returns every direct child node with the given label, in order.
func (n *Node) All(label string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok && cn.Label == label {
			out = append(out, cn)
		}
	}
	return out
}

// Leaves returns the direct leaf children of kind k, in order.
func (n *Node) Leaves(k token.Kind) []token.Token {
	var out []token.Token
	for _, c := range n.Children {
		if l, ok := c.(Leaf); ok && l.Kind == k {
			out = append(out, l.Token)
		}
	}
	return out
}

// HasSym reports whether a direct leaf child carries symbol s.
func (n *Node) HasSym(s token.Sym) bool {
	for _, c := range n.Children {
		if l, ok := c.(Leaf); ok && l.Is(s) {
			return true
		}
	}
	return false
}

// Walk visits c and its descendants depth-first, children in order.
func Walk(c Child, fn func(c Child, depth int)) {
	walk(c, 0, fn)
}

func walk(c Child, depth int, fn func(Child, int)) {
	fn(c, depth)
	if n, ok := c.(*Node); ok {
		for _, ch := range n.Children {
			walk(ch, depth+1, fn)
		}
	}
}
