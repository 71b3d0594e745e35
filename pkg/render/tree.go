// Package render turns compiler stage outputs into the plain-text dumps the
// CLI prints and golden files store.
package render

import (
	"strings"

	"pascals/pkg/parser"
	"pascals/pkg/token"
)

// branches are the connector strings of a tree diagram.
type branches struct {
	mid, last, pipe, blank string
}

var (
	parseBranches = branches{"├── ", "└── ", "│   ", "    "}
	astBranches   = branches{"├─ ", "└─ ", "│  ", "   "}
)

// item is one line of a tree diagram and the lines nested under it.
type item struct {
	label string
	kids  []*item
}

func (it *item) add(kids ...*item) *item {
	it.kids = append(it.kids, kids...)
	return it
}

// draw renders root without a connector and every descendant under it.
func draw(root *item, br branches) string {
	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	drawKids(&sb, root.kids, "", br)
	return sb.String()
}

func drawKids(sb *strings.Builder, kids []*item, prefix string, br branches) {
	for i, k := range kids {
		last := i == len(kids)-1
		conn, next := br.mid, br.pipe
		if last {
			conn, next = br.last, br.blank
		}
		sb.WriteString(prefix)
		sb.WriteString(conn)
		sb.WriteString(k.label)
		sb.WriteByte('\n')
		drawKids(sb, k.kids, prefix+next, br)
	}
}

// ParseTree renders a parse tree as a branch diagram. Nodes print as
// <label>, leaves as KIND(lexeme).
func ParseTree(root parser.Child) string {
	return draw(parseItem(root), parseBranches)
}

func parseItem(c parser.Child) *item {
	switch c := c.(type) {
	case parser.Leaf:
		return &item{label: c.Token.String()}
	case *parser.Node:
		it := &item{label: "<" + c.Label + ">"}
		for _, ch := range c.Children {
			it.add(parseItem(ch))
		}
		return it
	}
	return &item{label: "?"}
}

// Tokens renders one KIND(lexeme) line per token. The trailing EOF token is
// omitted.
func Tokens(toks []token.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		if t.Kind == token.EOF {
			continue
		}
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
