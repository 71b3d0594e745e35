package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"pascals/pkg/parser"
	"pascals/pkg/semantic"
)

// Format selects how Encode serializes the tables.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

type SymbolRow struct {
	Index   int    `json:"index" yaml:"index"`
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Type    string `json:"type" yaml:"type"`
	Level   int    `json:"level" yaml:"level"`
	Address int    `json:"address" yaml:"address"`
	Ref     int    `json:"ref" yaml:"ref"`
	Link    int    `json:"link" yaml:"link"`
	Normal  bool   `json:"normal" yaml:"normal"`
}

type ArrayRow struct {
	IndexType   string `json:"index_type" yaml:"index_type"`
	ElementType string `json:"element_type" yaml:"element_type"`
	Low         int    `json:"low" yaml:"low"`
	High        int    `json:"high" yaml:"high"`
	ElementSize int    `json:"element_size" yaml:"element_size"`
	Size        int    `json:"size" yaml:"size"`
}

type BlockRow struct {
	Index int `json:"index" yaml:"index"`
	Last  int `json:"last" yaml:"last"`
	LPar  int `json:"lpar" yaml:"lpar"`
	PSize int `json:"psize" yaml:"psize"`
	VSize int `json:"vsize" yaml:"vsize"`
}

// TableDoc is the serializable form of the analyzer's tables.
type TableDoc struct {
	Symbols []SymbolRow `json:"tab" yaml:"tab"`
	Arrays  []ArrayRow  `json:"atab,omitempty" yaml:"atab,omitempty"`
	Blocks  []BlockRow  `json:"btab" yaml:"btab"`
}

// Document flattens the tables into rows.
func Document(syms *semantic.SymbolTable, blocks *semantic.BlockTable) TableDoc {
	var doc TableDoc
	for _, e := range syms.Entries() {
		doc.Symbols = append(doc.Symbols, SymbolRow{
			Index:   e.Index,
			Name:    e.Name,
			Kind:    e.Kind.String(),
			Type:    e.Type.String(),
			Level:   e.Level,
			Address: e.Addr,
			Ref:     e.Ref,
			Link:    e.Link,
			Normal:  e.Normal,
		})
	}
	for _, a := range ArrayTypes(syms) {
		doc.Arrays = append(doc.Arrays, ArrayRow{
			IndexType:   a.Base.Underlying().String(),
			ElementType: a.Elem.String(),
			Low:         a.Low,
			High:        a.High,
			ElementSize: a.Elem.Size(),
			Size:        a.Size(),
		})
	}
	for _, b := range blocks.Blocks() {
		doc.Blocks = append(doc.Blocks, BlockRow(b))
	}
	return doc
}

// Encode renders the tables in format f.
func Encode(f Format, syms *semantic.SymbolTable, blocks *semantic.BlockTable) (string, error) {
	if f == FormatText || f == "" {
		return Tables(syms, blocks), nil
	}
	return marshal(f, Document(syms, blocks))
}

// TreeDoc is the serializable form of a parse tree. Nodes carry a label
// and children, leaves carry a token.
type TreeDoc struct {
	Label    string     `json:"label,omitempty" yaml:"label,omitempty"`
	Kind     string     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Lexeme   string     `json:"lexeme,omitempty" yaml:"lexeme,omitempty"`
	Line     int        `json:"line" yaml:"line"`
	Column   int        `json:"column" yaml:"column"`
	Children []*TreeDoc `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree converts a parse tree into its serializable form.
func Tree(c parser.Child) *TreeDoc {
	pos := c.Pos()
	doc := &TreeDoc{Line: pos.Line, Column: pos.Column}
	switch c := c.(type) {
	case parser.Leaf:
		doc.Kind = c.Kind.String()
		doc.Lexeme = c.Lexeme
	case *parser.Node:
		doc.Label = c.Label
		for _, ch := range c.Children {
			doc.Children = append(doc.Children, Tree(ch))
		}
	}
	return doc
}

// EncodeTree renders a parse tree in format f.
func EncodeTree(f Format, root parser.Child) (string, error) {
	if f == FormatText || f == "" {
		return ParseTree(root), nil
	}
	return marshal(f, Tree(root))
}

func marshal(f Format, v any) (string, error) {
	switch f {
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(out) + "\n", nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return buf.String(), nil
	}
	return "", fmt.Errorf("unknown output format %q", f)
}
