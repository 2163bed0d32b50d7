// Package prettyprinter renders the structured view of a syntax tree, as
// an indented outline or as JSON.
package prettyprinter

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/config"
)

// TreePrinter writes one line per node:
//
//	role: Kind value : type @line
//
// Children are indented under their parent. The role is omitted for
// top-level statements and the type for statements.
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

func (p *TreePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

// Print renders node and returns everything printed so far.
func (p *TreePrinter) Print(node *ast.DumpNode) string {
	if node != nil {
		p.printNode(node)
	}
	return p.buf.String()
}

func (p *TreePrinter) printNode(n *ast.DumpNode) {
	p.writeIndent()
	if n.Role != "" {
		p.buf.WriteString(n.Role)
		p.buf.WriteString(": ")
	}
	p.buf.WriteString(n.Kind)
	if n.Value != "" {
		p.buf.WriteByte(' ')
		p.buf.WriteString(n.Value)
	}
	if n.Type != "" {
		p.buf.WriteString(" : ")
		p.buf.WriteString(n.Type)
	}
	if n.Line > 0 {
		p.buf.WriteString(" @")
		p.buf.WriteString(strconv.Itoa(n.Line))
	}
	p.buf.WriteByte('\n')

	p.indent++
	for _, c := range n.Children {
		p.printNode(c)
	}
	p.indent--
}

// PrintJSON renders node as indented JSON.
func PrintJSON(node *ast.DumpNode) ([]byte, error) {
	return json.MarshalIndent(node, "", "  ")
}

// Format renders the tree of n in the given dump format.
func Format(n ast.Node, format string) ([]byte, error) {
	dump := ast.Dump(n)
	switch format {
	case config.DumpText, "":
		return []byte(NewTreePrinter().Print(dump)), nil
	case config.DumpJSON:
		data, err := PrintJSON(dump)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unknown dump format %q", format)
}
