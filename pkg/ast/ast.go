package ast

import "strings"

type NodeType string

const (
	NodeLiteral NodeType = "Literal"
	NodeGroup   NodeType = "Group"
	NodeBinary  NodeType = "Binary"
)

// Node is one construct of a parsed expression. Every node names the
// handler that gives it meaning; the parser never interprets handlers.
type Node interface {
	NodeType() NodeType
	HandlerName() string
	Position() int
	isNode()
}

type nodeImpl struct {
	Type    NodeType `json:"type"`
	Handler string   `json:"handler"`
	Offset  int      `json:"offset"`
}

func newNodeImpl(kind NodeType, handler string, offset int) nodeImpl {
	return nodeImpl{Type: kind, Handler: handler, Offset: offset}
}

func (n nodeImpl) NodeType() NodeType  { return n.Type }
func (n nodeImpl) HandlerName() string { return n.Handler }
func (n nodeImpl) Position() int       { return n.Offset }
func (nodeImpl) isNode()               {}

// Literal carries the raw text of a leaf: a name, a number or the body of a
// string. The void literal has empty text.
type Literal struct {
	nodeImpl

	Text string `json:"text"`
}

func NewLiteral(handler, text string, offset int) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, handler, offset), Text: text}
}

// Group is a bracketed literal whose body is split at top-level commas.
type Group struct {
	nodeImpl

	Items []Node `json:"items"`
}

func NewGroup(handler string, items []Node, offset int) *Group {
	return &Group{nodeImpl: newNodeImpl(NodeGroup, handler, offset), Items: items}
}

// Binary is an operator application, juxtaposition included.
type Binary struct {
	nodeImpl

	Operator string `json:"operator"`
	Left     Node   `json:"left"`
	Right    Node   `json:"right"`
}

func NewBinary(handler, operator string, left, right Node, offset int) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary, handler, offset), Operator: operator, Left: left, Right: right}
}

// Format renders a node as an s-expression of handler names, e.g.
// (sum (number "1") (name "x")).
func Format(n Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n Node) {
	switch node := n.(type) {
	case *Literal:
		b.WriteString("(" + node.Handler)
		if node.Text != "" {
			b.WriteString(` "` + node.Text + `"`)
		}
		b.WriteString(")")
	case *Group:
		b.WriteString("(" + node.Handler)
		for _, item := range node.Items {
			b.WriteByte(' ')
			format(b, item)
		}
		b.WriteString(")")
	case *Binary:
		b.WriteString("(" + node.Handler + " ")
		format(b, node.Left)
		b.WriteByte(' ')
		format(b, node.Right)
		b.WriteString(")")
	case nil:
		b.WriteString("<nil>")
	}
}
