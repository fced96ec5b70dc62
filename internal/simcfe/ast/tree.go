package ast

import (
	"fmt"
	"strings"

	"github.com/dekarrin/simc/internal/simcfe/token"
)

// node is the single concrete Node implementation. Every alternative in
// spec.md §3's AST is represented by one of these tagged by Kind; the
// node_kind table of spec.md §4.6/§6 decides which tag a given production's
// reduction produces, and the children are attached in production order
// exactly as parsed — there is no per-kind struct to keep in sync with the
// grammar document, which is what lets the mapping stay externally
// supplied (a new grammar can map its productions onto the existing Kind
// values without a Go change; a kind outside the Kind enum is rejected).
type node struct {
	base
	kind     Kind
	children []Node

	// terminal leaves (Kind == KindTerminal) carry their own lexeme/class
	// directly off the source token; composite nodes leave this unused.
	terminal bool
}

// NewLeaf builds a terminal leaf node (spec.md §3 "terminal leaf") wrapping
// the token that produced it during a shift.
func NewLeaf(tok token.Token) Node {
	return &node{base: base{src: tok}, kind: KindTerminal, terminal: true}
}

// NewComposite builds a non-leaf node of the given kind, attaching children
// in left-to-right production order. src is the token most representative
// of the node for diagnostics (conventionally the first child's).
func NewComposite(kind Kind, src token.Token, children []Node) Node {
	return &node{base: base{src: src}, kind: kind, children: children}
}

func (n *node) Kind() Kind       { return n.kind }
func (n *node) Children() []Node { return n.children }

func (n *node) String() string {
	if n.terminal {
		return fmt.Sprintf("%s(%q)", n.kind, n.src.Lexeme())
	}

	var sb strings.Builder
	sb.WriteString(n.kind.String())
	sb.WriteByte('(')
	for i, c := range n.children {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Lexeme returns the leaf's source lexeme; it panics if n is not a terminal
// leaf, matching the teacher's fail-fast AsXNode() convention for
// accessors that only make sense on one variant.
func Lexeme(n Node) string {
	t, ok := n.(*node)
	if !ok || !t.terminal {
		panic(fmt.Sprintf("ast: Lexeme called on non-terminal node of kind %s", n.Kind()))
	}
	return t.src.Lexeme()
}

// Child returns the i'th direct child of n, panicking if out of range. It
// exists so semantic/IR code reads like "Child(n, 0)" instead of repeating
// the bounds-checked index everywhere a production's shape is assumed.
func Child(n Node, i int) Node {
	kids := n.Children()
	if i < 0 || i >= len(kids) {
		panic(fmt.Sprintf("ast: Child(%d) out of range on %s node with %d children", i, n.Kind(), len(kids)))
	}
	return kids[i]
}
