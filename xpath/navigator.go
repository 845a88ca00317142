package xpath

import (
	"fmt"

	antchfx "github.com/antchfx/xpath"

	"github.com/arbortree/arbor/dom"
)

// NodeNavigator adapts a *dom.Tree to antchfx/xpath's NodeNavigator
// interface, grounded directly on the npillmayer/tyse xpathadapter
// example's Handle-free styledtree adapter (chinx/attr index bookkeeping
// carries over unchanged; MoveTo* semantics are identical, just rebased
// onto dom.Handle lookups instead of pointer-linked nodes). It exists
// solely so xpath/crosscheck_test.go can cross-check this package's own
// evaluator against antchfx/xpath.Select over the same tree.
type NodeNavigator struct {
	tree    *dom.Tree
	root    dom.Handle
	current dom.Handle
	attrs   []dom.Attribute
	attr    int // -1 when positioned on the element itself
}

// NewNavigator creates a NodeNavigator positioned at node.
func NewNavigator(tree *dom.Tree, node dom.Handle) *NodeNavigator {
	return &NodeNavigator{tree: tree, root: node, current: node, attr: -1}
}

var _ antchfx.NodeNavigator = (*NodeNavigator)(nil)

func (n *NodeNavigator) NodeType() antchfx.NodeType {
	if n.attr != -1 {
		return antchfx.AttributeNode
	}
	switch n.tree.Kind(n.current) {
	case dom.DocumentKind:
		return antchfx.RootNode
	case dom.ElementKind:
		return antchfx.ElementNode
	case dom.TextKind:
		return antchfx.TextNode
	case dom.CommentKind:
		return antchfx.CommentNode
	default:
		panic(fmt.Sprintf("xpath: unsupported node kind %v for antchfx adapter", n.tree.Kind(n.current)))
	}
}

func (n *NodeNavigator) LocalName() string {
	if n.attr != -1 {
		return n.attrs[n.attr].Name
	}
	return n.tree.TagName(n.current)
}

func (n *NodeNavigator) Prefix() string { return "" }

func (n *NodeNavigator) NamespaceURL() string {
	if n.attr != -1 {
		return n.attrs[n.attr].Namespace
	}
	return n.tree.Namespace(n.current)
}

func (n *NodeNavigator) Value() string {
	if n.attr != -1 {
		return n.attrs[n.attr].Value
	}
	return stringOfItem(n.tree, Item{Node: n.current})
}

func (n *NodeNavigator) Copy() antchfx.NodeNavigator {
	c := *n
	return &c
}

func (n *NodeNavigator) MoveToRoot() {
	n.current = n.root
	n.attr = -1
}

func (n *NodeNavigator) MoveToParent() bool {
	if n.attr != -1 {
		n.attr = -1
		return true
	}
	p, ok := n.tree.Parent(n.current)
	if !ok {
		return false
	}
	n.current = p
	return true
}

func (n *NodeNavigator) MoveToNextAttribute() bool {
	if n.attr == -1 {
		n.attrs = n.tree.Attributes(n.current)
	}
	if n.attr+1 >= len(n.attrs) {
		return false
	}
	n.attr++
	return true
}

func (n *NodeNavigator) MoveToChild() bool {
	if n.attr != -1 {
		return false
	}
	c, ok := n.tree.FirstChild(n.current)
	if !ok {
		return false
	}
	n.current = c
	return true
}

func (n *NodeNavigator) MoveToFirst() bool {
	if n.attr != -1 {
		return false
	}
	moved := false
	for p, ok := n.tree.PrevSibling(n.current); ok; p, ok = n.tree.PrevSibling(n.current) {
		n.current = p
		moved = true
	}
	return moved
}

func (n *NodeNavigator) String() string {
	return n.Value()
}

func (n *NodeNavigator) MoveToNext() bool {
	if n.attr != -1 {
		return false
	}
	s, ok := n.tree.NextSibling(n.current)
	if !ok {
		return false
	}
	n.current = s
	return true
}

func (n *NodeNavigator) MoveToPrevious() bool {
	if n.attr != -1 {
		return false
	}
	s, ok := n.tree.PrevSibling(n.current)
	if !ok {
		return false
	}
	n.current = s
	return true
}

func (n *NodeNavigator) MoveTo(other antchfx.NodeNavigator) bool {
	o, ok := other.(*NodeNavigator)
	if !ok || o.tree != n.tree {
		return false
	}
	n.current = o.current
	n.attr = o.attr
	n.attrs = o.attrs
	return true
}
