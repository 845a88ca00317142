// Package xpath evaluates a hand-built XPath expression tree against a
// *dom.Tree. It does not parse XPath text — Expr values are the AST
// contract an external grammar parser is expected to produce; callers
// (and this package's own tests) construct Expr literals directly, the
// way the teacher's selector package is handed an already-parsed
// selectorAST rather than raw CSS text.
package xpath

import "github.com/arbortree/arbor/dom"

// Axis names one of the axes a Step walks from its context node.
type Axis int

const (
	Child Axis = iota
	Descendant
	DescendantOrSelf
	Parent
	Self
	AttributeAxis
)

func (a Axis) String() string {
	switch a {
	case Child:
		return "child"
	case Descendant:
		return "descendant"
	case DescendantOrSelf:
		return "descendant-or-self"
	case Parent:
		return "parent"
	case Self:
		return "self"
	case AttributeAxis:
		return "attribute"
	default:
		return "unknown-axis"
	}
}

// reverse reports whether an axis yields nodes in reverse document order,
// requiring the re-sort spec.md §4.5 calls for ("reverse-axis results are
// reversed to document order for set semantics").
func (a Axis) reverse() bool {
	return a == Parent
}

// NodeTestKind tags the kind of node test a Step applies after walking
// its axis.
type NodeTestKind int

const (
	// NameTest matches by local name (and optional namespace prefix);
	// Name == "*" is the universal wildcard, Prefix == "*" matches any
	// namespace with a fixed local name ("*:name"), Name == "*" with a
	// concrete Prefix matches any local name in that namespace
	// ("name:*").
	NameTest NodeTestKind = iota
	AnyNodeTest             // node()
	TextTest                // text()
	CommentTest             // comment()
	ElementTest             // element() or element(name)
	DocumentTest            // document-node()
	PITest                  // processing-instruction() or processing-instruction(target)
)

// NodeTest filters the candidate set an axis produces.
type NodeTest struct {
	Kind   NodeTestKind
	Prefix string // namespace prefix for NameTest/ElementTest, "" or "*"
	Name   string // local name, or "*"; target for PITest
}

// Step is one `axis::nodetest[predicate]*` segment of a path expression.
type Step struct {
	Axis       Axis
	Test       NodeTest
	Predicates []Predicate
}

// PathExpr is a location path: an optional leading "/" (Absolute) or
// "//" (AbsoluteDescendant), followed by a chain of Steps. The
// abbreviated child axis (a bare name) and "." / ".." are expressed by
// constructing the equivalent Child/Self/Parent step rather than as
// distinct AST kinds, matching how a real XPath parser desugars them
// before handing the tree to an evaluator.
type PathExpr struct {
	Absolute           bool // leading "/"
	AbsoluteDescendant bool // leading "//"
	Steps              []Step
}

// Predicate is a boolean filter applied to a step's node-test-filtered
// candidate set. An integer-literal predicate ("[2]") is a position
// test, expressed as a NumberLiteral Expr compared implicitly against
// context position — Eval handles that shorthand per spec.md §4.5.
type Predicate struct {
	Expr Expr
}

// Expr is a predicate- and function-argument-level expression: boolean,
// comparison, arithmetic, or a nested path/function call. Mirrors the
// teacher's selectorAST sum-type-via-interface shape (selector/ast.go)
// generalized from CSS selector terms to XPath expression terms.
type Expr interface {
	eval(ctx *evalContext, item Item) (Value, error)
}

// NumberLiteral is a numeric constant, or — as the sole Expr directly
// inside a Predicate — an implicit position() == N test.
type NumberLiteral float64

// StringLiteral is a string constant.
type StringLiteral string

// AttrRef is `@name`, the attribute axis abbreviation: the value of the
// named attribute on the context item's owning element, or an empty
// node-set if it doesn't exist.
type AttrRef struct {
	Name string
}

// FuncCall invokes one of the handful of built-in functions spec.md §1
// names: position, last, count, not, string, boolean, name.
type FuncCall struct {
	Name string
	Args []Expr
}

// CompareOp is a predicate comparison operator.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Compare is a binary comparison expression.
type Compare struct {
	Op          CompareOp
	Left, Right Expr
}

// ArithOp is a predicate arithmetic operator.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	IDiv
	Mod
)

// Arith is a binary arithmetic expression.
type Arith struct {
	Op          ArithOp
	Left, Right Expr
}

// LogicalOp is `and` or `or`.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
)

// Logical is a binary logical expression, short-circuiting per XPath
// semantics.
type Logical struct {
	Op          LogicalOp
	Left, Right Expr
}

// Path embeds a nested location path as a predicate-level expression —
// the sole argument form count() needs ("count(@href)" or
// "count(child::a)").
type Path struct {
	Expr *PathExpr
}

// Item is one member of an ItemSet: either a tree node, or an attribute
// reached via the attribute axis. dom.Tree has no attribute node kind
// (attributes are a plain []dom.Attribute field on an element, per
// dom/attributes.go), so an attribute item is represented as the owning
// element's Handle plus the attribute itself rather than as a second
// Handle namespace.
type Item struct {
	Node      dom.Handle
	IsAttr    bool
	AttrOwner dom.Handle
	Attr      dom.Attribute
}

// ItemSet is an ordered, duplicate-free (by node/attribute identity)
// result sequence (P8/P9).
type ItemSet []Item
