package xpath

import (
	"sort"

	"github.com/arbortree/arbor/dom"
)

// Evaluate walks expr against tree starting from context, returning an
// ordered, duplicate-free ItemSet (P8/P9). context is typically
// tree.Root() for an absolute path, but any node may seed a relative
// evaluation.
func Evaluate(expr *PathExpr, tree *dom.Tree, context dom.Handle) (ItemSet, error) {
	ec := &evalContext{tree: tree}
	start, steps := pathStart(tree, context, expr)
	return foldSteps(ec, start, steps)
}

// pathStart resolves a PathExpr's starting item set and effective step
// chain, desugaring a leading "//" into an explicit
// descendant-or-self::node() step. Shared by Evaluate and Path.eval (a
// nested path expression used as a predicate/function argument).
func pathStart(tree *dom.Tree, context dom.Handle, expr *PathExpr) (ItemSet, []Step) {
	start := ItemSet{{Node: context}}
	if expr.Absolute || expr.AbsoluteDescendant {
		start = ItemSet{{Node: tree.Root()}}
	}
	steps := expr.Steps
	if expr.AbsoluteDescendant {
		steps = append([]Step{{Axis: DescendantOrSelf, Test: NodeTest{Kind: AnyNodeTest}}}, steps...)
	}
	return start, steps
}

// evalContext carries the tree every Expr needs to resolve node text and
// attribute lookups, plus the position/size of the candidate set the
// current predicate is filtering (reset per predicate application, per
// spec.md §4.5's "context position and context size reflecting the
// filtered set before that predicate").
type evalContext struct {
	tree     *dom.Tree
	position int
	size     int
}

// foldSteps is the left-to-right context-set fold spec.md §4.5 describes:
// each step maps the context set through its axis, filters by node test,
// then applies predicates in declaration order. Predicates apply to each
// originating context item's own axis result independently (position/size
// are per context item, not per merged step result) — only after every
// item's survivors are computed do they get unioned and re-sorted into
// document order for the next step.
func foldSteps(ec *evalContext, start ItemSet, steps []Step) (ItemSet, error) {
	current := start
	for _, step := range steps {
		var result ItemSet
		for _, it := range current {
			raw, err := applyAxis(ec.tree, step.Axis, it)
			if err != nil {
				return nil, err
			}
			filtered := filterByTest(ec.tree, raw, step.Test)

			for _, pred := range step.Predicates {
				filtered, err = applyPredicate(ec, filtered, pred)
				if err != nil {
					return nil, err
				}
			}
			result = append(result, filtered...)
		}
		current = dedupeSorted(ec.tree, result)
	}
	return current, nil
}

// applyAxis maps a single context item to its raw (unfiltered,
// undeduplicated) axis candidates.
func applyAxis(tree *dom.Tree, axis Axis, item Item) (ItemSet, error) {
	switch axis {
	case Child:
		if item.IsAttr {
			return nil, nil
		}
		var out ItemSet
		for _, c := range tree.Children(item.Node) {
			out = append(out, Item{Node: c})
		}
		return out, nil

	case Descendant:
		if item.IsAttr {
			return nil, nil
		}
		var out ItemSet
		for _, d := range tree.Descendants(item.Node) {
			out = append(out, Item{Node: d})
		}
		return out, nil

	case DescendantOrSelf:
		out := ItemSet{item}
		if !item.IsAttr {
			for _, d := range tree.Descendants(item.Node) {
				out = append(out, Item{Node: d})
			}
		}
		return out, nil

	case Parent:
		if item.IsAttr {
			return ItemSet{{Node: item.AttrOwner}}, nil
		}
		if p, ok := tree.Parent(item.Node); ok {
			return ItemSet{{Node: p}}, nil
		}
		return nil, nil

	case Self:
		return ItemSet{item}, nil

	case AttributeAxis:
		if item.IsAttr {
			return nil, nil
		}
		var out ItemSet
		for _, a := range tree.Attributes(item.Node) {
			out = append(out, Item{IsAttr: true, AttrOwner: item.Node, Attr: a})
		}
		return out, nil

	default:
		return nil, &Error{Kind: ErrUnsupportedAxis, Message: axis.String()}
	}
}

// prefixNamespace maps the handful of namespace prefixes this subset
// recognizes in a NodeTest to the namespace URIs dom.Attribute/dom.Tree
// use. Unlisted prefixes never match (fail closed rather than silently
// matching every namespace).
var prefixNamespace = map[string]string{
	"html":   dom.NamespaceHTML,
	"svg":    dom.NamespaceSVG,
	"mathml": dom.NamespaceMathML,
}

func filterByTest(tree *dom.Tree, items ItemSet, test NodeTest) ItemSet {
	var out ItemSet
	for _, it := range items {
		if matchesTest(tree, it, test) {
			out = append(out, it)
		}
	}
	return out
}

func matchesTest(tree *dom.Tree, item Item, test NodeTest) bool {
	if item.IsAttr {
		switch test.Kind {
		case AnyNodeTest:
			return true
		case NameTest:
			return matchesName(item.Attr.Name, item.Attr.Namespace, test)
		default:
			return false
		}
	}

	switch test.Kind {
	case AnyNodeTest:
		return true
	case TextTest:
		return tree.Kind(item.Node) == dom.TextKind
	case CommentTest:
		return tree.Kind(item.Node) == dom.CommentKind
	case DocumentTest:
		return tree.Kind(item.Node) == dom.DocumentKind
	case ElementTest:
		if tree.Kind(item.Node) != dom.ElementKind {
			return false
		}
		if test.Name == "" || test.Name == "*" {
			return true
		}
		return tree.TagName(item.Node) == test.Name
	case PITest:
		if tree.Kind(item.Node) != dom.ProcessingInstructionKind {
			return false
		}
		if test.Name == "" || test.Name == "*" {
			return true
		}
		return tree.PITarget(item.Node) == test.Name
	case NameTest:
		if tree.Kind(item.Node) != dom.ElementKind {
			return false
		}
		return matchesName(tree.TagName(item.Node), tree.Namespace(item.Node), test)
	default:
		return false
	}
}

func matchesName(localName, namespace string, test NodeTest) bool {
	prefixOK := true
	if test.Prefix != "" && test.Prefix != "*" {
		want, known := prefixNamespace[test.Prefix]
		prefixOK = known && want == namespace
	}
	if !prefixOK {
		return false
	}
	if test.Name == "*" {
		return true
	}
	return localName == test.Name
}

// itemKey identifies an Item for deduplication purposes (P9: "no
// duplicates by handle").
type itemKey struct {
	node   dom.Handle
	isAttr bool
	attrNS string
	attr   string
}

func keyOf(item Item) itemKey {
	if item.IsAttr {
		return itemKey{node: item.AttrOwner, isAttr: true, attrNS: item.Attr.Namespace, attr: item.Attr.Name}
	}
	return itemKey{node: item.Node}
}

// docPosition assigns every node in the tree a pre-order index, used to
// restore document order after a reverse axis (parent) or after folding
// together candidates from more than one context item.
func docPosition(tree *dom.Tree) map[dom.Handle]int {
	order := map[dom.Handle]int{}
	i := 0
	var walk func(dom.Handle)
	walk = func(h dom.Handle) {
		order[h] = i
		i++
		for _, c := range tree.Children(h) {
			walk(c)
		}
	}
	walk(tree.Root())
	return order
}

func dedupeSorted(tree *dom.Tree, items ItemSet) ItemSet {
	if len(items) == 0 {
		return items
	}
	order := docPosition(tree)

	seen := make(map[itemKey]bool, len(items))
	out := make(ItemSet, 0, len(items))
	for _, it := range items {
		k := keyOf(it)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}

	ownerPos := func(it Item) int {
		if it.IsAttr {
			return order[it.AttrOwner]
		}
		return order[it.Node]
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := ownerPos(out[i]), ownerPos(out[j])
		if pi != pj {
			return pi < pj
		}
		// same owner node: a non-attribute item (the node itself) sorts
		// before its own attributes; among attributes, insertion order.
		if out[i].IsAttr != out[j].IsAttr {
			return !out[i].IsAttr
		}
		return false
	})
	return out
}

// applyPredicate filters items by pred, computing context position/size
// against items (the filtered set before this predicate), per spec.md
// §4.5.
func applyPredicate(ec *evalContext, items ItemSet, pred Predicate) (ItemSet, error) {
	size := len(items)
	var out ItemSet
	for i, it := range items {
		predCtx := &evalContext{tree: ec.tree, position: i + 1, size: size}
		val, err := pred.Expr.eval(predCtx, it)
		if err != nil {
			return nil, err
		}
		var include bool
		if val.Kind == NumberValue {
			include = val.Num == float64(i+1)
		} else {
			include = predCtx.booleanOf(val)
		}
		if include {
			out = append(out, it)
		}
	}
	return out, nil
}

// stringOfItem computes an Item's string value: an element/document
// concatenates the character data of its text-node descendants (DOM
// textContent), a text/comment node is its own data, an attribute is its
// value, and a processing instruction is its data.
func stringOfItem(tree *dom.Tree, item Item) string {
	if item.IsAttr {
		return item.Attr.Value
	}
	switch tree.Kind(item.Node) {
	case dom.TextKind:
		return tree.TextOf(item.Node)
	case dom.CommentKind:
		return tree.CommentData(item.Node)
	case dom.ProcessingInstructionKind:
		return tree.PIData(item.Node)
	default:
		var s string
		for _, d := range tree.Descendants(item.Node) {
			if tree.Kind(d) == dom.TextKind {
				s += tree.TextOf(d)
			}
		}
		return s
	}
}

func (ec *evalContext) booleanOf(v Value) bool {
	if v.Kind == NodeSetValue {
		return len(v.NodeSet) > 0
	}
	return v.ToBoolean()
}

func (ec *evalContext) numberOf(v Value) float64 {
	if v.Kind == NodeSetValue {
		return stringValue(ec.stringOf(v)).ToNumber()
	}
	return v.ToNumber()
}

func (ec *evalContext) stringOf(v Value) string {
	if v.Kind == NodeSetValue {
		if len(v.NodeSet) == 0 {
			return ""
		}
		return stringOfItem(ec.tree, v.NodeSet[0])
	}
	return v.ToString()
}
