package xpath

import (
	"testing"

	antchfx "github.com/antchfx/xpath"

	"github.com/arbortree/arbor/dom"
)

// crosscheck runs expr (as this package's hand-built AST) and exprText
// (the same expression as XPath text, compiled and run through
// antchfx/xpath over the NodeNavigator adapter) and asserts both visit
// the same elements in document order, by tag name + text. This is a
// property test of navigator.go, not of the AST itself: a divergence
// here means the NodeNavigator adapter disagrees with the hand-rolled
// evaluator about tree shape, not that either XPath engine is wrong.
func crosscheck(t *testing.T, tr *dom.Tree, root dom.Handle, expr *PathExpr, exprText string) {
	t.Helper()

	got, err := Evaluate(expr, tr, root)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	var gotTags []string
	for _, item := range got {
		if item.IsAttr || tr.Kind(item.Node) != dom.ElementKind {
			t.Fatalf("crosscheck only supports element results, got %+v", item)
		}
		gotTags = append(gotTags, tr.TagName(item.Node)+":"+stringOfItem(tr, item))
	}

	compiled, err := antchfx.Compile(exprText)
	if err != nil {
		t.Fatalf("antchfx.Compile(%q) error = %v", exprText, err)
	}
	nav := NewNavigator(tr, root)
	it := compiled.Select(nav)
	var wantTags []string
	for it.MoveNext() {
		cur := it.Current().(*NodeNavigator)
		wantTags = append(wantTags, tr.TagName(cur.current)+":"+tr.TextOf(firstTextDescendant(tr, cur.current)))
	}

	if len(gotTags) != len(wantTags) {
		t.Fatalf("result count mismatch: ours=%v antchfx=%v", gotTags, wantTags)
	}
	for i := range gotTags {
		if gotTags[i] != wantTags[i] {
			t.Errorf("result[%d] = %q, antchfx = %q", i, gotTags[i], wantTags[i])
		}
	}
}

func firstTextDescendant(tr *dom.Tree, h dom.Handle) dom.Handle {
	for _, d := range tr.Descendants(h) {
		if tr.Kind(d) == dom.TextKind {
			return d
		}
	}
	return dom.NoHandle
}

func TestCrosscheckChildAxis(t *testing.T) {
	tr, _ := buildTwoDivsTree(t)
	expr := &PathExpr{Absolute: true, Steps: []Step{
		{Axis: DescendantOrSelf, Test: NodeTest{Kind: AnyNodeTest}},
		{Axis: Child, Test: nameTest("p")},
	}}
	crosscheck(t, tr, tr.Root(), expr, "//p")
}

func TestCrosscheckPredicateIndex(t *testing.T) {
	tr, _ := buildTwoDivsTree(t)
	expr := &PathExpr{AbsoluteDescendant: true, Steps: []Step{
		{Axis: Child, Test: nameTest("div")},
		{Axis: Child, Test: nameTest("p"), Predicates: []Predicate{{Expr: NumberLiteral(2)}}},
	}}
	crosscheck(t, tr, tr.Root(), expr, "//div/p[2]")
}
