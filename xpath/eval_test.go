package xpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arbortree/arbor/dom"
)

// buildTwoDivsTree builds the seed scenario from spec.md §8.6: two
// <div>s, each with three <p> children, text "1|2|3" and "4|5|6".
func buildTwoDivsTree(t *testing.T) (*dom.Tree, []dom.Handle) {
	t.Helper()
	tr := dom.NewTree()

	var pHandles []dom.Handle
	groups := [][]string{{"1", "2", "3"}, {"4", "5", "6"}}
	for _, texts := range groups {
		div := tr.CreateElement("div")
		tr.AppendChild(tr.Root(), div)
		for _, text := range texts {
			p := tr.CreateElement("p")
			tr.AppendChild(div, p)
			tr.AppendChild(p, tr.CreateText(text))
			pHandles = append(pHandles, p)
		}
	}
	return tr, pHandles
}

func nameTest(name string) NodeTest {
	return NodeTest{Kind: NameTest, Name: name}
}

func TestPredicateIndexing(t *testing.T) {
	tr, p := buildTwoDivsTree(t)

	// //div/p[2]
	expr := &PathExpr{
		AbsoluteDescendant: true,
		Steps: []Step{
			{Axis: Child, Test: nameTest("div")},
			{Axis: Child, Test: nameTest("p"), Predicates: []Predicate{{Expr: NumberLiteral(2)}}},
		},
	}

	got, err := Evaluate(expr, tr, tr.Root())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	want := ItemSet{{Node: p[1]}, {Node: p[4]}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("//div/p[2] (-want +got):\n%s", diff)
	}

	var texts []string
	for _, item := range got {
		texts = append(texts, stringOfItem(tr, item))
	}
	if diff := cmp.Diff([]string{"2", "5"}, texts); diff != "" {
		t.Errorf("text of //div/p[2] (-want +got):\n%s", diff)
	}
}

func TestChildAxisOrder(t *testing.T) {
	tr, p := buildTwoDivsTree(t)
	divs := tr.Children(tr.Root())

	expr := &PathExpr{Steps: []Step{{Axis: Child, Test: nameTest("p")}}}
	got, err := Evaluate(expr, tr, divs[0])
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	want := ItemSet{{Node: p[0]}, {Node: p[1]}, {Node: p[2]}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("child::p (-want +got):\n%s", diff)
	}
}

func TestDescendantAxisDedupesAndOrders(t *testing.T) {
	tr, _ := buildTwoDivsTree(t)

	expr := &PathExpr{Absolute: true, Steps: []Step{
		{Axis: Descendant, Test: NodeTest{Kind: AnyNodeTest}},
	}}
	got, err := Evaluate(expr, tr, tr.Root())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	// 2 div + 6 p + 6 text = 14 nodes, each exactly once.
	if len(got) != 14 {
		t.Fatalf("len(descendant::node()) = %d, want 14", len(got))
	}
	seen := map[dom.Handle]bool{}
	for _, item := range got {
		if seen[item.Node] {
			t.Fatalf("duplicate node %d in descendant axis result", item.Node)
		}
		seen[item.Node] = true
	}
}

func TestAttributeAxisAndPredicate(t *testing.T) {
	tr := dom.NewTree()
	ul := tr.CreateElement("ul")
	tr.AppendChild(tr.Root(), ul)
	for i, id := range []string{"a", "b", "c"} {
		li := tr.CreateElement("li")
		tr.SetAttr(li, "id", id)
		if i == 1 {
			tr.SetAttr(li, "data-selected", "true")
		}
		tr.AppendChild(ul, li)
	}

	expr := &PathExpr{Steps: []Step{
		{Axis: Child, Test: nameTest("li"), Predicates: []Predicate{
			{Expr: Compare{Op: Eq, Left: AttrRef{Name: "id"}, Right: StringLiteral("b")}},
		}},
	}}
	got, err := Evaluate(expr, tr, ul)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(li[@id='b']) = %d, want 1", len(got))
	}
	if v, ok := tr.Attr(got[0].Node, "data-selected"); !ok || v != "true" {
		t.Errorf("expected matched <li> to be the one with data-selected=true")
	}

	attrExpr := &PathExpr{Steps: []Step{{Axis: AttributeAxis, Test: NodeTest{Kind: AnyNodeTest}}}}
	attrs, err := Evaluate(attrExpr, tr, got[0].Node)
	if err != nil {
		t.Fatalf("Evaluate() attribute axis error = %v", err)
	}
	if len(attrs) != 2 {
		t.Fatalf("len(attribute::node()) = %d, want 2", len(attrs))
	}
}

func TestParentAxis(t *testing.T) {
	tr, p := buildTwoDivsTree(t)
	div, _ := tr.Parent(p[0])

	expr := &PathExpr{Steps: []Step{{Axis: Parent, Test: NodeTest{Kind: AnyNodeTest}}}}
	got, err := Evaluate(expr, tr, p[0])
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(got) != 1 || got[0].Node != div {
		t.Errorf("parent::node() from p[0] = %v, want [%v]", got, div)
	}
}

func TestCountFunction(t *testing.T) {
	tr, _ := buildTwoDivsTree(t)
	divs := tr.Children(tr.Root())

	expr := &PathExpr{Steps: []Step{
		{Axis: Self, Test: NodeTest{Kind: AnyNodeTest}, Predicates: []Predicate{
			{Expr: Compare{
				Op:    Eq,
				Left:  FuncCall{Name: "count", Args: []Expr{Path{Expr: &PathExpr{Steps: []Step{{Axis: Child, Test: nameTest("p")}}}}}},
				Right: NumberLiteral(3),
			}},
		}},
	}}
	got, err := Evaluate(expr, tr, divs[0])
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("count(child::p)=3 self-test got %d results, want 1", len(got))
	}
}

func TestNotAndLogical(t *testing.T) {
	tr, p := buildTwoDivsTree(t)

	expr := &PathExpr{Steps: []Step{{
		Axis: Self,
		Test: NodeTest{Kind: AnyNodeTest},
		Predicates: []Predicate{{Expr: Logical{
			Op:    Or,
			Left:  Compare{Op: Eq, Left: FuncCall{Name: "string"}, Right: StringLiteral("1")},
			Right: FuncCall{Name: "not", Args: []Expr{Compare{Op: Eq, Left: FuncCall{Name: "string"}, Right: StringLiteral("1")}}},
		}}},
	}}}
	got, err := Evaluate(expr, tr, p[0])
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("tautological or/not predicate should always keep the node, got %d results", len(got))
	}
}

func TestArithDivisionByZero(t *testing.T) {
	tr, p := buildTwoDivsTree(t)

	expr := &PathExpr{Steps: []Step{{
		Axis:       Self,
		Test:       NodeTest{Kind: AnyNodeTest},
		Predicates: []Predicate{{Expr: Arith{Op: Div, Left: NumberLiteral(1), Right: NumberLiteral(0)}}},
	}}}
	_, err := Evaluate(expr, tr, p[0])
	if err == nil {
		t.Fatal("expected division-by-zero error")
	}
	xerr, ok := err.(*Error)
	if !ok || xerr.Kind != ErrDivisionByZero {
		t.Errorf("err = %v, want ErrDivisionByZero", err)
	}
}

func TestUnknownFunctionError(t *testing.T) {
	tr, p := buildTwoDivsTree(t)

	expr := &PathExpr{Steps: []Step{{
		Axis:       Self,
		Test:       NodeTest{Kind: AnyNodeTest},
		Predicates: []Predicate{{Expr: FuncCall{Name: "concat"}}},
	}}}
	_, err := Evaluate(expr, tr, p[0])
	xerr, ok := err.(*Error)
	if !ok || xerr.Kind != ErrUnknownFunction {
		t.Errorf("err = %v, want ErrUnknownFunction", err)
	}
}

func TestWildcardNameTest(t *testing.T) {
	tr, _ := buildTwoDivsTree(t)

	expr := &PathExpr{Steps: []Step{{Axis: Child, Test: NodeTest{Kind: NameTest, Name: "*"}}}}
	got, err := Evaluate(expr, tr, tr.Root())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("child::* from root = %d items, want 2 divs", len(got))
	}
}
