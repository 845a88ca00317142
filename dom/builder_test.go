package dom

import "testing"

func TestBuilderOrderAndAttributes(t *testing.T) {
	tree := NewBuilder().
		AddElement("html").
		AddElement("body").
		AddElement("div").
		AddAttribute("id", "example").
		AddAttribute("id", "replaced").
		AddText("Example 1").
		End().
		End().
		End().
		Build()

	html := firstElementChild(tree, tree.Root())
	if html == NoHandle || tree.TagName(html) != "html" {
		t.Fatalf("expected <html> as document element")
	}
	body := firstElementChild(tree, html)
	if body == NoHandle || tree.TagName(body) != "body" {
		t.Fatalf("expected <body> under <html>")
	}
	div := firstElementChild(tree, body)
	if div == NoHandle || tree.TagName(div) != "div" {
		t.Fatalf("expected <div> under <body>")
	}
	if v, ok := tree.Attr(div, "id"); !ok || v != "replaced" {
		t.Errorf("duplicate AddAttribute should replace in place, got %q, ok=%v", v, ok)
	}
	if len(tree.Attributes(div)) != 1 {
		t.Errorf("expected exactly one attribute after duplicate AddAttribute, got %d", len(tree.Attributes(div)))
	}
	children := tree.Children(div)
	if len(children) != 1 || tree.TextOf(children[0]) != "Example 1" {
		t.Errorf("expected single text child %q, got %v", "Example 1", children)
	}
}

func TestBuilderUnbalancedEndIsNoop(t *testing.T) {
	b := NewBuilder().End().End().AddElement("html")
	tree := b.Build()
	if firstElementChild(tree, tree.Root()) == NoHandle {
		t.Fatal("extra End() calls at the root should be harmless no-ops")
	}
}

func firstElementChild(tree *Tree, parent Handle) Handle {
	for _, c := range tree.Children(parent) {
		if tree.Kind(c) == ElementKind {
			return c
		}
	}
	return NoHandle
}
