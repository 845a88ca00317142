package treebuilder

import (
	"strings"
	"testing"

	"github.com/arbortree/arbor/dom"
	"github.com/arbortree/arbor/errors"
	"github.com/arbortree/arbor/tokenizer"
)

func parseDoc(t *testing.T, html string) *dom.Tree {
	t.Helper()
	handler := &errors.CollectingHandler{}
	tok := tokenizer.New(html, handler)
	tb := New(tok, handler)
	for {
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}
	if fatal := tb.Fatal(); fatal != nil {
		t.Fatalf("parse fatally errored: %v", fatal)
	}
	return tb.Tree()
}

func countTags(tree *dom.Tree, root dom.Handle, tag string) int {
	n := 0
	if tree.Kind(root) == dom.ElementKind && tree.TagName(root) == tag {
		n++
	}
	for _, c := range tree.Children(root) {
		n += countTags(tree, c, tag)
	}
	return n
}

// TestRoundTripPreservesTagShape parses a document, serializes it back to
// HTML with serializeHTML, reparses the output, and checks the tag counts
// by name agree — the round-trip testable property.
func TestRoundTripPreservesTagShape(t *testing.T) {
	const src = `<!DOCTYPE html><html><head><title>t</title></head><body><div id="x" class="a b"><p>hello <b>world</b></p><ul><li>one</li><li>two</li></ul></div></body></html>`

	tree := parseDoc(t, src)
	out := serializeHTML(tree, tree.Root())

	reparsed := parseDoc(t, out)

	for _, tag := range []string{"html", "head", "title", "body", "div", "p", "b", "ul", "li"} {
		want := countTags(tree, tree.Root(), tag)
		got := countTags(reparsed, reparsed.Root(), tag)
		if got != want {
			t.Errorf("tag %q: first parse had %d, round-tripped parse had %d (serialized: %s)", tag, want, got, out)
		}
	}
}

func TestRoundTripEscapesTextAndAttributes(t *testing.T) {
	tree := parseDoc(t, `<p title="a &amp; b">x &lt; y</p>`)
	out := serializeHTML(tree, tree.Root())
	if !strings.Contains(out, `&amp;`) {
		t.Errorf("serialized output should escape &, got %s", out)
	}
	if !strings.Contains(out, "&lt;") {
		t.Errorf("serialized output should escape <, got %s", out)
	}
}

func TestVoidElementsSerializeWithoutClosingTag(t *testing.T) {
	tree := parseDoc(t, `<p>one<br>two</p>`)
	out := serializeHTML(tree, tree.Root())
	if strings.Contains(out, "</br>") {
		t.Errorf("void element <br> should not get a closing tag, got %s", out)
	}
	if !strings.Contains(out, "<br>") {
		t.Errorf("expected a serialized <br>, got %s", out)
	}
}

func TestImpliedHeadAndBody(t *testing.T) {
	tree := parseDoc(t, `<title>Hi</title><p>text</p>`)
	if countTags(tree, tree.Root(), "head") != 1 {
		t.Error("expected exactly one implied <head>")
	}
	if countTags(tree, tree.Root(), "body") != 1 {
		t.Error("expected exactly one implied <body>")
	}
}

func TestMisnestedFormattingElementsAdoptionAgency(t *testing.T) {
	// Classic adoption agency case: <b> is still open when <p> closes, so
	// the <i> inside the second <p> must still be reconstructed inside a
	// cloned <b>.
	tree := parseDoc(t, `<p>1<b>2<i>3</p>4</i>5</b>`)
	if countTags(tree, tree.Root(), "b") < 2 {
		t.Error("expected the adoption agency algorithm to clone <b> across the </p> boundary")
	}
	if countTags(tree, tree.Root(), "i") < 1 {
		t.Error("expected <i> to survive misnesting")
	}
}

func TestFragmentParsingTableContext(t *testing.T) {
	handler := &errors.CollectingHandler{}
	tok := tokenizer.New(`<tr><td>1</td></tr>`, handler)
	tb := NewFragment(tok, handler, &FragmentContext{TagName: "tbody"})
	for {
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}
	nodes := tb.FragmentNodes()
	if len(nodes) == 0 {
		t.Fatal("expected fragment root nodes")
	}
	if tb.Tree().TagName(nodes[0]) != "tr" {
		t.Errorf("TagName(nodes[0]) = %q, want tr", tb.Tree().TagName(nodes[0]))
	}
}
