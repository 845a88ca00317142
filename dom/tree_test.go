package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendChildOrderPreserved(t *testing.T) {
	tr := NewTree()
	html := tr.CreateElement("html")
	tr.AppendChild(tr.Root(), html)

	var want []Handle
	for _, name := range []string{"head", "body", "footer"} {
		h := tr.CreateElement(name)
		tr.AppendChild(html, h)
		want = append(want, h)
	}

	got := tr.Children(html)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Children() order mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendChildCoalescesText(t *testing.T) {
	tr := NewTree()
	div := tr.CreateElement("div")
	tr.AppendChild(tr.Root(), div)

	tr.AppendChild(div, tr.CreateText("hello "))
	tr.AppendChild(div, tr.CreateText("world"))

	children := tr.Children(div)
	if len(children) != 1 {
		t.Fatalf("expected text nodes to coalesce into one child, got %d", len(children))
	}
	if got := tr.TextOf(children[0]); got != "hello world" {
		t.Errorf("TextOf() = %q, want %q", got, "hello world")
	}
}

func TestDocumentNeverHasTextChild(t *testing.T) {
	tr := NewTree()
	tr.AppendChild(tr.Root(), tr.CreateText("stray"))
	if tr.HasChildren(tr.Root()) {
		t.Error("text appended directly to the document root should be dropped (I5)")
	}
}

func TestInsertBeforeAndDetach(t *testing.T) {
	tr := NewTree()
	ul := tr.CreateElement("ul")
	tr.AppendChild(tr.Root(), ul)

	li1 := tr.CreateElement("li")
	li3 := tr.CreateElement("li")
	tr.AppendChild(ul, li1)
	tr.AppendChild(ul, li3)

	li2 := tr.CreateElement("li")
	tr.InsertBefore(ul, li2, li3)

	got := tr.Children(ul)
	want := []Handle{li1, li2, li3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Children() after InsertBefore (-want +got):\n%s", diff)
	}

	// Re-parenting detaches from the old parent automatically.
	div := tr.CreateElement("div")
	tr.AppendChild(tr.Root(), div)
	tr.AppendChild(div, li2)
	if got := tr.Children(ul); len(got) != 2 {
		t.Errorf("expected li2 to be detached from ul, children = %v", got)
	}
	if p, ok := tr.Parent(li2); !ok || p != div {
		t.Errorf("expected li2's parent to be div after re-append")
	}
}

func TestHandlesNeverReused(t *testing.T) {
	tr := NewTree()
	seen := map[Handle]bool{tr.Root(): true}
	for i := 0; i < 50; i++ {
		h := tr.CreateElement("p")
		if seen[h] {
			t.Fatalf("handle %d reused", h)
		}
		seen[h] = true
	}
}

func TestAttributeOrderPreserved(t *testing.T) {
	tr := NewTree()
	el := tr.CreateElement("input")
	tr.SetAttr(el, "type", "text")
	tr.SetAttr(el, "name", "q")
	tr.SetAttr(el, "type", "search") // update in place, not re-appended

	attrs := tr.Attributes(el)
	want := []Attribute{{Name: "type", Value: "search"}, {Name: "name", Value: "q"}}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Errorf("Attributes() (-want +got):\n%s", diff)
	}
}

func TestDescendantsPreOrder(t *testing.T) {
	tr := NewTree()
	div := tr.CreateElement("div")
	tr.AppendChild(tr.Root(), div)
	p1 := tr.CreateElement("p")
	p2 := tr.CreateElement("p")
	tr.AppendChild(div, p1)
	tr.AppendChild(div, p2)
	span := tr.CreateElement("span")
	tr.AppendChild(p1, span)

	got := tr.Descendants(div)
	want := []Handle{p1, span, p2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Descendants() (-want +got):\n%s", diff)
	}
}
