// Package dom implements the arena-allocated document tree that the
// tokenizer and tree builder populate and that the XPath evaluator walks.
//
// Nodes are addressed by Handle, a stable integer index into the Tree's
// arena. Parent/child/sibling links are stored out-of-band as
// Handle-valued fields on each node (the shape golang.org/x/net/html's
// Node type uses), which sidesteps the cyclic-ownership problem the
// adoption agency algorithm would otherwise create by reparenting nodes
// through owning pointers.
package dom

// Handle addresses a node within a single Tree. Handles from different
// trees must never be compared; a Handle is only meaningful against the
// Tree that produced it.
type Handle int

// NoHandle is the sentinel for "no such node" — used for absent
// parents, siblings, and children, and returned by lookups that fail.
const NoHandle Handle = -1

// Kind tags the sum type every node in the arena belongs to.
type Kind int

const (
	DocumentKind Kind = iota
	ElementKind
	TextKind
	CommentKind
	ProcessingInstructionKind
)

func (k Kind) String() string {
	switch k {
	case DocumentKind:
		return "Document"
	case ElementKind:
		return "Element"
	case TextKind:
		return "Text"
	case CommentKind:
		return "Comment"
	case ProcessingInstructionKind:
		return "ProcessingInstruction"
	default:
		return "Unknown"
	}
}

// Attribute is an element attribute, preserved in insertion order and
// addressable by an optional namespace for foreign (SVG/MathML/XLink)
// content.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// node is the physical representation of every arena slot, regardless of
// Kind. Only the fields relevant to a given Kind are meaningful; this
// mirrors the teacher's baseNode-plus-typed-struct shape collapsed into a
// single arena row addressed by index instead of by pointer.
type node struct {
	kind Kind

	parent      Handle
	firstChild  Handle
	lastChild   Handle
	prevSibling Handle
	nextSibling Handle

	// Element
	tagName    string
	namespace  string
	attrs      []Attribute
	isFragment bool // true for <template> content and ParseFragment roots:
	// a DocumentKind node that, unlike the real document root, is allowed
	// text children (invariant I5 binds the document root, not fragments).

	// Text / Comment
	text string

	// ProcessingInstruction
	piTarget string
	piData   string
}

// Doctype is document-level metadata, not a tree node — the node-kind
// table in §3 has no DOCTYPE entry, so the name/public-id/system-id/
// force-quirks tuple lives on the Tree itself.
type Doctype struct {
	Name        string
	PublicID    string
	SystemID    string
	ForceQuirks bool
}

// QuirksMode is the document's rendering mode, set by the tree builder
// from the DOCTYPE (or its absence).
type QuirksMode int

const (
	NoQuirks QuirksMode = iota
	LimitedQuirks
	Quirks
)

// Tree is an arena of nodes rooted at a single Document node, plus the
// document-level metadata (Doctype, QuirksMode) that isn't itself a node.
type Tree struct {
	nodes   []node
	root    Handle
	Doctype *Doctype
	Quirks  QuirksMode
}

// NewTree creates a Tree with a freshly allocated Document root and no
// other content.
func NewTree() *Tree {
	t := &Tree{}
	t.root = t.alloc(node{kind: DocumentKind})
	return t
}

func (t *Tree) alloc(n node) Handle {
	n.parent = NoHandle
	n.firstChild = NoHandle
	n.lastChild = NoHandle
	n.prevSibling = NoHandle
	n.nextSibling = NoHandle
	t.nodes = append(t.nodes, n)
	return Handle(len(t.nodes) - 1)
}

// Root returns the sole Document node.
func (t *Tree) Root() Handle { return t.root }

// Len returns the number of nodes ever allocated in the arena, including
// detached ones (P2: handles are never reused).
func (t *Tree) Len() int { return len(t.nodes) }

// Kind returns the node kind at h.
func (t *Tree) Kind(h Handle) Kind { return t.nodes[h].kind }

// Parent returns h's parent and true, or (NoHandle, false) at the root or
// for a detached node.
func (t *Tree) Parent(h Handle) (Handle, bool) {
	p := t.nodes[h].parent
	return p, p != NoHandle
}

// FirstChild returns h's first child and true, or (NoHandle, false) if h
// has no children.
func (t *Tree) FirstChild(h Handle) (Handle, bool) {
	c := t.nodes[h].firstChild
	return c, c != NoHandle
}

// LastChild returns h's last child and true, or (NoHandle, false) if h has
// no children. Needed directly by the text-merging invariant (I3).
func (t *Tree) LastChild(h Handle) (Handle, bool) {
	c := t.nodes[h].lastChild
	return c, c != NoHandle
}

// NextSibling returns the sibling immediately after h, or (NoHandle,
// false) if h is the last child of its parent.
func (t *Tree) NextSibling(h Handle) (Handle, bool) {
	s := t.nodes[h].nextSibling
	return s, s != NoHandle
}

// PrevSibling returns the sibling immediately before h, or (NoHandle,
// false) if h is the first child of its parent.
func (t *Tree) PrevSibling(h Handle) (Handle, bool) {
	s := t.nodes[h].prevSibling
	return s, s != NoHandle
}

// Children returns h's children in document order (P1).
func (t *Tree) Children(h Handle) []Handle {
	var out []Handle
	for c, ok := t.FirstChild(h); ok; c, ok = t.NextSibling(c) {
		out = append(out, c)
	}
	return out
}

// HasChildren reports whether h has at least one child.
func (t *Tree) HasChildren(h Handle) bool {
	return t.nodes[h].firstChild != NoHandle
}

// detach unlinks child from its current parent and siblings, leaving it
// parentless. A no-op if child has no parent.
func (t *Tree) detach(child Handle) {
	p, ok := t.Parent(child)
	if !ok {
		return
	}
	prev, hasPrev := t.PrevSibling(child)
	next, hasNext := t.NextSibling(child)
	if hasPrev {
		t.nodes[prev].nextSibling = next
	} else {
		t.nodes[p].firstChild = next
	}
	if hasNext {
		t.nodes[next].prevSibling = prev
	} else {
		t.nodes[p].lastChild = prev
	}
	t.nodes[child].parent = NoHandle
	t.nodes[child].prevSibling = NoHandle
	t.nodes[child].nextSibling = NoHandle
}

// acceptsText reports whether parent may hold a text-node child directly
// (I5: the document root never does; everything else, including
// <template> content fragments, does).
func (t *Tree) acceptsText(parent Handle) bool {
	n := &t.nodes[parent]
	return n.kind != DocumentKind || n.isFragment
}

// AppendChild appends child as the last child of parent, detaching it
// from any prior parent first. Consecutive text-node children are
// coalesced into a single node (I3); a text child appended directly to
// the document root is dropped (I5).
func (t *Tree) AppendChild(parent, child Handle) {
	t.detach(child)
	if t.nodes[child].kind == TextKind && !t.acceptsText(parent) {
		return
	}
	if t.nodes[child].kind == TextKind {
		if last, ok := t.LastChild(parent); ok && t.nodes[last].kind == TextKind {
			t.nodes[last].text += t.nodes[child].text
			return
		}
	}
	t.nodes[child].parent = parent
	if last, ok := t.LastChild(parent); ok {
		t.nodes[last].nextSibling = child
		t.nodes[child].prevSibling = last
		t.nodes[parent].lastChild = child
	} else {
		t.nodes[parent].firstChild = child
		t.nodes[parent].lastChild = child
	}
}

// InsertBefore inserts child immediately before `before` under parent,
// detaching child from any prior parent first. A nil `before` (NoHandle)
// behaves like AppendChild. Subject to the same text-coalescing (I3) and
// document-no-text (I5) rules as AppendChild.
func (t *Tree) InsertBefore(parent, child, before Handle) {
	if before == NoHandle {
		t.AppendChild(parent, child)
		return
	}
	t.detach(child)
	if t.nodes[child].kind == TextKind && !t.acceptsText(parent) {
		return
	}
	prev, hasPrev := t.PrevSibling(before)
	if t.nodes[child].kind == TextKind && hasPrev && t.nodes[prev].kind == TextKind {
		t.nodes[prev].text += t.nodes[child].text
		return
	}
	t.nodes[child].parent = parent
	t.nodes[child].nextSibling = before
	t.nodes[child].prevSibling = prev
	t.nodes[before].prevSibling = child
	if hasPrev {
		t.nodes[prev].nextSibling = child
	} else {
		t.nodes[parent].firstChild = child
	}
}

// Remove detaches child from the tree entirely (used by the adoption
// agency algorithm to pull a node out before re-inserting it elsewhere;
// the node itself is never destroyed, only unlinked).
func (t *Tree) Remove(child Handle) {
	t.detach(child)
}

// -- node creation --------------------------------------------------------

// CreateElement allocates a new HTML-namespace element node. It is not
// yet attached to the tree; the caller inserts it with AppendChild or
// InsertBefore.
func (t *Tree) CreateElement(tagName string) Handle {
	return t.CreateElementNS(tagName, NamespaceHTML)
}

// CreateElementNS allocates a new element node in the given namespace.
func (t *Tree) CreateElementNS(tagName, namespace string) Handle {
	return t.alloc(node{kind: ElementKind, tagName: tagName, namespace: namespace})
}

// CreateText allocates a new, unattached text node.
func (t *Tree) CreateText(data string) Handle {
	return t.alloc(node{kind: TextKind, text: data})
}

// CreateComment allocates a new, unattached comment node.
func (t *Tree) CreateComment(data string) Handle {
	return t.alloc(node{kind: CommentKind, text: data})
}

// CreateProcessingInstruction allocates a new, unattached PI node.
func (t *Tree) CreateProcessingInstruction(target, data string) Handle {
	return t.alloc(node{kind: ProcessingInstructionKind, piTarget: target, piData: data})
}

// CreateDocumentFragment allocates a container node that, unlike the
// document root, may hold text directly — used for <template> content
// and as the context root for fragment parsing.
func (t *Tree) CreateDocumentFragment() Handle {
	return t.alloc(node{kind: DocumentKind, isFragment: true})
}

// -- element accessors ----------------------------------------------------

// TagName returns the local name of the element at h, or "" if h is not
// an element.
func (t *Tree) TagName(h Handle) string {
	if t.nodes[h].kind != ElementKind {
		return ""
	}
	return t.nodes[h].tagName
}

// Namespace returns the namespace URI of the element at h, or "" if h is
// not an element.
func (t *Tree) Namespace(h Handle) string {
	if t.nodes[h].kind != ElementKind {
		return ""
	}
	return t.nodes[h].namespace
}

// SetTagName renames the element at h in place. It does nothing if h is
// not an element.
func (t *Tree) SetTagName(h Handle, tagName string) {
	if t.nodes[h].kind == ElementKind {
		t.nodes[h].tagName = tagName
	}
}

// -- text / comment / PI accessors ----------------------------------------

// TextOf returns the character data of the text node at h, or "" if h is
// not a text node.
func (t *Tree) TextOf(h Handle) string {
	if t.nodes[h].kind != TextKind {
		return ""
	}
	return t.nodes[h].text
}

// CommentData returns the character data of the comment node at h, or ""
// if h is not a comment node.
func (t *Tree) CommentData(h Handle) string {
	if t.nodes[h].kind != CommentKind {
		return ""
	}
	return t.nodes[h].text
}

// AppendText extends a text node's buffer in place, for callers that want
// to grow a node without going through AppendChild's coalescing path.
func (t *Tree) AppendText(h Handle, s string) {
	if t.nodes[h].kind == TextKind {
		t.nodes[h].text += s
	}
}

// PITarget returns the target of the processing-instruction node at h, or
// "" if h is not a PI node.
func (t *Tree) PITarget(h Handle) string {
	if t.nodes[h].kind != ProcessingInstructionKind {
		return ""
	}
	return t.nodes[h].piTarget
}

// PIData returns the data of the processing-instruction node at h, or ""
// if h is not a PI node.
func (t *Tree) PIData(h Handle) string {
	if t.nodes[h].kind != ProcessingInstructionKind {
		return ""
	}
	return t.nodes[h].piData
}

// Descendants walks the subtree rooted at h in pre-order (document
// order), excluding h itself.
func (t *Tree) Descendants(h Handle) []Handle {
	var out []Handle
	var walk func(Handle)
	walk = func(n Handle) {
		for c, ok := t.FirstChild(n); ok; c, ok = t.NextSibling(c) {
			out = append(out, c)
			walk(c)
		}
	}
	walk(h)
	return out
}

// Ancestors returns h's ancestors from nearest to furthest (the document
// root last).
func (t *Tree) Ancestors(h Handle) []Handle {
	var out []Handle
	for p, ok := t.Parent(h); ok; p, ok = t.Parent(p) {
		out = append(out, p)
	}
	return out
}
