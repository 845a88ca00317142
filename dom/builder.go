package dom

// Builder is a fluent, value-returning document constructor for tests and
// downstream callers who want to assemble a Tree by hand rather than
// parsing HTML.
//
// The teacher's equivalent surface takes nested closures for children
// (AddElement(tag, func(b) {...})); per the deferred-execution concerns
// that shape raises, Builder instead keeps an explicit stack of open
// element handles and returns itself from every call, so a caller nests
// children with AddElement/End pairs instead of callbacks:
//
//	b := NewBuilder().
//		AddElement("html").
//			AddElement("body").
//				AddElement("div").AddAttribute("id", "example").AddText("hi").End().
//			End().
//		End()
//	tree := b.Build()
type Builder struct {
	tree  *Tree
	stack []Handle // open elements; stack[0] is always the document root
}

// NewBuilder starts a Builder over a fresh, empty Tree.
func NewBuilder() *Builder {
	t := NewTree()
	return &Builder{tree: t, stack: []Handle{t.Root()}}
}

func (b *Builder) current() Handle {
	return b.stack[len(b.stack)-1]
}

// AddElement appends a new element child of the current node, lowered
// into the HTML namespace, and descends into it — subsequent Add* calls
// apply to the new element until a matching End.
func (b *Builder) AddElement(tag string) *Builder {
	h := b.tree.CreateElement(tag)
	b.tree.AppendChild(b.current(), h)
	b.stack = append(b.stack, h)
	return b
}

// AddElementNS is AddElement for a non-HTML namespace (SVG/MathML).
func (b *Builder) AddElementNS(tag, namespace string) *Builder {
	h := b.tree.CreateElementNS(tag, namespace)
	b.tree.AppendChild(b.current(), h)
	b.stack = append(b.stack, h)
	return b
}

// End closes the most recently opened element, returning focus to its
// parent. A no-op at the document root.
func (b *Builder) End() *Builder {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return b
}

// AddText appends a text child to the current node.
func (b *Builder) AddText(data string) *Builder {
	h := b.tree.CreateText(data)
	b.tree.AppendChild(b.current(), h)
	return b
}

// AddComment appends a comment child to the current node.
func (b *Builder) AddComment(data string) *Builder {
	h := b.tree.CreateComment(data)
	b.tree.AppendChild(b.current(), h)
	return b
}

// AddProcessingInstruction appends a processing-instruction child to the
// current node.
func (b *Builder) AddProcessingInstruction(target, data string) *Builder {
	h := b.tree.CreateProcessingInstruction(target, data)
	b.tree.AppendChild(b.current(), h)
	return b
}

// AddAttribute sets an attribute on the current element. Setting the same
// name twice silently replaces the earlier value rather than appending a
// duplicate.
func (b *Builder) AddAttribute(name, value string) *Builder {
	b.tree.SetAttr(b.current(), name, value)
	return b
}

// AddAttributes sets every (name, value) pair in order, as repeated
// AddAttribute calls would.
func (b *Builder) AddAttributes(attrs []Attribute) *Builder {
	for _, a := range attrs {
		if a.Namespace == "" {
			b.tree.SetAttr(b.current(), a.Name, a.Value)
		} else {
			b.tree.SetAttrNS(b.current(), a.Namespace, a.Name, a.Value)
		}
	}
	return b
}

// Build finalizes and returns the constructed Tree. Any elements still
// open (missing an End) are simply left open — Build does not require a
// balanced stack, matching how a parser hands back a partial document on
// EOF.
func (b *Builder) Build() *Tree {
	return b.tree
}
