package dom

import "strings"

// Namespace URIs used throughout HTML5 parsing. Mirrors
// internal/constants' copies so callers of dom don't need to import
// internal/constants just to compare a namespace string.
const (
	NamespaceHTML   = "http://www.w3.org/1999/xhtml"
	NamespaceSVG    = "http://www.w3.org/2000/svg"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
)

// Attributes returns the element's attributes in insertion order (I4). It
// returns nil for a non-element handle.
func (t *Tree) Attributes(h Handle) []Attribute {
	if t.nodes[h].kind != ElementKind {
		return nil
	}
	out := make([]Attribute, len(t.nodes[h].attrs))
	copy(out, t.nodes[h].attrs)
	return out
}

// Attr returns the value of the unnamespaced attribute name on element h.
func (t *Tree) Attr(h Handle, name string) (string, bool) {
	return t.AttrNS(h, "", name)
}

// AttrNS returns the value of a namespaced attribute on element h.
func (t *Tree) AttrNS(h Handle, namespace, name string) (string, bool) {
	if t.nodes[h].kind != ElementKind {
		return "", false
	}
	for _, a := range t.nodes[h].attrs {
		if a.Namespace == namespace && a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether element h carries an unnamespaced attribute
// named name.
func (t *Tree) HasAttr(h Handle, name string) bool {
	_, ok := t.Attr(h, name)
	return ok
}

// SetAttr sets or replaces an unnamespaced attribute on element h,
// preserving its original position if it already existed or appending it
// otherwise. A no-op on a non-element handle.
func (t *Tree) SetAttr(h Handle, name, value string) {
	t.SetAttrNS(h, "", name, value)
}

// SetAttrNS is the namespaced form of SetAttr.
func (t *Tree) SetAttrNS(h Handle, namespace, name, value string) {
	if t.nodes[h].kind != ElementKind {
		return
	}
	attrs := t.nodes[h].attrs
	for i := range attrs {
		if attrs[i].Namespace == namespace && attrs[i].Name == name {
			attrs[i].Value = value
			return
		}
	}
	t.nodes[h].attrs = append(attrs, Attribute{Namespace: namespace, Name: name, Value: value})
}

// SetAttrIfAbsent sets an attribute only if it is not already present —
// the "merge missing attributes" behavior InBody uses when a stray
// <html>/<body> start tag repeats the root element's tag name.
func (t *Tree) SetAttrIfAbsent(h Handle, name, value string) {
	if t.HasAttr(h, name) {
		return
	}
	t.SetAttr(h, name, value)
}

// RemoveAttr removes an unnamespaced attribute from element h, if present.
func (t *Tree) RemoveAttr(h Handle, name string) {
	if t.nodes[h].kind != ElementKind {
		return
	}
	attrs := t.nodes[h].attrs
	for i := range attrs {
		if attrs[i].Namespace == "" && attrs[i].Name == name {
			t.nodes[h].attrs = append(attrs[:i], attrs[i+1:]...)
			return
		}
	}
}

// Classes splits the element's class attribute on ASCII whitespace.
func (t *Tree) Classes(h Handle) []string {
	class, _ := t.Attr(h, "class")
	if class == "" {
		return nil
	}
	return strings.Fields(class)
}
