package treebuilder

import (
	"strings"

	"github.com/arbortree/arbor/dom"
)

// serializeHTML renders h and its subtree back to an HTML string, for
// round-trip tests only: parse, serialize, re-parse, compare tree shape.
// It is not a general-purpose serializer — no pretty-printing, no
// namespace-prefixed tag rendering for foreign content.
func serializeHTML(tree *dom.Tree, h dom.Handle) string {
	var sb strings.Builder
	serializeNode(&sb, tree, h)
	return sb.String()
}

func serializeNode(sb *strings.Builder, tree *dom.Tree, h dom.Handle) {
	switch tree.Kind(h) {
	case dom.DocumentKind:
		for _, c := range tree.Children(h) {
			serializeNode(sb, tree, c)
		}
	case dom.ElementKind:
		serializeElement(sb, tree, h)
	case dom.TextKind:
		sb.WriteString(escapeText(tree.TextOf(h)))
	case dom.CommentKind:
		sb.WriteString("<!--")
		sb.WriteString(tree.CommentData(h))
		sb.WriteString("-->")
	case dom.ProcessingInstructionKind:
		sb.WriteString("<?")
		sb.WriteString(tree.PITarget(h))
		sb.WriteByte(' ')
		sb.WriteString(tree.PIData(h))
		sb.WriteString("?>")
	}
}

func serializeElement(sb *strings.Builder, tree *dom.Tree, h dom.Handle) {
	tag := tree.TagName(h)

	sb.WriteByte('<')
	sb.WriteString(tag)
	for _, attr := range tree.Attributes(h) {
		sb.WriteByte(' ')
		sb.WriteString(attr.Name)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(attr.Value))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')

	if isVoidElement(tag) {
		return
	}

	for _, c := range tree.Children(h) {
		serializeNode(sb, tree, c)
	}

	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteByte('>')
}

func escapeText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func escapeAttr(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '"':
			sb.WriteString("&quot;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
