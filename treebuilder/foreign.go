package treebuilder

import (
	"strings"

	"github.com/arbortree/arbor/dom"
	"github.com/arbortree/arbor/internal/constants"
	"github.com/arbortree/arbor/tokenizer"
)

func (tb *TreeBuilder) shouldUseForeignContent(tok tokenizer.Token) bool {
	current := tb.currentElement()
	if current == dom.NoHandle {
		return false
	}
	if tb.tree.Namespace(current) == dom.NamespaceHTML {
		return false
	}
	if tok.Type == tokenizer.EOF {
		return false
	}

	if tb.isMathMLTextIntegrationPoint(current) {
		if tok.Type == tokenizer.Character {
			return false
		}
		if tok.Type == tokenizer.StartTag && tok.Name != "mglyph" && tok.Name != "malignmark" {
			return false
		}
	}

	if tb.tree.Namespace(current) == dom.NamespaceMathML && strings.EqualFold(tb.tree.TagName(current), "annotation-xml") {
		if tok.Type == tokenizer.StartTag && tok.Name == "svg" {
			return false
		}
	}

	if tb.isHTMLIntegrationPoint(current) {
		if tok.Type == tokenizer.Character || tok.Type == tokenizer.StartTag {
			return false
		}
	}

	return true
}

// processForeignContent handles one token under the "in foreign content"
// rules of WHATWG HTML §13.2.6.5. It returns true when the token must be
// reprocessed under the current (HTML) insertion mode instead.
func (tb *TreeBuilder) processForeignContent(tok tokenizer.Token) bool {
	current := tb.currentElement()
	if current == dom.NoHandle {
		return false
	}

	switch tok.Type {
	case tokenizer.Character:
		if tok.Data == "" {
			return false
		}
		data := strings.ReplaceAll(tok.Data, "\x00", "�")
		if !isAllWhitespace(data) {
			tb.framesetOK = false
		}
		tb.insertText(data)
		return false
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		if constants.ForeignBreakoutElements[tok.Name] || (tok.Name == "font" && foreignBreakoutFont(tok.Attrs)) {
			tb.popUntilHTMLOrIntegrationPoint()
			tb.resetInsertionModeAppropriately()
			tb.forceHTMLMode = true
			return true
		}

		namespace := tb.tree.Namespace(current)
		adjustedName := tok.Name
		if namespace == dom.NamespaceSVG {
			adjustedName = adjustSVGTagName(tok.Name)
		}
		attrs := prepareForeignAttributes(namespace, tok.Attrs)
		tb.insertForeignElement(adjustedName, namespace, attrs, tok.SelfClosing)
		return false
	case tokenizer.EndTag:
		if tok.Name == "br" || tok.Name == "p" {
			tb.popUntilHTMLOrIntegrationPoint()
			tb.resetInsertionModeAppropriately()
			tb.forceHTMLMode = true
			return true
		}

		for i := len(tb.openElements) - 1; i >= 0; i-- {
			node := tb.openElements[i]
			isHTML := tb.tree.Namespace(node) == dom.NamespaceHTML

			if strings.EqualFold(tb.tree.TagName(node), tok.Name) {
				if tb.fragmentElement != dom.NoHandle && node == tb.fragmentElement {
					return false
				}
				if isHTML {
					tb.forceHTMLMode = true
					return true
				}
				tb.openElements = tb.openElements[:i]
				return false
			}

			if isHTML {
				tb.forceHTMLMode = true
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (tb *TreeBuilder) popUntilHTMLOrIntegrationPoint() {
	for len(tb.openElements) > 0 {
		node := tb.currentElement()
		if node == dom.NoHandle {
			return
		}
		if tb.tree.Namespace(node) == dom.NamespaceHTML {
			return
		}
		if tb.isHTMLIntegrationPoint(node) {
			return
		}
		tb.popCurrent()
	}
}

func (tb *TreeBuilder) isHTMLIntegrationPoint(node dom.Handle) bool {
	if node == dom.NoHandle {
		return false
	}
	if tb.tree.Namespace(node) == dom.NamespaceMathML && tb.tree.TagName(node) == "annotation-xml" {
		if enc, ok := tb.tree.Attr(node, "encoding"); ok {
			switch strings.ToLower(enc) {
			case "text/html", "application/xhtml+xml":
				return true
			default:
				return false
			}
		}
		return false
	}
	ip := constants.IntegrationPoint{Namespace: tb.tree.Namespace(node), LocalName: tb.tree.TagName(node)}
	return constants.HTMLIntegrationPoints[ip]
}

func (tb *TreeBuilder) isMathMLTextIntegrationPoint(node dom.Handle) bool {
	if node == dom.NoHandle {
		return false
	}
	ip := constants.IntegrationPoint{Namespace: tb.tree.Namespace(node), LocalName: tb.tree.TagName(node)}
	return constants.MathMLTextIntegrationPoints[ip]
}

func foreignBreakoutFont(attrs []tokenizer.Attr) bool {
	for _, a := range attrs {
		switch strings.ToLower(a.Name) {
		case "color", "face", "size":
			return true
		}
	}
	return false
}

func adjustSVGTagName(name string) string {
	if adjusted, ok := constants.SVGTagNameAdjustments[strings.ToLower(name)]; ok {
		return adjusted
	}
	return name
}

func prepareForeignAttributes(namespace string, attrs []tokenizer.Attr) []dom.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]dom.Attribute, 0, len(attrs))
	for _, a := range attrs {
		lower := strings.ToLower(a.Name)
		adjustedName := a.Name

		switch namespace {
		case dom.NamespaceMathML:
			if adj, ok := constants.MathMLAttributeAdjustments[lower]; ok {
				adjustedName = adj
				lower = strings.ToLower(adjustedName)
			}
		case dom.NamespaceSVG:
			if adj, ok := constants.SVGAttributeAdjustments[lower]; ok {
				adjustedName = adj
				lower = strings.ToLower(adjustedName)
			}
		}

		if foreignAdj, ok := constants.ForeignAttributeAdjustments[lower]; ok {
			if foreignAdj.Prefix != "" {
				adjustedName = foreignAdj.Prefix + ":" + foreignAdj.LocalName
			} else {
				adjustedName = foreignAdj.LocalName
			}
			out = append(out, dom.Attribute{Namespace: foreignAdj.NamespaceURL, Name: adjustedName, Value: a.Value})
			continue
		}

		out = append(out, dom.Attribute{Name: adjustedName, Value: a.Value})
	}
	return out
}

func (tb *TreeBuilder) insertForeignElement(name, namespace string, attrs []dom.Attribute, selfClosing bool) dom.Handle {
	el := tb.tree.CreateElementNS(name, namespace)
	for _, a := range attrs {
		tb.tree.SetAttrNS(el, a.Namespace, a.Name, a.Value)
	}
	tb.tree.AppendChild(tb.currentNode(), el)
	if !selfClosing {
		tb.openElements = append(tb.openElements, el)
	} else {
		tb.selfClosingAcked = true
	}
	return el
}
