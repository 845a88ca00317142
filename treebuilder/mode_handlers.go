package treebuilder

import (
	"strings"

	"github.com/arbortree/arbor/dom"
	"github.com/arbortree/arbor/errors"
	"github.com/arbortree/arbor/internal/constants"
	"github.com/arbortree/arbor/tokenizer"
)

// These handlers implement the 23 HTML5 tree construction insertion modes,
// WHATWG HTML §13.2.6.4. Each returns true when the token must be
// reprocessed under whatever mode it just switched to.

func (tb *TreeBuilder) processInitial(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return false
		}
		tb.tree.Quirks = dom.Quirks
		tb.mode = BeforeHTML
		return true
	case tokenizer.Comment:
		tb.tree.AppendChild(tb.tree.Root(), tb.tree.CreateComment(tok.Data))
		return false
	case tokenizer.DOCTYPE:
		tb.tree.Doctype = &dom.Doctype{
			Name:        tok.Name,
			PublicID:    ptrToString(tok.PublicID),
			SystemID:    ptrToString(tok.SystemID),
			ForceQuirks: tok.ForceQuirks,
		}
		tb.setQuirksModeFromDoctype(tok.Name, tok.PublicID, tok.SystemID, tok.ForceQuirks)
		tb.mode = BeforeHTML
		return false
	default:
		tb.tree.Quirks = dom.Quirks
		tb.mode = BeforeHTML
		return true
	}
}

func (tb *TreeBuilder) processBeforeHTML(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return false
		}
		tok.Data = strings.TrimLeft(tok.Data, "\t\n\f\r ")
	case tokenizer.Comment:
		tb.tree.AppendChild(tb.tree.Root(), tb.tree.CreateComment(tok.Data))
		return false
	case tokenizer.StartTag:
		if tok.Name == "html" {
			tb.insertElement("html", tok.Attrs)
			tb.mode = BeforeHead
			return false
		}
	case tokenizer.EndTag:
		if tok.Name == "head" || tok.Name == "body" || tok.Name == "html" || tok.Name == "br" {
			tb.insertElement("html", nil)
			tb.mode = BeforeHead
			return true
		}
		return false
	case tokenizer.EOF:
		tb.insertElement("html", nil)
		tb.mode = BeforeHead
		return true
	}

	tb.insertElement("html", nil)
	tb.mode = BeforeHead
	return true
}

func (tb *TreeBuilder) processBeforeHead(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return false
		}
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			if len(tb.openElements) > 0 && tb.tree.TagName(tb.openElements[0]) == "html" {
				tb.addMissingAttributes(tb.openElements[0], tok.Attrs)
			}
			return false
		case "head":
			tb.headElement = tb.insertElement("head", tok.Attrs)
			tb.mode = InHead
			return false
		}
	case tokenizer.EndTag:
		return false
	}

	tb.headElement = tb.insertElement("head", nil)
	tb.mode = InHead
	return true
}

func (tb *TreeBuilder) processInHead(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
			return false
		}
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			tb.mode = InBody
			return true
		case "title", "textarea":
			tb.insertElement(tok.Name, tok.Attrs)
			tb.originalMode = tb.mode
			tb.mode = Text
			tb.tok.SetLastStartTag(tok.Name)
			tb.tok.SetState(tokenizer.RCDATAState)
			return false
		case "script", "style", "xmp", "iframe", "noembed", "noframes":
			tb.insertElement(tok.Name, tok.Attrs)
			tb.originalMode = tb.mode
			tb.mode = Text
			tb.tok.SetLastStartTag(tok.Name)
			if tok.Name == "script" {
				tb.tok.SetState(tokenizer.ScriptDataState)
			} else {
				tb.tok.SetState(tokenizer.RAWTEXTState)
			}
			return false
		case "noscript":
			tb.insertElement(tok.Name, tok.Attrs)
			tb.mode = InHeadNoscript
			return false
		case "base", "basefont", "bgsound", "link", "meta":
			tb.insertElement(tok.Name, tok.Attrs)
			tb.popCurrent()
			tb.selfClosingAcked = true
			return false
		case "template":
			tb.insertElement("template", tok.Attrs)
			tb.pushActiveFormattingMarker()
			tb.framesetOK = false
			tb.templateModes = append(tb.templateModes, InTemplate)
			tb.mode = InTemplate
			return false
		case "head":
			return false
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "head":
			tb.popUntil("head")
			tb.mode = AfterHead
			return false
		case "template":
			if !tb.elementInStack("template") {
				return false
			}
			tb.generateImpliedEndTags("")
			tb.popUntil("template")
			tb.clearActiveFormattingUpToMarker()
			if len(tb.templateModes) > 0 {
				tb.templateModes = tb.templateModes[:len(tb.templateModes)-1]
			}
			tb.resetInsertionModeAppropriately()
			return false
		case "body", "html", "br":
			tb.popUntil("head")
			tb.mode = AfterHead
			return true
		default:
			return false
		}
	case tokenizer.EOF:
		tb.popUntil("head")
		tb.mode = AfterHead
		return true
	}

	tb.popUntil("head")
	tb.mode = AfterHead
	return true
}

func (tb *TreeBuilder) processInHeadNoscript(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return tb.processInHead(tok)
		}
		tb.popUntil("noscript")
		tb.mode = InHead
		return true
	case tokenizer.Comment:
		return tb.processInHead(tok)
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			tb.mode = InBody
			return true
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			return tb.processInHead(tok)
		case "head", "noscript":
			return false
		default:
			tb.popUntil("noscript")
			tb.mode = InHead
			return true
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "noscript":
			tb.popUntil("noscript")
			tb.mode = InHead
			return false
		case "br":
			tb.popUntil("noscript")
			tb.mode = InHead
			return true
		default:
			return false
		}
	case tokenizer.EOF:
		tb.popUntil("noscript")
		tb.mode = InHead
		return true
	default:
		return false
	}
}

func (tb *TreeBuilder) processAfterHead(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
			return false
		}
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			tb.mode = InBody
			return true
		case "body":
			tb.insertElement("body", tok.Attrs)
			tb.framesetOK = false
			tb.mode = InBody
			return false
		case "frameset":
			tb.insertElement("frameset", tok.Attrs)
			tb.mode = InFrameset
			return false
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			tb.openElements = append(tb.openElements, tb.headElement)
			reprocess := tb.processInHead(tok)
			tb.removeFromOpenElements(tb.headElement)
			return reprocess
		case "head":
			return false
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "body", "html", "br":
		default:
			return false
		}
	case tokenizer.EOF:
		tb.insertElement("body", nil)
		tb.mode = InBody
		return true
	}

	tb.insertElement("body", nil)
	tb.framesetOK = false
	tb.mode = InBody
	return true
}

func (tb *TreeBuilder) processText(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		tb.insertText(tok.Data)
		return false
	case tokenizer.EndTag:
		if tok.Name == "script" {
			tb.popCurrent()
			tb.mode = tb.originalMode
			return false
		}
		tb.popCurrent()
		tb.mode = tb.originalMode
		return false
	case tokenizer.EOF:
		tb.reportError(errors.ExpectedClosingTagButGotEOF)
		if len(tb.openElements) > 0 {
			tb.popCurrent()
		}
		tb.mode = tb.originalMode
		return true
	default:
		return false
	}
}

func (tb *TreeBuilder) processInBody(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if strings.Contains(tok.Data, "\x00") {
			tok.Data = strings.ReplaceAll(tok.Data, "\x00", "")
		}
		if tok.Data == "" {
			return false
		}
		tb.reconstructActiveFormattingElements()
		if !isAllWhitespace(tok.Data) {
			tb.framesetOK = false
		}
		tb.insertText(tok.Data)
		return false
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.DOCTYPE:
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			if len(tb.openElements) > 0 && tb.tree.TagName(tb.openElements[0]) == "html" {
				tb.addMissingAttributes(tb.openElements[0], tok.Attrs)
			}
			return false
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			return tb.processInHead(tok)
		case "body":
			if len(tb.openElements) > 1 && tb.tree.TagName(tb.openElements[1]) == "body" {
				tb.addMissingAttributes(tb.openElements[1], tok.Attrs)
				tb.framesetOK = false
				return false
			}
			tb.insertElement("body", tok.Attrs)
			tb.framesetOK = false
			return false
		case "frameset":
			if !tb.framesetOK || len(tb.openElements) < 2 {
				return false
			}
			body := tb.openElements[1]
			if _, ok := tb.tree.Parent(body); ok {
				tb.tree.Remove(body)
			}
			tb.openElements = tb.openElements[:1]
			tb.insertElement("frameset", tok.Attrs)
			tb.mode = InFrameset
			return false
		case "svg":
			tb.reconstructActiveFormattingElements()
			tb.insertForeignElement("svg", dom.NamespaceSVG, prepareForeignAttributes(dom.NamespaceSVG, tok.Attrs), tok.SelfClosing)
			tb.framesetOK = false
			return false
		case "math":
			tb.reconstructActiveFormattingElements()
			tb.insertForeignElement("math", dom.NamespaceMathML, prepareForeignAttributes(dom.NamespaceMathML, tok.Attrs), tok.SelfClosing)
			tb.framesetOK = false
			return false
		case "a":
			if tb.hasActiveFormattingEntry("a") {
				tb.adoptionAgency("a")
				tb.removeLastActiveFormattingByName("a")
				tb.removeLastOpenElementByName("a")
			}
			tb.reconstructActiveFormattingElements()
			node := tb.insertElement("a", tok.Attrs)
			tb.appendActiveFormattingEntry("a", tok.Attrs, node)
			tb.framesetOK = false
			return false
		case "table":
			if tb.tree.Quirks != dom.Quirks && tb.hasPElementInButtonScope() {
				tb.popUntil("p")
			}
			tb.insertElement("table", tok.Attrs)
			tb.framesetOK = false
			tb.mode = InTable
			return false
		case "select":
			tb.reconstructActiveFormattingElements()
			tb.insertElement("select", tok.Attrs)
			tb.framesetOK = false
			switch tb.mode {
			case InTable, InCaption, InTableBody, InRow, InCell:
				tb.mode = InSelectInTable
			default:
				tb.mode = InSelect
			}
			return false
		case "textarea":
			tb.insertElement(tok.Name, tok.Attrs)
			tb.originalMode = tb.mode
			tb.framesetOK = false
			tb.mode = Text
			tb.tok.SetLastStartTag(tok.Name)
			tb.tok.SetState(tokenizer.RCDATAState)
			return false
		case "xmp":
			if tb.hasPElementInButtonScope() {
				tb.popUntil("p")
			}
			tb.reconstructActiveFormattingElements()
			tb.framesetOK = false
			tb.insertElement(tok.Name, tok.Attrs)
			tb.originalMode = tb.mode
			tb.mode = Text
			tb.tok.SetLastStartTag(tok.Name)
			tb.tok.SetState(tokenizer.RAWTEXTState)
			return false
		case "iframe", "noembed":
			tb.insertElement(tok.Name, tok.Attrs)
			tb.originalMode = tb.mode
			tb.framesetOK = false
			tb.mode = Text
			tb.tok.SetLastStartTag(tok.Name)
			tb.tok.SetState(tokenizer.RAWTEXTState)
			return false
		case "p", "ul", "ol", "dl", "div", "fieldset", "figcaption", "figure",
			"blockquote", "center", "details", "dialog", "summary", "address",
			"article", "aside", "footer", "header", "hgroup", "main", "nav",
			"section":
			if tb.hasPElementInButtonScope() {
				tb.popUntil("p")
			}
			tb.reconstructActiveFormattingElements()
			tb.insertElement(tok.Name, tok.Attrs)
			if tok.Name != "p" {
				tb.framesetOK = false
			}
			return false
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if tb.hasPElementInButtonScope() {
				tb.popUntil("p")
			}
			if isHeadingElement(tb.currentTagName()) {
				tb.popCurrent()
			}
			tb.reconstructActiveFormattingElements()
			tb.insertElement(tok.Name, tok.Attrs)
			tb.framesetOK = false
			return false
		case "li":
			tb.framesetOK = false
			for i := len(tb.openElements) - 1; i >= 0; i-- {
				node := tb.openElements[i]
				name := tb.tree.TagName(node)
				if name == "li" {
					tb.generateImpliedEndTags("li")
					tb.popUntil("li")
					break
				}
				if constants.SpecialElements[name] && name != "address" && name != "div" && name != "p" {
					break
				}
			}
			if tb.hasPElementInButtonScope() {
				tb.popUntil("p")
			}
			tb.reconstructActiveFormattingElements()
			tb.insertElement("li", tok.Attrs)
			return false
		case "dd", "dt":
			tb.framesetOK = false
			for i := len(tb.openElements) - 1; i >= 0; i-- {
				node := tb.openElements[i]
				name := tb.tree.TagName(node)
				if name == "dd" || name == "dt" {
					tb.generateImpliedEndTags(name)
					tb.popUntil(name)
					break
				}
				if constants.SpecialElements[name] && name != "address" && name != "div" && name != "p" {
					break
				}
			}
			if tb.hasPElementInButtonScope() {
				tb.popUntil("p")
			}
			tb.reconstructActiveFormattingElements()
			tb.insertElement(tok.Name, tok.Attrs)
			return false
		case "button":
			if tb.hasElementInScope("button", constants.DefaultScope) {
				tb.generateImpliedEndTags("")
				tb.popUntil("button")
			}
			tb.reconstructActiveFormattingElements()
			tb.insertElement("button", tok.Attrs)
			tb.framesetOK = false
			return false
		case "br":
			tb.reconstructActiveFormattingElements()
			tb.insertElement("br", tok.Attrs)
			tb.popCurrent()
			tb.framesetOK = false
			tb.selfClosingAcked = true
			return false
		case "input":
			tb.reconstructActiveFormattingElements()
			tb.insertElement("input", tok.Attrs)
			tb.popCurrent()
			tb.selfClosingAcked = true
			if !isHiddenInput(tok.Attrs) {
				tb.framesetOK = false
			}
			return false
		case "hr":
			if tb.hasPElementInButtonScope() {
				tb.popUntil("p")
			}
			tb.insertElement("hr", tok.Attrs)
			tb.popCurrent()
			tb.framesetOK = false
			tb.selfClosingAcked = true
			return false
		case "area", "embed", "img", "keygen", "wbr", "param", "source", "track":
			tb.reconstructActiveFormattingElements()
			tb.insertElement(tok.Name, tok.Attrs)
			tb.popCurrent()
			tb.selfClosingAcked = true
			return false
		}

		if constants.FormattingElements[tok.Name] {
			if tok.Name == "nobr" && tb.hasElementInScope("nobr", constants.DefaultScope) {
				tb.adoptionAgency("nobr")
				tb.removeLastActiveFormattingByName("nobr")
				tb.removeLastOpenElementByName("nobr")
			}
			tb.reconstructActiveFormattingElements()
			if dup, ok := tb.findActiveFormattingDuplicate(tok.Name, tok.Attrs); ok {
				tb.removeFormattingEntry(dup)
			}
			node := tb.insertElement(tok.Name, tok.Attrs)
			tb.appendActiveFormattingEntry(tok.Name, tok.Attrs, node)
			tb.framesetOK = false
			return false
		}

		tb.reconstructActiveFormattingElements()
		tb.insertElement(tok.Name, tok.Attrs)
		if tok.SelfClosing || constants.VoidElements[tok.Name] {
			tb.popCurrent()
			tb.selfClosingAcked = true
		}
		tb.framesetOK = false
		return false
	case tokenizer.EndTag:
		switch tok.Name {
		case "body":
			if tb.hasElementInScope("body", constants.DefaultScope) {
				tb.popUntil("body")
				tb.mode = AfterBody
			} else {
				tb.reportError(errors.UnexpectedEndTagIgnored)
			}
			return false
		case "html":
			if tb.hasElementInScope("body", constants.DefaultScope) {
				tb.mode = AfterBody
				return true
			}
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		case "p":
			if !tb.hasPElementInButtonScope() {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				tb.insertElement("p", nil)
			}
			tb.popUntil("p")
			return false
		case "li":
			if !tb.hasElementInListItemScope("li") {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.generateImpliedEndTags("li")
			tb.popUntil("li")
			return false
		case "dd", "dt":
			if !tb.hasElementInScope(tok.Name, constants.DefaultScope) {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.generateImpliedEndTags(tok.Name)
			tb.popUntil(tok.Name)
			return false
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if !tb.hasAnyElementInScope(map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}, constants.DefaultScope) {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.generateImpliedEndTags("")
			for len(tb.openElements) > 0 {
				popped := tb.popCurrent()
				if isHeadingElement(tb.tree.TagName(popped)) {
					break
				}
			}
			return false
		case "a", "b", "big", "code", "em", "font", "i", "nobr", "s", "small",
			"strike", "strong", "tt", "u":
			tb.adoptionAgency(tok.Name)
			return false
		case "button", "marquee", "object":
			if !tb.hasElementInScope(tok.Name, constants.DefaultScope) {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.generateImpliedEndTags("")
			tb.popUntil(tok.Name)
			tb.clearActiveFormattingUpToMarker()
			return false
		case "applet":
			if !tb.hasElementInScope("applet", constants.DefaultScope) {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.generateImpliedEndTags("")
			tb.popUntil("applet")
			tb.clearActiveFormattingUpToMarker()
			return false
		case "br":
			tb.reconstructActiveFormattingElements()
			tb.insertElement("br", nil)
			tb.popCurrent()
			tb.framesetOK = false
			return false
		default:
			if constants.SpecialElements[tok.Name] && !constants.FormattingElements[tok.Name] {
				if !tb.hasElementInScope(tok.Name, constants.DefaultScope) {
					tb.reportError(errors.UnexpectedEndTagIgnored)
					return false
				}
				tb.generateImpliedEndTags(tok.Name)
				tb.popUntil(tok.Name)
				return false
			}
			tb.anyOtherEndTag(tok.Name)
			return false
		}
	case tokenizer.EOF:
		if len(tb.templateModes) > 0 {
			return tb.processInTemplate(tok)
		}
		return false
	default:
		return false
	}
}

func (tb *TreeBuilder) processInTable(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if tb.elementInStack("table") || tb.elementInStack("tbody") || tb.elementInStack("tfoot") ||
			tb.elementInStack("thead") || tb.elementInStack("tr") {
			mode := tb.mode
			tb.tableTextOriginalMode = &mode
			tb.pendingTableText = nil
			tb.mode = InTableText
			return true
		}
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.DOCTYPE:
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "caption":
			tb.clearStackUntil(constants.TableScope)
			tb.pushActiveFormattingMarker()
			tb.insertElement("caption", tok.Attrs)
			tb.mode = InCaption
			return false
		case "colgroup":
			tb.clearStackUntil(constants.TableScope)
			tb.insertElement("colgroup", tok.Attrs)
			tb.mode = InColumnGroup
			return false
		case "col":
			tb.clearStackUntil(constants.TableScope)
			tb.insertElement("colgroup", nil)
			tb.mode = InColumnGroup
			return true
		case "tbody", "thead", "tfoot":
			tb.clearStackUntil(constants.TableScope)
			tb.insertElement(tok.Name, tok.Attrs)
			tb.mode = InTableBody
			return false
		case "tr", "td", "th":
			tb.clearStackUntil(constants.TableScope)
			tb.insertElement("tbody", nil)
			tb.mode = InTableBody
			return true
		case "table":
			if !tb.hasElementInTableScope("table") {
				tb.reportError(errors.UnexpectedStartTagIgnored)
				return false
			}
			tb.popUntil("table")
			tb.resetInsertionModeAppropriately()
			return true
		case "style", "script", "template":
			return tb.processInHead(tok)
		case "input":
			if isHiddenInput(tok.Attrs) {
				tb.insertElement("input", tok.Attrs)
				tb.popCurrent()
				tb.selfClosingAcked = true
				return false
			}
		case "form":
			if tb.elementInStack("template") {
				break
			}
			tb.insertElement("form", tok.Attrs)
			tb.popCurrent()
			return false
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "table":
			if !tb.hasElementInTableScope("table") {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.popUntil("table")
			tb.resetInsertionModeAppropriately()
			return false
		case "body", "caption", "col", "colgroup", "html", "tbody", "tfoot", "thead", "tr", "td", "th":
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		case "template":
			return tb.processInHead(tok)
		}
	case tokenizer.EOF:
		return tb.processInBody(tok)
	}

	return tb.withFosterParenting(func() bool { return tb.processInBody(tok) })
}

func (tb *TreeBuilder) processInTableText(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if strings.Contains(tok.Data, "\x00") {
			return false
		}
		tb.pendingTableText = append(tb.pendingTableText, tok.Data)
		return false
	default:
		allWhitespace := true
		for _, s := range tb.pendingTableText {
			if !isAllWhitespace(s) {
				allWhitespace = false
				break
			}
		}
		if allWhitespace {
			for _, s := range tb.pendingTableText {
				tb.insertText(s)
			}
		} else {
			tb.reportError(errors.NonSpaceCharacterInTableText)
			for _, s := range tb.pendingTableText {
				tb.reportError(errors.FosterParentedCharacter)
				tb.withFosterParenting(func() bool {
					tb.insertText(s)
					return false
				})
			}
		}
		tb.pendingTableText = nil
		if tb.tableTextOriginalMode != nil {
			tb.mode = *tb.tableTextOriginalMode
			tb.tableTextOriginalMode = nil
		} else {
			tb.mode = InTable
		}
		return true
	}
}

func (tb *TreeBuilder) processInCaption(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.EndTag:
		if tok.Name == "caption" {
			if tb.closeCaptionElement() {
				return false
			}
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		}
		if tok.Name == "table" {
			if tb.closeCaptionElement() {
				return true
			}
			return false
		}
		if tok.Name == "body" || tok.Name == "col" || tok.Name == "colgroup" || tok.Name == "html" ||
			tok.Name == "tbody" || tok.Name == "td" || tok.Name == "tfoot" || tok.Name == "th" ||
			tok.Name == "thead" || tok.Name == "tr" {
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		}
	case tokenizer.StartTag:
		switch tok.Name {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if tb.closeCaptionElement() {
				return true
			}
			return false
		}
	}
	return tb.processInBody(tok)
}

func (tb *TreeBuilder) processInColumnGroup(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
			return false
		}
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.DOCTYPE:
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			return tb.processInBody(tok)
		case "col":
			tb.insertElement("col", tok.Attrs)
			tb.popCurrent()
			tb.selfClosingAcked = true
			return false
		case "template":
			return tb.processInHead(tok)
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "colgroup":
			if tb.currentTagName() != "colgroup" {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.popCurrent()
			tb.mode = InTable
			return false
		case "col":
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		case "template":
			return tb.processInHead(tok)
		}
	case tokenizer.EOF:
		return tb.processInBody(tok)
	}

	if tb.currentTagName() != "colgroup" {
		return false
	}
	tb.popCurrent()
	tb.mode = InTable
	return true
}

func (tb *TreeBuilder) processInTableBody(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.StartTag:
		switch tok.Name {
		case "tr":
			tb.clearStackUntil(constants.TableBodyScope)
			tb.insertElement("tr", tok.Attrs)
			tb.mode = InRow
			return false
		case "th", "td":
			tb.reportError(errors.UnexpectedStartTagIgnored)
			tb.clearStackUntil(constants.TableBodyScope)
			tb.insertElement("tr", nil)
			tb.mode = InRow
			return true
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !tb.hasElementInTableScope("tbody") && !tb.hasElementInTableScope("thead") && !tb.hasElementInTableScope("tfoot") {
				tb.reportError(errors.UnexpectedStartTagIgnored)
				return false
			}
			tb.clearStackUntil(constants.TableBodyScope)
			tb.popCurrent()
			tb.mode = InTable
			return true
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "tbody", "thead", "tfoot":
			if !tb.hasElementInTableScope(tok.Name) {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.clearStackUntil(constants.TableBodyScope)
			tb.popCurrent()
			tb.mode = InTable
			return false
		case "table":
			if !tb.hasElementInTableScope("tbody") && !tb.hasElementInTableScope("thead") && !tb.hasElementInTableScope("tfoot") {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.clearStackUntil(constants.TableBodyScope)
			tb.popCurrent()
			tb.mode = InTable
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		}
	}
	return tb.processInTable(tok)
}

func (tb *TreeBuilder) processInRow(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.StartTag:
		if tok.Name == "td" || tok.Name == "th" {
			tb.clearStackUntil(constants.TableRowScope)
			tb.insertElement(tok.Name, tok.Attrs)
			tb.mode = InCell
			tb.pushActiveFormattingMarker()
			return false
		}
		switch tok.Name {
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !tb.hasElementInTableScope("tr") {
				tb.reportError(errors.UnexpectedStartTagIgnored)
				return false
			}
			tb.clearStackUntil(constants.TableRowScope)
			tb.popCurrent()
			tb.mode = InTableBody
			return true
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "tr":
			if !tb.hasElementInTableScope("tr") {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.clearStackUntil(constants.TableRowScope)
			tb.popCurrent()
			tb.mode = InTableBody
			return false
		case "table":
			if !tb.hasElementInTableScope("tr") {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.clearStackUntil(constants.TableRowScope)
			tb.popCurrent()
			tb.mode = InTableBody
			return true
		case "tbody", "tfoot", "thead":
			if !tb.hasElementInTableScope(tok.Name) || !tb.hasElementInTableScope("tr") {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.clearStackUntil(constants.TableRowScope)
			tb.popCurrent()
			tb.mode = InTableBody
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		}
	}
	return tb.processInTable(tok)
}

func (tb *TreeBuilder) processInCell(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.EndTag:
		if tok.Name == "td" || tok.Name == "th" {
			if !tb.hasElementInTableScope(tok.Name) {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.generateImpliedEndTags("")
			tb.popUntil(tok.Name)
			tb.clearActiveFormattingUpToMarker()
			tb.mode = InRow
			return false
		}
		switch tok.Name {
		case "body", "caption", "col", "colgroup", "html":
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		case "table", "tbody", "tfoot", "thead", "tr":
			if !tb.hasElementInTableScope(tok.Name) {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.closeTableCell()
			return true
		}
	case tokenizer.StartTag:
		switch tok.Name {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !tb.hasElementInTableScope("td") && !tb.hasElementInTableScope("th") {
				tb.reportError(errors.UnexpectedStartTagIgnored)
				return false
			}
			tb.closeTableCell()
			return true
		}
	}
	return tb.processInBody(tok)
}

func (tb *TreeBuilder) processInSelect(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if strings.Contains(tok.Data, "\x00") {
			return false
		}
		tb.insertText(tok.Data)
		return false
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.DOCTYPE:
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			return tb.processInBody(tok)
		case "option":
			if tb.currentTagName() == "option" {
				tb.popCurrent()
			}
			tb.insertElement("option", tok.Attrs)
			return false
		case "optgroup":
			if tb.currentTagName() == "option" {
				tb.popCurrent()
			}
			if tb.currentTagName() == "optgroup" {
				tb.popCurrent()
			}
			tb.insertElement("optgroup", tok.Attrs)
			return false
		case "hr":
			if tb.currentTagName() == "option" {
				tb.popCurrent()
			}
			if tb.currentTagName() == "optgroup" {
				tb.popCurrent()
			}
			tb.insertElement("hr", tok.Attrs)
			tb.popCurrent()
			tb.selfClosingAcked = true
			return false
		case "select":
			tb.reportError(errors.UnexpectedStartTagIgnored)
			if !tb.hasElementInTableScope("select") {
				return false
			}
			tb.popUntil("select")
			tb.resetInsertionModeAppropriately()
			return false
		case "input", "keygen", "textarea":
			if !tb.hasElementInTableScope("select") {
				return false
			}
			tb.popUntil("select")
			tb.resetInsertionModeAppropriately()
			return true
		case "script", "template":
			return tb.processInHead(tok)
		}
	case tokenizer.EndTag:
		switch tok.Name {
		case "optgroup":
			if tb.currentTagName() == "option" {
				if len(tb.openElements) > 1 && tb.tree.TagName(tb.openElements[len(tb.openElements)-2]) == "optgroup" {
					tb.popCurrent()
				}
			}
			if tb.currentTagName() == "optgroup" {
				tb.popCurrent()
				return false
			}
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		case "option":
			if tb.currentTagName() == "option" {
				tb.popCurrent()
				return false
			}
			tb.reportError(errors.UnexpectedEndTagIgnored)
			return false
		case "select":
			if !tb.hasElementInTableScope("select") {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.popUntil("select")
			tb.resetInsertionModeAppropriately()
			return false
		case "template":
			return tb.processInHead(tok)
		}
	case tokenizer.EOF:
		return false
	}
	return false
}

func (tb *TreeBuilder) processInSelectInTable(tok tokenizer.Token) bool {
	if tok.Type == tokenizer.StartTag {
		switch tok.Name {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			tb.reportError(errors.UnexpectedStartTagIgnored)
			tb.popUntil("select")
			tb.resetInsertionModeAppropriately()
			return true
		}
	}
	if tok.Type == tokenizer.EndTag {
		switch tok.Name {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			if !tb.hasElementInTableScope(tok.Name) {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.popUntil("select")
			tb.resetInsertionModeAppropriately()
			return true
		}
	}
	return tb.processInSelect(tok)
}

func (tb *TreeBuilder) processInTemplate(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character, tokenizer.Comment, tokenizer.DOCTYPE:
		return tb.processInBody(tok)
	case tokenizer.StartTag:
		switch tok.Name {
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			return tb.processInHead(tok)
		case "caption", "colgroup", "tbody", "tfoot", "thead":
			tb.templateModes[len(tb.templateModes)-1] = InTable
			tb.mode = InTable
			return true
		case "col":
			tb.templateModes[len(tb.templateModes)-1] = InColumnGroup
			tb.mode = InColumnGroup
			return true
		case "tr":
			tb.templateModes[len(tb.templateModes)-1] = InTableBody
			tb.mode = InTableBody
			return true
		case "td", "th":
			tb.templateModes[len(tb.templateModes)-1] = InRow
			tb.mode = InRow
			return true
		default:
			tb.templateModes[len(tb.templateModes)-1] = InBody
			tb.mode = InBody
			return true
		}
	case tokenizer.EndTag:
		if tok.Name == "template" {
			return tb.processInHead(tok)
		}
		return false
	case tokenizer.EOF:
		if !tb.elementInStack("template") {
			return false
		}
		tb.reportError(errors.ExpectedClosingTagButGotEOF)
		tb.popUntil("template")
		tb.clearActiveFormattingUpToMarker()
		if len(tb.templateModes) > 0 {
			tb.templateModes = tb.templateModes[:len(tb.templateModes)-1]
		}
		tb.resetInsertionModeAppropriately()
		return true
	}
	return false
}

func (tb *TreeBuilder) processAfterBody(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return tb.processInBody(tok)
		}
	case tokenizer.Comment:
		if len(tb.openElements) > 0 {
			tb.tree.AppendChild(tb.openElements[0], tb.tree.CreateComment(tok.Data))
		} else {
			tb.tree.AppendChild(tb.tree.Root(), tb.tree.CreateComment(tok.Data))
		}
		return false
	case tokenizer.DOCTYPE:
		return false
	case tokenizer.StartTag:
		if tok.Name == "html" {
			return tb.processInBody(tok)
		}
	case tokenizer.EndTag:
		if tok.Name == "html" {
			tb.mode = AfterAfterBody
			return false
		}
	case tokenizer.EOF:
		return false
	}
	tb.reportError(errors.UnexpectedStartTagIgnored)
	tb.mode = InBody
	return true
}

func (tb *TreeBuilder) processInFrameset(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
		}
		return false
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.DOCTYPE:
		return false
	case tokenizer.StartTag:
		switch tok.Name {
		case "html":
			return tb.processInBody(tok)
		case "frameset":
			tb.insertElement("frameset", tok.Attrs)
			return false
		case "frame":
			tb.insertElement("frame", tok.Attrs)
			tb.popCurrent()
			tb.selfClosingAcked = true
			return false
		case "noframes":
			return tb.processInHead(tok)
		}
	case tokenizer.EndTag:
		if tok.Name == "frameset" {
			if len(tb.openElements) == 1 {
				tb.reportError(errors.UnexpectedEndTagIgnored)
				return false
			}
			tb.popCurrent()
			if tb.currentTagName() != "frameset" {
				tb.mode = AfterFrameset
			}
			return false
		}
	case tokenizer.EOF:
		return false
	}
	return false
}

func (tb *TreeBuilder) processAfterFrameset(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			tb.insertText(tok.Data)
		}
		return false
	case tokenizer.Comment:
		tb.insertComment(tok.Data)
		return false
	case tokenizer.DOCTYPE:
		return false
	case tokenizer.StartTag:
		if tok.Name == "html" {
			return tb.processInBody(tok)
		}
		if tok.Name == "noframes" {
			return tb.processInHead(tok)
		}
	case tokenizer.EndTag:
		if tok.Name == "html" {
			tb.mode = AfterAfterFrameset
			return false
		}
	case tokenizer.EOF:
		return false
	}
	return false
}

func (tb *TreeBuilder) processAfterAfterBody(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Comment:
		tb.tree.AppendChild(tb.tree.Root(), tb.tree.CreateComment(tok.Data))
		return false
	case tokenizer.DOCTYPE:
		return tb.processInBody(tok)
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return tb.processInBody(tok)
		}
	case tokenizer.StartTag:
		if tok.Name == "html" {
			return tb.processInBody(tok)
		}
	case tokenizer.EOF:
		return false
	}
	tb.mode = InBody
	return true
}

func (tb *TreeBuilder) processAfterAfterFrameset(tok tokenizer.Token) bool {
	switch tok.Type {
	case tokenizer.Comment:
		tb.tree.AppendChild(tb.tree.Root(), tb.tree.CreateComment(tok.Data))
		return false
	case tokenizer.DOCTYPE:
		return tb.processInBody(tok)
	case tokenizer.Character:
		if isAllWhitespace(tok.Data) {
			return tb.processInBody(tok)
		}
	case tokenizer.StartTag:
		if tok.Name == "html" {
			return tb.processInBody(tok)
		}
		if tok.Name == "noframes" {
			return tb.processInHead(tok)
		}
	case tokenizer.EOF:
		return false
	}
	return false
}
