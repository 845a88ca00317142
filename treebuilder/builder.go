// Package treebuilder implements the HTML5 tree construction algorithm:
// https://html.spec.whatwg.org/multipage/parsing.html#tree-construction
//
// TreeBuilder consumes the token stream produced by a *tokenizer.Tokenizer
// and builds a *dom.Tree, following the 23 insertion modes, the adoption
// agency algorithm, and foster parenting exactly as WHATWG HTML describes
// them. Nodes are addressed throughout as dom.Handle rather than pointers,
// since the adoption agency algorithm's reparenting step would otherwise
// fight Go's ownership model.
package treebuilder

import (
	"github.com/arbortree/arbor/dom"
	"github.com/arbortree/arbor/errors"
	"github.com/arbortree/arbor/internal/constants"
	"github.com/arbortree/arbor/tokenizer"
)

// TreeBuilder drives the tree construction stage of parsing.
type TreeBuilder struct {
	tree *dom.Tree

	openElements []dom.Handle

	mode         InsertionMode
	originalMode InsertionMode

	headElement dom.Handle

	activeFormatting []formattingEntry

	// Template insertion modes stack.
	templateModes []InsertionMode
	// templateContent maps a <template> element's handle to its content
	// fragment's handle. dom.Tree has no notion of template content
	// natively (it isn't one of the five node kinds in the data model),
	// so it is tracked here instead.
	templateContent map[dom.Handle]dom.Handle

	// Table parsing support.
	pendingTableText      []string
	tableTextOriginalMode *InsertionMode
	framesetOK            bool
	fosterParenting       bool

	fragmentContext *FragmentContext
	fragmentRoot    dom.Handle
	fragmentElement dom.Handle

	tok     *tokenizer.Tokenizer
	handler errors.Handler

	// forceHTMLMode is set by processForeignContent when it encounters a
	// token that should be reprocessed using normal HTML insertion mode
	// rules rather than foreign content rules.
	forceHTMLMode bool

	iframeSrcdoc bool

	// selfClosingAcked tracks P7: whether the current start tag's
	// self-closing flag (if any) was consumed by whatever inserted the
	// element. Reset at the top of ProcessToken for each StartTag token.
	selfClosingAcked bool

	fatal *errors.ParseError
}

// New creates a tree builder for full-document parsing, driven by tok.
func New(tok *tokenizer.Tokenizer, handler errors.Handler) *TreeBuilder {
	if handler == nil {
		handler = errors.DefaultHandler{}
	}
	return &TreeBuilder{
		tree:            dom.NewTree(),
		mode:            Initial,
		originalMode:    Initial,
		framesetOK:      true,
		headElement:     dom.NoHandle,
		fragmentRoot:    dom.NoHandle,
		fragmentElement: dom.NoHandle,
		templateContent: make(map[dom.Handle]dom.Handle),
		tok:             tok,
		handler:         handler,
	}
}

// NewFragment creates a tree builder for fragment ("innerHTML") parsing
// relative to ctx, per WHATWG HTML §13.4.
func NewFragment(tok *tokenizer.Tokenizer, handler errors.Handler, ctx *FragmentContext) *TreeBuilder {
	tb := New(tok, handler)
	tb.framesetOK = false
	tb.fragmentContext = ctx

	html := tb.tree.CreateElement("html")
	tb.tree.AppendChild(tb.tree.Root(), html)
	tb.openElements = append(tb.openElements, html)
	tb.fragmentRoot = html

	if ctx == nil || ctx.TagName == "" {
		tb.mode = BeforeHead
		return tb
	}

	namespace := dom.NamespaceHTML
	switch ctx.Namespace {
	case "svg":
		namespace = dom.NamespaceSVG
	case "mathml":
		namespace = dom.NamespaceMathML
	}
	contextEl := tb.tree.CreateElementNS(ctx.TagName, namespace)
	tb.tree.AppendChild(html, contextEl)
	tb.openElements = append(tb.openElements, contextEl)
	tb.fragmentElement = contextEl

	if ctx.Namespace != "" {
		tb.mode = InBody
	} else {
		switch ctx.TagName {
		case "html":
			tb.mode = BeforeHead
		case "tbody", "thead", "tfoot":
			tb.mode = InTableBody
		case "tr":
			tb.mode = InRow
		case "td", "th":
			tb.mode = InCell
		case "caption":
			tb.mode = InCaption
		case "colgroup":
			tb.mode = InColumnGroup
		case "table":
			tb.mode = InTable
		case "select":
			tb.mode = InSelect
		default:
			tb.mode = InBody
		}
	}
	tb.originalMode = tb.mode

	if ctx.Namespace == "" {
		switch ctx.TagName {
		case "title", "textarea":
			tb.tok.SetLastStartTag(ctx.TagName)
			tb.tok.SetState(tokenizer.RCDATAState)
		case "style", "xmp", "iframe", "noembed", "noframes":
			tb.tok.SetLastStartTag(ctx.TagName)
			tb.tok.SetState(tokenizer.RAWTEXTState)
		case "script":
			tb.tok.SetLastStartTag(ctx.TagName)
			tb.tok.SetState(tokenizer.ScriptDataState)
		case "plaintext":
			tb.tok.SetLastStartTag(ctx.TagName)
			tb.tok.SetState(tokenizer.PLAINTEXTState)
		}
	}
	return tb
}

// SetIframeSrcdoc toggles iframe srcdoc parsing behavior, which skips the
// public/system-identifier quirks-mode lookup.
func (tb *TreeBuilder) SetIframeSrcdoc(enabled bool) {
	tb.iframeSrcdoc = enabled
}

// Tree returns the tree under construction.
func (tb *TreeBuilder) Tree() *dom.Tree {
	return tb.tree
}

// Fatal returns the error that aborted construction, or nil if parsing
// completed (or is still in progress) without a fatal error.
func (tb *TreeBuilder) Fatal() *errors.ParseError {
	return tb.fatal
}

// FragmentNodes returns the fragment context element's children, which
// become the roots of a fragment parse's result forest.
func (tb *TreeBuilder) FragmentNodes() []dom.Handle {
	root := tb.fragmentElement
	if root == dom.NoHandle {
		root = tb.fragmentRoot
	}
	if root == dom.NoHandle {
		return nil
	}
	return tb.tree.Children(root)
}

func (tb *TreeBuilder) reportError(code string) {
	if tb.fatal != nil {
		return
	}
	pos := tb.tok.Position()
	if tb.handler.TreeBuilderError(code, pos) == errors.Fatal {
		tb.fatal = &errors.ParseError{Code: code, Pos: pos}
	}
}

// ProcessToken consumes a tokenizer token and updates the tree.
func (tb *TreeBuilder) ProcessToken(tok tokenizer.Token) {
	if tb.fatal != nil {
		return
	}
	if tok.Type == tokenizer.Error {
		// The tokenizer's handler made this error fatal; stop building.
		tb.fatal = &errors.ParseError{Code: tok.ErrorCode, Pos: tb.tok.Position()}
		return
	}
	if tok.Type == tokenizer.StartTag {
		tb.selfClosingAcked = false
	}
	for {
		if !tb.forceHTMLMode && tb.shouldUseForeignContent(tok) {
			if !tb.processForeignContent(tok) {
				break
			}
			continue
		}
		tb.forceHTMLMode = false

		var reprocess bool
		switch tb.mode {
		case Initial:
			reprocess = tb.processInitial(tok)
		case BeforeHTML:
			reprocess = tb.processBeforeHTML(tok)
		case BeforeHead:
			reprocess = tb.processBeforeHead(tok)
		case InHead:
			reprocess = tb.processInHead(tok)
		case InHeadNoscript:
			reprocess = tb.processInHeadNoscript(tok)
		case AfterHead:
			reprocess = tb.processAfterHead(tok)
		case Text:
			reprocess = tb.processText(tok)
		case InBody:
			reprocess = tb.processInBody(tok)
		case InTable:
			reprocess = tb.processInTable(tok)
		case InTableText:
			reprocess = tb.processInTableText(tok)
		case InCaption:
			reprocess = tb.processInCaption(tok)
		case InColumnGroup:
			reprocess = tb.processInColumnGroup(tok)
		case InTableBody:
			reprocess = tb.processInTableBody(tok)
		case InRow:
			reprocess = tb.processInRow(tok)
		case InCell:
			reprocess = tb.processInCell(tok)
		case InSelect:
			reprocess = tb.processInSelect(tok)
		case InSelectInTable:
			reprocess = tb.processInSelectInTable(tok)
		case InTemplate:
			reprocess = tb.processInTemplate(tok)
		case AfterBody:
			reprocess = tb.processAfterBody(tok)
		case InFrameset:
			reprocess = tb.processInFrameset(tok)
		case AfterFrameset:
			reprocess = tb.processAfterFrameset(tok)
		case AfterAfterBody:
			reprocess = tb.processAfterAfterBody(tok)
		case AfterAfterFrameset:
			reprocess = tb.processAfterAfterFrameset(tok)
		default:
			reprocess = tb.processInBody(tok)
		}
		if tb.fatal != nil || !reprocess {
			break
		}
	}

	if tok.Type == tokenizer.StartTag && tok.SelfClosing && !tb.selfClosingAcked {
		tb.reportError(errors.NonVoidHtmlElementStartTagWithTrailingSolidus)
	}
}

func (tb *TreeBuilder) currentNode() dom.Handle {
	if len(tb.openElements) == 0 {
		return tb.tree.Root()
	}
	return tb.openElements[len(tb.openElements)-1]
}

func (tb *TreeBuilder) currentElement() dom.Handle {
	if len(tb.openElements) == 0 {
		return dom.NoHandle
	}
	return tb.openElements[len(tb.openElements)-1]
}

func (tb *TreeBuilder) currentTagName() string {
	el := tb.currentElement()
	if el == dom.NoHandle {
		return ""
	}
	return tb.tree.TagName(el)
}

func (tb *TreeBuilder) insertComment(data string) {
	tb.insertNode(tb.tree.CreateComment(data), nil)
}

func (tb *TreeBuilder) insertText(data string) {
	if data == "" {
		return
	}
	parent, before := tb.appropriateInsertionLocation()
	tb.insertNode(tb.tree.CreateText(data), &insertionLocation{parent: parent, before: before})
}

func (tb *TreeBuilder) insertElement(name string, attrs []tokenizer.Attr) dom.Handle {
	el := tb.tree.CreateElement(name)
	if name == "template" {
		tb.templateContent[el] = tb.tree.CreateDocumentFragment()
	}
	for _, a := range attrs {
		tb.tree.SetAttrNS(el, a.Namespace, a.Name, a.Value)
	}
	tb.insertNode(el, nil)
	tb.openElements = append(tb.openElements, el)
	return el
}

func (tb *TreeBuilder) addMissingAttributes(el dom.Handle, attrs []tokenizer.Attr) {
	if el == dom.NoHandle || len(tb.templateModes) > 0 {
		return
	}
	for _, a := range attrs {
		if !tb.tree.HasAttr(el, a.Name) {
			tb.tree.SetAttrNS(el, a.Namespace, a.Name, a.Value)
		}
	}
}

func (tb *TreeBuilder) popCurrent() dom.Handle {
	if len(tb.openElements) == 0 {
		return dom.NoHandle
	}
	el := tb.openElements[len(tb.openElements)-1]
	tb.openElements = tb.openElements[:len(tb.openElements)-1]
	return el
}

func (tb *TreeBuilder) popUntil(name string) {
	for len(tb.openElements) > 0 {
		el := tb.openElements[len(tb.openElements)-1]
		tb.openElements = tb.openElements[:len(tb.openElements)-1]
		if tb.tree.TagName(el) == name {
			return
		}
	}
}

func (tb *TreeBuilder) popUntilCaseInsensitive(name string) {
	tb.popUntil(name)
}

func (tb *TreeBuilder) elementInStack(name string) bool {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		if tb.tree.TagName(tb.openElements[i]) == name {
			return true
		}
	}
	return false
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case '\t', '\n', '\f', '\r', ' ':
			continue
		default:
			return false
		}
	}
	return true
}

func ptrToString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type insertionLocation struct {
	parent dom.Handle
	before dom.Handle
}

func (tb *TreeBuilder) withFosterParenting(fn func() bool) bool {
	prev := tb.fosterParenting
	tb.fosterParenting = true
	defer func() { tb.fosterParenting = prev }()
	return fn()
}

func (tb *TreeBuilder) appropriateInsertionLocation() (dom.Handle, dom.Handle) {
	if current := tb.currentElement(); current != dom.NoHandle && tb.tree.Namespace(current) == dom.NamespaceHTML && tb.tree.TagName(current) == "template" {
		return tb.templateContentOf(current), dom.NoHandle
	}
	if !tb.fosterParenting || !shouldFosterForNode(tb, tb.currentElement()) {
		return tb.currentNode(), dom.NoHandle
	}
	return tb.fosterInsertionLocation()
}

func (tb *TreeBuilder) templateContentOf(template dom.Handle) dom.Handle {
	if h, ok := tb.templateContent[template]; ok {
		return h
	}
	h := tb.tree.CreateDocumentFragment()
	tb.templateContent[template] = h
	return h
}

func shouldFosterForNode(tb *TreeBuilder, el dom.Handle) bool {
	if el == dom.NoHandle || tb.tree.Namespace(el) != dom.NamespaceHTML {
		return false
	}
	return constants.TableFosterTargets[tb.tree.TagName(el)]
}

func (tb *TreeBuilder) fosterInsertionLocation() (dom.Handle, dom.Handle) {
	tableEl, tableIndex := tb.lastTableElement()
	templateEl, templateIndex := tb.lastTemplateElement()
	if templateEl != dom.NoHandle && (tableEl == dom.NoHandle || templateIndex > tableIndex) {
		return tb.templateContentOf(templateEl), dom.NoHandle
	}
	if tableEl == dom.NoHandle {
		return tb.currentNode(), dom.NoHandle
	}
	if p, ok := tb.tree.Parent(tableEl); ok {
		return p, tableEl
	}
	if tableIndex > 0 {
		return tb.openElements[tableIndex-1], dom.NoHandle
	}
	return tb.tree.Root(), dom.NoHandle
}

func (tb *TreeBuilder) lastTableElement() (dom.Handle, int) {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		el := tb.openElements[i]
		if tb.tree.Namespace(el) == dom.NamespaceHTML && tb.tree.TagName(el) == "table" {
			return el, i
		}
	}
	return dom.NoHandle, -1
}

func (tb *TreeBuilder) lastTemplateElement() (dom.Handle, int) {
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		el := tb.openElements[i]
		if tb.tree.Namespace(el) == dom.NamespaceHTML && tb.tree.TagName(el) == "template" {
			return el, i
		}
	}
	return dom.NoHandle, -1
}

func (tb *TreeBuilder) insertNode(node dom.Handle, loc *insertionLocation) {
	var parent, before dom.Handle
	if loc != nil && loc.parent != dom.NoHandle {
		parent, before = loc.parent, loc.before
	} else {
		parent, before = tb.appropriateInsertionLocation()
	}
	if before == dom.NoHandle {
		tb.tree.AppendChild(parent, node)
		return
	}
	tb.tree.InsertBefore(parent, node, before)
}
