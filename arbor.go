// Package arbor implements a WHATWG HTML5 parser — tokenizer and tree
// construction — paired with an XPath 3.1 query engine subset for
// querying the resulting document.
//
// # Basic usage
//
//	tree, err := arbor.Parse("<html><body><p>Hello!</p></body></html>")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// XPath grammar parsing is an external collaborator this repo doesn't
//	// implement; expressions are built directly as xpath.Expr values.
//	expr := &xpath.PathExpr{AbsoluteDescendant: true, Steps: []xpath.Step{
//		{Axis: xpath.Child, Test: xpath.NodeTest{Kind: xpath.NameTest, Name: "p"}},
//	}}
//	items, err := arbor.Evaluate(expr, tree, tree.Root())
//
// Parsing never fails on malformed markup by default — the WHATWG
// algorithm specifies recovery behavior for every parse error, and the
// default Handler follows it. Use WithStrictMode or WithCollectErrors to
// change that.
package arbor

import (
	"github.com/arbortree/arbor/dom"
	"github.com/arbortree/arbor/encoding"
	arborerrors "github.com/arbortree/arbor/errors"
	"github.com/arbortree/arbor/tokenizer"
	"github.com/arbortree/arbor/treebuilder"
	"github.com/arbortree/arbor/xpath"
)

// Evaluate runs expr against tree starting from context, returning an
// ordered, duplicate-free item set. It is a thin pass-through to
// xpath.Evaluate; it exists on the root package so callers that only
// need Parse+Evaluate don't also need to import xpath directly for the
// common case of querying a just-parsed document.
func Evaluate(expr *xpath.PathExpr, tree *dom.Tree, context dom.Handle) (xpath.ItemSet, error) {
	return xpath.Evaluate(expr, tree, context)
}

// Parse parses an HTML string into a document tree.
func Parse(html string, opts ...Option) (*dom.Tree, error) {
	cfg := newConfig(opts...)
	return parse(html, cfg)
}

// ParseBytes parses HTML from a byte slice, sniffing its character
// encoding per WHATWG HTML §13.2.3.2 (BOM, then an explicit WithEncoding
// override, then <meta charset>, falling back to windows-1252).
func ParseBytes(html []byte, opts ...Option) (*dom.Tree, error) {
	cfg := newConfig(opts...)
	decoded, _, err := encoding.Decode(html, cfg.encoding)
	if err != nil {
		return nil, err
	}
	return parse(decoded, cfg)
}

// ParseFragment parses an HTML fragment as it would be interpreted as the
// innerHTML of an element named by context (WHATWG HTML §13.4), returning
// the resulting forest of root handles against the fragment's own *dom.Tree.
//
// context is assumed to be in the HTML namespace; pass WithFragmentNS
// instead of WithFragment-shaped opts to parse as an SVG or MathML
// fragment context.
func ParseFragment(html, context string, opts ...Option) (*dom.Tree, []dom.Handle, error) {
	cfg := newConfig(opts...)
	if cfg.fragmentContext == nil {
		cfg.fragmentContext = &treebuilder.FragmentContext{TagName: context}
	}
	return parseFragment(html, cfg)
}

func parse(html string, cfg *config) (*dom.Tree, error) {
	handler := cfg.handler()
	tok := tokenizer.New(html, handler)
	tb := treebuilder.New(tok, handler)
	if cfg.iframeSrcdoc {
		tb.SetIframeSrcdoc(true)
	}

	for {
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}

	if fatal := tb.Fatal(); fatal != nil {
		return tb.Tree(), &arborerrors.FatalError{ParseError: fatal}
	}
	if cfg.collectErrors {
		if ch, ok := handler.(*arborerrors.CollectingHandler); ok && len(ch.Errors) > 0 {
			return tb.Tree(), ch.Errors
		}
	}
	return tb.Tree(), nil
}

func parseFragment(html string, cfg *config) (*dom.Tree, []dom.Handle, error) {
	handler := cfg.handler()
	tok := tokenizer.New(html, handler)
	tb := treebuilder.NewFragment(tok, handler, cfg.fragmentContext)
	if cfg.iframeSrcdoc {
		tb.SetIframeSrcdoc(true)
	}

	for {
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}

	if fatal := tb.Fatal(); fatal != nil {
		return tb.Tree(), tb.FragmentNodes(), &arborerrors.FatalError{ParseError: fatal}
	}
	if cfg.collectErrors {
		if ch, ok := handler.(*arborerrors.CollectingHandler); ok && len(ch.Errors) > 0 {
			return tb.Tree(), tb.FragmentNodes(), ch.Errors
		}
	}
	return tb.Tree(), tb.FragmentNodes(), nil
}
