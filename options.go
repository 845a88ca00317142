package arbor

import (
	arborerrors "github.com/arbortree/arbor/errors"
	"github.com/arbortree/arbor/treebuilder"
)

// config holds parser configuration assembled from Options.
type config struct {
	encoding        string
	fragmentContext *treebuilder.FragmentContext
	iframeSrcdoc    bool
	strict          bool
	collectErrors   bool
	customHandler   arborerrors.Handler
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// handler resolves the errors.Handler a parse should use, in priority
// order: an explicit WithErrorHandler, then WithStrictMode, then
// WithCollectErrors, defaulting to silently continuing past recoverable
// errors the way a browser does.
func (c *config) handler() arborerrors.Handler {
	switch {
	case c.customHandler != nil:
		return c.customHandler
	case c.strict:
		return arborerrors.StrictHandler{}
	case c.collectErrors:
		return &arborerrors.CollectingHandler{}
	default:
		return &arborerrors.CollectingHandler{}
	}
}

// Option configures parsing behavior.
type Option func(*config)

// WithEncoding overrides automatic character-encoding detection for
// ParseBytes. Common values: "utf-8", "windows-1252", "iso-8859-1".
func WithEncoding(enc string) Option {
	return func(c *config) { c.encoding = enc }
}

// WithFragment sets the fragment parsing context element. ParseFragment
// uses it in place of its context argument; Parse and ParseBytes ignore it.
func WithFragment(tagName string) Option {
	return func(c *config) {
		c.fragmentContext = &treebuilder.FragmentContext{TagName: tagName}
	}
}

// WithFragmentNS sets the fragment parsing context with a non-HTML
// namespace ("svg" or "mathml"), for fragments rooted inside foreign
// content.
func WithFragmentNS(tagName, namespace string) Option {
	return func(c *config) {
		c.fragmentContext = &treebuilder.FragmentContext{TagName: tagName, Namespace: namespace}
	}
}

// WithIframeSrcdoc enables iframe srcdoc parsing mode, which skips the
// public/system-identifier quirks-mode lookup per WHATWG HTML §13.2.5.4.1.
func WithIframeSrcdoc() Option {
	return func(c *config) { c.iframeSrcdoc = true }
}

// WithStrictMode aborts parsing at the first parse error of any kind,
// surfacing it as a *errors.FatalError.
func WithStrictMode() Option {
	return func(c *config) { c.strict = true }
}

// WithCollectErrors continues past every recoverable parse error (the
// default) but additionally returns them all as errors.ParseErrors once
// parsing completes, instead of discarding them.
func WithCollectErrors() Option {
	return func(c *config) { c.collectErrors = true }
}

// WithErrorHandler installs a caller-supplied errors.Handler, overriding
// WithStrictMode/WithCollectErrors entirely.
func WithErrorHandler(h arborerrors.Handler) Option {
	return func(c *config) { c.customHandler = h }
}
