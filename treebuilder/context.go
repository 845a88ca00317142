package treebuilder

// FragmentContext describes the context element a fragment is parsed
// relative to (innerHTML-style parsing), per WHATWG HTML
// §13.4 ("parsing html fragments").
type FragmentContext struct {
	TagName   string
	Namespace string // "", "svg", or "mathml"
}
