package errors

// Action tells the tokenizer or tree builder how to respond to a
// reported parse error.
type Action int

const (
	// Continue records the error and proceeds per the WHATWG recovery
	// behavior for that error code.
	Continue Action = iota
	// Fatal aborts the parse, surfacing the error as a *FatalError.
	Fatal
)

// Handler is consulted by both the tokenizer and the tree builder every
// time the algorithm reaches a parse-error step. It decides whether the
// parse should keep going (the conforming behavior for a user agent) or
// stop.
//
// Unlike the teacher's batch-collect config flags (WithStrictMode,
// WithCollectErrors), Handler is invoked inline at the point of error so
// a caller can vary behavior per error code, cap the error count, or
// short-circuit on the first structural problem without the tokenizer
// and tree builder needing to know why.
type Handler interface {
	// TokenizerError is called when the tokenizer reaches a parse-error
	// step. pos is the position in the input stream at the point of
	// the error.
	TokenizerError(code string, pos Position) Action
	// TreeBuilderError is called when the tree construction stage
	// reaches a parse-error step.
	TreeBuilderError(code string, pos Position) Action
}

// DefaultHandler surfaces every error category as fatal except
// UnexpectedNullCharacter, which is silently recovered. Callers that want
// the conforming browser behavior of continuing past all malformed markup
// should supply CollectingHandler instead.
type DefaultHandler struct{}

func (DefaultHandler) TokenizerError(code string, _ Position) Action {
	if code == UnexpectedNullCharacter {
		return Continue
	}
	return Fatal
}

func (DefaultHandler) TreeBuilderError(code string, _ Position) Action {
	if code == UnexpectedNullCharacter {
		return Continue
	}
	return Fatal
}

// CollectingHandler continues past every error (unlike DefaultHandler) and
// records each one, for callers that want the full list
// without aborting the parse (the teacher's WithCollectErrors use case).
type CollectingHandler struct {
	Errors ParseErrors
}

func (h *CollectingHandler) TokenizerError(code string, pos Position) Action {
	h.Errors = append(h.Errors, &ParseError{Code: code, Pos: pos})
	return Continue
}

func (h *CollectingHandler) TreeBuilderError(code string, pos Position) Action {
	h.Errors = append(h.Errors, &ParseError{Code: code, Pos: pos})
	return Continue
}

// StrictHandler aborts the parse on the first error of any kind (the
// teacher's WithStrictMode use case).
type StrictHandler struct{}

func (StrictHandler) TokenizerError(code string, _ Position) Action {
	return Fatal
}

func (StrictHandler) TreeBuilderError(code string, _ Position) Action {
	return Fatal
}
