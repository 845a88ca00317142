package errors

import "testing"

func TestMessageKnownCode(t *testing.T) {
	if msg := Message(UnexpectedNullCharacter); msg == "" {
		t.Fatalf("Message(%q) returned empty string", UnexpectedNullCharacter)
	}
}

func TestMessageUnknownCode(t *testing.T) {
	got := Message("not-a-real-code")
	want := "unrecognized parse error code: not-a-real-code"
	if got != want {
		t.Fatalf("Message(unknown) = %q, want %q", got, want)
	}
}

func TestParseErrorsErrorSingular(t *testing.T) {
	errs := ParseErrors{{Code: UnexpectedNullCharacter, Pos: Position{Line: 1, Column: 2}}}
	if errs.Error() == "" {
		t.Fatal("expected non-empty error string")
	}
}

func TestParseErrorsErrorPlural(t *testing.T) {
	errs := ParseErrors{
		{Code: UnexpectedNullCharacter, Pos: Position{Line: 1, Column: 1}},
		{Code: EOFInTag, Pos: Position{Line: 2, Column: 1}},
	}
	if got := errs.Error(); got == errs[0].Error() {
		t.Fatalf("expected plural message to mention remaining count, got %q", got)
	}
}

func TestDefaultHandlerFatalExceptNullCharacter(t *testing.T) {
	var h DefaultHandler
	if a := h.TokenizerError(UnexpectedNullCharacter, Position{}); a != Continue {
		t.Fatalf("DefaultHandler.TokenizerError = %v, want Continue", a)
	}
	if a := h.TreeBuilderError(FosterParentedCharacter, Position{}); a != Fatal {
		t.Fatalf("DefaultHandler.TreeBuilderError = %v, want Fatal", a)
	}
}

func TestStrictHandlerAlwaysFatal(t *testing.T) {
	var h StrictHandler
	if a := h.TokenizerError(EOFInComment, Position{}); a != Fatal {
		t.Fatalf("StrictHandler.TokenizerError = %v, want Fatal", a)
	}
}

func TestCollectingHandlerAccumulates(t *testing.T) {
	h := &CollectingHandler{}
	h.TokenizerError(EOFInTag, Position{Line: 1, Column: 1})
	h.TreeBuilderError(FosterParentedCharacter, Position{Line: 2, Column: 1})
	if len(h.Errors) != 2 {
		t.Fatalf("CollectingHandler accumulated %d errors, want 2", len(h.Errors))
	}
}

func TestFatalErrorUnwrap(t *testing.T) {
	pe := &ParseError{Code: EOFInDoctype, Pos: Position{Line: 3, Column: 4}}
	fe := &FatalError{ParseError: pe}
	if unwrapped, ok := fe.Unwrap().(*ParseError); !ok || unwrapped != pe {
		t.Fatalf("FatalError.Unwrap() did not return the wrapped ParseError")
	}
}
