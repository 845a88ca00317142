package tokenizer

import (
	"testing"

	"github.com/arbortree/arbor/errors"
)

func collectTokens(t *testing.T, html string, initial State) []Token {
	t.Helper()
	tok := New(html, &errors.CollectingHandler{})
	tok.SetState(initial)
	var out []Token
	for {
		tt := tok.Next()
		if tt.Type == EOF {
			break
		}
		out = append(out, tt)
	}
	return out
}

func TestTokenizerEmitsStartAndEndTags(t *testing.T) {
	tokens := collectTokens(t, "<p>hi</p>", DataState)
	if len(tokens) != 3 {
		t.Fatalf("tokens = %#v, want 3", tokens)
	}
	if tokens[0].Type != StartTag || tokens[0].Name != "p" {
		t.Errorf("tokens[0] = %#v, want StartTag(p)", tokens[0])
	}
	if tokens[1].Type != Character || tokens[1].Data != "hi" {
		t.Errorf("tokens[1] = %#v, want Character(hi)", tokens[1])
	}
	if tokens[2].Type != EndTag || tokens[2].Name != "p" {
		t.Errorf("tokens[2] = %#v, want EndTag(p)", tokens[2])
	}
}

func TestTokenizerParsesAttributes(t *testing.T) {
	tokens := collectTokens(t, `<a href="x" target='_blank' disabled>`, DataState)
	if len(tokens) != 1 || tokens[0].Type != StartTag {
		t.Fatalf("tokens = %#v, want a single StartTag", tokens)
	}
	attrs := tokens[0].Attrs
	if len(attrs) != 3 {
		t.Fatalf("attrs = %#v, want 3", attrs)
	}
	want := map[string]string{"href": "x", "target": "_blank", "disabled": ""}
	for _, a := range attrs {
		v, ok := want[a.Name]
		if !ok {
			t.Errorf("unexpected attribute %q", a.Name)
			continue
		}
		if a.Value != v {
			t.Errorf("attr %q = %q, want %q", a.Name, a.Value, v)
		}
	}
}

func TestTokenizerSelfClosingTag(t *testing.T) {
	tokens := collectTokens(t, `<br/>`, DataState)
	if len(tokens) != 1 || !tokens[0].SelfClosing {
		t.Fatalf("tokens = %#v, want a single self-closing StartTag", tokens)
	}
}

func TestTokenizerComment(t *testing.T) {
	tokens := collectTokens(t, "<!-- hello -->", DataState)
	if len(tokens) != 1 || tokens[0].Type != Comment || tokens[0].Data != " hello " {
		t.Fatalf("tokens = %#v, want Comment(' hello ')", tokens)
	}
}

func TestTokenizerDoctype(t *testing.T) {
	tokens := collectTokens(t, "<!DOCTYPE html>", DataState)
	if len(tokens) != 1 || tokens[0].Type != DOCTYPE || tokens[0].Name != "html" {
		t.Fatalf("tokens = %#v, want DOCTYPE(html)", tokens)
	}
	if tokens[0].ForceQuirks {
		t.Error("a well-formed <!DOCTYPE html> should not force quirks mode")
	}
}

func TestTokenizerCharacterReferenceInAttribute(t *testing.T) {
	tokens := collectTokens(t, `<a title="a &amp; b">`, DataState)
	if len(tokens) != 1 {
		t.Fatalf("tokens = %#v, want a single StartTag", tokens)
	}
	if len(tokens[0].Attrs) != 1 || tokens[0].Attrs[0].Value != "a & b" {
		t.Fatalf("attrs = %#v, want title=\"a & b\"", tokens[0].Attrs)
	}
}

func TestTokenizerUnescapesNamedCharacterReferenceInText(t *testing.T) {
	tokens := collectTokens(t, "a &amp; b &lt; c", DataState)
	if len(tokens) != 1 || tokens[0].Type != Character {
		t.Fatalf("tokens = %#v, want a single Character token", tokens)
	}
	if tokens[0].Data != "a & b < c" {
		t.Errorf("Data = %q, want %q", tokens[0].Data, "a & b < c")
	}
}

func TestTokenizerRAWTEXTDoesNotInterpretTags(t *testing.T) {
	tok := New("x<b>y</style>", &errors.CollectingHandler{})
	tok.SetState(RAWTEXTState)
	tok.SetLastStartTag("style")
	var tokens []Token
	for {
		tt := tok.Next()
		if tt.Type == EOF {
			break
		}
		tokens = append(tokens, tt)
	}
	if len(tokens) != 2 {
		t.Fatalf("tokens = %#v, want Character + EndTag(style)", tokens)
	}
	if tokens[0].Type != Character || tokens[0].Data != "x<b>y" {
		t.Errorf("tokens[0] = %#v, want Character(\"x<b>y\")", tokens[0])
	}
	if tokens[1].Type != EndTag || tokens[1].Name != "style" {
		t.Errorf("tokens[1] = %#v, want EndTag(style)", tokens[1])
	}
}
