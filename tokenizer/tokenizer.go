// Package tokenizer implements the WHATWG HTML5 tokenization algorithm:
// https://html.spec.whatwg.org/multipage/parsing.html#tokenization
package tokenizer

import (
	"strings"

	"github.com/arbortree/arbor/errors"
	"github.com/arbortree/arbor/internal/constants"
)

// Tokenizer converts a rune stream into a sequence of Tokens, following the
// 80-state machine defined by the HTML5 specification.
type Tokenizer struct {
	cur *stream

	state     State
	returnTo  State // state to return to after a character reference
	textMode  State // the state that text content should resume in

	reconsume bool
	// lastRune/lastOK hold the most recent consume() result, and
	// stepConsumed records whether the current step has called consume().
	lastRune     rune
	lastOK       bool
	stepConsumed bool

	handler errors.Handler

	// Current tag token under construction.
	tagKind        TokenKind
	tagName        strings.Builder
	tagAttrs       []Attr
	tagSelfClosing bool

	attrName      strings.Builder
	attrValue     strings.Builder
	curAttrHasVal bool

	comment strings.Builder

	doctypeName        strings.Builder
	doctypeHasName     bool
	doctypePublic      strings.Builder
	doctypeHasPublic   bool
	doctypeSystem      strings.Builder
	doctypeHasSystem   bool
	doctypeForceQuirks bool

	// Appropriate end tag matching for RCDATA/RAWTEXT/script data.
	lastStartTagName string
	tempBuffer       strings.Builder

	// Character reference bookkeeping.
	charRefCode   int
	charRefStart  strings.Builder // raw text consumed so far, for ambiguous-ampersand flush

	textBuffer strings.Builder

	pending []Token
	atEOF   bool
}

// New creates a Tokenizer over input, reporting errors to handler. A nil
// handler defaults to errors.DefaultHandler{}.
func New(input string, handler errors.Handler) *Tokenizer {
	if handler == nil {
		handler = errors.DefaultHandler{}
	}
	t := &Tokenizer{
		cur:      newStream(input),
		state:    DataState,
		textMode: DataState,
		handler:  handler,
	}
	return t
}

// SetState forces the tokenizer into state. The tree builder calls this to
// switch into RCDATA/RAWTEXT/ScriptData/PLAINTEXT for elements whose content
// model isn't plain data.
func (t *Tokenizer) SetState(s State) {
	t.state = s
	switch s {
	case DataState, RCDATAState, RAWTEXTState, ScriptDataState, PLAINTEXTState:
		t.textMode = s
	}
}

// SetLastStartTag records the tag name used to recognize an "appropriate"
// end tag while tokenizing RCDATA/RAWTEXT/script data content.
func (t *Tokenizer) SetLastStartTag(name string) {
	t.lastStartTagName = name
}

// Position reports the tokenizer's current position in the input stream,
// for the tree builder's own error reporting (tree-construction errors
// have no position of their own; they are attributed to wherever the
// triggering token was last read from).
func (t *Tokenizer) Position() errors.Position {
	return t.position()
}

// Next returns the next token from the input. Once the stream is
// exhausted, it returns an EOF token on every subsequent call.
func (t *Tokenizer) Next() Token {
	for len(t.pending) == 0 {
		if t.atEOF {
			return Token{Type: EOF}
		}
		t.step()
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok
}

func (t *Tokenizer) emit(tok Token) {
	t.pending = append(t.pending, tok)
}

func (t *Tokenizer) emitChar(r rune) {
	t.textBuffer.WriteRune(r)
}

func (t *Tokenizer) flushText() {
	if t.textBuffer.Len() > 0 {
		t.emit(Token{Type: Character, Data: t.textBuffer.String()})
		t.textBuffer.Reset()
	}
}

func (t *Tokenizer) reportError(code string) {
	if t.handler.TokenizerError(code, t.position()) == errors.Fatal {
		t.flushText()
		t.emit(Token{Type: Error, ErrorCode: code})
		t.atEOF = true
	}
}

func (t *Tokenizer) position() errors.Position {
	line, col := t.cur.lineCol()
	return errors.Position{Line: line, Column: col, Offset: t.cur.pos}
}

// consume returns the next input code point, or (0, false) at EOF. After
// reconsumeIn it returns the previously consumed code point again.
func (t *Tokenizer) consume() (rune, bool) {
	t.stepConsumed = true
	if t.reconsume {
		t.reconsume = false
		return t.lastRune, t.lastOK
	}
	t.lastRune, t.lastOK = t.cur.advance()
	return t.lastRune, t.lastOK
}

// reconsumeIn switches to state s. If the current step consumed a code
// point, s consumes that same code point again; a step that only peeked
// leaves it in the stream, where s reads it anyway.
func (t *Tokenizer) reconsumeIn(s State) {
	t.reconsume = t.stepConsumed
	t.state = s
}

func isSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDFFF }
func isNoncharacter(r rune) bool {
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true
	}
	switch r & 0xFFFE {
	case 0xFFFE:
		return true
	}
	return false
}

func (t *Tokenizer) checkInputCharacter(r rune) {
	if isSurrogate(r) {
		t.reportError(errors.SurrogateInInputStream)
	} else if isNoncharacter(r) {
		t.reportError(errors.NoncharacterInInputStream)
	} else if isControlOtherThanWhitespace(r) {
		t.reportError(errors.ControlCharacterInInputStream)
	}
}

func isControlOtherThanWhitespace(r rune) bool {
	if r == '\t' || r == '\n' || r == '\f' || r == ' ' {
		return false
	}
	if r >= 0x0000 && r <= 0x001F {
		return true
	}
	if r >= 0x007F && r <= 0x009F {
		return true
	}
	return false
}

// step executes exactly one FSM transition, which may consume zero or more
// input characters and append zero or more tokens to the pending queue.
func (t *Tokenizer) step() {
	t.stepConsumed = false
	switch t.state {
	case DataState:
		t.stepData()
	case RCDATAState:
		t.stepRCDATA()
	case RAWTEXTState:
		t.stepRAWTEXT()
	case ScriptDataState:
		t.stepScriptData()
	case PLAINTEXTState:
		t.stepPLAINTEXT()
	case TagOpenState:
		t.stepTagOpen()
	case EndTagOpenState:
		t.stepEndTagOpen()
	case TagNameState:
		t.stepTagName()
	case RCDATALessThanSignState:
		t.stepRCDATALessThanSign()
	case RCDATAEndTagOpenState:
		t.stepRCDATAEndTagOpen()
	case RCDATAEndTagNameState:
		t.stepRCDATAEndTagName()
	case RAWTEXTLessThanSignState:
		t.stepRAWTEXTLessThanSign()
	case RAWTEXTEndTagOpenState:
		t.stepRAWTEXTEndTagOpen()
	case RAWTEXTEndTagNameState:
		t.stepRAWTEXTEndTagName()
	case ScriptDataLessThanSignState:
		t.stepScriptDataLessThanSign()
	case ScriptDataEndTagOpenState:
		t.stepScriptDataEndTagOpen()
	case ScriptDataEndTagNameState:
		t.stepScriptDataEndTagName()
	case ScriptDataEscapeStartState:
		t.stepScriptDataEscapeStart()
	case ScriptDataEscapeStartDashState:
		t.stepScriptDataEscapeStartDash()
	case ScriptDataEscapedState:
		t.stepScriptDataEscaped()
	case ScriptDataEscapedDashState:
		t.stepScriptDataEscapedDash()
	case ScriptDataEscapedDashDashState:
		t.stepScriptDataEscapedDashDash()
	case ScriptDataEscapedLessThanSignState:
		t.stepScriptDataEscapedLessThanSign()
	case ScriptDataEscapedEndTagOpenState:
		t.stepScriptDataEscapedEndTagOpen()
	case ScriptDataEscapedEndTagNameState:
		t.stepScriptDataEscapedEndTagName()
	case ScriptDataDoubleEscapeStartState:
		t.stepScriptDataDoubleEscapeStart()
	case ScriptDataDoubleEscapedState:
		t.stepScriptDataDoubleEscaped()
	case ScriptDataDoubleEscapedDashState:
		t.stepScriptDataDoubleEscapedDash()
	case ScriptDataDoubleEscapedDashDashState:
		t.stepScriptDataDoubleEscapedDashDash()
	case ScriptDataDoubleEscapedLessThanSignState:
		t.stepScriptDataDoubleEscapedLessThanSign()
	case ScriptDataDoubleEscapeEndState:
		t.stepScriptDataDoubleEscapeEnd()
	case BeforeAttributeNameState:
		t.stepBeforeAttributeName()
	case AttributeNameState:
		t.stepAttributeName()
	case AfterAttributeNameState:
		t.stepAfterAttributeName()
	case BeforeAttributeValueState:
		t.stepBeforeAttributeValue()
	case AttributeValueDoubleQuotedState:
		t.stepAttributeValueQuoted('"')
	case AttributeValueSingleQuotedState:
		t.stepAttributeValueQuoted('\'')
	case AttributeValueUnquotedState:
		t.stepAttributeValueUnquoted()
	case AfterAttributeValueQuotedState:
		t.stepAfterAttributeValueQuoted()
	case SelfClosingStartTagState:
		t.stepSelfClosingStartTag()
	case BogusCommentState:
		t.stepBogusComment()
	case MarkupDeclarationOpenState:
		t.stepMarkupDeclarationOpen()
	case CommentStartState:
		t.stepCommentStart()
	case CommentStartDashState:
		t.stepCommentStartDash()
	case CommentState:
		t.stepComment()
	case CommentLessThanSignState:
		t.stepCommentLessThanSign()
	case CommentLessThanSignBangState:
		t.stepCommentLessThanSignBang()
	case CommentLessThanSignBangDashState:
		t.stepCommentLessThanSignBangDash()
	case CommentLessThanSignBangDashDashState:
		t.stepCommentLessThanSignBangDashDash()
	case CommentEndDashState:
		t.stepCommentEndDash()
	case CommentEndState:
		t.stepCommentEnd()
	case CommentEndBangState:
		t.stepCommentEndBang()
	case DOCTYPEState:
		t.stepDoctype()
	case BeforeDOCTYPENameState:
		t.stepBeforeDoctypeName()
	case DOCTYPENameState:
		t.stepDoctypeName()
	case AfterDOCTYPENameState:
		t.stepAfterDoctypeName()
	case AfterDOCTYPEPublicKeywordState:
		t.stepAfterDoctypePublicKeyword()
	case BeforeDOCTYPEPublicIdentifierState:
		t.stepBeforeDoctypePublicIdentifier()
	case DOCTYPEPublicIdentifierDoubleQuotedState:
		t.stepDoctypePublicIdentifierQuoted('"')
	case DOCTYPEPublicIdentifierSingleQuotedState:
		t.stepDoctypePublicIdentifierQuoted('\'')
	case AfterDOCTYPEPublicIdentifierState:
		t.stepAfterDoctypePublicIdentifier()
	case BetweenDOCTYPEPublicAndSystemIdentifiersState:
		t.stepBetweenDoctypePublicAndSystemIdentifiers()
	case AfterDOCTYPESystemKeywordState:
		t.stepAfterDoctypeSystemKeyword()
	case BeforeDOCTYPESystemIdentifierState:
		t.stepBeforeDoctypeSystemIdentifier()
	case DOCTYPESystemIdentifierDoubleQuotedState:
		t.stepDoctypeSystemIdentifierQuoted('"')
	case DOCTYPESystemIdentifierSingleQuotedState:
		t.stepDoctypeSystemIdentifierQuoted('\'')
	case AfterDOCTYPESystemIdentifierState:
		t.stepAfterDoctypeSystemIdentifier()
	case BogusDOCTYPEState:
		t.stepBogusDoctype()
	case CDATASectionState:
		t.stepCDATASection()
	case CDATASectionBracketState:
		t.stepCDATASectionBracket()
	case CDATASectionEndState:
		t.stepCDATASectionEnd()
	case CharacterReferenceState:
		t.stepCharacterReference()
	case NamedCharacterReferenceState:
		t.stepNamedCharacterReference()
	case AmbiguousAmpersandState:
		t.stepAmbiguousAmpersand()
	case NumericCharacterReferenceState:
		t.stepNumericCharacterReference()
	case HexadecimalCharacterReferenceStartState:
		t.stepHexadecimalCharacterReferenceStart()
	case DecimalCharacterReferenceStartState:
		t.stepDecimalCharacterReferenceStart()
	case HexadecimalCharacterReferenceState:
		t.stepHexadecimalCharacterReference()
	case DecimalCharacterReferenceState:
		t.stepDecimalCharacterReference()
	case NumericCharacterReferenceEndState:
		t.stepNumericCharacterReferenceEnd()
	default:
		t.atEOF = true
	}
}

// -- Data states --------------------------------------------------------

func (t *Tokenizer) stepData() {
	r, ok := t.consume()
	if !ok {
		t.flushText()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '&':
		t.returnTo = DataState
		t.state = CharacterReferenceState
	case '<':
		t.state = TagOpenState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar(r)
	default:
		t.checkInputCharacter(r)
		t.emitChar(r)
	}
}

func (t *Tokenizer) stepRCDATA() {
	r, ok := t.consume()
	if !ok {
		t.flushText()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '&':
		t.returnTo = RCDATAState
		t.state = CharacterReferenceState
	case '<':
		t.state = RCDATALessThanSignState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
	default:
		t.emitChar(r)
	}
}

func (t *Tokenizer) stepRAWTEXT() {
	r, ok := t.consume()
	if !ok {
		t.flushText()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '<':
		t.state = RAWTEXTLessThanSignState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
	default:
		t.emitChar(r)
	}
}

func (t *Tokenizer) stepScriptData() {
	r, ok := t.consume()
	if !ok {
		t.flushText()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '<':
		t.state = ScriptDataLessThanSignState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
	default:
		t.emitChar(r)
	}
}

func (t *Tokenizer) stepPLAINTEXT() {
	r, ok := t.consume()
	if !ok {
		t.flushText()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	if r == 0 {
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
		return
	}
	t.emitChar(r)
}

// -- Tag open states -----------------------------------------------------

func (t *Tokenizer) stepTagOpen() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFBeforeTagName)
		t.emitChar('<')
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case r == '!':
		t.state = MarkupDeclarationOpenState
	case r == '/':
		t.state = EndTagOpenState
	case isASCIIAlpha(r):
		t.startTag(StartTag)
		t.reconsumeIn(TagNameState)
	case r == '?':
		t.reportError(errors.UnexpectedQuestionMarkInsteadOfTagName)
		t.startBogusComment()
		t.reconsumeIn(BogusCommentState)
	default:
		t.reportError(errors.InvalidFirstCharacterOfTagName)
		t.emitChar('<')
		t.reconsumeIn(DataState)
	}
}

func (t *Tokenizer) stepEndTagOpen() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFBeforeTagName)
		t.textBuffer.WriteString("</")
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case isASCIIAlpha(r):
		t.startTag(EndTag)
		t.reconsumeIn(TagNameState)
	case r == '>':
		t.reportError(errors.MissingEndTagName)
		t.state = DataState
	default:
		t.reportError(errors.InvalidFirstCharacterOfTagName)
		t.startBogusComment()
		t.reconsumeIn(BogusCommentState)
	}
}

func (t *Tokenizer) stepTagName() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInTag)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		t.state = BeforeAttributeNameState
	case r == '/':
		t.state = SelfClosingStartTagState
	case r == '>':
		t.emitTag()
		t.state = DataState
	case r == 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.tagName.WriteRune('�')
	default:
		t.tagName.WriteRune(constants.ToLower(r))
	}
}

func (t *Tokenizer) startTag(kind TokenKind) {
	t.tagKind = kind
	t.tagName.Reset()
	t.tagAttrs = nil
	t.tagSelfClosing = false
}

func (t *Tokenizer) emitTag() {
	t.flushText()
	name := t.tagName.String()
	tok := Token{Type: t.tagKind, Name: name, Attrs: t.tagAttrs, SelfClosing: t.tagSelfClosing}
	if t.tagKind == EndTag {
		if len(t.tagAttrs) > 0 {
			t.reportError(errors.EndTagWithAttributes)
		}
		if t.tagSelfClosing {
			t.reportError(errors.EndTagWithTrailingSolidus)
		}
	}
	if t.tagKind == StartTag {
		t.lastStartTagName = name
	}
	t.emit(tok)
}

// -- RCDATA end-tag recognition ------------------------------------------

func (t *Tokenizer) stepRCDATALessThanSign() {
	r, ok := t.cur.current()
	if ok && r == '/' {
		t.cur.advance()
		t.tempBuffer.Reset()
		t.state = RCDATAEndTagOpenState
		return
	}
	t.emitChar('<')
	t.state = RCDATAState
}

func (t *Tokenizer) stepRCDATAEndTagOpen() {
	r, ok := t.cur.current()
	if ok && isASCIIAlpha(r) {
		t.startTag(EndTag)
		t.reconsumeIn(RCDATAEndTagNameState)
		return
	}
	t.textBuffer.WriteString("</")
	t.state = RCDATAState
}

func (t *Tokenizer) stepRCDATAEndTagName() {
	t.stepGenericEndTagName(RCDATAState)
}

func (t *Tokenizer) stepRAWTEXTLessThanSign() {
	r, ok := t.cur.current()
	if ok && r == '/' {
		t.cur.advance()
		t.tempBuffer.Reset()
		t.state = RAWTEXTEndTagOpenState
		return
	}
	t.emitChar('<')
	t.state = RAWTEXTState
}

func (t *Tokenizer) stepRAWTEXTEndTagOpen() {
	r, ok := t.cur.current()
	if ok && isASCIIAlpha(r) {
		t.startTag(EndTag)
		t.reconsumeIn(RAWTEXTEndTagNameState)
		return
	}
	t.textBuffer.WriteString("</")
	t.state = RAWTEXTState
}

func (t *Tokenizer) stepRAWTEXTEndTagName() {
	t.stepGenericEndTagName(RAWTEXTState)
}

// stepGenericEndTagName implements the shared "RCDATA/RAWTEXT end tag name
// state" logic: only treated as a real end tag if it is the appropriate
// end tag for the last start tag emitted, otherwise it's data.
func (t *Tokenizer) stepGenericEndTagName(fallback State) {
	r, ok := t.consume()
	if !ok {
		t.abandonEndTag(fallback)
		t.reconsumeIn(fallback)
		return
	}
	switch {
	case constants.IsWhitespace(r) && t.isAppropriateEndTag():
		t.state = BeforeAttributeNameState
	case r == '/' && t.isAppropriateEndTag():
		t.state = SelfClosingStartTagState
	case r == '>' && t.isAppropriateEndTag():
		t.emitTag()
		t.state = DataState
	case isASCIIAlpha(r):
		t.tagName.WriteRune(constants.ToLower(r))
		t.tempBuffer.WriteRune(r)
	default:
		t.abandonEndTag(fallback)
		t.reconsumeIn(fallback)
	}
}

func (t *Tokenizer) isAppropriateEndTag() bool {
	return t.tagName.String() == t.lastStartTagName
}

func (t *Tokenizer) abandonEndTag(fallback State) {
	t.textBuffer.WriteString("</")
	t.textBuffer.WriteString(t.tempBuffer.String())
}

// -- Script data states ---------------------------------------------------

func (t *Tokenizer) stepScriptDataLessThanSign() {
	r, ok := t.cur.current()
	switch {
	case ok && r == '/':
		t.cur.advance()
		t.tempBuffer.Reset()
		t.state = ScriptDataEndTagOpenState
	case ok && r == '!':
		t.cur.advance()
		t.emitChar('<')
		t.emitChar('!')
		t.state = ScriptDataEscapeStartState
	default:
		t.emitChar('<')
		t.state = ScriptDataState
	}
}

func (t *Tokenizer) stepScriptDataEndTagOpen() {
	r, ok := t.cur.current()
	if ok && isASCIIAlpha(r) {
		t.startTag(EndTag)
		t.reconsumeIn(ScriptDataEndTagNameState)
		return
	}
	t.textBuffer.WriteString("</")
	t.state = ScriptDataState
}

func (t *Tokenizer) stepScriptDataEndTagName() {
	t.stepGenericEndTagName(ScriptDataState)
}

func (t *Tokenizer) stepScriptDataEscapeStart() {
	r, ok := t.cur.current()
	if ok && r == '-' {
		t.cur.advance()
		t.emitChar('-')
		t.state = ScriptDataEscapeStartDashState
		return
	}
	t.reconsumeIn(ScriptDataState)
}

func (t *Tokenizer) stepScriptDataEscapeStartDash() {
	r, ok := t.cur.current()
	if ok && r == '-' {
		t.cur.advance()
		t.emitChar('-')
		t.state = ScriptDataEscapedDashDashState
		return
	}
	t.reconsumeIn(ScriptDataState)
}

func (t *Tokenizer) stepScriptDataEscaped() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInScriptHTMLCommentLikeText)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '-':
		t.emitChar('-')
		t.state = ScriptDataEscapedDashState
	case '<':
		t.state = ScriptDataEscapedLessThanSignState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
	default:
		t.emitChar(r)
	}
}

func (t *Tokenizer) stepScriptDataEscapedDash() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInScriptHTMLCommentLikeText)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '-':
		t.emitChar('-')
		t.state = ScriptDataEscapedDashDashState
	case '<':
		t.state = ScriptDataEscapedLessThanSignState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
		t.state = ScriptDataEscapedState
	default:
		t.emitChar(r)
		t.state = ScriptDataEscapedState
	}
}

func (t *Tokenizer) stepScriptDataEscapedDashDash() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInScriptHTMLCommentLikeText)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '-':
		t.emitChar('-')
	case '<':
		t.state = ScriptDataEscapedLessThanSignState
	case '>':
		t.emitChar('>')
		t.state = ScriptDataState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
		t.state = ScriptDataEscapedState
	default:
		t.emitChar(r)
		t.state = ScriptDataEscapedState
	}
}

func (t *Tokenizer) stepScriptDataEscapedLessThanSign() {
	r, ok := t.cur.current()
	switch {
	case ok && r == '/':
		t.cur.advance()
		t.tempBuffer.Reset()
		t.state = ScriptDataEscapedEndTagOpenState
	case ok && isASCIIAlpha(r):
		t.tempBuffer.Reset()
		t.emitChar('<')
		t.reconsumeIn(ScriptDataDoubleEscapeStartState)
	default:
		t.emitChar('<')
		t.state = ScriptDataEscapedState
	}
}

func (t *Tokenizer) stepScriptDataEscapedEndTagOpen() {
	r, ok := t.cur.current()
	if ok && isASCIIAlpha(r) {
		t.startTag(EndTag)
		t.reconsumeIn(ScriptDataEscapedEndTagNameState)
		return
	}
	t.textBuffer.WriteString("</")
	t.state = ScriptDataEscapedState
}

func (t *Tokenizer) stepScriptDataEscapedEndTagName() {
	t.stepGenericEndTagName(ScriptDataEscapedState)
}

func (t *Tokenizer) stepScriptDataDoubleEscapeStart() {
	r, ok := t.consume()
	if !ok {
		t.reconsumeIn(ScriptDataEscapedState)
		return
	}
	switch {
	case constants.IsWhitespace(r) || r == '/' || r == '>':
		t.emitChar(r)
		if t.tempBuffer.String() == "script" {
			t.state = ScriptDataDoubleEscapedState
		} else {
			t.state = ScriptDataEscapedState
		}
	case isASCIIAlpha(r):
		t.tempBuffer.WriteRune(constants.ToLower(r))
		t.emitChar(r)
	default:
		t.reconsumeIn(ScriptDataEscapedState)
	}
}

func (t *Tokenizer) stepScriptDataDoubleEscaped() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInScriptHTMLCommentLikeText)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '-':
		t.emitChar('-')
		t.state = ScriptDataDoubleEscapedDashState
	case '<':
		t.emitChar('<')
		t.state = ScriptDataDoubleEscapedLessThanSignState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
	default:
		t.emitChar(r)
	}
}

func (t *Tokenizer) stepScriptDataDoubleEscapedDash() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInScriptHTMLCommentLikeText)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '-':
		t.emitChar('-')
		t.state = ScriptDataDoubleEscapedDashDashState
	case '<':
		t.emitChar('<')
		t.state = ScriptDataDoubleEscapedLessThanSignState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
		t.state = ScriptDataDoubleEscapedState
	default:
		t.emitChar(r)
		t.state = ScriptDataDoubleEscapedState
	}
}

func (t *Tokenizer) stepScriptDataDoubleEscapedDashDash() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInScriptHTMLCommentLikeText)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '-':
		t.emitChar('-')
	case '<':
		t.emitChar('<')
		t.state = ScriptDataDoubleEscapedLessThanSignState
	case '>':
		t.emitChar('>')
		t.state = ScriptDataState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.emitChar('�')
		t.state = ScriptDataDoubleEscapedState
	default:
		t.emitChar(r)
		t.state = ScriptDataDoubleEscapedState
	}
}

func (t *Tokenizer) stepScriptDataDoubleEscapedLessThanSign() {
	r, ok := t.cur.current()
	if ok && r == '/' {
		t.cur.advance()
		t.tempBuffer.Reset()
		t.emitChar('/')
		t.state = ScriptDataDoubleEscapeEndState
		return
	}
	t.state = ScriptDataDoubleEscapedState
}

func (t *Tokenizer) stepScriptDataDoubleEscapeEnd() {
	r, ok := t.consume()
	if !ok {
		t.reconsumeIn(ScriptDataDoubleEscapedState)
		return
	}
	switch {
	case constants.IsWhitespace(r) || r == '/' || r == '>':
		t.emitChar(r)
		if t.tempBuffer.String() == "script" {
			t.state = ScriptDataEscapedState
		} else {
			t.state = ScriptDataDoubleEscapedState
		}
	case isASCIIAlpha(r):
		t.tempBuffer.WriteRune(constants.ToLower(r))
		t.emitChar(r)
	default:
		t.reconsumeIn(ScriptDataDoubleEscapedState)
	}
}

// -- Attribute states -----------------------------------------------------

func (t *Tokenizer) stepBeforeAttributeName() {
	r, ok := t.consume()
	if !ok {
		t.reconsumeIn(AfterAttributeNameState)
		return
	}
	switch {
	case constants.IsWhitespace(r):
		// ignore
	case r == '/' || r == '>':
		t.reconsumeIn(AfterAttributeNameState)
	case r == '=':
		t.reportError(errors.UnexpectedEqualsSignBeforeAttributeName)
		t.startAttribute()
		t.attrName.WriteRune(r)
		t.state = AttributeNameState
	default:
		t.startAttribute()
		t.reconsumeIn(AttributeNameState)
	}
}

func (t *Tokenizer) startAttribute() {
	t.attrName.Reset()
	t.attrValue.Reset()
	t.curAttrHasVal = false
}

func (t *Tokenizer) stepAttributeName() {
	r, ok := t.consume()
	if !ok {
		t.reconsumeIn(AfterAttributeNameState)
		return
	}
	switch {
	case constants.IsWhitespace(r) || r == '/' || r == '>':
		t.reconsumeIn(AfterAttributeNameState)
	case r == '=':
		t.state = BeforeAttributeValueState
	case r == 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.attrName.WriteRune('�')
	case r == '"' || r == '\'' || r == '<':
		t.reportError(errors.UnexpectedCharacterInAttributeName)
		t.attrName.WriteRune(r)
	default:
		t.attrName.WriteRune(constants.ToLower(r))
	}
}

func (t *Tokenizer) stepAfterAttributeName() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInTag)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		// ignore
	case r == '/':
		t.finishAttribute()
		t.state = SelfClosingStartTagState
	case r == '=':
		t.finishAttributeNameOnly()
		t.state = BeforeAttributeValueState
	case r == '>':
		t.finishAttribute()
		t.emitTag()
		t.state = DataState
	default:
		t.finishAttribute()
		t.startAttribute()
		t.reconsumeIn(AttributeNameState)
	}
}

// finishAttributeNameOnly does nothing: the pending name stays in attrName
// until finishAttribute stores it together with its value.
func (t *Tokenizer) finishAttributeNameOnly() {}

func (t *Tokenizer) finishAttribute() {
	name := t.attrName.String()
	if name == "" {
		return
	}
	for _, a := range t.tagAttrs {
		if a.Name == name {
			t.reportError(errors.DuplicateAttribute)
			return
		}
	}
	val := ""
	if t.curAttrHasVal {
		val = t.attrValue.String()
	}
	t.tagAttrs = append(t.tagAttrs, Attr{Name: name, Value: val})
}

func (t *Tokenizer) stepBeforeAttributeValue() {
	r, ok := t.consume()
	if !ok {
		t.reconsumeIn(AttributeValueUnquotedState)
		return
	}
	switch {
	case constants.IsWhitespace(r):
		// ignore
	case r == '"':
		t.curAttrHasVal = true
		t.state = AttributeValueDoubleQuotedState
	case r == '\'':
		t.curAttrHasVal = true
		t.state = AttributeValueSingleQuotedState
	case r == '>':
		t.reportError(errors.MissingAttributeValue)
		t.finishAttribute()
		t.emitTag()
		t.state = DataState
	default:
		t.curAttrHasVal = true
		t.reconsumeIn(AttributeValueUnquotedState)
	}
}

func (t *Tokenizer) stepAttributeValueQuoted(quote rune) {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInTag)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case quote:
		t.finishAttribute()
		t.state = AfterAttributeValueQuotedState
	case '&':
		t.returnTo = t.state
		t.state = CharacterReferenceState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.attrValue.WriteRune('�')
	default:
		t.attrValue.WriteRune(r)
	}
}

func (t *Tokenizer) stepAttributeValueUnquoted() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInTag)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		t.finishAttribute()
		t.state = BeforeAttributeNameState
	case r == '&':
		t.returnTo = AttributeValueUnquotedState
		t.state = CharacterReferenceState
	case r == '>':
		t.finishAttribute()
		t.emitTag()
		t.state = DataState
	case r == 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.attrValue.WriteRune('�')
	case r == '"' || r == '\'' || r == '<' || r == '=' || r == '`':
		t.reportError(errors.UnexpectedCharacterInUnquotedAttributeValue)
		t.attrValue.WriteRune(r)
	default:
		t.attrValue.WriteRune(r)
	}
}

func (t *Tokenizer) stepAfterAttributeValueQuoted() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInTag)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		t.state = BeforeAttributeNameState
	case r == '/':
		t.state = SelfClosingStartTagState
	case r == '>':
		t.emitTag()
		t.state = DataState
	default:
		t.reportError(errors.MissingWhitespaceBetweenAttributes)
		t.reconsumeIn(BeforeAttributeNameState)
	}
}

func (t *Tokenizer) stepSelfClosingStartTag() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInTag)
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '>':
		t.tagSelfClosing = true
		t.emitTag()
		t.state = DataState
	default:
		t.reportError(errors.UnexpectedSolidusInTag)
		t.reconsumeIn(BeforeAttributeNameState)
	}
}

// -- Comments and bogus comments -------------------------------------------

func (t *Tokenizer) startBogusComment() {
	t.comment.Reset()
}

func (t *Tokenizer) stepBogusComment() {
	r, ok := t.consume()
	if !ok {
		t.flushText()
		t.emit(Token{Type: Comment, Data: t.comment.String(), CommentEOF: true})
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '>':
		t.flushText()
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.state = DataState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.comment.WriteRune('�')
	default:
		t.comment.WriteRune(r)
	}
}

func (t *Tokenizer) stepMarkupDeclarationOpen() {
	if t.cur.matchLiteral("--") {
		t.cur.advanceBy(2)
		t.comment.Reset()
		t.state = CommentStartState
		return
	}
	if t.cur.matchCaseInsensitive("doctype") {
		t.cur.advanceBy(7)
		t.state = DOCTYPEState
		return
	}
	if t.cur.matchLiteral("[CDATA[") {
		t.cur.advanceBy(7)
		t.state = CDATASectionState
		return
	}
	t.reportError(errors.IncorrectlyOpenedComment)
	t.startBogusComment()
	t.state = BogusCommentState
}

func (t *Tokenizer) stepCommentStart() {
	r, ok := t.consume()
	if !ok {
		t.reconsumeIn(CommentState)
		return
	}
	switch r {
	case '-':
		t.state = CommentStartDashState
	case '>':
		t.reportError(errors.AbruptClosingOfEmptyComment)
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.state = DataState
	default:
		t.reconsumeIn(CommentState)
	}
}

func (t *Tokenizer) stepCommentStartDash() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInComment)
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '-':
		t.state = CommentEndState
	case '>':
		t.reportError(errors.AbruptClosingOfEmptyComment)
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.state = DataState
	default:
		t.comment.WriteRune('-')
		t.reconsumeIn(CommentState)
	}
}

func (t *Tokenizer) stepComment() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInComment)
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '<':
		t.comment.WriteRune(r)
		t.state = CommentLessThanSignState
	case '-':
		t.state = CommentEndDashState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.comment.WriteRune('�')
	default:
		t.comment.WriteRune(r)
	}
}

func (t *Tokenizer) stepCommentLessThanSign() {
	r, ok := t.cur.current()
	switch {
	case ok && r == '!':
		t.cur.advance()
		t.comment.WriteRune(r)
		t.state = CommentLessThanSignBangState
	case ok && r == '<':
		t.cur.advance()
		t.comment.WriteRune(r)
	default:
		t.reconsumeIn(CommentState)
	}
}

func (t *Tokenizer) stepCommentLessThanSignBang() {
	r, ok := t.cur.current()
	if ok && r == '-' {
		t.cur.advance()
		t.state = CommentLessThanSignBangDashState
		return
	}
	t.reconsumeIn(CommentState)
}

func (t *Tokenizer) stepCommentLessThanSignBangDash() {
	r, ok := t.cur.current()
	if ok && r == '-' {
		t.cur.advance()
		t.state = CommentLessThanSignBangDashDashState
		return
	}
	t.reconsumeIn(CommentEndDashState)
}

func (t *Tokenizer) stepCommentLessThanSignBangDashDash() {
	t.reconsumeIn(CommentEndState)
}

func (t *Tokenizer) stepCommentEndDash() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInComment)
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	if r == '-' {
		t.state = CommentEndState
		return
	}
	t.comment.WriteRune('-')
	t.reconsumeIn(CommentState)
}

func (t *Tokenizer) stepCommentEnd() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInComment)
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '>':
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.state = DataState
	case '!':
		t.state = CommentEndBangState
	case '-':
		t.comment.WriteRune('-')
	default:
		t.comment.WriteString("--")
		t.reconsumeIn(CommentState)
	}
}

func (t *Tokenizer) stepCommentEndBang() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInComment)
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '-':
		t.comment.WriteString("--!")
		t.state = CommentEndDashState
	case '>':
		t.reportError(errors.IncorrectlyClosedComment)
		t.emit(Token{Type: Comment, Data: t.comment.String()})
		t.state = DataState
	default:
		t.comment.WriteString("--!")
		t.reconsumeIn(CommentState)
	}
}

// -- DOCTYPE states ---------------------------------------------------------

func (t *Tokenizer) startDoctype() {
	t.doctypeName.Reset()
	t.doctypeHasName = false
	t.doctypePublic.Reset()
	t.doctypeHasPublic = false
	t.doctypeSystem.Reset()
	t.doctypeHasSystem = false
	t.doctypeForceQuirks = false
}

func (t *Tokenizer) emitDoctype() {
	tok := Token{Type: DOCTYPE, Name: t.doctypeName.String(), ForceQuirks: t.doctypeForceQuirks}
	if t.doctypeHasPublic {
		s := t.doctypePublic.String()
		tok.PublicID = &s
	}
	if t.doctypeHasSystem {
		s := t.doctypeSystem.String()
		tok.SystemID = &s
	}
	t.flushText()
	t.emit(tok)
}

func (t *Tokenizer) stepDoctype() {
	t.startDoctype()
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		t.state = BeforeDOCTYPENameState
	case r == '>':
		t.reconsumeIn(BeforeDOCTYPENameState)
	default:
		t.reportError(errors.MissingWhitespaceBeforeDoctypeName)
		t.reconsumeIn(BeforeDOCTYPENameState)
	}
}

func (t *Tokenizer) stepBeforeDoctypeName() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		// ignore
	case r == 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.doctypeHasName = true
		t.doctypeName.WriteRune('�')
		t.state = DOCTYPENameState
	case r == '>':
		t.reportError(errors.MissingDoctypeName)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.state = DataState
	default:
		t.doctypeHasName = true
		t.doctypeName.WriteRune(constants.ToLower(r))
		t.state = DOCTYPENameState
	}
}

func (t *Tokenizer) stepDoctypeName() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		t.state = AfterDOCTYPENameState
	case r == '>':
		t.emitDoctype()
		t.state = DataState
	case r == 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.doctypeName.WriteRune('�')
	default:
		t.doctypeName.WriteRune(constants.ToLower(r))
	}
}

func (t *Tokenizer) stepAfterDoctypeName() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	if constants.IsWhitespace(r) {
		return
	}
	if r == '>' {
		t.emitDoctype()
		t.state = DataState
		return
	}
	if (r == 'p' || r == 'P') && t.cur.matchCaseInsensitive("ublic") {
		t.cur.advanceBy(5)
		t.state = AfterDOCTYPEPublicKeywordState
		return
	}
	if (r == 's' || r == 'S') && t.cur.matchCaseInsensitive("ystem") {
		t.cur.advanceBy(5)
		t.state = AfterDOCTYPESystemKeywordState
		return
	}
	t.reportError(errors.InvalidCharacterSequenceAfterDoctypeName)
	t.doctypeForceQuirks = true
	t.reconsumeIn(BogusDOCTYPEState)
}

func (t *Tokenizer) stepAfterDoctypePublicKeyword() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		t.state = BeforeDOCTYPEPublicIdentifierState
	case r == '"':
		t.reportError(errors.MissingWhitespaceAfterDoctypePublicKeyword)
		t.doctypeHasPublic = true
		t.doctypePublic.Reset()
		t.state = DOCTYPEPublicIdentifierDoubleQuotedState
	case r == '\'':
		t.reportError(errors.MissingWhitespaceAfterDoctypePublicKeyword)
		t.doctypeHasPublic = true
		t.doctypePublic.Reset()
		t.state = DOCTYPEPublicIdentifierSingleQuotedState
	case r == '>':
		t.reportError(errors.MissingDoctypePublicIdentifier)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.state = DataState
	default:
		t.reportError(errors.MissingQuoteBeforeDoctypePublicIdentifier)
		t.doctypeForceQuirks = true
		t.reconsumeIn(BogusDOCTYPEState)
	}
}

func (t *Tokenizer) stepBeforeDoctypePublicIdentifier() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		// ignore
	case r == '"':
		t.doctypeHasPublic = true
		t.doctypePublic.Reset()
		t.state = DOCTYPEPublicIdentifierDoubleQuotedState
	case r == '\'':
		t.doctypeHasPublic = true
		t.doctypePublic.Reset()
		t.state = DOCTYPEPublicIdentifierSingleQuotedState
	case r == '>':
		t.reportError(errors.MissingDoctypePublicIdentifier)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.state = DataState
	default:
		t.reportError(errors.MissingQuoteBeforeDoctypePublicIdentifier)
		t.doctypeForceQuirks = true
		t.reconsumeIn(BogusDOCTYPEState)
	}
}

func (t *Tokenizer) stepDoctypePublicIdentifierQuoted(quote rune) {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case quote:
		t.state = AfterDOCTYPEPublicIdentifierState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.doctypePublic.WriteRune('�')
	case '>':
		t.reportError(errors.AbruptDoctypePublicIdentifier)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.state = DataState
	default:
		t.doctypePublic.WriteRune(r)
	}
}

func (t *Tokenizer) stepAfterDoctypePublicIdentifier() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		t.state = BetweenDOCTYPEPublicAndSystemIdentifiersState
	case r == '>':
		t.emitDoctype()
		t.state = DataState
	case r == '"':
		t.reportError(errors.MissingWhitespaceBetweenDoctypePublicAndSystemIdentifiers)
		t.doctypeHasSystem = true
		t.doctypeSystem.Reset()
		t.state = DOCTYPESystemIdentifierDoubleQuotedState
	case r == '\'':
		t.reportError(errors.MissingWhitespaceBetweenDoctypePublicAndSystemIdentifiers)
		t.doctypeHasSystem = true
		t.doctypeSystem.Reset()
		t.state = DOCTYPESystemIdentifierSingleQuotedState
	default:
		t.reportError(errors.MissingQuoteBeforeDoctypeSystemIdentifier)
		t.doctypeForceQuirks = true
		t.reconsumeIn(BogusDOCTYPEState)
	}
}

func (t *Tokenizer) stepBetweenDoctypePublicAndSystemIdentifiers() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		// ignore
	case r == '>':
		t.emitDoctype()
		t.state = DataState
	case r == '"':
		t.doctypeHasSystem = true
		t.doctypeSystem.Reset()
		t.state = DOCTYPESystemIdentifierDoubleQuotedState
	case r == '\'':
		t.doctypeHasSystem = true
		t.doctypeSystem.Reset()
		t.state = DOCTYPESystemIdentifierSingleQuotedState
	default:
		t.reportError(errors.MissingQuoteBeforeDoctypeSystemIdentifier)
		t.doctypeForceQuirks = true
		t.reconsumeIn(BogusDOCTYPEState)
	}
}

func (t *Tokenizer) stepAfterDoctypeSystemKeyword() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		t.state = BeforeDOCTYPESystemIdentifierState
	case r == '"':
		t.reportError(errors.MissingWhitespaceAfterDoctypeSystemKeyword)
		t.doctypeHasSystem = true
		t.doctypeSystem.Reset()
		t.state = DOCTYPESystemIdentifierDoubleQuotedState
	case r == '\'':
		t.reportError(errors.MissingWhitespaceAfterDoctypeSystemKeyword)
		t.doctypeHasSystem = true
		t.doctypeSystem.Reset()
		t.state = DOCTYPESystemIdentifierSingleQuotedState
	case r == '>':
		t.reportError(errors.MissingDoctypeSystemIdentifier)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.state = DataState
	default:
		t.reportError(errors.MissingQuoteBeforeDoctypeSystemIdentifier)
		t.doctypeForceQuirks = true
		t.reconsumeIn(BogusDOCTYPEState)
	}
}

func (t *Tokenizer) stepBeforeDoctypeSystemIdentifier() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		// ignore
	case r == '"':
		t.doctypeHasSystem = true
		t.doctypeSystem.Reset()
		t.state = DOCTYPESystemIdentifierDoubleQuotedState
	case r == '\'':
		t.doctypeHasSystem = true
		t.doctypeSystem.Reset()
		t.state = DOCTYPESystemIdentifierSingleQuotedState
	case r == '>':
		t.reportError(errors.MissingDoctypeSystemIdentifier)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.state = DataState
	default:
		t.reportError(errors.MissingQuoteBeforeDoctypeSystemIdentifier)
		t.doctypeForceQuirks = true
		t.reconsumeIn(BogusDOCTYPEState)
	}
}

func (t *Tokenizer) stepDoctypeSystemIdentifierQuoted(quote rune) {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case quote:
		t.state = AfterDOCTYPESystemIdentifierState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
		t.doctypeSystem.WriteRune('�')
	case '>':
		t.reportError(errors.AbruptDoctypeSystemIdentifier)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.state = DataState
	default:
		t.doctypeSystem.WriteRune(r)
	}
}

func (t *Tokenizer) stepAfterDoctypeSystemIdentifier() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInDoctype)
		t.doctypeForceQuirks = true
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch {
	case constants.IsWhitespace(r):
		// ignore
	case r == '>':
		t.emitDoctype()
		t.state = DataState
	default:
		t.reportError(errors.UnexpectedCharacterAfterDoctypeSystemIdentifier)
		t.reconsumeIn(BogusDOCTYPEState)
	}
}

func (t *Tokenizer) stepBogusDoctype() {
	r, ok := t.consume()
	if !ok {
		t.emitDoctype()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	switch r {
	case '>':
		t.emitDoctype()
		t.state = DataState
	case 0:
		t.reportError(errors.UnexpectedNullCharacter)
	default:
		// ignore
	}
}

// -- CDATA section ----------------------------------------------------------

func (t *Tokenizer) stepCDATASection() {
	r, ok := t.consume()
	if !ok {
		t.reportError(errors.EOFInCDATA)
		t.flushText()
		t.emit(Token{Type: EOF})
		t.atEOF = true
		return
	}
	if r == ']' {
		t.state = CDATASectionBracketState
		return
	}
	t.emitChar(r)
}

func (t *Tokenizer) stepCDATASectionBracket() {
	r, ok := t.cur.current()
	if ok && r == ']' {
		t.cur.advance()
		t.state = CDATASectionEndState
		return
	}
	t.emitChar(']')
	t.reconsumeIn(CDATASectionState)
}

func (t *Tokenizer) stepCDATASectionEnd() {
	r, ok := t.cur.current()
	switch {
	case ok && r == ']':
		t.cur.advance()
		t.emitChar(']')
	case ok && r == '>':
		t.cur.advance()
		t.state = DataState
	default:
		t.emitChar(']')
		t.emitChar(']')
		t.reconsumeIn(CDATASectionState)
	}
}

// -- Character references ----------------------------------------------------

func (t *Tokenizer) stepCharacterReference() {
	t.charRefStart.Reset()
	t.charRefStart.WriteRune('&')
	r, ok := t.cur.current()
	switch {
	case ok && isASCIIAlphaNum(r):
		t.tempBuffer.Reset()
		t.reconsumeIn(NamedCharacterReferenceState)
	case ok && r == '#':
		t.cur.advance()
		t.charRefStart.WriteRune('#')
		t.tempBuffer.Reset()
		t.tempBuffer.WriteRune('#')
		t.state = NumericCharacterReferenceState
	default:
		t.flushCharRefAsText()
		t.state = t.returnTo
	}
}

func (t *Tokenizer) flushCharRefAsText() {
	t.appendReturnedText(t.charRefStart.String())
}

// appendReturnedText writes s either to the text buffer or into the
// attribute value under construction, depending on returnTo.
func (t *Tokenizer) appendReturnedText(s string) {
	switch t.returnTo {
	case AttributeValueDoubleQuotedState, AttributeValueSingleQuotedState, AttributeValueUnquotedState:
		t.attrValue.WriteString(s)
	default:
		t.textBuffer.WriteString(s)
	}
}

func (t *Tokenizer) appendReturnedRune(r rune) {
	t.appendReturnedText(string(r))
}

func (t *Tokenizer) stepNamedCharacterReference() {
	match, consumed, matchedSemicolon := lookupNamedReference(t.cur.remaining())
	if match == "" {
		t.flushCharRefAsText()
		t.state = AmbiguousAmpersandState
		return
	}
	t.cur.advanceBy(consumed)
	if !matchedSemicolon {
		// If the character after the match is '=' or alphanumeric and we
		// are in an attribute, consume as-is (historical compatibility).
		next, hasNext := t.cur.current()
		inAttr := t.returnTo == AttributeValueDoubleQuotedState || t.returnTo == AttributeValueSingleQuotedState || t.returnTo == AttributeValueUnquotedState
		if inAttr && hasNext && (next == '=' || isASCIIAlphaNum(next)) {
			t.appendReturnedText("&" + t.cur.sliceBack(consumed))
			t.state = t.returnTo
			return
		}
		t.reportError(errors.MissingSemicolonAfterCharacterReference)
	}
	t.appendReturnedText(match)
	t.state = t.returnTo
}

func (t *Tokenizer) stepAmbiguousAmpersand() {
	r, ok := t.cur.current()
	if ok && isASCIIAlphaNum(r) {
		t.cur.advance()
		t.appendReturnedRune(r)
		return
	}
	if ok && r == ';' {
		t.cur.advance()
		t.reportError(errors.UnknownNamedCharacterReference)
		t.appendReturnedRune(';')
		t.state = t.returnTo
		return
	}
	t.state = t.returnTo
}

func (t *Tokenizer) stepNumericCharacterReference() {
	t.charRefCode = 0
	r, ok := t.cur.current()
	switch {
	case ok && (r == 'x' || r == 'X'):
		t.cur.advance()
		t.tempBuffer.WriteRune(r)
		t.state = HexadecimalCharacterReferenceStartState
	default:
		t.state = DecimalCharacterReferenceStartState
	}
}

func (t *Tokenizer) stepHexadecimalCharacterReferenceStart() {
	r, ok := t.cur.current()
	if ok && isHexDigit(r) {
		t.reconsumeIn(HexadecimalCharacterReferenceState)
		return
	}
	t.reportError(errors.AbsenceOfDigitsInNumericCharReference)
	t.flushCharRefAsText()
	t.appendReturnedText(t.tempBuffer.String())
	t.state = t.returnTo
}

func (t *Tokenizer) stepDecimalCharacterReferenceStart() {
	r, ok := t.cur.current()
	if ok && isASCIIDigit(r) {
		t.reconsumeIn(DecimalCharacterReferenceState)
		return
	}
	t.reportError(errors.AbsenceOfDigitsInNumericCharReference)
	t.flushCharRefAsText()
	t.appendReturnedText(t.tempBuffer.String())
	t.state = t.returnTo
}

func (t *Tokenizer) stepHexadecimalCharacterReference() {
	r, ok := t.consume()
	if ok && isASCIIDigit(r) {
		t.charRefCode = t.charRefCode*16 + int(r-'0')
		return
	}
	if ok && r >= 'a' && r <= 'f' {
		t.charRefCode = t.charRefCode*16 + int(r-'a') + 10
		return
	}
	if ok && r >= 'A' && r <= 'F' {
		t.charRefCode = t.charRefCode*16 + int(r-'A') + 10
		return
	}
	if ok && r == ';' {
		t.state = NumericCharacterReferenceEndState
		return
	}
	t.reportError(errors.MissingSemicolonAfterCharacterReference)
	t.reconsumeIn(NumericCharacterReferenceEndState)
}

func (t *Tokenizer) stepDecimalCharacterReference() {
	r, ok := t.consume()
	if ok && isASCIIDigit(r) {
		t.charRefCode = t.charRefCode*10 + int(r-'0')
		return
	}
	if ok && r == ';' {
		t.state = NumericCharacterReferenceEndState
		return
	}
	t.reportError(errors.MissingSemicolonAfterCharacterReference)
	t.reconsumeIn(NumericCharacterReferenceEndState)
}

func (t *Tokenizer) stepNumericCharacterReferenceEnd() {
	code := t.charRefCode
	switch {
	case code == 0:
		t.reportError(errors.NullCharacterReference)
		code = 0xFFFD
	case code > 0x10FFFF:
		t.reportError(errors.CharacterReferenceOutsideUnicodeRange)
		code = 0xFFFD
	case isSurrogate(rune(code)):
		t.reportError(errors.SurrogateCharacterReference)
		code = 0xFFFD
	case isNoncharacter(rune(code)):
		t.reportError(errors.NoncharacterCharacterReference)
	case code == 0x0D || (code < 0x20 && code != 0x09 && code != 0x0A && code != 0x0C) || (code >= 0x7F && code <= 0x9F):
		if replacement, ok := numericReplacements[code]; ok {
			t.reportError(errors.ControlCharacterReference)
			code = int(replacement)
		} else if code >= 0x7F && code <= 0x9F {
			t.reportError(errors.ControlCharacterReference)
		} else {
			t.reportError(errors.ControlCharacterReference)
		}
	}
	t.appendReturnedRune(rune(code))
	t.state = t.returnTo
}

// -- helpers ------------------------------------------------------------

func isASCIIAlpha(r rune) bool    { return constants.IsASCIIAlpha(r) }
func isASCIIDigit(r rune) bool    { return r >= '0' && r <= '9' }
func isASCIIAlphaNum(r rune) bool { return constants.IsASCIIAlphaNum(r) }
func isHexDigit(r rune) bool {
	return isASCIIDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
