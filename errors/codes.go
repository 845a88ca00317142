package errors

// Error codes as assigned by the WHATWG HTML5 specification.
// See: https://html.spec.whatwg.org/multipage/parsing.html#parse-errors
const (
	// Tokenizer errors.
	AbruptClosingOfEmptyComment                               = "abrupt-closing-of-empty-comment"
	AbruptDoctypePublicIdentifier                             = "abrupt-doctype-public-identifier"
	AbruptDoctypeSystemIdentifier                             = "abrupt-doctype-system-identifier"
	AbsenceOfDigitsInNumericCharReference                     = "absence-of-digits-in-numeric-character-reference"
	CDATAInHTMLContent                                        = "cdata-in-html-content"
	CharacterReferenceOutsideUnicodeRange                     = "character-reference-outside-unicode-range"
	ControlCharacterInInputStream                             = "control-character-in-input-stream"
	ControlCharacterReference                                 = "control-character-reference"
	DuplicateAttribute                                        = "duplicate-attribute"
	EndTagWithAttributes                                      = "end-tag-with-attributes"
	EndTagWithTrailingSolidus                                 = "end-tag-with-trailing-solidus"
	EOFBeforeTagName                                          = "eof-before-tag-name"
	EOFInCDATA                                                = "eof-in-cdata"
	EOFInComment                                               = "eof-in-comment"
	EOFInDoctype                                              = "eof-in-doctype"
	EOFInScriptHTMLCommentLikeText                            = "eof-in-script-html-comment-like-text"
	EOFInTag                                                  = "eof-in-tag"
	IncorrectlyClosedComment                                  = "incorrectly-closed-comment"
	IncorrectlyOpenedComment                                  = "incorrectly-opened-comment"
	InvalidCharacterSequenceAfterDoctypeName                  = "invalid-character-sequence-after-doctype-name"
	InvalidFirstCharacterOfTagName                            = "invalid-first-character-of-tag-name"
	MissingAttributeValue                                     = "missing-attribute-value"
	MissingDoctypeName                                        = "missing-doctype-name"
	MissingDoctypePublicIdentifier                            = "missing-doctype-public-identifier"
	MissingDoctypeSystemIdentifier                            = "missing-doctype-system-identifier"
	MissingEndTagName                                         = "missing-end-tag-name"
	MissingQuoteBeforeDoctypePublicIdentifier                 = "missing-quote-before-doctype-public-identifier"
	MissingQuoteBeforeDoctypeSystemIdentifier                 = "missing-quote-before-doctype-system-identifier"
	MissingSemicolonAfterCharacterReference                   = "missing-semicolon-after-character-reference"
	MissingWhitespaceAfterDoctypePublicKeyword                = "missing-whitespace-after-doctype-public-keyword"
	MissingWhitespaceAfterDoctypeSystemKeyword                = "missing-whitespace-after-doctype-system-keyword"
	MissingWhitespaceBeforeDoctypeName                        = "missing-whitespace-before-doctype-name"
	MissingWhitespaceBetweenAttributes                        = "missing-whitespace-between-attributes"
	MissingWhitespaceBetweenDoctypePublicAndSystemIdentifiers = "missing-whitespace-between-doctype-public-and-system-identifiers"
	NestedComment                                             = "nested-comment"
	NoncharacterCharacterReference                            = "noncharacter-character-reference"
	NoncharacterInInputStream                                 = "noncharacter-in-input-stream"
	NonVoidHtmlElementStartTagWithTrailingSolidus             = "non-void-html-element-start-tag-with-trailing-solidus"
	NullCharacterReference                                    = "null-character-reference"
	SurrogateCharacterReference                               = "surrogate-character-reference"
	SurrogateInInputStream                                    = "surrogate-in-input-stream"
	UnexpectedCharacterAfterDoctypeSystemIdentifier           = "unexpected-character-after-doctype-system-identifier"
	UnexpectedCharacterInAttributeName                        = "unexpected-character-in-attribute-name"
	UnexpectedCharacterInUnquotedAttributeValue               = "unexpected-character-in-unquoted-attribute-value"
	UnexpectedEqualsSignBeforeAttributeName                   = "unexpected-equals-sign-before-attribute-name"
	UnexpectedNullCharacter                                   = "unexpected-null-character"
	UnexpectedQuestionMarkInsteadOfTagName                    = "unexpected-question-mark-instead-of-tag-name"
	UnexpectedSolidusInTag                                    = "unexpected-solidus-in-tag"
	UnknownNamedCharacterReference                            = "unknown-named-character-reference"

	// Tree construction errors.
	NonSpaceCharacterInTableText = "non-space-character-in-table-text"
	FosterParentedCharacter      = "foster-parented-character"
	UnexpectedStartTagIgnored    = "unexpected-start-tag-ignored"
	UnexpectedEndTagIgnored      = "unexpected-end-tag-ignored"
	ExpectedClosingTagButGotEOF  = "expected-closing-tag-but-got-eof"

	// Internal invariant violations, promoted to fatal unconditionally.
	EmptyStackOfOpenElements = "empty-stack-of-open-elements"
	HandleNotFoundInArena    = "handle-not-found-in-arena"
)

var messages = map[string]string{
	AbruptClosingOfEmptyComment:                               "the parser encountered an empty comment that is abruptly closed by U+003E (>)",
	AbruptDoctypePublicIdentifier:                             "the parser encountered U+003E (>) inside a DOCTYPE public identifier",
	AbruptDoctypeSystemIdentifier:                             "the parser encountered U+003E (>) inside a DOCTYPE system identifier",
	AbsenceOfDigitsInNumericCharReference:                     "a numeric character reference contains no digits",
	CDATAInHTMLContent:                                        "a CDATA section was encountered outside foreign content",
	CharacterReferenceOutsideUnicodeRange:                     "a numeric character reference references a code point greater than U+10FFFF",
	ControlCharacterInInputStream:                             "the input stream contains a control character other than ASCII whitespace or NULL",
	ControlCharacterReference:                                 "a numeric character reference references a control character",
	DuplicateAttribute:                                        "an attribute has the same name as an earlier attribute on the same tag",
	EndTagWithAttributes:                                      "an end tag carries attributes",
	EndTagWithTrailingSolidus:                                 "an end tag has a trailing solidus",
	EOFBeforeTagName:                                          "end of stream was reached where a tag name was expected",
	EOFInCDATA:                                                "end of stream was reached inside a CDATA section",
	EOFInComment:                                               "end of stream was reached inside a comment",
	EOFInDoctype:                                              "end of stream was reached inside a DOCTYPE",
	EOFInScriptHTMLCommentLikeText:                            "end of stream was reached inside a script element's comment-like text",
	EOFInTag:                                                  "end of stream was reached inside a tag",
	IncorrectlyClosedComment:                                  "a comment was incorrectly closed",
	IncorrectlyOpenedComment:                                  "a comment was incorrectly opened",
	InvalidCharacterSequenceAfterDoctypeName:                  "an invalid character sequence follows a DOCTYPE name",
	InvalidFirstCharacterOfTagName:                            "a tag name starts with an invalid character",
	MissingAttributeValue:                                     "an attribute name is not followed by a value",
	MissingDoctypeName:                                        "a DOCTYPE has no name",
	MissingDoctypePublicIdentifier:                            "a DOCTYPE is missing its public identifier",
	MissingDoctypeSystemIdentifier:                            "a DOCTYPE is missing its system identifier",
	MissingEndTagName:                                         "an end tag has no name",
	MissingQuoteBeforeDoctypePublicIdentifier:                 "a DOCTYPE public identifier has no leading quote",
	MissingQuoteBeforeDoctypeSystemIdentifier:                 "a DOCTYPE system identifier has no leading quote",
	MissingSemicolonAfterCharacterReference:                   "a character reference is not terminated by a semicolon",
	MissingWhitespaceAfterDoctypePublicKeyword:                "a DOCTYPE is missing whitespace after the PUBLIC keyword",
	MissingWhitespaceAfterDoctypeSystemKeyword:                "a DOCTYPE is missing whitespace after the SYSTEM keyword",
	MissingWhitespaceBeforeDoctypeName:                        "a DOCTYPE is missing whitespace before its name",
	MissingWhitespaceBetweenAttributes:                        "two attributes are not separated by whitespace",
	MissingWhitespaceBetweenDoctypePublicAndSystemIdentifiers: "a DOCTYPE is missing whitespace between its public and system identifiers",
	NestedComment:                                             "a comment contains a nested comment opener",
	NoncharacterCharacterReference:                            "a numeric character reference references a noncharacter",
	NoncharacterInInputStream:                                 "the input stream contains a noncharacter",
	NonVoidHtmlElementStartTagWithTrailingSolidus:             "a non-void HTML element start tag has a trailing solidus",
	NullCharacterReference:                                    "a numeric character reference references U+0000 NULL",
	SurrogateCharacterReference:                               "a numeric character reference references a surrogate",
	SurrogateInInputStream:                                    "the input stream contains a surrogate",
	UnexpectedCharacterAfterDoctypeSystemIdentifier:           "an unexpected character follows a DOCTYPE system identifier",
	UnexpectedCharacterInAttributeName:                        "an unexpected character appears in an attribute name",
	UnexpectedCharacterInUnquotedAttributeValue:               "an unexpected character appears in an unquoted attribute value",
	UnexpectedEqualsSignBeforeAttributeName:                   "an equals sign appears before an attribute name",
	UnexpectedNullCharacter:                                   "an unexpected NULL character was encountered",
	UnexpectedQuestionMarkInsteadOfTagName:                    "a question mark appears where a tag name was expected",
	UnexpectedSolidusInTag:                                    "an unexpected solidus appears inside a tag",
	UnknownNamedCharacterReference:                            "a named character reference is not recognized",
	NonSpaceCharacterInTableText:                               "a non-whitespace character appeared in pending table text",
	FosterParentedCharacter:                                    "a character was foster-parented out of a table",
	UnexpectedStartTagIgnored:                                 "a start tag was ignored in a context where it is not allowed",
	UnexpectedEndTagIgnored:                                   "an end tag was ignored in a context where it is not allowed",
	ExpectedClosingTagButGotEOF:                               "end of stream was reached before a required closing tag",
	EmptyStackOfOpenElements:                                  "a pop was required but the stack of open elements was empty",
	HandleNotFoundInArena:                                     "a node handle did not resolve to any arena slot",
}

// Message returns the human-readable message for an error code, or a
// generic fallback if the code is unrecognized.
func Message(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "unrecognized parse error code: " + code
}
