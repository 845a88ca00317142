package tokenizer

import (
	"strings"

	"github.com/arbortree/arbor/internal/constants"
)

// lookupNamedReference performs the longest-prefix match the
// NamedCharacterReference state requires: remaining is every code point
// from just after the '&', and the result is the expansion, the number of
// code points consumed from remaining, and whether the match ended in a
// ';'. An empty match string means no named reference matched at all.
func lookupNamedReference(remaining string) (match string, consumed int, matchedSemicolon bool) {
	runes := []rune(remaining)
	limit := len(runes)
	if limit > constants.MaxNamedEntityKeyLen {
		limit = constants.MaxNamedEntityKeyLen
	}
	for l := limit; l >= 1; l-- {
		key := string(runes[:l])
		if val, ok := constants.NamedEntities[key]; ok {
			return val, l, strings.HasSuffix(key, ";")
		}
	}
	return "", 0, false
}

// numericReplacements is the WHATWG C1-control override table applied when
// a numeric character reference resolves to one of the Windows-1252 code
// points historically misinterpreted as C1 controls.
var numericReplacements = map[int]rune{
	0x80: '€', // EURO SIGN
	0x82: '‚', // SINGLE LOW-9 QUOTATION MARK
	0x83: 'ƒ', // LATIN SMALL LETTER F WITH HOOK
	0x84: '„', // DOUBLE LOW-9 QUOTATION MARK
	0x85: '…', // HORIZONTAL ELLIPSIS
	0x86: '†', // DAGGER
	0x87: '‡', // DOUBLE DAGGER
	0x88: 'ˆ', // MODIFIER LETTER CIRCUMFLEX ACCENT
	0x89: '‰', // PER MILLE SIGN
	0x8A: 'Š', // LATIN CAPITAL LETTER S WITH CARON
	0x8B: '‹', // SINGLE LEFT-POINTING ANGLE QUOTATION MARK
	0x8C: 'Œ', // LATIN CAPITAL LIGATURE OE
	0x8E: 'Ž', // LATIN CAPITAL LETTER Z WITH CARON
	0x91: '‘', // LEFT SINGLE QUOTATION MARK
	0x92: '’', // RIGHT SINGLE QUOTATION MARK
	0x93: '“', // LEFT DOUBLE QUOTATION MARK
	0x94: '”', // RIGHT DOUBLE QUOTATION MARK
	0x95: '•', // BULLET
	0x96: '–', // EN DASH
	0x97: '—', // EM DASH
	0x98: '˜', // SMALL TILDE
	0x99: '™', // TRADE MARK SIGN
	0x9A: 'š', // LATIN SMALL LETTER S WITH CARON
	0x9B: '›', // SINGLE RIGHT-POINTING ANGLE QUOTATION MARK
	0x9C: 'œ', // LATIN SMALL LIGATURE OE
	0x9E: 'ž', // LATIN SMALL LETTER Z WITH CARON
	0x9F: 'Ÿ', // LATIN CAPITAL LETTER Y WITH DIAERESIS
}
