// Package encoding sniffs the character encoding of an HTML byte stream
// per WHATWG HTML §13.2.3.2, covering the BOM and <meta charset> signals a
// caller actually needs to locate a document's encoding. It does not carry
// a general-purpose charset transcoding table — callers that need
// non-UTF-8, non-windows-1252 decoding should decode the bytes themselves
// before calling arbor.Parse.
package encoding

import (
	"bytes"
	"strings"
)

// Label names a detected or requested character encoding.
type Label string

const (
	UTF8        Label = "utf-8"
	Windows1252 Label = "windows-1252"
)

// Decode decodes raw HTML bytes to a string, returning the label that was
// used. Detection follows WHATWG HTML §13.2.3.2, in priority order:
//
//  1. a byte-order mark
//  2. an explicit hint (e.g. a transport Content-Type charset)
//  3. a <meta charset> or <meta http-equiv=Content-Type> declaration in
//     the first 1024 bytes
//  4. windows-1252, the HTML spec's own fallback
//
// Only UTF-8 and windows-1252 are decoded; any other detected label is
// reported back to the caller with the bytes decoded as windows-1252, so
// the caller can re-decode with a fuller transcoding library if needed.
func Decode(data []byte, hint string) (string, Label, error) {
	if enc, rest := detectBOM(data); enc != "" {
		return decode(rest, enc), enc, nil
	}
	if hint != "" {
		if enc := normalizeLabel(hint); enc != "" {
			return decode(data, enc), enc, nil
		}
	}
	if enc := prescanMetaCharset(data); enc != "" {
		return decode(data, enc), enc, nil
	}
	return decode(data, Windows1252), Windows1252, nil
}

func decode(data []byte, enc Label) string {
	switch enc {
	case UTF8:
		return string(data)
	default:
		var sb strings.Builder
		sb.Grow(len(data))
		for _, b := range data {
			if b >= 0x80 && b <= 0x9F {
				sb.WriteRune(windows1252C1[b-0x80])
			} else {
				sb.WriteRune(rune(b))
			}
		}
		return sb.String()
	}
}

func detectBOM(data []byte) (Label, []byte) {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return UTF8, data[3:]
	}
	return "", data
}

func normalizeLabel(label string) Label {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8", "unicode-1-1-utf-8":
		return UTF8
	case "windows-1252", "windows1252", "cp1252", "x-cp1252", "iso-8859-1",
		"iso8859-1", "latin1", "latin-1", "us-ascii", "ascii":
		return Windows1252
	default:
		return ""
	}
}

// prescanMetaCharset implements the WHATWG "prescan a byte stream to
// determine its encoding" algorithm, trimmed to the charset= and
// http-equiv=Content-Type forms, scanning at most the first 1024 bytes
// (comments are not skipped).
func prescanMetaCharset(data []byte) Label {
	const maxScan = 1024
	n := len(data)
	if n > maxScan {
		n = maxScan
	}
	window := data[:n]

	lower := bytes.ToLower(window)
	idx := 0
	for {
		rel := bytes.Index(lower[idx:], []byte("<meta"))
		if rel == -1 {
			return ""
		}
		start := idx + rel
		end := bytes.IndexByte(window[start:], '>')
		if end == -1 {
			return ""
		}
		tag := window[start : start+end]
		tagLower := lower[start : start+end]

		if enc := charsetAttr(tag, tagLower); enc != "" {
			if normalized := normalizeLabel(enc); normalized != "" {
				return normalized
			}
		}
		if enc := contentTypeCharset(tag, tagLower); enc != "" {
			if normalized := normalizeLabel(enc); normalized != "" {
				return normalized
			}
		}
		idx = start + end + 1
		if idx >= len(window) {
			return ""
		}
	}
}

func charsetAttr(tag, tagLower []byte) string {
	idx := bytes.Index(tagLower, []byte("charset"))
	if idx == -1 {
		return ""
	}
	return attrValueAfter(tag, tagLower, idx+len("charset"))
}

func contentTypeCharset(tag, tagLower []byte) string {
	if !bytes.Contains(tagLower, []byte("content-type")) {
		return ""
	}
	idx := bytes.Index(tagLower, []byte("content"))
	if idx == -1 {
		return ""
	}
	value := attrValueAfter(tag, tagLower, idx+len("content"))
	lowerValue := strings.ToLower(value)
	at := strings.Index(lowerValue, "charset=")
	if at == -1 {
		return ""
	}
	rest := value[at+len("charset="):]
	rest = strings.Trim(rest, `"' `)
	if semi := strings.IndexByte(rest, ';'); semi != -1 {
		rest = rest[:semi]
	}
	return strings.TrimSpace(rest)
}

func attrValueAfter(tag, tagLower []byte, pos int) string {
	n := len(tagLower)
	for pos < n && tagLower[pos] == ' ' {
		pos++
	}
	if pos >= n || tagLower[pos] != '=' {
		return ""
	}
	pos++
	for pos < n && tagLower[pos] == ' ' {
		pos++
	}
	if pos >= n {
		return ""
	}
	if tag[pos] == '"' || tag[pos] == '\'' {
		quote := tag[pos]
		pos++
		endRel := bytes.IndexByte(tag[pos:], quote)
		if endRel == -1 {
			return ""
		}
		return string(tag[pos : pos+endRel])
	}
	start := pos
	for pos < n && tagLower[pos] != ' ' && tagLower[pos] != '>' {
		pos++
	}
	return string(tag[start:pos])
}

// windows1252C1 maps bytes 0x80-0x9F to their windows-1252 code points,
// where they diverge from ISO-8859-1's C1 control range.
var windows1252C1 = [32]rune{
	0x20AC, 0x0081, 0x201A, 0x0192, 0x201E, 0x2026, 0x2020, 0x2021,
	0x02C6, 0x2030, 0x0160, 0x2039, 0x0152, 0x008D, 0x017D, 0x008F,
	0x0090, 0x2018, 0x2019, 0x201C, 0x201D, 0x2022, 0x2013, 0x2014,
	0x02DC, 0x2122, 0x0161, 0x203A, 0x0153, 0x009D, 0x017E, 0x0178,
}
