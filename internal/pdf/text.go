package pdf

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

var utf16BOM = []byte{0xFE, 0xFF}

// TextString encodes s as a PDF text string. Printable ASCII is kept as a
// literal string; anything else becomes NFC-normalized UTF-16BE with a byte
// order mark.
func TextString(s string) Object {
	if isPlainText(s) {
		return String(s)
	}
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	out, err := enc.Bytes([]byte(norm.NFC.String(s)))
	if err != nil {
		// Invalid UTF-8 input; the encoder already replaced what it could.
		return String(s)
	}
	return HexString(out)
}

func isPlainText(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 0x20 || c > 0x7E) && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

// DecodeText returns the Go string held by a String or HexString text
// object, undoing UTF-16BE, UTF-8 (with BOM) or PDFDocEncoding.
func DecodeText(o Object) string {
	var b []byte
	switch v := o.(type) {
	case String:
		b = v
	case HexString:
		b = v
	default:
		return ""
	}

	if bytes.HasPrefix(b, utf16BOM) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	if utf8 := []byte{0xEF, 0xBB, 0xBF}; bytes.HasPrefix(b, utf8) {
		return string(b[len(utf8):])
	}

	var sb strings.Builder
	for _, c := range b {
		if r, ok := pdfDocHigh[c]; ok {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// pdfDocHigh lists the PDFDocEncoding code points that differ from Latin-1.
var pdfDocHigh = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1A: 'ˆ', 0x1B: '˙',
	0x1C: '˝', 0x1D: '˛', 0x1E: '˚', 0x1F: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
	0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰',
	0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
	0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł',
	0x9C: 'œ', 0x9D: 'š', 0x9E: 'ž', 0xA0: '€',
}
