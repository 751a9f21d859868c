package pdf

import (
	"bytes"
	"testing"
	"time"
)

func TestTextString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantHex bool
	}{
		{"ascii stays literal", "My Book (2nd ed.)", false},
		{"empty stays literal", "", false},
		{"accents use UTF-16", "Café", true},
		{"non-latin uses UTF-16", "日本語の本", true},
		{"control char uses UTF-16", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			obj := TextString(tt.input)
			switch v := obj.(type) {
			case HexString:
				if !tt.wantHex {
					t.Errorf("TextString(%q) is hex, want literal", tt.input)
				}
				if !bytes.HasPrefix(v, []byte{0xFE, 0xFF}) {
					t.Errorf("TextString(%q) = %X, want a UTF-16BE BOM", tt.input, []byte(v))
				}
			case String:
				if tt.wantHex {
					t.Errorf("TextString(%q) is literal, want UTF-16", tt.input)
				}
			default:
				t.Fatalf("TextString(%q) = %T", tt.input, obj)
			}
			if got := DecodeText(obj); got != tt.input {
				t.Errorf("DecodeText(TextString(%q)) = %q", tt.input, got)
			}
		})
	}
}

func TestTextString_NFC(t *testing.T) {
	t.Parallel()

	decomposed := "Cafe\u0301"
	a, _ := TextString("Café").(HexString)
	b, _ := TextString(decomposed).(HexString)
	if !bytes.Equal(a, b) {
		t.Errorf("decomposed input encodes to %X, want %X", []byte(b), []byte(a))
	}
	if got := DecodeText(TextString(decomposed)); got != "Café" {
		t.Errorf("DecodeText() = %q, want Café", got)
	}
}

func TestDecodeText_PDFDocEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		obj  Object
		want string
	}{
		{String{0x80, ' ', 'x', ' ', 0xA0}, "• x €"},
		{String{0xE9}, "é"},
		{String{0xEF, 0xBB, 0xBF, 'o', 'k'}, "ok"},
		{Int(3), ""},
	}
	for _, tt := range tests {
		if got := DecodeText(tt.obj); got != tt.want {
			t.Errorf("DecodeText(%#v) = %q, want %q", tt.obj, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"utc", time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC), "D:20240309140506Z"},
		{"east", time.Date(2024, 3, 9, 14, 5, 6, 0, time.FixedZone("", 2*3600)), "D:20240309140506+02'00'"},
		{"west half hour", time.Date(2024, 12, 31, 23, 59, 0, 0, time.FixedZone("", -(3*3600 + 1800))), "D:20241231235900-03'30'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatDate(tt.t); got != tt.want {
				t.Errorf("FormatDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"D:20240309140506Z", time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC), true},
		{"D:20240309140506+02'00'", time.Date(2024, 3, 9, 12, 5, 6, 0, time.UTC), true},
		{"D:20241231235900-03'30'", time.Date(2025, 1, 1, 3, 29, 0, 0, time.UTC), true},
		{"D:2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"20240309", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), true},
		{"D:", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := parseDate(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("parseDate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	// Formatting and parsing agree.
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.FixedZone("", 5*3600+1800))
	if got, ok := parseDate(FormatDate(now)); !ok || !got.Equal(now) {
		t.Errorf("parseDate(FormatDate(t)) = %v, want %v", got, now)
	}
}
