// Package dateutil resolves "auto" date values and parses the W3C-DTF
// dates carried by publication metadata.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for date handling.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDate       = errors.New("invalid date")
)

// maxFormatLength bounds "auto:FORMAT" values read from manifests.
const maxFormatLength = 50

// autoPrefix introduces a date resolved at load time.
const autoPrefix = "auto"

// Presets name the W3C-DTF granularities usable after "auto:". Each one
// yields a value ParseW3CDate accepts.
var Presets = map[string]string{
	"year":     "2006",
	"month":    "2006-01",
	"day":      "2006-01-02",
	"datetime": time.RFC3339,
}

// defaultPreset is used by a bare "auto".
const defaultPreset = "day"

// formatTokens maps manifest tokens to Go layout fragments, longest first.
var formatTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"hh", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// layoutFor converts a token format such as "YYYY-MM-DD" to a Go layout.
// Text in brackets is copied literally; other characters pass through.
func layoutFor(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: empty format", ErrInvalidDateFormat)
	}
	if len(format) > maxFormatLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidDateFormat, maxFormatLength)
	}

	var b strings.Builder
	for rest := format; rest != ""; {
		if rest[0] == '[' {
			lit, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, format)
			}
			b.WriteString(lit)
			rest = after
			continue
		}
		n := 1
		frag := rest[:1]
		for _, t := range formatTokens {
			if strings.HasPrefix(rest, t.token) {
				n, frag = len(t.token), t.layout
				break
			}
		}
		b.WriteString(frag)
		rest = rest[n:]
	}
	return b.String(), nil
}

// ResolveDate expands "auto" values against now:
//
//	auto            2024-03-09
//	auto:month      2024-03
//	auto:datetime   2024-03-09T14:05:06Z
//	auto:YYYY-MM    2024-03
//
// Any other value is returned unchanged. The keyword and preset names are
// case-insensitive.
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, autoPrefix) {
		return value, nil
	}
	if lower == autoPrefix {
		return now.Format(Presets[defaultPreset]), nil
	}

	if !strings.HasPrefix(lower, autoPrefix+":") {
		return "", fmt.Errorf("%w: %q, want \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}
	format := value[len(autoPrefix)+1:]
	if layout, ok := Presets[strings.ToLower(format)]; ok {
		return now.Format(layout), nil
	}
	layout, err := layoutFor(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}

// w3cLayouts are the W3C-DTF granularities, most precise first. RFC 3339
// parsing also accepts fractional seconds.
var w3cLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04Z07:00", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02", false},
	{"2006-01", false},
	{"2006", false},
}

// ParseW3CDate parses a W3C-DTF (ISO 8601 profile) date such as "2024",
// "2024-03", "2024-03-09", "2024-03-09T14:05+02:00" or
// "2024-03-09T14:05:06.5Z". Values without a zone are read in loc, or UTC
// when loc is nil.
func ParseW3CDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, l := range w3cLayouts {
		var t time.Time
		var err error
		if l.zoned {
			t, err = time.Parse(l.layout, value)
		} else {
			t, err = time.ParseInLocation(l.layout, value, loc)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a W3C-DTF date", ErrInvalidDate, value)
}
