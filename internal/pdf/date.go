package pdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDate renders t as a PDF date string, D:YYYYMMDDHHmmSS followed by
// the UTC offset as +HH'mm' (or Z for UTC).
func FormatDate(t time.Time) string {
	s := "D:" + t.Format("20060102150405")
	_, offset := t.Zone()
	if offset == 0 {
		return s + "Z"
	}
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%s%c%02d'%02d'", s, sign, offset/3600, offset%3600/60)
}

// dateFields are the widths of YYYY MM DD HH mm SS; every field after the
// year is optional.
var dateFields = []int{4, 2, 2, 2, 2, 2}

// parseDate reads a PDF date string. Missing fields default to the start
// of their range and a missing offset means UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D:")
	v := []int{0, 1, 1, 0, 0, 0}
	for i, width := range dateFields {
		if len(s) < width || s[0] < '0' || s[0] > '9' {
			if i == 0 {
				return time.Time{}, false
			}
			break
		}
		n, err := strconv.Atoi(s[:width])
		if err != nil {
			return time.Time{}, false
		}
		v[i] = n
		s = s[width:]
	}

	loc := time.UTC
	if s != "" && (s[0] == '+' || s[0] == '-') {
		parts := strings.Split(strings.TrimSuffix(s[1:], "'"), "'")
		hours, err := strconv.Atoi(parts[0])
		if err != nil {
			return time.Time{}, false
		}
		minutes := 0
		if len(parts) > 1 && parts[1] != "" {
			if minutes, err = strconv.Atoi(parts[1]); err != nil {
				return time.Time{}, false
			}
		}
		offset := hours*3600 + minutes*60
		if s[0] == '-' {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}
	return time.Date(v[0], time.Month(v[1]), v[2], v[3], v[4], v[5], 0, loc), true
}
