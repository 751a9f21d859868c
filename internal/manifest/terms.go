package manifest

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// valueKey holds a term's text when the term is written as a mapping.
const valueKey = "value"

// Term is one metadata value with its qualifiers, such as role or scheme.
type Term struct {
	Value      string
	Qualifiers map[string]string
}

// Role returns the role qualifier.
func (t Term) Role() string { return t.Qualifiers["role"] }

// Terms accepts a scalar, a list of scalars, or a list of mappings with a
// "value" key plus qualifiers:
//
//	title: My Book
//	creator: [Ada, Grace]
//	contributor:
//	  - {value: Print Shop, role: bkp}
type Terms []Term

// Values returns the text of every term.
func (ts Terms) Values() []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Value
	}
	return out
}

// UnmarshalYAML implements the YAML library's interface unmarshaler.
func (ts *Terms) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*ts = nil
		return nil
	case []any:
		out := make(Terms, 0, len(v))
		for i, item := range v {
			t, err := termFrom(item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, t)
		}
		*ts = out
		return nil
	default:
		t, err := termFrom(v)
		if err != nil {
			return err
		}
		*ts = Terms{t}
		return nil
	}
}

func termFrom(item any) (Term, error) {
	m, ok := asMap(item)
	if !ok {
		s, err := scalar(item)
		if err != nil {
			return Term{}, err
		}
		return Term{Value: s}, nil
	}

	t := Term{}
	// Sorted for deterministic error messages.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s, err := scalar(m[k])
		if err != nil {
			return Term{}, fmt.Errorf("%s: %w", k, err)
		}
		if k == valueKey {
			t.Value = s
			continue
		}
		if t.Qualifiers == nil {
			t.Qualifiers = make(map[string]string, len(m)-1)
		}
		t.Qualifiers[k] = s
	}
	if _, ok := m[valueKey]; !ok {
		return Term{}, fmt.Errorf("term mapping needs a %q key", valueKey)
	}
	return t, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func scalar(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case bool:
		return strconv.FormatBool(s), nil
	case int, int64, uint64, uint, int32:
		return fmt.Sprint(s), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case time.Time:
		if s.Hour() == 0 && s.Minute() == 0 && s.Second() == 0 && s.Nanosecond() == 0 {
			return s.Format(time.DateOnly), nil
		}
		return s.Format(time.RFC3339), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("expected a scalar, got %T", v)
}
