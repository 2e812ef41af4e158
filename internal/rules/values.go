package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/validate"
)

// Values are the resolved, coerced field values for one rule.
type Values struct {
	profile *Profile
	values  map[Field]any
}

// Has reports whether f resolved to a value (from the document or a default).
func (v Values) Has(f Field) bool {
	_, ok := v.values[f]
	return ok
}

// String returns f as a string, or "" when absent.
func (v Values) String(f Field) string {
	s, _ := v.values[f].(string)
	return s
}

// Bool returns f as a bool, or false when absent.
func (v Values) Bool(f Field) bool {
	b, _ := v.values[f].(bool)
	return b
}

// List returns f as a string list, or nil when absent.
func (v Values) List(f Field) []string {
	l, _ := v.values[f].([]string)
	return l
}

// Raw returns f uncoerced.
func (v Values) Raw(f Field) any {
	return v.values[f]
}

// Label returns the document path of f for use in messages.
func (v Values) Label(f Field) string {
	if v.profile != nil {
		if path := v.profile.Path(f); path != "" {
			return path
		}
	}
	return string(f)
}

// Extract resolves fields through the profile. Required fields, and optional
// fields the profile marks required, fail with MissingKeyError when neither
// the document nor the profile defaults supply them. Optional fields without a
// path in the profile are absent.
func Extract(doc config.Document, p *Profile, required, optional []Field) (Values, error) {
	v := Values{profile: p, values: make(map[Field]any, len(required)+len(optional))}

	for _, f := range required {
		if err := v.resolve(doc, f, true); err != nil {
			return Values{}, err
		}
	}
	for _, f := range optional {
		if err := v.resolve(doc, f, p.Requires(f)); err != nil {
			return Values{}, err
		}
	}
	return v, nil
}

// Peek resolves fields without any requirement. Only a value of the wrong
// kind is an error.
func Peek(doc config.Document, p *Profile, fields ...Field) (Values, error) {
	v := Values{profile: p, values: make(map[Field]any, len(fields))}
	for _, f := range fields {
		if err := v.resolve(doc, f, false); err != nil {
			return Values{}, err
		}
	}
	return v, nil
}

func (v Values) resolve(doc config.Document, f Field, mandatory bool) error {
	p := v.profile
	path := p.Path(f)
	if path == "" {
		if mandatory {
			return &validate.MissingKeyError{Path: string(f)}
		}
		return nil
	}

	raw, ok := config.Lookup(doc, path)
	if !ok {
		raw, ok = p.Defaults[f]
	}
	if !ok {
		if mandatory {
			return &validate.MissingKeyError{Path: path}
		}
		return nil
	}

	value, err := coerce(f, path, raw)
	if err != nil {
		return err
	}
	v.values[f] = value
	return nil
}

// coerce converts a decoded YAML value to the kind declared for f.
func coerce(f Field, path string, raw any) (any, error) {
	switch KindOf(f) {
	case KindBool:
		switch t := raw.(type) {
		case bool:
			return t, nil
		case string:
			b, err := strconv.ParseBool(t)
			if err == nil {
				return b, nil
			}
		}
		return nil, &validate.SyntaxError{Field: path, Value: fmt.Sprint(raw), Expected: "a boolean"}

	case KindStringList:
		switch t := raw.(type) {
		case string:
			parts := strings.Split(t, ",")
			out := make([]string, 0, len(parts))
			for _, part := range parts {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			return out, nil
		case []string:
			return t, nil
		case []any:
			out := make([]string, 0, len(t))
			for _, item := range t {
				s, ok := scalar(item)
				if !ok {
					return nil, &validate.SyntaxError{Field: path, Value: fmt.Sprint(raw), Expected: "a list of strings"}
				}
				out = append(out, s)
			}
			return out, nil
		}
		return nil, &validate.SyntaxError{Field: path, Value: fmt.Sprint(raw), Expected: "a list or comma-separated string"}

	case KindRaw:
		return raw, nil

	default:
		s, ok := scalar(raw)
		if !ok {
			value := fmt.Sprint(raw)
			return nil, &validate.SyntaxError{Field: path, Value: value, Expected: "a string", Secret: IsSecret(f)}
		}
		return s, nil
	}
}

// scalar renders YAML scalars as strings. Numbers and booleans are accepted
// because YAML decodes unquoted values like 123 or true as non-strings.
func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}
