package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is an untyped, nested configuration mapping as decoded from YAML.
// Keys are case-sensitive strings; values are scalars, []any or nested Documents.
type Document map[string]any

// LoadDocument reads and decodes a YAML configuration file.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument decodes YAML bytes into a Document. An empty input yields an
// empty Document; a non-mapping top level is an error.
func ParseDocument(data []byte) (Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return Document{}, nil
	}

	m, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level must be a mapping, got %T", raw)
	}
	return Document(m), nil
}

// normalize converts map[any]any (produced for non-string keys) and nested
// Documents into map[string]any so lookups see a single map type.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case Document:
		return normalize(map[string]any(t))
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	return Document(normalize(map[string]any(d)).(map[string]any))
}

// Lookup resolves a dotted path ("a.b.c") by descending nested mappings.
// A key present with a nil value is reported as absent. A literal key that
// itself contains dots is matched before descending.
func Lookup(doc Document, path string) (any, bool) {
	return lookup(map[string]any(doc), path)
}

func lookup(m map[string]any, path string) (any, bool) {
	if m == nil {
		return nil, false
	}
	if v, ok := m[path]; ok {
		return v, v != nil
	}

	head, rest, found := strings.Cut(path, ".")
	if !found {
		return nil, false
	}
	child, ok := m[head]
	if !ok {
		return nil, false
	}
	switch next := child.(type) {
	case map[string]any:
		return lookup(next, rest)
	case Document:
		return lookup(map[string]any(next), rest)
	default:
		return nil, false
	}
}

// Set assigns value at a dotted path, creating intermediate mappings.
// An intermediate non-mapping value is replaced.
func Set(doc Document, path string, value any) {
	m := map[string]any(doc)
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			if d, isDoc := m[part].(Document); isDoc {
				next = map[string]any(d)
			} else {
				next = map[string]any{}
				m[part] = next
			}
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// Massage returns a copy of doc in which every listed path that is absent (or
// nil) holds an empty mapping. The input document is not modified.
func Massage(doc Document, emptyMaps ...string) Document {
	out := doc.Clone()
	for _, path := range emptyMaps {
		if _, ok := Lookup(out, path); !ok {
			Set(out, path, map[string]any{})
		}
	}
	return out
}
