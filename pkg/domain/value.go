package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Kind discriminates the shapes an answer value can take.
type Kind uint8

const (
	// KindNull is an absent answer.
	KindNull Kind = iota
	// KindSingle is a scalar string answer (single-select or free text).
	KindSingle
	// KindMulti is a list of strings (multi-select).
	KindMulti
	// KindRaw is any other decoded value (number, bool, object, mixed list).
	// It is kept so type mismatches remain reportable.
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindSingle:
		return "single"
	case KindMulti:
		return "multi"
	default:
		return "raw"
	}
}

// Value is an answer as seen by the engine.
// The zero Value is Null.
type Value struct {
	kind  Kind
	str   string
	items []string
	raw   any
}

// Null returns the absent value.
func Null() Value { return Value{} }

// Single wraps a scalar string answer.
func Single(s string) Value { return Value{kind: KindSingle, str: s} }

// Multi wraps a list answer. Multi() is an empty, non-null selection.
func Multi(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindMulti, items: cp}
}

// Raw converts a decoded JSON/YAML value into a Value.
// Strings become Single, lists made only of strings become Multi,
// numbers are normalized to float64 and everything else is kept as Raw.
// A list mixing strings with other types such as ["web", 1] is Raw, not Multi:
// it never completes a multi-select node and validates as "Expected an array.",
// where a loosely typed client would instead report the odd item as an invalid option.
func Raw(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return Single(t)
	case []string:
		return Multi(t...)
	case []any:
		items := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return Value{kind: KindRaw, raw: t}
			}
			items = append(items, s)
		}
		return Value{kind: KindMulti, items: items}
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Value{kind: KindRaw, raw: f}
		}
		return Value{kind: KindRaw, raw: t.String()}
	case int:
		return Value{kind: KindRaw, raw: float64(t)}
	case int8:
		return Value{kind: KindRaw, raw: float64(t)}
	case int16:
		return Value{kind: KindRaw, raw: float64(t)}
	case int32:
		return Value{kind: KindRaw, raw: float64(t)}
	case int64:
		return Value{kind: KindRaw, raw: float64(t)}
	case uint:
		return Value{kind: KindRaw, raw: float64(t)}
	case uint32:
		return Value{kind: KindRaw, raw: float64(t)}
	case uint64:
		return Value{kind: KindRaw, raw: float64(t)}
	case float32:
		return Value{kind: KindRaw, raw: float64(t)}
	default:
		return Value{kind: KindRaw, raw: t}
	}
}

// Kind returns the discriminator.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsZero allows `omitzero` on struct fields.
func (v Value) IsZero() bool { return v.IsNull() }

// Str returns the string of a Single value.
func (v Value) Str() (string, bool) {
	if v.kind != KindSingle {
		return "", false
	}
	return v.str, true
}

// Items returns the list of a Multi value. The slice must not be modified.
func (v Value) Items() ([]string, bool) {
	if v.kind != KindMulti {
		return nil, false
	}
	return v.items, true
}

// Includes reports whether a Multi value contains s.
func (v Value) Includes(s string) bool {
	return v.kind == KindMulti && slices.Contains(v.items, s)
}

// Interface returns the plain Go representation (nil, string, []string or the raw value).
func (v Value) Interface() any {
	switch v.kind {
	case KindSingle:
		return v.str
	case KindMulti:
		return slices.Clone(v.items)
	case KindRaw:
		return v.raw
	default:
		return nil
	}
}

// StrictEqual compares two values without coercion.
// Lists and objects are never equal to anything, scalars compare by kind and content.
func (v Value) StrictEqual(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindSingle:
		return v.str == other.str
	case KindRaw:
		switch x := v.raw.(type) {
		case float64:
			y, ok := other.raw.(float64)
			return ok && x == y
		case bool:
			y, ok := other.raw.(bool)
			return ok && x == y
		case string:
			y, ok := other.raw.(string)
			return ok && x == y
		}
		return false
	default:
		return false
	}
}

// Text renders the value for humans.
func (v Value) Text() string {
	switch v.kind {
	case KindSingle:
		return v.str
	case KindMulti:
		return strings.Join(v.items, ", ")
	case KindRaw:
		return fmt.Sprintf("%v", v.raw)
	default:
		return ""
	}
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "<null>"
	}
	return v.Text()
}

// MarshalJSON encodes the plain representation.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindMulti && v.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid answer value: %w", err)
	}
	*v = Raw(raw)
	return nil
}

// MarshalYAML encodes the plain representation.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// UnmarshalYAML decodes any YAML value.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*v = Raw(raw)
	return nil
}
