package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
)

// Value is a node of a configuration tree. It is one of Scalar, Sequence or
// Tree; no other implementations exist.
type Value interface {
	isValue()
}

// Scalar holds a string, int64, float64, bool or nil.
type Scalar struct {
	v any
}

// Sequence is an ordered list of values.
type Sequence []Value

// Tree is a mapping from keys to values. A whole configuration document is a
// Tree, and so is every nested object inside it.
type Tree map[string]Value

func (Scalar) isValue()   {}
func (Sequence) isValue() {}
func (Tree) isValue()     {}

func String(s string) Scalar { return Scalar{v: s} }
func Int(i int64) Scalar     { return Scalar{v: i} }
func Float(f float64) Scalar { return Scalar{v: f} }
func Bool(b bool) Scalar     { return Scalar{v: b} }
func Null() Scalar           { return Scalar{} }

// Seq builds a sequence from its arguments. It is never nil.
func Seq(vs ...Value) Sequence {
	out := make(Sequence, len(vs))
	copy(out, vs)
	return out
}

// Interface returns the Go value held by the scalar.
func (s Scalar) Interface() any { return s.v }

// IsNull reports whether the scalar is JSON null.
func (s Scalar) IsNull() bool { return s.v == nil }

// AsString returns the string value, if the scalar holds one.
func (s Scalar) AsString() (string, bool) {
	v, ok := s.v.(string)
	return v, ok
}

// AsInt returns the integer value. Floats with no fractional part are
// accepted since hand-edited files may contain "100.0".
func (s Scalar) AsInt() (int64, bool) {
	switch v := s.v.(type) {
	case int64:
		return v, true
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v <= math.MaxInt64 {
			return int64(v), true
		}
	}
	return 0, false
}

// AsBool returns the boolean value, if the scalar holds one.
func (s Scalar) AsBool() (bool, bool) {
	v, ok := s.v.(bool)
	return v, ok
}

func (s Scalar) String() string {
	if s.v == nil {
		return "null"
	}
	return fmt.Sprint(s.v)
}

// MarshalJSON encodes the held value.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.v)
}

// Get returns the value at key.
func (t Tree) Get(key string) (Value, bool) {
	v, ok := t[key]
	return v, ok
}

// Subtree returns the mapping stored at key, or nil if the key is absent or
// holds something else.
func (t Tree) Subtree(key string) Tree {
	sub, _ := t[key].(Tree)
	return sub
}

// Clone returns a deep copy of the tree. Cloning nil yields nil.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func (s Sequence) clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	for i, v := range s {
		out[i] = cloneValue(v)
	}
	return out
}

func cloneValue(v Value) Value {
	switch val := v.(type) {
	case Tree:
		return val.Clone()
	case Sequence:
		return val.clone()
	case Scalar:
		return val
	default:
		return Null()
	}
}

// Equal reports whether two trees hold the same keys and values.
func Equal(a, b Tree) bool {
	return reflect.DeepEqual(a.ToAny(), b.ToAny())
}

// ToAny converts the tree to plain Go maps, slices and scalars, suitable for
// encoders that know nothing about Value.
func (t Tree) ToAny() map[string]any {
	if t == nil {
		return nil
	}
	out := make(map[string]any, len(t))
	for k, v := range t {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v Value) any {
	switch val := v.(type) {
	case Tree:
		if val == nil {
			return map[string]any{}
		}
		return val.ToAny()
	case Sequence:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = valueToAny(e)
		}
		return out
	case Scalar:
		return val.v
	default:
		return nil
	}
}

// FromAny converts decoded JSON (or equivalent Go values) into a Value.
func FromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return cloneValue(v), nil
	case map[string]any:
		t := make(Tree, len(v))
		for k, e := range v {
			cv, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			t[k] = cv
		}
		return t, nil
	case []any:
		s := make(Sequence, len(v))
		for i, e := range v {
			cv, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			s[i] = cv
		}
		return s, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", v, err)
		}
		return Float(f), nil
	case int:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return Int(int64(v)), nil
		}
		return Float(v), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", raw)
	}
}

// TreeFromAny converts a plain map into a Tree.
func TreeFromAny(raw map[string]any) (Tree, error) {
	v, err := FromAny(raw)
	if err != nil {
		return nil, err
	}
	return v.(Tree), nil
}

// UnmarshalJSON decodes a JSON object into the tree. Integers stay int64.
func (t *Tree) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after top-level object")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("top-level value must be an object, got %s", describeJSON(raw))
	}
	tree, err := TreeFromAny(obj)
	if err != nil {
		return err
	}
	*t = tree
	return nil
}

func describeJSON(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", raw)
	}
}

// Marshal encodes the tree the way it is written to disk: four-space
// indentation, sorted keys, trailing newline, no HTML escaping.
func Marshal(t Tree) ([]byte, error) {
	doc := t.ToAny()
	if doc == nil {
		doc = map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
