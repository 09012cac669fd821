package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindText:
		return "str"
	case KindBool:
		return "bool"
	}
	return "invalid"
}

// Value is a scalar stored in a row: exactly one of an int, a text or a bool.
// The zero Value is invalid.
type Value struct {
	kind Kind
	i    int64
	s    string
	b    bool
}

func Int(i int64) Value   { return Value{kind: KindInt, i: i} }
func Text(s string) Value { return Value{kind: KindText, s: s} }
func Bool(b bool) Value   { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsValid() bool  { return v.kind != KindInvalid }
func (v Value) AsInt() int64   { return v.i }
func (v Value) AsText() string { return v.s }
func (v Value) AsBool() bool   { return v.b }

// Equal is type aware: Int(1) is neither Text("1") nor Bool(true).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindText:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	}
	return true
}

// Any unwraps the value into an int64, string or bool.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindText:
		return v.s
	case KindBool:
		return v.b
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindText:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return "<invalid>"
}

// Key is an unambiguous serialization of the value, kind included.
func (v Value) Key() string {
	return v.kind.String() + ":" + strconv.Quote(v.String())
}

// FromAny wraps a decoded scalar. Integral float64 and json.Number are
// accepted as ints since that is what encoding/json produces.
func FromAny(input any) (Value, error) {
	switch input := input.(type) {
	case Value:
		return input, nil
	case int:
		return Int(int64(input)), nil
	case int64:
		return Int(input), nil
	case float64:
		if input != float64(int64(input)) {
			return Value{}, fmt.Errorf("Unsupported value: %v", input)
		}
		return Int(int64(input)), nil
	case json.Number:
		i, err := input.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("Unsupported value: %s", input)
		}
		return Int(i), nil
	case string:
		return Text(input), nil
	case bool:
		return Bool(input), nil
	}
	return Value{}, fmt.Errorf("Unsupported value type: %T", input)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.IsValid() {
		return []byte("null"), nil
	}
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
