package types

import (
	"strconv"
	"strings"

	"github.com/tobsdb/pdb/internal/errs"
)

// Predicate is a single column equality condition.
type Predicate struct {
	Column string `json:"column"`
	Value  Value  `json:"value"`
}

// Key is the normalized serialization used in cache keys.
func (p *Predicate) Key() string {
	if p == nil {
		return ""
	}
	return strconv.Quote(p.Column) + "=" + p.Value.Key()
}

func (p *Predicate) String() string {
	if p == nil {
		return "<all>"
	}
	return p.Column + " = " + p.Value.String()
}

// Coerce converts input to the kind stored by a column of type target.
//
//   - int accepts an int or text that parses fully as a base-10 integer, never a bool
//   - str accepts text only
//   - bool accepts a bool or case-insensitive "true"/"false" text, never 0/1
func Coerce(input Value, target ColumnType) (Value, error) {
	switch target {
	case ColumnTypeInt:
		return coerceInt(input)
	case ColumnTypeStr:
		return coerceStr(input)
	case ColumnTypeBool:
		return coerceBool(input)
	}
	return Value{}, errs.Validation("Unsupported column type: %s", target)
}

func coerceInt(input Value) (Value, error) {
	switch input.Kind() {
	case KindInt:
		return input, nil
	case KindText:
		i, err := strconv.ParseInt(input.AsText(), 10, 64)
		if err != nil {
			return Value{}, invalidValueError(input, ColumnTypeInt)
		}
		return Int(i), nil
	}
	return Value{}, invalidValueError(input, ColumnTypeInt)
}

func coerceStr(input Value) (Value, error) {
	if input.Kind() == KindText {
		return input, nil
	}
	return Value{}, invalidValueError(input, ColumnTypeStr)
}

func coerceBool(input Value) (Value, error) {
	switch input.Kind() {
	case KindBool:
		return input, nil
	case KindText:
		switch strings.ToLower(input.AsText()) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
	}
	return Value{}, invalidValueError(input, ColumnTypeBool)
}

func invalidValueError(input Value, target ColumnType) error {
	return errs.Validation("Invalid value %s (%s) for type %s", strconv.Quote(input.String()), input.Kind(), target)
}
