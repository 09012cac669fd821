package types

import "slices"

var VALID_BUILTIN_TYPES = []ColumnType{
	ColumnTypeInt, ColumnTypeStr, ColumnTypeBool,
}

type ColumnType string

const (
	ColumnTypeInt  ColumnType = "int"
	ColumnTypeStr  ColumnType = "str"
	ColumnTypeBool ColumnType = "bool"
)

func (t ColumnType) IsValid() bool {
	return slices.Contains(VALID_BUILTIN_TYPES, t)
}

// Kind is the value kind a column of this type stores.
func (t ColumnType) Kind() Kind {
	switch t {
	case ColumnTypeInt:
		return KindInt
	case ColumnTypeStr:
		return KindText
	case ColumnTypeBool:
		return KindBool
	}
	return KindInvalid
}
