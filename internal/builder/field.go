package builder

import (
	"strings"

	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/types"
)

const SYS_PRIMARY_KEY = "ID"

type Column struct {
	Name string           `json:"name"`
	Type types.ColumnType `json:"type"`
}

func (c *Column) String() string { return c.Name + ":" + string(c.Type) }

// column local rules:
// - name can't be blank
// - name can't be the reserved primary key, in any casing
// - type must be one of the builtin types
func CheckColumnRules(column *Column) error {
	if len(strings.TrimSpace(column.Name)) == 0 {
		return errs.Schema("Invalid column declaration: %s", column)
	}

	if strings.EqualFold(column.Name, SYS_PRIMARY_KEY) {
		return errs.Schema("Column name %s is reserved", column.Name)
	}

	if !column.Type.IsValid() {
		return errs.Schema("Invalid column type in %s: %s", column, column.Type)
	}

	return nil
}

// table names double as storage keys
func CheckTableName(name string) error {
	if len(name) == 0 || name == "." || name == ".." || strings.ContainsAny(name, "/\\ \t\n") {
		return errs.Schema("Invalid table name: %q", name)
	}
	return nil
}

func primaryKeyColumn() *Column {
	return &Column{Name: SYS_PRIMARY_KEY, Type: types.ColumnTypeInt}
}
