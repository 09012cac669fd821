package builder

import (
	"strings"

	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/types"
	"github.com/tobsdb/pdb/pkg"
)

type Table struct {
	Name string
	// ID first, then user columns in declaration order
	Columns *pkg.InsertSortMap[string, *Column]
}

func newTable(name string) *Table {
	t := &Table{Name: name, Columns: pkg.NewInsertSortMap[string, *Column]()}
	t.Columns.Push(SYS_PRIMARY_KEY, primaryKeyColumn())
	return t
}

// RestoreTable rebuilds a table from persisted column metadata.
// The first column must be the ID:int primary key.
func RestoreTable(name string, columns []*Column) (*Table, error) {
	if len(columns) == 0 || columns[0].Name != SYS_PRIMARY_KEY || columns[0].Type != types.ColumnTypeInt {
		return nil, errs.Schema("Table %s: first column must be %s:%s", name, SYS_PRIMARY_KEY, types.ColumnTypeInt)
	}

	t := newTable(name)
	for _, column := range columns[1:] {
		if err := CheckColumnRules(column); err != nil {
			return nil, err
		}
		if t.Columns.Has(column.Name) {
			return nil, errs.Schema("Duplicate column %s", column.Name)
		}
		t.Columns.Push(column.Name, &Column{Name: column.Name, Type: column.Type})
	}
	return t, nil
}

func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.Columns.Idx[name]
	return c, ok
}

// AllColumns returns every column, ID first.
func (t *Table) AllColumns() []*Column { return t.Columns.Values() }

// UserColumns returns the declared columns without the ID.
func (t *Table) UserColumns() []*Column { return t.Columns.Values()[1:] }

func (t *Table) ColumnNames() []string {
	return append([]string{}, t.Columns.Sorted...)
}

// Summary renders the columns as `ID:int, name:str, ...`.
func (t *Table) Summary() string {
	parts := make([]string, 0, t.Columns.Len())
	for _, c := range t.AllColumns() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}

// CoerceColumn coerces value under the declared type of column.
func (t *Table) CoerceColumn(column string, value types.Value) (types.Value, error) {
	c, ok := t.Column(column)
	if !ok {
		return types.Value{}, errs.Validation("Unknown column %s in table %s", column, t.Name)
	}
	return types.Coerce(value, c.Type)
}
