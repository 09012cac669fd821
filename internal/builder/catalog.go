package builder

import (
	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/parser"
	"github.com/tobsdb/pdb/internal/types"
	"github.com/tobsdb/pdb/pkg"
)

// Catalog maps table names to their schema.
type Catalog struct {
	Tables pkg.Map[string, *Table]
}

func NewCatalog() *Catalog {
	return &Catalog{Tables: pkg.Map[string, *Table]{}}
}

func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.Tables[name]
	if !ok {
		return nil, errs.TableNotFound(name)
	}
	return t, nil
}

func (c *Catalog) Has(name string) bool { return c.Tables.Has(name) }

// CreateTable declares a new table from `name:type` tokens.
// The catalog is left untouched unless every column is valid.
func (c *Catalog) CreateTable(name string, raw_columns []string) (*Table, error) {
	if err := CheckTableName(name); err != nil {
		return nil, err
	}
	if c.Tables.Has(name) {
		return nil, errs.TableExists(name)
	}
	if len(raw_columns) == 0 {
		return nil, errs.Schema("Table %s must declare at least one column", name)
	}

	table := newTable(name)
	for _, raw := range raw_columns {
		data, err := parser.ParseColumnDecl(raw)
		if err != nil {
			return nil, err
		}

		column := &Column{Name: data.Name, Type: data.Type}
		if err := CheckColumnRules(column); err != nil {
			return nil, err
		}
		if table.Columns.Has(column.Name) {
			return nil, errs.Schema("Duplicate column %s", column.Name)
		}
		table.Columns.Push(column.Name, column)
	}

	c.Tables.Set(name, table)
	return table, nil
}

// DropTable removes the table schema. The caller must clear its rows.
func (c *Catalog) DropTable(name string) error {
	if !c.Tables.Has(name) {
		return errs.TableNotFound(name)
	}
	c.Tables.Delete(name)
	return nil
}

// ListTables returns table names in lexicographic order.
func (c *Catalog) ListTables() []string {
	return pkg.SortedKeys(c.Tables)
}

type TableInfo struct {
	Name     string `json:"table"`
	Columns  string `json:"columns"`
	RowCount int    `json:"rows_count"`
}

func (c *Catalog) DescribeTable(name string, rows *TableRows) (*TableInfo, error) {
	t, err := c.Table(name)
	if err != nil {
		return nil, err
	}
	count := 0
	if rows != nil {
		count = rows.Len()
	}
	return &TableInfo{Name: t.Name, Columns: t.Summary(), RowCount: count}, nil
}

// NormalizePredicate checks the predicate column against the table schema
// and coerces its value to the column type.
func (c *Catalog) NormalizePredicate(name string, raw *types.Predicate) (*types.Predicate, error) {
	t, err := c.Table(name)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errs.Validation("Missing condition for table %s", name)
	}

	value, err := t.CoerceColumn(raw.Column, raw.Value)
	if err != nil {
		return nil, err
	}
	return &types.Predicate{Column: raw.Column, Value: value}, nil
}
