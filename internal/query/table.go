package query

import (
	"github.com/tobsdb/pdb/internal/builder"
	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/types"
)

// Insert coerces values against the user columns in declaration order and
// appends the new row. Nothing is stored unless every value is valid.
func Insert(catalog *builder.Catalog, name string, rows *builder.TableRows, values []types.Value) (int64, error) {
	table, err := catalog.Table(name)
	if err != nil {
		return 0, err
	}

	columns := table.UserColumns()
	if len(values) != len(columns) {
		return 0, errs.Validation("Table %s expects %d values, got %d", name, len(columns), len(values))
	}

	row := make(builder.Row, len(columns)+1)
	for i, column := range columns {
		v, err := types.Coerce(values[i], column.Type)
		if err != nil {
			return 0, err
		}
		row.Set(column.Name, v)
	}

	id := rows.MaxID() + 1
	builder.SetPrimaryKey(row, id)
	if !rows.Insert(row) {
		return 0, errs.Validation("Row with ID=%d already exists in table %s", id, name)
	}
	return id, nil
}

// Select returns copies of the rows matching pred, all rows when pred is nil.
// pred must already be normalized against the table schema.
func Select(rows *builder.TableRows, pred *types.Predicate) []builder.Row {
	found := filterRows(rows, pred)
	for i, row := range found {
		found[i] = row.Clone()
	}
	return found
}

// Update overwrites the set column of every row matching where and returns
// the affected IDs in storage order. ID can never be set.
func Update(catalog *builder.Catalog, name string, rows *builder.TableRows, set, where *types.Predicate) ([]int64, error) {
	table, err := catalog.Table(name)
	if err != nil {
		return nil, err
	}
	if set == nil || where == nil {
		return nil, errs.Validation("Update on table %s needs a set and a where clause", name)
	}

	if _, ok := table.Column(set.Column); !ok {
		return nil, unknownColumnError(table, set.Column)
	}
	if _, ok := table.Column(where.Column); !ok {
		return nil, unknownColumnError(table, where.Column)
	}
	if set.Column == builder.SYS_PRIMARY_KEY {
		return nil, errs.Validation("Column %s cannot be updated", builder.SYS_PRIMARY_KEY)
	}

	set_value, err := table.CoerceColumn(set.Column, set.Value)
	if err != nil {
		return nil, err
	}
	where_value, err := table.CoerceColumn(where.Column, where.Value)
	if err != nil {
		return nil, err
	}

	updated := []int64{}
	for _, row := range filterRows(rows, &types.Predicate{Column: where.Column, Value: where_value}) {
		new_row := row.Clone()
		new_row.Set(set.Column, set_value)
		rows.Replace(new_row)
		updated = append(updated, builder.GetPrimaryKey(row))
	}
	return updated, nil
}

// Delete removes every row matching where and returns the deleted IDs in
// their original storage order.
func Delete(catalog *builder.Catalog, name string, rows *builder.TableRows, where *types.Predicate) ([]int64, error) {
	normalized, err := catalog.NormalizePredicate(name, where)
	if err != nil {
		return nil, err
	}

	deleted := []int64{}
	for _, row := range filterRows(rows, normalized) {
		id := builder.GetPrimaryKey(row)
		rows.Delete(id)
		deleted = append(deleted, id)
	}
	return deleted, nil
}

func unknownColumnError(table *builder.Table, column string) error {
	return errs.Validation("Unknown column %s in table %s", column, table.Name)
}
