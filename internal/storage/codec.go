package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"

	"github.com/tobsdb/pdb/internal/builder"
)

const (
	META_KEY = "db_meta.json"
	DATA_DIR = "data"
)

func TableKey(name string) string { return path.Join(DATA_DIR, name+".json") }

type tableMeta struct {
	Columns []*builder.Column `json:"columns"`
}

func encodeCatalog(catalog *builder.Catalog) ([]byte, error) {
	meta := make(map[string]tableMeta, len(catalog.Tables))
	for name, table := range catalog.Tables {
		meta[name] = tableMeta{Columns: table.AllColumns()}
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return data, nil
}

func decodeCatalog(data []byte) (*builder.Catalog, error) {
	catalog := builder.NewCatalog()
	if len(bytes.TrimSpace(data)) == 0 {
		return catalog, nil
	}

	meta := map[string]tableMeta{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	for name, m := range meta {
		table, err := builder.RestoreTable(name, m.Columns)
		if err != nil {
			return nil, fmt.Errorf("failed to restore table %s: %w", name, err)
		}
		catalog.Tables.Set(name, table)
	}
	return catalog, nil
}

// encodeRows writes each row as an object whose keys follow the column order
// of the table, which a plain map marshal would sort.
func encodeRows(table *builder.Table, rows *builder.TableRows) ([]byte, error) {
	columns := table.ColumnNames()

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, name := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(name)
			value, err := json.Marshal(row.Get(name))
			if err != nil {
				return nil, fmt.Errorf("failed to encode row %d of %s: %w", builder.GetPrimaryKey(row), table.Name, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("failed to encode rows of %s: %w", table.Name, err)
	}
	return out.Bytes(), nil
}

// decodeRows checks every stored row against the table schema.
func decodeRows(table *builder.Table, data []byte) (*builder.TableRows, error) {
	rows := builder.NewTableRows()
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}

	raw := []builder.Row{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode rows of %s: %w", table.Name, err)
	}

	for i, row := range raw {
		if err := checkRow(table, row); err != nil {
			return nil, fmt.Errorf("row %d of %s: %w", i, table.Name, err)
		}
		if !rows.Insert(row) {
			return nil, fmt.Errorf("row %d of %s: duplicate %s %d", i, table.Name, builder.SYS_PRIMARY_KEY, builder.GetPrimaryKey(row))
		}
	}
	return rows, nil
}

func checkRow(table *builder.Table, row builder.Row) error {
	if len(row) != table.Columns.Len() {
		return fmt.Errorf("expected %d columns, got %d", table.Columns.Len(), len(row))
	}
	for _, column := range table.AllColumns() {
		v, ok := row[column.Name]
		if !ok {
			return fmt.Errorf("missing column %s", column.Name)
		}
		if v.Kind() != column.Type.Kind() {
			return fmt.Errorf("column %s holds %s, declared %s", column.Name, v.Kind(), column.Type)
		}
	}
	if builder.GetPrimaryKey(row) < 1 {
		return fmt.Errorf("invalid %s %d", builder.SYS_PRIMARY_KEY, builder.GetPrimaryKey(row))
	}
	return nil
}

