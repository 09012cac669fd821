package builder

import (
	"encoding/json"

	"github.com/tobsdb/pdb/internal/types"
	"github.com/tobsdb/pdb/pkg"
	sorted "github.com/tobshub/go-sortedmap"
	"github.com/zeebo/xxh3"
)

// Maps row column name to its saved value
type Row = pkg.Map[string, types.Value]

func GetPrimaryKey(r Row) int64 {
	return r.Get(SYS_PRIMARY_KEY).AsInt()
}

func SetPrimaryKey(r Row, key int64) {
	r.Set(SYS_PRIMARY_KEY, types.Int(key))
}

// RowValues unwraps a row into plain go values.
func RowValues(r Row) map[string]any {
	values := make(map[string]any, len(r))
	for k, v := range r {
		values[k] = v.Any()
	}
	return values
}

func tableRowsComparisonFunc(a, b Row) bool {
	return GetPrimaryKey(a) < GetPrimaryKey(b)
}

// TableRows holds the rows of one table ordered by primary key.
// IDs only ever grow so key order is also insertion order.
type TableRows struct {
	Map *sorted.SortedMap[int64, Row]
}

func NewTableRows() *TableRows {
	return &TableRows{Map: sorted.New[int64, Row](0, tableRowsComparisonFunc)}
}

func (r *TableRows) Get(id int64) (Row, bool) {
	return r.Map.Get(id)
}

// Insert stores a row under its primary key; an existing key is left alone.
func (r *TableRows) Insert(row Row) bool {
	return r.Map.Insert(GetPrimaryKey(row), row)
}

func (r *TableRows) Replace(row Row) {
	r.Map.Replace(GetPrimaryKey(row), row)
}

func (r *TableRows) Delete(id int64) bool {
	return r.Map.Delete(id)
}

func (r *TableRows) Has(id int64) bool {
	return r.Map.Has(id)
}

func (r *TableRows) Len() int {
	return r.Map.Len()
}

// All returns the stored rows in storage order. The rows are not copied.
func (r *TableRows) All() []Row {
	rows := make([]Row, 0, r.Len())
	if r.Len() == 0 {
		return rows
	}

	iterCh, err := r.Map.IterCh()
	if err != nil {
		return rows
	}
	for rec := range iterCh.Records() {
		rows = append(rows, rec.Val)
	}
	return rows
}

// MaxID is the largest stored primary key, 0 for an empty table.
func (r *TableRows) MaxID() int64 {
	var max_id int64
	for _, row := range r.All() {
		if id := GetPrimaryKey(row); id > max_id {
			max_id = id
		}
	}
	return max_id
}

// Fingerprint hashes the current row contents. Any insert, update or delete
// changes it.
func (r *TableRows) Fingerprint() uint64 {
	buf, err := json.Marshal(r.All())
	if err != nil {
		// rows only hold scalar values so this can't happen
		return 0
	}
	return xxh3.Hash(buf)
}
