package query_test

import (
	"testing"

	"github.com/tobsdb/pdb/internal/builder"
	"github.com/tobsdb/pdb/internal/errs"
	. "github.com/tobsdb/pdb/internal/query"
	"github.com/tobsdb/pdb/internal/types"
	"gotest.tools/assert"
)

func newUsers(t *testing.T) (*builder.Catalog, *builder.TableRows) {
	t.Helper()
	catalog := builder.NewCatalog()
	_, err := catalog.CreateTable("users", []string{"name:str", "age:int"})
	assert.NilError(t, err)
	return catalog, builder.NewTableRows()
}

func where(t *testing.T, catalog *builder.Catalog, column string, value types.Value) *types.Predicate {
	t.Helper()
	pred, err := catalog.NormalizePredicate("users", &types.Predicate{Column: column, Value: value})
	assert.NilError(t, err)
	return pred
}

func ids(rows []builder.Row) []int64 {
	out := []int64{}
	for _, row := range rows {
		out = append(out, builder.GetPrimaryKey(row))
	}
	return out
}

func TestInsert(t *testing.T) {
	t.Run("insert", func(t *testing.T) {
		catalog, rows := newUsers(t)
		id, err := Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Int(30)})
		assert.NilError(t, err)
		assert.Equal(t, id, int64(1))

		row, ok := rows.Get(id)
		assert.Assert(t, ok)
		assert.Equal(t, row.Get("name").AsText(), "Ann")
		assert.Equal(t, row.Get("age").AsInt(), int64(30))
		assert.Equal(t, len(row), 3)
	})

	t.Run("coerces text", func(t *testing.T) {
		catalog, rows := newUsers(t)
		id, err := Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Text("30")})
		assert.NilError(t, err)
		row, _ := rows.Get(id)
		assert.Equal(t, row.Get("age").Kind(), types.KindInt)
	})

	t.Run("ids grow from max", func(t *testing.T) {
		catalog, rows := newUsers(t)
		for i := 0; i < 3; i++ {
			Insert(catalog, "users", rows, []types.Value{types.Text("x"), types.Int(1)})
		}
		rows.Delete(3)
		rows.Delete(1)
		id, err := Insert(catalog, "users", rows, []types.Value{types.Text("y"), types.Int(2)})
		assert.NilError(t, err)
		assert.Equal(t, id, int64(3))
		assert.DeepEqual(t, ids(rows.All()), []int64{2, 3})
	})

	t.Run("missing table", func(t *testing.T) {
		catalog, rows := newUsers(t)
		_, err := Insert(catalog, "nope", rows, []types.Value{})
		assert.Assert(t, errs.Is(err, errs.KindSchema))
		assert.Equal(t, errs.Status(err), 404)
	})

	t.Run("wrong arity", func(t *testing.T) {
		catalog, rows := newUsers(t)
		_, err := Insert(catalog, "users", rows, []types.Value{types.Text("Ann")})
		assert.Assert(t, errs.Is(err, errs.KindValidation))
		assert.Equal(t, rows.Len(), 0)
	})

	t.Run("no partial insert", func(t *testing.T) {
		catalog, rows := newUsers(t)
		_, err := Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Bool(true)})
		assert.Assert(t, errs.Is(err, errs.KindValidation))
		assert.Equal(t, rows.Len(), 0)
	})
}

func TestSelect(t *testing.T) {
	catalog, rows := newUsers(t)
	Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Int(30)})
	Insert(catalog, "users", rows, []types.Value{types.Text("Bo"), types.Int(25)})
	Insert(catalog, "users", rows, []types.Value{types.Text("Cy"), types.Int(30)})

	t.Run("all", func(t *testing.T) {
		assert.DeepEqual(t, ids(Select(rows, nil)), []int64{1, 2, 3})
	})

	t.Run("where", func(t *testing.T) {
		found := Select(rows, where(t, catalog, "age", types.Int(30)))
		assert.DeepEqual(t, ids(found), []int64{1, 3})
	})

	t.Run("by id", func(t *testing.T) {
		found := Select(rows, where(t, catalog, builder.SYS_PRIMARY_KEY, types.Int(2)))
		assert.Equal(t, len(found), 1)
		assert.Equal(t, found[0].Get("name").AsText(), "Bo")
	})

	t.Run("type aware", func(t *testing.T) {
		found := Select(rows, &types.Predicate{Column: "age", Value: types.Text("30")})
		assert.Equal(t, len(found), 0)
	})

	t.Run("returns copies", func(t *testing.T) {
		found := Select(rows, nil)
		found[0].Set("name", types.Text("changed"))
		row, _ := rows.Get(1)
		assert.Equal(t, row.Get("name").AsText(), "Ann")
	})
}

func TestUpdate(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		catalog, rows := newUsers(t)
		Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Int(30)})
		Insert(catalog, "users", rows, []types.Value{types.Text("Bo"), types.Int(30)})

		updated, err := Update(catalog, "users", rows,
			&types.Predicate{Column: "age", Value: types.Text("31")},
			&types.Predicate{Column: "age", Value: types.Int(30)})
		assert.NilError(t, err)
		assert.DeepEqual(t, updated, []int64{1, 2})
		for _, row := range rows.All() {
			assert.Assert(t, row.Get("age").Equal(types.Int(31)))
		}
	})

	t.Run("no match", func(t *testing.T) {
		catalog, rows := newUsers(t)
		Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Int(30)})
		updated, err := Update(catalog, "users", rows,
			&types.Predicate{Column: "age", Value: types.Int(1)},
			&types.Predicate{Column: "name", Value: types.Text("Zed")})
		assert.NilError(t, err)
		assert.Equal(t, len(updated), 0)
	})

	t.Run("id is immutable", func(t *testing.T) {
		catalog, rows := newUsers(t)
		Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Int(30)})
		before := rows.Fingerprint()

		_, err := Update(catalog, "users", rows,
			&types.Predicate{Column: builder.SYS_PRIMARY_KEY, Value: types.Int(9)},
			&types.Predicate{Column: "name", Value: types.Text("Ann")})
		assert.Assert(t, errs.Is(err, errs.KindValidation))
		assert.Equal(t, rows.Fingerprint(), before)
		assert.Assert(t, rows.Has(1))
	})

	t.Run("unknown column", func(t *testing.T) {
		catalog, rows := newUsers(t)
		_, err := Update(catalog, "users", rows,
			&types.Predicate{Column: "email", Value: types.Text("a")},
			&types.Predicate{Column: "name", Value: types.Text("Ann")})
		assert.Assert(t, errs.Is(err, errs.KindValidation))
		assert.ErrorContains(t, err, "email")

		_, err = Update(catalog, "users", rows,
			&types.Predicate{Column: "name", Value: types.Text("a")},
			&types.Predicate{Column: "email", Value: types.Text("Ann")})
		assert.ErrorContains(t, err, "email")
	})

	t.Run("bad value leaves data unchanged", func(t *testing.T) {
		catalog, rows := newUsers(t)
		Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Int(30)})
		before := rows.Fingerprint()
		_, err := Update(catalog, "users", rows,
			&types.Predicate{Column: "age", Value: types.Text("old")},
			&types.Predicate{Column: "name", Value: types.Text("Ann")})
		assert.Assert(t, errs.Is(err, errs.KindValidation))
		assert.Equal(t, rows.Fingerprint(), before)
	})
}

func TestDelete(t *testing.T) {
	t.Run("delete keeps order", func(t *testing.T) {
		catalog, rows := newUsers(t)
		for _, age := range []int64{1, 2, 1, 3, 1} {
			Insert(catalog, "users", rows, []types.Value{types.Text("x"), types.Int(age)})
		}
		deleted, err := Delete(catalog, "users", rows, &types.Predicate{Column: "age", Value: types.Int(1)})
		assert.NilError(t, err)
		assert.DeepEqual(t, deleted, []int64{1, 3, 5})
		assert.DeepEqual(t, ids(rows.All()), []int64{2, 4})
	})

	t.Run("no match", func(t *testing.T) {
		catalog, rows := newUsers(t)
		Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Int(30)})
		before := rows.Fingerprint()
		deleted, err := Delete(catalog, "users", rows, &types.Predicate{Column: "name", Value: types.Text("Bo")})
		assert.NilError(t, err)
		assert.Equal(t, len(deleted), 0)
		assert.Equal(t, rows.Fingerprint(), before)
	})

	t.Run("unknown column", func(t *testing.T) {
		catalog, rows := newUsers(t)
		_, err := Delete(catalog, "users", rows, &types.Predicate{Column: "email", Value: types.Text("a")})
		assert.Assert(t, errs.Is(err, errs.KindValidation))
	})

	t.Run("missing table", func(t *testing.T) {
		catalog, rows := newUsers(t)
		_, err := Delete(catalog, "nope", rows, &types.Predicate{Column: "name", Value: types.Text("a")})
		assert.Assert(t, errs.Is(err, errs.KindSchema))
	})
}

func TestScenario(t *testing.T) {
	catalog, rows := newUsers(t)

	id, err := Insert(catalog, "users", rows, []types.Value{types.Text("Ann"), types.Int(30)})
	assert.NilError(t, err)
	assert.Equal(t, id, int64(1))
	id, err = Insert(catalog, "users", rows, []types.Value{types.Text("Bo"), types.Int(25)})
	assert.NilError(t, err)
	assert.Equal(t, id, int64(2))

	found := Select(rows, where(t, catalog, "age", types.Int(30)))
	assert.Equal(t, len(found), 1)
	assert.Equal(t, builder.GetPrimaryKey(found[0]), int64(1))
	assert.Equal(t, found[0].Get("name").AsText(), "Ann")
	assert.Equal(t, found[0].Get("age").AsInt(), int64(30))

	updated, err := Update(catalog, "users", rows,
		&types.Predicate{Column: "age", Value: types.Int(31)},
		&types.Predicate{Column: "name", Value: types.Text("Ann")})
	assert.NilError(t, err)
	assert.DeepEqual(t, updated, []int64{1})

	found = Select(rows, where(t, catalog, builder.SYS_PRIMARY_KEY, types.Int(1)))
	assert.Equal(t, found[0].Get("age").AsInt(), int64(31))

	deleted, err := Delete(catalog, "users", rows, &types.Predicate{Column: "name", Value: types.Text("Bo")})
	assert.NilError(t, err)
	assert.DeepEqual(t, deleted, []int64{2})
	assert.Equal(t, rows.Len(), 1)
}
