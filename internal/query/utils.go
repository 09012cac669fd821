package query

import (
	"github.com/tobsdb/pdb/internal/builder"
	"github.com/tobsdb/pdb/internal/types"
	"github.com/tobsdb/pdb/pkg"
)

func filterRows(rows *builder.TableRows, pred *types.Predicate) []builder.Row {
	all := rows.All()
	if pred == nil {
		return all
	}
	return pkg.Filter(all, func(row builder.Row) bool {
		return matchRow(row, pred)
	})
}

// a missing column never matches
func matchRow(row builder.Row, pred *types.Predicate) bool {
	v, ok := row[pred.Column]
	return ok && v.Equal(pred.Value)
}
