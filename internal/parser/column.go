package parser

import (
	"strings"

	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/types"
)

type ColumnData struct {
	Name string
	Type types.ColumnType
}

// ParseColumnDecl parses a `name:type` column declaration token.
// Only the syntax and the type tag are checked here; reserved and duplicate
// names are the schema store's concern.
func ParseColumnDecl(raw string) (*ColumnData, error) {
	name, col_type, ok := strings.Cut(raw, ":")
	if !ok {
		return nil, invalidColumnError(raw)
	}

	name = strings.TrimSpace(name)
	col_type = strings.TrimSpace(col_type)
	if len(name) == 0 {
		return nil, invalidColumnError(raw)
	}

	builtin_type := types.ColumnType(col_type)
	if !builtin_type.IsValid() {
		return nil, errs.Schema("Invalid column type in %s: %s", raw, col_type)
	}

	return &ColumnData{Name: name, Type: builtin_type}, nil
}

func invalidColumnError(raw string) error {
	return errs.Schema("Invalid column declaration: %s", raw)
}
