package builder_test

import (
	"testing"

	. "github.com/tobsdb/pdb/internal/builder"
	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/types"
	"gotest.tools/assert"
)

func TestReservedColumnName(t *testing.T) {
	for _, name := range []string{"ID", "id", "Id", "iD"} {
		err := CheckColumnRules(&Column{Name: name, Type: types.ColumnTypeInt})
		assert.ErrorContains(t, err, "is reserved")
		assert.Assert(t, errs.Is(err, errs.KindSchema))
	}
}

func TestBlankColumnName(t *testing.T) {
	err := CheckColumnRules(&Column{Name: "  ", Type: types.ColumnTypeStr})
	assert.ErrorContains(t, err, "Invalid column declaration")
}

func TestInvalidColumnType(t *testing.T) {
	err := CheckColumnRules(&Column{Name: "a", Type: types.ColumnType("float")})
	assert.ErrorContains(t, err, "Invalid column type in a:float")
}

func TestValidColumn(t *testing.T) {
	c := &Column{Name: "identity", Type: types.ColumnTypeBool}
	assert.NilError(t, CheckColumnRules(c))
	assert.Equal(t, c.String(), "identity:bool")
}
