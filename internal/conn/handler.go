package conn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tobsdb/pdb/internal/builder"
	"github.com/tobsdb/pdb/internal/command"
	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/query"
	"github.com/tobsdb/pdb/internal/types"
	"github.com/tobsdb/pdb/pkg"
)

type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	// select result column order
	Columns []string `json:"columns,omitempty"`
	// set for timed actions
	Elapsed time.Duration `json:"elapsed,omitempty"`
	// don't manually set this. it comes from the client
	ReqId int `json:"__tdb_client_req_id__"`
}

func NewErrorResponse(status int, err string) Response {
	return Response{Message: err, Status: status}
}

func NewResponse(status int, message string, data any) Response {
	return Response{Data: data, Message: message, Status: status}
}

func errorResponse(err error) Response {
	status := errs.Status(err)
	if status >= http.StatusInternalServerError {
		pkg.ErrorLog(err)
	} else {
		pkg.DebugLog(err)
	}
	return NewErrorResponse(status, err.Error())
}

func (r Response) Marshal() []byte {
	buf, err := json.Marshal(r)
	if err != nil {
		pkg.ErrorLog("marshalling response", err)
		return []byte(fmt.Sprintf(`{"message":%q,"status":%d}`, err.Error(), http.StatusInternalServerError))
	}
	return buf
}

const (
	MessageNoRows    = "No rows found"
	MessageCancelled = "Operation cancelled"
)

var cancelledResponse = NewErrorResponse(http.StatusPreconditionRequired, MessageCancelled)

const HelpText = `Commands:
  create_table <table> <column:type> [<column:type> ...]  create a table (types: int, str, bool)
  list_tables                                            list all tables
  info <table>                                           show table columns and row count
  drop_table <table>                                     drop a table
  insert into <table> values (<value1>, <value2>, ...)   add a row
  select from <table> [where <column> = <value>]         read rows
  update <table> set <column> = <value> where <column> = <value>
                                                         update rows
  delete from <table> where <column> = <value>           delete rows
  help                                                   show this help
  exit                                                   leave the program`

func createTableHandler(ctx context.Context, e *Engine, catalog *builder.Catalog, cmd *command.Command) Response {
	table, err := catalog.CreateTable(cmd.Table, cmd.Columns)
	if err != nil {
		return errorResponse(err)
	}
	if err := e.provider.SaveCatalog(ctx, catalog); err != nil {
		return errorResponse(err)
	}
	return NewResponse(
		http.StatusCreated,
		fmt.Sprintf("Table %q created with columns: %s", table.Name, table.Summary()),
		&builder.TableInfo{Name: table.Name, Columns: table.Summary()},
	)
}

func dropTableHandler(ctx context.Context, e *Engine, catalog *builder.Catalog, cmd *command.Command, confirmer Confirmer) Response {
	table, err := catalog.Table(cmd.Table)
	if err != nil {
		return errorResponse(err)
	}
	if !confirmer.Confirm(cmd.Action, table.Name) {
		return cancelledResponse
	}

	if err := catalog.DropTable(table.Name); err != nil {
		return errorResponse(err)
	}
	if err := e.provider.SaveCatalog(ctx, catalog); err != nil {
		return errorResponse(err)
	}
	if err := e.provider.SaveTable(ctx, table, builder.NewTableRows()); err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Table %q dropped", table.Name), nil)
}

func listTablesHandler(catalog *builder.Catalog) Response {
	tables := catalog.ListTables()
	if len(tables) == 0 {
		return NewResponse(http.StatusOK, "No tables", tables)
	}
	lines := pkg.Map2(tables, func(name string) string { return "- " + name })
	return NewResponse(http.StatusOK, strings.Join(lines, "\n"), tables)
}

func infoHandler(ctx context.Context, e *Engine, catalog *builder.Catalog, cmd *command.Command) Response {
	table, err := catalog.Table(cmd.Table)
	if err != nil {
		return errorResponse(err)
	}
	rows, err := e.provider.LoadTable(ctx, table)
	if err != nil {
		return errorResponse(err)
	}
	info, err := catalog.DescribeTable(table.Name, rows)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(
		http.StatusOK,
		fmt.Sprintf("Table: %s\nColumns: %s\nRows: %d", info.Name, info.Columns, info.RowCount),
		info,
	)
}

func insertHandler(ctx context.Context, e *Engine, catalog *builder.Catalog, cmd *command.Command) Response {
	table, err := catalog.Table(cmd.Table)
	if err != nil {
		return errorResponse(err)
	}
	rows, err := e.provider.LoadTable(ctx, table)
	if err != nil {
		return errorResponse(err)
	}

	id, err := query.Insert(catalog, table.Name, rows, cmd.Values)
	if err != nil {
		return errorResponse(err)
	}
	if err := e.provider.SaveTable(ctx, table, rows); err != nil {
		return errorResponse(err)
	}
	return NewResponse(
		http.StatusCreated,
		fmt.Sprintf("Row with ID=%d added to table %q", id, table.Name),
		map[string]int64{builder.SYS_PRIMARY_KEY: id},
	)
}

func selectHandler(ctx context.Context, e *Engine, catalog *builder.Catalog, cmd *command.Command) Response {
	table, err := catalog.Table(cmd.Table)
	if err != nil {
		return errorResponse(err)
	}

	var pred *types.Predicate
	if cmd.Where != nil {
		pred, err = catalog.NormalizePredicate(table.Name, cmd.Where)
		if err != nil {
			return errorResponse(err)
		}
	}

	rows, err := e.provider.LoadTable(ctx, table)
	if err != nil {
		return errorResponse(err)
	}

	found := e.cache.Get(table.Name, pred, rows.Fingerprint(), func() []builder.Row {
		return query.Select(rows, pred)
	})
	data := pkg.Map2(found, builder.RowValues)

	message := fmt.Sprintf("Found %d rows", len(found))
	if len(found) == 0 {
		message = MessageNoRows
	}
	res := NewResponse(http.StatusOK, message, data)
	res.Columns = table.ColumnNames()
	return res
}

func updateHandler(ctx context.Context, e *Engine, catalog *builder.Catalog, cmd *command.Command) Response {
	table, err := catalog.Table(cmd.Table)
	if err != nil {
		return errorResponse(err)
	}
	rows, err := e.provider.LoadTable(ctx, table)
	if err != nil {
		return errorResponse(err)
	}

	updated, err := query.Update(catalog, table.Name, rows, cmd.Set, cmd.Where)
	if err != nil {
		return errorResponse(err)
	}
	if len(updated) == 0 {
		return NewResponse(http.StatusOK, MessageNoRows, updated)
	}
	if err := e.provider.SaveTable(ctx, table, rows); err != nil {
		return errorResponse(err)
	}

	lines := pkg.Map2(updated, func(id int64) string {
		return fmt.Sprintf("Row with ID=%d in table %q updated", id, table.Name)
	})
	return NewResponse(http.StatusOK, strings.Join(lines, "\n"), updated)
}

func deleteHandler(ctx context.Context, e *Engine, catalog *builder.Catalog, cmd *command.Command, confirmer Confirmer) Response {
	// validate before asking for confirmation
	if _, err := catalog.NormalizePredicate(cmd.Table, cmd.Where); err != nil {
		return errorResponse(err)
	}
	table, err := catalog.Table(cmd.Table)
	if err != nil {
		return errorResponse(err)
	}
	if !confirmer.Confirm(cmd.Action, table.Name) {
		return cancelledResponse
	}

	rows, err := e.provider.LoadTable(ctx, table)
	if err != nil {
		return errorResponse(err)
	}
	deleted, err := query.Delete(catalog, table.Name, rows, cmd.Where)
	if err != nil {
		return errorResponse(err)
	}
	if len(deleted) == 0 {
		return NewResponse(http.StatusOK, MessageNoRows, deleted)
	}
	if err := e.provider.SaveTable(ctx, table, rows); err != nil {
		return errorResponse(err)
	}

	lines := pkg.Map2(deleted, func(id int64) string {
		return fmt.Sprintf("Row with ID=%d deleted from table %q", id, table.Name)
	})
	return NewResponse(http.StatusOK, strings.Join(lines, "\n"), deleted)
}
