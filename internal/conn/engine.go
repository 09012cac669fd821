package conn

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tobsdb/pdb/internal/command"
	"github.com/tobsdb/pdb/internal/query"
	"github.com/tobsdb/pdb/internal/storage"
	"github.com/tobsdb/pdb/pkg"
)

// Confirmer decides whether a destructive action may go ahead.
type Confirmer interface {
	Confirm(action command.Action, table string) bool
}

type ConfirmFunc func(action command.Action, table string) bool

func (f ConfirmFunc) Confirm(action command.Action, table string) bool { return f(action, table) }

var AlwaysConfirm = ConfirmFunc(func(command.Action, string) bool { return true })

// Engine runs commands against a storage provider. Every command reloads the
// catalog and the rows it needs and writes them back only after a successful
// mutation.
type Engine struct {
	provider  storage.Provider
	confirmer Confirmer
	cache     *query.Cache
	locker    sync.Mutex
}

func NewEngine(provider storage.Provider, confirmer Confirmer) *Engine {
	if confirmer == nil {
		confirmer = AlwaysConfirm
	}
	return &Engine{provider: provider, confirmer: confirmer, cache: query.NewCache()}
}

func (e *Engine) GetLocker() *sync.Mutex { return &e.locker }

func (e *Engine) Cache() *query.Cache { return e.cache }

func (e *Engine) Execute(ctx context.Context, cmd *command.Command) Response {
	return e.ExecuteWith(ctx, cmd, e.confirmer)
}

// ExecuteLine parses and executes a raw command line.
func (e *Engine) ExecuteLine(ctx context.Context, line string) Response {
	cmd, err := command.Parse(line)
	if err != nil {
		return errorResponse(err)
	}
	return e.Execute(ctx, cmd)
}

// ExecuteWith runs cmd using confirmer instead of the engine's own.
func (e *Engine) ExecuteWith(ctx context.Context, cmd *command.Command, confirmer Confirmer) Response {
	var res Response
	pkg.LockWrap(e, func() {
		if !cmd.Action.IsTimed() {
			res = e.execute(ctx, cmd, confirmer)
			return
		}

		start := time.Now()
		res = e.execute(ctx, cmd, confirmer)
		res.Elapsed = time.Since(start)
		pkg.DebugLog(fmt.Sprintf("%s on %s took %.3f seconds", cmd.Action, cmd.Table, res.Elapsed.Seconds()))
	})
	return res
}

func (e *Engine) execute(ctx context.Context, cmd *command.Command, confirmer Confirmer) Response {
	switch cmd.Action {
	case command.ActionHelp:
		return NewResponse(http.StatusOK, HelpText, nil)
	case command.ActionExit:
		return NewResponse(http.StatusOK, "Bye", nil)
	}

	if err := ctx.Err(); err != nil {
		return errorResponse(err)
	}

	catalog, err := e.provider.LoadCatalog(ctx)
	if err != nil {
		return errorResponse(err)
	}

	switch cmd.Action {
	case command.ActionCreateTable:
		return createTableHandler(ctx, e, catalog, cmd)
	case command.ActionDropTable:
		return dropTableHandler(ctx, e, catalog, cmd, confirmer)
	case command.ActionListTables:
		return listTablesHandler(catalog)
	case command.ActionInfo:
		return infoHandler(ctx, e, catalog, cmd)
	case command.ActionInsert:
		return insertHandler(ctx, e, catalog, cmd)
	case command.ActionSelect:
		return selectHandler(ctx, e, catalog, cmd)
	case command.ActionUpdate:
		return updateHandler(ctx, e, catalog, cmd)
	case command.ActionDelete:
		return deleteHandler(ctx, e, catalog, cmd, confirmer)
	default:
		return NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("Unknown command: %s", cmd.Action))
	}
}
