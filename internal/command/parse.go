package command

import (
	"strings"

	"github.com/google/shlex"
	"github.com/tobsdb/pdb/internal/errs"
	"github.com/tobsdb/pdb/internal/parser"
	"github.com/tobsdb/pdb/internal/types"
)

// Command is one parsed command line.
type Command struct {
	Action  Action
	Table   string
	Columns []string      // create_table declarations, `name:type`
	Values  []types.Value // insert values in column order
	Set     *types.Predicate
	Where   *types.Predicate // nil selects every row
	Raw     string
}

// Parse turns a raw command line into a Command.
//
//	create_table <table> <col:type> [<col:type> ...]
//	drop_table <table>
//	list_tables
//	info <table>
//	insert into <table> values (<v1>, <v2>, ...)
//	select from <table> [where <col> = <value>]
//	update <table> set <col> = <value> where <col> = <value>
//	delete from <table> where <col> = <value>
//	help | exit
func Parse(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errs.Parse("Empty command")
	}

	var cmd *Command
	var err error
	switch Action(fields[0]) {
	case ActionHelp, ActionExit:
		cmd, err = parseBare(line, Action(fields[0]))
	case ActionListTables:
		cmd, err = parseBare(line, ActionListTables)
	case ActionCreateTable, ActionDropTable, ActionInfo:
		cmd, err = parseTableCommand(line, Action(fields[0]))
	case ActionInsert:
		cmd, err = parseInsert(line)
	case ActionSelect:
		cmd, err = parseSelect(line)
	case ActionUpdate:
		cmd, err = parseUpdate(line)
	case ActionDelete:
		cmd, err = parseDelete(line)
	default:
		return nil, errs.Parse("Unknown command: %s", fields[0])
	}
	if err != nil {
		return nil, err
	}
	cmd.Raw = line
	return cmd, nil
}

func invalidCommandError(action Action) error {
	return errs.Parse("Invalid command: %s", action)
}

func parseBare(line string, action Action) (*Command, error) {
	if line != string(action) {
		return nil, invalidCommandError(action)
	}
	return &Command{Action: action}, nil
}

// schema commands are tokenized shell-style so names may be quoted
func parseTableCommand(line string, action Action) (*Command, error) {
	parts, err := shlex.Split(line)
	if err != nil {
		return nil, errs.Parse("Invalid command: %s", err)
	}

	switch action {
	case ActionCreateTable:
		if len(parts) < 3 {
			return nil, invalidCommandError(action)
		}
		return &Command{Action: action, Table: parts[1], Columns: parts[2:]}, nil
	default:
		if len(parts) != 2 {
			return nil, invalidCommandError(action)
		}
		return &Command{Action: action, Table: parts[1]}, nil
	}
}

func parseInsert(line string) (*Command, error) {
	if !strings.HasPrefix(line, "insert into ") {
		return nil, invalidCommandError(ActionInsert)
	}
	head, values_part, ok := strings.Cut(line, " values ")
	if !ok {
		return nil, invalidCommandError(ActionInsert)
	}
	head_parts := strings.Fields(head)
	if len(head_parts) != 3 {
		return nil, invalidCommandError(ActionInsert)
	}

	values, err := parser.ParseValueList(values_part)
	if err != nil {
		return nil, err
	}
	return &Command{Action: ActionInsert, Table: head_parts[2], Values: values}, nil
}

func parseSelect(line string) (*Command, error) {
	if !strings.HasPrefix(line, "select from ") {
		return nil, invalidCommandError(ActionSelect)
	}

	head, where_part, has_where := strings.Cut(line, " where ")
	head_parts := strings.Fields(head)
	if len(head_parts) != 3 {
		return nil, invalidCommandError(ActionSelect)
	}

	cmd := &Command{Action: ActionSelect, Table: head_parts[2]}
	if has_where {
		where, err := parser.ParseCondition(strings.Fields(where_part))
		if err != nil {
			return nil, err
		}
		cmd.Where = where
	}
	return cmd, nil
}

func parseUpdate(line string) (*Command, error) {
	head, set_tail, ok := strings.Cut(line, " set ")
	if !ok {
		return nil, invalidCommandError(ActionUpdate)
	}
	set_part, where_part, ok := strings.Cut(set_tail, " where ")
	if !ok {
		return nil, invalidCommandError(ActionUpdate)
	}
	head_parts := strings.Fields(head)
	if len(head_parts) != 2 {
		return nil, invalidCommandError(ActionUpdate)
	}

	set, err := parser.ParseCondition(strings.Fields(set_part))
	if err != nil {
		return nil, err
	}
	where, err := parser.ParseCondition(strings.Fields(where_part))
	if err != nil {
		return nil, err
	}
	return &Command{Action: ActionUpdate, Table: head_parts[1], Set: set, Where: where}, nil
}

func parseDelete(line string) (*Command, error) {
	if !strings.HasPrefix(line, "delete from ") {
		return nil, invalidCommandError(ActionDelete)
	}
	head, where_part, ok := strings.Cut(line, " where ")
	if !ok {
		return nil, invalidCommandError(ActionDelete)
	}
	head_parts := strings.Fields(head)
	if len(head_parts) != 3 {
		return nil, invalidCommandError(ActionDelete)
	}

	where, err := parser.ParseCondition(strings.Fields(where_part))
	if err != nil {
		return nil, err
	}
	return &Command{Action: ActionDelete, Table: head_parts[2], Where: where}, nil
}
