package command

type Action string

const (
	// table actions
	ActionCreateTable Action = "create_table"
	ActionDropTable   Action = "drop_table"
	ActionListTables  Action = "list_tables"
	ActionInfo        Action = "info"

	// rows actions
	ActionInsert Action = "insert"
	ActionSelect Action = "select"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	// session actions
	ActionHelp Action = "help"
	ActionExit Action = "exit"
)

var ACTIONS = []Action{
	ActionCreateTable, ActionDropTable, ActionListTables, ActionInfo,
	ActionInsert, ActionSelect, ActionUpdate, ActionDelete,
	ActionHelp, ActionExit,
}

func (action Action) IsReadOnly() bool {
	switch action {
	case ActionListTables, ActionInfo, ActionSelect, ActionHelp, ActionExit:
		return true
	}
	return false
}

// IsSchemaAction reports whether the action changes the catalog.
func (action Action) IsSchemaAction() bool {
	return action == ActionCreateTable || action == ActionDropTable
}

// IsDestructive reports whether the action needs confirmation first.
func (action Action) IsDestructive() bool {
	return action == ActionDropTable || action == ActionDelete
}

// IsTimed reports whether the execution time of the action is measured.
func (action Action) IsTimed() bool {
	return action == ActionInsert || action == ActionSelect
}
