package database

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names
const (
	AccountsTable       = "accounts"
	ClientsTable        = "clients"
	ProjectsTable       = "projects"
	TasksTable          = "tasks"
	SubtasksTable       = "subtasks"
	SecurityEventsTable = "security_events"
)

var (
	// AccountsColumns holds the columns for the "accounts" table.
	AccountsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	// AccountsSchema is the "accounts" table.
	AccountsSchema = &schema.Table{
		Name:       AccountsTable,
		Columns:    AccountsColumns,
		PrimaryKey: []*schema.Column{AccountsColumns[0]},
	}

	// ClientsColumns holds the columns for the "clients" table.
	ClientsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "owner_id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString},
		{Name: "company", Type: field.TypeString, Nullable: true},
		{Name: "email", Type: field.TypeString, Nullable: true},
		{Name: "phone", Type: field.TypeString, Nullable: true},
		{Name: "notes", Type: field.TypeString, Size: 2147483647, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ClientsSchema is the "clients" table.
	ClientsSchema = &schema.Table{
		Name:       ClientsTable,
		Columns:    ClientsColumns,
		PrimaryKey: []*schema.Column{ClientsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "clients_accounts_clients",
				Columns:    []*schema.Column{ClientsColumns[1]},
				RefColumns: []*schema.Column{AccountsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "client_owner_id_created_at", Columns: []*schema.Column{ClientsColumns[1], ClientsColumns[7]}},
		},
	}

	// ProjectsColumns holds the columns for the "projects" table.
	ProjectsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "owner_id", Type: field.TypeUUID},
		{Name: "client_id", Type: field.TypeUUID, Nullable: true},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Size: 2147483647, Nullable: true},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"active", "paused", "closed"}, Default: "active"},
		{Name: "start_date", Type: field.TypeTime, Nullable: true},
		{Name: "end_date", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ProjectsSchema is the "projects" table.
	ProjectsSchema = &schema.Table{
		Name:       ProjectsTable,
		Columns:    ProjectsColumns,
		PrimaryKey: []*schema.Column{ProjectsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "projects_accounts_projects",
				Columns:    []*schema.Column{ProjectsColumns[1]},
				RefColumns: []*schema.Column{AccountsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "projects_clients_projects",
				Columns:    []*schema.Column{ProjectsColumns[2]},
				RefColumns: []*schema.Column{ClientsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "project_owner_id_created_at", Columns: []*schema.Column{ProjectsColumns[1], ProjectsColumns[8]}},
			{Name: "project_owner_id_status", Columns: []*schema.Column{ProjectsColumns[1], ProjectsColumns[5]}},
		},
	}

	// TasksColumns holds the columns for the "tasks" table.
	TasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "owner_id", Type: field.TypeUUID},
		{Name: "project_id", Type: field.TypeUUID, Nullable: true},
		{Name: "client_id", Type: field.TypeUUID, Nullable: true},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Size: 2147483647, Nullable: true},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"todo", "doing", "blocked", "review", "done"}, Default: "todo"},
		{Name: "priority", Type: field.TypeEnum, Enums: []string{"low", "medium", "high", "critical"}, Default: "medium"},
		{Name: "due_date", Type: field.TypeTime, Nullable: true},
		{Name: "category", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// TasksSchema is the "tasks" table.
	TasksSchema = &schema.Table{
		Name:       TasksTable,
		Columns:    TasksColumns,
		PrimaryKey: []*schema.Column{TasksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "tasks_accounts_tasks",
				Columns:    []*schema.Column{TasksColumns[1]},
				RefColumns: []*schema.Column{AccountsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "tasks_projects_tasks",
				Columns:    []*schema.Column{TasksColumns[2]},
				RefColumns: []*schema.Column{ProjectsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "tasks_clients_tasks",
				Columns:    []*schema.Column{TasksColumns[3]},
				RefColumns: []*schema.Column{ClientsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "task_owner_id_created_at", Columns: []*schema.Column{TasksColumns[1], TasksColumns[10]}},
			{Name: "task_owner_id_status", Columns: []*schema.Column{TasksColumns[1], TasksColumns[6]}},
			{Name: "task_owner_id_due_date", Columns: []*schema.Column{TasksColumns[1], TasksColumns[8]}},
		},
	}

	// SubtasksColumns holds the columns for the "subtasks" table.
	SubtasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "task_id", Type: field.TypeUUID},
		{Name: "title", Type: field.TypeString},
		{Name: "done", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
	}
	// SubtasksSchema is the "subtasks" table.
	SubtasksSchema = &schema.Table{
		Name:       SubtasksTable,
		Columns:    SubtasksColumns,
		PrimaryKey: []*schema.Column{SubtasksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "subtasks_tasks_subtasks",
				Columns:    []*schema.Column{SubtasksColumns[1]},
				RefColumns: []*schema.Column{TasksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "subtask_task_id", Columns: []*schema.Column{SubtasksColumns[1]}},
		},
	}

	// SecurityEventsColumns holds the columns for the "security_events" table.
	SecurityEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "account_id", Type: field.TypeUUID, Nullable: true},
		{Name: "event_type", Type: field.TypeString},
		{Name: "severity", Type: field.TypeEnum, Enums: []string{"low", "medium", "high", "critical"}},
		{Name: "description", Type: field.TypeString, Size: 2147483647},
		{Name: "ip_address", Type: field.TypeString, Default: ""},
		{Name: "user_agent", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// SecurityEventsSchema is the "security_events" table.
	SecurityEventsSchema = &schema.Table{
		Name:       SecurityEventsTable,
		Columns:    SecurityEventsColumns,
		PrimaryKey: []*schema.Column{SecurityEventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "security_events_accounts_events",
				Columns:    []*schema.Column{SecurityEventsColumns[1]},
				RefColumns: []*schema.Column{AccountsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "securityevent_account_id_created_at", Columns: []*schema.Column{SecurityEventsColumns[1], SecurityEventsColumns[7]}},
			{Name: "securityevent_event_type", Columns: []*schema.Column{SecurityEventsColumns[2]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		AccountsSchema,
		ClientsSchema,
		ProjectsSchema,
		TasksSchema,
		SubtasksSchema,
		SecurityEventsSchema,
	}
)

func init() {
	ClientsSchema.ForeignKeys[0].RefTable = AccountsSchema
	ProjectsSchema.ForeignKeys[0].RefTable = AccountsSchema
	ProjectsSchema.ForeignKeys[1].RefTable = ClientsSchema
	TasksSchema.ForeignKeys[0].RefTable = AccountsSchema
	TasksSchema.ForeignKeys[1].RefTable = ProjectsSchema
	TasksSchema.ForeignKeys[2].RefTable = ClientsSchema
	SubtasksSchema.ForeignKeys[0].RefTable = TasksSchema
	SecurityEventsSchema.ForeignKeys[0].RefTable = AccountsSchema
}
