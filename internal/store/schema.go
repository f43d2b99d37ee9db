package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// QuestionRecordsColumns holds the columns for the "question_records" table.
	QuestionRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "level", Type: field.TypeEnum, Enums: []string{"n1", "n2", "n3", "n4", "n5"}},
		{Name: "section", Type: field.TypeEnum, Enums: []string{"grammar", "vocabulary"}},
		{Name: "question", Type: field.TypeJSON},
		{Name: "last_correct_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// QuestionRecordsTable holds the schema information for the "question_records" table.
	QuestionRecordsTable = &schema.Table{
		Name:       "question_records",
		Columns:    QuestionRecordsColumns,
		PrimaryKey: []*schema.Column{QuestionRecordsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "questionrecord_level", Columns: []*schema.Column{QuestionRecordsColumns[1]}},
			{Name: "questionrecord_section", Columns: []*schema.Column{QuestionRecordsColumns[2]}},
			{Name: "questionrecord_level_section", Columns: []*schema.Column{QuestionRecordsColumns[1], QuestionRecordsColumns[2]}},
			{Name: "questionrecord_last_correct_at", Columns: []*schema.Column{QuestionRecordsColumns[4]}},
		},
	}
	// QuizSessionsColumns holds the columns for the "quiz_sessions" table.
	QuizSessionsColumns = []*schema.Column{
		{Name: "session_key", Type: field.TypeString, Unique: true},
		{Name: "data", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// QuizSessionsTable holds the schema information for the "quiz_sessions" table.
	QuizSessionsTable = &schema.Table{
		Name:       "quiz_sessions",
		Columns:    QuizSessionsColumns,
		PrimaryKey: []*schema.Column{QuizSessionsColumns[0]},
	}
	// LlmRequestsColumns holds the columns for the "llm_requests" table.
	LlmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Nullable: true},
		{Name: "response_body", Type: field.TypeString, Nullable: true},
	}
	// LlmRequestsTable holds the schema information for the "llm_requests" table.
	LlmRequestsTable = &schema.Table{
		Name:       "llm_requests",
		Columns:    LlmRequestsColumns,
		PrimaryKey: []*schema.Column{LlmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_timestamp", Columns: []*schema.Column{LlmRequestsColumns[1]}},
			{Name: "llmrequest_purpose", Columns: []*schema.Column{LlmRequestsColumns[4]}},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		QuestionRecordsTable,
		QuizSessionsTable,
		LlmRequestsTable,
	}
)
