package executor

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/engine"
)

// Command is one request against a database, as read from the REPL or the
// wire. Only the members relevant to Op are used.
type Command struct {
	Op       string        `json:"op"`
	Database string        `json:"database,omitempty"`
	Table    string        `json:"table,omitempty"`
	Columns  []string      `json:"columns,omitempty"`  // create
	Rows     []data.Fields `json:"rows,omitempty"`     // create_with_data, insert
	Data     data.Fields   `json:"data,omitempty"`     // insert, upsert
	Query    *data.Value   `json:"query,omitempty"`    // field-equality object
	Set      data.Fields   `json:"set,omitempty"`      // update
	Sort     [][]string    `json:"sort,omitempty"`     // [["field","ASC"], ...]
	Limit    int           `json:"limit,omitempty"`    // <= 0 means unbounded
	Start    int           `json:"start,omitempty"`    // offset after filtering and sorting
	Distinct []string      `json:"distinct,omitempty"` // query
	Fields   []string      `json:"fields,omitempty"`   // alter (added), drop_columns (removed), query (returned), exists
	Defaults data.Fields   `json:"defaults,omitempty"` // alter
	Text     string        `json:"text,omitempty"`     // replace
}

// Result represents the outcome of executing a command
type Result struct {
	Columns      []string      `json:"columns,omitempty"` // Column names, ID first
	Rows         []data.Record `json:"rows,omitempty"`    // Result rows
	Names        []string      `json:"names,omitempty"`   // Table or database names
	IDs          []int64       `json:"ids,omitempty"`     // Ids assigned or affected
	Count        int           `json:"count"`             // Row count, rows affected or table count
	Exists       *bool         `json:"exists,omitempty"`  // Answer of exists
	Inserted     *bool         `json:"inserted,omitempty"`
	Text         string        `json:"text,omitempty"` // Serialized blob or JSON Schema
	Stats        *Stats        `json:"stats,omitempty"`
	Message      string        `json:"message,omitempty"` // Status message
	RowsAffected int           `json:"rows_affected"`     // Rows affected by insert/update/delete
	Error        string        `json:"error,omitempty"`
}

// ParseCommand decodes a JSON command
func ParseCommand(b []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(b, &cmd); err != nil {
		return Command{}, fmt.Errorf("invalid command: %w", err)
	}
	cmd.Op = strings.ToLower(strings.TrimSpace(cmd.Op))
	if cmd.Op == "" {
		return Command{}, fmt.Errorf("invalid command: missing \"op\"")
	}
	return cmd, nil
}

// Execute runs one command against db
func Execute(db *engine.DB, cmd Command) (*Result, error) {
	if db == nil {
		return nil, fmt.Errorf("no database selected. Use 'use <database_name>' to select one")
	}

	switch cmd.Op {
	case "tables", "create", "create_with_data", "alter", "drop_columns", "drop_table", "truncate", "fields":
		return executeDDL(db, cmd)
	case "count", "exists", "query":
		return executeSelect(db, cmd)
	case "insert":
		return executeInsert(db, cmd)
	case "update", "upsert":
		return executeUpdate(db, cmd)
	case "delete":
		return executeDelete(db, cmd)
	case "commit", "serialize", "replace", "stats", "schema":
		return executeAdmin(db, cmd)
	default:
		return nil, fmt.Errorf("unsupported command: %q", cmd.Op)
	}
}

func requireTable(cmd Command) error {
	if cmd.Table == "" {
		return fmt.Errorf("%s: \"table\" is required", cmd.Op)
	}
	return nil
}
