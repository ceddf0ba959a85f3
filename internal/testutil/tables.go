package testutil

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/schema"
)

// CreateTestTable creates an empty table with common columns
func CreateTestTable(name string) *schema.Table {
	table, err := schema.NewTable(name, []string{"name", "email", "age"})
	if err != nil {
		panic(err)
	}
	return table
}

// CreatePeopleTable creates a people table with sample data for testing:
//
//	1 Ann 30 | 2 Bob 25 | 3 Cid 30 | 4 Dee (no age)
func CreatePeopleTable() *schema.Table {
	table, err := schema.NewTable("people", []string{"name", "age"})
	if err != nil {
		panic(err)
	}
	table.Append(data.MustFields(map[string]any{"name": "Ann", "age": 30}))
	table.Append(data.MustFields(map[string]any{"name": "Bob", "age": 25}))
	table.Append(data.MustFields(map[string]any{"name": "Cid", "age": 30}))
	table.Append(data.MustFields(map[string]any{"name": "Dee"}))
	return table
}

// Fields is a terse data.MustFields for test literals
func Fields(m map[string]any) data.Fields {
	return data.MustFields(m)
}
