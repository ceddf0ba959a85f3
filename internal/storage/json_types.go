package storage

import (
	"github.com/invopop/jsonschema"

	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/schema"
)

// TableBlob is the encoded form of one table
type TableBlob struct {
	Fields        []string       `json:"fields"`
	Records       []*data.Record `json:"records"`
	AutoIncrement int64          `json:"autoincrement"`
}

// NewTableBlob captures the current state of a table for encoding
func NewTableBlob(t *schema.Table) TableBlob {
	return TableBlob{
		Fields:        t.Columns,
		Records:       t.Records,
		AutoIncrement: t.NextID,
	}
}

// rawTable is the decoding counterpart of TableBlob; pointers tell a
// missing (or null) key apart from an empty one
type rawTable struct {
	Fields        *[]string       `json:"fields"`
	Records       *[]*data.Record `json:"records"`
	AutoIncrement *data.Value     `json:"autoincrement"`
}

// TableDocument documents the blob layout of one table for BlobSchema
type TableDocument struct {
	Fields        []string         `json:"fields" jsonschema:"description=Declared column names in order. Never contains ID."`
	Records       []map[string]any `json:"records" jsonschema:"description=Rows in storage order. Each row carries ID plus its present fields."`
	AutoIncrement int64            `json:"autoincrement" jsonschema:"minimum=1,description=Id assigned to the next inserted row."`
}

// BlobSchema returns the JSON Schema of a serialized database: an object
// mapping table names to TableDocument
func BlobSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	table := r.Reflect(&TableDocument{})
	table.Version = ""

	return &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                "lsdb database blob",
		Description:          "Table name to table document, in table creation order.",
		Type:                 "object",
		AdditionalProperties: table,
	}
}
