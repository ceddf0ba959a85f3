package executor

import (
	"fmt"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"

	"github.com/leengari/lsdb/internal/engine"
	"github.com/leengari/lsdb/internal/storage"
	"github.com/leengari/lsdb/internal/storage/medium"
)

// Stats summarizes a database
type Stats struct {
	Database  string         `json:"database"`
	Tables    int            `json:"tables"`
	Rows      int            `json:"rows"`
	RowCounts map[string]int `json:"row_counts"`
	BlobBytes int            `json:"blob_bytes"`
	BlobSize  string         `json:"blob_size"` // human readable
	IsNew     bool           `json:"is_new"`

	// set only when the medium enforces a quota
	QuotaLimit int64 `json:"quota_limit,omitempty"`
	QuotaUsed  int64 `json:"quota_used,omitempty"`
}

// CollectStats computes a Stats summary of db
func CollectStats(db *engine.DB) (*Stats, error) {
	blob, err := db.Serialize()
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Database:  db.Name(),
		Tables:    db.TableCount(),
		RowCounts: make(map[string]int),
		BlobBytes: len(blob),
		BlobSize:  humanize.Bytes(uint64(len(blob))),
		IsNew:     db.IsNew(),
	}
	for _, name := range db.Tables() {
		n, err := db.RowCount(name)
		if err != nil {
			return nil, err
		}
		st.RowCounts[name] = n
		st.Rows += n
	}

	if q, ok := db.Medium().(*medium.Quota); ok {
		used, err := q.Used()
		if err != nil {
			return nil, err
		}
		st.QuotaLimit = q.Limit()
		st.QuotaUsed = used
	}
	return st, nil
}

// SchemaText returns the indented JSON Schema of the database blob
func SchemaText() (string, error) {
	b, err := json.MarshalIndent(storage.BlobSchema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal blob schema: %w", err)
	}
	return string(b), nil
}

// executeAdmin handles whole-database commands
func executeAdmin(db *engine.DB, cmd Command) (*Result, error) {
	switch cmd.Op {
	case "commit":
		if !db.Commit() {
			return nil, fmt.Errorf("commit of '%s' failed; changes are kept in memory", db.Name())
		}
		return &Result{Message: fmt.Sprintf("Database '%s' committed", db.Name())}, nil

	case "serialize":
		text, err := db.Serialize()
		if err != nil {
			return nil, err
		}
		return &Result{Text: text}, nil

	case "replace":
		if err := db.Replace(cmd.Text); err != nil {
			return nil, err
		}
		return &Result{
			Count:   db.TableCount(),
			Message: fmt.Sprintf("Database '%s' replaced with %d tables", db.Name(), db.TableCount()),
		}, nil

	case "stats":
		st, err := CollectStats(db)
		if err != nil {
			return nil, err
		}
		msg := fmt.Sprintf("%d tables, %s rows, %s blob",
			st.Tables, humanize.Comma(int64(st.Rows)), st.BlobSize)
		if st.QuotaLimit > 0 {
			msg += fmt.Sprintf(", %s of %s quota used",
				humanize.Bytes(uint64(st.QuotaUsed)), humanize.Bytes(uint64(st.QuotaLimit)))
		}
		return &Result{Stats: st, Count: st.Tables, Message: msg}, nil

	case "schema":
		text, err := SchemaText()
		if err != nil {
			return nil, err
		}
		return &Result{Text: text}, nil
	}
	return nil, fmt.Errorf("unsupported command: %q", cmd.Op)
}
