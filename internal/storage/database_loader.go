package storage

import (
	"bytes"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/leengari/lsdb/internal/domain/errors"
	"github.com/leengari/lsdb/internal/domain/schema"
	"github.com/leengari/lsdb/internal/query/indexing"
)

// Decode parses a serialized blob into a database named name.
// Any structural problem yields a MalformedDataError.
func Decode(name string, blob []byte) (*schema.Database, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.NewMalformedData("", "blob must be a JSON object of tables", nil)
	}
	if !json.Valid(trimmed) {
		return nil, errors.NewMalformedData("", "blob is not valid JSON", nil)
	}
	if err := checkTableKeys(trimmed); err != nil {
		return nil, err
	}

	tables := orderedmap.New[string, rawTable]()
	if err := tables.UnmarshalJSON(trimmed); err != nil {
		return nil, errors.NewMalformedData("", "cannot decode tables", err)
	}

	db := schema.NewDatabase(name)
	for pair := tables.Oldest(); pair != nil; pair = pair.Next() {
		table, err := decodeTable(pair.Key, pair.Value)
		if err != nil {
			return nil, err
		}
		if err := db.Add(table); err != nil {
			return nil, errors.NewMalformedData(pair.Key, "cannot add table", err)
		}
	}
	return db, nil
}

// checkTableKeys rejects a blob that names the same table twice.
// The ordered decode would otherwise keep the last one silently.
func checkTableKeys(blob []byte) error {
	dec := json.NewDecoder(bytes.NewReader(blob))
	if _, err := dec.Token(); err != nil {
		return errors.NewMalformedData("", "cannot decode tables", err)
	}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.NewMalformedData("", "cannot decode tables", err)
		}
		key, ok := tok.(string)
		if !ok {
			return errors.NewMalformedData("", "table name must be a string", nil)
		}
		if _, dup := seen[key]; dup {
			return errors.NewMalformedData(key, "duplicate table", nil)
		}
		seen[key] = struct{}{}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return errors.NewMalformedData(key, "cannot decode table", err)
		}
	}
	return nil
}

// decodeTable validates one decoded table and builds its id index
func decodeTable(name string, raw rawTable) (*schema.Table, error) {
	if raw.Fields == nil {
		return nil, errors.NewMalformedData(name, `missing "fields" array`, nil)
	}
	if raw.Records == nil {
		return nil, errors.NewMalformedData(name, `missing "records" array`, nil)
	}
	if raw.AutoIncrement == nil {
		return nil, errors.NewMalformedData(name, `missing "autoincrement" integer`, nil)
	}
	next, ok := raw.AutoIncrement.AsInt()
	if !ok || next < 1 {
		return nil, errors.NewMalformedData(name,
			fmt.Sprintf(`"autoincrement" must be a positive integer, got %s`, raw.AutoIncrement), nil)
	}

	table, err := schema.NewTable(name, *raw.Fields)
	if err != nil {
		return nil, errors.NewMalformedData(name, "invalid fields", err)
	}
	table.NextID = next

	for i, rec := range *raw.Records {
		if rec == nil {
			return nil, errors.NewMalformedData(name, fmt.Sprintf("record %d is null", i), nil)
		}
		for field := range rec.Fields {
			if !table.HasColumn(field) {
				return nil, errors.NewMalformedData(name,
					fmt.Sprintf("record %d has undeclared field %q", i, field), nil)
			}
		}
		rec.SetOrder(table.Columns)
		table.Records = append(table.Records, rec)
	}

	if err := indexing.BuildIDIndex(table); err != nil {
		return nil, errors.NewMalformedData(name, "inconsistent ids", err)
	}
	return table, nil
}

// Load reads the named database from the medium. An absent, unreadable or
// malformed blob is not an error: the result is a fresh empty database
// with IsNew set.
func Load(name string, medium Medium, logger *slog.Logger) *schema.Database {
	if logger == nil {
		logger = slog.Default()
	}
	key := Key(name)

	fresh := func() *schema.Database {
		db := schema.NewDatabase(name)
		db.IsNew = true
		return db
	}

	blob, found, err := medium.Get(key)
	if err != nil {
		logger.Warn("failed to read database blob, starting empty",
			slog.String("database", name),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return fresh()
	}
	if !found {
		logger.Info("no stored database, creating a new one",
			slog.String("database", name),
			slog.String("key", key),
		)
		return fresh()
	}

	db, err := Decode(name, blob)
	if err != nil {
		logger.Warn("stored database is corrupt, starting empty",
			slog.String("database", name),
			slog.Int("blob_bytes", len(blob)),
			slog.Any("error", err),
		)
		return fresh()
	}

	logger.Info("Database loaded successfully",
		slog.String("name", db.Name),
		slog.Int("table_count", db.Count()),
		slog.Int("row_count", rowCount(db)),
	)
	return db
}

func rowCount(db *schema.Database) int {
	n := 0
	for _, t := range db.Tables() {
		n += t.Len()
	}
	return n
}
