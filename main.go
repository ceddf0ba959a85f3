package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/engine"
	"github.com/leengari/lsdb/internal/logging"
	"github.com/leengari/lsdb/internal/query"
	"github.com/leengari/lsdb/internal/storage/medium"
)

func main() {
	logger, closeFn := logging.SetupLogger(logging.Options{Level: slog.LevelInfo})
	defer closeFn()

	if err := demo(logger); err != nil {
		logger.Error("demo failed", "error", err)
		closeFn()
		os.Exit(1)
	}
}

// demo walks the people scenario on a directory medium: create, insert,
// query, update, upsert, delete and commit
func demo(logger *slog.Logger) error {
	logger.Info("Starting application...")

	// 1. Open the medium and the database
	m, err := medium.NewDir("databases")
	if err != nil {
		return err
	}
	db, err := engine.Open("demo", m,
		engine.WithLogger(logger),
		engine.WithObserver(engine.NewLoggingObserver(logger)),
	)
	if err != nil {
		return err
	}

	// 2. Start from a clean people table
	if db.TableExists("people") {
		if err := db.DropTable("people"); err != nil {
			return err
		}
	}
	if err := db.CreateTable("people", []string{"name", "age", "member"}); err != nil {
		return err
	}

	// 3. Insert; ID and unknown fields are dropped
	for _, p := range []map[string]any{
		{"name": "Ann", "age": 30, "member": true},
		{"name": "Bo", "age": 25},
		{"name": "Cid", "nickname": "cc"},
	} {
		id, err := db.Insert("people", data.MustFields(p))
		if err != nil {
			return err
		}
		logger.Info("inserted", "id", id, "name", p["name"])
	}

	// 4. Query sorted by age
	recs, err := db.QueryAll("people", query.Params{
		Sort: []query.SortKey{{Field: "age", Direction: query.Desc}},
	})
	if err != nil {
		return err
	}
	for _, rec := range recs {
		logger.Info("person", "id", rec.ID, "name", rec.Value("name"), "age", rec.Value("age"))
	}

	members, err := query.FromAny(func(rec data.Record) bool {
		member, ok := rec.Value("member").AsBool()
		return ok && member
	})
	if err != nil {
		return err
	}
	memberRecs, err := db.QueryAll("people", query.Params{Query: members})
	if err != nil {
		return err
	}
	logger.Info("members", "count", len(memberRecs))

	// 5. Birthday for everyone over 26
	n, err := db.Update("people",
		query.Func(func(rec data.Record) bool {
			age, ok := rec.Value("age").AsInt()
			return ok && age > 26
		}),
		func(rec data.Record) data.Fields {
			age, _ := rec.Value("age").AsInt()
			return data.Fields{"age": data.Int(age + 1)}
		},
	)
	if err != nil {
		return err
	}
	logger.Info("updated", "count", n)

	// 6. Upsert and delete
	ids, inserted, err := db.InsertOrUpdate("people",
		query.Equals{"name": data.String("Dee")},
		data.Fields{"name": data.String("Dee"), "age": data.Int(41)},
	)
	if err != nil {
		return err
	}
	logger.Info("upserted", "ids", ids, "inserted", inserted)

	bo, err := query.FromAny(map[string]any{"name": "Bo"})
	if err != nil {
		return err
	}
	deleted, err := db.DeleteRows("people", bo)
	if err != nil {
		return err
	}
	logger.Info("deleted", "count", deleted)

	// 7. Persist
	if !db.Commit() {
		return fmt.Errorf("commit failed")
	}
	blob, err := db.Serialize()
	if err != nil {
		return err
	}
	fmt.Println(blob)

	logger.Info("Application ready - all operations tested!", "root", m.Root())
	return nil
}
