package engine

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/errors"
	"github.com/leengari/lsdb/internal/query"
	"github.com/leengari/lsdb/internal/storage"
	"github.com/leengari/lsdb/internal/storage/medium"
	"github.com/leengari/lsdb/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func fields(m map[string]any) data.Fields {
	return data.MustFields(m)
}

func openTestDB(t *testing.T, m storage.Medium) *DB {
	t.Helper()
	db, err := Open("app", m, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return db
}

// peopleDB holds people Ann(30) and Bo(25)
func peopleDB(t *testing.T) *DB {
	t.Helper()
	db := openTestDB(t, medium.NewMemory())
	if err := db.CreateTable("people", []string{"name", "age"}); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if id, _ := db.Insert("people", fields(map[string]any{"name": "Ann", "age": 30})); id != 1 {
		t.Fatalf("first insert id = %d, want 1", id)
	}
	if id, _ := db.Insert("people", fields(map[string]any{"name": "Bo", "age": 25})); id != 2 {
		t.Fatalf("second insert id = %d, want 2", id)
	}
	return db
}

func TestOpen(t *testing.T) {
	if _, err := Open("", medium.NewMemory()); err == nil {
		t.Error("Open with empty name succeeded")
	}
	if _, err := Open("app", nil); err == nil {
		t.Error("Open with nil medium succeeded")
	}

	db := openTestDB(t, medium.NewMemory())
	if !db.IsNew() {
		t.Error("IsNew = false on an empty medium")
	}
	if db.Name() != "app" || db.TableCount() != 0 {
		t.Errorf("fresh db = %q with %d tables", db.Name(), db.TableCount())
	}
}

func TestOpenCorruptBlobFallsBack(t *testing.T) {
	m := medium.NewMemory()
	m.Set(storage.Key("app"), []byte(`{"people": "garbage"`))

	db := openTestDB(t, m)
	if !db.IsNew() || db.TableCount() != 0 {
		t.Errorf("corrupt blob: IsNew %v, %d tables", db.IsNew(), db.TableCount())
	}
}

func TestPeopleScenario(t *testing.T) {
	db := peopleDB(t)

	recs, err := db.QueryAll("people", query.Params{Sort: []query.SortKey{{Field: "age", Direction: query.Asc}}})
	testutil.AssertNoError(t, err, "sort by age")
	testutil.AssertIDs(t, recs, []int64{2, 1}, "sort by age")
	testutil.AssertValue(t, recs[0], "name", "Bo", "first row")
	testutil.AssertValue(t, recs[0], "age", 25, "first row")
	testutil.AssertValue(t, recs[1], "name", "Ann", "second row")
	testutil.AssertValue(t, recs[1], data.IDField, 1, "second row")
}

func TestUpdateScenario(t *testing.T) {
	db := peopleDB(t)

	n, err := db.Update("people", query.Equals(fields(map[string]any{"name": "Ann"})), func(r data.Record) data.Fields {
		age, _ := r.Value("age").AsInt()
		return data.Fields{"age": data.Int(age + 1)}
	})
	testutil.AssertNoError(t, err, "update")
	if n != 1 {
		t.Errorf("Update returned %d, want 1", n)
	}

	recs, _ := db.QueryAll("people", query.Params{Query: query.Equals(fields(map[string]any{"name": "Ann"}))})
	testutil.AssertRowCount(t, len(recs), 1, "Ann after update")
	testutil.AssertValue(t, recs[0], "age", 31, "Ann after update")
}

func TestUpdateIgnoresIDAndUnknownFields(t *testing.T) {
	db := peopleDB(t)

	n, err := db.Update("people", nil, func(r data.Record) data.Fields {
		if r.ID == 2 {
			return nil
		}
		return fields(map[string]any{"ID": 99, "nick": "x", "age": 0})
	})
	testutil.AssertNoError(t, err, "update")
	if n != 1 {
		t.Errorf("Update returned %d, want 1", n)
	}

	recs, _ := db.QueryAll("people", query.Params{})
	testutil.AssertIDs(t, recs, []int64{1, 2}, "ids after update")
	testutil.AssertColumnNotExists(t, recs[0], "nick", "unknown field")
	testutil.AssertValue(t, recs[0], "age", 0, "updated age")
	testutil.AssertValue(t, recs[1], "age", 25, "untouched age")
}

func TestInsertOrUpdateScenario(t *testing.T) {
	db := peopleDB(t)
	cy := query.Equals(fields(map[string]any{"name": "Cy"}))

	ids, inserted, err := db.InsertOrUpdate("people", cy, fields(map[string]any{"name": "Cy", "age": 40}))
	testutil.AssertNoError(t, err, "first upsert")
	if !inserted || len(ids) != 1 || ids[0] != 3 {
		t.Errorf("first upsert = %v, inserted %v; want [3], true", ids, inserted)
	}

	ids, inserted, err = db.InsertOrUpdate("people", cy, fields(map[string]any{"age": 41}))
	testutil.AssertNoError(t, err, "second upsert")
	if inserted || len(ids) != 1 || ids[0] != 3 {
		t.Errorf("second upsert = %v, inserted %v; want [3], false", ids, inserted)
	}

	recs, _ := db.QueryAll("people", query.Params{Query: cy})
	testutil.AssertRowCount(t, len(recs), 1, "Cy rows")
	testutil.AssertValue(t, recs[0], "age", 41, "Cy age")
}

func TestCommitQuotaExceeded(t *testing.T) {
	m := medium.NewMemoryWithQuota(64)
	db := openTestDB(t, m)
	db.CreateTable("people", []string{"name", "age"})
	for i := 0; i < 10; i++ {
		db.Insert("people", fields(map[string]any{"name": strings.Repeat("n", 20), "age": i}))
	}
	before, _ := db.Serialize()

	if db.Commit() {
		t.Fatal("Commit = true, want false when the medium rejects the write")
	}

	after, _ := db.Serialize()
	if before != after {
		t.Error("failed commit changed the in-memory database")
	}
	if _, ok, _ := m.Get(storage.Key("app")); ok {
		t.Error("rejected blob reached the medium")
	}

	// still fully usable
	id, err := db.Insert("people", fields(map[string]any{"name": "late"}))
	testutil.AssertNoError(t, err, "insert after failed commit")
	if id != 11 {
		t.Errorf("insert after failed commit id = %d, want 11", id)
	}
}

func TestCommitAndReopen(t *testing.T) {
	m := medium.NewMemory()
	db := openTestDB(t, m)
	db.CreateTable("people", []string{"name", "age"})
	db.Insert("people", fields(map[string]any{"name": "Ann", "age": 30}))
	db.CreateTable("cities", []string{"name"})

	// not visible before commit
	if again := openTestDB(t, m); !again.IsNew() {
		t.Fatal("uncommitted state reached the medium")
	}

	if !db.Commit() {
		t.Fatal("Commit = false")
	}

	again := openTestDB(t, m)
	if again.IsNew() {
		t.Error("IsNew = true after commit")
	}
	if got := again.Tables(); len(got) != 2 || got[0] != "people" || got[1] != "cities" {
		t.Errorf("Tables = %v, want [people cities]", got)
	}
	if n, _ := again.RowCount("people"); n != 1 {
		t.Errorf("RowCount = %d, want 1", n)
	}
	if id, _ := again.Insert("people", fields(map[string]any{"name": "Bo"})); id != 2 {
		t.Errorf("id after reopen = %d, want 2", id)
	}
}

func TestDrop(t *testing.T) {
	m := medium.NewMemory()
	db := peopleDB(t)
	db.medium = m
	db.Commit()

	testutil.AssertNoError(t, db.Drop(), "drop")
	testutil.AssertNoError(t, db.Drop(), "second drop")

	if db.TableCount() != 0 {
		t.Errorf("TableCount after drop = %d", db.TableCount())
	}
	if _, ok, _ := m.Get(storage.Key("app")); ok {
		t.Error("blob still stored after drop")
	}

	fresh := openTestDB(t, medium.NewMemory())
	testutil.AssertNoError(t, fresh.Drop(), "drop of never-committed database")
}

func TestSerializeReplaceRoundTrip(t *testing.T) {
	db := peopleDB(t)
	db.DeleteRows("people", query.Equals{data.IDField: data.Int(1)})
	db.AlterTableWithDefault("people", "tags", data.Sequence(data.String("a")))
	db.CreateTable("empty", nil)

	text, err := db.Serialize()
	testutil.AssertNoError(t, err, "serialize")

	fresh := openTestDB(t, medium.NewMemory())
	testutil.AssertNoError(t, fresh.Replace(text), "replace")

	again, _ := fresh.Serialize()
	if again != text {
		t.Errorf("round trip changed the blob\n got: %s\nwant: %s", again, text)
	}
	if id, _ := fresh.Insert("people", nil); id != 3 {
		t.Errorf("next id after replace = %d, want 3", id)
	}
}

func TestSerializeFormat(t *testing.T) {
	db := peopleDB(t)
	db.Insert("people", fields(map[string]any{"name": "Cid"}))

	got, _ := db.Serialize()
	want := `{"people":{"fields":["name","age"],"records":[{"ID":1,"name":"Ann","age":30},{"ID":2,"name":"Bo","age":25},{"ID":3,"name":"Cid"}],"autoincrement":4}}`
	if got != want {
		t.Errorf("Serialize\n got: %s\nwant: %s", got, want)
	}
}

func TestReplaceMalformedLeavesStateUnchanged(t *testing.T) {
	db := peopleDB(t)
	before, _ := db.Serialize()

	for _, text := range []string{
		``,
		`[]`,
		`{"t":{"fields":["a"]}}`,
		`{"t":{"fields":[],"records":[],"autoincrement":"x"}}`,
		`{"t":{"fields":[],"records":[],"autoincrement":1}} trailing garbage`,
		`{"t":{"fields":[],"records":[],"autoincrement":1}}}`,
		`{"t":{"fields":[],"records":[],"autoincrement":1},}`,
		`{"t":{"fields":[],"records":[],"autoincrement":1}, "t":{"fields":[],"records":[],"autoincrement":1}}`,
	} {
		err := db.Replace(text)
		testutil.AssertErrorIs(t, err, errors.ErrMalformedData, "replace "+text)
	}

	after, _ := db.Serialize()
	if before != after {
		t.Error("failed Replace changed the database")
	}
}

func TestIDsNeverReused(t *testing.T) {
	db := peopleDB(t)

	n, err := db.DeleteRows("people", query.Equals{data.IDField: data.Int(2)})
	if err != nil || n != 1 {
		t.Fatalf("DeleteRows = %d, %v", n, err)
	}
	if id, _ := db.Insert("people", nil); id != 3 {
		t.Errorf("id after deleting the newest row = %d, want 3", id)
	}

	n, _ = db.DeleteRows("people", nil)
	if n != 2 {
		t.Errorf("DeleteRows(all) = %d, want 2", n)
	}
	if rows, _ := db.RowCount("people"); rows != 0 || !db.TableExists("people") {
		t.Errorf("after DeleteRows(all): %d rows, exists %v", rows, db.TableExists("people"))
	}
	if id, _ := db.Insert("people", nil); id != 4 {
		t.Errorf("id after DeleteRows(all) = %d, want 4", id)
	}

	testutil.AssertNoError(t, db.Truncate("people"), "truncate")
	if id, _ := db.Insert("people", nil); id != 1 {
		t.Errorf("id after Truncate = %d, want 1", id)
	}
}

func TestInsertDropsUnknownFieldsAndID(t *testing.T) {
	db := peopleDB(t)

	id, err := db.Insert("people", fields(map[string]any{"ID": 50, "name": "Eve", "email": "e@x"}))
	testutil.AssertNoError(t, err, "insert")
	if id != 3 {
		t.Errorf("id = %d, want 3", id)
	}

	recs, _ := db.QueryAll("people", query.Params{Query: query.Equals{data.IDField: data.Int(3)}})
	testutil.AssertRowCount(t, len(recs), 1, "by id")
	testutil.AssertColumnNotExists(t, recs[0], "email", "unknown field")
	testutil.AssertColumnNotExists(t, recs[0], "age", "omitted field")
}

func TestQueryAllReturnsCopies(t *testing.T) {
	db := peopleDB(t)

	recs, _ := db.QueryAll("people", query.Params{})
	recs[0].Set("name", data.String("Mallory"))
	recs[0].ID = 99

	again, _ := db.QueryAll("people", query.Params{})
	testutil.AssertValue(t, again[0], "name", "Ann", "stored record")
	testutil.AssertIDs(t, again, []int64{1, 2}, "stored ids")
}

func TestQueryWindow(t *testing.T) {
	db := openTestDB(t, medium.NewMemory())
	db.CreateTable("n", []string{"v"})
	for i := 0; i < 5; i++ {
		db.Insert("n", data.Fields{"v": data.Int(int64(i))})
	}

	tests := []struct {
		limit, start int
		want         int
	}{
		{limit: 2, start: 0, want: 2},
		{limit: 2, start: 4, want: 1},
		{limit: 10, start: 1, want: 4},
		{limit: 1, start: 5, want: 0},
		{limit: 3, start: 9, want: 0},
		{limit: 0, start: 2, want: 3},
	}
	for _, tt := range tests {
		recs, err := db.QueryAll("n", query.Params{Limit: tt.limit, Start: tt.start})
		testutil.AssertNoError(t, err, "window")
		testutil.AssertRowCount(t, len(recs), tt.want, "window")
	}

	// deprecated positional form
	recs, err := db.Query("n", nil, 2, 1, []query.SortKey{{Field: "v", Direction: query.Desc}}, nil)
	testutil.AssertNoError(t, err, "Query")
	testutil.AssertIDs(t, recs, []int64{4, 3}, "Query")
}

func TestMissingTable(t *testing.T) {
	db := openTestDB(t, medium.NewMemory())
	pred := query.Equals{}

	calls := map[string]error{}
	_, calls["TableFields"] = db.TableFields("x")
	_, calls["RowCount"] = db.RowCount("x")
	_, calls["Insert"] = db.Insert("x", nil)
	_, calls["QueryAll"] = db.QueryAll("x", query.Params{})
	_, calls["Update"] = db.Update("x", pred, nil)
	_, _, calls["InsertOrUpdate"] = db.InsertOrUpdate("x", pred, nil)
	_, calls["DeleteRows"] = db.DeleteRows("x", pred)
	calls["AlterTable"] = db.AlterTable("x", []string{"a"}, nil)
	calls["DropTable"] = db.DropTable("x")
	calls["Truncate"] = db.Truncate("x")

	for name, err := range calls {
		testutil.AssertErrorIs(t, err, errors.ErrTableNotFound, name)
	}
	if db.ColumnExists("x", data.IDField) {
		t.Error("ColumnExists on a missing table = true")
	}
}

func TestInvalidQuery(t *testing.T) {
	db := peopleDB(t)

	var nilFunc query.Func
	_, err := db.QueryAll("people", query.Params{Query: nilFunc})
	testutil.AssertErrorIs(t, err, errors.ErrInvalidQuery, "nil Func")

	_, err = db.QueryAll("people", query.Params{Sort: []query.SortKey{{Field: "age", Direction: "SIDEWAYS"}}})
	testutil.AssertErrorIs(t, err, errors.ErrInvalidQuery, "bad direction")

	_, err = db.QueryAll("people", query.Params{Distinct: []string{"nope"}})
	testutil.AssertErrorIs(t, err, errors.ErrInvalidQuery, "unknown distinct field")

	_, err = db.DeleteRows("people", nilFunc)
	testutil.AssertErrorIs(t, err, errors.ErrInvalidQuery, "delete with nil Func")
	if n, _ := db.RowCount("people"); n != 2 {
		t.Errorf("failed delete removed rows: %d left", n)
	}
}

func TestDDL(t *testing.T) {
	db := openTestDB(t, medium.NewMemory())

	testutil.AssertNoError(t, db.CreateTable("people", []string{"name", "age"}), "create")
	testutil.AssertErrorIs(t, db.CreateTable("people", nil), errors.ErrTableAlreadyExists, "create twice")
	testutil.AssertErrorIs(t, db.CreateTable("bad", []string{"ID"}), errors.ErrInvalidSchema, "reserved column")
	testutil.AssertErrorIs(t, db.CreateTable("bad", []string{"a", "a"}), errors.ErrInvalidSchema, "duplicate column")
	if db.TableExists("bad") {
		t.Error("rejected table was created")
	}

	db.Insert("people", fields(map[string]any{"name": "Ann"}))

	testutil.AssertNoError(t, db.AlterTable("people", []string{"city", "age"}, fields(map[string]any{"city": "Oslo"})), "alter")
	got, _ := db.TableFields("people")
	if strings.Join(got, ",") != "name,age,city" {
		t.Errorf("TableFields = %v", got)
	}
	recs, _ := db.QueryAll("people", query.Params{})
	testutil.AssertValue(t, recs[0], "city", "Oslo", "backfilled default")
	testutil.AssertColumnNotExists(t, recs[0], "age", "existing column left alone")

	testutil.AssertNoError(t, db.AlterTableWithDefault("people", "score", data.Null()), "alter with default")
	recs, _ = db.QueryAll("people", query.Params{})
	testutil.AssertNullValue(t, recs[0], "score", "null backfill")

	testutil.AssertNoError(t, db.DropColumns("people", "city"), "drop column")
	recs, _ = db.QueryAll("people", query.Params{})
	testutil.AssertColumnNotExists(t, recs[0], "city", "dropped column")
	if db.ColumnExists("people", "city") {
		t.Error("ColumnExists(city) after drop")
	}
	if !db.ColumnExists("people", data.IDField) || !db.ColumnExists("people", "name") {
		t.Error("ColumnExists false for a declared column")
	}
	testutil.AssertErrorIs(t, db.DropColumns("people", data.IDField), errors.ErrInvalidSchema, "drop ID")
	testutil.AssertErrorIs(t, db.DropColumns("people", "nope"), errors.ErrInvalidSchema, "drop undeclared")
	testutil.AssertErrorIs(t, db.AlterTable("people", []string{"ID"}, nil), errors.ErrInvalidSchema, "add ID")

	testutil.AssertNoError(t, db.DropTable("people"), "drop table")
	if db.TableExists("people") || db.TableCount() != 0 {
		t.Error("table still present after DropTable")
	}
}

func TestCreateTableWithData(t *testing.T) {
	db := openTestDB(t, medium.NewMemory())

	rows := []data.Fields{
		fields(map[string]any{"name": "Ann", "age": 30}),
		fields(map[string]any{"name": "Bo", "city": "Rome"}),
	}
	testutil.AssertNoError(t, db.CreateTableWithData("people", rows), "create with data")

	got, _ := db.TableFields("people")
	if strings.Join(got, ",") != "age,name,city" {
		t.Errorf("TableFields = %v, want [age name city]", got)
	}
	recs, _ := db.QueryAll("people", query.Params{})
	testutil.AssertIDs(t, recs, []int64{1, 2}, "inserted rows")

	err := db.CreateTableWithData("bad", []data.Fields{fields(map[string]any{"ID": 1, "a": 1})})
	testutil.AssertErrorIs(t, err, errors.ErrInvalidSchema, "ID key")
	err = db.CreateTableWithData("bad", nil)
	testutil.AssertErrorIs(t, err, errors.ErrInvalidSchema, "no rows")
	if db.TableExists("bad") {
		t.Error("rejected table was created")
	}
}

func TestDistinctAndFuncPredicate(t *testing.T) {
	db := peopleDB(t)
	db.Insert("people", fields(map[string]any{"name": "Cid", "age": 30}))

	adults := query.Func(func(r data.Record) bool {
		age, ok := r.Value("age").AsInt()
		return ok && age >= 30
	})
	recs, err := db.QueryAll("people", query.Params{Query: adults, Distinct: []string{"age"}})
	testutil.AssertNoError(t, err, "distinct")
	testutil.AssertIDs(t, recs, []int64{1}, "distinct adults")
}
