package engine

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/operation"
	"github.com/leengari/lsdb/internal/query"
	"github.com/leengari/lsdb/internal/query/operations/crud"
	"github.com/leengari/lsdb/internal/query/operations/projection"
)

// Insert adds a record and returns its id. Fields that are not declared
// columns, and any ID, are dropped.
func (d *DB) Insert(name string, fields data.Fields) (int64, error) {
	t, err := d.db.Table(name)
	if err != nil {
		return 0, err
	}

	op := operation.Begin(operation.KindMutation)

	id := crud.Insert(t, fields)
	op.Record(operation.ChangeTypeInsert, name, id)
	d.notify(op, name, map[string]any{"action": "insert", "ids": []int64{id}})
	return id, nil
}

// InsertMany inserts rows in order and returns their ids
func (d *DB) InsertMany(name string, rows []data.Fields) ([]int64, error) {
	t, err := d.db.Table(name)
	if err != nil {
		return nil, err
	}

	op := operation.Begin(operation.KindMutation)

	ids := crud.InsertMany(t, rows)
	for _, id := range ids {
		op.Record(operation.ChangeTypeInsert, name, id)
	}
	d.notify(op, name, map[string]any{"action": "insert", "ids": ids})
	return ids, nil
}

// QueryAll returns copies of the records selected by p. Changing them does
// not affect the database.
func (d *DB) QueryAll(name string, p query.Params) ([]data.Record, error) {
	t, err := d.db.Table(name)
	if err != nil {
		return nil, err
	}
	recs, err := query.Evaluate(t, p)
	if err != nil {
		return nil, err
	}
	return projection.Copies(recs), nil
}

// Query is the positional form of QueryAll.
//
// Deprecated: use QueryAll.
func (d *DB) Query(name string, pred query.Predicate, limit, start int, sort []query.SortKey, distinct []string) ([]data.Record, error) {
	return d.QueryAll(name, query.Params{
		Query:    pred,
		Limit:    limit,
		Start:    start,
		Sort:     sort,
		Distinct: distinct,
	})
}

// Update merges fn's result into every record matching pred and returns
// the number of records it changed. A record for which fn returns nil is
// left alone.
func (d *DB) Update(name string, pred query.Predicate, fn crud.UpdateFunc) (int, error) {
	t, err := d.db.Table(name)
	if err != nil {
		return 0, err
	}

	op := operation.Begin(operation.KindMutation)

	n, err := crud.Update(t, pred, func(rec data.Record) data.Fields {
		if fn == nil {
			return nil
		}
		changes := fn(rec)
		if changes != nil {
			op.Record(operation.ChangeTypeUpdate, name, rec.ID)
		}
		return changes
	})
	if err != nil {
		return 0, err
	}
	d.notify(op, name, map[string]any{
		"action": "update",
		"ids":    op.RowIDs(operation.ChangeTypeUpdate),
	})
	return n, nil
}

// InsertOrUpdate inserts fields as a new record when pred matches nothing,
// and merges fields into every match otherwise. Returns the affected ids
// and whether a record was inserted.
func (d *DB) InsertOrUpdate(name string, pred query.Predicate, fields data.Fields) ([]int64, bool, error) {
	t, err := d.db.Table(name)
	if err != nil {
		return nil, false, err
	}

	op := operation.Begin(operation.KindMutation)

	ids, inserted, err := crud.InsertOrUpdate(t, pred, fields)
	if err != nil {
		return nil, false, err
	}

	change := operation.ChangeTypeUpdate
	if inserted {
		change = operation.ChangeTypeInsert
	}
	for _, id := range ids {
		op.Record(change, name, id)
	}
	d.notify(op, name, map[string]any{
		"action":   "insert_or_update",
		"ids":      ids,
		"inserted": inserted,
	})
	return ids, inserted, nil
}

// DeleteRows removes the records matching pred and returns how many were
// removed. Ids are never reused; a nil pred empties the table.
func (d *DB) DeleteRows(name string, pred query.Predicate) (int, error) {
	t, err := d.db.Table(name)
	if err != nil {
		return 0, err
	}

	op := operation.Begin(operation.KindMutation)

	n, err := crud.Delete(t, pred)
	if err != nil {
		return 0, err
	}
	d.notify(op, name, map[string]any{"action": "delete", "deleted": n})
	return n, nil
}
