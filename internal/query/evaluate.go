// Package query evaluates predicates, sort orders, distinct projections and
// start/limit windows over a table's records. Every read and mutate path of
// the engine selects its records through Evaluate.
package query

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/schema"
	"github.com/leengari/lsdb/internal/query/operations/projection"
)

// Params controls a query. The zero value selects every record in
// insertion order.
type Params struct {
	Query    Predicate
	Sort     []SortKey
	Limit    int // maximum number of records; <= 0 means unbounded
	Start    int // records skipped after filtering, sorting and distinct
	Distinct []string
}

// Evaluate returns the matching records of table by reference, in
// filtered, sorted, distinct and windowed order. Callers that hand records
// out must copy them.
func Evaluate(table *schema.Table, p Params) ([]*data.Record, error) {
	match, err := matcher(p.Query)
	if err != nil {
		return nil, err
	}
	if err := validateSort(p.Sort); err != nil {
		return nil, err
	}
	if err := projection.ValidateFields(table, p.Distinct); err != nil {
		return nil, err
	}

	var result []*data.Record
	if id, ok := idLookup(p.Query); ok {
		if rec, found := table.Lookup(id); found {
			result = append(result, rec)
		}
	} else {
		result = make([]*data.Record, 0, len(table.Records))
		for _, rec := range table.Records {
			if match(rec) {
				result = append(result, rec)
			}
		}
	}

	sortRecords(result, p.Sort)
	result = projection.Distinct(result, p.Distinct)
	return window(result, p.Start, p.Limit), nil
}

// Count returns how many records match the predicate
func Count(table *schema.Table, pred Predicate) (int, error) {
	recs, err := Evaluate(table, Params{Query: pred})
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func window(recs []*data.Record, start, limit int) []*data.Record {
	if start < 0 {
		start = 0
	}
	if start >= len(recs) {
		return []*data.Record{}
	}
	recs = recs[start:]
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	return recs
}
