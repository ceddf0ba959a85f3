package executor

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/errors"
	"github.com/leengari/lsdb/internal/query"
)

// predicateOf converts the wire form of a query into a predicate.
// Only field-equality objects can travel over the wire; null or a missing
// query matches everything.
func predicateOf(v *data.Value) (query.Predicate, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	if v.Kind() != data.KindMapping {
		return nil, errors.NewInvalidQuery("query must be an object of field values, got %s", v.Kind())
	}
	return query.Equals(v.Entries()), nil
}

// paramsOf builds query parameters from a command
func paramsOf(cmd Command) (query.Params, error) {
	pred, err := predicateOf(cmd.Query)
	if err != nil {
		return query.Params{}, err
	}
	sort, err := query.ParseSort(cmd.Sort)
	if err != nil {
		return query.Params{}, err
	}
	return query.Params{
		Query:    pred,
		Sort:     sort,
		Limit:    cmd.Limit,
		Start:    cmd.Start,
		Distinct: cmd.Distinct,
	}, nil
}

// columnsOf returns result columns: ID then the other fields
func columnsOf(fields []string) []string {
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, data.IDField)
	for _, f := range fields {
		if f != data.IDField {
			cols = append(cols, f)
		}
	}
	return cols
}
