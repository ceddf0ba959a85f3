package query

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/errors"
)

// Predicate selects records. It is either an Equals mapping or a Func;
// a nil Predicate matches every record.
type Predicate interface {
	predicate()
}

// Equals matches records whose fields equal every entry of the mapping.
// The data.IDField key compares against the record id. An empty mapping
// matches everything.
type Equals data.Fields

// Func matches records for which the function returns true
type Func func(rec data.Record) bool

func (Equals) predicate() {}
func (Func) predicate()   {}

// Where is a shorthand for an Equals predicate built from plain values
func Where(m map[string]any) (Equals, error) {
	fields, err := data.FieldsOf(m)
	if err != nil {
		return nil, errors.NewInvalidQuery("%v", err)
	}
	return Equals(fields), nil
}

// FromAny converts a dynamic value into a Predicate. Maps become Equals,
// record functions become Func, and nil matches everything.
func FromAny(v any) (Predicate, error) {
	switch q := v.(type) {
	case nil:
		return nil, nil
	case Predicate:
		return q, nil
	case data.Fields:
		return Equals(q), nil
	case map[string]data.Value:
		return Equals(q), nil
	case map[string]any:
		return Where(q)
	case func(data.Record) bool:
		if q == nil {
			return nil, errors.NewInvalidQuery("predicate function is nil")
		}
		return Func(q), nil
	}
	return nil, errors.NewInvalidQuery("unsupported predicate type %T", v)
}

// matcher resolves a predicate into a match function, rejecting shapes the
// engine cannot evaluate
func matcher(p Predicate) (func(*data.Record) bool, error) {
	switch q := p.(type) {
	case nil:
		return func(*data.Record) bool { return true }, nil
	case Equals:
		return func(rec *data.Record) bool {
			for k, want := range q {
				got, ok := rec.Get(k)
				if !ok || !got.Equal(want) {
					return false
				}
			}
			return true
		}, nil
	case Func:
		if q == nil {
			return nil, errors.NewInvalidQuery("predicate function is nil")
		}
		return func(rec *data.Record) bool {
			// the callback gets a copy so it cannot mutate stored state
			return q(rec.Copy())
		}, nil
	}
	return nil, errors.NewInvalidQuery("unsupported predicate type %T", p)
}

// idLookup reports whether the predicate is exactly {ID: n}, which the
// implicit id index can answer without a scan
func idLookup(p Predicate) (int64, bool) {
	q, ok := p.(Equals)
	if !ok || len(q) != 1 {
		return 0, false
	}
	v, ok := q[data.IDField]
	if !ok {
		return 0, false
	}
	return v.AsInt()
}
