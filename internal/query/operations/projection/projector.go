package projection

import (
	"strings"

	"github.com/leengari/lsdb/internal/domain/data"
)

// ProjectRecord returns a copy of the record holding only the requested
// fields. Requested fields absent from the record are skipped.
// If fields is empty, returns a copy of the entire record.
func ProjectRecord(rec *data.Record, fields []string) data.Record {
	if len(fields) == 0 {
		return rec.Copy()
	}

	projected := data.Record{ID: rec.ID, Fields: make(data.Fields, len(fields))}
	for _, f := range fields {
		if f == data.IDField {
			continue
		}
		if v, ok := rec.Fields[f]; ok {
			projected.Fields[f] = v.Clone()
		}
	}
	projected.SetOrder(fields)
	return projected
}

// Key encodes the projection of a record on fields so that two records
// with equal projections get the same key. Absent fields and nulls are
// distinguished.
func Key(rec *data.Record, fields []string) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(0)
		}
		v, ok := rec.Get(f)
		if !ok {
			sb.WriteString("~")
			continue
		}
		b, err := normalize(v).MarshalJSON()
		if err != nil {
			sb.WriteString(v.String())
			continue
		}
		sb.Write(b)
	}
	return sb.String()
}

// normalize maps integral floats to ints so 2 and 2.0 project the same way
func normalize(v data.Value) data.Value {
	if v.Kind() == data.KindFloat {
		if i, ok := v.AsInt(); ok {
			return data.Int(i)
		}
	}
	return v
}

// Distinct drops every record whose projection on fields duplicates an
// earlier one. The first occurrence wins and order is preserved.
func Distinct(recs []*data.Record, fields []string) []*data.Record {
	if len(fields) == 0 {
		return recs
	}
	seen := make(map[string]bool, len(recs))
	out := recs[:0:0]
	for _, rec := range recs {
		k := Key(rec, fields)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, rec)
	}
	return out
}

// Copies converts matched records into detached copies for readers
func Copies(recs []*data.Record) []data.Record {
	out := make([]data.Record, len(recs))
	for i, rec := range recs {
		out[i] = rec.Copy()
	}
	return out
}
