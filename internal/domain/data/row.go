package data

import (
	"bytes"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// IDField is the reserved column under which every record exposes its id
const IDField = "ID"

// Fields maps column name to value
type Fields map[string]Value

// FieldsOf converts a plain map (e.g. decoded JSON) into Fields
func FieldsOf(m map[string]any) (Fields, error) {
	fields := make(Fields, len(m))
	for k, v := range m {
		val, err := Of(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = val
	}
	return fields, nil
}

// MustFields is FieldsOf for literals; it panics on unsupported values
func MustFields(m map[string]any) Fields {
	fields, err := FieldsOf(m)
	if err != nil {
		panic(err)
	}
	return fields
}

// Copy creates a deep copy of the fields to prevent mutation
func (f Fields) Copy() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v.Clone()
	}
	return out
}

// Record represents a single table row: its immutable id plus field values
type Record struct {
	ID     int64
	Fields Fields
	// order is the column order used when encoding; nil means sorted keys
	order []string
}

// NewRecord creates a record that takes ownership of fields
func NewRecord(id int64, fields Fields) *Record {
	if fields == nil {
		fields = Fields{}
	}
	return &Record{ID: id, Fields: fields}
}

// Get returns a field value; IDField yields the record id
func (r *Record) Get(name string) (Value, bool) {
	if name == IDField {
		return Int(r.ID), true
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Value is Get without the presence flag; absent fields read as null
func (r *Record) Value(name string) Value {
	v, _ := r.Get(name)
	return v
}

// Set writes a field. The id is immutable, so IDField is ignored.
func (r *Record) Set(name string, v Value) {
	if name == IDField {
		return
	}
	if r.Fields == nil {
		r.Fields = Fields{}
	}
	r.Fields[name] = v
}

// Delete removes a field from the record
func (r *Record) Delete(name string) {
	delete(r.Fields, name)
}

// SetOrder fixes the key order used by Keys and MarshalJSON
func (r *Record) SetOrder(columns []string) {
	r.order = columns
}

// Copy creates a deep copy of the record to prevent mutation
func (r *Record) Copy() Record {
	return Record{ID: r.ID, Fields: r.Fields.Copy(), order: r.order}
}

// Keys returns IDField followed by the present fields in column order
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields)+1)
	keys = append(keys, IDField)
	seen := make(map[string]bool, len(r.Fields))
	for _, col := range r.order {
		if _, ok := r.Fields[col]; ok && !seen[col] {
			keys = append(keys, col)
			seen[col] = true
		}
	}
	var rest []string
	for k := range r.Fields {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Map converts the record into plain Go values, including IDField
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v.Interface()
	}
	out[IDField] = r.ID
	return out
}

// MarshalJSON encodes the record as an object with "ID" first
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		ks, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(ks)
		buf.WriteByte(':')
		v, _ := r.Get(k)
		if err := v.encode(&buf); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object that must carry a non-negative integer "ID"
func (r *Record) UnmarshalJSON(b []byte) error {
	var m map[string]Value
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("record must be an object")
	}
	idVal, ok := m[IDField]
	if !ok {
		return fmt.Errorf("record is missing %q", IDField)
	}
	id, ok := idVal.AsInt()
	if !ok || id < 0 {
		return fmt.Errorf("record %q must be a non-negative integer, got %s", IDField, idVal)
	}
	delete(m, IDField)
	r.ID = id
	r.Fields = Fields(m)
	return nil
}
