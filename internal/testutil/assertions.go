package testutil

import (
	"errors"
	"testing"

	"github.com/leengari/lsdb/internal/domain/data"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertIDs checks that records carry exactly the expected ids, in order
func AssertIDs(t *testing.T, recs []data.Record, expected []int64, context string) {
	t.Helper()
	got := make([]int64, len(recs))
	for i, r := range recs {
		got[i] = r.ID
	}
	if len(got) != len(expected) {
		t.Errorf("%s: expected ids %v, got %v", context, expected, got)
		return
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("%s: expected ids %v, got %v", context, expected, got)
			return
		}
	}
}

// AssertColumnExists checks if a field is present on a record
func AssertColumnExists(t *testing.T, rec data.Record, column, context string) {
	t.Helper()
	if _, exists := rec.Get(column); !exists {
		t.Errorf("%s: expected column '%s' to exist", context, column)
	}
}

// AssertColumnNotExists checks if a field is absent from a record
func AssertColumnNotExists(t *testing.T, rec data.Record, column, context string) {
	t.Helper()
	if _, exists := rec.Get(column); exists {
		t.Errorf("%s: did not expect column '%s' to exist", context, column)
	}
}

// AssertValue checks that a record field equals the expected plain value
func AssertValue(t *testing.T, rec data.Record, column string, expected any, context string) {
	t.Helper()
	want, err := data.Of(expected)
	if err != nil {
		t.Fatalf("%s: bad expected value %v: %v", context, expected, err)
	}
	got, ok := rec.Get(column)
	if !ok {
		t.Errorf("%s: column '%s' is absent, expected %v", context, column, want)
		return
	}
	if !got.Equal(want) {
		t.Errorf("%s: column '%s' = %v, expected %v", context, column, got, want)
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}

// AssertErrorIs checks that err matches the target error kind
func AssertErrorIs(t *testing.T, err, target error, context string) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("%s: expected error %v, got: %v", context, target, err)
	}
}

// AssertNullValue checks that a record field is present and null
func AssertNullValue(t *testing.T, rec data.Record, column, context string) {
	t.Helper()
	v, ok := rec.Get(column)
	if !ok {
		t.Errorf("%s: expected NULL in column '%s', but it is absent", context, column)
		return
	}
	if !v.IsNull() {
		t.Errorf("%s: expected NULL value, got: %v", context, v)
	}
}
