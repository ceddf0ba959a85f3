// Package errors defines the error kinds surfaced by the record store.
//
// Every concrete error matches its sentinel through errors.Is, so callers can
// branch on the kind without type assertions:
//
//	if errors.Is(err, dberrors.ErrTableNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTableNotFound      = errors.New("table not found")
	ErrTableAlreadyExists = errors.New("table already exists")
	ErrInvalidSchema      = errors.New("invalid schema")
	ErrInvalidQuery       = errors.New("invalid query")
	ErrMalformedData      = errors.New("malformed data")
)

// TableNotFoundError is returned when an operation names a table that does not exist
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %q not found", e.Table)
}

func (e *TableNotFoundError) Is(target error) bool { return target == ErrTableNotFound }

// TableAlreadyExistsError is returned by create on a taken name
type TableAlreadyExistsError struct {
	Table string
}

func (e *TableAlreadyExistsError) Error() string {
	return fmt.Sprintf("table %q already exists", e.Table)
}

func (e *TableAlreadyExistsError) Is(target error) bool { return target == ErrTableAlreadyExists }

// SchemaError represents a rejected column definition
// (reserved name, duplicate, empty name, unknown column on removal)
type SchemaError struct {
	Table  string // table name
	Column string // offending column (empty if table-level)
	Reason string // human-readable explanation
}

func (e *SchemaError) Error() string {
	var parts []string
	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("invalid schema for %s.%s", e.Table, e.Column))
	} else {
		parts = append(parts, fmt.Sprintf("invalid schema for %s", e.Table))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return strings.Join(parts, " - ")
}

func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }

// QueryError is returned for predicate or sort shapes the engine cannot evaluate
type QueryError struct {
	Reason string
}

func (e *QueryError) Error() string {
	return "invalid query: " + e.Reason
}

func (e *QueryError) Is(target error) bool { return target == ErrInvalidQuery }

// MalformedDataError is returned when a serialized blob cannot be decoded
// into the expected database shape
type MalformedDataError struct {
	Table  string // table being decoded (empty if top-level)
	Reason string
	Err    error // underlying decoder error, if any
}

func (e *MalformedDataError) Error() string {
	msg := "malformed data"
	if e.Table != "" {
		msg += fmt.Sprintf(" in table %q", e.Table)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }

func (e *MalformedDataError) Unwrap() error { return e.Err }

func NewTableNotFound(table string) *TableNotFoundError {
	return &TableNotFoundError{Table: table}
}

func NewTableAlreadyExists(table string) *TableAlreadyExistsError {
	return &TableAlreadyExistsError{Table: table}
}

func NewReservedColumn(table, column string) *SchemaError {
	return &SchemaError{
		Table:  table,
		Column: column,
		Reason: "column name is reserved",
	}
}

func NewDuplicateColumn(table, column string) *SchemaError {
	return &SchemaError{
		Table:  table,
		Column: column,
		Reason: "duplicate column name",
	}
}

func NewInvalidQuery(format string, args ...any) *QueryError {
	return &QueryError{Reason: fmt.Sprintf(format, args...)}
}

func NewMalformedData(table, reason string, err error) *MalformedDataError {
	return &MalformedDataError{Table: table, Reason: reason, Err: err}
}
