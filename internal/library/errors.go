package library

import (
	"errors"
	"fmt"
)

var (
	ErrNotLoaded  = errors.New("no transactions loaded")
	ErrEmptyTable = errors.New("transaction table is empty")
)

// NotFoundError is returned when the input path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("CSV file not found: %s", e.Path)
}

// FormatError is returned when the input path is not a .csv file.
type FormatError struct {
	Path string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid file format %q: please provide a CSV file", e.Path)
}

// SchemaError names the first required column missing from the header.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing column: %s", e.Column)
}

// ParseError reports a complete row whose values could not be converted,
// or a record the CSV reader rejected.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
