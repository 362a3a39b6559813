package scraper

import (
	"errors"
	"fmt"
)

// NetworkError is returned when the schedule page cannot be fetched
type NetworkError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when the schedule table is missing from the page
type NotFoundError struct {
	Selector string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.Selector)
}

// StructureError is returned when a data row has the wrong number of cells
type StructureError struct {
	Row   int
	Cells int
	Want  int
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("row %d: expected %d cells, found %d", e.Row, e.Want, e.Cells)
}

// ParseError is returned when a cell's content does not match its expected format
type ParseError struct {
	Row    int
	Column int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d, column %d (%s): cannot parse %q: %v", e.Row, e.Column, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RowError attaches a row number to an error raised while building that row's entry
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// RowOf reports the table row an error refers to, or 0 if it names none
func RowOf(err error) int {
	var se *StructureError
	if errors.As(err, &se) {
		return se.Row
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Row
	}
	var re *RowError
	if errors.As(err, &re) {
		return re.Row
	}
	return 0
}
