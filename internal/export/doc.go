// Package export writes course schedule records as CSV and JSON.
//
// Both formats take their column and key order from the records themselves:
// the CSV header is the first record's key order, and each JSON object keeps
// its record's key order. File writes go through a temporary file in the
// destination directory that is renamed into place, so a failed export never
// leaves a partial file behind.
package export
