// Package record provides an ordered field mapping used as the export shape
// for course schedule entries.
//
// A Record keeps its keys in insertion order so that the CSV header and the
// JSON object keys both follow the order in which an entry's fields were
// constructed.
package record
