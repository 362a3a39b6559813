// Package schedule provides the course schedule entry type and its validation.
//
// An Entry corresponds to one row of a published class schedule table. Entries
// are validated immediately after their fields are extracted, and are turned
// into ordered records for export via Entry.Record.
package schedule
