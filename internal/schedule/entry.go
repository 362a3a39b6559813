package schedule

import (
	"strings"

	"github.com/pfrederiksen/class-schedule/internal/record"
)

// Entry represents one class offering in a course schedule
type Entry struct {
	Term              *string `json:"term"` // Set by the caller; the parser never fills it
	Department        string  `json:"department" validate:"required"`
	Course            string  `json:"course" validate:"required"`
	Section           string  `json:"section" validate:"required,numeric"`
	ClassNumber       string  `json:"class_number"`
	ModeOfInstruction string  `json:"mode_of_instruction"`
	CourseTitle       string  `json:"course_title"`
	Satisfies         string  `json:"satisfies"`
	Units             int     `json:"units" validate:"gte=0"`
	ClassType         string  `json:"class_type"`
	Days              string  `json:"days"`
	Times             string  `json:"times"`
	Instructor        string  `json:"instructor"`
	InstructorEmail   string  `json:"instructorEmail"`
	Location          string  `json:"location"`
	Dates             string  `json:"dates"`
	OpenSeats         int     `json:"open_seats"`
	Notes             string  `json:"notes"`
}

// Record returns the entry as an ordered field mapping.
// Keys follow the struct's field order and match its JSON tags.
func (e *Entry) Record() record.Record {
	var term any
	if e.Term != nil {
		term = *e.Term
	}

	return record.Record{
		{Key: "term", Value: term},
		{Key: "department", Value: e.Department},
		{Key: "course", Value: e.Course},
		{Key: "section", Value: e.Section},
		{Key: "class_number", Value: e.ClassNumber},
		{Key: "mode_of_instruction", Value: e.ModeOfInstruction},
		{Key: "course_title", Value: e.CourseTitle},
		{Key: "satisfies", Value: e.Satisfies},
		{Key: "units", Value: e.Units},
		{Key: "class_type", Value: e.ClassType},
		{Key: "days", Value: e.Days},
		{Key: "times", Value: e.Times},
		{Key: "instructor", Value: e.Instructor},
		{Key: "instructorEmail", Value: e.InstructorEmail},
		{Key: "location", Value: e.Location},
		{Key: "dates", Value: e.Dates},
		{Key: "open_seats", Value: e.OpenSeats},
		{Key: "notes", Value: e.Notes},
	}
}

// Records converts entries to records, preserving order
func Records(entries []*Entry) []record.Record {
	records := make([]record.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Record())
	}
	return records
}

// ApplyTerm labels every entry with the given term.
// A blank term leaves the entries untouched.
func ApplyTerm(entries []*Entry, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	for _, e := range entries {
		t := term
		e.Term = &t
	}
}
