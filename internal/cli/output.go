package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pfrederiksen/class-schedule/internal/record"
	"github.com/pfrederiksen/class-schedule/internal/schedule"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult summarises a completed export
type OutputResult struct {
	FetchedAt   time.Time         `json:"fetched_at"`
	SourceURL   string            `json:"source_url"`
	Term        string            `json:"term,omitempty"`
	EntryCount  int               `json:"entry_count"`
	Departments map[string]int    `json:"departments"`
	CSVPath     string            `json:"csv_path"`
	JSONPath    string            `json:"json_path"`
	Records     []record.Record   `json:"entries,omitempty"`
	Entries     []*schedule.Entry `json:"-"`
	ShowEntries bool              `json:"-"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	out := *result
	if !out.ShowEntries {
		out.Records = nil
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EntryCount == 0 {
		fmt.Fprintln(w, "No entries found.")
		return nil
	}

	fmt.Fprintf(w, "Exported %d entries from %s\n", result.EntryCount, result.SourceURL)
	if result.Term != "" {
		fmt.Fprintf(w, "Term: %s\n", result.Term)
	}

	if len(result.Departments) > 0 {
		fmt.Fprintf(w, "\nBy department:\n")
		for _, dept := range sortedDepartments(result.Departments) {
			fmt.Fprintf(w, "  %-6s %d\n", dept, result.Departments[dept])
		}
	}

	if result.ShowEntries {
		fmt.Fprintln(w)
		for _, e := range result.Entries {
			writeEntry(w, e, verbose)
		}
	}

	fmt.Fprintf(w, "\nCSV:  %s\n", result.CSVPath)
	fmt.Fprintf(w, "JSON: %s\n", result.JSONPath)

	return nil
}

func writeEntry(w io.Writer, e *schedule.Entry, verbose bool) {
	fmt.Fprintf(w, "%s %s-%s (%s): %s\n", e.Department, e.Course, e.Section, e.ClassNumber, e.CourseTitle)
	fmt.Fprintf(w, "     %s %s %s, %d units, %d open\n", e.ClassType, e.Days, e.Times, e.Units, e.OpenSeats)

	if !verbose {
		return
	}
	instructor := e.Instructor
	if e.InstructorEmail != "" {
		instructor = fmt.Sprintf("%s <%s>", instructor, e.InstructorEmail)
	}
	fmt.Fprintf(w, "     Instructor: %s\n", instructor)
	if e.Location != "" {
		fmt.Fprintf(w, "     Location: %s\n", e.Location)
	}
	if e.Dates != "" {
		fmt.Fprintf(w, "     Dates: %s\n", e.Dates)
	}
	if e.Notes != "" {
		fmt.Fprintf(w, "     Notes: %s\n", e.Notes)
	}
}

// countByDepartment tallies entries per department
func countByDepartment(entries []*schedule.Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Department]++
	}
	return counts
}

// sortedDepartments returns department codes by descending count, then name
func sortedDepartments(counts map[string]int) []string {
	depts := make([]string, 0, len(counts))
	for d := range counts {
		depts = append(depts, d)
	}
	sort.Slice(depts, func(i, j int) bool {
		if counts[depts[i]] != counts[depts[j]] {
			return counts[depts[i]] > counts[depts[j]]
		}
		return depts[i] < depts[j]
	})
	return depts
}
