package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"

	"github.com/pfrederiksen/class-schedule/internal/logger"
	"github.com/pfrederiksen/class-schedule/internal/schedule"
)

const (
	DefaultTableID = "classSchedule"

	// NumColumns is the number of data cells in every schedule row
	NumColumns = 14

	mailtoPrefix = "mailto:"
)

// Column positions within a schedule row
const (
	colCourseSection = iota
	colClassNumber
	colModeOfInstruction
	colCourseTitle
	colSatisfies
	colUnits
	colClassType
	colDays
	colTimes
	colInstructor
	colLocation
	colDates
	colOpenSeats
	colNotes
)

var (
	whitespace = regexp.MustCompile(`[\s\p{Zs}]+`) // includes &nbsp;
	digitRun   = regexp.MustCompile(`\d+`)
)

type parseConfig struct {
	tableID string
}

// ParseOption configures Parse
type ParseOption func(*parseConfig)

// WithTableID selects the table to parse by its id attribute
func WithTableID(id string) ParseOption {
	return func(c *parseConfig) {
		if id != "" {
			c.tableID = id
		}
	}
}

// Parse extracts schedule entries from raw HTML.
//
// Rows containing header cells are skipped. Every other row must hold exactly
// NumColumns data cells. Row numbers in errors count every <tr> in the table,
// starting at 1. The first malformed row aborts parsing and no entries are
// returned.
func Parse(html []byte, opts ...ParseOption) ([]*schedule.Entry, error) {
	cfg := parseConfig{tableID: DefaultTableID}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find("table").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		id, _ := sel.Attr("id")
		return id == cfg.tableID
	}).First()
	if table.Length() == 0 {
		return nil, &NotFoundError{Selector: "table#" + cfg.tableID}
	}

	rows := table.Find("tr")
	entries := make([]*schedule.Entry, 0, rows.Length())

	var rowErr error
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if hasCell(row, atom.Th) {
			return true
		}

		entry, err := parseRow(i+1, cellsOf(row, atom.Td))
		if err != nil {
			rowErr = err
			return false
		}

		entries = append(entries, entry)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return entries, nil
}

// cellsOf returns the row's direct children of the given cell kind
func cellsOf(row *goquery.Selection, kind atom.Atom) *goquery.Selection {
	return row.Children().FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return sel.Get(0).DataAtom == kind
	})
}

func hasCell(row *goquery.Selection, kind atom.Atom) bool {
	return cellsOf(row, kind).Length() > 0
}

// parseRow converts one row's data cells into a validated entry
func parseRow(rowNum int, cells *goquery.Selection) (*schedule.Entry, error) {
	if cells.Length() != NumColumns {
		return nil, &StructureError{Row: rowNum, Cells: cells.Length(), Want: NumColumns}
	}

	text := make([]string, NumColumns)
	cells.Each(func(i int, cell *goquery.Selection) {
		text[i] = strings.TrimSpace(cell.Text())
	})

	department, course, section, err := splitCourseSection(text[colCourseSection])
	if err != nil {
		return nil, &ParseError{
			Row:    rowNum,
			Column: colCourseSection,
			Field:  "department/course/section",
			Value:  text[colCourseSection],
			Err:    err,
		}
	}

	units, err := parseTruncatedInt(text[colUnits])
	if err != nil {
		return nil, &ParseError{Row: rowNum, Column: colUnits, Field: "units", Value: text[colUnits], Err: err}
	}

	openSeats, err := parseTruncatedInt(text[colOpenSeats])
	if err != nil {
		return nil, &ParseError{Row: rowNum, Column: colOpenSeats, Field: "open_seats", Value: text[colOpenSeats], Err: err}
	}

	email := instructorEmail(cells.Eq(colInstructor))
	if email != "" {
		logger.Debug("Extracted instructor email", logger.Fields{
			"row":   rowNum,
			"email": email,
		})
	}

	entry := &schedule.Entry{
		Department:        department,
		Course:            course,
		Section:           section,
		ClassNumber:       text[colClassNumber],
		ModeOfInstruction: text[colModeOfInstruction],
		CourseTitle:       text[colCourseTitle],
		Satisfies:         text[colSatisfies],
		Units:             units,
		ClassType:         text[colClassType],
		Days:              text[colDays],
		Times:             text[colTimes],
		Instructor:        text[colInstructor],
		InstructorEmail:   email,
		Location:          text[colLocation],
		Dates:             text[colDates],
		OpenSeats:         openSeats,
		Notes:             text[colNotes],
	}

	if err := schedule.Validate(entry); err != nil {
		return nil, &RowError{Row: rowNum, Err: err}
	}

	return entry, nil
}

// splitCourseSection splits a cell like "CS 146 Section 01" into its
// department, course and section. The section is the first digit run of
// everything after the course.
func splitCourseSection(s string) (department, course, section string, err error) {
	parts := whitespace.Split(strings.TrimSpace(s), 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("expected 3 whitespace-separated parts, found %d", len(parts))
	}

	section = digitRun.FindString(parts[2])
	if section == "" {
		return "", "", "", errors.New("section has no digits")
	}

	return parts[0], parts[1], section, nil
}

// parseTruncatedInt parses a decimal string and truncates it toward zero,
// so "3.0" and "3.9" both give 3.
func parseTruncatedInt(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}

	t := math.Trunc(f)
	if t > math.MaxInt32 || t < math.MinInt32 {
		return 0, errors.New("out of range")
	}
	return int(t), nil
}

// instructorEmail returns the address of the first mailto link in the cell,
// or "" if there is none.
func instructorEmail(cell *goquery.Selection) string {
	href, ok := cell.Find(`a[href^="mailto:"]`).First().Attr("href")
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(href, mailtoPrefix))
}
