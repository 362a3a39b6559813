// Package scraper provides HTTP fetching and HTML parsing for published class schedules.
//
// The scraper fetches a schedule page with a single GET request and extracts
// the rows of its class schedule table (id "classSchedule" by default). Each
// data row holds 14 cells in a fixed order. The first cell packs department,
// course and section together, and the instructor cell may carry a mailto
// link. Parsing is strict: the first malformed row aborts the whole parse.
package scraper
