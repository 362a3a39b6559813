// Package cli implements the command-line interface for class-schedule.
//
// The cli package provides the Cobra root command that fetches a class schedule
// page, parses its schedule table, and exports the entries as CSV and JSON. It
// coordinates the config, scraper, schedule, and export packages and prints a
// run summary (text or JSON) to stdout.
package cli
