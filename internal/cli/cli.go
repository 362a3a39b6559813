package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/class-schedule/internal/config"
	"github.com/pfrederiksen/class-schedule/internal/export"
	"github.com/pfrederiksen/class-schedule/internal/logger"
	"github.com/pfrederiksen/class-schedule/internal/schedule"
	"github.com/pfrederiksen/class-schedule/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Pipeline stages, used to label errors and log lines
const (
	StageFetch      = "fetch"
	StageParse      = "parse"
	StageExportCSV  = "export csv"
	StageExportJSON = "export json"
)

var (
	flagConfig    string
	flagURL       string
	flagCSV       string
	flagJSON      string
	flagTerm      string
	flagTableID   string
	flagTimeout   time.Duration
	flagFormat    string
	flagPrint     bool
	flagVerbose   bool
	flagLogLevel  string
	flagLogFormat string
)

// StageError records which pipeline stage failed
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "class-schedule",
		Short: "Export a university class schedule to CSV and JSON",
		Long: `A CLI tool that fetches a published class schedule page, extracts the
class schedule table, and writes every class offering to a CSV file and a JSON file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExport,
	}

	// Define flags
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&flagURL, "url", config.DefaultURL, "Schedule page URL")
	cmd.Flags().StringVar(&flagCSV, "csv", config.DefaultCSVPath, "CSV output path")
	cmd.Flags().StringVar(&flagJSON, "json", config.DefaultJSONPath, "JSON output path")
	cmd.Flags().StringVar(&flagTerm, "term", "", "Term label to attach to every entry (e.g., 'Spring 2024')")
	cmd.Flags().StringVar(&flagTableID, "table-id", config.DefaultTableID, "id of the schedule table")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", config.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary format: text or json")
	cmd.Flags().BoolVar(&flagPrint, "print", false, "Include every entry in the summary")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flagLogFormat, "log-format", "json", "Log format: json or pretty")

	return cmd
}

// runExport is the main command logic
func runExport(cmd *cobra.Command, args []string) error {
	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := setupLogger(cmd, cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := Run(ctx, cfg)
	if err != nil {
		fields := logger.Fields{}
		var se *StageError
		if errors.As(err, &se) {
			fields["stage"] = se.Stage
		}
		if row := scraper.RowOf(err); row > 0 {
			fields["row"] = row
		}
		logger.Error("Schedule export failed", fields, err)
		return err
	}

	result.ShowEntries = flagPrint
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// applyFlags overrides config values with flags set on the command line
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = flagURL
	}
	if flags.Changed("csv") {
		cfg.CSVPath = flagCSV
	}
	if flags.Changed("json") {
		cfg.JSONPath = flagJSON
	}
	if flags.Changed("term") {
		cfg.Term = flagTerm
	}
	if flags.Changed("table-id") {
		cfg.TableID = flagTableID
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = flagLogFormat
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}
}

func setupLogger(cmd *cobra.Command, cfg *config.Config) error {
	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.NewWithFormat(level, cmd.ErrOrStderr(), format))
	return nil
}

// Run executes the fetch, parse and export stages in order.
// The first failing stage aborts the run with a *StageError.
func Run(ctx context.Context, cfg *config.Config) (*OutputResult, error) {
	logger.ResetMetrics()

	sc := scraper.New(cfg.URL,
		scraper.WithTimeout(cfg.Timeout),
		scraper.WithUserAgent(cfg.UserAgent),
		scraper.WithTable(cfg.TableID),
	)

	logger.Info("Fetching schedule", logger.Fields{"url": sc.URL()})
	start := time.Now()
	body, err := sc.Fetch(ctx)
	logger.RecordTiming(StageFetch, time.Since(start))
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Err: err}
	}
	logger.AddCounter("bytes_fetched", int64(len(body)))

	start = time.Now()
	entries, err := scraper.Parse(body, scraper.WithTableID(cfg.TableID))
	logger.RecordTiming(StageParse, time.Since(start))
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}
	logger.AddCounter("entries", int64(len(entries)))
	logger.Info("Parsed schedule", logger.Fields{"entries": len(entries)})

	schedule.ApplyTerm(entries, cfg.Term)
	records := schedule.Records(entries)

	start = time.Now()
	if err := export.WriteCSVFile(cfg.CSVPath, records); err != nil {
		return nil, &StageError{Stage: StageExportCSV, Err: err}
	}
	logger.Debug("Wrote CSV", logger.Fields{"path": cfg.CSVPath})

	if err := export.WriteJSONFile(cfg.JSONPath, records); err != nil {
		return nil, &StageError{Stage: StageExportJSON, Err: err}
	}
	logger.Debug("Wrote JSON", logger.Fields{"path": cfg.JSONPath})
	logger.RecordTiming("export", time.Since(start))

	logger.Info("Schedule exported", logger.MetricsSnapshot())

	return &OutputResult{
		FetchedAt:   time.Now().UTC(),
		SourceURL:   cfg.URL,
		Term:        strings.TrimSpace(cfg.Term),
		EntryCount:  len(entries),
		Departments: countByDepartment(entries),
		CSVPath:     cfg.CSVPath,
		JSONPath:    cfg.JSONPath,
		Entries:     entries,
		Records:     records,
	}, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
