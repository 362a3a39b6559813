package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultURL       = "https://www.sjsu.edu/classes/schedules/spring-2024.php"
	DefaultTableID   = "classSchedule"
	DefaultCSVPath   = "ClassSchedule.csv"
	DefaultJSONPath  = "ClassSchedule.json"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "class-schedule/1.0 (github.com/pfrederiksen/class-schedule)"
)

// Environment variables recognised by Load
const (
	EnvURL       = "SCHEDULE_URL"
	EnvTableID   = "SCHEDULE_TABLE_ID"
	EnvCSVPath   = "SCHEDULE_CSV"
	EnvJSONPath  = "SCHEDULE_JSON"
	EnvTerm      = "SCHEDULE_TERM"
	EnvTimeout   = "SCHEDULE_TIMEOUT"
	EnvUserAgent = "SCHEDULE_USER_AGENT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Config holds all pipeline settings
type Config struct {
	URL       string        `yaml:"url"`
	TableID   string        `yaml:"table_id"`
	CSVPath   string        `yaml:"csv_path"`
	JSONPath  string        `yaml:"json_path"`
	Term      string        `yaml:"term"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, pretty
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		URL:       DefaultURL,
		TableID:   DefaultTableID,
		CSVPath:   DefaultCSVPath,
		JSONPath:  DefaultJSONPath,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (if non-empty),
// and the environment. A .env file in the working directory is loaded when
// present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile merges a YAML config file over the current values.
// Keys absent from the file keep their current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.URL, EnvURL)
	setString(&c.TableID, EnvTableID)
	setString(&c.CSVPath, EnvCSVPath)
	setString(&c.JSONPath, EnvJSONPath)
	setString(&c.Term, EnvTerm)
	setString(&c.UserAgent, EnvUserAgent)
	setString(&c.Logging.Level, EnvLogLevel)
	setString(&c.Logging.Format, EnvLogFormat)

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", c.URL)
	}

	if strings.TrimSpace(c.TableID) == "" {
		return errors.New("table id must not be empty")
	}
	if strings.TrimSpace(c.CSVPath) == "" {
		return errors.New("csv path must not be empty")
	}
	if strings.TrimSpace(c.JSONPath) == "" {
		return errors.New("json path must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	return nil
}
