// Package config loads class-schedule settings.
//
// Settings are resolved in increasing order of precedence: built-in defaults,
// an optional YAML file, a .env file and the process environment, and finally
// command-line flags (applied by the cli package).
package config
