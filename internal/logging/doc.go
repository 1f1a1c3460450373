// Package logging builds the slog loggers used across the console.
//
// Two output formats are supported: a compact console handler aimed at
// humans watching a terminal, and slog's JSON handler for log files and
// machine consumption. Console logs go to stderr so stdout stays reserved
// for command output.
package logging
