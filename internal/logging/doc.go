// Package logging assembles structured slog loggers and formatting helpers used
// across longview.
//
// It owns the console and JSON handlers, the per-run log file, and the run ID
// that tags every record of a single generation run. Callers get a component
// logger from NewComponentLogger and use WarnWithContext/ErrorWithContext so
// that warnings carry an event type, a hint, and the user-facing impact.
//
// A no-op logger is available for tests and wiring code that cannot fail.
package logging
