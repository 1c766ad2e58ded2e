// Package logging constructs the slog loggers used across gopress.
//
// It supplies a console handler tuned for interactive runs, a JSON handler
// for machine consumption, and typed attribute helpers so call sites stay
// terse. Obtain loggers through New or NewNop rather than slog.Default so
// level and format stay consistent between the CLI and the workers.
package logging
