// Package logging builds the slog loggers used by the dvk command and the
// archive packages.
//
// Two formats are supported: "console", a compact single-line layout for
// terminals, and "json", one object per line with ts/level/msg keys. Loggers
// write to stderr and optionally to a log file configured in the [logging]
// section. Library code accepts a *slog.Logger and treats nil as NewNop.
package logging
