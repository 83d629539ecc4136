// Package logging configures slog for the reelforge CLI.
//
// Two handler formats are supported: "console" renders compact
// timestamp/level/component lines for interactive use, "json" emits
// structured records for log collection. Helper constructors mirror the
// slog.Attr API so call sites stay terse, and NewComponentLogger attaches
// the standardized component attribute used across the pipeline.
package logging
