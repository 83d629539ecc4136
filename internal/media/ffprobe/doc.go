// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect executes ffprobe with -show_format -show_streams and decodes the
// response into Result. Helper methods expose the pieces the pipeline needs:
// container duration and per-type stream counts.
package ffprobe
