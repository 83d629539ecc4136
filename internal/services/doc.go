// Package services defines the shared failure taxonomy for external-tool
// invocations and pipeline stages.
//
// Errors are tagged with sentinel markers (ErrExternalTool, ErrMissingInput,
// ErrNoValidScenes, ErrConfiguration) via Wrap so callers can classify a
// failure with errors.Is without parsing message text. The CLI boundary maps
// markers to exit codes; the pipeline uses them to decide whether a failure
// degrades a scene or terminates the run.
package services
