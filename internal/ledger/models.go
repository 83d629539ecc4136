package ledger

import "time"

// RunStatus represents the lifecycle of a pipeline run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusMerged  RunStatus = "merged"
	RunStatusFailed  RunStatus = "failed"
)

// SceneOutcome records how one scene resolved within a run.
type SceneOutcome string

const (
	SceneOutcomeMixed          SceneOutcome = "mixed"
	SceneOutcomePassthrough    SceneOutcome = "passthrough"
	SceneOutcomeSilentFallback SceneOutcome = "silent_fallback"
	SceneOutcomeDropped        SceneOutcome = "dropped"
)

// Run is one pipeline invocation persisted in SQLite.
type Run struct {
	ID                  string
	Status              RunStatus
	StartedAt           time.Time
	FinishedAt          *time.Time
	SceneCount          int
	ReelPath            string
	ReelDurationSeconds float64
	ErrorMessage        string
}

// SceneRecord is one scene's outcome within a run.
type SceneRecord struct {
	RunID        string
	SceneID      int
	Outcome      SceneOutcome
	ComposedPath string
	ClipCount    int
	Detail       string
}
