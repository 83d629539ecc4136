package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"reelforge/internal/assets"
	"reelforge/internal/compose"
	"reelforge/internal/config"
	"reelforge/internal/ledger"
	"reelforge/internal/logging"
	"reelforge/internal/merge"
	"reelforge/internal/services"
	"reelforge/internal/timeline"
)

// sidecarName is the plain-text file holding the final reel path, written
// only on success for downstream consumers.
const sidecarName = "final_reel_path.txt"

// Report summarizes a completed run.
type Report struct {
	RunID          string
	SceneCount     int
	ComposedCount  int
	DroppedCount   int
	FallbackCount  int
	ReelPath       string
	ReelDuration   float64
	DurationProbed bool
	SidecarPath    string
}

// Runner drives the compose-then-merge pipeline for one invocation.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *ledger.Store

	prober     timeline.DurationProber
	scheduler  *timeline.Scheduler
	compositor *compose.Compositor
	merger     *merge.Merger
	lock       *flock.Flock
}

// NewRunner constructs a pipeline runner. The ledger store may be nil, in
// which case run history is not recorded.
func NewRunner(cfg *config.Config, logger *slog.Logger, store *ledger.Store) *Runner {
	prober := timeline.NewProber(cfg, logger)
	return &Runner{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		store:      store,
		prober:     prober,
		scheduler:  timeline.NewScheduler(cfg, prober),
		compositor: compose.NewCompositor(cfg, logger),
		merger:     merge.NewMerger(cfg, logger),
		lock:       flock.New(filepath.Join(cfg.Paths.LogDir, "reelforge.lock")),
	}
}

// Run executes the full pipeline: load scenes, compose each in order, merge,
// then write the sidecar. The returned error is non-nil only for run-fatal
// failures (lock contention, no scenes, merge failure).
func (r *Runner) Run(ctx context.Context) (Report, error) {
	// The lock file lives in the log directory, so that must exist before
	// the lock can be acquired.
	if err := r.cfg.EnsureDirectories(); err != nil {
		return Report{}, err
	}

	locked, err := r.lock.TryLock()
	if err != nil {
		return Report{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return Report{}, services.Wrap(services.ErrConfiguration, "pipeline", "lock",
			"another reelforge run is already in progress", nil)
	}
	defer func() { _ = r.lock.Unlock() }()

	scenes, err := assets.Load(r.cfg)
	if err != nil {
		return Report{}, err
	}
	if len(scenes) == 0 {
		return Report{}, services.Wrap(services.ErrNoValidScenes, "pipeline", "load",
			"no scenes found in assets", nil)
	}

	report := Report{SceneCount: len(scenes)}
	if r.store != nil {
		run, err := r.store.StartRun(ctx, len(scenes))
		if err != nil {
			return Report{}, err
		}
		report.RunID = run.ID
	}

	r.logger.Info("starting run",
		logging.String(logging.FieldRunID, report.RunID),
		logging.Int("scene_count", len(scenes)),
	)

	composedPaths := make([]string, 0, len(scenes))
	for _, scene := range scenes {
		outcome := r.composeScene(ctx, scene)
		r.recordScene(ctx, report.RunID, outcome)

		if outcome.Outcome == ledger.SceneOutcomeDropped {
			report.DroppedCount++
			continue
		}
		if outcome.Outcome == ledger.SceneOutcomeSilentFallback {
			report.FallbackCount++
		}
		report.ComposedCount++
		composedPaths = append(composedPaths, outcome.ComposedPath)
	}

	merged, err := r.merger.Merge(ctx, composedPaths)
	if err != nil {
		r.failRun(ctx, report.RunID, err)
		return report, err
	}

	report.ReelPath = merged.Path
	report.ReelDuration = merged.DurationSeconds
	report.DurationProbed = merged.DurationProbed

	sidecarPath := filepath.Join(r.cfg.Paths.FinalDir, sidecarName)
	if err := writeSidecar(sidecarPath, merged.Path); err != nil {
		r.failRun(ctx, report.RunID, err)
		return report, err
	}
	report.SidecarPath = sidecarPath

	r.checkDurationBand(merged)

	if r.store != nil {
		if err := r.store.CompleteRun(ctx, report.RunID, merged.Path, merged.DurationSeconds); err != nil {
			r.logger.Warn("failed to persist run completion", logging.Error(err))
		}
	}

	r.logger.Info("run complete",
		logging.String(logging.FieldRunID, report.RunID),
		logging.String("reel_path", merged.Path),
		logging.Float64("duration_seconds", merged.DurationSeconds),
		logging.Int("scenes_merged", merged.SceneCount),
		logging.Int("scenes_dropped", report.DroppedCount),
	)
	return report, nil
}

// composeScene schedules and composes a single scene, reducing every failure
// mode to an explicit outcome instead of a sentinel value.
func (r *Runner) composeScene(ctx context.Context, scene assets.Scene) ledger.SceneRecord {
	record := ledger.SceneRecord{SceneID: scene.ID}

	scheduled := r.scheduler.Schedule(ctx, scene.Dialogues)
	if missing := len(scene.Dialogues) - len(scheduled); missing > 0 {
		r.logger.Warn("dialogue clips missing, excluded from schedule",
			logging.Int(logging.FieldSceneID, scene.ID),
			logging.Int("missing_clips", missing),
		)
	}

	r.warnOnOverrun(ctx, scene, scheduled)

	result, err := r.compositor.Compose(ctx, scene.ID, scene.VideoPath, scheduled)
	if err != nil {
		record.Outcome = ledger.SceneOutcomeDropped
		record.Detail = err.Error()
		r.logger.Warn("scene dropped",
			logging.Int(logging.FieldSceneID, scene.ID),
			logging.String(logging.FieldEventType, "scene_dropped"),
			logging.Error(err),
		)
		return record
	}

	record.ComposedPath = result.Path
	record.ClipCount = result.ClipCount
	switch result.Mode {
	case compose.ModeMixed:
		record.Outcome = ledger.SceneOutcomeMixed
	case compose.ModeSilentFallback:
		record.Outcome = ledger.SceneOutcomeSilentFallback
	default:
		record.Outcome = ledger.SceneOutcomePassthrough
	}

	r.logger.Info("scene composed",
		logging.Int(logging.FieldSceneID, scene.ID),
		logging.String("mode", string(result.Mode)),
		logging.Int("clip_count", result.ClipCount),
	)
	return record
}

// warnOnOverrun flags dialogue schedules that extend past the scene video.
// Advisory only: the mix output is trimmed by the encode step's
// shortest-stream policy, not by the scheduler.
func (r *Runner) warnOnOverrun(ctx context.Context, scene assets.Scene, scheduled []timeline.ScheduledClip) {
	if len(scheduled) == 0 {
		return
	}
	videoSeconds, defaulted := r.prober.Duration(ctx, scene.VideoPath)
	if defaulted {
		return
	}
	if span := timeline.Span(scheduled); span > videoSeconds {
		r.logger.Warn("dialogue schedule extends past video end",
			logging.Int(logging.FieldSceneID, scene.ID),
			logging.Float64("schedule_seconds", span),
			logging.Float64("video_seconds", videoSeconds),
		)
	}
}

// checkDurationBand reports reel durations outside the configured target
// band. Advisory only: the reel is kept either way.
func (r *Runner) checkDurationBand(merged merge.Result) {
	if !merged.DurationProbed || r.cfg.Encode.TargetMaxSeconds <= 0 {
		return
	}
	if merged.DurationSeconds < r.cfg.Encode.TargetMinSeconds || merged.DurationSeconds > r.cfg.Encode.TargetMaxSeconds {
		r.logger.Warn("final reel duration outside target band",
			logging.Float64("duration_seconds", merged.DurationSeconds),
			logging.Float64("target_min_seconds", r.cfg.Encode.TargetMinSeconds),
			logging.Float64("target_max_seconds", r.cfg.Encode.TargetMaxSeconds),
		)
	}
}

func (r *Runner) recordScene(ctx context.Context, runID string, record ledger.SceneRecord) {
	if r.store == nil || runID == "" {
		return
	}
	record.RunID = runID
	if err := r.store.RecordScene(ctx, record); err != nil {
		r.logger.Warn("failed to persist scene outcome",
			logging.Int(logging.FieldSceneID, record.SceneID),
			logging.Error(err),
		)
	}
}

func (r *Runner) failRun(ctx context.Context, runID string, cause error) {
	if r.store == nil || runID == "" {
		return
	}
	if err := r.store.FailRun(ctx, runID, cause.Error()); err != nil {
		r.logger.Warn("failed to persist run failure", logging.Error(err))
	}
}
