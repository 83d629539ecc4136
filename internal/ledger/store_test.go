package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"reelforge/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ComposedDir = filepath.Join(base, "composed")
	cfg.Paths.FinalDir = filepath.Join(base, "final")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, 3)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if run.Status != RunStatusRunning || run.ID == "" {
		t.Fatalf("unexpected run: %+v", run)
	}

	records := []SceneRecord{
		{RunID: run.ID, SceneID: 1, Outcome: SceneOutcomeMixed, ComposedPath: "/c/scene_1_composed.mp4", ClipCount: 2},
		{RunID: run.ID, SceneID: 2, Outcome: SceneOutcomeDropped, Detail: "video not found"},
		{RunID: run.ID, SceneID: 3, Outcome: SceneOutcomeSilentFallback, ComposedPath: "/c/scene_3_composed.mp4"},
	}
	for _, record := range records {
		if err := store.RecordScene(ctx, record); err != nil {
			t.Fatalf("RecordScene: %v", err)
		}
	}

	if err := store.CompleteRun(ctx, run.ID, "/final/final_reel.mp4", 38.2); err != nil {
		t.Fatalf("CompleteRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Status != RunStatusMerged || got.ReelPath != "/final/final_reel.mp4" || got.ReelDurationSeconds != 38.2 {
		t.Fatalf("unexpected finished run: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Fatalf("finished_at not set")
	}

	scenes, err := store.ScenesForRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ScenesForRun: %v", err)
	}
	if len(scenes) != 3 {
		t.Fatalf("expected 3 scene records, got %d", len(scenes))
	}
	if scenes[1].Outcome != SceneOutcomeDropped || scenes[1].Detail != "video not found" {
		t.Fatalf("dropped scene not recorded: %+v", scenes[1])
	}
}

func TestFailRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, 1)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := store.FailRun(ctx, run.ID, "merge encode failed"); err != nil {
		t.Fatalf("FailRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if runs[0].Status != RunStatusFailed || runs[0].ErrorMessage != "merge encode failed" {
		t.Fatalf("unexpected failed run: %+v", runs[0])
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := newTestStore(t)
	if err := store.CompleteRun(context.Background(), "nope", "", 0); err == nil {
		t.Fatalf("expected error for unknown run")
	}
}

func TestRecordSceneUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, 1)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	record := SceneRecord{RunID: run.ID, SceneID: 1, Outcome: SceneOutcomeMixed, ClipCount: 2}
	if err := store.RecordScene(ctx, record); err != nil {
		t.Fatalf("first RecordScene: %v", err)
	}
	record.Outcome = SceneOutcomeSilentFallback
	record.Detail = "mix encode failed"
	if err := store.RecordScene(ctx, record); err != nil {
		t.Fatalf("second RecordScene: %v", err)
	}

	scenes, err := store.ScenesForRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ScenesForRun: %v", err)
	}
	if len(scenes) != 1 || scenes[0].Outcome != SceneOutcomeSilentFallback {
		t.Fatalf("upsert failed: %+v", scenes)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ComposedDir = filepath.Join(base, "composed")
	cfg.Paths.FinalDir = filepath.Join(base, "final")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := store.StartRun(context.Background(), 1); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(&cfg)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected persisted run, got %d", len(runs))
	}
}
