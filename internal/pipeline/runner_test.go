package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"reelforge/internal/config"
	"reelforge/internal/ledger"
	"reelforge/internal/logging"
	"reelforge/internal/services"
	"reelforge/internal/testsupport"
)

type fakeRunner struct {
	calls    [][]string
	failWhen func(args []string) error
}

// run records the invocation and materializes the output file so downstream
// existence checks treat the encode as real.
func (f *fakeRunner) run(_ context.Context, _ string, args ...string) error {
	recorded := append([]string(nil), args...)
	f.calls = append(f.calls, recorded)
	if f.failWhen != nil {
		if err := f.failWhen(args); err != nil {
			return err
		}
	}
	output := args[len(args)-1]
	return os.WriteFile(output, []byte("media"), 0o644)
}

func newTestRunner(t *testing.T, cfg *config.Config, store *ledger.Store) (*Runner, *fakeRunner) {
	t.Helper()
	runner := NewRunner(cfg, logging.NewNop(), store)
	fake := &fakeRunner{}
	runner.compositor.WithCommandRunner(fake.run)
	runner.merger.WithCommandRunner(fake.run)
	return runner, fake
}

func writeScene(t *testing.T, cfg *config.Config, sceneID int) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.VideosDir, fmt.Sprintf("scene_%d.mp4", sceneID))
	testsupport.WriteFile(t, path, "video")
	return path
}

func writeAudioManifest(t *testing.T, cfg *config.Config, entries []map[string]any) {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal audio manifest: %v", err)
	}
	testsupport.WriteFile(t, cfg.AudioManifestPath(), string(data))
}

func TestRunnerProducesReelAndSidecar(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTools("ffmpeg-test", "ffprobe-test"))
	store := testsupport.MustOpenLedger(t, cfg)

	writeScene(t, cfg, 1)
	writeScene(t, cfg, 2)
	clipA := filepath.Join(cfg.Paths.AssetsDir, "audio", "s1_line1.mp3")
	clipB := filepath.Join(cfg.Paths.AssetsDir, "audio", "s1_line2.mp3")
	testsupport.WriteFile(t, clipA, "audio")
	testsupport.WriteFile(t, clipB, "audio")
	writeAudioManifest(t, cfg, []map[string]any{
		{
			"scene_id": 1,
			"audio_files": []map[string]any{
				{"path": clipA, "character": "kai", "order": 1},
				{"path": clipB, "character": "mira", "order": 2},
			},
		},
	})

	runner, fake := newTestRunner(t, cfg, store)
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.SceneCount != 2 || report.ComposedCount != 2 || report.DroppedCount != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.ReelPath != filepath.Join(cfg.Paths.FinalDir, "final_reel.mp4") {
		t.Fatalf("unexpected reel path %s", report.ReelPath)
	}
	if report.DurationProbed {
		t.Fatalf("duration should be unprobed without a real ffprobe")
	}

	sidecar, err := os.ReadFile(report.SidecarPath)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	if strings.TrimSpace(string(sidecar)) != report.ReelPath {
		t.Fatalf("sidecar content %q does not match reel path", sidecar)
	}

	// Scene 1 mixes, scene 2 has no dialogue and passes through, then the merge.
	if len(fake.calls) != 3 {
		t.Fatalf("expected 3 ffmpeg invocations, got %d", len(fake.calls))
	}
	if !slices.Contains(fake.calls[0], "-filter_complex") {
		t.Fatalf("scene 1 should mix: %v", fake.calls[0])
	}
	if !slices.Contains(fake.calls[1], "-an") {
		t.Fatalf("scene 2 should pass through: %v", fake.calls[1])
	}
	if !slices.Contains(fake.calls[2], "concat") {
		t.Fatalf("final call should be the concat merge: %v", fake.calls[2])
	}

	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != ledger.RunStatusMerged {
		t.Fatalf("run not recorded as merged: %+v", runs)
	}
	scenes, err := store.ScenesForRun(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("ScenesForRun: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("expected 2 scene records, got %d", len(scenes))
	}
	if scenes[0].Outcome != ledger.SceneOutcomeMixed || scenes[1].Outcome != ledger.SceneOutcomePassthrough {
		t.Fatalf("unexpected scene outcomes: %+v", scenes)
	}
}

func TestRunnerDropsSceneWithMissingVideo(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTools("ffmpeg-test", "ffprobe-test"))
	store := testsupport.MustOpenLedger(t, cfg)

	present := writeScene(t, cfg, 1)
	missing := filepath.Join(cfg.Paths.VideosDir, "scene_2.mp4")
	manifest, err := json.Marshal([]string{present, missing})
	if err != nil {
		t.Fatalf("marshal video manifest: %v", err)
	}
	testsupport.WriteFile(t, cfg.VideoManifestPath(), string(manifest))

	runner, _ := newTestRunner(t, cfg, store)
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.ComposedCount != 1 || report.DroppedCount != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	scenes, err := store.ScenesForRun(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("ScenesForRun: %v", err)
	}
	if scenes[1].Outcome != ledger.SceneOutcomeDropped || scenes[1].Detail == "" {
		t.Fatalf("missing video should drop the scene with detail: %+v", scenes[1])
	}
}

func TestRunnerFallsBackToSilentOnMixFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTools("ffmpeg-test", "ffprobe-test"))

	writeScene(t, cfg, 1)
	clip := filepath.Join(cfg.Paths.AssetsDir, "audio", "s1_line1.mp3")
	testsupport.WriteFile(t, clip, "audio")
	writeAudioManifest(t, cfg, []map[string]any{
		{
			"scene_id": 1,
			"audio_files": []map[string]any{
				{"path": clip, "character": "kai", "order": 1},
			},
		},
	})

	runner, fake := newTestRunner(t, cfg, nil)
	fake.failWhen = func(args []string) error {
		if slices.Contains(args, "-filter_complex") {
			return errors.New("mix encode exploded")
		}
		return nil
	}

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.FallbackCount != 1 || report.ComposedCount != 1 {
		t.Fatalf("expected silent fallback: %+v", report)
	}
}

func TestRunnerFailsWhenNothingComposes(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTools("ffmpeg-test", "ffprobe-test"))
	store := testsupport.MustOpenLedger(t, cfg)

	missing := filepath.Join(cfg.Paths.VideosDir, "scene_1.mp4")
	manifest, err := json.Marshal([]string{missing})
	if err != nil {
		t.Fatalf("marshal video manifest: %v", err)
	}
	testsupport.WriteFile(t, cfg.VideoManifestPath(), string(manifest))

	runner, _ := newTestRunner(t, cfg, store)
	report, err := runner.Run(context.Background())
	if !errors.Is(err, services.ErrNoValidScenes) {
		t.Fatalf("expected ErrNoValidScenes, got %v", err)
	}

	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != ledger.RunStatusFailed {
		t.Fatalf("run not recorded as failed: %+v", runs)
	}
	if report.DroppedCount != 1 {
		t.Fatalf("scene should be counted dropped: %+v", report)
	}
}

func TestRunnerPreparesDirectoriesBeforeLocking(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTools("ffmpeg-test", "ffprobe-test"))
	writeScene(t, cfg, 1)

	// Only the videos dir exists at this point; the runner must create the
	// log dir itself before placing the lock file there.
	if _, err := os.Stat(cfg.Paths.LogDir); !os.IsNotExist(err) {
		t.Fatalf("log dir should not exist yet: %v", err)
	}

	runner, _ := newTestRunner(t, cfg, nil)
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run on fresh directories: %v", err)
	}
	if report.ComposedCount != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, "reelforge.lock")); err != nil {
		t.Fatalf("lock file not created in log dir: %v", err)
	}
}

func TestRunnerRejectsConcurrentRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTools("ffmpeg-test", "ffprobe-test"))
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}

	held := flock.New(filepath.Join(cfg.Paths.LogDir, "reelforge.lock"))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("setup lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	runner, _ := newTestRunner(t, cfg, nil)
	if _, err := runner.Run(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected lock contention error, got %v", err)
	}
}

func TestRunnerWritesNoSidecarOnFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTools("ffmpeg-test", "ffprobe-test"))
	writeScene(t, cfg, 1)

	runner, fake := newTestRunner(t, cfg, nil)
	fake.failWhen = func(args []string) error {
		if slices.Contains(args, "concat") {
			return errors.New("merge encode exploded")
		}
		return nil
	}

	if _, err := runner.Run(context.Background()); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected merge failure, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.FinalDir, sidecarName)); !os.IsNotExist(err) {
		t.Fatalf("sidecar should not exist after a failed merge: %v", err)
	}
}
