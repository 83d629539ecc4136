package merge

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"reelforge/internal/config"
	"reelforge/internal/fileutil"
	"reelforge/internal/logging"
	"reelforge/internal/media/ffprobe"
	"reelforge/internal/services"
)

// finalReelName is the fixed output name; re-runs overwrite it in place.
const finalReelName = "final_reel.mp4"

// mergeErrorDetailLimit bounds how much ffmpeg stderr is logged on merge failure.
const mergeErrorDetailLimit = 500

type commandRunner func(ctx context.Context, name string, args ...string) error

type inspectFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Result reports a successful merge.
type Result struct {
	Path       string
	SceneCount int
	// DurationSeconds is informational only; DurationProbed reports whether
	// the post-merge probe succeeded.
	DurationSeconds float64
	DurationProbed  bool
}

// Merger concatenates composed scenes into the normalized final reel.
type Merger struct {
	ffmpegBinary  string
	ffprobeBinary string
	finalDir      string
	preset        string
	crf           int
	audioBitrate  string
	frameWidth    int
	frameHeight   int
	logger        *slog.Logger

	run        commandRunner
	inspect    inspectFunc
	fileExists func(string) bool
}

// NewMerger constructs a reel merger from configuration.
func NewMerger(cfg *config.Config, logger *slog.Logger) *Merger {
	return &Merger{
		ffmpegBinary:  cfg.FFmpegBinary(),
		ffprobeBinary: cfg.FFprobeBinary(),
		finalDir:      cfg.Paths.FinalDir,
		preset:        cfg.Encode.MergePreset,
		crf:           cfg.Encode.MergeCRF,
		audioBitrate:  cfg.Encode.AudioBitrate,
		frameWidth:    cfg.Encode.FrameWidth,
		frameHeight:   cfg.Encode.FrameHeight,
		logger:        logging.NewComponentLogger(logger, "merger"),
		run:           defaultCommandRunner,
		inspect:       ffprobe.Inspect,
		fileExists:    fileutil.FileExists,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (m *Merger) WithCommandRunner(r commandRunner) {
	if m != nil && r != nil {
		m.run = r
	}
}

// OutputPath returns the fixed final reel location.
func (m *Merger) OutputPath() string {
	return filepath.Join(m.finalDir, finalReelName)
}

// ManifestPath returns the concat manifest location.
func (m *Merger) ManifestPath() string {
	return filepath.Join(m.finalDir, manifestName)
}

// Merge concatenates the given composed scene files, in order, into the final
// reel. Entries that do not reference an existing file are filtered out first;
// an empty filtered set is the one unrecoverable failure in the pipeline and
// returns an ErrNoValidScenes-tagged error. Encode failure is fatal with no
// retry.
func (m *Merger) Merge(ctx context.Context, composedPaths []string) (Result, error) {
	valid := make([]string, 0, len(composedPaths))
	for _, path := range composedPaths {
		if m.fileExists(path) {
			valid = append(valid, path)
		}
	}
	if len(valid) == 0 {
		return Result{}, services.Wrap(services.ErrNoValidScenes, "merger", "merge",
			"no composed scenes to merge", nil)
	}

	manifestPath := m.ManifestPath()
	if err := writeManifest(manifestPath, valid); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "merger", "write manifest", "", err)
	}

	outputPath := m.OutputPath()
	args := []string{
		"-y",
		"-f", "concat", "-safe", "0",
		"-i", manifestPath,
		"-vf", m.geometryFilter(),
		"-c:v", "libx264", "-preset", m.preset, "-crf", fmt.Sprintf("%d", m.crf),
		"-c:a", "aac", "-b:a", m.audioBitrate,
		"-movflags", "+faststart",
		outputPath,
	}

	if err := m.run(ctx, m.ffmpegBinary, args...); err != nil {
		m.logger.Error("merge encode failed",
			logging.String(logging.FieldEventType, "merge_failure"),
			logging.Int("scene_count", len(valid)),
			logging.String("detail", services.Truncate(err.Error(), mergeErrorDetailLimit)),
		)
		return Result{}, services.Wrap(services.ErrExternalTool, "merger", "concat encode", "", err)
	}

	result := Result{Path: outputPath, SceneCount: len(valid)}
	if probed, err := m.inspect(ctx, m.ffprobeBinary, outputPath); err == nil {
		if seconds, ok := probed.DurationSeconds(); ok {
			result.DurationSeconds = seconds
			result.DurationProbed = true
		}
	}
	return result, nil
}

// geometryFilter scales each frame to fit the target box preserving aspect
// ratio, pads the shorter dimension symmetrically to the exact target size,
// and normalizes the pixel aspect ratio to square.
func (m *Merger) geometryFilter() string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		m.frameWidth, m.frameHeight, m.frameWidth, m.frameHeight,
	)
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
