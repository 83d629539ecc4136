package compose

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
	"reelforge/internal/services"
	"reelforge/internal/timeline"
)

// encodeErrorDetailLimit bounds how much ffmpeg stderr is logged per scene.
const encodeErrorDetailLimit = 200

// Mode describes how a scene's composed output was produced.
type Mode string

const (
	// ModeMixed means dialogue audio was delayed and mixed onto the video.
	ModeMixed Mode = "mixed"
	// ModePassthrough means the scene had no usable audio and the video was
	// remuxed silent without re-encoding.
	ModePassthrough Mode = "passthrough"
	// ModeSilentFallback means the mix encode failed and the scene degraded
	// to silent passthrough.
	ModeSilentFallback Mode = "silent_fallback"
)

// Result reports one composed scene.
type Result struct {
	Path      string
	Mode      Mode
	ClipCount int
}

// commandRunner executes an external command, returning stderr detail on failure.
type commandRunner func(ctx context.Context, name string, args ...string) error

// Compositor produces one composed media file per scene.
type Compositor struct {
	binary       string
	outputDir    string
	preset       string
	audioBitrate string
	logger       *slog.Logger

	run        commandRunner
	fileExists func(string) bool
}

// NewCompositor constructs a scene compositor from configuration.
func NewCompositor(cfg *config.Config, logger *slog.Logger) *Compositor {
	return &Compositor{
		binary:       cfg.FFmpegBinary(),
		outputDir:    cfg.Paths.ComposedDir,
		preset:       cfg.Encode.ComposePreset,
		audioBitrate: cfg.Encode.AudioBitrate,
		logger:       logging.NewComponentLogger(logger, "compositor"),
		run:          defaultCommandRunner,
		fileExists:   fileutil.FileExists,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (c *Compositor) WithCommandRunner(r commandRunner) {
	if c != nil && r != nil {
		c.run = r
	}
}

// OutputPath returns the deterministic composed file path for a scene. It is
// a pure function of the scene ID, so re-runs overwrite the same location.
func (c *Compositor) OutputPath(sceneID int) string {
	return filepath.Join(c.outputDir, fmt.Sprintf("scene_%d_composed.mp4", sceneID))
}

// Compose overlays the scheduled dialogue clips onto the scene video.
//
// A missing scene video is the only failure that drops the scene: it returns
// an ErrMissingInput-tagged error and no output. Once the video exists, some
// composed file is always produced: scenes without usable audio are remuxed
// silent, and a failed mix encode retries once via the same silent path.
func (c *Compositor) Compose(ctx context.Context, sceneID int, videoPath string, clips []timeline.ScheduledClip) (Result, error) {
	if !c.fileExists(videoPath) {
		return Result{}, services.Wrap(services.ErrMissingInput, "compositor",
			fmt.Sprintf("scene %d", sceneID), fmt.Sprintf("video not found: %s", videoPath), nil)
	}

	outputPath := c.OutputPath(sceneID)

	// Scheduling and composition may be separated in time, so re-check each
	// clip's file before building the graph.
	usable := clips[:0:0]
	for _, clip := range clips {
		if c.fileExists(clip.Path) {
			usable = append(usable, clip)
		} else {
			c.logger.Warn("dialogue clip vanished before composition, skipping",
				logging.Int(logging.FieldSceneID, sceneID),
				logging.String("clip_path", clip.Path),
			)
		}
	}

	if len(usable) == 0 {
		if err := c.passthrough(ctx, videoPath, outputPath); err != nil {
			return Result{}, err
		}
		return Result{Path: outputPath, Mode: ModePassthrough}, nil
	}

	if err := c.mix(ctx, videoPath, outputPath, usable); err != nil {
		c.logger.Warn("mix encode failed, degrading scene to silent video",
			logging.Int(logging.FieldSceneID, sceneID),
			logging.String(logging.FieldEventType, "compose_fallback"),
			logging.String("detail", services.Truncate(err.Error(), encodeErrorDetailLimit)),
		)
		if err := c.passthrough(ctx, videoPath, outputPath); err != nil {
			return Result{}, err
		}
		return Result{Path: outputPath, Mode: ModeSilentFallback}, nil
	}

	return Result{Path: outputPath, Mode: ModeMixed, ClipCount: len(usable)}, nil
}

// mix runs the delayed-mix encode: video stream copied through re-encode with
// the speed-favoring preset, dialogue clips delayed and mixed into one track.
func (c *Compositor) mix(ctx context.Context, videoPath, outputPath string, clips []timeline.ScheduledClip) error {
	args := []string{"-y", "-i", videoPath}
	for _, clip := range clips {
		args = append(args, "-i", clip.Path)
	}
	args = append(args,
		"-filter_complex", buildFilterGraph(clips),
		"-map", "0:v",
		"-map", "[aout]",
		"-c:v", "libx264", "-preset", c.preset,
		"-c:a", "aac", "-b:a", c.audioBitrate,
		"-shortest",
		outputPath,
	)

	if err := c.run(ctx, c.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "compositor", "mix encode", "", err)
	}
	return nil
}

// passthrough remuxes the video stream unchanged with no audio stream.
func (c *Compositor) passthrough(ctx context.Context, videoPath, outputPath string) error {
	args := []string{"-y", "-i", videoPath, "-c:v", "copy", "-an", outputPath}
	if err := c.run(ctx, c.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "compositor", "silent passthrough", "", err)
	}
	return nil
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
