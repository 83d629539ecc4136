package testsupport

import (
	"path/filepath"
	"testing"

	"reelforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.AssetsDir = filepath.Join(base, "assets")
	cfgVal.Paths.VideosDir = filepath.Join(base, "assets", "videos")
	cfgVal.Paths.ComposedDir = filepath.Join(base, "composed")
	cfgVal.Paths.FinalDir = filepath.Join(base, "final")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTools overrides the ffmpeg and ffprobe binaries on the test config.
func WithTools(ffmpeg, ffprobe string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.FFmpeg = ffmpeg
		b.cfg.Tools.FFprobe = ffprobe
	}
}

// WithTimeline overrides the scheduling constants on the test config.
func WithTimeline(leadIn, gap, defaultClip float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timeline.LeadInSeconds = leadIn
		b.cfg.Timeline.GapSeconds = gap
		b.cfg.Timeline.DefaultClipSeconds = defaultClip
	}
}

// WithTargetBand overrides the advisory reel duration band on the test config.
func WithTargetBand(minSeconds, maxSeconds float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encode.TargetMinSeconds = minSeconds
		b.cfg.Encode.TargetMaxSeconds = maxSeconds
	}
}
