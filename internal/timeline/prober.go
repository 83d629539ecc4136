package timeline

import (
	"context"
	"log/slog"

	"reelforge/internal/config"
	"reelforge/internal/logging"
	"reelforge/internal/media/ffprobe"
)

// inspectFunc matches ffprobe.Inspect and exists so tests can stub probing.
type inspectFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Prober measures media durations via ffprobe and never fails: any probe
// problem yields the configured default duration instead of an error.
type Prober struct {
	binary         string
	defaultSeconds float64
	logger         *slog.Logger
	inspect        inspectFunc
}

// NewProber constructs a duration prober from configuration.
func NewProber(cfg *config.Config, logger *slog.Logger) *Prober {
	return &Prober{
		binary:         cfg.FFprobeBinary(),
		defaultSeconds: cfg.Timeline.DefaultClipSeconds,
		logger:         logging.NewComponentLogger(logger, "prober"),
		inspect:        ffprobe.Inspect,
	}
}

// Duration returns the playback duration of the file at path in seconds.
// The second return value reports whether the default was substituted because
// probing failed or produced no parsable duration. Duration has no side
// effects and is safe to call repeatedly on the same path.
func (p *Prober) Duration(ctx context.Context, path string) (float64, bool) {
	result, err := p.inspect(ctx, p.binary, path)
	if err != nil {
		p.logger.Debug("probe failed, using default duration",
			logging.String("path", path),
			logging.Float64("default_seconds", p.defaultSeconds),
			logging.Error(err),
		)
		return p.defaultSeconds, true
	}

	seconds, ok := result.DurationSeconds()
	if !ok {
		p.logger.Debug("probe returned no duration, using default",
			logging.String("path", path),
			logging.Float64("default_seconds", p.defaultSeconds),
		)
		return p.defaultSeconds, true
	}
	return seconds, false
}
