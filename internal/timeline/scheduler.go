package timeline

import (
	"context"

	"reelforge/internal/assets"
	"reelforge/internal/config"
	"reelforge/internal/fileutil"
)

// DurationProber reports a clip's duration and whether it was defaulted.
type DurationProber interface {
	Duration(ctx context.Context, path string) (seconds float64, defaulted bool)
}

// ScheduledClip is a dialogue clip annotated with its computed start offset.
type ScheduledClip struct {
	assets.DialogueClip
	// StartOffset is seconds from scene start, strictly increasing with order.
	StartOffset float64
	// Duration is the probed duration used to place the following clip.
	Duration float64
	// DurationDefaulted reports that probing failed and Duration is the default.
	DurationDefaulted bool
}

// Scheduler assigns non-overlapping start offsets to a scene's dialogue clips.
type Scheduler struct {
	leadIn float64
	gap    float64
	prober DurationProber

	fileExists func(string) bool
}

// NewScheduler constructs a scheduler with the configured lead-in and gap.
func NewScheduler(cfg *config.Config, prober DurationProber) *Scheduler {
	return &Scheduler{
		leadIn:     cfg.Timeline.LeadInSeconds,
		gap:        cfg.Timeline.GapSeconds,
		prober:     prober,
		fileExists: fileutil.FileExists,
	}
}

// Schedule walks clips in input order and assigns each existing clip a start
// offset. The cursor begins at the lead-in; after each clip it advances by the
// clip's probed duration plus the gap. Clips whose file does not exist are
// excluded from the result and consume no schedule slot. An empty result
// signals the compositor to fall back to video-only passthrough.
func (s *Scheduler) Schedule(ctx context.Context, clips []assets.DialogueClip) []ScheduledClip {
	scheduled := make([]ScheduledClip, 0, len(clips))
	cursor := s.leadIn

	for _, clip := range clips {
		if !s.fileExists(clip.Path) {
			continue
		}

		duration, defaulted := s.prober.Duration(ctx, clip.Path)
		scheduled = append(scheduled, ScheduledClip{
			DialogueClip:      clip,
			StartOffset:       cursor,
			Duration:          duration,
			DurationDefaulted: defaulted,
		})
		cursor += duration + s.gap
	}
	return scheduled
}

// Span returns the end time of the last scheduled clip, or 0 for an empty
// schedule. Used for the advisory overrun warning against the video duration.
func Span(clips []ScheduledClip) float64 {
	if len(clips) == 0 {
		return 0
	}
	last := clips[len(clips)-1]
	return last.StartOffset + last.Duration
}
