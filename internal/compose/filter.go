package compose

import (
	"fmt"
	"strings"

	"reelforge/internal/timeline"
)

// delayMillis converts a start offset in seconds to whole milliseconds.
// The value is truncated, not rounded, matching the adelay contract.
func delayMillis(offsetSeconds float64) int {
	return int(offsetSeconds * 1000)
}

// buildFilterGraph renders the adelay/amix filter_complex for the given clips.
// Input index 0 is the scene video; clip i maps to ffmpeg input i+1. Each clip
// is delayed to its start offset (both channels identically), then all delayed
// streams are mixed unweighted with output length "longest" so the mix spans
// the latest-ending clip.
func buildFilterGraph(clips []timeline.ScheduledClip) string {
	if len(clips) == 0 {
		return ""
	}

	parts := make([]string, 0, len(clips)+1)
	labels := make([]string, 0, len(clips))
	for i, clip := range clips {
		ms := delayMillis(clip.StartOffset)
		label := fmt.Sprintf("a%d", i)
		parts = append(parts, fmt.Sprintf("[%d:a]adelay=%d|%d[%s]", i+1, ms, ms, label))
		labels = append(labels, "["+label+"]")
	}
	parts = append(parts, fmt.Sprintf("%samix=inputs=%d:duration=longest[aout]",
		strings.Join(labels, ""), len(clips)))

	return strings.Join(parts, ";")
}
