// Package timeline computes the dialogue playback schedule for a scene.
//
// The Prober wraps ffprobe with a never-fail contract: any probe failure
// yields the configured default duration instead of an error, flagged so
// callers can tell a defaulted value from a measured one. The Scheduler walks
// a scene's dialogue clips in order and assigns each a start offset such that
// clips never overlap: a fixed lead-in before the first clip, then each
// subsequent clip starts after the previous clip's probed duration plus a
// fixed gap. Clips whose file is missing are excluded and consume no slot.
//
// The schedule is deliberately not clipped to the scene video's duration;
// overrun is trimmed later by the encode step's shortest-stream policy.
package timeline
