// Package merge concatenates composed scenes into the final reel.
//
// The merger writes a concat-demuxer manifest listing the composed files in
// scene order, then runs one encode pass that concatenates them, normalizes
// every clip to the target frame geometry (scale to fit, pad symmetrically,
// square pixels), re-encodes to a single codec profile, and enables faststart
// for progressive playback. Merge failure is fatal: unlike per-scene
// composition there is no fallback output to degrade to.
package merge
