// Package compose overlays a scene's scheduled dialogue audio onto its video.
//
// The compositor builds an ffmpeg filter graph that delays each dialogue clip
// to its scheduled start offset and mixes the delayed streams with a
// longest-output policy, mapping the original video stream through unchanged.
// Scenes without usable audio are remuxed as silent video (stream copy, no
// re-encode). A failed mix encode degrades the scene to the same silent
// passthrough rather than dropping it; only a missing scene video drops the
// scene entirely.
package compose
