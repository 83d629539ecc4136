// Package assets loads the input manifests the pipeline consumes.
//
// Upstream generation tooling (out of scope here) leaves two JSON files in the
// assets directory: video_paths.json, an ordered list of per-scene video
// files, and audio_paths.json, per-scene dialogue clip descriptors. Load
// combines both into []Scene with 1-based contiguous scene IDs. When the
// video manifest is absent the videos directory is scanned for scene_*.mp4
// instead.
package assets
