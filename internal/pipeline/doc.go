// Package pipeline orchestrates a full reelforge run.
//
// Scenes are processed strictly sequentially in ascending scene ID order:
// schedule dialogue, compose the scene, record the outcome, then merge every
// composed scene into the final reel and write the sidecar path file. Failures
// recover as locally as possible: a missing dialogue clip drops only that
// clip, a failed mix encode degrades only that scene, a missing scene video
// drops only that scene. Only merge failure (or an empty composed set) ends
// the run with an error.
//
// A flock-based lock file in the log directory keeps concurrent runs from
// interleaving writes to the composed and final directories.
package pipeline
