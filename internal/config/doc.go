// Package config loads, normalizes, and validates reelforge configuration.
//
// Configuration lives in a TOML file (default ~/.config/reelforge/config.toml,
// with a project-local reelforge.toml fallback). Load starts from Default(),
// decodes the file over it, expands ~ in every path field, then validates the
// result so the rest of the pipeline can assume a usable config.
package config
