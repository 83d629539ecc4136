package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.AssetsDir == "" {
		return errors.New("paths.assets_dir must be set")
	}
	if c.Paths.ComposedDir == "" {
		return errors.New("paths.composed_dir must be set")
	}
	if c.Paths.FinalDir == "" {
		return errors.New("paths.final_dir must be set")
	}
	if c.Paths.ComposedDir == c.Paths.FinalDir {
		return errors.New("paths.composed_dir and paths.final_dir must differ")
	}
	return nil
}

func (c *Config) validateTimeline() error {
	if c.Timeline.LeadInSeconds < 0 {
		return errors.New("timeline.lead_in_seconds must not be negative")
	}
	if c.Timeline.GapSeconds < 0 {
		return errors.New("timeline.gap_seconds must not be negative")
	}
	if c.Timeline.DefaultClipSeconds <= 0 {
		return errors.New("timeline.default_clip_seconds must be positive")
	}
	return nil
}

func (c *Config) validateEncode() error {
	if c.Encode.MergeCRF < 0 || c.Encode.MergeCRF > 51 {
		return fmt.Errorf("encode.merge_crf must be between 0 and 51, got %d", c.Encode.MergeCRF)
	}
	if c.Encode.FrameWidth <= 0 || c.Encode.FrameHeight <= 0 {
		return errors.New("encode.frame_width and encode.frame_height must be positive")
	}
	if c.Encode.FrameWidth%2 != 0 || c.Encode.FrameHeight%2 != 0 {
		return errors.New("encode.frame_width and encode.frame_height must be even for libx264")
	}
	if c.Encode.TargetMinSeconds < 0 || c.Encode.TargetMaxSeconds < 0 {
		return errors.New("encode target duration bounds must not be negative")
	}
	if c.Encode.TargetMaxSeconds > 0 && c.Encode.TargetMinSeconds > c.Encode.TargetMaxSeconds {
		return errors.New("encode.target_min_seconds must not exceed encode.target_max_seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
