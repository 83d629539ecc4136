package config

const (
	defaultAssetsDir   = "~/.local/share/reelforge/assets"
	defaultComposedDir = "~/.local/share/reelforge/composed"
	defaultFinalDir    = "~/.local/share/reelforge/final"
	defaultLogDir      = "~/.local/share/reelforge/logs"

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"

	defaultLeadInSeconds    = 0.2
	defaultGapSeconds       = 0.3
	defaultClipSeconds      = 5.0
	defaultComposePreset    = "fast"
	defaultMergePreset      = "medium"
	defaultMergeCRF         = 23
	defaultAudioBitrate     = "128k"
	defaultFrameWidth       = 1080
	defaultFrameHeight      = 1920
	defaultTargetMinSeconds = 30.0
	defaultTargetMaxSeconds = 45.0
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AssetsDir: defaultAssetsDir,
			// VideosDir is left empty; normalize derives it from AssetsDir
			// unless the config file sets it.
			ComposedDir: defaultComposedDir,
			FinalDir:    defaultFinalDir,
			LogDir:      defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Timeline: Timeline{
			LeadInSeconds:      defaultLeadInSeconds,
			GapSeconds:         defaultGapSeconds,
			DefaultClipSeconds: defaultClipSeconds,
		},
		Encode: Encode{
			ComposePreset:    defaultComposePreset,
			MergePreset:      defaultMergePreset,
			MergeCRF:         defaultMergeCRF,
			AudioBitrate:     defaultAudioBitrate,
			FrameWidth:       defaultFrameWidth,
			FrameHeight:      defaultFrameHeight,
			TargetMinSeconds: defaultTargetMinSeconds,
			TargetMaxSeconds: defaultTargetMaxSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
