package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelforge/internal/config"
	"reelforge/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media file with the configured ffprobe binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path)
			if err != nil {
				return fmt.Errorf("probe %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			if seconds, ok := result.DurationSeconds(); ok {
				fmt.Fprintf(out, "Duration: %.2fs\n", seconds)
			} else {
				fmt.Fprintln(out, "Duration: unknown")
			}
			fmt.Fprintf(out, "Video streams: %d\n", result.VideoStreamCount())
			fmt.Fprintf(out, "Audio streams: %d\n", result.AudioStreamCount())
			return nil
		},
	}
}
