package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelforge/internal/assets"
	"reelforge/internal/logging"
	"reelforge/internal/timeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Preview the dialogue schedule without encoding anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			scenes, err := assets.Load(cfg)
			if err != nil {
				return err
			}
			if len(scenes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scenes found")
				return nil
			}

			prober := timeline.NewProber(cfg, logging.NewNop())
			scheduler := timeline.NewScheduler(cfg, prober)
			titler := cases.Title(language.Und)

			headers := []string{"Scene", "Character", "Clip", "Start", "Duration", "Probed"}

			rows := make([][]string, 0, len(scenes))
			var total float64
			for _, scene := range scenes {
				scheduled := scheduler.Schedule(cmd.Context(), scene.Dialogues)
				if len(scheduled) == 0 {
					rows = append(rows, []string{
						strconv.Itoa(scene.ID), "", "(no dialogue, video passes through)", "", "", "",
					})
					continue
				}
				for _, clip := range scheduled {
					character := titler.String(strings.TrimSpace(clip.Character))
					rows = append(rows, []string{
						strconv.Itoa(scene.ID),
						character,
						filepath.Base(clip.Path),
						fmt.Sprintf("%.1fs", clip.StartOffset),
						fmt.Sprintf("%.1fs", clip.Duration),
						yesNo(!clip.DurationDefaulted),
					})
				}
				total += timeline.Span(scheduled)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, rows, 0, 3, 4))
			fmt.Fprintf(out, "%d scenes, %.1fs of scheduled dialogue\n", len(scenes), total)
			return nil
		},
	}
}
