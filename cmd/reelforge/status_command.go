package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"reelforge/internal/ledger"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent runs from the run ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if runID != "" {
				return renderRunScenes(cmd, store, runID)
			}
			return renderRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-scene outcomes for one run")
	return cmd
}

func renderRecentRuns(cmd *cobra.Command, store *ledger.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		return nil
	}

	headers := []string{"Started", "Run", "Status", "Scenes", "Duration", "Reel"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := ""
		if run.ReelDurationSeconds > 0 {
			duration = fmt.Sprintf("%.1fs", run.ReelDurationSeconds)
		}
		reel := run.ReelPath
		if run.Status == ledger.RunStatusFailed {
			reel = run.ErrorMessage
		}
		if reel != "" && run.Status != ledger.RunStatusFailed {
			reel = filepath.Base(reel)
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			shortRunID(run.ID),
			string(run.Status),
			strconv.Itoa(run.SceneCount),
			duration,
			reel,
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, 3, 4))
	return nil
}

func renderRunScenes(cmd *cobra.Command, store *ledger.Store, runID string) error {
	scenes, err := store.ScenesForRun(cmd.Context(), runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(scenes) == 0 {
		fmt.Fprintf(out, "No scenes recorded for run %s\n", runID)
		return nil
	}

	headers := []string{"Scene", "Outcome", "Clips", "Detail"}
	rows := make([][]string, 0, len(scenes))
	for _, scene := range scenes {
		rows = append(rows, []string{
			strconv.Itoa(scene.SceneID),
			string(scene.Outcome),
			strconv.Itoa(scene.ClipCount),
			scene.Detail,
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, 0, 2))
	return nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
