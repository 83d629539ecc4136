package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reelforge/internal/deps"
	"reelforge/internal/ledger"
	"reelforge/internal/logging"
	"reelforge/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compose every scene and merge the final reel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			if !skipPreflight {
				if err := deps.Verify(cfg); err != nil {
					return err
				}
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runStamp := time.Now().UTC().Format("20060102T150405Z")
			logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("reelforge-%s.log", runStamp))
			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stdout", logPath},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				logger.Error("open run ledger", logging.Error(err))
				return err
			}
			defer store.Close()

			runner := pipeline.NewRunner(cfg, logger, store)
			report, err := runner.Run(signalCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reel written to %s\n", report.ReelPath)
			if report.DurationProbed {
				fmt.Fprintf(out, "Duration: %.1fs across %d scenes\n", report.ReelDuration, report.ComposedCount)
			} else {
				fmt.Fprintf(out, "Merged %d scenes\n", report.ComposedCount)
			}
			if report.DroppedCount > 0 {
				fmt.Fprintf(out, "Dropped %d of %d scenes; see %s\n", report.DroppedCount, report.SceneCount, logPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip the external binary check before running")
	return cmd
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if _, ok := os.LookupEnv("NO_COLOR"); ok {
				colorize = false
			}

			missingRequired := false
			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				state := checkOK
				message := status.Command
				if !status.Available {
					message = status.Detail
					if status.Optional {
						state = checkWarn
					} else {
						state = checkFail
						missingRequired = true
					}
				}
				fmt.Fprintln(out, renderCheckLine(status.Name, state, message, colorize))
			}
			if missingRequired {
				return fmt.Errorf("required binaries are missing")
			}
			return nil
		},
	}
}
