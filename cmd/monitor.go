package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/monitor"
	"github.com/sells-group/talent-radar/internal/notify"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the scheduled monitoring daemon",
	Long:  "Runs re-checks on the configured cron schedule, dispatches new alerts after each pass, and sends the weekly digest.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("monitor"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		client, err := initPDL()
		if err != nil {
			return err
		}

		tracker, err := initTracker(ctx, st, client)
		if err != nil {
			return err
		}

		dispatcher := notify.NewDispatcher(st, buildSenders()...)

		sched := monitor.NewScheduler()

		err = sched.Add(cfg.Monitor.CheckSchedule, "check", func() {
			stats, err := tracker.CheckDue(ctx)
			if err != nil {
				zap.L().Error("check run failed", zap.Error(err))
				return
			}
			if stats.Alerts == 0 {
				return
			}
			if _, err := dispatcher.Dispatch(ctx); err != nil {
				zap.L().Error("alert dispatch failed", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}

		if cfg.Anthropic.Key != "" && cfg.Email.Host != "" {
			err = sched.Add(cfg.Monitor.DigestSchedule, "digest", func() {
				if err := sendDigest(ctx, st); err != nil {
					zap.L().Error("digest failed", zap.Error(err))
				}
			})
			if err != nil {
				return err
			}
		}

		sched.Start()
		zap.L().Info("monitor started",
			zap.String("check_schedule", cfg.Monitor.CheckSchedule),
			zap.String("digest_schedule", cfg.Monitor.DigestSchedule),
		)

		<-ctx.Done()
		zap.L().Info("shutting down monitor")
		sched.Stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
