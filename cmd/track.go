package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	trackSeedOrg   string
	trackSeedLimit int
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Manage the tracked-employee roster",
}

var trackSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the roster with employees of a big-tech org",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

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

		limit := trackSeedLimit
		if limit <= 0 {
			limit = cfg.Monitor.DefaultPerOrg
		}

		n, err := tracker.Seed(ctx, trackSeedOrg, limit)
		if err != nil {
			return err
		}

		zap.L().Info("seed complete",
			zap.String("org", trackSeedOrg),
			zap.Int("seeded", n),
			zap.Int64("credits_spent", client.CreditsSpent()),
		)
		return nil
	},
}

var trackCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one re-check pass over due employees",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("monitor"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		client, err := initPDL()
		if err != nil {
			return err
		}

		tracker, err := initTracker(ctx, st, client)
		if err != nil {
			return err
		}

		stats, err := tracker.CheckDue(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

var trackStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show roster counts by cadence tier",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		counts, err := st.CountEmployeesByTier(ctx)
		if err != nil {
			return err
		}
		return printJSON(counts)
	},
}

func init() {
	trackSeedCmd.Flags().StringVar(&trackSeedOrg, "org", "", "big-tech company to seed from (required)")
	trackSeedCmd.Flags().IntVar(&trackSeedLimit, "limit", 0, "max employees to seed (default from config)")
	_ = trackSeedCmd.MarkFlagRequired("org")

	trackCmd.AddCommand(trackSeedCmd, trackCheckCmd, trackStatusCmd)
	rootCmd.AddCommand(trackCmd)
}
