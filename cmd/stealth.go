package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/stealth"
)

var stealthInputPath string

var stealthCmd = &cobra.Command{
	Use:   "stealth",
	Short: "Detect stealth-founder signals in profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		profiles, err := readProfiles(ctx, stealthInputPath)
		if err != nil {
			return err
		}

		detector := stealth.NewDetector()
		result := detector.AnalyzeBulk(profiles)

		zap.L().Info("stealth analysis complete",
			zap.Int("profiles", len(profiles)),
			zap.Int("stealth_detected", result.Stats.StealthDetected),
			zap.Int("vip", result.Stats.VIPCount),
		)

		return printJSON(result)
	},
}

func init() {
	stealthCmd.Flags().StringVar(&stealthInputPath, "input", "", "path to JSON array of profiles (required)")
	_ = stealthCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(stealthCmd)
}
