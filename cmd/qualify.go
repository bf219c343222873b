package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/founder"
)

var (
	qualifyInputPath string
	qualifyMinScore  float64
)

var qualifyCmd = &cobra.Command{
	Use:   "qualify",
	Short: "Score profiles for founder potential",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		profiles, err := readProfiles(ctx, qualifyInputPath)
		if err != nil {
			return err
		}

		scorer := founder.NewScorer()
		if qualifyMinScore > 0 {
			scorer.MinScore = qualifyMinScore
		} else if cfg.Alerts.MinFounderScore > 0 {
			scorer.MinScore = cfg.Alerts.MinFounderScore
		}

		qualified, groups := scorer.QualifyBatch(profiles)

		zap.L().Info("qualification complete",
			zap.Int("profiles", len(profiles)),
			zap.Int("qualified", len(qualified)),
			zap.Int("cofounder_groups", len(groups)),
		)

		return printJSON(struct {
			Qualified       []founder.Qualified      `json:"qualified"`
			CofounderGroups []founder.CofounderGroup `json:"cofounder_groups"`
		}{qualified, groups})
	},
}

func init() {
	qualifyCmd.Flags().StringVar(&qualifyInputPath, "input", "", "path to JSON array of profiles (required)")
	qualifyCmd.Flags().Float64Var(&qualifyMinScore, "min-score", 0, "qualification threshold (default from config)")
	_ = qualifyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(qualifyCmd)
}
