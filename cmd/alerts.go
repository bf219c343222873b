package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	alertsInputPath string
	alertsSave      bool
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Run the three-level alert orchestrator over profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		orch, err := initOrchestrator(ctx)
		if err != nil {
			return err
		}

		profiles, err := readProfiles(ctx, alertsInputPath)
		if err != nil {
			return err
		}

		result := orch.AnalyzeEmployees(profiles)

		if alertsSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			saved := 0
			for _, a := range result.All() {
				if _, err := st.SaveAlert(ctx, a); err != nil {
					return eris.Wrapf(err, "save alert for %s", a.PersonID)
				}
				saved++
			}
			zap.L().Info("alerts saved", zap.Int("count", saved))
		}

		return printJSON(result)
	},
}

func init() {
	alertsCmd.Flags().StringVar(&alertsInputPath, "input", "", "path to JSON array of profiles (required)")
	alertsCmd.Flags().BoolVar(&alertsSave, "save", false, "persist generated alerts to the store")
	_ = alertsCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(alertsCmd)
}
