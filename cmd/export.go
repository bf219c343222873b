package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/founder"
	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/notify"
	"github.com/sells-group/talent-radar/internal/store"
	"github.com/sells-group/talent-radar/pkg/notion"
)

var exportSinceDays int

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export qualified founders and alerts to external systems",
}

var exportNotionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Export qualified founder candidates to Notion",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("export"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		emps, err := st.ListEmployees(ctx, store.EmployeeFilter{Limit: 10000})
		if err != nil {
			return err
		}

		profiles := make([]model.EmployeeProfile, len(emps))
		for i, emp := range emps {
			profiles[i] = emp.Profile
		}

		scorer := founder.NewScorer()
		if cfg.Alerts.MinFounderScore > 0 {
			scorer.MinScore = cfg.Alerts.MinFounderScore
		}
		qualified, _ := scorer.QualifyBatch(profiles)

		client := notion.NewClient(cfg.Notion.Token)
		exporter := notify.NewFounderExporter(client, cfg.Notion.FounderDB)

		n, err := exporter.Export(ctx, qualified)
		if err != nil {
			return err
		}

		zap.L().Info("notion export complete", zap.Int("created", n))
		return nil
	},
}

var exportSalesforceCmd = &cobra.Command{
	Use:   "salesforce",
	Short: "Push startup-join alerts to Salesforce as leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		since := time.Now().AddDate(0, 0, -exportSinceDays)
		stored, err := st.ListAlerts(ctx, store.AlertFilter{Level: model.Level3, Since: since})
		if err != nil {
			return err
		}

		alerts := make([]model.Alert, len(stored))
		for i, s := range stored {
			alerts[i] = s.Alert
		}

		client, err := initSalesforce()
		if err != nil {
			return err
		}

		n, err := notify.NewLeadPusher(client).Push(ctx, alerts)
		if err != nil {
			return err
		}

		zap.L().Info("salesforce export complete", zap.Int("leads", n))
		return nil
	},
}

func init() {
	exportSalesforceCmd.Flags().IntVar(&exportSinceDays, "days", 7, "how many days of alerts to push")
	exportCmd.AddCommand(exportNotionCmd, exportSalesforceCmd)
	rootCmd.AddCommand(exportCmd)
}
