package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/notify"
	"github.com/sells-group/talent-radar/internal/store"
	"github.com/sells-group/talent-radar/pkg/anthropic"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Deliver pending alerts over the configured channels",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("notify"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		dispatcher := notify.NewDispatcher(st, buildSenders()...)
		n, err := dispatcher.Dispatch(ctx)
		if err != nil {
			return err
		}

		zap.L().Info("notify complete", zap.Int("delivered", n))
		return nil
	},
}

var digestDays int

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Generate the weekly alert digest",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		since := time.Now().AddDate(0, 0, -digestDays)
		stored, err := st.ListAlerts(ctx, store.AlertFilter{Since: since})
		if err != nil {
			return err
		}

		alerts := make([]model.Alert, len(stored))
		for i, s := range stored {
			alerts[i] = s.Alert
		}

		out, err := buildDigestWriter().WeeklyDigest(ctx, alerts)
		if err != nil {
			return err
		}

		cmd.Println(out)
		return nil
	},
}

// buildSenders assembles the delivery channels the config enables.
func buildSenders() []notify.Sender {
	var senders []notify.Sender
	if cfg.Email.Host != "" {
		senders = append(senders, notify.NewEmailSender(notify.EmailConfig{
			Host:       cfg.Email.Host,
			Port:       cfg.Email.Port,
			Username:   cfg.Email.Username,
			Password:   cfg.Email.Password,
			From:       cfg.Email.From,
			Recipients: cfg.Email.Recipients,
		}))
	}
	if cfg.Webhook.URL != "" {
		senders = append(senders, notify.NewWebhookSender(cfg.Webhook.URL, webhookTimeout()))
	}
	return senders
}

// sendDigest renders the last week's alerts into prose and emails it.
func sendDigest(ctx context.Context, st store.Store) error {
	since := time.Now().AddDate(0, 0, -7)
	stored, err := st.ListAlerts(ctx, store.AlertFilter{Since: since})
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		zap.L().Info("no alerts this week, skipping digest")
		return nil
	}

	alerts := make([]model.Alert, len(stored))
	for i, s := range stored {
		alerts[i] = s.Alert
	}

	out, err := buildDigestWriter().WeeklyDigest(ctx, alerts)
	if err != nil {
		return err
	}

	sender := notify.NewEmailSender(notify.EmailConfig{
		Host:       cfg.Email.Host,
		Port:       cfg.Email.Port,
		Username:   cfg.Email.Username,
		Password:   cfg.Email.Password,
		From:       cfg.Email.From,
		Recipients: cfg.Email.Recipients,
	})
	return sender.SendText(ctx, "Talent Radar: weekly digest", out)
}

func buildDigestWriter() *notify.DigestWriter {
	client := anthropic.NewClient(cfg.Anthropic.Key)
	return notify.NewDigestWriter(client, cfg.Anthropic.Model,
		int64(cfg.Anthropic.MaxTokens), cfg.Anthropic.DigestSize)
}

func init() {
	digestCmd.Flags().IntVar(&digestDays, "days", 7, "how many days of alerts to cover")
	rootCmd.AddCommand(notifyCmd, digestCmd)
}
