package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
)

// WebhookSender posts alert batches as JSON to a configured endpoint.
type WebhookSender struct {
	url  string
	http *http.Client

	// Now is injectable for tests.
	Now func() time.Time
}

// webhookPayload is the JSON body posted to the endpoint.
type webhookPayload struct {
	GeneratedAt time.Time     `json:"generated_at"`
	AlertCount  int           `json:"alert_count"`
	Alerts      []model.Alert `json:"alerts"`
}

// NewWebhookSender creates a webhook alert sender.
func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSender{
		url:  url,
		http: &http.Client{Timeout: timeout},
		Now:  time.Now,
	}
}

// Name identifies the channel in dispatch logs.
func (s *WebhookSender) Name() string { return "webhook" }

// Send posts the alerts to the webhook endpoint.
func (s *WebhookSender) Send(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	if s.url == "" {
		return eris.New("notify: webhook url not configured")
	}

	body, err := json.Marshal(webhookPayload{
		GeneratedAt: s.Now().UTC(),
		AlertCount:  len(alerts),
		Alerts:      alerts,
	})
	if err != nil {
		return eris.Wrap(err, "notify: marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "notify: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "notify: post webhook")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return eris.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}

	zap.L().Info("webhook delivered", zap.Int("alerts", len(alerts)))
	return nil
}
