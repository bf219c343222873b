package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/pkg/anthropic"
)

const digestSystemPrompt = `You are an analyst summarizing talent-movement alerts for a
venture sourcing team. Given a list of people who recently left large tech
companies, write a concise weekly digest: lead with the most actionable
startup joins, then notable building signals, then a one-line roundup of
the rest. Keep it under 400 words. Plain text only.`

// DigestWriter produces an LLM-written weekly summary of the highest
// priority alerts.
type DigestWriter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	size      int
}

// NewDigestWriter creates a digest writer. size caps how many alerts are
// included in the prompt, highest priority first.
func NewDigestWriter(client anthropic.Client, model string, maxTokens int64, size int) *DigestWriter {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	if size <= 0 {
		size = 20
	}
	return &DigestWriter{client: client, model: model, maxTokens: maxTokens, size: size}
}

// WeeklyDigest summarizes the given alerts into prose.
func (w *DigestWriter) WeeklyDigest(ctx context.Context, alerts []model.Alert) (string, error) {
	if len(alerts) == 0 {
		return "", eris.New("notify: no alerts to digest")
	}

	top := make([]model.Alert, len(alerts))
	copy(top, alerts)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].PriorityScore > top[j].PriorityScore
	})
	if len(top) > w.size {
		top = top[:w.size]
	}

	prompt := fmt.Sprintf("Alerts this week (%d total, top %d shown):\n\n%s",
		len(alerts), len(top), RenderText(top))

	resp, err := w.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     w.model,
		MaxTokens: w.maxTokens,
		System:    anthropic.CachedSystemBlock(digestSystemPrompt),
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "notify: generate digest")
	}
	resp.Usage.LogCost(w.model, "digest")

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", eris.New("notify: digest response had no text content")
	}
	return out.String(), nil
}
