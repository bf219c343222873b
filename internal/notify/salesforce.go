package notify

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/pkg/salesforce"
)

// LeadPusher creates Salesforce leads for startup-join alerts so the
// sales team sees them in their own pipeline.
type LeadPusher struct {
	client salesforce.Client
}

// NewLeadPusher creates a pusher over the given Salesforce client.
func NewLeadPusher(client salesforce.Client) *LeadPusher {
	return &LeadPusher{client: client}
}

// leadSource tags every lead this application creates, so re-runs can
// find and skip people already pushed.
const leadSource = "Talent Radar"

// Push inserts one lead per LEVEL_3 alert. Lower levels and people who
// already have a lead are skipped. Returns the number of leads created.
func (p *LeadPusher) Push(ctx context.Context, alerts []model.Alert) (int, error) {
	existing, err := salesforce.ExistingLeadNames(ctx, p.client, leadSource)
	if err != nil {
		return 0, err
	}

	var records []map[string]any
	for _, a := range alerts {
		if a.Level != model.Level3 {
			continue
		}
		if _, ok := existing[a.FullName]; ok {
			continue
		}

		company := "Unknown"
		if a.Startup != nil && a.Startup.Name != "" {
			company = a.Startup.Name
		}

		records = append(records, map[string]any{
			"LastName":    a.FullName,
			"Company":     company,
			"Description": strings.Join(a.Reasons, "; "),
			"LeadSource":  leadSource,
			"Rating":      "Hot",
		})
	}
	if len(records) == 0 {
		return 0, nil
	}

	results, err := salesforce.BulkInsertLeads(ctx, p.client, records)
	if err != nil {
		return 0, eris.Wrap(err, "notify: insert leads")
	}

	created := 0
	for _, r := range results {
		if r.Success {
			created++
		} else {
			zap.L().Warn("lead insert failed", zap.Strings("errors", r.Errors))
		}
	}

	zap.L().Info("leads pushed to salesforce",
		zap.Int("attempted", len(records)),
		zap.Int("created", created))
	return created, nil
}
