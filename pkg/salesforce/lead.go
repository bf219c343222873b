package salesforce

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// maxBatchSize is the Salesforce Collections API limit per request.
const maxBatchSize = 200

// Lead mirrors the Lead fields this application reads back.
type Lead struct {
	ID         string `json:"Id" salesforce:"Id"`
	LastName   string `json:"LastName" salesforce:"LastName"`
	Company    string `json:"Company" salesforce:"Company"`
	LeadSource string `json:"LeadSource" salesforce:"LeadSource"`
}

// ExistingLeadNames returns the LastName of every lead created by the
// given source, for duplicate checks before new leads are inserted.
func ExistingLeadNames(ctx context.Context, c Client, source string) (map[string]struct{}, error) {
	soql := "SELECT Id, LastName, Company, LeadSource FROM Lead WHERE LeadSource = '" +
		escapeSoql(source) + "'"

	var leads []Lead
	if err := c.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrapf(err, "sf: list leads from %s", source)
	}

	names := make(map[string]struct{}, len(leads))
	for _, l := range leads {
		names[l.LastName] = struct{}{}
	}
	return names, nil
}

// BulkInsertLeads inserts lead records in batches of 200.
func BulkInsertLeads(ctx context.Context, c Client, records []map[string]any) ([]CollectionResult, error) {
	var all []CollectionResult
	for start := 0; start < len(records); start += maxBatchSize {
		end := min(start+maxBatchSize, len(records))

		results, err := c.InsertCollection(ctx, "Lead", records[start:end])
		if err != nil {
			return all, eris.Wrapf(err, "sf: insert leads batch %d-%d", start, end)
		}
		all = append(all, results...)
	}
	return all, nil
}

// escapeSoql escapes single quotes in SOQL string literals.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
