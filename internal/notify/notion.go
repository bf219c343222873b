package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/founder"
	"github.com/sells-group/talent-radar/pkg/notion"
)

// FounderExporter writes qualified founder candidates into a Notion
// database for the sourcing team.
type FounderExporter struct {
	client notion.Client
	dbID   string
}

// NewFounderExporter creates an exporter targeting the given database.
func NewFounderExporter(client notion.Client, dbID string) *FounderExporter {
	return &FounderExporter{client: client, dbID: dbID}
}

// Export creates one page per qualified candidate, skipping names that
// already have a page. Returns the number of pages created.
func (e *FounderExporter) Export(ctx context.Context, qualified []founder.Qualified) (int, error) {
	if e.dbID == "" {
		return 0, eris.New("notify: notion founder database not configured")
	}

	existing, err := notion.ExistingTitles(ctx, e.client, e.dbID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, q := range qualified {
		if _, ok := existing[q.Profile.FullName]; ok {
			continue
		}
		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(e.dbID),
			},
			Properties: founderProperties(q),
		}
		if _, err := e.client.CreatePage(ctx, req); err != nil {
			return created, eris.Wrap(err, fmt.Sprintf("notion: export founder %s", q.Profile.FullName))
		}
		created++
	}

	zap.L().Info("founders exported to notion",
		zap.String("database", e.dbID),
		zap.Int("created", created),
		zap.Int("skipped", len(qualified)-created))
	return created, nil
}

func founderProperties(q founder.Qualified) notionapi.Properties {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Type: notionapi.PropertyTypeTitle,
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: q.Profile.FullName}},
			},
		},
		"Founder Score": notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: q.Profile.FounderScore,
		},
	}

	if q.Profile.JobCompanyName != "" {
		props["Current Company"] = notionapi.RichTextProperty{
			Type: notionapi.PropertyTypeRichText,
			RichText: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: q.Profile.JobCompanyName}},
			},
		}
	}
	if len(q.Reasons) > 0 {
		props["Reasons"] = notionapi.RichTextProperty{
			Type: notionapi.PropertyTypeRichText,
			RichText: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: strings.Join(q.Reasons, "; ")}},
			},
		}
	}
	return props
}
