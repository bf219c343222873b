package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches every page of a database, following pagination
// cursors. The Client's limiter spaces the requests.
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var base notionapi.DatabaseQueryRequest
	if filter != nil {
		base.Filter = filter.Filter
		base.Sorts = filter.Sorts
		base.PageSize = filter.PageSize
	}

	var all []notionapi.Page
	var cursor notionapi.Cursor
	for {
		req := base
		req.StartCursor = cursor
		resp, err := c.QueryDatabase(ctx, dbID, &req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all")
		}
		all = append(all, resp.Results...)
		if !resp.HasMore {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}

// ExistingTitles returns the title text of every page in a database,
// keyed for duplicate checks before new pages are created.
func ExistingTitles(ctx context.Context, c Client, dbID string) (map[string]struct{}, error) {
	pages, err := QueryAll(ctx, c, dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "notion: list existing titles")
	}

	titles := make(map[string]struct{}, len(pages))
	for _, page := range pages {
		for _, prop := range page.Properties {
			tp, ok := prop.(*notionapi.TitleProperty)
			if !ok {
				continue
			}
			for _, rt := range tp.Title {
				if rt.PlainText != "" {
					titles[rt.PlainText] = struct{}{}
				}
			}
		}
	}
	return titles, nil
}
