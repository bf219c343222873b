package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedClient serves canned query responses one per call.
type pagedClient struct {
	responses []*notionapi.DatabaseQueryResponse
	requests  []*notionapi.DatabaseQueryRequest
	err       error
}

func (c *pagedClient) QueryDatabase(_ context.Context, _ string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.requests = append(c.requests, req)
	if len(c.responses) == 0 {
		return &notionapi.DatabaseQueryResponse{}, nil
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func (c *pagedClient) CreatePage(context.Context, *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	return &notionapi.Page{}, nil
}

func (c *pagedClient) UpdatePage(context.Context, string, *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	return &notionapi.Page{}, nil
}

func titledPage(name string) notionapi.Page {
	return notionapi.Page{
		Properties: notionapi.Properties{
			"Name": &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: name}},
			},
		},
	}
}

func TestQueryAllFollowsCursor(t *testing.T) {
	client := &pagedClient{responses: []*notionapi.DatabaseQueryResponse{
		{Results: []notionapi.Page{titledPage("Alex Chen")}, HasMore: true, NextCursor: "c1"},
		{Results: []notionapi.Page{titledPage("Sam Rivera")}},
	}}

	pages, err := QueryAll(context.Background(), client, "db-123", nil)
	require.NoError(t, err)
	assert.Len(t, pages, 2)

	require.Len(t, client.requests, 2)
	assert.NotSame(t, client.requests[0], client.requests[1])
	assert.Empty(t, client.requests[0].StartCursor)
	assert.Equal(t, notionapi.Cursor("c1"), client.requests[1].StartCursor)
}

func TestQueryAllError(t *testing.T) {
	client := &pagedClient{err: eris.New("unauthorized")}
	_, err := QueryAll(context.Background(), client, "db-123", nil)
	assert.ErrorContains(t, err, "query all")
}

func TestExistingTitles(t *testing.T) {
	client := &pagedClient{responses: []*notionapi.DatabaseQueryResponse{
		{Results: []notionapi.Page{
			titledPage("Alex Chen"),
			titledPage("Sam Rivera"),
			{Properties: notionapi.Properties{}}, // untitled page
		}},
	}}

	titles, err := ExistingTitles(context.Background(), client, "db-123")
	require.NoError(t, err)
	assert.Len(t, titles, 2)
	assert.Contains(t, titles, "Alex Chen")
	assert.Contains(t, titles, "Sam Rivera")
}
