package salesforce

import (
	"context"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	leads   []Lead
	batches [][]map[string]any
	err     error
}

func (f *fakeClient) Query(_ context.Context, _ string, out any) error {
	if f.err != nil {
		return f.err
	}
	*out.(*[]Lead) = append(*out.(*[]Lead), f.leads...)
	return nil
}

func (f *fakeClient) InsertOne(context.Context, string, map[string]any) (string, error) {
	return "", nil
}

func (f *fakeClient) InsertCollection(_ context.Context, _ string, records []map[string]any) ([]CollectionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, records)
	results := make([]CollectionResult, len(records))
	for i := range results {
		results[i] = CollectionResult{Success: true}
	}
	return results, nil
}

func (f *fakeClient) UpdateOne(context.Context, string, string, map[string]any) error {
	return nil
}

func (f *fakeClient) UpdateCollection(context.Context, string, []CollectionRecord) ([]CollectionResult, error) {
	return nil, nil
}

func (f *fakeClient) DescribeSObject(context.Context, string) (*SObjectDescription, error) {
	return nil, nil
}

func TestExistingLeadNames(t *testing.T) {
	client := &fakeClient{leads: []Lead{
		{LastName: "Alex Chen"},
		{LastName: "Sam Rivera"},
	}}

	names, err := ExistingLeadNames(context.Background(), client, "Talent Radar")
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Contains(t, names, "Alex Chen")
}

func TestExistingLeadNamesQueryError(t *testing.T) {
	client := &fakeClient{err: eris.New("invalid session")}
	_, err := ExistingLeadNames(context.Background(), client, "Talent Radar")
	assert.ErrorContains(t, err, "list leads")
}

func TestBulkInsertLeadsBatches(t *testing.T) {
	records := make([]map[string]any, 250)
	for i := range records {
		records[i] = map[string]any{"LastName": fmt.Sprintf("Person %d", i)}
	}

	client := &fakeClient{}
	results, err := BulkInsertLeads(context.Background(), client, records)
	require.NoError(t, err)
	assert.Len(t, results, 250)

	require.Len(t, client.batches, 2)
	assert.Len(t, client.batches[0], 200)
	assert.Len(t, client.batches[1], 50)
}

func TestBulkInsertLeadsEmpty(t *testing.T) {
	client := &fakeClient{}
	results, err := BulkInsertLeads(context.Background(), client, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, client.batches)
}

func TestEscapeSoql(t *testing.T) {
	assert.Equal(t, `O\'Brien`, escapeSoql("O'Brien"))
	assert.Equal(t, "plain", escapeSoql("plain"))
}
