package notify

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/pkg/salesforce"
)

type fakeSalesforce struct {
	existing []string
	soql     string
	sObject  string
	records  []map[string]any
	results  []salesforce.CollectionResult
	err      error
}

func (f *fakeSalesforce) Query(_ context.Context, soql string, out any) error {
	f.soql = soql
	leads, ok := out.(*[]salesforce.Lead)
	if !ok {
		return nil
	}
	for _, name := range f.existing {
		*leads = append(*leads, salesforce.Lead{LastName: name, LeadSource: "Talent Radar"})
	}
	return nil
}

func (f *fakeSalesforce) InsertOne(context.Context, string, map[string]any) (string, error) {
	return "", nil
}

func (f *fakeSalesforce) InsertCollection(_ context.Context, sObjectName string, records []map[string]any) ([]salesforce.CollectionResult, error) {
	f.sObject = sObjectName
	f.records = records
	return f.results, f.err
}

func (f *fakeSalesforce) UpdateOne(context.Context, string, string, map[string]any) error {
	return nil
}

func (f *fakeSalesforce) UpdateCollection(context.Context, string, []salesforce.CollectionRecord) ([]salesforce.CollectionResult, error) {
	return nil, nil
}

func (f *fakeSalesforce) DescribeSObject(context.Context, string) (*salesforce.SObjectDescription, error) {
	return nil, nil
}

func TestLeadPush(t *testing.T) {
	client := &fakeSalesforce{results: []salesforce.CollectionResult{
		{ID: "00Q1", Success: true},
	}}
	p := NewLeadPusher(client)

	n, err := p.Push(context.Background(), sampleAlerts())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, "Lead", client.sObject)
	require.Len(t, client.records, 1)

	lead := client.records[0]
	assert.Equal(t, "Alex Chen", lead["LastName"])
	assert.Equal(t, "Neural Forge", lead["Company"])
	assert.Equal(t, "Joined qualified startup: Neural Forge", lead["Description"])
	assert.Equal(t, "Talent Radar", lead["LeadSource"])
	assert.Equal(t, "Hot", lead["Rating"])
	assert.Contains(t, client.soql, "LeadSource = 'Talent Radar'")
}

func TestLeadPushSkipsExistingLeads(t *testing.T) {
	client := &fakeSalesforce{existing: []string{"Alex Chen"}}
	p := NewLeadPusher(client)

	n, err := p.Push(context.Background(), sampleAlerts())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Nil(t, client.records)
}

func TestLeadPushSkipsLowerLevels(t *testing.T) {
	client := &fakeSalesforce{}
	p := NewLeadPusher(client)

	alerts := []model.Alert{
		{FullName: "Jordan Lee", Level: model.Level1},
		{FullName: "Sam Rivera", Level: model.Level2},
	}
	n, err := p.Push(context.Background(), alerts)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Nil(t, client.records)
}

func TestLeadPushUnknownCompany(t *testing.T) {
	client := &fakeSalesforce{results: []salesforce.CollectionResult{{Success: true}}}
	p := NewLeadPusher(client)

	_, err := p.Push(context.Background(), []model.Alert{
		{FullName: "Alex Chen", Level: model.Level3},
	})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", client.records[0]["Company"])
}

func TestLeadPushPartialFailure(t *testing.T) {
	client := &fakeSalesforce{results: []salesforce.CollectionResult{
		{Success: true},
		{Success: false, Errors: []string{"DUPLICATES_DETECTED"}},
	}}
	p := NewLeadPusher(client)

	alerts := []model.Alert{
		{FullName: "Alex Chen", Level: model.Level3},
		{FullName: "Sam Rivera", Level: model.Level3},
	}
	n, err := p.Push(context.Background(), alerts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLeadPushInsertError(t *testing.T) {
	p := NewLeadPusher(&fakeSalesforce{err: eris.New("session expired")})
	_, err := p.Push(context.Background(), sampleAlerts())
	assert.ErrorContains(t, err, "insert leads")
}
