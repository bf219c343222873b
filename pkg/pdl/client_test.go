package pdl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/person/enrich", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "linkedin.com/in/alexchen", r.URL.Query().Get("profile"))
		assert.Equal(t, "6", r.URL.Query().Get("min_likelihood"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"likelihood":9,"data":{"id":"p1","full_name":"Alex Chen"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	resp, err := c.Enrich(context.Background(), EnrichParams{
		Profile:       "linkedin.com/in/alexchen",
		MinLikelihood: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Likelihood)

	var person struct {
		ID       string `json:"id"`
		FullName string `json:"full_name"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &person))
	assert.Equal(t, "Alex Chen", person.FullName)
	assert.Equal(t, int64(1), c.CreditsSpent())
}

func TestEnrichRequiresIdentifier(t *testing.T) {
	c := NewClient("test-key")

	_, err := c.Enrich(context.Background(), EnrichParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one identifier")
}

func TestEnrichNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":404,"error":{"type":"not_found"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := c.Enrich(context.Background(), EnrichParams{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), c.CreditsSpent())
}

func TestEnrichRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":429}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := c.Enrich(context.Background(), EnrichParams{Email: "x@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestRetrieve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/person/retrieve/p1", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		w.Write([]byte(`{"status":200,"data":{"id":"p1","job_company_name":"Neural Forge"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	resp, err := c.Retrieve(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Contains(t, string(resp.Data), "Neural Forge")
	assert.Equal(t, int64(1), c.CreditsSpent())
}

func TestRetrieveRequiresID(t *testing.T) {
	c := NewClient("test-key")

	_, err := c.Retrieve(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a person id")
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/person/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.SQL, "job_company_name")
		assert.Equal(t, 25, req.Size)

		w.Write([]byte(`{"status":200,"total":2,"scroll_token":"tok-1","data":[{"id":"p1"},{"id":"p2"}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	resp, err := c.Search(context.Background(), SearchRequest{
		SQL:  `SELECT * FROM person WHERE job_company_name = 'google'`,
		Size: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "tok-1", resp.ScrollToken)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), c.CreditsSpent())
}

func TestSearchRequiresSQL(t *testing.T) {
	c := NewClient("test-key")

	_, err := c.Search(context.Background(), SearchRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a sql query")
}
