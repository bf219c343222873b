// Package pdl provides a client for the People Data Labs person API.
package pdl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.peopledatalabs.com/v5"

// ErrNotFound is returned when the API has no matching person.
var ErrNotFound = eris.New("pdl: person not found")

// Client performs person enrichment, retrieval and search.
type Client interface {
	// Enrich matches a person from partial identifiers and returns the
	// full profile.
	Enrich(ctx context.Context, params EnrichParams) (*EnrichResponse, error)

	// Retrieve fetches a person by their PDL id.
	Retrieve(ctx context.Context, personID string) (*PersonResponse, error)

	// Search runs a SQL person search.
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)

	// CreditsSpent reports how many billable calls this client has made.
	CreditsSpent() int64
}

// EnrichParams identifies the person to enrich. At least one of Profile,
// Email, or Name+Company must be set.
type EnrichParams struct {
	Profile       string // LinkedIn profile URL
	Email         string
	Name          string
	Company       string
	MinLikelihood int
}

// EnrichResponse is the response from GET /person/enrich.
type EnrichResponse struct {
	Status     int             `json:"status"`
	Likelihood int             `json:"likelihood"`
	Data       json.RawMessage `json:"data"`
}

// PersonResponse is the response from GET /person/retrieve.
type PersonResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// SearchRequest is the request body for POST /person/search.
type SearchRequest struct {
	SQL         string `json:"sql,omitempty"`
	Size        int    `json:"size,omitempty"`
	ScrollToken string `json:"scroll_token,omitempty"`
}

// SearchResponse is the response from POST /person/search.
type SearchResponse struct {
	Status      int               `json:"status"`
	Data        []json.RawMessage `json:"data"`
	Total       int               `json:"total"`
	ScrollToken string            `json:"scroll_token,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	credits atomic.Int64
}

// NewClient creates a People Data Labs API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) CreditsSpent() int64 {
	return c.credits.Load()
}

func (c *httpClient) Enrich(ctx context.Context, params EnrichParams) (*EnrichResponse, error) {
	q := url.Values{}
	if params.Profile != "" {
		q.Set("profile", params.Profile)
	}
	if params.Email != "" {
		q.Set("email", params.Email)
	}
	if params.Name != "" {
		q.Set("name", params.Name)
	}
	if params.Company != "" {
		q.Set("company", params.Company)
	}
	if params.MinLikelihood > 0 {
		q.Set("min_likelihood", strconv.Itoa(params.MinLikelihood))
	}
	if len(q) == 0 {
		return nil, eris.New("pdl: enrich requires at least one identifier")
	}

	body, err := c.get(ctx, "/person/enrich?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var result EnrichResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "pdl: unmarshal enrich response")
	}
	c.credits.Add(1)
	return &result, nil
}

func (c *httpClient) Retrieve(ctx context.Context, personID string) (*PersonResponse, error) {
	if personID == "" {
		return nil, eris.New("pdl: retrieve requires a person id")
	}

	body, err := c.get(ctx, "/person/retrieve/"+url.PathEscape(personID))
	if err != nil {
		return nil, err
	}

	var result PersonResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "pdl: unmarshal retrieve response")
	}
	c.credits.Add(1)
	return &result, nil
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.SQL == "" {
		return nil, eris.New("pdl: search requires a sql query")
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "pdl: marshal search request")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "pdl: rate limit wait")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/person/search", bytes.NewReader(reqBody))
	if err != nil {
		return nil, eris.Wrap(err, "pdl: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	respBody, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "pdl: unmarshal search response")
	}
	c.credits.Add(int64(len(result.Data)))
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "pdl: rate limit wait")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, eris.Wrap(err, "pdl: create request")
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	return c.do(httpReq)
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "pdl: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "pdl: read response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return respBody, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, eris.Errorf("pdl: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
}
