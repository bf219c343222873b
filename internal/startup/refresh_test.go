package startup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresh(t *testing.T) {
	const payload = `[{"name":"Neural Forge","tech_score":9.1}]`

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "startups.json")
	r := NewRefresher(srv.URL, path)

	changed, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))

	list, err := Load(path)
	require.NoError(t, err)
	assert.True(t, list.Contains("Neural Forge"))

	// Second refresh hits the ETag and leaves the file alone.
	changed, err = r.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 2, requests)
}

func TestRefreshServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewRefresher(srv.URL, filepath.Join(t.TempDir(), "startups.json"))
	_, err := r.Refresh(context.Background())
	assert.ErrorContains(t, err, "refresh list")
}
