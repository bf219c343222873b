package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSend(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, 0)
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return fixed }

	require.NoError(t, s.Send(context.Background(), sampleAlerts()))

	assert.Equal(t, fixed, got.GeneratedAt)
	assert.Equal(t, 3, got.AlertCount)
	require.Len(t, got.Alerts, 3)
	assert.Equal(t, "Alex Chen", got.Alerts[0].FullName)
}

func TestWebhookSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, 0)
	err := s.Send(context.Background(), sampleAlerts())
	assert.ErrorContains(t, err, "webhook returned status 500")
}

func TestWebhookSendEmptyBatch(t *testing.T) {
	s := NewWebhookSender("http://127.0.0.1:1", 0)
	assert.NoError(t, s.Send(context.Background(), nil))
}

func TestWebhookSendNoURL(t *testing.T) {
	s := NewWebhookSender("", 0)
	err := s.Send(context.Background(), sampleAlerts())
	assert.ErrorContains(t, err, "webhook url not configured")
}
