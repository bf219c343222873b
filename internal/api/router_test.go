package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "radar.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))

	srv := httptest.NewServer(NewServer(st).Router())
	t.Cleanup(func() {
		srv.Close()
		st.Close()
	})
	return srv, st
}

func seedEmployee(t *testing.T, st store.Store, id, name, org string, tier model.Tier) {
	t.Helper()
	_, err := st.UpsertEmployee(context.Background(), model.TrackedEmployee{
		PersonID:  id,
		FullName:  name,
		Org:       org,
		Tier:      tier,
		Profile:   model.EmployeeProfile{ID: id, FullName: name},
		NextCheck: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	code := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestListEmployees(t *testing.T) {
	srv, st := newTestServer(t)
	seedEmployee(t, st, "p1", "Alex Chen", "Google", model.TierVIP)
	seedEmployee(t, st, "p2", "Jordan Lee", "Meta", model.TierGeneral)

	var body struct {
		Employees []model.TrackedEmployee `json:"employees"`
		Count     int                     `json:"count"`
	}
	code := getJSON(t, srv.URL+"/api/employees", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, body.Count)

	code = getJSON(t, srv.URL+"/api/employees?tier=vip", &body)
	assert.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "p1", body.Employees[0].PersonID)

	code = getJSON(t, srv.URL+"/api/employees?org=Meta", &body)
	assert.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "p2", body.Employees[0].PersonID)
}

func TestGetEmployee(t *testing.T) {
	srv, st := newTestServer(t)
	seedEmployee(t, st, "p1", "Alex Chen", "Google", model.TierWatch)

	var emp model.TrackedEmployee
	code := getJSON(t, srv.URL+"/api/employees/p1", &emp)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Alex Chen", emp.FullName)

	var errBody map[string]string
	code = getJSON(t, srv.URL+"/api/employees/missing", &errBody)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "employee not found", errBody["error"])
}

func TestListDepartures(t *testing.T) {
	srv, st := newTestServer(t)
	seedEmployee(t, st, "p1", "Alex Chen", "Google", model.TierWatch)

	_, err := st.RecordDeparture(context.Background(), model.DepartureRecord{
		PersonID:   "p1",
		Name:       "Alex Chen",
		OldCompany: "Google",
		NewCompany: "Neural Forge",
		AlertLevel: 3,
	})
	require.NoError(t, err)

	var body struct {
		Departures []model.StoredDeparture `json:"departures"`
		Count      int                     `json:"count"`
	}
	code := getJSON(t, srv.URL+"/api/employees/p1/departures", &body)
	assert.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Neural Forge", body.Departures[0].Departure.NewCompany)
}

func TestAlertsEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	saved, err := st.SaveAlert(ctx, model.Alert{
		PersonID:      "p1",
		FullName:      "Alex Chen",
		Level:         model.Level3,
		PriorityScore: 9.5,
	})
	require.NoError(t, err)
	_, err = st.SaveAlert(ctx, model.Alert{
		PersonID:      "p2",
		FullName:      "Jordan Lee",
		Level:         model.Level1,
		PriorityScore: 3.0,
	})
	require.NoError(t, err)

	var list struct {
		Alerts []model.StoredAlert `json:"alerts"`
		Count  int                 `json:"count"`
	}
	code := getJSON(t, srv.URL+"/api/alerts", &list)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, list.Count)

	code = getJSON(t, srv.URL+"/api/alerts?level=LEVEL_3", &list)
	assert.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "p1", list.Alerts[0].Alert.PersonID)

	var one model.StoredAlert
	code = getJSON(t, srv.URL+"/api/alerts/"+saved.ID, &one)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.Level3, one.Alert.Level)

	// Mark notified, then the unnotified filter excludes it.
	resp, err := http.Post(srv.URL+"/api/alerts/"+saved.ID+"/notified", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	code = getJSON(t, srv.URL+"/api/alerts?unnotified=true", &list)
	assert.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "p2", list.Alerts[0].Alert.PersonID)
}

func TestMarkNotifiedMissingAlert(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/alerts/nope/notified", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStats(t *testing.T) {
	srv, st := newTestServer(t)
	seedEmployee(t, st, "p1", "Alex Chen", "Google", model.TierVIP)
	seedEmployee(t, st, "p2", "Jordan Lee", "Meta", model.TierGeneral)
	seedEmployee(t, st, "p3", "Sam Rivera", "Amazon", model.TierGeneral)

	var body struct {
		Total  int                `json:"total"`
		ByTier map[model.Tier]int `json:"by_tier"`
	}
	code := getJSON(t, srv.URL+"/api/stats", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 1, body.ByTier[model.TierVIP])
	assert.Equal(t, 2, body.ByTier[model.TierGeneral])
}
