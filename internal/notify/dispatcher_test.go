package notify

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/store"
)

type fakeSender struct {
	name  string
	err   error
	calls int
	got   []model.Alert
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(_ context.Context, alerts []model.Alert) error {
	f.calls++
	f.got = alerts
	return f.err
}

func newDispatchStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "radar.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

func TestDispatchDeliversAndMarks(t *testing.T) {
	ctx := context.Background()
	st := newDispatchStore(t)

	for _, a := range sampleAlerts() {
		a.PersonID = "p-" + a.FullName
		_, err := st.SaveAlert(ctx, a)
		require.NoError(t, err)
	}

	good := &fakeSender{name: "email"}
	d := NewDispatcher(st, good)

	n, err := d.Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, good.calls)
	assert.Len(t, good.got, 3)

	// Nothing pending on the second run.
	n, err = d.Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, good.calls)
}

func TestDispatchPartialChannelFailure(t *testing.T) {
	ctx := context.Background()
	st := newDispatchStore(t)

	a := sampleAlerts()[0]
	a.PersonID = "p1"
	_, err := st.SaveAlert(ctx, a)
	require.NoError(t, err)

	bad := &fakeSender{name: "webhook", err: eris.New("down")}
	good := &fakeSender{name: "email"}
	d := NewDispatcher(st, bad, good)

	n, err := d.Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	pending, err := st.ListAlerts(ctx, store.AlertFilter{UnnotifiedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatchAllChannelsFail(t *testing.T) {
	ctx := context.Background()
	st := newDispatchStore(t)

	a := sampleAlerts()[0]
	a.PersonID = "p1"
	_, err := st.SaveAlert(ctx, a)
	require.NoError(t, err)

	bad := &fakeSender{name: "webhook", err: eris.New("down")}
	d := NewDispatcher(st, bad)

	_, err = d.Dispatch(ctx)
	assert.ErrorContains(t, err, "all channels failed")

	// Alerts stay pending for the next run.
	pending, err := st.ListAlerts(ctx, store.AlertFilter{UnnotifiedOnly: true})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
