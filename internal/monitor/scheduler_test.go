package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsJob(t *testing.T) {
	s := NewScheduler()

	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("@every 10ms", "test-job", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestSchedulerInvalidSpec(t *testing.T) {
	s := NewScheduler()

	err := s.Add("not a cron spec", "bad-job", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule bad-job")
}
