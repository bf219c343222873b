package monitor

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Scheduler runs the periodic check and digest jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// NewScheduler creates an empty scheduler. Jobs are added with Add and run
// after Start.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  zap.L().With(zap.String("phase", "schedule")),
	}
}

// Add registers fn under a standard 5-field cron spec.
func (s *Scheduler) Add(spec, name string, fn func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		s.log.Info("job started", zap.String("job", name))
		fn()
		s.log.Info("job finished",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(start)))
	})
	if err != nil {
		return eris.Wrapf(err, "monitor: schedule %s", name)
	}
	return nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
