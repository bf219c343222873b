package notify

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/store"
)

// Sender delivers a batch of alerts over one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, alerts []model.Alert) error
}

// Dispatcher pulls undelivered alerts from the store, fans them out to
// every configured channel, and marks them notified once at least one
// channel succeeded.
type Dispatcher struct {
	store   store.Store
	senders []Sender
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(st store.Store, senders ...Sender) *Dispatcher {
	return &Dispatcher{store: st, senders: senders}
}

// Dispatch delivers all pending alerts. Returns the number of alerts
// delivered.
func (d *Dispatcher) Dispatch(ctx context.Context) (int, error) {
	log := zap.L().With(zap.String("phase", "notify"))

	pending, err := d.store.ListAlerts(ctx, store.AlertFilter{UnnotifiedOnly: true})
	if err != nil {
		return 0, eris.Wrap(err, "notify: list pending alerts")
	}
	if len(pending) == 0 {
		log.Info("no pending alerts")
		return 0, nil
	}

	alerts := make([]model.Alert, len(pending))
	for i, p := range pending {
		alerts[i] = p.Alert
	}

	delivered := false
	for _, s := range d.senders {
		if err := s.Send(ctx, alerts); err != nil {
			log.Warn("channel delivery failed",
				zap.String("channel", s.Name()),
				zap.Error(err))
			continue
		}
		delivered = true
	}
	if !delivered {
		return 0, eris.New("notify: all channels failed")
	}

	for _, p := range pending {
		if err := d.store.MarkAlertNotified(ctx, p.ID); err != nil {
			return len(pending), eris.Wrapf(err, "notify: mark alert %s", p.ID)
		}
	}

	log.Info("alerts dispatched",
		zap.Int("alerts", len(pending)),
		zap.Int("channels", len(d.senders)))
	return len(pending), nil
}
