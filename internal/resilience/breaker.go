package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrOpen is returned while the breaker is rejecting calls.
var ErrOpen = eris.New("resilience: circuit open")

// Breaker trips after a run of consecutive failures and rejects calls
// until a cooldown passes. One probe is let through after the cooldown;
// its outcome closes or re-opens the circuit. A tripped breaker keeps a
// stuck check run from burning retries against a vendor outage.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time
	probing  bool

	// now is injectable for tests.
	now func() time.Time
}

// NewBreaker creates a breaker that opens after threshold consecutive
// failures and allows a probe after cooldown.
func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{
		name:      name,
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether a call may proceed. Callers must follow up with
// Record for every allowed call.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.threshold {
		return true
	}
	if b.probing {
		return false
	}
	if b.now().Sub(b.openedAt) < b.cooldown {
		return false
	}
	b.probing = true
	return true
}

// Record feeds the outcome of an allowed call back into the breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if err == nil {
		if b.failures >= b.threshold {
			zap.L().Info("circuit closed", zap.String("breaker", b.name))
		}
		b.failures = 0
		return
	}

	b.failures++
	if b.failures == b.threshold {
		b.openedAt = b.now()
		zap.L().Warn("circuit opened",
			zap.String("breaker", b.name),
			zap.Int("failures", b.failures))
	} else if b.failures > b.threshold {
		// Failed probe. Restart the cooldown.
		b.openedAt = b.now()
	}
}

// Call runs fn under the breaker.
func (b *Breaker) Call(fn func() error) error {
	if !b.Allow() {
		return ErrOpen
	}
	err := fn()
	b.Record(err)
	return err
}
