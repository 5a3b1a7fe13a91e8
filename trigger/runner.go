package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is the poll period used when none is configured.
const DefaultInterval = 15 * time.Second

// Sink receives the events of a successful poll.
type Sink interface {
	Deliver(ctx context.Context, events []types.Event) error
}

// Runner invokes a Poller on a fixed period and hands events to a Sink.
// Invocations are serialized: a slow poll delays the next tick instead of overlapping it.
type Runner struct {
	poller   *Poller
	sink     Sink
	interval time.Duration
	logger   *logrus.Logger

	mu      sync.Mutex
	running bool
}

// NewRunner creates a Runner. interval 0 means DefaultInterval.
func NewRunner(poller *Poller, sink Sink, interval time.Duration, logger *logrus.Logger) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{
		poller:   poller,
		sink:     sink,
		interval: interval,
		logger:   logger,
	}
}

// Run polls immediately and then on every tick until ctx is done.
// Poll failures are logged and retried on the next tick.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("runner is already running")
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	r.logger.WithFields(logrus.Fields{
		"kind":     r.poller.Kind(),
		"interval": r.interval,
	}).Info("Trigger runner started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		r.tick(ctx)

		select {
		case <-ctx.Done():
			r.logger.WithField("kind", r.poller.Kind()).Info("Trigger runner stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if _, err := r.poller.PollWith(ctx, r.sink.Deliver); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.WithFields(logrus.Fields{
			"kind":  r.poller.Kind(),
			"error": err,
		}).Error("Trigger poll failed")
	}
}
