// Package connectionmonitor probes an RPC endpoint on a fixed period and re-dials it
// with exponential backoff when the probe fails.
package connectionmonitor

import (
	"context"
	"sync"
	"time"

	"github.com/Velocity-BPA/zksync-lib/retry"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultHealthCheckInterval is the probe period used when none is configured.
	DefaultHealthCheckInterval = 30 * time.Second

	reconnectInitialDelay = time.Second
	reconnectMaxDelay     = 5 * time.Second
	maxReconnectAttempts  = 3
)

var (
	endpointUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "zksync",
		Subsystem: "rpc",
		Name:      "endpoint_up",
		Help:      "1 when the last health check or reconnect succeeded",
	}, []string{"network"})

	reconnectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zksync",
		Subsystem: "rpc",
		Name:      "reconnects_total",
		Help:      "Reconnect rounds by outcome",
	}, []string{"network", "outcome"})
)

// ConnectionMonitor watches one endpoint.
type ConnectionMonitor interface {
	// Start launches the probe loop. It fails if the loop is already running.
	Start(ctx context.Context) error
	// Stop ends the probe loop. Calling it twice is harmless.
	Stop()
	// Status reports the outcome of the most recent probe.
	Status() Status
}

// RPCEndpoint is a connection that can be probed and re-dialed.
type RPCEndpoint interface {
	CheckConnection(ctx context.Context) error
	Reconnect(ctx context.Context) error
}

// Status is a snapshot of endpoint health.
//
// Fields:
// - Healthy: whether the last probe, or the reconnect that followed it, succeeded.
// - LastCheck: when the last probe finished, zero before the first probe.
// - LastError: the last probe or reconnect error, empty when healthy.
// - Reconnects: the number of successful reconnect rounds.
type Status struct {
	Healthy    bool
	LastCheck  time.Time
	LastError  string
	Reconnects uint64
}

type connectionMonitor struct {
	endpoint RPCEndpoint
	logger   *logrus.Logger
	network  string
	interval time.Duration
	backoff  retry.Config

	mu      sync.RWMutex
	stop    chan struct{}
	running bool
	status  Status
}

// NewConnectionMonitor creates a monitor for endpoint.
//
// Parameters:
// - endpoint: the RPC endpoint to watch.
// - logger: the logger for logging events.
// - network: the network name used in log fields and metric labels.
// - interval: the probe period, 0 means DefaultHealthCheckInterval.
//
// Returns:
// - ConnectionMonitor: the monitor, not yet started.
func NewConnectionMonitor(endpoint RPCEndpoint, logger *logrus.Logger, network string, interval time.Duration) ConnectionMonitor {
	if interval <= 0 {
		interval = DefaultHealthCheckInterval
	}

	return &connectionMonitor{
		endpoint: endpoint,
		logger:   logger,
		network:  network,
		interval: interval,
		backoff: retry.Config{
			InitialInterval: reconnectInitialDelay,
			MaxInterval:     reconnectMaxDelay,
			MaxAttempts:     maxReconnectAttempts,
		},
		status: Status{Healthy: true},
	}
}

func (m *connectionMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.Errorf("connection monitor is already running for network %s", m.network)
	}
	m.running = true
	m.stop = make(chan struct{})

	go m.loop(ctx, m.stop)
	return nil
}

func (m *connectionMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	close(m.stop)
	m.running = false
}

func (m *connectionMonitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *connectionMonitor) loop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.WithField("network", m.network).Info("Connection monitoring stopped due to context cancellation")
			return
		case <-stop:
			m.logger.WithField("network", m.network).Info("Connection monitoring stopped")
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

// probe checks the endpoint and re-dials it when the check fails.
func (m *connectionMonitor) probe(ctx context.Context) {
	err := m.endpoint.CheckConnection(ctx)
	if err == nil {
		m.logger.WithField("network", m.network).Debug("Ping successful")
		m.record(nil, false)
		return
	}

	m.logger.WithFields(logrus.Fields{
		"network": m.network,
		"error":   err,
	}).Warn("Connection check failed, attempting to reconnect")

	attempt := 0
	policy := m.backoff
	policy.OnRetry = func(err error, next time.Duration) {
		m.logger.WithFields(logrus.Fields{
			"network": m.network,
			"attempt": attempt,
			"retryIn": next,
			"error":   err,
		}).Error("Reconnection attempt failed")
	}
	err = retry.Exponential(ctx, func() error {
		attempt++
		return m.endpoint.Reconnect(ctx)
	}, policy)
	if err != nil {
		reconnectsTotal.WithLabelValues(m.network, "failed").Inc()
		m.logger.WithFields(logrus.Fields{
			"network":  m.network,
			"attempts": attempt,
			"error":    err,
		}).Error("Failed to reconnect")
		m.record(errors.Wrapf(err, "failed to reconnect to network %s", m.network), false)
		return
	}

	reconnectsTotal.WithLabelValues(m.network, "succeeded").Inc()
	m.logger.WithFields(logrus.Fields{
		"network": m.network,
		"attempt": attempt,
	}).Info("Client successfully reconnected")
	m.record(nil, true)
}

func (m *connectionMonitor) record(err error, reconnected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status.LastCheck = time.Now()
	m.status.Healthy = err == nil
	m.status.LastError = ""
	if err != nil {
		m.status.LastError = err.Error()
	}
	if reconnected {
		m.status.Reconnects++
	}

	up := 0.0
	if m.status.Healthy {
		up = 1
	}
	endpointUp.WithLabelValues(m.network).Set(up)
}
