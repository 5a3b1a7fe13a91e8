package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultSubjectPrefix is used when no subject prefix is configured.
const DefaultSubjectPrefix = "zksync.events"

const flushTimeout = 5 * time.Second

// Publisher is the subset of *nats.Conn used by NATSSink.
type Publisher interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSSink publishes each event as JSON on <prefix>.<kind>.
type NATSSink struct {
	conn   Publisher
	prefix string
	logger *logrus.Logger
}

// NewNATSSink connects to url and returns a sink publishing under prefix.
// The connection reconnects forever; disconnects are logged.
func NewNATSSink(url, prefix string, logger *logrus.Logger) (*NATSSink, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.WithField("error", err).Warn("Disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("Reconnected to NATS")
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to NATS")
	}

	return NewNATSSinkWithPublisher(conn, prefix, logger), nil
}

// NewNATSSinkWithPublisher wraps an existing connection.
func NewNATSSinkWithPublisher(conn Publisher, prefix string, logger *logrus.Logger) *NATSSink {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSSink{
		conn:   conn,
		prefix: prefix,
		logger: logger,
	}
}

// Deliver publishes events in order and flushes, so a nil return means the
// server has received every message.
func (s *NATSSink) Deliver(_ context.Context, events []types.Event) error {
	if len(events) == 0 {
		return nil
	}

	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return errors.Wrapf(err, "failed to encode %s event", event.Kind)
		}

		subject := s.prefix + "." + string(event.Kind)
		if err := s.conn.Publish(subject, data); err != nil {
			return errors.Wrapf(err, "failed to publish to %s", subject)
		}
	}

	if err := s.conn.FlushTimeout(flushTimeout); err != nil {
		return errors.Wrap(err, "failed to flush NATS connection")
	}

	s.logger.WithFields(logrus.Fields{
		"events": len(events),
		"prefix": s.prefix,
	}).Debug("Published trigger events")
	return nil
}

// Close closes the connection.
func (s *NATSSink) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
