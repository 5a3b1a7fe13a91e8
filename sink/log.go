package sink

import (
	"context"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/sirupsen/logrus"
)

// LogSink writes every event to the logger.
type LogSink struct {
	logger *logrus.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Deliver logs events at Info level. It never fails.
func (s *LogSink) Deliver(_ context.Context, events []types.Event) error {
	for _, event := range events {
		fields := logrus.Fields{
			"kind":        event.Kind,
			"blockNumber": event.BlockNumber,
		}
		if event.TxHash != "" {
			fields["txHash"] = event.TxHash
		}
		if event.From != "" {
			fields["from"] = event.From
		}
		if event.To != "" {
			fields["to"] = event.To
		}
		if event.Value != "" {
			fields["value"] = event.Value
		}
		if event.EventName != "" {
			fields["event"] = event.EventName
		}
		s.logger.WithFields(fields).Info("Trigger event")
	}
	return nil
}
