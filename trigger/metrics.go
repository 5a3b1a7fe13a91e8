package trigger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Poll counters and watermark gauges, partitioned by trigger kind.

var (
	PollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zksync",
		Subsystem: "trigger",
		Name:      "polls_total",
		Help:      "Total poll invocations by outcome",
	}, []string{"kind", "outcome"})

	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zksync",
		Subsystem: "trigger",
		Name:      "events_emitted_total",
		Help:      "Total events returned by polls",
	}, []string{"kind"})

	DecodeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zksync",
		Subsystem: "trigger",
		Name:      "decode_failures_total",
		Help:      "Total logs skipped because they could not be decoded",
	}, []string{"kind"})

	Watermark = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "zksync",
		Subsystem: "trigger",
		Name:      "watermark",
		Help:      "Last committed block or batch watermark",
	}, []string{"kind"})

	PollLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "zksync",
		Subsystem: "trigger",
		Name:      "poll_duration_seconds",
		Help:      "Poll invocation duration",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"kind"})
)

const (
	outcomeNoop    = "noop"
	outcomePrimed  = "primed"
	outcomeScanned = "scanned"
	outcomeFailed  = "failed"
)
