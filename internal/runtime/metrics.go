package runtime

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values of mqlog_handler_records_total.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// HandlerMetrics counts emitted records per destination and failures per
// emit stage. A nil *HandlerMetrics records nothing.
type HandlerMetrics struct {
	records  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// newHandlerCounterVec creates a counter vec in the mqlog/handler namespace.
func newHandlerCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mqlog",
			Subsystem: "handler",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewHandlerMetrics creates the handler collectors and registers them with
// registerer, or prometheus.DefaultRegisterer when nil. Collectors already
// registered by another handler are shared.
func NewHandlerMetrics(registerer prometheus.Registerer) (*HandlerMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	records, err := registerCounterVec(registerer, newHandlerCounterVec(
		"records_total", "Log records processed by the handler", []string{"destination", "outcome"}))
	if err != nil {
		return nil, err
	}
	failures, err := registerCounterVec(registerer, newHandlerCounterVec(
		"failures_total", "Log records dropped, by the emit stage that failed", []string{"stage"}))
	if err != nil {
		return nil, err
	}
	return &HandlerMetrics{records: records, failures: failures}, nil
}

func registerCounterVec(registerer prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := registerer.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *HandlerMetrics) recordSent(destination string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(destination, OutcomeSent).Inc()
}

func (m *HandlerMetrics) recordFailure(destination string, stage Stage) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(destination, OutcomeFailed).Inc()
	m.failures.WithLabelValues(string(stage)).Inc()
}
