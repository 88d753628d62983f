// Package observability provides logging setup and the Prometheus
// metrics surface for the heliograph engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics registry and standard meters.
type Metrics struct {
	Registry            *prometheus.Registry
	InstructionDuration *prometheus.HistogramVec
	InstructionTotal    *prometheus.CounterVec
	MessagesPosted      prometheus.Counter
	AccountsAllocated   *prometheus.CounterVec
}

// NewMetrics creates a custom Prometheus registry with the standard
// heliograph engine metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	insDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "heliograph_instruction_duration_seconds",
		Help:    "Duration of instruction processing in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"instruction", "status"})

	insTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heliograph_instruction_total",
		Help: "Total number of instructions processed.",
	}, []string{"instruction", "status"})

	messagesPosted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heliograph_messages_posted_total",
		Help: "Total number of channel messages accepted.",
	})

	accountsAllocated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heliograph_accounts_allocated_total",
		Help: "Total number of ledger accounts allocated.",
	}, []string{"kind"})

	reg.MustRegister(insDuration, insTotal, messagesPosted, accountsAllocated)

	return &Metrics{
		Registry:            reg,
		InstructionDuration: insDuration,
		InstructionTotal:    insTotal,
		MessagesPosted:      messagesPosted,
		AccountsAllocated:   accountsAllocated,
	}
}
