// Package metrics exposes ledger activity as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
)

const (
	outcomeSucceeded = "succeeded"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// LedgerMetrics counts ledger operations by outcome and tracks moved amounts
type LedgerMetrics struct {
	operations *prometheus.CounterVec
	amounts    *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger collectors on reg
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	m := &LedgerMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vnbank",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Money-movement attempts by operation and outcome.",
		}, []string{"operation", "outcome"}),
		amounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vnbank",
			Subsystem: "ledger",
			Name:      "amount_total",
			Help:      "Sum of committed amounts in minor units by operation.",
		}, []string{"operation"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vnbank",
			Subsystem: "ledger",
			Name:      "rejections_total",
			Help:      "Rejected operations by error code.",
		}, []string{"operation", "code"}),
	}
	reg.MustRegister(m.operations, m.amounts, m.rejections)
	return m
}

// HandleLedgerEvent records one operation
func (m *LedgerMetrics) HandleLedgerEvent(_ context.Context, event *entities.LedgerEvent) error {
	op := string(event.Operation)
	switch {
	case event.Succeeded():
		m.operations.WithLabelValues(op, outcomeSucceeded).Inc()
		m.amounts.WithLabelValues(op).Add(float64(event.Amount))
	case domainerrors.IsDomain(event.Err):
		m.operations.WithLabelValues(op, outcomeRejected).Inc()
		m.rejections.WithLabelValues(op, domainerrors.FromError(event.Err).Code).Inc()
	default:
		m.operations.WithLabelValues(op, outcomeFailed).Inc()
	}
	return nil
}
