// internal/metrics/metrics.go
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"walpay-wallet/internal/util"
)

const namespace = "walpay"

// Metrics holds the Prometheus collectors for the ledger, the orchestrator and
// the webhook reconciler. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ledgerOperationsTotal *prometheus.CounterVec
	transfersTotal        *prometheus.CounterVec
	webhookEventsTotal    *prometheus.CounterVec
	balanceCacheTotal     *prometheus.CounterVec
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ledgerOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Ledger engine primitives partitioned by operation and result.",
			},
			[]string{"op", "result"},
		),
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orchestrator",
				Name:      "requests_total",
				Help:      "Deposit, withdrawal and P2P requests partitioned by kind and result.",
			},
			[]string{"kind", "result"},
		),
		webhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "events_total",
				Help:      "Bank webhook deliveries partitioned by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		balanceCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "balance_cache",
				Name:      "lookups_total",
				Help:      "Balance cache lookups partitioned by result.",
			},
			[]string{"result"},
		),
	}
}

// ObserveLedgerOp counts one engine primitive.
func (m *Metrics) ObserveLedgerOp(op string, err error) {
	if m == nil {
		return
	}
	m.ledgerOperationsTotal.WithLabelValues(op, Result(err)).Inc()
}

// ObserveTransfer counts one orchestrator request.
func (m *Metrics) ObserveTransfer(kind string, err error) {
	if m == nil {
		return
	}
	m.transfersTotal.WithLabelValues(kind, Result(err)).Inc()
}

// ObserveWebhook counts one webhook delivery. outcome is "applied", "replayed" or an error result.
func (m *Metrics) ObserveWebhook(kind, outcome string) {
	if m == nil {
		return
	}
	m.webhookEventsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveCacheLookup counts a balance cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.balanceCacheTotal.WithLabelValues(result).Inc()
}

// Result maps an error to a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, util.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, util.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, util.ErrValidation):
		return "validation"
	case errors.Is(err, util.ErrPolicyViolation):
		return "policy_violation"
	case errors.Is(err, util.ErrRecipientNotFound):
		return "recipient_not_found"
	case errors.Is(err, util.ErrSelfTransferNotAllowed):
		return "self_transfer"
	case errors.Is(err, util.ErrNotFound):
		return "not_found"
	case errors.Is(err, util.ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, util.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, util.ErrOwnerMismatch):
		return "owner_mismatch"
	case errors.Is(err, util.ErrInvalidState):
		return "invalid_state"
	default:
		return "error"
	}
}
