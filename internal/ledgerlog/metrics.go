package ledgerlog

import (
	"errors"

	"github.com/empower1/ledgercore/internal/ledger"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the ledger core's operational counters, registered against
// a caller-supplied registry. No HTTP exposition is wired here — serving
// /metrics is networking, out of this module's scope.
type Metrics struct {
	fragmentsApplied  prometheus.Counter
	fragmentsRejected *prometheus.CounterVec
}

// NewMetrics creates and registers the ledger core's counters against reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		fragmentsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledgercore",
			Name:      "fragments_applied_total",
			Help:      "Number of fragments successfully applied across all accepted blocks.",
		}),
		fragmentsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledgercore",
			Name:      "blocks_rejected_total",
			Help:      "Number of ApplyBlock calls rejected, labeled by error kind.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.fragmentsApplied, m.fragmentsRejected)
	return m
}

func (m *Metrics) ObserveFragmentsApplied(n int) {
	m.fragmentsApplied.Add(float64(n))
}

func (m *Metrics) ObserveFragmentRejected(err error) {
	m.fragmentsRejected.WithLabelValues(classifyError(err)).Inc()
}

// classifyError maps a rejection to a short, low-cardinality label suitable
// for a metric dimension, grouping the typed error variants by shape and
// falling back to the sentinel's own message for the rest.
func classifyError(err error) string {
	switch {
	case errors.As(err, new(*ledger.TooManyInputsError)),
		errors.As(err, new(*ledger.TooManyOutputsError)),
		errors.As(err, new(*ledger.TooManyWitnessesError)),
		errors.As(err, new(*ledger.NotEnoughSignaturesError)):
		return "arity"
	case errors.As(err, new(*ledger.NotBalancedError)),
		errors.As(err, new(*ledger.UtxoInputsTotalError)),
		errors.As(err, new(*ledger.UtxoOutputsTotalError)),
		errors.As(err, new(*ledger.FeeCalculationError)):
		return "balance"
	case errors.As(err, new(*ledger.UtxoValueNotMatchingError)):
		return "utxo_value_mismatch"
	case errors.As(err, new(*ledger.WrongChainLengthError)):
		return "wrong_chain_length"
	case errors.As(err, new(*ledger.NonMonotonicDateError)):
		return "non_monotonic_date"
	case err == nil:
		return "none"
	default:
		return err.Error()
	}
}
