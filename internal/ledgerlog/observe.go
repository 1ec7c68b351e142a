// Package ledgerlog wraps block application with structured logging and
// metrics. It is a thin decorator layer: internal/ledger's state-transition
// functions stay pure and never log or record metrics themselves, the same
// separation the teacher keeps between its logic packages and their
// *log.Logger-carrying callers.
package ledgerlog

import (
	"time"

	"github.com/empower1/ledgercore/internal/ledger"
	"go.uber.org/zap"
)

// Observer logs and records metrics around ApplyBlock calls.
type Observer struct {
	logger  *zap.Logger
	metrics *Metrics
}

func NewObserver(logger *zap.Logger, metrics *Metrics) *Observer {
	return &Observer{logger: logger, metrics: metrics}
}

// Observe wraps a single ApplyBlock call: it logs the attempt, its outcome,
// and timing, and records the fragment-level outcome counters metrics.go
// exposes.
func (o *Observer) Observe(l *ledger.Ledger, hctx ledger.HeaderContext, fragments []ledger.Fragment) (*ledger.Ledger, error) {
	start := time.Now()
	o.logger.Debug("applying block",
		zap.Uint32("chain_length", uint32(hctx.ChainLength)),
		zap.String("block_date", hctx.BlockDate.String()),
		zap.Int("fragment_count", len(fragments)),
	)

	next, err := l.ApplyBlock(hctx, fragments)
	elapsed := time.Since(start)

	if err != nil {
		o.logger.Warn("block application rejected",
			zap.Uint32("chain_length", uint32(hctx.ChainLength)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		if o.metrics != nil {
			o.metrics.ObserveFragmentRejected(err)
		}
		return nil, err
	}

	o.logger.Info("block applied",
		zap.Uint32("chain_length", uint32(hctx.ChainLength)),
		zap.String("block_date", hctx.BlockDate.String()),
		zap.Duration("elapsed", elapsed),
	)
	if o.metrics != nil {
		o.metrics.ObserveFragmentsApplied(len(fragments))
	}
	return next, nil
}
