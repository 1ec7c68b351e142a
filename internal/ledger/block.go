package ledger

// ApplyBlock is the ledger core's single entry point: it advances the
// snapshot by one block, checking chain-length and date framing, running
// the governance boundary transition, and applying every fragment in
// order (spec.md §4.12). On any failure it returns an error and the
// receiver is left entirely unaffected.
func (l *Ledger) ApplyBlock(hctx HeaderContext, fragments []Fragment) (*Ledger, error) {
	expectedChainLength := l.ChainLength.Next()
	if hctx.ChainLength != expectedChainLength {
		return nil, &WrongChainLengthError{Actual: hctx.ChainLength, Expected: expectedChainLength}
	}
	if hctx.BlockDate.Compare(l.Date) <= 0 {
		return nil, &NonMonotonicDateError{BlockDate: hctx.BlockDate, ChainDate: l.Date}
	}

	updates, settings, err := l.Updates.ProcessProposals(l.Settings, l.Date, hctx.BlockDate)
	if err != nil {
		return nil, err
	}

	next := l.shallowCopy()
	next.Updates = updates
	next.Settings = settings
	next.ChainLength = expectedChainLength

	params := next.Parameters()
	for _, frag := range fragments {
		next, err = next.ApplyFragment(params, frag, hctx)
		if err != nil {
			return nil, err
		}
	}

	next.Date = hctx.BlockDate
	if len(hctx.Nonce) > 0 {
		next.Settings = next.Settings.MixNonce(hctx.Nonce)
	}
	return next, nil
}
