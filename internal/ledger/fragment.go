package ledger

import "github.com/empower1/ledgercore/internal/address"

// FragmentKind enumerates the six fragment variants, matching the wire tags
// assigned in spec.md §6 (0 through 5).
type FragmentKind uint8

const (
	FragInitial FragmentKind = iota
	FragOldUtxoDeclaration
	FragTransaction
	FragCertificate
	FragUpdateProposal
	FragUpdateVote
)

// UpdateProposalFragment carries a governance proposal submission.
type UpdateProposalFragment struct {
	ID            UpdateProposalID
	Changes       []ConfigParam
	Proposer      address.AccountID
	SubmittedDate BlockDate
}

// UpdateVoteFragment carries one BFT leader's vote on a pending proposal.
type UpdateVoteFragment struct {
	ProposalID UpdateProposalID
	Voter      address.AccountID
}

// Fragment is one entry in a block's content list (spec.md §3 "Fragment
// (a.k.a. Message)"). Exactly one payload field is meaningful, selected by
// Kind; ID is the fragment's content hash, computed by internal/wire.
type Fragment struct {
	Kind FragmentKind
	ID   TransactionID

	InitialParams  []ConfigParam
	OldUtxoDecl    OldUtxoDeclaration
	Transaction    AuthenticatedTransaction
	UpdateProposal UpdateProposalFragment
	UpdateVote     UpdateVoteFragment
}

// ApplyFragment dispatches a single fragment against the ledger (spec.md
// §4.11). Initial and OldUtxoDeclaration are only ever legal inside
// genesis bootstrap, which never routes through this dispatcher — any
// occurrence here is therefore rejected.
func (l *Ledger) ApplyFragment(params Parameters, frag Fragment, hctx HeaderContext) (*Ledger, error) {
	switch frag.Kind {
	case FragInitial, FragOldUtxoDeclaration:
		return nil, ErrOnlyMessageReceived

	case FragTransaction:
		if frag.Transaction.Transaction.Certificate != nil {
			return nil, ErrCertificateInvalidSignature
		}
		next, _, err := l.ApplyTransaction(frag.ID, frag.Transaction, params)
		return next, err

	case FragCertificate:
		if frag.Transaction.Transaction.Certificate == nil {
			return nil, ErrCertificateInvalidSignature
		}
		next, _, err := l.ApplyCertificate(frag.ID, frag.Transaction, params)
		return next, err

	case FragUpdateProposal:
		p := frag.UpdateProposal
		updates, err := l.Updates.ApplyProposal(p.ID, p.Changes, p.Proposer, p.SubmittedDate, l.Settings)
		if err != nil {
			return nil, err
		}
		next := l.shallowCopy()
		next.Updates = updates
		return next, nil

	case FragUpdateVote:
		v := frag.UpdateVote
		updates, err := l.Updates.ApplyVote(v.ProposalID, v.Voter, l.Settings)
		if err != nil {
			return nil, err
		}
		next := l.shallowCopy()
		next.Updates = updates
		return next, nil

	default:
		return nil, ErrExpectingInitialMessage
	}
}
