package ledger

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/empower1/ledgercore/internal/address"
	"golang.org/x/crypto/blake2b"
)

// UpdateProposalID is the content hash identifying a governance proposal.
type UpdateProposalID [32]byte

func (id UpdateProposalID) less(o UpdateProposalID) bool {
	return bytes.Compare(id[:], o[:]) < 0
}

// ProposalStatus is a proposal's position in the governance state machine
// (spec.md §4.6 / §4.13): Proposed -> Adopted on majority vote, or ->
// Expired once its age exceeds the settings' expiration window.
type ProposalStatus uint8

const (
	ProposalProposed ProposalStatus = iota
	ProposalAdopted
	ProposalExpired
)

// Proposal is one pending (or resolved) governance proposal.
type Proposal struct {
	Changes       []ConfigParam
	Proposer      address.AccountID
	SubmittedDate BlockDate
	Votes         map[address.AccountID]bool
	Status        ProposalStatus
}

// ComputeProposalID derives a proposal's id deterministically from its
// content, proposer, and submission date, so ApplyProposal can reject a
// proposal id that does not match what it claims to carry.
func ComputeProposalID(changes []ConfigParam, proposer address.AccountID, submittedDate BlockDate) UpdateProposalID {
	h, _ := blake2b.New256(nil)
	h.Write(proposer[:])
	var dateBuf [8]byte
	binary.BigEndian.PutUint32(dateBuf[0:4], submittedDate.Epoch)
	binary.BigEndian.PutUint32(dateBuf[4:8], submittedDate.Slot)
	h.Write(dateBuf[:])
	for _, c := range changes {
		h.Write([]byte{byte(c.Tag), c.Uint8})
		var buf [12]byte
		binary.BigEndian.PutUint32(buf[0:4], c.Uint32)
		binary.BigEndian.PutUint64(buf[4:12], c.Uint64)
		h.Write(buf[:])
		h.Write(c.Leader[:])
	}
	var id UpdateProposalID
	copy(id[:], h.Sum(nil))
	return id
}

// UpdateState tracks every proposal submitted since genesis.
type UpdateState struct {
	proposals map[UpdateProposalID]Proposal
}

func NewUpdateState() *UpdateState {
	return &UpdateState{proposals: make(map[UpdateProposalID]Proposal)}
}

func (u *UpdateState) clone() *UpdateState {
	next := make(map[UpdateProposalID]Proposal, len(u.proposals))
	for k, v := range u.proposals {
		votes := make(map[address.AccountID]bool, len(v.Votes))
		for voter := range v.Votes {
			votes[voter] = true
		}
		v.Votes = votes
		next[k] = v
	}
	return &UpdateState{proposals: next}
}

// ApplyProposal admits a new governance proposal. Rejects when the
// proposer is not a registered BFT leader, the id is already present, or
// the id does not match the content hash (spec.md §4.6).
func (u *UpdateState) ApplyProposal(id UpdateProposalID, changes []ConfigParam, proposer address.AccountID, submittedDate BlockDate, settings *Settings) (*UpdateState, error) {
	if !settings.hasLeader(proposer) {
		return nil, ErrUpdateVoterNotALeader
	}
	if _, exists := u.proposals[id]; exists {
		return nil, ErrUpdateProposalAlreadyPresent
	}
	if ComputeProposalID(changes, proposer, submittedDate) != id {
		return nil, ErrUpdateBadProposalSignature
	}

	next := u.clone()
	next.proposals[id] = Proposal{
		Changes:       changes,
		Proposer:      proposer,
		SubmittedDate: submittedDate,
		Votes:         make(map[address.AccountID]bool),
		Status:        ProposalProposed,
	}
	return next, nil
}

// ApplyVote records a BFT leader's vote for a proposal. Rejects when the
// target is absent, expired, the voter is not a registered leader, or the
// voter already voted on this proposal (spec.md §4.6).
func (u *UpdateState) ApplyVote(id UpdateProposalID, voter address.AccountID, settings *Settings) (*UpdateState, error) {
	p, ok := u.proposals[id]
	if !ok {
		return nil, ErrUpdateNoSuchProposal
	}
	if p.Status == ProposalExpired {
		return nil, ErrUpdateProposalExpired
	}
	if !settings.hasLeader(voter) {
		return nil, ErrUpdateVoterNotALeader
	}
	if p.Votes[voter] {
		return nil, ErrUpdateAlreadyVoted
	}

	next := u.clone()
	np := next.proposals[id]
	np.Votes[voter] = true
	next.proposals[id] = np
	return next, nil
}

// ProcessProposals runs once per block transition (spec.md §4.12 step 3):
// it expires proposals older than the expiration window, adopts proposals
// whose vote set is a strict majority of the current BFT leader set — in
// proposal-id lexicographic order when several adopt at once — and folds
// each adopted proposal's changes into settings before any fragment in the
// new block is applied.
func (u *UpdateState) ProcessProposals(settings *Settings, oldDate, newDate BlockDate) (*UpdateState, *Settings, error) {
	next := u.clone()
	majority := len(settings.BftLeaders)/2 + 1

	var toAdopt []UpdateProposalID
	for id, p := range next.proposals {
		if p.Status != ProposalProposed {
			continue
		}
		if p.SubmittedDate.EpochDelta(newDate) > settings.ProposalExpirationEpochs {
			p.Status = ProposalExpired
			next.proposals[id] = p
			continue
		}
		if len(p.Votes) >= majority {
			toAdopt = append(toAdopt, id)
		}
	}

	sort.Slice(toAdopt, func(i, j int) bool { return toAdopt[i].less(toAdopt[j]) })

	newSettings := settings
	var err error
	for _, id := range toAdopt {
		p := next.proposals[id]
		newSettings, err = newSettings.Apply(p.Changes)
		if err != nil {
			return nil, nil, err
		}
		p.Status = ProposalAdopted
		next.proposals[id] = p
	}

	_ = oldDate
	return next, newSettings, nil
}
