package ledger

import (
	"crypto/ed25519"
	"testing"

	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/cryptoprim"
	"github.com/stretchr/testify/require"
)

func twoLeaderGenesis(t *testing.T) (*Ledger, address.AccountID, address.AccountID) {
	t.Helper()
	l1 := mustKeyPair(t)
	l2 := mustKeyPair(t)
	id1, err := address.NewAccountID(l1.Public)
	require.NoError(t, err)
	id2, err := address.NewAccountID(l2.Public)
	require.NoError(t, err)

	params := []ConfigParam{
		{Tag: TagBlock0Date, Uint64: 1},
		{Tag: TagDiscrimination, Uint8: uint8(address.Production)},
		{Tag: TagSlotDuration, Uint32: 10},
		{Tag: TagSlotsPerEpoch, Uint32: 100},
		{Tag: TagKESUpdateSpeed, Uint32: 1},
		{Tag: TagAddBftLeader, Leader: id1},
		{Tag: TagAddBftLeader, Leader: id2},
		{Tag: TagProposalExpiration, Uint32: 2},
	}
	l, err := New([32]byte{1}, []Fragment{{Kind: FragInitial, InitialParams: params}})
	require.NoError(t, err)
	return l, id1, id2
}

func TestUpdateProposalAdoptionByMajority(t *testing.T) {
	l, id1, id2 := twoLeaderGenesis(t)

	changes := []ConfigParam{{Tag: TagProposalExpiration, Uint32: 99}}
	submittedDate := BlockDate{Epoch: 0, Slot: 1}
	proposalID := ComputeProposalID(changes, id1, submittedDate)

	next := l.shallowCopy()
	updates, err := next.Updates.ApplyProposal(proposalID, changes, id1, submittedDate, next.Settings)
	require.NoError(t, err)
	next.Updates = updates

	// One vote out of two leaders is not yet a strict majority (2/2+1=2).
	updates, err = next.Updates.ApplyVote(proposalID, id1, next.Settings)
	require.NoError(t, err)
	next.Updates = updates

	_, settingsAfterOneVote, err := next.Updates.ProcessProposals(next.Settings, submittedDate, BlockDate{Epoch: 0, Slot: 2})
	require.NoError(t, err)
	require.Equal(t, uint32(2), settingsAfterOneVote.ProposalExpirationEpochs)

	// Second vote reaches majority (2 of 2 leaders >= 2).
	updates, err = next.Updates.ApplyVote(proposalID, id2, next.Settings)
	require.NoError(t, err)
	next.Updates = updates

	finalUpdates, finalSettings, err := next.Updates.ProcessProposals(next.Settings, submittedDate, BlockDate{Epoch: 0, Slot: 3})
	require.NoError(t, err)
	require.Equal(t, uint32(99), finalSettings.ProposalExpirationEpochs)

	p := finalUpdates.proposals[proposalID]
	require.Equal(t, ProposalAdopted, p.Status)
}

func TestUpdateProposalExpires(t *testing.T) {
	l, id1, _ := twoLeaderGenesis(t)
	changes := []ConfigParam{{Tag: TagProposalExpiration, Uint32: 50}}
	submittedDate := BlockDate{Epoch: 0, Slot: 1}
	proposalID := ComputeProposalID(changes, id1, submittedDate)

	updates, err := l.Updates.ApplyProposal(proposalID, changes, id1, submittedDate, l.Settings)
	require.NoError(t, err)

	// No votes; advance past the two-epoch expiration window.
	finalUpdates, finalSettings, err := updates.ProcessProposals(l.Settings, submittedDate, BlockDate{Epoch: 3, Slot: 0})
	require.NoError(t, err)
	require.Equal(t, l.Settings.ProposalExpirationEpochs, finalSettings.ProposalExpirationEpochs)
	require.Equal(t, ProposalExpired, finalUpdates.proposals[proposalID].Status)
}

func TestUpdateProposalRejectsNonLeaderProposer(t *testing.T) {
	l, _, _ := twoLeaderGenesis(t)
	outsider := mustKeyPair(t)
	outsiderID, err := address.NewAccountID(outsider.Public)
	require.NoError(t, err)

	changes := []ConfigParam{{Tag: TagProposalExpiration, Uint32: 1}}
	date := BlockDate{Epoch: 0, Slot: 1}
	id := ComputeProposalID(changes, outsiderID, date)

	_, err = l.Updates.ApplyProposal(id, changes, outsiderID, date, l.Settings)
	require.ErrorIs(t, err, ErrUpdateVoterNotALeader)
}

func TestUpdateProposalRejectsDuplicateID(t *testing.T) {
	l, id1, _ := twoLeaderGenesis(t)
	changes := []ConfigParam{{Tag: TagProposalExpiration, Uint32: 1}}
	date := BlockDate{Epoch: 0, Slot: 1}
	id := ComputeProposalID(changes, id1, date)

	updates, err := l.Updates.ApplyProposal(id, changes, id1, date, l.Settings)
	require.NoError(t, err)

	_, err = updates.ApplyProposal(id, changes, id1, date, l.Settings)
	require.ErrorIs(t, err, ErrUpdateProposalAlreadyPresent)
}

func TestPoolRegistrationAndDelegation(t *testing.T) {
	l, _, _ := twoLeaderGenesis(t)

	owner := mustKeyPair(t)
	info := StakePoolInfo{Serial: 1, Owners: []ed25519.PublicKey{owner.Public}, KESPublic: []byte("kes"), VRFPublic: []byte("vrf")}
	poolID, err := info.PoolID()
	require.NoError(t, err)

	delegation, _, err := l.Delegation.RegisterStakePool(info)
	require.NoError(t, err)
	require.True(t, delegation.StakePoolExists(poolID))

	_, _, err = delegation.RegisterStakePool(info)
	require.ErrorIs(t, err, ErrStakePoolAlreadyRegistered)

	stakerKey := mustKeyPair(t)
	stakerID, err := address.NewAccountID(stakerKey.Public)
	require.NoError(t, err)
	accounts, err := NewAccountLedger().AddAccount(stakerID, 500, nil)
	require.NoError(t, err)

	accounts, err = accounts.SetDelegation(stakerID, &poolID)
	require.NoError(t, err)
	acc, _ := accounts.Get(stakerID)
	require.Equal(t, poolID, *acc.Delegation)

	_, err = delegation.DeregisterStakePool(cryptoprim.PoolID{0xff})
	require.ErrorIs(t, err, ErrStakePoolDoesNotExist)
}
