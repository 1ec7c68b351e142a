package wire

import (
	"crypto/ed25519"
	"testing"

	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/ledger"
	"github.com/stretchr/testify/require"
)

func TestConfigParamsRoundTrip(t *testing.T) {
	leader := address.AccountID{1, 2, 3}
	params := []ledger.ConfigParam{
		{Tag: ledger.TagProposalExpiration, Uint32: 10},
		{Tag: ledger.TagBlock0Date, Uint64: 1700000000},
		{Tag: ledger.TagAddBftLeader, Leader: leader},
		{Tag: ledger.TagLinearFee, Fee: ledger.LinearFee{Constant: 1, PerInput: 2, PerOutput: 3, PerCertificate: 4}},
	}

	encoded, err := EncodeConfigParams(params)
	require.NoError(t, err)

	decoded, err := DecodeConfigParams(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(params))

	byTag := make(map[ledger.ConfigParamTag]ledger.ConfigParam, len(decoded))
	for _, p := range decoded {
		byTag[p.Tag] = p
	}
	require.Equal(t, uint64(1700000000), byTag[ledger.TagBlock0Date].Uint64)
	require.Equal(t, leader, byTag[ledger.TagAddBftLeader].Leader)
	require.Equal(t, ledger.LinearFee{Constant: 1, PerInput: 2, PerOutput: 3, PerCertificate: 4}, byTag[ledger.TagLinearFee].Fee)
}

func TestConfigParamsAreWrittenSorted(t *testing.T) {
	params := []ledger.ConfigParam{
		{Tag: ledger.TagProposalExpiration, Uint32: 1},
		{Tag: ledger.TagBlock0Date, Uint64: 2},
		{Tag: ledger.TagDiscrimination, Uint8: 1},
	}
	encoded, err := EncodeConfigParams(params)
	require.NoError(t, err)

	decoded, err := DecodeConfigParams(encoded)
	require.NoError(t, err)
	require.Equal(t, ledger.TagBlock0Date, decoded[0].Tag)
	require.Equal(t, ledger.TagDiscrimination, decoded[1].Tag)
	require.Equal(t, ledger.TagProposalExpiration, decoded[2].Tag)
}

func TestDecodeConfigParamsRejectsUnsorted(t *testing.T) {
	w := &writer{}
	w.u16(2)
	w.u8(byte(ledger.TagProposalExpiration))
	_ = w.bytes8([]byte{0, 0, 0, 1})
	w.u8(byte(ledger.TagBlock0Date))
	_ = w.bytes8([]byte{0, 0, 0, 0, 0, 0, 0, 2})

	_, err := DecodeConfigParams(w.buf)
	require.ErrorIs(t, err, ErrConfigParamsUnsorted)
}

func newTestKey(seed byte) ed25519.PublicKey {
	pub, _, _ := ed25519.GenerateKey(nil)
	_ = seed
	return pub
}

func TestFragmentTransactionRoundTrip(t *testing.T) {
	spendKey := newTestKey(1)
	acctKey := newTestKey(2)

	addrSingle, err := address.NewSingle(address.Production, spendKey)
	require.NoError(t, err)
	addrAccount, err := address.NewAccount(address.Production, acctKey)
	require.NoError(t, err)

	tx := ledger.Transaction{
		Inputs: []ledger.Input{
			{Kind: ledger.InputUtxo, Utxo: ledger.UtxoPointer{TransactionID: ledger.TransactionID{9}, OutputIndex: 0, Value: 100}},
		},
		Outputs: []ledger.Output[address.Address]{
			{Address: addrSingle, Value: 60},
			{Address: addrAccount, Value: 40},
		},
	}
	signed := ledger.AuthenticatedTransaction{
		Transaction: tx,
		Witnesses: []ledger.Witness{
			{Kind: ledger.WitnessUtxo, Signature: []byte{1, 2, 3, 4}},
		},
	}
	frag := ledger.Fragment{Kind: ledger.FragTransaction, Transaction: signed}

	encoded, err := EncodeFragment(frag)
	require.NoError(t, err)

	decoded, consumed, err := DecodeFragment(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), consumed)
	require.Equal(t, ledger.FragTransaction, decoded.Kind)
	require.Len(t, decoded.Transaction.Transaction.Inputs, 1)
	require.Len(t, decoded.Transaction.Transaction.Outputs, 2)
	require.True(t, decoded.Transaction.Transaction.Outputs[0].Address.Equal(addrSingle))
	require.True(t, decoded.Transaction.Transaction.Outputs[1].Address.Equal(addrAccount))
	require.Equal(t, ledger.Value(60), decoded.Transaction.Transaction.Outputs[0].Value)
	require.Equal(t, []byte{1, 2, 3, 4}, decoded.Transaction.Witnesses[0].Signature)
}

func TestFragmentInitialRoundTrip(t *testing.T) {
	frag := ledger.Fragment{
		Kind: ledger.FragInitial,
		InitialParams: []ledger.ConfigParam{
			{Tag: ledger.TagDiscrimination, Uint8: uint8(address.Production)},
			{Tag: ledger.TagBlock0Date, Uint64: 42},
		},
	}
	encoded, err := EncodeFragment(frag)
	require.NoError(t, err)

	decoded, _, err := DecodeFragment(encoded)
	require.NoError(t, err)
	require.Equal(t, ledger.FragInitial, decoded.Kind)
	require.Len(t, decoded.InitialParams, 2)
}

func TestFragmentStreamDecoding(t *testing.T) {
	f1 := ledger.Fragment{Kind: ledger.FragInitial, InitialParams: []ledger.ConfigParam{{Tag: ledger.TagBlock0Date, Uint64: 1}}}
	f2 := ledger.Fragment{Kind: ledger.FragUpdateVote, UpdateVote: ledger.UpdateVoteFragment{ProposalID: ledger.UpdateProposalID{1}, Voter: address.AccountID{2}}}

	e1, err := EncodeFragment(f1)
	require.NoError(t, err)
	e2, err := EncodeFragment(f2)
	require.NoError(t, err)

	stream := append(append([]byte(nil), e1...), e2...)

	d1, n1, err := DecodeFragment(stream)
	require.NoError(t, err)
	require.Equal(t, ledger.FragInitial, d1.Kind)

	d2, n2, err := DecodeFragment(stream[n1:])
	require.NoError(t, err)
	require.Equal(t, ledger.FragUpdateVote, d2.Kind)
	require.Equal(t, len(stream), n1+n2)
}

func TestHeaderRoundTripBFT(t *testing.T) {
	leaderKey := newTestKey(3)
	h := Header{
		ParentHash:   [32]byte{1, 2, 3},
		BlockDate:    ledger.BlockDate{Epoch: 4, Slot: 5},
		ChainLength:  ledger.ChainLength(6),
		ContentSize:  128,
		ContentHash:  [32]byte{9, 9, 9},
		BlockVersion: 1,
		Proof: Proof{
			Kind:            ProofBFT,
			BFTLeaderPubKey: leaderKey,
			BFTSignature:    make([]byte, ed25519.SignatureSize),
		},
	}

	encoded, err := EncodeHeader(h)
	require.NoError(t, err)

	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	require.Equal(t, h.ParentHash, decoded.ParentHash)
	require.Equal(t, h.BlockDate, decoded.BlockDate)
	require.Equal(t, h.ChainLength, decoded.ChainLength)
	require.Equal(t, h.ContentSize, decoded.ContentSize)
	require.Equal(t, h.ContentHash, decoded.ContentHash)
	require.Equal(t, h.BlockVersion, decoded.BlockVersion)
	require.Equal(t, ProofBFT, decoded.Proof.Kind)
	require.Equal(t, []byte(leaderKey), decoded.Proof.BFTLeaderPubKey)
}

func TestHeaderRoundTripPraos(t *testing.T) {
	h := Header{
		ParentHash:   [32]byte{7},
		BlockDate:    ledger.BlockDate{Epoch: 1, Slot: 1},
		ChainLength:  ledger.ChainLength(2),
		ContentSize:  16,
		ContentHash:  [32]byte{8},
		BlockVersion: 2,
		Proof: Proof{
			Kind:              ProofPraos,
			PraosNodeID:       [32]byte{5},
			PraosVRFOutput:    []byte{1, 1, 1},
			PraosKESSignature: []byte{2, 2, 2, 2},
		},
	}

	encoded, err := EncodeHeader(h)
	require.NoError(t, err)
	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	require.Equal(t, h.Proof.PraosNodeID, decoded.Proof.PraosNodeID)
	require.Equal(t, h.Proof.PraosVRFOutput, decoded.Proof.PraosVRFOutput)
	require.Equal(t, h.Proof.PraosKESSignature, decoded.Proof.PraosKESSignature)

	// The signable preimage must change if any committed field changes,
	// including the Praos proof fields that follow the common header.
	changed := h
	changed.Proof.PraosNodeID[0] ^= 0xff
	require.NotEqual(t, SignablePraosHeader(h), SignablePraosHeader(changed))

	// ...but must NOT depend on the KES signature itself.
	same := h
	same.Proof.PraosKESSignature = []byte{9, 9, 9, 9, 9}
	require.Equal(t, SignablePraosHeader(h), SignablePraosHeader(same))
}

func TestHeaderRoundTripGenesis(t *testing.T) {
	h := Header{BlockVersion: 0, Proof: Proof{Kind: ProofGenesis}}
	encoded, err := EncodeHeader(h)
	require.NoError(t, err)
	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	require.Equal(t, ProofGenesis, decoded.Proof.Kind)
}
