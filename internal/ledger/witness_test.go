package ledger

import (
	"crypto/ed25519"
	"testing"

	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/cryptoprim"
	"github.com/stretchr/testify/require"
)

func TestVerifyUtxoInputOldUtxoWitness(t *testing.T) {
	block0Hash := [32]byte{0x42}
	owner := mustKeyPair(t)
	oldAddr := cryptoprim.OldAddressFromPublicKey(owner.Public)

	oldUtxos, err := ApplyOldDeclaration(NewUTxOLedger[OldAddress](), OldUtxoDeclaration{
		DeclarationID: TransactionID{0x10},
		Addresses:     []OldAddress{OldAddress(oldAddr)},
		Values:        []Value{500},
	})
	require.NoError(t, err)

	state := utxoInputState{utxos: NewUTxOLedger[address.Address](), oldUtxos: oldUtxos}
	ptr := UtxoPointer{TransactionID: TransactionID{0x10}, OutputIndex: 0, Value: 500}
	txID := TransactionID{0xbb}

	sig := owner.Sign(witnessUtxoData(block0Hash, txID))
	w := Witness{Kind: WitnessOldUtxo, OldUtxoPublicKey: owner.Public, Signature: sig}

	next, err := verifyUtxoInput(state, block0Hash, txID, ptr, w)
	require.NoError(t, err)
	require.Equal(t, 0, next.oldUtxos.Len())

	_, _, err = next.oldUtxos.Remove(TransactionID{0x10}, 0)
	require.ErrorIs(t, err, ErrUtxoNotFound)
}

func TestVerifyUtxoInputOldUtxoWrongKeyRejected(t *testing.T) {
	block0Hash := [32]byte{0x42}
	owner := mustKeyPair(t)
	impostor := mustKeyPair(t)
	oldAddr := cryptoprim.OldAddressFromPublicKey(owner.Public)

	oldUtxos, err := ApplyOldDeclaration(NewUTxOLedger[OldAddress](), OldUtxoDeclaration{
		DeclarationID: TransactionID{0x10},
		Addresses:     []OldAddress{OldAddress(oldAddr)},
		Values:        []Value{500},
	})
	require.NoError(t, err)

	state := utxoInputState{utxos: NewUTxOLedger[address.Address](), oldUtxos: oldUtxos}
	ptr := UtxoPointer{TransactionID: TransactionID{0x10}, OutputIndex: 0, Value: 500}
	txID := TransactionID{0xbb}

	sig := impostor.Sign(witnessUtxoData(block0Hash, txID))
	w := Witness{Kind: WitnessOldUtxo, OldUtxoPublicKey: impostor.Public, Signature: sig}

	_, err = verifyUtxoInput(state, block0Hash, txID, ptr, w)
	require.ErrorIs(t, err, ErrOldUtxoInvalidPublicKey)
}

func TestVerifyUtxoInputValueMismatchRejected(t *testing.T) {
	block0Hash := [32]byte{0x42}
	spender := mustKeyPair(t)
	addr, err := address.NewSingle(address.Production, spender.Public)
	require.NoError(t, err)

	utxos, err := NewUTxOLedger[address.Address]().Add(TransactionID{0x20}, []IndexedOutput[address.Address]{
		{Index: 0, Output: Output[address.Address]{Address: addr, Value: 500}},
	})
	require.NoError(t, err)

	state := utxoInputState{utxos: utxos, oldUtxos: NewUTxOLedger[OldAddress]()}
	ptr := UtxoPointer{TransactionID: TransactionID{0x20}, OutputIndex: 0, Value: 999}
	txID := TransactionID{0xbb}
	sig := spender.Sign(witnessUtxoData(block0Hash, txID))
	w := Witness{Kind: WitnessUtxo, Signature: sig}

	_, err = verifyUtxoInput(state, block0Hash, txID, ptr, w)
	var mismatch *UtxoValueNotMatchingError
	require.ErrorAs(t, err, &mismatch)
}

func TestVerifyAccountInputMultisigThreshold(t *testing.T) {
	block0Hash := [32]byte{0x42}
	owner1 := mustKeyPair(t)
	owner2 := mustKeyPair(t)
	decl := MultisigDeclaration{Threshold: 2, Owners: []ed25519.PublicKey{owner1.Public, owner2.Public}}

	multisigs, err := NewMultisigLedger().AddAccount(address.MultisigID{1}, 1000, decl)
	require.NoError(t, err)

	state := accountInputState{accounts: NewAccountLedger(), multisigs: multisigs}
	target := AccountTarget{Multi: true, Multisig: address.MultisigID{1}}
	txID := TransactionID{0xcc}

	data := witnessMultisigData(block0Hash, txID, 0)
	sig1 := MultisigPartialSignature{Index: 0, Signature: owner1.Sign(data)}

	// Only one of two required signatures: rejected.
	w := Witness{Kind: WitnessMultisig, MultisigSignatures: []MultisigPartialSignature{sig1}}
	_, err = verifyAccountInput(state, block0Hash, txID, target, 100, w)
	require.ErrorIs(t, err, ErrMultisigInvalidSignature)

	sig2 := MultisigPartialSignature{Index: 1, Signature: owner2.Sign(data)}
	w = Witness{Kind: WitnessMultisig, MultisigSignatures: []MultisigPartialSignature{sig1, sig2}}
	after, err := verifyAccountInput(state, block0Hash, txID, target, 100, w)
	require.NoError(t, err)
	acc, ok := after.multisigs.Get(address.MultisigID{1})
	require.True(t, ok)
	require.Equal(t, Value(900), acc.Balance)
}
