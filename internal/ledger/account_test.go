package ledger

import (
	"testing"

	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/cryptoprim"
	"github.com/stretchr/testify/require"
)

// bootstrapAccountLedger seeds genesis with a single named Account(A) output
// (scenario S2), analogous to bootstrapSpendableLedger's UTxO(A) seed.
func bootstrapAccountLedger(t *testing.T) (*Ledger, address.AccountID, *cryptoprim.KeyPair, [32]byte) {
	t.Helper()
	leader := mustKeyPair(t)
	leaderID, err := address.NewAccountID(leader.Public)
	require.NoError(t, err)

	owner := mustKeyPair(t)
	ownerAddr, err := address.NewAccount(address.Production, owner.Public)
	require.NoError(t, err)
	ownerID := ownerAddr.AccountID()

	block0Hash := [32]byte{0x77}
	l, err := New(block0Hash, []Fragment{
		{Kind: FragInitial, InitialParams: genesisParams(t, leaderID)},
		{Kind: FragTransaction, ID: TransactionID{0xaa}, Transaction: AuthenticatedTransaction{
			Transaction: Transaction{Outputs: []Output[address.Address]{{Address: ownerAddr, Value: 1000}}},
		}},
	})
	require.NoError(t, err)
	return l, ownerID, owner, block0Hash
}

func TestGenesisAccountOutputCredited(t *testing.T) {
	l, ownerID, _, _ := bootstrapAccountLedger(t)
	acc, ok := l.Accounts.Get(ownerID)
	require.True(t, ok)
	require.Equal(t, Value(1000), acc.Balance)
	require.Equal(t, SpendingCounter(0), acc.SpendingCounter)
}

func TestAccountInputTransferWithAccountSigWitness(t *testing.T) {
	l, ownerID, owner, block0Hash := bootstrapAccountLedger(t)

	recipient := mustKeyPair(t)
	recipientAddr, err := address.NewSingle(address.Production, recipient.Public)
	require.NoError(t, err)

	txID := TransactionID{0x01}
	data := witnessAccountData(block0Hash, txID, 0)
	sig := owner.Sign(data)

	tx := AuthenticatedTransaction{
		Transaction: Transaction{
			Inputs:  []Input{{Kind: InputAccount, Account: AccountTarget{Single: ownerID}, Value: 400}},
			Outputs: []Output[address.Address]{{Address: recipientAddr, Value: 400}},
		},
		Witnesses: []Witness{{Kind: WitnessAccount, Signature: sig}},
	}

	next, fee, err := l.ApplyTransaction(txID, tx, l.Parameters())
	require.NoError(t, err)
	require.Equal(t, Value(0), fee)

	acc, ok := next.Accounts.Get(ownerID)
	require.True(t, ok)
	require.Equal(t, Value(600), acc.Balance)
	require.Equal(t, SpendingCounter(1), acc.SpendingCounter, "spending counter must advance by exactly one per successful debit")

	// The parent snapshot is untouched.
	parentAcc, _ := l.Accounts.Get(ownerID)
	require.Equal(t, Value(1000), parentAcc.Balance)
}

func TestAccountInputStaleCounterRejected(t *testing.T) {
	l, ownerID, owner, block0Hash := bootstrapAccountLedger(t)

	recipient := mustKeyPair(t)
	recipientAddr, err := address.NewSingle(address.Production, recipient.Public)
	require.NoError(t, err)

	firstTxID := TransactionID{0x01}
	firstSig := owner.Sign(witnessAccountData(block0Hash, firstTxID, 0))
	firstTx := AuthenticatedTransaction{
		Transaction: Transaction{
			Inputs:  []Input{{Kind: InputAccount, Account: AccountTarget{Single: ownerID}, Value: 400}},
			Outputs: []Output[address.Address]{{Address: recipientAddr, Value: 400}},
		},
		Witnesses: []Witness{{Kind: WitnessAccount, Signature: firstSig}},
	}
	next, _, err := l.ApplyTransaction(firstTxID, firstTx, l.Parameters())
	require.NoError(t, err)

	// Replay: a second spend signed against the now-stale counter=0 must
	// fail, since the account's counter already advanced to 1.
	secondTxID := TransactionID{0x02}
	staleSig := owner.Sign(witnessAccountData(block0Hash, secondTxID, 0))
	secondTx := AuthenticatedTransaction{
		Transaction: Transaction{
			Inputs:  []Input{{Kind: InputAccount, Account: AccountTarget{Single: ownerID}, Value: 100}},
			Outputs: []Output[address.Address]{{Address: recipientAddr, Value: 100}},
		},
		Witnesses: []Witness{{Kind: WitnessAccount, Signature: staleSig}},
	}
	_, _, err = next.ApplyTransaction(secondTxID, secondTx, next.Parameters())
	require.ErrorIs(t, err, ErrAccountInvalidSignature)

	acc, _ := next.Accounts.Get(ownerID)
	require.Equal(t, Value(600), acc.Balance, "rejected replay must leave the account balance untouched")
}
