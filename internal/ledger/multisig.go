package ledger

import (
	"crypto/ed25519"

	"github.com/empower1/ledgercore/internal/address"
)

// MultisigDeclaration fixes the set of owner keys and the signature
// threshold a multisig account requires to authorize a spend (spec.md
// §4.4).
type MultisigDeclaration struct {
	Threshold int
	Owners    []ed25519.PublicKey
}

func (d MultisigDeclaration) valid() bool {
	return d.Threshold > 0 && d.Threshold <= len(d.Owners)
}

// MultisigAccount holds one multisig account's balance, spending counter,
// and declaration.
type MultisigAccount struct {
	Balance         Value
	SpendingCounter SpendingCounter
	Declaration     MultisigDeclaration
}

// MultisigLedger is a snapshot of multisig accounts keyed by multisig id.
type MultisigLedger struct {
	entries map[address.MultisigID]MultisigAccount
}

func NewMultisigLedger() *MultisigLedger {
	return &MultisigLedger{entries: make(map[address.MultisigID]MultisigAccount)}
}

func (l *MultisigLedger) clone() *MultisigLedger {
	next := make(map[address.MultisigID]MultisigAccount, len(l.entries))
	for k, v := range l.entries {
		next[k] = v
	}
	return &MultisigLedger{entries: next}
}

func (l *MultisigLedger) Exists(id address.MultisigID) bool {
	_, ok := l.entries[id]
	return ok
}

func (l *MultisigLedger) Get(id address.MultisigID) (MultisigAccount, bool) {
	a, ok := l.entries[id]
	return a, ok
}

// AddAccount registers a brand-new multisig account with its declaration.
// Fails with ErrMultisigAlreadyExists if id is present, or
// ErrMultisigDeclarationInvalid if the threshold is zero or exceeds the
// number of owners.
func (l *MultisigLedger) AddAccount(id address.MultisigID, initial Value, decl MultisigDeclaration) (*MultisigLedger, error) {
	if !decl.valid() {
		return nil, ErrMultisigDeclarationInvalid
	}
	if l.Exists(id) {
		return nil, ErrMultisigAlreadyExists
	}
	next := l.clone()
	next.entries[id] = MultisigAccount{Balance: initial, Declaration: decl}
	return next, nil
}

// AddValue credits an existing multisig account. The account must already
// exist — spec.md §4.10 explicitly excludes multisig-account creation as an
// output side-effect; it requires a dedicated declaration fragment.
func (l *MultisigLedger) AddValue(id address.MultisigID, v Value) (*MultisigLedger, error) {
	acc, ok := l.entries[id]
	if !ok {
		return nil, ErrMultisigNonExistent
	}
	newBalance, err := acc.Balance.Add(v)
	if err != nil {
		return nil, err
	}
	next := l.clone()
	acc.Balance = newBalance
	next.entries[id] = acc
	return next, nil
}

// RemoveValue debits a multisig account by v and returns the declaration
// (so the caller can run threshold verification) plus the pre-increment
// spending counter, mirroring AccountLedger.RemoveValue.
func (l *MultisigLedger) RemoveValue(id address.MultisigID, v Value) (*MultisigLedger, MultisigDeclaration, SpendingCounter, error) {
	acc, ok := l.entries[id]
	if !ok {
		return nil, MultisigDeclaration{}, 0, ErrMultisigNonExistent
	}
	if acc.Balance < v {
		return nil, MultisigDeclaration{}, 0, ErrMultisigInsufficientFunds
	}
	counterBefore := acc.SpendingCounter

	next := l.clone()
	acc.Balance -= v
	acc.SpendingCounter = counterBefore + 1
	next.entries[id] = acc
	return next, acc.Declaration, counterBefore, nil
}

func (l *MultisigLedger) GetTotalValue() (Value, error) {
	values := make([]Value, 0, len(l.entries))
	for _, acc := range l.entries {
		values = append(values, acc.Balance)
	}
	return SumValues(values)
}
