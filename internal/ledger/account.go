package ledger

import (
	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/cryptoprim"
)

// SpendingCounter is a per-account replay nonce, bound into every Account
// witness's signed data and incremented by exactly one on each successful
// debit (spec.md invariant 6).
type SpendingCounter uint32

// Account holds one named account's balance, spending counter, and
// delegation target.
type Account struct {
	Balance         Value
	SpendingCounter SpendingCounter
	Delegation      *cryptoprim.PoolID
}

// AccountLedger is a snapshot of named accounts keyed by account id. Like
// UTxOLedger, every mutating method returns an independent copy.
type AccountLedger struct {
	entries map[address.AccountID]Account
}

func NewAccountLedger() *AccountLedger {
	return &AccountLedger{entries: make(map[address.AccountID]Account)}
}

func (l *AccountLedger) clone() *AccountLedger {
	next := make(map[address.AccountID]Account, len(l.entries))
	for k, v := range l.entries {
		next[k] = v
	}
	return &AccountLedger{entries: next}
}

func (l *AccountLedger) Exists(id address.AccountID) bool {
	_, ok := l.entries[id]
	return ok
}

func (l *AccountLedger) Get(id address.AccountID) (Account, bool) {
	a, ok := l.entries[id]
	return a, ok
}

// AddAccount registers a brand-new account. Fails with ErrAccountAlreadyExists
// if id is already present.
func (l *AccountLedger) AddAccount(id address.AccountID, initial Value, delegation *cryptoprim.PoolID) (*AccountLedger, error) {
	if l.Exists(id) {
		return nil, ErrAccountAlreadyExists
	}
	next := l.clone()
	next.entries[id] = Account{Balance: initial, Delegation: delegation}
	return next, nil
}

// AddValue credits an existing account. Fails with ErrAccountNonExistent if
// absent — callers materializing an Account-kind output are expected to
// fall back to AddAccount on that error (spec.md §4.10).
func (l *AccountLedger) AddValue(id address.AccountID, v Value) (*AccountLedger, error) {
	acc, ok := l.entries[id]
	if !ok {
		return nil, ErrAccountNonExistent
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

// RemoveValue debits an account by v, atomically incrementing its spending
// counter, and returns the counter value as it stood BEFORE the increment —
// callers must bind that pre-increment value into the witness signature
// data (spec.md §4.3, §4.8).
func (l *AccountLedger) RemoveValue(id address.AccountID, v Value) (*AccountLedger, SpendingCounter, error) {
	acc, ok := l.entries[id]
	if !ok {
		return nil, 0, ErrAccountNonExistent
	}
	if acc.Balance < v {
		return nil, 0, ErrAccountInsufficientFunds
	}
	counterBefore := acc.SpendingCounter

	next := l.clone()
	acc.Balance -= v
	acc.SpendingCounter = counterBefore + 1
	next.entries[id] = acc
	return next, counterBefore, nil
}

// SetDelegation updates id's delegation target. Fails with
// ErrAccountNonExistent if absent.
func (l *AccountLedger) SetDelegation(id address.AccountID, pool *cryptoprim.PoolID) (*AccountLedger, error) {
	acc, ok := l.entries[id]
	if !ok {
		return nil, ErrAccountNonExistent
	}
	next := l.clone()
	acc.Delegation = pool
	next.entries[id] = acc
	return next, nil
}

// GetTotalValue checked-sums every account's balance.
func (l *AccountLedger) GetTotalValue() (Value, error) {
	values := make([]Value, 0, len(l.entries))
	for _, acc := range l.entries {
		values = append(values, acc.Balance)
	}
	return SumValues(values)
}

// Iter yields every (id, account) pair, used by stake distribution queries.
func (l *AccountLedger) Iter() map[address.AccountID]Account {
	out := make(map[address.AccountID]Account, len(l.entries))
	for k, v := range l.entries {
		out[k] = v
	}
	return out
}
