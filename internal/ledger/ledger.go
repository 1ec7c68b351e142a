// Package ledger implements the deterministic ledger state machine: a pure
// ApplyBlock(state, params, headerCtx, fragments) -> (state', error)
// transition over an immutable snapshot. Every exported method returns a
// new Ledger value and leaves its receiver untouched — the core introduces
// no interior mutability observable across goroutines, so callers may
// evaluate many ApplyBlock computations against a shared snapshot
// concurrently.
package ledger

import (
	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/cryptoprim"
)

// Ledger is the ledger snapshot: the four accounting sub-ledgers, the
// active settings, governance and delegation state, shared immutable
// static parameters, and the current block-framing metadata (spec.md §3
// "LedgerState").
type Ledger struct {
	StaticParams *StaticParameters

	Settings   *Settings
	UTxOs      *UTxOLedger[address.Address]
	OldUTxOs   *UTxOLedger[OldAddress]
	Accounts   *AccountLedger
	Multisigs  *MultisigLedger
	Updates    *UpdateState
	Delegation *DelegationState

	Date        BlockDate
	ChainLength ChainLength
}

// empty constructs a ledger with the given settings and static parameters
// and every sub-ledger blank — the state genesis bootstrap populates
// fragment by fragment (original_source/ledger.rs's Ledger::empty).
func empty(settings *Settings, staticParams *StaticParameters) *Ledger {
	return &Ledger{
		StaticParams: staticParams,
		Settings:     settings,
		UTxOs:        NewUTxOLedger[address.Address](),
		OldUTxOs:     NewUTxOLedger[OldAddress](),
		Accounts:     NewAccountLedger(),
		Multisigs:    NewMultisigLedger(),
		Updates:      NewUpdateState(),
		Delegation:   NewDelegationState(),
		Date:         BlockDate{},
		ChainLength:  0,
	}
}

// shallowCopy returns a new Ledger value sharing every sub-ledger pointer
// with l. Since every sub-ledger is itself copy-on-write, callers that go
// on to replace individual fields never observe or mutate l.
func (l *Ledger) shallowCopy() *Ledger {
	next := *l
	return &next
}

// StaticParameters returns the ledger's immutable genesis parameters.
func (l *Ledger) StaticParameters() *StaticParameters { return l.StaticParams }

// Parameters derives the dynamic per-block parameter set (currently just
// the active fee schedule) from the current settings.
func (l *Ledger) Parameters() Parameters { return l.Settings.Parameters() }

// ConsensusVersion reports the active consensus proof scheme.
func (l *Ledger) ConsensusVersion() ConsensusVersion { return l.Settings.ConsensusVersion }

// StakeDistribution folds account balances and their delegation targets
// into a per-pool total stake, read-only and side-effect free. The pool
// registry is not consulted: a delegation to a pool id that is not
// registered is still counted under that id (SPEC_FULL.md §5, grounded on
// original_source/ledger.rs's
// get_stake_distribution; the raw distribution query is in scope even
// though leader election itself is not).
type StakeDistribution struct {
	TotalStake  Value
	PerPool     map[cryptoprim.PoolID]Value
	Unassigned  Value
}

func (l *Ledger) StakeDistribution() (StakeDistribution, error) {
	dist := StakeDistribution{PerPool: make(map[cryptoprim.PoolID]Value)}
	for id, acc := range l.Accounts.Iter() {
		_ = id
		total, err := dist.TotalStake.Add(acc.Balance)
		if err != nil {
			return StakeDistribution{}, err
		}
		dist.TotalStake = total
		if acc.Delegation != nil {
			cur := dist.PerPool[*acc.Delegation]
			updated, err := cur.Add(acc.Balance)
			if err != nil {
				return StakeDistribution{}, err
			}
			dist.PerPool[*acc.Delegation] = updated
		} else {
			unassigned, err := dist.Unassigned.Add(acc.Balance)
			if err != nil {
				return StakeDistribution{}, err
			}
			dist.Unassigned = unassigned
		}
	}
	return dist, nil
}

// validateUtxoTotalValue sums every live value across both UTxO sets and
// both account-shaped ledgers, rejecting ErrUtxoTotalValueTooBig on
// overflow. Called only at the end of genesis bootstrap (spec.md §4.13
// last bullet; original_source/ledger.rs's validate_utxo_total_value).
func (l *Ledger) validateUtxoTotalValue() error {
	var values []Value
	for _, e := range l.OldUTxOs.Iter() {
		values = append(values, e.Output.Value)
	}
	for _, e := range l.UTxOs.Iter() {
		values = append(values, e.Output.Value)
	}
	accountTotal, err := l.Accounts.GetTotalValue()
	if err != nil {
		return ErrUtxoTotalValueTooBig
	}
	multisigTotal, err := l.Multisigs.GetTotalValue()
	if err != nil {
		return ErrUtxoTotalValueTooBig
	}
	values = append(values, accountTotal, multisigTotal)

	if _, err := SumValues(values); err != nil {
		return ErrUtxoTotalValueTooBig
	}
	return nil
}
