package ledger

import (
	"crypto/ed25519"

	"github.com/empower1/ledgercore/internal/cryptoprim"
)

// StakePoolInfo is a registered stake pool's identity: the serial number
// that disambiguates re-registrations by the same owners, the ordered
// owner keys, and the pool's KES/VRF public keys (spec.md §4.7).
type StakePoolInfo struct {
	Serial    uint16
	Owners    []ed25519.PublicKey
	KESPublic []byte
	VRFPublic []byte
}

// PoolID derives this pool's identity: Blake2b-256 of
// serial || owners || kes_public || vrf_public.
func (p StakePoolInfo) PoolID() (cryptoprim.PoolID, error) {
	return cryptoprim.DerivePoolID(p.Serial, p.Owners, p.KESPublic, p.VRFPublic)
}

// DelegationState is the stake-pool registry: pool id -> StakePoolInfo.
type DelegationState struct {
	pools map[cryptoprim.PoolID]StakePoolInfo
}

func NewDelegationState() *DelegationState {
	return &DelegationState{pools: make(map[cryptoprim.PoolID]StakePoolInfo)}
}

func (d *DelegationState) clone() *DelegationState {
	next := make(map[cryptoprim.PoolID]StakePoolInfo, len(d.pools))
	for k, v := range d.pools {
		next[k] = v
	}
	return &DelegationState{pools: next}
}

func (d *DelegationState) StakePoolExists(id cryptoprim.PoolID) bool {
	_, ok := d.pools[id]
	return ok
}

func (d *DelegationState) Get(id cryptoprim.PoolID) (StakePoolInfo, bool) {
	info, ok := d.pools[id]
	return info, ok
}

// RegisterStakePool computes info's pool id and registers it. Fails with
// ErrStakePoolAlreadyRegistered if that id is already present.
func (d *DelegationState) RegisterStakePool(info StakePoolInfo) (*DelegationState, cryptoprim.PoolID, error) {
	id, err := info.PoolID()
	if err != nil {
		return nil, cryptoprim.PoolID{}, err
	}
	if d.StakePoolExists(id) {
		return nil, cryptoprim.PoolID{}, ErrStakePoolAlreadyRegistered
	}
	next := d.clone()
	next.pools[id] = info
	return next, id, nil
}

// DeregisterStakePool removes a pool registration. Fails with
// ErrStakePoolDoesNotExist if id is absent.
func (d *DelegationState) DeregisterStakePool(id cryptoprim.PoolID) (*DelegationState, error) {
	if !d.StakePoolExists(id) {
		return nil, ErrStakePoolDoesNotExist
	}
	next := d.clone()
	delete(next.pools, id)
	return next, nil
}

// Iter returns a copy of every registered pool, keyed by pool id.
func (d *DelegationState) Iter() map[cryptoprim.PoolID]StakePoolInfo {
	out := make(map[cryptoprim.PoolID]StakePoolInfo, len(d.pools))
	for k, v := range d.pools {
		out[k] = v
	}
	return out
}
