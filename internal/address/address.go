// Package address implements the ledger's address value model: a
// discrimination tag (production/testing) combined with one of four kinds
// (Single, Group, Account, Multisig), plus the account and multisig
// identifiers used as map keys throughout internal/ledger.
package address

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/empower1/ledgercore/internal/cryptoprim"
)

// Discrimination partitions addresses between a production chain and a
// testing chain. Every address materialized by the ledger must share the
// ledger-wide discrimination (spec invariant 3).
type Discrimination uint8

const (
	Production Discrimination = iota
	Test
)

func (d Discrimination) String() string {
	if d == Test {
		return "test"
	}
	return "production"
}

// Kind enumerates the four address kinds the ledger understands.
type Kind uint8

const (
	KindSingle Kind = iota
	KindGroup
	KindAccount
	KindMultisig
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindGroup:
		return "group"
	case KindAccount:
		return "account"
	case KindMultisig:
		return "multisig"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidDiscrimination = errors.New("address: invalid discrimination")
	ErrInvalidKeyLength      = errors.New("address: invalid key length")
)

// AccountID identifies an account or a stake pool's owner key: the raw
// Ed25519 public key, fixed-size so it is usable as a map key.
type AccountID [ed25519.PublicKeySize]byte

func NewAccountID(pub ed25519.PublicKey) (AccountID, error) {
	var id AccountID
	if len(pub) != ed25519.PublicKeySize {
		return id, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(pub), ed25519.PublicKeySize)
	}
	copy(id[:], pub)
	return id, nil
}

func (a AccountID) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(a[:])
}

func (a AccountID) String() string {
	s, err := cryptoprim.EncodeIdentifier(a.PublicKey())
	if err != nil {
		return fmt.Sprintf("account:%x", a[:])
	}
	return s
}

// MultisigID identifies a multisig declaration. It is opaque from the
// ledger's perspective (derived by the caller from the declaration
// contents); 32 bytes matches every other identifier in this system.
type MultisigID [32]byte

func (m MultisigID) String() string {
	return fmt.Sprintf("msig:%x", m[:])
}

// Address is the ledger's address value. Depending on Kind, only a subset
// of the key fields is populated:
//   - Single:   SpendingKey
//   - Group:    SpendingKey, AccountKey
//   - Account:  AccountKey
//   - Multisig: Multisig
type Address struct {
	Discrimination Discrimination
	Kind           Kind
	SpendingKey    ed25519.PublicKey
	AccountKey     ed25519.PublicKey
	Multisig       MultisigID
}

func NewSingle(d Discrimination, spendingKey ed25519.PublicKey) (Address, error) {
	if len(spendingKey) != ed25519.PublicKeySize {
		return Address{}, ErrInvalidKeyLength
	}
	return Address{Discrimination: d, Kind: KindSingle, SpendingKey: spendingKey}, nil
}

func NewGroup(d Discrimination, spendingKey, accountKey ed25519.PublicKey) (Address, error) {
	if len(spendingKey) != ed25519.PublicKeySize || len(accountKey) != ed25519.PublicKeySize {
		return Address{}, ErrInvalidKeyLength
	}
	return Address{Discrimination: d, Kind: KindGroup, SpendingKey: spendingKey, AccountKey: accountKey}, nil
}

func NewAccount(d Discrimination, accountKey ed25519.PublicKey) (Address, error) {
	if len(accountKey) != ed25519.PublicKeySize {
		return Address{}, ErrInvalidKeyLength
	}
	return Address{Discrimination: d, Kind: KindAccount, AccountKey: accountKey}, nil
}

func NewMultisig(d Discrimination, id MultisigID) Address {
	return Address{Discrimination: d, Kind: KindMultisig, Multisig: id}
}

// AccountID returns the account identifier for Account and Group kinds
// (Group addresses carry an implicit account that output materialization
// ensures exists). It panics for Single and Multisig kinds, which have no
// account identity; callers must switch on Kind first.
func (a Address) AccountID() AccountID {
	switch a.Kind {
	case KindAccount, KindGroup:
		var id AccountID
		copy(id[:], a.AccountKey)
		return id
	default:
		panic("address: AccountID called on a kind with no account key")
	}
}

// Equal reports deep equality, comparing key bytes rather than slice
// identity.
func (a Address) Equal(o Address) bool {
	if a.Discrimination != o.Discrimination || a.Kind != o.Kind {
		return false
	}
	switch a.Kind {
	case KindSingle:
		return bytes.Equal(a.SpendingKey, o.SpendingKey)
	case KindGroup:
		return bytes.Equal(a.SpendingKey, o.SpendingKey) && bytes.Equal(a.AccountKey, o.AccountKey)
	case KindAccount:
		return bytes.Equal(a.AccountKey, o.AccountKey)
	case KindMultisig:
		return a.Multisig == o.Multisig
	}
	return false
}
