package wire

import (
	"crypto/ed25519"

	"github.com/empower1/ledgercore/internal/address"
)

// Address kind tags. Not otherwise fixed by spec.md, so this module assigns
// them in Kind's own declaration order.
const (
	addrKindSingle   = 0
	addrKindGroup    = 1
	addrKindAccount  = 2
	addrKindMultisig = 3
)

func encodeAddress(w *writer, a address.Address) error {
	w.u8(byte(a.Discrimination))
	switch a.Kind {
	case address.KindSingle:
		w.u8(addrKindSingle)
		w.raw(a.SpendingKey)
	case address.KindGroup:
		w.u8(addrKindGroup)
		w.raw(a.SpendingKey)
		w.raw(a.AccountKey)
	case address.KindAccount:
		w.u8(addrKindAccount)
		w.raw(a.AccountKey)
	case address.KindMultisig:
		w.u8(addrKindMultisig)
		w.raw(a.Multisig[:])
	default:
		return wrapf("%w: address kind %d", ErrUnknownTag, a.Kind)
	}
	return nil
}

func decodeAddress(r *reader) (address.Address, error) {
	discByte, err := r.u8()
	if err != nil {
		return address.Address{}, err
	}
	kindByte, err := r.u8()
	if err != nil {
		return address.Address{}, err
	}
	disc := address.Discrimination(discByte)

	switch kindByte {
	case addrKindSingle:
		key, err := r.raw(ed25519.PublicKeySize)
		if err != nil {
			return address.Address{}, err
		}
		return address.NewSingle(disc, append(ed25519.PublicKey(nil), key...))
	case addrKindGroup:
		spend, err := r.raw(ed25519.PublicKeySize)
		if err != nil {
			return address.Address{}, err
		}
		acct, err := r.raw(ed25519.PublicKeySize)
		if err != nil {
			return address.Address{}, err
		}
		return address.NewGroup(disc, append(ed25519.PublicKey(nil), spend...), append(ed25519.PublicKey(nil), acct...))
	case addrKindAccount:
		acct, err := r.raw(ed25519.PublicKeySize)
		if err != nil {
			return address.Address{}, err
		}
		return address.NewAccount(disc, append(ed25519.PublicKey(nil), acct...))
	case addrKindMultisig:
		b, err := r.fixed32()
		if err != nil {
			return address.Address{}, err
		}
		return address.NewMultisig(disc, address.MultisigID(b)), nil
	default:
		return address.Address{}, wrapf("%w: address kind %d", ErrUnknownTag, kindByte)
	}
}

func encodeAccountID(w *writer, id address.AccountID) { w.raw(id[:]) }

func decodeAccountID(r *reader) (address.AccountID, error) {
	b, err := r.fixed32()
	return address.AccountID(b), err
}
