package wire

import (
	"crypto/ed25519"

	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/cryptoprim"
	"github.com/empower1/ledgercore/internal/ledger"
)

const (
	inputKindUtxo    = 0
	inputKindAccount = 1
)

func encodeValue(w *writer, v ledger.Value) { w.u64(uint64(v)) }

func decodeValue(r *reader) (ledger.Value, error) {
	v, err := r.u64()
	return ledger.Value(v), err
}

func encodeTransactionID(w *writer, id ledger.TransactionID) { w.raw(id[:]) }

func decodeTransactionID(r *reader) (ledger.TransactionID, error) {
	b, err := r.fixed32()
	return ledger.TransactionID(b), err
}

func encodeOutput(w *writer, o ledger.Output[address.Address]) error {
	if err := encodeAddress(w, o.Address); err != nil {
		return err
	}
	encodeValue(w, o.Value)
	return nil
}

func decodeOutput(r *reader) (ledger.Output[address.Address], error) {
	a, err := decodeAddress(r)
	if err != nil {
		return ledger.Output[address.Address]{}, err
	}
	v, err := decodeValue(r)
	if err != nil {
		return ledger.Output[address.Address]{}, err
	}
	return ledger.Output[address.Address]{Address: a, Value: v}, nil
}

func encodeUtxoPointer(w *writer, p ledger.UtxoPointer) {
	encodeTransactionID(w, p.TransactionID)
	w.u8(p.OutputIndex)
	encodeValue(w, p.Value)
}

func decodeUtxoPointer(r *reader) (ledger.UtxoPointer, error) {
	txID, err := decodeTransactionID(r)
	if err != nil {
		return ledger.UtxoPointer{}, err
	}
	idx, err := r.u8()
	if err != nil {
		return ledger.UtxoPointer{}, err
	}
	v, err := decodeValue(r)
	if err != nil {
		return ledger.UtxoPointer{}, err
	}
	return ledger.UtxoPointer{TransactionID: txID, OutputIndex: idx, Value: v}, nil
}

func encodeAccountTarget(w *writer, t ledger.AccountTarget) {
	if t.Multi {
		w.u8(1)
		w.raw(t.Multisig[:])
	} else {
		w.u8(0)
		encodeAccountID(w, t.Single)
	}
}

func decodeAccountTarget(r *reader) (ledger.AccountTarget, error) {
	multiByte, err := r.u8()
	if err != nil {
		return ledger.AccountTarget{}, err
	}
	if multiByte == 1 {
		b, err := r.fixed32()
		if err != nil {
			return ledger.AccountTarget{}, err
		}
		return ledger.AccountTarget{Multi: true, Multisig: address.MultisigID(b)}, nil
	}
	id, err := decodeAccountID(r)
	if err != nil {
		return ledger.AccountTarget{}, err
	}
	return ledger.AccountTarget{Single: id}, nil
}

func encodeInput(w *writer, in ledger.Input) {
	switch in.Kind {
	case ledger.InputUtxo:
		w.u8(inputKindUtxo)
		encodeUtxoPointer(w, in.Utxo)
	case ledger.InputAccount:
		w.u8(inputKindAccount)
		encodeAccountTarget(w, in.Account)
		encodeValue(w, in.Value)
	}
}

func decodeInput(r *reader) (ledger.Input, error) {
	kindByte, err := r.u8()
	if err != nil {
		return ledger.Input{}, err
	}
	switch kindByte {
	case inputKindUtxo:
		ptr, err := decodeUtxoPointer(r)
		if err != nil {
			return ledger.Input{}, err
		}
		return ledger.Input{Kind: ledger.InputUtxo, Utxo: ptr}, nil
	case inputKindAccount:
		target, err := decodeAccountTarget(r)
		if err != nil {
			return ledger.Input{}, err
		}
		v, err := decodeValue(r)
		if err != nil {
			return ledger.Input{}, err
		}
		return ledger.Input{Kind: ledger.InputAccount, Account: target, Value: v}, nil
	default:
		return ledger.Input{}, wrapf("%w: input kind %d", ErrUnknownTag, kindByte)
	}
}

// Witness tags, fixed by spec.md §6.
const (
	witnessTagOldUtxo   = 1
	witnessTagUtxo      = 2
	witnessTagAccount   = 3
	witnessTagMultisig  = 4
)

func encodeWitness(w *writer, witness ledger.Witness) error {
	switch witness.Kind {
	case ledger.WitnessOldUtxo:
		w.u8(witnessTagOldUtxo)
		if err := w.bytes8(witness.OldUtxoPublicKey); err != nil {
			return err
		}
		return w.bytes8(witness.Signature)
	case ledger.WitnessUtxo:
		w.u8(witnessTagUtxo)
		return w.bytes8(witness.Signature)
	case ledger.WitnessAccount:
		w.u8(witnessTagAccount)
		return w.bytes8(witness.Signature)
	case ledger.WitnessMultisig:
		w.u8(witnessTagMultisig)
		if len(witness.MultisigSignatures) > 0xff {
			return ErrValueTooLong
		}
		w.u8(uint8(len(witness.MultisigSignatures)))
		for _, s := range witness.MultisigSignatures {
			if s.Index < 0 || s.Index > 0xff {
				return ErrValueTooLong
			}
			w.u8(uint8(s.Index))
			if err := w.bytes8(s.Signature); err != nil {
				return err
			}
		}
		return nil
	default:
		return wrapf("%w: witness kind %d", ErrUnknownTag, witness.Kind)
	}
}

func decodeWitness(r *reader) (ledger.Witness, error) {
	tag, err := r.u8()
	if err != nil {
		return ledger.Witness{}, err
	}
	switch tag {
	case witnessTagOldUtxo:
		pub, err := r.bytes8()
		if err != nil {
			return ledger.Witness{}, err
		}
		sig, err := r.bytes8()
		if err != nil {
			return ledger.Witness{}, err
		}
		return ledger.Witness{Kind: ledger.WitnessOldUtxo, OldUtxoPublicKey: ed25519.PublicKey(append([]byte(nil), pub...)), Signature: append([]byte(nil), sig...)}, nil
	case witnessTagUtxo:
		sig, err := r.bytes8()
		if err != nil {
			return ledger.Witness{}, err
		}
		return ledger.Witness{Kind: ledger.WitnessUtxo, Signature: append([]byte(nil), sig...)}, nil
	case witnessTagAccount:
		sig, err := r.bytes8()
		if err != nil {
			return ledger.Witness{}, err
		}
		return ledger.Witness{Kind: ledger.WitnessAccount, Signature: append([]byte(nil), sig...)}, nil
	case witnessTagMultisig:
		count, err := r.u8()
		if err != nil {
			return ledger.Witness{}, err
		}
		sigs := make([]ledger.MultisigPartialSignature, 0, count)
		for i := 0; i < int(count); i++ {
			idx, err := r.u8()
			if err != nil {
				return ledger.Witness{}, err
			}
			sig, err := r.bytes8()
			if err != nil {
				return ledger.Witness{}, err
			}
			sigs = append(sigs, ledger.MultisigPartialSignature{Index: int(idx), Signature: append([]byte(nil), sig...)})
		}
		return ledger.Witness{Kind: ledger.WitnessMultisig, MultisigSignatures: sigs}, nil
	default:
		return ledger.Witness{}, wrapf("%w: witness tag %d", ErrUnknownTag, tag)
	}
}

const (
	certKindStakeDelegation       = 0
	certKindStakePoolRegistration = 1
	certKindStakePoolRetirement   = 2
)

func encodeCertificate(w *writer, c ledger.Certificate) error {
	switch c.Kind {
	case ledger.CertStakeDelegation:
		w.u8(certKindStakeDelegation)
		w.raw(c.StakeDelegation.PoolID[:])
		encodeAccountID(w, c.StakeDelegation.AccountID)
	case ledger.CertStakePoolRegistration:
		w.u8(certKindStakePoolRegistration)
		info := c.StakePoolRegistration
		w.u16(info.Serial)
		if len(info.Owners) > 0xff {
			return ErrValueTooLong
		}
		w.u8(uint8(len(info.Owners)))
		for _, o := range info.Owners {
			if err := w.bytes8(o); err != nil {
				return err
			}
		}
		if err := w.bytes8(info.KESPublic); err != nil {
			return err
		}
		if err := w.bytes8(info.VRFPublic); err != nil {
			return err
		}
	case ledger.CertStakePoolRetirement:
		w.u8(certKindStakePoolRetirement)
		w.raw(c.StakePoolRetirement[:])
	default:
		return wrapf("%w: certificate kind %d", ErrUnknownTag, c.Kind)
	}
	if err := w.bytes8(c.SignerPublicKey); err != nil {
		return err
	}
	return w.bytes8(c.Signature)
}

func decodeCertificate(r *reader) (ledger.Certificate, error) {
	kindByte, err := r.u8()
	if err != nil {
		return ledger.Certificate{}, err
	}
	var c ledger.Certificate
	switch kindByte {
	case certKindStakeDelegation:
		c.Kind = ledger.CertStakeDelegation
		pool, err := r.fixed32()
		if err != nil {
			return ledger.Certificate{}, err
		}
		c.StakeDelegation.PoolID = cryptoprim.PoolID(pool)
		acct, err := decodeAccountID(r)
		if err != nil {
			return ledger.Certificate{}, err
		}
		c.StakeDelegation.AccountID = acct
	case certKindStakePoolRegistration:
		c.Kind = ledger.CertStakePoolRegistration
		serial, err := r.u16()
		if err != nil {
			return ledger.Certificate{}, err
		}
		ownerCount, err := r.u8()
		if err != nil {
			return ledger.Certificate{}, err
		}
		owners := make([]ed25519.PublicKey, 0, ownerCount)
		for i := 0; i < int(ownerCount); i++ {
			o, err := r.bytes8()
			if err != nil {
				return ledger.Certificate{}, err
			}
			owners = append(owners, ed25519.PublicKey(append([]byte(nil), o...)))
		}
		kes, err := r.bytes8()
		if err != nil {
			return ledger.Certificate{}, err
		}
		vrf, err := r.bytes8()
		if err != nil {
			return ledger.Certificate{}, err
		}
		c.StakePoolRegistration = ledger.StakePoolInfo{
			Serial: serial, Owners: owners,
			KESPublic: append([]byte(nil), kes...),
			VRFPublic: append([]byte(nil), vrf...),
		}
	case certKindStakePoolRetirement:
		c.Kind = ledger.CertStakePoolRetirement
		pool, err := r.fixed32()
		if err != nil {
			return ledger.Certificate{}, err
		}
		c.StakePoolRetirement = cryptoprim.PoolID(pool)
	default:
		return ledger.Certificate{}, wrapf("%w: certificate kind %d", ErrUnknownTag, kindByte)
	}
	signer, err := r.bytes8()
	if err != nil {
		return ledger.Certificate{}, err
	}
	c.SignerPublicKey = ed25519.PublicKey(append([]byte(nil), signer...))
	sig, err := r.bytes8()
	if err != nil {
		return ledger.Certificate{}, err
	}
	c.Signature = append([]byte(nil), sig...)
	return c, nil
}

func encodeTransaction(w *writer, tx ledger.Transaction) error {
	if len(tx.Inputs) > 0xffff || len(tx.Outputs) > 0xffff {
		return ErrValueTooLong
	}
	w.u16(uint16(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		encodeInput(w, in)
	}
	w.u16(uint16(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		if err := encodeOutput(w, out); err != nil {
			return err
		}
	}
	if tx.Certificate != nil {
		w.u8(1)
		if err := encodeCertificate(w, *tx.Certificate); err != nil {
			return err
		}
	} else {
		w.u8(0)
	}
	return nil
}

func decodeTransaction(r *reader) (ledger.Transaction, error) {
	var tx ledger.Transaction
	inCount, err := r.u16()
	if err != nil {
		return tx, err
	}
	tx.Inputs = make([]ledger.Input, 0, inCount)
	for i := 0; i < int(inCount); i++ {
		in, err := decodeInput(r)
		if err != nil {
			return tx, err
		}
		tx.Inputs = append(tx.Inputs, in)
	}
	outCount, err := r.u16()
	if err != nil {
		return tx, err
	}
	tx.Outputs = make([]ledger.Output[address.Address], 0, outCount)
	for i := 0; i < int(outCount); i++ {
		out, err := decodeOutput(r)
		if err != nil {
			return tx, err
		}
		tx.Outputs = append(tx.Outputs, out)
	}
	hasCert, err := r.u8()
	if err != nil {
		return tx, err
	}
	if hasCert == 1 {
		cert, err := decodeCertificate(r)
		if err != nil {
			return tx, err
		}
		tx.Certificate = &cert
	}
	return tx, nil
}

// EncodeAuthenticatedTransaction serializes a transaction body followed by
// its positionally matched witnesses.
func EncodeAuthenticatedTransaction(tx ledger.AuthenticatedTransaction) ([]byte, error) {
	w := &writer{}
	if err := encodeTransaction(w, tx.Transaction); err != nil {
		return nil, err
	}
	if len(tx.Witnesses) > 0xffff {
		return nil, ErrValueTooLong
	}
	w.u16(uint16(len(tx.Witnesses)))
	for _, wit := range tx.Witnesses {
		if err := encodeWitness(w, wit); err != nil {
			return nil, err
		}
	}
	return w.buf, nil
}

// DecodeAuthenticatedTransaction parses the format EncodeAuthenticatedTransaction writes.
func DecodeAuthenticatedTransaction(buf []byte) (ledger.AuthenticatedTransaction, error) {
	r := newReader(buf)
	tx, err := decodeTransaction(r)
	if err != nil {
		return ledger.AuthenticatedTransaction{}, err
	}
	witCount, err := r.u16()
	if err != nil {
		return ledger.AuthenticatedTransaction{}, err
	}
	witnesses := make([]ledger.Witness, 0, witCount)
	for i := 0; i < int(witCount); i++ {
		wit, err := decodeWitness(r)
		if err != nil {
			return ledger.AuthenticatedTransaction{}, err
		}
		witnesses = append(witnesses, wit)
	}
	return ledger.AuthenticatedTransaction{Transaction: tx, Witnesses: witnesses}, nil
}
