package wire

import (
	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/ledger"
	"golang.org/x/crypto/blake2b"
)

func encodeBlockDate(w *writer, d ledger.BlockDate) {
	w.u32(d.Epoch)
	w.u32(d.Slot)
}

func decodeBlockDate(r *reader) (ledger.BlockDate, error) {
	epoch, err := r.u32()
	if err != nil {
		return ledger.BlockDate{}, err
	}
	slot, err := r.u32()
	if err != nil {
		return ledger.BlockDate{}, err
	}
	return ledger.BlockDate{Epoch: epoch, Slot: slot}, nil
}

func encodeOldUtxoDeclaration(w *writer, d ledger.OldUtxoDeclaration) error {
	encodeTransactionID(w, d.DeclarationID)
	if len(d.Addresses) != len(d.Values) || len(d.Addresses) > 0xffff {
		return ErrValueTooLong
	}
	w.u16(uint16(len(d.Addresses)))
	for i, a := range d.Addresses {
		w.raw(a[:])
		encodeValue(w, d.Values[i])
	}
	return nil
}

func decodeOldUtxoDeclaration(r *reader) (ledger.OldUtxoDeclaration, error) {
	var d ledger.OldUtxoDeclaration
	txID, err := decodeTransactionID(r)
	if err != nil {
		return d, err
	}
	d.DeclarationID = txID
	count, err := r.u16()
	if err != nil {
		return d, err
	}
	d.Addresses = make([]ledger.OldAddress, 0, count)
	d.Values = make([]ledger.Value, 0, count)
	for i := 0; i < int(count); i++ {
		b, err := r.raw(len(ledger.OldAddress{}))
		if err != nil {
			return d, err
		}
		var a ledger.OldAddress
		copy(a[:], b)
		v, err := decodeValue(r)
		if err != nil {
			return d, err
		}
		d.Addresses = append(d.Addresses, a)
		d.Values = append(d.Values, v)
	}
	return d, nil
}

func encodeUpdateProposalFragment(w *writer, p ledger.UpdateProposalFragment) error {
	w.raw(p.ID[:])
	cfgBytes, err := EncodeConfigParams(p.Changes)
	if err != nil {
		return err
	}
	if err := w.bytes16(cfgBytes); err != nil {
		return err
	}
	encodeAccountID(w, p.Proposer)
	encodeBlockDate(w, p.SubmittedDate)
	return nil
}

func decodeUpdateProposalFragment(r *reader) (ledger.UpdateProposalFragment, error) {
	var p ledger.UpdateProposalFragment
	id, err := r.fixed32()
	if err != nil {
		return p, err
	}
	p.ID = ledger.UpdateProposalID(id)
	cfgBytes, err := r.bytes16()
	if err != nil {
		return p, err
	}
	changes, err := DecodeConfigParams(cfgBytes)
	if err != nil {
		return p, err
	}
	p.Changes = changes
	proposer, err := decodeAccountID(r)
	if err != nil {
		return p, err
	}
	p.Proposer = proposer
	date, err := decodeBlockDate(r)
	if err != nil {
		return p, err
	}
	p.SubmittedDate = date
	return p, nil
}

func encodeUpdateVoteFragment(w *writer, v ledger.UpdateVoteFragment) {
	w.raw(v.ProposalID[:])
	encodeAccountID(w, v.Voter)
}

func decodeUpdateVoteFragment(r *reader) (ledger.UpdateVoteFragment, error) {
	var v ledger.UpdateVoteFragment
	id, err := r.fixed32()
	if err != nil {
		return v, err
	}
	v.ProposalID = ledger.UpdateProposalID(id)
	voter, err := decodeAccountID(r)
	if err != nil {
		return v, err
	}
	v.Voter = voter
	return v, nil
}

// encodeFragmentPayload writes a fragment's kind-specific body, without the
// outer size/tag frame.
func encodeFragmentPayload(frag ledger.Fragment) ([]byte, error) {
	w := &writer{}
	switch frag.Kind {
	case ledger.FragInitial:
		cfgBytes, err := EncodeConfigParams(frag.InitialParams)
		if err != nil {
			return nil, err
		}
		w.raw(cfgBytes)
	case ledger.FragOldUtxoDeclaration:
		if err := encodeOldUtxoDeclaration(w, frag.OldUtxoDecl); err != nil {
			return nil, err
		}
	case ledger.FragTransaction, ledger.FragCertificate:
		txBytes, err := EncodeAuthenticatedTransaction(frag.Transaction)
		if err != nil {
			return nil, err
		}
		w.raw(txBytes)
	case ledger.FragUpdateProposal:
		if err := encodeUpdateProposalFragment(w, frag.UpdateProposal); err != nil {
			return nil, err
		}
	case ledger.FragUpdateVote:
		encodeUpdateVoteFragment(w, frag.UpdateVote)
	default:
		return nil, wrapf("%w: fragment kind %d", ErrUnknownTag, frag.Kind)
	}
	return w.buf, nil
}

func decodeFragmentPayload(kind ledger.FragmentKind, payload []byte) (ledger.Fragment, error) {
	frag := ledger.Fragment{Kind: kind}
	r := newReader(payload)
	switch kind {
	case ledger.FragInitial:
		params, err := DecodeConfigParams(payload)
		if err != nil {
			return frag, err
		}
		frag.InitialParams = params
	case ledger.FragOldUtxoDeclaration:
		decl, err := decodeOldUtxoDeclaration(r)
		if err != nil {
			return frag, err
		}
		frag.OldUtxoDecl = decl
	case ledger.FragTransaction, ledger.FragCertificate:
		tx, err := DecodeAuthenticatedTransaction(payload)
		if err != nil {
			return frag, err
		}
		frag.Transaction = tx
	case ledger.FragUpdateProposal:
		p, err := decodeUpdateProposalFragment(r)
		if err != nil {
			return frag, err
		}
		frag.UpdateProposal = p
	case ledger.FragUpdateVote:
		v, err := decodeUpdateVoteFragment(r)
		if err != nil {
			return frag, err
		}
		frag.UpdateVote = v
	default:
		return frag, wrapf("%w: fragment kind %d", ErrUnknownTag, kind)
	}
	return frag, nil
}

// fragmentID derives a fragment's content identifier as the Blake2b-256
// digest of its encoded payload. Reserving Blake3 for the consensus nonce
// chain (ledger.Settings.MixNonce) keeps the two hash domains visibly
// distinct, matching how stake-pool identifiers also use Blake2b
// (cryptoprim.DerivePoolID).
func fragmentID(payload []byte) ledger.TransactionID {
	sum := blake2b.Sum256(payload)
	return ledger.TransactionID(sum)
}

// EncodeFragment serializes one fragment as `u16 size || u8 tag || payload`
// (spec.md §6), where size counts the tag byte plus payload.
func EncodeFragment(frag ledger.Fragment) ([]byte, error) {
	payload, err := encodeFragmentPayload(frag)
	if err != nil {
		return nil, err
	}
	body := append([]byte{byte(frag.Kind)}, payload...)
	if len(body) > 0xffff {
		return nil, ErrValueTooLong
	}
	w := &writer{}
	w.u16(uint16(len(body)))
	w.raw(body)
	return w.buf, nil
}

// DecodeFragment parses the format EncodeFragment writes, returning the
// fragment and the number of bytes consumed from buf (so callers can parse
// a concatenated stream of fragments).
func DecodeFragment(buf []byte) (ledger.Fragment, int, error) {
	r := newReader(buf)
	size, err := r.u16()
	if err != nil {
		return ledger.Fragment{}, 0, err
	}
	body, err := r.raw(int(size))
	if err != nil {
		return ledger.Fragment{}, 0, err
	}
	if len(body) < 1 {
		return ledger.Fragment{}, 0, ErrTruncated
	}
	kind := ledger.FragmentKind(body[0])
	payload := body[1:]
	frag, err := decodeFragmentPayload(kind, payload)
	if err != nil {
		return ledger.Fragment{}, 0, err
	}
	frag.ID = fragmentID(payload)
	return frag, 2 + len(body), nil
}
