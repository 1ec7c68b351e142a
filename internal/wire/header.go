package wire

import (
	"github.com/empower1/ledgercore/internal/cryptoprim"
	"github.com/empower1/ledgercore/internal/ledger"
)

// ProofKind selects which of the three proof shapes a header carries.
type ProofKind uint16

const (
	ProofGenesis ProofKind = iota
	ProofBFT
	ProofPraos
)

// Proof is a header's consensus proof. Exactly one set of fields is
// meaningful, selected by Kind: Genesis carries none, BFT carries a leader
// public key and an Ed25519 signature, Praos carries a node id plus
// opaque VRF/KES capability outputs (cryptoprim.VRFOutput/KESSignature,
// never computed or verified by this module).
type Proof struct {
	Kind ProofKind

	BFTLeaderPubKey []byte
	BFTSignature    []byte

	PraosNodeID       [32]byte
	PraosVRFOutput    cryptoprim.VRFOutput
	PraosKESSignature cryptoprim.KESSignature
}

// Header is a block header: the common framing fields plus a proof.
type Header struct {
	ParentHash   [32]byte
	BlockDate    ledger.BlockDate
	ChainLength  ledger.ChainLength
	ContentSize  uint32
	ContentHash  [32]byte
	BlockVersion uint16
	Proof        Proof
}

// encodeCommon writes every field except the proof. It is only the first
// part of what a Praos KES signature commits to: SignablePraosHeader
// appends the Praos proof fields as well (SPEC_FULL.md §9.1 resolves the
// source's ambiguity on this point in favor of signing the whole header,
// not just a truncated prefix).
func encodeCommon(w *writer, h Header) {
	w.raw(h.ParentHash[:])
	encodeBlockDate(w, h.BlockDate)
	w.u32(uint32(h.ChainLength))
	w.u32(h.ContentSize)
	w.raw(h.ContentHash[:])
	w.u16(h.BlockVersion)
}

// SignablePraosHeader returns the exact byte sequence a Praos block's KES
// signature must commit to: the common header fields, the proof kind, and
// the node id and VRF output that precede the KES signature field itself.
// Excluding the KES signature from its own preimage is the only field the
// commitment scope leaves out; everything else in the header is covered.
func SignablePraosHeader(h Header) []byte {
	w := &writer{}
	encodeCommon(w, h)
	w.u16(uint16(ProofPraos))
	w.raw(h.Proof.PraosNodeID[:])
	w.bytes16(h.Proof.PraosVRFOutput)
	return w.buf
}

// EncodeHeader serializes a full header, including its proof.
func EncodeHeader(h Header) ([]byte, error) {
	w := &writer{}
	encodeCommon(w, h)
	w.u16(uint16(h.Proof.Kind))
	switch h.Proof.Kind {
	case ProofGenesis:
		// no proof payload
	case ProofBFT:
		if err := w.bytes8(h.Proof.BFTLeaderPubKey); err != nil {
			return nil, err
		}
		if err := w.bytes8(h.Proof.BFTSignature); err != nil {
			return nil, err
		}
	case ProofPraos:
		w.raw(h.Proof.PraosNodeID[:])
		if err := w.bytes16(h.Proof.PraosVRFOutput); err != nil {
			return nil, err
		}
		if err := w.bytes16(h.Proof.PraosKESSignature); err != nil {
			return nil, err
		}
	default:
		return nil, wrapf("%w: proof kind %d", ErrUnknownTag, h.Proof.Kind)
	}
	return w.buf, nil
}

// DecodeHeader parses the format EncodeHeader writes.
func DecodeHeader(buf []byte) (Header, error) {
	r := newReader(buf)
	var h Header
	parent, err := r.fixed32()
	if err != nil {
		return h, err
	}
	h.ParentHash = parent
	date, err := decodeBlockDate(r)
	if err != nil {
		return h, err
	}
	h.BlockDate = date
	chainLen, err := r.u32()
	if err != nil {
		return h, err
	}
	h.ChainLength = ledger.ChainLength(chainLen)
	contentSize, err := r.u32()
	if err != nil {
		return h, err
	}
	h.ContentSize = contentSize
	contentHash, err := r.fixed32()
	if err != nil {
		return h, err
	}
	h.ContentHash = contentHash
	version, err := r.u16()
	if err != nil {
		return h, err
	}
	h.BlockVersion = version

	proofKind, err := r.u16()
	if err != nil {
		return h, err
	}
	h.Proof.Kind = ProofKind(proofKind)
	switch h.Proof.Kind {
	case ProofGenesis:
	case ProofBFT:
		pub, err := r.bytes8()
		if err != nil {
			return h, err
		}
		h.Proof.BFTLeaderPubKey = append([]byte(nil), pub...)
		sig, err := r.bytes8()
		if err != nil {
			return h, err
		}
		h.Proof.BFTSignature = append([]byte(nil), sig...)
	case ProofPraos:
		nodeID, err := r.fixed32()
		if err != nil {
			return h, err
		}
		h.Proof.PraosNodeID = nodeID
		vrf, err := r.bytes16()
		if err != nil {
			return h, err
		}
		h.Proof.PraosVRFOutput = append([]byte(nil), vrf...)
		kes, err := r.bytes16()
		if err != nil {
			return h, err
		}
		h.Proof.PraosKESSignature = append([]byte(nil), kes...)
	default:
		return h, wrapf("%w: proof kind %d", ErrUnknownTag, proofKind)
	}
	return h, nil
}
