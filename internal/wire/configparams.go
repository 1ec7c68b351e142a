package wire

import (
	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/ledger"
)

// encodeConfigParamValue returns the value bytes for a single ConfigParam.
// The shape is fixed per tag: scalars use their natural width,
// AddBftLeader/RemoveBftLeader carry a 32-byte account identifier, and
// LinearFee packs its four Value fields as 8-byte big-endian integers.
func encodeConfigParamValue(p ledger.ConfigParam) []byte {
	inner := &writer{}
	switch p.Tag {
	case ledger.TagBlock0Date:
		inner.u64(p.Uint64)
	case ledger.TagDiscrimination:
		inner.u8(p.Uint8)
	case ledger.TagSlotDuration, ledger.TagSlotsPerEpoch, ledger.TagKESUpdateSpeed,
		ledger.TagEpochStabilityDepth, ledger.TagPraosActiveSlotsCoeff,
		ledger.TagBftSlotsRatio, ledger.TagProposalExpiration:
		inner.u32(p.Uint32)
	case ledger.TagConsensusVersion:
		inner.u8(p.Uint8)
	case ledger.TagAddBftLeader, ledger.TagRemoveBftLeader:
		inner.raw(p.Leader[:])
	case ledger.TagLinearFee:
		inner.u64(uint64(p.Fee.Constant))
		inner.u64(uint64(p.Fee.PerInput))
		inner.u64(uint64(p.Fee.PerOutput))
		inner.u64(uint64(p.Fee.PerCertificate))
	}
	return inner.buf
}

func decodeConfigParamValue(tag ledger.ConfigParamTag, value []byte) (ledger.ConfigParam, error) {
	p := ledger.ConfigParam{Tag: tag}
	r := newReader(value)
	var err error
	switch tag {
	case ledger.TagBlock0Date:
		p.Uint64, err = r.u64()
	case ledger.TagDiscrimination, ledger.TagConsensusVersion:
		p.Uint8, err = r.u8()
	case ledger.TagSlotDuration, ledger.TagSlotsPerEpoch, ledger.TagKESUpdateSpeed,
		ledger.TagEpochStabilityDepth, ledger.TagPraosActiveSlotsCoeff,
		ledger.TagBftSlotsRatio, ledger.TagProposalExpiration:
		p.Uint32, err = r.u32()
	case ledger.TagAddBftLeader, ledger.TagRemoveBftLeader:
		var b [32]byte
		b, err = r.fixed32()
		p.Leader = address.AccountID(b)
	case ledger.TagLinearFee:
		var c, pi, po, pc uint64
		if c, err = r.u64(); err != nil {
			break
		}
		if pi, err = r.u64(); err != nil {
			break
		}
		if po, err = r.u64(); err != nil {
			break
		}
		pc, err = r.u64()
		p.Fee = ledger.LinearFee{Constant: ledger.Value(c), PerInput: ledger.Value(pi), PerOutput: ledger.Value(po), PerCertificate: ledger.Value(pc)}
	default:
		return p, wrapf("%w: config param tag %d", ErrUnknownTag, tag)
	}
	if err != nil {
		return p, err
	}
	return p, nil
}

// EncodeConfigParams serializes a ConfigParam list as `u16 count` followed
// by `tag-u8 || length-u8 || value` tuples, sorted by tag ascending
// (spec.md §6; SPEC_FULL.md §9.2 resolves the source's open "canonical
// order" question in favor of always sorting on write).
func EncodeConfigParams(params []ledger.ConfigParam) ([]byte, error) {
	sorted := append([]ledger.ConfigParam(nil), params...)
	sortConfigParams(sorted)

	w := &writer{}
	if len(sorted) > 0xffff {
		return nil, ErrValueTooLong
	}
	w.u16(uint16(len(sorted)))
	for _, p := range sorted {
		value := encodeConfigParamValue(p)
		w.u8(byte(p.Tag))
		if err := w.bytes8(value); err != nil {
			return nil, err
		}
	}
	return w.buf, nil
}

// sortConfigParams orders params by tag ascending, stable on ties.
func sortConfigParams(params []ledger.ConfigParam) {
	for i := 1; i < len(params); i++ {
		for j := i; j > 0 && params[j-1].Tag > params[j].Tag; j-- {
			params[j-1], params[j] = params[j], params[j-1]
		}
	}
}

// DecodeConfigParams parses the format EncodeConfigParams writes, rejecting
// input whose tags are not strictly non-decreasing (spec.md §9.2: a reader
// MUST NOT silently accept an unsorted list).
func DecodeConfigParams(buf []byte) ([]ledger.ConfigParam, error) {
	r := newReader(buf)
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	out := make([]ledger.ConfigParam, 0, count)
	var lastTag ledger.ConfigParamTag
	for i := 0; i < int(count); i++ {
		tagByte, err := r.u8()
		if err != nil {
			return nil, err
		}
		tag := ledger.ConfigParamTag(tagByte)
		value, err := r.bytes8()
		if err != nil {
			return nil, err
		}
		if i > 0 && tag < lastTag {
			return nil, ErrConfigParamsUnsorted
		}
		lastTag = tag
		p, err := decodeConfigParamValue(tag, value)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
