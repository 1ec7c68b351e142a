package ledger

import (
	"github.com/empower1/ledgercore/internal/address"
	"lukechampine.com/blake3"
)

// ConsensusVersion selects the consensus proof scheme a block header
// carries.
type ConsensusVersion uint8

const (
	ConsensusBFT ConsensusVersion = iota
	ConsensusPraos
)

// LinearFee is the fee schedule: constant + per_input*|inputs| +
// per_output*|outputs|, with certificate-bearing transactions paying that
// same tariff plus PerCertificate once (see Calculate).
type LinearFee struct {
	Constant      Value
	PerInput      Value
	PerOutput     Value
	PerCertificate Value
}

// Calculate computes the fee for a transaction with the given input/output
// counts. hasCertificate adds PerCertificate once; the certificate itself
// is never counted as an extra output (spec.md §6).
func (f LinearFee) Calculate(numInputs, numOutputs int, hasCertificate bool) (Value, error) {
	total := f.Constant
	var err error
	for i := 0; i < numInputs; i++ {
		if total, err = total.Add(f.PerInput); err != nil {
			return 0, err
		}
	}
	for i := 0; i < numOutputs; i++ {
		if total, err = total.Add(f.PerOutput); err != nil {
			return 0, err
		}
	}
	if hasCertificate {
		if total, err = total.Add(f.PerCertificate); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// TimeEra frames the chain's epoch/slot geometry.
type TimeEra struct {
	SlotsPerEpoch uint32
	SlotDuration  uint32
}

// StaticParameters is the subset of genesis configuration that never
// changes for the lifetime of a chain: it is constructed once at genesis
// and shared by pointer across every descendant snapshot (spec.md §3
// "static-params (shared immutable)"; SPEC_FULL.md §5's static/dynamic
// parameter split).
type StaticParameters struct {
	Block0Hash     [32]byte
	Block0Date     uint64
	Discrimination address.Discrimination
	KESUpdateSpeed uint32
}

// Parameters is the dynamic, per-block-apply parameter set derived fresh
// from Settings — currently just the fee schedule in effect for the block
// being applied (SPEC_FULL.md §5).
type Parameters struct {
	Fees LinearFee
}

// ConfigParamTag identifies a configuration parameter's meaning on the wire
// and in Settings.Apply's fold.
type ConfigParamTag uint8

const (
	TagBlock0Date ConfigParamTag = iota
	TagDiscrimination
	TagSlotDuration
	TagSlotsPerEpoch
	TagKESUpdateSpeed
	TagConsensusVersion
	TagEpochStabilityDepth
	TagPraosActiveSlotsCoeff
	TagBftSlotsRatio
	TagAddBftLeader
	TagRemoveBftLeader
	TagLinearFee
	TagProposalExpiration
)

// bootstrapOnlyTags are the five keys genesis extracts directly into
// StaticParameters/TimeEra before folding whatever remains into Settings
// (spec.md §4.13). Settings.Apply never sees them in practice because
// genesis strips them from the list it passes down; buildGenesisSettings in
// genesis.go enforces that by construction.
var bootstrapOnlyTags = map[ConfigParamTag]bool{
	TagBlock0Date:     true,
	TagDiscrimination: true,
	TagSlotDuration:   true,
	TagSlotsPerEpoch:  true,
	TagKESUpdateSpeed: true,
}

// ConfigParam is one configuration key/value pair. Exactly one payload
// field is meaningful, selected by Tag; internal/wire encodes it as
// `tag-u8 || length-u8 || value` (spec.md §6).
type ConfigParam struct {
	Tag     ConfigParamTag
	Uint8   uint8
	Uint32  uint32
	Uint64  uint64
	Leader  address.AccountID
	Fee     LinearFee
}

// Settings holds the ledger's active, governance-mutable configuration
// (spec.md §4.5): fee schedule, consensus version, BFT leader list, Praos
// active-slots coefficient, epoch stability depth, proposal expiration
// window, time era, and the running consensus nonce.
type Settings struct {
	Era                      TimeEra
	LinearFees               LinearFee
	ConsensusVersion         ConsensusVersion
	BftLeaders               []address.AccountID
	PraosActiveSlotsCoeff    uint32
	EpochStabilityDepth      uint32
	ProposalExpirationEpochs uint32
	ConsensusNonce           [32]byte
}

func NewSettings(era TimeEra) *Settings {
	return &Settings{Era: era}
}

func (s *Settings) clone() *Settings {
	next := *s
	next.BftLeaders = append([]address.AccountID(nil), s.BftLeaders...)
	return &next
}

func (s *Settings) hasLeader(id address.AccountID) bool {
	for _, l := range s.BftLeaders {
		if l == id {
			return true
		}
	}
	return false
}

// Apply folds a set of recognized ConfigParam updates into a new Settings
// value. Duplicate recognized keys within params are permitted: scalar
// fields are simply overwritten last-wins (idempotent), and AddBftLeader/
// RemoveBftLeader check membership before mutating the leader list so
// repeating one is a no-op rather than a duplicate entry (spec.md §4.5).
func (s *Settings) Apply(params []ConfigParam) (*Settings, error) {
	next := s.clone()
	for _, p := range params {
		if bootstrapOnlyTags[p.Tag] {
			continue
		}
		switch p.Tag {
		case TagConsensusVersion:
			next.ConsensusVersion = ConsensusVersion(p.Uint8)
		case TagEpochStabilityDepth:
			next.EpochStabilityDepth = p.Uint32
		case TagPraosActiveSlotsCoeff:
			next.PraosActiveSlotsCoeff = p.Uint32
		case TagBftSlotsRatio:
			// retained for wire compatibility; not consumed by any
			// component in this module's scope.
		case TagAddBftLeader:
			if !next.hasLeader(p.Leader) {
				next.BftLeaders = append(next.BftLeaders, p.Leader)
			}
		case TagRemoveBftLeader:
			filtered := next.BftLeaders[:0:0]
			for _, l := range next.BftLeaders {
				if l != p.Leader {
					filtered = append(filtered, l)
				}
			}
			next.BftLeaders = filtered
		case TagLinearFee:
			next.LinearFees = p.Fee
		case TagProposalExpiration:
			next.ProposalExpirationEpochs = p.Uint32
		}
	}
	return next, nil
}

// Parameters derives the dynamic per-block parameter set from the current
// settings.
func (s *Settings) Parameters() Parameters {
	return Parameters{Fees: s.LinearFees}
}

// MixNonce folds a per-block consensus nonce contribution into the running
// hash chain via Blake3, returning the updated Settings. Blake2b is
// reserved for stake-pool id derivation (cryptoprim.DerivePoolID), so this
// hash chain is visibly distinct on the wire and in logs from pool
// identities (SPEC_FULL.md §3).
func (s *Settings) MixNonce(contribution []byte) *Settings {
	next := s.clone()
	h := blake3.New(32, nil)
	h.Write(next.ConsensusNonce[:])
	h.Write(contribution)
	copy(next.ConsensusNonce[:], h.Sum(nil))
	return next
}
