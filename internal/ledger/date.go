package ledger

import "fmt"

// BlockDate is an (epoch, slot) pair framing a block within the chain's
// consensus era.
type BlockDate struct {
	Epoch uint32
	Slot  uint32
}

func (d BlockDate) String() string { return fmt.Sprintf("%d.%d", d.Epoch, d.Slot) }

// Before reports whether d strictly precedes o.
func (d BlockDate) Before(o BlockDate) bool {
	if d.Epoch != o.Epoch {
		return d.Epoch < o.Epoch
	}
	return d.Slot < o.Slot
}

// Compare returns -1, 0, or 1 following the usual comparator convention.
func (d BlockDate) Compare(o BlockDate) int {
	switch {
	case d.Epoch < o.Epoch:
		return -1
	case d.Epoch > o.Epoch:
		return 1
	case d.Slot < o.Slot:
		return -1
	case d.Slot > o.Slot:
		return 1
	default:
		return 0
	}
}

// EpochDelta returns o.Epoch - d.Epoch, used to test a pending update
// proposal's age against the settings' proposal expiration window.
func (d BlockDate) EpochDelta(o BlockDate) uint32 {
	if o.Epoch <= d.Epoch {
		return 0
	}
	return o.Epoch - d.Epoch
}

// ChainLength is the number of blocks, including this one, since genesis.
// Genesis itself has ChainLength 0; the first applied block has ChainLength
// 1, and so on — invariant 4 requires it strictly increase by one per
// applied block.
type ChainLength uint32

func (c ChainLength) Next() ChainLength { return c + 1 }

func (c ChainLength) String() string { return fmt.Sprintf("%d", uint32(c)) }

// HeaderContext carries the block-framing metadata apply_block needs that
// does not live in the fragments themselves: the target chain length and
// date the header claims, plus an optional consensus nonce contribution
// mixed into the settings' running nonce chain at the block boundary.
type HeaderContext struct {
	ChainLength ChainLength
	BlockDate   BlockDate
	Nonce       []byte
}
