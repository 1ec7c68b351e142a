package cryptoprim

import (
	"crypto/ed25519"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// PoolIDSize is the length in bytes of a stake pool id (Blake2b-256 digest).
const PoolIDSize = 32

// PoolID identifies a stake pool registration.
type PoolID [PoolIDSize]byte

// DerivePoolID computes the stake pool id as Blake2b-256 of
// serial (big-endian u16) || owners (concatenated pubkeys, in order) ||
// kesPub || vrfPub, matching the pool identity derivation the ledger's
// delegation sub-protocol requires (§4.7).
func DerivePoolID(serial uint16, owners []ed25519.PublicKey, kesPub, vrfPub []byte) (PoolID, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return PoolID{}, err
	}
	var serialBuf [2]byte
	binary.BigEndian.PutUint16(serialBuf[:], serial)
	h.Write(serialBuf[:])
	for _, owner := range owners {
		h.Write(owner)
	}
	h.Write(kesPub)
	h.Write(vrfPub)

	var id PoolID
	copy(id[:], h.Sum(nil))
	return id, nil
}
