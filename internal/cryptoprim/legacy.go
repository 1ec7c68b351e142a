package cryptoprim

import (
	"crypto/ed25519"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // legacy address scheme, not a new design choice
)

// LegacyAddressSize is the length in bytes of a legacy (Byron-style) old
// UTxO address hash.
const LegacyAddressSize = ripemd160.Size

// OldAddressFromPublicKey derives the legacy address hash backing
// Witness::OldUtxo verification (§4.8): ripemd160(sha256(pubkey)), the same
// two-stage hash the pre-Shelley address scheme used.
func OldAddressFromPublicKey(pub ed25519.PublicKey) [LegacyAddressSize]byte {
	sum := sha256.Sum256(pub)
	h := ripemd160.New()
	h.Write(sum[:])

	var out [LegacyAddressSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyOldUtxoWitness reports whether the extended public key xpub hashes
// to wantAddress and the accompanying signature verifies over msg. This is
// the full check the ledger performs for a Witness::OldUtxo: the witness
// must both reveal a public key consistent with the UTxO's recorded legacy
// address and produce a valid signature.
func VerifyOldUtxoWitness(xpub ed25519.PublicKey, wantAddress [LegacyAddressSize]byte, msg, sig []byte) bool {
	if OldAddressFromPublicKey(xpub) != wantAddress {
		return false
	}
	return Verify(xpub, msg, sig)
}
