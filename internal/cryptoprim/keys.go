// Package cryptoprim provides the cryptographic primitives the ledger core
// consumes as opaque capabilities: key generation, signing and verification
// for the four witness kinds, stake-pool id hashing, legacy address
// derivation, and human-readable identifier encoding. It does not implement
// VRF or KES math — those remain opaque byte blobs verified by the consensus
// layer outside this module's scope.
package cryptoprim

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
)

var ErrKeyGeneration = errors.New("cryptoprim: key generation failed")

// KeyPair is an Ed25519 signing keypair, the only signature scheme the
// ledger's witnesses use (old UTxO, UTxO, account, and multisig witnesses
// all carry Ed25519 signatures over domain-separated payloads).
type KeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateKeyPair produces a fresh Ed25519 keypair using crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return &KeyPair{Public: pub, Private: priv}, nil
}

// Sign signs msg with the keypair's private key.
func (k *KeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.Private, msg)
}

// Verify reports whether sig is a valid Ed25519 signature over msg under pub.
// It never panics on malformed input, unlike the raw stdlib call with a
// wrong-length key.
func Verify(pub ed25519.PublicKey, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}

// VerifyThreshold reports whether at least threshold of the given
// (publicKey, signature) pairs verify against msg. Used by multisig witness
// verification, where the ledger only knows which owners signed, not which
// signatures are individually valid, until it checks them.
func VerifyThreshold(msg []byte, pubs []ed25519.PublicKey, sigs [][]byte, threshold int) bool {
	if len(pubs) != len(sigs) {
		return false
	}
	valid := 0
	for i := range pubs {
		if Verify(pubs[i], msg, sigs[i]) {
			valid++
		}
	}
	return valid >= threshold
}
