package cryptoprim

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
)

var (
	ErrInvalidIdentifierFormat = errors.New("cryptoprim: invalid identifier string format")
	ErrMultibaseDecodeFailed   = errors.New("cryptoprim: failed to decode multibase string")
	ErrUnexpectedMulticodec    = errors.New("cryptoprim: unexpected multicodec type")
	ErrPubKeyLengthMismatch    = errors.New("cryptoprim: public key length mismatch")
)

// Ed25519PubKeyCodec is the multicodec tag for a raw Ed25519 public key.
const Ed25519PubKeyCodec multicodec.Code = 0xed

// EncodeIdentifier renders an Ed25519 public key as a did:key-style,
// human-readable identifier: "did:key:" followed by a base58btc multibase
// string wrapping the multicodec-tagged public key bytes. Used to print
// account and pool owner keys in logs and diagnostics without exposing raw
// hex.
func EncodeIdentifier(pub ed25519.PublicKey) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: got %d bytes, want %d", ErrPubKeyLengthMismatch, len(pub), ed25519.PublicKeySize)
	}

	tagged := append(varintCode(Ed25519PubKeyCodec), pub...)
	encoded, err := multibase.Encode(multibase.Base58BTC, tagged)
	if err != nil {
		return "", fmt.Errorf("cryptoprim: failed to multibase-encode identifier: %w", err)
	}
	return "did:key:" + encoded, nil
}

// ParseIdentifier recovers the Ed25519 public key embedded in a did:key
// identifier produced by EncodeIdentifier.
func ParseIdentifier(didKey string) (ed25519.PublicKey, error) {
	const prefix = "did:key:"
	if len(didKey) <= len(prefix) || didKey[:len(prefix)] != prefix {
		return nil, ErrInvalidIdentifierFormat
	}

	_, data, err := multibase.Decode(didKey[len(prefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMultibaseDecodeFailed, err)
	}

	code, n := readVarintCode(data)
	if code != Ed25519PubKeyCodec {
		return nil, fmt.Errorf("%w: got codec 0x%x", ErrUnexpectedMulticodec, code)
	}

	pub := data[n:]
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrPubKeyLengthMismatch, len(pub), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(pub), nil
}

// varintCode encodes a multicodec code as an unsigned LEB128 varint, the
// encoding multicodec-tagged byte strings use.
func varintCode(code multicodec.Code) []byte {
	v := uint64(code)
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func readVarintCode(data []byte) (multicodec.Code, int) {
	var v uint64
	var shift uint
	for i, b := range data {
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return multicodec.Code(v), i + 1
		}
		shift += 7
	}
	return 0, 0
}
