package cryptoprim

// VRFOutput is an opaque verifiable-random-function output attached to a
// block header. The ledger core treats it as an uninterpreted byte blob: it
// is carried through block application but never produced or verified here
// — VRF math is leader-election machinery, explicitly out of this module's
// scope.
type VRFOutput []byte

// KESSignature is an opaque key-evolving-signature value committing to a
// block header. Like VRFOutput, the ledger core never computes or checks
// one; it is carried in wire.Header's Praos proof so that wire
// encoding/decoding round-trips it faithfully.
type KESSignature []byte
