package cryptoprim

import "testing"

func TestEncodeParseIdentifierRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	did, err := EncodeIdentifier(kp.Public)
	if err != nil {
		t.Fatalf("EncodeIdentifier() error = %v", err)
	}
	if len(did) < len("did:key:") {
		t.Fatalf("EncodeIdentifier() produced too short a string: %q", did)
	}

	parsed, err := ParseIdentifier(did)
	if err != nil {
		t.Fatalf("ParseIdentifier() error = %v", err)
	}
	if !parsed.Equal(kp.Public) {
		t.Errorf("ParseIdentifier() = %x, want %x", parsed, kp.Public)
	}
}

func TestParseIdentifierRejectsBadPrefix(t *testing.T) {
	if _, err := ParseIdentifier("not-a-did-key"); err == nil {
		t.Errorf("ParseIdentifier() with a malformed prefix should return an error")
	}
}
