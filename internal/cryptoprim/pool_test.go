package cryptoprim

import (
	"crypto/ed25519"
	"testing"
)

func TestDerivePoolIDDeterministic(t *testing.T) {
	kp, _ := GenerateKeyPair()
	owners := []ed25519.PublicKey{kp.Public}
	kes := []byte("kes-pub-placeholder")
	vrf := []byte("vrf-pub-placeholder")

	id1, err := DerivePoolID(7, owners, kes, vrf)
	if err != nil {
		t.Fatalf("DerivePoolID() error = %v", err)
	}
	id2, err := DerivePoolID(7, owners, kes, vrf)
	if err != nil {
		t.Fatalf("DerivePoolID() error = %v", err)
	}
	if id1 != id2 {
		t.Errorf("DerivePoolID() is not deterministic for identical inputs")
	}

	id3, err := DerivePoolID(8, owners, kes, vrf)
	if err != nil {
		t.Fatalf("DerivePoolID() error = %v", err)
	}
	if id1 == id3 {
		t.Errorf("DerivePoolID() produced the same id for different serials")
	}
}
