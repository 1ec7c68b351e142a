package address

import (
	"testing"

	"github.com/empower1/ledgercore/internal/cryptoprim"
)

func mustKey(t *testing.T) []byte {
	t.Helper()
	kp, err := cryptoprim.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	return kp.Public
}

func TestSingleAddressEquality(t *testing.T) {
	key := mustKey(t)
	a, err := NewSingle(Production, key)
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}
	b, err := NewSingle(Production, key)
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("expected equal single addresses")
	}

	other, err := NewSingle(Test, key)
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}
	if a.Equal(other) {
		t.Fatalf("addresses on different discriminations must not be equal")
	}
}

func TestAccountIDPanicsForKindsWithoutAccountIdentity(t *testing.T) {
	key := mustKey(t)
	single, err := NewSingle(Production, key)
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected AccountID to panic for a Single address")
		}
	}()
	_ = single.AccountID()
}

func TestGroupAddressCarriesAccountIdentity(t *testing.T) {
	spend := mustKey(t)
	account := mustKey(t)
	group, err := NewGroup(Production, spend, account)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	id := group.AccountID()
	if len(id.PublicKey()) != len(account) {
		t.Fatalf("expected account identity to carry the account key, got %d bytes", len(id.PublicKey()))
	}
}

func TestInvalidKeyLengthRejected(t *testing.T) {
	if _, err := NewSingle(Production, []byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short spending key")
	}
}

func TestMultisigAddressRoundTrip(t *testing.T) {
	id := MultisigID{1, 2, 3}
	addr := NewMultisig(Test, id)
	if addr.Kind != KindMultisig {
		t.Fatalf("expected KindMultisig, got %v", addr.Kind)
	}
	if addr.Multisig != id {
		t.Fatalf("multisig id mismatch")
	}
}
