package cryptoprim

import "testing"

func TestVerifyOldUtxoWitness(t *testing.T) {
	kp, _ := GenerateKeyPair()
	addr := OldAddressFromPublicKey(kp.Public)
	msg := []byte("spend old utxo")
	sig := kp.Sign(msg)

	if !VerifyOldUtxoWitness(kp.Public, addr, msg, sig) {
		t.Errorf("VerifyOldUtxoWitness() = false, want true for a matching key/address/signature")
	}

	otherKp, _ := GenerateKeyPair()
	if VerifyOldUtxoWitness(otherKp.Public, addr, msg, otherKp.Sign(msg)) {
		t.Errorf("VerifyOldUtxoWitness() = true, want false when the key does not hash to the recorded address")
	}
}
