package ledger

import "github.com/empower1/ledgercore/internal/cryptoprim"

// OldAddress is a legacy (Byron-style) address: the ripemd160-of-sha256
// public key hash cryptoprim derives for Witness::OldUtxo verification.
// Legacy UTxOs are keyed by this hash rather than by a full address.Address
// value, since the pre-Shelley scheme carries no discrimination or kind
// tag.
type OldAddress [cryptoprim.LegacyAddressSize]byte

// OldUtxoDeclaration seeds the legacy UTxO set at genesis: a flat list of
// (old address, value) pairs treated as a single synthetic transaction's
// outputs (spec.md §4.13; original_source/ledger.rs apply_old_declaration).
type OldUtxoDeclaration struct {
	DeclarationID TransactionID
	Addresses     []OldAddress
	Values        []Value
}

// ApplyOldDeclaration inserts the declaration's addresses into oldUtxos as
// a single transaction keyed by DeclarationID, indexed in list order.
func ApplyOldDeclaration(oldUtxos *UTxOLedger[OldAddress], decl OldUtxoDeclaration) (*UTxOLedger[OldAddress], error) {
	outputs := make([]IndexedOutput[OldAddress], len(decl.Addresses))
	for i := range decl.Addresses {
		outputs[i] = IndexedOutput[OldAddress]{
			Index:  uint8(i),
			Output: Output[OldAddress]{Address: decl.Addresses[i], Value: decl.Values[i]},
		}
	}
	return oldUtxos.Add(decl.DeclarationID, outputs)
}
