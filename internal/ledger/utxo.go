package ledger

// TransactionID is the content hash identifying a transaction. Fragment
// encoding (internal/wire) computes it; the ledger core only consumes it as
// an opaque 32-byte key.
type TransactionID [32]byte

// Output is an (address, value) pair. The address type is a type parameter
// so the same UTxO sub-ledger shape serves both the new-address UTxO set
// and the legacy-address one (spec.md §4.2: "generic over address type
// (used twice: new addresses and legacy addresses)").
type Output[A any] struct {
	Address A
	Value   Value
}

// IndexedOutput pairs an output with the position it occupies within its
// originating transaction's output list.
type IndexedOutput[A any] struct {
	Index  uint8
	Output Output[A]
}

// UtxoPointer references a single unspent output by transaction id and
// output index, plus the value the spender believes it carries — the
// embedded value MUST match the referenced output's value at spend time
// (spec.md §3).
type UtxoPointer struct {
	TransactionID TransactionID
	OutputIndex   uint8
	Value         Value
}

type utxoKey struct {
	txID  TransactionID
	index uint8
}

// UTxOLedger is a snapshot of unspent outputs keyed by (transaction id,
// output index). Every mutating method returns a new, independent ledger;
// the receiver is left untouched, satisfying the "never mutate in place"
// contract of spec.md §2. The current implementation shares a plain Go map
// copied on every write rather than a true path-copying trie — see
// DESIGN.md for why this tradeoff was made.
type UTxOLedger[A any] struct {
	entries map[utxoKey]Output[A]
}

func NewUTxOLedger[A any]() *UTxOLedger[A] {
	return &UTxOLedger[A]{entries: make(map[utxoKey]Output[A])}
}

func (l *UTxOLedger[A]) clone() *UTxOLedger[A] {
	next := make(map[utxoKey]Output[A], len(l.entries))
	for k, v := range l.entries {
		next[k] = v
	}
	return &UTxOLedger[A]{entries: next}
}

// Add inserts a transaction's outputs. It fails with ErrUtxoAlreadyExists if
// any (txID, index) pair is already present, including duplicates within
// outputs itself.
func (l *UTxOLedger[A]) Add(txID TransactionID, outputs []IndexedOutput[A]) (*UTxOLedger[A], error) {
	seen := make(map[uint8]bool, len(outputs))
	for _, o := range outputs {
		if seen[o.Index] {
			return nil, ErrUtxoAlreadyExists
		}
		seen[o.Index] = true
		if _, exists := l.entries[utxoKey{txID, o.Index}]; exists {
			return nil, ErrUtxoAlreadyExists
		}
	}

	next := l.clone()
	for _, o := range outputs {
		next.entries[utxoKey{txID, o.Index}] = o.Output
	}
	return next, nil
}

// Remove spends a single output, returning the new ledger and the output
// that was removed. Fails with ErrUtxoNotFound if absent.
func (l *UTxOLedger[A]) Remove(txID TransactionID, index uint8) (*UTxOLedger[A], Output[A], error) {
	out, ok := l.entries[utxoKey{txID, index}]
	if !ok {
		var zero Output[A]
		return nil, zero, ErrUtxoNotFound
	}

	next := l.clone()
	delete(next.entries, utxoKey{txID, index})
	return next, out, nil
}

// UTxOEntry is a single (transaction id, output index, output) triple
// yielded by Iter.
type UTxOEntry[A any] struct {
	TransactionID TransactionID
	Index         uint8
	Output        Output[A]
}

// Iter returns every live entry, used for total-value accounting (genesis
// bootstrap's validate_utxo_total_value).
func (l *UTxOLedger[A]) Iter() []UTxOEntry[A] {
	out := make([]UTxOEntry[A], 0, len(l.entries))
	for k, v := range l.entries {
		out = append(out, UTxOEntry[A]{TransactionID: k.txID, Index: k.index, Output: v})
	}
	return out
}

func (l *UTxOLedger[A]) Len() int { return len(l.entries) }
