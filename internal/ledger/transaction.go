package ledger

import "github.com/empower1/ledgercore/internal/address"

const (
	maxTransactionInputs     = 256
	maxTransactionOutputs    = 254
	maxTransactionWitnesses  = 256
)

// Transaction is the unauthenticated transfer/certificate body: inputs,
// ordered outputs, and an optional certificate (spec.md §3).
type Transaction struct {
	Inputs      []Input
	Outputs     []Output[address.Address]
	Certificate *Certificate
}

// AuthenticatedTransaction pairs a Transaction with its positionally
// matched witnesses.
type AuthenticatedTransaction struct {
	Transaction Transaction
	Witnesses   []Witness
}

// ApplyTransaction runs a plain (non-certificate) transaction through
// internalApplyTransaction and returns the new ledger and the fee charged.
func (l *Ledger) ApplyTransaction(txID TransactionID, signed AuthenticatedTransaction, params Parameters) (*Ledger, Value, error) {
	tx := signed.Transaction
	fee, err := params.Fees.Calculate(len(tx.Inputs), len(tx.Outputs), tx.Certificate != nil)
	if err != nil {
		return nil, 0, &FeeCalculationError{Err: err}
	}
	next, err := l.internalApplyTransaction(txID, tx, signed.Witnesses, fee)
	if err != nil {
		return nil, 0, err
	}
	return next, fee, nil
}

// ApplyCertificate verifies the certificate's own signature, applies the
// underlying transaction exactly as ApplyTransaction would, and then
// applies the certificate's effect to delegation/account state. Either
// both succeed or neither has observable effect (spec.md §4.11).
func (l *Ledger) ApplyCertificate(txID TransactionID, signed AuthenticatedTransaction, params Parameters) (*Ledger, Value, error) {
	cert := signed.Transaction.Certificate
	if cert == nil || !cert.Verify() {
		return nil, 0, ErrCertificateInvalidSignature
	}
	next, fee, err := l.ApplyTransaction(txID, signed, params)
	if err != nil {
		return nil, 0, err
	}
	next, err = next.ApplyCertificateContent(*cert)
	if err != nil {
		return nil, 0, err
	}
	return next, fee, nil
}

// internalApplyTransaction is the all-or-nothing core of spec.md §4.9:
// arity checks, input/witness verification in declared order, the
// inputs-equal-outputs-plus-fee balance check, and output materialization.
// Any failure returns an error and leaves l untouched.
func (l *Ledger) internalApplyTransaction(txID TransactionID, tx Transaction, witnesses []Witness, fee Value) (*Ledger, error) {
	if len(tx.Inputs) > maxTransactionInputs {
		return nil, &TooManyInputsError{Expected: maxTransactionInputs, Actual: len(tx.Inputs)}
	}
	if len(tx.Outputs) > maxTransactionOutputs {
		return nil, &TooManyOutputsError{Expected: maxTransactionOutputs, Actual: len(tx.Outputs)}
	}
	if len(witnesses) > maxTransactionWitnesses {
		return nil, &TooManyWitnessesError{Expected: maxTransactionWitnesses, Actual: len(witnesses)}
	}
	if len(tx.Inputs) != len(witnesses) {
		return nil, &NotEnoughSignaturesError{Expected: len(tx.Inputs), Actual: len(witnesses)}
	}

	utxoState := utxoInputState{utxos: l.UTxOs, oldUtxos: l.OldUTxOs}
	acctState := accountInputState{accounts: l.Accounts, multisigs: l.Multisigs}

	for i, in := range tx.Inputs {
		w := witnesses[i]
		switch in.Kind {
		case InputUtxo:
			var err error
			utxoState, err = verifyUtxoInput(utxoState, l.StaticParams.Block0Hash, txID, in.Utxo, w)
			if err != nil {
				return nil, err
			}
		case InputAccount:
			var err error
			acctState, err = verifyAccountInput(acctState, l.StaticParams.Block0Hash, txID, in.Account, in.Value, w)
			if err != nil {
				return nil, err
			}
		}
	}

	inputValues := make([]Value, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputValues[i] = in.value()
	}
	totalInput, err := SumValues(inputValues)
	if err != nil {
		return nil, &UtxoInputsTotalError{Err: err}
	}

	outputValues := make([]Value, 0, len(tx.Outputs)+1)
	for _, o := range tx.Outputs {
		outputValues = append(outputValues, o.Value)
	}
	outputValues = append(outputValues, fee)
	totalOutput, err := SumValues(outputValues)
	if err != nil {
		return nil, &UtxoOutputsTotalError{Err: err}
	}

	if totalInput != totalOutput {
		return nil, &NotBalancedError{Inputs: totalInput, Outputs: totalOutput}
	}

	newUtxos, newAccounts, newMultisigs, err := materializeOutputs(
		utxoState.utxos, acctState.accounts, acctState.multisigs, l.StaticParams, txID, tx.Outputs)
	if err != nil {
		return nil, err
	}

	next := l.shallowCopy()
	next.UTxOs = newUtxos
	next.OldUTxOs = utxoState.oldUtxos
	next.Accounts = newAccounts
	next.Multisigs = newMultisigs
	return next, nil
}

// materializeOutputs applies spec.md §4.10 to an ordered output list,
// producing the UTxO/account/multisig state that results from crediting
// every output in declared order.
func materializeOutputs(
	utxos *UTxOLedger[address.Address],
	accounts *AccountLedger,
	multisigs *MultisigLedger,
	staticParams *StaticParameters,
	txID TransactionID,
	outputs []Output[address.Address],
) (*UTxOLedger[address.Address], *AccountLedger, *MultisigLedger, error) {
	newUtxoEntries := make([]IndexedOutput[address.Address], 0, len(outputs))

	for i, out := range outputs {
		if out.Value == 0 {
			return nil, nil, nil, ErrZeroOutput
		}
		if out.Address.Discrimination != staticParams.Discrimination {
			return nil, nil, nil, ErrInvalidDiscrimination
		}

		switch out.Address.Kind {
		case address.KindSingle:
			newUtxoEntries = append(newUtxoEntries, IndexedOutput[address.Address]{Index: uint8(i), Output: out})

		case address.KindGroup:
			accID := out.Address.AccountID()
			if !accounts.Exists(accID) {
				var err error
				accounts, err = accounts.AddAccount(accID, 0, nil)
				if err != nil {
					return nil, nil, nil, err
				}
			}
			newUtxoEntries = append(newUtxoEntries, IndexedOutput[address.Address]{Index: uint8(i), Output: out})

		case address.KindAccount:
			accID := out.Address.AccountID()
			next, err := accounts.AddValue(accID, out.Value)
			if err == ErrAccountNonExistent {
				next, err = accounts.AddAccount(accID, out.Value, nil)
			}
			if err != nil {
				return nil, nil, nil, err
			}
			accounts = next

		case address.KindMultisig:
			next, err := multisigs.AddValue(out.Address.Multisig, out.Value)
			if err != nil {
				return nil, nil, nil, err
			}
			multisigs = next
		}
	}

	if len(newUtxoEntries) > 0 {
		var err error
		utxos, err = utxos.Add(txID, newUtxoEntries)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	return utxos, accounts, multisigs, nil
}
