package ledger

import "github.com/empower1/ledgercore/internal/address"

// New bootstraps a ledger from a genesis (block-0) fragment list,
// enforcing the stricter rules spec.md §4.13 imposes on the first block:
// the first fragment must be Initial, exactly one Initial is permitted,
// transactions carry no inputs/witnesses, certificate transactions carry
// no inputs/witnesses/outputs, and update fragments are forbidden
// entirely. Mirrors original_source/ledger.rs's Ledger::new.
func New(block0Hash [32]byte, fragments []Fragment) (*Ledger, error) {
	if len(fragments) == 0 {
		return nil, ErrInitialMessageMissing
	}
	if fragments[0].Kind != FragInitial {
		return nil, ErrExpectingInitialMessage
	}

	staticParams, settings, err := buildGenesisSettings(block0Hash, fragments[0].InitialParams)
	if err != nil {
		return nil, err
	}

	led := empty(settings, staticParams)

	for _, frag := range fragments[1:] {
		led, err = applyGenesisFragment(led, frag)
		if err != nil {
			return nil, err
		}
	}

	if err := led.validateUtxoTotalValue(); err != nil {
		return nil, err
	}
	return led, nil
}

// buildGenesisSettings extracts the five bootstrap-only configuration keys
// into StaticParameters/TimeEra and folds everything else into a fresh
// Settings value, requiring at least one registered BFT leader to emerge
// from the fold (spec.md §4.13).
func buildGenesisSettings(block0Hash [32]byte, params []ConfigParam) (*StaticParameters, *Settings, error) {
	var (
		haveDate, haveDiscrimination, haveSlotDuration, haveSlotsPerEpoch, haveKES bool
		block0Date                                                                uint64
		discrimination                                                            address.Discrimination
		slotDuration, slotsPerEpoch, kesUpdateSpeed                               uint32
	)

	regular := make([]ConfigParam, 0, len(params))
	for _, p := range params {
		switch p.Tag {
		case TagBlock0Date:
			if haveDate {
				return nil, nil, ErrInitialMessageDuplicateBlock0Date
			}
			haveDate = true
			block0Date = p.Uint64
		case TagDiscrimination:
			if haveDiscrimination {
				return nil, nil, ErrInitialMessageDuplicateDiscrimination
			}
			haveDiscrimination = true
			discrimination = address.Discrimination(p.Uint8)
		case TagSlotDuration:
			if haveSlotDuration {
				return nil, nil, ErrInitialMessageDuplicateSlotDuration
			}
			haveSlotDuration = true
			slotDuration = p.Uint32
		case TagSlotsPerEpoch:
			if haveSlotsPerEpoch {
				return nil, nil, ErrInitialMessageDuplicateSlotsPerEpoch
			}
			haveSlotsPerEpoch = true
			slotsPerEpoch = p.Uint32
		case TagKESUpdateSpeed:
			if haveKES {
				return nil, nil, ErrInitialMessageDuplicateKESUpdateSpeed
			}
			haveKES = true
			kesUpdateSpeed = p.Uint32
		default:
			regular = append(regular, p)
		}
	}

	if !haveDate {
		return nil, nil, ErrInitialMessageNoDate
	}
	if !haveDiscrimination {
		return nil, nil, ErrInitialMessageNoDiscrimination
	}
	if !haveSlotDuration {
		return nil, nil, ErrInitialMessageNoSlotDuration
	}
	if !haveSlotsPerEpoch {
		return nil, nil, ErrInitialMessageNoSlotsPerEpoch
	}
	if !haveKES {
		return nil, nil, ErrInitialMessageNoKESUpdateSpeed
	}

	staticParams := &StaticParameters{
		Block0Hash:     block0Hash,
		Block0Date:     block0Date,
		Discrimination: discrimination,
		KESUpdateSpeed: kesUpdateSpeed,
	}

	era := TimeEra{SlotsPerEpoch: slotsPerEpoch, SlotDuration: slotDuration}
	settings, err := NewSettings(era).Apply(regular)
	if err != nil {
		return nil, nil, err
	}
	if len(settings.BftLeaders) == 0 {
		return nil, nil, ErrInitialMessageNoConsensusLeaderId
	}
	return staticParams, settings, nil
}

func applyGenesisFragment(l *Ledger, frag Fragment) (*Ledger, error) {
	switch frag.Kind {
	case FragInitial:
		return nil, ErrInitialMessageMany

	case FragOldUtxoDeclaration:
		oldUtxos, err := ApplyOldDeclaration(l.OldUTxOs, frag.OldUtxoDecl)
		if err != nil {
			return nil, err
		}
		next := l.shallowCopy()
		next.OldUTxOs = oldUtxos
		return next, nil

	case FragTransaction:
		tx := frag.Transaction.Transaction
		if len(tx.Inputs) != 0 {
			return nil, ErrBlock0TransactionHasInput
		}
		if len(frag.Transaction.Witnesses) != 0 {
			return nil, ErrBlock0TransactionHasWitnesses
		}
		newUtxos, newAccounts, newMultisigs, err := materializeOutputs(
			l.UTxOs, l.Accounts, l.Multisigs, l.StaticParams, frag.ID, tx.Outputs)
		if err != nil {
			return nil, err
		}
		next := l.shallowCopy()
		next.UTxOs = newUtxos
		next.Accounts = newAccounts
		next.Multisigs = newMultisigs
		return next, nil

	case FragCertificate:
		tx := frag.Transaction.Transaction
		if len(tx.Inputs) != 0 {
			return nil, ErrBlock0TransactionHasInput
		}
		if len(frag.Transaction.Witnesses) != 0 {
			return nil, ErrBlock0TransactionHasWitnesses
		}
		if len(tx.Outputs) != 0 {
			return nil, ErrBlock0TransactionHasOutput
		}
		if tx.Certificate == nil {
			return nil, ErrCertificateInvalidSignature
		}
		return l.ApplyCertificateContent(*tx.Certificate)

	case FragUpdateProposal:
		return nil, ErrBlock0HasUpdateProposal

	case FragUpdateVote:
		return nil, ErrBlock0HasUpdateVote

	default:
		return nil, ErrExpectingInitialMessage
	}
}
