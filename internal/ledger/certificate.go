package ledger

import (
	"crypto/ed25519"

	"github.com/empower1/ledgercore/internal/address"
	"github.com/empower1/ledgercore/internal/cryptoprim"
)

// CertificateKind selects which delegation-registry operation a
// certificate-bearing transaction performs (spec.md §4.7).
type CertificateKind uint8

const (
	CertStakeDelegation CertificateKind = iota
	CertStakePoolRegistration
	CertStakePoolRetirement
)

// StakeDelegationContent names the pool a single account delegates to.
type StakeDelegationContent struct {
	PoolID    cryptoprim.PoolID
	AccountID address.AccountID
}

// Certificate is signed independently of the transaction's input
// witnesses; both signatures must verify for a certificate-bearing
// transaction to succeed (spec.md §9 "Certificate signature vs input
// witnesses").
type Certificate struct {
	Kind                  CertificateKind
	StakeDelegation       StakeDelegationContent
	StakePoolRegistration StakePoolInfo
	StakePoolRetirement   cryptoprim.PoolID

	SignerPublicKey ed25519.PublicKey
	Signature       []byte
}

// canonicalBytes returns a deterministic encoding of the certificate's
// content, the payload its own signature commits to.
func (c Certificate) canonicalBytes() []byte {
	buf := []byte{byte(c.Kind)}
	switch c.Kind {
	case CertStakeDelegation:
		buf = append(buf, c.StakeDelegation.PoolID[:]...)
		buf = append(buf, c.StakeDelegation.AccountID[:]...)
	case CertStakePoolRegistration:
		var serialBuf [2]byte
		serialBuf[0] = byte(c.StakePoolRegistration.Serial >> 8)
		serialBuf[1] = byte(c.StakePoolRegistration.Serial)
		buf = append(buf, serialBuf[:]...)
		for _, o := range c.StakePoolRegistration.Owners {
			buf = append(buf, o...)
		}
		buf = append(buf, c.StakePoolRegistration.KESPublic...)
		buf = append(buf, c.StakePoolRegistration.VRFPublic...)
	case CertStakePoolRetirement:
		buf = append(buf, c.StakePoolRetirement[:]...)
	}
	return buf
}

// Verify checks the certificate's own signature, distinct from any input
// witness verification the enclosing transaction undergoes.
func (c Certificate) Verify() bool {
	return cryptoprim.Verify(c.SignerPublicKey, c.canonicalBytes(), c.Signature)
}

// ApplyCertificateContent applies a verified certificate's effect to the
// delegation/account state, mirroring original_source/ledger.rs's
// apply_certificate_content.
func (l *Ledger) ApplyCertificateContent(cert Certificate) (*Ledger, error) {
	next := l.shallowCopy()
	switch cert.Kind {
	case CertStakeDelegation:
		if !next.Delegation.StakePoolExists(cert.StakeDelegation.PoolID) {
			return nil, ErrStakeDelegationPoolKeyIsInvalid
		}
		accounts, err := next.Accounts.SetDelegation(cert.StakeDelegation.AccountID, &cert.StakeDelegation.PoolID)
		if err != nil {
			if err == ErrAccountNonExistent {
				return nil, ErrStakeDelegationAccountIsInvalid
			}
			return nil, err
		}
		next.Accounts = accounts

	case CertStakePoolRegistration:
		delegation, _, err := next.Delegation.RegisterStakePool(cert.StakePoolRegistration)
		if err != nil {
			return nil, err
		}
		next.Delegation = delegation

	case CertStakePoolRetirement:
		delegation, err := next.Delegation.DeregisterStakePool(cert.StakePoolRetirement)
		if err != nil {
			return nil, err
		}
		next.Delegation = delegation
	}
	return next, nil
}
