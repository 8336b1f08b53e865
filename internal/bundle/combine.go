// Package bundle repackages a certificate chain and a private key
// sourced from elsewhere into a single PKCS#12-backed bundle.
package bundle

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/google/uuid"
	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/remiblancher/certbundle/internal/randsource"
	"github.com/remiblancher/certbundle/internal/rsakey"
)

// Result is the reimported bundle: the public certificate and chain
// now paired with the supplied private key.
type Result struct {
	Certificate *x509.Certificate
	Chain       []*x509.Certificate
	PrivateKey  *rsa.PrivateKey
}

// Combine merges the public certificate (plus chain) with a private
// key extracted from another certificate.
//
// The certificate side is first exported as a passphrase-less PKCS#12
// trust blob and reloaded, so the entries that end up in the sealed
// container are exactly what a PKCS#12 round-trip preserves. The
// populated container is then re-serialized under a freshly generated
// passphrase and immediately reimported; the reimported entries form
// the result. Any failure is fatal: no partial result is returned.
func Combine(cert *x509.Certificate, chain []*x509.Certificate, key *rsakey.Parameters) (*Result, error) {
	if cert == nil {
		return nil, fmt.Errorf("no public certificate: %w", ErrContainerLoad)
	}
	if key == nil {
		return nil, fmt.Errorf("no key parameters: %w", rsakey.ErrKeyExtraction)
	}

	signer, err := key.Signer()
	if err != nil {
		return nil, err
	}

	rnd := randsource.New()
	defer rnd.Close()

	// Export the certificate side alone, with no passphrase.
	blob, err := pkcs12.EncodeTrustStore(rnd, append([]*x509.Certificate{cert}, chain...), "")
	if err != nil {
		return nil, fmt.Errorf("exporting certificate container: %w", err)
	}

	loaded, err := pkcs12.DecodeTrustStore(blob, "")
	if err != nil {
		return nil, fmt.Errorf("loading certificate container: %v: %w", err, ErrContainerLoad)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("certificate container is empty: %w", ErrContainerLoad)
	}

	// Seal the chain entry together with the private key under a
	// generated passphrase. Unpredictability only needs to cover the
	// container's own encryption strength.
	passphrase := uuid.NewString()

	sealed, err := pkcs12.Encode(rnd, signer, loaded[0], loaded[1:], passphrase)
	if err != nil {
		return nil, fmt.Errorf("sealing container: %w", err)
	}

	reKey, reCert, reChain, err := pkcs12.DecodeChain(sealed, passphrase)
	if err != nil {
		return nil, fmt.Errorf("reimporting sealed container: %v: %w", err, ErrReimport)
	}
	rsaKey, ok := reKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("reimported key is %T, not RSA: %w", reKey, ErrReimport)
	}

	return &Result{
		Certificate: reCert,
		Chain:       reChain,
		PrivateKey:  rsaKey,
	}, nil
}
