// This file exposes the CSR builder from internal/x509util.
package pki

import (
	"fmt"

	"github.com/remiblancher/certbundle/internal/randsource"
	"github.com/remiblancher/certbundle/internal/rsakey"
	"github.com/remiblancher/certbundle/internal/x509util"
)

// CreateRequest builds a DER-encoded PKCS#10 request from cert's
// subject name and public key, signed by a key resolved from one of
// three sources:
//
//   - isPEMKey true: signingKey is PEM-encoded key pair text
//     (rsakey.ErrPEMParse if unparsable).
//   - isPEMKey false, empty signingKey: cert's own private key
//     (rsakey.ErrKeyExtraction if absent).
//   - isPEMKey false, non-empty signingKey: a password-protected key
//     container imported with the empty password.
//
// hashSizeInBits below 256 selects SHA-1-with-RSA, anything else
// SHA-256-with-RSA. The subject's `S=` attribute is rewritten to `ST=`
// before the name is parsed; no other RDN transformation is applied.
func CreateRequest(cert *Certificate, signingKey []byte, isPEMKey bool, hashSizeInBits int) ([]byte, error) {
	if cert == nil || cert.Raw == nil {
		return nil, fmt.Errorf("no certificate supplied: %w", rsakey.ErrKeyExtraction)
	}

	source := rsakey.SelectSource(signingKey, isPEMKey)
	keyParams, err := source.Resolve(cert.PrivateKey)
	if err != nil {
		return nil, err
	}
	signer, err := keyParams.Signer()
	if err != nil {
		return nil, err
	}

	pubParams, err := rsakey.Extract(cert.Raw.PublicKey, rsakey.ModePublic)
	if err != nil {
		return nil, err
	}
	pub, err := pubParams.PublicKey()
	if err != nil {
		return nil, err
	}

	subject, err := x509util.ParseSubjectDN(x509util.NormalizeSubjectDN(cert.SubjectName))
	if err != nil {
		return nil, fmt.Errorf("parsing subject name: %w", err)
	}

	rnd := randsource.New()
	defer rnd.Close()

	return x509util.CreateRequest(x509util.RequestTemplate{
		Subject:        subject,
		PublicKey:      pub,
		Key:            signer,
		HashSizeInBits: hashSizeInBits,
	}, rnd)
}
