// This file exposes the certificate/key combiner from internal/bundle.
package pki

import (
	"fmt"

	"github.com/remiblancher/certbundle/internal/bundle"
	"github.com/remiblancher/certbundle/internal/rsakey"
)

// Combine merges publicCert's certificate chain with the private key
// carried by privateKeyCert, returning a single certificate holding
// both. Neither input is modified.
//
// privateKeyCert must carry an exportable RSA private key
// (rsakey.ErrKeyExtraction otherwise). Container failures surface as
// bundle.ErrContainerLoad and bundle.ErrReimport; every failure is
// fatal with no partial result.
func Combine(publicCert, privateKeyCert *Certificate) (*Certificate, error) {
	if publicCert == nil || publicCert.Raw == nil {
		return nil, fmt.Errorf("no public certificate: %w", bundle.ErrContainerLoad)
	}
	var embedded any
	if privateKeyCert != nil && privateKeyCert.PrivateKey != nil {
		embedded = privateKeyCert.PrivateKey
	}

	params, err := rsakey.Extract(embedded, rsakey.ModePrivate)
	if err != nil {
		return nil, err
	}

	res, err := bundle.Combine(publicCert.Raw, publicCert.Chain, params)
	if err != nil {
		return nil, err
	}

	return &Certificate{
		Raw:         res.Certificate,
		Chain:       res.Chain,
		PrivateKey:  res.PrivateKey,
		SubjectName: res.Certificate.Subject.String(),
	}, nil
}
