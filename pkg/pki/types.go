// Package pki provides the public API for certbundle: merging a
// certificate with a private key from another certificate, and
// building PKCS#10 requests from an existing certificate's subject and
// public key.
package pki

import (
	"crypto/rsa"
	"crypto/x509"
)

// Certificate is the caller-supplied certificate model: a parsed
// certificate, its optional chain, an optional private key, and the
// subject distinguished name as the host platform renders it.
//
// Certificate values are read-only to this package; operations only
// derive new artifacts from them. They are not safe for concurrent
// mutation by the caller during a call.
type Certificate struct {
	// Raw is the parsed certificate.
	Raw *x509.Certificate

	// Chain is the certificate chain, excluding Raw itself.
	Chain []*x509.Certificate

	// PrivateKey is the associated private key, if any.
	PrivateKey *rsa.PrivateKey

	// SubjectName is the subject distinguished name string. Platforms
	// differ in how they render it (some use `S=` for the province
	// attribute), so the caller's rendering is kept verbatim.
	SubjectName string
}

// NewCertificate wraps a parsed certificate, deriving SubjectName from
// its subject.
func NewCertificate(cert *x509.Certificate) *Certificate {
	return &Certificate{
		Raw:         cert,
		SubjectName: cert.Subject.String(),
	}
}

// HasPrivateKey reports whether a private key is attached.
func (c *Certificate) HasPrivateKey() bool {
	return c != nil && c.PrivateKey != nil
}
