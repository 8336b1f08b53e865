// Package x509util builds PKCS#10 certificate signing requests where
// the request's public key comes from an existing certificate rather
// than from the signing key.
package x509util

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
	"io"
)

// ErrSigning indicates the signature computation over the request
// failed. Use errors.Is() to check through the error chain.
var ErrSigning = errors.New("request signing failed")

// Signature algorithm OIDs (PKCS#1).
var (
	oidSHA1WithRSA   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 5}
	oidSHA256WithRSA = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
)

// RequestTemplate holds everything a request needs before signing.
type RequestTemplate struct {
	// Subject is the request's distinguished name.
	Subject pkix.Name

	// PublicKey is the key certified by the request. It may differ
	// from the signing key's public half.
	PublicKey *rsa.PublicKey

	// Key signs the request.
	Key *rsa.PrivateKey

	// HashSizeInBits selects the signature hash: below 256 picks
	// SHA-1 (compatibility only, cryptographically weak), anything
	// else picks SHA-256.
	HashSizeInBits int
}

// HashForSize maps a requested hash strength to the signature hash.
func HashForSize(bits int) crypto.Hash {
	if bits < 256 {
		return crypto.SHA1
	}
	return crypto.SHA256
}

// certificationRequestInfo is the TBS portion of a PKCS#10 request.
// RawAttributes carries the complete [0] IMPLICIT SET bytes via
// FullBytes; it must be present even when the set is empty.
type certificationRequestInfo struct {
	Version       int
	Subject       asn1.RawValue
	PublicKey     asn1.RawValue
	RawAttributes asn1.RawValue
}

// certificationRequest is the signed PKCS#10 structure.
type certificationRequest struct {
	CertificationRequestInfo asn1.RawValue
	SignatureAlgorithm       pkix.AlgorithmIdentifier
	Signature                asn1.BitString
}

// CreateRequest builds and signs a PKCS#10 request in one pass and
// returns its DER encoding. rnd supplies the signing randomness.
//
// Go's x509.CreateCertificateRequest always certifies the signer's own
// public key, so the CertificationRequestInfo is assembled manually to
// let the certified key and the signing key differ.
func CreateRequest(tpl RequestTemplate, rnd io.Reader) ([]byte, error) {
	if tpl.PublicKey == nil {
		return nil, fmt.Errorf("request has no public key: %w", ErrSigning)
	}
	if tpl.Key == nil {
		return nil, fmt.Errorf("request has no signing key: %w", ErrSigning)
	}

	pubKeyBytes, err := x509.MarshalPKIXPublicKey(tpl.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	subjectBytes, err := asn1.Marshal(tpl.Subject.ToRDNSequence())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal subject: %w", err)
	}

	cri := certificationRequestInfo{
		Version:       0,
		Subject:       asn1.RawValue{FullBytes: subjectBytes},
		PublicKey:     asn1.RawValue{FullBytes: pubKeyBytes},
		RawAttributes: asn1.RawValue{FullBytes: wrapImplicitTag0(nil)},
	}

	criBytes, err := asn1.Marshal(cri)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal CertificationRequestInfo: %w", err)
	}

	hash := HashForSize(tpl.HashSizeInBits)
	digest := digestFor(hash, criBytes)

	sig, err := rsa.SignPKCS1v15(rnd, tpl.Key, hash, digest)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrSigning)
	}

	csr := certificationRequest{
		CertificationRequestInfo: asn1.RawValue{FullBytes: criBytes},
		SignatureAlgorithm: pkix.AlgorithmIdentifier{
			Algorithm:  signatureOIDFor(hash),
			Parameters: asn1.NullRawValue,
		},
		Signature: asn1.BitString{Bytes: sig, BitLength: len(sig) * 8},
	}

	return asn1.Marshal(csr)
}

func digestFor(hash crypto.Hash, message []byte) []byte {
	switch hash {
	case crypto.SHA1:
		h := sha1.Sum(message)
		return h[:]
	default:
		h := sha256.Sum256(message)
		return h[:]
	}
}

func signatureOIDFor(hash crypto.Hash) asn1.ObjectIdentifier {
	if hash == crypto.SHA1 {
		return oidSHA1WithRSA
	}
	return oidSHA256WithRSA
}

// wrapImplicitTag0 wraps content in a context-specific [0] IMPLICIT
// constructed tag, the attribute wrapper of a CSR. PKCS#10 requires
// the tag even for an empty attribute set.
func wrapImplicitTag0(content []byte) []byte {
	length := len(content)
	var result []byte

	// Tag: 0xA0 = context-specific [0], constructed
	if length <= 127 {
		result = make([]byte, 2+length)
		result[0] = 0xA0
		result[1] = byte(length)
		copy(result[2:], content)
	} else if length <= 255 {
		result = make([]byte, 3+length)
		result[0] = 0xA0
		result[1] = 0x81
		result[2] = byte(length)
		copy(result[3:], content)
	} else if length <= 65535 {
		result = make([]byte, 4+length)
		result[0] = 0xA0
		result[1] = 0x82
		result[2] = byte(length >> 8)
		result[3] = byte(length)
		copy(result[4:], content)
	} else {
		result = make([]byte, 5+length)
		result[0] = 0xA0
		result[1] = 0x83
		result[2] = byte(length >> 16)
		result[3] = byte(length >> 8)
		result[4] = byte(length)
		copy(result[5:], content)
	}
	return result
}
