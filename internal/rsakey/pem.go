package rsakey

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/youmark/pkcs8"
)

// PEM block types that may carry a private key.
const (
	pemTypePKCS1     = "RSA PRIVATE KEY"
	pemTypePKCS8     = "PRIVATE KEY"
	pemTypeEncrypted = "ENCRYPTED PRIVATE KEY"
)

// ParsePrivateKeyPEM extracts the RSA private key from PEM-encoded key
// pair text. Certificate blocks in the same text are skipped. An
// ENCRYPTED PRIVATE KEY block is decrypted with password (which may be
// empty).
//
// Text with no decodable key block fails with ErrPEMParse; a key block
// holding a non-RSA key fails with ErrKeyExtraction.
func ParsePrivateKeyPEM(data []byte, password []byte) (*rsa.PrivateKey, error) {
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, fmt.Errorf("no private key block found: %w", ErrPEMParse)
		}

		switch block.Type {
		case pemTypePKCS1, pemTypePKCS8:
			return parseKeyDER(block.Bytes)
		case pemTypeEncrypted:
			key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, password)
			if err != nil {
				return nil, fmt.Errorf("decrypting private key: %v: %w", err, ErrPEMParse)
			}
			return asRSAKey(key)
		default:
			// Certificates and public keys commonly travel in the
			// same file as the key pair.
			continue
		}
	}
}

// parseKeyDER parses an unencrypted key block. PKCS#8 is tried first;
// some producers label PKCS#1 bytes as "PRIVATE KEY", so PKCS#1 is the
// fallback rather than an error.
func parseKeyDER(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return asRSAKey(key)
	}
	key, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parsing private key block: %v: %w", err, ErrPEMParse)
	}
	return key, nil
}

func asRSAKey(key any) (*rsa.PrivateKey, error) {
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is %T, not RSA: %w", key, ErrKeyExtraction)
	}
	return priv, nil
}
