package rsakey

import (
	"crypto/rsa"
	"fmt"

	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// ParseKeyContainer extracts the RSA private key from a
// password-protected PKCS#12 key container.
func ParseKeyContainer(data []byte, password string) (*rsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty key container: %w", ErrKeyExtraction)
	}
	key, _, err := pkcs12.Decode(data, password)
	if err != nil {
		return nil, fmt.Errorf("importing key container: %v: %w", err, ErrKeyExtraction)
	}
	return asRSAKey(key)
}
