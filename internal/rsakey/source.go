package rsakey

import (
	"crypto/rsa"
	"fmt"
)

// SourceKind identifies where a signing key comes from.
type SourceKind int

const (
	// SourcePEM resolves the key from PEM-encoded key pair text.
	SourcePEM SourceKind = iota

	// SourceEmbedded resolves the key from the subject certificate's
	// own private key (the self-signing case).
	SourceEmbedded

	// SourceContainer resolves the key from a password-protected key
	// container imported with the empty password.
	SourceContainer
)

// String returns the human-readable name of the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourcePEM:
		return "pem"
	case SourceEmbedded:
		return "embedded"
	case SourceContainer:
		return "container"
	default:
		return "unknown"
	}
}

// SigningKeySource is the resolved-once tagged source for a CSR
// signing key. Selection happens up front so each path is
// independently reachable; the source never falls through to another
// variant at resolve time.
type SigningKeySource struct {
	Kind SourceKind

	// Bytes carries the raw key material for SourcePEM and
	// SourceContainer; unused for SourceEmbedded.
	Bytes []byte

	// Password decrypts an ENCRYPTED PRIVATE KEY block for SourcePEM.
	// Containers are always imported with the empty password.
	Password []byte
}

// SelectSource picks the signing key source. isPEM forces the PEM
// path; otherwise non-empty key bytes select the container path and
// empty bytes select the certificate-embedded key.
func SelectSource(keyBytes []byte, isPEM bool) SigningKeySource {
	switch {
	case isPEM:
		return SigningKeySource{Kind: SourcePEM, Bytes: keyBytes}
	case len(keyBytes) > 0:
		return SigningKeySource{Kind: SourceContainer, Bytes: keyBytes}
	default:
		return SigningKeySource{Kind: SourceEmbedded}
	}
}

// Resolve turns the source into a full private parameter set.
// embedded is the subject certificate's private key, consulted only
// for SourceEmbedded; a nil embedded key there is ErrKeyExtraction.
func (s SigningKeySource) Resolve(embedded *rsa.PrivateKey) (*Parameters, error) {
	switch s.Kind {
	case SourcePEM:
		key, err := ParsePrivateKeyPEM(s.Bytes, s.Password)
		if err != nil {
			return nil, err
		}
		return Extract(key, ModePrivate)

	case SourceEmbedded:
		if embedded == nil {
			return nil, fmt.Errorf("certificate has no private key: %w", ErrKeyExtraction)
		}
		return Extract(embedded, ModePrivate)

	case SourceContainer:
		key, err := ParseKeyContainer(s.Bytes, "")
		if err != nil {
			return nil, err
		}
		return Extract(key, ModePrivate)

	default:
		return nil, fmt.Errorf("unknown signing key source %d: %w", s.Kind, ErrKeyExtraction)
	}
}
