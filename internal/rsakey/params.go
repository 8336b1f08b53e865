// Package rsakey converts native RSA key material into the
// arbitrary-precision parameter sets consumed by the signing and
// bundling operations.
package rsakey

import (
	"crypto"
	"crypto/rsa"
	"fmt"
	"math/big"
)

// Mode selects which parameters an extraction must produce.
// Private extraction from public-only material is an error, never a
// partially filled result.
type Mode int

const (
	// ModePublic extracts modulus and public exponent only.
	ModePublic Mode = iota

	// ModePrivate extracts the full parameter set including the
	// private exponent and the five CRT cofactors.
	ModePrivate
)

// String returns the human-readable name of the extraction mode.
func (m Mode) String() string {
	switch m {
	case ModePublic:
		return "public"
	case ModePrivate:
		return "private"
	default:
		return "unknown"
	}
}

// Parameters holds an RSA key as non-negative arbitrary-precision
// integers. The private fields are nil for public-only extractions.
// A Parameters value is derived, used immediately, and discarded; it
// is not safe for concurrent use.
type Parameters struct {
	N *big.Int // modulus
	E *big.Int // public exponent

	D    *big.Int // private exponent
	P    *big.Int // first prime factor
	Q    *big.Int // second prime factor
	DP   *big.Int // D mod (P-1)
	DQ   *big.Int // D mod (Q-1)
	QInv *big.Int // Q^-1 mod P

	mode Mode
}

// Mode reports which extraction produced these parameters.
func (p *Parameters) Mode() Mode { return p.mode }

// HasPrivate reports whether the full private parameter set is present.
func (p *Parameters) HasPrivate() bool { return p.mode == ModePrivate }

// Extract converts a native RSA key into Parameters.
//
// Accepted key types are *rsa.PrivateKey, *rsa.PublicKey, and any
// crypto.Signer backed by an RSA key. Keys that cannot be exported in
// the requested mode fail with ErrKeyExtraction: a public key (or an
// opaque signer) cannot satisfy ModePrivate.
func Extract(key any, mode Mode) (*Parameters, error) {
	switch k := key.(type) {
	case nil:
		return nil, fmt.Errorf("no key supplied: %w", ErrKeyExtraction)

	case *rsa.PrivateKey:
		if k == nil {
			return nil, fmt.Errorf("no key supplied: %w", ErrKeyExtraction)
		}
		if mode == ModePublic {
			return publicParameters(&k.PublicKey)
		}
		return privateParameters(k)

	case *rsa.PublicKey:
		if k == nil {
			return nil, fmt.Errorf("no key supplied: %w", ErrKeyExtraction)
		}
		if mode == ModePrivate {
			return nil, fmt.Errorf("public key cannot export private parameters: %w", ErrKeyExtraction)
		}
		return publicParameters(k)

	case crypto.Signer:
		// Opaque signers expose only their public half.
		pub, ok := k.Public().(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("signer is not RSA (%T): %w", k.Public(), ErrKeyExtraction)
		}
		if mode == ModePrivate {
			return nil, fmt.Errorf("opaque signer cannot export private parameters: %w", ErrKeyExtraction)
		}
		return publicParameters(pub)

	default:
		return nil, fmt.Errorf("unsupported key type %T: %w", key, ErrKeyExtraction)
	}
}

// FromComponents builds Parameters from raw big-endian magnitude byte
// arrays. Every field is interpreted as an unsigned value regardless
// of its high bit. The private fields may all be nil for a public-only
// parameter set; a partially supplied private set is rejected.
func FromComponents(modulus, exponent, d, p, q, dp, dq, qinv []byte) (*Parameters, error) {
	if len(modulus) == 0 || len(exponent) == 0 {
		return nil, fmt.Errorf("modulus and exponent are required: %w", ErrKeyExtraction)
	}

	params := &Parameters{
		N:    new(big.Int).SetBytes(modulus),
		E:    new(big.Int).SetBytes(exponent),
		mode: ModePublic,
	}

	private := [][]byte{d, p, q, dp, dq, qinv}
	supplied := 0
	for _, b := range private {
		if len(b) > 0 {
			supplied++
		}
	}
	if supplied == 0 {
		return params, nil
	}
	if supplied != len(private) {
		return nil, fmt.Errorf("incomplete private parameter set (%d of %d fields): %w",
			supplied, len(private), ErrKeyExtraction)
	}

	params.D = new(big.Int).SetBytes(d)
	params.P = new(big.Int).SetBytes(p)
	params.Q = new(big.Int).SetBytes(q)
	params.DP = new(big.Int).SetBytes(dp)
	params.DQ = new(big.Int).SetBytes(dq)
	params.QInv = new(big.Int).SetBytes(qinv)
	params.mode = ModePrivate

	if err := params.validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// PublicKey reconstructs the native public key.
func (p *Parameters) PublicKey() (*rsa.PublicKey, error) {
	if !p.E.IsInt64() || p.E.Int64() > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("public exponent out of range: %w", ErrKeyExtraction)
	}
	return &rsa.PublicKey{N: new(big.Int).Set(p.N), E: int(p.E.Int64())}, nil
}

// Signer reconstructs a native private key usable with the signing
// engine. Requires a private-mode parameter set.
func (p *Parameters) Signer() (*rsa.PrivateKey, error) {
	if !p.HasPrivate() {
		return nil, fmt.Errorf("parameters are public-only: %w", ErrKeyExtraction)
	}
	pub, err := p.PublicKey()
	if err != nil {
		return nil, err
	}

	key := &rsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).Set(p.D),
		Primes:    []*big.Int{new(big.Int).Set(p.P), new(big.Int).Set(p.Q)},
	}
	key.Precompute()
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("reconstructed key invalid: %v: %w", err, ErrKeyExtraction)
	}
	return key, nil
}

func publicParameters(pub *rsa.PublicKey) (*Parameters, error) {
	if pub.N == nil {
		return nil, fmt.Errorf("key has no modulus: %w", ErrKeyExtraction)
	}
	return &Parameters{
		N:    new(big.Int).Set(pub.N),
		E:    big.NewInt(int64(pub.E)),
		mode: ModePublic,
	}, nil
}

func privateParameters(priv *rsa.PrivateKey) (*Parameters, error) {
	if priv.N == nil || priv.D == nil {
		return nil, fmt.Errorf("key has no private material: %w", ErrKeyExtraction)
	}
	if len(priv.Primes) != 2 {
		// Multi-prime keys have no single CRT cofactor set.
		return nil, fmt.Errorf("key has %d prime factors, want 2: %w", len(priv.Primes), ErrKeyExtraction)
	}

	// Derive the CRT values from the factors rather than trusting the
	// precomputed cache, which may be absent on a freshly parsed key.
	pm1 := new(big.Int).Sub(priv.Primes[0], big.NewInt(1))
	qm1 := new(big.Int).Sub(priv.Primes[1], big.NewInt(1))

	params := &Parameters{
		N:    new(big.Int).Set(priv.N),
		E:    big.NewInt(int64(priv.E)),
		D:    new(big.Int).Set(priv.D),
		P:    new(big.Int).Set(priv.Primes[0]),
		Q:    new(big.Int).Set(priv.Primes[1]),
		DP:   new(big.Int).Mod(priv.D, pm1),
		DQ:   new(big.Int).Mod(priv.D, qm1),
		QInv: new(big.Int).ModInverse(priv.Primes[1], priv.Primes[0]),
		mode: ModePrivate,
	}
	if params.QInv == nil {
		return nil, fmt.Errorf("prime factors are not coprime: %w", ErrKeyExtraction)
	}

	if err := params.validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// validate checks that the private parameter set is mathematically
// consistent: N = P*Q, DP/DQ match D against the prime factors, and
// QInv inverts Q modulo P. Violations surface as extraction failures.
func (p *Parameters) validate() error {
	if !p.HasPrivate() {
		return nil
	}

	one := big.NewInt(1)
	if new(big.Int).Mul(p.P, p.Q).Cmp(p.N) != 0 {
		return fmt.Errorf("modulus does not match prime factors: %w", ErrKeyExtraction)
	}

	pm1 := new(big.Int).Sub(p.P, one)
	if new(big.Int).Mod(p.D, pm1).Cmp(p.DP) != 0 {
		return fmt.Errorf("DP inconsistent with D and P: %w", ErrKeyExtraction)
	}
	qm1 := new(big.Int).Sub(p.Q, one)
	if new(big.Int).Mod(p.D, qm1).Cmp(p.DQ) != 0 {
		return fmt.Errorf("DQ inconsistent with D and Q: %w", ErrKeyExtraction)
	}

	qinv := new(big.Int).ModInverse(p.Q, p.P)
	if qinv == nil || qinv.Cmp(p.QInv) != 0 {
		return fmt.Errorf("QInv does not invert Q modulo P: %w", ErrKeyExtraction)
	}

	// e*d must be congruent to 1 modulo lambda(n) for the key to sign
	// at all; checking modulo (p-1) and (q-1) covers both factors.
	ed := new(big.Int).Mul(p.E, p.D)
	if new(big.Int).Mod(ed, pm1).Cmp(one) != 0 || new(big.Int).Mod(ed, qm1).Cmp(one) != 0 {
		return fmt.Errorf("public and private exponents are not inverses: %w", ErrKeyExtraction)
	}

	return nil
}
