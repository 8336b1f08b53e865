package bundle

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"testing"
	"time"

	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/remiblancher/certbundle/internal/rsakey"
)

func testIdentity(t *testing.T, cn string) (*x509.Certificate, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn, Organization: []string{"Test Org"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate() error = %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("ParseCertificate() error = %v", err)
	}
	return cert, key
}

func privateParams(t *testing.T, key *rsa.PrivateKey) *rsakey.Parameters {
	t.Helper()
	params, err := rsakey.Extract(key, rsakey.ModePrivate)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	return params
}

func TestU_Combine_MergesCertificateAndKey(t *testing.T) {
	pubCert, _ := testIdentity(t, "public-side")
	_, privKey := testIdentity(t, "key-side")

	res, err := Combine(pubCert, nil, privateParams(t, privKey))
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	if !bytes.Equal(res.Certificate.Raw, pubCert.Raw) {
		t.Error("result certificate bytes differ from the public certificate")
	}
	if res.PrivateKey == nil {
		t.Fatal("result has no private key")
	}

	// The merged key must sign data verifiable against the original.
	digest := sha256.Sum256([]byte("combine proof"))
	sig, err := rsa.SignPKCS1v15(rand.Reader, res.PrivateKey, crypto.SHA256, digest[:])
	if err != nil {
		t.Fatalf("SignPKCS1v15() error = %v", err)
	}
	if err := rsa.VerifyPKCS1v15(&privKey.PublicKey, crypto.SHA256, digest[:], sig); err != nil {
		t.Errorf("signature does not verify against the original key: %v", err)
	}
}

func TestU_Combine_PreservesChain(t *testing.T) {
	pubCert, _ := testIdentity(t, "leaf")
	caCert, _ := testIdentity(t, "issuer")
	_, privKey := testIdentity(t, "key-side")

	res, err := Combine(pubCert, []*x509.Certificate{caCert}, privateParams(t, privKey))
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if len(res.Chain) != 1 {
		t.Fatalf("chain length = %d, want 1", len(res.Chain))
	}
	if !bytes.Equal(res.Chain[0].Raw, caCert.Raw) {
		t.Error("chain certificate bytes differ")
	}
}

func TestU_Combine_ContainerRoundTrip(t *testing.T) {
	pubCert, _ := testIdentity(t, "roundtrip")
	_, privKey := testIdentity(t, "key-side")

	res, err := Combine(pubCert, nil, privateParams(t, privKey))
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	// A container built from the result must hold exactly one
	// certificate entry and one key entry.
	blob, err := pkcs12.Encode(rand.Reader, res.PrivateKey, res.Certificate, res.Chain, "verify")
	if err != nil {
		t.Fatalf("pkcs12.Encode() error = %v", err)
	}
	key, cert, chain, err := pkcs12.DecodeChain(blob, "verify")
	if err != nil {
		t.Fatalf("DecodeChain() error = %v", err)
	}
	if key == nil || cert == nil {
		t.Fatal("round-tripped container is missing entries")
	}
	if len(chain) != 0 {
		t.Errorf("unexpected chain entries: %d", len(chain))
	}
}

func TestU_Combine_Failures(t *testing.T) {
	pubCert, _ := testIdentity(t, "public-side")
	_, privKey := testIdentity(t, "key-side")
	pubOnly, err := rsakey.Extract(&privKey.PublicKey, rsakey.ModePublic)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	tests := []struct {
		name   string
		cert   *x509.Certificate
		params *rsakey.Parameters
		want   error
	}{
		{"[U] Combine: nil certificate", nil, privateParams(t, privKey), ErrContainerLoad},
		{"[U] Combine: public-only key parameters", pubCert, pubOnly, rsakey.ErrKeyExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Combine(tt.cert, nil, tt.params)
			if !errors.Is(err, tt.want) {
				t.Errorf("Combine() error = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Error("failed Combine must not return a partial result")
			}
		})
	}
}
