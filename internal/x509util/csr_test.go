package x509util

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io"
	"testing"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	return key
}

func TestU_CreateRequest_SignatureAlgorithmSelection(t *testing.T) {
	key := testKey(t)
	subject := pkix.Name{CommonName: "algo-select"}

	tests := []struct {
		name     string
		hashBits int
		want     x509.SignatureAlgorithm
	}{
		{"[U] Hash: 160 selects SHA-1", 160, x509.SHA1WithRSA},
		{"[U] Hash: 255 selects SHA-1", 255, x509.SHA1WithRSA},
		{"[U] Hash: 256 selects SHA-256", 256, x509.SHA256WithRSA},
		{"[U] Hash: 384 selects SHA-256", 384, x509.SHA256WithRSA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			der, err := CreateRequest(RequestTemplate{
				Subject:        subject,
				PublicKey:      &key.PublicKey,
				Key:            key,
				HashSizeInBits: tt.hashBits,
			}, rand.Reader)
			if err != nil {
				t.Fatalf("CreateRequest() error = %v", err)
			}

			csr, err := x509.ParseCertificateRequest(der)
			if err != nil {
				t.Fatalf("ParseCertificateRequest() error = %v", err)
			}
			if csr.SignatureAlgorithm != tt.want {
				t.Errorf("signature algorithm = %v, want %v", csr.SignatureAlgorithm, tt.want)
			}
		})
	}
}

func TestU_CreateRequest_SelfSignedVerifies(t *testing.T) {
	key := testKey(t)

	der, err := CreateRequest(RequestTemplate{
		Subject:        pkix.Name{CommonName: "self-signed", Organization: []string{"Acme"}},
		PublicKey:      &key.PublicKey,
		Key:            key,
		HashSizeInBits: 256,
	}, rand.Reader)
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	csr, err := x509.ParseCertificateRequest(der)
	if err != nil {
		t.Fatalf("ParseCertificateRequest() error = %v", err)
	}
	if err := csr.CheckSignature(); err != nil {
		t.Errorf("CheckSignature() error = %v", err)
	}
	if csr.Subject.CommonName != "self-signed" {
		t.Errorf("subject CN = %q, want %q", csr.Subject.CommonName, "self-signed")
	}
}

func TestU_CreateRequest_CertifiedKeyMayDifferFromSigner(t *testing.T) {
	certKey := testKey(t)
	signKey := testKey(t)

	der, err := CreateRequest(RequestTemplate{
		Subject:        pkix.Name{CommonName: "split-keys"},
		PublicKey:      &certKey.PublicKey,
		Key:            signKey,
		HashSizeInBits: 256,
	}, rand.Reader)
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	csr, err := x509.ParseCertificateRequest(der)
	if err != nil {
		t.Fatalf("ParseCertificateRequest() error = %v", err)
	}
	pub, ok := csr.PublicKey.(*rsa.PublicKey)
	if !ok {
		t.Fatalf("request public key is %T, want *rsa.PublicKey", csr.PublicKey)
	}
	if pub.N.Cmp(certKey.N) != 0 {
		t.Error("request must carry the certificate's public key, not the signer's")
	}

	// Verify the signature manually against the signing key.
	digest := digestFor(HashForSize(256), csr.RawTBSCertificateRequest)
	if err := rsa.VerifyPKCS1v15(&signKey.PublicKey, HashForSize(256), digest, csr.Signature); err != nil {
		t.Errorf("signature does not verify against the signing key: %v", err)
	}
}

func TestU_CreateRequest_Failures(t *testing.T) {
	key := testKey(t)

	tests := []struct {
		name string
		tpl  RequestTemplate
		rnd  io.Reader
	}{
		{"[U] Request: no public key", RequestTemplate{Subject: pkix.Name{CommonName: "x"}, Key: key, HashSizeInBits: 256}, rand.Reader},
		{"[U] Request: no signing key", RequestTemplate{Subject: pkix.Name{CommonName: "x"}, PublicKey: &key.PublicKey, HashSizeInBits: 256}, rand.Reader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			der, err := CreateRequest(tt.tpl, tt.rnd)
			if !errors.Is(err, ErrSigning) {
				t.Errorf("CreateRequest() error = %v, want ErrSigning", err)
			}
			if der != nil {
				t.Error("failed CreateRequest must not return bytes")
			}
		})
	}
}
