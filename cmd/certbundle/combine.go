package main

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/remiblancher/certbundle/internal/randsource"
	"github.com/remiblancher/certbundle/internal/rsakey"
	"github.com/remiblancher/certbundle/pkg/pki"
)

var (
	combineCertPath string
	combineKeyPath  string
	combineKeyPass  string
	combinePassword string
	combineOutPath  string
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Merge a certificate with a private key into a PKCS#12 bundle",
	Long: `Merge a public certificate (and its chain) with a private key sourced
from elsewhere, writing a single importable PKCS#12 bundle.

Examples:
  # Pair server.crt with a key extracted from another certificate
  certbundle combine --cert server.crt --key other-key.pem \
      --password changeit -o server.p12

  # Encrypted PEM key
  certbundle combine --cert server.crt --key enc-key.pem \
      --key-password secret --password changeit -o server.p12`,
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().StringVar(&combineCertPath, "cert", "", "public certificate PEM file (leaf first, chain after)")
	combineCmd.Flags().StringVar(&combineKeyPath, "key", "", "private key PEM file")
	combineCmd.Flags().StringVar(&combineKeyPass, "key-password", "", "password for an encrypted PEM key")
	combineCmd.Flags().StringVar(&combinePassword, "password", "", "passphrase for the output bundle")
	combineCmd.Flags().StringVarP(&combineOutPath, "out", "o", "", "output PKCS#12 file")
	_ = combineCmd.MarkFlagRequired("cert")
	_ = combineCmd.MarkFlagRequired("key")
	_ = combineCmd.MarkFlagRequired("password")
	_ = combineCmd.MarkFlagRequired("out")
}

func runCombine(cmd *cobra.Command, args []string) error {
	leaf, chain, err := loadCertificatesPEM(combineCertPath)
	if err != nil {
		return err
	}

	keyPEM, err := os.ReadFile(combineKeyPath)
	if err != nil {
		return fmt.Errorf("reading key file: %w", err)
	}
	key, err := rsakey.ParsePrivateKeyPEM(keyPEM, []byte(combineKeyPass))
	if err != nil {
		return err
	}

	publicCert := pki.NewCertificate(leaf)
	publicCert.Chain = chain

	keyCert := pki.NewCertificate(leaf)
	keyCert.PrivateKey = key

	result, err := pki.Combine(publicCert, keyCert)
	if err != nil {
		return err
	}

	rnd := randsource.New()
	defer rnd.Close()

	blob, err := pkcs12.Encode(rnd, result.PrivateKey, result.Raw, result.Chain, combinePassword)
	if err != nil {
		return fmt.Errorf("encoding output bundle: %w", err)
	}
	if err := os.WriteFile(combineOutPath, blob, 0o600); err != nil {
		return fmt.Errorf("writing output bundle: %w", err)
	}

	fmt.Printf("Bundle written to %s\n", combineOutPath)
	fmt.Printf("  Subject: %s\n", result.SubjectName)
	fmt.Printf("  Chain:   %d certificate(s)\n", 1+len(result.Chain))
	return nil
}

// loadCertificatesPEM reads a PEM file holding one or more
// certificates. The first certificate is the leaf; the rest form the
// chain.
func loadCertificatesPEM(path string) (*x509.Certificate, []*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading certificate file: %w", err)
	}

	var certs []*x509.Certificate
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing certificate: %w", err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, nil, fmt.Errorf("no certificates found in %s", path)
	}
	return certs[0], certs[1:], nil
}
