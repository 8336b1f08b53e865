package main

import (
	"encoding/pem"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/certbundle/internal/config"
	"github.com/remiblancher/certbundle/pkg/pki"
)

var (
	csrCertPath      string
	csrKeyPath       string
	csrContainerPath string
	csrConfigPath    string
	csrHashBits      int
	csrOutPath       string
	csrPEMOut        bool
)

var csrCmd = &cobra.Command{
	Use:   "csr",
	Short: "Generate a PKCS#10 request from an existing certificate",
	Long: `Generate a Certificate Signing Request carrying the subject name and
public key of an existing certificate, signed by a supplied key.

The signing key comes from a PEM key pair (--key) or from a
password-protected key container imported with the empty password
(--key-container).

Examples:
  # Renewal CSR signed with the certificate's own PEM key
  certbundle csr --cert server.crt --key server-key.pem -o renew.csr

  # Signing key held in a key container
  certbundle csr --cert server.crt --key-container key.p12 -o renew.csr

  # Legacy SHA-1 signature for an old CA
  certbundle csr --cert server.crt --key server-key.pem --hash 160 -o renew.csr`,
	RunE: runCSR,
}

func init() {
	csrCmd.Flags().StringVar(&csrCertPath, "cert", "", "certificate PEM file supplying subject and public key")
	csrCmd.Flags().StringVar(&csrKeyPath, "key", "", "signing key PEM file")
	csrCmd.Flags().StringVar(&csrContainerPath, "key-container", "", "signing key container file (empty password)")
	csrCmd.Flags().StringVar(&csrConfigPath, "config", "", "YAML defaults file")
	csrCmd.Flags().IntVar(&csrHashBits, "hash", 0, "signature hash strength in bits (below 256 selects SHA-1)")
	csrCmd.Flags().StringVarP(&csrOutPath, "out", "o", "", "output file")
	csrCmd.Flags().BoolVar(&csrPEMOut, "pem", false, "write PEM instead of DER")
	_ = csrCmd.MarkFlagRequired("cert")
	csrCmd.MarkFlagsMutuallyExclusive("key", "key-container")
}

func runCSR(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if csrConfigPath != "" {
		loaded, err := config.Load(csrConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	hashBits := csrHashBits
	if hashBits == 0 {
		hashBits = cfg.HashBits
	}
	outPath := csrOutPath
	if outPath == "" {
		outPath = cfg.Output
	}
	if outPath == "" {
		return fmt.Errorf("no output path: set --out or output in the config file")
	}

	leaf, _, err := loadCertificatesPEM(csrCertPath)
	if err != nil {
		return err
	}
	cert := pki.NewCertificate(leaf)

	var signingKey []byte
	isPEM := false
	switch {
	case csrKeyPath != "":
		signingKey, err = os.ReadFile(csrKeyPath)
		if err != nil {
			return fmt.Errorf("reading key file: %w", err)
		}
		isPEM = true
	case csrContainerPath != "":
		signingKey, err = os.ReadFile(csrContainerPath)
		if err != nil {
			return fmt.Errorf("reading key container: %w", err)
		}
	default:
		return fmt.Errorf("no signing key: set --key or --key-container")
	}

	der, err := pki.CreateRequest(cert, signingKey, isPEM, hashBits)
	if err != nil {
		return err
	}

	out := der
	if csrPEMOut {
		out = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE REQUEST", Bytes: der})
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing request: %w", err)
	}

	fmt.Printf("Request written to %s\n", outPath)
	fmt.Printf("  Subject: %s\n", cert.SubjectName)
	return nil
}
