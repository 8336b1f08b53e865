// Command certbundle merges certificates with externally sourced
// private keys and generates PKCS#10 certificate signing requests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "certbundle",
	Short: "Certificate bundling and CSR helper",
	Long: `certbundle is a small certificate-authority helper.

It merges a public certificate with a private key taken from another
certificate into a single importable PKCS#12 bundle, and produces
PKCS#10 certificate signing requests from an existing certificate's
subject and public key.

Examples:
  # Merge server.crt with the key from legacy.p12
  certbundle combine --cert server.crt --key legacy-key.pem \
      --password changeit -o server.p12

  # Build a CSR for renewal, signed with a PEM key
  certbundle csr --cert server.crt --key server-key.pem -o renew.csr`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("certbundle %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(csrCmd)
}
