package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"reqwestur/internal/format"
)

func init() {
	certCmd := &cobra.Command{
		Use:   "cert",
		Short: "Manage the mutual TLS client certificate",
		Long: `Manage the PKCS#12 client certificate presented for mutual TLS.

The decrypted identity is never written to disk. It is re-imported from the
file and passphrase when a request needs it.`,
		Run: runCertShow,
	}

	importCmd := &cobra.Command{
		Use:   "import <file.p12>",
		Short: "Import a PKCS#12 client certificate and require it for requests",
		Args:  cobra.ExactArgs(1),
		Run:   runCertImport,
	}
	importCmd.Flags().StringP("passphrase", "p", "", "Certificate passphrase")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Stop requiring a client certificate and forget it",
		Run:   runCertClear,
	}

	certCmd.AddCommand(importCmd, clearCmd)
	rootCmd.AddCommand(certCmd)
}

func runCertShow(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	cert := a.session.Certificate()
	format.PrintCertificate(&cert)
}

func runCertImport(cmd *cobra.Command, args []string) {
	pass, _ := cmd.Flags().GetString("passphrase")

	a := openApp()
	defer a.close()

	a.session.ConfigureCertificate(args[0], pass)
	cert, err := a.session.ImportCertificate()
	a.save()

	format.PrintCertificate(&cert)
	if err != nil {
		a.close()
		os.Exit(1)
	}
}

func runCertClear(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	a.session.SetCertificateRequired(false)
	a.save()
	format.PrintSuccess("Client certificate cleared")
}
