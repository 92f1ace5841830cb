package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "reqwestur",
	Short: "Compose and send HTTP requests",
	Long: `reqwestur is an HTTP client, similar to Postman.

Send HTTP requests with optional mutual TLS, keep a history of completed
exchanges, and save reusable request templates.

Examples:
  reqwestur get https://api.example.com/users
  reqwestur post https://api.example.com/users -d '{"name": "John"}'
  reqwestur post https://example.com/login -f user=john -f pass=secret
  reqwestur get https://mtls.example.com --cert client.p12 --passphrase pw
  reqwestur history
  reqwestur saved list`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show response headers and cookies")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/.reqwestur)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}
