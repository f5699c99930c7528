package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"capture-gpt/backend/internal/app"
)

var versionInfo = "dev"

// newApp builds the application for a command. Logs go to stderr so they do
// not mix with command output.
var newApp = func() (*app.App, error) {
	cfg, err := app.Init(os.Stderr)
	if err != nil {
		return nil, err
	}
	return app.NewApp(cfg)
}

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "capturegpt",
	Short: "Capture This GPT conversation engine",
	Long: `capturegpt - chat with the Capture This production assistant

Runs the local API used by the chat view, or talks to the assistant directly
from the terminal. Conversations are saved to the configured storage and are
shared between both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}
