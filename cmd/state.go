package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"reqwestur/internal/format"
)

func init() {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Show the current request and persisted preferences",
		Run:   runState,
	}
	stateCmd.Flags().Bool("dark-mode", false, "Set the dark mode preference")

	rootCmd.AddCommand(stateCmd)
}

func runState(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	if cmd.Flags().Changed("dark-mode") {
		on, _ := cmd.Flags().GetBool("dark-mode")
		a.session.SetDarkMode(on)
		a.save()
	}

	a.session.Refresh()
	state := a.session.Snapshot()

	fmt.Fprintf(format.Output, "Dark mode: %t\n", state.DarkMode)
	fmt.Fprintf(format.Output, "History: %d  Saved: %d\n\n", len(state.History), len(state.SavedRequests))
	format.PrintCertificate(&state.Certificate)
	fmt.Fprintln(format.Output)

	fmt.Fprintln(format.Output, "Current request:")
	format.PrintRequest(&state.Request)
	fmt.Fprintf(format.Output, "  Event: %s  Sendable: %t\n", state.Request.Event, state.Request.Sendable)
	format.PrintNotification(state.Request.Address.Notification)
}
