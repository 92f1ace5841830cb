package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reqwestur/internal/exchange"
	"reqwestur/internal/format"
)

func init() {
	savedCmd := &cobra.Command{
		Use:     "saved",
		Aliases: []string{"s"},
		Short:   "Manage saved request templates",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved requests",
		Run:   runSavedList,
	}

	showCmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Show a saved request",
		Args:  cobra.ExactArgs(1),
		Run:   runSavedShow,
	}

	runCmd := &cobra.Command{
		Use:   "run <index>",
		Short: "Send a saved request",
		Args:  cobra.ExactArgs(1),
		Run:   runSavedRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a saved request",
		Args:  cobra.ExactArgs(1),
		Run:   runSavedDelete,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved requests to a file",
		Run:   runSavedExport,
	}
	addExportFlags(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import saved requests from a .json or .yaml export",
		Args:  cobra.ExactArgs(1),
		Run:   runSavedImport,
	}

	savedCmd.AddCommand(listCmd, showCmd, runCmd, deleteCmd, exportCmd, importCmd)
	rootCmd.AddCommand(savedCmd)
}

func runSavedList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	format.PrintRequestList(a.session.SavedRequests(), 0, "You haven't saved any requests yet!")
}

func runSavedShow(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	saved := a.session.SavedRequests()
	i := parseIndex(a, args[0])
	if i < 0 || i >= len(saved) {
		format.PrintError(fmt.Sprintf("Saved request not found: %s", args[0]))
		a.close()
		os.Exit(1)
	}
	format.PrintRequestDetail(&saved[i])
}

func runSavedRun(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	a := openApp()
	defer a.close()

	if err := a.session.OpenSaved(parseIndex(a, args[0])); err != nil {
		format.PrintError(err.Error())
		a.close()
		os.Exit(1)
	}

	ok := sendCurrent(a, verbose)
	a.save()
	if !ok {
		a.close()
		os.Exit(1)
	}
}

func runSavedDelete(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	if err := a.session.DeleteSaved(parseIndex(a, args[0])); err != nil {
		format.PrintError(err.Error())
		a.close()
		os.Exit(1)
	}
	a.save()
	format.PrintSuccess("Saved request deleted")
}

func runSavedExport(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	runExport(cmd, a, a.session.SavedRequests(), exchange.SourceSaved)
}

func runSavedImport(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	reqs, err := exchange.ImportFile(args[0])
	if err != nil {
		format.PrintError(fmt.Sprintf("Failed to import: %v", err))
		a.close()
		os.Exit(1)
	}

	a.session.AddSavedRequests(reqs)
	a.save()
	format.PrintSuccess(fmt.Sprintf("Imported %d requests", len(reqs)))
}
