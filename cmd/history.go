package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"reqwestur/internal/engine"
	"reqwestur/internal/exchange"
	"reqwestur/internal/format"
	"reqwestur/internal/model"
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View request history",
		Run:   runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "n", 10, "Number of requests to show")

	showCmd := &cobra.Command{
		Use:   "show <id or index>",
		Short: "Show full details of a request",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryShow,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all history",
		Run:   runHistoryClear,
	}

	openCmd := &cobra.Command{
		Use:   "open <index>",
		Short: "Make a history entry the current request",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryOpen,
	}

	saveCmd := &cobra.Command{
		Use:   "save <index>",
		Short: "Save a history entry as a template",
		Args:  cobra.ExactArgs(1),
		Run:   runHistorySave,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export history to a file",
		Run:   runHistoryExport,
	}
	addExportFlags(exportCmd)

	historyCmd.AddCommand(showCmd, clearCmd, openCmd, saveCmd, exportCmd)
	rootCmd.AddCommand(historyCmd)
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "json", "Export format: json, http, yaml")
	cmd.Flags().StringP("out", "o", "", "Output file (default reqwestur_<source>.<format>)")
}

func runHistoryList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	limit, _ := cmd.Flags().GetInt("limit")
	format.PrintRequestList(a.session.History(), limit, "No requests in history")
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	history := a.session.History()
	identifier := args[0]

	// Try to parse as index first (1-based)
	if index, err := strconv.Atoi(identifier); err == nil {
		if index > 0 && index <= len(history) {
			format.PrintRequestDetail(&history[index-1])
			return
		}
	}

	// Try to find by ID
	for _, req := range history {
		if req.ID == identifier {
			format.PrintRequestDetail(&req)
			return
		}
	}

	format.PrintError(fmt.Sprintf("Request not found: %s", identifier))
	a.close()
	os.Exit(1)
}

func runHistoryClear(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	a.session.ClearHistory()
	a.save()
	format.PrintSuccess("History cleared")
}

func runHistoryOpen(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	if err := a.session.OpenHistory(parseIndex(a, args[0])); err != nil {
		format.PrintError(err.Error())
		a.close()
		os.Exit(1)
	}
	a.save()

	req := a.session.Request()
	format.PrintRequest(&req)
}

func runHistorySave(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	if err := a.session.SaveHistoryEntry(parseIndex(a, args[0])); err != nil {
		format.PrintError(err.Error())
		a.close()
		os.Exit(1)
	}
	a.save()
	format.PrintSuccess(engine.MsgSaved)
}

func runHistoryExport(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.close()

	runExport(cmd, a, a.session.History(), exchange.SourceHistory)
}

// runExport writes reqs in the format named by --format to --out
func runExport(cmd *cobra.Command, a *app, reqs []model.Request, src exchange.Source) {
	formatName, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	f, err := exchange.ParseFormat(formatName)
	if err != nil {
		format.PrintError(err.Error())
		a.close()
		os.Exit(1)
	}
	if out == "" {
		out = exchange.FileName(src, f)
	}

	if err := exchange.ExportFile(out, reqs, f); err != nil {
		format.PrintError(fmt.Sprintf("Failed to export: %v", err))
		a.close()
		os.Exit(1)
	}
	format.PrintSuccess(fmt.Sprintf("Exported %d requests to %s", len(reqs), out))
}

// parseIndex converts a 1-based index argument to a 0-based index
func parseIndex(a *app, arg string) int {
	index, err := strconv.Atoi(arg)
	if err != nil {
		format.PrintError(fmt.Sprintf("Invalid index: %s", arg))
		a.close()
		os.Exit(1)
	}
	return index - 1
}
