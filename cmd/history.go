/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoughtbruno/llm-researcher/internal/ui"
)

var (
	historyLimit int
	exportFormat string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived report runs",
	Long: `Browse report runs saved with 'analyze --save' or the archive-report
MCP tool. Archived runs keep the rendered text and the structured report,
never the dataset rows themselves.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one archived report",
	Long: `Print an archived report's metadata and rendered text. A unique ID
prefix is enough, so 'history show r-1a' works when only one report
starts with that prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export an archived report as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every archived report",
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of reports to list")
	historyExportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "export format: yaml or json")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summaries, err := store.List(historyLimit)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No archived reports yet. Run: researcher analyze --save")
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, sum := range summaries {
		rows = append(rows, []string{
			sum.ID,
			sum.Kind,
			ui.FormatCount(sum.Rows),
			sum.CreatedAt.Local().Format("2006-01-02 15:04"),
			ui.Truncate(sum.DatasetPath, 40),
		})
	}

	table := ui.Table{
		Headers: []string{"ID", "TYPE", "ROWS", "CREATED", "DATASET"},
		Rows:    rows,
	}
	fmt.Println(table.Render())
	fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf("%d report(s)", len(summaries))))

	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rep, err := store.Get(args[0])
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(rep)
	}

	if !isQuiet() {
		ui.RenderPageHeader(
			fmt.Sprintf("Report %s", rep.ID),
			fmt.Sprintf("%s · %s rows · %s", rep.Kind, ui.FormatCount(rep.Rows), rep.CreatedAt.Local().Format(time.RFC822)),
		)
		fmt.Println(ui.StyleSubtle.Render("Dataset: " + rep.DatasetPath))
		fmt.Println()
	}
	fmt.Println(rep.Text)

	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rep, err := store.Get(args[0])
	if err != nil {
		return err
	}

	var out string
	switch exportFormat {
	case "yaml", "yml":
		out, err = rep.ExportYAML()
	case "json":
		out, err = rep.ExportJSON()
	default:
		return fmt.Errorf("unsupported export format %q (use yaml or json)", exportFormat)
	}
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	count, err := store.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("No archived reports to delete.")
		return nil
	}

	if !confirmOrAbort(fmt.Sprintf("Delete %d archived report(s)? [y/N]: ", count)) {
		return nil
	}

	removed, err := store.Clear()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]int64{"removed": removed})
	}
	fmt.Printf("Deleted %d archived report(s).\n", removed)

	return nil
}
