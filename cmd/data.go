/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoughtbruno/llm-researcher/internal/analysis"
	"github.com/thoughtbruno/llm-researcher/internal/ui"
)

// dataCmd represents the data command
var dataCmd = &cobra.Command{
	Use:   "data [format]",
	Short: "Access the raw dataset",
	Long: `Read the productivity CSV and print it in one of the raw access modes.

Formats:
  sample    bounded preview of the first rows (default)
  full      entire dataset, refused above the configured row limit
  columns   column names, inferred types, null and distinct counts
  summary   descriptive statistics per numeric column

An unrecognized format falls back to the sample preview.

Examples:
  researcher data
  researcher data columns
  researcher data summary --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runData,
}

func init() {
	rootCmd.AddCommand(dataCmd)
}

func runData(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var token string
	if len(args) > 0 {
		token = args[0]
	}

	res := analysis.RunRaw(afero.NewOsFs(), datasetPath(), token, analysisOptions())
	trackCommand("data", start, !res.Failed())

	if isJSON() {
		return printJSON(res)
	}

	if res.Failed() {
		if isQuiet() {
			fmt.Println(res.Text)
		} else {
			fmt.Println(ui.RenderErrorPanel("Dataset unavailable", res.Text))
		}
		return nil
	}

	if !isQuiet() {
		subtitle := fmt.Sprintf("%s · %s rows · %d columns", datasetPath(), ui.FormatCount(res.Rows), res.Columns)
		ui.RenderPageHeader("Raw Data: "+string(res.Format), subtitle)
	}
	fmt.Println(res.Text)

	return nil
}
