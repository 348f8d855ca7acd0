/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoughtbruno/llm-researcher/internal/analysis"
	"github.com/thoughtbruno/llm-researcher/internal/archive"
	"github.com/thoughtbruno/llm-researcher/internal/telemetry"
	"github.com/thoughtbruno/llm-researcher/internal/ui"
)

var analyzeSave bool

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [type]",
	Short: "Run a statistical report over the dataset",
	Long: `Run one of the fixed statistical reports over the productivity CSV.

The dataset is read fresh from disk on every run, so the report always
reflects the current file.

Types:
  overview              dataset totals, departments, productivity means (default)
  productivity_stats    target attainment, distribution, efficiency ratios
  department_analysis   per-department productivity breakdown
  time_trends           productivity by quarter, month, and weekday
  correlation_analysis  correlation of numeric fields with actual productivity

An unrecognized type falls back to the overview report.

Examples:
  researcher analyze
  researcher analyze department_analysis
  researcher analyze time_trends --save
  researcher analyze correlation_analysis --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "archive this report run for later")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var token string
	if len(args) > 0 {
		token = args[0]
	}

	res := analysis.Run(afero.NewOsFs(), datasetPath(), token)
	trackCommand("analyze", start, !res.Failed())

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
		ui.RenderPageHeader(reportTitle(res.Kind), fmt.Sprintf("%s · %s rows", datasetPath(), ui.FormatCount(res.Rows)))
	}
	fmt.Println(res.Text)

	if analyzeSave {
		rep, err := saveReport(res)
		if err != nil {
			return err
		}
		if !isQuiet() {
			fmt.Println()
			fmt.Println(ui.StyleSubtle.Render("Archived as " + rep.ID))
		}
	}

	return nil
}

// saveReport persists a computed report and emits the archive event.
// Only report outputs are stored, never dataset rows.
func saveReport(res *analysis.Result) (*archive.Report, error) {
	store, err := openArchive()
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	rep := &archive.Report{
		Kind:        string(res.Kind),
		DatasetPath: datasetPath(),
		Rows:        res.Rows,
		Text:        res.Text,
	}
	if res.Report != nil {
		if payload, err := json.Marshal(res.Report); err == nil {
			rep.Payload = payload
		}
	}

	if err := store.Save(rep); err != nil {
		return nil, fmt.Errorf("archive report: %w", err)
	}

	client := newTelemetryClient()
	defer func() { _ = client.Close() }()
	client.Track(telemetry.EventReportArchived, telemetry.ArchiveProps(rep.Kind, rep.Rows))

	return rep, nil
}

func reportTitle(kind analysis.Kind) string {
	switch kind {
	case analysis.KindProductivity:
		return "Productivity Statistics"
	case analysis.KindDepartments:
		return "Department Analysis"
	case analysis.KindTimeTrends:
		return "Time Trends"
	case analysis.KindCorrelations:
		return "Correlation Analysis"
	default:
		return "Dataset Overview"
	}
}
