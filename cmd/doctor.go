/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoughtbruno/llm-researcher/internal/dataset"
	"github.com/thoughtbruno/llm-researcher/internal/logger"
	"github.com/thoughtbruno/llm-researcher/internal/telemetry"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the dataset and environment, diagnose issues",
	Long: `Validate the researcher setup.

Checks:
  • Dataset file exists and is readable
  • Dataset parses as CSV (row and column counts)
  • Expected key columns are present
  • Report archive database opens
  • Config file resolution
  • Telemetry opt-in state

Use this to troubleshoot before filing issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor()
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// DoctorCheck represents a single diagnostic check
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warn", "fail"
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func runDoctor() error {
	checks := []DoctorCheck{}
	hasErrors := false

	fileCheck, tbl := checkDatasetFile()
	checks = append(checks, fileCheck)
	if fileCheck.Status == "fail" {
		hasErrors = true
	}

	if tbl != nil {
		schemaCheck := checkCoreColumns(tbl)
		checks = append(checks, schemaCheck)
	}

	checks = append(checks, checkArchiveDB())
	checks = append(checks, checkConfigFile())
	checks = append(checks, checkTelemetryState())
	checks = append(checks, checkCrashLogs())

	for _, c := range checks {
		if c.Status == "fail" {
			hasErrors = true
		}
	}

	if isJSON() {
		return printJSON(checks)
	}

	fmt.Println("🩺 Researcher Doctor")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	for _, c := range checks {
		printCheck(c)
	}

	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if hasErrors {
		fmt.Println("❌ Issues found. Fix the errors above before continuing.")
	} else {
		fmt.Println("✅ Everything looks good!")
	}

	return nil
}

func printCheck(c DoctorCheck) {
	var icon string
	switch c.Status {
	case "ok":
		icon = "✅"
	case "warn":
		icon = "⚠️ "
	case "fail":
		icon = "❌"
	}

	fmt.Printf("%s %s: %s\n", icon, c.Name, c.Message)
	if c.Hint != "" && c.Status != "ok" {
		fmt.Printf("   └─ %s\n", c.Hint)
	}
}

// checkDatasetFile verifies the CSV exists and parses, returning the
// loaded table so later checks can reuse it.
func checkDatasetFile() (DoctorCheck, *dataset.Table) {
	path := datasetPath()

	if _, err := os.Stat(path); err != nil {
		return DoctorCheck{
			Name:    "Dataset",
			Status:  "fail",
			Message: fmt.Sprintf("Not found at %s", path),
			Hint:    "Point --dataset (or dataset.path in config) at the productivity CSV",
		}, nil
	}

	tbl, err := dataset.Load(afero.NewOsFs(), path)
	if err != nil {
		return DoctorCheck{
			Name:    "Dataset",
			Status:  "fail",
			Message: fmt.Sprintf("Could not parse: %v", err),
			Hint:    "The file must be a comma-separated CSV with a header row",
		}, nil
	}

	return DoctorCheck{
		Name:    "Dataset",
		Status:  "ok",
		Message: fmt.Sprintf("%s (%d rows, %d columns)", path, tbl.Len(), tbl.NumColumns()),
	}, tbl
}

func checkCoreColumns(tbl *dataset.Table) DoctorCheck {
	missing := dataset.MissingCore(tbl)
	if len(missing) > 0 {
		return DoctorCheck{
			Name:    "Schema",
			Status:  "warn",
			Message: fmt.Sprintf("Missing expected columns: %s", strings.Join(missing, ", ")),
			Hint:    "Reports that need these columns will note the gap in their output",
		}
	}

	return DoctorCheck{
		Name:    "Schema",
		Status:  "ok",
		Message: "All expected key columns present",
	}
}

func checkArchiveDB() DoctorCheck {
	path := viper.GetString("archive.path")

	store, err := openArchive()
	if err != nil {
		return DoctorCheck{
			Name:    "Archive",
			Status:  "warn",
			Message: fmt.Sprintf("Could not open %s: %v", path, err),
			Hint:    "Check archive.path in config and directory permissions",
		}
	}
	defer func() { _ = store.Close() }()

	count, err := store.Count()
	if err != nil {
		return DoctorCheck{
			Name:    "Archive",
			Status:  "warn",
			Message: fmt.Sprintf("Opened but could not count reports: %v", err),
		}
	}

	return DoctorCheck{
		Name:    "Archive",
		Status:  "ok",
		Message: fmt.Sprintf("%s (%d archived report(s))", path, count),
	}
}

func checkConfigFile() DoctorCheck {
	if used := viper.ConfigFileUsed(); used != "" {
		return DoctorCheck{
			Name:    "Config",
			Status:  "ok",
			Message: used,
		}
	}

	return DoctorCheck{
		Name:    "Config",
		Status:  "ok",
		Message: "No config file, using defaults",
	}
}

func checkTelemetryState() DoctorCheck {
	cfg, err := telemetry.Load()
	if err != nil {
		return DoctorCheck{
			Name:    "Telemetry",
			Status:  "warn",
			Message: fmt.Sprintf("Could not read state: %v", err),
		}
	}

	state := "disabled"
	if cfg.IsEnabled() {
		state = "enabled"
	}
	return DoctorCheck{
		Name:    "Telemetry",
		Status:  "ok",
		Message: fmt.Sprintf("Anonymous usage telemetry %s", state),
	}
}

func checkCrashLogs() DoctorCheck {
	logs, err := logger.ListCrashLogs()
	if err != nil {
		return DoctorCheck{
			Name:    "Crash logs",
			Status:  "warn",
			Message: fmt.Sprintf("Could not list: %v", err),
		}
	}

	if len(logs) == 0 {
		return DoctorCheck{
			Name:    "Crash logs",
			Status:  "ok",
			Message: "None recorded",
		}
	}

	// Filenames embed the timestamp, so the newest log sorts last.
	return DoctorCheck{
		Name:    "Crash logs",
		Status:  "warn",
		Message: fmt.Sprintf("%d recorded, newest: %s", len(logs), logs[len(logs)-1]),
		Hint:    "Attach the newest log when filing an issue",
	}
}
