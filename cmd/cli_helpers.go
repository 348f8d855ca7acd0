/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoughtbruno/llm-researcher/internal/analysis"
	"github.com/thoughtbruno/llm-researcher/internal/archive"
	"github.com/thoughtbruno/llm-researcher/internal/telemetry"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isQuiet() bool {
	return viper.GetBool("quiet")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// datasetPath resolves the CSV location from flag, env, config file, or
// the built-in default, in that order.
func datasetPath() string {
	return viper.GetString("dataset.path")
}

// analysisOptions carries the configured raw-mode bounds.
func analysisOptions() analysis.Options {
	return analysis.Options{
		SampleRows:    viper.GetInt("dataset.sampleRows"),
		FullDumpLimit: viper.GetInt("dataset.fullDumpLimit"),
	}
}

func openArchive() (*archive.Store, error) {
	path := viper.GetString("archive.path")
	store, err := archive.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("open report archive at %s: %w", path, err)
	}
	return store, nil
}

func confirmOrAbort(prompt string) bool {
	if isJSON() {
		return true
	}
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Println("Cancelled.")
		return false
	}
	return true
}

// newTelemetryClient builds a tracking client from the stored consent and
// the configured API key. Any problem yields the no-op client: telemetry
// must never break a command.
func newTelemetryClient() telemetry.Client {
	cfg, err := telemetry.Load()
	if err != nil || !cfg.IsEnabled() {
		return telemetry.NewNoopClient()
	}

	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:   viper.GetString("telemetry.apiKey"),
		Version:  GetVersion(),
		Config:   cfg,
		Endpoint: viper.GetString("telemetry.endpoint"),
	})
	if err != nil {
		return telemetry.NewNoopClient()
	}
	return client
}

// trackCommand records one CLI invocation: name, wall time, and whether
// it computed a result. Dataset contents are never attached.
func trackCommand(name string, start time.Time, success bool) {
	client := newTelemetryClient()
	defer func() { _ = client.Close() }()
	client.Track(telemetry.EventCommandRun, telemetry.CommandProps(name, time.Since(start), success))
}
