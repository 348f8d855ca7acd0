/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoughtbruno/llm-researcher/internal/analysis"
	"github.com/thoughtbruno/llm-researcher/internal/ui"
	"github.com/thoughtbruno/llm-researcher/internal/watch"
)

var watchDebounce time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [type]",
	Short: "Re-run a report whenever the dataset changes",
	Long: `Watch the productivity CSV and recompute a report on every change.

The report runs once immediately, then again after each write to the
file. Writes that do not change the content are skipped. If the file
disappears, the run reports that and watching continues until the file
comes back.

Examples:
  researcher watch
  researcher watch department_analysis
  researcher watch time_trends --debounce 2s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "settle time before recomputing after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var token string
	if len(args) > 0 {
		token = args[0]
	}
	kind := analysis.ParseKind(token)
	path := datasetPath()

	if !isQuiet() && !isJSON() {
		ui.RenderPageHeader("Watching "+reportTitle(kind), path)
	}

	// Initial run, then one run per settled change batch.
	printWatchRun(kind, path, nil)

	w, err := watch.New(watch.Config{
		DatasetPath: path,
		Debounce:    watchDebounce,
		Verbose:     isVerbose(),
		OnChange: func(events []watch.Event) {
			printWatchRun(kind, path, events)
		},
	})
	if err != nil {
		trackCommand("watch", start, false)
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := w.Start(); err != nil {
		trackCommand("watch", start, false)
		return fmt.Errorf("start watcher: %w", err)
	}
	trackCommand("watch", start, true)

	if !isQuiet() && !isJSON() {
		fmt.Println()
		fmt.Println(ui.StyleSubtle.Render("Watching for changes. Press Ctrl+C to stop."))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if !isQuiet() && !isJSON() {
		fmt.Println()
		fmt.Println("Stopping watcher...")
	}
	w.Stop()

	return nil
}

// printWatchRun recomputes the report and prints it, prefixed with what
// triggered the run. A nil events slice marks the initial run.
func printWatchRun(kind analysis.Kind, path string, events []watch.Event) {
	res := analysis.Run(afero.NewOsFs(), path, string(kind))

	if isJSON() {
		_ = printJSON(res)
		return
	}

	if events != nil {
		ops := make([]string, 0, len(events))
		seen := map[string]bool{}
		for _, ev := range events {
			if !seen[ev.Op] {
				ops = append(ops, ev.Op)
				seen[ev.Op] = true
			}
		}
		fmt.Println()
		fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf("── %s · dataset %s ──", time.Now().Format("15:04:05"), strings.Join(ops, ", "))))
	}

	if res.Failed() {
		fmt.Println(ui.RenderWarningPanel("Dataset unavailable", res.Text))
		return
	}
	fmt.Println(res.Text)
}
