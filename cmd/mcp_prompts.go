/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// analyzeProductivityPromptHandler walks an agent through the dataset
// using the analysis tools, optionally steered toward a focus area.
func analyzeProductivityPromptHandler() func(context.Context, *mcp.ServerSession, *mcp.GetPromptParams) (*mcp.GetPromptResult, error) {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.GetPromptParams) (*mcp.GetPromptResult, error) {
		focus := strings.TrimSpace(params.Arguments["focus"])

		focusLine := "The user has not named a focus area; cover the dataset broadly."
		if focus != "" {
			focusLine = fmt.Sprintf("The user wants the analysis focused on: %s", focus)
		}

		prompt := fmt.Sprintf(`You are a data analyst working with the garment worker productivity dataset (one row per team, per day, with targeted and actual productivity).

%s

You have access to these tools:
- csv-analysis: run a statistical report. Types:
  - overview: row counts, departments, date range, productivity means
  - productivity_stats: target attainment, distribution, efficiency ratios
  - department_analysis: per-department productivity breakdown
  - time_trends: productivity by quarter, month, and weekday
  - correlation_analysis: correlation of numeric fields with actual productivity
- raw-data-access: read rows directly. Formats: sample, full, columns, summary
- archive-report: persist a report run and get back its archive ID
- list-archived-reports: list previously archived runs

Suggested approach:
1. Start with csv-analysis type 'overview' to see the dataset shape.
2. Use raw-data-access format 'columns' if you need the exact schema.
3. Run the report types that address the question, and quote the numbers
   they return rather than estimating.
4. When a finding is worth keeping, archive that report with archive-report
   and tell the user the ID.

Ground every claim in tool output. If a tool reports that the dataset
could not be loaded, relay that message and suggest checking the file
path instead of guessing at numbers.`, focusLine)

		logInfo("Generated productivity analysis prompt")

		return &mcp.GetPromptResult{
			Description: "Guided analysis of the garment productivity dataset",
			Messages: []*mcp.PromptMessage{
				{
					Role: "user",
					Content: &mcp.TextContent{
						Text: prompt,
					},
				},
			},
		}, nil
	}
}
