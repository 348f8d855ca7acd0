/*
Copyright © 2025 thoughtbruno
*/
package cmd

// MCP tools: raw-data-access, csv-analysis, archive-report,
// list-archived-reports. Every handler reads the CSV fresh from disk;
// dataset problems come back as tool results carrying the descriptive
// message, not protocol errors, so the agent session keeps going.

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"

	"github.com/thoughtbruno/llm-researcher/internal/analysis"
	"github.com/thoughtbruno/llm-researcher/internal/telemetry"
	"github.com/thoughtbruno/llm-researcher/types"
)

// trackTool records one MCP tool invocation.
func trackTool(tool string, start time.Time, success bool) {
	client := newTelemetryClient()
	defer func() { _ = client.Close() }()
	client.Track(telemetry.EventMCPToolCalled, telemetry.ToolProps(tool, time.Since(start), success))
}

// rawDataHandler serves raw rows in one of the four access formats.
func rawDataHandler() mcp.ToolHandlerFor[types.RawDataParams, types.RawDataResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.RawDataParams]) (*mcp.CallToolResultFor[types.RawDataResponse], error) {
		args := params.Arguments
		logToolCall("raw-data-access", args)
		start := time.Now()

		res := analysis.RunRaw(afero.NewOsFs(), datasetPath(), args.DataFormat, analysisOptions())
		trackTool("raw-data-access", start, !res.Failed())

		if res.Failed() {
			return &mcp.CallToolResultFor[types.RawDataResponse]{
				Content: []mcp.Content{
					&mcp.TextContent{Text: res.Text},
				},
				IsError: false,
			}, nil
		}

		return &mcp.CallToolResultFor[types.RawDataResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: res.Text},
			},
			StructuredContent: types.RawDataResponse{
				Format:  string(res.Format),
				Rows:    res.Rows,
				Columns: res.Columns,
				Text:    res.Text,
			},
			IsError: false,
		}, nil
	}
}

// csvAnalysisHandler runs one of the five statistical reports.
func csvAnalysisHandler() mcp.ToolHandlerFor[types.AnalysisParams, types.AnalysisResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.AnalysisParams]) (*mcp.CallToolResultFor[types.AnalysisResponse], error) {
		args := params.Arguments
		logToolCall("csv-analysis", args)
		start := time.Now()

		res := analysis.Run(afero.NewOsFs(), datasetPath(), args.AnalysisType)
		trackTool("csv-analysis", start, !res.Failed())

		if res.Failed() {
			return &mcp.CallToolResultFor[types.AnalysisResponse]{
				Content: []mcp.Content{
					&mcp.TextContent{Text: res.Text},
				},
				IsError: false,
			}, nil
		}

		logInfo(fmt.Sprintf("Computed %s over %d rows", res.Kind, res.Rows))

		return &mcp.CallToolResultFor[types.AnalysisResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: res.Text},
			},
			StructuredContent: types.AnalysisResponse{
				AnalysisType: string(res.Kind),
				Rows:         res.Rows,
				Text:         res.Text,
			},
			IsError: false,
		}, nil
	}
}

// archiveReportHandler runs a report and persists the result.
func archiveReportHandler() mcp.ToolHandlerFor[types.ArchiveReportParams, types.ArchiveReportResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.ArchiveReportParams]) (*mcp.CallToolResultFor[types.ArchiveReportResponse], error) {
		args := params.Arguments
		logToolCall("archive-report", args)
		start := time.Now()

		res := analysis.Run(afero.NewOsFs(), datasetPath(), args.AnalysisType)
		if res.Failed() {
			trackTool("archive-report", start, false)
			return &mcp.CallToolResultFor[types.ArchiveReportResponse]{
				Content: []mcp.Content{
					&mcp.TextContent{Text: res.Text},
				},
				IsError: false,
			}, nil
		}

		rep, err := saveReport(res)
		if err != nil {
			trackTool("archive-report", start, false)
			logError(err)
			return nil, types.NewToolError("ARCHIVE_UNAVAILABLE", "could not archive the report", map[string]interface{}{
				"error": err.Error(),
			})
		}
		trackTool("archive-report", start, true)
		logInfo(fmt.Sprintf("Archived report: %s", rep.ID))

		return &mcp.CallToolResultFor[types.ArchiveReportResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Archived %s report (%d rows) as %s", rep.Kind, rep.Rows, rep.ID)},
			},
			StructuredContent: types.ArchiveReportResponse{
				ID:           rep.ID,
				AnalysisType: rep.Kind,
				CreatedAt:    rep.CreatedAt.Format(time.RFC3339),
			},
			IsError: false,
		}, nil
	}
}

// listArchivedHandler lists recent archived report runs.
func listArchivedHandler() mcp.ToolHandlerFor[types.ListArchivedParams, types.ListArchivedResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.ListArchivedParams]) (*mcp.CallToolResultFor[types.ListArchivedResponse], error) {
		args := params.Arguments
		logToolCall("list-archived-reports", args)
		start := time.Now()

		limit := args.Limit
		if limit <= 0 {
			limit = 20
		}

		store, err := openArchive()
		if err != nil {
			trackTool("list-archived-reports", start, false)
			logError(err)
			return nil, types.NewToolError("ARCHIVE_UNAVAILABLE", "could not open the report archive", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer func() { _ = store.Close() }()

		summaries, err := store.List(limit)
		if err != nil {
			trackTool("list-archived-reports", start, false)
			return nil, WrapArchiveError(err, "list", "")
		}
		trackTool("list-archived-reports", start, true)

		reports := make([]types.ArchivedReportSummary, 0, len(summaries))
		for _, sum := range summaries {
			reports = append(reports, types.ArchivedReportSummary{
				ID:           sum.ID,
				AnalysisType: sum.Kind,
				DatasetPath:  sum.DatasetPath,
				Rows:         sum.Rows,
				CreatedAt:    sum.CreatedAt.Format(time.RFC3339),
			})
		}

		text := fmt.Sprintf("Found %d archived report(s)", len(reports))
		if len(reports) == 0 {
			text = "No archived reports yet. Run archive-report to save one."
		}

		return &mcp.CallToolResultFor[types.ListArchivedResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: text},
			},
			StructuredContent: types.ListArchivedResponse{
				Reports: reports,
				Count:   len(reports),
			},
			IsError: false,
		}, nil
	}
}
