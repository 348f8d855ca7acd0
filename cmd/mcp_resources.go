/*
Copyright © 2025 thoughtbruno
*/
package cmd

// MCP resources: dataset schema and per-column summary, both computed
// from a fresh read of the CSV at request time.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"

	"github.com/thoughtbruno/llm-researcher/internal/analysis"
	"github.com/thoughtbruno/llm-researcher/internal/dataset"
)

// schemaResourceHandler serves column names, inferred types and null counts.
func schemaResourceHandler() mcp.ResourceHandler {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.ReadResourceParams) (*mcp.ReadResourceResult, error) {
		var doc any
		tbl, err := dataset.Load(afero.NewOsFs(), datasetPath())
		if err != nil {
			// Keep the session usable: report the problem inside the document.
			doc = map[string]string{
				"error": fmt.Sprintf("could not load the productivity dataset (%v)", err),
			}
		} else {
			doc = dataset.Describe(tbl)
			logInfo(fmt.Sprintf("Provided schema resource for %d columns", tbl.NumColumns()))
		}

		jsonData, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema to JSON: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      params.URI,
					MIMEType: "application/json",
					Text:     string(jsonData),
				},
			},
		}, nil
	}
}

// summaryResourceHandler serves per-column summary statistics.
func summaryResourceHandler() mcp.ResourceHandler {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.ReadResourceParams) (*mcp.ReadResourceResult, error) {
		res := analysis.RunRaw(afero.NewOsFs(), datasetPath(), string(analysis.FormatSummary), analysisOptions())

		var doc any
		if res.Failed() {
			doc = map[string]string{"error": res.Text}
		} else {
			doc = res.Data
			logInfo(fmt.Sprintf("Provided summary resource over %d rows", res.Rows))
		}

		jsonData, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal summary to JSON: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      params.URI,
					MIMEType: "application/json",
					Text:     string(jsonData),
				},
			},
		}, nil
	}
}
