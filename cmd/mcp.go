/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants like
Claude Code and Cursor can query the productivity dataset.

The server runs over stdin/stdout and provides tools for:
- Reading raw rows (sample, full, columns, summary)
- Running the five analysis reports
- Archiving a report run and listing archived runs

It also exposes the dataset schema and summary as resources and a
guided analysis prompt.

Example usage with Claude Code:
  researcher mcp

The server will run until the client disconnects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	// MCP server inherits verbose flag from root command
}

func runMCPServer(ctx context.Context) error {
	impl := &mcp.Implementation{
		Name:    "researcher",
		Version: version,
	}

	serverOpts := &mcp.ServerOptions{}

	server := mcp.NewServer(impl, serverOpts)

	if err := registerMCPTools(server); err != nil {
		return fmt.Errorf("failed to register MCP tools: %w", err)
	}

	if err := registerMCPResources(server); err != nil {
		return fmt.Errorf("failed to register MCP resources: %w", err)
	}

	if err := registerMCPPrompts(server); err != nil {
		return fmt.Errorf("failed to register MCP prompts: %w", err)
	}

	// Run the server over stdin/stdout
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func registerMCPTools(server *mcp.Server) error {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "raw-data-access",
		Description: "Read rows straight from the productivity CSV. Formats: 'sample' (first rows), 'full' (complete dump, refused above the configured limit), 'columns' (schema with inferred types), 'summary' (per-column statistics). Unknown formats fall back to sample. The file is re-read on every call.",
	}, rawDataHandler())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "csv-analysis",
		Description: "Run a statistical report over the productivity CSV. Types: 'overview', 'productivity_stats', 'department_analysis', 'time_trends', 'correlation_analysis'. Unknown types fall back to overview. Returns the rendered report plus structured data.",
	}, csvAnalysisHandler())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "archive-report",
		Description: "Run an analysis report and persist the result to the local archive. Returns the archive ID for later retrieval with list-archived-reports or the history CLI.",
	}, archiveReportHandler())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list-archived-reports",
		Description: "List recent archived report runs with their IDs, types, row counts and timestamps.",
	}, listArchivedHandler())

	return nil
}

func registerMCPResources(server *mcp.Server) error {
	server.AddResource(&mcp.Resource{
		URI:         "dataset://schema",
		Name:        "schema",
		Description: "Column names, inferred types and null counts of the productivity CSV",
		MIMEType:    "application/json",
	}, schemaResourceHandler())

	server.AddResource(&mcp.Resource{
		URI:         "dataset://summary",
		Name:        "summary",
		Description: "Per-column summary statistics of the productivity CSV",
		MIMEType:    "application/json",
	}, summaryResourceHandler())

	return nil
}

func registerMCPPrompts(server *mcp.Server) error {
	server.AddPrompt(&mcp.Prompt{
		Name:        "analyze-productivity",
		Description: "Guided walkthrough of the garment productivity dataset",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "focus",
				Description: "Optional area to focus on (e.g. departments, overtime, incentives)",
				Required:    false,
			},
		},
	}, analyzeProductivityPromptHandler())

	return nil
}

func logError(err error) {
	if viper.GetBool("verbose") {
		log.Printf("[MCP ERROR] %v", err)
	}
}

func logInfo(msg string) {
	if viper.GetBool("verbose") {
		log.Printf("[MCP INFO] %s", msg)
	}
}

func logToolCall(toolName string, params interface{}) {
	if viper.GetBool("verbose") {
		log.Printf("[MCP TOOL] %s called with params: %+v", toolName, params)
	}
}
