package telemetry

import "time"

// Event names. The property allow-list below is the entire payload;
// dataset contents and row values are never sent.
const (
	// EventCommandRun fires once per CLI invocation.
	EventCommandRun = "command_run"

	// EventMCPToolCalled fires for each MCP tool invocation.
	EventMCPToolCalled = "mcp_tool_called"

	// EventReportArchived fires when an analysis report is saved to the archive.
	EventReportArchived = "report_archived"
)

// CommandProps builds the properties for a command_run event.
func CommandProps(command string, duration time.Duration, success bool) Properties {
	return Properties{
		"command":     command,
		"duration_ms": duration.Milliseconds(),
		"success":     success,
	}
}

// ToolProps builds the properties for an mcp_tool_called event.
func ToolProps(tool string, duration time.Duration, success bool) Properties {
	return Properties{
		"tool":        tool,
		"duration_ms": duration.Milliseconds(),
		"success":     success,
	}
}

// ArchiveProps builds the properties for a report_archived event.
func ArchiveProps(kind string, rows int) Properties {
	return Properties{
		"kind": kind,
		"rows": rows,
	}
}
