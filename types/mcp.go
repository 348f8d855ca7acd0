/*
Copyright © 2025 thoughtbruno
*/
package types

// MCP Tool Parameter Types

// RawDataParams selects a raw access mode over the dataset
type RawDataParams struct {
	DataFormat string `json:"data_format,omitempty" mcp:"Format to return data: 'sample' (bounded preview), 'full' (entire dataset, refused above the size threshold), 'columns' (column types and cardinality), 'summary' (basic descriptive statistics)"`
}

// AnalysisParams selects one of the fixed statistical reports
type AnalysisParams struct {
	AnalysisType string `json:"analysis_type,omitempty" mcp:"Type of analysis: 'overview', 'productivity_stats', 'department_analysis', 'time_trends', 'correlation_analysis'"`
}

// ArchiveReportParams runs a report and persists the result
type ArchiveReportParams struct {
	AnalysisType string `json:"analysis_type,omitempty" mcp:"Report type to run and archive (defaults to overview)"`
}

// ListArchivedParams lists recent archived report runs
type ListArchivedParams struct {
	Limit int `json:"limit,omitempty" mcp:"Maximum number of entries to return (default 20)"`
}

// MCP Response Types

// RawDataResponse wraps a raw access result
type RawDataResponse struct {
	Format  string `json:"format"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Text    string `json:"text"`
}

// AnalysisResponse wraps a statistical report result
type AnalysisResponse struct {
	AnalysisType string `json:"analysis_type"`
	Rows         int    `json:"rows"`
	Text         string `json:"text"`
}

// ArchiveReportResponse confirms a persisted report run
type ArchiveReportResponse struct {
	ID           string `json:"id"`
	AnalysisType string `json:"analysis_type"`
	CreatedAt    string `json:"created_at"`
}

// ArchivedReportSummary is one archive listing entry
type ArchivedReportSummary struct {
	ID           string `json:"id"`
	AnalysisType string `json:"analysis_type"`
	DatasetPath  string `json:"dataset_path"`
	Rows         int    `json:"rows"`
	CreatedAt    string `json:"created_at"`
}

// ListArchivedResponse for archive listing
type ListArchivedResponse struct {
	Reports []ArchivedReportSummary `json:"reports"`
	Count   int                     `json:"count"`
}
