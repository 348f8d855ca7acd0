package server

import "github.com/thoughtbruno/llm-researcher/internal/archive"

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	Dataset         string `json:"dataset"`
	DatasetOK       bool   `json:"datasetOk"`
	ArchivedReports int    `json:"archivedReports"`
}

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ArchiveListResponse is the body for GET /api/archive.
type ArchiveListResponse struct {
	Count   int               `json:"count"`
	Reports []archive.Summary `json:"reports"`
}
