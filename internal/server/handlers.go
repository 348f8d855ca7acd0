package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/thoughtbruno/llm-researcher/internal/analysis"
	"github.com/thoughtbruno/llm-researcher/internal/archive"
	"github.com/thoughtbruno/llm-researcher/internal/dataset"
)

// handleHealth reports process liveness plus whether the dataset file is
// currently readable. Always 200: a missing dataset degrades the payload,
// not the endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   s.version,
		Dataset:   s.datasetPath,
		DatasetOK: true,
	}

	if _, err := s.fs.Stat(s.datasetPath); err != nil {
		resp.Status = "degraded"
		resp.DatasetOK = false
	}
	if n, err := s.store.Count(); err == nil {
		resp.ArchivedReports = n
	}

	writeAPIJSON(w, resp)
}

// handleReport runs one statistical report. The dataset is loaded fresh on
// every request; unknown report types fall back to the overview.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	res := analysis.Run(s.fs, s.datasetPath, r.PathValue("type"))
	if res.Failed() {
		writeAPIStatus(w, http.StatusServiceUnavailable, res)
		return
	}
	writeAPIJSON(w, res)
}

// handleRawData serves the raw access modes. Unknown formats fall back to
// the bounded sample preview.
func (s *Server) handleRawData(w http.ResponseWriter, r *http.Request) {
	res := analysis.RunRaw(s.fs, s.datasetPath, r.PathValue("format"), s.opts)
	if res.Failed() {
		writeAPIStatus(w, http.StatusServiceUnavailable, res)
		return
	}
	writeAPIJSON(w, res)
}

// handleSchema returns the inferred column schema.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	tbl, err := dataset.Load(s.fs, s.datasetPath)
	if err != nil {
		writeAPIStatus(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:  "could not load the productivity dataset",
			Detail: err.Error(),
		})
		return
	}
	writeAPIJSON(w, dataset.Describe(tbl))
}

// handleListArchive lists archived report runs, newest first.
func (s *Server) handleListArchive(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}

	summaries, err := s.store.List(limit)
	if err != nil {
		writeAPIStatus(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if summaries == nil {
		summaries = []archive.Summary{}
	}

	writeAPIJSON(w, ArchiveListResponse{Count: len(summaries), Reports: summaries})
}

// handleGetArchive fetches one archived report by ID or unique ID prefix.
func (s *Server) handleGetArchive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeAPIStatus(w, http.StatusBadRequest, ErrorResponse{Error: "missing id"})
		return
	}

	rep, err := s.store.Get(id)
	if err != nil {
		writeAPIStatus(w, http.StatusNotFound, ErrorResponse{Error: "report not found", Detail: err.Error()})
		return
	}

	writeAPIJSON(w, rep)
}

func writeAPIJSON(w http.ResponseWriter, data any) {
	writeAPIStatus(w, http.StatusOK, data)
}

func writeAPIStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
