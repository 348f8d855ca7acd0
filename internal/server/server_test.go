package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtbruno/llm-researcher/internal/analysis"
	"github.com/thoughtbruno/llm-researcher/internal/archive"
)

const testCSV = `date,quarter,department,day,team,targeted_productivity,smv,wip,over_time,idle_time,idle_men,no_of_style_change,no_of_workers,incentive,actual_productivity
1/1/2015,Quarter1,sweing,Thursday,8,0.80,26.16,1108,7080,0,0,0,59,98,0.940725
1/1/2015,Quarter1,finishing ,Thursday,1,0.75,3.94,,960,0,0,0,8,0,0.886500
1/3/2015,Quarter1,sweing,Saturday,11,0.70,11.41,968,3660,0,0,0,30.5,50,0.800570
2/2/2015,Quarter1,sweing,Monday,3,0.75,22.52,1396,6960,0,0,1,58,38,0.753683
3/11/2015,Quarter1,finishing,Wednesday,1,0.65,3.94,N/A,960,0,0,0,8,0,0.628333
`

// newTestServer builds a server on an in-memory filesystem and an
// ephemeral archive, with the fixture dataset already in place.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/garments.csv", []byte(testCSV), 0644))

	store, err := archive.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return &Server{
		fs:          fs,
		datasetPath: "data/garments.csv",
		store:       store,
		version:     "test",
	}
}

// do routes a request through the full mux so {type}/{id} path values
// resolve, and returns the recorder.
func do(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.registerRoutes().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.True(t, resp.DatasetOK)
	assert.Equal(t, "data/garments.csv", resp.Dataset)
}

func TestHandleHealth_MissingDataset(t *testing.T) {
	srv := newTestServer(t)
	srv.datasetPath = "data/gone.csv"

	rec := do(srv, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code, "health stays 200 even when degraded")

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.False(t, resp.DatasetOK)
}

func TestHandleReport_Overview(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/reports/overview")
	assert.Equal(t, http.StatusOK, rec.Code)

	var res analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, analysis.KindOverview, res.Kind)
	assert.Equal(t, 5, res.Rows)
	assert.Contains(t, res.Text, "DATASET OVERVIEW")
	assert.Empty(t, res.Err)
	assert.NotNil(t, res.Report)
}

func TestHandleReport_UnknownTypeFallsBack(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/reports/apples")
	assert.Equal(t, http.StatusOK, rec.Code)

	var res analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, analysis.KindOverview, res.Kind, "unknown type falls back to overview")
}

func TestHandleReport_MissingDataset(t *testing.T) {
	srv := newTestServer(t)
	srv.datasetPath = "data/gone.csv"

	rec := do(srv, http.MethodGet, "/api/reports/productivity_stats")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var res analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Text, "could not load the productivity dataset")
	assert.NotEmpty(t, res.Err)
}

func TestHandleRawData_Sample(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/data/sample")
	assert.Equal(t, http.StatusOK, rec.Code)

	var res analysis.RawResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, analysis.FormatSample, res.Format)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 15, res.Columns)
	assert.NotNil(t, res.Data)
}

func TestHandleRawData_UnknownFormatFallsBack(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/data/parquet")
	assert.Equal(t, http.StatusOK, rec.Code)

	var res analysis.RawResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, analysis.FormatSample, res.Format, "unknown format falls back to sample")
}

func TestHandleSchema(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/schema")
	assert.Equal(t, http.StatusOK, rec.Code)

	var schema struct {
		Rows    int `json:"rows"`
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Equal(t, 5, schema.Rows)
	require.Len(t, schema.Columns, 15)
	assert.Equal(t, "date", schema.Columns[0].Name)
}

func TestHandleSchema_MissingDataset(t *testing.T) {
	srv := newTestServer(t)
	srv.datasetPath = "data/gone.csv"

	rec := do(srv, http.MethodGet, "/api/schema")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "could not load")
}

func TestHandleArchive_ListAndGet(t *testing.T) {
	srv := newTestServer(t)

	saved := &archive.Report{
		Kind:        "overview",
		DatasetPath: "data/garments.csv",
		Rows:        5,
		Text:        "Dataset Overview",
	}
	require.NoError(t, srv.store.Save(saved))

	rec := do(srv, http.MethodGet, "/api/archive")
	assert.Equal(t, http.StatusOK, rec.Code)

	var list ArchiveListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, saved.ID, list.Reports[0].ID)

	rec = do(srv, http.MethodGet, "/api/archive/"+saved.ID)
	assert.Equal(t, http.StatusOK, rec.Code)

	var rep archive.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "overview", rep.Kind)
	assert.Equal(t, "Dataset Overview", rep.Text)
}

func TestHandleArchive_EmptyList(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/archive")
	assert.Equal(t, http.StatusOK, rec.Code)

	var list ArchiveListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Reports, "empty list marshals as [] not null")
}

func TestHandleArchive_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/archive/r-nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "report not found", resp.Error)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodOptions, "/api/reports/overview")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
