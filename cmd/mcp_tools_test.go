package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/viper"

	"github.com/thoughtbruno/llm-researcher/internal/telemetry"
	"github.com/thoughtbruno/llm-researcher/types"
)

const toolTestCSV = `date,quarter,department,day,team,targeted_productivity,smv,wip,over_time,idle_time,idle_men,no_of_style_change,no_of_workers,incentive,actual_productivity
1/1/2015,Quarter1,sweing,Thursday,8,0.80,26.16,1108,7080,0,0,0,59,98,0.940725
1/1/2015,Quarter1,finishing ,Thursday,1,0.75,3.94,,960,0,0,0,8,0,0.886500
1/3/2015,Quarter1,sweing,Saturday,11,0.70,11.41,968,3660,0,0,0,30.5,50,0.800570
2/2/2015,Quarter1,sweing,Monday,3,0.75,22.52,1396,6960,0,0,1,58,38,0.753683
3/11/2015,Quarter1,finishing,Wednesday,1,0.65,3.94,N/A,960,0,0,0,8,0,0.628333
`

// setupToolTest points the handlers at a fixture dataset and a
// throwaway archive, and isolates telemetry state.
func setupToolTest(t *testing.T) string {
	t.Helper()

	viper.Reset()
	tmp := t.TempDir()
	telemetry.SetConfigDir(tmp)
	t.Cleanup(func() {
		telemetry.SetConfigDir("")
		viper.Reset()
	})

	csvPath := filepath.Join(tmp, "garments.csv")
	if err := os.WriteFile(csvPath, []byte(toolTestCSV), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	viper.Set("dataset.path", csvPath)
	viper.Set("archive.path", filepath.Join(tmp, "archive.db"))

	return csvPath
}

func textOf(t *testing.T, content []mcp.Content) string {
	t.Helper()
	if len(content) == 0 {
		t.Fatalf("no content in tool result")
	}
	tc, ok := content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", content[0])
	}
	return tc.Text
}

func TestCSVAnalysisTool(t *testing.T) {
	setupToolTest(t)
	handler := csvAnalysisHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[types.AnalysisParams]{
		Arguments: types.AnalysisParams{AnalysisType: "overview"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}
	if res.StructuredContent.AnalysisType != "overview" {
		t.Fatalf("analysis type = %q, want overview", res.StructuredContent.AnalysisType)
	}
	if res.StructuredContent.Rows != 5 {
		t.Fatalf("rows = %d, want 5", res.StructuredContent.Rows)
	}
	if !strings.Contains(textOf(t, res.Content), "DATASET OVERVIEW") {
		t.Fatalf("text missing overview header: %q", textOf(t, res.Content))
	}
}

func TestCSVAnalysisToolUnknownTypeFallsBack(t *testing.T) {
	setupToolTest(t)
	handler := csvAnalysisHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[types.AnalysisParams]{
		Arguments: types.AnalysisParams{AnalysisType: "sandwich_count"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.StructuredContent.AnalysisType != "overview" {
		t.Fatalf("analysis type = %q, want fallback to overview", res.StructuredContent.AnalysisType)
	}
}

func TestCSVAnalysisToolMissingDataset(t *testing.T) {
	setupToolTest(t)
	viper.Set("dataset.path", filepath.Join(t.TempDir(), "nope.csv"))
	handler := csvAnalysisHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[types.AnalysisParams]{
		Arguments: types.AnalysisParams{AnalysisType: "overview"},
	})
	if err != nil {
		t.Fatalf("dataset problems must not become transport errors: %v", err)
	}
	if res.IsError {
		t.Fatalf("dataset problems must come back as normal results")
	}
	if !strings.Contains(textOf(t, res.Content), "could not load the productivity dataset") {
		t.Fatalf("text = %q, want descriptive load failure", textOf(t, res.Content))
	}
	if res.StructuredContent.AnalysisType != "" {
		t.Fatalf("degraded result should carry no structured report")
	}
}

func TestRawDataTool(t *testing.T) {
	setupToolTest(t)
	handler := rawDataHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[types.RawDataParams]{
		Arguments: types.RawDataParams{DataFormat: "sample"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.StructuredContent.Format != "sample" {
		t.Fatalf("format = %q, want sample", res.StructuredContent.Format)
	}
	if res.StructuredContent.Rows != 5 || res.StructuredContent.Columns != 15 {
		t.Fatalf("got %d rows x %d columns, want 5 x 15", res.StructuredContent.Rows, res.StructuredContent.Columns)
	}
}

func TestRawDataToolUnknownFormatFallsBack(t *testing.T) {
	setupToolTest(t)
	handler := rawDataHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[types.RawDataParams]{
		Arguments: types.RawDataParams{DataFormat: "parquet"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.StructuredContent.Format != "sample" {
		t.Fatalf("format = %q, want fallback to sample", res.StructuredContent.Format)
	}
}

func TestArchiveReportToolSavesAndLists(t *testing.T) {
	setupToolTest(t)

	archiveHandler := archiveReportHandler()
	res, err := archiveHandler(context.Background(), nil, &mcp.CallToolParamsFor[types.ArchiveReportParams]{
		Arguments: types.ArchiveReportParams{AnalysisType: "time_trends"},
	})
	if err != nil {
		t.Fatalf("archive handler error: %v", err)
	}
	if res.StructuredContent.ID == "" {
		t.Fatalf("expected an archive ID, got %+v", res.StructuredContent)
	}
	if res.StructuredContent.AnalysisType != "time_trends" {
		t.Fatalf("analysis type = %q, want time_trends", res.StructuredContent.AnalysisType)
	}

	listHandler := listArchivedHandler()
	listRes, err := listHandler(context.Background(), nil, &mcp.CallToolParamsFor[types.ListArchivedParams]{
		Arguments: types.ListArchivedParams{Limit: 10},
	})
	if err != nil {
		t.Fatalf("list handler error: %v", err)
	}
	if listRes.StructuredContent.Count != 1 {
		t.Fatalf("count = %d, want 1", listRes.StructuredContent.Count)
	}
	if listRes.StructuredContent.Reports[0].ID != res.StructuredContent.ID {
		t.Fatalf("listed ID %q does not match archived ID %q",
			listRes.StructuredContent.Reports[0].ID, res.StructuredContent.ID)
	}
}

func TestArchiveReportToolMissingDataset(t *testing.T) {
	setupToolTest(t)
	viper.Set("dataset.path", filepath.Join(t.TempDir(), "nope.csv"))
	handler := archiveReportHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[types.ArchiveReportParams]{
		Arguments: types.ArchiveReportParams{AnalysisType: "overview"},
	})
	if err != nil {
		t.Fatalf("dataset problems must not become transport errors: %v", err)
	}
	if res.IsError {
		t.Fatalf("dataset problems must come back as normal results")
	}
	if res.StructuredContent.ID != "" {
		t.Fatalf("nothing should be archived on a degraded run")
	}
}

func TestListArchivedToolEmpty(t *testing.T) {
	setupToolTest(t)
	handler := listArchivedHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[types.ListArchivedParams]{
		Arguments: types.ListArchivedParams{},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.StructuredContent.Count != 0 {
		t.Fatalf("count = %d, want 0", res.StructuredContent.Count)
	}
	if !strings.Contains(textOf(t, res.Content), "No archived reports yet") {
		t.Fatalf("text = %q, want empty-archive message", textOf(t, res.Content))
	}
}
