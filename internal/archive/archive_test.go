package archive

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSaveAssignsIDAndTimestamp(t *testing.T) {
	store := setupTestStore(t)

	r := Report{
		Kind:        "overview",
		DatasetPath: "data/productivity.csv",
		Rows:        1197,
		Text:        "=== Dataset Overview ===",
	}
	if err := store.Save(&r); err != nil {
		t.Fatalf("save report: %v", err)
	}

	if r.ID == "" {
		t.Error("expected generated ID")
	}
	if !strings.HasPrefix(r.ID, "r-") {
		t.Errorf("expected r- prefix, got %q", r.ID)
	}
	if r.CreatedAt.IsZero() {
		t.Error("expected timestamp to be set")
	}

	got, err := store.Get(r.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got.Kind != "overview" {
		t.Errorf("expected kind 'overview', got %q", got.Kind)
	}
	if got.Rows != 1197 {
		t.Errorf("expected 1197 rows, got %d", got.Rows)
	}
	if got.Text != "=== Dataset Overview ===" {
		t.Errorf("unexpected text %q", got.Text)
	}
}

func TestSavePreservesPayload(t *testing.T) {
	store := setupTestStore(t)

	payload, _ := json.Marshal(map[string]any{"rows": 3, "columns": 15})
	r := Report{Kind: "overview", DatasetPath: "d.csv", Rows: 3, Text: "x", Payload: payload}
	if err := store.Save(&r); err != nil {
		t.Fatalf("save report: %v", err)
	}

	got, err := store.Get(r.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(got.Payload, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded["columns"] != float64(15) {
		t.Errorf("expected columns=15 in payload, got %v", decoded["columns"])
	}
}

func TestGetByPrefix(t *testing.T) {
	store := setupTestStore(t)

	r := Report{ID: "r-abc12345", Kind: "time_trends", DatasetPath: "d.csv", Text: "t"}
	if err := store.Save(&r); err != nil {
		t.Fatalf("save report: %v", err)
	}

	got, err := store.Get("r-abc")
	if err != nil {
		t.Fatalf("get by prefix: %v", err)
	}
	if got.ID != "r-abc12345" {
		t.Errorf("expected full ID resolution, got %q", got.ID)
	}

	if _, err := store.Get("r-zzz"); err == nil {
		t.Error("expected error for unknown prefix")
	}
}

func TestGetAmbiguousPrefix(t *testing.T) {
	store := setupTestStore(t)

	for _, id := range []string{"r-aa111111", "r-aa222222"} {
		r := Report{ID: id, Kind: "overview", DatasetPath: "d.csv", Text: "t"}
		if err := store.Save(&r); err != nil {
			t.Fatalf("save report: %v", err)
		}
	}

	_, err := store.Get("r-aa")
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	if !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguous error, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, kind := range []string{"overview", "productivity_stats", "department_analysis"} {
		r := Report{
			Kind:        kind,
			DatasetPath: "d.csv",
			Text:        "t",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(&r); err != nil {
			t.Fatalf("save report: %v", err)
		}
	}

	all, err := store.List(0)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(all))
	}
	if all[0].Kind != "department_analysis" {
		t.Errorf("expected newest first, got %q", all[0].Kind)
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(limited))
	}
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 3; i++ {
		r := Report{Kind: "overview", DatasetPath: "d.csv", Text: "t"}
		if err := store.Save(&r); err != nil {
			t.Fatalf("save report: %v", err)
		}
	}

	removed, err := store.Clear()
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed, got %d", removed)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty archive, got %d reports", n)
	}
}

func TestExportFormats(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{"mean": 0.735})
	r := Report{
		ID:          "r-deadbeef",
		Kind:        "productivity_stats",
		DatasetPath: "d.csv",
		Rows:        10,
		Text:        "Productivity Statistics",
		Payload:     payload,
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	yamlOut, err := r.ExportYAML()
	if err != nil {
		t.Fatalf("export yaml: %v", err)
	}
	if !strings.Contains(yamlOut, "kind: productivity_stats") {
		t.Errorf("yaml missing kind field:\n%s", yamlOut)
	}
	if !strings.Contains(yamlOut, "mean: 0.735") {
		t.Errorf("yaml should expand the structured payload:\n%s", yamlOut)
	}

	jsonOut, err := r.ExportJSON()
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(jsonOut), &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded["id"] != "r-deadbeef" {
		t.Errorf("expected id in export, got %v", decoded["id"])
	}
	report, ok := decoded["report"].(map[string]any)
	if !ok {
		t.Fatalf("expected expanded report payload, got %T", decoded["report"])
	}
	if report["mean"] != 0.735 {
		t.Errorf("expected mean=0.735, got %v", report["mean"])
	}
}
