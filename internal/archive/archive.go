// Package archive persists rendered analysis reports in a local SQLite
// database so past runs can be listed, re-read, and exported later.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

// Report is one archived analysis run.
type Report struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	DatasetPath string          `json:"dataset_path"`
	Rows        int             `json:"rows"`
	Text        string          `json:"text"`
	Payload     json.RawMessage `json:"report,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Summary is the listing view of an archived report, without the rendered
// text or structured payload.
type Summary struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	DatasetPath string    `json:"dataset_path"`
	Rows        int       `json:"rows"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is a SQLite-backed archive of analysis reports.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the archive database at dbPath. Pass
// ":memory:" for an ephemeral store.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create archive directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	store := &Store{db: db, path: dbPath}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// initSchema creates the reports table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		dataset_path TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		rendered_text TEXT NOT NULL,
		report_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports(kind);
	CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Save stores a report, assigning an ID and timestamp when missing.
func (s *Store) Save(r *Report) error {
	if r.ID == "" {
		r.ID = "r-" + uuid.New().String()[:8]
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	var payload sql.NullString
	if len(r.Payload) > 0 {
		payload = sql.NullString{String: string(r.Payload), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO reports (id, kind, dataset_path, row_count, rendered_text, report_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Kind, r.DatasetPath, r.Rows, r.Text, payload, r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

// List returns report summaries, newest first. A limit of 0 or less
// returns everything.
func (s *Store) List(limit int) ([]Summary, error) {
	query := `
		SELECT id, kind, dataset_path, row_count, created_at
		FROM reports ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		var createdAt string
		if err := rows.Scan(&sum.ID, &sum.Kind, &sum.DatasetPath, &sum.Rows, &createdAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return summaries, nil
}

// Get retrieves a report by ID. A unique ID prefix is accepted, so
// "r-1a2b" resolves the same report as its full ID.
func (s *Store) Get(id string) (*Report, error) {
	rep, err := s.getExact(id)
	if err == nil {
		return rep, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("query report: %w", err)
	}

	// Fall back to prefix matching.
	rows, err := s.db.Query("SELECT id FROM reports WHERE id LIKE ? ORDER BY id LIMIT 2", id+"%")
	if err != nil {
		return nil, fmt.Errorf("query report by prefix: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []string
	for rows.Next() {
		var matched string
		if err := rows.Scan(&matched); err != nil {
			return nil, fmt.Errorf("scan report id: %w", err)
		}
		matches = append(matches, matched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report ids: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("report not found: %s", id)
	case 1:
		return s.getExact(matches[0])
	default:
		return nil, fmt.Errorf("ambiguous report id %q: multiple reports match", id)
	}
}

func (s *Store) getExact(id string) (*Report, error) {
	var r Report
	var createdAt string
	var payload sql.NullString

	err := s.db.QueryRow(`
		SELECT id, kind, dataset_path, row_count, rendered_text, report_json, created_at
		FROM reports WHERE id = ?
	`, id).Scan(&r.ID, &r.Kind, &r.DatasetPath, &r.Rows, &r.Text, &payload, &createdAt)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if payload.Valid {
		r.Payload = json.RawMessage(payload.String)
	}

	return &r, nil
}

// Clear deletes every archived report and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	result, err := s.db.Exec("DELETE FROM reports")
	if err != nil {
		return 0, fmt.Errorf("clear reports: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear reports rows affected: %w", err)
	}
	return removed, nil
}

// Count returns the number of archived reports.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&n); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// exportDoc is the export shape shared by the YAML and JSON encoders. The
// structured payload is expanded so exports stay readable instead of
// carrying a quoted JSON blob.
type exportDoc struct {
	ID          string `json:"id" yaml:"id"`
	Kind        string `json:"kind" yaml:"kind"`
	DatasetPath string `json:"dataset_path" yaml:"dataset_path"`
	Rows        int    `json:"rows" yaml:"rows"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
	Text        string `json:"text" yaml:"text"`
	Report      any    `json:"report,omitempty" yaml:"report,omitempty"`
}

func (r *Report) exportDoc() exportDoc {
	doc := exportDoc{
		ID:          r.ID,
		Kind:        r.Kind,
		DatasetPath: r.DatasetPath,
		Rows:        r.Rows,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		Text:        r.Text,
	}
	if len(r.Payload) > 0 {
		var payload any
		if err := json.Unmarshal(r.Payload, &payload); err == nil {
			doc.Report = payload
		}
	}
	return doc
}

// ExportYAML renders the report as a YAML document.
func (r *Report) ExportYAML() (string, error) {
	out, err := yaml.Marshal(r.exportDoc())
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(out), nil
}

// ExportJSON renders the report as indented JSON.
func (r *Report) ExportJSON() (string, error) {
	out, err := json.MarshalIndent(r.exportDoc(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(out), nil
}
