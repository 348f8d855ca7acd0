package analysis

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoughtbruno/llm-researcher/internal/dataset"
)

// Kind names one of the fixed statistical reports.
type Kind string

const (
	KindOverview     Kind = "overview"
	KindProductivity Kind = "productivity_stats"
	KindDepartments  Kind = "department_analysis"
	KindTimeTrends   Kind = "time_trends"
	KindCorrelations Kind = "correlation_analysis"
)

// Kinds lists the report kinds in their canonical order.
func Kinds() []Kind {
	return []Kind{KindOverview, KindProductivity, KindDepartments, KindTimeTrends, KindCorrelations}
}

// ParseKind maps a request token to a report kind. Unrecognized tokens
// fall back to the overview report rather than failing the call.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindProductivity:
		return KindProductivity
	case KindDepartments:
		return KindDepartments
	case KindTimeTrends:
		return KindTimeTrends
	case KindCorrelations:
		return KindCorrelations
	default:
		return KindOverview
	}
}

// RawFormat names one of the raw data access modes.
type RawFormat string

const (
	FormatSample  RawFormat = "sample"
	FormatFull    RawFormat = "full"
	FormatColumns RawFormat = "columns"
	FormatSummary RawFormat = "summary"
)

// RawFormats lists the raw modes in their canonical order.
func RawFormats() []RawFormat {
	return []RawFormat{FormatSample, FormatFull, FormatColumns, FormatSummary}
}

// ParseRawFormat maps a request token to a raw mode, falling back to the
// bounded sample preview for unrecognized tokens.
func ParseRawFormat(s string) RawFormat {
	switch RawFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatFull:
		return FormatFull
	case FormatColumns:
		return FormatColumns
	case FormatSummary:
		return FormatSummary
	default:
		return FormatSample
	}
}

// Default bounds for the raw access modes.
const (
	DefaultSampleRows    = 50
	DefaultFullDumpLimit = 500
)

// Options bound the raw access modes.
type Options struct {
	// SampleRows is the preview size for the sample mode.
	SampleRows int
	// FullDumpLimit is the row count above which full dumps are refused.
	FullDumpLimit int
}

func (o Options) withDefaults() Options {
	if o.SampleRows <= 0 {
		o.SampleRows = DefaultSampleRows
	}
	if o.FullDumpLimit <= 0 {
		o.FullDumpLimit = DefaultFullDumpLimit
	}
	return o
}

// Report is a built statistical report that can render itself as text.
type Report interface {
	Render() string
}

// Result is the outcome of one analysis invocation. When the dataset
// cannot be loaded, Text carries the descriptive message and Err the
// underlying reason; the call itself still succeeds.
type Result struct {
	Kind   Kind   `json:"analysis_type"`
	Rows   int    `json:"rows"`
	Text   string `json:"text"`
	Report any    `json:"report,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Failed reports whether the invocation degraded instead of computing.
func (r *Result) Failed() bool { return r.Err != "" }

// RawResult is the outcome of one raw data access invocation.
type RawResult struct {
	Format  RawFormat `json:"format"`
	Rows    int       `json:"rows"`
	Columns int       `json:"columns"`
	Text    string    `json:"text"`
	Data    any       `json:"data,omitempty"`
	Err     string    `json:"error,omitempty"`
}

// Failed reports whether the invocation degraded instead of computing.
func (r *RawResult) Failed() bool { return r.Err != "" }

// Run loads the dataset fresh from disk and computes the requested
// report. Unknown kinds fall back to the overview; a missing or
// unreadable file yields a descriptive message, never a panic.
func Run(fs afero.Fs, path string, kindToken string) *Result {
	kind := ParseKind(kindToken)
	tbl, err := dataset.Load(fs, path)
	if err != nil {
		return &Result{Kind: kind, Text: loadFailureText(err), Err: err.Error()}
	}
	rep := Build(kind, tbl)
	return &Result{Kind: kind, Rows: tbl.Len(), Text: rep.Render(), Report: rep}
}

// Build computes the report of the given kind over an already loaded
// table. Callers that run several reports over one load use this
// directly; Run wraps it with the fresh load.
func Build(kind Kind, t *dataset.Table) Report {
	switch kind {
	case KindProductivity:
		return Productivity(t)
	case KindDepartments:
		return Departments(t)
	case KindTimeTrends:
		return TimeTrends(t)
	case KindCorrelations:
		return Correlations(t)
	default:
		return Overview(t)
	}
}

// RunRaw loads the dataset fresh from disk and returns it in the
// requested raw format, subject to the preview and dump bounds.
func RunRaw(fs afero.Fs, path string, formatToken string, opts Options) *RawResult {
	format := ParseRawFormat(formatToken)
	tbl, err := dataset.Load(fs, path)
	if err != nil {
		return &RawResult{Format: format, Text: loadFailureText(err), Err: err.Error()}
	}
	return BuildRaw(format, tbl, opts)
}

// BuildRaw renders an already loaded table in the requested raw format.
func BuildRaw(format RawFormat, t *dataset.Table, opts Options) *RawResult {
	opts = opts.withDefaults()
	res := &RawResult{Format: format, Rows: t.Len(), Columns: t.NumColumns()}
	switch format {
	case FormatFull:
		data, refused := fullDump(t, opts.FullDumpLimit)
		if refused != "" {
			res.Text = refused
			return res
		}
		res.Data = data
		res.Text = data.render(true)
	case FormatColumns:
		info := dataset.Describe(t)
		res.Data = info
		res.Text = renderColumns(info)
	case FormatSummary:
		data := summarize(t)
		res.Data = data
		res.Text = data.render()
	default:
		data := sample(t, opts.SampleRows)
		res.Data = data
		res.Text = data.render(false)
	}
	return res
}

func loadFailureText(err error) string {
	return fmt.Sprintf("Error: could not load the productivity dataset (%v)", err)
}
