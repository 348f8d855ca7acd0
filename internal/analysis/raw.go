package analysis

import (
	"fmt"
	"strings"

	"github.com/thoughtbruno/llm-researcher/internal/dataset"
)

// Preview holds a row-oriented slice of the dataset for the sample and
// full raw modes. Missing cells are already rendered as N/A.
type Preview struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
}

// NumericSummary pairs a numeric column with its descriptive statistics.
type NumericSummary struct {
	Name  string `json:"name"`
	Stats Stats  `json:"stats"`
}

// CategoricalSummary pairs a text column with its value counts.
type CategoricalSummary struct {
	Name   string               `json:"name"`
	Counts []dataset.ValueCount `json:"counts"`
}

// Summary is the structured form of the basic statistics raw mode.
type Summary struct {
	Records     int                  `json:"records"`
	Columns     int                  `json:"columns"`
	DateFrom    string               `json:"date_from,omitempty"`
	DateTo      string               `json:"date_to,omitempty"`
	Numeric     []NumericSummary     `json:"numeric"`
	Categorical []CategoricalSummary `json:"categorical"`
}

// sample slices the first n rows of the table into a preview.
func sample(t *dataset.Table, n int) *Preview {
	if n > t.Len() {
		n = t.Len()
	}
	return slice(t, n)
}

// fullDump returns the whole table, or a refusal message when the table
// exceeds the dump limit. No partial dump is produced in that case.
func fullDump(t *dataset.Table, limit int) (*Preview, string) {
	if t.Len() > limit {
		msg := fmt.Sprintf(
			"WARNING: the dataset has %s records, which is too large to return at once. Use 'sample' for a bounded preview or 'summary' for basic statistics.",
			formatCount(t.Len()),
		)
		return nil, msg
	}
	return slice(t, t.Len()), ""
}

func slice(t *dataset.Table, n int) *Preview {
	p := &Preview{
		Columns:   t.ColumnNames(),
		Rows:      make([][]string, 0, n),
		TotalRows: t.Len(),
	}
	cols := t.Columns()
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		for j, c := range cols {
			if c.IsMissing(i) {
				row[j] = "N/A"
			} else {
				row[j] = c.Value(i)
			}
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

func (p *Preview) render(full bool) string {
	var b strings.Builder
	if full {
		fmt.Fprintf(&b, "FULL DATASET (%s records):\n\n", formatCount(p.TotalRows))
	} else {
		fmt.Fprintf(&b, "DATA SAMPLE (first %s of %s total rows):\n\n", formatCount(len(p.Rows)), formatCount(p.TotalRows))
	}
	fmt.Fprintf(&b, "COLUMNS: %s\n\n", strings.Join(p.Columns, " | "))
	for i, row := range p.Rows {
		fmt.Fprintf(&b, "Row %d: %s\n", i+1, strings.Join(row, " | "))
	}
	if !full {
		fmt.Fprintf(&b, "\n... (showing %s of %s total records)\n", formatCount(len(p.Rows)), formatCount(p.TotalRows))
		b.WriteString("\nTo see the whole dataset, use data_format='full'")
	}
	return b.String()
}

// renderColumns formats the schema description as the columns raw mode.
func renderColumns(info dataset.SchemaInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "COLUMN INFORMATION (%d columns, %s records):\n\n", len(info.Columns), formatCount(info.Rows))
	for _, c := range info.Columns {
		fmt.Fprintf(&b, "• %s: %s | Nulls: %d | Distinct: %d", c.Name, c.Kind, c.Nulls, c.Distinct)
		switch {
		case c.Min != nil && c.Max != nil:
			fmt.Fprintf(&b, " | Range: %s-%s", formatNumber(*c.Min), formatNumber(*c.Max))
		case c.First != "":
			fmt.Fprintf(&b, " | Range: %s to %s", c.First, c.Last)
		case len(c.Examples) > 0:
			fmt.Fprintf(&b, " | Examples: %s", strings.Join(c.Examples, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// summarize computes the basic statistics raw mode: per-numeric-column
// describe() plus per-categorical value counts, date columns excluded.
func summarize(t *dataset.Table) *Summary {
	s := &Summary{
		Records: t.Len(),
		Columns: t.NumColumns(),
	}
	if date, ok := t.DateColumn(); ok {
		if first, last, ok := date.TimeRange(); ok {
			s.DateFrom = first.Format("2006-01-02")
			s.DateTo = last.Format("2006-01-02")
		}
	}
	for _, c := range t.NumericColumns() {
		vals := c.Floats()
		if len(vals) == 0 {
			continue
		}
		s.Numeric = append(s.Numeric, NumericSummary{Name: c.Name, Stats: describe(vals)})
	}
	for _, c := range t.CategoricalColumns() {
		s.Categorical = append(s.Categorical, CategoricalSummary{Name: c.Name, Counts: c.ValueCounts()})
	}
	return s
}

func (s *Summary) render() string {
	var b strings.Builder
	b.WriteString("BASIC DATASET SUMMARY:\n\n")
	fmt.Fprintf(&b, "• Total records: %s\n", formatCount(s.Records))
	fmt.Fprintf(&b, "• Total columns: %d\n", s.Columns)
	if s.DateFrom != "" {
		fmt.Fprintf(&b, "• Period: %s to %s\n", s.DateFrom, s.DateTo)
	}

	b.WriteString("\nNUMERIC COLUMN STATISTICS:\n")
	for _, ns := range s.Numeric {
		fmt.Fprintf(&b, "\n%s:\n", ns.Name)
		fmt.Fprintf(&b, "  Mean: %.3f\n", ns.Stats.Mean)
		fmt.Fprintf(&b, "  Median: %.3f\n", ns.Stats.Median)
		fmt.Fprintf(&b, "  Min: %.3f | Max: %.3f\n", ns.Stats.Min, ns.Stats.Max)
		fmt.Fprintf(&b, "  Std dev: %.3f\n", ns.Stats.Std)
	}

	if len(s.Categorical) > 0 {
		b.WriteString("\nCATEGORICAL VALUE COUNTS:\n")
		for _, cs := range s.Categorical {
			parts := make([]string, 0, len(cs.Counts))
			for _, vc := range cs.Counts {
				parts = append(parts, fmt.Sprintf("%s=%d", vc.Value, vc.Count))
			}
			fmt.Fprintf(&b, "\n%s: %s\n", cs.Name, strings.Join(parts, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
