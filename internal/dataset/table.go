// Package dataset loads the productivity CSV into an immutable, typed
// in-memory table. Every caller loads fresh from disk; nothing in this
// package caches parsed data between calls.
package dataset

import (
	"sort"
	"time"
)

// Kind is the inferred value type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Role classifies how a column is used in reports.
type Role int

const (
	// RoleDimension marks low-cardinality grouping keys (departments, teams).
	RoleDimension Role = iota
	// RoleMeasure marks numeric columns carrying values to aggregate.
	RoleMeasure
	// RoleIdentifier marks columns where every non-missing value is distinct.
	RoleIdentifier
	// RoleTime marks date columns.
	RoleTime
)

func (r Role) String() string {
	switch r {
	case RoleMeasure:
		return "measure"
	case RoleIdentifier:
		return "identifier"
	case RoleTime:
		return "time"
	default:
		return "dimension"
	}
}

// ValueCount is one entry of a categorical frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Column holds one parsed dataset column. Cells are stored as trimmed raw
// text plus, depending on the inferred kind, parsed numeric or time values.
type Column struct {
	Name string
	Kind Kind
	Role Role

	raw     []string
	nums    []float64
	times   []time.Time
	missing []bool

	nullCount int
	distinct  int
}

// Len returns the number of rows in the column.
func (c *Column) Len() int { return len(c.raw) }

// Value returns the raw cell text at row i ("" when missing).
func (c *Column) Value(i int) string { return c.raw[i] }

// IsMissing reports whether the cell at row i held a null token.
func (c *Column) IsMissing(i int) bool { return c.missing[i] }

// Float returns the numeric value at row i. The second return is false for
// missing cells, unparsable cells, and non-numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.Kind != KindNumber || c.missing[i] || c.nums == nil {
		return 0, false
	}
	v := c.nums[i]
	if v != v { // NaN marks cells that did not parse
		return 0, false
	}
	return v, true
}

// Time returns the parsed date at row i for date columns.
func (c *Column) Time(i int) (time.Time, bool) {
	if c.Kind != KindDate || c.missing[i] || c.times == nil {
		return time.Time{}, false
	}
	t := c.times[i]
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// NullCount returns how many cells held a null token.
func (c *Column) NullCount() int { return c.nullCount }

// DistinctCount returns the number of distinct non-missing values.
func (c *Column) DistinctCount() int { return c.distinct }

// Floats returns the parseable numeric values in row order, skipping
// missing cells. The slice is freshly allocated.
func (c *Column) Floats() []float64 {
	if c.Kind != KindNumber {
		return nil
	}
	out := make([]float64, 0, len(c.raw))
	for i := range c.raw {
		if v, ok := c.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

// MinMax returns the numeric range of the column. ok is false when the
// column is not numeric or holds no parseable values.
func (c *Column) MinMax() (min, max float64, ok bool) {
	for i := range c.raw {
		v, valid := c.Float(i)
		if !valid {
			continue
		}
		if !ok {
			min, max, ok = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}

// TimeRange returns the earliest and latest dates in a date column.
func (c *Column) TimeRange() (first, last time.Time, ok bool) {
	for i := range c.raw {
		t, valid := c.Time(i)
		if !valid {
			continue
		}
		if !ok {
			first, last, ok = t, t, true
			continue
		}
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return first, last, ok
}

// ValueCounts returns the frequency table of non-missing values, most
// frequent first. Ties keep first-appearance order so output is stable.
func (c *Column) ValueCounts() []ValueCount {
	counts := make(map[string]int)
	order := make(map[string]int)
	for i := range c.raw {
		if c.missing[i] {
			continue
		}
		v := c.raw[i]
		if _, seen := counts[v]; !seen {
			order[v] = len(order)
		}
		counts[v]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return order[out[i].Value] < order[out[j].Value]
	})
	return out
}

// TopValues returns at most n entries of the frequency table.
func (c *Column) TopValues(n int) []ValueCount {
	counts := c.ValueCounts()
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Table is a parsed dataset. It is read-only after construction: report
// code derives everything it needs into locals and never writes back.
type Table struct {
	path  string
	rows  int
	cols  []*Column
	index map[string]int
}

// Path returns the source file path the table was loaded from.
func (t *Table) Path() string { return t.path }

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.cols) }

// Columns returns the columns in file order.
func (t *Table) Columns() []*Column { return t.cols }

// ColumnNames returns the header names in file order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// DateColumn returns the first date-typed column, if any.
func (t *Table) DateColumn() (*Column, bool) {
	for _, c := range t.cols {
		if c.Kind == KindDate {
			return c, true
		}
	}
	return nil, false
}

// NumericColumns returns the numeric columns in file order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.cols {
		if c.Kind == KindNumber {
			out = append(out, c)
		}
	}
	return out
}

// CategoricalColumns returns the text columns in file order.
func (t *Table) CategoricalColumns() []*Column {
	var out []*Column
	for _, c := range t.cols {
		if c.Kind == KindText {
			out = append(out, c)
		}
	}
	return out
}
