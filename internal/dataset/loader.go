package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Cell tokens treated as missing values.
var nullTokens = map[string]bool{
	"":     true,
	"null": true,
	"NULL": true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
}

// Date layouts tried during type inference, most common first.
var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
}

// typeThreshold is the share of non-missing values that must parse as a
// kind before the column is typed as that kind.
const typeThreshold = 0.8

// Load reads and parses the CSV at path. It always reads from the
// filesystem; callers that need current data simply call Load again.
func Load(fs afero.Fs, path string) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := Read(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV content into a Table. The header row is required.
func Read(r io.Reader, path string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i] = &Column{Name: name}
	}

	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+2, err)
		}
		for i := range cols {
			cell := ""
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			miss := nullTokens[cell]
			if miss {
				cell = ""
				cols[i].nullCount++
			}
			cols[i].raw = append(cols[i].raw, cell)
			cols[i].missing = append(cols[i].missing, miss)
		}
		rows++
	}

	if rows == 0 {
		return nil, fmt.Errorf("file has a header but no data rows")
	}

	t := &Table{
		path:  path,
		rows:  rows,
		cols:  cols,
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		inferColumn(c, rows)
		t.index[c.Name] = i
	}
	return t, nil
}

// inferColumn types a column from its raw values, parses typed vectors,
// and assigns its report role.
func inferColumn(c *Column, rows int) {
	var nonMissing, numeric, dates, integral int
	distinct := make(map[string]struct{})

	for i, v := range c.raw {
		if c.missing[i] {
			continue
		}
		nonMissing++
		distinct[v] = struct{}{}
		if f, ok := parseNumber(v); ok {
			numeric++
			if f == math.Trunc(f) {
				integral++
			}
			continue
		}
		if _, ok := parseDate(v); ok {
			dates++
		}
	}
	c.distinct = len(distinct)

	if nonMissing == 0 {
		c.Kind = KindText
		c.Role = RoleDimension
		return
	}

	threshold := int(float64(nonMissing) * typeThreshold)
	if threshold < 1 {
		threshold = 1
	}
	switch {
	case numeric >= threshold:
		c.Kind = KindNumber
		c.nums = make([]float64, len(c.raw))
		for i, v := range c.raw {
			c.nums[i] = math.NaN()
			if c.missing[i] {
				continue
			}
			if f, ok := parseNumber(v); ok {
				c.nums[i] = f
			}
		}
	case dates >= threshold:
		c.Kind = KindDate
		c.times = make([]time.Time, len(c.raw))
		for i, v := range c.raw {
			if c.missing[i] {
				continue
			}
			if t, ok := parseDate(v); ok {
				c.times[i] = t
			}
		}
	default:
		c.Kind = KindText
	}

	c.Role = classify(c, rows, nonMissing, integral == numeric)
}

// classify assigns a report role. Identifier beats everything; numeric
// columns are measures unless they look like small integer codes; text
// columns group rows.
func classify(c *Column, rows, nonMissing int, allIntegral bool) Role {
	switch c.Kind {
	case KindDate:
		return RoleTime
	case KindNumber:
		if c.distinct == nonMissing && rows > 10 {
			return RoleIdentifier
		}
		if allIntegral {
			// Small integer codes (team numbers) group rows; a raw count
			// threshold alone misreads small datasets, so require both.
			ratio := float64(c.distinct) / float64(rows)
			if c.distinct < 20 && ratio < 0.3 {
				return RoleDimension
			}
		}
		return RoleMeasure
	default:
		if c.distinct == nonMissing && rows > 10 {
			return RoleIdentifier
		}
		return RoleDimension
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
