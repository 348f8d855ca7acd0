package dataset

// Canonical column names of the garment-worker-productivity dataset.
// Reports look these up by name and skip sections when a column is absent.
const (
	ColDate         = "date"
	ColQuarter      = "quarter"
	ColDepartment   = "department"
	ColDay          = "day"
	ColTeam         = "team"
	ColTargeted     = "targeted_productivity"
	ColSMV          = "smv"
	ColWIP          = "wip"
	ColOvertime     = "over_time"
	ColIdleTime     = "idle_time"
	ColIdleMen      = "idle_men"
	ColStyleChanges = "no_of_style_change"
	ColWorkers      = "no_of_workers"
	ColIncentive    = "incentive"
	ColActual       = "actual_productivity"
)

// CoreColumns are the columns the analysis reports depend on.
func CoreColumns() []string {
	return []string{
		ColDate,
		ColDepartment,
		ColTeam,
		ColTargeted,
		ColActual,
		ColWorkers,
	}
}

// ColumnInfo describes one column for schema output.
type ColumnInfo struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Role     string   `json:"role"`
	Nulls    int      `json:"nulls"`
	Distinct int      `json:"distinct"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	First    string   `json:"first,omitempty"`
	Last     string   `json:"last,omitempty"`
	Examples []string `json:"examples,omitempty"`
}

// SchemaInfo describes the whole table for schema output.
type SchemaInfo struct {
	Path    string       `json:"path"`
	Rows    int          `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
}

// Describe builds the schema description of a table: per-column kind,
// role, null and distinct counts, plus a numeric range, date range, or
// example values depending on the kind.
func Describe(t *Table) SchemaInfo {
	info := SchemaInfo{
		Path:    t.Path(),
		Rows:    t.Len(),
		Columns: make([]ColumnInfo, 0, t.NumColumns()),
	}
	for _, c := range t.Columns() {
		ci := ColumnInfo{
			Name:     c.Name,
			Kind:     c.Kind.String(),
			Role:     c.Role.String(),
			Nulls:    c.NullCount(),
			Distinct: c.DistinctCount(),
		}
		switch c.Kind {
		case KindNumber:
			if min, max, ok := c.MinMax(); ok {
				ci.Min = &min
				ci.Max = &max
			}
		case KindDate:
			if first, last, ok := c.TimeRange(); ok {
				ci.First = first.Format("2006-01-02")
				ci.Last = last.Format("2006-01-02")
			}
		default:
			for _, vc := range c.TopValues(3) {
				ci.Examples = append(ci.Examples, vc.Value)
			}
		}
		info.Columns = append(info.Columns, ci)
	}
	return info
}

// MissingCore returns the core report columns absent from the table.
func MissingCore(t *Table) []string {
	var missing []string
	for _, name := range CoreColumns() {
		if _, ok := t.Column(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
