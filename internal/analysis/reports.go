package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/thoughtbruno/llm-researcher/internal/dataset"
)

// DepartmentShare is one department's slice of the record count.
type DepartmentShare struct {
	Name     string  `json:"name"`
	Records  int     `json:"records"`
	SharePct float64 `json:"share_pct"`
}

// OverviewReport summarizes the whole dataset: coverage, headcount, and
// how achieved productivity compares to the target.
type OverviewReport struct {
	TotalRecords int               `json:"total_records"`
	DateFrom     string            `json:"date_from,omitempty"`
	DateTo       string            `json:"date_to,omitempty"`
	Departments  []DepartmentShare `json:"departments"`
	Teams        int               `json:"teams"`
	TotalWorkers float64           `json:"total_workers"`
	MeanActual   float64           `json:"mean_actual_productivity"`
	MeanTarget   float64           `json:"mean_targeted_productivity"`
	GapPct       float64           `json:"performance_gap_pct"`
}

// Overview builds the dataset overview report. Sections whose columns are
// absent from the table are left zero and skipped when rendering.
func Overview(t *dataset.Table) *OverviewReport {
	r := &OverviewReport{TotalRecords: t.Len()}

	if date, ok := t.DateColumn(); ok {
		if first, last, ok := date.TimeRange(); ok {
			r.DateFrom = first.Format("2006-01-02")
			r.DateTo = last.Format("2006-01-02")
		}
	}
	if dept, ok := t.Column(dataset.ColDepartment); ok {
		for _, vc := range dept.ValueCounts() {
			share := 0.0
			if r.TotalRecords > 0 {
				share = float64(vc.Count) / float64(r.TotalRecords) * 100
			}
			r.Departments = append(r.Departments, DepartmentShare{Name: vc.Value, Records: vc.Count, SharePct: share})
		}
	}
	if team, ok := t.Column(dataset.ColTeam); ok {
		r.Teams = team.DistinctCount()
	}
	if workers, ok := t.Column(dataset.ColWorkers); ok {
		for _, v := range workers.Floats() {
			r.TotalWorkers += v
		}
	}

	r.MeanActual = columnMean(t, dataset.ColActual)
	r.MeanTarget = columnMean(t, dataset.ColTargeted)
	if r.MeanTarget != 0 {
		r.GapPct = (r.MeanActual - r.MeanTarget) / r.MeanTarget * 100
	}
	return r
}

func (r *OverviewReport) Render() string {
	var b strings.Builder
	b.WriteString("DATASET OVERVIEW:\n")
	fmt.Fprintf(&b, "• Total records: %s\n", formatCount(r.TotalRecords))
	if r.DateFrom != "" {
		fmt.Fprintf(&b, "• Period analyzed: %s to %s\n", r.DateFrom, r.DateTo)
	}
	if len(r.Departments) > 0 {
		names := make([]string, len(r.Departments))
		for i, d := range r.Departments {
			names[i] = d.Name
		}
		fmt.Fprintf(&b, "• Departments: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "• Number of teams: %d\n", r.Teams)
	fmt.Fprintf(&b, "• Total workers: %s\n", formatNumber(r.TotalWorkers))

	b.WriteString("\nPRODUCTIVITY METRICS:\n")
	fmt.Fprintf(&b, "• Mean actual productivity: %.3f (%.1f%%)\n", r.MeanActual, r.MeanActual*100)
	fmt.Fprintf(&b, "• Mean targeted productivity: %.3f (%.1f%%)\n", r.MeanTarget, r.MeanTarget*100)
	fmt.Fprintf(&b, "• Performance gap: %+.1f%%\n", r.GapPct)

	if len(r.Departments) > 0 {
		b.WriteString("\nRECORDS BY DEPARTMENT:\n")
		for _, d := range r.Departments {
			fmt.Fprintf(&b, "• %s: %s records (%.1f%%)\n", d.Name, formatCount(d.Records), d.SharePct)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ProductivityReport details how achieved productivity distributes and
// how rows compare to their targets.
type ProductivityReport struct {
	Records        int     `json:"records"`
	AboveTarget    int     `json:"above_target"`
	BelowTarget    int     `json:"below_target"`
	AtTarget       int     `json:"at_target"`
	Distribution   Stats   `json:"distribution"`
	HighPerformers int     `json:"high_performers"`
	LowPerformers  int     `json:"low_performers"`
	VariationPct   float64 `json:"coefficient_of_variation_pct"`
}

// Productivity builds the detailed productivity report. Target comparison
// and efficiency buckets count only rows where both actual and targeted
// productivity are present; the distribution covers every actual value.
func Productivity(t *dataset.Table) *ProductivityReport {
	r := &ProductivityReport{Records: t.Len()}

	actual, okActual := t.Column(dataset.ColActual)
	target, okTarget := t.Column(dataset.ColTargeted)
	if okActual {
		r.Distribution = describe(actual.Floats())
	}
	if okActual && okTarget {
		for i := 0; i < t.Len(); i++ {
			av, ok := actual.Float(i)
			if !ok {
				continue
			}
			tv, ok := target.Float(i)
			if !ok {
				continue
			}
			switch {
			case av > tv:
				r.AboveTarget++
			case av < tv:
				r.BelowTarget++
			default:
				r.AtTarget++
			}
			if tv == 0 {
				continue
			}
			switch eff := av / tv; {
			case eff > 1.1:
				r.HighPerformers++
			case eff < 0.9:
				r.LowPerformers++
			}
		}
	}
	if r.Distribution.Mean != 0 {
		r.VariationPct = r.Distribution.Std / r.Distribution.Mean * 100
	}
	return r
}

func (r *ProductivityReport) Render() string {
	share := func(n int) float64 {
		if r.Records == 0 {
			return 0
		}
		return float64(n) / float64(r.Records) * 100
	}

	var b strings.Builder
	b.WriteString("PRODUCTIVITY STATISTICS:\n")
	b.WriteString("\nPERFORMANCE vs TARGET:\n")
	fmt.Fprintf(&b, "• Above target: %s records (%.1f%%)\n", formatCount(r.AboveTarget), share(r.AboveTarget))
	fmt.Fprintf(&b, "• Below target: %s records (%.1f%%)\n", formatCount(r.BelowTarget), share(r.BelowTarget))
	fmt.Fprintf(&b, "• At target: %s records (%.1f%%)\n", formatCount(r.AtTarget), share(r.AtTarget))

	d := r.Distribution
	b.WriteString("\nPRODUCTIVITY DISTRIBUTION:\n")
	fmt.Fprintf(&b, "• Min: %.3f (%.1f%%)\n", d.Min, d.Min*100)
	fmt.Fprintf(&b, "• 25th percentile: %.3f (%.1f%%)\n", d.P25, d.P25*100)
	fmt.Fprintf(&b, "• Median: %.3f (%.1f%%)\n", d.Median, d.Median*100)
	fmt.Fprintf(&b, "• Mean: %.3f (%.1f%%)\n", d.Mean, d.Mean*100)
	fmt.Fprintf(&b, "• 75th percentile: %.3f (%.1f%%)\n", d.P75, d.P75*100)
	fmt.Fprintf(&b, "• Max: %.3f (%.1f%%)\n", d.Max, d.Max*100)
	fmt.Fprintf(&b, "• Std dev: %.3f\n", d.Std)

	b.WriteString("\nEFFICIENCY:\n")
	fmt.Fprintf(&b, "• High performers (>110%% of target): %s records (%.1f%%)\n", formatCount(r.HighPerformers), share(r.HighPerformers))
	fmt.Fprintf(&b, "• Low performers (<90%% of target): %s records (%.1f%%)\n", formatCount(r.LowPerformers), share(r.LowPerformers))
	fmt.Fprintf(&b, "• Coefficient of variation: %.1f%%", r.VariationPct)
	return b.String()
}

// DepartmentStats aggregates one department's rows.
type DepartmentStats struct {
	Name         string  `json:"name"`
	Records      int     `json:"records"`
	Workers      float64 `json:"workers"`
	MeanActual   float64 `json:"mean_actual_productivity"`
	StdActual    float64 `json:"std_actual_productivity"`
	MinActual    float64 `json:"min_actual_productivity"`
	MaxActual    float64 `json:"max_actual_productivity"`
	MeanTarget   float64 `json:"mean_targeted_productivity"`
	GapPct       float64 `json:"performance_gap_pct"`
	MeanOvertime float64 `json:"mean_overtime"`
	MeanIdleTime float64 `json:"mean_idle_time"`
}

// DepartmentReport compares departments, ascending by name.
type DepartmentReport struct {
	Departments []DepartmentStats `json:"departments"`
}

// Departments builds the per-department report. A department appears once
// it has at least one actual-productivity value; supporting measures that
// are absent from the table leave their fields zero.
func Departments(t *dataset.Table) *DepartmentReport {
	r := &DepartmentReport{}
	dept, ok := t.Column(dataset.ColDepartment)
	if !ok {
		return r
	}

	key := func(i int) (string, bool) {
		if dept.IsMissing(i) {
			return "", false
		}
		return dept.Value(i), true
	}
	measure := func(name string) func(i int) (float64, bool) {
		c, ok := t.Column(name)
		if !ok {
			return func(int) (float64, bool) { return 0, false }
		}
		return c.Float
	}

	rows := t.Len()
	actual := groupedStats(rows, key, measure(dataset.ColActual))
	targets := groupedStats(rows, key, measure(dataset.ColTargeted))
	workers := groupedStats(rows, key, measure(dataset.ColWorkers))
	overtime := groupedStats(rows, key, measure(dataset.ColOvertime))
	idle := groupedStats(rows, key, measure(dataset.ColIdleTime))

	for _, name := range sortedKeys(actual) {
		a := actual[name]
		d := DepartmentStats{
			Name:       name,
			Records:    a.n,
			MeanActual: a.mean,
			StdActual:  a.std(),
			MinActual:  a.min,
			MaxActual:  a.max,
		}
		if g := targets[name]; g != nil {
			d.MeanTarget = g.mean
			if g.mean != 0 {
				d.GapPct = (a.mean - g.mean) / g.mean * 100
			}
		}
		if g := workers[name]; g != nil {
			d.Workers = g.sum
		}
		if g := overtime[name]; g != nil {
			d.MeanOvertime = g.mean
		}
		if g := idle[name]; g != nil {
			d.MeanIdleTime = g.mean
		}
		r.Departments = append(r.Departments, d)
	}
	return r
}

func (r *DepartmentReport) Render() string {
	if len(r.Departments) == 0 {
		return "DEPARTMENT ANALYSIS:\n\nNo department column found in the dataset."
	}
	var b strings.Builder
	b.WriteString("DEPARTMENT ANALYSIS:\n")
	for _, d := range r.Departments {
		fmt.Fprintf(&b, "\nDEPARTMENT: %s\n", strings.ToUpper(d.Name))
		fmt.Fprintf(&b, "• Records: %s\n", formatCount(d.Records))
		fmt.Fprintf(&b, "• Total workers: %s\n", formatNumber(d.Workers))
		fmt.Fprintf(&b, "• Mean productivity: %.3f (%.1f%%)\n", d.MeanActual, d.MeanActual*100)
		fmt.Fprintf(&b, "• Productivity range: %.3f-%.3f (std %.3f)\n", d.MinActual, d.MaxActual, d.StdActual)
		fmt.Fprintf(&b, "• Mean target: %.3f (%.1f%%)\n", d.MeanTarget, d.MeanTarget*100)
		fmt.Fprintf(&b, "• Performance gap: %+.1f%%\n", d.GapPct)
		fmt.Fprintf(&b, "• Mean overtime: %.1fh\n", d.MeanOvertime)
		fmt.Fprintf(&b, "• Mean idle time: %.1fmin\n", d.MeanIdleTime)
	}
	return strings.TrimRight(b.String(), "\n")
}

// GroupMean is one group's mean productivity with its row count.
type GroupMean struct {
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	N     int     `json:"n"`
}

// TimeTrendsReport tracks mean productivity over quarters, calendar
// months, and weekdays. Months keep calendar order; weekdays are sorted
// by productivity, best first.
type TimeTrendsReport struct {
	Quarters         []GroupMean `json:"quarters"`
	Months           []GroupMean `json:"months"`
	BestMonth        *GroupMean  `json:"best_month,omitempty"`
	WorstMonth       *GroupMean  `json:"worst_month,omitempty"`
	MonthlyVariation float64     `json:"monthly_variation"`
	Weekdays         []GroupMean `json:"weekdays"`
	BestDay          *GroupMean  `json:"best_day,omitempty"`
	WorstDay         *GroupMean  `json:"worst_day,omitempty"`
}

// TimeTrends builds the temporal report. Quarters group on the quarter
// label column; month and weekday buckets derive from the date column, so
// both sections are skipped when the dataset has no date column.
func TimeTrends(t *dataset.Table) *TimeTrendsReport {
	r := &TimeTrendsReport{}
	actual, ok := t.Column(dataset.ColActual)
	if !ok {
		return r
	}
	rows := t.Len()

	if quarter, ok := t.Column(dataset.ColQuarter); ok {
		groups := groupedStats(rows, func(i int) (string, bool) {
			if quarter.IsMissing(i) {
				return "", false
			}
			return quarter.Value(i), true
		}, actual.Float)
		for _, k := range sortedKeys(groups) {
			g := groups[k]
			r.Quarters = append(r.Quarters, GroupMean{Label: k, Mean: g.mean, N: g.n})
		}
	}

	date, ok := t.DateColumn()
	if !ok {
		return r
	}

	monthly := make(map[time.Month]*runningStat)
	weekly := make(map[time.Weekday]*runningStat)
	for i := 0; i < rows; i++ {
		v, ok := actual.Float(i)
		if !ok {
			continue
		}
		ts, ok := date.Time(i)
		if !ok {
			continue
		}
		m := monthly[ts.Month()]
		if m == nil {
			m = &runningStat{}
			monthly[ts.Month()] = m
		}
		m.add(v)
		w := weekly[ts.Weekday()]
		if w == nil {
			w = &runningStat{}
			weekly[ts.Weekday()] = w
		}
		w.add(v)
	}

	for m := time.January; m <= time.December; m++ {
		g := monthly[m]
		if g == nil {
			continue
		}
		r.Months = append(r.Months, GroupMean{Label: m.String(), Mean: g.mean, N: g.n})
	}
	if len(r.Months) > 0 {
		best, worst := r.Months[0], r.Months[0]
		for _, gm := range r.Months[1:] {
			if gm.Mean > best.Mean {
				best = gm
			}
			if gm.Mean < worst.Mean {
				worst = gm
			}
		}
		r.BestMonth = &best
		r.WorstMonth = &worst
		r.MonthlyVariation = best.Mean - worst.Mean
	}

	for d := time.Sunday; d <= time.Saturday; d++ {
		g := weekly[d]
		if g == nil {
			continue
		}
		r.Weekdays = append(r.Weekdays, GroupMean{Label: d.String(), Mean: g.mean, N: g.n})
	}
	sort.SliceStable(r.Weekdays, func(i, j int) bool {
		return r.Weekdays[i].Mean > r.Weekdays[j].Mean
	})
	if len(r.Weekdays) > 0 {
		best := r.Weekdays[0]
		worst := r.Weekdays[len(r.Weekdays)-1]
		r.BestDay = &best
		r.WorstDay = &worst
	}
	return r
}

func (r *TimeTrendsReport) Render() string {
	var b strings.Builder
	b.WriteString("TIME TRENDS:\n")

	if len(r.Quarters) > 0 {
		b.WriteString("\nBY QUARTER:\n")
		for _, q := range r.Quarters {
			fmt.Fprintf(&b, "• %s: %.3f (%.1f%%)\n", q.Label, q.Mean, q.Mean*100)
		}
	}

	if r.BestMonth != nil {
		b.WriteString("\nBY MONTH:\n")
		fmt.Fprintf(&b, "• Best month: %s at %.3f (%.1f%%)\n", r.BestMonth.Label, r.BestMonth.Mean, r.BestMonth.Mean*100)
		fmt.Fprintf(&b, "• Worst month: %s at %.3f (%.1f%%)\n", r.WorstMonth.Label, r.WorstMonth.Mean, r.WorstMonth.Mean*100)
		fmt.Fprintf(&b, "• Monthly variation: %.3f (%.1f percentage points)\n", r.MonthlyVariation, r.MonthlyVariation*100)
	}

	if len(r.Weekdays) > 0 {
		b.WriteString("\nBY WEEKDAY:\n")
		fmt.Fprintf(&b, "• Best day: %s at %.3f (%.1f%%)\n", r.BestDay.Label, r.BestDay.Mean, r.BestDay.Mean*100)
		fmt.Fprintf(&b, "• Worst day: %s at %.3f (%.1f%%)\n", r.WorstDay.Label, r.WorstDay.Mean, r.WorstDay.Mean*100)
		for _, d := range r.Weekdays {
			fmt.Fprintf(&b, "• %s: %.3f (%.1f%%)\n", d.Label, d.Mean, d.Mean*100)
		}
	}
	if len(r.Quarters) == 0 && r.BestMonth == nil && len(r.Weekdays) == 0 {
		b.WriteString("\nNo quarter or date column found in the dataset.")
	}
	return strings.TrimRight(b.String(), "\n")
}

// CorrelationEntry is one predictor's relationship to actual productivity.
type CorrelationEntry struct {
	Column    string  `json:"column"`
	R         float64 `json:"r"`
	Pairs     int     `json:"pairs"`
	Strength  string  `json:"strength"`
	Direction string  `json:"direction"`
}

// CorrelationReport relates every measure column to actual productivity.
// Only coefficients with |r| > 0.1 are kept, sorted descending.
type CorrelationReport struct {
	Target       string             `json:"target"`
	Correlations []CorrelationEntry `json:"correlations"`
	TopPositive  []string           `json:"top_positive"`
	TopNegative  []string           `json:"top_negative"`
}

// reportThreshold filters out correlations too weak to mention.
const reportThreshold = 0.1

// Correlations builds the correlation report over pairwise-complete rows.
func Correlations(t *dataset.Table) *CorrelationReport {
	r := &CorrelationReport{Target: dataset.ColActual}
	actual, ok := t.Column(dataset.ColActual)
	if !ok || actual.Kind != dataset.KindNumber {
		return r
	}

	for _, c := range t.NumericColumns() {
		if c.Name == actual.Name || c.Role != dataset.RoleMeasure {
			continue
		}
		coef, pairs := pearson(c, actual)
		if math.Abs(coef) <= reportThreshold {
			continue
		}
		r.Correlations = append(r.Correlations, CorrelationEntry{
			Column:    c.Name,
			R:         coef,
			Pairs:     pairs,
			Strength:  strengthLabel(coef),
			Direction: directionLabel(coef),
		})
	}
	sort.SliceStable(r.Correlations, func(i, j int) bool {
		return r.Correlations[i].R > r.Correlations[j].R
	})

	for _, e := range r.Correlations {
		if e.R > 0 && len(r.TopPositive) < 3 {
			r.TopPositive = append(r.TopPositive, e.Column)
		}
	}
	for i := len(r.Correlations) - 1; i >= 0; i-- {
		if e := r.Correlations[i]; e.R < 0 && len(r.TopNegative) < 3 {
			r.TopNegative = append(r.TopNegative, e.Column)
		}
	}
	return r
}

func strengthLabel(r float64) string {
	switch abs := math.Abs(r); {
	case abs > 0.5:
		return "strong"
	case abs > 0.3:
		return "moderate"
	default:
		return "weak"
	}
}

func directionLabel(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}

func (r *CorrelationReport) Render() string {
	var b strings.Builder
	b.WriteString("CORRELATIONS WITH ACTUAL PRODUCTIVITY:\n")

	b.WriteString("\nIDENTIFIED CORRELATIONS:\n")
	if len(r.Correlations) == 0 {
		b.WriteString("• No correlations above the reporting threshold.")
		return b.String()
	}
	for _, e := range r.Correlations {
		fmt.Fprintf(&b, "• %s: %.3f (%s %s correlation, %s pairs)\n", e.Column, e.R, e.Strength, e.Direction, formatCount(e.Pairs))
	}

	b.WriteString("\nINSIGHTS:\n")
	if len(r.TopPositive) > 0 {
		fmt.Fprintf(&b, "• Strongest positive drivers: %s\n", strings.Join(r.TopPositive, ", "))
	}
	if len(r.TopNegative) > 0 {
		fmt.Fprintf(&b, "• Strongest negative drivers: %s\n", strings.Join(r.TopNegative, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// columnMean averages the parseable values of a named numeric column,
// returning 0 when the column is absent or empty.
func columnMean(t *dataset.Table, name string) float64 {
	c, ok := t.Column(name)
	if !ok {
		return 0
	}
	var s runningStat
	for _, v := range c.Floats() {
		s.add(v)
	}
	return s.mean
}
