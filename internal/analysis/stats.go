// Package analysis computes the raw access modes and statistical reports
// over a loaded dataset table. Every function here is a pure function of
// its inputs: tables are never mutated and nothing is cached.
package analysis

import (
	"math"
	"sort"

	"github.com/thoughtbruno/llm-researcher/internal/dataset"
)

// Stats summarizes one numeric series the way a describe() call would.
type Stats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// describe computes summary statistics over vals. Welford's update keeps
// the variance numerically stable in one pass; quantiles interpolate over
// a sorted copy. Sample standard deviation (n-1) throughout.
func describe(vals []float64) Stats {
	s := Stats{N: len(vals)}
	if s.N == 0 {
		return s
	}

	var mean, m2 float64
	for i, x := range vals {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	s.Mean = mean
	if s.N > 1 {
		s.Std = math.Sqrt(m2 / float64(s.N-1))
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.P75 = quantile(sorted, 0.75)
	return s
}

// quantile returns the linearly interpolated q-quantile of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// pairAcc accumulates a Pearson correlation over pairwise-complete rows.
type pairAcc struct {
	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumYY float64
	sumXY float64
}

func (p *pairAcc) add(x, y float64) {
	p.n++
	p.sumX += x
	p.sumY += y
	p.sumXX += x * x
	p.sumYY += y * y
	p.sumXY += x * y
}

// r resolves the accumulated coefficient, clamped to [-1, 1] with
// degenerate denominators mapped to 0.
func (p *pairAcc) r() float64 {
	if p.n < 2 {
		return 0
	}
	denom := math.Sqrt((p.n*p.sumXX - p.sumX*p.sumX) * (p.n*p.sumYY - p.sumY*p.sumY))
	if denom == 0 {
		return 0
	}
	r := (p.n*p.sumXY - p.sumX*p.sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// pearson computes the correlation between two columns over the rows
// where both hold values. Returns the coefficient and the pair count.
func pearson(x, y *dataset.Column) (float64, int) {
	var acc pairAcc
	n := x.Len()
	if y.Len() < n {
		n = y.Len()
	}
	for i := 0; i < n; i++ {
		xv, ok := x.Float(i)
		if !ok {
			continue
		}
		yv, ok := y.Float(i)
		if !ok {
			continue
		}
		acc.add(xv, yv)
	}
	return acc.r(), int(acc.n)
}

// runningStat tracks mean/std/min/max of one group in a single pass.
type runningStat struct {
	n    int
	mean float64
	m2   float64
	sum  float64
	min  float64
	max  float64
}

func (r *runningStat) add(x float64) {
	r.n++
	r.sum += x
	delta := x - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (x - r.mean)
	if r.n == 1 {
		r.min, r.max = x, x
		return
	}
	if x < r.min {
		r.min = x
	}
	if x > r.max {
		r.max = x
	}
}

func (r *runningStat) std() float64 {
	if r.n < 2 {
		return 0
	}
	return math.Sqrt(r.m2 / float64(r.n-1))
}

// groupedStats accumulates per-group statistics of a measure column. The
// key function maps a row to its group label; rows without a key or a
// value are skipped.
func groupedStats(rows int, key func(i int) (string, bool), value func(i int) (float64, bool)) map[string]*runningStat {
	groups := make(map[string]*runningStat)
	for i := 0; i < rows; i++ {
		k, ok := key(i)
		if !ok {
			continue
		}
		v, ok := value(i)
		if !ok {
			continue
		}
		g := groups[k]
		if g == nil {
			g = &runningStat{}
			groups[k] = g
		}
		g.add(v)
	}
	return groups
}

// sortedKeys returns group keys in ascending order for stable output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
