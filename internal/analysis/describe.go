package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/physan/internal/dataset"
)

// ColumnSummary is the describe row set for one numeric column.
type ColumnSummary struct {
	Name    string
	Count   int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	Q25     float64
	Q50     float64
	Q75     float64
	Max     float64
}

// Summary describes every numeric column of a table.
type Summary struct {
	Name    string
	Rows    int
	Columns []ColumnSummary
}

// Describe summarizes each numeric column with count, mean, sample std,
// min, quartiles and max. Quartiles interpolate linearly between ranks.
func Describe(t *dataset.Table) (*Summary, error) {
	cols := t.NumericColumns()
	if len(cols) == 0 {
		return nil, ErrEmptyNumericSet
	}
	s := &Summary{Name: t.Name, Rows: t.Rows()}
	for _, c := range cols {
		vals := c.Present()
		cs := ColumnSummary{
			Name:    c.Name,
			Count:   len(vals),
			Missing: c.Missing(),
			Mean:    compute(MetricMean, vals),
			Std:     compute(MetricStd, vals),
			Min:     compute(MetricMin, vals),
			Max:     compute(MetricMax, vals),
		}
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		cs.Q25 = quantile(sorted, 0.25)
		cs.Q50 = quantile(sorted, 0.5)
		cs.Q75 = quantile(sorted, 0.75)
		s.Columns = append(s.Columns, cs)
	}
	return s, nil
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
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
