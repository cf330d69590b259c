package analysis

import (
	"math"

	"github.com/KaramelBytes/physan/internal/dataset"
)

// Series is a pair of aligned coordinate sequences labeled with their source
// column names. len(X) == len(Y) always holds.
type Series struct {
	XLabel string
	YLabel string
	X      []float64
	Y      []float64
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.X) }

// SelectPlotSeries pairs the first two numeric columns of t row by row.
// Rows where either value is missing or infinite are dropped from both
// sequences.
func SelectPlotSeries(t *dataset.Table) (*Series, error) {
	cols := t.NumericColumns()
	if len(cols) < 2 {
		return nil, ErrInsufficientColumns
	}
	xc, yc := cols[0], cols[1]
	s := &Series{
		XLabel: xc.Name,
		YLabel: yc.Name,
		X:      make([]float64, 0, len(xc.Values)),
		Y:      make([]float64, 0, len(yc.Values)),
	}
	for i := range xc.Values {
		x, y := xc.Values[i], yc.Values[i]
		if !finite(x) || !finite(y) {
			continue
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, y)
	}
	return s, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
