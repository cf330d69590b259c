// Package plot renders point series and histograms to PNG with go-chart.
package plot

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/physan/internal/analysis"
)

// ErrNoPoints is returned when there is nothing to draw.
var ErrNoPoints = errors.New("no data points to plot")

// Options sizes the rendered image.
type Options struct {
	Width  int
	Height int
	// Bins is the histogram bin count.
	Bins int
}

// DefaultOptions returns an 800x500 canvas and 30 histogram bins.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 500, Bins: 30}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Bins <= 0 {
		o.Bins = d.Bins
	}
	return o
}

// pointStyle draws markers only, without connecting lines.
func pointStyle() chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    chart.ColorBlue,
	}
}

// RenderScatter writes a scatter plot of s as PNG, titled "<x> vs <y>".
func RenderScatter(w io.Writer, s *analysis.Series, opt Options) error {
	if s == nil || s.Len() == 0 {
		return ErrNoPoints
	}
	opt = opt.normalized()
	xr := paddedRange(s.X)
	yr := paddedRange(s.Y)
	ch := chart.Chart{
		Title:      fmt.Sprintf("%s vs %s", s.XLabel, s.YLabel),
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: s.XLabel, Range: xr},
		YAxis:      chart.YAxis{Name: s.YLabel, Range: yr},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    s.YLabel,
				XValues: s.X,
				YValues: s.Y,
				Style:   pointStyle(),
			},
		},
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render scatter: %w", err)
	}
	return nil
}

// RenderHistogram writes a histogram of values as PNG, titled
// "Distribution of <name>".
// Non-finite values are left out.
func RenderHistogram(w io.Writer, name string, values []float64, opt Options) error {
	values = finiteValues(values)
	if len(values) == 0 {
		return ErrNoPoints
	}
	opt = opt.normalized()
	edges, counts := Bin(values, opt.Bins)

	// Step outline over the bins, closed at zero on both ends.
	xs := make([]float64, 0, 2*len(counts)+2)
	ys := make([]float64, 0, 2*len(counts)+2)
	xs = append(xs, edges[0])
	ys = append(ys, 0)
	maxCount := 1
	for i, c := range counts {
		xs = append(xs, edges[i], edges[i+1])
		ys = append(ys, float64(c), float64(c))
		if c > maxCount {
			maxCount = c
		}
	}
	xs = append(xs, edges[len(edges)-1])
	ys = append(ys, 0)

	ch := chart.Chart{
		Title:      fmt.Sprintf("Distribution of %s", name),
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: name, Range: &chart.ContinuousRange{Min: edges[0], Max: edges[len(edges)-1]}},
		YAxis:      chart.YAxis{Name: "count", Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.05}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    name,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 1,
					StrokeColor: chart.ColorBlue,
					FillColor:   chart.ColorBlue.WithAlpha(96),
				},
			},
		},
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render histogram: %w", err)
	}
	return nil
}

// Bin splits values into n equal-width bins over [min, max]. The last bin
// is closed on the right. A constant sample gets a unit-wide range centered
// on its value. NaN and infinite values are not counted.
func Bin(values []float64, n int) (edges []float64, counts []int) {
	if n <= 0 {
		n = 1
	}
	values = finiteValues(values)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		lo, hi = 0, 1
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(n)
	edges = make([]float64, n+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[n] = hi
	counts = make([]int, n)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	return edges, counts
}

// paddedRange spans vals with a 5% margin; a zero span widens by one unit.
func paddedRange(vals []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func finiteValues(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
