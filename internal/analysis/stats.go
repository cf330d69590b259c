package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/physan/internal/dataset"
)

var (
	// ErrEmptyNumericSet is returned when a table has no numeric columns.
	ErrEmptyNumericSet = errors.New("no numeric columns found")
	// ErrInsufficientColumns is returned when fewer than two numeric columns
	// are available for plotting.
	ErrInsufficientColumns = errors.New("not enough numeric data to plot")
	// ErrNoMetrics is returned when an analysis is requested with no metrics.
	ErrNoMetrics = errors.New("no metrics requested")
	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrNotNumeric is returned when a named column holds text.
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrUnknownMetric is returned for a metric name outside AllMetrics and
	// its aliases.
	ErrUnknownMetric = errors.New("unknown metric")
)

// Metric names a descriptive statistic.
type Metric string

const (
	MetricMean   Metric = "mean"
	MetricMedian Metric = "median"
	MetricStd    Metric = "std"
	MetricMin    Metric = "min"
	MetricMax    Metric = "max"
)

// AllMetrics lists every supported metric in display order.
var AllMetrics = []Metric{MetricMean, MetricMedian, MetricStd, MetricMin, MetricMax}

var metricAliases = map[string]Metric{
	"mean":               MetricMean,
	"average":            MetricMean,
	"avg":                MetricMean,
	"median":             MetricMedian,
	"std":                MetricStd,
	"stddev":             MetricStd,
	"sd":                 MetricStd,
	"standard-deviation": MetricStd,
	"standard_deviation": MetricStd,
	"min":                MetricMin,
	"minimum":            MetricMin,
	"max":                MetricMax,
	"maximum":            MetricMax,
}

// Label returns the long display name of the metric.
func (m Metric) Label() string {
	switch m {
	case MetricStd:
		return "standard-deviation"
	case MetricMin:
		return "minimum"
	case MetricMax:
		return "maximum"
	}
	return string(m)
}

// ParseMetric resolves a metric name or alias, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	m, ok := metricAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// ParseMetrics resolves a list of metric names. Entries may themselves be
// comma-separated. Duplicates are dropped, keeping first-seen order.
func ParseMetrics(names []string) ([]Metric, error) {
	var out []Metric
	seen := map[Metric]bool{}
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			m, err := ParseMetric(part)
			if err != nil {
				return nil, err
			}
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// Report holds computed statistics. Values[m][i] belongs to Columns[i];
// NaN marks a statistic that is undefined for the column's data.
type Report struct {
	Name    string
	Metrics []Metric
	Columns []string
	Values  map[Metric][]float64
}

// Get returns the value of metric m for the first column with the given name.
func (r *Report) Get(m Metric, column string) (float64, bool) {
	vals, ok := r.Values[m]
	if !ok {
		return 0, false
	}
	for i, c := range r.Columns {
		if c == column {
			return vals[i], true
		}
	}
	return 0, false
}

// ByColumn returns metric m keyed by column name. With duplicate column
// names the first occurrence wins.
func (r *Report) ByColumn(m Metric) map[string]float64 {
	vals, ok := r.Values[m]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(r.Columns))
	for i, c := range r.Columns {
		if _, dup := out[c]; !dup {
			out[c] = vals[i]
		}
	}
	return out
}

// Analyze computes the requested metrics for every numeric column of t, in
// column order. Missing cells are excluded per column. The table is not
// modified.
func Analyze(t *dataset.Table, metrics []Metric) (*Report, error) {
	if len(metrics) == 0 {
		return nil, ErrNoMetrics
	}
	cols := t.NumericColumns()
	if len(cols) == 0 {
		return nil, ErrEmptyNumericSet
	}
	r := newReport(t.Name, metrics)
	for _, c := range cols {
		r.add(c, metrics)
	}
	return r, nil
}

// AnalyzeColumn computes metrics for a single named column. With duplicate
// names the first occurrence is used.
func AnalyzeColumn(t *dataset.Table, name string, metrics []Metric) (*Report, error) {
	if len(metrics) == 0 {
		return nil, ErrNoMetrics
	}
	c, err := numericColumn(t, name)
	if err != nil {
		return nil, err
	}
	r := newReport(t.Name, metrics)
	r.add(c, metrics)
	return r, nil
}

// ColumnValues returns the non-missing values of a numeric column.
func ColumnValues(t *dataset.Table, name string) ([]float64, error) {
	c, err := numericColumn(t, name)
	if err != nil {
		return nil, err
	}
	return c.Present(), nil
}

func numericColumn(t *dataset.Table, name string) (dataset.Column, error) {
	c, ok := t.Column(name)
	if !ok {
		return dataset.Column{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	if c.Kind != dataset.KindNumeric {
		return dataset.Column{}, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return c, nil
}

func newReport(name string, metrics []Metric) *Report {
	ms := make([]Metric, len(metrics))
	copy(ms, metrics)
	return &Report{Name: name, Metrics: ms, Values: make(map[Metric][]float64, len(ms))}
}

func (r *Report) add(c dataset.Column, metrics []Metric) {
	vals := c.Present()
	r.Columns = append(r.Columns, c.Name)
	for _, m := range metrics {
		r.Values[m] = append(r.Values[m], compute(m, vals))
	}
}

// compute evaluates one metric. Standard deviation is the sample form
// (n-1 denominator) and needs at least two values.
func compute(m Metric, vals []float64) float64 {
	var (
		v   float64
		err error
	)
	switch m {
	case MetricMean:
		v, err = stats.Mean(vals)
	case MetricMedian:
		v, err = stats.Median(vals)
	case MetricStd:
		if len(vals) < 2 {
			return math.NaN()
		}
		v, err = stats.StandardDeviationSample(vals)
	case MetricMin:
		v, err = stats.Min(vals)
	case MetricMax:
		v, err = stats.Max(vals)
	default:
		return math.NaN()
	}
	if err != nil {
		return math.NaN()
	}
	return v
}
