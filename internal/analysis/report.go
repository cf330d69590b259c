package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/physan/internal/utils"
)

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// jsonValue maps NaN to null since encoding/json rejects NaN.
func jsonValue(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// writeGrid writes rows as left-aligned, space-padded columns.
func writeGrid(b *strings.Builder, rows [][]string) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len([]rune(cell))+2))
		}
		b.WriteString("\n")
	}
}

// Text renders the report as an aligned metric-by-column table.
func (r *Report) Text() string {
	var b strings.Builder
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Numeric columns: %d\n\n", len(r.Columns)))
	header := append([]string{"metric"}, r.Columns...)
	rows := [][]string{header}
	for _, m := range r.Metrics {
		row := []string{m.Label()}
		for _, v := range r.Values[m] {
			row = append(row, formatValue(v))
		}
		rows = append(rows, row)
	}
	writeGrid(&b, rows)
	return b.String()
}

// Markdown renders the report with bracketed section headers and a
// column-by-metric table.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[STATISTICS]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Numeric columns: %d\n", len(r.Columns)))
	names := make([]string, len(r.Metrics))
	for i, m := range r.Metrics {
		names[i] = m.Label()
	}
	b.WriteString(fmt.Sprintf("Metrics: %s\n\n", strings.Join(names, ", ")))

	b.WriteString("[RESULTS]\n")
	b.WriteString("| column | ")
	b.WriteString(strings.Join(names, " | "))
	b.WriteString(" |\n|---")
	b.WriteString(strings.Repeat("|---", len(names)))
	b.WriteString("|\n")
	for i, c := range r.Columns {
		b.WriteString("| ")
		b.WriteString(safeVal(safeName(c)))
		for _, m := range r.Metrics {
			b.WriteString(" | ")
			b.WriteString(formatValue(r.Values[m][i]))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

type reportJSON struct {
	File    string                `json:"file,omitempty"`
	Columns []string              `json:"columns"`
	Metrics []Metric              `json:"metrics"`
	Values  map[Metric][]*float64 `json:"values"`
}

// JSON renders the report as indented JSON. Values are arrays aligned with
// columns; undefined statistics are null.
func (r *Report) JSON() ([]byte, error) {
	out := reportJSON{File: r.Name, Columns: r.Columns, Metrics: r.Metrics, Values: map[Metric][]*float64{}}
	for _, m := range r.Metrics {
		vals := make([]*float64, len(r.Values[m]))
		for i, v := range r.Values[m] {
			vals[i] = jsonValue(v)
		}
		out.Values[m] = vals
	}
	return utils.PrettyJSON(out)
}

// Text renders the summary with statistics as rows and columns as columns.
func (s *Summary) Text() string {
	var b strings.Builder
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n\n", s.Rows))
	header := []string{""}
	for _, c := range s.Columns {
		header = append(header, c.Name)
	}
	rows := [][]string{header}
	add := func(label string, get func(ColumnSummary) string) {
		row := []string{label}
		for _, c := range s.Columns {
			row = append(row, get(c))
		}
		rows = append(rows, row)
	}
	add("count", func(c ColumnSummary) string { return strconv.Itoa(c.Count) })
	add("mean", func(c ColumnSummary) string { return formatValue(c.Mean) })
	add("std", func(c ColumnSummary) string { return formatValue(c.Std) })
	add("min", func(c ColumnSummary) string { return formatValue(c.Min) })
	add("25%", func(c ColumnSummary) string { return formatValue(c.Q25) })
	add("50%", func(c ColumnSummary) string { return formatValue(c.Q50) })
	add("75%", func(c ColumnSummary) string { return formatValue(c.Q75) })
	add("max", func(c ColumnSummary) string { return formatValue(c.Max) })
	writeGrid(&b, rows)
	return b.String()
}

// Markdown renders the summary as a bracketed section with one line per column.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Numeric columns: %d\n\n", len(s.Columns)))
	b.WriteString("[SCHEMA]\n")
	for _, c := range s.Columns {
		total := c.Count + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: numeric (non-null %d, missing %.1f%%): min %s, 25%% %s, median %s, 75%% %s, max %s, mean %s, std %s\n",
			safeVal(safeName(c.Name)), c.Count, missPct,
			formatValue(c.Min), formatValue(c.Q25), formatValue(c.Q50), formatValue(c.Q75),
			formatValue(c.Max), formatValue(c.Mean), formatValue(c.Std)))
	}
	return b.String()
}

type columnSummaryJSON struct {
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Missing int      `json:"missing"`
	Mean    *float64 `json:"mean"`
	Std     *float64 `json:"std"`
	Min     *float64 `json:"min"`
	Q25     *float64 `json:"25%"`
	Q50     *float64 `json:"50%"`
	Q75     *float64 `json:"75%"`
	Max     *float64 `json:"max"`
}

// JSON renders the summary as indented JSON with undefined values as null.
func (s *Summary) JSON() ([]byte, error) {
	out := struct {
		File    string              `json:"file,omitempty"`
		Rows    int                 `json:"rows"`
		Columns []columnSummaryJSON `json:"columns"`
	}{File: s.Name, Rows: s.Rows}
	for _, c := range s.Columns {
		out.Columns = append(out.Columns, columnSummaryJSON{
			Name: c.Name, Count: c.Count, Missing: c.Missing,
			Mean: jsonValue(c.Mean), Std: jsonValue(c.Std), Min: jsonValue(c.Min),
			Q25: jsonValue(c.Q25), Q50: jsonValue(c.Q50), Q75: jsonValue(c.Q75), Max: jsonValue(c.Max),
		})
	}
	return utils.PrettyJSON(out)
}
