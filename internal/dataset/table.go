package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
)

// Column is a named, ordered sequence of cells.
type Column struct {
	Name string
	Kind Kind
	// Raw holds the trimmed cell text, one entry per row.
	Raw []string
	// Values holds parsed numbers for numeric columns; missing cells are NaN.
	// Nil for text columns.
	Values []float64
}

// Missing reports the number of missing cells in the column.
func (c Column) Missing() int {
	n := 0
	for _, v := range c.Raw {
		if isMissing(v) {
			n++
		}
	}
	return n
}

// Present returns the non-missing numeric values in row order.
// It returns nil for text columns.
func (c Column) Present() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Table is an in-memory tabular dataset. A loaded Table is never modified;
// callers replace it wholesale on the next load.
type Table struct {
	// Name is the base name of the source file.
	Name    string
	Columns []Column
	rows    int
}

// NewTable builds a Table from a header and rows of cells, inferring column
// kinds. Rows must already be aligned to the header.
func NewTable(name string, header []string, rows [][]string, opt Options) *Table {
	t := &Table{Name: name, rows: len(rows)}
	t.Columns = make([]Column, len(header))
	for j, h := range header {
		raw := make([]string, len(rows))
		for i, r := range rows {
			if j < len(r) {
				raw[i] = strings.TrimSpace(r[j])
			}
		}
		t.Columns[j] = inferColumn(strings.TrimSpace(h), raw, opt)
	}
	return t
}

// Rows returns the number of data rows (header excluded).
func (t *Table) Rows() int { return t.rows }

// ColumnNames returns the column names in header order, duplicates included.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the first column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// NumericColumns returns the numeric columns in table order. The result is
// computed on each call.
func (t *Table) NumericColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// inferColumn marks a column numeric when every non-missing cell parses as a
// number. Columns of a table without rows stay text.
func inferColumn(name string, raw []string, opt Options) Column {
	col := Column{Name: name, Kind: KindText, Raw: raw}
	if len(raw) == 0 {
		return col
	}
	vals := make([]float64, len(raw))
	for i, v := range raw {
		if isMissing(v) {
			vals[i] = math.NaN()
			continue
		}
		x, ok := parseNumeric(v, opt)
		if !ok {
			return col
		}
		vals[i] = x
	}
	col.Kind = KindNumeric
	col.Values = vals
	return col
}

var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "<NA>": {},
}

func isMissing(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// parseNumeric parses a cell as a float. With no separators configured it
// accepts exactly what strconv.ParseFloat accepts.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec != 0 || thou != 0 {
		raw = strings.ReplaceAll(raw, "\u00a0", " ")
		if dec == 0 {
			dec = '.'
		}
		if thou != 0 && thou != dec {
			raw = strings.ReplaceAll(raw, string(thou), "")
		}
		if dec != '.' {
			raw = strings.ReplaceAll(raw, string(dec), ".")
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
