package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxReader) Read(path string, opt Options) (*Table, error) {
	return LoadXLSX(path, opt)
}

// LoadXLSX reads one worksheet of an .xlsx workbook into a Table. The sheet
// is chosen by opt.Sheet, else by the 1-based opt.SheetIndex, else the first.
func LoadXLSX(path string, opt Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("workbook has no sheets")}
	}
	sheet := ""
	if opt.Sheet != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("sheet '%s' not found; available sheets: %s",
				opt.Sheet, strings.Join(sheets, ", "))}
		}
	} else {
		idx := opt.SheetIndex
		if idx <= 0 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))}
		}
		sheet = sheets[idx-1]
	}

	// Raw values keep number formats like "#,##0.00" or "0.00%" from turning
	// numeric cells into text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("read sheet %s: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("no header row")}
	}
	header := rows[0]
	ncol := len(header)
	data := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		// excelize drops trailing empty cells, so short rows are normal here.
		if len(row) > ncol {
			return nil, &ParseError{Path: path, Line: i + 2, Err: fmt.Errorf("expected %d fields, got %d", ncol, len(row))}
		}
		if len(row) == 0 {
			continue
		}
		if opt.MaxRows > 0 && len(data) >= opt.MaxRows {
			continue
		}
		data = append(data, row)
	}
	t := NewTable(filepath.Base(path), header, data, opt)
	return t, nil
}
