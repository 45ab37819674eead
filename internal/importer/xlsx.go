package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/finsight/internal/model"
)

// XLSXParser parses the first worksheet of an Excel report export.
type XLSXParser struct{}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse reads the first sheet into a table; the first row is the header.
func (p *XLSXParser) Parse(r io.Reader) (*model.Table, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := xl.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %q: no header row", sheet)
	}
	t, err := buildTable(records[0], records[1:])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return t, nil
}
