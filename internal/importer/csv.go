package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/cleared-dev/finsight/internal/model"
)

// Supported CSV text encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

const utf8BOM = "\ufeff"

// CSVParser parses comma-separated report exports. The first record is the
// header; rows may be short but not wider than the header.
type CSVParser struct {
	encoding string
}

// NewCSVParser returns a parser for the given encoding. An empty encoding
// means UTF-8.
func NewCSVParser(encoding string) (*CSVParser, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
		return &CSVParser{encoding: EncodingUTF8}, nil
	case EncodingWindows1252, "cp1252":
		return &CSVParser{encoding: EncodingWindows1252}, nil
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q", encoding)
	}
}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV report into a table.
func (p *CSVParser) Parse(r io.Reader) (*model.Table, error) {
	if p.encoding == EncodingWindows1252 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading CSV: no header row")
	}
	records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	t, err := buildTable(records[0], records[1:])
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return t, nil
}

// buildTable keys each record by the trimmed header. A header repeated
// exactly is renamed "Name.1", "Name.2" and so on, so the first column keeps
// the plain name. Missing trailing cells are empty; a record with non-empty
// cells beyond the header is rejected.
func buildTable(header []string, records [][]string) (*model.Table, error) {
	t := &model.Table{Header: dedupeHeader(header)}

	t.Rows = make([]model.RawRow, 0, len(records))
	for n, rec := range records {
		for i := len(t.Header); i < len(rec); i++ {
			if strings.TrimSpace(rec[i]) != "" {
				return nil, fmt.Errorf("record %d: %d fields, header has %d", n+2, len(rec), len(t.Header))
			}
		}
		row := make(model.RawRow, len(t.Header))
		for i, h := range t.Header {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if seen[name] {
			base := name
			for n := 1; seen[name]; n++ {
				name = fmt.Sprintf("%s.%d", base, n)
			}
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
