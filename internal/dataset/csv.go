package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsight/internal/model"
)

// Header is the CSV header of an exported dataset.
const Header = "Date,Account,Amount,Type,Level,AccountType"

const (
	numFields   = 6
	dateFormat  = "2006-01-02"
	colDate     = 0
	colAccount  = 1
	colAmount   = 2
	colType     = 3
	colLevel    = 4
	colAcctType = 5
)

// dateTimeLayouts are accepted when reading; RFC 3339 is what MarshalRow
// writes, the zoneless layout is read as UTC.
var dateTimeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05"}

// WriteCSV writes the dataset verbatim, header first. An absent dataset
// writes only the header.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range d.Rows() {
		if err := cw.Write(MarshalRow(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a dataset previously written by WriteCSV.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dataset CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]model.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return &Dataset{rows: rows}, nil
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(r model.Row) []string {
	row := make([]string, numFields)
	if r.Date != nil {
		if isPlainDate(*r.Date) {
			row[colDate] = r.Date.Format(dateFormat)
		} else {
			row[colDate] = r.Date.Format(time.RFC3339Nano)
		}
	}
	row[colAccount] = r.Account
	row[colAmount] = r.Amount.String()
	row[colType] = string(r.Type)
	row[colLevel] = strconv.Itoa(r.Level)
	row[colAcctType] = r.AccountType
	return row
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(record []string) (model.Row, error) {
	if len(record) != numFields {
		return model.Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := parseDate(record[colDate])
	if err != nil {
		return model.Row{}, err
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Row{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	level, err := strconv.Atoi(record[colLevel])
	if err != nil {
		return model.Row{}, fmt.Errorf("parsing level %q: %w", record[colLevel], err)
	}

	typ := model.AccountType(record[colType])
	if !typ.Valid() {
		return model.Row{}, fmt.Errorf("unknown type %q", record[colType])
	}

	return model.Row{
		Date:        date,
		Account:     record[colAccount],
		Amount:      amount,
		Type:        typ,
		Level:       level,
		AccountType: record[colAcctType],
	}, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	layouts := dateTimeLayouts
	if len(s) == len(dateFormat) {
		layouts = []string{dateFormat}
	}
	var err error
	for _, layout := range layouts {
		var d time.Time
		if d, err = time.Parse(layout, s); err == nil {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("parsing date %q: %w", s, err)
}

// isPlainDate reports whether t is a UTC midnight, which is how dates
// without a time of day are held.
func isPlainDate(t time.Time) bool {
	if _, offset := t.Zone(); offset != 0 {
		return false
	}
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
