// Package report turns raw Profit & Loss and Balance Sheet exports into
// canonical rows.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsight/internal/classify"
	"github.com/cleared-dev/finsight/internal/model"
)

// ErrMissingColumn is wrapped when a report lacks Account, Debit or Credit.
var ErrMissingColumn = errors.New("missing required column")

// ErrNoTable is returned when there is no parsed content to normalize.
var ErrNoTable = errors.New("no tabular content")

// Error reports that one report kind failed to normalize as a unit.
type Error struct {
	Kind model.ReportKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("processing %s data: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Scale converts raw currency amounts into the dataset unit (thousands).
var Scale = decimal.NewFromInt(1000)

// dateLayouts are tried in order; month-first wins for ambiguous dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"02-Jan-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
}

// Normalize cleans, types and projects one report's rows. Row order is
// preserved; entirely empty rows are dropped. A structural problem fails
// the whole report with an *Error and no rows.
func Normalize(kind model.ReportKind, t *model.Table) ([]model.Row, error) {
	if t == nil {
		return nil, &Error{Kind: kind, Err: ErrNoTable}
	}

	t = ReconcileColumns(t)

	var missing []string
	for _, c := range requiredColumns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &Error{
			Kind: kind,
			Err:  fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", ")),
		}
	}

	rows := make([]model.Row, 0, len(t.Rows))
	for _, raw := range t.Rows {
		if isEmptyRow(raw) {
			continue
		}
		rows = append(rows, normalizeRow(raw))
	}
	return rows, nil
}

func normalizeRow(raw model.RawRow) model.Row {
	credit := ParseAmount(raw[ColCredit])
	debit := ParseAmount(raw[ColDebit])

	account := strings.TrimSpace(raw[ColAccount])
	if account == "" {
		account = model.UncategorizedAccount
	}

	accountType := strings.TrimSpace(raw[ColAccountType])

	return model.Row{
		Date:        ParseDate(raw[ColDate]),
		Account:     account,
		Amount:      credit.Sub(debit).Div(Scale),
		Type:        classify.Type(accountType),
		Level:       classify.Level(account),
		AccountType: accountType,
	}
}

func isEmptyRow(raw model.RawRow) bool {
	for _, v := range raw {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseAmount reads a debit or credit cell. Thousands separators and
// accounting parentheses are accepted; anything unparsable is zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		return d.Neg()
	}
	return d
}

// ParseDate reads a date cell, returning nil when it is empty or in no
// known layout.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return &d
		}
	}
	return nil
}
