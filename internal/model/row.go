package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedAccount replaces a missing account name.
const UncategorizedAccount = "Uncategorized"

// ReportKind identifies which accounting report a file holds.
type ReportKind string

const (
	ReportProfitAndLoss ReportKind = "profit_and_loss"
	ReportBalanceSheet  ReportKind = "balance_sheet"
)

// String returns the human-readable report name.
func (k ReportKind) String() string {
	switch k {
	case ReportProfitAndLoss:
		return "Profit & Loss"
	case ReportBalanceSheet:
		return "Balance Sheet"
	default:
		return string(k)
	}
}

// KindForFilename routes a file to a report kind by case-insensitive
// containment of "profitandloss" or "balancesheet" in its name.
// Unmatched names return false.
func KindForFilename(name string) (ReportKind, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "profitandloss"):
		return ReportProfitAndLoss, true
	case strings.Contains(lower, "balancesheet"):
		return ReportBalanceSheet, true
	default:
		return "", false
	}
}

// Row is one normalized accounting line item.
type Row struct {
	Date        *time.Time      // nil when absent or unparsable
	Account     string          // never empty once normalized
	Amount      decimal.Decimal // (credit - debit) in thousands
	Type        AccountType
	Level       int    // depth of the account path, >= 1
	AccountType string // raw account-type label as exported
}

// RawRow is one record of an exported report keyed by column name.
// Empty cells are empty strings.
type RawRow map[string]string

// Table is the parsed content of one report file.
type Table struct {
	Header []string
	Rows   []RawRow
}

// HasColumn reports whether name appears in the header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}
