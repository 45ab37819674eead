package report

import (
	"strings"

	"github.com/cleared-dev/finsight/internal/model"
)

// Canonical column names every report is reconciled onto.
const (
	ColAccountType = "AccountType"
	ColAccount     = "Account"
	ColDebit       = "Debit"
	ColCredit      = "Credit"
	ColDate        = "Date"
)

// requiredColumns must be present for a report to be normalized at all.
var requiredColumns = []string{ColAccount, ColDebit, ColCredit}

var canonicalByKey = map[string]string{
	"accounttype": ColAccountType,
	"account":     ColAccount,
	"debit":       ColDebit,
	"credit":      ColCredit,
	"date":        ColDate,
}

// columnKey folds case, spaces, underscores, hyphens and dots so that
// "Account Type", "account_type" and "ACCOUNT-TYPE" compare equal.
func columnKey(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '_', '-', '.':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// CanonicalColumn returns the canonical name for a header variant, or
// false when the column is not one the pipeline knows about.
func CanonicalColumn(name string) (string, bool) {
	c, ok := canonicalByKey[columnKey(name)]
	return c, ok
}

// ReconcileColumns renames header variants onto canonical names. The first
// column mapping to a canonical name wins; later duplicates and unknown
// columns pass through under their original names.
func ReconcileColumns(t *model.Table) *model.Table {
	rename := make(map[string]string, len(t.Header))
	taken := make(map[string]bool, len(canonicalByKey))
	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
		c, ok := CanonicalColumn(h)
		if !ok || taken[c] {
			continue
		}
		taken[c] = true
		rename[h] = c
		header[i] = c
	}

	rows := make([]model.RawRow, len(t.Rows))
	for i, raw := range t.Rows {
		row := make(model.RawRow, len(raw))
		for _, h := range t.Header {
			v, ok := raw[h]
			if !ok {
				continue
			}
			key := h
			if c, ok := rename[h]; ok {
				key = c
			}
			if _, clash := row[key]; !clash {
				row[key] = v
			}
		}
		rows[i] = row
	}
	return &model.Table{Header: header, Rows: rows}
}
