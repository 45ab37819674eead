// Package dataset combines normalized report rows into one canonical
// dataset and derives metrics and filtered views from it.
package dataset

import (
	"github.com/cleared-dev/finsight/internal/classify"
	"github.com/cleared-dev/finsight/internal/model"
)

// Dataset is the ordered canonical rows of a session. A nil *Dataset means
// nothing has been uploaded; a Dataset with no rows is empty, not absent.
// Datasets are never mutated after construction.
type Dataset struct {
	rows []model.Row
}

// Rows returns a copy of the rows in order. Nil-safe.
func (d *Dataset) Rows() []model.Row {
	if d == nil {
		return nil
	}
	cp := make([]model.Row, len(d.rows))
	copy(cp, d.rows)
	return cp
}

// Len returns the number of rows. Nil-safe.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Combine concatenates the Profit & Loss rows followed by the Balance Sheet
// rows. A nil slice means that report is absent; when both are absent the
// result is nil. Every row of the result is complete (see Complete).
func Combine(profitLoss, balanceSheet []model.Row) *Dataset {
	if profitLoss == nil && balanceSheet == nil {
		return nil
	}

	rows := make([]model.Row, 0, len(profitLoss)+len(balanceSheet))
	for _, r := range profitLoss {
		rows = append(rows, Complete(r))
	}
	for _, r := range balanceSheet {
		rows = append(rows, Complete(r))
	}
	return &Dataset{rows: rows}
}

// Complete backfills the required fields of a row that did not come
// through the normalizer: an empty account becomes Uncategorized, an
// unknown type becomes Other and a non-positive level is derived from the
// account path. Normalized rows are returned unchanged.
func Complete(r model.Row) model.Row {
	if r.Account == "" {
		r.Account = model.UncategorizedAccount
	}
	if !r.Type.Valid() {
		r.Type = model.AccountTypeOther
	}
	if r.Level < 1 {
		r.Level = classify.Level(r.Account)
	}
	return r
}
