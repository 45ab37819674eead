package dataset

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsight/internal/model"
)

var hundred = decimal.NewFromInt(100)

// sumType returns the absolute value of the signed sum of amounts of type t.
// Mixed-sign rows cancel each other out before the absolute value is taken.
func (d *Dataset) sumType(t model.AccountType) decimal.Decimal {
	total := decimal.Zero
	if d == nil {
		return total
	}
	for _, r := range d.rows {
		if r.Type == t {
			total = total.Add(r.Amount)
		}
	}
	return total.Abs()
}

// TotalRevenue is |sum of Revenue amounts|, zero for an absent dataset.
func TotalRevenue(d *Dataset) decimal.Decimal {
	return d.sumType(model.AccountTypeRevenue)
}

// TotalExpenses is |sum of Expense amounts|, zero for an absent dataset.
func TotalExpenses(d *Dataset) decimal.Decimal {
	return d.sumType(model.AccountTypeExpense)
}

// NetProfit is total revenue less total expenses.
func NetProfit(d *Dataset) decimal.Decimal {
	return TotalRevenue(d).Sub(TotalExpenses(d))
}

// ProfitMarginPercent is net profit as a percentage of revenue, or zero
// when there is no revenue.
func ProfitMarginPercent(d *Dataset) decimal.Decimal {
	revenue := TotalRevenue(d)
	if revenue.IsZero() {
		return decimal.Zero
	}
	return revenue.Sub(TotalExpenses(d)).Div(revenue).Mul(hundred)
}

// Summary holds the headline metrics of a dataset, in thousands.
type Summary struct {
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalExpenses       decimal.Decimal `json:"total_expenses"`
	NetProfit           decimal.Decimal `json:"net_profit"`
	ProfitMarginPercent decimal.Decimal `json:"profit_margin_percent"`
	Rows                int             `json:"rows"`
}

// Summarize computes the headline metrics.
func Summarize(d *Dataset) Summary {
	revenue := TotalRevenue(d)
	expenses := TotalExpenses(d)
	return Summary{
		TotalRevenue:        revenue,
		TotalExpenses:       expenses,
		NetProfit:           revenue.Sub(expenses),
		ProfitMarginPercent: ProfitMarginPercent(d),
		Rows:                d.Len(),
	}
}

// Filter selects rows. A zero Level and an empty or "All" Type match
// everything.
type Filter struct {
	Level int
	Type  model.AccountType
}

func (f Filter) match(r model.Row) bool {
	if f.Level != 0 && r.Level != f.Level {
		return false
	}
	if f.Type != "" && f.Type != model.AllTypes && r.Type != f.Type {
		return false
	}
	return true
}

// Filter returns a new dataset holding the rows matching f, in order.
// An absent dataset stays absent; a filter that matches nothing yields an
// empty dataset. The receiver is not modified.
func (d *Dataset) Filter(f Filter) *Dataset {
	if d == nil {
		return nil
	}
	rows := make([]model.Row, 0, len(d.rows))
	for _, r := range d.rows {
		if f.match(r) {
			rows = append(rows, r)
		}
	}
	return &Dataset{rows: rows}
}

// Types returns the type filter options: "All" followed by each type present
// in the dataset, in first-seen order.
func Types(d *Dataset) []model.AccountType {
	types := []model.AccountType{model.AllTypes}
	seen := make(map[model.AccountType]bool)
	for _, r := range d.Rows() {
		if seen[r.Type] {
			continue
		}
		seen[r.Type] = true
		types = append(types, r.Type)
	}
	return types
}

// Breakdown returns the non-zero rows of type t at the given levels (any
// level when none are given), largest absolute amount first. Ties keep
// dataset order.
func Breakdown(d *Dataset, t model.AccountType, levels ...int) []model.Row {
	var rows []model.Row
	for _, r := range d.Rows() {
		if r.Type != t || r.Amount.IsZero() || !levelIn(r.Level, levels) {
			continue
		}
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount.Abs().GreaterThan(rows[j].Amount.Abs())
	})
	return rows
}

// AbsAmounts replaces each amount with its absolute value, for charts that
// cannot show negative slices.
func AbsAmounts(rows []model.Row) []model.Row {
	out := make([]model.Row, len(rows))
	for i, r := range rows {
		r.Amount = r.Amount.Abs()
		out[i] = r
	}
	return out
}

func levelIn(level int, levels []int) bool {
	if len(levels) == 0 {
		return true
	}
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}
