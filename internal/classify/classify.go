// Package classify maps free-text account labels onto the closed account
// taxonomy and infers hierarchy depth from account paths.
package classify

import (
	"strings"

	"github.com/cleared-dev/finsight/internal/model"
)

// Separator delimits nesting in an account path, e.g. "Expenses:Rent:Office".
const Separator = ":"

type rule struct {
	keywords []string
	typ      model.AccountType
}

// rules are evaluated in order; the first keyword hit wins.
var rules = []rule{
	{[]string{"income", "revenue", "sales"}, model.AccountTypeRevenue},
	{[]string{"expense", "cost", "expenditure"}, model.AccountTypeExpense},
	{[]string{"asset", "bank", "cash"}, model.AccountTypeAsset},
	{[]string{"liability", "loan", "payable"}, model.AccountTypeLiability},
	{[]string{"equity", "capital"}, model.AccountTypeEquity},
}

// Type classifies a raw account-type label. Empty labels are Other.
func Type(raw string) model.AccountType {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return model.AccountTypeOther
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(label, kw) {
				return r.typ
			}
		}
	}
	return model.AccountTypeOther
}

// Level returns the depth of an account path: separators plus one.
// An empty account is level 1.
func Level(account string) int {
	if account == "" {
		return 1
	}
	return strings.Count(account, Separator) + 1
}
