package model

import "strings"

// AccountType is the closed taxonomy every report row is classified into.
type AccountType string

const (
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeOther     AccountType = "Other"
)

// AllTypes is the sentinel accepted by filters meaning "no type filter".
const AllTypes AccountType = "All"

// AccountTypes lists the taxonomy in classification priority order.
var AccountTypes = []AccountType{
	AccountTypeRevenue,
	AccountTypeExpense,
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeOther,
}

// Valid reports whether t belongs to the taxonomy.
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if t == at {
			return true
		}
	}
	return false
}

// ParseAccountType matches s case-insensitively against the taxonomy
// and the "All" sentinel.
func ParseAccountType(s string) (AccountType, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(AllTypes)) {
		return AllTypes, true
	}
	for _, at := range AccountTypes {
		if strings.EqualFold(s, string(at)) {
			return at, true
		}
	}
	return "", false
}
