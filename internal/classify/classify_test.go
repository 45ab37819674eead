package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/finsight/internal/model"
)

func TestType(t *testing.T) {
	tests := []struct {
		raw  string
		want model.AccountType
	}{
		{"Sales Income", model.AccountTypeRevenue},
		{"Income", model.AccountTypeRevenue},
		{"  REVENUE  ", model.AccountTypeRevenue},
		{"Expense", model.AccountTypeExpense},
		{"Cost of Goods Sold", model.AccountTypeExpense},
		{"Other Expenditure", model.AccountTypeExpense},
		{"Bank Account", model.AccountTypeAsset},
		{"Fixed Asset", model.AccountTypeAsset},
		{"Cash on hand", model.AccountTypeAsset},
		{"Accounts Payable", model.AccountTypeLiability},
		{"Long Term Loan", model.AccountTypeLiability},
		{"Other Current Liability", model.AccountTypeLiability},
		{"Equity", model.AccountTypeEquity},
		{"Share Capital", model.AccountTypeEquity},
		{"Suspense", model.AccountTypeOther},
		{"", model.AccountTypeOther},
		{"   ", model.AccountTypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Type(tt.raw), "Type(%q)", tt.raw)
	}
}

func TestType_PriorityOrder(t *testing.T) {
	// Revenue keywords are checked before expense keywords.
	assert.Equal(t, model.AccountTypeRevenue, Type("Cost of Sales"))
	// Expense before asset.
	assert.Equal(t, model.AccountTypeExpense, Type("Bank Charges Expense"))
	// Asset before liability.
	assert.Equal(t, model.AccountTypeAsset, Type("Bank Loan"))
	// Liability before equity.
	assert.Equal(t, model.AccountTypeLiability, Type("Capital Loan"))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 1, Level("A"))
	assert.Equal(t, 2, Level("A:B"))
	assert.Equal(t, 3, Level("A:B:C"))
	assert.Equal(t, 3, Level("Expenses:Rent:Office"))
	assert.Equal(t, 1, Level(""))
	assert.Equal(t, 1, Level(model.UncategorizedAccount))
}
