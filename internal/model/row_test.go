package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForFilename(t *testing.T) {
	tests := []struct {
		name   string
		want   ReportKind
		routed bool
	}{
		{"ProfitAndLoss.csv", ReportProfitAndLoss, true},
		{"acme_profitandloss_2024.xlsx", ReportProfitAndLoss, true},
		{"BALANCESHEET-Q4.csv", ReportBalanceSheet, true},
		{"balancesheet.csv", ReportBalanceSheet, true},
		{"Profit and Loss.csv", "", false},
		{"general_ledger.csv", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := KindForFilename(tt.name)
		assert.Equal(t, tt.routed, ok, "KindForFilename(%q)", tt.name)
		assert.Equal(t, tt.want, got, "KindForFilename(%q)", tt.name)
	}
}

func TestReportKindString(t *testing.T) {
	assert.Equal(t, "Profit & Loss", ReportProfitAndLoss.String())
	assert.Equal(t, "Balance Sheet", ReportBalanceSheet.String())
}

func TestParseAccountType(t *testing.T) {
	at, ok := ParseAccountType("revenue")
	assert.True(t, ok)
	assert.Equal(t, AccountTypeRevenue, at)

	at, ok = ParseAccountType(" ALL ")
	assert.True(t, ok)
	assert.Equal(t, AllTypes, at)

	_, ok = ParseAccountType("income")
	assert.False(t, ok)
}

func TestAccountTypeValid(t *testing.T) {
	for _, at := range AccountTypes {
		assert.True(t, at.Valid(), "%s should be valid", at)
	}
	assert.False(t, AllTypes.Valid())
	assert.False(t, AccountType("").Valid())
}

func TestTableHasColumn(t *testing.T) {
	tbl := &Table{Header: []string{"Account", "Debit"}}
	assert.True(t, tbl.HasColumn("Debit"))
	assert.False(t, tbl.HasColumn("Credit"))
}
