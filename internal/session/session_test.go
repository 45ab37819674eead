package session

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finsight/internal/importer"
	"github.com/cleared-dev/finsight/internal/model"
	"github.com/cleared-dev/finsight/internal/report"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	reg, err := importer.DefaultRegistry("")
	require.NoError(t, err)
	return New(reg, zerolog.Nop())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func accounts(s *Session) []string {
	var names []string
	for _, r := range s.Dataset().Rows() {
		names = append(names, r.Account)
	}
	return names
}

const plCSV = `Account,Account Type,Debit,Credit
Sales,Income,0,500
Rent,Expense,200,0
`

const bsCSV = `Account,Account Type,Debit,Credit
Cash,Bank,1000,
Loan,Loan,,400
`

func TestFreshSession(t *testing.T) {
	s := newSession(t)
	assert.Nil(t, s.Dataset())
	assert.True(t, s.TotalRevenue().IsZero())
	assert.True(t, s.TotalExpenses().IsZero())
	assert.Nil(t, s.Filter(1, model.AllTypes))
	assert.False(t, s.Loaded(model.ReportProfitAndLoss))
	assert.False(t, s.Loaded(model.ReportBalanceSheet))
}

func TestIngest_Scenario(t *testing.T) {
	s := newSession(t)
	res, err := s.IngestReader("ProfitAndLoss.csv", strings.NewReader(plCSV))
	require.NoError(t, err)
	assert.True(t, res.Routed)
	assert.Equal(t, model.ReportProfitAndLoss, res.Kind)
	assert.Equal(t, 2, res.Rows)

	rows := s.Dataset().Rows()
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Amount.Equal(dec("0.5")))
	assert.True(t, rows[1].Amount.Equal(dec("-0.2")))

	sum := s.Summary()
	assert.True(t, sum.TotalRevenue.Equal(dec("0.5")))
	assert.True(t, sum.TotalExpenses.Equal(dec("0.2")))
	assert.True(t, sum.NetProfit.Equal(dec("0.3")))
	assert.True(t, sum.ProfitMarginPercent.Equal(dec("60")))
}

func TestIngest_CombinesInKindOrder(t *testing.T) {
	s := newSession(t)
	// Balance Sheet uploaded first still lands after Profit & Loss.
	_, err := s.IngestReader("BalanceSheet.csv", strings.NewReader(bsCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"Cash", "Loan"}, accounts(s))

	_, err = s.IngestReader("ProfitAndLoss.csv", strings.NewReader(plCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales", "Rent", "Cash", "Loan"}, accounts(s))
}

func TestIngest_ReplacesSlot(t *testing.T) {
	s := newSession(t)
	_, err := s.IngestReader("ProfitAndLoss.csv", strings.NewReader(plCSV))
	require.NoError(t, err)
	_, err = s.IngestReader("BalanceSheet.csv", strings.NewReader(bsCSV))
	require.NoError(t, err)
	before := s.Dataset()

	replacement := "Account,Account Type,Debit,Credit\nConsulting,Revenue,,900\n"
	_, err = s.IngestReader("profitandloss_v2.csv", strings.NewReader(replacement))
	require.NoError(t, err)

	assert.Equal(t, []string{"Consulting", "Cash", "Loan"}, accounts(s))
	assert.True(t, s.TotalRevenue().Equal(dec("0.9")))
	assert.Equal(t, 4, before.Len(), "earlier datasets are not mutated")
}

func TestIngest_UnmatchedFilenameIgnored(t *testing.T) {
	s := newSession(t)
	_, err := s.IngestReader("ProfitAndLoss.csv", strings.NewReader(plCSV))
	require.NoError(t, err)

	res, err := s.IngestReader("trial_balance.csv", strings.NewReader("garbage,,,\n\"unterminated"))
	require.NoError(t, err)
	assert.False(t, res.Routed)
	assert.Equal(t, 2, s.Dataset().Len())

	res, err = s.Ingest("notes.txt", nil)
	require.NoError(t, err)
	assert.False(t, res.Routed)
}

func TestIngest_MalformedKeepsOtherSlot(t *testing.T) {
	s := newSession(t)
	_, err := s.IngestReader("BalanceSheet.csv", strings.NewReader(bsCSV))
	require.NoError(t, err)
	_, err = s.IngestReader("ProfitAndLoss.csv", strings.NewReader(plCSV))
	require.NoError(t, err)

	res, err := s.IngestReader("ProfitAndLoss.csv", strings.NewReader("Date,Account,Amount\n2024-01-01,Sales,5\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrMissingColumn)
	var rerr *report.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, model.ReportProfitAndLoss, rerr.Kind)
	assert.True(t, res.Routed)

	assert.False(t, s.Loaded(model.ReportProfitAndLoss))
	assert.True(t, s.Loaded(model.ReportBalanceSheet))
	assert.Equal(t, []string{"Cash", "Loan"}, accounts(s))
}

func TestIngest_UnparsableContent(t *testing.T) {
	s := newSession(t)
	_, err := s.IngestReader("ProfitAndLoss.csv", strings.NewReader(plCSV))
	require.NoError(t, err)

	_, err = s.IngestReader("BalanceSheet.xlsx", bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Balance Sheet")
	assert.Equal(t, []string{"Sales", "Rent"}, accounts(s))

	_, err = s.IngestReader("BalanceSheet.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)
}

func TestIngest_RepeatedHeaderUsesFirstColumn(t *testing.T) {
	s := newSession(t)
	_, err := s.IngestReader("ProfitAndLoss.csv", strings.NewReader(
		"Account,Account Type,Debit,Credit,Debit\nSales,Income,100,500,999\n"))
	require.NoError(t, err)

	rows := s.Dataset().Rows()
	require.Len(t, rows, 1)
	assert.True(t, dec("0.4").Equal(rows[0].Amount), rows[0].Amount.String())
}

func TestIngest_WideRecordRejectsReport(t *testing.T) {
	s := newSession(t)
	_, err := s.IngestReader("BalanceSheet.csv", strings.NewReader(bsCSV))
	require.NoError(t, err)
	_, err = s.IngestReader("ProfitAndLoss.csv", strings.NewReader(plCSV))
	require.NoError(t, err)

	_, err = s.IngestReader("ProfitAndLoss.csv", strings.NewReader(
		"Account,Account Type,Debit,Credit\nSales,Income,0,500,oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Profit & Loss")
	assert.False(t, s.Loaded(model.ReportProfitAndLoss))
	assert.Equal(t, []string{"Cash", "Loan"}, accounts(s))
}

func TestIngest_OnlyFailureLeavesNoData(t *testing.T) {
	s := newSession(t)
	_, err := s.IngestReader("ProfitAndLoss.csv", strings.NewReader("Account\nSales\n"))
	require.Error(t, err)
	assert.Nil(t, s.Dataset())
}

func TestIngestFile_Testdata(t *testing.T) {
	s := newSession(t)
	for _, name := range []string{"ProfitAndLoss.csv", "BalanceSheet.csv", "general_ledger.csv"} {
		_, err := s.IngestFile(filepath.Join("..", "..", "testdata", name))
		require.NoError(t, err, name)
	}

	ds := s.Dataset()
	require.Equal(t, 14, ds.Len())

	sum := s.Summary()
	assert.Equal(t, "1550", sum.TotalRevenue.String())
	assert.Equal(t, "635", sum.TotalExpenses.String())
	assert.Equal(t, "915", sum.NetProfit.String())
	assert.Equal(t, "59.03", sum.ProfitMarginPercent.StringFixed(2))

	level1 := s.Filter(1, model.AllTypes)
	for _, r := range level1.Rows() {
		assert.Equal(t, 1, r.Level)
	}
	assert.Equal(t, 8, level1.Len())

	liabilities := s.Filter(0, model.AccountTypeLiability)
	assert.Equal(t, 2, liabilities.Len())

	rows := ds.Rows()
	assert.Equal(t, model.UncategorizedAccount, rows[7].Account)
	assert.Nil(t, rows[7].Date)
	assert.Equal(t, model.AccountTypeOther, rows[13].Type)
}

func TestIngestFile_Broken(t *testing.T) {
	s := newSession(t)
	_, err := s.IngestFile(filepath.Join("..", "..", "testdata", "BalanceSheet_broken.csv"))
	assert.ErrorIs(t, err, report.ErrMissingColumn)

	_, err = s.IngestFile(filepath.Join(t.TempDir(), "BalanceSheet.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReset(t *testing.T) {
	s := newSession(t)
	_, err := s.IngestReader("ProfitAndLoss.csv", strings.NewReader(plCSV))
	require.NoError(t, err)
	s.Reset()
	assert.Nil(t, s.Dataset())
	assert.False(t, s.Loaded(model.ReportProfitAndLoss))
}

func TestSessionsAreIndependent(t *testing.T) {
	a, b := newSession(t), newSession(t)
	_, err := a.IngestReader("ProfitAndLoss.csv", strings.NewReader(plCSV))
	require.NoError(t, err)
	assert.Nil(t, b.Dataset())
}
