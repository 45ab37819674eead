// Package render presents a session's dataset as a markdown report for
// the terminal.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsight/internal/dataset"
	"github.com/cleared-dev/finsight/internal/model"
)

// Line is one account row of a breakdown table, already formatted.
type Line struct {
	Account string
	Level   int
	Amount  string
	Share   string
}

// Report is the view model of the dashboard.
type Report struct {
	Title    string
	Empty    bool
	Overview struct {
		Revenue, Expenses, NetProfit, Margin string
	}
	Revenue         []Line // level 1 revenue, largest first
	Expenses        []Line // level 1 expenses as absolute values with share
	RevenueAccounts []Line // levels 1-2
	ExpenseAccounts []Line // levels 1-2
	Filter          string // empty unless a filter was requested
	Filtered        []Line
	Errors          []string
	IgnoredFiles    []string
}

// Options selects what the report shows beyond the overview.
type Options struct {
	Title    string
	Currency string
	Filter   dataset.Filter
	Errors   []string // per-file ingest failures
	Ignored  []string // files matching no report kind
}

// NewReport builds the view model of ds. A nil dataset yields the empty
// state prompting for uploads.
func NewReport(ds *dataset.Dataset, opts Options) *Report {
	r := &Report{
		Title:        opts.Title,
		Errors:       opts.Errors,
		IgnoredFiles: opts.Ignored,
	}
	if ds == nil {
		r.Empty = true
		return r
	}

	cur := opts.Currency
	sum := dataset.Summarize(ds)
	r.Overview.Revenue = FormatAmount(sum.TotalRevenue, cur)
	r.Overview.Expenses = FormatAmount(sum.TotalExpenses, cur)
	r.Overview.NetProfit = FormatAmount(sum.NetProfit, cur)
	r.Overview.Margin = FormatPercent(sum.ProfitMarginPercent)

	r.Revenue = lines(dataset.Breakdown(ds, model.AccountTypeRevenue, 1), cur, false)
	r.Expenses = lines(dataset.AbsAmounts(dataset.Breakdown(ds, model.AccountTypeExpense, 1)), cur, true)
	r.RevenueAccounts = lines(dataset.Breakdown(ds, model.AccountTypeRevenue, 1, 2), cur, false)
	r.ExpenseAccounts = lines(dataset.Breakdown(ds, model.AccountTypeExpense, 1, 2), cur, false)

	if opts.Filter != (dataset.Filter{}) {
		r.Filter = describeFilter(opts.Filter)
		r.Filtered = lines(ds.Filter(opts.Filter).Rows(), cur, false)
	}
	return r
}

func lines(rows []model.Row, currency string, share bool) []Line {
	total := decimal.Zero
	if share {
		for _, row := range rows {
			total = total.Add(row.Amount)
		}
	}

	out := make([]Line, 0, len(rows))
	for _, row := range rows {
		l := Line{
			Account: escapeCell(row.Account),
			Level:   row.Level,
			Amount:  FormatAmount(row.Amount, currency),
		}
		if share && !total.IsZero() {
			l.Share = FormatPercent(row.Amount.Div(total).Mul(decimal.NewFromInt(100)))
		}
		out = append(out, l)
	}
	return out
}

func describeFilter(f dataset.Filter) string {
	var parts []string
	if f.Level != 0 {
		parts = append(parts, fmt.Sprintf("level %d", f.Level))
	}
	if f.Type != "" && f.Type != model.AllTypes {
		parts = append(parts, "type "+string(f.Type))
	}
	if len(parts) == 0 {
		return "all rows"
	}
	return strings.Join(parts, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var reportTemplate = template.Must(template.New("report").Parse(`# {{.Title}}
{{if .Empty}}
Please upload report files (Profit & Loss and/or Balance Sheet) to begin.
{{else}}
## Financial Overview

| Total Revenue | Total Expenses | Net Profit | Profit Margin |
|---|---|---|---|
| {{.Overview.Revenue}} | {{.Overview.Expenses}} | {{.Overview.NetProfit}} | {{.Overview.Margin}} |

## Revenue Breakdown
{{if .Revenue}}
| Category | Amount |
|---|---|
{{range .Revenue}}| {{.Account}} | {{.Amount}} |
{{end}}{{else}}
No revenue data available.
{{end}}
## Expense Distribution
{{if .Expenses}}
| Category | Amount | Share |
|---|---|---|
{{range .Expenses}}| {{.Account}} | {{.Amount}} | {{.Share}} |
{{end}}{{else}}
No expense data available.
{{end}}
## Detailed Account Breakdown

### Revenue Accounts
{{if .RevenueAccounts}}
| Account | Level | Amount |
|---|---|---|
{{range .RevenueAccounts}}| {{.Account}} | {{.Level}} | {{.Amount}} |
{{end}}{{else}}
No revenue data available.
{{end}}
### Expense Accounts
{{if .ExpenseAccounts}}
| Account | Level | Amount |
|---|---|---|
{{range .ExpenseAccounts}}| {{.Account}} | {{.Level}} | {{.Amount}} |
{{end}}{{else}}
No expense data available.
{{end}}{{if .Filter}}
## Rows: {{.Filter}}
{{if .Filtered}}
| Account | Level | Amount |
|---|---|---|
{{range .Filtered}}| {{.Account}} | {{.Level}} | {{.Amount}} |
{{end}}{{else}}
No rows match.
{{end}}{{end}}{{end}}{{if .Errors}}
## Errors
{{range .Errors}}
- {{.}}{{end}}
{{end}}{{if .IgnoredFiles}}
## Ignored Files
{{range .IgnoredFiles}}
- {{.}}{{end}}
{{end}}`))

// Markdown renders the report.
func Markdown(r *Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// Terminal renders markdown for a terminal of the given width.
func Terminal(md string, width int) (string, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
