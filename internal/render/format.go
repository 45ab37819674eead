package render

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// FormatAmount renders an amount held in thousands of currency. Values of a
// thousand or more are shown in millions ("KES 1.2M"), the rest in
// thousands ("KES 915.0K"), always with one decimal. The sign follows the
// currency code ("KES -0.5K").
func FormatAmount(amount decimal.Decimal, currency string) string {
	unit := "K"
	if amount.Abs().GreaterThanOrEqual(thousand) {
		amount = amount.Div(thousand)
		unit = "M"
	}
	tenths := amount.Shift(1).Round(0).IntPart()
	template := "$ 1"
	if tenths < 0 {
		template = "$ -1"
		tenths = -tenths
	}
	f := money.NewFormatter(1, ".", ",", currencyCode(currency), template)
	return f.Format(tenths) + unit
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// currencyCode normalizes an ISO 4217 code, keeping unknown codes verbatim.
func currencyCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if c := money.GetCurrency(code); c != nil {
		return c.Code
	}
	return code
}
