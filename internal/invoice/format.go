package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

const currencySymbol = "$"

// FormatMoney renders an amount as a dollar string with exactly two decimals, no grouping
// separators. Half-cent values round away from zero.
func FormatMoney(amount decimal.Decimal) string {
	return currencySymbol + amount.StringFixed(2)
}

// FormatDate renders the invoice date as M/D/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("1/2/2006")
}
