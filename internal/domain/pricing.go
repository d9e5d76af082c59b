package domain

import "github.com/shopspring/decimal"

// TaxRatePercent is the flat sales tax applied to every invoice subtotal.
const TaxRatePercent = "7.25"

var (
	taxRate    = decimal.RequireFromString(TaxRatePercent)
	oneHundred = decimal.NewFromInt(100)
)

// TaxRate returns the flat tax rate as a percentage (7.25 means 7.25%).
func TaxRate() decimal.Decimal {
	return taxRate
}

// TaxFraction converts a percentage rate into the multiplier applied to a subtotal.
func TaxFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(oneHundred)
}

// PriceBreakdown captures the monetary results of pricing a single order.
// Values are exact; rounding happens only when an amount is formatted for display.
type PriceBreakdown struct {
	BasePrice     decimal.Decimal
	BatteryCharge decimal.Decimal
	PaintCharge   decimal.Decimal
	AddOnsTotal   decimal.Decimal
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	AddOns        []AddOnCharge
}

// AddOnCharge records the price contributed by one add-on line.
type AddOnCharge struct {
	Name   string
	Amount decimal.Decimal
}
