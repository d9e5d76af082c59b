package services

import (
	"github.com/shopspring/decimal"

	"github.com/evcomfg/invoice-backend/internal/domain"
)

const displayPlaces = 2

// MoneyLine is a named amount in a BreakdownView.
type MoneyLine struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// BreakdownView is the JSON form of a price breakdown. Amounts are rounded half away from zero
// to cents, matching the printed invoice.
type BreakdownView struct {
	BasePrice   string      `json:"basePrice"`
	Battery     string      `json:"battery"`
	Paint       string      `json:"paint"`
	AddOns      []MoneyLine `json:"addOns"`
	AddOnsTotal string      `json:"addOnsTotal"`
	Subtotal    string      `json:"subtotal"`
	TaxRate     string      `json:"taxRate"`
	Tax         string      `json:"tax"`
	Total       string      `json:"total"`
}

// NewBreakdownView formats b for display.
func NewBreakdownView(b domain.PriceBreakdown) BreakdownView {
	view := BreakdownView{
		BasePrice:   cents(b.BasePrice),
		Battery:     cents(b.BatteryCharge),
		Paint:       cents(b.PaintCharge),
		AddOns:      make([]MoneyLine, 0, len(b.AddOns)),
		AddOnsTotal: cents(b.AddOnsTotal),
		Subtotal:    cents(b.Subtotal),
		TaxRate:     b.TaxRate.String(),
		Tax:         cents(b.Tax),
		Total:       cents(b.Total),
	}
	for _, addOn := range b.AddOns {
		view.AddOns = append(view.AddOns, MoneyLine{Name: addOn.Name, Amount: cents(addOn.Amount)})
	}
	return view
}

func cents(v decimal.Decimal) string {
	return v.StringFixed(displayPlaces)
}
