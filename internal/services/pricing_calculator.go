package services

import (
	"github.com/shopspring/decimal"

	"github.com/evcomfg/invoice-backend/internal/domain"
)

// ComputeBreakdown prices an order at the standard tax rate. It has no side effects and
// always returns the same breakdown for the same order.
func ComputeBreakdown(order domain.OrderRequest) domain.PriceBreakdown {
	return computeBreakdown(order, domain.TaxRate())
}

// PricingCalculator prices orders at a fixed tax rate.
type PricingCalculator struct {
	taxRate decimal.Decimal
}

// PricingCalculatorDeps configures a PricingCalculator. A zero TaxRatePercent selects the
// standard rate.
type PricingCalculatorDeps struct {
	TaxRatePercent decimal.Decimal
}

// NewPricingCalculator constructs a calculator.
func NewPricingCalculator(deps PricingCalculatorDeps) *PricingCalculator {
	rate := deps.TaxRatePercent
	if rate.IsZero() {
		rate = domain.TaxRate()
	}
	return &PricingCalculator{taxRate: rate}
}

// Calculate prices the order.
func (c *PricingCalculator) Calculate(order domain.OrderRequest) domain.PriceBreakdown {
	if c == nil {
		return ComputeBreakdown(order)
	}
	return computeBreakdown(order, c.taxRate)
}

// TaxRate returns the configured percentage.
func (c *PricingCalculator) TaxRate() decimal.Decimal {
	if c == nil {
		return domain.TaxRate()
	}
	return c.taxRate
}

func computeBreakdown(order domain.OrderRequest, ratePercent decimal.Decimal) domain.PriceBreakdown {
	battery := order.Battery.Charge()

	paint := decimal.Zero
	if order.Paint != nil {
		paint = order.Paint.Price
	}

	addOnsTotal := decimal.Zero
	var addOns []domain.AddOnCharge
	if len(order.AddOns) > 0 {
		addOns = make([]domain.AddOnCharge, 0, len(order.AddOns))
	}
	for _, addOn := range order.AddOns {
		addOnsTotal = addOnsTotal.Add(addOn.Price)
		addOns = append(addOns, domain.AddOnCharge{Name: addOn.Name, Amount: addOn.Price})
	}

	subtotal := order.BasePrice.Add(battery).Add(addOnsTotal).Add(paint)
	tax := subtotal.Mul(domain.TaxFraction(ratePercent))

	return domain.PriceBreakdown{
		BasePrice:     order.BasePrice,
		BatteryCharge: battery,
		PaintCharge:   paint,
		AddOnsTotal:   addOnsTotal,
		Subtotal:      subtotal,
		TaxRate:       ratePercent,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		AddOns:        addOns,
	}
}
