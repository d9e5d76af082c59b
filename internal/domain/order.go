package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StandardBatteryLabel is the battery option included with every cart at no charge.
const StandardBatteryLabel = "AMG batteries 150A-48 V (Standard)"

// ShippingDistinctFlag is the shippingAddressSame value that selects a separate ship-to address.
const ShippingDistinctFlag = "no"

// OrderRequest is a validated cart order. It is built once at the request boundary and
// treated as immutable afterwards.
type OrderRequest struct {
	Customer  Customer
	CartModel string
	BasePrice decimal.Decimal
	Battery   BatterySelection
	Paint     *PaintSelection
	AddOns    []AddOn
}

// Customer groups the billing party and the optional shipping party.
type Customer struct {
	Name         string
	Billing      Address
	ShippingSame string
	Shipping     *ShippingParty
}

// ShipsSeparately reports whether the order carries a distinct ship-to party.
func (c Customer) ShipsSeparately() bool {
	return c.ShippingSame == ShippingDistinctFlag && c.Shipping != nil
}

// ShippingParty is the recipient printed in the ship-to column.
type ShippingParty struct {
	Name    string
	Address Address
}

// Address is a postal address. Line2 is optional.
type Address struct {
	Line1 string
	Line2 string
	City  string
	State string
	Zip   string
}

// CityLine renders the "City, ST Zip" line used on the invoice.
func (a Address) CityLine() string {
	return a.City + ", " + strings.TrimSpace(a.State+" "+a.Zip)
}

// BatteryKind discriminates the battery selection variant.
type BatteryKind int

const (
	// BatteryStandard is the included battery; it never adds to the subtotal.
	BatteryStandard BatteryKind = iota
	// BatteryCustom is an upgrade billed at its listed price.
	BatteryCustom
)

// String returns a stable name for logs and metrics.
func (k BatteryKind) String() string {
	switch k {
	case BatteryStandard:
		return "standard"
	case BatteryCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// BatterySelection is a tagged variant: Standard, or Custom carrying its price.
type BatterySelection struct {
	Kind  BatteryKind
	Label string
	price decimal.Decimal
}

// ResolveBattery decides the variant once from the submitted label. Only an exact match of
// StandardBatteryLabel selects the standard battery; the supplied price is dropped in that case.
func ResolveBattery(label string, price decimal.Decimal) BatterySelection {
	if label == StandardBatteryLabel {
		return StandardBattery()
	}
	return CustomBattery(label, price)
}

// StandardBattery returns the included battery selection.
func StandardBattery() BatterySelection {
	return BatterySelection{Kind: BatteryStandard, Label: StandardBatteryLabel}
}

// CustomBattery returns an upgrade battery billed at price.
func CustomBattery(label string, price decimal.Decimal) BatterySelection {
	return BatterySelection{Kind: BatteryCustom, Label: label, price: price}
}

// Charge is the amount the battery adds to the subtotal.
func (b BatterySelection) Charge() decimal.Decimal {
	if b.Kind == BatteryStandard {
		return decimal.Zero
	}
	return b.price
}

// PaintSelection is an optional paint upgrade. Color is descriptive only.
type PaintSelection struct {
	Name  string
	Color string
	Price decimal.Decimal
}

// Description joins the paint name and color the way the invoice prints it.
func (p PaintSelection) Description() string {
	if p.Color == "" {
		return p.Name
	}
	return p.Name + " - " + p.Color
}

// AddOn is an optional extra line item.
type AddOn struct {
	Name  string
	Price decimal.Decimal
}
