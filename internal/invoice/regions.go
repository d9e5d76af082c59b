package invoice

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evcomfg/invoice-backend/internal/domain"
)

const signatureLine = "Signature: _________________________"

// document is the per-render state shared by the regions of one invoice.
type document struct {
	profile   Profile
	branding  Branding
	order     domain.OrderRequest
	breakdown domain.PriceBreakdown
	issuedAt  time.Time
}

func (d *document) regions() []Region {
	return []Region{
		regionFunc{name: "header", draw: d.header},
		regionFunc{name: "metadata", draw: d.metadata},
		regionFunc{name: "parties", draw: d.parties},
		regionFunc{name: "table", draw: d.table},
		regionFunc{name: "summary", draw: d.summary},
	}
}

func (d *document) text(s Surface, x, y float64, value string, size, width float64, align Align) {
	if width <= 0 {
		width = d.profile.widthToMargin(x)
	}
	s.Text(x, y, value, TextStyle{Size: size, Width: width, Align: align})
}

func (d *document) header(s Surface, at Cursor) (Cursor, error) {
	h := d.profile.Header
	if len(d.branding.Logo.Data) > 0 {
		s.Image(d.branding.Logo, h.LogoX, h.LogoY, h.LogoWidth)
	}
	d.text(s, h.TitleX, h.TitleY, "INVOICE", h.TitleSize, 0, AlignRight)

	y := h.IssuerY
	for _, line := range d.branding.Issuer.Lines() {
		d.text(s, h.IssuerX, y, line, h.IssuerSize, 0, AlignRight)
		y += h.IssuerLineStep
	}
	return at.AdvanceTo(y), nil
}

func (d *document) metadata(s Surface, at Cursor) (Cursor, error) {
	m := d.profile.Metadata
	size := d.profile.BodySize
	d.text(s, m.X, m.InvoiceY, "Invoice #: ", size, 0, AlignLeft)
	d.text(s, m.X, m.DateY, "Date: "+FormatDate(d.issuedAt), size, 0, AlignLeft)
	return at.AdvanceTo(m.DateY + d.profile.Parties.LineStep), nil
}

func (d *document) parties(s Surface, at Cursor) (Cursor, error) {
	p := d.profile.Parties
	customer := d.order.Customer

	d.partyColumn(s, p.BillX, p.DividerX-p.BillX, "BILL TO:", customer.Name, customer.Billing)

	s.Line(p.DividerX, p.Top, p.DividerX, p.DividerBottom, p.DividerWidth)

	if customer.ShipsSeparately() {
		ship := customer.Shipping
		d.partyColumn(s, p.ShipX, 0, "SHIP TO:", ship.Name, ship.Address)
	}
	return at.AdvanceTo(p.DividerBottom), nil
}

func (d *document) partyColumn(s Surface, x, width float64, title, name string, addr domain.Address) {
	p := d.profile.Parties
	size := d.profile.BodySize
	lines := []string{title, name, addr.Line1, addr.Line2, addr.CityLine()}
	for i, line := range lines {
		d.text(s, x, p.Top+float64(i)*p.LineStep, line, size, width, AlignLeft)
	}
}

func (d *document) table(s Surface, at Cursor) (Cursor, error) {
	t := d.profile.Table
	size := d.profile.BodySize
	// The whole table moves down when the cursor is already past its planned header.
	geometry := PlanTable(len(d.order.AddOns), d.profile)
	geometry = geometry.Shift(at.Y() - geometry.HeaderY)

	fill, stroke := LightGray, Black
	s.Rect(t.X, geometry.HeaderY, t.Width, t.HeaderHeight, RectStyle{Fill: &fill, Stroke: &stroke, LineWidth: t.BorderWidth})
	d.text(s, t.Description.X, geometry.LabelY, "DESCRIPTION", size, t.Description.Width, t.Description.Align)
	d.text(s, t.UnitPrice.X, geometry.LabelY, "UNIT PRICE", size, t.UnitPrice.Width, t.UnitPrice.Align)
	d.text(s, t.Total.X, geometry.LabelY, "TOTAL", size, t.Total.Width, t.Total.Align)

	d.lineItem(s, geometry.BaseRowY, d.order.CartModel, d.breakdown.BasePrice)
	d.lineItem(s, geometry.BatteryRowY, d.order.Battery.Label, d.breakdown.BatteryCharge)
	if paint := d.order.Paint; paint != nil {
		d.lineItem(s, geometry.PaintRowY, paint.Description(), d.breakdown.PaintCharge)
	}
	for i, addOn := range d.order.AddOns {
		d.lineItem(s, geometry.AddOnRowYs[i], addOn.Name, addOn.Price)
	}

	return at.AdvanceTo(geometry.SummaryY), nil
}

func (d *document) lineItem(s Surface, y float64, description string, amount decimal.Decimal) {
	t := d.profile.Table
	size := d.profile.BodySize
	price := FormatMoney(amount)
	d.text(s, t.Description.X, y, description, size, t.Description.Width, t.Description.Align)
	d.text(s, t.UnitPrice.X, y, price, size, t.UnitPrice.Width, t.UnitPrice.Align)
	d.text(s, t.Total.X, y, price, size, t.Total.Width, t.Total.Align)
}

func (d *document) summary(s Surface, at Cursor) (Cursor, error) {
	sm := d.profile.Summary
	size := d.profile.BodySize
	g := PlanSummary(at.Y(), d.profile)
	b := d.breakdown

	d.text(s, sm.LabelX, g.SubtotalY, "Subtotal:", size, 0, AlignCenter)
	d.text(s, sm.ValueX, g.SubtotalY, FormatMoney(b.Subtotal), size, 0, AlignRight)

	d.text(s, sm.LabelX, g.TaxY, fmt.Sprintf("Tax (%s%%):", b.TaxRate.String()), size, 0, AlignCenter)
	d.text(s, sm.ValueX, g.TaxY, FormatMoney(b.Tax), size, 0, AlignRight)

	fill, stroke := LightGray, Black
	s.Rect(sm.TotalBoxX, g.TotalBoxY, sm.TotalBoxWidth, sm.TotalBoxHeight, RectStyle{Fill: &fill, Stroke: &stroke, LineWidth: d.profile.Table.BorderWidth})
	d.text(s, sm.LabelX, g.TotalTextY, "Total Due: ", size, 0, AlignCenter)
	d.text(s, sm.ValueX, g.TotalTextY, FormatMoney(b.Total), size, 0, AlignRight)

	d.text(s, sm.SignatureX, g.SignatureY, signatureLine, size, 0, AlignLeft)

	return at.AdvanceTo(g.SignatureY + d.profile.RowHeight), nil
}
