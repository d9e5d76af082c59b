// Package orderform turns the flat JSON order submitted by the cart configurator into a
// validated domain.OrderRequest.
package orderform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/evcomfg/invoice-backend/internal/domain"
)

// Options controls boundary policy.
type Options struct {
	// RejectNegative turns negative prices into *NegativePriceError.
	RejectNegative bool
}

// Form is the wire shape of an order. Prices are kept raw so that numbers and numeric
// strings are both accepted.
type Form struct {
	CustomerName         Text            `json:"customerName"`
	BillingAddress1      Text            `json:"billingAddress1"`
	BillingAddress2      Text            `json:"billingAddress2"`
	BillingCity          Text            `json:"billingCity"`
	BillingState         Text            `json:"billingState"`
	BillingZipCode       Text            `json:"billingZipCode"`
	ShippingAddressSame  Text            `json:"shippingAddressSame"`
	ShippingCustomerName Text            `json:"shippingCustomerName"`
	ShippingAddress1     Text            `json:"shippingAddress1"`
	ShippingAddress2     Text            `json:"shippingAddress2"`
	ShippingCity         Text            `json:"shippingCity"`
	ShippingState        Text            `json:"shippingState"`
	ShippingZipCode      Text            `json:"shippingZipCode"`
	CartModel            Text            `json:"cartModel"`
	BasePrice            json.RawMessage `json:"basePrice"`
	Battery              Text            `json:"battery"`
	BatteryPrice         json.RawMessage `json:"battery_price"`
	Paint                Text            `json:"paint"`
	PaintColor           Text            `json:"paintColor"`
	PaintPrice           json.RawMessage `json:"paintPrice"`
	AddOns               []FormAddOn     `json:"addOns"`
}

// FormAddOn is one add-on entry of the wire form.
type FormAddOn struct {
	Name  Text            `json:"name"`
	Price json.RawMessage `json:"price"`
}

// Text is a free-text form value. JSON numbers and booleans are kept in their literal
// form so that e.g. a numeric zip code is not rejected.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*t = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case raw == "true" || raw == "false":
		*t = Text(raw)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("orderform: expected text, got %.32s", raw)
		}
		*t = Text(n.String())
	}
	return nil
}

// Decode parses and validates a JSON order body.
func Decode(data []byte, opts Options) (domain.OrderRequest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.OrderRequest{}, ErrMalformedBody
	}
	var form Form
	if err := json.Unmarshal(trimmed, &form); err != nil {
		return domain.OrderRequest{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return form.Order(opts)
}

// Order validates the form. Required-field presence is checked before any price is parsed.
func (f Form) Order(opts Options) (domain.OrderRequest, error) {
	if missing := f.missingFields(); len(missing) > 0 {
		return domain.OrderRequest{}, &MissingFieldsError{Fields: missing}
	}

	p := priceParser{rejectNegative: opts.RejectNegative}
	base := p.parse("basePrice", f.BasePrice)
	batteryPrice := p.parse("battery_price", f.BatteryPrice)
	paintPrice := p.parse("paintPrice", f.PaintPrice)
	addOns := make([]domain.AddOn, 0, len(f.AddOns))
	for i, a := range f.AddOns {
		addOns = append(addOns, domain.AddOn{
			Name:  cleanText(a.Name),
			Price: p.parse(fmt.Sprintf("addOns[%d].price", i), a.Price),
		})
	}
	if p.err != nil {
		return domain.OrderRequest{}, p.err
	}

	battery := domain.ResolveBattery(string(f.Battery), batteryPrice)
	battery.Label = cleanText(Text(battery.Label))

	order := domain.OrderRequest{
		Customer: domain.Customer{
			Name: cleanText(f.CustomerName),
			Billing: domain.Address{
				Line1: cleanText(f.BillingAddress1),
				Line2: cleanText(f.BillingAddress2),
				City:  cleanText(f.BillingCity),
				State: cleanText(f.BillingState),
				Zip:   cleanText(f.BillingZipCode),
			},
			ShippingSame: string(f.ShippingAddressSame),
		},
		CartModel: cleanText(f.CartModel),
		BasePrice: base,
		Battery:   battery,
	}
	if len(addOns) > 0 {
		order.AddOns = addOns
	}
	if string(f.ShippingAddressSame) == domain.ShippingDistinctFlag {
		order.Customer.Shipping = &domain.ShippingParty{
			Name: cleanText(f.ShippingCustomerName),
			Address: domain.Address{
				Line1: cleanText(f.ShippingAddress1),
				Line2: cleanText(f.ShippingAddress2),
				City:  cleanText(f.ShippingCity),
				State: cleanText(f.ShippingState),
				Zip:   cleanText(f.ShippingZipCode),
			},
		}
	}
	if name := cleanText(f.Paint); name != "" {
		order.Paint = &domain.PaintSelection{
			Name:  name,
			Color: cleanText(f.PaintColor),
			Price: paintPrice,
		}
	}
	return order, nil
}

func (f Form) missingFields() []string {
	var missing []string
	check := func(name string, value Text) {
		if strings.TrimSpace(string(value)) == "" {
			missing = append(missing, name)
		}
	}
	check("customerName", f.CustomerName)
	check("billingAddress1", f.BillingAddress1)
	check("billingCity", f.BillingCity)
	check("billingState", f.BillingState)
	check("billingZipCode", f.BillingZipCode)
	check("cartModel", f.CartModel)
	if isAbsent(f.BasePrice) {
		missing = append(missing, "basePrice")
	}
	return missing
}

// priceParser keeps the first parse failure so callers can parse every field and check once.
type priceParser struct {
	rejectNegative bool
	err            error
}

func (p *priceParser) parse(field string, raw json.RawMessage) decimal.Decimal {
	if p.err != nil {
		return decimal.Zero
	}
	value, err := parsePrice(field, raw)
	if err != nil {
		p.err = err
		return decimal.Zero
	}
	if p.rejectNegative && value.IsNegative() {
		p.err = &NegativePriceError{Field: field, Value: value.String()}
		return decimal.Zero
	}
	return value
}

// parsePrice accepts a JSON number or a numeric string. Null, absent and blank values are zero.
func parsePrice(field string, raw json.RawMessage) (decimal.Decimal, error) {
	if isAbsent(raw) {
		return decimal.Zero, nil
	}
	text := strings.TrimSpace(string(raw))
	switch text[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, &InvalidPriceError{Field: field, Value: text, Err: err}
		}
		text = strings.TrimSpace(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
	default:
		return decimal.Zero, &InvalidPriceError{Field: field, Value: text}
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, &InvalidPriceError{Field: field, Value: text, Err: err}
	}
	return value, nil
}

func isAbsent(raw json.RawMessage) bool {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return true
	}
	var s string
	if text[0] == '"' && json.Unmarshal([]byte(text), &s) == nil {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// cleanText trims a free-text field for printing. Line breaks and tabs become spaces and
// other control characters are dropped; everything else is kept as submitted.
func cleanText(t Text) string {
	value := strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, string(t))
	return strings.TrimSpace(value)
}
