package orderform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evcomfg/invoice-backend/internal/domain"
)

const fullOrder = `{
	"customerName": "Sam <Lee> &amp; Co",
	"billingAddress1": "12 Elm St",
	"billingCity": "Dayton",
	"billingState": "OH",
	"billingZipCode": 45402,
	"shippingAddressSame": "no",
	"shippingCustomerName": "Warehouse 9",
	"shippingAddress1": "1 Dock Rd",
	"shippingAddress2": "Bay 4",
	"shippingCity": "Toledo",
	"shippingState": "OH",
	"shippingZipCode": "43604",
	"cartModel": "Lifted 6 & Co",
	"basePrice": 10000,
	"battery": "Custom 200A",
	"battery_price": "800",
	"paint": "Pearl",
	"paintColor": "White",
	"paintPrice": 300.5,
	"addOns": [{"name": "Cup holder", "price": 50}, {"name": "Mirror"}, {"name": "Lights", "price": "75.25"}, {"name": "a<b", "price": 1}]
}`

func TestDecodeFullOrder(t *testing.T) {
	t.Parallel()

	order, err := Decode([]byte(fullOrder), Options{})
	require.NoError(t, err)

	require.Equal(t, "Sam <Lee> &amp; Co", order.Customer.Name)
	require.Equal(t, "45402", order.Customer.Billing.Zip)
	require.Empty(t, order.Customer.Billing.Line2)
	require.Equal(t, "Lifted 6 & Co", order.CartModel)
	require.True(t, order.BasePrice.Equal(dec("10000")))

	require.Equal(t, domain.BatteryCustom, order.Battery.Kind)
	require.Equal(t, "Custom 200A", order.Battery.Label)
	require.True(t, order.Battery.Charge().Equal(dec("800")))

	require.NotNil(t, order.Paint)
	require.Equal(t, "Pearl - White", order.Paint.Description())
	require.True(t, order.Paint.Price.Equal(dec("300.5")))

	require.Len(t, order.AddOns, 4)
	require.Equal(t, "a<b", order.AddOns[3].Name)
	require.True(t, order.AddOns[1].Price.IsZero(), "missing add-on price defaults to zero")
	require.True(t, order.AddOns[2].Price.Equal(dec("75.25")))

	require.True(t, order.Customer.ShipsSeparately())
	require.Equal(t, "Warehouse 9", order.Customer.Shipping.Name)
	require.Equal(t, "Toledo, OH 43604", order.Customer.Shipping.Address.CityLine())
}

func TestDecodeMinimalOrder(t *testing.T) {
	t.Parallel()

	body := `{"customerName":"A","billingAddress1":"B","billingCity":"C","billingState":"D","billingZipCode":"E","cartModel":"F","basePrice":0,
		"battery":"AMG batteries 150A-48 V (Standard)","battery_price":500}`
	order, err := Decode([]byte(body), Options{})
	require.NoError(t, err)
	require.True(t, order.BasePrice.IsZero())
	require.Equal(t, domain.BatteryStandard, order.Battery.Kind)
	require.True(t, order.Battery.Charge().IsZero())
	require.Nil(t, order.Paint)
	require.Nil(t, order.AddOns)
	require.False(t, order.Customer.ShipsSeparately())
	require.Nil(t, order.Customer.Shipping)
}

func TestDecodeMissingFields(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		body string
		want []string
	}{
		"empty object": {
			body: `{}`,
			want: []string{"customerName", "billingAddress1", "billingCity", "billingState", "billingZipCode", "cartModel", "basePrice"},
		},
		"missing cart model": {
			body: `{"customerName":"A","billingAddress1":"B","billingCity":"C","billingState":"D","billingZipCode":"E","basePrice":1}`,
			want: []string{"cartModel"},
		},
		"blank strings": {
			body: `{"customerName":"  ","billingAddress1":"B","billingCity":"C","billingState":"D","billingZipCode":"E","cartModel":"F","basePrice":""}`,
			want: []string{"customerName", "basePrice"},
		},
		"null base price": {
			body: `{"customerName":"A","billingAddress1":"B","billingCity":"C","billingState":"D","billingZipCode":"E","cartModel":"F","basePrice":null}`,
			want: []string{"basePrice"},
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode([]byte(tc.body), Options{})
			var missing *MissingFieldsError
			require.ErrorAs(t, err, &missing)
			require.Equal(t, tc.want, missing.Fields)
		})
	}
}

func TestDecodeMissingFieldsWinsOverInvalidPrice(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`{"basePrice":"abc","cartModel":"F"}`), Options{})
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
}

func TestDecodeInvalidPrice(t *testing.T) {
	t.Parallel()

	base := `{"customerName":"A","billingAddress1":"B","billingCity":"C","billingState":"D","billingZipCode":"E","cartModel":"F",`
	cases := map[string]struct {
		tail  string
		field string
	}{
		"word":          {tail: `"basePrice":"ten"}`, field: "basePrice"},
		"boolean":       {tail: `"basePrice":true}`, field: "basePrice"},
		"object":        {tail: `"basePrice":1,"paintPrice":{"v":1}}`, field: "paintPrice"},
		"nan":           {tail: `"basePrice":1,"battery_price":"NaN"}`, field: "battery_price"},
		"addon":         {tail: `"basePrice":1,"addOns":[{"name":"x","price":1},{"name":"y","price":"1,5"}]}`, field: "addOns[1].price"},
		"first problem": {tail: `"basePrice":"x","paintPrice":"y"}`, field: "basePrice"},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode([]byte(base+tc.tail), Options{})
			var invalid *InvalidPriceError
			require.ErrorAs(t, err, &invalid)
			require.Equal(t, tc.field, invalid.Field)

			field, ok := FieldOf(err)
			require.True(t, ok)
			require.Equal(t, tc.field, field)
		})
	}
}

func TestDecodeNegativePrices(t *testing.T) {
	t.Parallel()

	body := `{"customerName":"A","billingAddress1":"B","billingCity":"C","billingState":"D","billingZipCode":"E","cartModel":"F",
		"basePrice":100,"addOns":[{"name":"discount","price":-25}]}`

	order, err := Decode([]byte(body), Options{})
	require.NoError(t, err)
	require.True(t, order.AddOns[0].Price.Equal(dec("-25")))

	_, err = Decode([]byte(body), Options{RejectNegative: true})
	var negative *NegativePriceError
	require.ErrorAs(t, err, &negative)
	require.Equal(t, "addOns[0].price", negative.Field)
}

func TestDecodeMalformedBody(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "   ", "[]", "null", `{"customerName":`, `{"customerName":{"a":1}}`} {
		_, err := Decode([]byte(body), Options{})
		require.Truef(t, errors.Is(err, ErrMalformedBody), "body %q: %v", body, err)
	}
}

func TestShippingFlagIsExact(t *testing.T) {
	t.Parallel()

	for _, flag := range []string{"yes", "NO", " no", ""} {
		form := Form{
			CustomerName:        "A",
			BillingAddress1:     "B",
			BillingCity:         "C",
			BillingState:        "D",
			BillingZipCode:      "E",
			CartModel:           "F",
			BasePrice:           []byte("1"),
			ShippingAddressSame: Text(flag),
			ShippingAddress1:    "elsewhere",
		}
		order, err := form.Order(Options{})
		require.NoError(t, err)
		require.Falsef(t, order.Customer.ShipsSeparately(), "flag %q", flag)
		require.Equal(t, flag, order.Customer.ShippingSame)
	}
}

func TestBatteryLabelMatchIsExact(t *testing.T) {
	t.Parallel()

	form := Form{
		CustomerName:    "A",
		BillingAddress1: "B",
		BillingCity:     "C",
		BillingState:    "D",
		BillingZipCode:  "E",
		CartModel:       "F",
		BasePrice:       []byte("1"),
		Battery:         Text(domain.StandardBatteryLabel + " "),
		BatteryPrice:    []byte("250"),
	}
	order, err := form.Order(Options{})
	require.NoError(t, err)
	require.Equal(t, domain.BatteryCustom, order.Battery.Kind)
	require.True(t, order.Battery.Charge().Equal(dec("250")))
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Smith &amp; Sons", cleanText("  Smith &amp; Sons "))
	require.Equal(t, "Smith & Sons", cleanText("Smith & Sons"))
	require.Equal(t, "<i>alert</i>(1)", cleanText("<i>alert</i>(1)"))
	require.Equal(t, "Sam <Lee>", cleanText("Sam <Lee>"))
	require.Equal(t, "a<b", cleanText("a<b"))
	require.Equal(t, "12 Elm St  Unit 4", cleanText("12 Elm St\r\nUnit 4"))
	require.Equal(t, "Dock", cleanText("Do\x00ck\x1b"))
	require.Equal(t, "Café", cleanText("Café"))
}
