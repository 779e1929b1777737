package payload_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/taxbridge/internal/domain"
	"github.com/dukerupert/taxbridge/internal/payload"
)

const legacyBody = `[
  {
    "id": "Q2hlY2tvdXQ6MQ==",
    "channel": {"slug": "default-channel", "currency_code": "USD"},
    "currency": "USD",
    "address": {
      "street_address_1": "123 Palm Ave",
      "street_address_2": "",
      "city": "Miami",
      "city_area": "",
      "postal_code": "33133",
      "country": "US",
      "country_area": "FL"
    },
    "shipping_amount": "10.00",
    "shipping_name": "UPS",
    "lines": [
      {
        "id": "Q2hlY2tvdXRMaW5lOjE=",
        "sku": "SKU-1",
        "variant_id": "UHJvZHVjdFZhcmlhbnQ6MQ==",
        "quantity": 2,
        "charge_taxes": true,
        "product_name": "House Blend",
        "product_metadata": {"taxjar_tax_code": "40030"},
        "product_type_metadata": {"taxjar_tax_code": "99999"},
        "unit_amount": "14.00",
        "total_amount": "28.00"
      }
    ],
    "discounts": [{"amount": "3.00"}]
  }
]`

func TestParseDocument_Legacy(t *testing.T) {
	doc, err := payload.ParseDocument([]byte(legacyBody), payload.KindCheckout)

	require.NoError(t, err)
	assert.Equal(t, "USD", doc.Currency)
	assert.Equal(t, "default-channel", doc.ChannelSlug)

	require.NotNil(t, doc.Address)
	assert.Equal(t, "US", doc.Address.Country)
	assert.Equal(t, "FL", doc.Address.CountryArea)
	assert.Equal(t, "33133", doc.Address.PostalCode)

	assert.True(t, doc.ShippingAmount.Equal(decimal.RequireFromString("10.00")))
	require.Len(t, doc.Discounts, 1)
	assert.True(t, doc.Discounts[0].Amount.Equal(decimal.RequireFromString("3.00")))

	require.Len(t, doc.Lines, 1)
	l := doc.Lines[0]
	assert.Equal(t, "Q2hlY2tvdXRMaW5lOjE=", l.ID)
	assert.True(t, l.ChargeTaxes)
	assert.Equal(t, 2, l.Quantity)
	assert.True(t, l.UnitAmount.Equal(decimal.RequireFromString("14.00")))
	assert.True(t, l.TotalAmount.Equal(decimal.RequireFromString("28.00")))
	assert.Equal(t, "40030", l.TaxCode, "product metadata wins over product type metadata")
}

func TestParseDocument_LegacyTaxCodeFallback(t *testing.T) {
	body := `[
  {
    "channel": {"slug": "default-channel"},
    "currency": "USD",
    "address": {"country": "US", "postal_code": "33133"},
    "shipping_amount": "0",
    "lines": [
      {
        "id": "bGluZTox",
        "variant_id": "dmFyOjE=",
        "quantity": 1,
        "charge_taxes": true,
        "product_metadata": {},
        "product_type_metadata": {"taxjar_tax_code": "81100"},
        "unit_amount": "5.00",
        "total_amount": "5.00"
      }
    ]
  }
]`

	doc, err := payload.ParseDocument([]byte(body), payload.KindCheckout)

	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "81100", doc.Lines[0].TaxCode)
}

func TestParseDocument_LegacyMissingAddress(t *testing.T) {
	body := `[{"channel": {"slug": "default-channel"}, "currency": "USD", "lines": []}]`

	_, err := payload.ParseDocument([]byte(body), payload.KindCheckout)

	assert.ErrorIs(t, err, payload.ErrMissingAddress)
}

func TestParseDocument_LegacyOrderMissingVariant(t *testing.T) {
	body := `[
  {
    "channel": {"slug": "default-channel"},
    "currency": "USD",
    "address": {"country": "US"},
    "lines": [
      {"id": "bGluZTox", "variant_id": "", "quantity": 1, "charge_taxes": true, "unit_amount": "5.00", "total_amount": "5.00"}
    ]
  }
]`

	// An order line whose variant was deleted is rejected.
	_, err := payload.ParseDocument([]byte(body), payload.KindOrder)
	assert.ErrorIs(t, err, payload.ErrMissingVariant)
}

const fragmentBody = `{
  "currency": "USD",
  "channel": {"slug": "default-channel"},
  "address": {
    "streetAddress1": "123 Palm Ave",
    "city": "Miami",
    "postalCode": "33133",
    "country": {"code": "US"},
    "countryArea": "FL"
  },
  "shippingPrice": {"amount": 10},
  "discounts": [{"amount": {"amount": 3}}],
  "lines": [
    {
      "chargeTaxes": true,
      "quantity": 2,
      "unitPrice": {"amount": 14},
      "totalPrice": {"amount": 28},
      "sourceLine": {
        "__typename": "CheckoutLine",
        "id": "Q2hlY2tvdXRMaW5lOjE=",
        "productVariant": {
          "product": {
            "metafield": "40030",
            "productType": {"metafield": "99999"}
          }
        }
      }
    }
  ]
}`

func TestParseDocument_Fragment(t *testing.T) {
	doc, err := payload.ParseDocument([]byte(fragmentBody), payload.KindCheckout)

	require.NoError(t, err)
	assert.Equal(t, "default-channel", doc.ChannelSlug)
	require.NotNil(t, doc.Address)
	assert.Equal(t, "US", doc.Address.Country)
	assert.True(t, doc.ShippingAmount.Equal(decimal.NewFromInt(10)))
	require.Len(t, doc.Discounts, 1)
	assert.True(t, doc.Discounts[0].Amount.Equal(decimal.NewFromInt(3)))

	require.Len(t, doc.Lines, 1)
	l := doc.Lines[0]
	assert.Equal(t, "Q2hlY2tvdXRMaW5lOjE=", l.ID)
	assert.True(t, l.ChargeTaxes)
	assert.True(t, l.UnitAmount.Equal(decimal.NewFromInt(14)))
	assert.True(t, l.TotalAmount.Equal(decimal.NewFromInt(28)))
	assert.Equal(t, "40030", l.TaxCode)
}

func TestParseDocument_FragmentOrderLine(t *testing.T) {
	body := `{
  "currency": "USD",
  "channel": {"slug": "default-channel"},
  "address": {"country": {"code": "US"}},
  "shippingPrice": {"amount": 0},
  "lines": [
    {
      "chargeTaxes": true,
      "quantity": 1,
      "unitPrice": {"amount": 5},
      "totalPrice": {"amount": 5},
      "sourceLine": {
        "__typename": "OrderLine",
        "id": "T3JkZXJMaW5lOjE=",
        "variant": {
          "product": {"metafield": "", "productType": {"metafield": "81100"}}
        }
      }
    }
  ]
}`

	doc, err := payload.ParseDocument([]byte(body), payload.KindOrder)

	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "81100", doc.Lines[0].TaxCode, "product type metafield is the fallback")
}

func TestParseDocument_FragmentMissingVariant(t *testing.T) {
	body := `{
  "currency": "USD",
  "channel": {"slug": "default-channel"},
  "address": {"country": {"code": "US"}},
  "shippingPrice": {"amount": 0},
  "lines": [
    {
      "chargeTaxes": true,
      "quantity": 1,
      "unitPrice": {"amount": 5},
      "totalPrice": {"amount": 5},
      "sourceLine": {"__typename": "OrderLine", "id": "T3JkZXJMaW5lOjE=", "variant": null}
    }
  ]
}`

	_, err := payload.ParseDocument([]byte(body), payload.KindOrder)

	assert.ErrorIs(t, err, payload.ErrMissingVariant)
}

func TestParseDocument_FragmentMissingAddress(t *testing.T) {
	body := `{"currency": "USD", "channel": {"slug": "default-channel"}, "shippingPrice": {"amount": 0}, "lines": []}`

	_, err := payload.ParseDocument([]byte(body), payload.KindCheckout)

	assert.ErrorIs(t, err, payload.ErrMissingAddress)
}

func TestParseDocument_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"whitespace only", "   \n"},
		{"broken json", `{"currency":`},
		{"broken legacy json", `[{"currency":`},
		{"empty batch", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payload.ParseDocument([]byte(tt.body), payload.KindCheckout)

			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestParseOrderCreated(t *testing.T) {
	body := `{
  "__typename": "OrderCreated",
  "order": {
    "id": "T3JkZXI6MTIz",
    "created": "2021-03-18T12:29:12.093923+00:00",
    "channel": {"slug": "default-channel"},
    "shippingAddress": {"country": {"code": "US"}, "countryArea": "FL", "postalCode": "33133"},
    "billingAddress": {"country": {"code": "US"}},
    "total": {"net": {"amount": 38}, "tax": {"amount": 2.66}},
    "shippingPrice": {"net": {"amount": 10}},
    "lines": [
      {
        "quantity": 2,
        "productSku": "SKU-1",
        "productName": "House Blend",
        "unitPrice": {"net": {"amount": 14}},
        "totalPrice": {"tax": {"amount": 1.96}}
      }
    ]
  }
}`

	order, err := payload.ParseOrderCreated([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, "T3JkZXI6MTIz", order.ID)
	assert.Equal(t, "default-channel", order.Channel)
	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "US", order.ShippingAddress.Country)
	assert.True(t, order.TotalNetAmount.Equal(decimal.NewFromInt(38)))
	assert.True(t, order.TotalTaxAmount.Equal(decimal.RequireFromString("2.66")))
	assert.True(t, order.ShippingNetAmount.Equal(decimal.NewFromInt(10)))

	require.Len(t, order.Lines, 1)
	assert.Equal(t, "SKU-1", order.Lines[0].ProductSKU)
	assert.Equal(t, "House Blend", order.Lines[0].ProductName)
	assert.True(t, order.Lines[0].UnitNetAmount.Equal(decimal.NewFromInt(14)))
	assert.True(t, order.Lines[0].TotalTaxAmount.Equal(decimal.RequireFromString("1.96")))
}

func TestParseOrderCreated_MissingOrder(t *testing.T) {
	_, err := payload.ParseOrderCreated([]byte(`{"__typename": "OrderCreated"}`))

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestParseOrderCreated_WrongEvent(t *testing.T) {
	_, err := payload.ParseOrderCreated([]byte(`{"__typename": "OrderUpdated", "order": {"id": "x"}}`))

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}
