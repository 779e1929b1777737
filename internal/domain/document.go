package domain

import "github.com/shopspring/decimal"

// Address is a destination address used to resolve the tax jurisdiction.
type Address struct {
	StreetAddress1 string
	StreetAddress2 string
	City           string
	CityArea       string
	PostalCode     string
	// Country is the two-letter ISO 3166-1 country code, e.g. "US".
	Country string
	// CountryArea is the state/province code, e.g. "CA".
	CountryArea string
}

// Discount is an order-level discount. It is not tied to a specific line;
// the allocator spreads it across lines pro rata.
type Discount struct {
	Amount decimal.Decimal
}

// Line is a single checkout or order line at calculation time.
type Line struct {
	// ID is an opaque platform identifier, preserved verbatim in the
	// response so callers can correlate results with input lines.
	ID string

	// ChargeTaxes marks whether this line participates in tax
	// calculation. Lines with ChargeTaxes=false never reach the rate
	// provider and fall through to discount-adjusted defaults.
	ChargeTaxes bool

	Quantity    int
	UnitAmount  decimal.Decimal
	TotalAmount decimal.Decimal

	// TaxCode is the provider product tax code, empty when unset.
	TaxCode string
}

// Document is the canonical, normalized representation of a checkout or
// an order for tax purposes. It is built per request from the incoming
// webhook payload and never persisted.
type Document struct {
	Currency       string
	ChannelSlug    string
	Address        *Address
	ShippingAmount decimal.Decimal
	Discounts      []Discount
	Lines          []Line
}

// TaxedLine is the calculated result for a single input line. Field
// names match the wire format the platform expects.
type TaxedLine struct {
	ID               string `json:"id"`
	TotalGrossAmount string `json:"total_gross_amount"`
	TotalNetAmount   string `json:"total_net_amount"`
	TaxRate          string `json:"tax_rate"`
}

// TaxResponse is the full calculation result returned to the platform.
// Monetary amounts carry exactly two fractional digits; tax rates are
// the provider's raw values, string-encoded without forced rounding.
// Lines appear in the same order as the input document's lines.
type TaxResponse struct {
	ShippingPriceGrossAmount string      `json:"shipping_price_gross_amount"`
	ShippingPriceNetAmount   string      `json:"shipping_price_net_amount"`
	ShippingTaxRate          string      `json:"shipping_tax_rate"`
	Lines                    []TaxedLine `json:"lines"`
}
