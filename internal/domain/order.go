package domain

import "github.com/shopspring/decimal"

// OrderLine is a finalized order line reported to the compliance
// provider when a completed order is recorded.
type OrderLine struct {
	Quantity    int
	ProductSKU  string
	ProductName string
	// UnitNetAmount is the per-unit net price.
	UnitNetAmount decimal.Decimal
	// TotalTaxAmount is the tax collected on the line total.
	TotalTaxAmount decimal.Decimal
}

// Order is a finalized order at recording time. Unlike Document it
// carries the amounts the platform already settled on; the bridge only
// forwards them.
type Order struct {
	ID      string
	Created string
	Channel string

	ShippingAddress *Address
	BillingAddress  *Address

	TotalNetAmount    decimal.Decimal
	TotalTaxAmount    decimal.Decimal
	ShippingNetAmount decimal.Decimal

	Lines []OrderLine
}

// DestinationCountry resolves the country the order ships to: the
// shipping address wins, the billing address is the fallback. The
// second return is false when the order carries neither address.
func (o *Order) DestinationCountry() (string, bool) {
	if o.ShippingAddress != nil {
		return o.ShippingAddress.Country, true
	}
	if o.BillingAddress != nil {
		return o.BillingAddress.Country, true
	}
	return "", false
}

// DestinationAddress returns the address used for provider-side
// recording, preferring shipping over billing.
func (o *Order) DestinationAddress() *Address {
	if o.ShippingAddress != nil {
		return o.ShippingAddress
	}
	return o.BillingAddress
}
