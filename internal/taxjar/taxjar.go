package taxjar

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider defines the interface for the external rate/compliance
// provider. The production implementation wraps the TaxJar SDK;
// MockProvider serves tests.
type Provider interface {
	// TaxForOrder computes the tax breakdown for a single document.
	// One call per document, no retries; failures propagate to the
	// caller unmodified.
	TaxForOrder(ctx context.Context, creds Credentials, params OrderParams) (*TaxBreakdown, error)

	// CreateOrder records a finalized order as a provider-side
	// transaction. The result is not inspected beyond error presence.
	CreateOrder(ctx context.Context, creds Credentials, params TransactionParams) error
}

// Credentials are the per-channel provider credentials. The sandbox
// flag switches the API base URL.
type Credentials struct {
	APIKey  string
	Sandbox bool
}

// Address is a provider-facing address, either ship-from or ship-to.
type Address struct {
	Country string
	Zip     string
	State   string
	City    string
	Street  string
}

// LineItem is one taxable line of a rate request. Lines that opted out
// of tax calculation are never included here.
type LineItem struct {
	ID             string
	Quantity       int
	ProductTaxCode string
	UnitPrice      decimal.Decimal
	Discount       decimal.Decimal
}

// OrderParams is the rate request for a document.
type OrderParams struct {
	From     Address
	To       Address
	Shipping decimal.Decimal
	Lines    []LineItem
}

// TransactionLineItem is one line of a recorded transaction.
type TransactionLineItem struct {
	Quantity          int
	ProductIdentifier string
	Description       string
	UnitPrice         decimal.Decimal
	SalesTax          decimal.Decimal
}

// TransactionParams describes a finalized order reported for
// provider-side compliance recording.
type TransactionParams struct {
	TransactionID   string
	TransactionDate string
	From            Address
	To              Address
	Amount          decimal.Decimal
	Shipping        decimal.Decimal
	SalesTax        decimal.Decimal
	Lines           []TransactionLineItem
}

// ShippingBreakdown is the provider's tax breakdown for the shipping
// charge. Amounts and rates are the provider's raw values.
type ShippingBreakdown struct {
	TaxableAmount   float64
	TaxCollectable  float64
	CombinedTaxRate float64
}

// LineBreakdown is the provider's tax breakdown for a single line,
// correlated with the request line by ID.
type LineBreakdown struct {
	ID              string
	TaxableAmount   float64
	TaxCollectable  float64
	CombinedTaxRate float64
}

// TaxBreakdown is the per-call result of TaxForOrder. Shipping is nil
// and Lines empty when the provider has no nexus for the destination.
// Produced once per provider call, consumed immediately, discarded.
type TaxBreakdown struct {
	Shipping *ShippingBreakdown
	Lines    []LineBreakdown
}

// Line returns the breakdown entry matching id by exact equality, or
// nil when the provider never saw that line.
func (b *TaxBreakdown) Line(id string) *LineBreakdown {
	if b == nil {
		return nil
	}
	for i := range b.Lines {
		if b.Lines[i].ID == id {
			return &b.Lines[i]
		}
	}
	return nil
}
