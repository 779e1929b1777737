package tax_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/taxbridge/internal/settings"
	"github.com/dukerupert/taxbridge/internal/tax"
	"github.com/dukerupert/taxbridge/internal/taxjar"
)

func activeConfig() *settings.ChannelConfig {
	return &settings.ChannelConfig{
		APIKey:  "test-key",
		Active:  true,
		Sandbox: true,
		ShipFrom: settings.ShipFrom{
			Country: "US",
			Zip:     "98106",
			State:   "WA",
			City:    "Seattle",
			Street:  "4786 Duwamish Ave S",
		},
	}
}

func TestCalculateTaxes_InactiveChannel(t *testing.T) {
	provider := taxjar.NewMockProvider()
	calc := tax.NewCalculator(provider, nil)

	cfg := activeConfig()
	cfg.Active = false

	_, err := calc.CalculateTaxes(context.Background(), document("0", line("l1", "10")), cfg)

	assert.ErrorIs(t, err, settings.ErrNotActive)
	assert.Empty(t, provider.TaxForOrderCalls, "provider must not be called for an inactive channel")
}

func TestCalculateTaxes_MissingAPIKey(t *testing.T) {
	provider := taxjar.NewMockProvider()
	calc := tax.NewCalculator(provider, nil)

	cfg := activeConfig()
	cfg.APIKey = ""

	_, err := calc.CalculateTaxes(context.Background(), document("0", line("l1", "10")), cfg)

	assert.ErrorIs(t, err, settings.ErrMissingAPIKey)
	assert.Empty(t, provider.TaxForOrderCalls)
}

func TestCalculateTaxes_MissingAddress(t *testing.T) {
	provider := taxjar.NewMockProvider()
	calc := tax.NewCalculator(provider, nil)

	doc := document("0", line("l1", "10"))
	doc.Address = nil

	_, err := calc.CalculateTaxes(context.Background(), doc, activeConfig())

	assert.ErrorIs(t, err, tax.ErrMissingAddress)
	assert.Empty(t, provider.TaxForOrderCalls)
}

func TestCalculateTaxes_NoTaxableLines(t *testing.T) {
	// Every line opts out: the provider is never called and all lines
	// get their discount-adjusted defaults.
	provider := taxjar.NewMockProvider()
	calc := tax.NewCalculator(provider, nil)

	l := line("l1", "28.00")
	l.ChargeTaxes = false
	doc := document("10.00", l)
	doc.Discounts = discounts("3")

	resp, err := calc.CalculateTaxes(context.Background(), doc, activeConfig())

	require.NoError(t, err)
	assert.Empty(t, provider.TaxForOrderCalls, "provider must not be called when no line is taxable")
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "25.00", resp.Lines[0].TotalGrossAmount)
	assert.Equal(t, "0", resp.Lines[0].TaxRate)
	assert.Equal(t, "10.00", resp.ShippingPriceGrossAmount)
}

func TestCalculateTaxes_ProviderErrorPropagates(t *testing.T) {
	providerErr := errors.New("taxjar: 500 something broke")
	provider := taxjar.NewMockProvider()
	provider.TaxForOrderFunc = func(ctx context.Context, creds taxjar.Credentials, params taxjar.OrderParams) (*taxjar.TaxBreakdown, error) {
		return nil, providerErr
	}
	calc := tax.NewCalculator(provider, nil)

	_, err := calc.CalculateTaxes(context.Background(), document("0", line("l1", "10")), activeConfig())

	assert.ErrorIs(t, err, providerErr, "provider failures must propagate unmodified")
}

func TestCalculateTaxes_RequestShape(t *testing.T) {
	provider := taxjar.NewMockProvider()
	var gotCreds taxjar.Credentials
	provider.TaxForOrderFunc = func(ctx context.Context, creds taxjar.Credentials, params taxjar.OrderParams) (*taxjar.TaxBreakdown, error) {
		gotCreds = creds
		return &taxjar.TaxBreakdown{}, nil
	}
	calc := tax.NewCalculator(provider, nil)

	taxed := line("taxed", "28.00")
	taxed.TaxCode = "81100"
	exempt := line("exempt", "5.00")
	exempt.ChargeTaxes = false
	doc := document("10.00", taxed, exempt)
	doc.Discounts = discounts("3.30")

	_, err := calc.CalculateTaxes(context.Background(), doc, activeConfig())
	require.NoError(t, err)

	require.Len(t, provider.TaxForOrderCalls, 1)
	params := provider.TaxForOrderCalls[0]

	assert.Equal(t, "test-key", gotCreds.APIKey)
	assert.True(t, gotCreds.Sandbox)

	assert.Equal(t, "US", params.From.Country)
	assert.Equal(t, "98106", params.From.Zip)
	assert.Equal(t, "US", params.To.Country)
	assert.True(t, params.Shipping.Equal(decimal.RequireFromString("10.00")))

	// Only the taxable line reaches the provider, carrying its share of
	// the order discount.
	require.Len(t, params.Lines, 1)
	assert.Equal(t, "taxed", params.Lines[0].ID)
	assert.Equal(t, "81100", params.Lines[0].ProductTaxCode)
	expectedDiscount := decimal.RequireFromString("28.00").
		Div(decimal.RequireFromString("33.00")).
		Mul(decimal.RequireFromString("3.30"))
	assert.True(t, params.Lines[0].Discount.Equal(expectedDiscount),
		"discount %s, want %s", params.Lines[0].Discount, expectedDiscount)
}

func TestCalculateTaxes_AssemblesProviderResult(t *testing.T) {
	provider := taxjar.NewMockProvider()
	provider.TaxForOrderFunc = func(ctx context.Context, creds taxjar.Credentials, params taxjar.OrderParams) (*taxjar.TaxBreakdown, error) {
		return &taxjar.TaxBreakdown{
			Shipping: &taxjar.ShippingBreakdown{TaxableAmount: 10, TaxCollectable: 2.30, CombinedTaxRate: 0.23},
			Lines: []taxjar.LineBreakdown{
				{ID: "l1", TaxableAmount: 28, TaxCollectable: 6.44, CombinedTaxRate: 0.23},
			},
		}, nil
	}
	calc := tax.NewCalculator(provider, nil)

	resp, err := calc.CalculateTaxes(context.Background(), document("10.00", line("l1", "28.00")), activeConfig())

	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "34.44", resp.Lines[0].TotalGrossAmount)
	assert.Equal(t, "28.00", resp.Lines[0].TotalNetAmount)
	assert.Equal(t, "0.23", resp.Lines[0].TaxRate)
	assert.Equal(t, "12.30", resp.ShippingPriceGrossAmount)
}
