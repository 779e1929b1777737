package tax_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/taxbridge/internal/domain"
	"github.com/dukerupert/taxbridge/internal/settings"
	"github.com/dukerupert/taxbridge/internal/tax"
	"github.com/dukerupert/taxbridge/internal/taxjar"
)

func usOrder() *domain.Order {
	return &domain.Order{
		ID:      "T3JkZXI6MTIz",
		Created: "2021-03-18T12:29:12.093923+00:00",
		Channel: "default-channel",
		ShippingAddress: &domain.Address{
			StreetAddress1: "123 Palm Ave",
			City:           "Miami",
			PostalCode:     "33133",
			Country:        "US",
			CountryArea:    "FL",
		},
		TotalNetAmount:    decimal.RequireFromString("38.00"),
		TotalTaxAmount:    decimal.RequireFromString("2.66"),
		ShippingNetAmount: decimal.RequireFromString("10.00"),
		Lines: []domain.OrderLine{
			{
				Quantity:       2,
				ProductSKU:     "SKU-1",
				ProductName:    "House Blend",
				UnitNetAmount:  decimal.RequireFromString("14.00"),
				TotalTaxAmount: decimal.RequireFromString("1.96"),
			},
		},
	}
}

func TestEligibleForRecording(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		eligible bool
	}{
		{"united states", "US", true},
		{"poland", "PL", false},
		{"canada", "CA", false},
		{"empty country", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := usOrder()
			order.ShippingAddress.Country = tt.country

			eligible, err := tax.EligibleForRecording(order)

			require.NoError(t, err)
			assert.Equal(t, tt.eligible, eligible)
		})
	}
}

func TestEligibleForRecording_BillingFallback(t *testing.T) {
	order := usOrder()
	order.BillingAddress = &domain.Address{Country: "US"}
	order.ShippingAddress = nil

	eligible, err := tax.EligibleForRecording(order)

	require.NoError(t, err)
	assert.True(t, eligible)
}

func TestEligibleForRecording_NoAddress(t *testing.T) {
	order := usOrder()
	order.ShippingAddress = nil
	order.BillingAddress = nil

	_, err := tax.EligibleForRecording(order)

	assert.ErrorIs(t, err, tax.ErrMissingOrderAddress)
}

func TestRecordOrder_Forwarded(t *testing.T) {
	provider := taxjar.NewMockProvider()
	recorder := tax.NewRecorder(provider, nil)

	recorded, err := recorder.RecordOrder(context.Background(), usOrder(), activeConfig())

	require.NoError(t, err)
	assert.True(t, recorded)
	require.Len(t, provider.CreateOrderCalls, 1)

	params := provider.CreateOrderCalls[0]
	assert.Equal(t, "T3JkZXI6MTIz", params.TransactionID)
	assert.Equal(t, "2021-03-18T12:29:12.093923+00:00", params.TransactionDate)
	assert.Equal(t, "US", params.To.Country)
	assert.Equal(t, "FL", params.To.State)
	assert.True(t, params.Amount.Equal(decimal.RequireFromString("38.00")))
	assert.True(t, params.SalesTax.Equal(decimal.RequireFromString("2.66")))
	require.Len(t, params.Lines, 1)
	assert.Equal(t, "SKU-1", params.Lines[0].ProductIdentifier)
	assert.Equal(t, "House Blend", params.Lines[0].Description)
}

func TestRecordOrder_ProductNameFallback(t *testing.T) {
	// A line without a SKU identifies itself by product name.
	provider := taxjar.NewMockProvider()
	recorder := tax.NewRecorder(provider, nil)

	order := usOrder()
	order.Lines[0].ProductSKU = ""

	_, err := recorder.RecordOrder(context.Background(), order, activeConfig())
	require.NoError(t, err)

	require.Len(t, provider.CreateOrderCalls, 1)
	assert.Equal(t, "House Blend", provider.CreateOrderCalls[0].Lines[0].ProductIdentifier)
}

func TestRecordOrder_NonUSSkipped(t *testing.T) {
	provider := taxjar.NewMockProvider()
	recorder := tax.NewRecorder(provider, nil)

	order := usOrder()
	order.ShippingAddress.Country = "PL"

	recorded, err := recorder.RecordOrder(context.Background(), order, activeConfig())

	require.NoError(t, err, "a declined destination is not a failure")
	assert.False(t, recorded)
	assert.Empty(t, provider.CreateOrderCalls)
}

func TestRecordOrder_InactiveChannel(t *testing.T) {
	provider := taxjar.NewMockProvider()
	recorder := tax.NewRecorder(provider, nil)

	cfg := activeConfig()
	cfg.Active = false

	_, err := recorder.RecordOrder(context.Background(), usOrder(), cfg)

	assert.ErrorIs(t, err, settings.ErrNotActive)
	assert.Empty(t, provider.CreateOrderCalls)
}

func TestRecordOrder_ProviderErrorPropagates(t *testing.T) {
	providerErr := errors.New("taxjar: 422 validation failed")
	provider := taxjar.NewMockProvider()
	provider.CreateOrderFunc = func(ctx context.Context, creds taxjar.Credentials, params taxjar.TransactionParams) error {
		return providerErr
	}
	recorder := tax.NewRecorder(provider, nil)

	recorded, err := recorder.RecordOrder(context.Background(), usOrder(), activeConfig())

	assert.ErrorIs(t, err, providerErr)
	assert.False(t, recorded)
}
