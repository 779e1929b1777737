package tax

import (
	"context"
	"log/slog"

	"github.com/dukerupert/taxbridge/internal/domain"
	"github.com/dukerupert/taxbridge/internal/settings"
	"github.com/dukerupert/taxbridge/internal/taxjar"
)

// TaxJar supports transaction reporting and filing only in the United
// States: https://developers.taxjar.com/api/reference/#transactions
const recordableCountry = "US"

// EligibleForRecording decides whether a finalized order is forwarded
// to the provider as a recorded transaction. The destination country
// comes from the shipping address, falling back to billing. An order
// with neither address is a validation error, not a silent skip.
func EligibleForRecording(order *domain.Order) (bool, error) {
	country, ok := order.DestinationCountry()
	if !ok {
		return false, ErrMissingOrderAddress
	}
	return country == recordableCountry, nil
}

// Recorder forwards finalized orders to the provider.
type Recorder struct {
	provider taxjar.Provider
	logger   *slog.Logger
}

// NewRecorder creates an order transaction recorder.
func NewRecorder(provider taxjar.Provider, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		provider: provider,
		logger:   logger,
	}
}

// RecordOrder records the order with the provider when the eligibility
// gate passes. Returns whether the order was forwarded; a false with
// nil error means the gate declined the destination, which is not a
// failure.
func (r *Recorder) RecordOrder(ctx context.Context, order *domain.Order, cfg *settings.ChannelConfig) (bool, error) {
	if err := cfg.Validate(); err != nil {
		return false, err
	}

	eligible, err := EligibleForRecording(order)
	if err != nil {
		return false, err
	}
	if !eligible {
		country, _ := order.DestinationCountry()
		r.logger.Info("order not eligible for transaction recording",
			"order_id", order.ID,
			"country", country,
		)
		return false, nil
	}

	params := buildTransactionParams(order, shipFromAddress(cfg.ShipFrom))
	if err := r.provider.CreateOrder(ctx, credentials(cfg), params); err != nil {
		return false, err
	}
	return true, nil
}

func buildTransactionParams(order *domain.Order, shipFrom taxjar.Address) taxjar.TransactionParams {
	params := taxjar.TransactionParams{
		TransactionID:   order.ID,
		TransactionDate: order.Created,
		From:            shipFrom,
		To:              toProviderAddress(order.DestinationAddress()),
		Amount:          order.TotalNetAmount,
		Shipping:        order.ShippingNetAmount,
		SalesTax:        order.TotalTaxAmount,
	}

	for _, line := range order.Lines {
		identifier := line.ProductSKU
		if identifier == "" {
			identifier = line.ProductName
		}
		params.Lines = append(params.Lines, taxjar.TransactionLineItem{
			Quantity:          line.Quantity,
			ProductIdentifier: identifier,
			Description:       line.ProductName,
			UnitPrice:         line.UnitNetAmount,
			SalesTax:          line.TotalTaxAmount,
		})
	}
	return params
}
