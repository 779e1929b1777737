package tax

import (
	"context"
	"log/slog"

	"github.com/dukerupert/taxbridge/internal/domain"
	"github.com/dukerupert/taxbridge/internal/settings"
	"github.com/dukerupert/taxbridge/internal/taxjar"
)

// Calculator computes the tax response for a normalized document.
type Calculator interface {
	// CalculateTaxes runs the full calculation for one document using
	// the given channel configuration. Provider failures propagate
	// unmodified; there is no retry and no zero-tax degradation, since
	// silently reporting untaxed totals would be a compliance risk.
	CalculateTaxes(ctx context.Context, doc *domain.Document, cfg *settings.ChannelConfig) (*domain.TaxResponse, error)
}

// ProviderCalculator implements Calculator against the rate provider.
type ProviderCalculator struct {
	provider taxjar.Provider
	logger   *slog.Logger
}

// NewCalculator creates a provider-backed calculator.
func NewCalculator(provider taxjar.Provider, logger *slog.Logger) *ProviderCalculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProviderCalculator{
		provider: provider,
		logger:   logger,
	}
}

// CalculateTaxes allocates discounts, fetches the provider breakdown
// for the taxable lines, and assembles the ordered response. When
// every line opts out of tax calculation the provider is not called at
// all and every line gets its discount-adjusted default.
func (c *ProviderCalculator) CalculateTaxes(ctx context.Context, doc *domain.Document, cfg *settings.ChannelConfig) (*domain.TaxResponse, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doc.Address == nil {
		return nil, ErrMissingAddress
	}

	alloc := AllocateDiscounts(doc.Lines, doc.Discounts)

	var breakdown *taxjar.TaxBreakdown
	if TaxableLines(doc.Lines) {
		params := BuildOrderParams(doc, alloc, shipFromAddress(cfg.ShipFrom))
		result, err := c.provider.TaxForOrder(ctx, credentials(cfg), params)
		if err != nil {
			return nil, err
		}
		breakdown = result
	} else {
		c.logger.Debug("no taxable lines, skipping provider call",
			"channel", doc.ChannelSlug,
			"line_count", len(doc.Lines),
		)
	}

	return AssembleResponse(doc, alloc, breakdown), nil
}

func credentials(cfg *settings.ChannelConfig) taxjar.Credentials {
	return taxjar.Credentials{
		APIKey:  cfg.APIKey,
		Sandbox: cfg.Sandbox,
	}
}

func shipFromAddress(from settings.ShipFrom) taxjar.Address {
	return taxjar.Address{
		Country: from.Country,
		Zip:     from.Zip,
		State:   from.State,
		City:    from.City,
		Street:  from.Street,
	}
}
