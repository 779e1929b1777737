package taxjar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	taxjargo "github.com/taxjar/taxjar-go"

	"github.com/dukerupert/taxbridge/internal/telemetry"
)

// Client implements Provider using the TaxJar SDK. Credentials arrive
// per call because they are resolved per channel; the SDK client is
// cheap to construct and carries no connection state.
type Client struct {
	logger  *slog.Logger
	metrics *telemetry.Metrics
	timeout time.Duration
}

// ClientConfig contains configuration for the TaxJar client.
type ClientConfig struct {
	Logger  *slog.Logger       // Optional: defaults to slog.Default()
	Metrics *telemetry.Metrics // Optional: provider latency metrics
	Timeout time.Duration      // Optional: per-request timeout
}

const defaultTimeout = 30 * time.Second

// NewClient creates a TaxJar-backed rate provider.
func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		logger:  logger,
		metrics: cfg.Metrics,
		timeout: timeout,
	}
}

func (c *Client) sdkClient(creds Credentials) taxjargo.Config {
	apiURL := taxjargo.DefaultAPIURL
	if creds.Sandbox {
		apiURL = taxjargo.SandboxAPIURL
	}
	return taxjargo.NewClient(taxjargo.Config{
		APIKey: creds.APIKey,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: c.timeout,
		},
	})
}

// TaxForOrder computes the tax breakdown for a document.
func (c *Client) TaxForOrder(ctx context.Context, creds Credentials, params OrderParams) (*TaxBreakdown, error) {
	if creds.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	logger := c.logger.With(
		"to_country", params.To.Country,
		"to_zip", params.To.Zip,
		"line_count", len(params.Lines),
	)
	logger.Debug("fetching tax breakdown")

	lineItems := make([]taxjargo.TaxLineItem, 0, len(params.Lines))
	for _, line := range params.Lines {
		lineItems = append(lineItems, taxjargo.TaxLineItem{
			ID:             line.ID,
			Quantity:       line.Quantity,
			ProductTaxCode: line.ProductTaxCode,
			UnitPrice:      line.UnitPrice.InexactFloat64(),
			Discount:       line.Discount.InexactFloat64(),
		})
	}

	client := c.sdkClient(creds)
	start := time.Now()
	res, err := client.TaxForOrder(taxjargo.TaxForOrderParams{
		FromCountry: params.From.Country,
		FromZip:     params.From.Zip,
		FromState:   params.From.State,
		FromCity:    params.From.City,
		FromStreet:  params.From.Street,
		ToCountry:   params.To.Country,
		ToZip:       params.To.Zip,
		ToState:     params.To.State,
		ToCity:      params.To.City,
		ToStreet:    params.To.Street,
		Shipping:    params.Shipping.InexactFloat64(),
		LineItems:   lineItems,
	})
	c.observe("tax_for_order", start, err)
	if err != nil {
		logger.Error("tax breakdown request failed", "error", err)
		return nil, fmt.Errorf("tax for order: %w", err)
	}

	return fromSDKBreakdown(res), nil
}

// CreateOrder records a finalized order as a provider transaction.
func (c *Client) CreateOrder(ctx context.Context, creds Credentials, params TransactionParams) error {
	if creds.APIKey == "" {
		return ErrMissingAPIKey
	}

	logger := c.logger.With(
		"transaction_id", params.TransactionID,
		"to_country", params.To.Country,
	)
	logger.Debug("recording order transaction")

	lineItems := make([]taxjargo.OrderLineItem, 0, len(params.Lines))
	for _, line := range params.Lines {
		lineItems = append(lineItems, taxjargo.OrderLineItem{
			Quantity:          line.Quantity,
			ProductIdentifier: line.ProductIdentifier,
			Description:       line.Description,
			UnitPrice:         line.UnitPrice.InexactFloat64(),
			SalesTax:          line.SalesTax.InexactFloat64(),
		})
	}

	client := c.sdkClient(creds)
	start := time.Now()
	_, err := client.CreateOrder(taxjargo.CreateOrderParams{
		TransactionID:   params.TransactionID,
		TransactionDate: params.TransactionDate,
		FromCountry:     params.From.Country,
		FromZip:         params.From.Zip,
		FromState:       params.From.State,
		FromCity:        params.From.City,
		FromStreet:      params.From.Street,
		ToCountry:       params.To.Country,
		ToZip:           params.To.Zip,
		ToState:         params.To.State,
		ToCity:          params.To.City,
		ToStreet:        params.To.Street,
		Amount:          params.Amount.InexactFloat64(),
		Shipping:        params.Shipping.InexactFloat64(),
		SalesTax:        params.SalesTax.InexactFloat64(),
		LineItems:       lineItems,
	})
	c.observe("create_order", start, err)
	if err != nil {
		logger.Error("order transaction failed", "error", err)
		return fmt.Errorf("create order transaction: %w", err)
	}

	logger.Info("order transaction recorded")
	return nil
}

func (c *Client) observe(operation string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveProviderCall(operation, time.Since(start), err)
}

// fromSDKBreakdown converts the SDK response into the provider-neutral
// breakdown. TaxJar omits the breakdown when it has no nexus for the
// destination; that case maps to an empty breakdown so every line falls
// through to its discount-adjusted default.
func fromSDKBreakdown(res *taxjargo.TaxForOrderResponse) *TaxBreakdown {
	breakdown := &TaxBreakdown{}
	if res == nil || !res.Tax.HasNexus {
		return breakdown
	}

	src := res.Tax.Breakdown
	breakdown.Shipping = &ShippingBreakdown{
		TaxableAmount:   src.Shipping.TaxableAmount,
		TaxCollectable:  src.Shipping.TaxCollectable,
		CombinedTaxRate: src.Shipping.CombinedTaxRate,
	}
	for _, item := range src.LineItems {
		breakdown.Lines = append(breakdown.Lines, LineBreakdown{
			ID:              item.ID,
			TaxableAmount:   item.TaxableAmount,
			TaxCollectable:  item.TaxCollectable,
			CombinedTaxRate: item.CombinedTaxRate,
		})
	}
	return breakdown
}
