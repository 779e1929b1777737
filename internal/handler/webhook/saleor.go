package webhook

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/taxbridge/internal/domain"
	"github.com/dukerupert/taxbridge/internal/handler"
	"github.com/dukerupert/taxbridge/internal/middleware"
	"github.com/dukerupert/taxbridge/internal/payload"
	"github.com/dukerupert/taxbridge/internal/settings"
	"github.com/dukerupert/taxbridge/internal/tax"
	"github.com/dukerupert/taxbridge/internal/telemetry"
)

// SaleorHandler handles the three Saleor webhook events the bridge
// subscribes to. Envelope verification (domain/event headers) happens
// in middleware before these handlers run; webhook signatures and JWTs
// are verified by an upstream collaborator.
type SaleorHandler struct {
	settings   settings.Store
	calculator tax.Calculator
	recorder   *tax.Recorder
	metrics    *telemetry.Metrics
	logger     *slog.Logger
}

// NewSaleorHandler creates the webhook handler set.
func NewSaleorHandler(store settings.Store, calculator tax.Calculator, recorder *tax.Recorder, metrics *telemetry.Metrics, logger *slog.Logger) *SaleorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaleorHandler{
		settings:   store,
		calculator: calculator,
		recorder:   recorder,
		metrics:    metrics,
		logger:     logger,
	}
}

// CheckoutCalculateTaxes handles the checkout_calculate_taxes event.
func (h *SaleorHandler) CheckoutCalculateTaxes(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, payload.EventCheckoutCalculateTaxes, payload.KindCheckout)
}

// OrderCalculateTaxes handles the order_calculate_taxes event.
func (h *SaleorHandler) OrderCalculateTaxes(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, payload.EventOrderCalculateTaxes, payload.KindOrder)
}

func (h *SaleorHandler) calculate(w http.ResponseWriter, r *http.Request, event string, kind payload.Kind) {
	start := time.Now()
	h.metrics.WebhookReceived.WithLabelValues(event).Inc()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.fail(w, r, event, start, domain.WrapError(err, domain.EINVALID, "webhook.calculate", "failed to read request body"))
		return
	}

	doc, err := payload.ParseDocument(body, kind)
	if err != nil {
		h.fail(w, r, event, start, err)
		return
	}

	saleorDomain := middleware.GetSaleorDomain(r.Context())
	cfg, err := h.settings.ChannelConfig(r.Context(), saleorDomain, doc.ChannelSlug)
	if err != nil {
		h.fail(w, r, event, start, err)
		return
	}

	resp, err := h.calculator.CalculateTaxes(r.Context(), doc, cfg)
	if err != nil {
		h.fail(w, r, event, start, err)
		return
	}

	h.logger.Info("taxes calculated",
		"event", event,
		"channel", doc.ChannelSlug,
		"line_count", len(doc.Lines),
		"duration", time.Since(start),
	)
	h.metrics.ObserveWebhook(event, time.Since(start), "")
	handler.JSONResponse(w, http.StatusOK, resp)
}

// OrderCreated handles the order_created event: eligible orders are
// forwarded to the provider as recorded transactions.
func (h *SaleorHandler) OrderCreated(w http.ResponseWriter, r *http.Request) {
	const event = payload.EventOrderCreated
	start := time.Now()
	h.metrics.WebhookReceived.WithLabelValues(event).Inc()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.fail(w, r, event, start, domain.WrapError(err, domain.EINVALID, "webhook.orderCreated", "failed to read request body"))
		return
	}

	order, err := payload.ParseOrderCreated(body)
	if err != nil {
		h.fail(w, r, event, start, err)
		return
	}

	saleorDomain := middleware.GetSaleorDomain(r.Context())
	cfg, err := h.settings.ChannelConfig(r.Context(), saleorDomain, order.Channel)
	if err != nil {
		h.fail(w, r, event, start, err)
		return
	}

	recorded, err := h.recorder.RecordOrder(r.Context(), order, cfg)
	if err != nil {
		h.fail(w, r, event, start, err)
		return
	}

	if recorded {
		h.metrics.OrdersRecorded.Inc()
	} else {
		h.metrics.OrdersSkipped.Inc()
	}
	h.logger.Info("order created event handled",
		"order_id", order.ID,
		"recorded", recorded,
		"duration", time.Since(start),
	)
	h.metrics.ObserveWebhook(event, time.Since(start), "")
	handler.JSONResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SaleorHandler) fail(w http.ResponseWriter, r *http.Request, event string, start time.Time, err error) {
	code := handler.ErrorCode(err)
	h.metrics.ObserveWebhook(event, time.Since(start), code)
	telemetry.CaptureError(err, event, nil)
	handler.ErrorResponse(w, r, err)
}
