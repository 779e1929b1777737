package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for webhook and provider
// observability. Labels use the Saleor event name
// (checkout_calculate_taxes, order_calculate_taxes, order_created).
type Metrics struct {
	WebhookReceived  *prometheus.CounterVec
	WebhookProcessed *prometheus.CounterVec
	WebhookFailed    *prometheus.CounterVec
	WebhookLatency   *prometheus.HistogramVec

	ProviderCalls   *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec

	OrdersRecorded prometheus.Counter
	OrdersSkipped  prometheus.Counter
}

// NewMetrics creates and registers all bridge metrics.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "taxbridge"
	}

	return &Metrics{
		WebhookReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_received_total",
			Help:      "Webhook events received, by event type",
		}, []string{"event"}),
		WebhookProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_processed_total",
			Help:      "Webhook events processed successfully, by event type",
		}, []string{"event"}),
		WebhookFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_failed_total",
			Help:      "Webhook events that ended in an error response, by event type and error code",
		}, []string{"event", "code"}),
		WebhookLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "webhook_duration_seconds",
			Help:      "Webhook handling duration in seconds, by event type",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"event"}),
		ProviderCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "TaxJar API calls, by operation and outcome",
		}, []string{"operation", "outcome"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "TaxJar API call duration in seconds, by operation",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		OrdersRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_recorded_total",
			Help:      "Finalized orders forwarded to the provider as transactions",
		}),
		OrdersSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_skipped_total",
			Help:      "Finalized orders skipped by the eligibility gate",
		}),
	}
}

// ObserveProviderCall records one provider API call.
func (m *Metrics) ObserveProviderCall(operation string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ProviderCalls.WithLabelValues(operation, outcome).Inc()
	m.ProviderLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveWebhook records one handled webhook event.
func (m *Metrics) ObserveWebhook(event string, duration time.Duration, errCode string) {
	m.WebhookLatency.WithLabelValues(event).Observe(duration.Seconds())
	if errCode == "" {
		m.WebhookProcessed.WithLabelValues(event).Inc()
		return
	}
	m.WebhookFailed.WithLabelValues(event, errCode).Inc()
}
