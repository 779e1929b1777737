package middleware

import (
	"context"
	"net/http"
	"strings"
)

const (
	// SaleorDomainHeader identifies the Saleor instance that sent the webhook.
	SaleorDomainHeader = "Saleor-Domain"

	// SaleorEventHeader names the webhook event being delivered.
	SaleorEventHeader = "Saleor-Event"

	// SaleorDomainContextKey is the context key for the verified Saleor domain.
	SaleorDomainContextKey contextKey = "saleor_domain"
)

// SaleorEnvelope verifies the webhook envelope headers before a handler
// runs. The domain header must be present, and when allowedDomain is
// non-empty it must match it. expectedEvent, when non-empty, must match
// the event header. Webhook signature verification is handled upstream
// of this service and is intentionally not repeated here.
func SaleorEnvelope(allowedDomain, expectedEvent string) func(http.Handler) http.Handler {
	allowedDomain = strings.ToLower(strings.TrimSpace(allowedDomain))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			saleorDomain := strings.ToLower(strings.TrimSpace(r.Header.Get(SaleorDomainHeader)))
			if saleorDomain == "" {
				respondBadRequest(w, r, "Missing saleor-domain header")
				return
			}
			if allowedDomain != "" && saleorDomain != allowedDomain {
				respondUnauthorized(w, r, "Unknown Saleor domain")
				return
			}

			if expectedEvent != "" {
				event := strings.ToLower(strings.TrimSpace(r.Header.Get(SaleorEventHeader)))
				if event != expectedEvent {
					respondBadRequest(w, r, "Unexpected saleor-event header")
					return
				}
			}

			ctx := context.WithValue(r.Context(), SaleorDomainContextKey, saleorDomain)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSaleorDomain retrieves the verified Saleor domain from the context.
func GetSaleorDomain(ctx context.Context) string {
	if d, ok := ctx.Value(SaleorDomainContextKey).(string); ok {
		return d
	}
	return ""
}
