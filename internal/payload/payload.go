// Package payload normalizes the two raw webhook payload shapes — the
// legacy flat snake_case payload and the nested subscription fragment —
// into the canonical domain.Document. All calculation logic downstream
// is blind to which shape a request arrived in.
package payload

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/taxbridge/internal/domain"
)

// Saleor webhook event names handled by the bridge.
const (
	EventCheckoutCalculateTaxes = "checkout_calculate_taxes"
	EventOrderCalculateTaxes    = "order_calculate_taxes"
	EventOrderCreated           = "order_created"
)

// Kind distinguishes checkout documents from order documents. Order
// lines must reference an existing product variant; checkout lines
// reference one through the checkout line itself.
type Kind int

const (
	KindCheckout Kind = iota
	KindOrder
)

// taxCodeMetaKey is the metadata key carrying the provider product tax
// code, at both product and product-type level.
const taxCodeMetaKey = "taxjar_tax_code"

var validate = validator.New()

// ParseDocument decodes and normalizes a calculate-taxes webhook body.
// Legacy payloads arrive as a JSON array (the first element is the
// document); the subscription fragment arrives as a single object.
func ParseDocument(body []byte, kind Kind) (*domain.Document, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, domain.Invalid("payload.parse", "empty request body")
	}

	if trimmed[0] == '[' {
		var batch []legacyPayload
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, domain.WrapError(err, domain.EINVALID, "payload.parse", "malformed legacy payload")
		}
		if len(batch) == 0 {
			return nil, domain.Invalid("payload.parse", "empty payload batch")
		}
		if err := validate.Struct(&batch[0]); err != nil {
			return nil, domain.WrapError(err, domain.EINVALID, "payload.parse", "invalid legacy payload")
		}
		return normalizeLegacy(&batch[0], kind)
	}

	var frag taxBaseFragment
	if err := json.Unmarshal(trimmed, &frag); err != nil {
		return nil, domain.WrapError(err, domain.EINVALID, "payload.parse", "malformed tax base payload")
	}
	if err := validate.Struct(&frag); err != nil {
		return nil, domain.WrapError(err, domain.EINVALID, "payload.parse", "invalid tax base payload")
	}
	return normalizeFragment(&frag, kind)
}
