package payload

import (
	"encoding/json"

	"github.com/dukerupert/taxbridge/internal/domain"
)

// order_created event envelope and order fragment.

type orderNetMoney struct {
	Net money `json:"net"`
}

type orderTaxMoney struct {
	Tax money `json:"tax"`
}

type orderTotal struct {
	Net money `json:"net"`
	Tax money `json:"tax"`
}

type orderFragmentLine struct {
	Quantity    int           `json:"quantity"`
	ProductSKU  string        `json:"productSku"`
	ProductName string        `json:"productName"`
	UnitPrice   orderNetMoney `json:"unitPrice"`
	TotalPrice  orderTaxMoney `json:"totalPrice"`
}

type orderFragment struct {
	ID              string              `json:"id" validate:"required"`
	Created         string              `json:"created"`
	Channel         fragmentChannel     `json:"channel"`
	ShippingAddress *fragmentAddress    `json:"shippingAddress"`
	BillingAddress  *fragmentAddress    `json:"billingAddress"`
	Total           orderTotal          `json:"total"`
	ShippingPrice   orderNetMoney       `json:"shippingPrice"`
	Lines           []orderFragmentLine `json:"lines"`
}

type orderCreatedEnvelope struct {
	Typename string         `json:"__typename"`
	Order    *orderFragment `json:"order"`
}

// ParseOrderCreated decodes an order_created webhook body into the
// canonical order used by the transaction recording path.
func ParseOrderCreated(body []byte) (*domain.Order, error) {
	var envelope orderCreatedEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domain.WrapError(err, domain.EINVALID, "payload.parse", "malformed order payload")
	}
	if envelope.Typename != "" && envelope.Typename != "OrderCreated" {
		return nil, domain.Errorf(domain.EINVALID, "payload.parse", "unexpected event payload: %s", envelope.Typename)
	}
	if envelope.Order == nil {
		return nil, domain.Invalid("payload.parse", "missing order in payload")
	}
	if err := validate.Struct(envelope.Order); err != nil {
		return nil, domain.WrapError(err, domain.EINVALID, "payload.parse", "invalid order payload")
	}

	frag := envelope.Order
	order := &domain.Order{
		ID:                frag.ID,
		Created:           frag.Created,
		Channel:           frag.Channel.Slug,
		TotalNetAmount:    frag.Total.Net.Amount,
		TotalTaxAmount:    frag.Total.Tax.Amount,
		ShippingNetAmount: frag.ShippingPrice.Net.Amount,
		Lines:             make([]domain.OrderLine, 0, len(frag.Lines)),
	}
	if frag.ShippingAddress != nil {
		order.ShippingAddress = fromFragmentAddress(frag.ShippingAddress)
	}
	if frag.BillingAddress != nil {
		order.BillingAddress = fromFragmentAddress(frag.BillingAddress)
	}

	for _, line := range frag.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			Quantity:       line.Quantity,
			ProductSKU:     line.ProductSKU,
			ProductName:    line.ProductName,
			UnitNetAmount:  line.UnitPrice.Net.Amount,
			TotalTaxAmount: line.TotalPrice.Tax.Amount,
		})
	}
	return order, nil
}
