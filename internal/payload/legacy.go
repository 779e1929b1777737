package payload

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/taxbridge/internal/domain"
)

// Legacy flat payload, snake_case with string-encoded amounts.
// decimal.Decimal unmarshals both quoted and bare numbers, which keeps
// the two shapes on one field type.

type legacyChannel struct {
	Slug         string `json:"slug" validate:"required"`
	CurrencyCode string `json:"currency_code"`
}

type legacyAddress struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	CompanyName    string `json:"company_name"`
	StreetAddress1 string `json:"street_address_1"`
	StreetAddress2 string `json:"street_address_2"`
	City           string `json:"city"`
	CityArea       string `json:"city_area"`
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
	CountryArea    string `json:"country_area"`
	Phone          string `json:"phone"`
}

type legacyLine struct {
	ID                  string            `json:"id" validate:"required"`
	SKU                 string            `json:"sku"`
	VariantID           string            `json:"variant_id"`
	Quantity            int               `json:"quantity" validate:"min=0"`
	ChargeTaxes         bool              `json:"charge_taxes"`
	FullName            string            `json:"full_name"`
	ProductName         string            `json:"product_name"`
	VariantName         string            `json:"variant_name"`
	ProductMetadata     map[string]string `json:"product_metadata"`
	ProductTypeMetadata map[string]string `json:"product_type_metadata"`
	UnitAmount          decimal.Decimal   `json:"unit_amount"`
	TotalAmount         decimal.Decimal   `json:"total_amount"`
}

type legacyDiscount struct {
	Amount decimal.Decimal `json:"amount"`
}

type legacyPayload struct {
	ID             string           `json:"id"`
	Channel        legacyChannel    `json:"channel" validate:"required"`
	Address        *legacyAddress   `json:"address"`
	ShippingAmount decimal.Decimal  `json:"shipping_amount"`
	ShippingName   string           `json:"shipping_name"`
	Currency       string           `json:"currency"`
	Lines          []legacyLine     `json:"lines" validate:"dive"`
	Discounts      []legacyDiscount `json:"discounts"`
}

func normalizeLegacy(p *legacyPayload, kind Kind) (*domain.Document, error) {
	if p.Address == nil {
		return nil, ErrMissingAddress
	}

	doc := &domain.Document{
		Currency:    p.Currency,
		ChannelSlug: p.Channel.Slug,
		Address: &domain.Address{
			StreetAddress1: p.Address.StreetAddress1,
			StreetAddress2: p.Address.StreetAddress2,
			City:           p.Address.City,
			CityArea:       p.Address.CityArea,
			PostalCode:     p.Address.PostalCode,
			Country:        p.Address.Country,
			CountryArea:    p.Address.CountryArea,
		},
		ShippingAmount: p.ShippingAmount,
		Lines:          make([]domain.Line, 0, len(p.Lines)),
	}

	for _, d := range p.Discounts {
		doc.Discounts = append(doc.Discounts, domain.Discount{Amount: d.Amount})
	}

	for _, line := range p.Lines {
		if kind == KindOrder && line.VariantID == "" {
			return nil, ErrMissingVariant
		}
		doc.Lines = append(doc.Lines, domain.Line{
			ID:          line.ID,
			ChargeTaxes: line.ChargeTaxes,
			Quantity:    line.Quantity,
			UnitAmount:  line.UnitAmount,
			TotalAmount: line.TotalAmount,
			TaxCode:     legacyTaxCode(line),
		})
	}
	return doc, nil
}

// legacyTaxCode resolves the provider tax code from line metadata: the
// product-level value wins over the product-type default.
func legacyTaxCode(line legacyLine) string {
	if code := line.ProductMetadata[taxCodeMetaKey]; code != "" {
		return code
	}
	return line.ProductTypeMetadata[taxCodeMetaKey]
}
