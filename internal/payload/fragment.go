package payload

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/taxbridge/internal/domain"
)

// Nested camelCase subscription-fragment payload, the current webhook
// shape. Money values arrive as {"amount": <number>} objects.

type money struct {
	Amount decimal.Decimal `json:"amount"`
}

type fragmentCountry struct {
	Code string `json:"code"`
}

type fragmentAddress struct {
	StreetAddress1 string          `json:"streetAddress1"`
	StreetAddress2 string          `json:"streetAddress2"`
	City           string          `json:"city"`
	CityArea       string          `json:"cityArea"`
	PostalCode     string          `json:"postalCode"`
	Country        fragmentCountry `json:"country"`
	CountryArea    string          `json:"countryArea"`
}

type fragmentProductType struct {
	Metafield string `json:"metafield"`
}

type fragmentProduct struct {
	Metafield   string              `json:"metafield"`
	ProductType fragmentProductType `json:"productType"`
}

type fragmentVariant struct {
	Product fragmentProduct `json:"product"`
}

// fragmentSourceLine is the tagged GraphQL union behind a tax base
// line: an OrderLine carries "variant", a CheckoutLine carries
// "productVariant".
type fragmentSourceLine struct {
	Typename       string           `json:"__typename"`
	ID             string           `json:"id" validate:"required"`
	Variant        *fragmentVariant `json:"variant"`
	ProductVariant *fragmentVariant `json:"productVariant"`
}

type fragmentLine struct {
	ChargeTaxes bool               `json:"chargeTaxes"`
	Quantity    int                `json:"quantity"`
	UnitPrice   money              `json:"unitPrice"`
	TotalPrice  money              `json:"totalPrice"`
	SourceLine  fragmentSourceLine `json:"sourceLine"`
}

type fragmentDiscount struct {
	Amount money `json:"amount"`
}

type fragmentChannel struct {
	Slug string `json:"slug"`
}

type taxBaseFragment struct {
	Currency      string             `json:"currency"`
	Channel       fragmentChannel    `json:"channel"`
	Address       *fragmentAddress   `json:"address"`
	ShippingPrice money              `json:"shippingPrice"`
	Lines         []fragmentLine     `json:"lines" validate:"dive"`
	Discounts     []fragmentDiscount `json:"discounts"`
}

func normalizeFragment(frag *taxBaseFragment, kind Kind) (*domain.Document, error) {
	if frag.Address == nil {
		return nil, ErrMissingAddress
	}

	doc := &domain.Document{
		Currency:       frag.Currency,
		ChannelSlug:    frag.Channel.Slug,
		Address:        fromFragmentAddress(frag.Address),
		ShippingAmount: frag.ShippingPrice.Amount,
		Lines:          make([]domain.Line, 0, len(frag.Lines)),
	}

	for _, d := range frag.Discounts {
		doc.Discounts = append(doc.Discounts, domain.Discount{Amount: d.Amount.Amount})
	}

	for _, line := range frag.Lines {
		variant := line.SourceLine.Variant
		if line.SourceLine.Typename == "CheckoutLine" {
			variant = line.SourceLine.ProductVariant
		}
		if variant == nil {
			return nil, ErrMissingVariant
		}
		doc.Lines = append(doc.Lines, domain.Line{
			ID:          line.SourceLine.ID,
			ChargeTaxes: line.ChargeTaxes,
			Quantity:    line.Quantity,
			UnitAmount:  line.UnitPrice.Amount,
			TotalAmount: line.TotalPrice.Amount,
			TaxCode:     fragmentTaxCode(variant),
		})
	}
	return doc, nil
}

func fromFragmentAddress(addr *fragmentAddress) *domain.Address {
	return &domain.Address{
		StreetAddress1: addr.StreetAddress1,
		StreetAddress2: addr.StreetAddress2,
		City:           addr.City,
		CityArea:       addr.CityArea,
		PostalCode:     addr.PostalCode,
		Country:        addr.Country.Code,
		CountryArea:    addr.CountryArea,
	}
}

// fragmentTaxCode resolves the provider tax code from the variant's
// product metafield, falling back to the product-type metafield.
func fragmentTaxCode(variant *fragmentVariant) string {
	if variant.Product.Metafield != "" {
		return variant.Product.Metafield
	}
	return variant.Product.ProductType.Metafield
}
