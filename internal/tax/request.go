package tax

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/taxbridge/internal/domain"
	"github.com/dukerupert/taxbridge/internal/taxjar"
)

// BuildOrderParams maps a normalized document plus its discount
// allocation into the provider's rate request. Only lines with
// ChargeTaxes=true are included; excluded lines never reach the
// provider and fall through to their discount-adjusted defaults at
// assembly time.
//
// Callers must not invoke this (or the provider) when no line is
// taxable; TaxableLines reports that case.
func BuildOrderParams(doc *domain.Document, alloc map[string]decimal.Decimal, shipFrom taxjar.Address) taxjar.OrderParams {
	params := taxjar.OrderParams{
		From:     shipFrom,
		To:       toProviderAddress(doc.Address),
		Shipping: doc.ShippingAmount,
	}

	for _, line := range doc.Lines {
		if !line.ChargeTaxes {
			continue
		}
		params.Lines = append(params.Lines, taxjar.LineItem{
			ID:             line.ID,
			Quantity:       line.Quantity,
			ProductTaxCode: line.TaxCode,
			UnitPrice:      line.UnitAmount,
			Discount:       alloc[line.ID],
		})
	}
	return params
}

// TaxableLines reports whether any line participates in tax calculation.
func TaxableLines(lines []domain.Line) bool {
	for _, line := range lines {
		if line.ChargeTaxes {
			return true
		}
	}
	return false
}

func toProviderAddress(addr *domain.Address) taxjar.Address {
	if addr == nil {
		return taxjar.Address{}
	}
	street := addr.StreetAddress1
	if addr.StreetAddress2 != "" {
		street = strings.TrimSpace(street) + " " + addr.StreetAddress2
	}
	return taxjar.Address{
		Country: addr.Country,
		Zip:     addr.PostalCode,
		State:   addr.CountryArea,
		City:    addr.City,
		Street:  street,
	}
}
