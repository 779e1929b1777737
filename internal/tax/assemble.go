package tax

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/taxbridge/internal/domain"
	"github.com/dukerupert/taxbridge/internal/taxjar"
)

// AssembleResponse merges the provider's tax breakdown back into a
// response for the platform. Output lines appear in the same order as
// the input document's lines, one result per input line. Lines the
// provider never saw (excluded from the request, or no breakdown at
// all) get their discount-adjusted total as both gross and net, with a
// zero rate.
//
// Amounts are formatted with exactly two fractional digits. Rates are
// emitted as the provider's raw value without forced rounding; the
// platform's existing consumers rely on that asymmetry.
//
// This function performs no I/O and tolerates partial breakdowns; it
// cannot fail.
func AssembleResponse(doc *domain.Document, alloc map[string]decimal.Decimal, breakdown *taxjar.TaxBreakdown) *domain.TaxResponse {
	resp := &domain.TaxResponse{
		Lines: make([]domain.TaxedLine, 0, len(doc.Lines)),
	}

	var shipping *taxjar.ShippingBreakdown
	if breakdown != nil {
		shipping = breakdown.Shipping
	}
	if shipping != nil {
		taxable := decimal.NewFromFloat(shipping.TaxableAmount)
		gross := taxable.Add(decimal.NewFromFloat(shipping.TaxCollectable))
		resp.ShippingPriceGrossAmount = gross.StringFixed(2)
		resp.ShippingPriceNetAmount = taxable.StringFixed(2)
		resp.ShippingTaxRate = formatRate(shipping.CombinedTaxRate)
	} else {
		resp.ShippingPriceGrossAmount = doc.ShippingAmount.StringFixed(2)
		resp.ShippingPriceNetAmount = doc.ShippingAmount.StringFixed(2)
		resp.ShippingTaxRate = "0"
	}

	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, assembleLine(line, alloc[line.ID], breakdown.Line(line.ID)))
	}
	return resp
}

func assembleLine(line domain.Line, discount decimal.Decimal, lineTax *taxjar.LineBreakdown) domain.TaxedLine {
	if lineTax == nil {
		// The provider never saw this line: untaxed, discount-adjusted.
		fallback := line.TotalAmount.Sub(discount)
		return domain.TaxedLine{
			ID:               line.ID,
			TotalGrossAmount: fallback.StringFixed(2),
			TotalNetAmount:   fallback.StringFixed(2),
			TaxRate:          "0",
		}
	}

	taxable := decimal.NewFromFloat(lineTax.TaxableAmount)
	gross := taxable.Add(decimal.NewFromFloat(lineTax.TaxCollectable))
	return domain.TaxedLine{
		ID:               line.ID,
		TotalGrossAmount: gross.StringFixed(2),
		TotalNetAmount:   taxable.StringFixed(2),
		TaxRate:          formatRate(lineTax.CombinedTaxRate),
	}
}

// formatRate renders the provider's raw rate value. 0.23 stays "0.23"
// and 0 stays "0"; no decimal places are forced.
func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
