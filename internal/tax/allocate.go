package tax

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/taxbridge/internal/domain"
)

// AllocateDiscounts spreads the document's order-level discounts across
// its lines pro rata: each line's share is proportional to its
// contribution to the pre-discount order value. Non-taxable lines
// participate in allocation like any other line.
//
// The total allocated discount never exceeds the sum of all line
// totals, and a single line's share never exceeds that line's own
// total, so no taxable base goes negative. No rounding happens here;
// rounding is deferred to response formatting.
func AllocateDiscounts(lines []domain.Line, discounts []domain.Discount) map[string]decimal.Decimal {
	allLinesTotal := decimal.Zero
	for _, line := range lines {
		allLinesTotal = allLinesTotal.Add(line.TotalAmount)
	}

	discountsSum := decimal.Zero
	for _, d := range discounts {
		discountsSum = discountsSum.Add(d.Amount)
	}

	// A discount larger than the order value is capped at the order value.
	totalDiscount := discountsSum
	if totalDiscount.GreaterThan(allLinesTotal) {
		totalDiscount = allLinesTotal
	}

	alloc := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		alloc[line.ID] = discountForLine(line, totalDiscount, allLinesTotal)
	}
	return alloc
}

func discountForLine(line domain.Line, totalDiscount, allLinesTotal decimal.Decimal) decimal.Decimal {
	if totalDiscount.IsZero() || allLinesTotal.IsZero() {
		return decimal.Zero
	}
	share := line.TotalAmount.Div(allLinesTotal).Mul(totalDiscount)
	if share.GreaterThan(line.TotalAmount) {
		return line.TotalAmount
	}
	return share
}
