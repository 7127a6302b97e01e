package billing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

var (
	// ErrInvalidLineItem is returned for negative rate, hours, or quantity.
	ErrInvalidLineItem = errors.New("line item rate, hours, and quantity must be non-negative")
	// ErrEmptyInvoice is returned when an invoice has no line items.
	ErrEmptyInvoice = errors.New("invoice requires at least one line item")
	// ErrInvalidTaxRate is returned for a tax rate outside [0, 100].
	ErrInvalidTaxRate = errors.New("tax rate must be between 0 and 100")
)

// Totals holds the computed monetary fields of an invoice.
type Totals struct {
	Subtotal  money.Money `json:"subtotal"`
	TaxAmount money.Money `json:"tax_amount"`
	Total     money.Money `json:"total"`
}

// LineItemAmount computes the extended amount of one billable row:
// rate × (hours + quantity), rounded to currency precision. Hours and
// quantity are both units of the single rate; in practice a row uses one or
// the other, but both being set is allowed and their sum is priced.
func LineItemAmount(rate money.Money, hours, qty money.Hours) (money.Money, error) {
	if rate.IsNegative() || hours.IsNegative() || qty.IsNegative() {
		return money.Zero, ErrInvalidLineItem
	}
	return rate.MulHours(hours.Add(qty)), nil
}

// ComputeTotals sums extended amounts into a subtotal and applies the tax
// rate percentage. Pure; persisting the result is the caller's concern.
func ComputeTotals(amounts []money.Money, taxRate decimal.Decimal) (Totals, error) {
	if len(amounts) == 0 {
		return Totals{}, ErrEmptyInvoice
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return Totals{}, ErrInvalidTaxRate
	}

	subtotal := money.Zero
	for _, a := range amounts {
		subtotal = subtotal.Add(a)
	}
	tax := subtotal.ApplyPercent(taxRate)

	return Totals{
		Subtotal:  subtotal.Round(),
		TaxAmount: tax,
		Total:     subtotal.Add(tax).Round(),
	}, nil
}
