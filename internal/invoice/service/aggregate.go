package service

import (
	"time"

	billingdomain "github.com/paswerklabs/paswerk/internal/billing/domain"
	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
)

// Aggregate sums a breakdown into invoice totals. Accumulation stays at full
// float precision; rounding happens only when amounts are formatted as
// currency.
func Aggregate(breakdown billingdomain.Breakdown, vatRatePercent float64, issueDate time.Time, paymentTermDays int) invoicedomain.Totals {
	subtotal := breakdown.Subtotal()
	vat := subtotal * vatRatePercent / 100
	return invoicedomain.Totals{
		Subtotal:    subtotal,
		VATAmount:   vat,
		TotalAmount: subtotal + vat,
		DueDate:     issueDate.AddDate(0, 0, paymentTermDays),
	}
}
