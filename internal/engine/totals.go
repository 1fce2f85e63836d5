// Package engine contains the core Repario business logic
// Engines wrap gorm queries with the application-layer rules the
// database does not enforce
package engine

import "math"

// DefaultTaxRate is the rate applied to every invoice. Kept as a
// parameter of CalculateInvoiceTotals so a configurable rate can be
// exposed later without touching call sites.
const DefaultTaxRate = 0.0

// InvoiceTotals holds the computed financial figures of an invoice,
// rounded to fixed precision before storage
type InvoiceTotals struct {
	Subtotal    float64 `json:"subtotal"`
	TaxRate     float64 `json:"tax_rate"`
	TaxAmount   float64 `json:"tax_amount"`
	TotalAmount float64 `json:"total_amount"`
}

// CalculateInvoiceTotals computes subtotal, tax and grand total from
// the line totals. Pure and order-independent: only the multiset of
// item totals matters. Amounts round to 2 decimals, the rate to 4.
func CalculateInvoiceTotals(itemTotals []float64, taxRate float64) InvoiceTotals {
	var subtotal float64
	for _, t := range itemTotals {
		subtotal += t
	}

	subtotal = Round2(subtotal)
	taxAmount := Round2(subtotal * taxRate)

	return InvoiceTotals{
		Subtotal:    subtotal,
		TaxRate:     round(taxRate, 4),
		TaxAmount:   taxAmount,
		TotalAmount: Round2(subtotal + taxAmount),
	}
}

// Round2 rounds to 2 decimal places
func Round2(v float64) float64 {
	return round(v, 2)
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
