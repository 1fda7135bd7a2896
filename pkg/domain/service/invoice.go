package service

import (
	"math"

	"github.com/Brendan777/Assignment2/pkg/domain/model"
)

const (
	// TaxRatePercent is the flat sales tax applied to every invoice.
	TaxRatePercent = 4.2

	// ShippingFeeCents is charged when the subtotal is below
	// FreeShippingThresholdCents; at or above it, shipping is free.
	ShippingFeeCents           = 15_00
	FreeShippingThresholdCents = 300_00
)

// InvoiceService totals an accepted order against the catalog snapshot
// taken at purchase time.
type InvoiceService interface {
	Compute(quantities map[int]int, products []model.Product) model.Invoice
}

func NewInvoiceService() InvoiceService {
	return &invoiceService{}
}

type invoiceService struct{}

// Compute skips zero and absent lines entirely: they produce no invoice
// row. Tax is rounded to the cent on the subtotal, and the grand total
// is the sum of the rounded components rather than a re-rounded figure.
func (s *invoiceService) Compute(quantities map[int]int, products []model.Product) model.Invoice {
	invoice := model.Invoice{TaxRatePercent: TaxRatePercent}

	for _, product := range products {
		qty := quantities[product.ID]
		if qty == 0 {
			continue
		}
		extended := int64(qty) * product.PriceCents
		invoice.Lines = append(invoice.Lines, model.InvoiceLine{
			Product:       product,
			Quantity:      qty,
			ExtendedCents: extended,
		})
		invoice.SubtotalCents += extended
	}

	invoice.TaxCents = int64(math.Round(float64(invoice.SubtotalCents) * TaxRatePercent / 100))
	if invoice.SubtotalCents < FreeShippingThresholdCents {
		invoice.ShippingCents = ShippingFeeCents
	}
	invoice.TotalCents = invoice.SubtotalCents + invoice.TaxCents + invoice.ShippingCents

	return invoice
}
