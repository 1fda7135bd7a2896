package model

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock quantity")
)

// Product is one catalog entry. The ID is the product's position in the
// catalog and doubles as the name suffix of its quantity form field.
type Product struct {
	ID           int
	Name         string
	PriceCents   int64
	QtyAvailable int
	QtySold      int
	Image        string
	Alt          string
}

// CatalogRepository owns the product list. Purchase applies a validated
// quantity set atomically: every line is re-checked against the stock on
// hand before anything is decremented, so a purchase either updates all
// of its lines or none of them, and QtyAvailable never goes negative.
type CatalogRepository interface {
	Products() []Product
	Find(id int) (Product, error)
	Purchase(quantities map[int]int) ([]Product, error)
}
