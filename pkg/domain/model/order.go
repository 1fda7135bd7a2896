package model

type OutcomeKind int

const (
	Empty OutcomeKind = iota
	Accepted
	Rejected
)

// LineRequest is one quantity field from a submission, still in the raw
// form the client typed it.
type LineRequest struct {
	ProductID int
	Raw       string
}

// OrderSubmission is the ordered set of quantity fields extracted from
// one form post. A product with no line is not being ordered.
type OrderSubmission struct {
	Lines []LineRequest
}

func (s OrderSubmission) Line(productID int) (string, bool) {
	for _, l := range s.Lines {
		if l.ProductID == productID {
			return l.Raw, true
		}
	}
	return "", false
}

// OrderOutcome is the terminal result of processing one submission.
// Quantities and Products are set only for Accepted; Products is the
// catalog as it stands after the purchase, which is the snapshot the
// invoice must be rendered from. LineErrors is set only for Rejected.
type OrderOutcome struct {
	Kind       OutcomeKind
	Quantities map[int]int
	Products   []Product
	LineErrors map[int]string
}

type InvoiceLine struct {
	Product       Product
	Quantity      int
	ExtendedCents int64
}

// Invoice totals an accepted order. TotalCents is the sum of the three
// already-rounded components, not an independently rounded figure.
type Invoice struct {
	Lines          []InvoiceLine
	SubtotalCents  int64
	TaxRatePercent float64
	TaxCents       int64
	ShippingCents  int64
	TotalCents     int64
}

// ShippingDisplay renders the shipping fee, which shows as FREE once
// the subtotal clears the free-shipping threshold.
func (i Invoice) ShippingDisplay() string {
	if i.ShippingCents == 0 {
		return "FREE"
	}
	return "$" + FormatCents(i.ShippingCents)
}
