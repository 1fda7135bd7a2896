package service

import (
	"github.com/pkg/errors"

	"github.com/Brendan777/Assignment2/pkg/domain/model"
)

type Event interface{ Type() string }
type EventDispatcher interface{ Dispatch(event Event) error }

// OrderService runs one submission through the quantity validator and
// decides its outcome. Accepted is the only branch that touches the
// catalog, and it touches it all-or-nothing: inventory is mutated only
// after every line has validated, so line errors and mutation can never
// both occur.
type OrderService interface {
	Process(submission model.OrderSubmission) (*model.OrderOutcome, error)
}

func NewOrderService(catalog model.CatalogRepository, dispatcher EventDispatcher) OrderService {
	return &orderService{catalog: catalog, dispatcher: dispatcher}
}

type orderService struct {
	catalog    model.CatalogRepository
	dispatcher EventDispatcher
}

func (s *orderService) Process(submission model.OrderSubmission) (*model.OrderOutcome, error) {
	for {
		products := s.catalog.Products()

		hasQty := false
		lineErrors := make(map[int]string)
		quantities := make(map[int]int)

		for _, product := range products {
			raw, ok := submission.Line(product.ID)
			if !ok {
				continue
			}

			if msg := ValidateQuantity(raw, product.QtyAvailable); msg != "" {
				lineErrors[product.ID] = msg
				continue
			}

			qty, _ := parseQuantity(raw)
			if qty > 0 {
				hasQty = true
				quantities[product.ID] = int(qty)
			}
		}

		if len(lineErrors) > 0 {
			_ = s.dispatcher.Dispatch(model.OrderRejected{LineErrors: lineErrors})
			return &model.OrderOutcome{Kind: model.Rejected, LineErrors: lineErrors}, nil
		}

		if !hasQty {
			return &model.OrderOutcome{Kind: model.Empty}, nil
		}

		updated, err := s.catalog.Purchase(quantities)
		if errors.Is(err, model.ErrInsufficientStock) {
			// A concurrent purchase consumed stock between the
			// validation pass and the locked apply. Availability only
			// ever decreases, so re-validating against the fresh
			// counts turns this into a normal rejection.
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "apply purchase")
		}

		_ = s.dispatcher.Dispatch(model.OrderAccepted{
			Quantities:    quantities,
			SubtotalCents: subtotalCents(quantities, products),
		})

		return &model.OrderOutcome{
			Kind:       model.Accepted,
			Quantities: quantities,
			Products:   updated,
		}, nil
	}
}

func subtotalCents(quantities map[int]int, products []model.Product) int64 {
	var subtotal int64
	for _, product := range products {
		subtotal += int64(quantities[product.ID]) * product.PriceCents
	}
	return subtotal
}
