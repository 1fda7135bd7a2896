package catalog

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/Brendan777/Assignment2/pkg/domain/model"
)

type productJSON struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	QtyAvailable int     `json:"qty_available"`
	Image        string  `json:"image"`
	Alt          string  `json:"alt"`
}

// Load reads the product catalog from a JSON array. Products get their
// position in the file as ID and start with nothing sold.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}

	var entries []productJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "parse catalog file")
	}

	products := make([]model.Product, 0, len(entries))
	for i, entry := range entries {
		products = append(products, model.Product{
			ID:           i,
			Name:         entry.Name,
			PriceCents:   model.PriceToCents(entry.Price),
			QtyAvailable: entry.QtyAvailable,
			Image:        entry.Image,
			Alt:          entry.Alt,
		})
	}

	return NewStore(products), nil
}

// Store is the in-memory catalog. All reads hand out copies and all
// stock mutation happens under one mutex, so a purchase is applied
// atomically with respect to concurrent submissions.
type Store struct {
	mu       sync.Mutex
	products []model.Product
}

var _ model.CatalogRepository = &Store{}

func NewStore(products []model.Product) *Store {
	owned := make([]model.Product, len(products))
	copy(owned, products)
	return &Store{products: owned}
}

func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) Find(id int) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.products) {
		return model.Product{}, model.ErrProductNotFound
	}
	return s.products[id], nil
}

// Purchase moves quantity from available to sold for every listed
// product. Every line is checked before any line is applied; on error
// the catalog is left untouched.
func (s *Store) Purchase(quantities map[int]int) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, qty := range quantities {
		if id < 0 || id >= len(s.products) {
			return nil, model.ErrProductNotFound
		}
		if qty < 0 || qty > s.products[id].QtyAvailable {
			return nil, model.ErrInsufficientStock
		}
	}

	for id, qty := range quantities {
		s.products[id].QtyAvailable -= qty
		s.products[id].QtySold += qty
	}

	return s.snapshot(), nil
}

func (s *Store) snapshot() []model.Product {
	snapshot := make([]model.Product, len(s.products))
	copy(snapshot, s.products)
	return snapshot
}
