// Package memory provides an in-process backend used as the default
// data source and as the test double for the state layer.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pantry/internal/api"
	"pantry/internal/core"
)

type Store struct {
	mu       sync.Mutex
	nextID   int64
	products []core.Product
	receipts []core.Receipt
	items    map[int64][]core.ReceiptItem
	config   api.ConfigSnapshot
	prefs    api.Preferences

	// Calls counts invocations per operation name, for tests that
	// assert a request was or was not issued.
	calls map[string]int
}

// Ensure interface conformance
var _ api.Backend = (*Store)(nil)

func New() *Store {
	return &Store{
		nextID: 1,
		items:  make(map[int64][]core.ReceiptItem),
		calls:  make(map[string]int),
	}
}

// NewSeeded returns a store preloaded with products and receipts.
func NewSeeded(products []core.Product, receipts []core.Receipt) *Store {
	s := New()
	for _, p := range products {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.products = append(s.products, p)
	}
	for _, r := range receipts {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
		s.receipts = append(s.receipts, r)
	}
	return s
}

// SeedReceiptItems attaches line items to a receipt.
func (s *Store) SeedReceiptItems(id int64, items []core.ReceiptItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = items
}

// Calls returns how many times the named operation was invoked.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Store) record(op string) {
	s.calls[op]++
}

func (s *Store) ListProducts(_ context.Context) ([]core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("list_products")
	out := make([]core.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *Store) CreateProduct(_ context.Context, draft core.ProductDraft) (core.Product, error) {
	if err := draft.Validate(); err != nil {
		return core.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("create_product")
	p := core.Product{
		ID:         s.nextID,
		Name:       draft.Name,
		Category:   draft.Category,
		Quantity:   draft.Quantity,
		Unit:       draft.Unit,
		ExpiryDate: draft.ExpiryDate,
		Shop:       "MealPlanner",
	}
	if p.Unit == "" {
		p.Unit = "szt"
	}
	s.nextID++
	s.products = append(s.products, p)
	return p, nil
}

func (s *Store) UpdateProduct(_ context.Context, id int64, patch core.ProductPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("update_product")
	for i := range s.products {
		if s.products[i].ID == id {
			if patch.ExpiryDate != nil {
				s.products[i].ExpiryDate = *patch.ExpiryDate
			}
			if patch.IsFrozen != nil {
				s.products[i].IsFrozen = *patch.IsFrozen
			}
			return nil
		}
	}
	return fmt.Errorf("update product %d: %w", id, core.ErrNotFound)
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("delete_product")
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete product %d: %w", id, core.ErrNotFound)
}

func (s *Store) ApplyUsage(_ context.Context, id int64, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("apply_usage")
	for i := range s.products {
		if s.products[i].ID == id {
			q := s.products[i].Quantity - amount
			if q < 0 {
				q = 0
			}
			s.products[i].Quantity = q
			return q, nil
		}
	}
	return 0, fmt.Errorf("apply usage %d: %w", id, core.ErrNotFound)
}

func (s *Store) ListReceipts(_ context.Context) ([]core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("list_receipts")
	out := make([]core.Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out, nil
}

func (s *Store) ReceiptDetail(_ context.Context, id int64) (core.ReceiptDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("receipt_detail")
	for _, r := range s.receipts {
		if r.ID == id {
			items := make([]core.ReceiptItem, len(s.items[id]))
			copy(items, s.items[id])
			return core.ReceiptDetail{Receipt: r, Items: items}, nil
		}
	}
	return core.ReceiptDetail{}, fmt.Errorf("receipt %d: %w", id, core.ErrNotFound)
}

func (s *Store) ReadConfig(_ context.Context) (api.ConfigSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("read_config")
	return s.config, nil
}

func (s *Store) WriteConfig(_ context.Context, snap api.ConfigSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("write_config")
	s.config = snap
	return nil
}

func (s *Store) ReadPreferences(_ context.Context) (api.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("read_preferences")
	return s.prefs, nil
}

func (s *Store) WritePreferences(_ context.Context, prefs api.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("write_preferences")
	s.prefs = prefs
	return nil
}

func (s *Store) Suggest(_ context.Context, kind api.SuggestionKind) (api.Suggestion, error) {
	if !kind.IsValid() {
		return api.Suggestion{}, fmt.Errorf("unknown suggestion kind %q", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("suggest")
	names := make([]string, 0, len(s.products))
	for _, p := range s.products {
		names = append(names, p.Name)
	}
	return api.Suggestion{
		Text: fmt.Sprintf("Use what you have: %s", strings.Join(names, ", ")),
	}, nil
}
