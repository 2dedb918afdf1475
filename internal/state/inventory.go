// Package state owns the client-side caches and their edit protocol.
// All collaborator data is held here; views only derive from it.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"pantry/internal/api"
	"pantry/internal/core"
	"pantry/internal/log"
)

// ErrDeclined is returned when the user cancels a confirmation gate.
// The operation is a no-op: no request was issued, no state changed.
var ErrDeclined = errors.New("declined by user")

// Confirmer is the blocking user-confirmation gate required before
// destructive operations. It is a UX checkpoint, not a correctness
// control.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Inventory is the product cache and dirty tracker. The collection is
// replaced wholesale on each refresh; edits mutate rows in place after
// the collaborator confirms the write.
type Inventory struct {
	backend api.InventoryBackend
	confirm Confirmer
	logger  *log.Logger

	group singleflight.Group

	mu       sync.Mutex
	products []core.Product
	dirty    map[int64]struct{}
}

func NewInventory(backend api.InventoryBackend, confirm Confirmer, logger *log.Logger) *Inventory {
	return &Inventory{
		backend: backend,
		confirm: confirm,
		logger:  logger.WithComponent(log.ComponentInventory),
		dirty:   make(map[int64]struct{}),
	}
}

// Refresh replaces the cache with a full collaborator snapshot.
// On failure the previous cache is left intact and the error is
// returned for the view to surface. Overlapping refreshes are
// collapsed into one request.
func (s *Inventory) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (any, error) {
		products, err := s.backend.ListProducts(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "Inventory refresh failed", log.FieldError, err)
			return nil, fmt.Errorf("refresh inventory: %w", err)
		}
		s.mu.Lock()
		s.products = products
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Inventory refreshed", log.FieldCount, len(products))
		return nil, nil
	})
	return err
}

// Products returns the current snapshot.
func (s *Inventory) Products() []core.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product looks up a single cached row by identifier.
func (s *Inventory) Product(id int64) (core.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return core.Product{}, false
}

// MarkModified records an unsaved in-UI edit for the row. Idempotent.
func (s *Inventory) MarkModified(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[id] = struct{}{}
}

// IsDirty reports whether the row has unsaved edits.
func (s *Inventory) IsDirty(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dirty[id]
	return ok
}

// DirtyCount returns the number of rows with unsaved edits.
func (s *Inventory) DirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty)
}

// CloseDetail discards all unsaved edits. Called when the detail view
// closes; edits are dropped, not queued.
func (s *Inventory) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.dirty)
}

// ApplyUsage reports a quantity decrement after validation and user
// confirmation. The cached quantity is overwritten with the value the
// server returns; the client never computes it, so concurrent external
// modifications cannot drift the cache.
func (s *Inventory) ApplyUsage(ctx context.Context, id int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("apply usage: %w", core.ErrInvalidAmount)
	}
	if !s.confirm.Confirm(fmt.Sprintf("Use %.2f units of product %d?", amount, id)) {
		return ErrDeclined
	}

	newQuantity, err := s.backend.ApplyUsage(ctx, id, amount)
	if err != nil {
		s.logger.WarnContext(ctx, "Usage update failed",
			log.FieldProductID, id, log.FieldError, err)
		return err
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Quantity = newQuantity
			break
		}
	}
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "Usage applied",
		log.FieldProductID, id, "new_quantity", newQuantity)
	return nil
}

// CommitEdit sends the edited field subset. On success the cached row
// is patched in place and the dirty mark cleared; on failure both are
// left untouched so the edit indicator stays visible for a retry.
func (s *Inventory) CommitEdit(ctx context.Context, id int64, patch core.ProductPatch) error {
	if err := s.backend.UpdateProduct(ctx, id, patch); err != nil {
		s.logger.WarnContext(ctx, "Edit commit failed",
			log.FieldProductID, id, log.FieldError, err)
		return err
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			if patch.ExpiryDate != nil {
				s.products[i].ExpiryDate = *patch.ExpiryDate
			}
			if patch.IsFrozen != nil {
				s.products[i].IsFrozen = *patch.IsFrozen
			}
			break
		}
	}
	delete(s.dirty, id)
	s.mu.Unlock()
	return nil
}

// Remove deletes a product after confirmation. Delete is not
// optimistic: the cache is refreshed from the collaborator on any
// response instead of being pruned locally.
func (s *Inventory) Remove(ctx context.Context, id int64) error {
	if !s.confirm.Confirm(fmt.Sprintf("Delete product %d?", id)) {
		return ErrDeclined
	}

	delErr := s.backend.DeleteProduct(ctx, id)
	refreshErr := s.Refresh(ctx)
	if delErr != nil {
		return delErr
	}
	return refreshErr
}

// Create validates the draft client-side, asks the collaborator to
// create the product, then reloads the full collection.
func (s *Inventory) Create(ctx context.Context, draft core.ProductDraft) (core.Product, error) {
	if err := draft.Validate(); err != nil {
		return core.Product{}, fmt.Errorf("create product: %w", err)
	}
	created, err := s.backend.CreateProduct(ctx, draft)
	if err != nil {
		return core.Product{}, err
	}
	s.logger.InfoContext(ctx, "Product created", log.FieldProductID, created.ID)
	if err := s.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}
