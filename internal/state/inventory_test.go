package state

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"pantry/internal/core"
	"pantry/internal/log"
)

type stubBackend struct {
	products []core.Product

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	usageErr  error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
	usageCalls  int

	usageReturn float64
}

func (s *stubBackend) ListProducts(context.Context) ([]core.Product, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]core.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *stubBackend) CreateProduct(_ context.Context, draft core.ProductDraft) (core.Product, error) {
	s.createCalls++
	if s.createErr != nil {
		return core.Product{}, s.createErr
	}
	p := core.Product{ID: int64(len(s.products) + 1), Name: draft.Name, Quantity: draft.Quantity}
	s.products = append(s.products, p)
	return p, nil
}

func (s *stubBackend) UpdateProduct(context.Context, int64, core.ProductPatch) error {
	s.updateCalls++
	return s.updateErr
}

func (s *stubBackend) DeleteProduct(context.Context, int64) error {
	s.deleteCalls++
	return s.deleteErr
}

func (s *stubBackend) ApplyUsage(context.Context, int64, float64) (float64, error) {
	s.usageCalls++
	if s.usageErr != nil {
		return 0, s.usageErr
	}
	return s.usageReturn, nil
}

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func accept(prompt string) bool  { return true }
func decline(prompt string) bool { return false }

func seededInventory(t *testing.T, backend *stubBackend, confirm ConfirmerFunc) *Inventory {
	t.Helper()
	inv := NewInventory(backend, confirm, testLogger())
	if err := inv.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	return inv
}

func TestRefreshReplacesWholesale(t *testing.T) {
	backend := &stubBackend{products: []core.Product{{ID: 1, Name: "Mleko", Quantity: 2}}}
	inv := seededInventory(t, backend, accept)

	backend.products = []core.Product{
		{ID: 2, Name: "Chleb", Quantity: 1},
		{ID: 3, Name: "Masło", Quantity: 1},
	}
	if err := inv.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	products := inv.Products()
	if len(products) != 2 || products[0].ID != 2 {
		t.Fatalf("cache not replaced: %+v", products)
	}
}

func TestRefreshFailureKeepsPreviousCache(t *testing.T) {
	backend := &stubBackend{products: []core.Product{{ID: 1, Name: "Mleko", Quantity: 2}}}
	inv := seededInventory(t, backend, accept)

	backend.listErr = errors.New("connection refused")
	if err := inv.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	products := inv.Products()
	if len(products) != 1 || products[0].Name != "Mleko" {
		t.Fatalf("previous cache must survive a failed refresh: %+v", products)
	}
}

func TestMarkModifiedIdempotentAndCloseDetailClears(t *testing.T) {
	inv := NewInventory(&stubBackend{}, ConfirmerFunc(accept), testLogger())

	inv.MarkModified(7)
	inv.MarkModified(7)
	inv.MarkModified(9)
	if got := inv.DirtyCount(); got != 2 {
		t.Fatalf("expected 2 dirty rows, got %d", got)
	}
	if !inv.IsDirty(7) || !inv.IsDirty(9) {
		t.Fatal("expected rows 7 and 9 dirty")
	}

	inv.CloseDetail()
	if got := inv.DirtyCount(); got != 0 {
		t.Fatalf("CloseDetail must discard all unsaved edits, got %d", got)
	}
}

func TestCommitEditSuccessClearsDirtyAndPatchesInPlace(t *testing.T) {
	backend := &stubBackend{products: []core.Product{{ID: 1, Name: "Mleko", Quantity: 2}}}
	inv := seededInventory(t, backend, accept)
	inv.MarkModified(1)

	expiry := core.NewDate(2025, 12, 10)
	frozen := true
	err := inv.CommitEdit(context.Background(), 1, core.ProductPatch{ExpiryDate: &expiry, IsFrozen: &frozen})
	if err != nil {
		t.Fatalf("CommitEdit: %v", err)
	}

	if inv.IsDirty(1) {
		t.Fatal("dirty mark must be cleared on success")
	}
	p, ok := inv.Product(1)
	if !ok || p.ExpiryDate.Key() != "2025-12-10" || !p.IsFrozen {
		t.Fatalf("cached row not patched in place: %+v", p)
	}
	if backend.listCalls != 1 {
		t.Fatalf("commit must not trigger a full reload, list calls = %d", backend.listCalls)
	}
}

func TestCommitEditFailureKeepsDirtyAndCache(t *testing.T) {
	backend := &stubBackend{products: []core.Product{{ID: 1, Name: "Mleko", IsFrozen: false}}}
	inv := seededInventory(t, backend, accept)
	inv.MarkModified(1)

	backend.updateErr = errors.New("rejected")
	frozen := true
	if err := inv.CommitEdit(context.Background(), 1, core.ProductPatch{IsFrozen: &frozen}); err == nil {
		t.Fatal("expected commit error")
	}

	if !inv.IsDirty(1) {
		t.Fatal("dirty mark must survive a failed commit")
	}
	p, _ := inv.Product(1)
	if p.IsFrozen {
		t.Fatal("cache must be unchanged after a failed commit")
	}
}

func TestApplyUsageValidatesBeforeAnyRequest(t *testing.T) {
	backend := &stubBackend{products: []core.Product{{ID: 1, Name: "Mleko", Quantity: 2}}}
	inv := seededInventory(t, backend, accept)

	for _, amount := range []float64{0, -1.5} {
		if err := inv.ApplyUsage(context.Background(), 1, amount); !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if backend.usageCalls != 0 {
		t.Fatalf("no request may be issued for invalid amounts, got %d calls", backend.usageCalls)
	}
}

func TestApplyUsageDeclinedIsNoOp(t *testing.T) {
	backend := &stubBackend{products: []core.Product{{ID: 1, Name: "Mleko", Quantity: 2}}}
	inv := seededInventory(t, backend, decline)

	if err := inv.ApplyUsage(context.Background(), 1, 1); !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if backend.usageCalls != 0 {
		t.Fatal("declined confirmation must not issue a request")
	}
	p, _ := inv.Product(1)
	if p.Quantity != 2 {
		t.Fatal("declined confirmation must not mutate state")
	}
}

func TestApplyUsageTrustsServerQuantity(t *testing.T) {
	backend := &stubBackend{
		products:    []core.Product{{ID: 1, Name: "Mleko", Quantity: 2}},
		usageReturn: 0.25, // deliberately not 2-1
	}
	inv := seededInventory(t, backend, accept)

	if err := inv.ApplyUsage(context.Background(), 1, 1); err != nil {
		t.Fatalf("ApplyUsage: %v", err)
	}
	p, _ := inv.Product(1)
	if p.Quantity != 0.25 {
		t.Fatalf("cache must take the server-returned quantity, got %v", p.Quantity)
	}
}

func TestApplyUsageFailureLeavesCache(t *testing.T) {
	backend := &stubBackend{
		products: []core.Product{{ID: 1, Name: "Mleko", Quantity: 2}},
		usageErr: errors.New("rejected"),
	}
	inv := seededInventory(t, backend, accept)

	if err := inv.ApplyUsage(context.Background(), 1, 1); err == nil {
		t.Fatal("expected error")
	}
	p, _ := inv.Product(1)
	if p.Quantity != 2 {
		t.Fatalf("cache must be unchanged after failure, got %v", p.Quantity)
	}
}

func TestRemoveRefreshesInsteadOfPruning(t *testing.T) {
	backend := &stubBackend{products: []core.Product{
		{ID: 1, Name: "Mleko"},
		{ID: 2, Name: "Chleb"},
	}}
	inv := seededInventory(t, backend, accept)

	backend.products = backend.products[1:] // server-side effect of the delete
	if err := inv.Remove(context.Background(), 1); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if backend.deleteCalls != 1 {
		t.Fatalf("expected one delete call, got %d", backend.deleteCalls)
	}
	if backend.listCalls != 2 {
		t.Fatalf("remove must re-fetch the collection, list calls = %d", backend.listCalls)
	}
	if products := inv.Products(); len(products) != 1 || products[0].ID != 2 {
		t.Fatalf("unexpected cache after remove: %+v", products)
	}
}

func TestRemoveDeclinedIsNoOp(t *testing.T) {
	backend := &stubBackend{products: []core.Product{{ID: 1, Name: "Mleko"}}}
	inv := seededInventory(t, backend, decline)

	if err := inv.Remove(context.Background(), 1); !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if backend.deleteCalls != 0 {
		t.Fatal("declined confirmation must not issue a delete")
	}
}

func TestCreateValidatesDraftBeforeRequest(t *testing.T) {
	backend := &stubBackend{}
	inv := seededInventory(t, backend, accept)

	_, err := inv.Create(context.Background(), core.ProductDraft{Name: "", Quantity: 1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if backend.createCalls != 0 {
		t.Fatal("invalid draft must not reach the collaborator")
	}

	created, err := inv.Create(context.Background(), core.ProductDraft{Name: "Ryż", Quantity: 2, Unit: "kg"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected server-assigned identifier")
	}
	if backend.listCalls != 2 {
		t.Fatalf("create must reload the collection, list calls = %d", backend.listCalls)
	}
}
