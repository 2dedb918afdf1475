package state

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"pantry/internal/api"
	"pantry/internal/core"
	"pantry/internal/log"
)

// ReceiptLog is the receipt cache, independent of the inventory.
// Summaries are loaded as a whole snapshot; line items are fetched
// lazily per receipt and never cached.
type ReceiptLog struct {
	backend api.ReceiptBackend
	logger  *log.Logger

	group singleflight.Group

	mu       sync.Mutex
	receipts []core.Receipt
}

func NewReceiptLog(backend api.ReceiptBackend, logger *log.Logger) *ReceiptLog {
	return &ReceiptLog{
		backend: backend,
		logger:  logger.WithComponent(log.ComponentReceipts),
	}
}

// Refresh replaces the cache with the full receipt collection. The
// collaborator bounds the set; no date filtering happens client-side.
func (s *ReceiptLog) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (any, error) {
		receipts, err := s.backend.ListReceipts(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "Receipt refresh failed", log.FieldError, err)
			return nil, fmt.Errorf("refresh receipts: %w", err)
		}
		s.mu.Lock()
		s.receipts = receipts
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Receipts refreshed", log.FieldCount, len(receipts))
		return nil, nil
	})
	return err
}

// Receipts returns the current snapshot.
func (s *ReceiptLog) Receipts() []core.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out
}

// FetchDetail retrieves the line items for one receipt. Every call
// re-fetches; detail opens are rare enough that caching would only
// risk staleness.
func (s *ReceiptLog) FetchDetail(ctx context.Context, id int64) (core.ReceiptDetail, error) {
	detail, err := s.backend.ReceiptDetail(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "Receipt detail fetch failed",
			log.FieldReceiptID, id, log.FieldError, err)
		return core.ReceiptDetail{}, err
	}
	return detail, nil
}
