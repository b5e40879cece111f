package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/pdv-backend/internal/catalog"
	"github.com/angelmondragon/pdv-backend/pkg/pagination"
)

// Store records sales. Commit must take the sale's stock and persist the sale
// together, or do neither.
type Store interface {
	Commit(ctx context.Context, sale Sale) error
	ListSales(ctx context.Context, since time.Time) ([]Sale, error)
	// ListSalesPage returns at most limit sales made since the given time
	// that sort after cursor, newest first with ties on descending id.
	ListSalesPage(ctx context.Context, since time.Time, cursor *pagination.Cursor, limit int) ([]Sale, error)
}

// MemoryStore keeps sales in process and takes stock through a ledger.
type MemoryStore struct {
	ledger catalog.StockLedger

	mu    sync.RWMutex
	sales []Sale
}

// NewMemoryStore builds a store that decrements stock on ledger.
func NewMemoryStore(ledger catalog.StockLedger) (*MemoryStore, error) {
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	return &MemoryStore{ledger: ledger}, nil
}

func (s *MemoryStore) Commit(ctx context.Context, sale Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.DecrementStock(ctx, sale.StockMoves()); err != nil {
		return err
	}
	s.sales = append(s.sales, sale)
	return nil
}

func (s *MemoryStore) ListSales(_ context.Context, since time.Time) ([]Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Sale{}
	for _, sale := range s.sales {
		if !sale.CreatedAt.Before(since) {
			out = append(out, sale)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) ListSalesPage(ctx context.Context, since time.Time, cursor *pagination.Cursor, limit int) ([]Sale, error) {
	sales, err := s.ListSales(ctx, since)
	if err != nil {
		return nil, err
	}
	return pageAfter(sales, cursor, limit), nil
}
