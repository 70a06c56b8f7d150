package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// LedgerStore хранит журнал заказов в памяти (для разработки и тестов).
type LedgerStore struct {
	mu      sync.RWMutex
	records []domain.OrderRecord
}

// NewLedgerStore возвращает in-memory журнал, опционально с уже записанными заказами.
func NewLedgerStore(seed ...domain.OrderRecord) *LedgerStore {
	store := &LedgerStore{}
	store.records = append(store.records, seed...)
	return store
}

// Append сохраняет запись в конец журнала.
func (s *LedgerStore) Append(ctx context.Context, record domain.OrderRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Копируем описания, чтобы внешние изменения среза не попали в журнал.
	items := make([]string, len(record.Items))
	copy(items, record.Items)
	record.Items = items
	s.records = append(s.records, record)
	return nil
}

// ScanOrderIDs возвращает множество id из журнала.
func (s *LedgerStore) ScanOrderIDs(ctx context.Context) (map[int]struct{}, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[int]struct{}, len(s.records))
	for _, record := range s.records {
		ids[record.OrderID] = struct{}{}
	}
	return ids, 0, nil
}

// Records возвращает копию журнала в порядке записи.
func (s *LedgerStore) Records() []domain.OrderRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.OrderRecord, len(s.records))
	copy(result, s.records)
	return result
}

var _ domain.LedgerStore = (*LedgerStore)(nil)
