package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

// Ledger хранит историю заказов по клиентам в памяти (последний первым)
// и дублирует каждую запись в долговременный журнал.
// История не сверяется с файлом: файл читает только аллокатор id.
type Ledger struct {
	mu        sync.RWMutex
	store     domain.LedgerStore
	histories map[int][]domain.OrderRecord
	now       func() time.Time
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// New создаёт журнал. now и metrics могут быть nil.
func New(store domain.LedgerStore, now func() time.Time, logger *log.Entry, m *metrics.OrderMetrics) *Ledger {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.WithField("component", "ledger")
	}
	return &Ledger{
		store:     store,
		histories: make(map[int][]domain.OrderRecord),
		now:       now,
		logger:    logger,
		metrics:   m,
	}
}

// Record фиксирует заказ: добавляет его в начало истории клиента и дописывает в журнал.
// Если журнал недоступен, запись остаётся в памяти, а ошибка оборачивает ErrPersistenceUnavailable.
func (l *Ledger) Record(ctx context.Context, customerID int, items []domain.LineItem, total decimal.Decimal, orderID int) (domain.OrderRecord, error) {
	record := domain.NewOrderRecord(customerID, orderID, items, total, l.now())

	l.mu.Lock()
	history := l.histories[customerID]
	updated := make([]domain.OrderRecord, 0, len(history)+1)
	updated = append(updated, record)
	updated = append(updated, history...)
	l.histories[customerID] = updated
	l.mu.Unlock()

	if l.metrics != nil {
		l.metrics.RecordLedgerRecord()
	}

	logger := l.logger.WithFields(log.Fields{
		"order_id":    orderID,
		"customer_id": customerID,
	})
	if err := l.store.Append(ctx, record); err != nil {
		if l.metrics != nil {
			l.metrics.RecordLedgerAppendFailure()
		}
		logger.WithError(err).Error("unable to write order to ledger")
		if domain.IsPersistenceUnavailable(err) {
			return record, err
		}
		return record, fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}
	logger.Info("order saved to history")
	return record, nil
}

// History возвращает копию истории клиента, самый свежий заказ первым.
func (l *Ledger) History(customerID int) []domain.OrderRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := l.histories[customerID]
	result := make([]domain.OrderRecord, len(history))
	copy(result, history)
	return result
}
