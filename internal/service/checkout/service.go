package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

// Причины неудачного оформления для метрик.
const (
	ReasonEmptyCart   = "empty_cart"
	ReasonPayment     = "payment"
	ReasonIDExhausted = "id_exhausted"
	ReasonAllocation  = "allocation"
	ReasonQueue       = "queue"
)

// IDAllocator выдаёт уникальный id заказа.
type IDAllocator interface {
	Allocate(ctx context.Context) (int, error)
}

// Queue: очередь заказов между оплатой и приготовлением.
type Queue interface {
	Enqueue(orderID int)
	Dequeue() (int, error)
}

// Recorder фиксирует заказ в истории клиента и в журнале.
type Recorder interface {
	Record(ctx context.Context, customerID int, items []domain.LineItem, total decimal.Decimal, orderID int) (domain.OrderRecord, error)
}

// Receipt описывает результат оформления заказа.
type Receipt struct {
	OrderID    int
	CustomerID int
	Total      decimal.Decimal
	Items      []domain.LineItem
	Record     domain.OrderRecord
}

// Service проводит оформление: оплата → id → очередь → журнал → очистка корзины.
type Service struct {
	owners    domain.CartOwnerResolver
	payments  domain.PaymentService
	allocator IDAllocator
	queue     Queue
	recorder  Recorder
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewService создаёт сервис оформления. metrics может быть nil.
func NewService(
	owners domain.CartOwnerResolver,
	payments domain.PaymentService,
	allocator IDAllocator,
	queue Queue,
	recorder Recorder,
	logger *log.Entry,
	m *metrics.OrderMetrics,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "checkout")
	}
	return &Service{
		owners:    owners,
		payments:  payments,
		allocator: allocator,
		queue:     queue,
		recorder:  recorder,
		logger:    logger,
		metrics:   m,
	}
}

// Checkout оформляет корзину текущего владельца.
//
// Если id выдать не удалось, корзина не меняется и ничего не записывается.
// Если журнал недоступен, заказ остаётся в истории в памяти, корзина очищается,
// а вместе с Receipt возвращается ошибка ErrPersistenceUnavailable.
func (s *Service) Checkout(ctx context.Context) (Receipt, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordCheckoutStarted()
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordCheckoutDuration(time.Since(start))
		}
	}()

	owner := s.owners.CartOwner()
	logger := s.logger.WithFields(log.Fields{
		"checkout_id": uuid.NewString(),
		"customer_id": owner.ID,
	})

	items := owner.Cart.Items()
	if len(items) == 0 {
		s.fail(ReasonEmptyCart)
		return Receipt{}, domain.ErrCartEmpty
	}
	total := owner.Cart.Total()

	if err := s.payments.Confirm(ctx, total); err != nil {
		logger.WithError(err).Warn("payment not confirmed")
		s.fail(ReasonPayment)
		return Receipt{}, fmt.Errorf("confirm payment: %w", err)
	}

	orderID, err := s.allocator.Allocate(ctx)
	if err != nil {
		if domain.IsIDSpaceExhausted(err) {
			s.fail(ReasonIDExhausted)
		} else {
			s.fail(ReasonAllocation)
		}
		logger.WithError(err).Error("payment failed: could not generate order id")
		return Receipt{}, fmt.Errorf("allocate order id: %w", err)
	}

	s.queue.Enqueue(orderID)
	processedID, err := s.queue.Dequeue()
	if err != nil {
		s.fail(ReasonQueue)
		return Receipt{}, fmt.Errorf("dequeue order %d: %w", orderID, err)
	}
	if processedID != orderID {
		logger.WithFields(log.Fields{
			"order_id":     orderID,
			"processed_id": processedID,
		}).Warn("queue returned a different order than enqueued")
	}

	record, recordErr := s.recorder.Record(ctx, owner.ID, items, total, orderID)
	if recordErr != nil && !errors.Is(recordErr, domain.ErrPersistenceUnavailable) {
		recordErr = fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, recordErr)
	}

	owner.Cart.Clear()
	if s.metrics != nil {
		s.metrics.RecordCheckoutCompleted()
	}
	logger.WithFields(log.Fields{
		"order_id": orderID,
		"total":    total.StringFixed(2),
		"items":    record.ItemCount,
	}).Info("order complete")

	receipt := Receipt{
		OrderID:    orderID,
		CustomerID: owner.ID,
		Total:      total,
		Items:      items,
		Record:     record,
	}
	return receipt, recordErr
}

func (s *Service) fail(reason string) {
	if s.metrics != nil {
		s.metrics.RecordCheckoutFailed(reason)
	}
}
