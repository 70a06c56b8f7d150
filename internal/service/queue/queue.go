package queue

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

// OrderQueue: FIFO-очередь id заказов между подтверждением оплаты и началом приготовления.
type OrderQueue struct {
	mu      sync.Mutex
	ids     []int
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// New создаёт пустую очередь. metrics может быть nil.
func New(logger *log.Entry, m *metrics.OrderMetrics) *OrderQueue {
	if logger == nil {
		logger = log.WithField("component", "order-queue")
	}
	logger.Debug("order queue initialized")
	return &OrderQueue{logger: logger, metrics: m}
}

// Enqueue ставит заказ в конец очереди.
func (q *OrderQueue) Enqueue(orderID int) {
	q.mu.Lock()
	q.ids = append(q.ids, orderID)
	depth := len(q.ids)
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.SetQueueDepth(depth)
	}
	q.logger.WithFields(log.Fields{
		"order_id": orderID,
		"depth":    depth,
	}).Info("order added to queue")
}

// Dequeue забирает заказ из головы очереди; на пустой очереди возвращает ErrEmptyQueue.
func (q *OrderQueue) Dequeue() (int, error) {
	q.mu.Lock()
	if len(q.ids) == 0 {
		q.mu.Unlock()
		return 0, domain.ErrEmptyQueue
	}
	orderID := q.ids[0]
	q.ids[0] = 0
	q.ids = q.ids[1:]
	depth := len(q.ids)
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.SetQueueDepth(depth)
		q.metrics.RecordQueueProcessed()
	}
	q.logger.WithField("order_id", orderID).Info("processing order")
	return orderID, nil
}

// IsEmpty сообщает, пуста ли очередь.
func (q *OrderQueue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids) == 0
}

// Size возвращает число заказов в очереди.
func (q *OrderQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}
