package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики жизненного цикла заказа: корзина, id, очередь, журнал.
type OrderMetrics struct {
	// Оформление заказа
	checkoutStarted   prometheus.Counter
	checkoutCompleted prometheus.Counter
	checkoutFailed    *prometheus.CounterVec
	checkoutDuration  prometheus.Histogram

	// Аллокатор идентификаторов
	idAllocations  prometheus.Counter
	idProbeLength  prometheus.Histogram
	malformedLines prometheus.Counter

	// Очередь заказов
	queueDepth     prometheus.Gauge
	queueProcessed prometheus.Counter

	// Журнал
	ledgerRecords        prometheus.Counter
	ledgerAppendFailures prometheus.Counter

	// Корзина
	cartItemsAdded   prometheus.Counter
	cartItemsRemoved prometheus.Counter
}

// NewOrderMetrics регистрирует метрики в переданном registerer (nil означает глобальный).
func NewOrderMetrics(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		checkoutStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_checkout_started_total",
			Help: "Total number of checkout attempts",
		}),
		checkoutCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_checkout_completed_total",
			Help: "Total number of checkouts that produced an order",
		}),
		checkoutFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pos_checkout_failed_total",
			Help: "Total number of failed checkouts grouped by reason",
		}, []string{"reason"}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "pos_checkout_duration_seconds",
			Help:    "Duration of checkout including payment confirmation",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 3, 5},
		}),
		idAllocations: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_order_id_allocations_total",
			Help: "Total number of order ids issued",
		}),
		idProbeLength: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "pos_order_id_probe_length",
			Help:    "Number of candidates probed per allocation",
			Buckets: []float64{1, 2, 5, 10, 100, 1000, 9000},
		}),
		malformedLines: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_ledger_malformed_lines_total",
			Help: "Total number of ledger lines skipped while scanning order ids",
		}),
		queueDepth: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "pos_order_queue_depth",
			Help: "Current number of orders waiting in the queue",
		}),
		queueProcessed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_order_queue_processed_total",
			Help: "Total number of orders taken from the queue",
		}),
		ledgerRecords: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_ledger_records_total",
			Help: "Total number of orders recorded in history",
		}),
		ledgerAppendFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_ledger_append_failures_total",
			Help: "Total number of orders that could not be written to the ledger file",
		}),
		cartItemsAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_cart_items_added_total",
			Help: "Total number of line items added to carts",
		}),
		cartItemsRemoved: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_cart_items_removed_total",
			Help: "Total number of line items removed from carts",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordCheckoutStarted увеличивает счётчик попыток оформления.
func (m *OrderMetrics) RecordCheckoutStarted() {
	m.checkoutStarted.Inc()
}

// RecordCheckoutCompleted увеличивает счётчик успешных заказов.
func (m *OrderMetrics) RecordCheckoutCompleted() {
	m.checkoutCompleted.Inc()
}

// RecordCheckoutFailed увеличивает счётчик неудачных оформлений с причиной.
func (m *OrderMetrics) RecordCheckoutFailed(reason string) {
	m.checkoutFailed.WithLabelValues(reason).Inc()
}

// RecordCheckoutDuration записывает длительность оформления.
func (m *OrderMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordIDAllocated учитывает выданный id и длину перебора.
func (m *OrderMetrics) RecordIDAllocated(probes int) {
	m.idAllocations.Inc()
	m.idProbeLength.Observe(float64(probes))
}

// RecordMalformedLines учитывает пропущенные строки журнала.
func (m *OrderMetrics) RecordMalformedLines(n int) {
	if n <= 0 {
		return
	}
	m.malformedLines.Add(float64(n))
}

// SetQueueDepth выставляет текущую длину очереди.
func (m *OrderMetrics) SetQueueDepth(depth int) {
	m.queueDepth.Set(float64(depth))
}

// RecordQueueProcessed увеличивает счётчик обработанных из очереди заказов.
func (m *OrderMetrics) RecordQueueProcessed() {
	m.queueProcessed.Inc()
}

// RecordLedgerRecord увеличивает счётчик записанных заказов.
func (m *OrderMetrics) RecordLedgerRecord() {
	m.ledgerRecords.Inc()
}

// RecordLedgerAppendFailure учитывает неудачную запись в файл журнала.
func (m *OrderMetrics) RecordLedgerAppendFailure() {
	m.ledgerAppendFailures.Inc()
}

// RecordCartItemAdded увеличивает счётчик добавленных позиций.
func (m *OrderMetrics) RecordCartItemAdded() {
	m.cartItemsAdded.Inc()
}

// RecordCartItemsRemoved учитывает удалённые позиции.
func (m *OrderMetrics) RecordCartItemsRemoved(n int) {
	if n <= 0 {
		return
	}
	m.cartItemsRemoved.Add(float64(n))
}
