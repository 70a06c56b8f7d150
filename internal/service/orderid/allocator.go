package orderid

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

// Options задаёт параметры аллокатора.
type Options struct {
	Logger  *log.Entry
	Metrics *metrics.OrderMetrics
	// Seed считается последним «выданным» значением; первый кандидат Seed+1 (с переносом).
	Seed int
	// RescanEachAllocation заставляет перечитывать журнал перед каждой выдачей id.
	RescanEachAllocation bool
}

// Option настраивает Allocator.
type Option func(*Options)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics задаёт метрики.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithSeed задаёт начальное значение счётчика.
func WithSeed(seed int) Option {
	return func(opts *Options) {
		opts.Seed = seed
	}
}

// WithRescanEachAllocation включает полное чтение журнала перед каждой выдачей.
func WithRescanEachAllocation(enabled bool) Option {
	return func(opts *Options) {
		opts.RescanEachAllocation = enabled
	}
}

// Allocator выдаёт id заказов, уникальные относительно журнала.
// Множество занятых id строится полным чтением журнала один раз и дальше
// пополняется каждым выданным id.
type Allocator struct {
	mu         sync.Mutex
	store      domain.LedgerStore
	next       int
	used       map[int]struct{}
	issued     map[int]struct{}
	reconciled bool
	rescan     bool
	logger     *log.Entry
	metrics    *metrics.OrderMetrics
}

// NewAllocator создаёт аллокатор поверх журнала.
func NewAllocator(store domain.LedgerStore, options ...Option) *Allocator {
	opts := Options{Seed: domain.OrderIDSeed}
	for _, option := range options {
		option(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "order-id-allocator")
	}
	return &Allocator{
		store:   store,
		next:    wrap(opts.Seed + 1),
		issued:  make(map[int]struct{}),
		rescan:  opts.RescanEachAllocation,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Reconcile перечитывает журнал и пересобирает множество занятых id.
func (a *Allocator) Reconcile(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reconcileLocked(ctx)
}

// Allocate возвращает свободный id из [1001, 9999]. Перебор идёт от текущего счётчика
// с переносом 9999 → 1001; полный круг без свободного id даёт ErrIDSpaceExhausted.
func (a *Allocator) Allocate(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.reconciled || a.rescan {
		if err := a.reconcileLocked(ctx); err != nil {
			return 0, err
		}
	}

	start := a.next
	candidate := start
	probes := 1
	for a.isUsed(candidate) {
		candidate = wrap(candidate + 1)
		if candidate == start {
			a.logger.WithField("used", len(a.used)).Error("no available order ids")
			return 0, domain.ErrIDSpaceExhausted
		}
		probes++
	}

	a.used[candidate] = struct{}{}
	a.issued[candidate] = struct{}{}
	a.next = wrap(candidate + 1)

	if a.metrics != nil {
		a.metrics.RecordIDAllocated(probes)
	}
	a.logger.WithFields(log.Fields{
		"order_id": candidate,
		"probes":   probes,
	}).Debug("order id allocated")
	return candidate, nil
}

// Next возвращает следующего кандидата без выдачи (для диагностики).
func (a *Allocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}

func (a *Allocator) reconcileLocked(ctx context.Context) error {
	ids, malformed, err := a.store.ScanOrderIDs(ctx)
	if err != nil {
		return fmt.Errorf("scan ledger order ids: %w", err)
	}
	if malformed > 0 {
		a.logger.WithField("lines", malformed).Warn("skipped malformed ledger lines")
		if a.metrics != nil {
			a.metrics.RecordMalformedLines(malformed)
		}
	}
	for id := range a.issued {
		ids[id] = struct{}{}
	}
	a.used = ids
	a.reconciled = true
	return nil
}

func (a *Allocator) isUsed(id int) bool {
	_, ok := a.used[id]
	return ok
}

// wrap возвращает id в диапазон [MinOrderID, MaxOrderID]; всё вне диапазона → MinOrderID.
func wrap(id int) int {
	if id < domain.MinOrderID || id > domain.MaxOrderID {
		return domain.MinOrderID
	}
	return id
}
