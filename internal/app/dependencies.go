package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/catalog"
	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/health"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
	"github.com/vladislavdragonenkov/pos/internal/service/cart"
	"github.com/vladislavdragonenkov/pos/internal/service/checkout"
	"github.com/vladislavdragonenkov/pos/internal/service/ledger"
	"github.com/vladislavdragonenkov/pos/internal/service/orderid"
	"github.com/vladislavdragonenkov/pos/internal/service/payment"
	"github.com/vladislavdragonenkov/pos/internal/service/queue"
	"github.com/vladislavdragonenkov/pos/internal/session"
	"github.com/vladislavdragonenkov/pos/internal/storage/file"
	"github.com/vladislavdragonenkov/pos/internal/storage/memory"
	"github.com/vladislavdragonenkov/pos/internal/version"
)

// Dependencies содержит все зависимости приложения. Создаются при старте
// и живут до выхода; глобального состояния нет.
type Dependencies struct {
	Config    Config
	Logger    *log.Entry
	Registry  *prometheus.Registry
	Metrics   *metrics.OrderMetrics
	Catalog   *catalog.Catalog
	Customers domain.CustomerRepository
	Store     domain.LedgerStore
	Session   *session.Session
	Cart      *cart.Service
	Queue     *queue.OrderQueue
	Allocator *orderid.Allocator
	History   *ledger.Ledger
	Payments  domain.PaymentService
	Checkout  *checkout.Service
	Health    *health.Registry
}

// NewDependencies создаёт и связывает компоненты кассы.
// out получает вывод обратного отсчёта оплаты.
func NewDependencies(cfg Config, out io.Writer, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewOrderMetrics(registry)

	menu, err := catalog.Load(cfg.Path(cfg.CatalogFile), logger.WithField("component", "catalog"))
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  m,
		Catalog:  menu,
		Health:   health.NewRegistry(version.GetVersion()),
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory:
		deps.Customers = memory.NewCustomerRepository()
		deps.Store = memory.NewLedgerStore()
		logger.Warn("memory storage driver: orders and customers are not persisted")
	default:
		customersPath := cfg.Path(cfg.CustomersFile)
		ledgerFile := file.NewLedger(cfg.Path(cfg.LedgerFile))
		deps.Customers = file.NewCustomerStore(customersPath, logger.WithField("component", "customers"))
		retry := ledger.DefaultRetryConfig()
		retry.MaxAttempts = cfg.LedgerRetryAttempts
		retry.InitialDelay = cfg.LedgerRetryDelay
		deps.Store = ledger.NewRetryingStore(ledgerFile, retry, logger.WithField("component", "ledger-retry"))
		deps.Health.RegisterChecker("ledger", health.NewDegradedChecker(
			health.NewSimpleChecker("ledger", ledgerFile.Check)))
		deps.Health.RegisterChecker("customers", health.NewDegradedChecker(
			health.NewSimpleChecker("customers", dirExists(customersPath))))
	}
	deps.Health.RegisterChecker("catalog", health.NewDegradedChecker(
		health.NewSimpleChecker("catalog", func() error {
			if menu.Len() == 0 {
				return fmt.Errorf("drink menu %s is empty", cfg.Path(cfg.CatalogFile))
			}
			return nil
		})))

	deps.Session, err = session.New(deps.Customers, logger.WithField("component", "session"))
	if err != nil {
		return nil, err
	}

	deps.Cart = cart.NewService(deps.Session, logger.WithField("component", "cart"), m)
	deps.Queue = queue.New(logger.WithField("component", "order-queue"), m)
	deps.Allocator = orderid.NewAllocator(deps.Store,
		orderid.WithLogger(logger.WithField("component", "order-id-allocator")),
		orderid.WithMetrics(m),
		orderid.WithSeed(cfg.OrderIDSeed),
		orderid.WithRescanEachAllocation(cfg.RescanLedger),
	)
	deps.History = ledger.New(deps.Store, nil, logger.WithField("component", "ledger"), m)
	deps.Payments = payment.NewCountdown(payment.Config{
		Steps: cfg.PaymentSteps,
		Delay: cfg.PaymentDelay,
	}, out, logger.WithField("component", "payment"))
	deps.Checkout = checkout.NewService(
		deps.Session,
		deps.Payments,
		deps.Allocator,
		deps.Queue,
		deps.History,
		logger.WithField("component", "checkout"),
		m,
	)
	return deps, nil
}

func dirExists(path string) func() error {
	return func() error {
		dir := filepath.Dir(path)
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("customers directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("customers directory: %s is not a directory", dir)
		}
		return nil
	}
}
