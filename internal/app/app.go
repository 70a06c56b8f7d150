package app

import (
	"context"
	"errors"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/console"
	"github.com/vladislavdragonenkov/pos/internal/health"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

// Run собирает зависимости, сверяет аллокатор с журналом и запускает консоль.
// При выходе сохраняет клиентов и выгружает метрики в textfile.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(cfg, out, logger)
	if err != nil {
		return err
	}

	if err := deps.Allocator.Reconcile(ctx); err != nil {
		// Аллокатор повторит чтение журнала при первой выдаче id.
		logger.WithError(err).Warn("initial ledger scan failed")
	}

	report := deps.Health.Evaluate()
	entry := logger.WithField("status", report.Status)
	if report.Status != health.StatusHealthy {
		for _, check := range report.Checks {
			if check.Status != health.StatusHealthy {
				entry = entry.WithField(check.Name, check.Message)
			}
		}
		entry.Warn("startup health check")
	} else {
		entry.Info("startup health check")
	}

	ui := console.New(console.Services{
		Catalog:  deps.Catalog,
		Session:  deps.Session,
		Cart:     deps.Cart,
		Checkout: deps.Checkout,
		History:  deps.History,
		Health:   deps.Health,
	}, in, out, logger.WithField("component", "console"))

	runErr := ui.Run(ctx)
	return errors.Join(runErr, shutdown(deps, logger))
}

// shutdown выполняет финальную запись: клиенты и метрики.
func shutdown(deps *Dependencies, logger *log.Entry) error {
	var errs []error
	if err := deps.Session.Save(); err != nil {
		errs = append(errs, err)
	} else {
		logger.Info("customer data saved")
	}

	path := deps.Config.Path(deps.Config.MetricsFile)
	if err := metrics.WriteTextfile(path, deps.Registry); err != nil {
		logger.WithError(err).Warn("failed to write metrics textfile")
		errs = append(errs, err)
	} else if path != "" {
		logger.WithField("path", path).Info("metrics written")
	}
	return errors.Join(errs...)
}
