package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/app"
	"github.com/vladislavdragonenkov/pos/internal/version"
)

const (
	envConfigFile    = "POS_CONFIG"
	envDataDir       = "POS_DATA_DIR"
	envCatalogFile   = "POS_CATALOG_FILE"
	envCustomersFile = "POS_CUSTOMERS_FILE"
	envLedgerFile    = "POS_LEDGER_FILE"
	envMetricsFile   = "POS_METRICS_FILE"
	envLogFile       = "POS_LOG_FILE"
	envLogLevel      = "POS_LOG_LEVEL"
	envLogToStderr   = "POS_LOG_STDERR"
	envStorageDriver = "POS_STORAGE_DRIVER"
	envPaymentSteps  = "POS_PAYMENT_STEPS"
	envPaymentDelay  = "POS_PAYMENT_DELAY"
	envOrderIDSeed   = "POS_ORDER_ID_SEED"
	envRescanLedger  = "POS_RESCAN_LEDGER"
)

type envLookup func(string) (string, bool)

// setupLogger настраивает формат и уровень логирования.
// Консоль занята меню, поэтому по умолчанию лог пишется в файл.
func setupLogger(cfg app.Config) (io.Closer, error) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogToStderr || cfg.LogFile == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.Path(cfg.LogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

// readConfig собирает конфигурацию: значения по умолчанию, затем YAML из POS_CONFIG,
// затем переменные окружения.
func readConfig() (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if path := strings.TrimSpace(os.Getenv(envConfigFile)); path != "" {
		loaded, err := app.LoadConfigFile(path, cfg)
		if err != nil {
			warnings = append(warnings, err.Error())
		} else {
			cfg = loaded
		}
	}

	cfg, envWarnings := applyEnv(cfg, os.LookupEnv)
	return cfg, append(warnings, envWarnings...)
}

// readConfigFromEnv накладывает переменные окружения на значения по умолчанию.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	return applyEnv(app.DefaultConfig(), lookup)
}

func applyEnv(cfg app.Config, lookup envLookup) (app.Config, []string) {
	var warnings []string

	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setString(envDataDir, &cfg.DataDir)
	setString(envCatalogFile, &cfg.CatalogFile)
	setString(envCustomersFile, &cfg.CustomersFile)
	setString(envLedgerFile, &cfg.LedgerFile)
	setString(envMetricsFile, &cfg.MetricsFile)
	setString(envLogFile, &cfg.LogFile)

	if v, ok := lookup(envLogLevel); ok && strings.TrimSpace(v) != "" {
		level := strings.ToLower(strings.TrimSpace(v))
		if _, err := log.ParseLevel(level); err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid %s=%q, using %q", envLogLevel, v, cfg.LogLevel))
		} else {
			cfg.LogLevel = level
		}
	}

	if v, ok := lookup(envStorageDriver); ok && strings.TrimSpace(v) != "" {
		driver := strings.ToLower(strings.TrimSpace(v))
		switch driver {
		case app.StorageDriverFile, app.StorageDriverMemory:
			cfg.StorageDriver = driver
		default:
			warnings = append(warnings, fmt.Sprintf("invalid %s=%q, using %q", envStorageDriver, v, cfg.StorageDriver))
		}
	}

	if v, ok := lookup(envLogToStderr); ok {
		if parsed, err := parseBool(v); err == nil {
			cfg.LogToStderr = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("invalid %s=%q, using %t", envLogToStderr, v, cfg.LogToStderr))
		}
	}
	if v, ok := lookup(envRescanLedger); ok {
		if parsed, err := parseBool(v); err == nil {
			cfg.RescanLedger = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("invalid %s=%q, using %t", envRescanLedger, v, cfg.RescanLedger))
		}
	}

	if v, ok := lookup(envPaymentSteps); ok {
		parsed, err := parseInt(v, func(n int) bool { return n >= 0 }, "must be >= 0")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid %s=%q: %v, using %d", envPaymentSteps, v, err, cfg.PaymentSteps))
		} else {
			cfg.PaymentSteps = parsed
		}
	}
	if v, ok := lookup(envOrderIDSeed); ok {
		parsed, err := parseInt(v, func(n int) bool { return n >= 1000 && n <= 9999 }, "must be within [1000, 9999]")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid %s=%q: %v, using %d", envOrderIDSeed, v, err, cfg.OrderIDSeed))
		} else {
			cfg.OrderIDSeed = parsed
		}
	}
	if v, ok := lookup(envPaymentDelay); ok {
		parsed, err := parseDuration(v, func(d time.Duration) bool { return d >= 0 }, "must be >= 0")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid %s=%q: %v, using %s", envPaymentDelay, v, err, cfg.PaymentDelay))
		} else {
			cfg.PaymentDelay = parsed
		}
	}

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value %q", raw)
	}
}

func parseInt(raw string, validate func(int) bool, msg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !validate(n) {
		return 0, errors.New(msg)
	}
	return n, nil
}

func parseDuration(raw string, validate func(time.Duration) bool, msg string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !validate(d) {
		return 0, errors.New(msg)
	}
	return d, nil
}

func main() {
	verbose := flag.Bool("v", false, "write logs to stderr instead of the log file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// .env необязателен.
	_ = godotenv.Load()

	cfg, warnings := readConfig()
	if *verbose {
		cfg.LogToStderr = true
	}

	closer, err := setupLogger(cfg)
	if err != nil {
		log.WithError(err).Warn("falling back to stderr logging")
	}
	defer closer.Close()

	for _, w := range warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"data_dir":       cfg.DataDir,
		"storage_driver": cfg.StorageDriver,
		"version":        version.GetVersion(),
	}).Info("starting POS console")

	if err := app.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("POS console exited with error")
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}

	log.Info("POS console stopped")
}
