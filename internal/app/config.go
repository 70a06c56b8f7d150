package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

const (
	StorageDriverFile   = "file"
	StorageDriverMemory = "memory"
)

// Config описывает настройки запуска кассы.
// Относительные пути файлов разрешаются от DataDir.
type Config struct {
	DataDir       string `yaml:"data_dir"`
	CatalogFile   string `yaml:"catalog_file"`
	CustomersFile string `yaml:"customers_file"`
	LedgerFile    string `yaml:"ledger_file"`
	// MetricsFile: textfile для node_exporter; пустая строка отключает выгрузку.
	MetricsFile string `yaml:"metrics_file"`
	LogFile     string `yaml:"log_file"`
	LogLevel    string `yaml:"log_level"`
	LogToStderr bool   `yaml:"log_to_stderr"`

	// StorageDriver: file (по умолчанию) или memory (без записи на диск).
	StorageDriver string `yaml:"storage_driver"`

	PaymentSteps int           `yaml:"payment_steps"`
	PaymentDelay time.Duration `yaml:"payment_delay"`

	OrderIDSeed  int  `yaml:"order_id_seed"`
	RescanLedger bool `yaml:"rescan_ledger"`

	// LedgerRetryAttempts: число попыток записи в журнал перед отказом (только для file).
	LedgerRetryAttempts int           `yaml:"ledger_retry_attempts"`
	LedgerRetryDelay    time.Duration `yaml:"ledger_retry_delay"`
}

// DefaultConfig возвращает настройки, совместимые с исходными файлами программы.
func DefaultConfig() Config {
	return Config{
		DataDir:       ".",
		CatalogFile:   "mixue.txt",
		CustomersFile: "customers.txt",
		LedgerFile:    "order_history.txt",
		MetricsFile:   "pos_metrics.prom",
		LogFile:       "pos.log",
		LogLevel:      "info",
		StorageDriver: StorageDriverFile,
		PaymentSteps:  3,
		PaymentDelay:  time.Second,
		OrderIDSeed:   domain.OrderIDSeed,

		LedgerRetryAttempts: 3,
		LedgerRetryDelay:    50 * time.Millisecond,
	}
}

// LoadConfigFile накладывает значения из YAML-файла поверх cfg.
// Ключи, отсутствующие в файле, сохраняют прежние значения.
func LoadConfigFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data dir must not be empty"))
	}
	if strings.TrimSpace(c.CatalogFile) == "" {
		errs = append(errs, errors.New("catalog file must not be empty"))
	}
	if strings.TrimSpace(c.CustomersFile) == "" {
		errs = append(errs, errors.New("customers file must not be empty"))
	}
	if strings.TrimSpace(c.LedgerFile) == "" {
		errs = append(errs, errors.New("ledger file must not be empty"))
	}
	switch c.StorageDriver {
	case StorageDriverFile, StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}
	if c.PaymentSteps < 0 {
		errs = append(errs, errors.New("payment steps must be >= 0"))
	}
	if c.PaymentDelay < 0 {
		errs = append(errs, errors.New("payment delay must be >= 0"))
	}
	if c.LedgerRetryAttempts < 1 {
		errs = append(errs, errors.New("ledger retry attempts must be >= 1"))
	}
	if c.LedgerRetryDelay < 0 {
		errs = append(errs, errors.New("ledger retry delay must be >= 0"))
	}
	if c.OrderIDSeed < domain.OrderIDSeed || c.OrderIDSeed > domain.MaxOrderID {
		errs = append(errs, fmt.Errorf("order id seed must be within [%d, %d]", domain.OrderIDSeed, domain.MaxOrderID))
	}
	return errors.Join(errs...)
}

// Path разрешает имя файла относительно DataDir. Пустое имя остаётся пустым.
func (c Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
