package file

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// CustomerStore хранит клиентов в CSV-файле формата id,name,email,password.
type CustomerStore struct {
	mu     sync.Mutex
	path   string
	logger *log.Entry
}

// NewCustomerStore создаёт файловое хранилище клиентов.
func NewCustomerStore(path string, logger *log.Entry) *CustomerStore {
	if logger == nil {
		logger = log.WithField("component", "customer-store")
	}
	return &CustomerStore{path: path, logger: logger}
}

// Load читает клиентов. Отсутствующий файл даёт пустой список, битые строки пропускаются.
func (s *CustomerStore) Load() ([]*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.WithField("path", s.path).Info("no existing customer data")
			return nil, nil
		}
		return nil, fmt.Errorf("open customers: %w", err)
	}
	defer f.Close()

	var customers []*domain.Customer
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		customer, err := parseCustomer(line)
		if err != nil {
			s.logger.WithError(err).WithField("line", lineNo).Warn("skip customer line")
			continue
		}
		customers = append(customers, customer)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan customers: %w", err)
	}
	return customers, nil
}

// Save перезаписывает файл через временный файл; гость пропускается.
func (s *CustomerStore) Save(customers []*domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".customers-*")
	if err != nil {
		return fmt.Errorf("create temp customers file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, c := range customers {
		if c == nil || c.IsGuest {
			continue
		}
		fmt.Fprintf(w, "%d,%s,%s,%s\n", c.ID, c.Name, c.Email, c.Password)
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write customers: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close customers: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace customers file: %w", err)
	}
	return nil
}

// parseCustomer разбирает строку id,name,email,password. Паролем считается всё после третьей запятой.
func parseCustomer(line string) (*domain.Customer, error) {
	parts := strings.SplitN(line, ",", 4)
	if len(parts) != 4 {
		return nil, fmt.Errorf("expected 4 fields, got %d", len(parts))
	}
	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	if id == domain.GuestID {
		return nil, fmt.Errorf("guest id %d is reserved", id)
	}
	return domain.NewCustomer(
		id,
		strings.TrimSpace(parts[1]),
		strings.TrimSpace(parts[2]),
		strings.TrimSpace(parts[3]),
	), nil
}

var _ domain.CustomerRepository = (*CustomerStore)(nil)
