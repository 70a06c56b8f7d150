package session

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

const (
	// MaxCustomers задаёт вместимость справочника клиентов, включая гостя.
	MaxCustomers = 100
	// База для id новых клиентов.
	customerIDBase    = 1000
	minPasswordLength = 6
	maxPasswordLength = 10
)

var allowedEmailDomains = map[string]struct{}{
	"@gmail.com":   {},
	"@yahoo.com":   {},
	"@outlook.com": {},
	"@email.com":   {},
}

// Session хранит справочник клиентов и текущего клиента.
// Если никто не вошёл, текущим и владельцем корзины считается гость.
type Session struct {
	mu        sync.Mutex
	repo      domain.CustomerRepository
	guest     *domain.Customer
	customers []*domain.Customer
	current   *domain.Customer
	logger    *log.Entry
}

// New загружает клиентов из репозитория и создаёт гостевую сессию.
func New(repo domain.CustomerRepository, logger *log.Entry) (*Session, error) {
	if logger == nil {
		logger = log.WithField("component", "session")
	}
	loaded, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	if len(loaded) > MaxCustomers-1 {
		logger.WithField("loaded", len(loaded)).Warn("customer file exceeds capacity, extra entries ignored")
		loaded = loaded[:MaxCustomers-1]
	}
	logger.WithField("customers", len(loaded)).Info("customers loaded")
	return &Session{
		repo:      repo,
		guest:     domain.NewGuest(),
		customers: loaded,
		logger:    logger,
	}, nil
}

// Current возвращает текущего клиента (гостя, если вход не выполнен).
func (s *Session) Current() *domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

// CartOwner определяет владельца корзины заново при каждом вызове.
func (s *Session) CartOwner() *domain.Customer {
	return s.Current()
}

// Guest возвращает гостевого клиента.
func (s *Session) Guest() *domain.Customer {
	return s.guest
}

// Authenticated сообщает, выполнен ли вход.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Login выполняет вход по email и паролю.
// Содержимое гостевой корзины не переносится: оно остаётся у гостя.
func (s *Session) Login(email, password string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if c.Email == email && c.Password == password {
			s.switchToLocked(c)
			return c, nil
		}
	}
	s.logger.WithField("email", email).Info("login failed")
	return nil, domain.ErrInvalidCredentials
}

// Register создаёт клиента, сохраняет справочник и выполняет вход.
func (s *Session) Register(name, email, password string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.customers)+1 >= MaxCustomers {
		return nil, domain.ErrCustomerLimit
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	for _, c := range s.customers {
		if strings.EqualFold(c.Email, email) {
			return nil, domain.ErrEmailTaken
		}
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	customer := domain.NewCustomer(s.nextIDLocked(), name, email, password)
	s.customers = append(s.customers, customer)
	if err := s.saveLocked(); err != nil {
		s.customers = s.customers[:len(s.customers)-1]
		return nil, err
	}
	s.switchToLocked(customer)
	s.logger.WithField("customer_id", customer.ID).Info("customer registered")
	return customer, nil
}

// Logout возвращает сессию к гостю.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.logger.WithField("customer_id", s.current.ID).Info("customer logged out")
	}
	s.current = nil
}

// UpdateName меняет имя текущего клиента.
func (s *Session) UpdateName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.ErrGuestProfile
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	prev := s.current.Name
	s.current.Name = name
	if err := s.saveLocked(); err != nil {
		s.current.Name = prev
		return err
	}
	return nil
}

// UpdatePassword меняет пароль текущего клиента после проверки текущего.
func (s *Session) UpdatePassword(current, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.ErrGuestProfile
	}
	if current != s.current.Password {
		return domain.ErrInvalidCredentials
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	prev := s.current.Password
	s.current.Password = password
	if err := s.saveLocked(); err != nil {
		s.current.Password = prev
		return err
	}
	return nil
}

// Customer ищет клиента по id; id 0 означает гостя.
func (s *Session) Customer(id int) (*domain.Customer, error) {
	if id == domain.GuestID {
		return s.guest, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

// Count возвращает число клиентов в справочнике, включая гостя.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers) + 1
}

// Save сохраняет справочник клиентов.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Session) currentLocked() *domain.Customer {
	if s.current == nil {
		return s.guest
	}
	return s.current
}

func (s *Session) switchToLocked(c *domain.Customer) {
	if s.current == nil && s.guest.Cart.Len() > 0 {
		// Поведение сохранено намеренно: позиции гостя не переносятся в аккаунт.
		s.logger.WithFields(log.Fields{
			"customer_id": c.ID,
			"guest_items": s.guest.Cart.Len(),
		}).Info("guest cart items stay with guest identity after login")
	}
	s.current = c
	s.logger.WithField("customer_id", c.ID).Info("customer logged in")
}

// nextIDLocked повторяет схему 1000 + count + 1, пропуская занятые id.
func (s *Session) nextIDLocked() int {
	id := customerIDBase + len(s.customers) + 1 + 1
	for {
		taken := false
		for _, c := range s.customers {
			if c.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		id++
	}
}

func (s *Session) saveLocked() error {
	if err := s.repo.Save(s.customers); err != nil {
		s.logger.WithError(err).Error("error saving customer data")
		return fmt.Errorf("save customers: %w", err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" || strings.Contains(name, ",") {
		return domain.ErrNameInvalid
	}
	return nil
}

func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || strings.ContainsAny(email, ", ") {
		return domain.ErrEmailInvalid
	}
	if _, ok := allowedEmailDomains[email[at:]]; !ok {
		return domain.ErrEmailInvalid
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return domain.ErrPasswordInvalid
	}
	if strings.ContainsAny(password, "\n\r") {
		return domain.ErrPasswordInvalid
	}
	// Файл клиентов хранит поля без краевых пробелов.
	if strings.TrimSpace(password) != password {
		return domain.ErrPasswordInvalid
	}
	return nil
}

var _ domain.CartOwnerResolver = (*Session)(nil)
