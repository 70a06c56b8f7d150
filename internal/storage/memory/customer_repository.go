package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// customerRepositoryInMemory: простая in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items []domain.Customer
}

// NewCustomerRepository возвращает in-memory репозиторий клиентов.
func NewCustomerRepository(seed ...*domain.Customer) domain.CustomerRepository {
	repo := &customerRepositoryInMemory{}
	_ = repo.Save(seed)
	return repo
}

// Load возвращает новые экземпляры клиентов с пустыми корзинами.
func (r *customerRepositoryInMemory) Load() ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Customer, 0, len(r.items))
	for _, c := range r.items {
		result = append(result, domain.NewCustomer(c.ID, c.Name, c.Email, c.Password))
	}
	return result, nil
}

// Save сохраняет снимок учётных данных; гость и корзины не сохраняются.
func (r *customerRepositoryInMemory) Save(customers []*domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		if c == nil || c.IsGuest {
			continue
		}
		items = append(items, domain.Customer{ID: c.ID, Name: c.Name, Email: c.Email, Password: c.Password})
	}
	r.items = items
	return nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
