package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// MockService: конфигурируемая заглушка PaymentService для тестов.
type MockService struct {
	Err error

	Calls     int
	LastTotal decimal.Decimal
}

// NewMockService возвращает mock с успешным сценарием по умолчанию.
func NewMockService() *MockService {
	return &MockService{}
}

// Confirm возвращает заранее настроенный результат и считает вызовы.
func (m *MockService) Confirm(_ context.Context, total decimal.Decimal) error {
	m.Calls++
	m.LastTotal = total
	return m.Err
}

var _ domain.PaymentService = (*MockService)(nil)
