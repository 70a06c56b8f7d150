package cart

import (
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

// Service направляет операции с корзиной владельцу, которого resolver
// возвращает в момент вызова: вход или выход между вызовами меняет корзину.
type Service struct {
	owners  domain.CartOwnerResolver
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewService создаёт сервис корзины. metrics может быть nil.
func NewService(owners domain.CartOwnerResolver, logger *log.Entry, m *metrics.OrderMetrics) *Service {
	if logger == nil {
		logger = log.WithField("component", "cart")
	}
	return &Service{owners: owners, logger: logger, metrics: m}
}

// Owner возвращает текущего владельца корзины.
func (s *Service) Owner() *domain.Customer {
	return s.owners.CartOwner()
}

// Add добавляет напиток в корзину текущего владельца.
func (s *Service) Add(product domain.Product, quantity int, ice, sweetness domain.Level) (domain.LineItem, error) {
	item, err := domain.NewLineItem(product, quantity, ice, sweetness)
	if err != nil {
		return domain.LineItem{}, err
	}
	owner := s.Owner()
	owner.Cart.Add(item)

	if s.metrics != nil {
		s.metrics.RecordCartItemAdded()
	}
	s.logger.WithFields(log.Fields{
		"customer_id": owner.ID,
		"product_id":  product.ID,
		"quantity":    quantity,
	}).Debug("item added to cart")
	return item, nil
}

// RemoveAt удаляет позицию по номеру (с 1). Вне диапазона ничего не меняет и возвращает false.
func (s *Service) RemoveAt(pos int) bool {
	owner := s.Owner()
	if !owner.Cart.RemoveAt(pos) {
		s.logger.WithFields(log.Fields{
			"customer_id": owner.ID,
			"position":    pos,
		}).Debug("remove ignored: position out of range")
		return false
	}
	if s.metrics != nil {
		s.metrics.RecordCartItemsRemoved(1)
	}
	return true
}

// Clear очищает корзину текущего владельца и возвращает число удалённых позиций.
func (s *Service) Clear() int {
	n := s.Owner().Cart.Clear()
	if s.metrics != nil {
		s.metrics.RecordCartItemsRemoved(n)
	}
	return n
}

// Total возвращает сумму корзины текущего владельца.
func (s *Service) Total() decimal.Decimal {
	return s.Owner().Cart.Total()
}

// Items возвращает копию позиций корзины текущего владельца.
func (s *Service) Items() []domain.LineItem {
	return s.Owner().Cart.Items()
}

// UpdateQuantity меняет количество позиции; 0 удаляет позицию.
func (s *Service) UpdateQuantity(pos, quantity int) error {
	if err := s.Owner().Cart.UpdateQuantity(pos, quantity); err != nil {
		return err
	}
	if quantity == 0 && s.metrics != nil {
		s.metrics.RecordCartItemsRemoved(1)
	}
	return nil
}

// Customize меняет лёд и сладость позиции.
func (s *Service) Customize(pos int, ice, sweetness domain.Level) error {
	return s.Owner().Cart.Customize(pos, ice, sweetness)
}
