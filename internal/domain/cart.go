package domain

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Cart хранит упорядоченный набор позиций одного клиента.
// Позиции добавляются только в конец, удаляться могут из любого места.
type Cart struct {
	mu    sync.Mutex
	items []LineItem
}

// NewCart возвращает пустую корзину.
func NewCart() *Cart {
	return &Cart{}
}

// Add добавляет позицию в конец корзины. Одинаковые позиции не объединяются.
func (c *Cart) Add(item LineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// RemoveAt удаляет позицию по номеру (с 1). Вне диапазона ничего не меняет и возвращает false.
func (c *Cart) RemoveAt(pos int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pos < 1 || pos > len(c.items) {
		return false
	}
	idx := pos - 1
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return true
}

// Clear удаляет все позиции и возвращает их количество.
func (c *Cart) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = nil
	return n
}

// Total пересчитывает сумму Σ(price × quantity); у пустой корзины 0.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Items возвращает копию позиций в порядке добавления.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]LineItem, len(c.items))
	copy(result, c.items)
	return result
}

// Len возвращает число позиций (строк), а не единиц товара.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// ItemCount возвращает сумму количеств по всем позициям.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// UpdateQuantity меняет количество позиции; 0 удаляет её.
func (c *Cart) UpdateQuantity(pos, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pos < 1 || pos > len(c.items) {
		return ErrIndexOutOfRange
	}
	idx := pos - 1
	switch {
	case quantity == 0:
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	case quantity > 0 && quantity <= MaxQuantity:
		c.items[idx].Quantity = quantity
	default:
		return ErrQuantityInvalid
	}
	return nil
}

// Customize меняет уровень льда и сладости позиции. Невалидный уровень не меняет значение.
func (c *Cart) Customize(pos int, ice, sweetness Level) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pos < 1 || pos > len(c.items) {
		return ErrIndexOutOfRange
	}
	item := &c.items[pos-1]
	if ice.Valid() {
		item.Ice = ice
	}
	if sweetness.Valid() {
		item.Sweetness = sweetness
	}
	return nil
}
