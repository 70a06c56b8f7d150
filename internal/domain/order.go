package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// OrderIDSeed: начальное значение счётчика (не выдаётся).
	OrderIDSeed = 1000
	// MinOrderID и MaxOrderID ограничивают диапазон идентификаторов заказов.
	MinOrderID = 1001
	MaxOrderID = 9999
)

// OrderRecord описывает завершённый заказ. Описания позиций фиксируются в момент оформления
// и не меняются при последующих изменениях каталога.
type OrderRecord struct {
	OrderID    int
	CustomerID int
	PlacedAt   time.Time
	Total      decimal.Decimal
	// Сумма количеств, а не число строк.
	ItemCount int
	Items     []string
}

// NewOrderRecord собирает запись заказа из снимка корзины.
func NewOrderRecord(customerID, orderID int, items []LineItem, total decimal.Decimal, placedAt time.Time) OrderRecord {
	record := OrderRecord{
		OrderID:    orderID,
		CustomerID: customerID,
		PlacedAt:   placedAt,
		Total:      total,
		Items:      make([]string, 0, len(items)),
	}
	for _, item := range items {
		record.ItemCount += item.Quantity
		record.Items = append(record.Items, item.Describe())
	}
	return record
}

// ValidOrderID проверяет, лежит ли id в допустимом диапазоне.
func ValidOrderID(id int) bool {
	return id >= MinOrderID && id <= MaxOrderID
}
