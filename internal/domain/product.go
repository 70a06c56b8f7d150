package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity: максимальное количество одного напитка в позиции корзины.
const MaxQuantity = 20

// Product: неизменяемая запись каталога напитков.
type Product struct {
	ID       int
	Name     string
	Category string
	// Цена за единицу с точностью до 2 знаков.
	Price    decimal.Decimal
	Calories int
}

// Level описывает степень льда или сладости.
type Level string

const (
	LevelRegular Level = "Regular"
	LevelLess    Level = "Less"
	LevelNone    Level = "None"
)

// LevelFromChoice переводит пункт меню 1/2/3 в уровень; всё остальное даёт Regular.
func LevelFromChoice(choice int) Level {
	switch choice {
	case 2:
		return LevelLess
	case 3:
		return LevelNone
	default:
		return LevelRegular
	}
}

// Valid сообщает, является ли значение одним из поддерживаемых уровней.
func (l Level) Valid() bool {
	switch l {
	case LevelRegular, LevelLess, LevelNone:
		return true
	default:
		return false
	}
}

// LineItem описывает позицию корзины: копию товара и выбор клиента.
type LineItem struct {
	// ID позиции нужен, чтобы отличать одинаковые напитки в одной корзине.
	ID        uuid.UUID
	Product   Product
	Ice       Level
	Sweetness Level
	Quantity  int
}

// NewLineItem создаёт позицию, проверяя количество и уровни кастомизации.
func NewLineItem(product Product, quantity int, ice, sweetness Level) (LineItem, error) {
	if quantity < 1 || quantity > MaxQuantity {
		return LineItem{}, ErrQuantityInvalid
	}
	if !ice.Valid() {
		ice = LevelRegular
	}
	if !sweetness.Valid() {
		sweetness = LevelRegular
	}
	return LineItem{
		ID:        uuid.New(),
		Product:   product,
		Ice:       ice,
		Sweetness: sweetness,
		Quantity:  quantity,
	}, nil
}

// LineTotal возвращает цену позиции: price × quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Describe формирует описание позиции в том виде, в каком оно попадает в журнал заказов.
func (i LineItem) Describe() string {
	return fmt.Sprintf("%s (%d) - %s ice, %s sweet - RM %s",
		i.Product.Name, i.Quantity, i.Ice, i.Sweetness, i.LineTotal().StringFixed(2))
}
