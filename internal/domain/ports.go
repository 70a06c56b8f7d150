package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerStore: долговременный журнал заказов (append-only).
type LedgerStore interface {
	// Append дописывает запись в конец журнала.
	Append(ctx context.Context, record OrderRecord) error
	// ScanOrderIDs читает журнал и возвращает множество уже выданных id.
	// Отсутствующий журнал трактуется как пустой; нераспознанные строки пропускаются
	// и учитываются в malformed.
	ScanOrderIDs(ctx context.Context) (ids map[int]struct{}, malformed int, err error)
}

// CustomerRepository описывает хранилище зарегистрированных клиентов.
type CustomerRepository interface {
	// Load возвращает всех сохранённых клиентов (без гостя).
	Load() ([]*Customer, error)
	// Save перезаписывает список клиентов. Гость не сохраняется.
	Save(customers []*Customer) error
}

// CartOwnerResolver определяет владельца корзины для текущей операции:
// авторизованного клиента или гостя.
type CartOwnerResolver interface {
	CartOwner() *Customer
}

// PaymentService подтверждает оплату перед выдачей id заказа.
type PaymentService interface {
	Confirm(ctx context.Context, total decimal.Decimal) error
}
