package domain

import "errors"

var (
	// ErrEmptyQueue возвращается при Dequeue из пустой очереди заказов.
	ErrEmptyQueue = errors.New("order queue is empty")
	// ErrIDSpaceExhausted: все идентификаторы в диапазоне [1001, 9999] уже заняты в журнале.
	ErrIDSpaceExhausted = errors.New("order id space exhausted")
	// ErrMalformedLedgerLine: строку журнала не удалось разобрать; строка пропускается.
	ErrMalformedLedgerLine = errors.New("malformed ledger line")
	// Позиция корзины вне диапазона.
	ErrIndexOutOfRange = errors.New("cart position out of range")
	// ErrPersistenceUnavailable: журнал недоступен для записи; заказ остаётся только в памяти.
	ErrPersistenceUnavailable = errors.New("ledger persistence unavailable")
	// ErrLedgerWriteIncomplete: байты записи могли попасть в файл, повторять запись нельзя.
	ErrLedgerWriteIncomplete = errors.New("ledger write outcome unknown")
	// Ошибка оформления пустой корзины.
	ErrCartEmpty = errors.New("cart is empty")
	// Ошибка количества вне диапазона [1, MaxQuantity].
	ErrQuantityInvalid = errors.New("quantity must be between 1 and 20")
	// Ошибка поиска напитка в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// Ошибка входа: неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// Ошибка регистрации: email уже занят.
	ErrEmailTaken = errors.New("email is already registered")
	// Ошибка регистрации: email с неподдерживаемым доменом.
	ErrEmailInvalid = errors.New("invalid email format or domain")
	// Ошибка регистрации: пароль должен быть длиной 6-10 символов.
	ErrPasswordInvalid = errors.New("password must be 6-10 characters")
	// Ошибка регистрации: пустое имя или имя с запятой.
	ErrNameInvalid = errors.New("name must be non-empty and must not contain commas")
	// Достигнут лимит зарегистрированных клиентов.
	ErrCustomerLimit = errors.New("customer limit reached")
	// У гостевой сессии нет профиля.
	ErrGuestProfile = errors.New("guest session has no profile")
	// ErrCustomerNotFound возвращается, если клиента нет в хранилище.
	ErrCustomerNotFound = errors.New("customer not found")
)

// IsIDSpaceExhausted проверяет, исчерпан ли диапазон идентификаторов заказов.
func IsIDSpaceExhausted(err error) bool {
	return errors.Is(err, ErrIDSpaceExhausted)
}

// IsPersistenceUnavailable проверяет, что заказ не удалось записать в журнал.
func IsPersistenceUnavailable(err error) bool {
	return errors.Is(err, ErrPersistenceUnavailable)
}
