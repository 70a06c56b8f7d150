package domain

// GuestID: идентификатор гостевого клиента.
const GuestID = 0

// Customer описывает клиента магазина. Корзина принадлежит ровно одному клиенту.
type Customer struct {
	ID       int
	Name     string
	Email    string
	Password string
	IsGuest  bool
	Cart     *Cart
}

// NewGuest создаёт гостевого клиента. Его учётные данные никогда не сохраняются.
func NewGuest() *Customer {
	return &Customer{
		ID:      GuestID,
		Name:    "Guest",
		Email:   "guest@system",
		IsGuest: true,
		Cart:    NewCart(),
	}
}

// NewCustomer создаёт зарегистрированного клиента с пустой корзиной.
func NewCustomer(id int, name, email, password string) *Customer {
	return &Customer{
		ID:       id,
		Name:     name,
		Email:    email,
		Password: password,
		Cart:     NewCart(),
	}
}
