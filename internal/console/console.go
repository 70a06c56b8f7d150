// Package console реализует текстовый интерфейс кассы.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/catalog"
	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/health"
	"github.com/vladislavdragonenkov/pos/internal/service/cart"
	"github.com/vladislavdragonenkov/pos/internal/service/checkout"
	"github.com/vladislavdragonenkov/pos/internal/service/ledger"
	"github.com/vladislavdragonenkov/pos/internal/session"
)

const (
	rule     = "|----------------------------------------------------------------------------|"
	boxRule  = "+--------------------------------------------------+"
	menuHead = "ID  | Name                    | Category   | Price  | Calories"
	menuRule = "----+-------------------------+------------+--------+----------"
)

// Services перечисляет компоненты, которыми управляет консоль.
type Services struct {
	Catalog  *catalog.Catalog
	Session  *session.Session
	Cart     *cart.Service
	Checkout *checkout.Service
	History  *ledger.Ledger
	Health   *health.Registry
}

// Console ведёт диалог с пользователем поверх построчного ввода.
type Console struct {
	svc    Services
	in     io.Reader
	out    io.Writer
	lines  *lineReader
	logger *log.Entry
}

// New создаёт консоль.
func New(svc Services, in io.Reader, out io.Writer, logger *log.Entry) *Console {
	if logger == nil {
		logger = log.WithField("component", "console")
	}
	return &Console{svc: svc, in: in, out: out, logger: logger}
}

// Run показывает главное меню до выбора «0», конца ввода или отмены ctx.
// Конец ввода считается штатным выходом.
func (c *Console) Run(ctx context.Context) error {
	c.lines = newLineReader(c.in)
	defer c.lines.stop()

	err := c.dashboardLoop(ctx)
	if errors.Is(err, io.EOF) {
		c.logger.Info("input closed, leaving menu")
		return nil
	}
	return err
}

func (c *Console) dashboardLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.dashboard()

		choice, err := c.readChoice(ctx, "\nEnter your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = c.products(ctx)
		case 2:
			err = c.startOrder(ctx)
		case 3:
			err = c.viewCart(ctx)
		case 4:
			err = c.editCart(ctx)
		case 5:
			err = c.payment(ctx)
		case 6:
			err = c.account(ctx)
		case 7:
			c.orderHistory()
		case 8:
			err = c.profile(ctx)
		case 9:
			c.systemInfo()
		case 0:
			c.println("Exiting...")
			c.svc.Session.Logout()
			return nil
		default:
			c.println("Invalid choice!")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) dashboard() {
	current := c.svc.Session.Current()
	c.println(rule)
	c.println("|                            MIXUE ICE CREAM & TEA                           |")
	c.println("|                      Ice Cream & Tea Ordering System                       |")
	c.println(rule)
	c.printf("\n                            Welcome, %s!\n\n", current.Name)
	c.println("|----------------------------- DASHBOARD ------------------------------------|")
	c.println("|  [1] View All Products           | Browse our full range of drinks         |")
	c.println("|  [2] Start New Order             | Begin selecting your favorite drinks    |")
	c.println("|  [3] View Cart                   | See what you've added to your cart      |")
	c.println("|  [4] Edit Cart                   | Change quantities or remove items       |")
	c.println("|  [5] Payment                     | Proceed to checkout and pay             |")
	c.println("|  [6] Login / Register            | Sign in or create a new account         |")
	c.println("|  [7] View Order History          | Review your previous purchases          |")
	if !current.IsGuest {
		c.println("|  [8] View Profile                | Manage your account information         |")
	}
	c.println("|  [9] System Info                 | Version and health of the register      |")
	c.println("|  [0] Exit                        | Close the application                   |")
	c.println(rule)
	c.printf("  Total Drinks: %-3d   |  Registered Users: %-3d\n", c.svc.Catalog.Len(), c.svc.Session.Count()-1)
}

func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	c.printf("%s", prompt)
	line, err := c.lines.next(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) readChoice(ctx context.Context, prompt string) (int, error) {
	line, err := c.readLine(ctx, prompt)
	if err != nil {
		return 0, err
	}
	return parseChoice(line), nil
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// message возвращает короткий текст ошибки для пользователя.
func message(err error) string {
	switch {
	case errors.Is(err, domain.ErrCartEmpty):
		return "Your cart is empty!"
	case errors.Is(err, domain.ErrQuantityInvalid):
		return fmt.Sprintf("Invalid quantity! Max is %d", domain.MaxQuantity)
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return "Invalid selection!"
	case errors.Is(err, domain.ErrIDSpaceExhausted):
		return "Payment failed - could not generate order ID"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid email or password!"
	case errors.Is(err, domain.ErrEmailTaken):
		return "This email is already registered!"
	case errors.Is(err, domain.ErrEmailInvalid):
		return "Invalid email format or domain!"
	case errors.Is(err, domain.ErrPasswordInvalid):
		return "Password must be 6-10 characters!"
	case errors.Is(err, domain.ErrNameInvalid):
		return "Name must not be empty or contain commas!"
	case errors.Is(err, domain.ErrCustomerLimit):
		return "Cannot register more users!"
	case errors.Is(err, domain.ErrGuestProfile):
		return "Guest session - no profile info"
	case errors.Is(err, domain.ErrProductNotFound):
		return "Invalid ID!"
	default:
		return err.Error()
	}
}
