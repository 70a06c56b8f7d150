package console

import (
	"context"
	"errors"
	"time"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/session"
	"github.com/vladislavdragonenkov/pos/internal/version"
)

const accountRule = "+--------------------------------------+"

func (c *Console) account(ctx context.Context) error {
	c.println("+=============== ACCOUNT ===============+")
	c.println("| 1. Login                             |")
	c.println("| 2. Register                          |")
	if c.svc.Session.Authenticated() {
		c.println("| 3. Logout                            |")
	}
	c.println("| 0. Back                              |")
	c.println(accountRule)

	choice, err := c.readChoice(ctx, "| Enter choice: ")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return c.login(ctx)
	case 2:
		return c.register(ctx)
	case 3:
		if c.svc.Session.Authenticated() {
			c.svc.Session.Logout()
			c.println("| Logged out. Continuing as Guest.     |")
		}
	}
	return nil
}

func (c *Console) login(ctx context.Context) error {
	email, err := c.readLine(ctx, "| Email: ")
	if err != nil {
		return err
	}
	password, err := c.readLine(ctx, "| Password: ")
	if err != nil {
		return err
	}
	c.println(accountRule)

	customer, err := c.svc.Session.Login(email, password)
	if err != nil {
		c.printf("| %s\n", message(err))
		return nil
	}
	c.printf("| Login successful! Welcome %s!\n", customer.Name)
	return nil
}

// register повторно спрашивает только то поле, которое не прошло проверку.
func (c *Console) register(ctx context.Context) error {
	if c.svc.Session.Count() >= session.MaxCustomers {
		c.printf("| %s\n", message(domain.ErrCustomerLimit))
		return nil
	}

	name, err := c.readLine(ctx, "| Name: ")
	if err != nil {
		return err
	}
	email, err := c.readLine(ctx, "| Email (must end with @gmail.com etc): ")
	if err != nil {
		return err
	}
	password, err := c.readLine(ctx, "| Password (6-10 characters): ")
	if err != nil {
		return err
	}

	for {
		customer, regErr := c.svc.Session.Register(name, email, password)
		if regErr == nil {
			c.println("| Registration successful!           |")
			c.printf("| Customer ID: %d\n", customer.ID)
			c.println(accountRule)
			return nil
		}
		c.printf("| %s\n", message(regErr))

		switch {
		case errors.Is(regErr, domain.ErrNameInvalid):
			name, err = c.readLine(ctx, "| Name: ")
		case errors.Is(regErr, domain.ErrEmailInvalid), errors.Is(regErr, domain.ErrEmailTaken):
			email, err = c.readLine(ctx, "| Email (must end with @gmail.com etc): ")
		case errors.Is(regErr, domain.ErrPasswordInvalid):
			password, err = c.readLine(ctx, "| Password (6-10 characters): ")
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) orderHistory() {
	current := c.svc.Session.Current()
	c.println("+=========== ORDER HISTORY ===========+")

	history := c.svc.History.History(current.ID)
	if len(history) == 0 {
		c.println("+-----------------------------------+")
		c.println("| No order history found!           |")
		c.println("+-----------------------------------+")
		return
	}
	for _, record := range history {
		c.println("+-----------------------------------+")
		c.printf("| Order #%d\n", record.OrderID)
		c.printf("| Date: %s\n", record.PlacedAt.Local().Format(time.ANSIC))
		c.printf("| Items: %d\n", record.ItemCount)
		c.printf("| Total: RM %s\n", record.Total.StringFixed(2))
		c.println("+-----------------------------------+")
	}
}

func (c *Console) profile(ctx context.Context) error {
	current := c.svc.Session.Current()
	if current.IsGuest {
		c.println("+-------------------------------------+")
		c.printf("| %-36s|\n", message(domain.ErrGuestProfile))
		c.println("+-------------------------------------+")
		return nil
	}

	c.println("+============= YOUR PROFILE =============+")
	c.printf("| Customer ID: %d\n", current.ID)
	c.printf("| Name: %s\n", current.Name)
	c.printf("| Email: %s\n", current.Email)
	c.printf("| Member since: %d\n", version.SystemID)
	c.println("+-------------------------------------+")
	c.println("| 1. Change Name                     |")
	c.println("| 2. Change Password                 |")
	c.println("| 0. Back                            |")
	c.println("+-------------------------------------+")

	choice, err := c.readChoice(ctx, "| Enter choice: ")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		name, err := c.readLine(ctx, "| New name: ")
		if err != nil {
			return err
		}
		if err := c.svc.Session.UpdateName(name); err != nil {
			c.printf("| %s\n", message(err))
			return nil
		}
		c.println("| Name updated!              |")
	case 2:
		return c.changePassword(ctx)
	}
	return nil
}

func (c *Console) changePassword(ctx context.Context) error {
	current, err := c.readLine(ctx, "| Current password: ")
	if err != nil {
		return err
	}
	if current != c.svc.Session.Current().Password {
		c.println("| Incorrect current password!|")
		return nil
	}
	for {
		next, err := c.readLine(ctx, "| New password (6-10 chars): ")
		if err != nil {
			return err
		}
		confirm, err := c.readLine(ctx, "| Confirm new password: ")
		if err != nil {
			return err
		}
		if next != confirm {
			c.println("| Passwords don't match!")
			continue
		}
		if err := c.svc.Session.UpdatePassword(current, next); err != nil {
			c.printf("| %s\n", message(err))
			if errors.Is(err, domain.ErrPasswordInvalid) {
				continue
			}
			return nil
		}
		c.println("| Password updated!          |")
		return nil
	}
}

func (c *Console) systemInfo() {
	c.println("+============== SYSTEM INFO ==============+")
	c.printf("Mixue Ordering System (ID: %d)\n", version.SystemID)
	v, commit, date := version.Info()
	c.printf("Version: %s (commit %s, built %s)\n", v, commit, date)
	c.printf("Drinks on menu: %d\n", c.svc.Catalog.Len())
	c.printf("Registered users: %d\n", c.svc.Session.Count()-1)

	if c.svc.Health == nil {
		return
	}
	resp := c.svc.Health.Evaluate()
	c.printf("Health: %s (uptime %s)\n", resp.Status, resp.Uptime.Round(time.Second))
	for _, check := range resp.Checks {
		if check.Message != "" {
			c.printf("  - %-10s %s: %s\n", check.Name, check.Status, check.Message)
			continue
		}
		c.printf("  - %-10s %s\n", check.Name, check.Status)
	}
}
