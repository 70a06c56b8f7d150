package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

const (
	cartRule  = "+-----+-------------------------------+------+-----------------------------+"
	cartFrame = "+--------------------------------------------------------------------------+"
	editRule  = "+-----+-------------------------------+----------+------------+"
)

func (c *Console) viewCart(ctx context.Context) error {
	for {
		c.println(cartFrame)
		c.println("|                             YOUR CART                                    |")
		c.println(cartFrame)

		items := c.svc.Cart.Items()
		if len(items) == 0 {
			c.println("| Your cart is currently empty.                                            |")
			c.println(cartFrame)
			return nil
		}

		c.println()
		c.println(cartRule)
		c.println("| No  | Drink Name                    | Qty  | Customization               |")
		c.println(cartRule)
		for i, item := range items {
			c.printf("| %-3d | %-29s | %-4d | Ice: %-7s Sweet: %-7s |\n",
				i+1, item.Product.Name, item.Quantity, item.Ice, item.Sweetness)
		}
		c.println(cartRule)
		c.printf("| %-71s  |\n", "Total Amount: RM "+c.svc.Cart.Total().StringFixed(2))
		c.println(cartFrame)

		c.println()
		c.println("+----------------------+")
		c.println("| 1. Proceed to Payment|")
		c.println("| 2. Edit Cart         |")
		c.println("| 3. Remove Item       |")
		c.println("| 4. Clear Cart        |")
		c.println("| 0. Back              |")
		c.println("+----------------------+")

		choice, err := c.readChoice(ctx, "\nEnter choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			return nil
		case 1:
			return c.payment(ctx)
		case 2:
			if err := c.editCart(ctx); err != nil {
				return err
			}
		case 3:
			pos, err := c.readChoice(ctx, "Enter item number to remove: ")
			if err != nil {
				return err
			}
			if c.svc.Cart.RemoveAt(pos) {
				c.println("Item removed from cart!")
			} else {
				c.println("Invalid selection!")
			}
		case 4:
			c.svc.Cart.Clear()
			c.println("Cart cleared!")
		default:
			c.println("Invalid choice.")
		}
	}
}

func (c *Console) editCart(ctx context.Context) error {
	for {
		c.println("+=================================================+")
		c.println("|                  EDIT YOUR CART                 |")
		c.println("+=================================================+")

		items := c.svc.Cart.Items()
		if len(items) == 0 {
			c.println("| Your cart is empty!                             |")
			c.println("+=================================================+")
			return nil
		}

		c.println("\n" + editRule)
		c.println("| No. | Item                          | Quantity | Total (RM) |")
		c.println(editRule)
		for i, item := range items {
			c.printf("| %-3d | %-29s | %-8d | %-10s |\n", i+1, item.Product.Name, item.Quantity, item.LineTotal().StringFixed(2))
		}
		c.println(editRule)

		pos, err := c.readChoice(ctx, "\nEnter item number to edit (0 to return): ")
		if err != nil {
			return err
		}
		if pos == 0 {
			return nil
		}
		if pos < 1 || pos > len(items) {
			c.println("Invalid selection!")
			continue
		}
		if err := c.editItem(ctx, pos, items[pos-1]); err != nil {
			return err
		}
	}
}

func (c *Console) editItem(ctx context.Context, pos int, item domain.LineItem) error {
	c.println("+=====================================+")
	c.printf("| Editing: %s\n", item.Product.Name)
	c.println("+=====================================+")
	c.println("1. Change quantity")
	c.println("2. Change customization")
	c.println("3. Remove item")
	c.println("0. Back to cart")

	choice, err := c.readChoice(ctx, "Enter your choice: ")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		qty, err := c.readChoice(ctx, fmt.Sprintf("Enter new quantity (0-%d): ", domain.MaxQuantity))
		if err != nil {
			return err
		}
		if err := c.svc.Cart.UpdateQuantity(pos, qty); err != nil {
			c.println(message(err))
			return nil
		}
		if qty == 0 {
			c.println("Item removed!")
		} else {
			c.println("Quantity updated!")
		}
	case 2:
		return c.customize(ctx, pos)
	case 3:
		c.svc.Cart.RemoveAt(pos)
		c.println("Item removed!")
	case 0:
	default:
		c.println("Invalid choice!")
	}
	return nil
}

func (c *Console) customize(ctx context.Context, pos int) error {
	for {
		item := c.svc.Cart.Items()[pos-1]
		c.println("+==============================+")
		c.println("| Customization Options        |")
		c.println("+==============================+")
		c.printf("Current: %s ice, %s sweet\n\n", item.Ice, item.Sweetness)
		c.println("1. Change ice level")
		c.println("2. Change sweetness")
		c.println("0. Finish customization")

		choice, err := c.readChoice(ctx, "Enter choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			level, ok, err := c.readStrictLevel(ctx, "\n1. Regular Ice\n2. Less Ice\n3. No Ice")
			if err != nil {
				return err
			}
			if ok {
				if err := c.svc.Cart.Customize(pos, level, ""); err != nil {
					c.println(message(err))
				}
			}
		case 2:
			level, ok, err := c.readStrictLevel(ctx, "\n1. Regular Sweet\n2. Less Sweet\n3. No Sugar")
			if err != nil {
				return err
			}
			if ok {
				if err := c.svc.Cart.Customize(pos, "", level); err != nil {
					c.println(message(err))
				}
			}
		case 0:
			c.println("Customization updated!")
			return nil
		}
	}
}

func (c *Console) payment(ctx context.Context) error {
	for {
		c.println(boxRule)
		c.println("|                    PAYMENT                       |")
		c.println(boxRule)

		items := c.svc.Cart.Items()
		if len(items) == 0 {
			c.println("| Your cart is empty!                              |")
			c.println(boxRule)
			return nil
		}
		total := c.svc.Cart.Total()

		c.println("\n" + boxRule)
		c.println("|                  CART ITEMS                      |")
		c.println(boxRule)
		for i, item := range items {
			c.printf("| %d. %s (%dx) - RM %s\n", i+1, item.Product.Name, item.Quantity, item.LineTotal().StringFixed(2))
		}
		c.println(boxRule)
		c.printf("| SUBTOTAL: RM %s\n", total.StringFixed(2))
		c.printf("| FINAL TOTAL: RM %s\n", total.StringFixed(2))
		c.println(boxRule)
		c.println()

		c.println("+-------------------- OPTIONS ---------------------+")
		c.println("| 1. Confirm Payment                               |")
		c.println("| 2. Edit Cart                                     |")
		c.println("| 0. Cancel                                        |")
		c.println(boxRule)

		choice, err := c.readChoice(ctx, "Enter choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			return c.confirmPayment(ctx)
		case 2:
			if err := c.editCart(ctx); err != nil {
				return err
			}
		case 0:
			return nil
		default:
			c.println("Invalid choice!")
			return nil
		}
	}
}

func (c *Console) confirmPayment(ctx context.Context) error {
	receipt, err := c.svc.Checkout.Checkout(ctx)
	if err != nil && !domain.IsPersistenceUnavailable(err) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if domain.IsIDSpaceExhausted(err) || errors.Is(err, domain.ErrCartEmpty) {
			c.println(message(err))
			return nil
		}
		c.logger.WithError(err).Error("checkout failed")
		c.printf("Payment failed: %v\n", err)
		return nil
	}

	c.println("\n\n+=================================================+")
	c.println("|               ORDER COMPLETE                    |")
	c.println("+=================================================+")
	c.printf("| Order ID: #%d\n", receipt.OrderID)
	c.printf("| Total   : RM %s\n", receipt.Total.StringFixed(2))
	c.println("| Items   :")
	for _, item := range receipt.Items {
		c.printf("| - %s (%dx)\n", item.Product.Name, item.Quantity)
	}
	c.println(boxRule)
	if err != nil {
		c.println("Warning: unable to write order to order history file; it is kept for this session only.")
	}
	return nil
}
