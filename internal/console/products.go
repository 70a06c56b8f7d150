package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/pos/internal/catalog"
	"github.com/vladislavdragonenkov/pos/internal/domain"
)

func (c *Console) printProductRow(pos int, p domain.Product) {
	c.printf("%-4d| %-24s| %-11s| RM%-5s| %-9d\n", pos, p.Name, p.Category, p.Price.StringFixed(2), p.Calories)
}

func (c *Console) printMenu(title string) {
	c.println(title)
	c.println(menuHead)
	c.println(menuRule)
	for i, p := range c.svc.Catalog.All() {
		c.printProductRow(i+1, p)
	}
}

func (c *Console) printEntries(entries []catalog.Entry) {
	c.println(menuHead)
	c.println(menuRule)
	for _, e := range entries {
		c.printProductRow(e.Pos, e.Product)
	}
}

func (c *Console) products(ctx context.Context) error {
	for {
		c.printMenu("================ MIXUE PRODUCT MENU ================")
		c.println("\n================== OPTIONS ==================")
		c.println("1. Sort by Price")
		c.println("2. Sort by Calories")
		c.println("3. Filter by Category")
		c.println("4. Search by Name")
		c.println("5. Find by Product ID")
		c.println("0. Back to Dashboard")
		c.println("=============================================")

		choice, err := c.readChoice(ctx, "Enter your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			c.svc.Catalog.SortBy(catalog.SortByPrice)
			c.println("Sort completed!")
		case 2:
			c.svc.Catalog.SortBy(catalog.SortByCalories)
			c.println("Sort completed!")
		case 3:
			if err := c.filterByCategory(ctx); err != nil {
				return err
			}
		case 4:
			query, err := c.readLine(ctx, "Enter product name to search: ")
			if err != nil {
				return err
			}
			found := c.svc.Catalog.SearchByName(query)
			c.println("\nSearch Results:")
			c.printEntries(found)
			if len(found) == 0 {
				c.println("No matching products found.")
			}
		case 5:
			id, err := c.readChoice(ctx, "Enter product ID: ")
			if err != nil {
				return err
			}
			p, err := c.svc.Catalog.FindByID(id)
			if err != nil {
				c.println("No product with that ID.")
				continue
			}
			c.printf("%s (%s)   Price: RM %s   Calories: %d\n", p.Name, p.Category, p.Price.StringFixed(2), p.Calories)
		case 0:
			return nil
		default:
			c.println("Invalid choice!")
		}
	}
}

func (c *Console) filterByCategory(ctx context.Context) error {
	categories := c.svc.Catalog.Categories()
	c.println("Available categories:")
	for i, name := range categories {
		c.printf("%d. %s\n", i+1, name)
	}
	choice, err := c.readChoice(ctx, fmt.Sprintf("Select category (1-%d): ", len(categories)))
	if err != nil {
		return err
	}
	if choice < 1 || choice > len(categories) {
		c.println("Invalid category choice!")
		return nil
	}
	c.printf("========== FILTER: %s ==========\n", categories[choice-1])
	c.printEntries(c.svc.Catalog.FilterByCategory(categories[choice-1]))
	return nil
}

func (c *Console) startOrder(ctx context.Context) error {
	for {
		c.printMenu("========== MIXUE DRINK MENU ==========")
		pos, err := c.readChoice(ctx, fmt.Sprintf("\nEnter Drink ID to order (1-%d): ", c.svc.Catalog.Len()))
		if err != nil {
			return err
		}
		product, err := c.svc.Catalog.At(pos)
		if err != nil {
			c.println("Invalid ID!")
			return nil
		}

		qty, err := c.readChoice(ctx, fmt.Sprintf("\nEnter quantity (1-%d): ", domain.MaxQuantity))
		if err != nil {
			return err
		}
		if qty < 1 || qty > domain.MaxQuantity {
			qty = 1
		}
		ice, err := c.readLevel(ctx, "\nChoose Ice Level:")
		if err != nil {
			return err
		}
		sweet, err := c.readLevel(ctx, "\nChoose Sweetness:")
		if err != nil {
			return err
		}

		if _, err := c.svc.Cart.Add(product, qty, ice, sweet); err != nil {
			c.println(message(err))
			return nil
		}
		c.println("Item added to cart!")

		answer, err := c.readLine(ctx, "\nOrder another item? (y/n): ")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "y":
			continue
		case "n":
			return c.viewCart(ctx)
		default:
			return nil
		}
	}
}

func (c *Console) readLevel(ctx context.Context, title string) (domain.Level, error) {
	c.println(title)
	c.println("1. Regular\n2. Less\n3. None")
	choice, err := c.readChoice(ctx, "Enter choice: ")
	if err != nil {
		return "", err
	}
	return domain.LevelFromChoice(choice), nil
}

// readStrictLevel принимает только 1-3; при другом вводе ok=false и уровень не меняется.
func (c *Console) readStrictLevel(ctx context.Context, options string) (level domain.Level, ok bool, err error) {
	c.println(options)
	choice, err := c.readChoice(ctx, "Enter choice: ")
	if err != nil {
		return "", false, err
	}
	if choice < 1 || choice > 3 {
		return "", false, nil
	}
	return domain.LevelFromChoice(choice), true, nil
}
