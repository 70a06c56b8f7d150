package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// helper для создания позиции с заданной ценой и количеством.
func makeItem(t *testing.T, name, price string, qty int) domain.LineItem {
	t.Helper()
	item, err := domain.NewLineItem(domain.Product{
		ID:       1,
		Name:     name,
		Category: "Tea",
		Price:    decimal.RequireFromString(price),
		Calories: 120,
	}, qty, domain.LevelRegular, domain.LevelRegular)
	require.NoError(t, err)
	return item
}

func TestCart_Total(t *testing.T) {
	cart := domain.NewCart()
	assert.True(t, cart.Total().Equal(decimal.Zero), "empty cart totals 0")

	cart.Add(makeItem(t, "Lemon Tea", "5.00", 2))
	cart.Add(makeItem(t, "Ice Cream", "3.50", 1))

	assert.Equal(t, "13.50", cart.Total().StringFixed(2))
	assert.Equal(t, 2, cart.Len())
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCart_AddNeverMerges(t *testing.T) {
	cart := domain.NewCart()
	first := makeItem(t, "Lemon Tea", "5.00", 1)
	second := makeItem(t, "Lemon Tea", "5.00", 1)
	cart.Add(first)
	cart.Add(second)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
}

func TestCart_RemoveAt(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem(t, "A", "1.00", 1))
	cart.Add(makeItem(t, "B", "2.00", 1))
	cart.Add(makeItem(t, "C", "3.00", 1))

	require.True(t, cart.RemoveAt(2))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Product.Name)
	assert.Equal(t, "C", items[1].Product.Name)
}

func TestCart_RemoveAtOutOfRangeIsNoop(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem(t, "A", "1.00", 1))
	cart.Add(makeItem(t, "B", "2.00", 1))
	cart.Add(makeItem(t, "C", "3.00", 1))
	before := cart.Items()

	for _, pos := range []int{5, 4, 0, -1} {
		assert.False(t, cart.RemoveAt(pos), "pos %d", pos)
	}
	assert.Equal(t, before, cart.Items())
}

func TestCart_Clear(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem(t, "A", "1.00", 1))
	cart.Add(makeItem(t, "B", "2.00", 1))

	assert.Equal(t, 2, cart.Clear())
	assert.Zero(t, cart.Len())
	assert.True(t, cart.Total().IsZero())
}

func TestCart_ItemsReturnsCopy(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem(t, "A", "1.00", 1))

	items := cart.Items()
	items[0].Quantity = 10

	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem(t, "A", "1.00", 1))
	cart.Add(makeItem(t, "B", "2.00", 1))

	require.NoError(t, cart.UpdateQuantity(1, 4))
	assert.Equal(t, 4, cart.Items()[0].Quantity)

	assert.ErrorIs(t, cart.UpdateQuantity(1, domain.MaxQuantity+1), domain.ErrQuantityInvalid)
	assert.ErrorIs(t, cart.UpdateQuantity(3, 1), domain.ErrIndexOutOfRange)

	require.NoError(t, cart.UpdateQuantity(1, 0))
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].Product.Name)
}

func TestCart_Customize(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem(t, "A", "1.00", 1))

	require.NoError(t, cart.Customize(1, domain.LevelLess, domain.LevelNone))
	item := cart.Items()[0]
	assert.Equal(t, domain.LevelLess, item.Ice)
	assert.Equal(t, domain.LevelNone, item.Sweetness)

	require.NoError(t, cart.Customize(1, domain.Level("Extra"), domain.LevelRegular))
	item = cart.Items()[0]
	assert.Equal(t, domain.LevelLess, item.Ice, "invalid level keeps previous value")
	assert.Equal(t, domain.LevelRegular, item.Sweetness)

	assert.ErrorIs(t, cart.Customize(2, domain.LevelLess, domain.LevelLess), domain.ErrIndexOutOfRange)
}
