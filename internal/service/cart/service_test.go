package cart

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

type switchableOwner struct {
	current *domain.Customer
}

func (o *switchableOwner) CartOwner() *domain.Customer { return o.current }

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "cart")
}

func product(id int, name, price string) domain.Product {
	return domain.Product{ID: id, Name: name, Category: "Tea", Price: decimal.RequireFromString(price)}
}

func TestService_AddAndTotal(t *testing.T) {
	owner := &switchableOwner{current: domain.NewGuest()}
	svc := NewService(owner, quietLogger(), nil)

	_, err := svc.Add(product(1, "Latte", "8.50"), 1, domain.LevelRegular, domain.LevelRegular)
	require.NoError(t, err)
	_, err = svc.Add(product(2, "Lemon Tea", "2.50"), 2, domain.LevelLess, domain.LevelNone)
	require.NoError(t, err)

	assert.Equal(t, "13.50", svc.Total().StringFixed(2))
	assert.Len(t, svc.Items(), 2)
}

func TestService_AddInvalidQuantity(t *testing.T) {
	owner := &switchableOwner{current: domain.NewGuest()}
	svc := NewService(owner, quietLogger(), nil)

	_, err := svc.Add(product(1, "Latte", "8.50"), 21, domain.LevelRegular, domain.LevelRegular)
	assert.ErrorIs(t, err, domain.ErrQuantityInvalid)
	assert.Empty(t, svc.Items())
}

func TestService_ResolvesOwnerOnEveryCall(t *testing.T) {
	guest := domain.NewGuest()
	alice := domain.NewCustomer(1002, "Alice", "alice@gmail.com", "secret1")
	owner := &switchableOwner{current: guest}
	svc := NewService(owner, quietLogger(), nil)

	_, err := svc.Add(product(1, "Latte", "8.50"), 1, domain.LevelRegular, domain.LevelRegular)
	require.NoError(t, err)

	owner.current = alice
	assert.Empty(t, svc.Items(), "guest items are not carried over")
	assert.True(t, svc.Total().IsZero())

	_, err = svc.Add(product(2, "Mocha", "9.00"), 1, domain.LevelRegular, domain.LevelRegular)
	require.NoError(t, err)

	assert.Equal(t, 1, guest.Cart.Len())
	assert.Equal(t, 1, alice.Cart.Len())

	owner.current = guest
	assert.Equal(t, "8.50", svc.Total().StringFixed(2))
}

func TestService_RemoveClearEdit(t *testing.T) {
	owner := &switchableOwner{current: domain.NewGuest()}
	reg := prometheus.NewRegistry()
	m := metrics.NewOrderMetrics(reg)
	svc := NewService(owner, quietLogger(), m)

	for i := 1; i <= 3; i++ {
		_, err := svc.Add(product(i, "Tea", "1.00"), 1, domain.LevelRegular, domain.LevelRegular)
		require.NoError(t, err)
	}

	assert.False(t, svc.RemoveAt(7))
	assert.True(t, svc.RemoveAt(2))
	assert.Len(t, svc.Items(), 2)

	require.NoError(t, svc.UpdateQuantity(1, 5))
	assert.Equal(t, "6.00", svc.Total().StringFixed(2))
	assert.ErrorIs(t, svc.UpdateQuantity(9, 1), domain.ErrIndexOutOfRange)
	assert.ErrorIs(t, svc.UpdateQuantity(1, 25), domain.ErrQuantityInvalid)

	require.NoError(t, svc.Customize(1, domain.LevelNone, domain.LevelLess))
	assert.Equal(t, domain.LevelNone, svc.Items()[0].Ice)

	require.NoError(t, svc.UpdateQuantity(2, 0))
	assert.Len(t, svc.Items(), 1)

	assert.Equal(t, 1, svc.Clear())
	assert.Equal(t, 0, svc.Clear())

	assert.Equal(t, 3.0, counterValue(t, reg, "pos_cart_items_added_total"))
	assert.Equal(t, 3.0, counterValue(t, reg, "pos_cart_items_removed_total"))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.NotEmpty(t, mf.GetMetric())
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
