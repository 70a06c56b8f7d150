package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMenu = "1,Lemon Juice,Juice,5.50,90\n2,Ice Cream Cone,Beverage,2.00,150\n"

// orderOneDrink: новый заказ → напиток 1 × 2 → лёд/сладость по умолчанию → оплата → выход.
const orderOneDrink = "2\n1\n2\n1\n1\nn\n1\n1\n0\n"

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mixue.txt"), []byte(testMenu), 0o644))

	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.PaymentSteps = 0
	cfg.PaymentDelay = 0
	return cfg
}

func TestRun_OrderIsPersisted(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := Run(context.Background(), cfg, strings.NewReader(orderOneDrink), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Order ID: #1001")
	assert.Contains(t, out.String(), "Total   : RM 11.00")

	ledger, err := os.ReadFile(cfg.Path(cfg.LedgerFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(ledger), "0|1001|"), "guest order written with customer id 0: %q", ledger)
	assert.Contains(t, string(ledger), "|11.00|2|Lemon Juice (2) - Regular ice, Regular sweet - RM 11.00\n|\n")

	metricsFile, err := os.ReadFile(cfg.Path(cfg.MetricsFile))
	require.NoError(t, err)
	assert.Contains(t, string(metricsFile), "pos_checkout_completed_total 1")
}

func TestRun_RestartDoesNotReuseOrderIDs(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, Run(context.Background(), cfg, strings.NewReader(orderOneDrink), &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, strings.NewReader(orderOneDrink), &out))
	assert.Contains(t, out.String(), "Order ID: #1002")
}

func TestRun_CustomersSavedOnExit(t *testing.T) {
	cfg := testConfig(t)
	input := "6\n2\nBob\nbob@gmail.com\nabcdef\n0\n"

	require.NoError(t, Run(context.Background(), cfg, strings.NewReader(input), &bytes.Buffer{}))

	data, err := os.ReadFile(cfg.Path(cfg.CustomersFile))
	require.NoError(t, err)
	assert.Equal(t, "1002,Bob,bob@gmail.com,abcdef\n", string(data))

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, strings.NewReader("6\n1\nbob@gmail.com\nabcdef\n0\n"), &out))
	assert.Contains(t, out.String(), "Login successful! Welcome Bob!")
}

func TestRun_MemoryDriverWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageDriver = StorageDriverMemory
	cfg.MetricsFile = ""

	require.NoError(t, Run(context.Background(), cfg, strings.NewReader(orderOneDrink), &bytes.Buffer{}))

	_, err := os.Stat(cfg.Path(cfg.LedgerFile))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(cfg.Path(cfg.CustomersFile))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.OrderIDSeed = 42

	err := Run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_CancelledContext(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, cfg, strings.NewReader(orderOneDrink), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
