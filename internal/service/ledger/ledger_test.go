package ledger

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/storage/file"
	"github.com/vladislavdragonenkov/pos/internal/storage/memory"
)

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "ledger")
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Minute)
		return at
	}
}

func sampleItems(t *testing.T) []domain.LineItem {
	t.Helper()
	item, err := domain.NewLineItem(domain.Product{ID: 1, Name: "Lemon Tea", Price: decimal.RequireFromString("5.00")}, 2, domain.LevelRegular, domain.LevelLess)
	require.NoError(t, err)
	return []domain.LineItem{item}
}

type brokenStore struct {
	*memory.LedgerStore
}

func (brokenStore) Append(context.Context, domain.OrderRecord) error {
	return errors.New("disk full")
}

func TestLedger_RecordPrependsHistory(t *testing.T) {
	store := memory.NewLedgerStore()
	l := New(store, fixedClock(), quietLogger(), nil)
	ctx := context.Background()

	first, err := l.Record(ctx, 7, sampleItems(t), decimal.RequireFromString("10.00"), 1001)
	require.NoError(t, err)
	assert.Equal(t, 1001, first.OrderID)
	assert.Equal(t, 2, first.ItemCount)

	history := l.History(7)
	require.Len(t, history, 1)
	assert.Equal(t, 1001, history[0].OrderID)

	_, err = l.Record(ctx, 7, sampleItems(t), decimal.RequireFromString("10.00"), 1002)
	require.NoError(t, err)

	history = l.History(7)
	require.Len(t, history, 2)
	assert.Equal(t, 1002, history[0].OrderID, "most recent first")
	assert.Equal(t, 1001, history[1].OrderID)

	records := store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, 1001, records[0].OrderID, "durable ledger is append-only")
}

func TestLedger_HistoryIsPerCustomer(t *testing.T) {
	l := New(memory.NewLedgerStore(), fixedClock(), quietLogger(), nil)
	_, err := l.Record(context.Background(), domain.GuestID, sampleItems(t), decimal.RequireFromString("10.00"), 1001)
	require.NoError(t, err)

	assert.Len(t, l.History(domain.GuestID), 1)
	assert.Empty(t, l.History(7))
}

func TestLedger_GuestIsWrittenToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_history.txt")
	store := file.NewLedger(path)
	l := New(store, fixedClock(), quietLogger(), nil)

	_, err := l.Record(context.Background(), domain.GuestID, sampleItems(t), decimal.RequireFromString("10.00"), 1001)
	require.NoError(t, err)

	ids, _, err := store.ScanOrderIDs(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ids, 1001)
}

func TestLedger_PersistenceUnavailableKeepsMemory(t *testing.T) {
	l := New(brokenStore{memory.NewLedgerStore()}, fixedClock(), quietLogger(), nil)

	record, err := l.Record(context.Background(), 7, sampleItems(t), decimal.RequireFromString("10.00"), 1001)
	require.Error(t, err)
	assert.True(t, domain.IsPersistenceUnavailable(err))
	assert.Equal(t, 1001, record.OrderID)

	history := l.History(7)
	require.Len(t, history, 1, "in-memory history is not rolled back")
}

func TestLedger_FileUnavailable(t *testing.T) {
	store := file.NewLedger(filepath.Join(t.TempDir(), "nope", "order_history.txt"))
	l := New(store, fixedClock(), quietLogger(), nil)

	_, err := l.Record(context.Background(), 7, sampleItems(t), decimal.RequireFromString("10.00"), 1001)
	assert.ErrorIs(t, err, domain.ErrPersistenceUnavailable)
	assert.Len(t, l.History(7), 1)
}

func TestLedger_HistoryReturnsCopy(t *testing.T) {
	l := New(memory.NewLedgerStore(), fixedClock(), quietLogger(), nil)
	_, err := l.Record(context.Background(), 7, sampleItems(t), decimal.RequireFromString("10.00"), 1001)
	require.NoError(t, err)

	history := l.History(7)
	history[0].OrderID = 42

	assert.Equal(t, 1001, l.History(7)[0].OrderID)
}
