package ledger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/storage/file"
	"github.com/vladislavdragonenkov/pos/internal/storage/memory"
)

// flakyStore падает failures раз, затем пишет в память.
type flakyStore struct {
	*memory.LedgerStore
	failures int
	calls    int
	err      error
}

func (f *flakyStore) Append(ctx context.Context, record domain.OrderRecord) error {
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return f.err
		}
		return errors.New("resource temporarily unavailable")
	}
	return f.LedgerStore.Append(ctx, record)
}

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
		BackoffFactor: 2,
	}
}

func sampleRecord(id int) domain.OrderRecord {
	return domain.NewOrderRecord(7, id, nil, decimal.RequireFromString("5.00"), time.Now())
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Positive(t, cfg.InitialDelay)
	assert.Positive(t, cfg.MaxDelay)
	assert.Greater(t, cfg.BackoffFactor, 1.0)
	assert.Positive(t, cfg.BreakerThreshold)
}

func TestRetryingStore_RetryThenSuccess(t *testing.T) {
	inner := &flakyStore{LedgerStore: memory.NewLedgerStore(), failures: 2}
	store := NewRetryingStore(inner, fastRetry(), quietLogger())

	require.NoError(t, store.Append(context.Background(), sampleRecord(1001)))
	assert.Equal(t, 3, inner.calls)
	require.Len(t, inner.Records(), 1)
}

func TestRetryingStore_GivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flakyStore{LedgerStore: memory.NewLedgerStore(), failures: 10}
	store := NewRetryingStore(inner, fastRetry(), quietLogger())

	err := store.Append(context.Background(), sampleRecord(1001))
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls)
	assert.Empty(t, inner.Records())
}

func TestRetryingStore_DoesNotRetryCancellation(t *testing.T) {
	inner := &flakyStore{LedgerStore: memory.NewLedgerStore(), failures: 10, err: context.Canceled}
	store := NewRetryingStore(inner, fastRetry(), quietLogger())

	err := store.Append(context.Background(), sampleRecord(1001))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryingStore_CancelledDuringBackoff(t *testing.T) {
	inner := &flakyStore{LedgerStore: memory.NewLedgerStore(), failures: 10}
	cfg := fastRetry()
	cfg.InitialDelay = time.Hour
	cfg.MaxDelay = time.Hour
	store := NewRetryingStore(inner, cfg, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Append(ctx, sampleRecord(1001))
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

// closeFailingStore сохраняет запись и сообщает об ошибке Close, как файл после записи.
type closeFailingStore struct {
	*memory.LedgerStore
	calls int
}

func (c *closeFailingStore) Append(ctx context.Context, record domain.OrderRecord) error {
	c.calls++
	if err := c.LedgerStore.Append(ctx, record); err != nil {
		return err
	}
	if c.calls == 1 {
		return fmt.Errorf("%w: %w: close order_history.txt: %w",
			domain.ErrPersistenceUnavailable, domain.ErrLedgerWriteIncomplete, errors.New("input/output error"))
	}
	return nil
}

func TestRetryingStore_IncompleteWriteIsNotRepeated(t *testing.T) {
	inner := &closeFailingStore{LedgerStore: memory.NewLedgerStore()}
	store := NewRetryingStore(inner, fastRetry(), quietLogger())

	err := store.Append(context.Background(), sampleRecord(1001))
	require.Error(t, err)
	assert.True(t, domain.IsPersistenceUnavailable(err))
	assert.ErrorIs(t, err, domain.ErrLedgerWriteIncomplete)
	assert.Equal(t, 1, inner.calls)
	assert.Len(t, inner.Records(), 1, "order must be stored once")
}

func TestRetryingStore_BreakerOpensAndShortCircuits(t *testing.T) {
	inner := &flakyStore{LedgerStore: memory.NewLedgerStore(), failures: 100}
	cfg := fastRetry()
	cfg.MaxAttempts = 1
	cfg.BreakerThreshold = 2
	cfg.BreakerReset = time.Hour
	store := NewRetryingStore(inner, cfg, quietLogger())
	ctx := context.Background()

	require.Error(t, store.Append(ctx, sampleRecord(1001)))
	require.Error(t, store.Append(ctx, sampleRecord(1002)))
	assert.Equal(t, CircuitOpen, store.breaker.State())

	err := store.Append(ctx, sampleRecord(1003))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.True(t, domain.IsPersistenceUnavailable(err))
	assert.Equal(t, 2, inner.calls, "open breaker must not touch the store")
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute, quietLogger())
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return at }

	require.Error(t, cb.Execute("append", func() error { return errors.New("boom") }))
	assert.Equal(t, CircuitOpen, cb.State())

	assert.ErrorIs(t, cb.Execute("append", func() error { return nil }), ErrCircuitOpen)

	at = at.Add(2 * time.Minute)
	require.NoError(t, cb.Execute("append", func() error { return nil }))
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(5, time.Minute, quietLogger())
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return at }

	for i := 0; i < 5; i++ {
		_ = cb.Execute("append", func() error { return errors.New("boom") })
	}
	require.Equal(t, CircuitOpen, cb.State())

	at = at.Add(2 * time.Minute)
	require.Error(t, cb.Execute("append", func() error { return errors.New("still down") }))
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestLedger_RetryingFileStoreKeepsPersistenceSemantics(t *testing.T) {
	store := NewRetryingStore(file.NewLedger(filepath.Join(t.TempDir(), "nope", "order_history.txt")), fastRetry(), quietLogger())
	l := New(store, fixedClock(), quietLogger(), nil)

	_, err := l.Record(context.Background(), 7, sampleItems(t), decimal.RequireFromString("10.00"), 1001)
	assert.ErrorIs(t, err, domain.ErrPersistenceUnavailable)
	assert.Len(t, l.History(7), 1)
}
