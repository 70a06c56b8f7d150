package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// RetryConfig конфигурация повторов записи в журнал.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// BreakerThreshold: сколько подряд неудачных записей размыкают цепь; 0 отключает.
	BreakerThreshold int
	BreakerReset     time.Duration
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:      3,
		InitialDelay:     50 * time.Millisecond,
		MaxDelay:         time.Second,
		BackoffFactor:    2.0,
		BreakerThreshold: 3,
		BreakerReset:     30 * time.Second,
	}
}

// RetryingStore оборачивает журнал повторами с экспоненциальной задержкой.
// После серии неудач цепь размыкается, и записи сразу получают ErrPersistenceUnavailable,
// чтобы оформление заказа не ждало повторов при недоступном диске.
type RetryingStore struct {
	domain.LedgerStore
	config  RetryConfig
	breaker *CircuitBreaker
	logger  *log.Entry
}

// NewRetryingStore создаёт обёртку над store.
func NewRetryingStore(store domain.LedgerStore, config RetryConfig, logger *log.Entry) *RetryingStore {
	if logger == nil {
		logger = log.WithField("component", "ledger-retry")
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	rs := &RetryingStore{
		LedgerStore: store,
		config:      config,
		logger:      logger,
	}
	if config.BreakerThreshold > 0 {
		rs.breaker = NewCircuitBreaker(config.BreakerThreshold, config.BreakerReset, logger)
	}
	return rs
}

// Append дописывает запись, повторяя попытки при временных ошибках.
func (s *RetryingStore) Append(ctx context.Context, record domain.OrderRecord) error {
	if s.breaker == nil {
		return s.appendWithRetry(ctx, record)
	}
	err := s.breaker.Execute("append", func() error {
		return s.appendWithRetry(ctx, record)
	})
	if errors.Is(err, ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return err
}

func (s *RetryingStore) appendWithRetry(ctx context.Context, record domain.OrderRecord) error {
	var lastErr error
	delay := s.config.InitialDelay

	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		err := s.LedgerStore.Append(ctx, record)
		if err == nil {
			if attempt > 1 {
				s.logger.WithFields(log.Fields{
					"order_id": record.OrderID,
					"attempt":  attempt,
				}).Info("ledger append succeeded after retry")
			}
			return nil
		}
		lastErr = err

		if !shouldRetry(err) {
			s.logger.WithFields(log.Fields{
				"order_id": record.OrderID,
				"attempt":  attempt,
				"error":    err,
			}).Warn("ledger append failed with non-retryable error")
			return err
		}
		if attempt == s.config.MaxAttempts {
			break
		}

		s.logger.WithFields(log.Fields{
			"order_id": record.OrderID,
			"attempt":  attempt,
			"delay":    delay,
			"error":    err,
		}).Warn("ledger append failed, retrying")

		if err := sleep(ctx, delay); err != nil {
			return lastErr
		}
		delay = time.Duration(float64(delay) * s.config.BackoffFactor)
		if delay > s.config.MaxDelay {
			delay = s.config.MaxDelay
		}
	}

	s.logger.WithFields(log.Fields{
		"order_id":     record.OrderID,
		"max_attempts": s.config.MaxAttempts,
		"error":        lastErr,
	}).Error("ledger append failed after all retry attempts")
	return lastErr
}

// shouldRetry: не повторяем отмену контекста и запись, которая могла частично попасть в журнал.
func shouldRetry(err error) bool {
	switch {
	case errors.Is(err, domain.ErrLedgerWriteIncomplete):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ErrCircuitOpen возвращается, пока цепь разомкнута.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState состояние размыкателя.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker простая реализация circuit breaker.
type CircuitBreaker struct {
	mu           sync.Mutex
	maxFailures  int
	resetTimeout time.Duration
	now          func() time.Time

	failures    int
	lastFailure time.Time
	state       CircuitState
	logger      *log.Entry
}

// NewCircuitBreaker создаёт размыкатель.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, logger *log.Entry) *CircuitBreaker {
	if logger == nil {
		logger = log.WithField("component", "circuit-breaker")
	}
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
		state:        CircuitClosed,
		logger:       logger,
	}
}

// State возвращает текущее состояние.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Execute выполняет операцию через размыкатель.
func (cb *CircuitBreaker) Execute(operation string, fn func() error) error {
	cb.mu.Lock()
	if cb.state == CircuitOpen {
		if cb.now().Sub(cb.lastFailure) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			cb.logger.WithField("operation", operation).Info("circuit breaker half-open")
		} else {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		cb.lastFailure = cb.now()
		if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = CircuitOpen
			cb.logger.WithFields(log.Fields{
				"operation": operation,
				"failures":  cb.failures,
			}).Warn("circuit breaker opened")
		}
		return err
	}

	if cb.state == CircuitHalfOpen {
		cb.logger.WithField("operation", operation).Info("circuit breaker closed")
	}
	cb.state = CircuitClosed
	cb.failures = 0
	return nil
}

var _ domain.LedgerStore = (*RetryingStore)(nil)
