package payment

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// Config задаёт параметры имитации оплаты.
type Config struct {
	Steps int
	Delay time.Duration
}

// DefaultConfig возвращает обратный отсчёт 3×1s.
func DefaultConfig() Config {
	return Config{
		Steps: 3,
		Delay: time.Second,
	}
}

// Countdown имитирует подтверждение оплаты обратным отсчётом.
// Шаги пишутся в out; отмена контекста прерывает ожидание.
type Countdown struct {
	config Config
	out    io.Writer
	logger *log.Entry
}

// NewCountdown создаёт сервис оплаты. out может быть nil.
func NewCountdown(config Config, out io.Writer, logger *log.Entry) *Countdown {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = log.WithField("component", "payment")
	}
	if config.Steps < 0 {
		config.Steps = 0
	}
	return &Countdown{config: config, out: out, logger: logger}
}

// Confirm выводит сумму и ждёт Steps интервалов по Delay.
func (c *Countdown) Confirm(ctx context.Context, total decimal.Decimal) error {
	fmt.Fprintf(c.out, "Processing payment of RM %s...\n", total.StringFixed(2))

	var timer *time.Timer
	for step := c.config.Steps; step > 0; step-- {
		fmt.Fprintf(c.out, "%d...\n", step)
		if c.config.Delay <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		if timer == nil {
			timer = time.NewTimer(c.config.Delay)
			defer timer.Stop()
		} else {
			timer.Reset(c.config.Delay)
		}
		select {
		case <-ctx.Done():
			c.logger.WithField("remaining_steps", step).Warn("payment interrupted")
			return ctx.Err()
		case <-timer.C:
		}
	}

	fmt.Fprintln(c.out, "Payment successful!")
	c.logger.WithField("total", total.StringFixed(2)).Info("payment confirmed")
	return nil
}

var _ domain.PaymentService = (*Countdown)(nil)
