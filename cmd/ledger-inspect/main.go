package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/service/orderid"
	"github.com/vladislavdragonenkov/pos/internal/storage/file"
)

const defaultLedgerPath = "order_history.txt"

type config struct {
	ledgerPath string
	seed       int
	asJSON     bool
}

// summary: отчёт о журнале в виде, пригодном для вывода.
type summary struct {
	Path           string      `json:"path"`
	Records        int         `json:"records"`
	Distinct       int         `json:"distinct"`
	Duplicates     map[int]int `json:"duplicates,omitempty"`
	MalformedLines []int       `json:"malformed_lines,omitempty"`
	OutOfRange     []int       `json:"out_of_range,omitempty"`
	NextOrderID    int         `json:"next_order_id,omitempty"`
	Exhausted      bool        `json:"exhausted"`
}

// newLedger подменяется в тестах.
var newLedger = func(path string) inspector {
	return file.NewLedger(path)
}

type inspector interface {
	domain.LedgerStore
	Inspect(ctx context.Context) (file.Report, error)
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.WarnLevel)

	cfg, err := readConfig()
	if err != nil {
		fail("%v", err)
	}

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		fail("ledger inspect failed: %v", err)
	}
}

func readConfig() (config, error) {
	var cfg config

	flag.StringVar(&cfg.ledgerPath, "ledger", "", "path to order ledger (fallback: POS_LEDGER_FILE)")
	flag.IntVar(&cfg.seed, "seed", domain.OrderIDSeed, "order id counter seed used to preview the next id")
	flag.BoolVar(&cfg.asJSON, "json", false, "print report as JSON")
	flag.Parse()

	if strings.TrimSpace(cfg.ledgerPath) == "" {
		cfg.ledgerPath = os.Getenv("POS_LEDGER_FILE")
	}
	if strings.TrimSpace(cfg.ledgerPath) == "" {
		cfg.ledgerPath = defaultLedgerPath
	}
	if cfg.seed < domain.OrderIDSeed || cfg.seed > domain.MaxOrderID {
		return config{}, fmt.Errorf("seed must be within [%d, %d]", domain.OrderIDSeed, domain.MaxOrderID)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	ledger := newLedger(cfg.ledgerPath)

	report, err := ledger.Inspect(ctx)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", cfg.ledgerPath, err)
	}

	s := summary{
		Path:           cfg.ledgerPath,
		Records:        report.Records,
		Distinct:       report.Distinct(),
		Duplicates:     report.Duplicates,
		MalformedLines: report.MalformedLines,
		OutOfRange:     report.OutOfRange,
	}

	// Аллокатор только читает журнал: выданный здесь id никуда не записывается.
	allocator := orderid.NewAllocator(ledger, orderid.WithSeed(cfg.seed), orderid.WithLogger(log.WithField("component", "ledger-inspect")))
	next, err := allocator.Allocate(ctx)
	switch {
	case err == nil:
		s.NextOrderID = next
	case errors.Is(err, domain.ErrIDSpaceExhausted):
		s.Exhausted = true
	default:
		return fmt.Errorf("preview next order id: %w", err)
	}

	if cfg.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return printSummary(out, s)
}

func printSummary(out io.Writer, s summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "ledger:          %s\n", s.Path)
	fmt.Fprintf(&b, "records:         %d\n", s.Records)
	fmt.Fprintf(&b, "distinct ids:    %d\n", s.Distinct)
	fmt.Fprintf(&b, "duplicate ids:   %d\n", len(s.Duplicates))
	fmt.Fprintf(&b, "malformed lines: %d\n", len(s.MalformedLines))
	fmt.Fprintf(&b, "out of range:    %d\n", len(s.OutOfRange))
	if s.Exhausted {
		b.WriteString("next order id:   none (id space exhausted)\n")
	} else {
		fmt.Fprintf(&b, "next order id:   %d\n", s.NextOrderID)
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
