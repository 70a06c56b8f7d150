package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

const maxLedgerLineSize = 1024 * 1024

// Ledger пишет журнал заказов в плоский файл (order_history.txt).
type Ledger struct {
	mu   sync.Mutex
	path string
}

// NewLedger создаёт файловый журнал. Файл создаётся при первой записи.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path возвращает путь к файлу журнала.
func (l *Ledger) Path() string {
	return l.path
}

// Append дописывает запись одним вызовом Write. Любая ошибка оборачивается в
// ErrPersistenceUnavailable. Если часть байтов могла попасть в файл (неполная запись
// или ошибка Close), ошибка дополнительно помечается ErrLedgerWriteIncomplete.
func (l *Ledger) Append(ctx context.Context, record domain.OrderRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data := []byte(FormatRecord(record))

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}
	n, err := f.Write(data)
	if err != nil {
		_ = f.Close()
		if n > 0 {
			return fmt.Errorf("%w: %w: write %s (%d of %d bytes): %w",
				domain.ErrPersistenceUnavailable, domain.ErrLedgerWriteIncomplete, l.path, n, len(data), err)
		}
		return fmt.Errorf("%w: write %s: %w", domain.ErrPersistenceUnavailable, l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w: close %s: %w",
			domain.ErrPersistenceUnavailable, domain.ErrLedgerWriteIncomplete, l.path, err)
	}
	return nil
}

// ScanOrderIDs читает журнал и собирает все распознанные id.
func (l *Ledger) ScanOrderIDs(ctx context.Context) (map[int]struct{}, int, error) {
	ids := make(map[int]struct{})
	malformed := 0
	err := l.walk(ctx, func(_ int, id int, parseErr error) {
		if parseErr != nil {
			malformed++
			return
		}
		ids[id] = struct{}{}
	})
	if err != nil {
		return nil, 0, err
	}
	return ids, malformed, nil
}

// Report содержит сводку по журналу.
type Report struct {
	Records int
	// Duplicates: id → сколько раз встретился (только для id, встреченных более одного раза).
	Duplicates map[int]int
	// Номера строк (с 1), которые не удалось разобрать.
	MalformedLines []int
	// OutOfRange: id вне диапазона [1001, 9999].
	OutOfRange []int
	ids        map[int]int
}

// Distinct возвращает количество уникальных id.
func (r Report) Distinct() int {
	return len(r.ids)
}

// IDs возвращает отсортированный список уникальных id.
func (r Report) IDs() []int {
	result := make([]int, 0, len(r.ids))
	for id := range r.ids {
		result = append(result, id)
	}
	sort.Ints(result)
	return result
}

// Inspect проходит журнал целиком и собирает отчёт для диагностики.
func (l *Ledger) Inspect(ctx context.Context) (Report, error) {
	report := Report{
		Duplicates: make(map[int]int),
		ids:        make(map[int]int),
	}
	err := l.walk(ctx, func(lineNo int, id int, parseErr error) {
		if parseErr != nil {
			report.MalformedLines = append(report.MalformedLines, lineNo)
			return
		}
		report.Records++
		report.ids[id]++
		if report.ids[id] > 1 {
			report.Duplicates[id] = report.ids[id]
		}
		if !domain.ValidOrderID(id) {
			report.OutOfRange = append(report.OutOfRange, id)
		}
	})
	return report, err
}

// Check проверяет, что журнал доступен для дозаписи, не создавая его.
// Если файла ещё нет, проверяется возможность писать в каталог.
func (l *Ledger) Check() error {
	dir := filepath.Dir(l.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: ledger dir: %w", domain.ErrPersistenceUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: ledger dir %s is not a directory", domain.ErrPersistenceUnavailable, dir)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0)
	if err == nil {
		return f.Close()
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-check-*")
	if err != nil {
		return fmt.Errorf("%w: ledger dir not writable: %w", domain.ErrPersistenceUnavailable, err)
	}
	name := tmp.Name()
	_ = tmp.Close()
	return os.Remove(name)
}

func (l *Ledger) walk(ctx context.Context, fn func(lineNo int, id int, err error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	return scanLedger(ctx, f, fn)
}

func scanLedger(ctx context.Context, r io.Reader, fn func(lineNo int, id int, err error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLedgerLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line := scanner.Text()
		if isSeparatorLine(line) {
			continue
		}
		id, err := ParseOrderID(line)
		fn(lineNo, id, err)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan ledger: %w", err)
	}
	return nil
}

var _ domain.LedgerStore = (*Ledger)(nil)
