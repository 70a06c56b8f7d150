package file

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

const (
	// TimestampLayout задаёт формат времени в журнале (локальное время).
	TimestampLayout = "2006-01-02 15:04:05"
	fieldSeparator  = "|"
	itemSeparator   = ", "
)

// FormatRecord возвращает запись журнала: одна логическая запись занимает две физические строки,
// вторая состоит из одного разделителя.
func FormatRecord(record domain.OrderRecord) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(record.CustomerID))
	b.WriteString(fieldSeparator)
	b.WriteString(strconv.Itoa(record.OrderID))
	b.WriteString(fieldSeparator)
	b.WriteString(record.PlacedAt.Local().Format(TimestampLayout))
	b.WriteString(fieldSeparator)
	b.WriteString(record.Total.StringFixed(2))
	b.WriteString(fieldSeparator)
	b.WriteString(strconv.Itoa(record.ItemCount))
	b.WriteString(fieldSeparator)
	b.WriteString(strings.Join(record.Items, itemSeparator))
	b.WriteString("\n" + fieldSeparator + "\n")
	return b.String()
}

// ParseOrderID извлекает id заказа из подстроки между первым и вторым разделителем.
// Хвост строки не анализируется.
func ParseOrderID(line string) (int, error) {
	first := strings.Index(line, fieldSeparator)
	if first < 0 {
		return 0, fmt.Errorf("%w: no field separator", domain.ErrMalformedLedgerLine)
	}
	rest := line[first+1:]
	second := strings.Index(rest, fieldSeparator)
	if second < 0 {
		return 0, fmt.Errorf("%w: missing order id field", domain.ErrMalformedLedgerLine)
	}
	id, err := strconv.Atoi(strings.TrimSpace(rest[:second]))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMalformedLedgerLine, err)
	}
	return id, nil
}

// isSeparatorLine сообщает, что строка является завершающим разделителем записи или пустой.
func isSeparatorLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || trimmed == fieldSeparator
}
