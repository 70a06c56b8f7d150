package console

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
)

// lineReader читает ввод в отдельной горутине, чтобы ожидание строки
// прерывалось отменой контекста (Ctrl+C во время меню).
type lineReader struct {
	lines chan string
	done  chan struct{}
	err   error
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan string),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(lr.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lr.lines <- scanner.Text():
			case <-lr.done:
				return
			}
		}
		lr.err = scanner.Err()
	}()
	return lr
}

// next возвращает очередную строку; конец ввода даёт io.EOF.
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		if !ok {
			if lr.err != nil {
				return "", lr.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}

func (lr *lineReader) stop() {
	close(lr.done)
}

// parseChoice переводит ввод в номер пункта; нечисловой ввод даёт -1.
func parseChoice(line string) int {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return -1
	}
	return n
}
