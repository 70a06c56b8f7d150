// Package catalog загружает меню напитков и отвечает за сортировку и поиск по нему.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// MaxProducts ограничивает число строк меню, читаемых из файла.
const MaxProducts = 50

// SortKey задаёт порядок отображения меню.
type SortKey int

const (
	SortByPrice SortKey = iota + 1
	SortByCalories
)

// Catalog хранит меню в порядке отображения и копию, упорядоченную по id для поиска.
type Catalog struct {
	products []domain.Product
	byID     []domain.Product
}

// New строит каталог из готового списка товаров.
func New(products []domain.Product) *Catalog {
	c := &Catalog{products: append([]domain.Product(nil), products...)}
	c.reindex()
	return c
}

// Load читает меню из файла. Отсутствующий файл даёт пустой каталог.
func Load(path string, logger *log.Entry) (*Catalog, error) {
	if logger == nil {
		logger = log.WithField("component", "catalog")
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.WithField("path", path).Warn("drink menu file not found, catalog is empty")
			return New(nil), nil
		}
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, skipped, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	logger.WithFields(log.Fields{
		"path":    path,
		"loaded":  c.Len(),
		"skipped": skipped,
	}).Info("drink menu loaded")
	return c, nil
}

// Parse разбирает строки `id,name,category,price,calories`.
// Строки без запятых разделяются пробелами. Нераспознанные строки пропускаются.
func Parse(r io.Reader) (*Catalog, int, error) {
	var (
		products []domain.Product
		skipped  int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() && len(products) < MaxProducts {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p, err := parseLine(line)
		if err != nil {
			skipped++
			continue
		}
		products = append(products, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return New(products), skipped, nil
}

func parseLine(line string) (domain.Product, error) {
	var fields []string
	if strings.Contains(line, ",") {
		fields = strings.Split(line, ",")
	} else {
		fields = strings.Fields(line)
	}
	if len(fields) != 5 {
		return domain.Product{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Product{}, fmt.Errorf("id: %w", err)
	}
	price, err := decimal.NewFromString(fields[3])
	if err != nil {
		return domain.Product{}, fmt.Errorf("price: %w", err)
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("price: negative value %s", fields[3])
	}
	calories, err := strconv.Atoi(fields[4])
	if err != nil {
		return domain.Product{}, fmt.Errorf("calories: %w", err)
	}
	if fields[1] == "" {
		return domain.Product{}, errors.New("name: empty")
	}
	return domain.Product{
		ID:       id,
		Name:     fields[1],
		Category: fields[2],
		Price:    price.Round(2),
		Calories: calories,
	}, nil
}

// Len возвращает число напитков в меню.
func (c *Catalog) Len() int {
	return len(c.products)
}

// All возвращает копию меню в текущем порядке отображения.
func (c *Catalog) All() []domain.Product {
	return append([]domain.Product(nil), c.products...)
}

// At возвращает товар по номеру строки меню (с 1).
func (c *Catalog) At(pos int) (domain.Product, error) {
	if pos < 1 || pos > len(c.products) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return c.products[pos-1], nil
}

// SortBy упорядочивает меню по цене или калорийности. Сортировка устойчивая.
func (c *Catalog) SortBy(key SortKey) {
	switch key {
	case SortByPrice:
		sort.SliceStable(c.products, func(i, j int) bool {
			return c.products[i].Price.LessThan(c.products[j].Price)
		})
	case SortByCalories:
		sort.SliceStable(c.products, func(i, j int) bool {
			return c.products[i].Calories < c.products[j].Calories
		})
	}
}

// FindByID ищет товар по id двоичным поиском.
func (c *Catalog) FindByID(id int) (domain.Product, error) {
	i := sort.Search(len(c.byID), func(i int) bool { return c.byID[i].ID >= id })
	if i < len(c.byID) && c.byID[i].ID == id {
		return c.byID[i], nil
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// Categories возвращает категории в порядке первого появления.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var result []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		result = append(result, p.Category)
	}
	return result
}

// Entry связывает товар с его номером строки в меню.
type Entry struct {
	Pos     int
	Product domain.Product
}

// FilterByCategory возвращает товары категории с номерами строк меню.
func (c *Catalog) FilterByCategory(category string) []Entry {
	return c.filter(func(p domain.Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// SearchByName ищет подстроку в названии без учёта регистра.
func (c *Catalog) SearchByName(query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	return c.filter(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), query)
	})
}

func (c *Catalog) filter(match func(domain.Product) bool) []Entry {
	var result []Entry
	for i, p := range c.products {
		if match(p) {
			result = append(result, Entry{Pos: i + 1, Product: p})
		}
	}
	return result
}

func (c *Catalog) reindex() {
	c.byID = append([]domain.Product(nil), c.products...)
	sort.SliceStable(c.byID, func(i, j int) bool { return c.byID[i].ID < c.byID[j].ID })
}
