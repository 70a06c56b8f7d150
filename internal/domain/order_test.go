package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

func TestNewOrderRecord_FreezesDescriptions(t *testing.T) {
	product := domain.Product{ID: 3, Name: "Boba Milk Tea", Category: "Milk Tea", Price: decimal.RequireFromString("7.90"), Calories: 300}
	item, err := domain.NewLineItem(product, 2, domain.LevelLess, domain.LevelNone)
	if err != nil {
		t.Fatalf("new line item: %v", err)
	}
	other, err := domain.NewLineItem(product, 1, domain.LevelRegular, domain.LevelRegular)
	if err != nil {
		t.Fatalf("new line item: %v", err)
	}
	at := time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)

	record := domain.NewOrderRecord(7, 1001, []domain.LineItem{item, other}, decimal.RequireFromString("23.70"), at)

	if record.ItemCount != 3 {
		t.Fatalf("expected item count 3 (sum of quantities), got %d", record.ItemCount)
	}
	if len(record.Items) != 2 {
		t.Fatalf("expected 2 descriptions, got %d", len(record.Items))
	}
	want := "Boba Milk Tea (2) - Less ice, None sweet - RM 15.80"
	if record.Items[0] != want {
		t.Fatalf("expected %q, got %q", want, record.Items[0])
	}

	// изменение каталога после оформления не влияет на запись
	product.Name = "Renamed"
	item.Product = product
	if record.Items[0] != want {
		t.Fatalf("description changed after catalog update: %q", record.Items[0])
	}
	if record.CustomerID != 7 || record.OrderID != 1001 || !record.PlacedAt.Equal(at) {
		t.Fatalf("unexpected record header: %+v", record)
	}
}

func TestValidOrderID(t *testing.T) {
	cases := map[int]bool{
		domain.OrderIDSeed: false,
		domain.MinOrderID:  true,
		5000:               true,
		domain.MaxOrderID:  true,
		10000:              false,
	}
	for id, want := range cases {
		if got := domain.ValidOrderID(id); got != want {
			t.Errorf("ValidOrderID(%d) = %v, want %v", id, got, want)
		}
	}
}
