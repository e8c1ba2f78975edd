package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ok(res domain.ScanResult) domain.ScanOutcome { return domain.ScanOutcome{Result: &res} }

func TestMergeScansFirstNonEmptyWins(t *testing.T) {
	patch, usable := MergeScans([]domain.ScanOutcome{
		ok(domain.ScanResult{CustomerName: strPtr(""), PhoneNumber: strPtr("null")}),
		ok(domain.ScanResult{CustomerName: strPtr("Ahmed"), DeliveryDate: strPtr("2026-02-14")}),
		ok(domain.ScanResult{CustomerName: strPtr("Karim"), PhoneNumber: strPtr("0612345678"), DeliveryDate: strPtr("2026-03-01")}),
	}, nil)

	if !usable {
		t.Fatal("expected usable merge")
	}
	if *patch.CustomerName != "Ahmed" {
		t.Errorf("customer name = %q, want Ahmed", *patch.CustomerName)
	}
	if *patch.PhoneNumber != "0612345678" {
		t.Errorf("phone = %q", *patch.PhoneNumber)
	}
	if !patch.DeliveryDate.Equal(domain.Date(2026, time.February, 14)) {
		t.Errorf("delivery date = %v", patch.DeliveryDate)
	}
}

func TestMergeScansConcatenatesItems(t *testing.T) {
	cat := testCatalog(product(1, "Croissant", 5), product(2, "Pain", 2))

	patch, usable := MergeScans([]domain.ScanOutcome{
		ok(domain.ScanResult{Items: []domain.ScanItem{{Product: "croissants", Quantity: decPtr("2")}}}),
		ok(domain.ScanResult{Items: []domain.ScanItem{
			{Product: "Croissant", Quantity: decPtr("1")},
			{Product: "Pain", Quantity: decPtr("3"), Total: decPtr("7.50")},
		}}),
	}, cat)

	if !usable {
		t.Fatal("expected usable merge")
	}
	assertItems(t, patch.Items, []domain.OrderItem{
		domain.NewOrderItem("Croissant", 2, decimal.NewFromInt(5)),
		domain.NewOrderItem("Croissant", 1, decimal.NewFromInt(5)),
		domain.NewOrderItem("Pain", 3, decimal.RequireFromString("2.5")),
	})
}

func TestMergeScansSkipsFailedSources(t *testing.T) {
	patch, usable := MergeScans([]domain.ScanOutcome{
		{Err: errors.New("timeout")},
		ok(domain.ScanResult{CustomerName: strPtr("Sara")}),
		{Err: errors.New("bad image")},
	}, nil)

	if !usable || patch.CustomerName == nil || *patch.CustomerName != "Sara" {
		t.Fatalf("got %+v (usable=%v)", patch, usable)
	}
}

func TestMergeScansNothingExtracted(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []domain.ScanOutcome
	}{
		{"no outcomes", nil},
		{"all failed", []domain.ScanOutcome{{Err: errors.New("x")}, {Err: errors.New("y")}}},
		{"only a date", []domain.ScanOutcome{ok(domain.ScanResult{DeliveryDate: strPtr("2026-02-14")})}},
		{"blank values", []domain.ScanOutcome{ok(domain.ScanResult{
			CustomerName: strPtr("  "),
			PhoneNumber:  strPtr("null"),
			Items:        []domain.ScanItem{{Product: " "}},
		})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, usable := MergeScans(tt.outcomes, nil); usable {
				t.Fatal("expected nothing extracted")
			}
		})
	}
}

func TestScanItemPriceAndQuantity(t *testing.T) {
	cat := testCatalog(product(1, "Croissant", 5))

	tests := []struct {
		name string
		in   domain.ScanItem
		want domain.OrderItem
	}{
		{"unit price wins", domain.ScanItem{Product: "Croissant", Quantity: decPtr("2"), UnitPrice: decPtr("4"), Total: decPtr("100")},
			domain.NewOrderItem("Croissant", 2, decimal.NewFromInt(4))},
		{"price from total", domain.ScanItem{Product: "Croissant", Quantity: decPtr("3"), Total: decPtr("10")},
			domain.NewOrderItem("Croissant", 3, decimal.RequireFromString("3.33"))},
		{"catalog price", domain.ScanItem{Product: "croissant", Quantity: decPtr("2"), UnitPrice: decPtr("0")},
			domain.NewOrderItem("Croissant", 2, decimal.NewFromInt(5))},
		{"missing quantity", domain.ScanItem{Product: "Croissant"},
			domain.NewOrderItem("Croissant", 1, decimal.NewFromInt(5))},
		{"zero quantity", domain.ScanItem{Product: "Croissant", Quantity: decPtr("0")},
			domain.NewOrderItem("Croissant", 1, decimal.NewFromInt(5))},
		{"unknown product", domain.ScanItem{Product: "Baguette", Quantity: decPtr("2")},
			domain.NewOrderItem("Baguette", 2, decimal.Zero)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scanItem(tt.in, cat)
			if !ok {
				t.Fatal("item skipped")
			}
			assertItems(t, []domain.OrderItem{got}, []domain.OrderItem{tt.want})
		})
	}
}

func TestParseScanResult(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		res, err := ParseScanResult([]byte(`{"customerName":"Ahmed","phoneNumber":null,"deliveryDate":"2026-02-14",
			"items":[{"product":"Croissant","quantity":2,"unitPrice":5,"total":10}]}`))
		if err != nil {
			t.Fatal(err)
		}
		if res.CustomerName == nil || *res.CustomerName != "Ahmed" || res.PhoneNumber != nil {
			t.Fatalf("unexpected scalars: %+v", res)
		}
		if len(res.Items) != 1 || !res.Items[0].Quantity.Equal(decimal.NewFromInt(2)) {
			t.Fatalf("unexpected items: %+v", res.Items)
		}
	})

	t.Run("fenced string", func(t *testing.T) {
		raw := `"` + "```json\\n{\\\"customerName\\\":\\\"Sara\\\",\\\"items\\\":[]}\\n```" + `"`
		res, err := ParseScanResult([]byte(raw))
		if err != nil {
			t.Fatal(err)
		}
		if res.CustomerName == nil || *res.CustomerName != "Sara" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("error field", func(t *testing.T) {
		if _, err := ParseScanResult([]byte(`{"error":"unreadable image"}`)); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := ParseScanResult([]byte(`not json`)); err == nil {
			t.Fatal("expected error")
		}
	})
}
