package converter

import (
	"testing"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/shopspring/decimal"
)

func TestCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"5", 500},
		{"12.5", 1250},
		{"3.33", 333},
		{"3.335", 334},
		{"0.01", 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ToCents(decimal.RequireFromString(tt.in))
			if got != tt.want {
				t.Fatalf("ToCents(%s) = %d, want %d", tt.in, got, tt.want)
			}
			if back := FromCents(got); !back.Equal(decimal.New(tt.want, -2)) {
				t.Fatalf("FromCents(%d) = %s", got, back)
			}
		})
	}
}

func TestOrderConverterKeepsItemOrder(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.Local)
	d := domain.OrderDraft{
		CustomerName: "Ahmed",
		PhoneNumber:  "0612345678",
		DeliveryDate: &date,
		Items: []domain.OrderItem{
			domain.NewOrderItem("Pain", 2, decimal.NewFromInt(2)),
			domain.NewOrderItem("Croissant", 1, decimal.RequireFromString("4.5")),
		},
	}
	d.Recalculate()
	order := domain.NewOrder(d, domain.OrderSourcePublic)

	conv := OrderConverterImpl{}
	model := conv.ToModel(order)
	if model.Total != 850 || model.Items[1].Position != 1 || model.Items[1].UnitPrice != 450 {
		t.Fatalf("unexpected model: %+v", model)
	}

	back := conv.ToEntity(model)
	if back.Items[0].Product != "Pain" || back.Items[1].Product != "Croissant" {
		t.Fatalf("item order lost: %+v", back.Items)
	}
	if !back.Total.Equal(decimal.RequireFromString("8.5")) || back.Source != domain.OrderSourcePublic {
		t.Fatalf("unexpected entity: %+v", back)
	}
	if !back.DeliveryDate.Equal(domain.Date(2026, time.February, 14)) {
		t.Fatalf("delivery date = %v", back.DeliveryDate)
	}
}
