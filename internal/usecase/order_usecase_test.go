package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderFixture struct {
	uc     *OrderUseCase
	orders *mockOrderRepo
	outbox *mockOutboxRepo
	images *mockImages
	drafts *mockDraftRepo
}

func newOrderFixture(orders ...domain.Order) *orderFixture {
	f := &orderFixture{
		orders: newMockOrderRepo(orders...),
		outbox: &mockOutboxRepo{},
		images: &mockImages{},
		drafts: &mockDraftRepo{},
	}
	f.uc = NewOrderUC(f.orders, f.outbox, f.images, &mockTx{}, f.drafts, nopMetrics{}, logger.NewNopLogger())
	return f
}

func sampleOrder() domain.Order {
	d := domain.OrderDraft{
		CustomerName: "Ahmed",
		PhoneNumber:  "0612345678",
		Items: []domain.OrderItem{
			domain.NewOrderItem("Croissant", 3, decimal.NewFromInt(5)),
		},
	}
	d.Recalculate()
	return *domain.NewOrder(d, domain.OrderSourceAdmin)
}

func TestEdit_UpdatesOrderWithoutTouchingDraft(t *testing.T) {
	order := sampleOrder()
	f := newOrderFixture(order)

	updated, err := f.uc.Edit(context.Background(), order.ID, domain.ExtractionPatch{
		PhoneNumber: strp("0700000000"),
		Items:       []domain.OrderItem{domain.NewOrderItem("Pain", 4, decimal.NewFromInt(2))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.CustomerName != "Ahmed" || updated.PhoneNumber != "0700000000" {
		t.Errorf("unexpected scalars: %+v", updated.OrderDraft)
	}
	if len(updated.Items) != 1 || !updated.Total.Equal(decimal.NewFromInt(8)) {
		t.Errorf("items not replaced: %+v (total %s)", updated.Items, updated.Total)
	}
	if f.drafts.saves != 0 {
		t.Errorf("editing an order must not save the draft slot, got %d saves", f.drafts.saves)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != domain.OrderUpdated {
		t.Errorf("expected order.updated event, got %+v", f.outbox.events)
	}
}

func TestEdit_RejectsInvalidResult(t *testing.T) {
	order := sampleOrder()
	f := newOrderFixture(order)

	_, err := f.uc.Edit(context.Background(), order.ID, domain.ExtractionPatch{CustomerName: strp("")})
	if !errors.Is(err, e.ErrCustomerNameRequired) {
		t.Fatalf("expected ErrCustomerNameRequired, got %v", err)
	}
	if len(f.outbox.events) != 0 {
		t.Fatal("no event expected for a rejected edit")
	}
}

func TestEdit_NotFound(t *testing.T) {
	f := newOrderFixture()

	if _, err := f.uc.Edit(context.Background(), uuid.New(), domain.ExtractionPatch{}); !errors.Is(err, e.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestMarkDelivered_WithImage(t *testing.T) {
	order := sampleOrder()
	f := newOrderFixture(order)

	img := NewDeliveryImage([]byte{0xff, 0xd8}, "image/jpeg", 2, "photo.jpg")
	delivered, err := f.uc.MarkDelivered(context.Background(), NewMarkDeliveredReq(order.ID, img))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !delivered.Delivered || delivered.DeliveryImageKey != order.ID.String()+"-1.jpg" {
		t.Errorf("unexpected order: %+v", delivered)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != domain.OrderDelivered {
		t.Errorf("expected order.delivered event, got %+v", f.outbox.events)
	}
}

func TestMarkDelivered_CleansUpImageOnFailure(t *testing.T) {
	order := sampleOrder()
	f := newOrderFixture(order)
	f.outbox.err = errors.New("outbox insert failed")

	img := NewDeliveryImage([]byte{0x89, 0x50}, "image/png", 2, "photo.png")
	if _, err := f.uc.MarkDelivered(context.Background(), NewMarkDeliveredReq(order.ID, img)); err == nil {
		t.Fatal("expected error")
	}

	if len(f.images.cleaned) != 1 || f.images.cleaned[0] != f.images.uploaded[0] {
		t.Fatalf("uploaded image must be cleaned up, uploaded=%v cleaned=%v", f.images.uploaded, f.images.cleaned)
	}
}

func TestMarkDelivered_WithoutImage(t *testing.T) {
	order := sampleOrder()
	f := newOrderFixture(order)

	delivered, err := f.uc.MarkDelivered(context.Background(), NewMarkDeliveredReq(order.ID, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delivered.Delivered || delivered.DeliveryImageKey != "" || len(f.images.uploaded) != 0 {
		t.Fatalf("unexpected result: %+v", delivered)
	}
}

func TestListAndDelete(t *testing.T) {
	pending := sampleOrder()
	done := sampleOrder()
	done.Delivered = true
	f := newOrderFixture(pending, done)
	ctx := context.Background()

	no := false
	orders, err := f.uc.List(ctx, OrderFilter{Delivered: &no})
	if err != nil || len(orders) != 1 || orders[0].ID != pending.ID {
		t.Fatalf("unexpected list: %+v, %v", orders, err)
	}

	if err := f.uc.Delete(ctx, pending.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.Get(ctx, pending.ID); !errors.Is(err, e.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
	}
}

func TestEncodeOrderEvent(t *testing.T) {
	order := sampleOrder()
	date := domain.Date(2026, time.February, 14)
	order.DeliveryDate = &date

	payload, err := encodeOrderEvent(domain.NewOrderEvent(domain.OrderCreated, &order, time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{`"deliveryDate":"2026-02-14"`, `"total":15`, `"unitPrice":5`, `"source":"admin"`} {
		if !strings.Contains(string(payload), want) {
			t.Errorf("payload %s does not contain %s", payload, want)
		}
	}
}

func syncDraft(items ...domain.OrderItem) domain.OrderDraft {
	return domain.OrderDraft{CustomerName: "Nadia", PhoneNumber: "0611223344", Items: items}
}

func TestSync_CreatesOrderWithEvent(t *testing.T) {
	f := newOrderFixture()

	req := NewSyncOrderReq(syncDraft(domain.NewOrderItem("Baguette", 2, decimal.RequireFromString("1.50"))),
		decimal.NewFromInt(3), true, "shopify")
	created, err := f.uc.Sync(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Source != "shopify" || !created.Delivered {
		t.Errorf("unexpected order: %+v", created)
	}
	if !created.Total.Equal(decimal.NewFromInt(3)) {
		t.Errorf("total = %s, want 3", created.Total)
	}
	if _, ok := f.orders.orders[created.ID]; !ok {
		t.Error("order not stored")
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != domain.OrderCreated {
		t.Errorf("expected order.created event, got %+v", f.outbox.events)
	}
	if f.drafts.saves != 0 {
		t.Error("sync must not touch the draft slot")
	}
}

func TestSync_TotalFallback(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.OrderItem
		total string
		want  string
	}{
		{"no items keeps payload total", nil, "42.50", "42.50"},
		{"unpriced items keep payload total", []domain.OrderItem{domain.NewOrderItem("Msemen", 3, decimal.Zero)}, "9", "9"},
		{"priced items win", []domain.OrderItem{domain.NewOrderItem("Pain", 4, decimal.NewFromInt(2))}, "10", "8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()

			created, err := f.uc.Sync(context.Background(), NewSyncOrderReq(syncDraft(tt.items...), decimal.RequireFromString(tt.total), false, ""))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !created.Total.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("total = %s, want %s", created.Total, tt.want)
			}
			if created.Source != domain.OrderSourceSync {
				t.Errorf("source = %q, want default sync source", created.Source)
			}
		})
	}
}

func TestSync_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.OrderDraft
		total decimal.Decimal
		want  error
	}{
		{"no name", domain.OrderDraft{PhoneNumber: "0611223344"}, decimal.NewFromInt(5), e.ErrCustomerNameRequired},
		{"no phone", domain.OrderDraft{CustomerName: "Nadia"}, decimal.NewFromInt(5), e.ErrPhoneRequired},
		{"zero total", syncDraft(), decimal.Zero, e.ErrInvalidTotal},
		{"bad item", syncDraft(domain.NewOrderItem("Pain", 0, decimal.NewFromInt(2))), decimal.NewFromInt(5), e.ErrInvalidItems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()

			_, err := f.uc.Sync(context.Background(), NewSyncOrderReq(tt.draft, tt.total, false, ""))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(f.orders.orders) != 0 || len(f.outbox.events) != 0 {
				t.Error("rejected sync must not store anything")
			}
		})
	}
}

func TestSync_OutboxFailureFails(t *testing.T) {
	f := newOrderFixture()
	f.outbox.err = errors.New("outbox insert failed")

	if _, err := f.uc.Sync(context.Background(), NewSyncOrderReq(syncDraft(), decimal.NewFromInt(5), false, "")); err == nil {
		t.Fatal("expected error")
	}
}
