package pebble

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/repository/pebble/converter"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	pdb "github.com/cockroachdb/pebble"
	"github.com/shopspring/decimal"
)

func newTestRepo(t *testing.T) (*DraftRepo, *pdb.DB) {
	t.Helper()

	db, err := pdb.Open(t.TempDir(), &pdb.Options{})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewDraftRepo(db, converter.NewDraftConverter(), logger.NewNopLogger()), db
}

func TestDraftRepoRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	date := domain.Date(2026, time.February, 14)
	draft := domain.OrderDraft{
		CustomerName:    "Ahmed",
		PhoneNumber:     "0612345678",
		DeliveryAddress: "12 rue des Fleurs",
		DeliveryDate:    &date,
		Items: []domain.OrderItem{
			domain.NewOrderItem("Croissant", 3, decimal.NewFromInt(5)),
			domain.NewOrderItem("Tarte", 1, decimal.RequireFromString("12.50")),
		},
	}
	draft.Recalculate()

	if err := repo.Save(ctx, draft); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := repo.Load(ctx)
	if !ok {
		t.Fatal("expected stored draft")
	}
	if got.CustomerName != "Ahmed" || got.PhoneNumber != "0612345678" || got.DeliveryAddress != "12 rue des Fleurs" {
		t.Fatalf("unexpected scalars: %+v", got)
	}
	if got.DeliveryDate == nil || !got.DeliveryDate.Equal(date) {
		t.Fatalf("delivery date = %v", got.DeliveryDate)
	}
	if len(got.Items) != 2 || !got.Items[1].UnitPrice.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if !got.Total.Equal(decimal.RequireFromString("27.5")) {
		t.Fatalf("total = %s", got.Total)
	}
}

func TestDraftRepoStoredFormat(t *testing.T) {
	repo, db := newTestRepo(t)

	draft := domain.OrderDraft{Items: []domain.OrderItem{domain.NewOrderItem("Pain", 2, decimal.NewFromInt(2))}}
	draft.Recalculate()
	if err := repo.Save(context.Background(), draft); err != nil {
		t.Fatal(err)
	}

	value, closer, err := db.Get([]byte("order_draft"))
	if err != nil {
		t.Fatalf("slot not written: %v", err)
	}
	defer closer.Close()

	want := `{"customerName":"","phoneNumber":"","deliveryAddress":"","deliveryDate":null,` +
		`"items":[{"product":"Pain","quantity":2,"unitPrice":2,"total":4}]}`
	if string(value) != want {
		t.Fatalf("stored %s\nwant   %s", value, want)
	}
}

func TestDraftRepoLoadMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	if d, ok := repo.Load(context.Background()); ok || d != nil {
		t.Fatalf("expected no draft, got %+v", d)
	}
}

func TestDraftRepoLoadCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{{{"},
		{"null", "null"},
		{"array", `[1,2,3]`},
		{"wrong item shape", `{"items":[{"product":"Pain","quantity":"two"}]}`},
		{"bad price", `{"items":[{"product":"Pain","quantity":1,"unitPrice":"abc"}]}`},
		{"bad date", `{"deliveryDate":"someday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, db := newTestRepo(t)
			if err := db.Set([]byte("order_draft"), []byte(tt.value), pdb.Sync); err != nil {
				t.Fatal(err)
			}

			if d, ok := repo.Load(context.Background()); ok || d != nil {
				t.Fatalf("expected corrupt draft to load as none, got %+v", d)
			}
		})
	}
}

func TestDraftRepoClear(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, domain.OrderDraft{CustomerName: "Sara"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, ok := repo.Load(ctx); ok {
		t.Fatal("expected no draft after clear")
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clearing an empty slot must succeed: %v", err)
	}
}
