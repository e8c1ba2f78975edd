package draft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/shopspring/decimal"
)

type fakeStore struct {
	mu      sync.Mutex
	saved   []domain.OrderDraft
	saveErr error
}

func (f *fakeStore) Save(_ context.Context, d domain.OrderDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, d)
	return nil
}

func (f *fakeStore) Load(context.Context) (*domain.OrderDraft, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil, false
	}
	d := f.saved[len(f.saved)-1]
	return &d, true
}

func (f *fakeStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = nil
	return nil
}

func str(s string) *string { return &s }

func item(name string, qty int, price string) domain.OrderItem {
	return domain.NewOrderItem(name, qty, decimal.RequireFromString(price))
}

func sampleDraft() domain.OrderDraft {
	date := domain.Date(2026, time.February, 14)
	d := domain.OrderDraft{
		CustomerName:    "Ahmed",
		PhoneNumber:     "0612345678",
		DeliveryAddress: "12 rue des Fleurs",
		DeliveryDate:    &date,
		Items:           []domain.OrderItem{item("Croissant", 3, "5"), item("Pain", 1, "2")},
	}
	d.Recalculate()
	return d
}

func assertTotals(t *testing.T, d domain.OrderDraft) {
	t.Helper()

	sum := decimal.Zero
	for _, it := range d.Items {
		want := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if !it.Total.Equal(want) {
			t.Fatalf("item %s total = %s, want %s", it.Product, it.Total, want)
		}
		sum = sum.Add(it.Total)
	}
	if !d.Total.Equal(sum) {
		t.Fatalf("draft total = %s, want %s", d.Total, sum)
	}
}

func TestApplyEmptyPatchIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	r := NewReconciler(store, logger.NewNopLogger())
	current := sampleDraft()

	got := r.Apply(context.Background(), ModeNewOrder, current, domain.ExtractionPatch{})

	assertSameDraft(t, got, current)
	if len(store.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(store.saved))
	}
}

func TestApplyOverwritesOnlyProvidedFields(t *testing.T) {
	r := NewReconciler(&fakeStore{}, logger.NewNopLogger())
	current := sampleDraft()
	date := domain.Date(2026, time.March, 1)

	got := r.Apply(context.Background(), ModeNewOrder, current, domain.ExtractionPatch{
		CustomerName:    str("Karim"),
		DeliveryAddress: str(""),
		DeliveryDate:    &date,
	})

	if got.CustomerName != "Karim" {
		t.Errorf("customer name = %q", got.CustomerName)
	}
	if got.PhoneNumber != current.PhoneNumber {
		t.Errorf("phone must be preserved, got %q", got.PhoneNumber)
	}
	if got.DeliveryAddress != "" {
		t.Errorf("address must be cleared, got %q", got.DeliveryAddress)
	}
	if !got.DeliveryDate.Equal(date) {
		t.Errorf("delivery date = %v", got.DeliveryDate)
	}
	if len(got.Items) != 2 {
		t.Errorf("items must be preserved, got %+v", got.Items)
	}
	if current.CustomerName != "Ahmed" || !current.DeliveryDate.Equal(domain.Date(2026, time.February, 14)) {
		t.Error("current draft was mutated")
	}
}

func TestApplyClearsDeliveryDate(t *testing.T) {
	store := &fakeStore{}
	r := NewReconciler(store, logger.NewNopLogger())
	current := sampleDraft()

	got := r.Apply(context.Background(), ModeNewOrder, current, domain.ExtractionPatch{ClearDeliveryDate: true})

	if got.DeliveryDate != nil {
		t.Errorf("delivery date must be cleared, got %v", got.DeliveryDate)
	}
	if got.CustomerName != current.CustomerName || len(got.Items) != len(current.Items) {
		t.Errorf("other fields must be preserved, got %+v", got)
	}
	if current.DeliveryDate == nil {
		t.Error("current draft was mutated")
	}
	if len(store.saved) != 1 || store.saved[0].DeliveryDate != nil {
		t.Errorf("cleared date not persisted: %+v", store.saved)
	}

	date := domain.Date(2026, time.March, 1)
	got = Merge(current, domain.ExtractionPatch{DeliveryDate: &date, ClearDeliveryDate: true})
	if got.DeliveryDate == nil || !got.DeliveryDate.Equal(date) {
		t.Errorf("explicit date wins over clear, got %v", got.DeliveryDate)
	}
}

func TestApplyReplacesItems(t *testing.T) {
	r := NewReconciler(&fakeStore{}, logger.NewNopLogger())

	got := r.Apply(context.Background(), ModeNewOrder, sampleDraft(), domain.ExtractionPatch{
		Items: []domain.OrderItem{item("Baguette", 4, "1.5")},
	})

	if len(got.Items) != 1 || got.Items[0].Product != "Baguette" {
		t.Fatalf("items not replaced: %+v", got.Items)
	}
	if !got.Total.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("total = %s, want 6", got.Total)
	}
}

func TestApplyRecomputesInconsistentTotals(t *testing.T) {
	r := NewReconciler(&fakeStore{}, logger.NewNopLogger())
	current := sampleDraft()
	current.Items[0].Total = decimal.NewFromInt(999)
	current.Total = decimal.NewFromInt(1)

	got := r.Apply(context.Background(), ModeNewOrder, current, domain.ExtractionPatch{PhoneNumber: str("0700000000")})

	assertTotals(t, got)
	if !got.Total.Equal(decimal.NewFromInt(17)) {
		t.Fatalf("total = %s, want 17", got.Total)
	}
}

func TestApplyEditModeSkipsPersistence(t *testing.T) {
	store := &fakeStore{}
	r := NewReconciler(store, logger.NewNopLogger())

	got := r.Apply(context.Background(), ModeEditOrder, sampleDraft(), domain.ExtractionPatch{CustomerName: str("Sara")})

	if got.CustomerName != "Sara" {
		t.Fatalf("customer name = %q", got.CustomerName)
	}
	if len(store.saved) != 0 {
		t.Fatalf("edit mode must not touch the draft slot, got %d saves", len(store.saved))
	}
}

func TestApplySaveFailureIsNotFatal(t *testing.T) {
	r := NewReconciler(&fakeStore{saveErr: errors.New("disk full")}, logger.NewNopLogger())

	got := r.Apply(context.Background(), ModeNewOrder, domain.OrderDraft{}, domain.ExtractionPatch{
		Items: []domain.OrderItem{item("Pain", 2, "2")},
	})

	assertTotals(t, got)
	if !got.Total.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("total = %s", got.Total)
	}
}

func assertSameDraft(t *testing.T, got, want domain.OrderDraft) {
	t.Helper()

	if got.CustomerName != want.CustomerName || got.PhoneNumber != want.PhoneNumber ||
		got.DeliveryAddress != want.DeliveryAddress {
		t.Fatalf("scalars differ: got %+v, want %+v", got, want)
	}
	if (got.DeliveryDate == nil) != (want.DeliveryDate == nil) ||
		(got.DeliveryDate != nil && !got.DeliveryDate.Equal(*want.DeliveryDate)) {
		t.Fatalf("delivery date = %v, want %v", got.DeliveryDate, want.DeliveryDate)
	}
	if len(got.Items) != len(want.Items) {
		t.Fatalf("got %d items, want %d", len(got.Items), len(want.Items))
	}
	for i := range want.Items {
		g, w := got.Items[i], want.Items[i]
		if g.Product != w.Product || g.Quantity != w.Quantity ||
			!g.UnitPrice.Equal(w.UnitPrice) || !g.Total.Equal(w.Total) {
			t.Fatalf("item %d = %+v, want %+v", i, g, w)
		}
	}
	if !got.Total.Equal(want.Total) {
		t.Fatalf("total = %s, want %s", got.Total, want.Total)
	}
}
