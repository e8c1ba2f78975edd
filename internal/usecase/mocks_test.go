package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/catalog"
	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/google/uuid"
)

// Mock DraftRepository
type mockDraftRepo struct {
	mu      sync.Mutex
	draft   *domain.OrderDraft
	saves   int
	clears  int
	saveErr error
}

func (m *mockDraftRepo) Save(_ context.Context, d domain.OrderDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c := d.Clone()
	m.draft = &c
	m.saves++
	return nil
}

func (m *mockDraftRepo) Load(context.Context) (*domain.OrderDraft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.draft == nil {
		return nil, false
	}
	c := m.draft.Clone()
	return &c, true
}

func (m *mockDraftRepo) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = nil
	m.clears++
	return nil
}

// Mock CatalogProvider
type mockCatalog struct {
	products []domain.Product
	err      error
}

func (m *mockCatalog) Catalog(context.Context) (*catalog.Catalog, error) {
	if m.err != nil {
		return nil, m.err
	}
	return catalog.New(m.products), nil
}

// Mock OrderRepository
type mockOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]domain.Order
	createErr error
	from, to  time.Time
}

func newMockOrderRepo(orders ...domain.Order) *mockOrderRepo {
	m := &mockOrderRepo{orders: make(map[uuid.UUID]domain.Order)}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *o
	created.CreatedAt = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	m.orders[o.ID] = created
	return &created, nil
}

func (m *mockOrderRepo) Update(_ context.Context, o *domain.Order) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return nil, e.ErrOrderNotFound
	}
	m.orders[o.ID] = *o
	updated := *o
	return &updated, nil
}

func (m *mockOrderRepo) MarkDelivered(_ context.Context, id uuid.UUID, imageKey string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	o.Delivered = true
	o.DeliveryImageKey = imageKey
	m.orders[id] = o
	return &o, nil
}

func (m *mockOrderRepo) Get(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	o.OrderDraft = o.OrderDraft.Clone()
	return &o, nil
}

func (m *mockOrderRepo) List(_ context.Context, filter OrderFilter) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if filter.Delivered == nil || *filter.Delivered == o.Delivered {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return e.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepo) ListUndeliveredBetween(_ context.Context, from, to time.Time) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.from, m.to = from, to
	var out []domain.Order
	for _, o := range m.orders {
		if o.Delivered || o.DeliveryDate == nil {
			continue
		}
		if !o.DeliveryDate.Before(from) && o.DeliveryDate.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Mock OutboxRepository
type mockOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
	err    error
}

func (m *mockOutboxRepo) Create(_ context.Context, ev *OutboxEvent) (*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	ev.ID = int64(len(m.events) + 1)
	m.events = append(m.events, ev)
	return ev, nil
}

func (m *mockOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (m *mockOutboxRepo) MarkAsProcessed(context.Context, int64) error { return nil }

func (m *mockOutboxRepo) MarkAsPending(context.Context, int64) error { return nil }

// Mock TxManager: выполняет fn без транзакции, фиксирует число вызовов.
type mockTx struct {
	calls int
}

func (m *mockTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// Mock ProductRepository
type mockProductRepo struct {
	mu        sync.Mutex
	products  []domain.Product
	listCalls int
	archived  []int64
	noChanges bool
}

func (m *mockProductRepo) List(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return append([]domain.Product(nil), m.products...), nil
}

func (m *mockProductRepo) Upsert(_ context.Context, p *domain.Product) (*UpsertProductRes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = int64(len(m.products) + 1)
	m.products = append(m.products, *p)
	return NewUpsertProductRes(p, m.noChanges), nil
}

func (m *mockProductRepo) Archive(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived = append(m.archived, id)
	return nil
}

// Mock CatalogCacheRepository
type mockCacheRepo struct {
	mu          sync.Mutex
	products    []domain.Product
	getErr      error
	invalidated int
	set         chan []domain.Product
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{set: make(chan []domain.Product, 1)}
}

func (m *mockCacheRepo) GetCatalog(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products, m.getErr
}

func (m *mockCacheRepo) SetCatalog(_ context.Context, products []domain.Product) error {
	m.mu.Lock()
	m.products = products
	m.mu.Unlock()
	select {
	case m.set <- products:
	default:
	}
	return nil
}

func (m *mockCacheRepo) InvalidateCatalog(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = nil
	m.invalidated++
	return nil
}

// Mock ImagesInfra
type mockImages struct {
	mu        sync.Mutex
	uploaded  []string
	cleaned   []string
	uploadErr error
}

func (m *mockImages) UploadDeliveryImage(_ context.Context, orderID uuid.UUID, img *DeliveryImage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	key := orderID.String() + "-1.jpg"
	m.uploaded = append(m.uploaded, key)
	return key, nil
}

func (m *mockImages) CleanupImages(keys []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleaned = append(m.cleaned, keys...)
}

// Mock Notifier
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	failOn   string
}

func (m *mockNotifier) Notify(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return errors.New("chat not found")
	}
	m.messages = append(m.messages, text)
	return nil
}

// Mock Metrics
type nopMetrics struct{}

func (nopMetrics) ObserveExtraction(string, bool) {}
func (nopMetrics) IncOrderEvent(string)           {}
func (nopMetrics) IncReminder(string)             {}
