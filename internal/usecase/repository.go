package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/google/uuid"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Upsert(ctx context.Context, product *domain.Product) (*UpsertProductRes, error)
	Archive(ctx context.Context, id int64) error
}

// CatalogCacheRepository хранит снимок каталога. Промах кэша — (nil, nil).
type CatalogCacheRepository interface {
	GetCatalog(ctx context.Context) ([]domain.Product, error)
	SetCatalog(ctx context.Context, products []domain.Product) error
	InvalidateCatalog(ctx context.Context) error
}

// DraftRepository — слот черновика нового заказа.
type DraftRepository interface {
	Save(ctx context.Context, draft domain.OrderDraft) error
	Load(ctx context.Context) (*domain.OrderDraft, bool)
	Clear(ctx context.Context) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, imageKey string) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListUndeliveredBetween возвращает недоставленные заказы с датой доставки в [from, to).
	ListUndeliveredBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsPending(ctx context.Context, id int64) error
}

type StatisticsRepository interface {
	ProductStats(ctx context.Context) ([]domain.ProductStats, error)
	CustomerStats(ctx context.Context) ([]domain.CustomerStats, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
