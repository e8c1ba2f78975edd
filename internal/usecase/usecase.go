package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/catalog"
	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/google/uuid"
)

type DraftUC interface {
	GetDraft(ctx context.Context) (*DraftRes, error)
	ApplyEdit(ctx context.Context, patch domain.ExtractionPatch) (*DraftRes, error)
	ApplyTranscript(ctx context.Context, transcript string) (*DraftRes, error)
	ApplyScans(ctx context.Context, outcomes []domain.ScanOutcome) (*DraftRes, error)
	Submit(ctx context.Context, source domain.OrderSource) (*domain.Order, error)
	Discard(ctx context.Context) error
}

type OrderUC interface {
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Edit(ctx context.Context, id uuid.UUID, patch domain.ExtractionPatch) (*domain.Order, error)
	MarkDelivered(ctx context.Context, req *MarkDeliveredReq) (*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Sync(ctx context.Context, req *SyncOrderReq) (*domain.Order, error)
}

type ProductUC interface {
	List(ctx context.Context) ([]domain.Product, error)
	Upsert(ctx context.Context, req *UpsertProductReq) (*UpsertProductRes, error)
	Delete(ctx context.Context, id int64) error
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}

type StatisticsUC interface {
	ProductStats(ctx context.Context) ([]domain.ProductStats, error)
	CustomerStats(ctx context.Context) ([]domain.CustomerStats, error)
}

type ReminderUC interface {
	Run(ctx context.Context, now time.Time) (*ReminderReport, error)
}

// CatalogProvider отдаёт текущий каталог для сопоставления товаров.
type CatalogProvider interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}
