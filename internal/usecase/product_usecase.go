package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/catalog"
	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
)

// ProductUseCase управляет каталогом товаров и его кэшем.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CatalogCacheRepository
	logger      logger.Logger
}

func NewProductUC(productRepo ProductRepository, cacheRepo CatalogCacheRepository, logger logger.Logger) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// List возвращает товары каталога, отсортированные по цене. Сначала смотрит в кэш.
func (p *ProductUseCase) List(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.List"

	cached, err := p.cacheRepo.GetCatalog(ctx)
	if err != nil {
		p.logger.Warnf("catalog cache read failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление каталога в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetCatalog(bgCtx, products); err != nil {
			p.logger.Warnf("Failed to cache catalog in background: %v", e.Wrap(op, err))
		}
	}()

	return products, nil
}

// Catalog строит каталог для сопоставления упоминаний товаров.
func (p *ProductUseCase) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	products, err := p.List(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.New(products), nil
}

// Upsert идемпотентно создаёт товар или обновляет цену по названию.
func (p *ProductUseCase) Upsert(ctx context.Context, req *UpsertProductReq) (*UpsertProductRes, error) {
	const op = "ProductUseCase.Upsert"

	if err := validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := p.productRepo.Upsert(ctx, domain.NewProduct(strings.TrimSpace(req.Name), req.Price))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !res.NoChanges {
		p.invalidate(ctx, op)
	}

	return res, nil
}

// Delete убирает товар из каталога. Строки уже оформленных заказов хранят название копией и не меняются.
func (p *ProductUseCase) Delete(ctx context.Context, id int64) error {
	const op = "ProductUseCase.Delete"

	if id <= 0 {
		return e.Wrap(op, e.ErrInvalidID)
	}

	if err := p.productRepo.Archive(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, op)
	return nil
}

func (p *ProductUseCase) invalidate(ctx context.Context, op string) {
	if err := p.cacheRepo.InvalidateCatalog(ctx); err != nil {
		p.logger.Warnf("Failed to invalidate catalog cache: %v", e.Wrap(op, err))
	}
}

// validateProduct проверяет название и цену: цена положительна и не точнее сантима.
func validateProduct(req *UpsertProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if !req.Price.IsPositive() {
		return e.ErrInvalidPrice
	}

	if !req.Price.Equal(req.Price.Round(2)) {
		return e.ErrPricePrecision
	}

	return nil
}
