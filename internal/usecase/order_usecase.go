package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/draft"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/google/uuid"
)

// OrderUseCase работает с оформленными заказами.
type OrderUseCase struct {
	orderRepo   OrderRepository
	outboxRepo  OutboxRepository
	imagesInfra ImagesInfra
	txManager   TxManager
	reconciler  *draft.Reconciler
	metrics     Metrics
	logger      logger.Logger
	now         func() time.Time
}

func NewOrderUC(
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	imagesInfra ImagesInfra,
	txManager TxManager,
	draftRepo DraftRepository,
	metrics Metrics,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		outboxRepo:  outboxRepo,
		imagesInfra: imagesInfra,
		txManager:   txManager,
		reconciler:  draft.NewReconciler(draftRepo, logger),
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

func (o *OrderUseCase) List(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	const op = "OrderUseCase.List"

	orders, err := o.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

func (o *OrderUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const op = "OrderUseCase.Get"

	order, err := o.orderRepo.Get(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// Edit правит оформленный заказ. Черновик нового заказа при этом не трогается.
func (o *OrderUseCase) Edit(ctx context.Context, id uuid.UUID, patch domain.ExtractionPatch) (*domain.Order, error) {
	const op = "OrderUseCase.Edit"

	order, err := o.orderRepo.Get(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	order.OrderDraft = o.reconciler.Apply(ctx, draft.ModeEditOrder, order.OrderDraft, patch)
	if err := ValidateOrder(order.OrderDraft); err != nil {
		return nil, e.Wrap(op, err)
	}

	var updated *domain.Order
	err = o.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		updated, err = o.orderRepo.Update(ctx, order)
		if err != nil {
			return err
		}

		return publishOrderEvent(ctx, o.outboxRepo, domain.NewOrderEvent(domain.OrderUpdated, updated, o.now()))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	o.metrics.IncOrderEvent(string(domain.OrderUpdated))

	return updated, nil
}

// Sync сохраняет заказ из внешней системы вместе с событием order.created.
// В отличие от оформления черновика строки без цены допустимы. Итог считается по строкам,
// а Total из запроса берётся, только если строки дают ноль.
func (o *OrderUseCase) Sync(ctx context.Context, req *SyncOrderReq) (*domain.Order, error) {
	const op = "OrderUseCase.Sync"

	if err := validateSyncOrder(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	source := req.Source
	if source == "" {
		source = domain.OrderSourceSync
	}

	order := domain.NewOrder(req.Draft, source)
	order.Delivered = req.Delivered
	order.Recalculate()
	switch {
	case order.Total.IsZero():
		order.Total = req.Total
	case !order.Total.Equal(req.Total):
		o.logger.Warnf("synced order total %s differs from items total %s, keeping items total", req.Total, order.Total)
	}

	var created *domain.Order
	err := o.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = o.orderRepo.Create(ctx, order)
		if err != nil {
			return err
		}

		return publishOrderEvent(ctx, o.outboxRepo, domain.NewOrderEvent(domain.OrderCreated, created, o.now()))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	o.metrics.IncOrderEvent(string(domain.OrderCreated))
	o.logger.Infof("order %s synced from %s", created.ID, created.Source)

	return created, nil
}

func validateSyncOrder(req *SyncOrderReq) error {
	if strings.TrimSpace(req.Draft.CustomerName) == "" {
		return e.ErrCustomerNameRequired
	}

	if strings.TrimSpace(req.Draft.PhoneNumber) == "" {
		return e.ErrPhoneRequired
	}

	if !req.Total.IsPositive() {
		return e.ErrInvalidTotal
	}

	for _, it := range req.Draft.Items {
		if strings.TrimSpace(it.Product) == "" || it.Quantity < 1 || it.UnitPrice.IsNegative() {
			return e.ErrInvalidItems
		}
	}

	return nil
}

// MarkDelivered отмечает заказ доставленным. Фото, если есть, сначала загружается в MinIO;
// при ошибке записи в БД загруженное фото удаляется в фоне.
func (o *OrderUseCase) MarkDelivered(ctx context.Context, req *MarkDeliveredReq) (*domain.Order, error) {
	const op = "OrderUseCase.MarkDelivered"

	if _, err := o.orderRepo.Get(ctx, req.OrderID); err != nil {
		return nil, e.Wrap(op, err)
	}

	var imageKey string
	if req.Image != nil {
		key, err := o.imagesInfra.UploadDeliveryImage(ctx, req.OrderID, req.Image)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		imageKey = key
	}

	var delivered *domain.Order
	err := o.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		delivered, err = o.orderRepo.MarkDelivered(ctx, req.OrderID, imageKey)
		if err != nil {
			return err
		}

		return publishOrderEvent(ctx, o.outboxRepo, domain.NewOrderEvent(domain.OrderDelivered, delivered, o.now()))
	})
	if err != nil {
		if imageKey != "" {
			o.logger.Warnf("Cleaning up orphaned delivery image after transaction failure. order_id: %s, error: %v",
				req.OrderID, e.Wrap(op, err))
			o.imagesInfra.CleanupImages([]string{imageKey})
		}
		return nil, e.Wrap(op, err)
	}
	o.metrics.IncOrderEvent(string(domain.OrderDelivered))

	return delivered, nil
}

func (o *OrderUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "OrderUseCase.Delete"

	if err := o.orderRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
