package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/catalog"
	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/draft"
	"github.com/DRSN-tech/bakery-orders/internal/extract"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
)

// DraftUseCase ведёт черновик нового заказа: ручные правки, диктовка, сканы и оформление.
type DraftUseCase struct {
	draftRepo  DraftRepository
	reconciler *draft.Reconciler
	catalog    CatalogProvider
	orderRepo  OrderRepository
	outboxRepo OutboxRepository
	txManager  TxManager
	metrics    Metrics
	logger     logger.Logger
	now        func() time.Time
}

func NewDraftUC(
	draftRepo DraftRepository,
	catalog CatalogProvider,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	metrics Metrics,
	logger logger.Logger,
) *DraftUseCase {
	return &DraftUseCase{
		draftRepo:  draftRepo,
		reconciler: draft.NewReconciler(draftRepo, logger),
		catalog:    catalog,
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// GetDraft возвращает сохранённый черновик или пустой.
func (d *DraftUseCase) GetDraft(ctx context.Context) (*DraftRes, error) {
	return NewDraftRes(d.current(ctx), false), nil
}

// ApplyEdit применяет ручную правку формы.
func (d *DraftUseCase) ApplyEdit(ctx context.Context, patch domain.ExtractionPatch) (*DraftRes, error) {
	next := d.reconciler.Apply(ctx, draft.ModeNewOrder, d.current(ctx), patch)
	return NewDraftRes(next, false), nil
}

// ApplyTranscript извлекает поля из расшифровки диктовки и применяет их к черновику.
func (d *DraftUseCase) ApplyTranscript(ctx context.Context, transcript string) (*DraftRes, error) {
	const op = "DraftUseCase.ApplyTranscript"

	if strings.TrimSpace(transcript) == "" {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	patch := extract.ExtractSpeech(transcript, d.loadCatalog(ctx), d.now())
	if patch.IsEmpty() {
		d.metrics.ObserveExtraction("speech", false)
		d.logger.Infof("nothing extracted from transcript")
		return NewDraftRes(d.current(ctx), true), nil
	}
	d.metrics.ObserveExtraction("speech", true)

	next := d.reconciler.Apply(ctx, draft.ModeNewOrder, d.current(ctx), patch)
	return NewDraftRes(next, false), nil
}

// ApplyScans сводит результаты распознавания фото и применяет их к черновику.
// Если ничего не извлечено, черновик не меняется и не сохраняется.
func (d *DraftUseCase) ApplyScans(ctx context.Context, outcomes []domain.ScanOutcome) (*DraftRes, error) {
	const op = "DraftUseCase.ApplyScans"

	if len(outcomes) == 0 {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	for i, out := range outcomes {
		if out.Err != nil {
			d.logger.Warnf("scan %d skipped: %v", i, out.Err)
		}
	}

	patch, ok := extract.MergeScans(outcomes, d.loadCatalog(ctx))
	d.metrics.ObserveExtraction("scan", ok)
	if !ok {
		d.logger.Infof("nothing extracted from %d scans", len(outcomes))
		return NewDraftRes(d.current(ctx), true), nil
	}

	next := d.reconciler.Apply(ctx, draft.ModeNewOrder, d.current(ctx), patch)
	return NewDraftRes(next, false), nil
}

// Submit проверяет черновик, сохраняет заказ вместе с событием order.created
// и очищает слот черновика.
func (d *DraftUseCase) Submit(ctx context.Context, source domain.OrderSource) (*domain.Order, error) {
	const op = "DraftUseCase.Submit"

	current := d.current(ctx)
	current.Recalculate()
	if err := ValidateOrder(current); err != nil {
		return nil, e.Wrap(op, err)
	}

	order := domain.NewOrder(current, source)
	var created *domain.Order
	err := d.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = d.orderRepo.Create(ctx, order)
		if err != nil {
			return err
		}

		return publishOrderEvent(ctx, d.outboxRepo, domain.NewOrderEvent(domain.OrderCreated, created, d.now()))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	d.metrics.IncOrderEvent(string(domain.OrderCreated))

	if err := d.draftRepo.Clear(ctx); err != nil {
		d.logger.Errorf(e.Wrap(op, err), "order %s saved but draft slot not cleared", created.ID)
	}

	return created, nil
}

// Discard отменяет черновик.
func (d *DraftUseCase) Discard(ctx context.Context) error {
	const op = "DraftUseCase.Discard"

	if err := d.draftRepo.Clear(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (d *DraftUseCase) current(ctx context.Context) domain.OrderDraft {
	if stored, ok := d.draftRepo.Load(ctx); ok {
		return *stored
	}
	return domain.OrderDraft{}
}

// loadCatalog не падает: без каталога товары просто не сопоставляются.
func (d *DraftUseCase) loadCatalog(ctx context.Context) *catalog.Catalog {
	cat, err := d.catalog.Catalog(ctx)
	if err != nil {
		d.logger.Warnf("catalog unavailable, products will not be matched: %v", err)
		return nil
	}
	return cat
}

// ValidateOrder — проверки перед оформлением заказа.
func ValidateOrder(o domain.OrderDraft) error {
	if strings.TrimSpace(o.CustomerName) == "" {
		return e.ErrCustomerNameRequired
	}

	if strings.TrimSpace(o.PhoneNumber) == "" {
		return e.ErrPhoneRequired
	}

	if len(o.Items) == 0 {
		return e.ErrNoItems
	}

	for _, it := range o.Items {
		if strings.TrimSpace(it.Product) == "" || it.Quantity < 1 || !it.UnitPrice.IsPositive() {
			return e.ErrInvalidItems
		}
	}

	return nil
}

// publishOrderEvent кладёт событие в outbox в текущей транзакции.
func publishOrderEvent(ctx context.Context, repo OutboxRepository, event *domain.OrderEvent) error {
	payload, err := encodeOrderEvent(event)
	if err != nil {
		return err
	}

	_, err = repo.Create(ctx, NewOutboxEvent(event, payload))
	return err
}
