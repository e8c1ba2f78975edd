// Package draft применяет извлечённые или введённые вручную изменения к черновику заказа
// и сохраняет результат в единственный слот черновика.
package draft

import (
	"context"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
)

// Mode определяет, чей черновик правится.
type Mode int

const (
	// ModeNewOrder — форма нового заказа, результат сохраняется в слот черновика.
	ModeNewOrder Mode = iota
	// ModeEditOrder — правка уже оформленного заказа, слот черновика не трогается.
	ModeEditOrder
)

func (m Mode) String() string {
	if m == ModeEditOrder {
		return "edit-order"
	}
	return "new-order"
}

// Store — слот черновика.
type Store interface {
	Save(ctx context.Context, draft domain.OrderDraft) error
	Load(ctx context.Context) (*domain.OrderDraft, bool)
	Clear(ctx context.Context) error
}

type Reconciler struct {
	store Store
	log   logger.Logger
}

func NewReconciler(store Store, log logger.Logger) *Reconciler {
	return &Reconciler{store: store, log: log}
}

// Apply накладывает патч на черновик и возвращает новый черновик; current не изменяется.
// Суммы пересчитываются всегда. Ошибка сохранения только логируется: черновик — удобство,
// а не источник истины.
func (r *Reconciler) Apply(ctx context.Context, mode Mode, current domain.OrderDraft, patch domain.ExtractionPatch) domain.OrderDraft {
	next := Merge(current, patch)

	if mode == ModeEditOrder {
		return next
	}

	if err := r.store.Save(ctx, next); err != nil {
		r.log.Errorf(err, "не удалось сохранить черновик заказа")
	}

	return next
}

// Merge — чистая часть Apply без сохранения.
func Merge(current domain.OrderDraft, patch domain.ExtractionPatch) domain.OrderDraft {
	next := current.Clone()

	if patch.CustomerName != nil {
		next.CustomerName = *patch.CustomerName
	}
	if patch.PhoneNumber != nil {
		next.PhoneNumber = *patch.PhoneNumber
	}
	if patch.DeliveryAddress != nil {
		next.DeliveryAddress = *patch.DeliveryAddress
	}
	switch {
	case patch.DeliveryDate != nil:
		date := *patch.DeliveryDate
		next.DeliveryDate = &date
	case patch.ClearDeliveryDate:
		next.DeliveryDate = nil
	}

	// строки из патча заменяют весь список, а не дописываются к нему
	if len(patch.Items) > 0 {
		next.Items = append([]domain.OrderItem(nil), patch.Items...)
	}

	next.Recalculate()

	return next
}
