package converter

import (
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/shopspring/decimal"
)

type DraftConverter interface {
	ToModel(draft domain.OrderDraft) DraftModel
	ToDomain(model DraftModel) (domain.OrderDraft, error)
}

type draftConverter struct{}

func NewDraftConverter() DraftConverter {
	return draftConverter{}
}

func (draftConverter) ToModel(draft domain.OrderDraft) DraftModel {
	model := DraftModel{
		CustomerName:    draft.CustomerName,
		PhoneNumber:     draft.PhoneNumber,
		DeliveryAddress: draft.DeliveryAddress,
		Items:           make([]DraftItemModel, 0, len(draft.Items)),
	}

	if draft.DeliveryDate != nil {
		date := domain.FormatDate(*draft.DeliveryDate)
		model.DeliveryDate = &date
	}

	for _, it := range draft.Items {
		model.Items = append(model.Items, DraftItemModel{
			Product:   it.Product,
			Quantity:  it.Quantity,
			UnitPrice: json.Number(it.UnitPrice.String()),
			Total:     json.Number(it.Total.String()),
		})
	}

	return model
}

// ToDomain восстанавливает черновик. Ошибка означает, что сохранённое значение не похоже на черновик.
func (draftConverter) ToDomain(model DraftModel) (domain.OrderDraft, error) {
	draft := domain.OrderDraft{
		CustomerName:    model.CustomerName,
		PhoneNumber:     model.PhoneNumber,
		DeliveryAddress: model.DeliveryAddress,
	}

	if model.DeliveryDate != nil && *model.DeliveryDate != "" {
		date, err := domain.ParseDate(*model.DeliveryDate)
		if err != nil {
			return domain.OrderDraft{}, err
		}
		draft.DeliveryDate = &date
	}

	for i, it := range model.Items {
		price, err := decimal.NewFromString(it.UnitPrice.String())
		if err != nil {
			return domain.OrderDraft{}, fmt.Errorf("item %d: unit price: %w", i, err)
		}
		draft.Items = append(draft.Items, domain.NewOrderItem(it.Product, it.Quantity, price))
	}

	draft.Recalculate()

	return draft, nil
}
