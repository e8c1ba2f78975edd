package converter

import (
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// OrderConverter преобразует заказы вместе со строками.
type OrderConverter interface {
	ToModel(entity *domain.Order) *OrderModel
	ToEntity(model *OrderModel) *domain.Order
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

// ToCents переводит сумму в дирхамах в целые сантимы.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents переводит сантимы в сумму в дирхамах.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func ConvertPointerTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}
	return &ProductModel{
		ID:         entity.ID,
		Name:       entity.Name,
		Price:      ToCents(entity.Price),
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  ConvertPointerTime(entity.UpdatedAt),
		IsArchived: entity.IsArchived,
	}
}

func (ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:         model.ID,
		Name:       model.Name,
		Price:      FromCents(model.Price),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  ConvertPointerTime(model.UpdatedAt),
		IsArchived: model.IsArchived,
	}
}

type OrderConverterImpl struct{}

func (OrderConverterImpl) ToModel(entity *domain.Order) *OrderModel {
	if entity == nil {
		return nil
	}

	model := &OrderModel{
		ID:               entity.ID,
		CustomerName:     entity.CustomerName,
		PhoneNumber:      entity.PhoneNumber,
		DeliveryAddress:  entity.DeliveryAddress,
		DeliveryDate:     ConvertPointerTime(entity.DeliveryDate),
		Total:            ToCents(entity.Total),
		Delivered:        entity.Delivered,
		DeliveryImageKey: entity.DeliveryImageKey,
		Source:           string(entity.Source),
		CreatedAt:        entity.CreatedAt,
		UpdatedAt:        ConvertPointerTime(entity.UpdatedAt),
		Items:            make([]OrderItemModel, 0, len(entity.Items)),
	}

	for i, it := range entity.Items {
		model.Items = append(model.Items, OrderItemModel{
			OrderID:   entity.ID,
			Position:  i,
			Product:   it.Product,
			Quantity:  it.Quantity,
			UnitPrice: ToCents(it.UnitPrice),
			Total:     ToCents(it.Total),
		})
	}

	return model
}

func (OrderConverterImpl) ToEntity(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}

	order := &domain.Order{
		ID: model.ID,
		OrderDraft: domain.OrderDraft{
			CustomerName:    model.CustomerName,
			PhoneNumber:     model.PhoneNumber,
			DeliveryAddress: model.DeliveryAddress,
			Total:           FromCents(model.Total),
		},
		Delivered:        model.Delivered,
		DeliveryImageKey: model.DeliveryImageKey,
		Source:           domain.OrderSource(model.Source),
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        ConvertPointerTime(model.UpdatedAt),
	}

	if model.DeliveryDate != nil {
		d := model.DeliveryDate
		date := domain.Date(d.Year(), d.Month(), d.Day())
		order.DeliveryDate = &date
	}

	for _, it := range model.Items {
		order.Items = append(order.Items, domain.OrderItem{
			Product:   it.Product,
			Quantity:  it.Quantity,
			UnitPrice: FromCents(it.UnitPrice),
			Total:     FromCents(it.Total),
		})
	}

	return order
}

type OutboxEventConverterImpl struct{}

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		OrderID:     entity.OrderID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: ConvertPointerTime(entity.ProcessedAt),
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   domain.OrderEventType(model.EventType),
		OrderID:     model.OrderID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: ConvertPointerTime(model.ProcessedAt),
	}
}

func (c OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	out := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		out = append(out, c.ToEntity(m))
	}
	return out
}
