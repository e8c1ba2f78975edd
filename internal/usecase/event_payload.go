package usecase

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
)

type orderEventJSON struct {
	EventID    string     `json:"eventId"`
	EventType  string     `json:"eventType"`
	OrderID    string     `json:"orderId"`
	OccurredAt time.Time  `json:"occurredAt"`
	Order      *orderJSON `json:"order"`
}

type orderJSON struct {
	ID               string          `json:"id"`
	CustomerName     string          `json:"customerName"`
	PhoneNumber      string          `json:"phoneNumber"`
	DeliveryAddress  string          `json:"deliveryAddress"`
	DeliveryDate     *string         `json:"deliveryDate"`
	Items            []orderItemJSON `json:"items"`
	Total            json.Number     `json:"total"`
	Delivered        bool            `json:"delivered"`
	DeliveryImageKey string          `json:"deliveryImageKey,omitempty"`
	Source           string          `json:"source"`
}

type orderItemJSON struct {
	Product   string      `json:"product"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
	Total     json.Number `json:"total"`
}

// encodeOrderEvent сериализует событие в значение сообщения Kafka.
func encodeOrderEvent(event *domain.OrderEvent) ([]byte, error) {
	msg := orderEventJSON{
		EventID:    event.ID.String(),
		EventType:  string(event.Type),
		OrderID:    event.OrderID.String(),
		OccurredAt: event.OccurredAt,
	}

	if o := event.Order; o != nil {
		msg.Order = &orderJSON{
			ID:               o.ID.String(),
			CustomerName:     o.CustomerName,
			PhoneNumber:      o.PhoneNumber,
			DeliveryAddress:  o.DeliveryAddress,
			Items:            make([]orderItemJSON, 0, len(o.Items)),
			Total:            json.Number(o.Total.String()),
			Delivered:        o.Delivered,
			DeliveryImageKey: o.DeliveryImageKey,
			Source:           string(o.Source),
		}
		if o.DeliveryDate != nil {
			date := domain.FormatDate(*o.DeliveryDate)
			msg.Order.DeliveryDate = &date
		}
		for _, it := range o.Items {
			msg.Order.Items = append(msg.Order.Items, orderItemJSON{
				Product:   it.Product,
				Quantity:  it.Quantity,
				UnitPrice: json.Number(it.UnitPrice.String()),
				Total:     json.Number(it.Total.String()),
			})
		}
	}

	return json.Marshal(msg)
}
