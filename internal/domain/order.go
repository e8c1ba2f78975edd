package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderSource — откуда пришёл заказ. Внешняя система может передать свою метку,
// без неё синхронизированный заказ получает OrderSourceSync.
type OrderSource string

const (
	OrderSourceAdmin  OrderSource = "admin"
	OrderSourcePublic OrderSource = "public"
	OrderSourceSync   OrderSource = "v0_sync"
)

// OrderItem — строка заказа. Product хранит название товара копией, а не ссылкой на каталог,
// поэтому строка переживает удаление товара.
type OrderItem struct {
	Product   string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

func NewOrderItem(product string, quantity int, unitPrice decimal.Decimal) OrderItem {
	item := OrderItem{
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	item.Recalculate()

	return item
}

// Recalculate пересчитывает Total = Quantity * UnitPrice.
func (i *OrderItem) Recalculate() {
	i.Total = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderDraft — заказ в процессе заполнения формы. Total всегда выводится из строк.
type OrderDraft struct {
	CustomerName    string
	PhoneNumber     string
	DeliveryAddress string
	DeliveryDate    *time.Time
	Items           []OrderItem
	Total           decimal.Decimal
}

// Recalculate пересчитывает суммы всех строк и итог заказа.
func (d *OrderDraft) Recalculate() {
	total := decimal.Zero
	for i := range d.Items {
		d.Items[i].Recalculate()
		total = total.Add(d.Items[i].Total)
	}
	d.Total = total
}

// Clone возвращает глубокую копию черновика.
func (d OrderDraft) Clone() OrderDraft {
	out := d
	if d.DeliveryDate != nil {
		date := *d.DeliveryDate
		out.DeliveryDate = &date
	}
	if d.Items != nil {
		out.Items = append([]OrderItem(nil), d.Items...)
	}

	return out
}

// Order — оформленный заказ.
type Order struct {
	ID uuid.UUID
	OrderDraft
	Delivered        bool
	DeliveryImageKey string
	Source           OrderSource
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

func NewOrder(draft OrderDraft, source OrderSource) *Order {
	return &Order{
		ID:         uuid.New(),
		OrderDraft: draft.Clone(),
		Source:     source,
	}
}
