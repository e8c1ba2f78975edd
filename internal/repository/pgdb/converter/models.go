package converter

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID         int64      `db:"id"`
	Name       string     `db:"name"`
	Price      int64      `db:"price"` // сантимы
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
	IsArchived bool       `db:"is_archived"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID               uuid.UUID  `db:"id"`
	CustomerName     string     `db:"customer_name"`
	PhoneNumber      string     `db:"phone_number"`
	DeliveryAddress  string     `db:"delivery_address"`
	DeliveryDate     *time.Time `db:"delivery_date"`
	Total            int64      `db:"total"`
	Delivered        bool       `db:"delivered"`
	DeliveryImageKey string     `db:"delivery_image_key"`
	Source           string     `db:"source"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
	Items            []OrderItemModel
}

// OrderItemModel представляет запись таблицы order_items в PostgreSQL.
type OrderItemModel struct {
	OrderID   uuid.UUID `db:"order_id"`
	Position  int       `db:"position"`
	Product   string    `db:"product"`
	Quantity  int       `db:"quantity"`
	UnitPrice int64     `db:"unit_price"`
	Total     int64     `db:"total"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     uuid.UUID  `db:"event_id"`
	EventType   string     `db:"event_type"`
	OrderID     uuid.UUID  `db:"order_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
