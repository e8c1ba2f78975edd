package usecase

import (
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DRAFT USECASE

// DraftRes — черновик после применения изменений.
// NothingExtracted означает, что из диктовки или сканов ничего не удалось извлечь и черновик не изменился.
type DraftRes struct {
	Draft            domain.OrderDraft
	NothingExtracted bool
}

// ORDER USECASE

// OrderFilter — фильтр списка заказов. Delivered == nil означает все заказы.
type OrderFilter struct {
	Delivered *bool
}

// DeliveryImage — фото доставки, загруженное через multipart/form-data.
type DeliveryImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// MarkDeliveredReq — отметка о доставке заказа, фото необязательно.
type MarkDeliveredReq struct {
	OrderID uuid.UUID
	Image   *DeliveryImage
}

// SyncOrderReq — заказ из внешней системы, пришедший через webhook.
// Total нужен на случай, когда строки не дают суммы (их нет или они без цен).
type SyncOrderReq struct {
	Draft     domain.OrderDraft
	Total     decimal.Decimal
	Delivered bool
	Source    domain.OrderSource
}

// PRODUCT USECASE

// UpsertProductReq — создание или обновление товара по названию.
type UpsertProductReq struct {
	Name  string
	Price decimal.Decimal
}

// REMINDER USECASE

// ReminderFailure — напоминание, которое не удалось отправить.
type ReminderFailure struct {
	OrderID uuid.UUID
	Error   string
}

// ReminderReport — итог одного прогона напоминаний.
type ReminderReport struct {
	DeliveryDate time.Time
	Found        int
	OrderIDs     []uuid.UUID
	Sent         int
	Dispatched   bool // false, если отправка не настроена
	Failures     []ReminderFailure
}

// INFRASTUCTURE

// OutboxStatus — состояние события в outbox.
type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

// OutboxEvent — событие заказа, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     uuid.UUID
	EventType   domain.OrderEventType
	OrderID     uuid.UUID
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// REPOSITORIES

type UpsertProductRes struct {
	Product   *domain.Product
	NoChanges bool
}

// MAPPERS
func NewUpsertProductRes(product *domain.Product, noChanges bool) *UpsertProductRes {
	return &UpsertProductRes{
		Product:   product,
		NoChanges: noChanges,
	}
}

func NewDraftRes(draft domain.OrderDraft, nothingExtracted bool) *DraftRes {
	return &DraftRes{
		Draft:            draft,
		NothingExtracted: nothingExtracted,
	}
}

func NewDeliveryImage(data []byte, mimeType string, size int64, name string) *DeliveryImage {
	return &DeliveryImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewMarkDeliveredReq(orderID uuid.UUID, image *DeliveryImage) *MarkDeliveredReq {
	return &MarkDeliveredReq{
		OrderID: orderID,
		Image:   image,
	}
}

func NewSyncOrderReq(draft domain.OrderDraft, total decimal.Decimal, delivered bool, source domain.OrderSource) *SyncOrderReq {
	return &SyncOrderReq{
		Draft:     draft,
		Total:     total,
		Delivered: delivered,
		Source:    source,
	}
}

func NewUpsertProductReq(name string, price decimal.Decimal) *UpsertProductReq {
	return &UpsertProductReq{
		Name:  name,
		Price: price,
	}
}

func NewOutboxEvent(event *domain.OrderEvent, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   event.ID,
		EventType: event.Type,
		OrderID:   event.OrderID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: event.OccurredAt,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}
