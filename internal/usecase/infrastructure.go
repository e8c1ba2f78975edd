package usecase

import (
	"context"

	"github.com/google/uuid"
)

type ImagesInfra interface {
	UploadDeliveryImage(ctx context.Context, orderID uuid.UUID, image *DeliveryImage) (string, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// Notifier доставляет текст напоминания сотрудникам пекарни.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// TxManager выполняет fn в одной транзакции БД; репозитории берут её из контекста.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics — счётчики бизнес-операций.
type Metrics interface {
	ObserveExtraction(source string, extracted bool)
	IncOrderEvent(eventType string)
	IncReminder(status string)
}
