package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/infrastructure"
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/jitter"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/google/uuid"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// MinioInfrastructure загружает фото доставок в MinIO и подчищает их,
// если заказ так и не был отмечен доставленным.
type MinioInfrastructure struct {
	minioRepo   usecase.ImageRepository
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	now         func() time.Time
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo:   minioRepo,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		now:         time.Now,
	}
}

// UploadDeliveryImage сохраняет фото под ключом <orderID>-<unix>.<ext> и возвращает ключ объекта.
func (m *MinioInfrastructure) UploadDeliveryImage(ctx context.Context, orderID uuid.UUID, image *usecase.DeliveryImage) (string, error) {
	const op = "MinioInfrastructure.UploadDeliveryImage"

	if image == nil || len(image.Data) == 0 {
		return "", e.Wrap(op, e.ErrStatusBadRequest)
	}

	ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err))
	}

	objKey := fmt.Sprintf("%s-%d.%s", orderID, m.now().Unix(), ext)
	key, err := m.minioRepo.Upload(ctx, domain.NewImage(objKey, image.Data, image.MimeType))
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return key, nil
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой между попытками.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded keys", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.minioRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: give up deleting key=%s", op, key)
				break
			}

			delay := jitter.ExponentialBackoff(time.Second, 4*time.Second, attempt, jitter.DefaultJitter)
			if !jitter.Sleep(ctx.Done(), delay) {
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
