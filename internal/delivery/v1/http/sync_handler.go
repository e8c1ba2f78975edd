package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
)

const webhookSecretHeader = "X-Webhook-Secret"

// SyncHandler принимает заказы из внешних систем по общему секрету.
type SyncHandler struct {
	orderUsecase usecase.OrderUC
	secret       string
	logger       logger.Logger
}

func NewSyncHandler(orderUsecase usecase.OrderUC, secret string, logger logger.Logger) *SyncHandler {
	return &SyncHandler{orderUsecase: orderUsecase, secret: secret, logger: logger}
}

// requireSecret пропускает запрос только с верным X-Webhook-Secret.
// Без настроенного секрета отклоняется всё.
func (s *SyncHandler) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(webhookSecretHeader)
		if s.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
			s.logger.Warnf("sync webhook rejected: invalid secret, remote %s", r.RemoteAddr)
			WriteError(w, e.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// syncOrder
//
//	@Summary		Синхронизация заказа из внешней системы
//	@Description	Требует заголовок X-Webhook-Secret. Публикует order.created
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			X-Webhook-Secret	header		string				true	"Общий секрет"
//	@Param			order				body		SyncOrderRequest	true	"Заказ"
//	@Success		200					{object}	SyncOrderResponse
//	@Failure		400					{object}	ErrorResponse
//	@Failure		401					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Router			/orders/sync [post]
func (s *SyncHandler) syncOrder(w http.ResponseWriter, r *http.Request) {
	var req SyncOrderRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	syncReq, err := req.ToDomain()
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := s.orderUsecase.Sync(r.Context(), syncReq)
	if err != nil {
		s.logger.Errorf(err, "sync order")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, SyncOrderResponse{
		Success: true,
		Message: "Order synced successfully",
		OrderID: order.ID,
	})
}
