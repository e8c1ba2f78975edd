package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
)

const (
	maxDeliveryRequestSize = 20 << 20
	maxDeliveryImageSize   = 15 << 20
	maxMultipartMemory     = 32 << 20
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// listOrders
//
//	@Summary	Список заказов
//	@Tags		orders
//	@Produce	json
//	@Param		delivered	query		bool	false	"Фильтр по статусу доставки"
//	@Success	200			{array}		OrderDTO
//	@Failure	400			{object}	ErrorResponse
//	@Router		/orders [get]
func (o *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	var filter usecase.OrderFilter
	if raw := r.URL.Query().Get("delivered"); raw != "" {
		delivered, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, e.Wrap("delivered="+raw, e.ErrStatusBadRequest))
			return
		}
		filter.Delivered = &delivered
	}

	orders, err := o.orderUsecase.List(r.Context(), filter)
	if err != nil {
		o.logger.Errorf(err, "list orders")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderDTOs(orders))
}

// getOrder
//
//	@Summary	Заказ по id
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		string	true	"ID заказа"
//	@Success	200	{object}	OrderDTO
//	@Failure	404	{object}	ErrorResponse
//	@Router		/orders/{id} [get]
func (o *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderDTO(order))
}

// editOrder
//
//	@Summary		Изменение заказа
//	@Description	Черновик при этом не затрагивается
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"ID заказа"
//	@Param			patch	body		PatchRequest	true	"Изменения"
//	@Success		200		{object}	OrderDTO
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/orders/{id} [patch]
func (o *OrderHandler) editOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req PatchRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		o.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	patch, err := req.ToDomain()
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.Edit(r.Context(), id, patch)
	if err != nil {
		o.logger.Warnf("edit order %s: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderDTO(order))
}

// markDelivered
//
//	@Summary		Отметка о доставке
//	@Description	Фото доставки необязательно
//	@Tags			orders
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"ID заказа"
//	@Param			image	formData	file	false	"Фото доставки"
//	@Success		200		{object}	OrderDTO
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Router			/orders/{id}/delivered [post]
func (o *OrderHandler) markDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var image *usecase.DeliveryImage
	if r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxDeliveryRequestSize)

		if err := ensureMultipartForm(r, maxMultipartMemory); err != nil {
			o.logger.Warnf("%d %s: %s", http.StatusBadRequest, err.Error(), r.Header.Get("Content-Type"))
			WriteError(w, err)
			return
		}

		image, err = parseDeliveryImage(r.MultipartForm.File["image"], maxDeliveryImageSize)
		if err != nil {
			o.logger.Warnf("%s", err.Error())
			WriteError(w, err)
			return
		}
	}

	order, err := o.orderUsecase.MarkDelivered(r.Context(), usecase.NewMarkDeliveredReq(id, image))
	if err != nil {
		o.logger.Warnf("mark delivered %s: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderDTO(order))
}

// deleteOrder
//
//	@Summary	Удаление заказа
//	@Tags		orders
//	@Param		id	path	string	true	"ID заказа"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/orders/{id} [delete]
func (o *OrderHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := o.orderUsecase.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
