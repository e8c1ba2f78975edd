package http

import (
	"encoding/json"
	"net/http"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/extract"
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
)

const (
	maxJSONBody = 1 << 20
	maxScans    = 10
)

type DraftHandler struct {
	draftUsecase usecase.DraftUC
	logger       logger.Logger
}

func NewDraftHandler(draftUsecase usecase.DraftUC, logger logger.Logger) *DraftHandler {
	return &DraftHandler{draftUsecase: draftUsecase, logger: logger}
}

// ScansRequest — ответы распознавания фотографий заказа, по одному на фото.
// Элемент может быть объектом, строкой с JSON или объектом с полем error.
type ScansRequest struct {
	Scans []json.RawMessage `json:"scans" swaggertype:"array,object"`
}

// getDraft
//
//	@Summary	Текущий черновик заказа
//	@Tags		draft
//	@Produce	json
//	@Success	200	{object}	DraftResponse
//	@Router		/draft [get]
func (d *DraftHandler) getDraft(w http.ResponseWriter, r *http.Request) {
	res, err := d.draftUsecase.GetDraft(r.Context())
	if err != nil {
		d.logger.Errorf(err, "get draft")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newDraftResponse(res))
}

// patchDraft
//
//	@Summary		Ручное изменение черновика
//	@Description	Отсутствующие поля не меняются, пустая строка очищает поле, items заменяет позиции
//	@Tags			draft
//	@Accept			json
//	@Produce		json
//	@Param			patch	body		PatchRequest	true	"Изменения"
//	@Success		200		{object}	DraftResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/draft [patch]
func (d *DraftHandler) patchDraft(w http.ResponseWriter, r *http.Request) {
	var req PatchRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		d.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	patch, err := req.ToDomain()
	if err != nil {
		d.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := d.draftUsecase.ApplyEdit(r.Context(), patch)
	if err != nil {
		d.logger.Errorf(err, "apply edit")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newDraftResponse(res))
}

// applyTranscript
//
//	@Summary		Заполнение черновика по диктовке
//	@Description	Извлекает имя, телефон, дату и позиции из расшифровки речи
//	@Tags			draft
//	@Accept			json
//	@Produce		json
//	@Param			transcript	body		TranscriptRequest	true	"Расшифровка"
//	@Success		200			{object}	DraftResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/draft/transcript [post]
func (d *DraftHandler) applyTranscript(w http.ResponseWriter, r *http.Request) {
	var req TranscriptRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		d.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := d.draftUsecase.ApplyTranscript(r.Context(), req.Text)
	if err != nil {
		d.logger.Warnf("apply transcript: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newDraftResponse(res))
}

// applyScans
//
//	@Summary		Заполнение черновика по фото заказа
//	@Description	Сводит результаты распознавания нескольких фотографий
//	@Tags			draft
//	@Accept			json
//	@Produce		json
//	@Param			scans	body		ScansRequest	true	"Результаты распознавания"
//	@Success		200		{object}	DraftResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/draft/scans [post]
func (d *DraftHandler) applyScans(w http.ResponseWriter, r *http.Request) {
	var req ScansRequest
	if err := decodeJSON(w, r, maxScans*maxJSONBody, &req); err != nil {
		d.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if len(req.Scans) == 0 {
		WriteError(w, e.ErrMissingFields)
		return
	}
	if len(req.Scans) > maxScans {
		WriteError(w, e.ErrTooManyImages)
		return
	}

	outcomes := make([]domain.ScanOutcome, 0, len(req.Scans))
	for _, raw := range req.Scans {
		res, err := extract.ParseScanResult(raw)
		outcomes = append(outcomes, domain.ScanOutcome{Result: res, Err: err})
	}

	res, err := d.draftUsecase.ApplyScans(r.Context(), outcomes)
	if err != nil {
		d.logger.Errorf(err, "apply scans")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newDraftResponse(res))
}

// submitDraft
//
//	@Summary		Оформление заказа из черновика
//	@Description	Проверяет черновик, создаёт заказ и очищает черновик
//	@Tags			draft
//	@Accept			json
//	@Produce		json
//	@Param			submit	body		SubmitRequest	false	"Источник заказа (admin по умолчанию)"
//	@Success		201		{object}	OrderDTO
//	@Failure		400		{object}	ErrorResponse
//	@Router			/draft/submit [post]
func (d *DraftHandler) submitDraft(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
			d.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
			WriteError(w, err)
			return
		}
	}

	source, err := req.ToDomain()
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := d.draftUsecase.Submit(r.Context(), source)
	if err != nil {
		d.logger.Warnf("submit draft: %v", err)
		WriteError(w, err)
		return
	}

	d.logger.Infof("order %s created from draft", order.ID)
	WriteSuccess(w, http.StatusCreated, newOrderDTO(order))
}

// discardDraft
//
//	@Summary	Сброс черновика
//	@Tags		draft
//	@Success	204
//	@Router		/draft [delete]
func (d *DraftHandler) discardDraft(w http.ResponseWriter, r *http.Request) {
	if err := d.draftUsecase.Discard(r.Context()); err != nil {
		d.logger.Errorf(err, "discard draft")
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
