package http

import (
	"net/http"

	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts
//
//	@Summary	Каталог товаров
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	ProductDTO
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.List(r.Context())
	if err != nil {
		p.logger.Errorf(err, "list products")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductDTOs(products))
}

// upsertProduct
//
//	@Summary		Создание или изменение товара
//	@Description	Товар определяется по названию, повторный вызов с той же ценой ничего не меняет
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		UpsertProductRequest	true	"Товар"
//	@Success		200		{object}	UpsertProductResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) upsertProduct(w http.ResponseWriter, r *http.Request) {
	var req UpsertProductRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		p.logger.Warnf("%d %s: %q", http.StatusBadRequest, err.Error(), req.Price)
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.Upsert(r.Context(), usecase.NewUpsertProductReq(req.Name, price))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, UpsertProductResponse{
		Product: newProductDTO(res.Product),
		Changed: !res.NoChanges,
	})
}

// deleteProduct
//
//	@Summary	Удаление товара из каталога
//	@Tags		products
//	@Param		id	path	int	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.Delete(r.Context(), id); err != nil {
		p.logger.Warnf("delete product %d: %v", id, err)
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
