package converter

import (
	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/shopspring/decimal"
)

type CatalogConverter interface {
	ToRedisModel(products []domain.Product) *CatalogRedisModel
	ToDomain(model *CatalogRedisModel) []domain.Product
}

type catalogConverter struct{}

func NewCatalogConverter() CatalogConverter {
	return catalogConverter{}
}

func (catalogConverter) ToRedisModel(products []domain.Product) *CatalogRedisModel {
	model := &CatalogRedisModel{Products: make([]ProductRedisModel, 0, len(products))}
	for _, p := range products {
		model.Products = append(model.Products, ProductRedisModel{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price.Shift(2).Round(0).IntPart(),
		})
	}

	return model
}

func (catalogConverter) ToDomain(model *CatalogRedisModel) []domain.Product {
	products := make([]domain.Product, 0, len(model.Products))
	for _, p := range model.Products {
		products = append(products, domain.Product{
			ID:    p.ID,
			Name:  p.Name,
			Price: decimal.New(p.Price, -2),
		})
	}

	return products
}
