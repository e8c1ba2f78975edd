package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога пекарни
type Product struct {
	ID         int64
	Name       string
	Price      decimal.Decimal // цена за единицу, в дирхамах
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	IsArchived bool
}

func NewProduct(name string, price decimal.Decimal) *Product {
	return &Product{
		Name:  name,
		Price: price,
	}
}
