package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStats struct {
	Product       string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
	OrderCount    int64
}

type CustomerStats struct {
	CustomerName  string
	PhoneNumber   string
	OrderCount    int64
	TotalSpent    decimal.Decimal
	LastOrderDate *time.Time
}
