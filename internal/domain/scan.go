package domain

import "github.com/shopspring/decimal"

// ScanResult — ответ внешнего распознавания одной фотографии заказа. Любое поле может отсутствовать.
type ScanResult struct {
	CustomerName *string
	PhoneNumber  *string
	DeliveryDate *string // ISO-дата YYYY-MM-DD
	Items        []ScanItem
}

type ScanItem struct {
	Product   string
	Quantity  *decimal.Decimal
	UnitPrice *decimal.Decimal
	Total     *decimal.Decimal
}

// ScanOutcome — результат вызова распознавания для одной фотографии: либо Result, либо Err.
type ScanOutcome struct {
	Result *ScanResult
	Err    error
}
