package converter

import "encoding/json"

// DraftModel — сериализованный черновик в слоте. Цены и суммы хранятся JSON-числами,
// дата доставки — строкой YYYY-MM-DD или null.
type DraftModel struct {
	CustomerName    string           `json:"customerName"`
	PhoneNumber     string           `json:"phoneNumber"`
	DeliveryAddress string           `json:"deliveryAddress"`
	DeliveryDate    *string          `json:"deliveryDate"`
	Items           []DraftItemModel `json:"items"`
}

type DraftItemModel struct {
	Product   string      `json:"product"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
	Total     json.Number `json:"total"`
}
