package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/bakery-orders/internal/catalog"
	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/shopspring/decimal"
)

// scanResultJSON — форма ответа распознавания фото заказа.
type scanResultJSON struct {
	CustomerName *string        `json:"customerName"`
	PhoneNumber  *string        `json:"phoneNumber"`
	DeliveryDate *string        `json:"deliveryDate"`
	Items        []scanItemJSON `json:"items"`
	Error        string         `json:"error"`
}

type scanItemJSON struct {
	Product   string           `json:"product"`
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	Total     *decimal.Decimal `json:"total"`
}

// ParseScanResult разбирает ответ распознавания одной фотографии. Принимает JSON-объект
// или строку с JSON, в том числе обёрнутым в markdown-блок ```json. Объект с полем error
// считается неудачным вызовом.
func ParseScanResult(raw []byte) (*domain.ScanResult, error) {
	body := strings.TrimSpace(string(raw))

	var wrapped string
	if strings.HasPrefix(body, `"`) {
		if err := json.Unmarshal([]byte(body), &wrapped); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		body = wrapped
	}
	body = strings.TrimSpace(fenceRe.ReplaceAllString(body, ""))

	var dto scanResultJSON
	if err := json.Unmarshal([]byte(body), &dto); err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}
	if dto.Error != "" {
		return nil, errors.New(dto.Error)
	}

	res := &domain.ScanResult{
		CustomerName: dto.CustomerName,
		PhoneNumber:  dto.PhoneNumber,
		DeliveryDate: dto.DeliveryDate,
		Items:        make([]domain.ScanItem, 0, len(dto.Items)),
	}
	for _, it := range dto.Items {
		res.Items = append(res.Items, domain.ScanItem{
			Product:   it.Product,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}

	return res, nil
}

// MergeScans сводит результаты нескольких фотографий в один патч в порядке входа.
// Для имени, телефона и даты берётся первое непустое значение, строки склеиваются без
// дедупликации. Неудачные результаты пропускаются. Второе значение false, если не нашлось
// ни имени, ни телефона, ни одной строки — извлекать нечего.
func MergeScans(outcomes []domain.ScanOutcome, cat *catalog.Catalog) (domain.ExtractionPatch, bool) {
	var patch domain.ExtractionPatch

	for _, out := range outcomes {
		if out.Err != nil || out.Result == nil {
			continue
		}
		res := out.Result

		if patch.CustomerName == nil {
			patch.CustomerName = nonEmpty(res.CustomerName)
		}
		if patch.PhoneNumber == nil {
			patch.PhoneNumber = nonEmpty(res.PhoneNumber)
		}
		if patch.DeliveryDate == nil {
			if s := nonEmpty(res.DeliveryDate); s != nil {
				if d, err := domain.ParseDate(*s); err == nil {
					patch.DeliveryDate = &d
				}
			}
		}

		for _, it := range res.Items {
			if item, ok := scanItem(it, cat); ok {
				patch.Items = append(patch.Items, item)
			}
		}
	}

	usable := patch.CustomerName != nil || patch.PhoneNumber != nil || len(patch.Items) > 0
	return patch, usable
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}

	return &v
}

// scanItem превращает строку скана в строку заказа. Название сверяется с каталогом;
// положительная цена берётся из скана, затем из total/quantity, затем из каталога.
func scanItem(it domain.ScanItem, cat *catalog.Catalog) (domain.OrderItem, bool) {
	name := strings.TrimSpace(it.Product)
	if name == "" {
		return domain.OrderItem{}, false
	}

	quantity := 1
	if it.Quantity != nil {
		if q := it.Quantity.Round(0).IntPart(); q >= 1 {
			quantity = int(q)
		}
	}

	product, matched := cat.Match(name)
	if matched {
		name = product.Name
	}

	var price decimal.Decimal
	switch {
	case it.UnitPrice != nil && it.UnitPrice.IsPositive():
		price = *it.UnitPrice
	case it.Total != nil && it.Total.IsPositive():
		price = it.Total.Div(decimal.NewFromInt(int64(quantity))).Round(2)
	case matched:
		price = product.Price
	}

	return domain.NewOrderItem(name, quantity, price), true
}
