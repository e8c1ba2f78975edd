package http

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/usecase"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Деньги передаются строкой с десятичной точкой ("12.50"), даты в виде YYYY-MM-DD.

type ItemDTO struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

type DraftDTO struct {
	CustomerName    string          `json:"customerName"`
	PhoneNumber     string          `json:"phoneNumber"`
	DeliveryAddress string          `json:"deliveryAddress"`
	DeliveryDate    *string         `json:"deliveryDate"`
	Items           []ItemDTO       `json:"items"`
	Total           decimal.Decimal `json:"total"`
}

type DraftResponse struct {
	Draft            DraftDTO `json:"draft"`
	NothingExtracted bool     `json:"nothingExtracted"`
}

type OrderDTO struct {
	ID uuid.UUID `json:"id"`
	DraftDTO
	Delivered        bool       `json:"delivered"`
	DeliveryImageKey string     `json:"deliveryImageKey,omitempty"`
	Source           string     `json:"source"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

type ProductDTO struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type UpsertProductResponse struct {
	Product ProductDTO `json:"product"`
	Changed bool       `json:"changed"`
}

type ProductStatsDTO struct {
	Product       string          `json:"product"`
	TotalQuantity int64           `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	OrderCount    int64           `json:"orderCount"`
}

type CustomerStatsDTO struct {
	CustomerName  string          `json:"customerName"`
	PhoneNumber   string          `json:"phoneNumber"`
	OrderCount    int64           `json:"orderCount"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	LastOrderDate *string         `json:"lastOrderDate"`
}

type ReminderFailureDTO struct {
	OrderID uuid.UUID `json:"orderId"`
	Error   string    `json:"error"`
}

type ReminderReportDTO struct {
	DeliveryDate string               `json:"deliveryDate"`
	Found        int                  `json:"found"`
	OrderIDs     []uuid.UUID          `json:"orderIds"`
	Sent         int                  `json:"sent"`
	Dispatched   bool                 `json:"dispatched"`
	Failures     []ReminderFailureDTO `json:"failures"`
}

// SyncOrderResponse — ответ webhook синхронизации. Ключи в snake_case, как у отправителя.
type SyncOrderResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	OrderID uuid.UUID `json:"order_id"`
}

// PatchItemRequest — позиция в запросе на изменение. Сумма всегда пересчитывается сервером.
type PatchItemRequest struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// PatchRequest — частичное изменение черновика или заказа.
// Отсутствующее поле не меняется, "" или null очищает поле.
// Непустой items заменяет позиции целиком.
type PatchRequest struct {
	CustomerName    optionalString     `json:"customerName" swaggertype:"string"`
	PhoneNumber     optionalString     `json:"phoneNumber" swaggertype:"string"`
	DeliveryAddress optionalString     `json:"deliveryAddress" swaggertype:"string"`
	DeliveryDate    optionalString     `json:"deliveryDate" swaggertype:"string"`
	Items           []PatchItemRequest `json:"items"`
}

// optionalString отличает отсутствующий ключ от явного значения.
// encoding/json вызывает UnmarshalJSON только для присутствующих ключей, в том числе для null.
type optionalString struct {
	Set   bool
	Value string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = ""
		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

// Ptr возвращает nil для отсутствующего ключа.
func (o optionalString) Ptr() *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type TranscriptRequest struct {
	Text string `json:"text"`
}

type SubmitRequest struct {
	Source string `json:"source"`
}

type UpsertProductRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

func (p PatchRequest) ToDomain() (domain.ExtractionPatch, error) {
	patch := domain.ExtractionPatch{
		CustomerName:    p.CustomerName.Ptr(),
		PhoneNumber:     p.PhoneNumber.Ptr(),
		DeliveryAddress: p.DeliveryAddress.Ptr(),
	}

	if p.DeliveryDate.Set {
		if strings.TrimSpace(p.DeliveryDate.Value) == "" {
			patch.ClearDeliveryDate = true
		} else {
			date, err := domain.ParseDate(p.DeliveryDate.Value)
			if err != nil {
				return domain.ExtractionPatch{}, e.Wrap(err.Error(), e.ErrStatusBadRequest)
			}
			patch.DeliveryDate = &date
		}
	}

	if len(p.Items) > 0 {
		patch.Items = make([]domain.OrderItem, 0, len(p.Items))
		for _, it := range p.Items {
			patch.Items = append(patch.Items, domain.NewOrderItem(strings.TrimSpace(it.Product), it.Quantity, it.UnitPrice))
		}
	}

	return patch, nil
}

// SyncOrderRequest — заказ из внешней системы. Позиции необязательны; total обязателен
// и становится итогом заказа, если позиции не дают суммы.
type SyncOrderRequest struct {
	CustomerName    string            `json:"customer_name"`
	PhoneNumber     string            `json:"phone_number"`
	DeliveryAddress string            `json:"delivery_address"`
	DeliveryDate    string            `json:"delivery_date"`
	Total           decimal.Decimal   `json:"total" swaggertype:"number"`
	Delivered       bool              `json:"delivered"`
	OrderSource     string            `json:"order_source"`
	Items           []SyncItemRequest `json:"items"`
}

// SyncItemRequest — позиция синхронизируемого заказа. Название приходит в product или name,
// цена в unit_price или price.
type SyncItemRequest struct {
	Product   string              `json:"product"`
	Name      string              `json:"name"`
	Quantity  decimal.Decimal     `json:"quantity" swaggertype:"number"`
	UnitPrice decimal.NullDecimal `json:"unit_price" swaggertype:"number"`
	Price     decimal.NullDecimal `json:"price" swaggertype:"number"`
}

// Ограничения длины полей внешнего заказа.
const (
	syncNameLimit    = 100
	syncPhoneLimit   = 20
	syncAddressLimit = 200
	syncSourceLimit  = 50
	syncProductLimit = 100
)

func (s SyncOrderRequest) ToDomain() (*usecase.SyncOrderReq, error) {
	draft := domain.OrderDraft{
		CustomerName:    truncateRunes(strings.TrimSpace(s.CustomerName), syncNameLimit),
		PhoneNumber:     truncateRunes(strings.TrimSpace(s.PhoneNumber), syncPhoneLimit),
		DeliveryAddress: truncateRunes(strings.TrimSpace(s.DeliveryAddress), syncAddressLimit),
	}

	if strings.TrimSpace(s.DeliveryDate) != "" {
		date, err := domain.ParseDate(s.DeliveryDate)
		if err != nil {
			return nil, e.Wrap(err.Error(), e.ErrStatusBadRequest)
		}
		draft.DeliveryDate = &date
	}

	for _, it := range s.Items {
		draft.Items = append(draft.Items, it.toDomain())
	}

	source := domain.OrderSource(truncateRunes(strings.TrimSpace(s.OrderSource), syncSourceLimit))

	return usecase.NewSyncOrderReq(draft, s.Total, s.Delivered, source), nil
}

// toDomain заполняет пропуски так же, как отправитель: без названия "Unknown",
// без количества 1, без цены 0.
func (it SyncItemRequest) toDomain() domain.OrderItem {
	product := strings.TrimSpace(it.Product)
	if product == "" {
		product = strings.TrimSpace(it.Name)
	}
	if product == "" {
		product = "Unknown"
	}

	quantity := int(it.Quantity.Round(0).IntPart())
	if quantity < 1 {
		quantity = 1
	}

	price := decimal.Zero
	switch {
	case it.UnitPrice.Valid && !it.UnitPrice.Decimal.IsZero():
		price = it.UnitPrice.Decimal
	case it.Price.Valid:
		price = it.Price.Decimal
	}

	return domain.NewOrderItem(truncateRunes(product, syncProductLimit), quantity, price)
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func (s SubmitRequest) ToDomain() (domain.OrderSource, error) {
	switch domain.OrderSource(s.Source) {
	case "", domain.OrderSourceAdmin:
		return domain.OrderSourceAdmin, nil
	case domain.OrderSourcePublic:
		return domain.OrderSourcePublic, nil
	default:
		return "", e.Wrap("unknown order source "+s.Source, e.ErrStatusBadRequest)
	}
}

func newDraftDTO(d domain.OrderDraft) DraftDTO {
	items := make([]ItemDTO, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, ItemDTO{
			Product:   it.Product,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}

	return DraftDTO{
		CustomerName:    d.CustomerName,
		PhoneNumber:     d.PhoneNumber,
		DeliveryAddress: d.DeliveryAddress,
		DeliveryDate:    formatDatePtr(d.DeliveryDate),
		Items:           items,
		Total:           d.Total,
	}
}

func newDraftResponse(res *usecase.DraftRes) DraftResponse {
	return DraftResponse{
		Draft:            newDraftDTO(res.Draft),
		NothingExtracted: res.NothingExtracted,
	}
}

func newOrderDTO(o *domain.Order) OrderDTO {
	return OrderDTO{
		ID:               o.ID,
		DraftDTO:         newDraftDTO(o.OrderDraft),
		Delivered:        o.Delivered,
		DeliveryImageKey: o.DeliveryImageKey,
		Source:           string(o.Source),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func newOrderDTOs(orders []domain.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderDTO(&orders[i]))
	}
	return out
}

func newProductDTO(p *domain.Product) ProductDTO {
	return ProductDTO{ID: p.ID, Name: p.Name, Price: p.Price}
}

func newProductDTOs(products []domain.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, newProductDTO(&products[i]))
	}
	return out
}

func newProductStatsDTOs(stats []domain.ProductStats) []ProductStatsDTO {
	out := make([]ProductStatsDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, ProductStatsDTO(s))
	}
	return out
}

func newCustomerStatsDTOs(stats []domain.CustomerStats) []CustomerStatsDTO {
	out := make([]CustomerStatsDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, CustomerStatsDTO{
			CustomerName:  s.CustomerName,
			PhoneNumber:   s.PhoneNumber,
			OrderCount:    s.OrderCount,
			TotalSpent:    s.TotalSpent,
			LastOrderDate: formatDatePtr(s.LastOrderDate),
		})
	}
	return out
}

func newReminderReportDTO(r *usecase.ReminderReport) ReminderReportDTO {
	failures := make([]ReminderFailureDTO, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, ReminderFailureDTO(f))
	}

	ids := r.OrderIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}

	return ReminderReportDTO{
		DeliveryDate: domain.FormatDate(r.DeliveryDate),
		Found:        r.Found,
		OrderIDs:     ids,
		Sent:         r.Sent,
		Dispatched:   r.Dispatched,
		Failures:     failures,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.FormatDate(*t)
	return &s
}
