package domain

import "time"

// ExtractionPatch — частичный заказ. Поле со значением nil не затрагивается при применении;
// указатель на пустую строку явно очищает поле. У даты пустого значения нет,
// поэтому её очистку задаёт ClearDeliveryDate.
type ExtractionPatch struct {
	CustomerName      *string
	PhoneNumber       *string
	DeliveryAddress   *string
	DeliveryDate      *time.Time
	ClearDeliveryDate bool
	Items             []OrderItem
}

// IsEmpty сообщает, что патч не затрагивает ни одного поля.
func (p ExtractionPatch) IsEmpty() bool {
	return p.CustomerName == nil &&
		p.PhoneNumber == nil &&
		p.DeliveryAddress == nil &&
		p.DeliveryDate == nil &&
		!p.ClearDeliveryDate &&
		len(p.Items) == 0
}
