package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout — формат даты доставки при хранении и передаче (ISO-8601).
const DateLayout = "2006-01-02"

// ParseDate разбирает ISO-дату. Допускается полная метка времени RFC 3339,
// от неё остаётся только календарная дата.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date(t.Year(), t.Month(), t.Day()), nil
	}

	if len(s) > len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// FormatDate форматирует дату как YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Date возвращает полночь UTC указанного дня.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
