package extract

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DRSN-tech/bakery-orders/internal/catalog"
	"github.com/DRSN-tech/bakery-orders/internal/domain"
)

// quantityWindow — сколько символов перед названием товара просматривается в поиске количества.
const quantityWindow = 25

var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"fevrier":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"aout":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"decembre":  time.December,
}

// ExtractSpeech разбирает расшифровку диктовки. Каждое поле извлекается независимо;
// то, что не нашлось, в патч не попадает. now нужен только для года в датах вида "14 février".
func ExtractSpeech(transcript string, cat *catalog.Catalog, now time.Time) domain.ExtractionPatch {
	var patch domain.ExtractionPatch

	if name, ok := extractName(transcript); ok {
		patch.CustomerName = &name
	}

	if phone, ok := extractPhone(transcript); ok {
		patch.PhoneNumber = &phone
	}

	if items := extractItems(transcript, cat); len(items) > 0 {
		patch.Items = items
	}

	if date, ok := extractDate(transcript, now); ok {
		patch.DeliveryDate = &date
	}

	return patch
}

func extractName(text string) (string, bool) {
	_, m, ok := firstMatch(nameRules, text)
	if !ok {
		return "", false
	}

	name := strings.Trim(strings.TrimSpace(m[1]), "'’-")
	return name, name != ""
}

func extractPhone(text string) (string, bool) {
	_, m, ok := firstMatch(phoneRules, text)
	if !ok {
		return "", false
	}

	return digitsRe.ReplaceAllString(m[1], ""), true
}

func extractDate(text string, now time.Time) (time.Time, bool) {
	folded := fold(text)

	for _, r := range dateRules {
		m := r.re.FindStringSubmatch(folded)
		if m == nil {
			continue
		}

		var (
			date time.Time
			ok   bool
		)
		switch r.name {
		case "numeric":
			date, ok = numericDate(m[1], m[2], m[3])
		case "month-name":
			date, ok = monthNameDate(m[1], m[2], now.Year())
		}
		if ok {
			return date, true
		}
	}

	return time.Time{}, false
}

func numericDate(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year, _ := strconv.Atoi(yearStr)
	if len(yearStr) == 2 {
		year += 2000
	}

	return validDate(year, time.Month(month), day)
}

func monthNameDate(dayStr, monthName string, year int) (time.Time, bool) {
	day, _ := strconv.Atoi(dayStr)
	month, ok := frenchMonths[monthName]
	if !ok {
		return time.Time{}, false
	}

	return validDate(year, month, day)
}

// validDate отбрасывает несуществующие даты вроде 31/02.
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}

	d := domain.Date(year, month, day)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}

	return d, true
}

type span struct{ start, end int }

func (s span) overlaps(o span) bool { return s.start < o.end && o.start < s.end }

// extractItems ищет в тексте названия товаров каталога. Если короткое название встречается только
// внутри более длинного ("pain" в "pain au chocolat"), оно не считается. Порядок строк — порядок каталога.
func extractItems(text string, cat *catalog.Catalog) []domain.OrderItem {
	products := cat.Products()
	if len(products) == 0 {
		return nil
	}

	lower := strings.ToLower(text)
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = strings.ToLower(strings.TrimSpace(p.Name))
	}

	byLength := make([]int, len(products))
	for i := range byLength {
		byLength[i] = i
	}
	sort.SliceStable(byLength, func(a, b int) bool {
		return len(names[byLength[a]]) > len(names[byLength[b]])
	})

	var claimed []span
	found := make(map[int]span, len(products))
	for _, idx := range byLength {
		occurrences := findAll(lower, names[idx])

		var free []span
		for _, occ := range occurrences {
			if !overlapsAny(occ, claimed) {
				free = append(free, occ)
			}
		}
		if len(free) == 0 {
			continue
		}

		found[idx] = free[0]
		claimed = append(claimed, free...)
	}

	items := make([]domain.OrderItem, 0, len(found))
	for i, p := range products {
		occ, ok := found[i]
		if !ok {
			continue
		}
		items = append(items, domain.NewOrderItem(p.Name, quantityBefore(lower, occ.start), p.Price))
	}

	return items
}

func findAll(text, needle string) []span {
	if needle == "" {
		return nil
	}

	var out []span
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], needle)
		if i < 0 {
			break
		}
		start := offset + i
		out = append(out, span{start: start, end: start + len(needle)})
		offset = start + len(needle)
	}

	return out
}

func overlapsAny(s span, spans []span) bool {
	for _, o := range spans {
		if s.overlaps(o) {
			return true
		}
	}
	return false
}

// quantityBefore ищет ближайшее число из 1–3 цифр в окне перед позицией pos. По умолчанию 1.
func quantityBefore(text string, pos int) int {
	start := pos
	for n := 0; n < quantityWindow && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}

	// окно не должно начинаться с середины числа
	for start < pos && start > 0 && isDigit(text[start-1]) && isDigit(text[start]) {
		start++
	}

	window := text[start:pos]
	runs := numberRe.FindAllString(window, -1)
	for i := len(runs) - 1; i >= 0; i-- {
		if len(runs[i]) > 3 {
			continue
		}
		if q, err := strconv.Atoi(runs[i]); err == nil && q >= 1 {
			return q
		}
		break
	}

	return 1
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
