// Package catalog — неизменяемое представление каталога товаров для сопоставления
// упоминаний из текста (диктовка, скан) с товарами.
//
// Товар совпадает с упоминанием, если название (в нижнем регистре) содержится в упоминании
// или упоминание содержится в названии. Среди совпавших Match выбирает:
//  1. точное совпадение без учёта регистра;
//  2. название, содержащееся в упоминании, — самое длинное;
//  3. упоминание, содержащееся в названии.
//
// При равенстве побеждает товар, идущий раньше в каталоге.
package catalog

import (
	"strings"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
)

type entry struct {
	product domain.Product
	lower   string
}

// Catalog хранит товары в порядке, в котором их передали.
type Catalog struct {
	entries []entry
}

// New строит каталог. Товары с пустым названием пропускаются; nil-каталог допустим и ничего не находит.
func New(products []domain.Product) *Catalog {
	entries := make([]entry, 0, len(products))
	for _, p := range products {
		lower := strings.ToLower(strings.TrimSpace(p.Name))
		if lower == "" {
			continue
		}
		entries = append(entries, entry{product: p, lower: lower})
	}

	return &Catalog{entries: entries}
}

// Products возвращает товары в порядке каталога.
func (c *Catalog) Products() []domain.Product {
	if c == nil {
		return nil
	}

	out := make([]domain.Product, len(c.entries))
	for i, en := range c.entries {
		out[i] = en.product
	}

	return out
}

// Len возвращает число товаров.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

const (
	rankNone = iota
	rankMentionInName
	rankNameInMention
	rankExact
)

// Match ищет лучший товар для упоминания. Второе значение false, если ничего не подошло.
func (c *Catalog) Match(mention string) (domain.Product, bool) {
	m := strings.ToLower(strings.TrimSpace(mention))
	if c == nil || m == "" {
		return domain.Product{}, false
	}

	bestIdx, bestRank, bestLen := -1, rankNone, 0
	for i, en := range c.entries {
		rank := rankOf(en.lower, m)
		if rank == rankNone {
			continue
		}

		better := rank > bestRank ||
			(rank == bestRank && rank == rankNameInMention && len(en.lower) > bestLen)
		if better {
			bestIdx, bestRank, bestLen = i, rank, len(en.lower)
		}
	}

	if bestIdx < 0 {
		return domain.Product{}, false
	}

	return c.entries[bestIdx].product, true
}

func rankOf(name, mention string) int {
	switch {
	case name == mention:
		return rankExact
	case strings.Contains(mention, name):
		return rankNameInMention
	case strings.Contains(name, mention):
		return rankMentionInName
	default:
		return rankNone
	}
}
