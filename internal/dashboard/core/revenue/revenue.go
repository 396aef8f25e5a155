// Package revenue reduces a merged order collection into dashboard totals.
package revenue

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
)

// Summary is the reduction of a record set.
type Summary struct {
	GrandTotal      decimal.Decimal
	TotalByKind     map[entity.Kind]decimal.Decimal
	CountByKind     map[entity.Kind]int
	CountByCategory map[entity.Category]int
	CountByStatus   map[entity.Status]int
	Orders          int
}

// Summarize computes totals over records. TotalPrice is normalised to zero
// when absent, so every record contributes.
func Summarize(records []entity.OrderRecord) Summary {
	s := Summary{
		GrandTotal: decimal.Zero,
		TotalByKind: map[entity.Kind]decimal.Decimal{
			entity.KindCustom: decimal.Zero,
			entity.KindStore:  decimal.Zero,
		},
		CountByKind: map[entity.Kind]int{
			entity.KindCustom: 0,
			entity.KindStore:  0,
		},
		CountByCategory: map[entity.Category]int{
			entity.CategoryPending:           0,
			entity.CategoryInProgress:        0,
			entity.CategoryCompleted:         0,
			entity.CategoryCancelledRefunded: 0,
		},
		CountByStatus: make(map[entity.Status]int),
	}

	for i := range records {
		r := &records[i]
		s.Orders++
		s.GrandTotal = s.GrandTotal.Add(r.TotalPrice)
		s.TotalByKind[r.Kind] = s.TotalByKind[r.Kind].Add(r.TotalPrice)
		s.CountByKind[r.Kind]++
		if c, ok := r.Status.Category(); ok {
			s.CountByCategory[c]++
		}
		s.CountByStatus[r.Status]++
	}
	return s
}
