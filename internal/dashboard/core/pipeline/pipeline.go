// Package pipeline filters, sorts and windows a merged order collection.
//
// Stages run in a fixed order: kind, category, exact status, text search,
// date range, sort, paginate. Each stage is a pure function over a slice and
// is skipped when its control holds the no-op value.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
)

// PageSize is the number of records added by each "load more".
const PageSize = 20

// SearchField selects which field the text search looks at.
type SearchField string

const (
	SearchAll       SearchField = "all"
	SearchOrderID   SearchField = "orderId"
	SearchUserName  SearchField = "userName"
	SearchUserPhone SearchField = "userPhone"
	SearchFileName  SearchField = "fileName"
)

// SortOrder is the timestamp direction.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Params controls stages 0-5. Zero values mean "all" / unconstrained /
// newest first.
type Params struct {
	Kind     entity.Kind
	Category entity.Category
	Status   entity.Status
	SearchBy SearchField
	Term     string
	DateFrom time.Time // only the calendar date is used
	DateTo   time.Time // only the calendar date is used
	Sort     SortOrder
}

// Equal reports whether p and o select the same records in the same order.
func (p Params) Equal(o Params) bool {
	return p.Kind == o.Kind &&
		p.Category == o.Category &&
		p.Status == o.Status &&
		p.searchField() == o.searchField() &&
		strings.TrimSpace(p.Term) == strings.TrimSpace(o.Term) &&
		p.DateFrom.Equal(o.DateFrom) &&
		p.DateTo.Equal(o.DateTo) &&
		p.sortOrder() == o.sortOrder()
}

func (p Params) searchField() SearchField {
	if p.SearchBy == "" {
		return SearchAll
	}
	return p.SearchBy
}

func (p Params) sortOrder() SortOrder {
	if p.Sort == "" {
		return SortNewest
	}
	return p.Sort
}

// Result is the output of one pipeline run.
type Result struct {
	Visible       []entity.OrderRecord
	FilteredCount int
	TotalCount    int
	Page          int
	HasMore       bool
}

// Stage transforms a record slice. Stages never mutate their input.
type Stage func([]entity.OrderRecord) []entity.OrderRecord

// Filter returns the records that satisfy every stage of p, sorted.
func Filter(records []entity.OrderRecord, p Params) []entity.OrderRecord {
	stages := []Stage{
		ByKind(p.Kind),
		ByCategory(p.Category),
		ByStatus(p.Status),
		BySearch(p.SearchBy, p.Term),
		ByDateRange(p.DateFrom, p.DateTo),
		Sort(p.Sort),
	}
	out := records
	for _, stage := range stages {
		out = stage(out)
	}
	return out
}

// Run applies p and windows the result to the first page×PageSize records.
func Run(records []entity.OrderRecord, p Params, page int) Result {
	filtered := Filter(records, p)
	if page < 1 {
		page = 1
	}
	visible := Paginate(filtered, page, PageSize)
	return Result{
		Visible:       visible,
		FilteredCount: len(filtered),
		TotalCount:    len(records),
		Page:          page,
		HasMore:       len(visible) < len(filtered),
	}
}

func where(keep func(*entity.OrderRecord) bool) Stage {
	return func(in []entity.OrderRecord) []entity.OrderRecord {
		out := make([]entity.OrderRecord, 0, len(in))
		for i := range in {
			if keep(&in[i]) {
				out = append(out, in[i])
			}
		}
		return out
	}
}

func identity(in []entity.OrderRecord) []entity.OrderRecord { return in }

// ByKind keeps records of kind k. The empty kind keeps everything.
func ByKind(k entity.Kind) Stage {
	if k == "" {
		return identity
	}
	return where(func(r *entity.OrderRecord) bool { return r.Kind == k })
}

// ByCategory keeps records whose status projects onto c.
func ByCategory(c entity.Category) Stage {
	if c == "" {
		return identity
	}
	return where(func(r *entity.OrderRecord) bool { return r.Category() == c })
}

// ByStatus keeps records whose status is exactly s.
func ByStatus(s entity.Status) Stage {
	if s == "" {
		return identity
	}
	return where(func(r *entity.OrderRecord) bool { return r.Status == s })
}

// BySearch keeps records where field contains term, ignoring case. With
// SearchAll the order id, user name, user phone and line item names are
// all considered.
func BySearch(field SearchField, term string) Stage {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return identity
	}
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }
	anyName := func(r *entity.OrderRecord) bool {
		for _, n := range r.LineItemNames() {
			if contains(n) {
				return true
			}
		}
		return false
	}

	switch field {
	case SearchOrderID:
		return where(func(r *entity.OrderRecord) bool { return contains(r.OrderID) })
	case SearchUserName:
		return where(func(r *entity.OrderRecord) bool { return contains(r.UserName) })
	case SearchUserPhone:
		return where(func(r *entity.OrderRecord) bool { return contains(r.UserPhone) })
	case SearchFileName:
		return where(anyName)
	default:
		return where(func(r *entity.OrderRecord) bool {
			return contains(r.OrderID) || contains(r.UserName) || contains(r.UserPhone) || anyName(r)
		})
	}
}

// ByDateRange keeps records placed from the start of the from day through
// the end of the to day, both in the bound's own location. A zero bound is
// unconstrained. Once any bound is set, records without a timestamp are
// dropped.
func ByDateRange(from, to time.Time) Stage {
	if from.IsZero() && to.IsZero() {
		return identity
	}
	var start, end time.Time // end is exclusive: midnight after the to day
	if !from.IsZero() {
		start = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	}
	if !to.IsZero() {
		end = time.Date(to.Year(), to.Month(), to.Day()+1, 0, 0, 0, 0, to.Location())
	}
	return where(func(r *entity.OrderRecord) bool {
		if !r.HasTimestamp() {
			return false
		}
		if !start.IsZero() && r.OrderTimestamp.Before(start) {
			return false
		}
		if !end.IsZero() && !r.OrderTimestamp.Before(end) {
			return false
		}
		return true
	})
}

var epoch = time.Unix(0, 0)

func sortKey(r *entity.OrderRecord) time.Time {
	if !r.HasTimestamp() {
		return epoch
	}
	return r.OrderTimestamp
}

// Sort orders records by timestamp. Missing timestamps sort as the Unix
// epoch. Equal timestamps keep their input order.
func Sort(order SortOrder) Stage {
	return func(in []entity.OrderRecord) []entity.OrderRecord {
		out := append([]entity.OrderRecord(nil), in...)
		sort.SliceStable(out, func(i, j int) bool {
			a, b := sortKey(&out[i]), sortKey(&out[j])
			if order == SortOldest {
				return a.Before(b)
			}
			return a.After(b)
		})
		return out
	}
}

// Paginate returns the first page×size records. It is cumulative: page 2
// contains page 1.
func Paginate(in []entity.OrderRecord, page, size int) []entity.OrderRecord {
	if page < 1 {
		page = 1
	}
	n := page * size
	if n > len(in) {
		n = len(in)
	}
	return in[:n:n]
}
