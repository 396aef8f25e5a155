package entity

import "strings"

// Kind is the discriminant of an OrderRecord.
type Kind string

const (
	KindCustom Kind = "custom"
	KindStore  Kind = "store"
)

// Status is the concrete fulfilment state of an order.
type Status string

const (
	StatusPending      Status = "pending"
	StatusProcessing   Status = "processing"
	StatusPrinting     Status = "printing"
	StatusQualityCheck Status = "quality_check"
	StatusPackaging    Status = "packaging"
	StatusShipped      Status = "shipped"
	StatusDelivered    Status = "delivered"
	StatusCancelled    Status = "cancelled"
	StatusRefunded     Status = "refunded"

	// Store orders only.
	StatusPaid      Status = "paid"
	StatusCompleted Status = "completed"
)

// Category is the coarse projection of Status used for filtering.
type Category string

const (
	CategoryPending           Category = "pending"
	CategoryInProgress        Category = "in_progress"
	CategoryCompleted         Category = "completed"
	CategoryCancelledRefunded Category = "cancelled_refunded"
)

var customStatuses = []Status{
	StatusPending, StatusProcessing, StatusPrinting, StatusQualityCheck,
	StatusPackaging, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded,
}

var storeStatuses = []Status{
	StatusPending, StatusProcessing, StatusPaid, StatusCompleted, StatusCancelled, StatusDelivered,
}

var categories = map[Status]Category{
	StatusPending:      CategoryPending,
	StatusPaid:         CategoryPending,
	StatusProcessing:   CategoryInProgress,
	StatusPrinting:     CategoryInProgress,
	StatusQualityCheck: CategoryInProgress,
	StatusPackaging:    CategoryInProgress,
	StatusShipped:      CategoryCompleted,
	StatusDelivered:    CategoryCompleted,
	StatusCompleted:    CategoryCompleted,
	StatusCancelled:    CategoryCancelledRefunded,
	StatusRefunded:     CategoryCancelledRefunded,
}

// Category returns the projection of s. Every known status maps to exactly
// one category; unknown values report ok=false.
func (s Status) Category() (Category, bool) {
	c, ok := categories[s]
	return c, ok
}

// ValidFor reports whether s belongs to the status set of the given kind.
func (s Status) ValidFor(kind Kind) bool {
	for _, v := range StatusesFor(kind) {
		if v == s {
			return true
		}
	}
	return false
}

// StatusesFor returns the status set of kind in display order.
func StatusesFor(kind Kind) []Status {
	switch kind {
	case KindCustom:
		return append([]Status(nil), customStatuses...)
	case KindStore:
		return append([]Status(nil), storeStatuses...)
	}
	return nil
}

// DefaultStatus is applied when the source document omits a status.
func DefaultStatus(kind Kind) Status {
	if kind == KindStore {
		return StatusPaid
	}
	return StatusPending
}

// ParseStatus normalises raw. Unknown or empty input yields ok=false.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := categories[s]; !ok {
		return "", false
	}
	return s, true
}

// ParseCategory normalises raw. Unknown or empty input yields ok=false.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	switch c {
	case CategoryPending, CategoryInProgress, CategoryCompleted, CategoryCancelledRefunded:
		return c, true
	}
	return "", false
}

// ParseKind normalises raw. Unknown or empty input yields ok=false.
func ParseKind(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case KindCustom, KindStore:
		return k, true
	}
	return "", false
}
