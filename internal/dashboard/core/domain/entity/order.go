package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotAvailable is the placeholder for missing identity fields.
const NotAvailable = "N/A"

// NoFiles labels a custom order that carries no uploaded files.
const NoFiles = "No files"

// OrderRecord is the flat, denormalised view of one order. Exactly one of
// Custom or Store is set, matching Kind.
type OrderRecord struct {
	Kind           Kind
	OrderKey       string
	OrderID        string
	UserID         string
	UserName       string
	UserPhone      string
	UserEmail      string
	OrderTimestamp time.Time // zero when the source has none
	UpdatedAt      time.Time
	Status         Status
	TotalPrice     decimal.Decimal
	DeliveryCharge decimal.Decimal

	Custom *CustomDetails
	Store  *StoreDetails
}

type CustomDetails struct {
	Files          []FileLineItem
	DiscountAmount decimal.Decimal
}

type StoreDetails struct {
	Items             []ProductLineItem
	CustomizationCost decimal.Decimal
	Savings           decimal.Decimal
}

type FileLineItem struct {
	FileName      string
	Quantity      int
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
	PrintSettings map[string]string
}

type ProductLineItem struct {
	Name          string
	Quantity      int
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
	Off           decimal.Decimal
	Customization map[string]any
}

// HasTimestamp reports whether the source carried a usable order timestamp.
func (r *OrderRecord) HasTimestamp() bool {
	return !r.OrderTimestamp.IsZero()
}

// Category is the projection of the record's status.
func (r *OrderRecord) Category() Category {
	c, _ := r.Status.Category()
	return c
}

// LineItemNames lists the file names of a custom order or the item names of
// a store order.
func (r *OrderRecord) LineItemNames() []string {
	switch {
	case r.Custom != nil:
		names := make([]string, len(r.Custom.Files))
		for i, f := range r.Custom.Files {
			names[i] = f.FileName
		}
		return names
	case r.Store != nil:
		names := make([]string, len(r.Store.Items))
		for i, it := range r.Store.Items {
			names[i] = it.Name
		}
		return names
	}
	return nil
}

// FileSummary is the first file name, or NoFiles when the order carries none.
func (r *OrderRecord) FileSummary() string {
	names := r.LineItemNames()
	if len(names) == 0 {
		return NoFiles
	}
	return names[0]
}
