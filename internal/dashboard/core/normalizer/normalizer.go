// Package normalizer flattens backend user documents into OrderRecords and
// CartLineItems. All defaulting happens here so downstream stages can rely
// on fully populated records.
package normalizer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Orders returns one record per entry of the user's custom and store order
// maps. ok is false for a malformed user that carries neither map; such
// users are skipped by callers rather than treated as an error.
func Orders(u entity.UserDocument) (records []entity.OrderRecord, ok bool) {
	if u.Orders == nil && u.StoreOrders == nil {
		return nil, false
	}

	records = make([]entity.OrderRecord, 0, len(u.Orders)+len(u.StoreOrders))
	for _, key := range sortedKeys(u.Orders) {
		records = append(records, customRecord(u, key, u.Orders[key]))
	}
	for _, key := range sortedKeys(u.StoreOrders) {
		records = append(records, storeRecord(u, key, u.StoreOrders[key]))
	}
	return records, true
}

func customRecord(u entity.UserDocument, key string, doc entity.CustomOrderDocument) entity.OrderRecord {
	rec := baseRecord(u, entity.KindCustom, key, doc.OrderID, doc.Phone, doc.Status, doc.CreatedAt, doc.UpdatedAt)
	rec.TotalPrice = money(doc.TotalPrice)
	rec.DeliveryCharge = money(doc.DeliveryCharge)

	files := make([]entity.FileLineItem, 0, len(doc.Files))
	for _, f := range doc.Files {
		qty := quantity(f.Quantity)
		unit := money(f.Price)
		line := unit.Mul(decimal.NewFromInt(int64(qty)))
		if f.TotalPrice.Valid {
			line = nonNegative(f.TotalPrice.Decimal)
		}
		files = append(files, entity.FileLineItem{
			FileName:      orNA(string(f.FileName)),
			Quantity:      qty,
			UnitPrice:     unit,
			LineTotal:     line,
			PrintSettings: stringify(f.PrintSettings),
		})
	}
	rec.Custom = &entity.CustomDetails{
		Files:          files,
		DiscountAmount: money(doc.DiscountAmount),
	}
	return rec
}

func storeRecord(u entity.UserDocument, key string, doc entity.StoreOrderDocument) entity.OrderRecord {
	rec := baseRecord(u, entity.KindStore, key, doc.OrderID, doc.Phone, doc.Status, doc.CreatedAt, doc.UpdatedAt)
	rec.TotalPrice = money(doc.TotalPrice)
	rec.DeliveryCharge = money(doc.DeliveryCharge)

	items := make([]entity.ProductLineItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		qty := quantity(it.Quantity)
		unit := money(it.Price)
		line := unit.Mul(decimal.NewFromInt(int64(qty)))
		if it.TotalPrice.Valid {
			line = nonNegative(it.TotalPrice.Decimal)
		}
		items = append(items, entity.ProductLineItem{
			Name:          orNA(string(it.ModelName)),
			Quantity:      qty,
			UnitPrice:     unit,
			LineTotal:     line,
			Off:           percent(it.Off),
			Customization: it.Customization,
		})
	}
	rec.Store = &entity.StoreDetails{
		Items:             items,
		CustomizationCost: money(doc.CustomizationCost),
		Savings:           money(doc.Savings),
	}
	return rec
}

func baseRecord(u entity.UserDocument, kind entity.Kind, key string, orderID, orderPhone, status, createdAt, updatedAt entity.Text) entity.OrderRecord {
	id := string(orderID)
	if strings.TrimSpace(id) == "" {
		id = key
	}
	st, ok := entity.ParseStatus(string(status))
	if !ok || !st.ValidFor(kind) {
		st = entity.DefaultStatus(kind)
	}
	return entity.OrderRecord{
		Kind:           kind,
		OrderKey:       key,
		OrderID:        id,
		UserID:         u.Key,
		UserName:       orNA(string(u.Name)),
		UserPhone:      firstNonEmpty(string(u.Phone), string(orderPhone), entity.NotAvailable),
		UserEmail:      orNA(string(u.Email)),
		OrderTimestamp: ParseTime(string(createdAt)),
		UpdatedAt:      ParseTime(string(updatedAt)),
		Status:         st,
	}
}

// CartItems normalises a cart map, newest first.
func CartItems(items map[string]entity.CartItemDocument) []entity.CartLineItem {
	out := make([]entity.CartLineItem, 0, len(items))
	for id, doc := range items {
		price := money(doc.Price)
		original := price
		if doc.OriginalPrice.Valid {
			original = nonNegative(doc.OriginalPrice.Decimal)
		}
		out = append(out, entity.CartLineItem{
			ID:            id,
			ProductID:     string(doc.ProductID),
			ModelName:     orNA(string(doc.ModelName)),
			Image:         string(doc.Image),
			Price:         price,
			OriginalPrice: original,
			Quantity:      quantity(doc.Quantity),
			Off:           percent(doc.Off),
			AddedAt:       ParseTime(string(doc.AddedAt)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out
}

// ParseTime accepts RFC3339 and a few looser layouts. Unparseable input
// yields the zero time.
func ParseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func money(d entity.Amount) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return nonNegative(d.Decimal)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

var hundred = decimal.NewFromInt(100)

func percent(d entity.Amount) decimal.Decimal {
	p := money(d)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

func quantity(q entity.Count) int {
	if q < 1 {
		return 1
	}
	return int(q)
}

func orNA(s string) string {
	return firstNonEmpty(s, entity.NotAvailable)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func stringify(m map[string]any) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
