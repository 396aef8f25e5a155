// Package cart prices the selected subset of a cart.
package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
)

// Engine holds an ordered list of lines (newest first) and the set of
// selected line ids. It is not safe for concurrent use.
type Engine struct {
	items    []entity.CartLineItem
	selected map[string]struct{}
}

// Checkout is the priced snapshot of the selected lines.
type Checkout struct {
	Items    []entity.CartLineItem
	Subtotal decimal.Decimal
	Savings  decimal.Decimal
	Total    decimal.Decimal
}

// New returns an engine with every line selected.
func New(items []entity.CartLineItem) *Engine {
	e := &Engine{selected: make(map[string]struct{}, len(items))}
	e.items = sortNewestFirst(items)
	e.SelectAll()
	return e
}

// Sync replaces the lines with a freshly loaded set. Lines that were
// already known keep their selection; new lines start selected.
func (e *Engine) Sync(items []entity.CartLineItem) {
	known := make(map[string]bool, len(e.items))
	for _, it := range e.items {
		known[it.ID] = true
	}
	next := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, sel := e.selected[it.ID]; sel || !known[it.ID] {
			next[it.ID] = struct{}{}
		}
	}
	e.items = sortNewestFirst(items)
	e.selected = next
}

func sortNewestFirst(items []entity.CartLineItem) []entity.CartLineItem {
	out := append([]entity.CartLineItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out
}

// Items returns a copy of the lines in display order.
func (e *Engine) Items() []entity.CartLineItem {
	return append([]entity.CartLineItem(nil), e.items...)
}

func (e *Engine) IsSelected(id string) bool {
	_, ok := e.selected[id]
	return ok
}

// SelectedCount is the size of the selection set.
func (e *Engine) SelectedCount() int { return len(e.selected) }

func (e *Engine) find(id string) int {
	for i := range e.items {
		if e.items[i].ID == id {
			return i
		}
	}
	return -1
}

// SetQuantity adds delta to the line's quantity, never going below 1. It
// returns the new quantity and false when id is unknown.
func (e *Engine) SetQuantity(id string, delta int) (int, bool) {
	i := e.find(id)
	if i < 0 {
		return 0, false
	}
	q := e.items[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	e.items[i].Quantity = q
	return q, true
}

// ToggleSelect flips the selection of id. Unknown ids are ignored.
func (e *Engine) ToggleSelect(id string) bool {
	if e.find(id) < 0 {
		return false
	}
	if _, ok := e.selected[id]; ok {
		delete(e.selected, id)
	} else {
		e.selected[id] = struct{}{}
	}
	return true
}

func (e *Engine) SelectAll() {
	for _, it := range e.items {
		e.selected[it.ID] = struct{}{}
	}
}

func (e *Engine) DeselectAll() {
	e.selected = make(map[string]struct{})
}

// Remove drops the line and its selection together.
func (e *Engine) Remove(id string) bool {
	i := e.find(id)
	if i < 0 {
		return false
	}
	e.items = append(e.items[:i:i], e.items[i+1:]...)
	delete(e.selected, id)
	return true
}

// Subtotal is Σ price×quantity over the selected lines. Lines priced at
// zero contribute nothing.
func (e *Engine) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range e.items {
		if !e.IsSelected(it.ID) {
			continue
		}
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Savings is Σ (originalPrice−price)×quantity over the selected lines,
// with each line floored at zero.
func (e *Engine) Savings() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range e.items {
		if !e.IsSelected(it.ID) {
			continue
		}
		diff := it.OriginalPrice.Sub(it.Price)
		if !diff.IsPositive() {
			continue
		}
		sum = sum.Add(diff.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Total is what the customer pays for the selection. Delivery is priced at
// checkout, so it equals Subtotal.
func (e *Engine) Total() decimal.Decimal {
	return e.Subtotal()
}

// Checkout snapshots the selected lines. It fails with ErrNoSelection when
// nothing is selected.
func (e *Engine) Checkout() (Checkout, error) {
	if len(e.selected) == 0 {
		return Checkout{}, entity.ErrNoSelection
	}
	out := Checkout{
		Subtotal: e.Subtotal(),
		Savings:  e.Savings(),
		Total:    e.Total(),
	}
	for _, it := range e.items {
		if e.IsSelected(it.ID) {
			out.Items = append(out.Items, it)
		}
	}
	return out, nil
}
