package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/printhub/internal/dashboard/core/cart"
	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/printhub/internal/dashboard/core/normalizer"
	"github.com/jcmexdev/printhub/internal/dashboard/core/ports"
	"github.com/jcmexdev/printhub/internal/pkg/metrics"
)

// Carts keeps one pricing engine per phone number.
type Carts struct {
	backend ports.StoreBackend
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*cart.Engine
}

// CartLine is one line of a CartView.
type CartLine struct {
	entity.CartLineItem
	Selected bool
}

// CartView is the priced state of one cart.
type CartView struct {
	Phone         string
	Lines         []CartLine
	SelectedCount int
	Subtotal      decimal.Decimal
	Savings       decimal.Decimal
	Total         decimal.Decimal
}

func NewCarts(backend ports.StoreBackend, m *metrics.Metrics) *Carts {
	return &Carts{
		backend:  backend,
		metrics:  m,
		sessions: make(map[string]*cart.Engine),
	}
}

// Load fetches the cart of phone. A phone with no account yields
// entity.ErrNotLoggedIn. Reloading keeps the selection of known lines.
func (c *Carts) Load(ctx context.Context, phone string) (CartView, error) {
	doc, err := c.backend.FetchCartByPhone(ctx, phone)
	if err != nil {
		return CartView{}, err
	}
	items := normalizer.CartItems(doc.Items)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.sessions[phone]
	if ok {
		e.Sync(items)
	} else {
		e = cart.New(items)
		c.sessions[phone] = e
	}
	return view(phone, e), nil
}

// session returns the engine for phone, loading it on first use.
func (c *Carts) session(ctx context.Context, phone string) error {
	c.mu.Lock()
	_, ok := c.sessions[phone]
	c.mu.Unlock()
	if ok {
		return nil
	}
	_, err := c.Load(ctx, phone)
	return err
}

// mutate runs fn against the engine of phone under the carts lock.
func (c *Carts) mutate(ctx context.Context, phone string, fn func(*cart.Engine)) (CartView, error) {
	if err := c.session(ctx, phone); err != nil {
		return CartView{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.sessions[phone]
	fn(e)
	return view(phone, e), nil
}

func (c *Carts) View(ctx context.Context, phone string) (CartView, error) {
	return c.mutate(ctx, phone, func(*cart.Engine) {})
}

// SetQuantity changes a line's quantity by delta, flooring at 1. Unknown
// ids leave the cart unchanged.
func (c *Carts) SetQuantity(ctx context.Context, phone, id string, delta int) (CartView, error) {
	return c.mutate(ctx, phone, func(e *cart.Engine) { e.SetQuantity(id, delta) })
}

func (c *Carts) ToggleSelect(ctx context.Context, phone, id string) (CartView, error) {
	return c.mutate(ctx, phone, func(e *cart.Engine) { e.ToggleSelect(id) })
}

func (c *Carts) SelectAll(ctx context.Context, phone string) (CartView, error) {
	return c.mutate(ctx, phone, func(e *cart.Engine) { e.SelectAll() })
}

func (c *Carts) DeselectAll(ctx context.Context, phone string) (CartView, error) {
	return c.mutate(ctx, phone, func(e *cart.Engine) { e.DeselectAll() })
}

// Add puts one unit of the catalog product in the cart and reloads it.
func (c *Carts) Add(ctx context.Context, phone, productID string) (CartView, error) {
	products, err := c.backend.FetchProducts(ctx)
	if err != nil {
		return CartView{}, fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
	}
	var product *entity.Product
	for i := range products {
		if products[i].ID == productID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		return CartView{}, fmt.Errorf("%w: %s", entity.ErrProductNotFound, productID)
	}

	key, err := c.backend.AddToCart(ctx, phone, *product)
	if err != nil {
		return CartView{}, err
	}
	slog.InfoContext(ctx, "added to cart", "phone", phone, "product_id", productID, "cart_item_id", key)
	return c.Load(ctx, phone)
}

// Remove deletes the line through the backend, then drops it together
// with its selection. A backend failure leaves the cart untouched.
func (c *Carts) Remove(ctx context.Context, phone, id string) (CartView, error) {
	if err := c.session(ctx, phone); err != nil {
		return CartView{}, err
	}
	c.mu.Lock()
	known := hasItem(c.sessions[phone], id)
	c.mu.Unlock()
	if !known {
		return CartView{}, fmt.Errorf("%w: %s", entity.ErrItemNotFound, id)
	}

	if err := c.backend.RemoveFromCart(ctx, phone, id); err != nil {
		return CartView{}, err
	}
	return c.mutate(ctx, phone, func(e *cart.Engine) { e.Remove(id) })
}

// Checkout prices the selection. It fails with entity.ErrNoSelection, and
// has no other effect, when nothing is selected.
func (c *Carts) Checkout(ctx context.Context, phone string) (cart.Checkout, error) {
	if err := c.session(ctx, phone); err != nil {
		return cart.Checkout{}, err
	}
	c.mu.Lock()
	co, err := c.sessions[phone].Checkout()
	c.mu.Unlock()

	c.metrics.ObserveCheckout(err == nil)
	return co, err
}

// Products returns the catalog.
func (c *Carts) Products(ctx context.Context) ([]entity.Product, error) {
	products, err := c.backend.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
	}
	return products, nil
}

func hasItem(e *cart.Engine, id string) bool {
	for _, it := range e.Items() {
		if it.ID == id {
			return true
		}
	}
	return false
}

func view(phone string, e *cart.Engine) CartView {
	items := e.Items()
	lines := make([]CartLine, len(items))
	for i, it := range items {
		lines[i] = CartLine{CartLineItem: it, Selected: e.IsSelected(it.ID)}
	}
	return CartView{
		Phone:         phone,
		Lines:         lines,
		SelectedCount: e.SelectedCount(),
		Subtotal:      e.Subtotal(),
		Savings:       e.Savings(),
		Total:         e.Total(),
	}
}
