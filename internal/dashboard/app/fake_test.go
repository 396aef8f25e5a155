package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
)

func money(v string) entity.Amount {
	return entity.NewAmount(decimal.RequireFromString(v))
}

type fakeBackend struct {
	mu        sync.Mutex
	users     []entity.UserDocument
	products  []entity.Product
	carts     map[string]entity.Cart
	fetchErr  error
	updateErr error
	removeErr error
	fetches   int
	updates   int
	nextItem  int
}

func (f *fakeBackend) FetchAllUsers(context.Context) ([]entity.UserDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.users, nil
}

func (f *fakeBackend) UpdateOrderStatus(_ context.Context, userID, orderKey string, status entity.Status) (entity.StatusUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return entity.StatusUpdate{}, f.updateErr
	}
	return entity.StatusUpdate{OrderID: orderKey, Status: status, UpdatedAt: "2024-06-01T12:00:00Z"}, nil
}

func (f *fakeBackend) FetchProducts(context.Context) ([]entity.Product, error) {
	return f.products, nil
}

func (f *fakeBackend) FetchCartByPhone(_ context.Context, phone string) (entity.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[phone]
	if !ok {
		return entity.Cart{}, entity.ErrNotLoggedIn
	}
	items := make(map[string]entity.CartItemDocument, len(c.Items))
	for k, v := range c.Items {
		items[k] = v
	}
	c.Items = items
	return c, nil
}

func (f *fakeBackend) AddToCart(_ context.Context, phone string, p entity.Product) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[phone]
	if !ok {
		return "", entity.ErrNotLoggedIn
	}
	f.nextItem++
	key := fmt.Sprintf("added-%d", f.nextItem)
	c.Items[key] = entity.CartItemDocument{
		ProductID: entity.Text(p.ID),
		ModelName: entity.Text(p.ModelName),
		Price:     entity.NewAmount(p.FinalPrice),
		Quantity:  1,
		AddedAt:   entity.Text(time.Date(2025, 1, 1, 0, f.nextItem, 0, 0, time.UTC).Format(time.RFC3339)),
	}
	return key, nil
}

func (f *fakeBackend) RemoveFromCart(_ context.Context, phone, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	c, ok := f.carts[phone]
	if !ok {
		return entity.ErrNotLoggedIn
	}
	if _, ok := c.Items[id]; !ok {
		return errors.New("no such cart item")
	}
	delete(c.Items, id)
	return nil
}

func sampleUsers() []entity.UserDocument {
	return []entity.UserDocument{
		{
			Key:   "u1",
			Name:  "Asha",
			Phone: "9000000001",
			Orders: map[string]entity.CustomOrderDocument{
				"o1": {OrderID: "A-1", CreatedAt: "2024-05-01T10:00:00Z", Status: "pending", TotalPrice: money("500")},
				"o2": {OrderID: "A-2", CreatedAt: "2024-05-03T10:00:00Z", Status: "shipped", TotalPrice: money("200")},
			},
		},
		{
			Key:  "u2",
			Name: "Ravi",
			StoreOrders: map[string]entity.StoreOrderDocument{
				"s1": {OrderID: "S-1", CreatedAt: "2024-05-02T10:00:00Z", Status: "paid", TotalPrice: money("1000")},
			},
		},
		{Key: "u3", Name: "No orders"},
	}
}
