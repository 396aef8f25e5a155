// Package domain is the in-memory document store behind store-service.
// Orders, store orders, cart lines and products are kept as loose JSON
// documents; only the fields the store itself writes are known here.
package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNoAccount         = errors.New("no user with this phone")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInvalidStatus     = errors.New("status is required")
	ErrInvalidCartRecord = errors.New("cart item is invalid")
)

// Document is one JSON object as stored.
type Document = map[string]any

type User struct {
	Key         string              `json:"key"`
	Name        string              `json:"name,omitempty"`
	Email       string              `json:"email,omitempty"`
	Phone       string              `json:"phone,omitempty"`
	Orders      map[string]Document `json:"orders,omitempty"`
	StoreOrders map[string]Document `json:"storeOrders,omitempty"`
	Cart        map[string]Document `json:"cart,omitempty"`
}

type StatusUpdate struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt"`
}

type Cart struct {
	UserKey string              `json:"userKey"`
	Phone   string              `json:"phone"`
	Items   map[string]Document `json:"items"`
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*User
	products []Document

	now    func() time.Time
	newKey func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithKeyGenerator(fn func() string) Option {
	return func(s *Store) { s.newKey = fn }
}

// New builds a store from seed. The seed is copied.
func New(seed Seed, opts ...Option) *Store {
	s := &Store{
		users:    make(map[string]*User, len(seed.Users)),
		products: make([]Document, 0, len(seed.Products)),
		now:      time.Now,
		newKey:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	for key, u := range seed.Users {
		cp := cloneUser(u)
		cp.Key = key
		s.users[key] = &cp
	}
	for _, p := range seed.Products {
		s.products = append(s.products, maps.Clone(p))
	}
	return s
}

// Users returns a snapshot of every user ordered by key.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(s.users))
	out := make([]User, 0, len(keys))
	for _, k := range keys {
		out = append(out, cloneUser(*s.users[k]))
	}
	return out
}

// UpdateOrderStatus writes status and updatedAt on the order stored under
// orderKey, looking at custom orders before store orders.
func (s *Store) UpdateOrderStatus(userID, orderKey, status string) (StatusUpdate, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return StatusUpdate{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return StatusUpdate{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	doc, ok := u.Orders[orderKey]
	if !ok {
		doc, ok = u.StoreOrders[orderKey]
	}
	if !ok {
		return StatusUpdate{}, fmt.Errorf("%w: %s/%s", ErrOrderNotFound, userID, orderKey)
	}

	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	doc["status"] = status
	doc["updatedAt"] = updatedAt

	orderID, _ := doc["orderId"].(string)
	if orderID == "" {
		orderID = orderKey
	}
	return StatusUpdate{OrderID: orderID, Status: status, UpdatedAt: updatedAt}, nil
}

func (s *Store) Products() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, len(s.products))
	for i, p := range s.products {
		out[i] = maps.Clone(p)
	}
	return out
}

// CartByPhone returns ErrNoAccount when no user owns phone. A user without
// cart lines gets an empty, non-nil Items map.
func (s *Store) CartByPhone(phone string) (Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := s.userByPhone(phone)
	if err != nil {
		return Cart{}, err
	}
	items := make(map[string]Document, len(u.Cart))
	for k, v := range u.Cart {
		items[k] = maps.Clone(v)
	}
	return Cart{UserKey: u.Key, Phone: u.Phone, Items: items}, nil
}

// AddToCart stores item under a new key and stamps addedAt.
func (s *Store) AddToCart(phone string, item Document) (string, error) {
	if len(item) == 0 {
		return "", ErrInvalidCartRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.userByPhone(phone)
	if err != nil {
		return "", err
	}
	key := s.newKey()
	doc := maps.Clone(item)
	doc["addedAt"] = s.now().UTC().Format(time.RFC3339Nano)
	if u.Cart == nil {
		u.Cart = make(map[string]Document)
	}
	u.Cart[key] = doc
	return key, nil
}

func (s *Store) RemoveFromCart(phone, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.userByPhone(phone)
	if err != nil {
		return err
	}
	if _, ok := u.Cart[itemID]; !ok {
		return fmt.Errorf("%w: %s", ErrCartItemNotFound, itemID)
	}
	delete(u.Cart, itemID)
	return nil
}

// userByPhone must be called with s.mu held.
func (s *Store) userByPhone(phone string) (*User, error) {
	phone = strings.TrimSpace(phone)
	if phone != "" {
		for _, k := range slices.Sorted(maps.Keys(s.users)) {
			if u := s.users[k]; strings.TrimSpace(u.Phone) == phone {
				return u, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoAccount, phone)
}

func cloneUser(u User) User {
	u.Orders = cloneDocs(u.Orders)
	u.StoreOrders = cloneDocs(u.StoreOrders)
	u.Cart = cloneDocs(u.Cart)
	return u
}

// cloneDocs copies the top level of each document. Nested values are shared
// and never written.
func cloneDocs(in map[string]Document) map[string]Document {
	if in == nil {
		return nil
	}
	out := make(map[string]Document, len(in))
	for k, v := range in {
		out[k] = maps.Clone(v)
	}
	return out
}
