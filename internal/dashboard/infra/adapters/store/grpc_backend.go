// Package store talks to store-service over gRPC.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/printhub/internal/dashboard/core/ports"
	"github.com/jcmexdev/printhub/internal/pkg/cache"
	"github.com/jcmexdev/printhub/internal/pkg/interceptors"
	"github.com/jcmexdev/printhub/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/printhub/internal/pkg/storeapi"
)

// GRPCStoreBackend is the ports.StoreBackend adapter over storeapi.
type GRPCStoreBackend struct {
	client   *storeapi.StoreClient
	cache    cache.Cache // nil disables the catalog cache
	cacheTTL time.Duration
	newKey   func() string
}

var _ ports.StoreBackend = (*GRPCStoreBackend)(nil)

type Option func(*GRPCStoreBackend)

// WithProductCache keeps the catalog in c for ttl.
func WithProductCache(c cache.Cache, ttl time.Duration) Option {
	return func(b *GRPCStoreBackend) {
		b.cache = c
		b.cacheTTL = ttl
	}
}

func NewGRPCStoreBackend(cc grpc.ClientConnInterface, opts ...Option) *GRPCStoreBackend {
	b := &GRPCStoreBackend{
		client: storeapi.NewStoreClient(cc),
		newKey: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type usersResponse struct {
	Users []json.RawMessage `json:"users"`
}

type productsResponse struct {
	Products []entity.Product `json:"products"`
}

func (b *GRPCStoreBackend) FetchAllUsers(ctx context.Context) ([]entity.UserDocument, error) {
	var resp usersResponse
	if err := b.client.Call(ctx, storeapi.MethodFetchAllUsers, nil, &resp); err != nil {
		return nil, backendError(storeapi.MethodFetchAllUsers, err)
	}
	return decodeUsers(ctx, resp.Users), nil
}

// decodeUsers decodes each user on its own. A user that still fails to
// decode keeps only its key and no order maps, so the normalizer counts it
// as malformed instead of the whole fetch failing.
func decodeUsers(ctx context.Context, raws []json.RawMessage) []entity.UserDocument {
	users := make([]entity.UserDocument, 0, len(raws))
	for i, raw := range raws {
		var u entity.UserDocument
		if err := json.Unmarshal(raw, &u); err != nil {
			slog.WarnContext(ctx, "malformed user document", "index", i, "user_key", u.Key, "error", err)
			u = entity.UserDocument{Key: u.Key}
		}
		users = append(users, u)
	}
	return users
}

// UpdateOrderStatus sends a fresh idempotency key with every call unless
// the context already carries one.
func (b *GRPCStoreBackend) UpdateOrderStatus(ctx context.Context, userID, orderKey string, s entity.Status) (entity.StatusUpdate, error) {
	if interceptors.IdempotencyKey(ctx) == "" {
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXIdempotencyKey, b.newKey())
	}
	req := storeapi.UpdateOrderStatusRequest{UserID: userID, OrderKey: orderKey, Status: string(s)}

	var resp entity.StatusUpdate
	if err := b.client.Call(ctx, storeapi.MethodUpdateOrderStatus, req, &resp); err != nil {
		return entity.StatusUpdate{}, backendError(storeapi.MethodUpdateOrderStatus, err)
	}
	return resp, nil
}

// FetchProducts serves the catalog from the cache when one is configured.
// Cache failures fall through to the store.
func (b *GRPCStoreBackend) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	var key string
	if b.cache != nil {
		key = b.cache.GenerateKey("products", "all")
		var cached []entity.Product
		found, err := cache.GetJSON(ctx, b.cache, key, &cached)
		if err != nil {
			slog.WarnContext(ctx, "product cache read failed", "error", err)
		}
		if found {
			return cached, nil
		}
	}

	var resp productsResponse
	if err := b.client.Call(ctx, storeapi.MethodFetchProducts, nil, &resp); err != nil {
		return nil, backendError(storeapi.MethodFetchProducts, err)
	}

	if b.cache != nil {
		if err := cache.SetJSON(ctx, b.cache, key, resp.Products, b.cacheTTL); err != nil {
			slog.WarnContext(ctx, "product cache write failed", "error", err)
		}
	}
	return resp.Products, nil
}

func (b *GRPCStoreBackend) FetchCartByPhone(ctx context.Context, phone string) (entity.Cart, error) {
	var resp entity.Cart
	err := b.client.Call(ctx, storeapi.MethodFetchCartByPhone, storeapi.CartRequest{Phone: phone}, &resp)
	if status.Code(err) == codes.NotFound {
		return entity.Cart{}, fmt.Errorf("%w: %s", entity.ErrNotLoggedIn, phone)
	}
	if err != nil {
		return entity.Cart{}, backendError(storeapi.MethodFetchCartByPhone, err)
	}
	if resp.Items == nil {
		resp.Items = map[string]entity.CartItemDocument{}
	}
	return resp, nil
}

func (b *GRPCStoreBackend) AddToCart(ctx context.Context, phone string, p entity.Product) (string, error) {
	req := storeapi.AddToCartRequest{Phone: phone, Item: cartItemInput(p)}

	var resp storeapi.AddToCartResponse
	err := b.client.Call(ctx, storeapi.MethodAddToCart, req, &resp)
	if status.Code(err) == codes.NotFound {
		return "", fmt.Errorf("%w: %s", entity.ErrNotLoggedIn, phone)
	}
	if err != nil {
		return "", backendError(storeapi.MethodAddToCart, err)
	}
	return resp.Key, nil
}

func (b *GRPCStoreBackend) RemoveFromCart(ctx context.Context, phone, cartItemID string) error {
	req := storeapi.RemoveFromCartRequest{Phone: phone, ItemID: cartItemID}
	if err := b.client.Call(ctx, storeapi.MethodRemoveFromCart, req, nil); err != nil {
		return backendError(storeapi.MethodRemoveFromCart, err)
	}
	return nil
}

// cartItemInput prices a new line at the product's final price and keeps the
// list price as the original.
func cartItemInput(p entity.Product) storeapi.CartItemInput {
	price := p.FinalPrice
	if price.IsZero() {
		price = p.Price
	}
	original := p.Price
	if original.LessThan(price) {
		original = price
	}
	in := storeapi.CartItemInput{
		ProductID:     p.ID,
		ModelName:     p.ModelName,
		Price:         price,
		OriginalPrice: original,
		Off:           p.Off,
		Quantity:      1,
	}
	if len(p.Images) > 0 {
		in.Image = p.Images[0]
	}
	return in
}

// backendError keeps the message sent by the store so that callers can show
// it verbatim.
func backendError(op string, err error) error {
	msg := err.Error()
	if st, ok := status.FromError(err); ok {
		msg = st.Message()
	}
	return &entity.BackendError{Op: op, Message: msg, Err: err}
}
