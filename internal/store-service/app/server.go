// Package app exposes the document store over storeapi.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/printhub/internal/pkg/cache"
	"github.com/jcmexdev/printhub/internal/pkg/interceptors"
	"github.com/jcmexdev/printhub/internal/pkg/storeapi"
	"github.com/jcmexdev/printhub/internal/store-service/domain"
)

const pendingMarker = "pending"

type storeServer struct {
	storeapi.UnimplementedStoreServer
	store *domain.Store

	cache          cache.Cache // nil disables idempotency
	idempotencyTTL time.Duration
}

var _ storeapi.StoreServer = (*storeServer)(nil)

type Option func(*storeServer)

// WithIdempotency replays the first answer to UpdateOrderStatus when the same
// x-idempotency-key arrives again within ttl for the same user, order and
// status. A key reused for a different update is treated as a new request.
func WithIdempotency(c cache.Cache, ttl time.Duration) Option {
	return func(s *storeServer) {
		s.cache = c
		s.idempotencyTTL = ttl
	}
}

func NewStoreServer(store *domain.Store, opts ...Option) *storeServer {
	s := &storeServer{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type usersResponse struct {
	Users []domain.User `json:"users"`
}

type productsResponse struct {
	Products []domain.Document `json:"products"`
}

func (s *storeServer) FetchAllUsers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return encode(usersResponse{Users: s.store.Users()})
}

func (s *storeServer) UpdateOrderStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req storeapi.UpdateOrderStatusRequest
	if err := storeapi.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var cacheKey string
	if idemKey := interceptors.IdempotencyKey(ctx); s.cache != nil && idemKey != "" {
		cacheKey = s.cache.GenerateKey("update-status", idemKey, req.UserID, req.OrderKey, req.Status)
		prev, err := s.reserve(ctx, cacheKey)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			slog.InfoContext(ctx, "replaying status update", "idempotency_key", idemKey, "order_key", req.OrderKey)
			return encode(prev)
		}
	}

	res, err := s.store.UpdateOrderStatus(req.UserID, req.OrderKey, req.Status)
	if err != nil {
		if cacheKey != "" {
			if derr := s.cache.Delete(ctx, cacheKey); derr != nil {
				slog.WarnContext(ctx, "idempotency release failed", "error", derr)
			}
		}
		return nil, toStatus(err)
	}
	slog.InfoContext(ctx, "order status updated",
		"user_id", req.UserID, "order_key", req.OrderKey, "status", res.Status)

	if cacheKey != "" {
		if err := cache.SetJSON(ctx, s.cache, cacheKey, res, s.idempotencyTTL); err != nil {
			slog.WarnContext(ctx, "idempotency store failed", "error", err)
		}
	}
	return encode(res)
}

// reserve claims key with a pending marker. It returns the stored answer
// when an earlier request with the same key already finished, and Aborted
// while that request is still running. A nil answer and nil error means the
// caller owns the key and must apply the update.
func (s *storeServer) reserve(ctx context.Context, key string) (*domain.StatusUpdate, error) {
	claimed, err := s.cache.SetNX(ctx, key, pendingMarker, s.idempotencyTTL)
	if err != nil {
		slog.WarnContext(ctx, "idempotency reservation failed", "error", err)
		return nil, nil
	}
	if claimed {
		return nil, nil
	}

	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, status.Error(codes.Unavailable, "idempotency lookup failed: "+err.Error())
	}
	if !found {
		// expired between the two calls
		return nil, nil
	}
	if raw == pendingMarker {
		return nil, status.Error(codes.Aborted, "a status update with this idempotency key is in progress")
	}
	var prev domain.StatusUpdate
	if err := json.Unmarshal([]byte(raw), &prev); err != nil {
		return nil, status.Error(codes.Internal, "corrupt idempotency record: "+err.Error())
	}
	return &prev, nil
}

func (s *storeServer) FetchProducts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return encode(productsResponse{Products: s.store.Products()})
}

func (s *storeServer) FetchCartByPhone(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req storeapi.CartRequest
	if err := storeapi.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	c, err := s.store.CartByPhone(req.Phone)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(c)
}

func (s *storeServer) AddToCart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Phone string          `json:"phone"`
		Item  domain.Document `json:"item"`
	}
	if err := storeapi.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	key, err := s.store.AddToCart(req.Phone, req.Item)
	if err != nil {
		return nil, toStatus(err)
	}
	slog.InfoContext(ctx, "cart item added", "cart_item_id", key)
	return encode(storeapi.AddToCartResponse{Key: key})
}

func (s *storeServer) RemoveFromCart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req storeapi.RemoveFromCartRequest
	if err := storeapi.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.store.RemoveFromCart(req.Phone, req.ItemID); err != nil {
		return nil, toStatus(err)
	}
	return encode(nil)
}

func encode(v any) (*structpb.Struct, error) {
	out, err := storeapi.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrNoAccount),
		errors.Is(err, domain.ErrCartItemNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidCartRecord):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
