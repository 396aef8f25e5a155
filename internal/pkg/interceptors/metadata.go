package interceptors

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/printhub/internal/pkg/interceptors/constants"
)

// WithRequestID stores the request id so that outgoing calls carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

// WithIdempotencyKey stores the key so the next outgoing call carries it.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyIdempotencyKey, key)
}

func RequestID(ctx context.Context) string {
	return lookup(ctx, constants.ContextKeyRequestID, constants.HeaderXRequestId)
}

func IdempotencyKey(ctx context.Context) string {
	return lookup(ctx, constants.ContextKeyIdempotencyKey, constants.HeaderXIdempotencyKey)
}

// lookup checks the context value first, then incoming metadata.
func lookup(ctx context.Context, key any, header string) string {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(header); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}
