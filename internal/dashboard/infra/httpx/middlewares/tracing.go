package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/printhub/internal/pkg/interceptors"
	"github.com/jcmexdev/printhub/internal/pkg/interceptors/constants"
)

// AttachTracingMetadata copies the chi request id and the caller's
// X-Idempotency-Key header into the context. The gRPC client interceptor
// forwards both to the store.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = interceptors.WithRequestID(ctx, id)
		}
		if key := r.Header.Get(constants.HeaderXIdempotencyKey); key != "" {
			ctx = interceptors.WithIdempotencyKey(ctx, key)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
