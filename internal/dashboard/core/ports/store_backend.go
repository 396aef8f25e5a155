package ports

import (
	"context"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
)

// StoreBackend is the remote collaborator holding users, orders, carts and
// the product catalog. Keys are assigned by the backend and only echoed
// here.
type StoreBackend interface {
	// FetchAllUsers returns every user with nested order and cart maps. It is
	// idempotent and may be called repeatedly.
	FetchAllUsers(ctx context.Context) ([]entity.UserDocument, error)

	// UpdateOrderStatus fails when orderKey does not exist under userID.
	UpdateOrderStatus(ctx context.Context, userID, orderKey string, status entity.Status) (entity.StatusUpdate, error)

	FetchProducts(ctx context.Context) ([]entity.Product, error)

	// FetchCartByPhone returns entity.ErrNotLoggedIn when no user owns phone.
	// An existing user with no cart lines yields an empty Cart.
	FetchCartByPhone(ctx context.Context, phone string) (entity.Cart, error)

	// AddToCart returns the key assigned to the new cart line.
	AddToCart(ctx context.Context, phone string, product entity.Product) (string, error)
	RemoveFromCart(ctx context.Context, phone, cartItemID string) error
}
