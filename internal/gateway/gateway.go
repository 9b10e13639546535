// Package gateway is the client for the remote storefront REST API: the
// per-user record with its liked products, the like/unlike mutations, and
// order creation. The session engine treats every gateway failure as a
// generic transport error and never inspects error bodies.
package gateway

import (
	"context"

	"github.com/utafrali/storefront-session/internal/domain"
)

// User is the remote user record as consumed by the session engine.
// LikedProducts is always normalized to a sorted integer set on read.
type User struct {
	ID            int64
	Email         string
	Admin         bool
	LikedProducts []int64
}

// Gateway is the contract the session engine relies on. Implementations must
// return the full post-mutation wishlist from LikeProduct and UnlikeProduct;
// the engine adopts that set wholesale.
type Gateway interface {
	// FetchUser retrieves the user record with its liked products.
	FetchUser(ctx context.Context, userID int64) (*User, error)

	// LikeProduct marks the product as liked and returns the updated set.
	LikeProduct(ctx context.Context, userID, productID int64) ([]int64, error)

	// UnlikeProduct removes the product from the liked set and returns the
	// updated set.
	UnlikeProduct(ctx context.Context, userID, productID int64) ([]int64, error)

	// CreateOrder submits an order and returns the created record.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}
