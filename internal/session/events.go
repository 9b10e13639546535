package session

import (
	"context"

	"github.com/utafrali/storefront-session/internal/domain"
)

// EventSink receives notifications after a session mutation has been applied
// and persisted. Sink failures are logged by the session and never propagate
// to the caller.
type EventSink interface {
	LoggedIn(ctx context.Context, sessionID string, identity domain.Identity) error
	LoggedOut(ctx context.Context, sessionID string) error
	WishlistUpdated(ctx context.Context, sessionID string, productIDs []int64) error
	CartUpdated(ctx context.Context, sessionID string, cart *domain.Cart) error
	CartCleared(ctx context.Context, sessionID string) error
	OrderPlaced(ctx context.Context, sessionID string, order *domain.Order) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) LoggedIn(context.Context, string, domain.Identity) error { return nil }
func (NopSink) LoggedOut(context.Context, string) error                 { return nil }
func (NopSink) WishlistUpdated(context.Context, string, []int64) error  { return nil }
func (NopSink) CartUpdated(context.Context, string, *domain.Cart) error { return nil }
func (NopSink) CartCleared(context.Context, string) error               { return nil }
func (NopSink) OrderPlaced(context.Context, string, *domain.Order) error {
	return nil
}
