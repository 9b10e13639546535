// Package event publishes session lifecycle events to Kafka.
package event

import (
	"context"
	"fmt"

	"github.com/utafrali/storefront-session/internal/domain"
	"github.com/utafrali/storefront-session/pkg/kafka"
	"github.com/utafrali/storefront-session/pkg/logger"
)

const source = "session-service"

// Topics for session events.
const (
	TopicLogin           = "storefront.session.login"
	TopicLogout          = "storefront.session.logout"
	TopicWishlistUpdated = "storefront.session.wishlist.updated"
	TopicCartUpdated     = "storefront.session.cart.updated"
	TopicCartCleared     = "storefront.session.cart.cleared"
	TopicOrderPlaced     = "storefront.session.order.placed"
)

// Event type names carried in the envelope.
const (
	TypeLogin           = "session.login"
	TypeLogout          = "session.logout"
	TypeWishlistUpdated = "session.wishlist.updated"
	TypeCartUpdated     = "session.cart.updated"
	TypeCartCleared     = "session.cart.cleared"
	TypeOrderPlaced     = "session.order.placed"
)

// LoginPayload is the data for login events.
type LoginPayload struct {
	SessionID string `json:"session_id"`
	UserID    int64  `json:"user_id"`
}

// LogoutPayload is the data for logout events.
type LogoutPayload struct {
	SessionID string `json:"session_id"`
}

// WishlistPayload is the data for wishlist update events.
type WishlistPayload struct {
	SessionID  string  `json:"session_id"`
	ProductIDs []int64 `json:"product_ids"`
}

// CartPayload is the data for cart update events.
type CartPayload struct {
	SessionID string            `json:"session_id"`
	Items     []domain.LineItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
}

// CartClearedPayload is the data for cart cleared events.
type CartClearedPayload struct {
	SessionID string `json:"session_id"`
}

// OrderPlacedPayload is the data for order placed events.
type OrderPlacedPayload struct {
	SessionID string  `json:"session_id"`
	OrderID   int64   `json:"order_id"`
	Email     string  `json:"email"`
	Total     float64 `json:"total"`
	Items     int     `json:"items"`
}

// Producer publishes session events. It satisfies session.EventSink.
type Producer struct {
	producer *kafka.Producer
}

// NewProducer wraps the Kafka producer.
func NewProducer(producer *kafka.Producer) *Producer {
	return &Producer{producer: producer}
}

// LoggedIn publishes a login event.
func (p *Producer) LoggedIn(ctx context.Context, sessionID string, identity domain.Identity) error {
	payload := LoginPayload{SessionID: sessionID, UserID: identity.UserID}
	return p.publish(ctx, TopicLogin, TypeLogin, sessionID, payload)
}

// LoggedOut publishes a logout event.
func (p *Producer) LoggedOut(ctx context.Context, sessionID string) error {
	return p.publish(ctx, TopicLogout, TypeLogout, sessionID, LogoutPayload{SessionID: sessionID})
}

// WishlistUpdated publishes the new wishlist contents.
func (p *Producer) WishlistUpdated(ctx context.Context, sessionID string, productIDs []int64) error {
	payload := WishlistPayload{SessionID: sessionID, ProductIDs: productIDs}
	return p.publish(ctx, TopicWishlistUpdated, TypeWishlistUpdated, sessionID, payload)
}

// CartUpdated publishes the new cart contents.
func (p *Producer) CartUpdated(ctx context.Context, sessionID string, cart *domain.Cart) error {
	payload := CartPayload{
		SessionID: sessionID,
		Items:     cart.Items,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}
	return p.publish(ctx, TopicCartUpdated, TypeCartUpdated, sessionID, payload)
}

// CartCleared publishes a cart cleared event.
func (p *Producer) CartCleared(ctx context.Context, sessionID string) error {
	return p.publish(ctx, TopicCartCleared, TypeCartCleared, sessionID, CartClearedPayload{SessionID: sessionID})
}

// OrderPlaced publishes an order placed event.
func (p *Producer) OrderPlaced(ctx context.Context, sessionID string, order *domain.Order) error {
	payload := OrderPlacedPayload{
		SessionID: sessionID,
		OrderID:   order.ID,
		Email:     order.Email,
		Total:     order.Total,
		Items:     len(order.Items),
	}
	return p.publish(ctx, TopicOrderPlaced, TypeOrderPlaced, sessionID, payload)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, sessionID string, payload any) error {
	evt, err := kafka.NewEvent(eventType, sessionID, "session", source, payload)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		evt.WithCorrelationID(correlationID)
	}
	return p.producer.Publish(ctx, topic, evt)
}
