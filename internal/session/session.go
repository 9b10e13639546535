// Package session implements the client session engine: identity, wishlist
// and cart state for one storefront session, kept consistent between the
// persistent store and the remote storefront API across auth transitions.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/utafrali/storefront-session/internal/domain"
	"github.com/utafrali/storefront-session/internal/gateway"
	"github.com/utafrali/storefront-session/internal/storage"
	apperrors "github.com/utafrali/storefront-session/pkg/errors"
)

const (
	// MaxQuantityPerItem caps the quantity of a single cart line.
	MaxQuantityPerItem = 100

	// MaxItemsPerCart caps the number of distinct lines in a cart.
	MaxItemsPerCart = 50
)

// Storage key suffixes. The authenticated flag and user id are stored as two
// separate keys, and the flag only counts when it is exactly "true".
const (
	keyAuthenticated = "authenticated"
	keyUserID        = "user_id"
	keyLikedProducts = "liked_products"
	keyCart          = "cart"
)

// Snapshot is an immutable view of session state. Wishlist ids are sorted.
type Snapshot struct {
	SessionID string          `json:"session_id"`
	Identity  domain.Identity `json:"identity"`
	Wishlist  []int64         `json:"wishlist"`
	Cart      *domain.Cart    `json:"cart"`
}

// Subscriber receives a snapshot after every applied mutation.
type Subscriber func(Snapshot)

// Session holds the reconciled state for one session id. All operations are
// safe for concurrent use.
type Session struct {
	id     string
	store  storage.Store
	gw     gateway.Gateway
	sink   EventSink
	logger *slog.Logger

	// mu guards identity, wishlist, cart and subs. toggleMu serializes
	// authenticated wishlist toggles across their remote call; it is never
	// held together with mu during that call, so cart operations keep
	// flowing while a toggle is in flight.
	mu        sync.Mutex
	toggleMu  sync.Mutex
	rehydrate sync.Once

	identity domain.Identity
	wishlist *domain.Wishlist
	cart     *domain.Cart
	subs     []Subscriber
}

func newSession(id string, store storage.Store, gw gateway.Gateway, sink EventSink, logger *slog.Logger) *Session {
	return &Session{
		id:       id,
		store:    store,
		gw:       gw,
		sink:     sink,
		logger:   logger.With(slog.String("session_id", id)),
		identity: domain.Guest,
		wishlist: domain.NewWishlist(),
		cart:     &domain.Cart{},
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Subscribe registers fn to receive a snapshot after every mutation.
func (s *Session) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Rehydrate loads persisted state into memory once per session. It never
// fails: unreadable or malformed values fall back to the guest defaults for
// that slice of state. A session that comes back authenticated re-pulls the
// wishlist from the server, since the server is authoritative while logged
// in; a failed pull keeps the local snapshot. Later calls are no-ops.
func (s *Session) Rehydrate(ctx context.Context) {
	s.rehydrate.Do(func() {
		identity := s.loadIdentity(ctx)
		wishlist := s.loadWishlist(ctx)
		cart := s.loadCart(ctx)

		s.mu.Lock()
		s.identity = identity
		s.wishlist = wishlist
		s.cart = cart
		s.mu.Unlock()

		if identity.Valid() {
			s.RefreshWishlist(ctx)
		}
	})
}

func (s *Session) loadIdentity(ctx context.Context) domain.Identity {
	flag, ok, err := s.store.Read(ctx, s.key(keyAuthenticated))
	if err != nil {
		s.logger.Warn("read authenticated flag failed", slog.String("error", err.Error()))
		return domain.Guest
	}
	if !ok || flag != "true" {
		return domain.Guest
	}

	raw, ok, err := s.store.Read(ctx, s.key(keyUserID))
	if err != nil {
		s.logger.Warn("read user id failed", slog.String("error", err.Error()))
		return domain.Guest
	}
	if !ok {
		return domain.Guest
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		s.logger.Warn("malformed persisted user id", slog.String("value", raw))
		return domain.Guest
	}

	return domain.Identity{UserID: userID, Authenticated: true}
}

func (s *Session) loadWishlist(ctx context.Context) *domain.Wishlist {
	raw, ok, err := s.store.Read(ctx, s.key(keyLikedProducts))
	if err != nil {
		s.logger.Warn("read wishlist failed", slog.String("error", err.Error()))
		return domain.NewWishlist()
	}
	if !ok {
		return domain.NewWishlist()
	}
	return domain.NewWishlist(domain.ParseProductIDs(raw)...)
}

func (s *Session) loadCart(ctx context.Context) *domain.Cart {
	raw, ok, err := s.store.Read(ctx, s.key(keyCart))
	if err != nil {
		s.logger.Warn("read cart failed", slog.String("error", err.Error()))
		return &domain.Cart{}
	}
	if !ok {
		return &domain.Cart{}
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.logger.Warn("malformed persisted cart, resetting", slog.String("error", err.Error()))
		return &domain.Cart{}
	}
	return &cart
}

// Login switches the session to the authenticated user and replaces the local
// wishlist with the server's liked products. The cart is kept as is.
func (s *Session) Login(ctx context.Context, userID int64, remoteLikes []int64) (Snapshot, error) {
	if userID <= 0 {
		return Snapshot{}, apperrors.InvalidInput("user id must be positive")
	}

	identity := domain.Identity{UserID: userID, Authenticated: true}
	wishlist := domain.NewWishlist(remoteLikes...)

	s.mu.Lock()
	s.identity = identity
	s.wishlist = wishlist
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persistIdentity(ctx, identity)
	s.persistWishlist(ctx, wishlist)

	if err := s.sink.LoggedIn(ctx, s.id, identity); err != nil {
		s.logger.Error("publish login event failed", slog.String("error", err.Error()))
	}
	if err := s.sink.WishlistUpdated(ctx, s.id, snap.Wishlist); err != nil {
		s.logger.Error("publish wishlist event failed", slog.String("error", err.Error()))
	}
	s.notify(snap)

	s.logger.Info("session logged in", slog.Int64("user_id", userID))
	return snap, nil
}

// Logout resets the session to guest defaults and drops all persisted state.
func (s *Session) Logout(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.identity = domain.Guest
	s.wishlist = domain.NewWishlist()
	s.cart = &domain.Cart{}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	for _, k := range []string{keyAuthenticated, keyUserID, keyLikedProducts, keyCart} {
		if err := s.store.Remove(ctx, s.key(k)); err != nil {
			s.logger.Error("remove session key failed",
				slog.String("key", k),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.sink.LoggedOut(ctx, s.id); err != nil {
		s.logger.Error("publish logout event failed", slog.String("error", err.Error()))
	}
	s.notify(snap)

	s.logger.Info("session logged out")
	return snap
}

// RefreshWishlist reconciles the wishlist with the server. For a guest it
// re-reads the persisted value. When the remote fetch fails the locally
// persisted snapshot stays authoritative and no error is returned.
func (s *Session) RefreshWishlist(ctx context.Context) Snapshot {
	s.mu.Lock()
	identity := s.identity
	s.mu.Unlock()

	if !identity.Valid() {
		wishlist := s.loadWishlist(ctx)
		s.mu.Lock()
		s.wishlist = wishlist
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return snap
	}

	user, err := s.gw.FetchUser(ctx, identity.UserID)
	if err != nil {
		s.logger.Warn("wishlist refresh failed, keeping local snapshot",
			slog.Int64("user_id", identity.UserID),
			slog.String("error", err.Error()),
		)
		s.mu.Lock()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}

	wishlist := domain.NewWishlist(user.LikedProducts...)

	s.mu.Lock()
	// The user may have logged out while the fetch was in flight.
	if s.identity != identity {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.wishlist = wishlist
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persistWishlist(ctx, wishlist)

	if err := s.sink.WishlistUpdated(ctx, s.id, snap.Wishlist); err != nil {
		s.logger.Error("publish wishlist event failed", slog.String("error", err.Error()))
	}
	s.notify(snap)
	return snap
}

// ToggleLike flips the product's wishlist membership. Guest toggles are
// purely local. Authenticated toggles perform exactly one remote call and
// adopt the server's returned set wholesale; on failure local state is left
// unchanged and the error surfaces to the caller.
func (s *Session) ToggleLike(ctx context.Context, productID int64) (Snapshot, error) {
	if productID <= 0 {
		return Snapshot{}, apperrors.InvalidInput("product id must be positive")
	}

	s.mu.Lock()
	identity := s.identity
	s.mu.Unlock()

	if !identity.Valid() {
		return s.toggleLocal(ctx, productID), nil
	}
	return s.toggleRemote(ctx, identity, productID)
}

func (s *Session) toggleLocal(ctx context.Context, productID int64) Snapshot {
	s.mu.Lock()
	if s.wishlist.Has(productID) {
		s.wishlist.Remove(productID)
	} else {
		s.wishlist.Add(productID)
	}
	wishlist := domain.NewWishlist(s.wishlist.IDs()...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persistWishlist(ctx, wishlist)

	if err := s.sink.WishlistUpdated(ctx, s.id, snap.Wishlist); err != nil {
		s.logger.Error("publish wishlist event failed", slog.String("error", err.Error()))
	}
	s.notify(snap)
	return snap
}

func (s *Session) toggleRemote(ctx context.Context, identity domain.Identity, productID int64) (Snapshot, error) {
	// One toggle at a time per session against the server. Cart operations
	// are not blocked by this.
	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	s.mu.Lock()
	if s.identity != identity {
		// Auth state changed while waiting for the toggle lock.
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, apperrors.Conflict("session auth state changed")
	}
	liked := s.wishlist.Has(productID)
	s.mu.Unlock()

	var (
		updated []int64
		err     error
	)
	if liked {
		updated, err = s.gw.UnlikeProduct(ctx, identity.UserID, productID)
	} else {
		updated, err = s.gw.LikeProduct(ctx, identity.UserID, productID)
	}
	if err != nil {
		s.mu.Lock()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}

	wishlist := domain.NewWishlist(updated...)

	s.mu.Lock()
	if s.identity != identity {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, apperrors.Conflict("session auth state changed")
	}
	s.wishlist = wishlist
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persistWishlist(ctx, wishlist)

	if err := s.sink.WishlistUpdated(ctx, s.id, snap.Wishlist); err != nil {
		s.logger.Error("publish wishlist event failed", slog.String("error", err.Error()))
	}
	s.notify(snap)
	return snap, nil
}

// AddToCart adds the line item, aggregating quantity when the product is
// already present.
func (s *Session) AddToCart(ctx context.Context, item domain.LineItem) (Snapshot, error) {
	if item.ProductID <= 0 {
		return Snapshot{}, apperrors.InvalidInput("product id must be positive")
	}
	if item.Quantity < 1 {
		return Snapshot{}, apperrors.InvalidInput("quantity must be at least 1")
	}
	if item.Quantity > MaxQuantityPerItem {
		return Snapshot{}, apperrors.InvalidInput(fmt.Sprintf("quantity exceeds maximum of %d", MaxQuantityPerItem))
	}
	if item.UnitPrice < 0 {
		return Snapshot{}, apperrors.InvalidInput("price must not be negative")
	}

	s.mu.Lock()
	if idx := s.cart.FindItemIndex(item.ProductID); idx < 0 && len(s.cart.Items) >= MaxItemsPerCart {
		s.mu.Unlock()
		return Snapshot{}, apperrors.InvalidInput(fmt.Sprintf("cart is limited to %d distinct items", MaxItemsPerCart))
	}
	s.cart.Add(item)
	if idx := s.cart.FindItemIndex(item.ProductID); idx >= 0 && s.cart.Items[idx].Quantity > MaxQuantityPerItem {
		s.cart.Items[idx].Quantity = MaxQuantityPerItem
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persistCart(ctx, snap.Cart)
	s.emitCartUpdated(ctx, snap)
	return snap, nil
}

// RemoveFromCart drops the line for the product.
func (s *Session) RemoveFromCart(ctx context.Context, productID int64) (Snapshot, error) {
	s.mu.Lock()
	if !s.cart.Remove(productID) {
		s.mu.Unlock()
		return Snapshot{}, apperrors.NotFound("cart item", strconv.FormatInt(productID, 10))
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persistCart(ctx, snap.Cart)
	s.emitCartUpdated(ctx, snap)
	return snap, nil
}

// UpdateQuantity sets the quantity for an existing line. Quantities below 1
// are rejected and leave the cart untouched.
func (s *Session) UpdateQuantity(ctx context.Context, productID int64, quantity int) (Snapshot, error) {
	if quantity < 1 {
		return Snapshot{}, apperrors.InvalidInput("quantity must be at least 1")
	}
	if quantity > MaxQuantityPerItem {
		return Snapshot{}, apperrors.InvalidInput(fmt.Sprintf("quantity exceeds maximum of %d", MaxQuantityPerItem))
	}

	s.mu.Lock()
	if !s.cart.SetQuantity(productID, quantity) {
		s.mu.Unlock()
		return Snapshot{}, apperrors.NotFound("cart item", strconv.FormatInt(productID, 10))
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persistCart(ctx, snap.Cart)
	s.emitCartUpdated(ctx, snap)
	return snap, nil
}

// ClearCart empties the cart.
func (s *Session) ClearCart(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.cart.Clear()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.store.Remove(ctx, s.key(keyCart)); err != nil {
		s.logger.Error("remove persisted cart failed", slog.String("error", err.Error()))
	}

	if err := s.sink.CartCleared(ctx, s.id); err != nil {
		s.logger.Error("publish cart cleared event failed", slog.String("error", err.Error()))
	}
	s.notify(snap)
	return snap
}

// CheckoutInfo is the buyer detail collected at checkout.
type CheckoutInfo struct {
	FirstName  string
	LastName   string
	Email      string
	Street     string
	Zip        string
	City       string
	Newsletter bool
}

// Checkout submits the cart as an order. The cart is cleared only after the
// order was accepted; on failure it is kept so the buyer can retry.
func (s *Session) Checkout(ctx context.Context, info CheckoutInfo) (*domain.Order, Snapshot, error) {
	if info.FirstName == "" || info.LastName == "" || info.Email == "" {
		return nil, Snapshot{}, apperrors.InvalidInput("first name, last name and email are required")
	}

	s.mu.Lock()
	if len(s.cart.Items) == 0 {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return nil, snap, apperrors.InvalidInput("cart is empty")
	}
	cart := s.cart.Clone()
	s.mu.Unlock()

	order := &domain.Order{
		FirstName:  info.FirstName,
		LastName:   info.LastName,
		Email:      info.Email,
		Street:     info.Street,
		Zip:        info.Zip,
		City:       info.City,
		Newsletter: info.Newsletter,
		Items:      domain.OrderItemsFromCart(cart),
		Total:      cart.Total(),
	}

	created, err := s.gw.CreateOrder(ctx, order)
	if err != nil {
		s.mu.Lock()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return nil, snap, err
	}

	s.mu.Lock()
	s.cart.Clear()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.store.Remove(ctx, s.key(keyCart)); err != nil {
		s.logger.Error("remove persisted cart failed", slog.String("error", err.Error()))
	}

	if err := s.sink.OrderPlaced(ctx, s.id, created); err != nil {
		s.logger.Error("publish order placed event failed", slog.String("error", err.Error()))
	}
	if err := s.sink.CartCleared(ctx, s.id); err != nil {
		s.logger.Error("publish cart cleared event failed", slog.String("error", err.Error()))
	}
	s.notify(snap)

	s.logger.Info("checkout completed",
		slog.Int64("order_id", created.ID),
		slog.Float64("total", order.Total),
	)
	return created, snap, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID: s.id,
		Identity:  s.identity,
		Wishlist:  s.wishlist.IDs(),
		Cart:      s.cart.Clone(),
	}
}

func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Session) emitCartUpdated(ctx context.Context, snap Snapshot) {
	if err := s.sink.CartUpdated(ctx, s.id, snap.Cart); err != nil {
		s.logger.Error("publish cart event failed", slog.String("error", err.Error()))
	}
	s.notify(snap)
}

// Persistence is fire and forget: a failed write is logged, never surfaced,
// so the in-memory state stays the source of truth for the session.

func (s *Session) persistIdentity(ctx context.Context, identity domain.Identity) {
	if !identity.Valid() {
		return
	}
	if err := s.store.Write(ctx, s.key(keyAuthenticated), "true"); err != nil {
		s.logger.Error("persist authenticated flag failed", slog.String("error", err.Error()))
	}
	if err := s.store.Write(ctx, s.key(keyUserID), strconv.FormatInt(identity.UserID, 10)); err != nil {
		s.logger.Error("persist user id failed", slog.String("error", err.Error()))
	}
}

func (s *Session) persistWishlist(ctx context.Context, wishlist *domain.Wishlist) {
	if err := s.store.Write(ctx, s.key(keyLikedProducts), wishlist.Encode()); err != nil {
		s.logger.Error("persist wishlist failed", slog.String("error", err.Error()))
	}
}

func (s *Session) persistCart(ctx context.Context, cart *domain.Cart) {
	encoded, err := json.Marshal(cart)
	if err != nil {
		s.logger.Error("encode cart failed", slog.String("error", err.Error()))
		return
	}
	if err := s.store.Write(ctx, s.key(keyCart), string(encoded)); err != nil {
		s.logger.Error("persist cart failed", slog.String("error", err.Error()))
	}
}

func (s *Session) key(field string) string {
	return "session:" + s.id + ":" + field
}
