package session

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront-session/internal/domain"
	"github.com/utafrali/storefront-session/internal/gateway"
	"github.com/utafrali/storefront-session/internal/storage/memory"
	apperrors "github.com/utafrali/storefront-session/pkg/errors"
)

// --- Mock Gateway ---

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FetchUser(ctx context.Context, userID int64) (*gateway.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.User), args.Error(1)
}

func (m *mockGateway) LikeProduct(ctx context.Context, userID, productID int64) ([]int64, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockGateway) UnlikeProduct(ctx context.Context, userID, productID int64) ([]int64, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockGateway) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSession(t *testing.T, store *memory.Store, gw *mockGateway) *Session {
	t.Helper()
	mgr := NewManager(store, gw, nil, newTestLogger())
	sess, err := mgr.Session(context.Background(), "sess-1")
	require.NoError(t, err)
	return sess
}

func mugItem(qty int) domain.LineItem {
	return domain.LineItem{ProductID: 1, Name: "Mug", UnitPrice: 12.5, Quantity: qty}
}

func checkoutInfo() CheckoutInfo {
	return CheckoutInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Street:    "1 Analytical Way",
		Zip:       "12345",
		City:      "London",
	}
}

// --- Rehydration ---

func TestRehydrate_EmptyStoreYieldsGuestDefaults(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))

	snap := sess.Snapshot()
	assert.Equal(t, domain.Guest, snap.Identity)
	assert.Empty(t, snap.Wishlist)
	assert.Empty(t, snap.Cart.Items)
}

func TestRehydrate_PersistedState(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "session:sess-1:authenticated", "true"))
	require.NoError(t, store.Write(ctx, "session:sess-1:user_id", "42"))
	require.NoError(t, store.Write(ctx, "session:sess-1:liked_products", "[3,1]"))
	require.NoError(t, store.Write(ctx, "session:sess-1:cart", `{"items":[{"id":1,"name":"Mug","price":12.5,"quantity":2}]}`))

	// Unreachable server: the persisted snapshot stays authoritative.
	gw := new(mockGateway)
	gw.On("FetchUser", mock.Anything, int64(42)).
		Return(nil, apperrors.Unavailable("storefront api down"))

	sess := newTestSession(t, store, gw)

	snap := sess.Snapshot()
	assert.True(t, snap.Identity.Authenticated)
	assert.Equal(t, int64(42), snap.Identity.UserID)
	assert.Equal(t, []int64{1, 3}, snap.Wishlist)
	require.Len(t, snap.Cart.Items, 1)
	assert.Equal(t, 2, snap.Cart.Items[0].Quantity)
}

func TestRehydrate_AuthenticatedRefreshesFromServer(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "session:sess-1:authenticated", "true"))
	require.NoError(t, store.Write(ctx, "session:sess-1:user_id", "42"))
	require.NoError(t, store.Write(ctx, "session:sess-1:liked_products", "[1]"))

	gw := new(mockGateway)
	gw.On("FetchUser", mock.Anything, int64(42)).
		Return(&gateway.User{ID: 42, LikedProducts: []int64{9}}, nil)

	sess := newTestSession(t, store, gw)

	assert.Equal(t, []int64{9}, sess.Snapshot().Wishlist)

	val, ok, _ := store.Read(ctx, "session:sess-1:liked_products")
	assert.True(t, ok)
	assert.Equal(t, "[9]", val)
	gw.AssertExpectations(t)
}

func TestRehydrate_GuestDoesNotCallServer(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Write(context.Background(), "session:sess-1:liked_products", "[1]"))

	gw := new(mockGateway)
	sess := newTestSession(t, store, gw)

	assert.Equal(t, []int64{1}, sess.Snapshot().Wishlist)
	gw.AssertNotCalled(t, "FetchUser", mock.Anything, mock.Anything)
}

func TestRehydrate_LegacyCommaStringWishlist(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Write(context.Background(), "session:sess-1:liked_products", "7,2,7"))

	sess := newTestSession(t, store, new(mockGateway))
	assert.Equal(t, []int64{2, 7}, sess.Snapshot().Wishlist)
}

func TestRehydrate_MalformedValuesFallBackToDefaults(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "session:sess-1:authenticated", "yes"))
	require.NoError(t, store.Write(ctx, "session:sess-1:user_id", "forty-two"))
	require.NoError(t, store.Write(ctx, "session:sess-1:liked_products", "{broken"))
	require.NoError(t, store.Write(ctx, "session:sess-1:cart", "{broken"))

	sess := newTestSession(t, store, new(mockGateway))

	snap := sess.Snapshot()
	assert.Equal(t, domain.Guest, snap.Identity)
	assert.Empty(t, snap.Wishlist)
	assert.Empty(t, snap.Cart.Items)
}

func TestRehydrate_AuthenticatedFlagWithoutUserID(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Write(context.Background(), "session:sess-1:authenticated", "true"))

	sess := newTestSession(t, store, new(mockGateway))
	assert.Equal(t, domain.Guest, sess.Snapshot().Identity)
}

// --- Login / Logout ---

func TestLogin_ReplacesLocalWishlistAndKeepsCart(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Write(context.Background(), "session:sess-1:liked_products", "[99]"))

	sess := newTestSession(t, store, new(mockGateway))
	_, err := sess.AddToCart(context.Background(), mugItem(2))
	require.NoError(t, err)

	snap, err := sess.Login(context.Background(), 42, []int64{5, 3})
	require.NoError(t, err)

	assert.True(t, snap.Identity.Authenticated)
	assert.Equal(t, int64(42), snap.Identity.UserID)
	assert.Equal(t, []int64{3, 5}, snap.Wishlist)
	require.Len(t, snap.Cart.Items, 1)
	assert.Equal(t, 2, snap.Cart.Items[0].Quantity)
}

func TestLogin_PersistsIdentityAndWishlist(t *testing.T) {
	store := memory.NewStore()
	sess := newTestSession(t, store, new(mockGateway))

	_, err := sess.Login(context.Background(), 42, []int64{3})
	require.NoError(t, err)

	ctx := context.Background()
	flag, ok, _ := store.Read(ctx, "session:sess-1:authenticated")
	assert.True(t, ok)
	assert.Equal(t, "true", flag)

	uid, ok, _ := store.Read(ctx, "session:sess-1:user_id")
	assert.True(t, ok)
	assert.Equal(t, "42", uid)

	likes, ok, _ := store.Read(ctx, "session:sess-1:liked_products")
	assert.True(t, ok)
	assert.Equal(t, "[3]", likes)
}

func TestLogin_RejectsNonPositiveUserID(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))

	_, err := sess.Login(context.Background(), 0, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestLogout_ResetsStateAndDropsPersistedKeys(t *testing.T) {
	store := memory.NewStore()
	sess := newTestSession(t, store, new(mockGateway))

	_, err := sess.Login(context.Background(), 42, []int64{3})
	require.NoError(t, err)
	_, err = sess.AddToCart(context.Background(), mugItem(1))
	require.NoError(t, err)

	snap := sess.Logout(context.Background())

	assert.Equal(t, domain.Guest, snap.Identity)
	assert.Empty(t, snap.Wishlist)
	assert.Empty(t, snap.Cart.Items)
	assert.Equal(t, 0, store.Len())
}

// --- Wishlist: guest toggles ---

func TestToggleLike_GuestAddsAndRemovesLocally(t *testing.T) {
	store := memory.NewStore()
	gw := new(mockGateway)
	sess := newTestSession(t, store, gw)

	snap, err := sess.ToggleLike(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, snap.Wishlist)

	snap, err = sess.ToggleLike(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, snap.Wishlist)

	// No remote calls for a guest.
	gw.AssertNotCalled(t, "LikeProduct", mock.Anything, mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "UnlikeProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleLike_GuestPersistsWishlist(t *testing.T) {
	store := memory.NewStore()
	sess := newTestSession(t, store, new(mockGateway))

	_, err := sess.ToggleLike(context.Background(), 7)
	require.NoError(t, err)

	val, ok, _ := store.Read(context.Background(), "session:sess-1:liked_products")
	assert.True(t, ok)
	assert.Equal(t, "[7]", val)
}

func TestToggleLike_RejectsNonPositiveProductID(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))

	_, err := sess.ToggleLike(context.Background(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- Wishlist: authenticated toggles ---

func TestToggleLike_AuthenticatedAdoptsServerSet(t *testing.T) {
	store := memory.NewStore()
	gw := new(mockGateway)
	sess := newTestSession(t, store, gw)

	_, err := sess.Login(context.Background(), 42, []int64{3})
	require.NoError(t, err)

	// Server returns a set that differs from a plain local toggle.
	gw.On("LikeProduct", mock.Anything, int64(42), int64(7)).Return([]int64{3, 7, 11}, nil)

	snap, err := sess.ToggleLike(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7, 11}, snap.Wishlist)

	val, ok, _ := store.Read(context.Background(), "session:sess-1:liked_products")
	assert.True(t, ok)
	assert.Equal(t, "[3,7,11]", val)
	gw.AssertExpectations(t)
}

func TestToggleLike_AuthenticatedUnlikeForLikedProduct(t *testing.T) {
	gw := new(mockGateway)
	sess := newTestSession(t, memory.NewStore(), gw)

	_, err := sess.Login(context.Background(), 42, []int64{7})
	require.NoError(t, err)

	gw.On("UnlikeProduct", mock.Anything, int64(42), int64(7)).Return([]int64{}, nil)

	snap, err := sess.ToggleLike(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, snap.Wishlist)
	gw.AssertExpectations(t)
}

func TestToggleLike_AuthenticatedFailureLeavesStateUnchanged(t *testing.T) {
	store := memory.NewStore()
	gw := new(mockGateway)
	sess := newTestSession(t, store, gw)

	_, err := sess.Login(context.Background(), 42, []int64{3})
	require.NoError(t, err)

	gw.On("LikeProduct", mock.Anything, int64(42), int64(7)).
		Return(nil, apperrors.Unavailable("storefront api down"))

	_, err = sess.ToggleLike(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	assert.Equal(t, []int64{3}, sess.Snapshot().Wishlist)
	val, _, _ := store.Read(context.Background(), "session:sess-1:liked_products")
	assert.Equal(t, "[3]", val)
}

// --- Wishlist refresh ---

func TestRefreshWishlist_AuthenticatedReplacesFromServer(t *testing.T) {
	gw := new(mockGateway)
	sess := newTestSession(t, memory.NewStore(), gw)

	_, err := sess.Login(context.Background(), 42, []int64{1})
	require.NoError(t, err)

	gw.On("FetchUser", mock.Anything, int64(42)).
		Return(&gateway.User{ID: 42, LikedProducts: []int64{8, 2}}, nil)

	snap := sess.RefreshWishlist(context.Background())
	assert.Equal(t, []int64{2, 8}, snap.Wishlist)
	gw.AssertExpectations(t)
}

func TestRefreshWishlist_FailureKeepsLocalSnapshot(t *testing.T) {
	gw := new(mockGateway)
	sess := newTestSession(t, memory.NewStore(), gw)

	_, err := sess.Login(context.Background(), 42, []int64{1})
	require.NoError(t, err)

	gw.On("FetchUser", mock.Anything, int64(42)).
		Return(nil, apperrors.Unavailable("storefront api down"))

	snap := sess.RefreshWishlist(context.Background())
	assert.Equal(t, []int64{1}, snap.Wishlist)
}

func TestRefreshWishlist_GuestReloadsPersistedValue(t *testing.T) {
	store := memory.NewStore()
	gw := new(mockGateway)
	sess := newTestSession(t, store, gw)

	require.NoError(t, store.Write(context.Background(), "session:sess-1:liked_products", "[9]"))

	snap := sess.RefreshWishlist(context.Background())
	assert.Equal(t, []int64{9}, snap.Wishlist)
	gw.AssertNotCalled(t, "FetchUser", mock.Anything, mock.Anything)
}

// --- Cart ---

func TestAddToCart_AggregatesQuantity(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))

	_, err := sess.AddToCart(context.Background(), mugItem(1))
	require.NoError(t, err)
	snap, err := sess.AddToCart(context.Background(), mugItem(2))
	require.NoError(t, err)

	require.Len(t, snap.Cart.Items, 1)
	assert.Equal(t, 3, snap.Cart.Items[0].Quantity)
}

func TestAddToCart_RejectsInvalidInput(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))

	_, err := sess.AddToCart(context.Background(), mugItem(0))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = sess.AddToCart(context.Background(), mugItem(-1))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = sess.AddToCart(context.Background(), domain.LineItem{ProductID: 0, Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Empty(t, sess.Snapshot().Cart.Items)
}

func TestAddToCart_PersistsCart(t *testing.T) {
	store := memory.NewStore()
	sess := newTestSession(t, store, new(mockGateway))

	_, err := sess.AddToCart(context.Background(), mugItem(2))
	require.NoError(t, err)

	val, ok, _ := store.Read(context.Background(), "session:sess-1:cart")
	assert.True(t, ok)
	assert.JSONEq(t, `{"items":[{"id":1,"name":"Mug","price":12.5,"quantity":2}]}`, val)
}

func TestUpdateQuantity_Success(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))
	_, err := sess.AddToCart(context.Background(), mugItem(1))
	require.NoError(t, err)

	snap, err := sess.UpdateQuantity(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Cart.Items[0].Quantity)
}

func TestUpdateQuantity_RejectsBelowOne(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))
	_, err := sess.AddToCart(context.Background(), mugItem(2))
	require.NoError(t, err)

	_, err = sess.UpdateQuantity(context.Background(), 1, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = sess.UpdateQuantity(context.Background(), 1, -3)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// The rejected updates left the line untouched.
	assert.Equal(t, 2, sess.Snapshot().Cart.Items[0].Quantity)
}

func TestUpdateQuantity_MissingLine(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))

	_, err := sess.UpdateQuantity(context.Background(), 99, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemoveFromCart_Success(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))
	_, err := sess.AddToCart(context.Background(), mugItem(1))
	require.NoError(t, err)

	snap, err := sess.RemoveFromCart(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, snap.Cart.Items)
}

func TestRemoveFromCart_MissingLine(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))

	_, err := sess.RemoveFromCart(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClearCart_RemovesPersistedKey(t *testing.T) {
	store := memory.NewStore()
	sess := newTestSession(t, store, new(mockGateway))
	_, err := sess.AddToCart(context.Background(), mugItem(1))
	require.NoError(t, err)

	snap := sess.ClearCart(context.Background())
	assert.Empty(t, snap.Cart.Items)

	_, ok, _ := store.Read(context.Background(), "session:sess-1:cart")
	assert.False(t, ok)
}

// --- Checkout ---

func TestCheckout_SuccessClearsCart(t *testing.T) {
	store := memory.NewStore()
	gw := new(mockGateway)
	sess := newTestSession(t, store, gw)

	_, err := sess.AddToCart(context.Background(), mugItem(2))
	require.NoError(t, err)

	gw.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Email == "ada@example.com" && len(o.Items) == 1 && o.Total == 25
	})).Return(&domain.Order{ID: 1001, Email: "ada@example.com", Total: 25}, nil)

	order, snap, err := sess.Checkout(context.Background(), checkoutInfo())
	require.NoError(t, err)
	assert.Equal(t, int64(1001), order.ID)
	assert.Empty(t, snap.Cart.Items)

	_, ok, _ := store.Read(context.Background(), "session:sess-1:cart")
	assert.False(t, ok)
	gw.AssertExpectations(t)
}

func TestCheckout_FailureKeepsCart(t *testing.T) {
	store := memory.NewStore()
	gw := new(mockGateway)
	sess := newTestSession(t, store, gw)

	_, err := sess.AddToCart(context.Background(), mugItem(2))
	require.NoError(t, err)

	gw.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, apperrors.Unavailable("storefront api down"))

	_, snap, err := sess.Checkout(context.Background(), checkoutInfo())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	require.Len(t, snap.Cart.Items, 1)

	val, ok, _ := store.Read(context.Background(), "session:sess-1:cart")
	assert.True(t, ok)
	assert.NotEmpty(t, val)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	gw := new(mockGateway)
	sess := newTestSession(t, memory.NewStore(), gw)

	_, _, err := sess.Checkout(context.Background(), checkoutInfo())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	gw.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckout_MissingBuyerDetailsRejected(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))
	_, err := sess.AddToCart(context.Background(), mugItem(1))
	require.NoError(t, err)

	info := checkoutInfo()
	info.Email = ""
	_, _, err = sess.Checkout(context.Background(), info)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- Snapshots and subscribers ---

func TestSnapshot_IsImmutable(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))
	_, err := sess.AddToCart(context.Background(), mugItem(1))
	require.NoError(t, err)

	snap := sess.Snapshot()
	snap.Cart.Items[0].Quantity = 99
	snap.Wishlist = append(snap.Wishlist, 5)

	fresh := sess.Snapshot()
	assert.Equal(t, 1, fresh.Cart.Items[0].Quantity)
	assert.Empty(t, fresh.Wishlist)
}

func TestSubscribe_NotifiedOnEveryMutation(t *testing.T) {
	sess := newTestSession(t, memory.NewStore(), new(mockGateway))

	var seen []Snapshot
	sess.Subscribe(func(snap Snapshot) { seen = append(seen, snap) })

	_, err := sess.AddToCart(context.Background(), mugItem(1))
	require.NoError(t, err)
	_, err = sess.ToggleLike(context.Background(), 7)
	require.NoError(t, err)
	sess.Logout(context.Background())

	require.Len(t, seen, 3)
	assert.Equal(t, 1, seen[0].Cart.ItemCount())
	assert.Equal(t, []int64{7}, seen[1].Wishlist)
	assert.Equal(t, domain.Guest, seen[2].Identity)
}

// --- Manager ---

func TestManager_RequiresSessionID(t *testing.T) {
	mgr := NewManager(memory.NewStore(), new(mockGateway), nil, newTestLogger())

	_, err := mgr.Session(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestManager_ReturnsSameSessionForSameID(t *testing.T) {
	mgr := NewManager(memory.NewStore(), new(mockGateway), nil, newTestLogger())

	a, err := mgr.Session(context.Background(), "s1")
	require.NoError(t, err)
	b, err := mgr.Session(context.Background(), "s1")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, mgr.Count())
}

func TestManager_EvictedSessionRehydratesFromStore(t *testing.T) {
	store := memory.NewStore()
	mgr := NewManager(store, new(mockGateway), nil, newTestLogger())

	sess, err := mgr.Session(context.Background(), "s1")
	require.NoError(t, err)
	_, err = sess.AddToCart(context.Background(), domain.LineItem{ProductID: 1, Name: "Mug", UnitPrice: 12.5, Quantity: 2})
	require.NoError(t, err)

	mgr.Evict("s1")

	revived, err := mgr.Session(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotSame(t, sess, revived)
	require.Len(t, revived.Snapshot().Cart.Items, 1)
	assert.Equal(t, 2, revived.Snapshot().Cart.Items[0].Quantity)
}

func TestManager_OnChangeAppliesToExistingAndNewSessions(t *testing.T) {
	mgr := NewManager(memory.NewStore(), new(mockGateway), nil, newTestLogger())

	existing, err := mgr.Session(context.Background(), "s1")
	require.NoError(t, err)

	var count int
	mgr.OnChange(func(Snapshot) { count++ })

	_, err = existing.ToggleLike(context.Background(), 1)
	require.NoError(t, err)

	fresh, err := mgr.Session(context.Background(), "s2")
	require.NoError(t, err)
	_, err = fresh.ToggleLike(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, count)
}
