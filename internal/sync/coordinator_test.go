package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelapp/jewel-client/internal/domain"
	"github.com/jewelapp/jewel-client/internal/notify"
)

// fakeStore keeps lists in memory.
type fakeStore struct {
	cart     domain.Cart
	wishlist domain.Wishlist
	states   map[domain.ListKind]domain.SyncState
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: make(map[domain.ListKind]domain.SyncState)}
}

func (f *fakeStore) Cart() domain.Cart                  { return append(domain.Cart{}, f.cart...) }
func (f *fakeStore) SaveCart(cart domain.Cart) error    { f.cart = cart; return nil }
func (f *fakeStore) Wishlist() domain.Wishlist          { return append(domain.Wishlist{}, f.wishlist...) }
func (f *fakeStore) SaveWishlist(w domain.Wishlist) error { f.wishlist = w; return nil }

func (f *fakeStore) SyncState(kind domain.ListKind) domain.SyncState {
	if state, ok := f.states[kind]; ok {
		return state
	}
	return domain.SyncPending
}

func (f *fakeStore) SetSyncState(kind domain.ListKind, state domain.SyncState) error {
	f.states[kind] = state
	return nil
}

// fakeCartBackend simulates the server-side cart with snapshot responses.
type fakeCartBackend struct {
	cart     domain.Cart
	failAll  bool
	addCalls []domain.CartItem
}

var errBackendDown = errors.New("backend unreachable")

func (f *fakeCartBackend) Fetch(_ context.Context, _ domain.UserIdentity) (domain.Cart, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	return append(domain.Cart{}, f.cart...), nil
}

func (f *fakeCartBackend) Add(_ context.Context, _ domain.UserIdentity, item domain.CartItem) (domain.Cart, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	f.addCalls = append(f.addCalls, item)
	f.cart.Add(item)
	return append(domain.Cart{}, f.cart...), nil
}

func (f *fakeCartBackend) Remove(_ context.Context, _ domain.UserIdentity, productID string) (domain.Cart, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	f.cart.Remove(productID)
	return append(domain.Cart{}, f.cart...), nil
}

type fakeWishlistBackend struct {
	wishlist domain.Wishlist
	failAll  bool
	addCalls []string
}

func (f *fakeWishlistBackend) Fetch(_ context.Context, _ domain.UserIdentity) (domain.Wishlist, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	return append(domain.Wishlist{}, f.wishlist...), nil
}

func (f *fakeWishlistBackend) Add(_ context.Context, _ domain.UserIdentity, productID string) (domain.Wishlist, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	f.addCalls = append(f.addCalls, productID)
	f.wishlist.Add(productID)
	return append(domain.Wishlist{}, f.wishlist...), nil
}

func (f *fakeWishlistBackend) Remove(_ context.Context, _ domain.UserIdentity, productID string) (domain.Wishlist, error) {
	if f.failAll {
		return nil, errBackendDown
	}
	f.wishlist.Remove(productID)
	return append(domain.Wishlist{}, f.wishlist...), nil
}

// fakeResolver returns a fixed identity, or none.
type fakeResolver struct {
	identity domain.UserIdentity
}

func (f *fakeResolver) Resolve(_ context.Context) (domain.UserIdentity, bool) {
	return f.identity, !f.identity.IsZero()
}

// captureEmitter records emitted events.
type captureEmitter struct {
	events []notify.Event
}

func (c *captureEmitter) Emit(event notify.Event) {
	c.events = append(c.events, event)
}

func (c *captureEmitter) lastOfType(eventType notify.EventType) (notify.Event, bool) {
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == eventType {
			return c.events[i], true
		}
	}
	return notify.Event{}, false
}

type coordinatorFixture struct {
	coordinator *Coordinator
	store       *fakeStore
	carts       *fakeCartBackend
	wishes      *fakeWishlistBackend
	resolver    *fakeResolver
	emitter     *captureEmitter
}

func setupTestCoordinator(t *testing.T) *coordinatorFixture {
	t.Helper()

	f := &coordinatorFixture{
		store:    newFakeStore(),
		carts:    &fakeCartBackend{},
		wishes:   &fakeWishlistBackend{},
		resolver: &fakeResolver{identity: "user-1"},
		emitter:  &captureEmitter{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.coordinator = NewCoordinator(f.store, f.carts, f.wishes, f.resolver, f.emitter, nil, logger)
	return f
}

func TestAddToCart_SyncedWhenBackendAccepts(t *testing.T) {
	f := setupTestCoordinator(t)
	ctx := context.Background()

	require.NoError(t, f.coordinator.AddToCart(ctx, "prod-1", "M", "gold", 2))

	assert.Len(t, f.store.cart, 1)
	assert.Equal(t, 2, f.store.cart[0].Quantity)
	assert.Equal(t, domain.SyncSynced, f.store.SyncState(domain.ListCart))

	event, ok := f.emitter.lastOfType(notify.EventCartUpdated)
	require.True(t, ok)
	data := event.Data.(notify.CartEventData)
	assert.Equal(t, 2, data.Badge)
}

func TestAddToCart_PendingWhenAnonymous(t *testing.T) {
	f := setupTestCoordinator(t)
	f.resolver.identity = domain.None
	ctx := context.Background()

	require.NoError(t, f.coordinator.AddToCart(ctx, "prod-1", "", "", 1))

	assert.Len(t, f.store.cart, 1)
	assert.Equal(t, domain.SyncPending, f.store.SyncState(domain.ListCart))
	assert.Empty(t, f.carts.addCalls, "no backend call without an identity")
}

func TestAddToCart_LocalChangeSurvivesBackendFailure(t *testing.T) {
	f := setupTestCoordinator(t)
	f.carts.failAll = true
	ctx := context.Background()

	err := f.coordinator.AddToCart(ctx, "prod-1", "M", "gold", 1)

	require.NoError(t, err, "backend failure never surfaces on list operations")
	assert.Len(t, f.store.cart, 1, "optimistic local change is not rolled back")
	assert.Equal(t, domain.SyncDiverged, f.store.SyncState(domain.ListCart))
}

func TestAddToCart_SnapshotOverwritesLocal(t *testing.T) {
	f := setupTestCoordinator(t)
	// Backend already holds an item this client has never seen.
	f.carts.cart = domain.Cart{{ProductID: "prod-other", Quantity: 1}}
	ctx := context.Background()

	require.NoError(t, f.coordinator.AddToCart(ctx, "prod-1", "", "", 1))

	assert.Len(t, f.store.cart, 2, "full snapshot replaces the local copy")
	assert.Equal(t, domain.SyncSynced, f.store.SyncState(domain.ListCart))
}

func TestRemoveFromCart_DivergedOnFailure(t *testing.T) {
	f := setupTestCoordinator(t)
	ctx := context.Background()
	require.NoError(t, f.coordinator.AddToCart(ctx, "prod-1", "", "", 1))

	f.carts.failAll = true
	require.NoError(t, f.coordinator.RemoveFromCart(ctx, "prod-1"))

	assert.Empty(t, f.store.cart, "local removal sticks")
	assert.Equal(t, domain.SyncDiverged, f.store.SyncState(domain.ListCart))
}

func TestCart_ServesCacheWhenBackendDown(t *testing.T) {
	f := setupTestCoordinator(t)
	f.store.cart = domain.Cart{{ProductID: "prod-1", Quantity: 1}}
	f.store.states[domain.ListCart] = domain.SyncSynced
	f.carts.failAll = true

	cart, state := f.coordinator.Cart(context.Background())

	assert.Len(t, cart, 1)
	assert.Equal(t, domain.SyncSynced, state, "persisted state is reported, not recomputed")
}

func TestCart_RefreshesFromBackend(t *testing.T) {
	f := setupTestCoordinator(t)
	f.carts.cart = domain.Cart{{ProductID: "prod-9", Quantity: 3}}

	cart, state := f.coordinator.Cart(context.Background())

	assert.Equal(t, domain.SyncSynced, state)
	require.Len(t, cart, 1)
	assert.Equal(t, "prod-9", cart[0].ProductID)
	assert.Equal(t, cart, f.store.cart, "snapshot persisted locally")
}

func TestClearCart(t *testing.T) {
	f := setupTestCoordinator(t)
	ctx := context.Background()
	require.NoError(t, f.coordinator.AddToCart(ctx, "prod-1", "", "", 1))

	require.NoError(t, f.coordinator.ClearCart(ctx))

	assert.Empty(t, f.store.cart)
	assert.Equal(t, domain.SyncSynced, f.store.SyncState(domain.ListCart))
}

func TestAddToWishlist_Flow(t *testing.T) {
	f := setupTestCoordinator(t)
	ctx := context.Background()

	require.NoError(t, f.coordinator.AddToWishlist(ctx, "prod-1"))
	require.NoError(t, f.coordinator.AddToWishlist(ctx, "prod-1"))

	assert.Equal(t, domain.Wishlist{"prod-1"}, f.store.wishlist)
	assert.Equal(t, domain.SyncSynced, f.store.SyncState(domain.ListWishlist))

	event, ok := f.emitter.lastOfType(notify.EventWishlistUpdated)
	require.True(t, ok)
	assert.Equal(t, 1, event.Data.(notify.WishlistEventData).Badge)
}

func TestAddToWishlist_DivergedOnFailure(t *testing.T) {
	f := setupTestCoordinator(t)
	f.wishes.failAll = true

	require.NoError(t, f.coordinator.AddToWishlist(context.Background(), "prod-1"))

	assert.Equal(t, domain.Wishlist{"prod-1"}, f.store.wishlist)
	assert.Equal(t, domain.SyncDiverged, f.store.SyncState(domain.ListWishlist))
}

func TestMergeOnLogin_RequiresIdentity(t *testing.T) {
	f := setupTestCoordinator(t)
	f.resolver.identity = domain.None

	err := f.coordinator.MergeOnLogin(context.Background())

	assert.Error(t, err)
}

func TestMergeOnLogin_UnionsLocalIntoAccount(t *testing.T) {
	f := setupTestCoordinator(t)
	f.store.wishlist = domain.Wishlist{"prod-local", "prod-shared"}
	f.wishes.wishlist = domain.Wishlist{"prod-shared", "prod-remote"}
	f.store.cart = domain.Cart{{ProductID: "prod-c1", Size: "M", Quantity: 1}}
	f.carts.cart = domain.Cart{{ProductID: "prod-c2", Quantity: 1}}

	require.NoError(t, f.coordinator.MergeOnLogin(context.Background()))

	// Only the missing local items were pushed.
	assert.Equal(t, []string{"prod-local"}, f.wishes.addCalls)
	require.Len(t, f.carts.addCalls, 1)
	assert.Equal(t, "prod-c1", f.carts.addCalls[0].ProductID)

	// Local copies now hold the union.
	assert.ElementsMatch(t, domain.Wishlist{"prod-local", "prod-shared", "prod-remote"}, f.store.wishlist)
	assert.Len(t, f.store.cart, 2)
	assert.Equal(t, domain.SyncSynced, f.store.SyncState(domain.ListWishlist))
	assert.Equal(t, domain.SyncSynced, f.store.SyncState(domain.ListCart))
}

func TestMergeOnLogin_Idempotent(t *testing.T) {
	f := setupTestCoordinator(t)
	f.store.wishlist = domain.Wishlist{"prod-1"}

	require.NoError(t, f.coordinator.MergeOnLogin(context.Background()))
	firstCalls := len(f.wishes.addCalls)
	require.NoError(t, f.coordinator.MergeOnLogin(context.Background()))

	assert.Equal(t, firstCalls, len(f.wishes.addCalls), "second merge pushes nothing")
}

func TestMergeOnLogin_SameVariantNotDuplicated(t *testing.T) {
	f := setupTestCoordinator(t)
	f.store.cart = domain.Cart{{ProductID: "prod-1", Size: "M", Metal: "gold", Quantity: 2}}
	f.carts.cart = domain.Cart{{ProductID: "prod-1", Size: "M", Metal: "gold", Quantity: 1}}

	require.NoError(t, f.coordinator.MergeOnLogin(context.Background()))

	assert.Empty(t, f.carts.addCalls, "variant already on the account is skipped")
	require.Len(t, f.store.cart, 1)
	assert.Equal(t, 1, f.store.cart[0].Quantity, "account quantity wins")
}

func TestMergeOnLogin_FetchFailureKeepsLocal(t *testing.T) {
	f := setupTestCoordinator(t)
	f.store.wishlist = domain.Wishlist{"prod-1"}
	f.wishes.failAll = true
	f.carts.failAll = true

	require.NoError(t, f.coordinator.MergeOnLogin(context.Background()))

	assert.Equal(t, domain.Wishlist{"prod-1"}, f.store.wishlist)
	assert.Equal(t, domain.SyncDiverged, f.store.SyncState(domain.ListWishlist))
	assert.Equal(t, domain.SyncDiverged, f.store.SyncState(domain.ListCart))
}

// catalogStub provides product details for cart line enrichment.
type catalogStub struct {
	products map[string]*domain.Product
}

func (c *catalogStub) Product(productID string) (*domain.Product, bool) {
	p, ok := c.products[productID]
	return p, ok
}

func TestAddToCart_EnrichedFromCatalog(t *testing.T) {
	f := setupTestCoordinator(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := &catalogStub{products: map[string]*domain.Product{
		"prod-1": {
			Syncable: domain.Syncable{ID: "prod-1"},
			Title:    "Gold Jhumka",
			Price:    2500,
			Images:   []string{"https://cdn.example.com/jhumka.jpg"},
		},
	}}
	f.coordinator = NewCoordinator(f.store, f.carts, f.wishes, f.resolver, f.emitter, catalog, logger)

	require.NoError(t, f.coordinator.AddToCart(context.Background(), "prod-1", "", "", 1))

	require.Len(t, f.carts.addCalls, 1)
	assert.Equal(t, "Gold Jhumka", f.carts.addCalls[0].Title)
	assert.InDelta(t, 2500.0, f.carts.addCalls[0].Price, 0.001)
	assert.Equal(t, "https://cdn.example.com/jhumka.jpg", f.carts.addCalls[0].Image)
}
