// Package sync reconciles the locally cached cart and wishlist with
// their server-side copies.
//
// Every mutation is applied locally first, so the UI always reflects
// the action immediately. The remote call happens after, and only when
// an identity is available; a failed remote call never rolls the local
// change back and never reaches the caller. Divergence is recorded in
// the per-list sync status instead.
package sync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jewelapp/jewel-client/internal/domain"
	"github.com/jewelapp/jewel-client/internal/notify"
)

// Store is the slice of the local store the coordinator needs.
type Store interface {
	Cart() domain.Cart
	SaveCart(cart domain.Cart) error
	Wishlist() domain.Wishlist
	SaveWishlist(list domain.Wishlist) error
	SyncState(kind domain.ListKind) domain.SyncState
	SetSyncState(kind domain.ListKind, state domain.SyncState) error
}

// CartBackend is the server-side cart API. Every call returns the full
// post-operation snapshot.
type CartBackend interface {
	Fetch(ctx context.Context, identity domain.UserIdentity) (domain.Cart, error)
	Add(ctx context.Context, identity domain.UserIdentity, item domain.CartItem) (domain.Cart, error)
	Remove(ctx context.Context, identity domain.UserIdentity, productID string) (domain.Cart, error)
}

// WishlistBackend is the server-side wishlist API.
type WishlistBackend interface {
	Fetch(ctx context.Context, identity domain.UserIdentity) (domain.Wishlist, error)
	Add(ctx context.Context, identity domain.UserIdentity, productID string) (domain.Wishlist, error)
	Remove(ctx context.Context, identity domain.UserIdentity, productID string) (domain.Wishlist, error)
}

// IdentityResolver reports the identity to key backend calls with.
type IdentityResolver interface {
	Resolve(ctx context.Context) (domain.UserIdentity, bool)
}

// Emitter receives state-change events. The notify bus implements this.
type Emitter interface {
	Emit(event notify.Event)
}

// ProductLookup enriches bare product IDs with display data when the
// catalog has it. Optional; a nil lookup leaves cart lines bare.
type ProductLookup interface {
	Product(productID string) (*domain.Product, bool)
}

// Coordinator owns every cart and wishlist mutation.
type Coordinator struct {
	store    Store
	carts    CartBackend
	wishes   WishlistBackend
	resolver IdentityResolver
	emitter  Emitter
	catalog  ProductLookup
	logger   *slog.Logger

	// Serializes list mutations. Reads of the cache itself are safe
	// without it, but the local-mutate-then-reconcile sequence is not.
	mu sync.Mutex
}

// NewCoordinator creates a sync coordinator. catalog may be nil.
func NewCoordinator(
	store Store,
	carts CartBackend,
	wishes WishlistBackend,
	resolver IdentityResolver,
	emitter Emitter,
	catalog ProductLookup,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		store:    store,
		carts:    carts,
		wishes:   wishes,
		resolver: resolver,
		emitter:  emitter,
		catalog:  catalog,
		logger:   logger,
	}
}

// Cart returns the current cart and its sync status. With an identity
// available it refreshes from the backend first; otherwise, or when the
// backend is unreachable, the cached copy is served as-is.
func (c *Coordinator) Cart(ctx context.Context) (domain.Cart, domain.SyncState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, ok := c.resolver.Resolve(ctx)
	if !ok {
		return c.store.Cart(), c.store.SyncState(domain.ListCart)
	}

	snapshot, err := c.carts.Fetch(ctx, identity)
	if err != nil {
		c.logger.Warn("cart refresh failed, serving cached copy", "error", err)
		return c.store.Cart(), c.store.SyncState(domain.ListCart)
	}
	c.storeCart(snapshot, domain.SyncSynced)
	return snapshot, domain.SyncSynced
}

// AddToCart puts qty units of a product variant in the cart. An
// existing line with the same (productID, size, metal) has its quantity
// incremented instead of a duplicate line being appended.
func (c *Coordinator) AddToCart(ctx context.Context, productID, size, metal string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.cartItem(productID, size, metal, qty)

	local := c.store.Cart()
	local.Add(item)
	if err := c.store.SaveCart(local); err != nil {
		c.logger.Error("persisting cart failed", "error", err)
	}

	identity, ok := c.resolver.Resolve(ctx)
	if !ok {
		c.storeCart(local, domain.SyncPending)
		return nil
	}

	snapshot, err := c.carts.Add(ctx, identity, item)
	if err != nil {
		c.logger.Warn("cart add not reconciled", "product_id", productID, "error", err)
		c.storeCart(local, domain.SyncDiverged)
		return nil
	}
	c.storeCart(snapshot, domain.SyncSynced)
	return nil
}

// RemoveFromCart drops every cart line for the product.
func (c *Coordinator) RemoveFromCart(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	local := c.store.Cart()
	local.Remove(productID)
	if err := c.store.SaveCart(local); err != nil {
		c.logger.Error("persisting cart failed", "error", err)
	}

	identity, ok := c.resolver.Resolve(ctx)
	if !ok {
		c.storeCart(local, domain.SyncPending)
		return nil
	}

	snapshot, err := c.carts.Remove(ctx, identity, productID)
	if err != nil {
		c.logger.Warn("cart remove not reconciled", "product_id", productID, "error", err)
		c.storeCart(local, domain.SyncDiverged)
		return nil
	}
	c.storeCart(snapshot, domain.SyncSynced)
	return nil
}

// Wishlist returns the current wishlist and its sync status, refreshing
// from the backend when possible.
func (c *Coordinator) Wishlist(ctx context.Context) (domain.Wishlist, domain.SyncState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, ok := c.resolver.Resolve(ctx)
	if !ok {
		return c.store.Wishlist(), c.store.SyncState(domain.ListWishlist)
	}

	snapshot, err := c.wishes.Fetch(ctx, identity)
	if err != nil {
		c.logger.Warn("wishlist refresh failed, serving cached copy", "error", err)
		return c.store.Wishlist(), c.store.SyncState(domain.ListWishlist)
	}
	c.storeWishlist(snapshot, domain.SyncSynced)
	return snapshot, domain.SyncSynced
}

// AddToWishlist records a product on the wishlist. Adding a product
// that is already present is a no-op.
func (c *Coordinator) AddToWishlist(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	local := c.store.Wishlist()
	local.Add(productID)
	if err := c.store.SaveWishlist(local); err != nil {
		c.logger.Error("persisting wishlist failed", "error", err)
	}

	identity, ok := c.resolver.Resolve(ctx)
	if !ok {
		c.storeWishlist(local, domain.SyncPending)
		return nil
	}

	snapshot, err := c.wishes.Add(ctx, identity, productID)
	if err != nil {
		c.logger.Warn("wishlist add not reconciled", "product_id", productID, "error", err)
		c.storeWishlist(local, domain.SyncDiverged)
		return nil
	}
	c.storeWishlist(snapshot, domain.SyncSynced)
	return nil
}

// RemoveFromWishlist drops a product from the wishlist. Removing an
// absent product is a no-op.
func (c *Coordinator) RemoveFromWishlist(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	local := c.store.Wishlist()
	local.Remove(productID)
	if err := c.store.SaveWishlist(local); err != nil {
		c.logger.Error("persisting wishlist failed", "error", err)
	}

	identity, ok := c.resolver.Resolve(ctx)
	if !ok {
		c.storeWishlist(local, domain.SyncPending)
		return nil
	}

	snapshot, err := c.wishes.Remove(ctx, identity, productID)
	if err != nil {
		c.logger.Warn("wishlist remove not reconciled", "product_id", productID, "error", err)
		c.storeWishlist(local, domain.SyncDiverged)
		return nil
	}
	c.storeWishlist(snapshot, domain.SyncSynced)
	return nil
}

// ClearCart empties the local cart. Checkout calls this after the
// backend accepted the order, at which point the server-side cart is
// already empty.
func (c *Coordinator) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := domain.SyncPending
	if _, ok := c.resolver.Resolve(ctx); ok {
		state = domain.SyncSynced
	}
	c.storeCart(domain.Cart{}, state)
	return nil
}

// cartItem builds the cart line for a product, enriched from the
// catalog cache when available.
func (c *Coordinator) cartItem(productID, size, metal string, qty int) domain.CartItem {
	if qty <= 0 {
		qty = 1
	}
	item := domain.CartItem{
		ProductID: productID,
		Size:      size,
		Metal:     metal,
		Quantity:  qty,
	}
	if c.catalog != nil {
		if product, ok := c.catalog.Product(productID); ok {
			item.Title = product.Title
			item.Price = product.Price
			item.Image = product.PrimaryImage()
		}
	}
	return item
}

// storeCart persists the cart and its status and notifies subscribers.
// Persistence failures are logged only; the in-memory result has
// already been decided and callers get one consistent answer.
func (c *Coordinator) storeCart(cart domain.Cart, state domain.SyncState) {
	if err := c.store.SaveCart(cart); err != nil {
		c.logger.Error("persisting cart failed", "error", err)
	}
	if err := c.store.SetSyncState(domain.ListCart, state); err != nil {
		c.logger.Error("persisting cart sync status failed", "error", err)
	}
	c.emitter.Emit(notify.NewEvent(notify.EventCartUpdated, notify.CartEventData{
		Items: cart,
		State: state,
		Badge: cart.TotalQuantity(),
	}))
}

func (c *Coordinator) storeWishlist(list domain.Wishlist, state domain.SyncState) {
	if err := c.store.SaveWishlist(list); err != nil {
		c.logger.Error("persisting wishlist failed", "error", err)
	}
	if err := c.store.SetSyncState(domain.ListWishlist, state); err != nil {
		c.logger.Error("persisting wishlist sync status failed", "error", err)
	}
	c.emitter.Emit(notify.NewEvent(notify.EventWishlistUpdated, notify.WishlistEventData{
		ProductIDs: list,
		State:      state,
		Badge:      len(list),
	}))
}
