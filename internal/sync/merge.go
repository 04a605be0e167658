package sync

import (
	"context"

	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
)

// MergeOnLogin folds the anonymous local lists into the account's
// server-side copies. The merge is union-only: items the account
// already has are never removed, and local items already present
// remotely are skipped, so running it twice changes nothing.
//
// Additions go out one request at a time. The backend list endpoints
// have no batch operation, and since every response is a full snapshot
// a parallel fan-out would just race the snapshots against each other.
func (c *Coordinator) MergeOnLogin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, ok := c.resolver.Resolve(ctx)
	if !ok {
		return errs.IdentityUnresolved("cannot merge lists without a resolved identity")
	}

	c.mergeWishlist(ctx, identity)
	c.mergeCart(ctx, identity)
	return nil
}

func (c *Coordinator) mergeWishlist(ctx context.Context, identity domain.UserIdentity) {
	local := c.store.Wishlist()

	remote, err := c.wishes.Fetch(ctx, identity)
	if err != nil {
		c.logger.Warn("wishlist merge skipped, backend unreachable", "error", err)
		c.storeWishlist(local, domain.SyncDiverged)
		return
	}

	snapshot := remote
	state := domain.SyncSynced
	for _, productID := range local.Minus(remote) {
		result, err := c.wishes.Add(ctx, identity, productID)
		if err != nil {
			c.logger.Warn("wishlist merge add failed", "product_id", productID, "error", err)
			state = domain.SyncDiverged
			continue
		}
		snapshot = result
	}

	if state == domain.SyncDiverged {
		// Keep local items the backend never accepted.
		for _, productID := range local {
			snapshot.Add(productID)
		}
	}
	c.storeWishlist(snapshot, state)
}

func (c *Coordinator) mergeCart(ctx context.Context, identity domain.UserIdentity) {
	local := c.store.Cart()

	remote, err := c.carts.Fetch(ctx, identity)
	if err != nil {
		c.logger.Warn("cart merge skipped, backend unreachable", "error", err)
		c.storeCart(local, domain.SyncDiverged)
		return
	}

	snapshot := remote
	state := domain.SyncSynced
	for _, item := range local {
		if containsVariant(remote, item) {
			continue
		}
		result, err := c.carts.Add(ctx, identity, item)
		if err != nil {
			c.logger.Warn("cart merge add failed", "product_id", item.ProductID, "error", err)
			state = domain.SyncDiverged
			continue
		}
		snapshot = result
	}

	if state == domain.SyncDiverged {
		for _, item := range local {
			if !containsVariant(snapshot, item) {
				snapshot.Add(item)
			}
		}
	}
	c.storeCart(snapshot, state)
}

func containsVariant(cart domain.Cart, item domain.CartItem) bool {
	for _, line := range cart {
		if line.SameVariant(item) {
			return true
		}
	}
	return false
}
