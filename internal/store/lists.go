package store

import "github.com/jewelapp/jewel-client/internal/domain"

// Cart returns the locally cached cart. Missing or malformed data yields
// an empty cart.
func (s *Store) Cart() domain.Cart {
	var cart domain.Cart
	if !s.getCache(keyCart, &cart) {
		return domain.Cart{}
	}
	return cart
}

// SaveCart overwrites the cached cart.
func (s *Store) SaveCart(cart domain.Cart) error {
	return s.set(keyCart, cart)
}

// Wishlist returns the locally cached wishlist. Missing or malformed data
// yields an empty wishlist.
func (s *Store) Wishlist() domain.Wishlist {
	var wishlist domain.Wishlist
	if !s.getCache(keyWishlist, &wishlist) {
		return domain.Wishlist{}
	}
	return wishlist
}

// SaveWishlist overwrites the cached wishlist.
func (s *Store) SaveWishlist(wishlist domain.Wishlist) error {
	return s.set(keyWishlist, wishlist)
}

// SyncState returns the recorded sync state for a list.
// A list with no recorded state is pending: nothing has been pushed yet.
func (s *Store) SyncState(kind domain.ListKind) domain.SyncState {
	var state domain.SyncState
	if !s.getCache(keySyncStatePrefix+string(kind), &state) {
		return domain.SyncPending
	}
	return state
}

// SetSyncState records the sync state for a list.
func (s *Store) SetSyncState(kind domain.ListKind, state domain.SyncState) error {
	return s.set(keySyncStatePrefix+string(kind), state)
}
