package domain

// ListKind names a server-held user list.
type ListKind string

const (
	// ListCart is the shopping cart list.
	ListCart ListKind = "cart"
	// ListWishlist is the wishlist.
	ListWishlist ListKind = "wishlist"
)

// SyncState describes how the local copy of a list relates to the server copy.
type SyncState string

const (
	// SyncSynced means the local cache matches the last authoritative snapshot.
	SyncSynced SyncState = "synced"
	// SyncPending means local mutations exist that have never been pushed
	// (anonymous browsing, or no successful remote call yet).
	SyncPending SyncState = "pending"
	// SyncDiverged means a remote mutation failed after the optimistic local
	// mutation was applied, so the two copies are known to differ.
	SyncDiverged SyncState = "diverged"
)
