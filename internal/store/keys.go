package store

// Storage keys. The jewel_ prefixes match the keys the web storefront
// used in browser localStorage, which keeps exported data recognizable.
const (
	keyCart     = "jewel_cart"
	keyWishlist = "jewel_wishlist"
	keyToken    = "jewel_token"
	keyUser     = "jewel_user"
	keyDarkMode = "jewel_darkMode"

	// Per-list sync state, suffixed with the list kind.
	keySyncStatePrefix = "jewel_syncstate:"

	// Catalog cache entity prefix.
	keyProductPrefix = "product:"
)
