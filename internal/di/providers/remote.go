package providers

import (
	"github.com/samber/do/v2"

	"github.com/jewelapp/jewel-client/internal/config"
	"github.com/jewelapp/jewel-client/internal/logger"
	"github.com/jewelapp/jewel-client/internal/remote"
)

// ProvideRemoteClient provides the backend HTTP client. The local
// store is the token source so requests pick up the saved session.
func ProvideRemoteClient(i do.Injector) (*remote.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return remote.NewClient(cfg.API.BaseURL, storeHandle.Store, log.Logger), nil
}

// ProvideCartBackend provides the server-side cart API.
func ProvideCartBackend(i do.Injector) (*remote.CartService, error) {
	return remote.NewCartService(do.MustInvoke[*remote.Client](i)), nil
}

// ProvideWishlistBackend provides the server-side wishlist API.
func ProvideWishlistBackend(i do.Injector) (*remote.WishlistService, error) {
	return remote.NewWishlistService(do.MustInvoke[*remote.Client](i)), nil
}

// ProvideAuthBackend provides the credential exchange API.
func ProvideAuthBackend(i do.Injector) (*remote.AuthService, error) {
	return remote.NewAuthService(do.MustInvoke[*remote.Client](i)), nil
}

// ProvideProfileBackend provides the user profile API.
func ProvideProfileBackend(i do.Injector) (*remote.ProfileService, error) {
	return remote.NewProfileService(do.MustInvoke[*remote.Client](i)), nil
}

// ProvideProductBackend provides the product listing API.
func ProvideProductBackend(i do.Injector) (*remote.ProductService, error) {
	return remote.NewProductService(do.MustInvoke[*remote.Client](i)), nil
}

// ProvideOrderBackend provides the order API.
func ProvideOrderBackend(i do.Injector) (*remote.OrderService, error) {
	return remote.NewOrderService(do.MustInvoke[*remote.Client](i)), nil
}
