package providers

import (
	"github.com/samber/do/v2"

	"github.com/jewelapp/jewel-client/internal/catalog"
	"github.com/jewelapp/jewel-client/internal/checkout"
	"github.com/jewelapp/jewel-client/internal/identity"
	"github.com/jewelapp/jewel-client/internal/logger"
	"github.com/jewelapp/jewel-client/internal/remote"
	"github.com/jewelapp/jewel-client/internal/session"
	"github.com/jewelapp/jewel-client/internal/sync"
	"github.com/jewelapp/jewel-client/internal/validation"
)

// ProvideIdentityResolver provides the identity resolver.
func ProvideIdentityResolver(i do.Injector) (*identity.Resolver, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	profile := do.MustInvoke[*remote.ProfileService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return identity.NewResolver(storeHandle.Store, profile, log.Logger), nil
}

// ProvideSyncCoordinator provides the cart and wishlist sync coordinator.
func ProvideSyncCoordinator(i do.Injector) (*sync.Coordinator, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	carts := do.MustInvoke[*remote.CartService](i)
	wishes := do.MustInvoke[*remote.WishlistService](i)
	resolver := do.MustInvoke[*identity.Resolver](i)
	busHandle := do.MustInvoke[*BusHandle](i)
	cat := do.MustInvoke[*catalog.Service](i)
	log := do.MustInvoke[*logger.Logger](i)

	return sync.NewCoordinator(storeHandle.Store, carts, wishes, resolver, busHandle.Bus, cat, log.Logger), nil
}

// ProvideSessionService provides the login and logout flows.
func ProvideSessionService(i do.Injector) (*session.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	auth := do.MustInvoke[*remote.AuthService](i)
	coordinator := do.MustInvoke[*sync.Coordinator](i)
	resolver := do.MustInvoke[*identity.Resolver](i)
	busHandle := do.MustInvoke[*BusHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return session.NewService(storeHandle.Store, auth, coordinator, resolver, busHandle.Bus, log.Logger), nil
}

// ProvideCheckoutService provides the checkout service.
func ProvideCheckoutService(i do.Injector) (*checkout.Service, error) {
	coordinator := do.MustInvoke[*sync.Coordinator](i)
	resolver := do.MustInvoke[*identity.Resolver](i)
	orders := do.MustInvoke[*remote.OrderService](i)
	v := do.MustInvoke[*validation.Validator](i)
	busHandle := do.MustInvoke[*BusHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return checkout.NewService(coordinator, resolver, orders, v, busHandle.Bus, log.Logger), nil
}
