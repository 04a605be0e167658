// Package di provides dependency injection configuration for the Jewel client.
package di

import (
	"github.com/samber/do/v2"

	"github.com/jewelapp/jewel-client/internal/catalog"
	"github.com/jewelapp/jewel-client/internal/checkout"
	"github.com/jewelapp/jewel-client/internal/config"
	"github.com/jewelapp/jewel-client/internal/di/providers"
	"github.com/jewelapp/jewel-client/internal/identity"
	"github.com/jewelapp/jewel-client/internal/logger"
	"github.com/jewelapp/jewel-client/internal/media/images"
	"github.com/jewelapp/jewel-client/internal/remote"
	"github.com/jewelapp/jewel-client/internal/session"
	"github.com/jewelapp/jewel-client/internal/sync"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Local state
	do.Provide(injector, providers.ProvideBus)
	do.Provide(injector, providers.ProvideStore)

	// Backend API
	do.Provide(injector, providers.ProvideRemoteClient)
	do.Provide(injector, providers.ProvideCartBackend)
	do.Provide(injector, providers.ProvideWishlistBackend)
	do.Provide(injector, providers.ProvideAuthBackend)
	do.Provide(injector, providers.ProvideProfileBackend)
	do.Provide(injector, providers.ProvideProductBackend)
	do.Provide(injector, providers.ProvideOrderBackend)

	// Catalog
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Business services
	do.Provide(injector, providers.ProvideIdentityResolver)
	do.Provide(injector, providers.ProvideSyncCoordinator)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideCheckoutService)

	return injector
}

// Bootstrap triggers lazy initialization of all core services and
// returns handles for lifecycle management.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.BusHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	_ = do.MustInvoke[*remote.Client](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*catalog.Service](injector)
	_ = do.MustInvoke[*images.Processor](injector)

	_ = do.MustInvoke[*identity.Resolver](injector)
	_ = do.MustInvoke[*sync.Coordinator](injector)
	_ = do.MustInvoke[*session.Service](injector)
	_ = do.MustInvoke[*checkout.Service](injector)

	return nil
}
